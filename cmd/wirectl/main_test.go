package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/danmuck/wirebuf/internal/logging"
	"github.com/danmuck/wirebuf/internal/protocol/layout"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func initConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wirectl.toml")
	_, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	return path
}

func TestLayoutsListsConfigured(t *testing.T) {
	path := initConfig(t)
	out, err := run(t, "layouts", "-c", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ack\t"))
	assert.True(t, strings.HasPrefix(lines[1], "hello\t"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	path := initConfig(t)

	out, err := run(t, "encode", "-c", path, "hello", "magic=0xfeedface", "port=8080", "tag=6869")
	require.NoError(t, err)
	assert.Equal(t, "feedface0000901f6869000000000000", strings.TrimSpace(out))

	out, err = run(t, "decode", "-c", path, "hello", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"magic=0xfeedface",
		"version=0x0",
		"port=0x1f90",
		"tag=6869000000000000",
	}, "\n"), strings.TrimSpace(out))
}

func TestEncodeDecodeFramed(t *testing.T) {
	path := initConfig(t)

	out, err := run(t, "encode", "-c", path, "--frame", "--message-id", "7", "ack", "id=0xcafebabe", "status=1")
	require.NoError(t, err)
	hexFrame := strings.TrimSpace(out)
	// 20-byte header followed by the 8-byte ack body.
	assert.Len(t, hexFrame, (20+8)*2)
	assert.True(t, strings.HasSuffix(hexFrame, "bebafeca00010000"), hexFrame)

	out, err = run(t, "decode", "-c", path, "--frame", "ack", hexFrame)
	require.NoError(t, err)
	assert.Contains(t, out, "id=0xcafebabe")
	assert.Contains(t, out, "status=0x1")

	_, err = run(t, "decode", "-c", path, "--frame", "hello", hexFrame)
	assert.Error(t, err)

	_, err = run(t, "decode", "-c", path, "--frame", "ack", hexFrame+"00")
	assert.Error(t, err)
}

func TestEnvLogLevelOverridesConfig(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()
	path := initConfig(t)

	t.Setenv(logging.EnvLogLevel, "debug")
	_, err := run(t, "layouts", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}

func TestEncodeRejectsBadInput(t *testing.T) {
	path := initConfig(t)

	_, err := run(t, "encode", "-c", path, "hello", "version=256")
	assert.ErrorIs(t, err, buffer.ErrValueOutOfRange)

	_, err = run(t, "encode", "-c", path, "hello", "bogus=1")
	assert.ErrorIs(t, err, layout.ErrUnknownField)

	_, err = run(t, "encode", "-c", path, "hello", "magic")
	assert.Error(t, err)

	_, err = run(t, "encode", "-c", path, "hello", "port=1", "port=2")
	assert.Error(t, err)

	_, err = run(t, "encode", "-c", path, "missing")
	assert.ErrorIs(t, err, layout.ErrUnknownLayout)
}
