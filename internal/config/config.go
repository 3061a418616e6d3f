package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/danmuck/wirebuf/internal/protocol/frame"
	"github.com/danmuck/wirebuf/internal/protocol/layout"
	"github.com/pkg/errors"
)

// Config is the resolved wirectl configuration. An empty LogLevel leaves
// the logger at its runtime default.
type Config struct {
	LogLevel string
	Limits   frame.Limits
	Magic    uint32
	Version  uint16
	Layouts  []layout.Layout
}

type fileConfig struct {
	LogLevel        string         `toml:"log_level"`
	MaxAuthBytes    uint32         `toml:"max_auth_bytes"`
	MaxPayloadBytes uint32         `toml:"max_payload_bytes"`
	Magic           uint32         `toml:"magic"`
	Version         uint16         `toml:"version"`
	Layouts         []layoutConfig `toml:"layout"`
}

type layoutConfig struct {
	Name        string        `toml:"name"`
	MessageType uint16        `toml:"message_type"`
	Size        int           `toml:"size"`
	Fields      []fieldConfig `toml:"field"`
}

type fieldConfig struct {
	Name   string `toml:"name"`
	Offset int    `toml:"offset"`
	Kind   string `toml:"kind"`
	Order  string `toml:"order"`
	Length int    `toml:"length"`
}

const (
	DefaultMagic   uint32 = 0xfeedface
	DefaultVersion uint16 = 1
)

func Default() Config {
	return Config{
		Limits:   frame.DefaultLimits(),
		Magic:    DefaultMagic,
		Version:  DefaultVersion,
	}
}

// Load reads path over Default. Keys absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config %s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("max_auth_bytes") {
		cfg.Limits.MaxAuthBytes = raw.MaxAuthBytes
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.Limits.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("magic") {
		cfg.Magic = raw.Magic
	}
	if meta.IsDefined("version") {
		cfg.Version = raw.Version
	}

	for i, lc := range raw.Layouts {
		l, err := lc.toLayout()
		if err != nil {
			return Config{}, errors.Wrapf(err, "layout[%d]", i)
		}
		cfg.Layouts = append(cfg.Layouts, l)
	}
	return cfg, nil
}

// Registry validates and registers every configured layout.
func (c Config) Registry() (*layout.Registry, error) {
	reg := layout.NewRegistry()
	for _, l := range c.Layouts {
		if err := reg.Register(l); err != nil {
			return nil, errors.Wrapf(err, "register layout %q", l.Name)
		}
	}
	return reg, nil
}

func (lc layoutConfig) toLayout() (layout.Layout, error) {
	l := layout.Layout{
		Name:        strings.TrimSpace(lc.Name),
		MessageType: lc.MessageType,
		Size:        lc.Size,
		Fields:      make([]layout.Field, 0, len(lc.Fields)),
	}
	for _, fc := range lc.Fields {
		f := layout.Field{
			Name:   strings.TrimSpace(fc.Name),
			Offset: fc.Offset,
			Kind:   layout.Kind(strings.ToLower(strings.TrimSpace(fc.Kind))),
			Length: fc.Length,
		}
		if strings.TrimSpace(fc.Order) != "" {
			order, err := buffer.ParseByteOrder(fc.Order)
			if err != nil {
				return layout.Layout{}, errors.Wrapf(err, "field %q", fc.Name)
			}
			f.Order = order
		}
		l.Fields = append(l.Fields, f)
	}
	return l, nil
}
