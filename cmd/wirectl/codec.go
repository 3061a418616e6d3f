package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/danmuck/wirebuf/internal/protocol/frame"
	"github.com/danmuck/wirebuf/internal/protocol/layout"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEncode(a *app) *cobra.Command {
	var (
		framed    bool
		messageID uint32
	)
	cmd := &cobra.Command{
		Use:   "encode <layout> [name=value...]",
		Short: "Encode field values and print the message as hex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.registry.Get(args[0])
			if err != nil {
				return err
			}
			values, err := parseAssignments(l, args[1:])
			if err != nil {
				return err
			}
			buf, err := l.Encode(values)
			if err != nil {
				return err
			}
			out := buf.Bytes()
			if framed {
				out, err = a.frame(l, messageID, out)
				if err != nil {
					return err
				}
			}
			fmtLine(cmd.OutOrStdout(), "%s", hex.EncodeToString(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&framed, "frame", false, "wrap the message in a frame header")
	cmd.Flags().Uint32Var(&messageID, "message-id", 1, "frame message id")
	return cmd
}

func newDecode(a *app) *cobra.Command {
	var framed bool
	cmd := &cobra.Command{
		Use:   "decode <layout> <hex>",
		Short: "Decode a hex message and print its fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.registry.Get(args[0])
			if err != nil {
				return err
			}
			raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(args[1]), "0x"))
			if err != nil {
				return errors.Wrap(err, "decode hex input")
			}
			if framed {
				r := bytes.NewReader(raw)
				f, err := frame.ReadFrame(r, a.cfg.Limits)
				if err != nil {
					return errors.Wrap(err, "read frame")
				}
				if r.Len() != 0 {
					return errors.Errorf("%d trailing bytes after frame", r.Len())
				}
				if f.Header.MessageType != l.MessageType {
					return errors.Errorf("frame message_type=%d does not match layout %s (%d)",
						f.Header.MessageType, l.Name, l.MessageType)
				}
				raw = f.Payload
			}
			values, err := l.Decode(buffer.FromBytes(raw))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range l.Fields {
				fmtLine(out, "%s=%s", f.Name, layout.FormatValue(f, values[f.Name]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&framed, "frame", false, "input starts with a frame header")
	return cmd
}

func (a *app) frame(l layout.Layout, messageID uint32, payload []byte) ([]byte, error) {
	var out bytes.Buffer
	err := frame.WriteFrame(&out, frame.Frame{
		Header: frame.Header{
			Magic:       a.cfg.Magic,
			Version:     a.cfg.Version,
			MessageID:   messageID,
			MessageType: l.MessageType,
		},
		Payload: payload,
	}, a.cfg.Limits)
	if err != nil {
		return nil, errors.Wrap(err, "write frame")
	}
	return out.Bytes(), nil
}

func parseAssignments(l layout.Layout, args []string) (layout.Values, error) {
	values := make(layout.Values, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.Errorf("expected name=value, got %q", arg)
		}
		if _, dup := values[name]; dup {
			return nil, errors.Errorf("field %s assigned more than once", name)
		}
		f, found := l.Lookup(name)
		if !found {
			return nil, fmt.Errorf("%w: %s.%s", layout.ErrUnknownField, l.Name, name)
		}
		v, err := layout.ParseValue(f, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

func fmtLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
