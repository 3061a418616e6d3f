// Package layout describes messages as fields at fixed offsets and moves
// them in and out of a buffer.Buffer.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindU8    Kind = "u8"
	KindU16   Kind = "u16"
	KindU32   Kind = "u32"
	KindBytes Kind = "bytes"
)

func (k Kind) bits() int {
	switch k {
	case KindU8:
		return 8
	case KindU16:
		return 16
	case KindU32:
		return 32
	default:
		return 0
	}
}

var (
	ErrUnknownField  = errors.New("layout: unknown field")
	ErrKindMismatch  = errors.New("layout: value kind mismatch")
	ErrValueTooLong  = errors.New("layout: bytes value longer than field")
	ErrSizeMismatch  = errors.New("layout: buffer size mismatch")
	ErrUnknownLayout = errors.New("layout: unknown layout")
	ErrDuplicate     = errors.New("layout: duplicate layout")
	ErrSizeTooLarge  = errors.New("layout: size too large")
)

// MaxSize bounds a message body. It matches the default frame payload limit.
const MaxSize = 8 * 1024 * 1024

// Field is one fixed-offset slot. Length is only read for KindBytes; Order
// is ignored for KindU8 and KindBytes.
type Field struct {
	Name   string
	Offset int
	Kind   Kind
	Order  buffer.ByteOrder
	Length int
}

// Width is the number of bytes the field occupies.
func (f Field) Width() int {
	if f.Kind == KindBytes {
		return f.Length
	}
	return f.Kind.bits() / 8
}

// Layout is a named message of Size bytes. MessageType is the frame
// message type it travels under.
type Layout struct {
	Name        string
	MessageType uint16
	Size        int
	Fields      []Field
}

// Value holds an integer for numeric kinds or raw bytes for KindBytes.
type Value struct {
	Uint  uint64
	Bytes []byte
}

type Values map[string]Value

func Uint(v uint64) Value {
	return Value{Uint: v}
}

func Bytes(b []byte) Value {
	return Value{Bytes: buffer.FromBytes(b).Bytes()}
}

type ValidationError struct {
	Layout string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("layout: %s: %s", e.Layout, e.Reason)
	}
	return fmt.Sprintf("layout: %s field=%s: %s", e.Layout, e.Field, e.Reason)
}

// Validate checks that every field is well formed, lies inside Size and
// does not overlap another field.
func (l Layout) Validate() error {
	log.Debug().Str("layout", l.Name).Int("fields", len(l.Fields)).Msg("layout validate")
	if l.Name == "" {
		return ValidationError{Reason: "missing name"}
	}
	if l.Size < 0 {
		return ValidationError{Layout: l.Name, Reason: "negative size"}
	}
	if l.Size > MaxSize {
		return ValidationError{Layout: l.Name, Reason: fmt.Sprintf("size %d exceeds %d", l.Size, MaxSize)}
	}
	seen := make(map[string]struct{}, len(l.Fields))
	for _, f := range l.Fields {
		if err := l.validateField(f); err != nil {
			log.Error().Err(err).Str("layout", l.Name).Msg("layout invalid")
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return ValidationError{Layout: l.Name, Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = struct{}{}
	}

	end, owner := 0, ""
	for _, f := range l.sortedFields() {
		if f.Width() == 0 {
			continue
		}
		if f.Offset < end {
			return ValidationError{
				Layout: l.Name,
				Field:  f.Name,
				Reason: fmt.Sprintf("overlaps field %s", owner),
			}
		}
		end, owner = f.Offset+f.Width(), f.Name
	}
	return nil
}

func (l Layout) validateField(f Field) error {
	if f.Name == "" {
		return ValidationError{Layout: l.Name, Reason: "field missing name"}
	}
	switch f.Kind {
	case KindU8:
	case KindU16, KindU32:
		if f.Order != buffer.BigEndian && f.Order != buffer.LittleEndian {
			return ValidationError{Layout: l.Name, Field: f.Name, Reason: "missing byte order"}
		}
	case KindBytes:
		if f.Length < 0 {
			return ValidationError{Layout: l.Name, Field: f.Name, Reason: "negative length"}
		}
	default:
		return ValidationError{Layout: l.Name, Field: f.Name, Reason: fmt.Sprintf("unknown kind %q", f.Kind)}
	}
	if f.Offset < 0 || f.Offset > l.Size-f.Width() {
		return ValidationError{Layout: l.Name, Field: f.Name, Reason: "outside message size"}
	}
	return nil
}

// Lookup returns the named field.
func (l Layout) Lookup(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Encode allocates Size bytes and writes every value in values. Fields
// without a value stay zero.
func (l Layout) Encode(values Values) (*buffer.Buffer, error) {
	for name := range values {
		if _, ok := l.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, l.Name, name)
		}
	}
	if l.Size > MaxSize {
		return nil, fmt.Errorf("%w: %s size=%d", ErrSizeTooLarge, l.Name, l.Size)
	}
	buf, err := buffer.WithSize(l.Size)
	if err != nil {
		return nil, err
	}
	for _, f := range l.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if err := putValue(buf, f, v); err != nil {
			return nil, fmt.Errorf("layout %s field %s: %w", l.Name, f.Name, err)
		}
	}
	return buf, nil
}

// Decode reads every field out of buf, which must be exactly Size bytes.
func (l Layout) Decode(buf *buffer.Buffer) (Values, error) {
	if buf.Len() != l.Size {
		return nil, fmt.Errorf("%w: %s want=%d got=%d", ErrSizeMismatch, l.Name, l.Size, buf.Len())
	}
	out := make(Values, len(l.Fields))
	for _, f := range l.Fields {
		v, err := getValue(buf, f)
		if err != nil {
			return nil, fmt.Errorf("layout %s field %s: %w", l.Name, f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

func putValue(buf *buffer.Buffer, f Field, v Value) error {
	if f.Kind == KindBytes {
		if v.Uint != 0 {
			return ErrKindMismatch
		}
		if len(v.Bytes) > f.Length {
			return ErrValueTooLong
		}
		return buf.Write(v.Bytes, f.Offset)
	}
	if v.Bytes != nil {
		return ErrKindMismatch
	}
	return buf.WriteUint(f.Kind.bits(), v.Uint, f.Offset, f.Order)
}

func getValue(buf *buffer.Buffer, f Field) (Value, error) {
	if f.Kind == KindBytes {
		b, err := buf.Read(f.Offset, f.Length)
		if err != nil {
			return Value{}, err
		}
		return Value{Bytes: b}, nil
	}
	n, err := buf.ReadUint(f.Kind.bits(), f.Offset, f.Order)
	if err != nil {
		return Value{}, err
	}
	return Value{Uint: n}, nil
}

func (l Layout) sortedFields() []Field {
	out := make([]Field, len(l.Fields))
	copy(out, l.Fields)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}
