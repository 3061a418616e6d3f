package tlv

import (
	"errors"
	"fmt"

	"github.com/danmuck/wirebuf/internal/buffer"
)

const HeaderLen = 7

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrTypeMismatch     = errors.New("tlv: field type mismatch")
	ErrValueLength      = errors.New("tlv: invalid value length")
	ErrInvalidBool      = errors.New("tlv: invalid bool value")
)

// Type IDs from tlv contract. 4 is reserved for a u64 type the buffer
// codecs do not carry.
const (
	TypeU8     uint8 = 1
	TypeU16    uint8 = 2
	TypeU32    uint8 = 3
	TypeBool   uint8 = 5
	TypeString uint8 = 6
	TypeBytes  uint8 = 7
)

// Field is one decoded TLV field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

func EncodeField(f Field) []byte {
	buf, _ := buffer.WithSize(HeaderLen + len(f.Value))
	if err := putField(buf, f); err != nil {
		// Only reachable for values longer than a u32 length prefix.
		panic(err)
	}
	return buf.Bytes()
}

func putField(buf *buffer.Buffer, f Field) error {
	if err := buf.WriteUint16(uint64(f.ID), 0, buffer.BigEndian); err != nil {
		return err
	}
	if err := buf.WriteUint8(uint64(f.Type), 2); err != nil {
		return err
	}
	if err := buf.WriteUint32(uint64(len(f.Value)), 3, buffer.BigEndian); err != nil {
		return err
	}
	return buf.Write(f.Value, HeaderLen)
}

func DecodeFields(payload []byte) ([]Field, error) {
	buf := buffer.FromBytes(payload)
	fields := make([]Field, 0)
	i := 0
	for i < buf.Len() {
		id, err := buf.ReadUint16(i, buffer.BigEndian)
		if err != nil {
			return nil, ErrShortFieldHeader
		}
		typeID, err := buf.ReadUint8(i + 2)
		if err != nil {
			return nil, ErrShortFieldHeader
		}
		l, err := buf.ReadUint32(i+3, buffer.BigEndian)
		if err != nil {
			return nil, ErrShortFieldHeader
		}
		i += HeaderLen
		if uint64(l) > uint64(buf.Len()-i) {
			return nil, ErrShortFieldValue
		}
		val, err := buf.Read(i, int(l))
		if err != nil {
			return nil, ErrShortFieldValue
		}
		i += int(l)
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func EncodeFields(fields []Field) []byte {
	out := make([]byte, 0)
	for _, f := range fields {
		out = append(out, EncodeField(f)...)
	}
	return out
}

func GetField(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func MustType(f Field, expected uint8) error {
	if f.Type != expected {
		return fmt.Errorf("%w: field %d got %d want %d", ErrTypeMismatch, f.ID, f.Type, expected)
	}
	return nil
}

// NewU8 creates a uint8 TLV field.
func NewU8(id uint16, v uint8) Field {
	return Field{ID: id, Type: TypeU8, Value: []byte{v}}
}

// NewU16 creates a big-endian uint16 TLV field.
func NewU16(id uint16, v uint16) Field {
	return Field{ID: id, Type: TypeU16, Value: putUint(16, uint64(v))}
}

// NewU32 creates a big-endian uint32 TLV field.
func NewU32(id uint16, v uint32) Field {
	return Field{ID: id, Type: TypeU32, Value: putUint(32, uint64(v))}
}

func NewBool(id uint16, v bool) Field {
	b := byte(0)
	if v {
		b = 1
	}
	return Field{ID: id, Type: TypeBool, Value: []byte{b}}
}

func NewString(id uint16, v string) Field {
	return Field{ID: id, Type: TypeString, Value: []byte(v)}
}

// NewBytes creates a bytes TLV field holding a copy of v.
func NewBytes(id uint16, v []byte) Field {
	return Field{ID: id, Type: TypeBytes, Value: buffer.FromBytes(v).Bytes()}
}

func (f Field) U8() (uint8, error) {
	v, err := f.readUint(TypeU8, 8)
	return uint8(v), err
}

func (f Field) U16() (uint16, error) {
	v, err := f.readUint(TypeU16, 16)
	return uint16(v), err
}

func (f Field) U32() (uint32, error) {
	v, err := f.readUint(TypeU32, 32)
	return uint32(v), err
}

func (f Field) Bool() (bool, error) {
	if f.Type != TypeBool {
		return false, ErrTypeMismatch
	}
	if len(f.Value) != 1 {
		return false, ErrValueLength
	}
	switch f.Value[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

func (f Field) Str() (string, error) {
	if f.Type != TypeString {
		return "", ErrTypeMismatch
	}
	return string(f.Value), nil
}

// Raw returns a copy of a bytes field value.
func (f Field) Raw() ([]byte, error) {
	if f.Type != TypeBytes {
		return nil, ErrTypeMismatch
	}
	return buffer.FromBytes(f.Value).Bytes(), nil
}

func (f Field) readUint(want uint8, bits int) (uint64, error) {
	if f.Type != want {
		return 0, ErrTypeMismatch
	}
	if len(f.Value) != bits/8 {
		return 0, ErrValueLength
	}
	return buffer.FromBytes(f.Value).ReadUint(bits, 0, buffer.BigEndian)
}

func putUint(bits int, v uint64) []byte {
	buf, _ := buffer.WithSize(bits / 8)
	if err := buf.WriteUint(bits, v, 0, buffer.BigEndian); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
