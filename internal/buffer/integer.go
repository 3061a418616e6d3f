package buffer

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects how multi-byte integers are laid out.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota + 1
	LittleEndian
)

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	default:
		return fmt.Sprintf("ByteOrder(%d)", uint8(o))
	}
}

// ParseByteOrder accepts "big"/"be" and "little"/"le", case-insensitive.
func ParseByteOrder(raw string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "big", "be", "big-endian", "bigendian":
		return BigEndian, nil
	case "little", "le", "little-endian", "littleendian":
		return LittleEndian, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidByteOrder, raw)
	}
}

func (o ByteOrder) codec() (binary.ByteOrder, error) {
	switch o {
	case BigEndian:
		return binary.BigEndian, nil
	case LittleEndian:
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidByteOrder, uint8(o))
	}
}

func (b *Buffer) WriteUint8(v uint64, offset int) error {
	if err := b.check("write_u8", offset, 1); err != nil {
		return err
	}
	if v > 0xff {
		return &ValueError{Op: "write_u8", Value: v, Bits: 8}
	}
	b.data[offset] = uint8(v)
	return nil
}

func (b *Buffer) WriteUint16(v uint64, offset int, order ByteOrder) error {
	if err := b.check("write_u16", offset, 2); err != nil {
		return err
	}
	if v > 0xffff {
		return &ValueError{Op: "write_u16", Value: v, Bits: 16}
	}
	codec, err := order.codec()
	if err != nil {
		return err
	}
	codec.PutUint16(b.data[offset:offset+2], uint16(v))
	return nil
}

func (b *Buffer) WriteUint32(v uint64, offset int, order ByteOrder) error {
	if err := b.check("write_u32", offset, 4); err != nil {
		return err
	}
	if v > 0xffffffff {
		return &ValueError{Op: "write_u32", Value: v, Bits: 32}
	}
	codec, err := order.codec()
	if err != nil {
		return err
	}
	codec.PutUint32(b.data[offset:offset+4], uint32(v))
	return nil
}

func (b *Buffer) ReadUint8(offset int) (uint8, error) {
	if err := b.check("read_u8", offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}

func (b *Buffer) ReadUint16(offset int, order ByteOrder) (uint16, error) {
	if err := b.check("read_u16", offset, 2); err != nil {
		return 0, err
	}
	codec, err := order.codec()
	if err != nil {
		return 0, err
	}
	return codec.Uint16(b.data[offset : offset+2]), nil
}

func (b *Buffer) ReadUint32(offset int, order ByteOrder) (uint32, error) {
	if err := b.check("read_u32", offset, 4); err != nil {
		return 0, err
	}
	codec, err := order.codec()
	if err != nil {
		return 0, err
	}
	return codec.Uint32(b.data[offset : offset+4]), nil
}

// WriteUint dispatches to the writer for bits (8, 16 or 32). order is ignored
// for 8-bit writes.
func (b *Buffer) WriteUint(bits int, v uint64, offset int, order ByteOrder) error {
	switch bits {
	case 8:
		return b.WriteUint8(v, offset)
	case 16:
		return b.WriteUint16(v, offset, order)
	case 32:
		return b.WriteUint32(v, offset, order)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidWidth, bits)
	}
}

// ReadUint dispatches to the reader for bits (8, 16 or 32).
func (b *Buffer) ReadUint(bits int, offset int, order ByteOrder) (uint64, error) {
	switch bits {
	case 8:
		v, err := b.ReadUint8(offset)
		return uint64(v), err
	case 16:
		v, err := b.ReadUint16(offset, order)
		return uint64(v), err
	case 32:
		v, err := b.ReadUint32(offset, order)
		return uint64(v), err
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, bits)
	}
}
