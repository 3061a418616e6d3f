package buffer

import (
	"bytes"
	"encoding/hex"
)

// Buffer is a fixed-length byte region with positional accessors.
type Buffer struct {
	data []byte
}

// WithSize allocates a zero-filled buffer of n bytes.
func WithSize(n int) (*Buffer, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	return &Buffer{data: make([]byte, n)}, nil
}

// FromBytes returns a buffer holding a copy of raw.
func FromBytes(raw []byte) *Buffer {
	return &Buffer{data: cloneBytes(raw)}
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Write copies p verbatim to [offset, offset+len(p)).
func (b *Buffer) Write(p []byte, offset int) error {
	if err := b.check("write", offset, len(p)); err != nil {
		return err
	}
	copy(b.data[offset:], p)
	return nil
}

// Read returns a copy of [offset, offset+count).
func (b *Buffer) Read(offset, count int) ([]byte, error) {
	if err := b.check("read", offset, count); err != nil {
		return nil, err
	}
	return cloneBytes(b.data[offset : offset+count]), nil
}

// Bytes returns a copy of the full content.
func (b *Buffer) Bytes() []byte {
	return cloneBytes(b.data)
}

func (b *Buffer) String() string {
	return string(b.data)
}

// Hex returns the content as lowercase hex.
func (b *Buffer) Hex() string {
	return hex.EncodeToString(b.data)
}

func (b *Buffer) Clone() *Buffer {
	return FromBytes(b.data)
}

func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(b.data, other.data)
}

// check rejects any range not contained in [0, Len). The comparison is
// written so offset+width cannot overflow int.
func (b *Buffer) check(op string, offset, width int) error {
	if offset < 0 || width < 0 || offset > len(b.data)-width {
		return &RangeError{Op: op, Offset: offset, Width: width, Len: len(b.data)}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
