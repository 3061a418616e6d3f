package buffer

import (
	"errors"
	"fmt"
)

var (
	ErrBufferOverflow   = errors.New("buffer: overflow")
	ErrValueOutOfRange  = errors.New("buffer: value out of range")
	ErrInvalidLength    = errors.New("buffer: invalid length")
	ErrInvalidByteOrder = errors.New("buffer: invalid byte order")
	ErrInvalidWidth     = errors.New("buffer: invalid integer width")
)

// RangeError reports an access outside [0, Len).
type RangeError struct {
	Op     string
	Offset int
	Width  int
	Len    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("buffer: %s offset=%d width=%d len=%d: overflow", e.Op, e.Offset, e.Width, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrBufferOverflow
}

// ValueError reports a value that does not fit the target width.
type ValueError struct {
	Op    string
	Value uint64
	Bits  int
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("buffer: %s value=%#x exceeds %d bits", e.Op, e.Value, e.Bits)
}

func (e *ValueError) Unwrap() error {
	return ErrValueOutOfRange
}
