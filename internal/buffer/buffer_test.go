package buffer_test

import (
	"errors"
	"testing"

	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSizeZeroFilled(t *testing.T) {
	b, err := buffer.WithSize(8)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, make([]byte, 8), b.Bytes())
}

func TestWithSizeNegative(t *testing.T) {
	b, err := buffer.WithSize(-1)
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, buffer.ErrInvalidLength))
}

func TestWithSizeZero(t *testing.T) {
	b, err := buffer.WithSize(0)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())

	got, err := b.Read(0, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)

	assert.NoError(t, b.Write(nil, 0))
	assert.ErrorIs(t, b.WriteUint8(1, 0), buffer.ErrBufferOverflow)
}

func TestFromBytesCopies(t *testing.T) {
	raw := []byte{1, 2, 3}
	b := buffer.FromBytes(raw)
	raw[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())
	assert.Equal(t, 3, b.Len())
}

func TestBytesAndReadReturnCopies(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3, 4})

	out := b.Bytes()
	out[0] = 0xff
	part, err := b.Read(1, 2)
	require.NoError(t, err)
	part[0] = 0xff

	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
}

func TestWriteRaw(t *testing.T) {
	b, err := buffer.WithSize(6)
	require.NoError(t, err)
	require.NoError(t, b.Write([]byte("abc"), 2))
	assert.Equal(t, []byte{0, 0, 'a', 'b', 'c', 0}, b.Bytes())
}

func TestWriteRawOverflowLeavesContent(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3, 4})

	err := b.Write([]byte{9, 9, 9}, 2)
	assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
	err = b.Write([]byte{9}, -1)
	assert.ErrorIs(t, err, buffer.ErrBufferOverflow)

	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
}

func TestReadOverflow(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3, 4})
	cases := []struct {
		name          string
		offset, count int
	}{
		{"past end", 2, 3},
		{"start past end", 5, 0},
		{"negative offset", -1, 1},
		{"negative count", 0, -1},
		{"huge count", 1, int(^uint(0) >> 1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := b.Read(c.offset, c.count)
			assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
		})
	}
}

func TestRangeErrorContext(t *testing.T) {
	b, err := buffer.WithSize(4)
	require.NoError(t, err)

	err = b.WriteUint32(1, 2, buffer.BigEndian)
	var rangeErr *buffer.RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, "write_u32", rangeErr.Op)
	assert.Equal(t, 2, rangeErr.Offset)
	assert.Equal(t, 4, rangeErr.Width)
	assert.Equal(t, 4, rangeErr.Len)
}

func TestIntegerRoundTrip(t *testing.T) {
	values := map[int][]uint64{
		8:  {0, 1, 0x7f, 0x80, 0xff},
		16: {0, 1, 0xff, 0x100, 0xbeef, 0xffff},
		32: {0, 1, 0xffff, 0x10000, 0xfeedface, 0xffffffff},
	}
	orders := []buffer.ByteOrder{buffer.BigEndian, buffer.LittleEndian}

	for bits, vs := range values {
		width := bits / 8
		for _, order := range orders {
			for offset := 0; offset+width <= 7; offset++ {
				for _, v := range vs {
					b, err := buffer.WithSize(7)
					require.NoError(t, err)
					require.NoError(t, b.WriteUint(bits, v, offset, order))
					got, err := b.ReadUint(bits, offset, order)
					require.NoError(t, err)
					assert.Equal(t, v, got, "bits=%d order=%s offset=%d", bits, order, offset)
				}
			}
		}
	}
}

func TestIntegerNonInterference(t *testing.T) {
	b, err := buffer.WithSize(10)
	require.NoError(t, err)

	require.NoError(t, b.WriteUint16(0xabcd, 3, buffer.LittleEndian))
	assert.Equal(t, []byte{0, 0, 0, 0xcd, 0xab, 0, 0, 0, 0, 0}, b.Bytes())

	require.NoError(t, b.WriteUint8(0x11, 9))
	require.NoError(t, b.WriteUint32(0x01020304, 5, buffer.BigEndian))
	assert.Equal(t, []byte{0, 0, 0, 0xcd, 0xab, 1, 2, 3, 4, 0x11}, b.Bytes())
}

func TestByteOrderLayout(t *testing.T) {
	b, err := buffer.WithSize(4)
	require.NoError(t, err)

	require.NoError(t, b.WriteUint32(0x01020304, 0, buffer.BigEndian))
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
	require.NoError(t, b.WriteUint32(0x01020304, 0, buffer.LittleEndian))
	assert.Equal(t, []byte{4, 3, 2, 1}, b.Bytes())

	v, err := b.ReadUint16(0, buffer.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0403), v)
}

func TestValueOutOfRange(t *testing.T) {
	b := buffer.FromBytes([]byte{1, 2, 3, 4})

	assert.ErrorIs(t, b.WriteUint8(0x100, 0), buffer.ErrValueOutOfRange)
	assert.ErrorIs(t, b.WriteUint16(0x10000, 0, buffer.BigEndian), buffer.ErrValueOutOfRange)
	assert.ErrorIs(t, b.WriteUint32(0xfeedfacecafe, 0, buffer.BigEndian), buffer.ErrValueOutOfRange)

	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
}

func TestOverflowCheckedBeforeValue(t *testing.T) {
	b, err := buffer.WithSize(2)
	require.NoError(t, err)
	err = b.WriteUint32(0x1_0000_0000, 0, buffer.BigEndian)
	assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
	assert.NotErrorIs(t, err, buffer.ErrValueOutOfRange)
}

func TestInvalidByteOrder(t *testing.T) {
	b, err := buffer.WithSize(4)
	require.NoError(t, err)

	assert.ErrorIs(t, b.WriteUint16(1, 0, buffer.ByteOrder(0)), buffer.ErrInvalidByteOrder)
	_, err = b.ReadUint32(0, buffer.ByteOrder(7))
	assert.ErrorIs(t, err, buffer.ErrInvalidByteOrder)
	assert.Equal(t, make([]byte, 4), b.Bytes())
}

func TestInvalidWidth(t *testing.T) {
	b, err := buffer.WithSize(8)
	require.NoError(t, err)
	assert.ErrorIs(t, b.WriteUint(64, 1, 0, buffer.BigEndian), buffer.ErrInvalidWidth)
	_, err = b.ReadUint(12, 0, buffer.BigEndian)
	assert.ErrorIs(t, err, buffer.ErrInvalidWidth)
}

func TestReadDoesNotMutate(t *testing.T) {
	b := buffer.FromBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	before := b.Bytes()
	_, _ = b.ReadUint32(0, buffer.LittleEndian)
	_, _ = b.ReadUint16(2, buffer.BigEndian)
	_, _ = b.ReadUint8(3)
	_, _ = b.Read(0, 4)
	_, _ = b.ReadUint32(1, buffer.BigEndian)
	assert.Equal(t, before, b.Bytes())
}

func TestLengthNeverChanges(t *testing.T) {
	b, err := buffer.WithSize(5)
	require.NoError(t, err)
	_ = b.Write([]byte{1, 2, 3, 4, 5, 6}, 0)
	_ = b.WriteUint32(1, 1, buffer.BigEndian)
	_ = b.WriteUint32(1, 3, buffer.BigEndian)
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 5, b.Clone().Len())
}

func TestParseByteOrder(t *testing.T) {
	for _, raw := range []string{"big", "BE", " Big-Endian "} {
		o, err := buffer.ParseByteOrder(raw)
		require.NoError(t, err)
		assert.Equal(t, buffer.BigEndian, o)
	}
	o, err := buffer.ParseByteOrder("le")
	require.NoError(t, err)
	assert.Equal(t, buffer.LittleEndian, o)

	_, err = buffer.ParseByteOrder("middle")
	assert.ErrorIs(t, err, buffer.ErrInvalidByteOrder)
}

func TestEqualAndClone(t *testing.T) {
	a := buffer.FromBytes([]byte{1, 2})
	c := a.Clone()
	assert.True(t, a.Equal(c))
	require.NoError(t, c.WriteUint8(3, 0))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "0102", a.Hex())
	assert.Equal(t, "\x01\x02", a.String())
}
