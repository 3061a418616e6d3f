package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/wirebuf/internal/buffer"
	"github.com/rs/zerolog/log"
)

const (
	FixedHeaderLen uint16 = 20
	FlagHasAuth    uint16 = 0x01
	FlagIsResponse uint16 = 0x02
	FlagIsError    uint16 = 0x04
)

// Header field offsets. Every field is big-endian.
const (
	offMagic       = 0
	offVersion     = 4
	offHeaderLen   = 6
	offMessageID   = 8
	offMessageType = 12
	offFlags       = 14
	offPayloadLen  = 16
)

var (
	ErrShortHeader       = errors.New("frame: short fixed header")
	ErrInvalidHeaderLen  = errors.New("frame: invalid fixed header length")
	ErrHeaderLenTooSmall = errors.New("frame: header_len smaller than fixed header")
	ErrHeaderLenMismatch = errors.New("frame: auth present but header_len has no auth bytes")
	ErrPayloadTooLarge   = errors.New("frame: payload too large")
	ErrAuthTooLarge      = errors.New("frame: auth too large")
)

// Header is the fixed wire header.
type Header struct {
	Magic       uint32
	Version     uint16
	HeaderLen   uint16
	MessageID   uint32
	MessageType uint16
	Flags       uint16
	PayloadLen  uint32
}

// Frame is one complete wire message.
type Frame struct {
	Header  Header
	Auth    []byte
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxAuthBytes    uint32
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxAuthBytes:    0xffff - uint32(FixedHeaderLen),
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}

	if h.HeaderLen < FixedHeaderLen {
		return Frame{}, ErrHeaderLenTooSmall
	}

	authLen := uint32(h.HeaderLen - FixedHeaderLen)
	if h.Flags&FlagHasAuth != 0 && authLen == 0 {
		return Frame{}, ErrHeaderLenMismatch
	}
	if authLen > limits.MaxAuthBytes {
		return Frame{}, ErrAuthTooLarge
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	auth := make([]byte, authLen)
	if authLen > 0 {
		if _, err := io.ReadFull(r, auth); err != nil {
			return Frame{}, err
		}
	}

	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}

	log.Debug().
		Uint32("message_id", h.MessageID).
		Uint16("message_type", h.MessageType).
		Uint32("payload_len", h.PayloadLen).
		Msg("frame read")
	return Frame{Header: h, Auth: auth, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	authLen := uint64(len(f.Auth))
	payloadLen := uint64(len(f.Payload))
	if authLen > uint64(limits.MaxAuthBytes) || authLen > uint64(0xffff-FixedHeaderLen) {
		return ErrAuthTooLarge
	}
	if payloadLen > uint64(limits.MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}

	h := f.Header
	h.HeaderLen = FixedHeaderLen + uint16(authLen)
	h.PayloadLen = uint32(payloadLen)
	if authLen > 0 {
		h.Flags |= FlagHasAuth
	} else {
		h.Flags &^= FlagHasAuth
	}

	hb := EncodeHeader(h)
	if _, err := w.Write(hb); err != nil {
		return err
	}
	if authLen > 0 {
		if _, err := w.Write(f.Auth); err != nil {
			return err
		}
	}
	if payloadLen > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return err
		}
	}
	log.Debug().
		Uint32("message_id", h.MessageID).
		Uint16("message_type", h.MessageType).
		Uint32("payload_len", h.PayloadLen).
		Msg("frame written")
	return nil
}

// EncodeHeader lays h out in FixedHeaderLen bytes.
func EncodeHeader(h Header) []byte {
	buf, _ := buffer.WithSize(int(FixedHeaderLen))
	// Offsets are constant and every value fits its width, so these
	// writes cannot fail.
	mustPut(buf.WriteUint32(uint64(h.Magic), offMagic, buffer.BigEndian))
	mustPut(buf.WriteUint16(uint64(h.Version), offVersion, buffer.BigEndian))
	mustPut(buf.WriteUint16(uint64(h.HeaderLen), offHeaderLen, buffer.BigEndian))
	mustPut(buf.WriteUint32(uint64(h.MessageID), offMessageID, buffer.BigEndian))
	mustPut(buf.WriteUint16(uint64(h.MessageType), offMessageType, buffer.BigEndian))
	mustPut(buf.WriteUint16(uint64(h.Flags), offFlags, buffer.BigEndian))
	mustPut(buf.WriteUint32(uint64(h.PayloadLen), offPayloadLen, buffer.BigEndian))
	return buf.Bytes()
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != int(FixedHeaderLen) {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidHeaderLen, len(b))
	}
	buf := buffer.FromBytes(b)
	var (
		h   Header
		err error
	)
	read32 := func(off int) uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = buf.ReadUint32(off, buffer.BigEndian)
		return v
	}
	read16 := func(off int) uint16 {
		if err != nil {
			return 0
		}
		var v uint16
		v, err = buf.ReadUint16(off, buffer.BigEndian)
		return v
	}
	h.Magic = read32(offMagic)
	h.Version = read16(offVersion)
	h.HeaderLen = read16(offHeaderLen)
	h.MessageID = read32(offMessageID)
	h.MessageType = read16(offMessageType)
	h.Flags = read16(offFlags)
	h.PayloadLen = read32(offPayloadLen)
	if err != nil {
		return Header{}, err
	}
	return h, nil
}

func mustPut(err error) {
	if err != nil {
		panic(err)
	}
}
