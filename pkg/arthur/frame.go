package arthur

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FrameType tags the envelope's 3-bit type field.
type FrameType uint8

const (
	FrameTimestamp  FrameType = 0
	FrameSnapshot   FrameType = 1
	FrameAskDiff    FrameType = 2
	FrameAskRemoval FrameType = 3
	FrameBidDiff    FrameType = 4
	FrameBidRemoval FrameType = 5
	FrameTrade      FrameType = 6
	FrameDisconnect FrameType = 7
)

func (t FrameType) String() string {
	switch t {
	case FrameTimestamp:
		return "TIMESTAMP"
	case FrameSnapshot:
		return "SNAPSHOT"
	case FrameAskDiff:
		return "ASK-DIFF"
	case FrameAskRemoval:
		return "ASK-REMOVAL"
	case FrameBidDiff:
		return "BID-DIFF"
	case FrameBidRemoval:
		return "BID-REMOVAL"
	case FrameTrade:
		return "TRADE"
	case FrameDisconnect:
		return "DISCONNECT"
	default:
		return fmt.Sprintf("FrameType(%d)", uint8(t))
	}
}

// Frame is one decoded envelope: type tag, timestamp offset, and opaque
// payload bytes.
type Frame struct {
	Type    FrameType
	TsOff   uint16
	Payload []byte
}

const maxCompactLen = 31 // L5 values 1..31 are compact; 0 means "see L32"

// WriteFrame writes one frame: [type:3|L5:5][L32:32?][ts_off:16][payload].
func WriteFrame(w io.Writer, typ FrameType, payload []byte, tsOff uint16) error {
	if typ > 7 {
		return fmt.Errorf("arthur: write_frame: type %d out of range", typ)
	}
	L := len(payload)
	if L < 1 || uint64(L) > 0xFFFFFFFF {
		return fmt.Errorf("arthur: write_frame: payload length %d out of range", L)
	}

	var hdr []byte
	if L <= maxCompactLen {
		hdr = []byte{byte(typ)<<5 | byte(L)}
	} else {
		hdr = make([]byte, 5)
		hdr[0] = byte(typ) << 5
		binary.BigEndian.PutUint32(hdr[1:], uint32(L))
	}
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("arthur: write_frame: header: %w", err)
	}

	var tsBuf [2]byte
	binary.BigEndian.PutUint16(tsBuf[:], tsOff)
	if _, err := w.Write(tsBuf[:]); err != nil {
		return fmt.Errorf("arthur: write_frame: ts_off: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("arthur: write_frame: payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame. Returns io.EOF (unmodified) if the stream ends
// cleanly before any byte of a new frame; any other truncation is wrapped in
// ErrCorruptStream.
func ReadFrame(r io.Reader) (Frame, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("%w: frame header: %v", ErrCorruptStream, err)
	}

	typ := FrameType(b[0] >> 5)
	l5 := b[0] & 0x1F

	var L uint32
	if l5 != 0 {
		L = uint32(l5)
	} else {
		var lbuf [4]byte
		if _, err := io.ReadFull(r, lbuf[:]); err != nil {
			return Frame{}, fmt.Errorf("%w: extended length: %v", ErrCorruptStream, err)
		}
		L = binary.BigEndian.Uint32(lbuf[:])
		if L == 0 {
			return Frame{}, fmt.Errorf("%w: extended length is zero", ErrCorruptStream)
		}
	}

	var tsBuf [2]byte
	if _, err := io.ReadFull(r, tsBuf[:]); err != nil {
		return Frame{}, fmt.Errorf("%w: ts_off: %v", ErrCorruptStream, err)
	}
	tsOff := binary.BigEndian.Uint16(tsBuf[:])

	payload := make([]byte, L)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, fmt.Errorf("%w: payload: %v", ErrCorruptStream, err)
	}

	return Frame{Type: typ, TsOff: tsOff, Payload: payload}, nil
}

// SkipFrame advances past one frame without retaining its payload bytes, for
// readers that only need the type and timestamp offset. r needs no seek
// support: the payload is drained via io.CopyN, since the codec-level
// source is only required to be a forward reader.
func SkipFrame(r io.Reader) (FrameType, uint16, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			return 0, 0, io.EOF
		}
		return 0, 0, fmt.Errorf("%w: frame header: %v", ErrCorruptStream, err)
	}

	typ := FrameType(b[0] >> 5)
	l5 := b[0] & 0x1F

	var L uint32
	if l5 != 0 {
		L = uint32(l5)
	} else {
		var lbuf [4]byte
		if _, err := io.ReadFull(r, lbuf[:]); err != nil {
			return 0, 0, fmt.Errorf("%w: extended length: %v", ErrCorruptStream, err)
		}
		L = binary.BigEndian.Uint32(lbuf[:])
	}

	var tsBuf [2]byte
	if _, err := io.ReadFull(r, tsBuf[:]); err != nil {
		return 0, 0, fmt.Errorf("%w: ts_off: %v", ErrCorruptStream, err)
	}
	tsOff := binary.BigEndian.Uint16(tsBuf[:])

	if _, err := io.CopyN(io.Discard, r, int64(L)); err != nil {
		return 0, 0, fmt.Errorf("%w: payload skip: %v", ErrCorruptStream, err)
	}
	return typ, tsOff, nil
}

// EncodeTimestampPayload returns the 8-byte big-endian millisecond payload
// for a TIMESTAMP frame.
func EncodeTimestampPayload(ts int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(ts))
	return buf[:]
}

// DecodeTimestampPayload is the inverse of EncodeTimestampPayload.
func DecodeTimestampPayload(payload []byte) (int64, error) {
	if len(payload) != 8 {
		return 0, fmt.Errorf("%w: timestamp payload length %d, want 8", ErrCorruptStream, len(payload))
	}
	return int64(binary.BigEndian.Uint64(payload)), nil
}
