package arthur

import (
	"bytes"
	"io"
	"testing"
)

func TestWriteReadFrame_Compact(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello")
	if err := WriteFrame(&buf, FrameTrade, payload, 42); err != nil {
		t.Fatalf("write_frame: %v", err)
	}
	if buf.Len() != 1+2+len(payload) {
		t.Fatalf("expected compact frame of %d bytes, got %d", 1+2+len(payload), buf.Len())
	}

	frame, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read_frame: %v", err)
	}
	if frame.Type != FrameTrade || frame.TsOff != 42 || !bytes.Equal(frame.Payload, payload) {
		t.Fatalf("unexpected frame: %+v", frame)
	}
}

func TestWriteReadFrame_Extended(t *testing.T) {
	var buf bytes.Buffer
	payload := make([]byte, 40) // > 31, forces extended length
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := WriteFrame(&buf, FrameSnapshot, payload, 0); err != nil {
		t.Fatalf("write_frame: %v", err)
	}
	if buf.Len() != 5+2+len(payload) {
		t.Fatalf("expected extended frame of %d bytes, got %d", 5+2+len(payload), buf.Len())
	}

	frame, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read_frame: %v", err)
	}
	if frame.Type != FrameSnapshot || !bytes.Equal(frame.Payload, payload) {
		t.Fatalf("unexpected frame: %+v", frame)
	}
}

func TestReadFrame_CleanEOF(t *testing.T) {
	var buf bytes.Buffer
	_, err := ReadFrame(&buf)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadFrame_TruncatedIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{byte(FrameTrade)<<5 | 5}) // claims 5-byte payload, 2-byte ts_off
	buf.Write([]byte{0, 1})                    // ts_off only, payload missing

	_, err := ReadFrame(&buf)
	if err == nil {
		t.Fatalf("expected corrupt stream error, got nil")
	}
}

func TestFrameSkipping_MatchesFullRead(t *testing.T) {
	var buf bytes.Buffer
	frames := []struct {
		typ     FrameType
		payload []byte
		tsOff   uint16
	}{
		{FrameTimestamp, EncodeTimestampPayload(1000), 0},
		{FrameSnapshot, []byte{1, 2, 3}, 10},
		{FrameTrade, []byte("abcxyz"), 20},
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f.typ, f.payload, f.tsOff); err != nil {
			t.Fatalf("write_frame: %v", err)
		}
	}

	skipCount := 0
	skipBuf := bytes.NewReader(buf.Bytes())
	for {
		_, _, err := SkipFrame(skipBuf)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("skip_frame: %v", err)
		}
		skipCount++
	}

	readCount := 0
	readBuf := bytes.NewReader(buf.Bytes())
	for {
		_, err := ReadFrame(readBuf)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read_frame: %v", err)
		}
		readCount++
	}

	if skipCount != len(frames) || readCount != len(frames) {
		t.Fatalf("expected %d frames, got skip=%d read=%d", len(frames), skipCount, readCount)
	}
}

func TestTimestampPayloadRoundTrip(t *testing.T) {
	ts := int64(1732000000123)
	payload := EncodeTimestampPayload(ts)
	if len(payload) != 8 {
		t.Fatalf("expected 8-byte payload, got %d", len(payload))
	}
	got, err := DecodeTimestampPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ts {
		t.Fatalf("expected %d, got %d", ts, got)
	}
}
