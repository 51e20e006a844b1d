package arthur

import "fmt"

// EncodeDisconnect returns the single-byte placeholder payload for a
// DISCONNECT frame. All real semantics (timestamp) live in the frame itself.
func EncodeDisconnect() []byte {
	return []byte{0}
}

// DecodeDisconnect validates a DISCONNECT payload.
func DecodeDisconnect(payload []byte) error {
	if len(payload) != 1 {
		return fmt.Errorf("%w: disconnect payload length %d, want 1", ErrCorruptStream, len(payload))
	}
	return nil
}
