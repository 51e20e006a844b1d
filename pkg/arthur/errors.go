package arthur

import "errors"

// Sentinel errors for the ARTHUR error taxonomy. Callers should use
// errors.Is against these rather than comparing error strings; each
// concrete error returned by the package wraps one of these with
// fmt.Errorf("%w: ...", ...) for extra detail.
var (
	// ErrPrecision means a decimal price or qty is not an exact integer
	// multiple of the context's tick/lot size. Not recoverable at the
	// codec level; it means the caller handed in inconsistent data.
	ErrPrecision = errors.New("arthur: value is not an exact multiple of tick/lot size")

	// ErrOverflow means a ticks or lots integer does not fit the
	// context's current bit width. Writer catches this internally for
	// diffs and trades and recovers with an in-line snapshot; when the
	// message has no usable SnapshotDelay, Write returns ErrMissingSnapshot
	// instead, which does not wrap ErrOverflow.
	ErrOverflow = errors.New("arthur: value exceeds the context's current bit width")

	// ErrMissingSnapshot means an OverflowError occurred but the message
	// carried no SnapshotDelay (or it resolved to nothing).
	ErrMissingSnapshot = errors.New("arthur: overflow occurred with no snapshot to recover from")

	// ErrStreamClosed means an operation was attempted after Close.
	ErrStreamClosed = errors.New("arthur: operation on a closed stream")

	// ErrCorruptStream means a frame was truncated mid-structure, carried
	// an out-of-range type flag, or its payload could not be decoded
	// according to its type.
	ErrCorruptStream = errors.New("arthur: corrupt or truncated stream")

	// ErrNotReady means a diff or trade was handed to Write before any
	// SNAPSHOT established pbits/qbits/tick/lot (a Disconnect needs no
	// snapshot and is written regardless). The read-side
	// equivalent (a stream whose first data frame isn't a snapshot) is a
	// stream corruption, not a caller error, and surfaces as
	// ErrCorruptStream instead.
	ErrNotReady = errors.New("arthur: data message before any snapshot")
)
