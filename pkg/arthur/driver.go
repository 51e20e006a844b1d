package arthur

import "errors"

// maxTsOff is the largest representable ts_off; gaps beyond this force a
// fresh TIMESTAMP frame.
const maxTsOff = 0xFFFF

// needsTimestampFrame reports whether ts requires a new TIMESTAMP frame
// before the message frame itself, per the driver's write algorithm.
func needsTimestampFrame(ctx *Context, ts int64) bool {
	if !ctx.HasTimestamp() {
		return true
	}
	ref := ctx.Timestamp()
	return ts < ref || ts-ref > maxTsOff
}

// diffFrameType maps (isBid, isRemoval) to the wire frame type.
func diffFrameType(isBid, isRemoval bool) FrameType {
	switch {
	case isBid && isRemoval:
		return FrameBidRemoval
	case isBid && !isRemoval:
		return FrameBidDiff
	case !isBid && isRemoval:
		return FrameAskRemoval
	default:
		return FrameAskDiff
	}
}

// sideFromDiffFrameType reports whether frame type t is a bid-side diff or
// removal; false for ask-side. Only valid for the four diff/removal types.
func sideFromDiffFrameType(t FrameType) (isBid, isRemoval bool) {
	switch t {
	case FrameBidDiff:
		return true, false
	case FrameBidRemoval:
		return true, true
	case FrameAskDiff:
		return false, false
	case FrameAskRemoval:
		return false, true
	default:
		return false, false
	}
}

func isDiffFrameType(t FrameType) bool {
	switch t {
	case FrameBidDiff, FrameBidRemoval, FrameAskDiff, FrameAskRemoval:
		return true
	default:
		return false
	}
}

// isOverflow reports whether err is (or wraps) ErrOverflow.
func isOverflow(err error) bool {
	return errors.Is(err, ErrOverflow)
}
