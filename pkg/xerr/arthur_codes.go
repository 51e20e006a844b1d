package xerr

import (
	"errors"

	"github.com/handikong/arthur/pkg/arthur"
)

// Error codes for the ARTHUR codec boundary, grown alongside the existing
// HTTP-ish codes in errors.go for cmd/arthur-cli's own reporting.
const (
	ArthurPrecisionError  = 600
	ArthurOverflowError   = 601
	ArthurMissingSnapshot = 602
	ArthurStreamClosed    = 603
	ArthurCorruptStream   = 604
	ArthurNotReady        = 605
	ArthurIOError         = 606
)

// FromArthurError maps a pkg/arthur sentinel error to a CodeError for
// callers that want an HTTP-ish code alongside the original error. Returns
// nil if err is nil, and ArthurIOError for anything unrecognized.
func FromArthurError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, arthur.ErrPrecision):
		return New(ArthurPrecisionError, err.Error())
	case errors.Is(err, arthur.ErrOverflow):
		return New(ArthurOverflowError, err.Error())
	case errors.Is(err, arthur.ErrMissingSnapshot):
		return New(ArthurMissingSnapshot, err.Error())
	case errors.Is(err, arthur.ErrStreamClosed):
		return New(ArthurStreamClosed, err.Error())
	case errors.Is(err, arthur.ErrCorruptStream):
		return New(ArthurCorruptStream, err.Error())
	case errors.Is(err, arthur.ErrNotReady):
		return New(ArthurNotReady, err.Error())
	default:
		return New(ArthurIOError, err.Error())
	}
}
