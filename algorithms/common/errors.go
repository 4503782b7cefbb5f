package common

import (
	"github.com/pkg/errors"
)

// Error kinds shared by every stage of the feature pipeline. Call sites wrap
// them with context; match with errors.Is or errors.Cause.
var (
	// ErrPrecondition marks integration errors: mismatched lengths, empty
	// statistics input, invalid frame size parity, out-of-range bounds.
	ErrPrecondition = errors.New("precondition violated")

	// ErrDomainMismatch is returned when a frequency-domain signal is required
	// but a time-domain one was given.
	ErrDomainMismatch = errors.New("signal domain mismatch")

	// ErrDegenerate marks a defined numeric failure, such as normalizing flat
	// data where max equals min.
	ErrDegenerate = errors.New("degenerate numeric input")

	// ErrClosed is returned when a released resource is used again.
	ErrClosed = errors.New("resource closed")
)

// CheckLength returns ErrPrecondition when got differs from want.
func CheckLength(what string, got, want int) error {
	if got != want {
		return errors.Wrapf(ErrPrecondition, "%s length (%d) doesn't match expected (%d)", what, got, want)
	}
	return nil
}
