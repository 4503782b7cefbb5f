package spectral

import (
	"math"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// DefaultLogConstant is the compression constant used by the chord pipeline
const DefaultLogConstant = 100.0

// LogCompress maps every value v to log(1 + c*v) in place, approximating
// perceived loudness. Zero stays exactly zero.
//
// The law is total over [0, +Inf); negative or NaN values are rejected before
// anything is written.
func LogCompress(buf []float64, c float64) error {
	if !(c > 0) || math.IsInf(c, 0) {
		return errors.Wrapf(common.ErrPrecondition, "log compression constant must be positive and finite, got %g", c)
	}

	for i, v := range buf {
		if !(v >= 0) {
			return errors.Wrapf(common.ErrPrecondition, "log compression input must be non-negative, got %g at %d", v, i)
		}
	}

	for i, v := range buf {
		buf[i] = math.Log1p(c * v)
	}

	return nil
}
