package spectral

import (
	"math"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/signal"
)

// PowerToDB converts power values to decibels in place: v -> 10*log10(v).
// Zeros are left as they are; silence has no defined loudness. Negative
// values are rejected before anything is written.
func PowerToDB(data []float64) error {
	for i, v := range data {
		if !(v >= 0) {
			return errors.Wrapf(common.ErrPrecondition, "power must be non-negative, got %g at %d", v, i)
		}
	}

	for i, v := range data {
		if v != 0 {
			data[i] = 10 * math.Log10(v)
		}
	}

	return nil
}

// PowerToDBFrames converts every frame in place. All frames are validated
// first so a bad frame leaves the whole collection untouched.
func PowerToDBFrames(frames [][]float64) error {
	for fi, frame := range frames {
		for i, v := range frame {
			if !(v >= 0) {
				return errors.Wrapf(common.ErrPrecondition, "power must be non-negative, got %g at frame %d bin %d", v, fi, i)
			}
		}
	}

	for _, frame := range frames {
		// validated above
		_ = PowerToDB(frame)
	}

	return nil
}

// SpectrumToDB converts a power spectrum to decibels in place
func SpectrumToDB(spectrum *signal.Spectrum) error {
	return errors.Wrapf(PowerToDBFrames(spectrum.Frames), "spectrum %q", spectrum.Name)
}

// SignalToDB converts a frequency-domain power signal to decibels in place
func SignalToDB(sig *signal.Signal) error {
	if err := sig.RequireFrequency(); err != nil {
		return err
	}
	return errors.Wrapf(PowerToDB(sig.Data), "signal %q", sig.Name)
}
