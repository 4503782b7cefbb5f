package spectral

import (
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/signal"
)

// NormalizeSpectrum zero-one normalizes all frames of a spectrum against their
// global min and max, in place.
func NormalizeSpectrum(spectrum *signal.Spectrum) error {
	return errors.Wrapf(common.NormalizeZeroOneFrames(spectrum.Frames), "spectrum %q", spectrum.Name)
}

// NormalizeSignal zero-one normalizes a signal in place
func NormalizeSignal(sig *signal.Signal) error {
	return errors.Wrapf(common.NormalizeZeroOne(sig.Data), "signal %q", sig.Name)
}
