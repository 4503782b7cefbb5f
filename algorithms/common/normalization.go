package common

import (
	"github.com/pkg/errors"
)

// NormalizeZeroOne maps every value v to (v-min)/(max-min) in place.
//
// Flat data (max == min) has no defined scale: ErrDegenerate is returned and
// data is left untouched, so callers can special-case silence or flat spectra.
func NormalizeZeroOne(data []float64) error {
	if len(data) == 0 {
		return errors.Wrap(ErrPrecondition, "zero-one normalization of empty data")
	}
	return NormalizeZeroOneFrames([][]float64{data})
}

// NormalizeZeroOneFrames normalizes a collection of frames in place against
// the global min and max over all of them.
func NormalizeZeroOneFrames(frames [][]float64) error {
	min, max, err := MinMax(frames)
	if err != nil {
		return errors.Wrap(err, "zero-one normalization")
	}

	diff := max - min
	if diff == 0 || !IsFinite(diff) {
		return errors.Wrapf(ErrDegenerate, "zero-one normalization of flat data (min=max=%g)", min)
	}

	for _, frame := range frames {
		for i, v := range frame {
			frame[i] = (v - min) / diff
		}
	}

	return nil
}
