package chroma

import (
	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// Fold sums a pitch vector into a chroma vector:
// dst[i] = sum of pitch[j] for all j with j mod 12 == i.
// Octave information is discarded. dst is overwritten.
func Fold(pitch, dst []float64) error {
	if err := common.CheckLength("pitch vector", len(pitch), PitchCount); err != nil {
		return err
	}
	if err := common.CheckLength("chroma vector", len(dst), ChromaBins); err != nil {
		return err
	}

	common.Zero(dst)
	for j, v := range pitch {
		dst[j%ChromaBins] += v
	}

	return nil
}

// NewChromaVector folds a pitch vector into a freshly allocated chroma vector
func NewChromaVector(pitch []float64) ([]float64, error) {
	chroma := make([]float64, ChromaBins)
	if err := Fold(pitch, chroma); err != nil {
		return nil, err
	}
	return chroma, nil
}

// DominantPitchClass returns the pitch class holding the most energy, or -1
// when the vector carries none.
func DominantPitchClass(chroma []float64) int {
	idx := common.ArgMax(chroma)
	if idx < 0 || !(chroma[idx] > 0) {
		return -1
	}
	return idx
}
