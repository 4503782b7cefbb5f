package common

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared by the spectral and chroma stages, using
// gonum for the numerics.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, errors.Wrap(ErrPrecondition, "mean of empty data")
	}
	return stat.Mean(data, nil), nil
}

// PopMeanStdDev returns the mean and the population (not sample) standard
// deviation of data.
func PopMeanStdDev(data []float64) (mean, std float64, err error) {
	if len(data) == 0 {
		return 0, 0, errors.Wrap(ErrPrecondition, "statistics of empty data")
	}
	mean, std = stat.PopMeanStdDev(data, nil)
	return mean, std, nil
}

// MinMax returns the global minimum and maximum across all frames.
func MinMax(frames [][]float64) (min, max float64, err error) {
	first := true
	for _, frame := range frames {
		if len(frame) == 0 {
			continue
		}
		fmin, fmax := floats.Min(frame), floats.Max(frame)
		if first {
			min, max = fmin, fmax
			first = false
			continue
		}
		min = math.Min(min, fmin)
		max = math.Max(max, fmax)
	}
	if first {
		return 0, 0, errors.Wrap(ErrPrecondition, "min/max of empty data")
	}
	return min, max, nil
}

// ArgMax returns the index of the largest value, or -1 for empty data.
// Ties resolve to the lowest index.
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// L2NormalizeInPlace scales data to unit Euclidean norm. Vectors whose norm is
// below eps are set to zero so silence stays silence.
func L2NormalizeInPlace(data []float64, eps float64) {
	if len(data) == 0 {
		return
	}

	norm := floats.Norm(data, 2)
	if norm < eps || math.IsNaN(norm) {
		Zero(data)
		return
	}
	floats.Scale(1/norm, data)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
