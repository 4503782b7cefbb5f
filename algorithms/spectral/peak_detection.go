package spectral

import (
	"math"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// PeakDetection returns, in ascending order, every index i where
// |data[i] - mean| > threshold * std, with std the population standard
// deviation of data.
//
// With threshold 0 every value that differs from the mean is a peak.
func PeakDetection(data []float64, threshold float64) ([]int, error) {
	mean, std, err := common.PopMeanStdDev(data)
	if err != nil {
		return nil, errors.Wrap(err, "peak detection")
	}

	limit := threshold * std
	peaks := make([]int, 0)
	for i, v := range data {
		if math.Abs(v-mean) > limit {
			peaks = append(peaks, i)
		}
	}

	return peaks, nil
}
