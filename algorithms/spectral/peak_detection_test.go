package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

func TestPeakDetection(t *testing.T) {
	data := []float64{1, 1, 1, 10, 1, 1, 1, 1, -8, 1}

	peaks, err := PeakDetection(data, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8}, peaks)
}

func TestPeakDetectionZeroThreshold(t *testing.T) {
	// mean is 2; only index 2 sits exactly on it
	data := []float64{1, 3, 2, 0, 4}

	peaks, err := PeakDetection(data, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4}, peaks)
}

func TestPeakDetectionLargeThreshold(t *testing.T) {
	peaks, err := PeakDetection([]float64{5, -3, 100, 7, 0}, 1e9)
	require.NoError(t, err)
	assert.Empty(t, peaks)
}

func TestPeakDetectionConstantData(t *testing.T) {
	peaks, err := PeakDetection([]float64{2, 2, 2}, 0)
	require.NoError(t, err)
	assert.Empty(t, peaks)
}

func TestPeakDetectionEmpty(t *testing.T) {
	_, err := PeakDetection(nil, 1)
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestPeakDetectionIndicesAreUniqueAndSorted(t *testing.T) {
	data := sine(256, 440, 8000)
	peaks, err := PeakDetection(data, 0.5)
	require.NoError(t, err)

	for i := 1; i < len(peaks); i++ {
		assert.Less(t, peaks[i-1], peaks[i])
	}
}
