package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopMeanStdDev(t *testing.T) {
	mean, std, err := PopMeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 2.0, std, 1e-12, "population, not sample, deviation")
}

func TestMean(t *testing.T) {
	mean, err := Mean([]float64{1, 2, 6})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, mean, 1e-12)
}

func TestPopMeanStdDevEmpty(t *testing.T) {
	_, _, err := PopMeanStdDev(nil)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = Mean([]float64{})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestMinMaxSkipsEmptyFrames(t *testing.T) {
	min, max, err := MinMax([][]float64{{}, {3, -1}, {}, {8}})
	require.NoError(t, err)

	assert.Equal(t, -1.0, min)
	assert.Equal(t, 8.0, max)
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, 2, ArgMax([]float64{1, 3, 7, 7, 2}))
}

func TestL2NormalizeInPlace(t *testing.T) {
	data := []float64{3, 4}
	L2NormalizeInPlace(data, 1e-12)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, data, 1e-12)

	silent := []float64{0, 0, 0}
	L2NormalizeInPlace(silent, 1e-12)
	assert.Equal(t, []float64{0, 0, 0}, silent)

	nan := []float64{math.NaN(), 1}
	L2NormalizeInPlace(nan, 1e-12)
	assert.Equal(t, []float64{0, 0}, nan)
}

func TestCheckLength(t *testing.T) {
	assert.NoError(t, CheckLength("frame", 4, 4))
	assert.ErrorIs(t, CheckLength("frame", 3, 4), ErrPrecondition)
}
