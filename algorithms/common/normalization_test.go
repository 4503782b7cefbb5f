package common

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestNormalizeZeroOne(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"ascending", []float64{1, 2, 3, 4, 5}},
		{"negative values", []float64{-3, 7, 0.5, -1}},
		{"two values", []float64{10, -10}},
		{"tiny range", []float64{1e-9, 2e-9, 1.5e-9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]float64(nil), tt.data...)
			require.NoError(t, NormalizeZeroOne(data))

			assert.Equal(t, 0.0, floats.Min(data))
			assert.InDelta(t, 1.0, floats.Max(data), 1e-12)
			assert.Equal(t, floats.MinIdx(tt.data), floats.MinIdx(data))
			assert.Equal(t, floats.MaxIdx(tt.data), floats.MaxIdx(data))
		})
	}
}

func TestNormalizeZeroOneFlatData(t *testing.T) {
	data := []float64{3, 3, 3}

	err := NormalizeZeroOne(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerate))
	assert.Equal(t, []float64{3, 3, 3}, data, "flat data must not be modified")
}

func TestNormalizeZeroOneEmpty(t *testing.T) {
	err := NormalizeZeroOne(nil)
	assert.ErrorIs(t, err, ErrPrecondition)

	err = NormalizeZeroOneFrames([][]float64{{}, {}})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestNormalizeZeroOneFramesUsesGlobalRange(t *testing.T) {
	frames := [][]float64{
		{0, 5},
		{10, 2.5},
	}

	require.NoError(t, NormalizeZeroOneFrames(frames))

	assert.Equal(t, []float64{0, 0.5}, frames[0])
	assert.Equal(t, []float64{1, 0.25}, frames[1])
}
