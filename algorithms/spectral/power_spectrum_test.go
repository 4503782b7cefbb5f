package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

func sine(n int, freq, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestNewPowerSpectrumRejectsOddOrEmptyFrames(t *testing.T) {
	for _, size := range []int{0, -2, 7, 1023} {
		_, err := NewPowerSpectrum(size)
		assert.ErrorIs(t, err, common.ErrPrecondition, "size %d", size)
	}
}

func TestPowerSpectrumSilence(t *testing.T) {
	ps, err := NewPowerSpectrum(16)
	require.NoError(t, err)

	dst := make([]float64, ps.Bins())
	require.NoError(t, ps.Compute(dst, make([]float64, 16)))

	assert.Equal(t, make([]float64, 8), dst)
}

func TestPowerSpectrumSinusoidPeak(t *testing.T) {
	const (
		n          = 64
		sampleRate = 6400.0
		bin        = 5
	)
	ps, err := NewPowerSpectrum(n)
	require.NoError(t, err)

	freq := bin * ps.Resolution(sampleRate)
	dst := make([]float64, ps.Bins())
	require.NoError(t, ps.Compute(dst, sine(n, freq, sampleRate)))

	assert.Equal(t, bin, common.ArgMax(dst))
	// |X_k| = N/2 for a unit sine exactly on bin k
	assert.InDelta(t, float64(n*n)/4, dst[bin], 1e-6)
	for k, v := range dst {
		assert.GreaterOrEqual(t, v, 0.0, "bin %d", k)
	}
}

func TestPowerSpectrumMatchesBatchFFT(t *testing.T) {
	const n = 32
	ps, err := NewPowerSpectrum(n)
	require.NoError(t, err)

	frame := make([]float64, n)
	for i := range frame {
		frame[i] = math.Cos(float64(i)*0.7) + 0.25*float64(i%3)
	}

	streaming := make([]float64, n/2)
	require.NoError(t, ps.Compute(streaming, frame))

	batch := make([]float64, n/2)
	ComputeFromComplex(batch, NewFFT().Compute(frame))

	assert.InDeltaSlice(t, batch, streaming, 1e-9)
}

func TestPowerSpectrumLengthChecks(t *testing.T) {
	ps, err := NewPowerSpectrum(8)
	require.NoError(t, err)

	assert.ErrorIs(t, ps.Compute(make([]float64, 4), make([]float64, 6)), common.ErrPrecondition)
	assert.ErrorIs(t, ps.Compute(make([]float64, 5), make([]float64, 8)), common.ErrPrecondition)
	assert.Equal(t, 8, ps.FrameSize())
	assert.Equal(t, 1000.0, ps.Resolution(8000))
}

func TestFFTNonPowerOfTwo(t *testing.T) {
	f := NewFFT()
	x := []float64{1, -2, 3.5, 0, 4, 1}

	coeffs := f.Compute(x)
	require.Len(t, coeffs, len(x))
	assert.InDelta(t, 7.5, real(coeffs[0]), 1e-9, "DC bin is the sum")
	assert.InDelta(t, 0, imag(coeffs[0]), 1e-9)
	for k := 1; k < len(x); k++ {
		assert.InDelta(t, real(coeffs[k]), real(coeffs[len(x)-k]), 1e-9, "bin %d", k)
		assert.InDelta(t, imag(coeffs[k]), -imag(coeffs[len(x)-k]), 1e-9, "bin %d", k)
	}

	assert.Empty(t, f.Compute(nil))
}
