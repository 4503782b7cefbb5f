package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

func TestNewTimeSignal(t *testing.T) {
	sig, err := NewTimeSignal("tone", []float64{0, 1, 0, -1}, 44100)
	require.NoError(t, err)

	assert.Equal(t, TimeDomain, sig.Domain)
	assert.Nil(t, sig.Frequency)
	assert.Equal(t, 4, sig.Len())
	assert.ErrorIs(t, sig.RequireFrequency(), common.ErrDomainMismatch)
	assert.NoError(t, sig.RequireTime())
}

func TestNewFrequencySignal(t *testing.T) {
	sig, err := NewFrequencySignal("fft", []float64{1, 2, 3}, 8000, FrequencyInfo{Resolution: 7.8125, Nyquist: true})
	require.NoError(t, err)

	assert.Equal(t, FrequencyDomain, sig.Domain)
	require.NotNil(t, sig.Frequency)
	assert.True(t, sig.Frequency.Nyquist)
	assert.NoError(t, sig.RequireFrequency())
	assert.ErrorIs(t, sig.RequireTime(), common.ErrDomainMismatch)
}

func TestSignalValidation(t *testing.T) {
	_, err := NewTimeSignal("bad", nil, 0)
	assert.ErrorIs(t, err, common.ErrPrecondition)

	_, err = NewFrequencySignal("bad", nil, 8000, FrequencyInfo{Resolution: 0})
	assert.ErrorIs(t, err, common.ErrPrecondition)

	_, err = NewFrequencySignal("bad", nil, 8000, FrequencyInfo{Resolution: 1, Offset: -5})
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestNewSpectrumRejectsRaggedFrames(t *testing.T) {
	_, err := NewSpectrum("ragged", [][]float64{{1, 2}, {1}}, 8000, 10, 0)
	assert.ErrorIs(t, err, common.ErrPrecondition)

	spectrum, err := NewSpectrum("ok", [][]float64{{1, 2}, {3, 4}, {5, 6}}, 8000, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, spectrum.FrameCount())
	assert.Equal(t, 2, spectrum.Bins())
}

func TestSpectrumMean(t *testing.T) {
	spectrum, err := NewSpectrum("s", [][]float64{{1, 2}, {3, 6}}, 8000, 10, 20)
	require.NoError(t, err)

	mean, err := spectrum.Mean()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, mean.Data)
	assert.Equal(t, 10.0, mean.Frequency.Resolution)
	assert.Equal(t, 20.0, mean.Frequency.Offset)

	empty := &Spectrum{Name: "empty", SampleRate: 8000, Resolution: 10}
	_, err = empty.Mean()
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestDomainString(t *testing.T) {
	assert.Equal(t, "time", TimeDomain.String())
	assert.Equal(t, "frequency", FrequencyDomain.String())
	assert.Equal(t, "unknown", Domain(9).String())
}
