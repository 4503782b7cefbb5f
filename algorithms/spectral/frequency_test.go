package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/signal"
)

func TestFreqIdxRoundTrip(t *testing.T) {
	resolutions := []float64{0.5, 1, 2.6917, 10.7666, 43.066, 1000}
	freqs := []float64{0, 0.1, 1, 27.5, 261.63, 440, 999.9, 4186.01, 11025, 22050}

	for _, r := range resolutions {
		for _, f := range freqs {
			back := IdxToFreq(FreqToIdx(f, r), r)
			assert.LessOrEqual(t, back, f, "f=%g r=%g", f, r)
			assert.Less(t, f-back, r, "f=%g r=%g", f, r)
		}
	}
}

func TestFreqIdxSliceForms(t *testing.T) {
	assert.Equal(t, []int{0, 4, 10}, FreqsToIdx([]float64{3, 45, 100}, 10))
	assert.Equal(t, []float64{0, 40, 100}, IdxsToFreq([]int{0, 4, 10}, 10))
}

func TestTrimRange(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	trimmed, err := TrimRange(data, 25, 55, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5}, trimmed)

	trimmed[0] = 99
	assert.Equal(t, 2.0, data[2], "trim returns a copy")
}

func TestTrimSpectrumTwiceIsIdempotent(t *testing.T) {
	spectrum, err := signal.NewSpectrum("s", [][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}, 200, 10, 0)
	require.NoError(t, err)

	once, err := TrimSpectrum(spectrum, 20, 60)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 3, 4, 5, 6}, {7, 6, 5, 4, 3}}, once.Frames)
	assert.Equal(t, 20.0, once.Offset)
	assert.Equal(t, spectrum.Resolution, once.Resolution)
	assert.Equal(t, spectrum.SampleRate, once.SampleRate)
	assert.Equal(t, "trimmed20-60_s", once.Name)

	twice, err := TrimSpectrum(once, 20, 60)
	require.NoError(t, err)
	assert.Equal(t, once.Frames, twice.Frames)
	assert.Equal(t, once.Offset, twice.Offset)
}

func TestTrimSpectrumCountsFromOffset(t *testing.T) {
	spectrum, err := signal.NewSpectrum("s", [][]float64{{2, 3, 4, 5, 6}}, 200, 10, 20)
	require.NoError(t, err)

	narrower, err := TrimSpectrum(spectrum, 35, 50)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 4, 5}}, narrower.Frames)
	assert.Equal(t, 30.0, narrower.Offset)

	// a start below the first bin keeps everything from the offset on
	wider, err := TrimSpectrum(spectrum, 0, 40)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 3, 4}}, wider.Frames)
	assert.Equal(t, 20.0, wider.Offset)

	_, err = TrimSpectrum(spectrum, 0, 10)
	assert.ErrorIs(t, err, common.ErrPrecondition, "range entirely below the offset")

	_, err = TrimSpectrum(spectrum, 20, 70)
	assert.ErrorIs(t, err, common.ErrPrecondition, "past the last bin")
}

func TestTrimSignalTwiceIsIdempotent(t *testing.T) {
	sig, err := signal.NewFrequencySignal("fft", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 200, signal.FrequencyInfo{
		Resolution: 2.6917,
	})
	require.NoError(t, err)

	once, err := TrimSignal(sig, 5.5, 19)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7}, once.Data)
	assert.InDelta(t, 2*2.6917, once.Frequency.Offset, 1e-12)

	twice, err := TrimSignal(once, 5.5, 19)
	require.NoError(t, err)
	assert.Equal(t, once.Data, twice.Data)
	assert.InDelta(t, once.Frequency.Offset, twice.Frequency.Offset, 1e-12)
}

func TestTrimRangeBounds(t *testing.T) {
	data := make([]float64, 8)

	_, err := TrimRange(data, 50, 10, 10)
	assert.ErrorIs(t, err, common.ErrPrecondition, "inverted range")

	_, err = TrimRange(data, -1, 10, 10)
	assert.ErrorIs(t, err, common.ErrPrecondition, "negative start")

	_, err = TrimRange(data, 0, 80, 10)
	assert.ErrorIs(t, err, common.ErrPrecondition, "past the last bin")

	_, err = TrimRange(data, 0, 10, 0)
	assert.ErrorIs(t, err, common.ErrPrecondition, "zero resolution")

	full, err := TrimRange(data, 0, 79, 10)
	require.NoError(t, err)
	assert.Len(t, full, 8)
}

func TestTrimSignal(t *testing.T) {
	sig, err := signal.NewFrequencySignal("fft", []float64{0, 1, 2, 3, 4, 5}, 120, signal.FrequencyInfo{
		Resolution: 10,
		Nyquist:    true,
	})
	require.NoError(t, err)

	trimmed, err := TrimSignal(sig, 15, 42)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4}, trimmed.Data)
	assert.Equal(t, signal.FrequencyDomain, trimmed.Domain)
	assert.Equal(t, 10.0, trimmed.Frequency.Offset)
	assert.True(t, trimmed.Frequency.Nyquist)
}

func TestTrimSignalRequiresFrequencyDomain(t *testing.T) {
	sig, err := signal.NewTimeSignal("pcm", []float64{0, 1, 2}, 8000)
	require.NoError(t, err)

	_, err = TrimSignal(sig, 0, 10)
	assert.ErrorIs(t, err, common.ErrDomainMismatch)
}
