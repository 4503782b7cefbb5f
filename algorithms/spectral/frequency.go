package spectral

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/signal"
)

// FreqToIdx converts a frequency to a bin index, truncating toward zero.
// resolution is in Hz per bin and must be positive.
func FreqToIdx(frequency, resolution float64) int {
	return int(frequency / resolution)
}

// FreqsToIdx converts each frequency with FreqToIdx
func FreqsToIdx(frequencies []float64, resolution float64) []int {
	indexes := make([]int, len(frequencies))
	for i, f := range frequencies {
		indexes[i] = FreqToIdx(f, resolution)
	}
	return indexes
}

// IdxToFreq converts a bin index to its frequency. It inverts FreqToIdx only
// up to truncation: the round trip lands within one resolution unit below.
func IdxToFreq(index int, resolution float64) float64 {
	return resolution * float64(index)
}

// IdxsToFreq converts each index with IdxToFreq
func IdxsToFreq(indexes []int, resolution float64) []float64 {
	frequencies := make([]float64, len(indexes))
	for i, idx := range indexes {
		frequencies[i] = IdxToFreq(idx, resolution)
	}
	return frequencies
}

// TrimRange returns a copy of the bins [idx(from), idx(to)] of an amplitude
// spectrum whose bin 0 sits at 0 Hz, inclusive on both ends.
func TrimRange(data []float64, from, to, resolution float64) ([]float64, error) {
	lo, hi, err := trimBounds(len(data), from, to, resolution, 0)
	if err != nil {
		return nil, err
	}
	return copyBins(data, lo, hi), nil
}

// TrimFrames applies TrimRange to every frame
func TrimFrames(frames [][]float64, from, to, resolution float64) ([][]float64, error) {
	return trimFrames(frames, from, to, resolution, 0)
}

func trimFrames(frames [][]float64, from, to, resolution, offset float64) ([][]float64, error) {
	trimmed := make([][]float64, len(frames))
	for i, frame := range frames {
		lo, hi, err := trimBounds(len(frame), from, to, resolution, offset)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		trimmed[i] = copyBins(frame, lo, hi)
	}
	return trimmed, nil
}

// TrimSpectrum returns a new spectrum holding only the bins within
// [from, to] Hz. Bin indices count from the spectrum's offset, so trimming an
// already trimmed spectrum to the same range returns the same bins. Sample
// rate and resolution are preserved.
func TrimSpectrum(spectrum *signal.Spectrum, from, to float64) (*signal.Spectrum, error) {
	frames, err := trimFrames(spectrum.Frames, from, to, spectrum.Resolution, spectrum.Offset)
	if err != nil {
		return nil, errors.Wrapf(err, "trimming spectrum %q", spectrum.Name)
	}

	return signal.NewSpectrum(
		trimmedName(spectrum.Name, from, to),
		frames,
		spectrum.SampleRate,
		spectrum.Resolution,
		trimmedOffset(from, spectrum.Resolution, spectrum.Offset),
	)
}

// TrimSignal trims a frequency-domain signal the same way TrimSpectrum does.
// Time-domain signals fail with common.ErrDomainMismatch.
func TrimSignal(sig *signal.Signal, from, to float64) (*signal.Signal, error) {
	if err := sig.RequireFrequency(); err != nil {
		return nil, err
	}

	resolution, offset := sig.Frequency.Resolution, sig.Frequency.Offset
	lo, hi, err := trimBounds(len(sig.Data), from, to, resolution, offset)
	if err != nil {
		return nil, errors.Wrapf(err, "trimming signal %q", sig.Name)
	}

	return signal.NewFrequencySignal(trimmedName(sig.Name, from, to), copyBins(sig.Data, lo, hi), sig.SampleRate, signal.FrequencyInfo{
		Resolution: resolution,
		Offset:     trimmedOffset(from, resolution, offset),
		Nyquist:    sig.Frequency.Nyquist,
	})
}

// binTolerance absorbs rounding in (f-offset)/resolution so a frequency that
// sits exactly on a bin edge is not truncated into the bin below.
const binTolerance = 1e-9

// relIdx returns the bin of frequency within data whose bin 0 is at offset
func relIdx(frequency, resolution, offset float64) int {
	return int(math.Floor((frequency-offset)/resolution + binTolerance))
}

// trimmedOffset is the frequency of the first bin kept by a trim
func trimmedOffset(from, resolution, offset float64) float64 {
	return offset + IdxToFreq(max(relIdx(from, resolution, offset), 0), resolution)
}

func trimBounds(n int, from, to, resolution, offset float64) (lo, hi int, err error) {
	if !(resolution > 0) || !common.IsFinite(resolution) {
		return 0, 0, errors.Wrapf(common.ErrPrecondition, "resolution must be positive, got %g", resolution)
	}
	if from < 0 || to < from {
		return 0, 0, errors.Wrapf(common.ErrPrecondition, "invalid frequency range [%g, %g]", from, to)
	}

	// bins below the offset were trimmed away already
	lo, hi = max(relIdx(from, resolution, offset), 0), relIdx(to, resolution, offset)
	if hi < 0 {
		return 0, 0, errors.Wrapf(common.ErrPrecondition,
			"range [%g, %g] Hz ends below the first bin at %g Hz", from, to, offset)
	}
	if hi >= n {
		return 0, 0, errors.Wrapf(common.ErrPrecondition,
			"range [%g, %g] Hz reaches bin %d, only %d bins available", from, to, hi, n)
	}

	return lo, hi, nil
}

func copyBins(data []float64, lo, hi int) []float64 {
	trimmed := make([]float64, hi-lo+1)
	copy(trimmed, data[lo:hi+1])
	return trimmed
}

func trimmedName(name string, from, to float64) string {
	return fmt.Sprintf("trimmed%g-%g_%s", from, to, name)
}
