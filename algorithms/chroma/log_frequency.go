package chroma

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// Unmapped marks a spectrum bin that contributes to no pitch
const Unmapped = -1

// BinPitchMap assigns every bin of an N/2-bin power spectrum to at most one
// pitch of the equal-tempered ladder. It is immutable once built and safe to
// share read-only between pipelines running at the same frame size, sample
// rate and tuning.
type BinPitchMap struct {
	frameSize  int
	sampleRate float64
	tuning     float64
	pitches    []int
}

// NewBinPitchMap builds the bin-to-pitch map for frames of frameSize samples
// at sampleRate. Bin k is centred at k*sampleRate/frameSize Hz.
func NewBinPitchMap(frameSize int, sampleRate, tuning float64) (*BinPitchMap, error) {
	if frameSize <= 0 || frameSize%2 != 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "frame size must be positive and even, got %d", frameSize)
	}
	if !(sampleRate > 0) || !common.IsFinite(sampleRate) {
		return nil, errors.Wrapf(common.ErrPrecondition, "sample rate must be positive, got %g", sampleRate)
	}
	if !(tuning > 0) || !common.IsFinite(tuning) {
		return nil, errors.Wrapf(common.ErrPrecondition, "tuning frequency must be positive, got %g", tuning)
	}

	m := &BinPitchMap{
		frameSize:  frameSize,
		sampleRate: sampleRate,
		tuning:     tuning,
		pitches:    make([]int, frameSize/2),
	}

	resolution := m.Resolution()
	for k := range m.pitches {
		m.pitches[k] = NearestPitch(float64(k)*resolution, tuning)
	}

	return m, nil
}

type mapKey struct {
	frameSize  int
	sampleRate float64
	tuning     float64
}

var sharedMaps sync.Map // mapKey -> *BinPitchMap

// SharedBinPitchMap returns the process-wide map for the given parameters,
// building it on first use.
func SharedBinPitchMap(frameSize int, sampleRate, tuning float64) (*BinPitchMap, error) {
	key := mapKey{frameSize: frameSize, sampleRate: sampleRate, tuning: tuning}
	if m, ok := sharedMaps.Load(key); ok {
		return m.(*BinPitchMap), nil
	}

	m, err := NewBinPitchMap(frameSize, sampleRate, tuning)
	if err != nil {
		return nil, err
	}

	actual, _ := sharedMaps.LoadOrStore(key, m)
	return actual.(*BinPitchMap), nil
}

// Map sums the spectrum bins of each pitch into dst, which is overwritten.
// Unmapped bins are dropped.
func (m *BinPitchMap) Map(spectrum, dst []float64) error {
	if err := common.CheckLength("spectrum", len(spectrum), len(m.pitches)); err != nil {
		return err
	}
	if err := common.CheckLength("pitch vector", len(dst), PitchCount); err != nil {
		return err
	}

	common.Zero(dst)
	for k, p := range m.pitches {
		if p != Unmapped {
			dst[p] += spectrum[k]
		}
	}

	return nil
}

// Pitch returns the pitch of bin k, or Unmapped
func (m *BinPitchMap) Pitch(k int) int {
	if k < 0 || k >= len(m.pitches) {
		return Unmapped
	}
	return m.pitches[k]
}

// Len returns the number of spectrum bins covered (frameSize/2)
func (m *BinPitchMap) Len() int {
	return len(m.pitches)
}

// FrameSize returns the frame size the map was built for
func (m *BinPitchMap) FrameSize() int {
	return m.frameSize
}

// SampleRate returns the sample rate the map was built for
func (m *BinPitchMap) SampleRate() float64 {
	return m.sampleRate
}

// Tuning returns the A4 reference frequency
func (m *BinPitchMap) Tuning() float64 {
	return m.tuning
}

// Resolution returns the bin width in Hz
func (m *BinPitchMap) Resolution() float64 {
	return m.sampleRate / float64(m.frameSize)
}
