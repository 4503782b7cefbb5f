// Package signal holds the data model shared by the feature pipeline: a
// single domain-tagged Signal type and a multi-frame Spectrum.
package signal

import (
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// Domain tags what the samples of a Signal represent
type Domain int

const (
	TimeDomain Domain = iota
	FrequencyDomain
)

func (d Domain) String() string {
	switch d {
	case TimeDomain:
		return "time"
	case FrequencyDomain:
		return "frequency"
	default:
		return "unknown"
	}
}

// FrequencyInfo is the metadata carried only by frequency-domain signals
type FrequencyInfo struct {
	Resolution float64 `json:"resolution"` // Hz per bin
	Offset     float64 `json:"offset"`     // Hz of bin 0
	Nyquist    bool    `json:"nyquist"`    // last bin is the Nyquist bin
}

// Signal is a named sequence of real values with a sample rate and a domain.
type Signal struct {
	Name       string         `json:"name"`
	Data       []float64      `json:"-"`
	SampleRate float64        `json:"sample_rate"`
	Domain     Domain         `json:"domain"`
	Frequency  *FrequencyInfo `json:"frequency,omitempty"`
}

// NewTimeSignal creates a time-domain signal
func NewTimeSignal(name string, data []float64, sampleRate float64) (*Signal, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}

	return &Signal{
		Name:       name,
		Data:       data,
		SampleRate: sampleRate,
		Domain:     TimeDomain,
	}, nil
}

// NewFrequencySignal creates a frequency-domain signal with its bin metadata
func NewFrequencySignal(name string, data []float64, sampleRate float64, info FrequencyInfo) (*Signal, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := checkFrequencyInfo(info.Resolution, info.Offset); err != nil {
		return nil, err
	}

	return &Signal{
		Name:       name,
		Data:       data,
		SampleRate: sampleRate,
		Domain:     FrequencyDomain,
		Frequency:  &info,
	}, nil
}

// RequireFrequency fails with common.ErrDomainMismatch unless the signal is in
// the frequency domain.
func (s *Signal) RequireFrequency() error {
	if s.Domain != FrequencyDomain || s.Frequency == nil {
		return errors.Wrapf(common.ErrDomainMismatch, "signal %q must be in frequency domain, got %s", s.Name, s.Domain)
	}
	return nil
}

// RequireTime fails with common.ErrDomainMismatch unless the signal is in the
// time domain.
func (s *Signal) RequireTime() error {
	if s.Domain != TimeDomain {
		return errors.Wrapf(common.ErrDomainMismatch, "signal %q must be in time domain, got %s", s.Name, s.Domain)
	}
	return nil
}

// Len returns the number of samples or bins
func (s *Signal) Len() int {
	return len(s.Data)
}

// Spectrum is a collection of equal-length frames in the frequency domain.
type Spectrum struct {
	Name       string      `json:"name"`
	Frames     [][]float64 `json:"-"`
	SampleRate float64     `json:"sample_rate"`
	Resolution float64     `json:"resolution"` // Hz per bin
	Offset     float64     `json:"offset"`     // Hz of bin 0
}

// NewSpectrum creates a spectrum, rejecting ragged frames
func NewSpectrum(name string, frames [][]float64, sampleRate, resolution, offset float64) (*Spectrum, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := checkFrequencyInfo(resolution, offset); err != nil {
		return nil, err
	}

	for i := 1; i < len(frames); i++ {
		if len(frames[i]) != len(frames[0]) {
			return nil, errors.Wrapf(common.ErrPrecondition,
				"spectrum %q frame %d has %d bins, frame 0 has %d", name, i, len(frames[i]), len(frames[0]))
		}
	}

	return &Spectrum{
		Name:       name,
		Frames:     frames,
		SampleRate: sampleRate,
		Resolution: resolution,
		Offset:     offset,
	}, nil
}

// FrameCount returns the number of frames
func (s *Spectrum) FrameCount() int {
	return len(s.Frames)
}

// Bins returns the number of bins per frame
func (s *Spectrum) Bins() int {
	if len(s.Frames) == 0 {
		return 0
	}
	return len(s.Frames[0])
}

// Mean returns the per-bin average over all frames as a frequency signal.
func (s *Spectrum) Mean() (*Signal, error) {
	if len(s.Frames) == 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "spectrum %q has no frames", s.Name)
	}

	mean := make([]float64, s.Bins())
	column := make([]float64, len(s.Frames))
	for i := range mean {
		for j, frame := range s.Frames {
			column[j] = frame[i]
		}
		m, err := common.Mean(column)
		if err != nil {
			return nil, err
		}
		mean[i] = m
	}

	return NewFrequencySignal("mean_"+s.Name, mean, s.SampleRate, FrequencyInfo{
		Resolution: s.Resolution,
		Offset:     s.Offset,
	})
}

func checkSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || !common.IsFinite(sampleRate) {
		return errors.Wrapf(common.ErrPrecondition, "sample rate must be positive, got %g", sampleRate)
	}
	return nil
}

func checkFrequencyInfo(resolution, offset float64) error {
	if !(resolution > 0) || !common.IsFinite(resolution) {
		return errors.Wrapf(common.ErrPrecondition, "frequency resolution must be positive, got %g", resolution)
	}
	if offset < 0 || !common.IsFinite(offset) {
		return errors.Wrapf(common.ErrPrecondition, "frequency offset must be non-negative, got %g", offset)
	}
	return nil
}
