package spectral

import (
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// PowerSpectrum computes the one-sided power spectrum of fixed-size frames.
//
// For a frame of N samples it yields N/2 bins, k = 0..N/2-1; the Nyquist bin
// and the mirrored half are discarded. Bin k sits at k*sampleRate/N Hz.
type PowerSpectrum struct {
	frameSize int
	plan      *Plan
}

// NewPowerSpectrum creates a power spectrum calculator. The frame size must be
// positive and even.
func NewPowerSpectrum(frameSize int) (*PowerSpectrum, error) {
	if frameSize <= 0 || frameSize%2 != 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "frame size must be positive and even, got %d", frameSize)
	}

	return &PowerSpectrum{
		frameSize: frameSize,
		plan:      NewPlan(frameSize),
	}, nil
}

// Compute writes |X_k|^2 for k in [0, N/2) into dst.
func (ps *PowerSpectrum) Compute(dst, frame []float64) error {
	if err := common.CheckLength("frame", len(frame), ps.frameSize); err != nil {
		return err
	}
	if err := common.CheckLength("power spectrum", len(dst), ps.Bins()); err != nil {
		return err
	}

	coeffs := ps.plan.Execute(frame)
	for k := range dst {
		re, im := real(coeffs[k]), imag(coeffs[k])
		dst[k] = re*re + im*im
	}

	return nil
}

// ComputeFromComplex converts the non-negative half of a complex spectrum (as
// returned by FFT.Compute) into N/2 power bins.
func ComputeFromComplex(dst []float64, spectrum []complex128) {
	for k := range dst {
		re, im := real(spectrum[k]), imag(spectrum[k])
		dst[k] = re*re + im*im
	}
}

// Bins returns the number of output bins (N/2)
func (ps *PowerSpectrum) Bins() int {
	return ps.frameSize / 2
}

// FrameSize returns the expected frame length
func (ps *PowerSpectrum) FrameSize() int {
	return ps.frameSize
}

// Resolution returns the width of one bin in Hz
func (ps *PowerSpectrum) Resolution(sampleRate float64) float64 {
	return sampleRate / float64(ps.frameSize)
}
