package spectral

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT provides allocation-per-call Fast Fourier Transforms for batch analysis
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the full complex spectrum of a real sequence using
// mjibson/go-dsp, which handles any length including non-powers of two.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	return fft.FFTReal(x)
}

// Plan is a fixed-size real FFT with a reusable coefficient buffer, for the
// streaming path where one frame size is transformed over and over.
type Plan struct {
	size   int
	fft    *fourier.FFT
	coeffs []complex128
}

// NewPlan creates a plan for sequences of length size
func NewPlan(size int) *Plan {
	return &Plan{
		size:   size,
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
	}
}

// Execute transforms seq and returns the non-negative frequency coefficients
// (size/2+1 of them). The returned slice is owned by the plan and overwritten
// by the next call.
func (p *Plan) Execute(seq []float64) []complex128 {
	return p.fft.Coefficients(p.coeffs, seq)
}

// Size returns the sequence length the plan was built for
func (p *Plan) Size() int {
	return p.size
}
