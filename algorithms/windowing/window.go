package windowing

import (
	"strings"

	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// Type names an analysis window
type Type string

const (
	Hann        Type = "hann"
	Hamming     Type = "hamming"
	Blackman    Type = "blackman"
	Bartlett    Type = "bartlett"
	FlatTop     Type = "flattop"
	Rectangular Type = "rectangular"
)

var generators = map[Type]func(int) []float64{
	Hann:        window.Hann,
	Hamming:     window.Hamming,
	Blackman:    window.Blackman,
	Bartlett:    window.Bartlett,
	FlatTop:     window.FlatTop,
	Rectangular: window.Rectangular,
}

// ParseType resolves a window name, case-insensitively
func ParseType(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := generators[t]; !ok {
		return "", errors.Wrapf(common.ErrPrecondition, "unknown window type %q", name)
	}
	return t, nil
}

// Window applies a precomputed weighting function to fixed-size frames to
// reduce spectral leakage before the transform.
type Window struct {
	windowType   Type
	size         int
	coefficients []float64
}

// New creates a window of the given type and size
func New(t Type, size int) (*Window, error) {
	gen, ok := generators[t]
	if !ok {
		return nil, errors.Wrapf(common.ErrPrecondition, "unknown window type %q", t)
	}
	if size <= 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "window size must be positive, got %d", size)
	}

	return &Window{
		windowType:   t,
		size:         size,
		coefficients: gen(size),
	}, nil
}

// ApplyInPlace applies the window to a frame in-place
func (w *Window) ApplyInPlace(frame []float64) error {
	if err := common.CheckLength("frame", len(frame), w.size); err != nil {
		return err
	}

	for i, c := range w.coefficients {
		frame[i] *= c
	}

	return nil
}

// Apply applies the window into a new scratch copy, leaving frame untouched
func (w *Window) Apply(frame []float64) ([]float64, error) {
	if err := common.CheckLength("frame", len(frame), w.size); err != nil {
		return nil, err
	}

	windowed := make([]float64, w.size)
	copy(windowed, frame)
	// length already checked
	_ = w.ApplyInPlace(windowed)

	return windowed, nil
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return w.size
}

// GetType returns the window type
func (w *Window) GetType() Type {
	return w.windowType
}
