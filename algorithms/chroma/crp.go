package chroma

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/algorithms/spectral"
)

const (
	// DefaultCRPReduction drops the DC coefficient of a 12-bin chroma DCT
	DefaultCRPReduction = 1

	// PitchCRPReduction is the number of low coefficients removed when CRP
	// runs over the full 120-pitch vector before folding.
	PitchCRPReduction = 55

	crpEpsilon = 1e-12
)

// CRP computes Chroma DCT-Reduced log Pitch features: log compression, a
// cosine transform, removal of the lowest coefficients (timbre), the inverse
// transform and L2 normalization. A CRP owns its transform scratch and must
// not be shared between goroutines.
type CRP struct {
	size      int
	reduction int
	dct       *fourier.DCT
	scratch   []float64
	scale     float64
}

// NewCRP creates a CRP normalizer for vectors of the given size
func NewCRP(size, reduction int) (*CRP, error) {
	if size < 2 {
		return nil, errors.Wrapf(common.ErrPrecondition, "CRP size must be at least 2, got %d", size)
	}
	if reduction < 0 || reduction >= size {
		return nil, errors.Wrapf(common.ErrPrecondition, "CRP reduction %d out of range [0, %d)", reduction, size)
	}

	return &CRP{
		size:      size,
		reduction: reduction,
		dct:       fourier.NewDCT(size),
		scratch:   make([]float64, size),
		// DCT-I applied twice multiplies by 2(n-1)
		scale: 1 / float64(2*(size-1)),
	}, nil
}

// Process writes the CRP of src into dst using log constant c. src is not
// modified. An input without energy produces the zero vector.
func (crp *CRP) Process(src []float64, c float64, dst []float64) error {
	if err := common.CheckLength("CRP input", len(src), crp.size); err != nil {
		return err
	}
	if err := common.CheckLength("CRP output", len(dst), crp.size); err != nil {
		return err
	}

	copy(crp.scratch, src)
	if err := spectral.LogCompress(crp.scratch, c); err != nil {
		return errors.Wrap(err, "CRP log compression")
	}

	crp.dct.Transform(dst, crp.scratch)
	for i := 0; i < crp.reduction; i++ {
		dst[i] = 0
	}
	crp.dct.Transform(crp.scratch, dst)

	for i, v := range crp.scratch {
		dst[i] = v * crp.scale
	}
	common.L2NormalizeInPlace(dst, crpEpsilon)

	return nil
}

// Size returns the vector length
func (crp *CRP) Size() int {
	return crp.size
}

// Reduction returns the number of removed low coefficients
func (crp *CRP) Reduction() int {
	return crp.reduction
}
