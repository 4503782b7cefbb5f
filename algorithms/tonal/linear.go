package tonal

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// LinearClassifier scores classes with an affine map W·x + b and returns the
// highest scoring row. Weights are supplied already trained.
type LinearClassifier struct {
	weights *mat.Dense
	bias    *mat.VecDense
	scores  *mat.VecDense

	mu     sync.Mutex
	closed bool
}

// NewLinearClassifier creates a classifier from one weight row per class.
// bias may be empty.
func NewLinearClassifier(weights [][]float64, bias []float64) (*LinearClassifier, error) {
	if len(weights) == 0 || len(weights[0]) == 0 {
		return nil, errors.Wrap(common.ErrPrecondition, "linear classifier needs a non-empty weight matrix")
	}

	rows, cols := len(weights), len(weights[0])
	data := make([]float64, 0, rows*cols)
	for i, row := range weights {
		if err := common.CheckLength("weight row", len(row), cols); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		data = append(data, row...)
	}

	b := mat.NewVecDense(rows, nil)
	if len(bias) > 0 {
		if err := common.CheckLength("bias", len(bias), rows); err != nil {
			return nil, err
		}
		b = mat.NewVecDense(rows, append([]float64(nil), bias...))
	}

	return &LinearClassifier{
		weights: mat.NewDense(rows, cols, data),
		bias:    b,
		scores:  mat.NewVecDense(rows, nil),
	}, nil
}

// Predict returns argmax(W·x + b). Ties resolve to the lowest class.
func (lc *LinearClassifier) Predict(features []float64) (int, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.closed {
		return NoChord, errors.Wrap(common.ErrClosed, "linear classifier")
	}

	_, cols := lc.weights.Dims()
	if err := common.CheckLength("feature vector", len(features), cols); err != nil {
		return NoChord, err
	}

	x := mat.NewVecDense(cols, features)
	lc.scores.MulVec(lc.weights, x)
	lc.scores.AddVec(lc.scores, lc.bias)

	return common.ArgMax(lc.scores.RawVector().Data), nil
}

// Classes returns the number of rows in the weight matrix
func (lc *LinearClassifier) Classes() int {
	rows, _ := lc.weights.Dims()
	return rows
}

// Close releases the classifier. Calling it again is a no-op.
func (lc *LinearClassifier) Close() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.closed = true
	return nil
}
