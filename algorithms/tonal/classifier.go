package tonal

import (
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/config"
)

// Classifier maps a feature vector to a chord class index. Indices follow the
// ChordLabel table; anything outside it is treated as no chord.
type Classifier interface {
	Predict(features []float64) (int, error)
	Close() error
}

// NewClassifier builds the backend named in cfg
func NewClassifier(cfg config.ClassifierConfig) (Classifier, error) {
	switch cfg.Backend {
	case config.BackendTemplate, "":
		return NewTemplateClassifier(cfg.MinScore), nil
	case config.BackendLinear:
		return NewLinearClassifier(cfg.Weights, cfg.Bias)
	default:
		return nil, errors.Wrapf(common.ErrPrecondition, "unknown classifier backend %q", cfg.Backend)
	}
}
