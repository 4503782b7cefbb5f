package tonal

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-chord/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

const featureEpsilon = 1e-9

// Triad patterns rooted at C
var (
	majorPattern = []float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
	minorPattern = []float64{1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0}
)

// TemplateClassifier matches a chroma-like feature vector against the 24
// major and minor triad templates by cosine similarity.
type TemplateClassifier struct {
	templates [NoChord][]float64
	minScore  float64

	mu     sync.RWMutex
	closed bool
}

// NewTemplateClassifier creates a template matcher. Frames whose best
// cosine score is below minScore are reported as NoChord.
func NewTemplateClassifier(minScore float64) *TemplateClassifier {
	tc := &TemplateClassifier{minScore: minScore}

	for root := 0; root < chroma.ChromaBins; root++ {
		tc.templates[root] = newTemplate(majorPattern, root)
		tc.templates[MajorChords+root] = newTemplate(minorPattern, root)
	}

	return tc
}

// newTemplate rotates pattern to root, removes its mean and scales it to unit
// length. CRP features carry no DC term, so the templates don't either.
func newTemplate(pattern []float64, root int) []float64 {
	t := make([]float64, chroma.ChromaBins)
	for i, v := range pattern {
		t[(i+root)%chroma.ChromaBins] = v
	}

	mean := floats.Sum(t) / float64(len(t))
	floats.AddConst(-mean, t)
	common.L2NormalizeInPlace(t, featureEpsilon)
	return t
}

// Predict returns the best matching triad, or NoChord
func (tc *TemplateClassifier) Predict(features []float64) (int, error) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if tc.closed {
		return NoChord, errors.Wrap(common.ErrClosed, "template classifier")
	}
	if err := common.CheckLength("feature vector", len(features), chroma.ChromaBins); err != nil {
		return NoChord, err
	}

	norm := floats.Norm(features, 2)
	if !(norm > featureEpsilon) {
		return NoChord, nil
	}

	best, bestScore := NoChord, tc.minScore
	for i, tmpl := range tc.templates {
		score := floats.Dot(features, tmpl) / norm
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	return best, nil
}

// Scores returns the cosine similarity against every template
func (tc *TemplateClassifier) Scores(features []float64) ([]float64, error) {
	if err := common.CheckLength("feature vector", len(features), chroma.ChromaBins); err != nil {
		return nil, err
	}

	scores := make([]float64, NoChord)
	norm := floats.Norm(features, 2)
	if !(norm > featureEpsilon) {
		return scores, nil
	}
	for i, tmpl := range tc.templates {
		scores[i] = floats.Dot(features, tmpl) / norm
	}
	return scores, nil
}

// Close releases the classifier. Calling it again is a no-op.
func (tc *TemplateClassifier) Close() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.closed = true
	return nil
}
