package tonal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/config"
)

func TestChordLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "C"},
		{1, "C#"},
		{9, "A"},
		{11, "B"},
		{12, "Cm"},
		{21, "Am"},
		{23, "Bm"},
		{24, "N"},
		{25, "N"},
		{-1, "N"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChordLabel(tt.index), "index %d", tt.index)
	}
	assert.Len(t, ChordLabels(), ChordClasses)
}

// triad returns a chroma vector with the given pitch classes set to 1
func triad(notes ...int) []float64 {
	v := make([]float64, 12)
	for _, n := range notes {
		v[n%12] = 1
	}
	return v
}

func TestTemplateClassifierTriads(t *testing.T) {
	tc := NewTemplateClassifier(0.1)

	tests := []struct {
		name     string
		features []float64
		want     int
	}{
		{"C major", triad(0, 4, 7), 0},
		{"G major", triad(7, 11, 2), 7},
		{"A minor", triad(9, 0, 4), 12 + 9},
		{"E minor", triad(4, 7, 11), 12 + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tc.Predict(tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, ChordLabel(got))
		})
	}
}

func TestTemplateClassifierNoChord(t *testing.T) {
	tc := NewTemplateClassifier(0.5)

	got, err := tc.Predict(make([]float64, 12))
	require.NoError(t, err)
	assert.Equal(t, NoChord, got)

	// a flat vector has no triad shape
	flat := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	got, err = tc.Predict(flat)
	require.NoError(t, err)
	assert.Equal(t, NoChord, got)
}

func TestTemplateClassifierScores(t *testing.T) {
	tc := NewTemplateClassifier(0)

	scores, err := tc.Scores(triad(0, 4, 7))
	require.NoError(t, err)
	require.Len(t, scores, NoChord)
	assert.Equal(t, 0, common.ArgMax(scores))

	_, err = tc.Scores(make([]float64, 3))
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestTemplateClassifierClose(t *testing.T) {
	tc := NewTemplateClassifier(0.1)

	_, err := tc.Predict(make([]float64, 5))
	assert.ErrorIs(t, err, common.ErrPrecondition)

	require.NoError(t, tc.Close())
	require.NoError(t, tc.Close())

	_, err = tc.Predict(triad(0, 4, 7))
	assert.ErrorIs(t, err, common.ErrClosed)
}

func TestLinearClassifier(t *testing.T) {
	weights := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	lc, err := NewLinearClassifier(weights, []float64{0, 0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 3, lc.Classes())

	got, err := lc.Predict([]float64{0.2, 0.9, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// bias tips the balance
	got, err = lc.Predict([]float64{0.2, 0.5, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = lc.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, common.ErrPrecondition)

	require.NoError(t, lc.Close())
	require.NoError(t, lc.Close())
	_, err = lc.Predict([]float64{1, 0, 0})
	assert.ErrorIs(t, err, common.ErrClosed)
}

func TestNewLinearClassifierPreconditions(t *testing.T) {
	_, err := NewLinearClassifier(nil, nil)
	assert.ErrorIs(t, err, common.ErrPrecondition)

	_, err = NewLinearClassifier([][]float64{{1, 2}, {3}}, nil)
	assert.ErrorIs(t, err, common.ErrPrecondition)

	_, err = NewLinearClassifier([][]float64{{1, 2}, {3, 4}}, []float64{1})
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestNewClassifier(t *testing.T) {
	c, err := NewClassifier(config.DefaultClassifierConfig())
	require.NoError(t, err)
	assert.IsType(t, &TemplateClassifier{}, c)

	c, err = NewClassifier(config.ClassifierConfig{
		Backend: config.BackendLinear,
		Weights: [][]float64{{1, 0}, {0, 1}},
	})
	require.NoError(t, err)
	assert.IsType(t, &LinearClassifier{}, c)

	_, err = NewClassifier(config.ClassifierConfig{Backend: "tflite"})
	assert.ErrorIs(t, err, common.ErrPrecondition)

	_, err = NewClassifier(config.ClassifierConfig{Backend: config.BackendLinear})
	assert.ErrorIs(t, err, common.ErrPrecondition)
}
