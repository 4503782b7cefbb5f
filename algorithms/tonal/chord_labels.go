package tonal

import (
	"github.com/RyanBlaney/sonido-chord/algorithms/chroma"
)

const (
	// MajorChords is the number of major triads (indices 0..11)
	MajorChords = 12
	// MinorChords is the number of minor triads (indices 12..23)
	MinorChords = 12
	// NoChord is the class index for "no chord"
	NoChord = MajorChords + MinorChords
	// ChordClasses is the size of the label table including NoChord
	ChordClasses = NoChord + 1

	// NoChordLabel is the label for NoChord and any unknown index
	NoChordLabel = "N"
)

var chordLabels = func() [ChordClasses]string {
	var labels [ChordClasses]string
	for root := 0; root < chroma.ChromaBins; root++ {
		name := chroma.PitchClassName(root)
		labels[root] = name
		labels[MajorChords+root] = name + "m"
	}
	labels[NoChord] = NoChordLabel
	return labels
}()

// ChordLabel maps a classifier index to its chord name. Indices outside the
// table map to "N".
func ChordLabel(index int) string {
	if index < 0 || index >= ChordClasses {
		return NoChordLabel
	}
	return chordLabels[index]
}

// ChordLabels returns the full label table in index order
func ChordLabels() []string {
	out := make([]string, ChordClasses)
	copy(out, chordLabels[:])
	return out
}
