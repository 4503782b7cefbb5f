package chroma

import (
	"math"
)

const (
	// ChromaBins is the number of pitch classes in a chroma vector
	ChromaBins = 12

	// PitchCount is the number of pitches in a pitch vector: MIDI 0..119,
	// C-1 to B8, ten full octaves. Pitch p belongs to pitch class p mod 12.
	PitchCount = 120

	// DefaultTuning is the reference frequency of A4 (MIDI 69)
	DefaultTuning = 440.0

	midiA4 = 69
)

var pitchClassNames = [ChromaBins]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClassName returns the name of pitch class pc (0=C ... 11=B). Any
// integer is accepted and reduced modulo 12.
func PitchClassName(pc int) string {
	return pitchClassNames[((pc%ChromaBins)+ChromaBins)%ChromaBins]
}

// ChromaLabels returns the chroma bin labels
func ChromaLabels() []string {
	labels := make([]string, ChromaBins)
	copy(labels, pitchClassNames[:])
	return labels
}

// PitchFrequency returns the centre frequency of MIDI pitch p on the
// equal-tempered ladder anchored at tuning (A4).
func PitchFrequency(p int, tuning float64) float64 {
	return tuning * math.Pow(2, float64(p-midiA4)/12)
}

// FrequencyToPitch returns the fractional MIDI pitch of a frequency
func FrequencyToPitch(frequency, tuning float64) float64 {
	return midiA4 + 12*math.Log2(frequency/tuning)
}

// NearestPitch returns the pitch whose band [p-0.5, p+0.5) semitones contains
// frequency, or Unmapped when frequency is not positive or the pitch falls
// outside [0, PitchCount).
func NearestPitch(frequency, tuning float64) int {
	if !(frequency > 0) {
		return Unmapped
	}

	p := int(math.Floor(FrequencyToPitch(frequency, tuning) + 0.5))
	if p < 0 || p >= PitchCount {
		return Unmapped
	}
	return p
}
