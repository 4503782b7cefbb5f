package common

// Zero sets every element of buf to 0. Any length is valid, including 0 and 1.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// SlidingWindow assembles fixed-size frames out of a stream of samples with a
// configurable hop between frame starts.
type SlidingWindow struct {
	buffer     []float64
	windowSize int
	hopSize    int
	writePos   int
	skip       int
}

// NewSlidingWindow creates a new sliding window. A hop larger than the window
// skips the samples in between.
func NewSlidingWindow(windowSize, hopSize int) *SlidingWindow {
	return &SlidingWindow{
		buffer:     make([]float64, windowSize),
		windowSize: windowSize,
		hopSize:    hopSize,
	}
}

// AddSamples adds samples and returns the frames completed by them, in order.
func (sw *SlidingWindow) AddSamples(samples []float64) [][]float64 {
	var frames [][]float64

	for _, sample := range samples {
		if sw.skip > 0 {
			sw.skip--
			continue
		}

		sw.buffer[sw.writePos] = sample
		sw.writePos++

		if sw.writePos < sw.windowSize {
			continue
		}

		frame := make([]float64, sw.windowSize)
		copy(frame, sw.buffer)
		frames = append(frames, frame)

		if sw.hopSize < sw.windowSize {
			// Overlap: shift buffer left by hopSize
			copy(sw.buffer, sw.buffer[sw.hopSize:])
			sw.writePos = sw.windowSize - sw.hopSize
		} else {
			sw.writePos = 0
			sw.skip = sw.hopSize - sw.windowSize
		}
	}

	return frames
}

// Pending returns how many samples are buffered towards the next frame.
func (sw *SlidingWindow) Pending() int {
	return sw.writePos
}

// Reset clears the sliding window
func (sw *SlidingWindow) Reset() {
	sw.writePos = 0
	sw.skip = 0
	Zero(sw.buffer)
}

// GetWindowSize returns the window size
func (sw *SlidingWindow) GetWindowSize() int {
	return sw.windowSize
}

// GetHopSize returns the hop size
func (sw *SlidingWindow) GetHopSize() int {
	return sw.hopSize
}
