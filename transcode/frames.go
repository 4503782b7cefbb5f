package transcode

import (
	"io"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// FrameReader cuts decoded PCM into fixed-size frames spaced hopSize samples
// apart. The trailing partial frame is dropped.
type FrameReader struct {
	pcm     []float64
	window  *common.SlidingWindow
	pos     int
	pending [][]float64
}

// chunk is the number of samples fed to the sliding window at a time
const chunk = 4096

// NewFrameReader creates a frame reader over pcm. A hopSize of 0 means
// non-overlapping frames.
func NewFrameReader(pcm []float64, frameSize, hopSize int) (*FrameReader, error) {
	if frameSize <= 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "frame size must be positive, got %d", frameSize)
	}
	if hopSize < 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "hop size must not be negative, got %d", hopSize)
	}
	if hopSize == 0 {
		hopSize = frameSize
	}

	return &FrameReader{
		pcm:    pcm,
		window: common.NewSlidingWindow(frameSize, hopSize),
	}, nil
}

// ReadFrame copies the next frame into dst. It returns io.EOF when no full
// frame remains.
func (fr *FrameReader) ReadFrame(dst []float64) error {
	if err := common.CheckLength("frame", len(dst), fr.FrameSize()); err != nil {
		return err
	}

	for len(fr.pending) == 0 {
		if fr.pos >= len(fr.pcm) {
			return io.EOF
		}
		end := min(fr.pos+chunk, len(fr.pcm))
		fr.pending = fr.window.AddSamples(fr.pcm[fr.pos:end])
		fr.pos = end
	}

	copy(dst, fr.pending[0])
	fr.pending = fr.pending[1:]
	return nil
}

// FrameSize returns the frame length in samples
func (fr *FrameReader) FrameSize() int {
	return fr.window.GetWindowSize()
}

// HopSize returns the distance between frame starts
func (fr *FrameReader) HopSize() int {
	return fr.window.GetHopSize()
}

// Buffered returns how many samples are held towards the next frame. After
// io.EOF, with a hop of at least the frame size, these are the trailing
// samples that never made a full frame.
func (fr *FrameReader) Buffered() int {
	return fr.window.Pending()
}

// Reset rewinds to the first frame
func (fr *FrameReader) Reset() {
	fr.window.Reset()
	fr.pos = 0
	fr.pending = nil
}
