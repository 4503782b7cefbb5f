package pipeline

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
)

// Sink receives one chord label per processed frame. A sink that also
// implements io.Closer is closed with the processor.
type Sink interface {
	Emit(label string) error
}

// FrameSource yields fixed-size frames. ReadFrame returns io.EOF when the
// stream is exhausted.
type FrameSource interface {
	ReadFrame(dst []float64) error
}

// WriterSink writes each label on its own line
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink over w. If w is an io.Closer it is closed
// when the sink is.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return errors.Wrap(common.ErrClosed, "writer sink")
	}
	if _, err := io.WriteString(s.w, label+"\n"); err != nil {
		return errors.Wrap(err, "writing label")
	}
	return nil
}

func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return nil
	}
	w := s.w
	s.w = nil
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// CollectSink keeps labels in memory in emission order
type CollectSink struct {
	mu     sync.Mutex
	labels []string
	closed bool
}

func NewCollectSink() *CollectSink {
	return &CollectSink{}
}

func (s *CollectSink) Emit(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Wrap(common.ErrClosed, "collect sink")
	}
	s.labels = append(s.labels, label)
	return nil
}

// Labels returns a copy of everything emitted so far
func (s *CollectSink) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Closed reports whether Close was called
func (s *CollectSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *CollectSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
