package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/algorithms/spectral"
	"github.com/RyanBlaney/sonido-chord/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chord/algorithms/windowing"
	"github.com/RyanBlaney/sonido-chord/config"
	"github.com/RyanBlaney/sonido-chord/logging"
)

// State is the lifecycle state of a Processor
type State int

const (
	StateReady State = iota
	StateProcessing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateProcessing:
		return "processing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option configures a Processor
type Option func(*Processor)

// WithLogger replaces the processor's logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Processor turns audio frames into chord labels one frame at a time:
// window, power spectrum, log compression, pitch mapping, chroma folding,
// CRP, classification. All working buffers are owned by the processor and
// reused across frames.
type Processor struct {
	mu    sync.Mutex
	state State

	cfg        *config.PipelineConfig
	window     *windowing.Window
	power      *spectral.PowerSpectrum
	pitchMap   *chroma.BinPitchMap
	crp        *chroma.CRP
	classifier tonal.Classifier
	sink       Sink
	logger     logging.Logger

	frame    []float64
	spectrum []float64
	pitch    []float64
	chroma   []float64
	features []float64
	pitchCRP []float64 // only with pitch-domain CRP

	frames int
}

// New builds a processor from a copy of cfg. A nil classifier is built from
// cfg.Classifier; a nil cfg uses the defaults.
func New(cfg *config.PipelineConfig, classifier tonal.Classifier, sink Sink, opts ...Option) (*Processor, error) {
	if cfg == nil {
		cfg = config.DefaultPipelineConfig()
	}
	// later edits by the caller must not bypass validation
	c := *cfg
	cfg = &c
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pipeline config")
	}
	if sink == nil {
		return nil, errors.Wrap(common.ErrPrecondition, "processor needs a sink")
	}

	windowType, err := windowing.ParseType(cfg.Window)
	if err != nil {
		return nil, err
	}
	window, err := windowing.New(windowType, cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	power, err := spectral.NewPowerSpectrum(cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	pitchMap, err := chroma.SharedBinPitchMap(cfg.FrameSize, cfg.SampleRate, cfg.TuningFrequency)
	if err != nil {
		return nil, err
	}
	crp, err := chroma.NewCRP(cfg.CRPSize(), cfg.EffectiveCRPReduction())
	if err != nil {
		return nil, err
	}

	if classifier == nil {
		classifier, err = tonal.NewClassifier(cfg.Classifier)
		if err != nil {
			return nil, err
		}
	}

	p := &Processor{
		state:      StateReady,
		cfg:        cfg,
		window:     window,
		power:      power,
		pitchMap:   pitchMap,
		crp:        crp,
		classifier: classifier,
		sink:       sink,
		logger: logging.WithFields(logging.Fields{
			"component": "chord_processor",
		}),
		frame:    make([]float64, cfg.FrameSize),
		spectrum: make([]float64, power.Bins()),
		pitch:    make([]float64, chroma.PitchCount),
		chroma:   make([]float64, chroma.ChromaBins),
		features: make([]float64, chroma.ChromaBins),
	}
	if cfg.CRPSource == config.CRPFromPitch {
		p.pitchCRP = make([]float64, chroma.PitchCount)
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger.Info("Chord processor created", logging.Fields{
		"sample_rate":   pitchMap.SampleRate(),
		"frame_size":    pitchMap.FrameSize(),
		"tuning":        pitchMap.Tuning(),
		"bin_hz":        pitchMap.Resolution(),
		"window":        window.GetType(),
		"crp_source":    cfg.CRPSource,
		"crp_reduction": crp.Reduction(),
		"backend":       cfg.Classifier.Backend,
	})

	return p, nil
}

// Process classifies one frame and emits its label. frame is not modified.
// A failed frame leaves the processor ready for the next one.
func (p *Processor) Process(frame []float64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return tonal.NoChordLabel, errors.Wrap(common.ErrClosed, "chord processor")
	}
	if err := common.CheckLength("frame", len(frame), p.cfg.FrameSize); err != nil {
		return tonal.NoChordLabel, err
	}

	p.state = StateProcessing
	defer func() { p.state = StateReady }()

	label, err := p.processFrame(frame)
	if err != nil {
		p.logger.Error(err, "Frame processing failed", logging.Fields{"frame": p.frames})
		return tonal.NoChordLabel, err
	}

	p.frames++
	return label, nil
}

func (p *Processor) processFrame(frame []float64) (string, error) {
	common.Zero(p.spectrum)
	common.Zero(p.pitch)
	common.Zero(p.chroma)
	common.Zero(p.features)
	common.Zero(p.pitchCRP)

	copy(p.frame, frame)
	if err := p.window.ApplyInPlace(p.frame); err != nil {
		return "", err
	}
	if err := p.power.Compute(p.spectrum, p.frame); err != nil {
		return "", err
	}
	if err := spectral.LogCompress(p.spectrum, p.cfg.LogConstant); err != nil {
		return "", err
	}
	if err := p.pitchMap.Map(p.spectrum, p.pitch); err != nil {
		return "", err
	}
	if err := chroma.Fold(p.pitch, p.chroma); err != nil {
		return "", err
	}

	if p.pitchCRP != nil {
		if err := p.crp.Process(p.pitch, p.cfg.LogConstant, p.pitchCRP); err != nil {
			return "", err
		}
		if err := chroma.Fold(p.pitchCRP, p.features); err != nil {
			return "", err
		}
		common.L2NormalizeInPlace(p.features, 1e-12)
	} else if err := p.crp.Process(p.chroma, p.cfg.LogConstant, p.features); err != nil {
		return "", err
	}

	index, err := p.classifier.Predict(p.features)
	if err != nil {
		return "", errors.Wrap(err, "classifier")
	}
	label := tonal.ChordLabel(index)

	if err := p.sink.Emit(label); err != nil {
		return "", errors.Wrap(err, "emitting label")
	}

	if p.cfg.Debug {
		p.logger.Debug("Frame classified", logging.Fields{
			"frame":    p.frames,
			"label":    label,
			"dominant": chroma.PitchClassName(common.ArgMax(p.chroma)),
			"features": p.features,
		})
	}

	return label, nil
}

// Run pulls frames from source until it reports io.EOF or ctx is done and
// returns the number of frames processed.
func (p *Processor) Run(ctx context.Context, source FrameSource) (int, error) {
	buf := make([]float64, p.cfg.FrameSize)
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		err := source.ReadFrame(buf)
		if err == io.EOF {
			return processed, nil
		}
		if err != nil {
			return processed, errors.Wrap(err, "reading frame")
		}

		if _, err := p.Process(buf); err != nil {
			return processed, err
		}
		processed++
	}
}

// Close releases the classifier and closes the sink if it is an io.Closer.
// An in-flight Process completes first. Closing twice is a no-op.
func (p *Processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return nil
	}
	p.state = StateClosed

	var firstErr error
	if err := p.classifier.Close(); err != nil {
		firstErr = errors.Wrap(err, "closing classifier")
	}
	if c, ok := p.sink.(io.Closer); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "closing sink")
		}
	}

	p.logger.Info("Chord processor closed", logging.Fields{"frames": p.frames})
	return firstErr
}

// State returns the current lifecycle state
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Features returns a copy of the last frame's CRP vector
func (p *Processor) Features() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.features...)
}

// Chroma returns a copy of the last frame's chroma vector
func (p *Processor) Chroma() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.chroma...)
}

// Pitch returns a copy of the last frame's pitch vector
func (p *Processor) Pitch() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.pitch...)
}

// FramesProcessed returns how many frames were classified successfully
func (p *Processor) FramesProcessed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}
