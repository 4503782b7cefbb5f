package config

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/algorithms/windowing"
)

// CRPSource selects the vector the CRP normalizer runs over
type CRPSource string

const (
	// CRPFromChroma folds to 12 bins first, then normalizes
	CRPFromChroma CRPSource = "chroma"
	// CRPFromPitch normalizes the 120-pitch vector, then folds
	CRPFromPitch CRPSource = "pitch"
)

// Classifier backends
const (
	BackendTemplate = "template"
	BackendLinear   = "linear"
)

// EnvPrefix is the default prefix for environment overrides
const EnvPrefix = "CHORD_"

// PipelineConfig configures one streaming chord processor
type PipelineConfig struct {
	// Signal framing
	SampleRate float64 `json:"sample_rate"`
	FrameSize  int     `json:"frame_size"` // samples per frame, must be even
	HopSize    int     `json:"hop_size"`   // 0 means hop = frame size

	// Feature extraction
	LogConstant     float64   `json:"log_constant"`
	Window          string    `json:"window"`           // hann, hamming, blackman, bartlett, flattop, rectangular
	TuningFrequency float64   `json:"tuning_frequency"` // A4 reference in Hz
	CRPSource       CRPSource `json:"crp_source"`
	CRPReduction    int       `json:"crp_reduction,omitempty"` // 0 uses the default for the source

	Classifier ClassifierConfig `json:"classifier"`

	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level,omitempty"`
}

// ClassifierConfig selects and parameterizes the chord classifier
type ClassifierConfig struct {
	Backend  string  `json:"backend"`   // "template" or "linear"
	MinScore float64 `json:"min_score"` // template: cosine below this is no-chord

	// linear backend: one row of weights per chord class
	Weights [][]float64 `json:"weights,omitempty"`
	Bias    []float64   `json:"bias,omitempty"`
}

// DefaultPipelineConfig returns sensible defaults for chord streaming
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		SampleRate:      44100,
		FrameSize:       4096,
		HopSize:         0,
		LogConstant:     100.0,
		Window:          string(windowing.Hann),
		TuningFrequency: chroma.DefaultTuning,
		CRPSource:       CRPFromChroma,
		Classifier:      DefaultClassifierConfig(),
		LogLevel:        "info",
	}
}

// DefaultClassifierConfig returns the template classifier defaults
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Backend:  BackendTemplate,
		MinScore: 0.1,
	}
}

// Validate checks every construction parameter
func (c *PipelineConfig) Validate() error {
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		return errors.Wrapf(common.ErrPrecondition, "sample rate must be positive, got %g", c.SampleRate)
	}
	if c.FrameSize <= 0 || c.FrameSize%2 != 0 {
		return errors.Wrapf(common.ErrPrecondition, "frame size must be positive and even, got %d", c.FrameSize)
	}
	if c.HopSize < 0 {
		return errors.Wrapf(common.ErrPrecondition, "hop size must not be negative, got %d", c.HopSize)
	}
	if !(c.LogConstant > 0) || math.IsInf(c.LogConstant, 0) {
		return errors.Wrapf(common.ErrPrecondition, "log constant must be positive, got %g", c.LogConstant)
	}
	if _, err := windowing.ParseType(c.Window); err != nil {
		return err
	}
	if !(c.TuningFrequency > 0) || math.IsInf(c.TuningFrequency, 0) {
		return errors.Wrapf(common.ErrPrecondition, "tuning frequency must be positive, got %g", c.TuningFrequency)
	}

	switch c.CRPSource {
	case CRPFromChroma, CRPFromPitch:
	default:
		return errors.Wrapf(common.ErrPrecondition, "unknown CRP source %q", c.CRPSource)
	}
	if c.CRPReduction < 0 || c.CRPReduction >= c.CRPSize() {
		return errors.Wrapf(common.ErrPrecondition, "CRP reduction %d out of range for %s source", c.CRPReduction, c.CRPSource)
	}

	switch c.Classifier.Backend {
	case BackendTemplate:
	case BackendLinear:
		return c.Classifier.validateLinear()
	default:
		return errors.Wrapf(common.ErrPrecondition, "unknown classifier backend %q", c.Classifier.Backend)
	}

	return nil
}

// validateLinear checks the weights map chroma features to classes
func (c *ClassifierConfig) validateLinear() error {
	if len(c.Weights) == 0 {
		return errors.Wrap(common.ErrPrecondition, "linear classifier needs weights")
	}
	for i, row := range c.Weights {
		if len(row) != chroma.ChromaBins {
			return errors.Wrapf(common.ErrPrecondition,
				"weight row %d has %d columns, features have %d", i, len(row), chroma.ChromaBins)
		}
	}
	if len(c.Bias) > 0 && len(c.Bias) != len(c.Weights) {
		return errors.Wrapf(common.ErrPrecondition,
			"bias has %d entries, weights have %d rows", len(c.Bias), len(c.Weights))
	}
	return nil
}

// EffectiveHopSize returns the hop between frames
func (c *PipelineConfig) EffectiveHopSize() int {
	if c.HopSize == 0 {
		return c.FrameSize
	}
	return c.HopSize
}

// CRPSize returns the length of the vector CRP runs over
func (c *PipelineConfig) CRPSize() int {
	if c.CRPSource == CRPFromPitch {
		return chroma.PitchCount
	}
	return chroma.ChromaBins
}

// EffectiveCRPReduction returns the number of low DCT coefficients removed
func (c *PipelineConfig) EffectiveCRPReduction() int {
	if c.CRPReduction > 0 {
		return c.CRPReduction
	}
	if c.CRPSource == CRPFromPitch {
		return chroma.PitchCRPReduction
	}
	return chroma.DefaultCRPReduction
}

// LoadPipelineConfig reads a JSON config file. Missing fields keep their
// defaults.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	cfg := DefaultPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. With no
// paths it reads .env from the working directory.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Wrap(err, "loading env file")
	}
	return nil
}

// ApplyEnv overrides fields from environment variables named prefix+KEY,
// e.g. CHORD_FRAME_SIZE. Unset variables leave fields alone.
func (c *PipelineConfig) ApplyEnv(prefix string) error {
	lookup := func(key string) (string, bool) {
		v, ok := os.LookupEnv(prefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := lookup("SAMPLE_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "%sSAMPLE_RATE", prefix)
		}
		c.SampleRate = f
	}
	if v, ok := lookup("FRAME_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sFRAME_SIZE", prefix)
		}
		c.FrameSize = n
	}
	if v, ok := lookup("HOP_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sHOP_SIZE", prefix)
		}
		c.HopSize = n
	}
	if v, ok := lookup("LOG_CONSTANT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "%sLOG_CONSTANT", prefix)
		}
		c.LogConstant = f
	}
	if v, ok := lookup("WINDOW"); ok {
		c.Window = strings.ToLower(v)
	}
	if v, ok := lookup("TUNING"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "%sTUNING", prefix)
		}
		c.TuningFrequency = f
	}
	if v, ok := lookup("CRP_SOURCE"); ok {
		c.CRPSource = CRPSource(strings.ToLower(v))
	}
	if v, ok := lookup("CLASSIFIER"); ok {
		c.Classifier.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%sDEBUG", prefix)
		}
		c.Debug = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}

	return nil
}
