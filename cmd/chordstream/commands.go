package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/algorithms/spectral"
	"github.com/RyanBlaney/sonido-chord/algorithms/windowing"
	"github.com/RyanBlaney/sonido-chord/config"
	"github.com/RyanBlaney/sonido-chord/logging"
	"github.com/RyanBlaney/sonido-chord/pipeline"
	"github.com/RyanBlaney/sonido-chord/signal"
	"github.com/RyanBlaney/sonido-chord/transcode"
)

// applyColorMode forces log colors on or off. auto leaves the TTY check in
// charge.
func applyColorMode(mode string) error {
	switch mode {
	case "", "auto":
	case "always":
		logging.EnableColors()
	case "never":
		logging.DisableColors()
	default:
		return errors.Errorf("unknown color mode %q", mode)
	}
	return nil
}

// loadConfig layers defaults, the JSON file, the env file and the
// environment, in that order.
func loadConfig(opts chordsOptions) (*config.PipelineConfig, error) {
	cfg := config.DefaultPipelineConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadPipelineConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.envFile != "" {
		if err := config.LoadEnvFile(opts.envFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(config.EnvPrefix); err != nil {
		return nil, err
	}

	if opts.debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func runChords(ctx context.Context, opts chordsOptions, out io.Writer) error {
	if opts.input == "" {
		return errors.New("an input file is required (-i)")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	audio, err := transcode.DecodeFile(opts.input)
	if err != nil {
		return err
	}
	// the stream dictates the rate the bin map is built for
	cfg.SampleRate = float64(audio.SampleRate)

	source, err := transcode.NewFrameReader(audio.PCM, cfg.FrameSize, cfg.EffectiveHopSize())
	if err != nil {
		return err
	}

	proc, err := pipeline.New(cfg, nil, pipeline.NewWriterSink(out))
	if err != nil {
		return err
	}

	n, runErr := proc.Run(ctx, source)
	closeErr := proc.Close()

	logging.Info("Stream finished", logging.Fields{
		"frames":       n,
		"file":         opts.input,
		"tail_samples": source.Buffered(),
	})

	if runErr != nil {
		return runErr
	}
	return closeErr
}

func runPeaks(opts peaksOptions, out io.Writer) error {
	if opts.input == "" {
		return errors.New("an input file is required (-i)")
	}

	audio, err := transcode.DecodeFile(opts.input)
	if err != nil {
		return err
	}

	sig, err := signal.NewTimeSignal(opts.input, audio.PCM, float64(audio.SampleRate))
	if err != nil {
		return err
	}

	window, err := windowing.New(windowing.Hann, opts.frameSize)
	if err != nil {
		return err
	}

	spectrum, err := spectral.NewSTFT().ComputePower(sig, opts.frameSize, opts.hopSize, window)
	if err != nil {
		return err
	}

	logging.Debug("Averaging spectrum", logging.Fields{
		"frames": spectrum.FrameCount(),
		"bins":   spectrum.Bins(),
	})
	mean, err := spectrum.Mean()
	if err != nil {
		return err
	}

	trimmed, err := spectral.TrimSignal(mean, opts.from, opts.to)
	if err != nil {
		return err
	}
	if err := spectral.SignalToDB(trimmed); err != nil {
		return err
	}
	if err := spectral.NormalizeSignal(trimmed); err != nil {
		if errors.Is(err, common.ErrDegenerate) {
			fmt.Fprintln(out, "no peaks: flat spectrum")
			return nil
		}
		return err
	}

	peaks, err := spectral.PeakDetection(trimmed.Data, opts.threshold)
	if err != nil {
		return err
	}

	info := trimmed.Frequency
	for _, idx := range peaks {
		freq := info.Offset + spectral.IdxToFreq(idx, info.Resolution)
		fmt.Fprintf(out, "%.2f Hz\t%.3f\n", freq, trimmed.Data[idx])
	}

	return nil
}
