package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/integrii/flaggy"

	"github.com/RyanBlaney/sonido-chord/config"
)

// AppName is the app name
const AppName = "chordstream"

// AppDesc is the app description
const AppDesc = "Stream chord labels out of audio files"

var version = "unknown"

type chordsOptions struct {
	input      string
	configPath string
	envFile    string
	debug      bool
}

type peaksOptions struct {
	input     string
	from      float64
	to        float64
	threshold float64
	frameSize int
	hopSize   int
}

func main() {
	log.SetFlags(0)

	chords := chordsOptions{}
	peaks := peaksOptions{
		from:      50,
		to:        2000,
		threshold: 2.5,
		frameSize: 4096,
		hopSize:   2048,
	}

	colorMode := "auto"

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.Version = version
	parser.String(&colorMode, "", "color", "log colors: auto, always or never")

	chordsCmd := flaggy.NewSubcommand("chords")
	chordsCmd.Description = "print one chord label per frame"
	chordsCmd.String(&chords.input, "i", "input", "audio file (.wav or .mp3)")
	chordsCmd.String(&chords.configPath, "c", "config", "JSON pipeline config")
	chordsCmd.String(&chords.envFile, "e", "env", "env file with "+config.EnvPrefix+"* overrides")
	chordsCmd.Bool(&chords.debug, "d", "debug", "log per-frame features")
	parser.AttachSubcommand(chordsCmd, 1)

	peaksCmd := flaggy.NewSubcommand("peaks")
	peaksCmd.Description = "print the spectral peaks of the average spectrum"
	peaksCmd.String(&peaks.input, "i", "input", "audio file (.wav or .mp3)")
	peaksCmd.Float64(&peaks.from, "f", "from", "lowest frequency in Hz")
	peaksCmd.Float64(&peaks.to, "u", "to", "highest frequency in Hz")
	peaksCmd.Float64(&peaks.threshold, "t", "threshold", "peak threshold in standard deviations")
	peaksCmd.Int(&peaks.frameSize, "n", "frame", "STFT frame size")
	peaksCmd.Int(&peaks.hopSize, "p", "hop", "STFT hop size")
	parser.AttachSubcommand(peaksCmd, 1)

	chk(parser.Parse(), "failed to parse arguments")
	chk(applyColorMode(colorMode), "color")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case chordsCmd.Used:
		chk(runChords(ctx, chords, os.Stdout), "chords")
	case peaksCmd.Used:
		chk(runPeaks(peaks, os.Stdout), "peaks")
	default:
		parser.ShowHelpAndExit("a subcommand is required")
	}
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
