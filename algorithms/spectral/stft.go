package spectral

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/algorithms/common"
	"github.com/RyanBlaney/sonido-chord/logging"
	"github.com/RyanBlaney/sonido-chord/signal"
)

// STFT computes power spectrograms of whole time-domain signals. It is the
// batch counterpart of the streaming pipeline and is used to prepare spectra
// for the spectral utilities.
type STFT struct {
	fft    *FFT
	logger logging.Logger
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(frame []float64) error
	GetSize() int
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft:    NewFFT(),
		logger: logging.WithFields(logging.Fields{"component": "stft"}),
	}
}

// ComputePower splits sig into frames of frameSize samples every hopSize
// samples, windows each frame and returns its N/2-bin power spectrum.
// Frames are processed in parallel; each worker owns its frame buffer.
func (s *STFT) ComputePower(sig *signal.Signal, frameSize, hopSize int, window Window) (*signal.Spectrum, error) {
	if err := sig.RequireTime(); err != nil {
		return nil, err
	}

	if frameSize <= 0 || frameSize%2 != 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "frame size must be positive and even, got %d", frameSize)
	}

	if hopSize <= 0 {
		return nil, errors.Wrapf(common.ErrPrecondition, "hop size must be positive, got %d", hopSize)
	}

	if window != nil && window.GetSize() != frameSize {
		return nil, errors.Wrapf(common.ErrPrecondition,
			"window size %d does not match frame size %d", window.GetSize(), frameSize)
	}

	numFrames := (len(sig.Data)-frameSize)/hopSize + 1
	if len(sig.Data) < frameSize || numFrames <= 0 {
		return nil, errors.Wrapf(common.ErrPrecondition,
			"signal too short (%d samples) for frame size %d", len(sig.Data), frameSize)
	}

	bins := frameSize / 2
	frames := make([][]float64, numFrames)
	for i := range frames {
		frames[i] = make([]float64, bins)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)
	jobs := make(chan int, numFrames)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			frameBuffer := make([]float64, frameSize)

			for frameIdx := range jobs {
				start := frameIdx * hopSize
				copy(frameBuffer, sig.Data[start:start+frameSize])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						errOnce.Do(func() { firstErr = err })
						continue
					}
				}

				ComputeFromComplex(frames[frameIdx], s.fft.Compute(frameBuffer))
			}
		}()
	}

	for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
		jobs <- frameIdx
	}
	close(jobs)

	wg.Wait()

	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "windowing frame")
	}

	s.logger.Debug("Computed power spectrogram", logging.Fields{
		"signal":     sig.Name,
		"frames":     numFrames,
		"bins":       bins,
		"workers":    numWorkers,
		"frame_size": frameSize,
		"hop_size":   hopSize,
	})

	return signal.NewSpectrum(
		fmt.Sprintf("stft%d_%s", frameSize, sig.Name),
		frames,
		sig.SampleRate,
		sig.SampleRate/float64(frameSize),
		0,
	)
}

// getOptimalWorkerCount determines the optimal number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
