package transcode

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"

	"github.com/RyanBlaney/sonido-chord/logging"
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64       `json:"-"` // mono samples in [-1, 1]
	SampleRate int             `json:"sample_rate"`
	Channels   int             `json:"channels"` // channel count of the source
	Duration   time.Duration   `json:"duration"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   *StreamMetadata `json:"metadata,omitempty"`
}

// StreamMetadata describes the decoded source
type StreamMetadata struct {
	Path       string    `json:"path,omitempty"`
	Format     string    `json:"format"`
	Codec      string    `json:"codec,omitempty"`
	SampleRate int       `json:"sample_rate,omitempty"`
	Channels   int       `json:"channels,omitempty"`
	BitDepth   int       `json:"bit_depth,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// mp3 output from go-mp3 is always 16-bit little endian stereo
const (
	mp3Channels      = 2
	mp3BytesPerFrame = 4
)

// ErrUnsupportedFormat is returned for files that are neither WAV nor MP3
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DecodeFile decodes a .wav or .mp3 file to mono PCM
func DecodeFile(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	defer f.Close()

	var data *AudioData
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".wav", ".wave":
		data, err = DecodeWAV(f)
	case ".mp3":
		data, err = DecodeMP3(f)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	data.Metadata.Path = filename
	logger.Debug("Audio file decoded", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"samples":     len(data.PCM),
		"duration":    data.Duration,
	})

	return data, nil
}

// DecodeBytes decodes an in-memory WAV or MP3 file. format is "wav" or "mp3".
func DecodeBytes(data []byte, format string) (*AudioData, error) {
	switch strings.ToLower(format) {
	case "wav", "wave":
		return DecodeWAV(bytes.NewReader(data))
	case "mp3":
		return DecodeMP3(bytes.NewReader(data))
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
}

// DecodeWAV decodes integer PCM WAV data, scaling samples by the source bit
// depth and averaging channels to mono.
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "reading wav PCM")
	}

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	if channels <= 0 || sampleRate <= 0 {
		return nil, errors.Errorf("invalid wav format: %d channels at %d Hz", channels, sampleRate)
	}

	pcm := intBufferToMono(buf, channels)
	return newAudioData(pcm, sampleRate, channels, &StreamMetadata{
		Format:     "wav",
		Codec:      "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   buf.SourceBitDepth,
	}), nil
}

// intBufferToMono scales interleaved integer samples to [-1, 1] and averages
// each frame's channels.
func intBufferToMono(buf *audio.IntBuffer, channels int) []float64 {
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	// 8-bit WAV is unsigned
	var offset float64
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels
	pcm := make([]float64, frames)
	for i := range pcm {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += (float64(buf.Data[i*channels+c]) - offset) / scale
		}
		pcm[i] = sum / float64(channels)
	}

	return pcm
}

// DecodeMP3 decodes an MP3 stream to mono
func DecodeMP3(r io.Reader) (*AudioData, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding mp3")
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, errors.Wrap(err, "reading mp3 samples")
	}

	frames := len(raw) / mp3BytesPerFrame
	pcm := make([]float64, frames)
	for i := range pcm {
		left := int16(binary.LittleEndian.Uint16(raw[i*mp3BytesPerFrame:]))
		right := int16(binary.LittleEndian.Uint16(raw[i*mp3BytesPerFrame+2:]))
		pcm[i] = (float64(left) + float64(right)) / (2 * 32768)
	}

	sampleRate := decoder.SampleRate()
	return newAudioData(pcm, sampleRate, mp3Channels, &StreamMetadata{
		Format:     "mp3",
		Codec:      "mp3",
		SampleRate: sampleRate,
		Channels:   mp3Channels,
		BitDepth:   16,
	}), nil
}

func newAudioData(pcm []float64, sampleRate, channels int, metadata *StreamMetadata) *AudioData {
	now := time.Now()
	metadata.Timestamp = now

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second)),
		Timestamp:  now,
		Metadata:   metadata,
	}
}
