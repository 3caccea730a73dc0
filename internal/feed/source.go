// ABOUTME: Frame sources for the feeder client
// ABOUTME: Generates test tones or decodes MP3 files into mono frames
package feed

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// FrameSource provides mono float32 frames at a fixed sample rate.
type FrameSource interface {
	// ReadFrame fills a frame of n samples. Returns io.EOF when the
	// source is exhausted; a short final frame is valid.
	ReadFrame(n int) ([]float32, error)
	// SampleRate returns the native rate of the source.
	SampleRate() int
	// Close closes the source.
	Close() error
}

// NewFrameSource creates a source from an MP3 path, or a test tone when
// the path is empty.
func NewFrameSource(path string, toneFreq float64, toneRate int) (FrameSource, error) {
	if path == "" {
		return NewToneSource(toneFreq, toneRate), nil
	}
	return NewMP3Source(path)
}

// ToneSource generates an endless sine tone
type ToneSource struct {
	frequency   float64
	rate        int
	sampleIndex uint64
}

// NewToneSource creates a tone generator at the given frequency and rate
func NewToneSource(frequency float64, rate int) *ToneSource {
	return &ToneSource{
		frequency: frequency,
		rate:      rate,
	}
}

func (s *ToneSource) ReadFrame(n int) ([]float32, error) {
	frame := make([]float32, n)
	for i := range frame {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.rate)
		frame[i] = float32(math.Sin(2*math.Pi*s.frequency*t) * 0.5) // 50% volume
	}
	s.sampleIndex += uint64(n)
	return frame, nil
}

func (s *ToneSource) SampleRate() int { return s.rate }
func (s *ToneSource) Close() error    { return nil }

// MP3Source decodes an MP3 file into mono frames. go-mp3 always outputs
// 16-bit stereo, so each frame downmixes the two channels.
type MP3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	rate    int
}

// NewMP3Source opens an MP3 file for streaming
func NewMP3Source(path string) (*MP3Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	return &MP3Source{
		file:    file,
		decoder: decoder,
		rate:    decoder.SampleRate(),
	}, nil
}

func (s *MP3Source) ReadFrame(n int) ([]float32, error) {
	// n mono samples = n stereo frames = n*4 bytes of 16-bit PCM.
	buf := make([]byte, n*4)

	read, err := io.ReadFull(s.decoder, buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("MP3 read failed: %w", err)
	}

	// Truncate to whole stereo frames.
	read -= read % 4
	if read == 0 {
		return nil, io.EOF
	}

	stereo := audio.BytesToFloat32(buf[:read])
	return audio.StereoToMono(stereo), err
}

func (s *MP3Source) SampleRate() int { return s.rate }

func (s *MP3Source) Close() error {
	return s.file.Close()
}
