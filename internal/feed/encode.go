// ABOUTME: Frame payload encoders for the feeder client
// ABOUTME: Builds frame/push payloads as plain samples, PCM16, or Opus
package feed

import (
	"fmt"
	"log"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
	"gopkg.in/hraban/opus.v2"
)

// FrameEncoder turns a mono frame into a frame/push payload.
type FrameEncoder interface {
	Encode(kind string, samples []float32) (protocol.FramePush, error)
	Close() error
}

// NewFrameEncoder creates an encoder for the given codec name. The
// empty string or "float32" sends plain samples.
func NewFrameEncoder(codec string, sampleRate int) (FrameEncoder, error) {
	switch codec {
	case "", "float32":
		return plainEncoder{}, nil
	case protocol.CodecPCM16:
		return pcm16Encoder{}, nil
	case protocol.CodecOpus:
		return newOpusFrameEncoder(sampleRate)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}

// plainEncoder sends samples as JSON floats
type plainEncoder struct{}

func (plainEncoder) Encode(kind string, samples []float32) (protocol.FramePush, error) {
	return protocol.FramePush{Kind: kind, Samples: samples}, nil
}

func (plainEncoder) Close() error { return nil }

// pcm16Encoder packs samples into little-endian 16-bit PCM
type pcm16Encoder struct{}

func (pcm16Encoder) Encode(kind string, samples []float32) (protocol.FramePush, error) {
	return protocol.FramePush{
		Kind:  kind,
		Codec: protocol.CodecPCM16,
		Data:  audio.Float32ToBytes(samples),
	}, nil
}

func (pcm16Encoder) Close() error { return nil }

// opusFrameEncoder wraps libopus for mono voice frames
type opusFrameEncoder struct {
	encoder *opus.Encoder
}

func newOpusFrameEncoder(sampleRate int) (*opusFrameEncoder, error) {
	encoder, err := opus.NewEncoder(sampleRate, 1, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	if err := encoder.SetBitrate(32000); err != nil {
		log.Printf("Warning: Failed to set Opus bitrate: %v", err)
	}

	return &opusFrameEncoder{encoder: encoder}, nil
}

func (e *opusFrameEncoder) Encode(kind string, samples []float32) (protocol.FramePush, error) {
	pcm := audio.Float32ToInt16(samples)

	// Opus packets never exceed 4000 bytes.
	output := make([]byte, 4000)
	n, err := e.encoder.Encode(pcm, output)
	if err != nil {
		return protocol.FramePush{}, fmt.Errorf("opus encode failed: %w", err)
	}

	return protocol.FramePush{
		Kind:  kind,
		Codec: protocol.CodecOpus,
		Data:  output[:n],
	}, nil
}

func (e *opusFrameEncoder) Close() error { return nil }
