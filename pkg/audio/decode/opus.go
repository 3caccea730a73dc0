// ABOUTME: Opus payload decoder
// ABOUTME: Decodes mono Opus packets to float32 samples
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is the largest Opus frame: 120ms at 48kHz.
const maxOpusFrame = 5760

// OpusDecoder decodes mono Opus packets.
type OpusDecoder struct {
	decoder *opus.Decoder
	pcm     []int16
}

// NewOpus creates an Opus decoder for mono audio at the given rate.
func NewOpus(sampleRate int) (Decoder, error) {
	dec, err := opus.NewDecoder(sampleRate, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		pcm:     make([]int16, maxOpusFrame),
	}, nil
}

// Decode converts one Opus packet to float32 samples.
func (d *OpusDecoder) Decode(data []byte) ([]float32, error) {
	n, err := d.decoder.Decode(data, d.pcm)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}

	return audio.Int16ToFloat32(d.pcm[:n]), nil
}

// Close releases decoder resources.
func (d *OpusDecoder) Close() error {
	return nil
}
