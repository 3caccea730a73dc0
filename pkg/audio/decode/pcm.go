// ABOUTME: PCM16 payload decoder
// ABOUTME: Decodes little-endian 16-bit PCM to float32 samples
package decode

import "github.com/Resonate-Protocol/voicebridge-go/pkg/audio"

// PCM16Decoder decodes little-endian 16-bit PCM payloads.
type PCM16Decoder struct{}

// NewPCM16 creates a PCM16 decoder.
func NewPCM16() Decoder {
	return &PCM16Decoder{}
}

// Decode converts PCM bytes to float32 samples.
func (d *PCM16Decoder) Decode(data []byte) ([]float32, error) {
	return audio.BytesToFloat32(data), nil
}

// Close releases resources.
func (d *PCM16Decoder) Close() error {
	return nil
}
