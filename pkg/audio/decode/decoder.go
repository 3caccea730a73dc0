// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for frame payload decoders
package decode

import (
	"fmt"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
)

// Decoder converts encoded frame payloads to normalized float32 samples.
type Decoder interface {
	// Decode converts encoded audio data to mono float32 samples.
	Decode(data []byte) ([]float32, error)

	// Close releases decoder resources.
	Close() error
}

// New creates a decoder for the given codec. sampleRate is the rate the
// encoded audio was captured at.
func New(codec string, sampleRate int) (Decoder, error) {
	switch codec {
	case protocol.CodecPCM16:
		return NewPCM16(), nil
	case protocol.CodecOpus:
		return NewOpus(sampleRate)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}
