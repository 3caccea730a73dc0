// ABOUTME: Per-feeder session state and frame handling
// ABOUTME: Decodes frame payloads and pushes them into the processor
package server

import (
	"encoding/json"
	"log"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/voicebuffer"
)

// session holds per-feeder state. Decoders are created lazily per codec
// and live for the connection (the opus decoder is stateful).
type session struct {
	proc      *voicebuffer.Processor
	name      string
	inputRate int
	decoders  map[string]decode.Decoder
}

func newSession(proc *voicebuffer.Processor, name string, inputRate int) *session {
	return &session{
		proc:      proc,
		name:      name,
		inputRate: inputRate,
		decoders:  make(map[string]decode.Decoder),
	}
}

// handleFrame decodes one frame/push payload and buffers it. Malformed
// or empty payloads are dropped silently; the push path never errors
// back to the feeder.
func (s *session) handleFrame(payload json.RawMessage) {
	var push protocol.FramePush
	if err := json.Unmarshal(payload, &push); err != nil {
		log.Printf("Bad frame payload from %s: %v", s.name, err)
		return
	}

	kind := voicebuffer.Kind(push.Kind)
	if kind != voicebuffer.KindAudio && kind != voicebuffer.KindSpeech {
		log.Printf("Dropping frame with unknown kind %q from %s", push.Kind, s.name)
		return
	}

	samples := push.Samples
	if len(samples) == 0 && len(push.Data) > 0 && push.Codec != "" {
		decoded, err := s.decodePayload(push.Codec, push.Data)
		if err != nil {
			log.Printf("Failed to decode %s frame from %s: %v", push.Codec, s.name, err)
			return
		}
		samples = decoded
	}

	// Empty after decoding is a no-op, not an error.
	s.proc.Push(kind, samples)
}

// decodePayload runs encoded bytes through the session's codec decoder.
func (s *session) decodePayload(codec string, data []byte) ([]float32, error) {
	dec, ok := s.decoders[codec]
	if !ok {
		var err error
		dec, err = decode.New(codec, s.inputRate)
		if err != nil {
			return nil, err
		}
		s.decoders[codec] = dec
	}

	return dec.Decode(data)
}

// close releases the session's decoders.
func (s *session) close() {
	for _, dec := range s.decoders {
		dec.Close()
	}
}
