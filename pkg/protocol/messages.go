// ABOUTME: Voicebridge protocol message type definitions
// ABOUTME: JSON envelope plus frame push and handshake payloads
package protocol

import "encoding/json"

// Message types exchanged over the WebSocket.
const (
	TypeClientHello = "client/hello"
	TypeServerHello = "server/hello"
	TypeFramePush   = "frame/push"
	TypeServerState = "server/state"
)

// Frame kinds. Both are buffered identically by the endpoint; the tag
// mirrors what the VAD pipeline emits.
const (
	FrameKindAudio  = "audio"
	FrameKindSpeech = "speech"
)

// Payload codecs for frame pushes that carry encoded bytes instead of a
// plain sample array.
const (
	CodecPCM16 = "pcm16"
	CodecOpus  = "opus"
)

// Message is the top-level wrapper for all protocol messages. Payload is
// kept raw so readers can dispatch on Type before decoding.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a payload struct in an envelope.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}

// ClientHello is sent by a producer to initiate the session.
type ClientHello struct {
	ClientID        string `json:"client_id"`
	Name            string `json:"name"`
	SoftwareVersion string `json:"software_version,omitempty"`
	InputSampleRate int    `json:"input_sample_rate"`
}

// ServerHello is the endpoint's response to client/hello.
type ServerHello struct {
	ServerID         string `json:"server_id"`
	Name             string `json:"name"`
	OutputSampleRate int    `json:"output_sample_rate"`
	BlockSize        int    `json:"block_size"`
}

// FramePush carries one audio frame from the producer. Either Samples
// holds plain float samples, or Data holds codec-encoded bytes (base64 on
// the wire) with Codec naming the encoding. A push with neither is
// silently dropped by the endpoint.
type FramePush struct {
	Kind    string    `json:"kind"`
	Samples []float32 `json:"samples,omitempty"`
	Codec   string    `json:"codec,omitempty"`
	Data    []byte    `json:"data,omitempty"`
}

// ServerState is sent periodically so producers can observe buffer health.
type ServerState struct {
	State      string `json:"state"`
	Buffered   int    `json:"buffered"`
	FramesIn   int64  `json:"frames_in"`
	SamplesOut int64  `json:"samples_out"`
	Underruns  int64  `json:"underruns"`
}
