// ABOUTME: WebSocket sender for the feeder client
// ABOUTME: Handles the hello handshake and paced frame pushes
package feed

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Sender streams frames to a playback endpoint over WebSocket.
type Sender struct {
	conn     *websocket.Conn
	clientID string
	name     string
}

// Dial connects to the endpoint's voice path.
func Dial(url, name string) (*Sender, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	return &Sender{
		conn:     conn,
		clientID: uuid.New().String(),
		name:     name,
	}, nil
}

// Handshake announces the feeder and returns the endpoint's reply.
func (s *Sender) Handshake(softwareVersion string, inputRate int) (*protocol.ServerHello, error) {
	hello, err := protocol.NewMessage(protocol.TypeClientHello, protocol.ClientHello{
		ClientID:        s.clientID,
		Name:            s.name,
		SoftwareVersion: softwareVersion,
		InputSampleRate: inputRate,
	})
	if err != nil {
		return nil, err
	}
	if err := s.conn.WriteJSON(hello); err != nil {
		return nil, fmt.Errorf("failed to send client/hello: %w", err)
	}

	var msg protocol.Message
	if err := s.conn.ReadJSON(&msg); err != nil {
		return nil, fmt.Errorf("failed to read server/hello: %w", err)
	}
	if msg.Type != protocol.TypeServerHello {
		return nil, fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, msg.Type)
	}

	var reply protocol.ServerHello
	if err := json.Unmarshal(msg.Payload, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode server/hello: %w", err)
	}

	return &reply, nil
}

// SendFrame pushes one frame to the endpoint.
func (s *Sender) SendFrame(push protocol.FramePush) error {
	msg, err := protocol.NewMessage(protocol.TypeFramePush, push)
	if err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// ReadStateLoop logs buffer health reports until the connection drops.
// Run it in its own goroutine.
func (s *Sender) ReadStateLoop() {
	for {
		var msg protocol.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != protocol.TypeServerState {
			continue
		}

		var state protocol.ServerState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			continue
		}
		log.Printf("Endpoint state: %s, buffered %d, underruns %d",
			state.State, state.Buffered, state.Underruns)
	}
}

// Close closes the connection.
func (s *Sender) Close() error {
	return s.conn.Close()
}
