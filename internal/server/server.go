// ABOUTME: WebSocket ingest server for the playback endpoint
// ABOUTME: Handles feeder handshake and pushes frames into the processor
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/voicebuffer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// statePushInterval is how often buffer health is reported to feeders.
const statePushInterval = time.Second

// Config holds server configuration.
type Config struct {
	Port      int
	Name      string
	BlockSize int
}

// FeederEvent notifies the app about feeder connects and disconnects.
type FeederEvent struct {
	Name      string
	Connected bool
}

// Server accepts feeder connections and routes their frames into the
// processor. The processor handles its own synchronization, so frames
// from the read loop go straight in.
type Server struct {
	config   Config
	serverID string
	proc     *voicebuffer.Processor

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	// OnFeeder, if set, is called on feeder connect/disconnect.
	OnFeeder func(FeederEvent)

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a server pushing into proc.
func New(config Config, proc *voicebuffer.Processor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		proc:     proc,
		mux:      mux,
		upgrader: websocket.Upgrader{
			// Feeders run on the local network; no origin allowlist.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux.HandleFunc("/voice", s.handleVoice)

	return s
}

// Start runs the HTTP server. Blocks until Stop or a listen error.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.mux,
	}

	log.Printf("Ingest server listening on port %d (ID: %s)", s.config.Port, s.serverID)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and waits for connection handlers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			s.httpServer.Close()
		}
		s.wg.Wait()
	})
}

// handleVoice upgrades the connection and runs the session.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade failed: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer conn.Close()
		s.runSession(conn)
	}()
}

// runSession performs the handshake and then consumes frames until the
// feeder disconnects.
func (s *Server) runSession(conn *websocket.Conn) {
	sess, err := s.handshake(conn)
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		return
	}

	log.Printf("Feeder connected: %s (input rate %d Hz)", sess.name, sess.inputRate)
	if s.OnFeeder != nil {
		s.OnFeeder(FeederEvent{Name: sess.name, Connected: true})
	}
	defer func() {
		log.Printf("Feeder disconnected: %s", sess.name)
		if s.OnFeeder != nil {
			s.OnFeeder(FeederEvent{Name: sess.name, Connected: false})
		}
		sess.close()
	}()

	stop := make(chan struct{})
	defer close(stop)
	go s.pushStateLoop(conn, stop)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Bad message from %s: %v", sess.name, err)
			continue
		}

		switch msg.Type {
		case protocol.TypeFramePush:
			sess.handleFrame(msg.Payload)
		default:
			log.Printf("Ignoring message type %q from %s", msg.Type, sess.name)
		}
	}
}

// handshake reads client/hello and answers with server/hello.
func (s *Server) handshake(conn *websocket.Conn) (*session, error) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read client/hello: %w", err)
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client/hello: %w", err)
	}
	if msg.Type != protocol.TypeClientHello {
		return nil, fmt.Errorf("expected %s, got %s", protocol.TypeClientHello, msg.Type)
	}

	var hello protocol.ClientHello
	if err := json.Unmarshal(msg.Payload, &hello); err != nil {
		return nil, fmt.Errorf("failed to decode client/hello: %w", err)
	}

	inputRate := hello.InputSampleRate
	if inputRate <= 0 {
		inputRate = s.proc.InputRate()
	}
	if inputRate != s.proc.InputRate() {
		log.Printf("Feeder %s announced %d Hz, endpoint configured for %d Hz",
			hello.Name, inputRate, s.proc.InputRate())
	}

	reply, err := protocol.NewMessage(protocol.TypeServerHello, protocol.ServerHello{
		ServerID:         s.serverID,
		Name:             s.config.Name,
		OutputSampleRate: s.proc.OutputRate(),
		BlockSize:        s.config.BlockSize,
	})
	if err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(reply); err != nil {
		return nil, fmt.Errorf("failed to send server/hello: %w", err)
	}

	name := hello.Name
	if name == "" {
		name = hello.ClientID
	}

	return newSession(s.proc, name, inputRate), nil
}

// pushStateLoop periodically reports buffer health to the feeder.
func (s *Server) pushStateLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(statePushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := s.proc.Stats()
			msg, err := protocol.NewMessage(protocol.TypeServerState, protocol.ServerState{
				State:      stats.State.String(),
				Buffered:   stats.Buffered,
				FramesIn:   stats.FramesIn,
				SamplesOut: stats.SamplesOut,
				Underruns:  stats.Underruns,
			})
			if err != nil {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
