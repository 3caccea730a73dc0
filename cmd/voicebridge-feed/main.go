// ABOUTME: Feeder client pushing voice frames to a playback endpoint
// ABOUTME: Streams a test tone or MP3 file over WebSocket at real time
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/voicebridge-go/internal/discovery"
	"github.com/Resonate-Protocol/voicebridge-go/internal/feed"
	"github.com/Resonate-Protocol/voicebridge-go/internal/version"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/audio/resample"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/protocol"
)

var (
	serverAddr = flag.String("server", "", "Endpoint address host:port (skip mDNS)")
	mp3Path    = flag.String("mp3", "", "MP3 file to stream (default: test tone)")
	toneFreq   = flag.Float64("freq", 440.0, "Test tone frequency in Hz")
	sendRate   = flag.Int("rate", 16000, "Sample rate frames are sent at")
	frameMs    = flag.Int("frame-ms", 20, "Frame duration in milliseconds")
	codec      = flag.String("codec", "float32", "Frame codec: float32, pcm16, or opus")
	feederName = flag.String("name", "", "Feeder friendly name (default: hostname-feed)")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stdout)

	name := *feederName
	if name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		name = fmt.Sprintf("%s-feed", hostname)
	}

	addr := *serverAddr
	if addr == "" {
		var err error
		addr, err = discoverEndpoint()
		if err != nil {
			log.Fatalf("Discovery failed: %v", err)
		}
	}

	source, err := feed.NewFrameSource(*mp3Path, *toneFreq, *sendRate)
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}
	defer source.Close()

	encoder, err := feed.NewFrameEncoder(*codec, *sendRate)
	if err != nil {
		log.Fatalf("Failed to create encoder: %v", err)
	}
	defer encoder.Close()

	// Sources rarely run at the send rate; resample on the way out.
	resampler, err := resample.New(source.SampleRate(), *sendRate)
	if err != nil {
		log.Fatalf("Failed to create resampler: %v", err)
	}

	sender, err := feed.Dial(fmt.Sprintf("ws://%s/voice", addr), name)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer sender.Close()

	hello, err := sender.Handshake(version.Version, *sendRate)
	if err != nil {
		log.Fatalf("Handshake failed: %v", err)
	}
	log.Printf("Connected to %s (%s), playback at %d Hz",
		hello.Name, addr, hello.OutputSampleRate)

	go sender.ReadStateLoop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := stream(sender, source, encoder, resampler, sigChan); err != nil {
		log.Fatalf("Stream failed: %v", err)
	}

	log.Printf("Stream finished")
}

// discoverEndpoint browses mDNS for the first playback endpoint.
func discoverEndpoint() (string, error) {
	log.Printf("Browsing for endpoints...")

	disc := discovery.NewManager(discovery.Config{})
	defer disc.Stop()

	if err := disc.Browse(); err != nil {
		return "", err
	}

	select {
	case endpoint := <-disc.Endpoints():
		return fmt.Sprintf("%s:%d", endpoint.Host, endpoint.Port), nil
	case <-time.After(10 * time.Second):
		return "", fmt.Errorf("no endpoint found after 10 seconds")
	}
}

// stream pushes frames at real-time pace until the source ends or a
// signal arrives. The final frame is tagged as speech so the endpoint
// sees both frame kinds in a normal session.
func stream(sender *feed.Sender, source feed.FrameSource, encoder feed.FrameEncoder, resampler *resample.Resampler, sigChan <-chan os.Signal) error {
	sourceFrame := *frameMs * source.SampleRate() / 1000

	ticker := time.NewTicker(time.Duration(*frameMs) * time.Millisecond)
	defer ticker.Stop()

	var frames int64
	for {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received after %d frames", frames)
			return nil
		case <-ticker.C:
		}

		frame, err := source.ReadFrame(sourceFrame)
		last := err == io.EOF
		if err != nil && !last {
			return err
		}

		if len(frame) > 0 {
			kind := protocol.FrameKindAudio
			if last {
				kind = protocol.FrameKindSpeech
			}

			samples := resampler.Resample(frame)

			push, err := encoder.Encode(kind, samples)
			if err != nil {
				return err
			}
			if err := sender.SendFrame(push); err != nil {
				return err
			}
			frames++
		}

		if last {
			log.Printf("Source exhausted after %d frames", frames)
			return nil
		}
	}
}
