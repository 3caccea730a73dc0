// ABOUTME: Entry point for the voicebridge playback endpoint
// ABOUTME: Parses CLI flags, merges config, and runs the application
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/voicebridge-go/internal/app"
	"github.com/Resonate-Protocol/voicebridge-go/internal/config"
	"github.com/Resonate-Protocol/voicebridge-go/internal/version"
)

var (
	configPath = flag.String("config", "", "YAML config file path")
	port       = flag.Int("port", 0, "WebSocket listen port (default: 8931)")
	name       = flag.String("name", "", "Endpoint friendly name (default: hostname-voicebridge)")
	inputRate  = flag.Int("input-rate", 0, "Expected frame sample rate in Hz (default: 16000)")
	outputRate = flag.Int("output-rate", 0, "Playback sample rate in Hz (default: 48000)")
	blockSize  = flag.Int("block", 0, "Samples per output block, power of two (default: 128)")
	logFile    = flag.String("log-file", "", "Log file path (default: voicebridge.log)")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Set up logging before anything else writes.
	f, err := os.OpenFile(cfg.Server.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.Server.NoTUI {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("Starting %s %s: %s", version.Product, version.Version, cfg.Server.Name)
	} else {
		// TUI mode: log only to file
		log.SetOutput(f)
	}

	endpoint, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create endpoint: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runErr := make(chan error, 1)
	go func() {
		runErr <- endpoint.Run()
	}()

	select {
	case err := <-runErr:
		if err != nil {
			log.Fatalf("Endpoint failed: %v", err)
		}
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}

	endpoint.Stop()
	log.Printf("Endpoint stopped")
}

// loadConfig builds the effective configuration: file values (when
// -config is given) over defaults, CLI flags on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *name != "" {
		cfg.Server.Name = *name
	}
	if *inputRate != 0 {
		cfg.Audio.InputSampleRate = *inputRate
	}
	if *outputRate != 0 {
		cfg.Audio.OutputSampleRate = *outputRate
	}
	if *blockSize != 0 {
		cfg.Audio.BlockSize = *blockSize
	}
	if *logFile != "" {
		cfg.Server.LogFile = *logFile
	}
	if *noTUI {
		cfg.Server.NoTUI = true
	}
	if *noMDNS {
		cfg.Server.NoMDNS = true
	}

	if cfg.Server.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Server.Name = fmt.Sprintf("%s-voicebridge", hostname)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
