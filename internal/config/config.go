// ABOUTME: Endpoint configuration schema and YAML loader
// ABOUTME: Defaults, file loading, and validation for voicebridge
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the playback endpoint.
const (
	DefaultPort       = 8931
	DefaultInputRate  = 16000
	DefaultOutputRate = 48000
	DefaultBlockSize  = 128
	DefaultChannels   = 2
)

// Config is the root configuration for the voicebridge endpoint.
// It is typically loaded from a YAML file using [Load], with CLI flags
// applied on top by main.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Audio  AudioConfig  `yaml:"audio"`
}

// ServerConfig holds network and UI settings.
type ServerConfig struct {
	// Port is the WebSocket listen port.
	Port int `yaml:"port"`

	// Name is the endpoint's friendly name (default: hostname-voicebridge).
	Name string `yaml:"name"`

	// LogFile is the log file path.
	LogFile string `yaml:"log_file"`

	// NoMDNS disables mDNS advertisement.
	NoMDNS bool `yaml:"no_mdns"`

	// NoTUI disables the terminal UI and streams logs instead.
	NoTUI bool `yaml:"no_tui"`
}

// AudioConfig holds the fixed pipeline rates and output geometry.
type AudioConfig struct {
	// InputSampleRate is the rate pushed frames arrive at (Hz).
	InputSampleRate int `yaml:"input_sample_rate"`

	// OutputSampleRate is the playback rate (Hz).
	OutputSampleRate int `yaml:"output_sample_rate"`

	// BlockSize is the number of samples pulled per audio block. Must be
	// a power of two (the level meter runs an FFT per block).
	BlockSize int `yaml:"block_size"`

	// Channels is the output channel count; mono frames are fanned out.
	Channels int `yaml:"channels"`
}

// Default returns a config populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    DefaultPort,
			LogFile: "voicebridge.log",
		},
		Audio: AudioConfig{
			InputSampleRate:  DefaultInputRate,
			OutputSampleRate: DefaultOutputRate,
			BlockSize:        DefaultBlockSize,
			Channels:         DefaultChannels,
		},
	}
}

// Load reads the YAML configuration file at path and returns a validated
// config merged over defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are built from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port: %d", cfg.Server.Port)
	}
	if cfg.Audio.InputSampleRate <= 0 {
		return fmt.Errorf("config: invalid input sample rate: %d", cfg.Audio.InputSampleRate)
	}
	if cfg.Audio.OutputSampleRate <= 0 {
		return fmt.Errorf("config: invalid output sample rate: %d", cfg.Audio.OutputSampleRate)
	}
	if cfg.Audio.BlockSize < 2 || cfg.Audio.BlockSize&(cfg.Audio.BlockSize-1) != 0 {
		return fmt.Errorf("config: invalid block size: %d (must be a power of two)", cfg.Audio.BlockSize)
	}
	if cfg.Audio.Channels != 1 && cfg.Audio.Channels != 2 {
		return fmt.Errorf("config: invalid channel count: %d (supported: 1, 2)", cfg.Audio.Channels)
	}
	return nil
}
