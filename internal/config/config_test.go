// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers defaults, YAML parsing, unknown fields, and bad values
package config

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Audio.InputSampleRate != 16000 {
		t.Errorf("expected input rate 16000, got %d", cfg.Audio.InputSampleRate)
	}
	if cfg.Audio.OutputSampleRate != 48000 {
		t.Errorf("expected output rate 48000, got %d", cfg.Audio.OutputSampleRate)
	}
	if cfg.Audio.BlockSize != 128 {
		t.Errorf("expected block size 128, got %d", cfg.Audio.BlockSize)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	yml := `
server:
  port: 9000
  name: test-endpoint
audio:
  input_sample_rate: 24000
  output_sample_rate: 48000
  block_size: 256
  channels: 1
`
	cfg, err := LoadFromReader(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Name != "test-endpoint" {
		t.Errorf("expected name test-endpoint, got %q", cfg.Server.Name)
	}
	if cfg.Audio.InputSampleRate != 24000 {
		t.Errorf("expected input rate 24000, got %d", cfg.Audio.InputSampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Errorf("expected 1 channel, got %d", cfg.Audio.Channels)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	yml := `
server:
  port: 9100
`
	cfg, err := LoadFromReader(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Audio.BlockSize != DefaultBlockSize {
		t.Errorf("expected default block size, got %d", cfg.Audio.BlockSize)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	yml := `
server:
  port: 9000
  bogus_field: true
`
	if _, err := LoadFromReader(strings.NewReader(yml)); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero input rate", func(c *Config) { c.Audio.InputSampleRate = 0 }},
		{"negative output rate", func(c *Config) { c.Audio.OutputSampleRate = -48000 }},
		{"zero block size", func(c *Config) { c.Audio.BlockSize = 0 }},
		{"non-power-of-two block size", func(c *Config) { c.Audio.BlockSize = 100 }},
		{"block size one", func(c *Config) { c.Audio.BlockSize = 1 }},
		{"five channels", func(c *Config) { c.Audio.Channels = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
