package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TimingConfig stores the last-used musical timing.
type TimingConfig struct {
	BPM                float64 `json:"bpm"`
	TimeSigNumerator   int     `json:"timeSigNumerator"`
	TimeSigDenominator int     `json:"timeSigDenominator"`
	Steps              int     `json:"steps"`
}

// ScaleConfig stores the quantizer setup.
type ScaleConfig struct {
	Root     uint8  `json:"root"`
	Name     string `json:"name"`
	Quantize bool   `json:"quantize"`
}

// MIDIConfig stores the output port selection. An empty PortName means
// "first available port".
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  uint8  `json:"channel,omitempty"` // 0-15
}

// NoiseConfig stores the field setup.
type NoiseConfig struct {
	Seed  int64   `json:"seed"`
	Speed float64 `json:"speed,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	Timing TimingConfig `json:"timing"`
	Scale  ScaleConfig  `json:"scale"`
	MIDI   MIDIConfig   `json:"midi,omitempty"`
	Noise  NoiseConfig  `json:"noise"`
	Debug  bool         `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timing: TimingConfig{
			BPM:                120,
			TimeSigNumerator:   4,
			TimeSigDenominator: 4,
			Steps:              16,
		},
		Scale: ScaleConfig{
			Root:     48, // C3
			Name:     "Major",
			Quantize: true,
		},
		Noise: NoiseConfig{
			Seed:  1,
			Speed: 0.25,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "noisesphere"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
