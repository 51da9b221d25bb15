package config

import "testing"

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timing.BPM != 120 || cfg.Timing.Steps != 16 {
		t.Errorf("unexpected defaults: %+v", cfg.Timing)
	}
	if !cfg.Scale.Quantize || cfg.Scale.Name != "Major" {
		t.Errorf("unexpected scale defaults: %+v", cfg.Scale)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Timing.BPM = 93
	cfg.Timing.TimeSigNumerator = 7
	cfg.Timing.TimeSigDenominator = 5
	cfg.Timing.Steps = 11
	cfg.MIDI.PortName = "Test Port"
	cfg.Scale.Quantize = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Timing != cfg.Timing {
		t.Errorf("timing: got %+v, want %+v", loaded.Timing, cfg.Timing)
	}
	if loaded.MIDI.PortName != "Test Port" {
		t.Errorf("port: got %q", loaded.MIDI.PortName)
	}
	if loaded.Scale.Quantize {
		t.Error("quantize flag not persisted")
	}
}
