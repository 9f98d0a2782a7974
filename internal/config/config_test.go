package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/nearfield/internal/field"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	p, err := cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	if p != field.DefaultParams() {
		t.Errorf("params %+v differ from field defaults", p)
	}
	if cfg.Tick() != 50*time.Millisecond {
		t.Errorf("tick = %v", cfg.Tick())
	}
	if cfg.Grid.Size() != 4500 {
		t.Errorf("grid size = %d", cfg.Grid.Size())
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := DefaultConfig()
	cfg.Antenna.Type = "Loop"
	cfg.Drive.Frequency = 12
	cfg.Drive.Unit = "kHz"
	cfg.Envelope.Path = "env.csv"
	cfg.Envelope.Repeat = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	p, err := loaded.Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.AntennaType != field.Loop || p.Unit != field.KHz || p.ActualFrequency() != 12e3 {
		t.Errorf("unexpected params %+v", p)
	}
	if !loaded.Envelope.Repeat || loaded.Envelope.Path != "env.csv" {
		t.Errorf("envelope config lost: %+v", loaded.Envelope)
	}
	if loaded.Grid != cfg.Grid {
		t.Errorf("grid spec lost: %+v", loaded.Grid)
	}
}

func TestParams_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted currents", func(c *Config) { c.Current.Min, c.Current.Max = 2, 1 }},
		{"unknown unit", func(c *Config) { c.Drive.Unit = "THz" }},
		{"unknown type", func(c *Config) { c.Antenna.Type = "horn" }},
		{"zero length", func(c *Config) { c.Antenna.Length = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if _, err := cfg.Params(); !errors.Is(err, field.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestValidate_Grid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Radius.Min = 0
	if err := cfg.Validate(); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Grid.Azimuth.Count = 0
	if err := cfg.Validate(); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dipole", "short")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Antenna.Length != 0.4 {
		t.Errorf("expected length 0.4, got %f", cfg.Antenna.Length)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("dipole", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("horn", "short"); cfg != nil {
		t.Error("expected nil for nonexistent antenna")
	}
}

func TestListPresets(t *testing.T) {
	for _, typ := range field.AntennaTypes {
		names := ListPresets(string(typ))
		if len(names) == 0 {
			t.Errorf("expected presets for %s", typ)
		}
		for _, n := range names {
			if err := GetPreset(string(typ), n).Validate(); err != nil {
				t.Errorf("%s/%s invalid: %v", typ, n, err)
			}
		}
	}
	if ListPresets("horn") != nil {
		t.Error("expected nil for unknown antenna")
	}
}

func TestApplyPreset_KeepsGridAndTiming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickMs = 20
	cfg.Grid.Radius.Count = 3
	cfg.Envelope.Path = "env.csv"

	if err := cfg.ApplyPreset("Loop", "large"); err != nil {
		t.Fatal(err)
	}
	if cfg.Antenna.Type != "Loop" || cfg.Antenna.Length != 2.0 {
		t.Errorf("antenna not applied: %+v", cfg.Antenna)
	}
	if cfg.TickMs != 20 || cfg.Grid.Radius.Count != 3 || cfg.Envelope.Path != "env.csv" {
		t.Error("preset overwrote unrelated settings")
	}

	if err := cfg.ApplyPreset("loop", "missing"); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
