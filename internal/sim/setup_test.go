package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/field"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Grid.Radius.Count = 2
	cfg.Grid.Polar.Count = 3
	cfg.Grid.Azimuth.Count = 4
	return cfg
}

func TestFromConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 2
	s, params, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if params != field.DefaultParams() {
		t.Errorf("params = %+v", params)
	}
	if n := s.Engine().Grid().Len(); n != 24 {
		t.Errorf("grid has %d points, want 24", n)
	}
	res, err := s.Run(context.Background(), Config{Steps: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.StepsTaken != 3 {
		t.Errorf("took %d steps, want 3", res.StepsTaken)
	}
}

func TestNewEngine_LoadsEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.csv")
	if err := os.WriteFile(path, []byte("amplitude\n0\n0.5\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := smallConfig()
	cfg.Envelope.Path = path
	cfg.Envelope.Repeat = true

	eng, _, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if eng.AmplitudeState() != field.Active {
		t.Errorf("state = %s, want envelope", eng.AmplitudeState())
	}
	if _, n := eng.EnvelopeCursor(); n != 3 {
		t.Errorf("envelope length = %d, want 3", n)
	}
}

func TestNewEngine_Errors(t *testing.T) {
	cfg := smallConfig()
	cfg.Envelope.Path = filepath.Join(t.TempDir(), "missing.csv")
	if _, _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for missing envelope file")
	}

	cfg = smallConfig()
	cfg.Current.Min = 9
	if _, _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for inverted currents")
	}
}
