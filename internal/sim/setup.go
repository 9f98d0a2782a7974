package sim

import (
	"log/slog"

	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/envelope"
	"github.com/san-kum/nearfield/internal/field"
)

// EnvelopeOptions extracts the envelope loader options from cfg.
func EnvelopeOptions(cfg *config.Config) envelope.Options {
	return envelope.Options{
		Repeat:    cfg.Envelope.Repeat,
		HopSize:   cfg.Envelope.HopSize,
		Normalize: cfg.Envelope.Normalize,
	}
}

// NewEngine builds the grid and engine described by cfg and loads its
// envelope, if one is configured.
func NewEngine(cfg *config.Config) (*field.Engine, field.Params, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, field.Params{}, err
	}
	grid, err := cfg.Grid.Build()
	if err != nil {
		return nil, field.Params{}, err
	}
	engine, err := field.New(grid, field.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, field.Params{}, err
	}
	if cfg.Envelope.Path != "" {
		env, err := envelope.Load(cfg.Envelope.Path, EnvelopeOptions(cfg))
		if err != nil {
			return nil, field.Params{}, err
		}
		if err := engine.LoadEnvelope(env); err != nil {
			return nil, field.Params{}, err
		}
		slog.Info("envelope loaded", "path", cfg.Envelope.Path, "samples", len(env.Samples))
	}
	return engine, params, nil
}

// FromConfig returns a simulator that steps a fresh engine with the static
// parameters of cfg.
func FromConfig(cfg *config.Config) (*Simulator, field.Params, error) {
	engine, params, err := NewEngine(cfg)
	if err != nil {
		return nil, field.Params{}, err
	}
	return New(engine, Static(params)), params, nil
}
