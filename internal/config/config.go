package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/nearfield/internal/field"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTickMs  = 50
	DefaultWorkers = 1
	DefaultDataDir = ".nearfield"
)

type Config struct {
	Antenna  AntennaConfig  `yaml:"antenna"`
	Drive    DriveConfig    `yaml:"drive"`
	Current  CurrentConfig  `yaml:"current"`
	TimeStep float64        `yaml:"time_step"`
	TickMs   int            `yaml:"tick_ms"`
	Workers  int            `yaml:"workers"`
	Grid     field.GridSpec `yaml:"grid"`
	Envelope EnvelopeConfig `yaml:"envelope"`
	DataDir  string         `yaml:"data_dir"`
}

type AntennaConfig struct {
	Length float64 `yaml:"length"`
	Type   string  `yaml:"type"`
}

type DriveConfig struct {
	Frequency float64 `yaml:"frequency"`
	Unit      string  `yaml:"unit"`
}

type CurrentConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type EnvelopeConfig struct {
	Path      string `yaml:"path"`
	Repeat    bool   `yaml:"repeat"`
	HopSize   int    `yaml:"hop_size"`
	Normalize bool   `yaml:"normalize"`
}

func DefaultConfig() *Config {
	return &Config{
		Antenna: AntennaConfig{
			Length: field.DefaultAntennaLength,
			Type:   string(field.Dipole),
		},
		Drive: DriveConfig{
			Frequency: field.DefaultFrequency,
			Unit:      string(field.Hz),
		},
		Current: CurrentConfig{
			Min: field.DefaultMinCurrent,
			Max: field.DefaultMaxCurrent,
		},
		TimeStep: field.DefaultTimeStep,
		TickMs:   DefaultTickMs,
		Workers:  DefaultWorkers,
		Grid:     field.DefaultGridSpec(),
		DataDir:  DefaultDataDir,
	}
}

// Load overlays the YAML file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the config into engine parameters. Names are matched
// case-insensitively; the result is validated.
func (c *Config) Params() (field.Params, error) {
	typ, err := field.ParseAntennaType(c.Antenna.Type)
	if err != nil {
		return field.Params{}, err
	}
	unit, err := field.ParseFrequencyUnit(c.Drive.Unit)
	if err != nil {
		return field.Params{}, err
	}
	p := field.Params{
		AntennaLength: c.Antenna.Length,
		AntennaType:   typ,
		Frequency:     c.Drive.Frequency,
		Unit:          unit,
		MinCurrent:    c.Current.Min,
		MaxCurrent:    c.Current.Max,
		TimeStep:      c.TimeStep,
	}
	if err := p.Validate(); err != nil {
		return field.Params{}, err
	}
	return p, nil
}

// Tick is the wall-clock interval between steps.
func (c *Config) Tick() time.Duration {
	if c.TickMs <= 0 {
		return DefaultTickMs * time.Millisecond
	}
	return time.Duration(c.TickMs) * time.Millisecond
}

// Validate checks parameters and grid resolution without building anything.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.Grid.Size() == 0 {
		return fmt.Errorf("%w: grid has no points", field.ErrConfiguration)
	}
	if c.Grid.Radius.Min <= 0 || c.Grid.Radius.Max <= 0 {
		return fmt.Errorf("%w: grid radii must be positive (min=%v max=%v)",
			field.ErrConfiguration, c.Grid.Radius.Min, c.Grid.Radius.Max)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers=%d", field.ErrConfiguration, c.Workers)
	}
	return nil
}
