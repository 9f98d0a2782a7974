package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/nearfield/internal/field"
)

type preset struct {
	length    float64
	frequency float64
	unit      field.FrequencyUnit
	min, max  float64
}

var Presets = map[string]map[string]preset{
	"dipole": {
		"half_wave": {length: 1.0, frequency: 1.0, unit: field.Hz, min: 0.1, max: 3.0},
		"short":     {length: 0.4, frequency: 2.0, unit: field.Hz, min: 0.2, max: 1.5},
		"fast":      {length: 1.0, frequency: 5.0, unit: field.Hz, min: 0.5, max: 5.0},
	},
	"monopole": {
		"whip":   {length: 1.5, frequency: 1.0, unit: field.Hz, min: 0.1, max: 2.0},
		"stubby": {length: 0.3, frequency: 3.0, unit: field.Hz, min: 0.5, max: 1.0},
	},
	"loop": {
		"small": {length: 0.6, frequency: 0.5, unit: field.Hz, min: 0.05, max: 1.0},
		"large": {length: 2.0, frequency: 0.5, unit: field.Hz, min: 0.5, max: 4.0},
	},
	"yagi": {
		"beam":  {length: 1.0, frequency: 2.0, unit: field.Hz, min: 0.1, max: 3.0},
		"sweep": {length: 0.8, frequency: 0.2, unit: field.Hz, min: 1.0, max: 5.0},
	},
}

// GetPreset returns a default config with the named preset applied, or nil.
func GetPreset(antenna, name string) *Config {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset(antenna, name); err != nil {
		return nil
	}
	return cfg
}

// ApplyPreset overwrites the antenna, drive and current sections with the
// named preset. Grid, timing and envelope settings are kept.
func (c *Config) ApplyPreset(antenna, name string) error {
	typ, err := field.ParseAntennaType(antenna)
	if err != nil {
		return err
	}
	p, ok := Presets[strings.ToLower(string(typ))][name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q for %s", field.ErrConfiguration, name, typ)
	}
	c.Antenna = AntennaConfig{Length: p.length, Type: string(typ)}
	c.Drive = DriveConfig{Frequency: p.frequency, Unit: string(p.unit)}
	c.Current = CurrentConfig{Min: p.min, Max: p.max}
	return nil
}

// ListPresets returns the sorted preset names for an antenna type, or nil.
func ListPresets(antenna string) []string {
	typ, err := field.ParseAntennaType(antenna)
	if err != nil {
		return nil
	}
	group, ok := Presets[strings.ToLower(string(typ))]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
