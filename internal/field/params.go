package field

import (
	"fmt"
	"math"
	"strings"
)

// AntennaType selects the antenna shape. The field itself only reads the length.
type AntennaType string

const (
	Dipole   AntennaType = "Dipole"
	Monopole AntennaType = "Monopole"
	Loop     AntennaType = "Loop"
	Yagi     AntennaType = "Yagi"
)

// AntennaTypes lists the recognized antenna types in display order.
var AntennaTypes = []AntennaType{Dipole, Monopole, Loop, Yagi}

// ParseAntennaType matches a type name case-insensitively.
func ParseAntennaType(s string) (AntennaType, error) {
	for _, t := range AntennaTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", invalidParam("antenna_type", s, "is not one of Dipole, Monopole, Loop, Yagi")
}

// Valid reports whether t is a recognized antenna type.
func (t AntennaType) Valid() bool {
	for _, v := range AntennaTypes {
		if v == t {
			return true
		}
	}
	return false
}

// FrequencyUnit scales the drive frequency to Hz.
type FrequencyUnit string

const (
	Hz  FrequencyUnit = "Hz"
	KHz FrequencyUnit = "kHz"
	MHz FrequencyUnit = "MHz"
	GHz FrequencyUnit = "GHz"
)

// FrequencyUnits lists the recognized units from smallest to largest.
var FrequencyUnits = []FrequencyUnit{Hz, KHz, MHz, GHz}

var unitMultipliers = map[FrequencyUnit]float64{
	Hz:  1,
	KHz: 1e3,
	MHz: 1e6,
	GHz: 1e9,
}

// Multiplier returns the factor converting u to Hz.
func (u FrequencyUnit) Multiplier() (float64, bool) {
	m, ok := unitMultipliers[u]
	return m, ok
}

// ParseFrequencyUnit matches a unit name case-insensitively.
func ParseFrequencyUnit(s string) (FrequencyUnit, error) {
	for _, u := range FrequencyUnits {
		if strings.EqualFold(string(u), s) {
			return u, nil
		}
	}
	return "", invalidParam("frequency_unit", s, "is not one of Hz, kHz, MHz, GHz")
}

const (
	DefaultAntennaLength = 1.0
	DefaultFrequency     = 1.0
	DefaultMinCurrent    = 0.1
	DefaultMaxCurrent    = 3.0
	DefaultTimeStep      = 0.05
)

// Params is the parameter set read by every Step.
type Params struct {
	AntennaLength float64
	AntennaType   AntennaType
	Frequency     float64
	Unit          FrequencyUnit
	MinCurrent    float64
	MaxCurrent    float64
	TimeStep      float64
}

func DefaultParams() Params {
	return Params{
		AntennaLength: DefaultAntennaLength,
		AntennaType:   Dipole,
		Frequency:     DefaultFrequency,
		Unit:          Hz,
		MinCurrent:    DefaultMinCurrent,
		MaxCurrent:    DefaultMaxCurrent,
		TimeStep:      DefaultTimeStep,
	}
}

// ActualFrequency is the drive frequency in Hz. Call Validate first; an
// unknown unit yields 0.
func (p Params) ActualFrequency() float64 {
	m, _ := p.Unit.Multiplier()
	return p.Frequency * m
}

// Validate returns a *ParamError wrapping ErrInvalidParameter for the first
// rejected field.
func (p Params) Validate() error {
	if !(p.AntennaLength > 0) || math.IsInf(p.AntennaLength, 0) {
		return invalidParam("antenna_length", p.AntennaLength, "must be positive")
	}
	if !p.AntennaType.Valid() {
		return invalidParam("antenna_type", p.AntennaType, "is not a recognized antenna type")
	}
	if _, ok := p.Unit.Multiplier(); !ok {
		return invalidParam("frequency_unit", p.Unit, "is not one of Hz, kHz, MHz, GHz")
	}
	if !(p.Frequency >= 0) || math.IsInf(p.Frequency, 0) {
		return invalidParam("frequency", p.Frequency, "must be finite and non-negative")
	}
	if !(p.MinCurrent > 0) || math.IsInf(p.MinCurrent, 0) {
		return invalidParam("min_current", p.MinCurrent, "must be positive")
	}
	if !(p.MaxCurrent > 0) || math.IsInf(p.MaxCurrent, 0) {
		return invalidParam("max_current", p.MaxCurrent, "must be positive")
	}
	if p.MinCurrent > p.MaxCurrent {
		return invalidParam("min_current", p.MinCurrent, fmt.Sprintf("exceeds max_current=%v", p.MaxCurrent))
	}
	if !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0) {
		return invalidParam("time_step", p.TimeStep, "must be positive")
	}
	return nil
}
