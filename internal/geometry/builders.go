package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/nearfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder produces the outline of one antenna type for a given length.
type Builder interface {
	Type() field.AntennaType
	Build(length float64) (*Shape, error)
}

func checkLength(length float64) error {
	if !(length > 0) || math.IsInf(length, 0) {
		return &field.ParamError{Field: "antenna_length", Value: length, Reason: "must be positive"}
	}
	return nil
}

// DipoleBuilder draws a centre-fed rod with a feed base and a tip cap.
type DipoleBuilder struct {
	RodRadius float64
}

func (DipoleBuilder) Type() field.AntennaType { return field.Dipole }

func (b DipoleBuilder) Build(length float64) (*Shape, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	s := &Shape{}
	s.line(r3.Vec{Z: -length / 2}, r3.Vec{Z: length / 2})
	s.ring(r3.Vec{Z: -length / 20}, b.RodRadius*3, 12)
	s.ring(r3.Vec{Z: length}, b.RodRadius*1.5, 8)
	return s, nil
}

// MonopoleBuilder draws a half-length rod over a ground disc.
type MonopoleBuilder struct {
	RodRadius float64
}

func (MonopoleBuilder) Type() field.AntennaType { return field.Monopole }

func (b MonopoleBuilder) Build(length float64) (*Shape, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	s := &Shape{}
	s.line(r3.Vec{Z: -length / 4}, r3.Vec{Z: length / 4})
	s.ring(r3.Vec{Z: -length / 20}, length/8, 16)
	s.ring(r3.Vec{Z: length / 2}, b.RodRadius*1.5, 8)
	s.ring(r3.Vec{Z: -length / 20}, length/4, 32)
	return s, nil
}

// LoopBuilder draws a circular loop whose circumference equals the length.
type LoopBuilder struct {
	RodRadius float64
}

func (LoopBuilder) Type() field.AntennaType { return field.Loop }

func (b LoopBuilder) Build(length float64) (*Shape, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	s := &Shape{}
	s.ring(r3.Vec{}, length/(2*math.Pi), 100)
	s.ring(r3.Vec{Z: -length / 20}, b.RodRadius*3, 12)
	return s, nil
}

// YagiBuilder draws a driven dipole with two directors and a reflector.
type YagiBuilder struct {
	RodRadius float64
}

func (YagiBuilder) Type() field.AntennaType { return field.Yagi }

func (b YagiBuilder) Build(length float64) (*Shape, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	dipole := DipoleBuilder{RodRadius: b.RodRadius}
	elements := []struct {
		scale  float64
		offset r3.Vec
	}{
		{1.0, r3.Vec{}},
		{0.8, r3.Vec{Y: length / 2, Z: length / 4}},
		{0.7, r3.Vec{Y: length, Z: length / 2}},
		{1.2, r3.Vec{Y: -length / 2, Z: -length / 4}},
	}

	s := &Shape{}
	for _, el := range elements {
		part, err := dipole.Build(length * el.scale)
		if err != nil {
			return nil, fmt.Errorf("yagi element x%.1f: %w", el.scale, err)
		}
		s.merge(part, el.offset)
	}
	return s, nil
}
