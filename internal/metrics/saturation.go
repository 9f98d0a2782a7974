package metrics

import (
	"github.com/san-kum/nearfield/internal/field"
	"gonum.org/v1/gonum/floats"
)

// Saturation is the fraction of frames whose peak intensity exceeds a
// threshold, e.g. the glyph scale a renderer clips at.
type Saturation struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewSaturation(threshold float64) *Saturation {
	return &Saturation{
		name:      "saturation",
		threshold: threshold,
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(f *field.Frame) {
	if len(f.Intensity) == 0 {
		return
	}
	s.samples++
	if floats.Max(f.Intensity) > s.threshold {
		s.violations++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}
