// Package metrics accumulates scalar summaries over a sequence of field frames.
package metrics

import (
	"math"

	"github.com/san-kum/nearfield/internal/field"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PeakIntensity is the largest intensity seen at any grid point.
type PeakIntensity struct {
	name string
	peak float64
}

func NewPeakIntensity() *PeakIntensity {
	return &PeakIntensity{name: "peak_intensity"}
}

func (p *PeakIntensity) Name() string { return p.name }

func (p *PeakIntensity) Observe(f *field.Frame) {
	if len(f.Intensity) == 0 {
		return
	}
	p.peak = math.Max(p.peak, floats.Max(f.Intensity))
}

func (p *PeakIntensity) Value() float64 { return p.peak }

func (p *PeakIntensity) Reset() { p.peak = 0 }

// MeanIntensity averages the per-frame mean intensity.
type MeanIntensity struct {
	name    string
	sum     float64
	samples int
}

func NewMeanIntensity() *MeanIntensity {
	return &MeanIntensity{name: "mean_intensity"}
}

func (m *MeanIntensity) Name() string { return m.name }

func (m *MeanIntensity) Observe(f *field.Frame) {
	if len(f.Intensity) == 0 {
		return
	}
	m.sum += stat.Mean(f.Intensity, nil)
	m.samples++
}

func (m *MeanIntensity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanIntensity) Reset() {
	m.sum = 0
	m.samples = 0
}
