// Package geometry builds wireframe outlines of the supported antenna types.
//
// Builders are selected by [field.AntennaType] through a [Registry]. Shapes
// are line segments in the same coordinate frame as the field grid, ready to
// be projected by a renderer; no surface meshes are produced.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRodRadius is the conductor radius used for base and tip markers.
const DefaultRodRadius = 0.02

// Segment is a straight edge between two points.
type Segment struct {
	A, B r3.Vec
}

// Shape is an antenna outline.
type Shape struct {
	Segments []Segment
}

func (s *Shape) line(a, b r3.Vec) {
	s.Segments = append(s.Segments, Segment{A: a, B: b})
}

// ring adds an n-sided polygon of the given radius in the plane z = center.Z.
func (s *Shape) ring(center r3.Vec, radius float64, n int) {
	prev := r3.Add(center, r3.Vec{X: radius})
	for i := 1; i <= n; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		next := r3.Add(center, r3.Vec{X: radius * cos, Y: radius * sin})
		s.line(prev, next)
		prev = next
	}
}

// merge appends other translated by offset.
func (s *Shape) merge(other *Shape, offset r3.Vec) {
	for _, seg := range other.Segments {
		s.line(r3.Add(seg.A, offset), r3.Add(seg.B, offset))
	}
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s *Shape) Bounds() (lo, hi r3.Vec) {
	if len(s.Segments) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	lo = s.Segments[0].A
	hi = lo
	for _, seg := range s.Segments {
		for _, p := range [2]r3.Vec{seg.A, seg.B} {
			lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
			hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
		}
	}
	return lo, hi
}
