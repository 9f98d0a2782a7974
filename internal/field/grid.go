package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is the static set of observation points. Points are ordered radius
// (outer), polar angle, azimuth (inner) and never change after construction.
type Grid struct {
	points []r3.Vec
	dist   []float64
	// cos(atan2(d, z)) per point; depends only on geometry.
	zTilt []float64
	shape [3]int
}

// GenerateGrid converts every (r, θ, φ) combination into a Cartesian point.
// A radius that is not strictly positive would put a point on the origin and
// is rejected with ErrConfiguration.
func GenerateGrid(radii, polar, azimuth []float64) (*Grid, error) {
	if len(radii) == 0 || len(polar) == 0 || len(azimuth) == 0 {
		return nil, fmt.Errorf("%w: empty grid axis (radii=%d polar=%d azimuth=%d)",
			ErrConfiguration, len(radii), len(polar), len(azimuth))
	}
	for i, r := range radii {
		if !(r > 0) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: radius[%d]=%v must be positive and finite", ErrConfiguration, i, r)
		}
	}
	for _, axis := range [][]float64{polar, azimuth} {
		for i, a := range axis {
			if math.IsNaN(a) || math.IsInf(a, 0) {
				return nil, fmt.Errorf("%w: angle[%d]=%v is not finite", ErrConfiguration, i, a)
			}
		}
	}

	n := len(radii) * len(polar) * len(azimuth)
	g := &Grid{
		points: make([]r3.Vec, 0, n),
		dist:   make([]float64, 0, n),
		zTilt:  make([]float64, 0, n),
		shape:  [3]int{len(radii), len(polar), len(azimuth)},
	}
	for _, r := range radii {
		for _, theta := range polar {
			sinT, cosT := math.Sincos(theta)
			for _, phi := range azimuth {
				sinP, cosP := math.Sincos(phi)
				p := r3.Vec{
					X: r * sinT * cosP,
					Y: r * sinT * sinP,
					Z: r * cosT,
				}
				d := r3.Norm(p)
				g.points = append(g.points, p)
				g.dist = append(g.dist, d)
				g.zTilt = append(g.zTilt, math.Cos(math.Atan2(d, p.Z)))
			}
		}
	}
	return g, nil
}

// Len returns the number of points.
func (g *Grid) Len() int { return len(g.points) }

// At returns the i-th point.
func (g *Grid) At(i int) r3.Vec { return g.points[i] }

// Distance returns the distance of the i-th point from the origin.
func (g *Grid) Distance(i int) float64 { return g.dist[i] }

// Shape returns the axis sizes (radii, polar, azimuth).
func (g *Grid) Shape() (radii, polar, azimuth int) {
	return g.shape[0], g.shape[1], g.shape[2]
}

// Points returns a copy of the grid points.
func (g *Grid) Points() []r3.Vec {
	out := make([]r3.Vec, len(g.points))
	copy(out, g.points)
	return out
}

// Axis describes Count values spaced linearly over [Min, Max].
type Axis struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Count int     `yaml:"count"`
}

// Values expands the axis. A single-value axis yields Min.
func (a Axis) Values() []float64 {
	switch {
	case a.Count <= 0:
		return nil
	case a.Count == 1:
		return []float64{a.Min}
	}
	return floats.Span(make([]float64, a.Count), a.Min, a.Max)
}

// GridSpec is the resolution of a spherical grid.
type GridSpec struct {
	Radius  Axis `yaml:"radius"`
	Polar   Axis `yaml:"polar"`
	Azimuth Axis `yaml:"azimuth"`
}

// DefaultGridSpec is 10 radii over [0.2, 2], 15 polar angles over [0, π] and
// 30 azimuths over [0, 2π]: 4500 points.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		Radius:  Axis{Min: 0.2, Max: 2.0, Count: 10},
		Polar:   Axis{Min: 0, Max: math.Pi, Count: 15},
		Azimuth: Axis{Min: 0, Max: 2 * math.Pi, Count: 30},
	}
}

// Size is the number of points Build produces.
func (s GridSpec) Size() int {
	return max(s.Radius.Count, 0) * max(s.Polar.Count, 0) * max(s.Azimuth.Count, 0)
}

func (s GridSpec) Build() (*Grid, error) {
	return GenerateGrid(s.Radius.Values(), s.Polar.Values(), s.Azimuth.Values())
}
