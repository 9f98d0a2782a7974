package viz

import (
	"math"

	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	defaultElevation = 20 * math.Pi / 180
	defaultAzimuth   = 45 * math.Pi / 180
	viewerDistance   = 50.0
	nearPlane        = 0.1
)

// Camera orbits the origin with world z pointing up on screen.
type Camera struct {
	Azimuth   float64
	Elevation float64
	Zoom      float64
	// Extent is the world radius that fills the shorter screen side.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{Azimuth: defaultAzimuth, Elevation: defaultElevation, Zoom: 1, Extent: extent}
}

func (c *Camera) Orbit(da float64) { c.Azimuth += da }

// Tilt changes the elevation, clamped short of the poles.
func (c *Camera) Tilt(de float64) {
	c.Elevation = math.Max(-math.Pi/2+0.01, math.Min(math.Pi/2-0.01, c.Elevation+de))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) Reset() {
	c.Azimuth, c.Elevation, c.Zoom = defaultAzimuth, defaultElevation, 1
}

// Rotate maps a world point into view space: x right, y up, z toward the
// viewer.
func (c *Camera) Rotate(p r3.Vec) r3.Vec {
	sa, ca := math.Sincos(-c.Azimuth)
	p.X, p.Y = p.X*ca-p.Y*sa, p.X*sa+p.Y*ca
	// Tip world z up onto screen y, then lean by the elevation.
	a := c.Elevation - math.Pi/2
	sx, cx := math.Sincos(a)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project converts a world point to dot coordinates on a sw x sh raster.
// It returns the position, view depth and whether the dot is on screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	rot := r3.Scale(c.Zoom/c.Extent, c.Rotate(p))
	if rot.Z >= viewerDistance-nearPlane {
		return 0, 0, 0, false
	}
	scale := viewerDistance / (viewerDistance - rot.Z)
	half := float64(min(sw, sh)) / 2
	sx := int(math.Round(rot.X*scale*half)) + sw/2
	sy := int(math.Round(-rot.Y*scale*half)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawShape draws the antenna outline at OutlineLevel.
func DrawShape(c *Canvas, cam *Camera, s *geometry.Shape) {
	if s == nil {
		return
	}
	w, h := c.Dots()
	for _, seg := range s.Segments {
		x0, y0, _, _ := cam.Project(seg.A, w, h)
		x1, y1, _, _ := cam.Project(seg.B, w, h)
		c.DrawLineLevel(x0, y0, x1, y1, OutlineLevel)
	}
}

// DrawField draws one glyph per grid point from the point along its field
// vector, scaled by glyphScale. Levels are intensity relative to peak.
// Every stride-th point is drawn.
func DrawField(c *Canvas, cam *Camera, g *field.Grid, f *field.Frame, glyphScale float64, stride int) {
	if g == nil || f == nil || len(f.Vectors) != g.Len() {
		return
	}
	stride = max(stride, 1)
	peak := 0.0
	for _, v := range f.Intensity {
		peak = math.Max(peak, v)
	}
	w, h := c.Dots()
	for i := 0; i < g.Len(); i += stride {
		p := g.At(i)
		x0, y0, _, ok := cam.Project(p, w, h)
		if !ok {
			continue
		}
		x1, y1, _, _ := cam.Project(r3.Add(p, r3.Scale(glyphScale, f.Vectors[i])), w, h)
		level := 0.0
		if peak > 0 {
			level = f.Intensity[i] / peak
		}
		c.DrawLineLevel(x0, y0, x1, y1, level)
	}
}
