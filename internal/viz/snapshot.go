package viz

import (
	"math"

	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/geometry"
)

// gridExtent is the largest sample distance, at least 1.
func gridExtent(g *field.Grid) float64 {
	extent := 1.0
	for i := 0; i < g.Len(); i++ {
		extent = math.Max(extent, g.Distance(i))
	}
	return extent
}

// Snapshot draws the engine's current frame and the antenna outline for p
// on a fresh w x h canvas, using the default camera.
func Snapshot(engine *field.Engine, p field.Params, w, h int) (*Canvas, error) {
	shape, err := geometry.NewRegistry().Build(p.AntennaType, p.AntennaLength)
	if err != nil {
		return nil, err
	}
	c := NewCanvas(w, h)
	cam := NewCamera(gridExtent(engine.Grid()))
	DrawField(c, cam, engine.Grid(), engine.Frame(), glyphScale, glyphStride)
	DrawShape(c, cam, shape)
	return c, nil
}
