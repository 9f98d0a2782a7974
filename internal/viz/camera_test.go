package viz

import (
	"math"
	"testing"

	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCamera_OriginAtCenter(t *testing.T) {
	cam := NewCamera(2)
	x, y, _, ok := cam.Project(r3.Vec{}, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("origin projected to (%d, %d, %v)", x, y, ok)
	}
}

func TestCamera_ZIsUp(t *testing.T) {
	cam := NewCamera(2)
	_, yUp, _, _ := cam.Project(r3.Vec{Z: 1}, 100, 100)
	_, yDown, _, _ := cam.Project(r3.Vec{Z: -1}, 100, 100)
	if !(yUp < 50 && yDown > 50) {
		t.Errorf("expected +z above center, got up=%d down=%d", yUp, yDown)
	}
}

func TestCamera_ZoomScalesDistance(t *testing.T) {
	cam := NewCamera(2)
	cam.Elevation = 0
	cam.Azimuth = 0
	_, y1, _, _ := cam.Project(r3.Vec{Z: 1}, 200, 200)
	cam.ZoomIn()
	_, y2, _, _ := cam.Project(r3.Vec{Z: 1}, 200, 200)
	if !(100-y2 > 100-y1) {
		t.Errorf("zoom did not enlarge: %d -> %d", y1, y2)
	}
	cam.Reset()
	if cam.Zoom != 1 || math.Abs(cam.Elevation-defaultElevation) > 1e-12 {
		t.Error("Reset did not restore defaults")
	}
}

func TestCamera_TiltClamped(t *testing.T) {
	cam := NewCamera(1)
	for i := 0; i < 100; i++ {
		cam.Tilt(0.1)
	}
	if cam.Elevation >= math.Pi/2 {
		t.Errorf("elevation %v reached the pole", cam.Elevation)
	}
}

func TestDrawFieldAndShape(t *testing.T) {
	grid, err := field.GenerateGrid([]float64{0.5, 1.0}, []float64{0.5, 1.5, 2.5}, []float64{0, 2, 4})
	if err != nil {
		t.Fatal(err)
	}
	eng, _ := field.New(grid)
	frame, err := eng.Step(field.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	shape, err := geometry.NewRegistry().Build(field.Dipole, 1)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCanvas(40, 20)
	cam := NewCamera(1.2)
	DrawField(c, cam, grid, frame, glyphScale, 1)
	DrawShape(c, cam, shape)

	lit, outline := 0, 0
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				lit++
				if c.Level(x, y) >= OutlineLevel {
					outline++
				}
			}
		}
	}
	if lit == 0 || outline == 0 {
		t.Errorf("nothing drawn: lit=%d outline=%d", lit, outline)
	}
}

func TestDrawField_NilFrame(t *testing.T) {
	c := NewCanvas(4, 4)
	DrawField(c, NewCamera(1), nil, nil, 1, 1)
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				t.Fatal("drew without a frame")
			}
		}
	}
}

func TestSnapshot(t *testing.T) {
	grid, err := field.DefaultGridSpec().Build()
	if err != nil {
		t.Fatal(err)
	}
	eng, err := field.New(grid)
	if err != nil {
		t.Fatal(err)
	}
	p := field.DefaultParams()
	if _, err := eng.Step(p); err != nil {
		t.Fatal(err)
	}

	c, err := Snapshot(eng, p, 40, 20)
	if err != nil {
		t.Fatal(err)
	}
	outline, lit := 0, 0
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				lit++
				if c.Level(x, y) >= OutlineLevel {
					outline++
				}
			}
		}
	}
	if outline == 0 || lit == outline {
		t.Errorf("expected outline and field dots, got %d lit, %d outline", lit, outline)
	}

	bad := p
	bad.AntennaLength = -1
	if _, err := Snapshot(eng, bad, 40, 20); err == nil {
		t.Error("expected error for invalid length")
	}
}

func TestThemeLevelColor(t *testing.T) {
	th := ThemeOcean
	if th.LevelColor(OutlineLevel) != th.Antenna {
		t.Error("outline level should map to the antenna color")
	}
	if th.LevelColor(-3) != th.LevelColor(0) || th.LevelColor(1.5) != th.LevelColor(1) {
		t.Error("field levels should clamp to [0, 1]")
	}
}
