package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/nearfield/internal/field"
)

func TestRegistry_AllTypes(t *testing.T) {
	reg := NewRegistry()
	for _, typ := range field.AntennaTypes {
		t.Run(string(typ), func(t *testing.T) {
			b, err := reg.Get(typ)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if b.Type() != typ {
				t.Errorf("builder type = %s", b.Type())
			}
			shape, err := reg.Build(typ, 1.0)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if len(shape.Segments) == 0 {
				t.Error("empty shape")
			}
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	if _, err := NewRegistry().Build("Horn", 1.0); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestBuild_RejectsLength(t *testing.T) {
	reg := NewRegistry()
	for _, length := range []float64{0, -1, math.NaN()} {
		_, err := reg.Build(field.Dipole, length)
		if !errors.Is(err, field.ErrInvalidParameter) {
			t.Errorf("length %v: expected ErrInvalidParameter, got %v", length, err)
		}
	}
}

func TestDipole_Extent(t *testing.T) {
	shape, err := DipoleBuilder{RodRadius: DefaultRodRadius}.Build(2.0)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := shape.Bounds()
	if lo.Z != -1.0 || hi.Z != 2.0 {
		t.Errorf("z extent [%v, %v], want [-1, 2]", lo.Z, hi.Z)
	}
}

func TestLoop_Circumference(t *testing.T) {
	length := 1.5
	shape, err := LoopBuilder{}.Build(length)
	if err != nil {
		t.Fatal(err)
	}
	// First 100 segments form the loop itself.
	sum := 0.0
	for _, seg := range shape.Segments[:100] {
		dx, dy := seg.B.X-seg.A.X, seg.B.Y-seg.A.Y
		sum += math.Hypot(dx, dy)
	}
	if math.Abs(sum-length) > 1e-3 {
		t.Errorf("loop perimeter %v, want ~%v", sum, length)
	}
}

func TestYagi_FourElements(t *testing.T) {
	dipole, _ := DipoleBuilder{RodRadius: DefaultRodRadius}.Build(1.0)
	yagi, err := YagiBuilder{RodRadius: DefaultRodRadius}.Build(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(yagi.Segments) != 4*len(dipole.Segments) {
		t.Errorf("expected %d segments, got %d", 4*len(dipole.Segments), len(yagi.Segments))
	}
	lo, hi := yagi.Bounds()
	if hi.Y < 1.0 || lo.Y > -0.5 {
		t.Errorf("y extent [%v, %v] misses director/reflector offsets", lo.Y, hi.Y)
	}
}
