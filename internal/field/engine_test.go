package field

import (
	"errors"
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newDefaultEngine(t testing.TB, opts ...Option) *Engine {
	t.Helper()
	grid, err := DefaultGridSpec().Build()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	eng, err := New(grid, opts...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng
}

func TestNew_RejectsEmptyGrid(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
	if _, err := New(&Grid{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestEngine_TimeAccumulates(t *testing.T) {
	eng := newDefaultEngine(t)
	p := DefaultParams()

	for i := 0; i < 10; i++ {
		if _, err := eng.Step(p); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := eng.Time(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected t=0.5, got %.12f", got)
	}
}

func TestEngine_FieldFormula(t *testing.T) {
	grid, err := GenerateGrid([]float64{0.5, 1.5}, []float64{0.3, 2.0}, []float64{0.1, 4.0})
	if err != nil {
		t.Fatal(err)
	}
	eng, _ := New(grid)
	p := DefaultParams()
	p.Frequency = 3
	frame, err := eng.Step(p)
	if err != nil {
		t.Fatal(err)
	}

	tm := p.TimeStep
	amp := p.MinCurrent + (p.MaxCurrent-p.MinCurrent)*math.Abs(math.Sin(2*math.Pi*3*tm))
	if frame.Amplitude != amp {
		t.Errorf("amplitude = %v, want %v", frame.Amplitude, amp)
	}

	for i := 0; i < grid.Len(); i++ {
		pt := grid.At(i)
		d := math.Sqrt(pt.X*pt.X + pt.Y*pt.Y + pt.Z*pt.Z)
		phase := 2 * math.Pi * (3*tm - d/2)
		want := r3.Vec{
			X: amp * math.Sin(phase) * pt.X / d,
			Y: amp * math.Sin(phase) * pt.Y / d,
			Z: amp * math.Cos(phase) * math.Cos(math.Atan2(d, pt.Z)),
		}
		got := frame.Vectors[i]
		if r3.Norm(r3.Sub(got, want)) > 1e-12 {
			t.Errorf("point %d: E = %v, want %v", i, got, want)
		}
		if math.Abs(frame.Intensity[i]-r3.Norm(want)) > 1e-12 {
			t.Errorf("point %d: intensity = %v, want %v", i, frame.Intensity[i], r3.Norm(want))
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	a := newDefaultEngine(t)
	b := newDefaultEngine(t, WithWorkers(4))

	seq := []Params{DefaultParams(), DefaultParams(), DefaultParams()}
	seq[1].Frequency, seq[1].Unit = 7, KHz
	seq[2].MinCurrent, seq[2].MaxCurrent = 0.5, 4.0

	for i, p := range seq {
		fa, err := a.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		fb, err := b.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		if fa.Time != fb.Time || fa.Amplitude != fb.Amplitude {
			t.Fatalf("step %d: header differs", i)
		}
		for j := range fa.Vectors {
			if fa.Vectors[j] != fb.Vectors[j] || fa.Intensity[j] != fb.Intensity[j] {
				t.Fatalf("step %d point %d differs", i, j)
			}
		}
	}
}

func TestEngine_InvalidParamsNoSideEffects(t *testing.T) {
	eng := newDefaultEngine(t)
	if err := eng.LoadEnvelope(Envelope{Samples: []float64{0.2, 0.4, 0.6}}); err != nil {
		t.Fatal(err)
	}
	first, err := eng.Step(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	snapshot := first.Clone()

	bad := DefaultParams()
	bad.MinCurrent, bad.MaxCurrent = 2.0, 1.0
	frame, err := eng.Step(bad)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if frame != nil {
		t.Error("expected nil frame on failure")
	}
	if eng.Time() != snapshot.Time {
		t.Errorf("time advanced to %v", eng.Time())
	}
	if cursor, _ := eng.EnvelopeCursor(); cursor != 1 {
		t.Errorf("envelope cursor moved to %d", cursor)
	}
	last := eng.Frame()
	if last == nil || last.Time != snapshot.Time || last.Intensity[10] != snapshot.Intensity[10] {
		t.Error("last valid frame was not preserved")
	}
}

func TestEngine_FrameBeforeStep(t *testing.T) {
	eng := newDefaultEngine(t)
	if eng.Frame() != nil {
		t.Error("expected nil frame before first step")
	}
}

func TestEngine_Reset(t *testing.T) {
	eng := newDefaultEngine(t, WithStartTime(1.0))
	_ = eng.LoadEnvelope(Envelope{Samples: []float64{0, 1}})
	for i := 0; i < 3; i++ {
		if _, err := eng.Step(DefaultParams()); err != nil {
			t.Fatal(err)
		}
	}
	eng.Reset()
	if eng.Time() != 1.0 {
		t.Errorf("expected reset time 1.0, got %v", eng.Time())
	}
	if c, n := eng.EnvelopeCursor(); c != 0 || n != 2 {
		t.Errorf("expected cursor 0/2, got %d/%d", c, n)
	}
	if eng.Frame() != nil {
		t.Error("expected no frame after reset")
	}
}

func TestSyntheticAmplitude(t *testing.T) {
	p := DefaultParams()
	if got := SyntheticAmplitude(p, 0); got != 0.1 {
		t.Errorf("amplitude at t=0 = %v, want 0.1", got)
	}

	for _, unit := range FrequencyUnits {
		for _, f := range []float64{0, 0.3, 1, 17.5, 999} {
			p.Frequency, p.Unit = f, unit
			for tm := 0.0; tm < 3; tm += 0.0137 {
				a := SyntheticAmplitude(p, tm)
				if a < p.MinCurrent || a > p.MaxCurrent {
					t.Fatalf("amplitude %v outside [%v, %v] at f=%v%s t=%v", a, p.MinCurrent, p.MaxCurrent, f, unit, tm)
				}
			}
		}
	}
}

func TestEngine_ConcurrentEnvelopeLoad(t *testing.T) {
	eng := newDefaultEngine(t)
	p := DefaultParams()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = eng.LoadEnvelope(Envelope{Samples: []float64{0.25, 0.5, 0.75}, Repeat: true})
		}
	}()

	for i := 0; i < 50; i++ {
		frame, err := eng.Step(p)
		if err != nil {
			t.Fatal(err)
		}
		if frame.Amplitude < p.MinCurrent || frame.Amplitude > p.MaxCurrent {
			t.Fatalf("amplitude %v out of bounds", frame.Amplitude)
		}
	}
	wg.Wait()
}

func BenchmarkStep(b *testing.B) {
	eng := newDefaultEngine(b)
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Step(p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStepParallel(b *testing.B) {
	eng := newDefaultEngine(b, WithWorkers(4))
	p := DefaultParams()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Step(p); err != nil {
			b.Fatal(err)
		}
	}
}
