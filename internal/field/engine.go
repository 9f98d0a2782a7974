package field

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is the field over the grid after one Step. Vectors and Intensity are
// positionally aligned with the grid.
type Frame struct {
	Time      float64
	Amplitude float64
	Vectors   []r3.Vec
	Intensity []float64
}

// Clone returns a copy that later steps will not overwrite.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := &Frame{
		Time:      f.Time,
		Amplitude: f.Amplitude,
		Vectors:   make([]r3.Vec, len(f.Vectors)),
		Intensity: make([]float64, len(f.Intensity)),
	}
	copy(c.Vectors, f.Vectors)
	copy(c.Intensity, f.Intensity)
	return c
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers spreads the per-point loop over n goroutines. Results are
// identical to the sequential loop.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithStartTime sets the initial elapsed time.
func WithStartTime(t float64) Option {
	return func(e *Engine) { e.t = t }
}

const minPointsPerWorker = 256

// Engine advances simulation time and recomputes the field over a fixed grid.
type Engine struct {
	mu      sync.Mutex
	grid    *Grid
	t       float64
	t0      float64
	amp     amplitudeSource
	frame   Frame
	valid   bool
	workers int
}

// New creates an engine over grid.
func New(grid *Grid, opts ...Option) (*Engine, error) {
	if grid == nil || grid.Len() == 0 {
		return nil, fmt.Errorf("%w: engine needs a non-empty grid", ErrConfiguration)
	}
	e := &Engine{
		grid:    grid,
		workers: 1,
		frame: Frame{
			Vectors:   make([]r3.Vec, grid.Len()),
			Intensity: make([]float64, grid.Len()),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if math.IsNaN(e.t) || math.IsInf(e.t, 0) || e.t < 0 {
		return nil, fmt.Errorf("%w: start time %v", ErrConfiguration, e.t)
	}
	e.t0 = e.t
	return e, nil
}

// Step advances time by p.TimeStep and recomputes the field. Invalid
// parameters leave the engine untouched.
func (e *Engine) Step(p Params) (*Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.t += p.TimeStep
	t := e.t
	freq := p.ActualFrequency()
	amp := e.amp.next(p, t)

	g := e.grid
	vecs, intensity := e.frame.Vectors, e.frame.Intensity
	parallelFor(g.Len(), e.workers, minPointsPerWorker, func(start, end int) {
		for i := start; i < end; i++ {
			pt, d := g.points[i], g.dist[i]
			phase := 2 * math.Pi * (freq*t - d/2)
			s, c := math.Sin(phase), math.Cos(phase)
			v := r3.Vec{
				X: amp * s * pt.X / d,
				Y: amp * s * pt.Y / d,
				Z: amp * c * g.zTilt[i],
			}
			vecs[i] = v
			intensity[i] = r3.Norm(v)
		}
	})

	e.frame.Time = t
	e.frame.Amplitude = amp
	e.valid = true
	return &e.frame, nil
}

// Frame returns the last valid frame, or nil before the first successful Step.
func (e *Engine) Frame() *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid {
		return nil
	}
	return &e.frame
}

// Time returns the elapsed simulation time.
func (e *Engine) Time() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t
}

func (e *Engine) Grid() *Grid { return e.grid }

// LoadEnvelope replaces the amplitude source with env, starting at its first
// sample. A rejected envelope keeps the previous source.
func (e *Engine) LoadEnvelope(env Envelope) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.amp.load(env)
}

// ClearEnvelope returns to the synthetic amplitude.
func (e *Engine) ClearEnvelope() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.amp.clear()
}

// AmplitudeState reports the current amplitude mode.
func (e *Engine) AmplitudeState() AmplitudeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.amp.state()
}

// EnvelopeCursor returns the next envelope index and the envelope length, or
// (0, 0) in synthetic mode.
func (e *Engine) EnvelopeCursor() (cursor, length int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.amp.env == nil {
		return 0, 0
	}
	return e.amp.cursor, len(e.amp.env.Samples)
}

// Reset rewinds time to the start and the envelope to its first sample. The
// last frame is discarded.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.t = e.t0
	e.amp.rewind()
	e.valid = false
}
