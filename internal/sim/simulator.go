package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/nearfield/internal/field"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Simulator drives an engine. It is the only caller of Step for that engine.
type Simulator struct {
	engine    *field.Engine
	params    ParamSource
	metrics   []Metric
	observers []Observer
}

func New(engine *field.Engine, params ParamSource) *Simulator {
	return &Simulator{
		engine:    engine,
		params:    params,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Engine() *field.Engine { return s.engine }

// Run steps the engine as fast as possible. Rejected parameters are recorded
// in Result.Errors and the run continues with the last valid frame. A
// cancelled run returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	steps, err := s.stepCount(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Times:      make([]float64, 0, steps),
		Amplitudes: make([]float64, 0, steps),
		Peaks:      make([]float64, 0, steps),
		Means:      make([]float64, 0, steps),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			s.finish(result)
			return result, err
		}

		frame, err := s.step(i)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		result.StepsTaken++
		result.Times = append(result.Times, frame.Time)
		result.Amplitudes = append(result.Amplitudes, frame.Amplitude)
		result.Peaks = append(result.Peaks, floats.Max(frame.Intensity))
		result.Means = append(result.Means, stat.Mean(frame.Intensity, nil))
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.engine.Frame().Clone()
}

// RunTicker steps the engine once per tick until ctx is done or callback
// returns false. Rejected steps are passed to callback with a nil frame.
func (s *Simulator) RunTicker(ctx context.Context, tick time.Duration, callback func(*field.Frame, error) bool) error {
	if tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", tick)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame, err := s.step(i)
		if !callback(frame, err) {
			return nil
		}
	}
}

func (s *Simulator) step(i int) (*field.Frame, error) {
	t := s.engine.Time()
	p := s.params.Params(t)
	frame, err := s.engine.Step(p)
	if err != nil {
		return nil, StepError{Step: i, Time: t, Err: err}
	}
	for _, m := range s.metrics {
		m.Observe(frame)
	}
	for _, obs := range s.observers {
		obs.OnStep(frame, p)
	}
	return frame, nil
}

func (s *Simulator) stepCount(cfg Config) (int, error) {
	if cfg.Steps < 0 {
		return 0, fmt.Errorf("steps must be non-negative, got %d", cfg.Steps)
	}
	if cfg.Steps > 0 {
		return cfg.Steps, nil
	}
	if cfg.Duration <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	dt := s.params.Params(s.engine.Time()).TimeStep
	if dt <= 0 {
		return 0, fmt.Errorf("time step must be positive, got %f", dt)
	}
	// 1.0/0.05 is not exactly 20 in floating point.
	return int(math.Round(cfg.Duration / dt)), nil
}
