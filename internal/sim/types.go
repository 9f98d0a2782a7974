package sim

import (
	"fmt"

	"github.com/san-kum/nearfield/internal/field"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f *field.Frame)
	Value() float64
	Reset()
}

// Observer is told about every successful step. The frame is only valid
// during the call.
type Observer interface {
	OnStep(f *field.Frame, p field.Params)
}

// ParamSource supplies the parameters for the step that will end at time t.
type ParamSource interface {
	Params(t float64) field.Params
}

// Static always returns the same parameters.
type Static field.Params

func (s Static) Params(float64) field.Params { return field.Params(s) }

// ParamFunc adapts a function to ParamSource.
type ParamFunc func(t float64) field.Params

func (f ParamFunc) Params(t float64) field.Params { return f(t) }

type Config struct {
	// Steps bounds the run; when zero, Duration / TimeStep steps are taken.
	Steps    int
	Duration float64
}

type Result struct {
	Times      []float64
	Amplitudes []float64
	Peaks      []float64
	Means      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
	Final      *field.Frame
}

// StepError records a step that was rejected.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }
