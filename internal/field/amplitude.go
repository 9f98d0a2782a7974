package field

import (
	"fmt"
	"math"
)

// Envelope is a normalized amplitude sequence, one sample consumed per Step.
type Envelope struct {
	Samples []float64
	// HopSize is the number of source audio frames behind each sample.
	HopSize int
	Repeat  bool
}

// Validate rejects empty envelopes and samples outside [0, 1].
func (e Envelope) Validate() error {
	if len(e.Samples) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidEnvelope)
	}
	for i, s := range e.Samples {
		if !(s >= 0 && s <= 1) {
			return fmt.Errorf("%w: sample[%d]=%v outside [0,1]", ErrInvalidEnvelope, i, s)
		}
	}
	if e.HopSize < 0 {
		return fmt.Errorf("%w: negative hop size %d", ErrInvalidEnvelope, e.HopSize)
	}
	return nil
}

// AmplitudeState describes where the amplitude comes from.
type AmplitudeState int

const (
	Synthetic AmplitudeState = iota
	Active
	Exhausted
)

func (s AmplitudeState) String() string {
	switch s {
	case Synthetic:
		return "synthetic"
	case Active:
		return "envelope"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("AmplitudeState(%d)", int(s))
}

// SyntheticAmplitude is min + (max-min)·|sin(2π f t)| with f in Hz.
func SyntheticAmplitude(p Params, t float64) float64 {
	return p.MinCurrent + (p.MaxCurrent-p.MinCurrent)*math.Abs(math.Sin(2*math.Pi*p.ActualFrequency()*t))
}

// amplitudeSource holds the loaded envelope and its cursor. A nil envelope
// means synthetic mode.
type amplitudeSource struct {
	env    *Envelope
	cursor int
}

func (a *amplitudeSource) load(env Envelope) error {
	if err := env.Validate(); err != nil {
		return err
	}
	samples := make([]float64, len(env.Samples))
	copy(samples, env.Samples)
	env.Samples = samples
	a.env = &env
	a.cursor = 0
	return nil
}

func (a *amplitudeSource) clear() {
	a.env = nil
	a.cursor = 0
}

func (a *amplitudeSource) rewind() { a.cursor = 0 }

func (a *amplitudeSource) state() AmplitudeState {
	switch {
	case a.env == nil:
		return Synthetic
	case !a.env.Repeat && a.cursor == len(a.env.Samples)-1:
		return Exhausted
	}
	return Active
}

// next returns the amplitude for time t and advances the cursor.
func (a *amplitudeSource) next(p Params, t float64) float64 {
	if a.env == nil {
		return SyntheticAmplitude(p, t)
	}
	amp := p.MinCurrent + (p.MaxCurrent-p.MinCurrent)*a.env.Samples[a.cursor]
	last := len(a.env.Samples) - 1
	switch {
	case a.cursor < last:
		a.cursor++
	case a.env.Repeat:
		a.cursor = 0
	}
	return amp
}
