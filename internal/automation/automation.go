// Package automation runs scripted sequences of simulations and parameter
// sweeps on top of the sim package.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/metrics"
	"github.com/san-kum/nearfield/internal/sim"
	"github.com/san-kum/nearfield/internal/storage"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs sharing a base configuration.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides parts of the base configuration for one run. Zero
// values inherit from the base.
type ScenarioStep struct {
	Name       string  `yaml:"name"`
	Antenna    string  `yaml:"antenna"`
	Preset     string  `yaml:"preset"`
	Length     float64 `yaml:"length"`
	Frequency  float64 `yaml:"frequency"`
	Unit       string  `yaml:"unit"`
	MinCurrent float64 `yaml:"min_current"`
	MaxCurrent float64 `yaml:"max_current"`
	TimeStep   float64 `yaml:"time_step"`
	Envelope   string  `yaml:"envelope"`
	Repeat     bool    `yaml:"repeat"`
	Steps      int     `yaml:"steps"`
	Duration   float64 `yaml:"duration"`
	Save       bool    `yaml:"save"`
}

// StepResult is the outcome of one scenario step. RunID is set when the
// step was saved.
type StepResult struct {
	Name   string
	Params field.Params
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", field.ErrConfiguration, scenario.Name)
	}
	return &scenario, nil
}

// apply layers the step on a copy of base.
func (s ScenarioStep) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Antenna != "" {
		cfg.Antenna.Type = s.Antenna
	}
	if s.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Antenna.Type, s.Preset); err != nil {
			return nil, err
		}
	}
	if s.Length != 0 {
		cfg.Antenna.Length = s.Length
	}
	if s.Frequency != 0 {
		cfg.Drive.Frequency = s.Frequency
	}
	if s.Unit != "" {
		cfg.Drive.Unit = s.Unit
	}
	if s.MinCurrent != 0 {
		cfg.Current.Min = s.MinCurrent
	}
	if s.MaxCurrent != 0 {
		cfg.Current.Max = s.MaxCurrent
	}
	if s.TimeStep != 0 {
		cfg.TimeStep = s.TimeStep
	}
	if s.Envelope != "" {
		cfg.Envelope.Path = s.Envelope
		cfg.Envelope.Repeat = s.Repeat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s ScenarioStep) runConfig(def sim.Config) sim.Config {
	if s.Steps == 0 && s.Duration == 0 {
		return def
	}
	return sim.Config{Steps: s.Steps, Duration: s.Duration}
}

// RunScenario executes the steps in order. Steps without their own length
// use def. Steps marked save are written to store when it is non-nil.
// Results gathered before a failing step are returned with the error.
func RunScenario(ctx context.Context, base *config.Config, scenario *Scenario, def sim.Config, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		slog.Info("scenario step", "scenario", scenario.Name, "step", name, "n", i+1, "of", len(scenario.Steps))

		cfg, err := step.apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		s, params, err := sim.FromConfig(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		for _, m := range metrics.Standard(1.0) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, step.runConfig(def))
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		sr := StepResult{Name: name, Params: params, Result: result}
		if step.Save && store != nil {
			sr.RunID, err = store.Save(storage.RunInfo{
				Params:     params,
				GridPoints: s.Engine().Grid().Len(),
				Envelope:   cfg.Envelope.Path,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Sweepable parameter names.
const (
	ParamLength     = "length"
	ParamFrequency  = "frequency"
	ParamMinCurrent = "min_current"
	ParamMaxCurrent = "max_current"
	ParamTimeStep   = "time_step"
)

var SweepParams = []string{ParamLength, ParamFrequency, ParamMinCurrent, ParamMaxCurrent, ParamTimeStep}

// ParameterSweep varies one parameter linearly over [From, To].
type ParameterSweep struct {
	Param     string
	From, To  float64
	Count     int
	Run       sim.Config
	Threshold float64
}

// SweepResult summarizes one sweep point. Err is set when the parameter
// value was rejected; the other fields are then zero.
type SweepResult struct {
	Value        float64
	Steps        int
	Rejected     int
	Peak         float64
	Mean         float64
	AmplitudeRMS float64
	Saturation   float64
	Err          error
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case ParamLength:
		cfg.Antenna.Length = v
	case ParamFrequency:
		cfg.Drive.Frequency = v
	case ParamMinCurrent:
		cfg.Current.Min = v
	case ParamMaxCurrent:
		cfg.Current.Max = v
	case ParamTimeStep:
		cfg.TimeStep = v
	default:
		return fmt.Errorf("%w: cannot sweep %q (one of %v)", field.ErrConfiguration, name, SweepParams)
	}
	return nil
}

// Values expands the sweep range.
func (sw *ParameterSweep) Values() []float64 {
	switch {
	case sw.Count <= 0:
		return nil
	case sw.Count == 1:
		return []float64{sw.From}
	}
	return floats.Span(make([]float64, sw.Count), sw.From, sw.To)
}

// RunSweep runs every sweep point concurrently, one engine each. Points
// whose value fails validation are reported in SweepResult.Err and do not
// stop the sweep.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep) ([]SweepResult, error) {
	values := sweep.Values()
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one point", field.ErrConfiguration)
	}

	results := make([]SweepResult, len(values))
	ens := sim.NewEnsemble()
	members := make([]int, 0, len(values))

	for i, v := range values {
		results[i].Value = v
		cfg := *base
		if err := setParam(&cfg, sweep.Param, v); err != nil {
			return nil, err
		}
		s, _, err := sim.FromConfig(&cfg)
		if err != nil {
			results[i].Err = err
			continue
		}
		for _, m := range metrics.Standard(sweep.Threshold) {
			s.AddMetric(m)
		}
		ens.Add(s)
		members = append(members, i)
	}

	slog.Info("sweep", "param", sweep.Param, "points", len(values), "valid", len(members))
	if ens.Len() == 0 {
		return results, nil
	}

	runs, err := ens.Run(ctx, sweep.Run)
	if err != nil {
		return nil, err
	}
	for j, r := range runs {
		sr := &results[members[j]]
		sr.Steps = r.StepsTaken
		sr.Rejected = len(r.Errors)
		sr.Peak = r.Metrics["peak_intensity"]
		sr.Mean = r.Metrics["mean_intensity"]
		sr.AmplitudeRMS = r.Metrics["amplitude_rms"]
		sr.Saturation = r.Metrics["saturation"]
	}
	return results, nil
}
