package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/metrics"
	"github.com/san-kum/nearfield/internal/sim"
	"github.com/san-kum/nearfield/internal/storage"
	"github.com/san-kum/nearfield/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func addMetrics(s *sim.Simulator) {
	for _, m := range metrics.Standard(threshold) {
		s.AddMetric(m)
	}
}

// runConfig reads the --steps and --time flags of cmd.
func runConfig(cmd *cobra.Command) sim.Config {
	steps, _ := cmd.Flags().GetInt("steps")
	duration, _ := cmd.Flags().GetFloat64("time")
	return sim.Config{Steps: steps, Duration: duration}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, params, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	engine := s.Engine()
	addMetrics(s)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := s.Run(ctx, runConfig(cmd))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Params:     params,
		GridPoints: engine.Grid().Len(),
		Envelope:   cfg.Envelope.Path,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("antenna: %s %.2fm, %.3g %s, %.2f-%.2f A\n",
		params.AntennaType, params.AntennaLength, params.Frequency, params.Unit, params.MinCurrent, params.MaxCurrent)
	fmt.Printf("steps: %d (%d rejected), t=%.3fs, %d points, %v\n",
		result.StepsTaken, len(result.Errors), engine.Time(), engine.Grid().Len(), elapsed.Round(time.Millisecond))
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range []string{"peak_intensity", "mean_intensity", "amplitude_rms"} {
		if v, ok := m[name]; ok {
			fmt.Fprintf(w, "  %s\t%.4f\n", name, v)
		}
	}
	for name, v := range m {
		if strings.HasPrefix(name, "saturation") {
			fmt.Fprintf(w, "  %s\t%.4f\n", name, v)
		}
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := viz.FromConfig(cfg, theme)
	if err != nil {
		return err
	}
	return runProgram(m)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, params, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	engine := s.Engine()
	peak := metrics.NewPeakIntensity()
	s.AddMetric(peak)

	ctx, cancel := signalContext()
	defer cancel()

	steps, _ := cmd.Flags().GetInt("steps")
	every := max(int(time.Second/cfg.Tick()), 1)
	n := 0
	slog.Info("watching", "tick", cfg.Tick(), "points", engine.Grid().Len(), "antenna", params.AntennaType)
	err = s.RunTicker(ctx, cfg.Tick(), func(f *field.Frame, err error) bool {
		n++
		if err != nil {
			slog.Warn("step rejected", "step", n, "err", err)
		} else if n%every == 0 {
			slog.Info("step", "n", n, "t", f.Time, "amplitude", f.Amplitude,
				"peak", peak.Value(), "source", engine.AmplitudeState())
		}
		return steps == 0 || n < steps
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tANTENNA\tTIME\tLENGTH\tFREQ\tSTEPS\tREJECTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fm\t%.3g %s\t%d\t%d\n",
			run.ID,
			run.AntennaType,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.AntennaLength,
			run.Frequency, run.Unit,
			run.Steps,
			run.Rejected,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("antenna: %s %.2fm\n", meta.AntennaType, meta.AntennaLength)
	fmt.Printf("samples: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(storage.StepRecord) float64
	}{
		{"amplitude (A)", func(r storage.StepRecord) float64 { return r.Amplitude }},
		{"peak intensity", func(r storage.StepRecord) float64 { return r.PeakIntensity }},
		{"mean intensity", func(r storage.StepRecord) float64 { return r.MeanIntensity }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i, r := range records {
			data[i] = s.value(r)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if path, _ := cmd.Flags().GetString("svg"); path != "" {
		if err := writeSeriesSVG(path, records); err != nil {
			return err
		}
		slog.Info("amplitude trace written", "path", path)
	}
	return nil
}

func exportFrame(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetInt("steps")
	output, _ := cmd.Flags().GetString("output")
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}
	engine, params, err := sim.NewEngine(cfg)
	if err != nil {
		return err
	}
	var frame *field.Frame
	for i := 0; i < steps; i++ {
		if frame, err = engine.Step(params); err != nil {
			return err
		}
	}

	if output == "-" {
		return storage.WriteFrame(os.Stdout, engine.Grid(), frame, params)
	}
	if err := storage.ExportFrame(output, engine.Grid(), frame, params); err != nil {
		return err
	}
	slog.Info("frame exported", "path", output, "time", frame.Time, "points", engine.Grid().Len())
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	types := field.AntennaTypes
	if len(args) == 1 {
		typ, err := field.ParseAntennaType(args[0])
		if err != nil {
			return err
		}
		types = []field.AntennaType{typ}
	}
	for _, typ := range types {
		fmt.Printf("presets for %s:\n", typ)
		for _, name := range config.ListPresets(string(typ)) {
			c := config.GetPreset(string(typ), name)
			fmt.Printf("  %-10s length=%.2fm freq=%.3g %s current=%.2f-%.2f A\n",
				name, c.Antenna.Length, c.Drive.Frequency, c.Drive.Unit, c.Current.Min, c.Current.Max)
		}
	}
	return nil
}

// comparePresets runs presets of one antenna type side by side. Grid,
// timing and envelope settings are shared.
func comparePresets(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = config.ListPresets(cfg.Antenna.Type)
	}
	if len(names) == 0 {
		return fmt.Errorf("no presets for %s", cfg.Antenna.Type)
	}

	ens := sim.NewEnsemble()
	params := make([]field.Params, 0, len(names))
	for _, name := range names {
		c := *cfg
		if err := c.ApplyPreset(cfg.Antenna.Type, name); err != nil {
			return err
		}
		s, p, err := sim.FromConfig(&c)
		if err != nil {
			return err
		}
		addMetrics(s)
		ens.Add(s)
		params = append(params, p)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := ens.Run(ctx, runConfig(cmd))
	if err != nil {
		return err
	}

	fmt.Printf("comparing %s presets\n\n", cfg.Antenna.Type)
	sat := metrics.NewSaturation(threshold).Name()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "preset\tfreq\tcurrent\tsteps\tpeak\tmean\tamp_rms\tsaturation\t")
	for i, r := range results {
		p := params[i]
		fmt.Fprintf(w, "%s\t%.3g %s\t%.2f-%.2f\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			names[i], p.Frequency, p.Unit, p.MinCurrent, p.MaxCurrent, r.StepsTaken,
			r.Metrics["peak_intensity"], r.Metrics["mean_intensity"], r.Metrics["amplitude_rms"], r.Metrics[sat])
	}
	return w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
