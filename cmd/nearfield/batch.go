package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nearfield/internal/analysis"
	"github.com/san-kum/nearfield/internal/automation"
	"github.com/san-kum/nearfield/internal/export"
	"github.com/san-kum/nearfield/internal/sim"
	"github.com/san-kum/nearfield/internal/storage"
	"github.com/san-kum/nearfield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepCount int

	svgScale  float64
	svgWidth  int
	svgHeight int
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, cfg, scenario, runConfig(cmd), st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tANTENNA\tFREQ\tSTEPS\tPEAK\tAMP_RMS\tRUN")
	for _, r := range results {
		run := r.RunID
		if run == "" {
			run = "-"
		}
		fmt.Fprintf(w, "%s\t%s %.2fm\t%.3g %s\t%d\t%.4f\t%.4f\t%s\n",
			r.Name, r.Params.AntennaType, r.Params.AntennaLength, r.Params.Frequency, r.Params.Unit,
			r.Result.StepsTaken, r.Result.Metrics["peak_intensity"], r.Result.Metrics["amplitude_rms"], run)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, cfg, &automation.ParameterSweep{
		Param:     sweepParam,
		From:      sweepFrom,
		To:        sweepTo,
		Count:     sweepCount,
		Run:       runConfig(cmd),
		Threshold: threshold,
	})
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over [%g, %g]\n\n", sweepParam, sweepFrom, sweepTo)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\tsteps\trejected\tpeak\tmean\tamp_rms\tsaturation\t\n", sweepParam)
	peaks := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%.4g\t-\t-\t-\t-\t-\t-\t\n", r.Value)
			slog.Warn("sweep point rejected", "value", r.Value, "err", r.Err)
			continue
		}
		fmt.Fprintf(w, "%.4g\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			r.Value, r.Steps, r.Rejected, r.Peak, r.Mean, r.AmplitudeRMS, r.Saturation)
		peaks = append(peaks, r.Peak)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(peaks,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("peak intensity by "+sweepParam),
		))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	amps := make([]float64, len(records))
	peaks := make([]float64, len(records))
	for i, r := range records {
		amps[i] = r.Amplitude
		peaks[i] = r.PeakIntensity
	}

	fmt.Printf("run: %s (%s, %.3g %s, dt=%g)\n\n", meta.ID, meta.AntennaType, meta.Frequency, meta.Unit, meta.TimeStep)

	for _, s := range []struct {
		name   string
		values []float64
	}{
		{"amplitude", amps},
		{"peak intensity", peaks},
	} {
		spectrum, err := analysis.PowerSpectrum(s.values, meta.TimeStep)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		freq, power := spectrum.Peak()
		fmt.Printf("%s: dominant %.4g Hz (magnitude %.4g)\n", s.name, freq, power)
		fmt.Println(asciigraph.Plot(spectrum.Power[1:],
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(s.name+" spectrum"),
		))
		fmt.Println()
	}
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
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
	for i := 0; i < steps; i++ {
		if _, err := engine.Step(params); err != nil {
			return err
		}
	}

	canvas, err := viz.Snapshot(engine, params, svgWidth, svgHeight)
	if err != nil {
		return err
	}
	svg := export.CanvasToSVG(canvas, viz.GetTheme(theme), svgScale)
	if output == "-" {
		_, err = os.Stdout.WriteString(svg)
		return err
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	slog.Info("snapshot written", "path", output, "time", engine.Time())
	return nil
}

// writeSeriesSVG writes the amplitude trace of a saved run.
func writeSeriesSVG(path string, records []storage.StepRecord) error {
	times := make([]float64, len(records))
	amps := make([]float64, len(records))
	for i, r := range records {
		times[i], amps[i] = r.Time, r.Amplitude
	}
	svg := export.SeriesToSVG(times, amps, 800, 300, string(viz.GetTheme(theme).Primary))
	if svg == "" {
		return fmt.Errorf("not enough samples for an svg plot")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
