package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/nearfield/internal/automation"
	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string
	logFile    string
	theme      string
	preset     string

	antenna    string
	length     float64
	frequency  float64
	unit       string
	minCurrent float64
	maxCurrent float64
	timeStep   float64
	workers    int
	tickMs     int

	envPath      string
	envRepeat    bool
	envNormalize bool
	envHop       int

	threshold float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nearfield",
		Short: "antenna near-field visualizer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat, logFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return runProgram(viz.NewPicker(cfg, theme))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "step the engine in batch and save a run summary",
		RunE:  runBatch,
	}
	addParamFlags(runCmd)
	runCmd.Flags().Int("steps", 0, "number of steps (overrides --time)")
	runCmd.Flags().Float64("time", 10.0, "simulated duration in seconds")
	runCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "intensity threshold for the saturation metric")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the live terminal view",
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().IntVar(&tickMs, "tick", config.DefaultTickMs, "milliseconds between steps")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "step at a fixed cadence without a view, logging progress",
		RunE:  runWatch,
	}
	addParamFlags(watchCmd)
	watchCmd.Flags().IntVar(&tickMs, "tick", config.DefaultTickMs, "milliseconds between steps")
	watchCmd.Flags().Int("steps", 0, "stop after this many steps (0 runs until interrupted)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot amplitude and intensity of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().String("svg", "", "also write the amplitude trace to this svg file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of the amplitude and peak intensity of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-frame",
		Short: "step the engine and write the last frame as JSON",
		RunE:  exportFrame,
	}
	addParamFlags(exportCmd)
	exportCmd.Flags().Int("steps", 1, "number of steps before export")
	exportCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "step the engine and render the view to svg",
		RunE:  snapshot,
	}
	addParamFlags(snapshotCmd)
	snapshotCmd.Flags().Int("steps", 1, "number of steps before rendering")
	snapshotCmd.Flags().StringP("output", "o", "nearfield.svg", "output file (- for stdout)")
	snapshotCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 6, "svg units per braille dot")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 72, "canvas width in cells")
	snapshotCmd.Flags().IntVar(&svgHeight, "height", 26, "canvas height in cells")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of configuration steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addParamFlags(scenarioCmd)
	scenarioCmd.Flags().Int("steps", 0, "default steps per scenario step (overrides --time)")
	scenarioCmd.Flags().Float64("time", 5.0, "default simulated duration per scenario step")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one parameter over a range concurrently",
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", automation.ParamFrequency,
		"parameter to sweep ("+strings.Join(automation.SweepParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 10, "number of points")
	sweepCmd.Flags().Int("steps", 0, "number of steps per point (overrides --time)")
	sweepCmd.Flags().Float64("time", 5.0, "simulated duration per point")
	sweepCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "intensity threshold for the saturation metric")

	presetsCmd := &cobra.Command{
		Use:   "presets [antenna]",
		Short: "list presets for an antenna type",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets of an antenna type side by side",
		RunE:  comparePresets,
	}
	addParamFlags(compareCmd)
	compareCmd.Flags().Int("steps", 0, "number of steps (overrides --time)")
	compareCmd.Flags().Float64("time", 5.0, "simulated duration in seconds")
	compareCmd.Flags().Float64Var(&threshold, "threshold", 1.0, "intensity threshold for the saturation metric")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE:  printConfig,
	}
	addParamFlags(configCmd)

	rootCmd.AddCommand(runCmd, liveCmd, watchCmd, listCmd, plotCmd, analyzeCmd, exportCmd, snapshotCmd,
		presetsCmd, compareCmd, scenarioCmd, sweepCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "use preset configuration for the antenna type")
	f.StringVar(&antenna, "antenna", string(field.Dipole), "antenna type (Dipole, Monopole, Loop, Yagi)")
	f.Float64Var(&length, "length", field.DefaultAntennaLength, "antenna length in meters")
	f.Float64Var(&frequency, "freq", field.DefaultFrequency, "drive frequency")
	f.StringVar(&unit, "unit", string(field.Hz), "frequency unit (Hz, kHz, MHz, GHz)")
	f.Float64Var(&minCurrent, "min-current", field.DefaultMinCurrent, "minimum current in amperes")
	f.Float64Var(&maxCurrent, "max-current", field.DefaultMaxCurrent, "maximum current in amperes")
	f.Float64Var(&timeStep, "dt", field.DefaultTimeStep, "time step in seconds")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "goroutines for the per-point loop")
	f.StringVar(&envPath, "envelope", "", "amplitude envelope file (csv or yaml)")
	f.BoolVar(&envRepeat, "repeat", false, "loop the envelope")
	f.BoolVar(&envNormalize, "normalize", false, "scale envelope samples by their peak")
	f.IntVar(&envHop, "hop", 0, "envelope hop size in audio frames")
}

// resolveConfig layers defaults, the config file, a preset and explicitly
// set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if preset != "" {
		typ := cfg.Antenna.Type
		if changed("antenna") {
			typ = antenna
		}
		if err := cfg.ApplyPreset(typ, preset); err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets(typ))
		}
	}

	if changed("antenna") {
		cfg.Antenna.Type = antenna
	}
	if changed("length") {
		cfg.Antenna.Length = length
	}
	if changed("freq") {
		cfg.Drive.Frequency = frequency
	}
	if changed("unit") {
		cfg.Drive.Unit = unit
	}
	if changed("min-current") {
		cfg.Current.Min = minCurrent
	}
	if changed("max-current") {
		cfg.Current.Max = maxCurrent
	}
	if changed("dt") {
		cfg.TimeStep = timeStep
	}
	if changed("workers") {
		cfg.Workers = workers
	}
	if changed("tick") {
		cfg.TickMs = tickMs
	}
	if changed("envelope") {
		cfg.Envelope.Path = envPath
	}
	if changed("repeat") {
		cfg.Envelope.Repeat = envRepeat
	}
	if changed("normalize") {
		cfg.Envelope.Normalize = envNormalize
	}
	if changed("hop") {
		cfg.Envelope.HopSize = envHop
	}
	if changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level, format, file string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var w io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		w = f
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// runProgram runs a full-screen view. Logs that would go to stderr are
// dropped while it owns the terminal.
func runProgram(m tea.Model) error {
	if logFile == "" {
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		defer slog.SetDefault(prev)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
