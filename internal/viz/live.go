package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nearfield/internal/envelope"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	canvasWidth     = 72
	canvasHeight    = 26
	statsWidth      = 44
	historyCapacity = 300
	glyphScale      = 0.1
	glyphStride     = 3
)

type TickMsg time.Time

// EnvelopeMsg carries the result of a background envelope read.
type EnvelopeMsg struct {
	Path     string
	Envelope field.Envelope
	Err      error
}

// Options configure the live view.
type Options struct {
	Params          field.Params
	Tick            time.Duration
	EnvelopePath    string
	EnvelopeOptions envelope.Options
	Theme           string
}

type control int

const (
	ctlLength control = iota
	ctlFrequency
	ctlUnit
	ctlMaxCurrent
	ctlMinCurrent
	ctlType
	numControls
)

var controlNames = [numControls]string{"Length", "Frequency", "Unit", "Max current", "Min current", "Antenna"}

// Model drives an engine from the bubbletea event loop. The engine is only
// stepped from Update, so the frame read in View is never mid-update.
type Model struct {
	engine   *field.Engine
	shapes   *geometry.Registry
	shape    *geometry.Shape
	shapeFor field.Params

	params  field.Params
	initial field.Params
	tick    time.Duration

	canvas *Canvas
	camera *Camera
	theme  int
	styles styles

	running    bool
	selected   control
	ampHistory []float64
	peakLast   float64
	meanLast   float64
	lastErr    error
	status     string
	showHelp   bool

	envPath string
	envOpts envelope.Options
	loading bool
}

// NewModel builds a live view around engine. The engine keeps its current
// time and amplitude source.
func NewModel(engine *field.Engine, opts Options) Model {
	tick := opts.Tick
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	theme := themeIndex(opts.Theme)
	m := Model{
		engine:     engine,
		shapes:     geometry.NewRegistry(),
		params:     opts.Params,
		initial:    opts.Params,
		tick:       tick,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		camera:     NewCamera(gridExtent(engine.Grid())),
		theme:      theme,
		styles:     newStyles(Themes[theme]),
		running:    true,
		ampHistory: make([]float64, 0, historyCapacity),
		envPath:    opts.EnvelopePath,
		envOpts:    opts.EnvelopeOptions,
	}
	m.rebuildShape()
	return m
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// loadEnvelopeCmd reads the envelope off the event loop. The result is
// applied by Update between steps.
func loadEnvelopeCmd(path string, opts envelope.Options) tea.Cmd {
	return func() tea.Msg {
		env, err := envelope.Load(path, opts)
		return EnvelopeMsg{Path: path, Envelope: env, Err: err}
	}
}

func (m Model) Init() tea.Cmd {
	if m.envPath != "" {
		return tea.Batch(m.tickCmd(), loadEnvelopeCmd(m.envPath, m.envOpts))
	}
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		w := max(msg.Width-statsWidth-6, 20)
		h := max(msg.Height-4, 8)
		m.canvas = NewCanvas(w, h)
	case EnvelopeMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = "envelope rejected: " + msg.Err.Error()
			slog.Warn("envelope rejected", "path", msg.Path, "err", msg.Err)
			break
		}
		if err := m.engine.LoadEnvelope(msg.Envelope); err != nil {
			m.status = "envelope rejected: " + err.Error()
			slog.Warn("envelope rejected", "path", msg.Path, "err", err)
			break
		}
		m.status = fmt.Sprintf("envelope loaded: %d samples", len(msg.Envelope.Samples))
		slog.Info("envelope loaded", "path", msg.Path, "samples", len(msg.Envelope.Samples))
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		m.reset()
	case "n":
		if !m.running {
			m.step()
		}
	case "tab":
		m.selected = (m.selected + 1) % numControls
	case "shift+tab":
		m.selected = (m.selected + numControls - 1) % numControls
	case "up", "k", "right", "l":
		m.adjust(1)
	case "down", "j", "left", "h":
		m.adjust(-1)
	case "e":
		if m.envPath == "" {
			m.status = "no envelope file configured"
			break
		}
		if m.loading {
			break
		}
		m.loading = true
		m.status = "loading " + m.envPath
		return m, loadEnvelopeCmd(m.envPath, m.envOpts)
	case "c":
		m.engine.ClearEnvelope()
		m.status = "synthetic amplitude"
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "x":
		m.camera.Tilt(0.1)
	case "X":
		m.camera.Tilt(-0.1)
	case "z":
		m.camera.Orbit(0.1)
	case "Z":
		m.camera.Orbit(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "0":
		m.camera.Reset()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// step advances the engine once. A rejected step keeps the previous frame on
// screen and reports the error until the next successful step.
func (m *Model) step() {
	frame, err := m.engine.Step(m.params)
	if err != nil {
		if m.lastErr == nil || m.lastErr.Error() != err.Error() {
			slog.Warn("step rejected", "err", err)
		}
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.ampHistory = append(m.ampHistory, frame.Amplitude)
	if len(m.ampHistory) > historyCapacity {
		m.ampHistory = m.ampHistory[1:]
	}
	m.peakLast = floats.Max(frame.Intensity)
	m.meanLast = stat.Mean(frame.Intensity, nil)
	m.rebuildShape()
}

func (m *Model) rebuildShape() {
	if m.shape != nil && m.shapeFor.AntennaType == m.params.AntennaType && m.shapeFor.AntennaLength == m.params.AntennaLength {
		return
	}
	shape, err := m.shapes.Build(m.params.AntennaType, m.params.AntennaLength)
	if err != nil {
		return
	}
	m.shape, m.shapeFor = shape, m.params
}

func (m *Model) reset() {
	m.engine.Reset()
	m.params = m.initial
	m.ampHistory = m.ampHistory[:0]
	m.peakLast, m.meanLast = 0, 0
	m.lastErr = nil
	m.status = "reset"
	m.rebuildShape()
}

// adjust moves the selected control one notch. Sliders snap to their step
// and stay within range; min and max current are not cross-checked so the
// engine can reject an inverted pair.
func (m *Model) adjust(dir int) {
	p := &m.params
	d := float64(dir)
	switch m.selected {
	case ctlLength:
		p.AntennaLength = notch(p.AntennaLength, d, 0.05, 0.2, 2.0)
	case ctlFrequency:
		p.Frequency = notch(p.Frequency, d, 1, 1, 1000)
	case ctlUnit:
		p.Unit = field.FrequencyUnits[cycle(indexOf(field.FrequencyUnits, p.Unit), dir, len(field.FrequencyUnits))]
	case ctlMaxCurrent:
		p.MaxCurrent = notch(p.MaxCurrent, d, 0.1, 0.1, 5.0)
	case ctlMinCurrent:
		p.MinCurrent = notch(p.MinCurrent, d, 0.05, 0.05, 2.0)
	case ctlType:
		p.AntennaType = field.AntennaTypes[cycle(indexOf(field.AntennaTypes, p.AntennaType), dir, len(field.AntennaTypes))]
	}
}

func notch(v, dir, step, lo, hi float64) float64 {
	v = math.Round((v+dir*step)/step) * step
	return math.Max(lo, math.Min(hi, v))
}

func cycle(i, dir, n int) int {
	return ((i+dir)%n + n) % n
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	m.canvas.Clear()
	DrawField(m.canvas, m.camera, m.engine.Grid(), m.engine.Frame(), glyphScale, glyphStride)
	DrawShape(m.canvas, m.camera, m.shape)

	st := m.styles
	view := st.panel.Render(strings.TrimRight(m.canvas.Render(st.palette, st.outline), "\n"))
	stats := st.panel.Width(statsWidth).Render(m.statsView())
	return lipgloss.JoinHorizontal(lipgloss.Top, view, stats)
}

func (m Model) statsView() string {
	st := m.styles
	var s strings.Builder

	status := st.running.Render("● RUNNING")
	if !m.running {
		status = st.paused.Render("❚❚ PAUSED")
	}
	s.WriteString(st.title.Render("NEARFIELD") + "  " + status + "\n\n")

	if len(m.ampHistory) > 1 {
		chart := asciigraph.Plot(m.ampHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Amplitude"))
		s.WriteString(chart + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(fmt.Sprintf("%-13s", label)) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.engine.Time()))
	if f := m.engine.Frame(); f != nil {
		row("Amplitude", fmt.Sprintf("%.3f", f.Amplitude))
	}
	row("Source", m.sourceLabel())
	row("Peak |E|", fmt.Sprintf("%.3f", m.peakLast))
	row("Mean |E|", fmt.Sprintf("%.3f", m.meanLast))
	s.WriteString("\n")

	for c := control(0); c < numControls; c++ {
		label := fmt.Sprintf("%-13s", controlNames[c])
		if c == m.selected {
			s.WriteString(st.selected.Render("▸ "+label) + st.value.Render(m.controlValue(c)) + "\n")
		} else {
			s.WriteString(st.label.Render("  "+label) + st.value.Render(m.controlValue(c)) + "\n")
		}
	}
	s.WriteString(st.label.Render("  current  ") + ProgressBar(m.params.MaxCurrent/5.0, 20, st.selected) + "\n")

	if m.lastErr != nil {
		s.WriteString("\n" + st.err.Render(m.lastErr.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + st.muted.Render(m.status) + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + st.muted.Render(strings.Join([]string{
			"space pause   n step   r reset",
			"tab select    ↑/↓ adjust",
			"e reload envelope   c clear",
			"x/X tilt  z/Z orbit  +/- zoom",
			"t theme   q quit",
		}, "\n")))
	} else {
		s.WriteString("\n" + st.muted.Render("? help"))
	}
	return s.String()
}

func (m Model) sourceLabel() string {
	state := m.engine.AmplitudeState()
	if state == field.Synthetic {
		return state.String()
	}
	cursor, n := m.engine.EnvelopeCursor()
	return fmt.Sprintf("%s %d/%d", state, cursor+1, n)
}

func (m Model) controlValue(c control) string {
	p := m.params
	switch c {
	case ctlLength:
		return fmt.Sprintf("%.2f m", p.AntennaLength)
	case ctlFrequency:
		return fmt.Sprintf("%.0f", p.Frequency)
	case ctlUnit:
		return string(p.Unit)
	case ctlMaxCurrent:
		return fmt.Sprintf("%.2f A", p.MaxCurrent)
	case ctlMinCurrent:
		return fmt.Sprintf("%.2f A", p.MinCurrent)
	case ctlType:
		return string(p.AntennaType)
	}
	return ""
}

// Params returns the parameters currently applied to the engine.
func (m Model) Params() field.Params { return m.params }

// Err returns the error from the last rejected step, if the latest step was
// rejected.
func (m Model) Err() error { return m.lastErr }
