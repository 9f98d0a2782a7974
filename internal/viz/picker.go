package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/nearfield/internal/config"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/sim"
)

var antennaInfo = map[field.AntennaType]string{
	field.Dipole:   "two rods fed at the center",
	field.Monopole: "single rod over a ground plane",
	field.Loop:     "closed ring conductor",
	field.Yagi:     "driven element with director and reflector",
}

const (
	stateAntenna = iota
	statePreset
	stateSim
)

// Picker chooses an antenna type and preset, then hands over to the live
// view.
type Picker struct {
	state   int
	cursor  int
	base    *config.Config
	theme   string
	antenna field.AntennaType
	presets []string
	live    Model
	err     error
}

// NewPicker starts at the antenna list. base supplies grid, timing and
// envelope settings for the launched view.
func NewPicker(base *config.Config, theme string) Picker {
	if base == nil {
		base = config.DefaultConfig()
	}
	return Picker{base: base, theme: theme}
}

// FromConfig builds the grid and engine described by cfg and wraps them in
// a live view.
func FromConfig(cfg *config.Config, theme string) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	params, err := cfg.Params()
	if err != nil {
		return Model{}, err
	}
	grid, err := cfg.Grid.Build()
	if err != nil {
		return Model{}, err
	}
	engine, err := field.New(grid, field.WithWorkers(cfg.Workers))
	if err != nil {
		return Model{}, err
	}
	return NewModel(engine, Options{
		Params:          params,
		Tick:            cfg.Tick(),
		EnvelopePath:    cfg.Envelope.Path,
		EnvelopeOptions: sim.EnvelopeOptions(cfg),
		Theme:           theme,
	}), nil
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateSim {
		live, cmd := p.live.Update(msg)
		p.live = live.(Model)
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "esc":
		if p.state == statePreset {
			p.state, p.cursor = stateAntenna, indexOf(field.AntennaTypes, p.antenna)
		}
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < p.items()-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.choose()
	}
	return p, nil
}

func (p Picker) items() int {
	if p.state == statePreset {
		return len(p.presets)
	}
	return len(field.AntennaTypes)
}

func (p Picker) choose() (tea.Model, tea.Cmd) {
	switch p.state {
	case stateAntenna:
		p.antenna = field.AntennaTypes[p.cursor]
		p.presets = config.ListPresets(string(p.antenna))
		p.state, p.cursor = statePreset, 0
	case statePreset:
		if len(p.presets) == 0 {
			return p, nil
		}
		cfg := *p.base
		if err := cfg.ApplyPreset(string(p.antenna), p.presets[p.cursor]); err != nil {
			p.err = err
			return p, nil
		}
		live, err := FromConfig(&cfg, p.theme)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.state, p.err = live, stateSim, nil
		return p, p.live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}
	st := newStyles(GetTheme(p.theme))
	var s strings.Builder
	s.WriteString(st.title.Render("NEARFIELD") + "\n\n")

	switch p.state {
	case stateAntenna:
		s.WriteString(st.label.Render("antenna") + "\n\n")
		for i, t := range field.AntennaTypes {
			line := fmt.Sprintf("%-10s %s", t, st.muted.Render(antennaInfo[t]))
			if i == p.cursor {
				s.WriteString(st.selected.Render("▸ ") + line + "\n")
			} else {
				s.WriteString("  " + line + "\n")
			}
		}
	case statePreset:
		s.WriteString(st.label.Render(strings.ToLower(string(p.antenna))+" presets") + "\n\n")
		for i, name := range p.presets {
			if i == p.cursor {
				s.WriteString(st.selected.Render("▸ "+name) + "\n")
			} else {
				s.WriteString("  " + name + "\n")
			}
		}
	}

	if p.err != nil {
		s.WriteString("\n" + st.err.Render(p.err.Error()) + "\n")
	}
	s.WriteString("\n" + st.muted.Render("↑/↓ move  enter select  esc back  q quit"))
	return st.panel.Render(s.String())
}
