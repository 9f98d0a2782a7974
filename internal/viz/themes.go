package viz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// paletteSize is the number of intensity color steps.
const paletteSize = 8

// Theme is a TUI color scheme. Intensity is colored on a gradient from Cold
// (weak field) to Hot (peak).
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Cold    lipgloss.Color
	Hot     lipgloss.Color
	Antenna lipgloss.Color
}

var (
	ThemeInferno = Theme{
		Name:    "inferno",
		Primary: lipgloss.Color("#ff9f1c"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Warning: lipgloss.Color("#ff8800"),
		Error:   lipgloss.Color("#ff3b3b"),
		Cold:    lipgloss.Color("#2a0a4a"),
		Hot:     lipgloss.Color("#fcffa4"),
		Antenna: lipgloss.Color("#00ffff"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Cold:    lipgloss.Color("#001a33"),
		Hot:     lipgloss.Color("#7fffd4"),
		Antenna: lipgloss.Color("#ff6b6b"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
		Cold:    lipgloss.Color("#003300"),
		Hot:     lipgloss.Color("#ccffcc"),
		Antenna: lipgloss.Color("#ffffff"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Cold:    lipgloss.Color("#333333"),
		Hot:     lipgloss.Color("#ffffff"),
		Antenna: lipgloss.Color("#0088ff"),
	}

	Themes = []Theme{
		ThemeInferno,
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns the named theme, or the first theme if none matches.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// LevelColor maps a canvas level to a color: [0, 1] runs from Cold to Hot
// and OutlineLevel is the antenna color.
func (t Theme) LevelColor(level float64) lipgloss.Color {
	if level >= OutlineLevel {
		return t.Antenna
	}
	return lerpColor(t.Cold, t.Hot, math.Max(0, math.Min(1, level)))
}

// Palette returns the intensity styles, coldest first.
func (t Theme) Palette() []lipgloss.Style {
	out := make([]lipgloss.Style, paletteSize)
	for i := range out {
		c := lerpColor(t.Cold, t.Hot, float64(i)/float64(paletteSize-1))
		out[i] = lipgloss.NewStyle().Foreground(c)
	}
	return out
}

func (t Theme) Outline() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Antenna).Bold(true)
}

func lerpColor(a, b lipgloss.Color, t float64) lipgloss.Color {
	ar, ag, ab := parseHex(string(a))
	br, bg, bb := parseHex(string(b))
	mix := func(x, y int) int { return x + int(t*float64(y-x)+0.5) }
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb)))
}

// parseHex reads "#rrggbb"; anything else is white.
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
