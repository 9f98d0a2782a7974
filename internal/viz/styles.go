package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are derived from a Theme and rebuilt when the theme changes.
type styles struct {
	panel    lipgloss.Style
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	err      lipgloss.Style
	palette  []lipgloss.Style
	outline  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:    lipgloss.NewStyle().Foreground(t.Muted),
		value:    lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		muted:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		running:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		paused:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		err:      lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		palette:  t.Palette(),
		outline:  t.Outline(),
	}
}

// ProgressBar renders fraction (clamped to [0, 1]) as a bar of width cells.
func ProgressBar(fraction float64, width int, style lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(fraction*float64(width)+0.5), 0), width)
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled to their own range.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}
