package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// Canvas is a braille raster. Each cell also remembers the highest level
// drawn into it, used to pick its color.
type Canvas struct {
	Width, Height int
	cells         [][]rune
	levels        [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.cells = make([][]rune, h)
	c.levels = make([][]float64, h)
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		c.levels[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots: (Width*2, Height*4).
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y) with level 0.
func (c *Canvas) Set(x, y int) { c.SetLevel(x, y, 0) }

// SetLevel lights the dot at (x, y) and raises the cell level to at least
// level. Out of range dots are ignored.
func (c *Canvas) SetLevel(x, y int, level float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
	if level > c.levels[row][col] {
		c.levels[row][col] = level
	}
}

// Unset clears the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] &^= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.cells[row][col]&dotBits[y%4][x%2] != 0
}

// Level returns the level of the cell containing dot (x, y).
func (c *Canvas) Level(x, y int) float64 {
	col, row := x/2, y/4
	if x < 0 || y < 0 || col >= c.Width || row >= c.Height {
		return 0
	}
	return c.levels[row][col]
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = blankCell
			c.levels[i][j] = 0
		}
	}
}

// DrawLine draws a Bresenham line at level 0.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) { c.DrawLineLevel(x0, y0, x1, y1, 0) }

func (c *Canvas) DrawLineLevel(x0, y0, x1, y1 int, level float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetLevel(x0, y0, level)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// OutlineLevel marks cells that belong to an outline rather than the field.
const OutlineLevel = 2.0

// Render colors every non-empty cell. Levels in [0, 1] pick a palette bucket
// and cells at OutlineLevel use outline. An empty palette renders plain text.
func (c *Canvas) Render(palette []lipgloss.Style, outline lipgloss.Style) string {
	if len(palette) == 0 {
		return c.String()
	}
	var b strings.Builder
	top := len(palette) - 1
	for i, row := range c.cells {
		for j, r := range row {
			if r == blankCell {
				b.WriteRune(r)
				continue
			}
			level := c.levels[i][j]
			if level >= OutlineLevel {
				b.WriteString(outline.Render(string(r)))
				continue
			}
			idx := int(level*float64(top) + 0.5)
			idx = min(max(idx, 0), top)
			b.WriteString(palette[idx].Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
