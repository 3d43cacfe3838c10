package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const brailleBase = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells. Its resolution in sub-pixels is
// (Width*2) x (Height*4). Each cell remembers the color index of the last
// dot drawn into it, -1 for none.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// PixelSize returns the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (w, h int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, pixelMap[y%4][x%2], true
}

// Set turns on the sub-pixel at (x, y) in color idx.
func (c *Canvas) Set(x, y, idx int) {
	row, col, bit, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= bit
	c.Colors[row][col] = idx
}

// Unset clears a sub-pixel. Cell color is kept until the cell is empty.
func (c *Canvas) Unset(x, y int) {
	row, col, bit, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= bit
	if c.Grid[row][col] == brailleBase {
		c.Colors[row][col] = -1
	}
}

func (c *Canvas) isSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = -1
		}
	}
}

// Dot draws a 2x2 sub-pixel spot with its top-left corner at (x, y).
func (c *Canvas) Dot(x, y, idx int) {
	c.Set(x, y, idx)
	c.Set(x+1, y, idx)
	c.Set(x, y+1, idx)
	c.Set(x+1, y+1, idx)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, idx int) {
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
		c.Set(x0, y0, idx)
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
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render is String with each cell styled by its color index. Cells with
// no color, or an index outside styles, are written plain.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			idx := c.Colors[i][j]
			if idx < 0 || idx >= len(styles) {
				b.WriteRune(r)
				continue
			}
			b.WriteString(styles[idx].Render(string(r)))
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
