package viz

import "strings"

// Braille Patterns: 2x4 dots per character cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille-dot drawing surface with a world-coordinate mapping,
// so callers plot directly in population-plane units.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	xmin, xmax float64
	ymin, ymax float64
}

func NewCanvas(w, h int, xmin, xmax, ymin, ymax float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		xmin:   xmin, xmax: xmax,
		ymin: ymin, ymax: ymax,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// project maps world coordinates onto sub-pixel coordinates; the canvas is
// (Width*2) x (Height*4) sub-pixels, y growing upward in world space.
func (c *Canvas) project(x, y float64) (px, py int, ok bool) {
	if c.xmax == c.xmin || c.ymax == c.ymin {
		return 0, 0, false
	}
	fx := (x - c.xmin) / (c.xmax - c.xmin)
	fy := (y - c.ymin) / (c.ymax - c.ymin)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	px = int(fx * float64(c.Width*2-1))
	py = int((1 - fy) * float64(c.Height*4-1))
	return px, py, true
}

// Plot sets the dot nearest to the world point (x, y).
func (c *Canvas) Plot(x, y float64) {
	px, py, ok := c.project(x, y)
	if !ok {
		return
	}
	c.set(px, py)
}

// PlotLine draws a world-space segment with Bresenham stepping.
func (c *Canvas) PlotLine(x0, y0, x1, y1 float64) {
	p0x, p0y, ok0 := c.project(x0, y0)
	p1x, p1y, ok1 := c.project(x1, y1)
	if !ok0 || !ok1 {
		return
	}
	c.line(p0x, p0y, p1x, p1y)
}

// Mark replaces the character cell under the world point with a marker
// rune, punching through the braille dots. Used for equilibria.
func (c *Canvas) Mark(x, y float64, r rune) {
	px, py, ok := c.project(x, y)
	if !ok {
		return
	}
	col, row := px/2, py/4
	if row >= 0 && row < c.Height && col >= 0 && col < c.Width {
		c.Grid[row][col] = r
	}
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	cell := c.Grid[row][col]
	if cell < 0x2800 || cell > 0x28FF {
		return // marker cell, leave it alone
	}
	c.Grid[row][col] = cell | rune(pixelMap[y%4][x%2])
}

func (c *Canvas) line(x0, y0, x1, y1 int) {
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
		c.set(x0, y0)
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
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
