package viz

import (
	"strings"

	"github.com/san-kum/moonsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
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

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// MoonMap projects the moons onto the plane of axes a and b, scaled to fit
// a new w by h canvas.
func MoonMap(s dynamo.System, a, b, w, h int) *Canvas {
	c := NewCanvas(w, h)
	c.DrawMoons(s, a, b)
	return c
}

// DrawMoons clears the canvas and redraws s on the plane of axes a and b.
// Each moon is drawn as a line from its position toward where its velocity
// carries it next step.
func (c *Canvas) DrawMoons(s dynamo.System, a, b int) {
	c.Clear()
	if len(s) == 0 {
		return
	}

	lo, hi := s[0].Pos, s[0].Pos
	for _, m := range s {
		for _, p := range []dynamo.Vec3{m.Pos, m.Pos.Add(m.Vel)} {
			lo = dynamo.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
			hi = dynamo.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
		}
	}

	pw, ph := c.Width*2-1, c.Height*4-1
	project := func(p dynamo.Vec3) (int, int) {
		return scale(p.Axis(a), lo.Axis(a), hi.Axis(a), pw),
			ph - scale(p.Axis(b), lo.Axis(b), hi.Axis(b), ph)
	}

	for _, m := range s {
		x0, y0 := project(m.Pos)
		x1, y1 := project(m.Pos.Add(m.Vel))
		c.DrawLine(x0, y0, x1, y1)
	}
}

func scale(v, lo, hi int64, size int) int {
	if hi == lo {
		return size / 2
	}
	return int((v - lo) * int64(size) / (hi - lo))
}
