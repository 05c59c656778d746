package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/render"
)

// Braille patterns pack 2x4 dots per terminal cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot matrix with one foreground color per cell. The
// drawable area in dots is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	grid          [][]rune
	colors        [][]game.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
		colors: make([][]game.Color, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		c.colors[i] = make([]game.Color, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the dot at (x, y) in dot coordinates. The last color written
// to a cell wins for the whole cell.
func (c *Canvas) Set(x, y int, col game.Color) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.grid[cy][cx] |= rune(pixelMap[y%4][x%2])
	c.colors[cy][cx] = col
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
			c.colors[i][j] = game.Color{}
		}
	}
}

// DrawLine draws with Bresenham's algorithm in dot coordinates.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col game.Color) {
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
		c.Set(x0, y0, col)
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
	for y, row := range c.grid {
		var runStart int
		var runColor game.Color
		flush := func(end int) {
			if end <= runStart {
				return
			}
			text := string(row[runStart:end])
			if (runColor != game.Color{}) {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(
					fmt.Sprintf("#%02x%02x%02x", runColor.R, runColor.G, runColor.B)))
				text = style.Render(text)
			}
			b.WriteString(text)
		}
		runColor = c.colors[y][0]
		for x := 1; x < len(row); x++ {
			if c.colors[y][x] != runColor {
				flush(x)
				runStart, runColor = x, c.colors[y][x]
			}
		}
		flush(len(row))
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

// Surface implements render.Surface on a braille canvas. One "pixel" is
// one braille dot, so the scene mapper should be scaled down to fit the
// terminal rather than using the default screen scale.
type Surface struct {
	canvas *Canvas
	ox, oy float64
	stack  []offset
	stroke game.Color
}

type offset struct{ x, y float64 }

var _ render.Surface = (*Surface)(nil)

// NewSurface wraps a canvas of the given cell size.
func NewSurface(cols, rows int) *Surface {
	return &Surface{canvas: NewCanvas(cols, rows)}
}

func (s *Surface) Canvas() *Canvas { return s.canvas }

func (s *Surface) Size() (float64, float64) {
	return float64(s.canvas.Width * 2), float64(s.canvas.Height * 4)
}

func (s *Surface) Begin() {
	s.canvas.Clear()
	s.ox, s.oy = 0, 0
	s.stack = s.stack[:0]
}

func (s *Surface) End() {}

func (s *Surface) Push() { s.stack = append(s.stack, offset{s.ox, s.oy}) }

func (s *Surface) Pop() {
	if n := len(s.stack); n > 0 {
		s.ox, s.oy = s.stack[n-1].x, s.stack[n-1].y
		s.stack = s.stack[:n-1]
	}
}

func (s *Surface) Translate(dx, dy float64) {
	s.ox += dx
	s.oy += dy
}

// SetStroke keeps the color; dot matrices have no stroke width.
func (s *Surface) SetStroke(c game.Color, width float64) { s.stroke = c }

func (s *Surface) dot(x, y float64) (int, int) {
	return int(math.Round(x + s.ox)), int(math.Round(y + s.oy))
}

func (s *Surface) Line(x1, y1, x2, y2 float64) {
	ax, ay := s.dot(x1, y1)
	bx, by := s.dot(x2, y2)
	s.canvas.DrawLine(ax, ay, bx, by, s.stroke)
}

func (s *Surface) Polyline(pts render.Polyline) {
	for i := 1; i < len(pts); i++ {
		ax, ay := s.dot(pts[i-1].X, pts[i-1].Y)
		bx, by := s.dot(pts[i].X, pts[i].Y)
		s.canvas.DrawLine(ax, ay, bx, by, s.stroke)
	}
}

func (s *Surface) FillCircle(x, y, r float64, c game.Color) {
	cx, cy := x+s.ox, y+s.oy
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				s.canvas.Set(int(math.Round(cx+dx)), int(math.Round(cy+dy)), c)
			}
		}
	}
}

// Sprite draws the goal flag as a pole and pennant; dot matrices have no
// textures to blit.
func (s *Surface) Sprite(id render.SpriteID, x, y, w, h float64) {
	if id != render.SpriteFlag {
		return
	}
	col := game.Color{R: 0xd4, G: 0x2e, B: 0x2e, A: 0xff}
	px, py := s.dot(x+w*0.08, y)
	bx, by := s.dot(x+w*0.08, y+h)
	s.canvas.DrawLine(px, py, bx, by, col)
	tx, ty := s.dot(x+w*0.8, y+h*0.2)
	mx, my := s.dot(x+w*0.08, y+h*0.4)
	s.canvas.DrawLine(px, py, tx, ty, col)
	s.canvas.DrawLine(tx, ty, mx, my, col)
}
