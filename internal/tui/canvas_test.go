package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/render"
)

func TestCanvasSetBrailleBits(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"top left dot", 0, 0, 0x2801},
		{"second column top", 1, 0, 0x2808},
		{"bottom left dot", 0, 3, 0x2840},
		{"bottom right dot", 1, 3, 0x2880},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 4)
			c.Set(tt.x, tt.y, game.Color{R: 255, A: 255})
			if got := c.grid[0][0]; got != tt.want {
				t.Errorf("cell = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestCanvasSetOutOfBoundsIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0, game.Color{})
	c.Set(0, -1, game.Color{})
	c.Set(4, 0, game.Color{})
	c.Set(0, 8, game.Color{})
	for _, row := range c.grid {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Fatalf("out-of-bounds Set modified the canvas: %#x", cell)
			}
		}
	}
}

func TestCanvasDrawLineSpansCells(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0, game.Color{R: 1})
	for i := 0; i < 5; i++ {
		if c.grid[0][i] == 0x2800 {
			t.Errorf("cell %d untouched by horizontal line", i)
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawLine(0, 0, 5, 11, game.Color{G: 1})
	c.Clear()
	if s := c.String(); strings.ContainsFunc(s, func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("canvas still has lit dots after Clear")
	}
}

// A full frame on the braille surface: the compositor must light dots for
// the grid, curve and ball without any window attached.
func TestSurfaceDrawsFrame(t *testing.T) {
	surface := NewSurface(40, 12)

	f, err := fn.Parse("0", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sim := game.NewSimulator(game.Campaign()[0], nil)
	sim.AddGraph(f)

	w, _ := surface.Size()
	scale := w / (2 * game.LevelHalfWidth)
	comp := render.NewCompositor(render.NewMapper(scale))
	driver := render.NewDriver(sim, surface, comp, func(string) {})

	driver.Tick(time.Unix(0, 0))

	lit := 0
	for _, row := range surface.Canvas().grid {
		for _, cell := range row {
			if cell != 0x2800 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("frame drew no dots")
	}
}

func TestSurfaceTranslationStack(t *testing.T) {
	s := NewSurface(10, 10)
	s.Begin()
	s.Push()
	s.Translate(4, 8)
	s.SetStroke(game.Color{B: 1}, 1)
	s.Line(0, 0, 0, 0)
	s.Pop()
	s.Line(0, 0, 0, 0)

	c := s.Canvas()
	if c.grid[2][2] == 0x2800 {
		t.Error("translated point not drawn at (4, 8)")
	}
	if c.grid[0][0] == 0x2800 {
		t.Error("point after Pop not drawn at origin")
	}
}
