package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/rasterdump"
	"github.com/kbjakex/rollingball/internal/render"
)

// Surface implements render.Surface on top of an open Raylib window.
// The window itself is owned by the App; Begin and End are no-ops because
// the frame is bracketed by rl.BeginDrawing/rl.EndDrawing in the draw loop.
type Surface struct {
	w, h   float64
	ox, oy float64
	stack  []offset

	stroke game.Color
	width  float32

	flag rl.Texture2D
}

type offset struct{ x, y float64 }

var _ render.Surface = (*Surface)(nil)

// NewSurface builds a surface for a window of the given size. The window
// must already be open: sprite textures are uploaded here.
func NewSurface(w, h int) (*Surface, error) {
	img, err := rasterdump.FlagImage()
	if err != nil {
		return nil, fmt.Errorf("gui: flag sprite: %w", err)
	}
	rlImg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	if tex.ID == 0 {
		return nil, fmt.Errorf("gui: flag texture upload failed")
	}
	return &Surface{w: float64(w), h: float64(h), flag: tex}, nil
}

// Close releases the sprite textures.
func (s *Surface) Close() {
	rl.UnloadTexture(s.flag)
}

func (s *Surface) Size() (float64, float64) { return s.w, s.h }

func (s *Surface) Begin() {
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

func (s *Surface) SetStroke(c game.Color, width float64) {
	s.stroke = c
	s.width = float32(width)
}

func (s *Surface) at(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x+s.ox), float32(y+s.oy))
}

func rlColor(c game.Color) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func (s *Surface) Line(x1, y1, x2, y2 float64) {
	rl.DrawLineEx(s.at(x1, y1), s.at(x2, y2), s.width, rlColor(s.stroke))
}

func (s *Surface) Polyline(pts render.Polyline) {
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(s.at(pts[i-1].X, pts[i-1].Y), s.at(pts[i].X, pts[i].Y), s.width, rlColor(s.stroke))
	}
}

func (s *Surface) FillCircle(x, y, r float64, c game.Color) {
	rl.DrawCircleV(s.at(x, y), float32(r), rlColor(c))
}

func (s *Surface) Sprite(id render.SpriteID, x, y, w, h float64) {
	switch id {
	case render.SpriteFlag:
		src := rl.NewRectangle(0, 0, float32(s.flag.Width), float32(s.flag.Height))
		dst := rl.NewRectangle(float32(x+s.ox), float32(y+s.oy), float32(w), float32(h))
		rl.DrawTexturePro(s.flag, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	}
}
