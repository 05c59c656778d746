// Package rasterdump renders frames offscreen with gg and writes them to
// PNG files. It backs the headless `render` command; the interactive
// front-ends have their own surfaces.
package rasterdump

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/render"
)

// Surface draws onto a gg pixmap. It implements render.Surface.
type Surface struct {
	dc   *gg.Context
	w, h int
	flag *gg.ImageBuf
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a raster surface of the given pixel size. Sprite
// preparation happens here; any failure is returned and fatal.
func NewSurface(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterdump: invalid surface size %dx%d", w, h)
	}
	flag, err := buildFlagSprite()
	if err != nil {
		return nil, err
	}
	return &Surface{dc: gg.NewContext(w, h), w: w, h: h, flag: flag}, nil
}

func buildFlagSprite() (*gg.ImageBuf, error) {
	img, err := FlagImage()
	if err != nil {
		return nil, err
	}
	return gg.ImageBufFromImage(img), nil
}

// FlagImage paints the goal flag: a pole with a triangular pennant, sized
// to the compositor's 50px sprite box. The interactive front-ends reuse it
// for their own textures, so no binary asset ships with the game.
func FlagImage() (image.Image, error) {
	const size = 50
	dc := gg.NewContext(size, size)
	defer dc.Close()

	// Pole.
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(3)
	dc.MoveTo(4, 0)
	dc.LineTo(4, size)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("rasterdump: flag sprite: %w", err)
	}

	// Pennant.
	dc.SetRGB(0.83, 0.18, 0.18)
	dc.MoveTo(6, 2)
	dc.LineTo(size-6, 12)
	dc.LineTo(6, 22)
	dc.ClosePath()
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("rasterdump: flag sprite: %w", err)
	}

	// Copy out of the context so the image survives Close.
	src := dc.Image()
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

// Close releases the underlying drawing context.
func (s *Surface) Close() error { return s.dc.Close() }

func (s *Surface) Size() (float64, float64) { return float64(s.w), float64(s.h) }

func (s *Surface) Begin() {
	s.dc.Identity()
	s.dc.ClearWithColor(gg.RGB(1, 1, 1))
}

func (s *Surface) End() {}

func (s *Surface) Push() { s.dc.Push() }
func (s *Surface) Pop()  { s.dc.Pop() }

func (s *Surface) Translate(dx, dy float64) { s.dc.Translate(dx, dy) }

func (s *Surface) SetStroke(c game.Color, width float64) {
	s.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
	s.dc.SetLineWidth(width)
}

func (s *Surface) Line(x1, y1, x2, y2 float64) {
	s.dc.MoveTo(x1, y1)
	s.dc.LineTo(x2, y2)
	// Stroke failures are resource-level; a lost segment must not abort
	// the frame.
	_ = s.dc.Stroke()
}

func (s *Surface) Polyline(pts render.Polyline) {
	if len(pts) < 2 {
		return
	}
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	_ = s.dc.Stroke()
}

func (s *Surface) FillCircle(x, y, r float64, c game.Color) {
	s.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
	s.dc.DrawCircle(x, y, r)
	_ = s.dc.Fill()
}

func (s *Surface) Sprite(id render.SpriteID, x, y, w, h float64) {
	switch id {
	case render.SpriteFlag:
		s.dc.DrawImage(s.flag, x, y)
	}
}

// SavePNG writes the last finished frame to path.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// FrameWriter saves numbered frames into a directory.
type FrameWriter struct {
	surface *Surface
	dir     string
	n       int
}

// NewFrameWriter ensures dir exists and writes frame_0000.png onwards.
func NewFrameWriter(surface *Surface, dir string) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("rasterdump: create output dir: %w", err)
	}
	return &FrameWriter{surface: surface, dir: dir}, nil
}

// Save writes the current frame and advances the frame counter.
func (w *FrameWriter) Save() error {
	path := filepath.Join(w.dir, fmt.Sprintf("frame_%04d.png", w.n))
	if err := w.surface.SavePNG(path); err != nil {
		return fmt.Errorf("rasterdump: save %s: %w", path, err)
	}
	w.n++
	return nil
}

// Count reports how many frames have been written.
func (w *FrameWriter) Count() int { return w.n }
