// Package render draws the game state and drives the frame loop.
//
// The package reconciles two coordinate systems: simulation space (the
// fixed level coordinate system, origin in the middle, y up) and pixel
// space (origin at the canvas center, y down). It contains no game logic;
// it reads the simulation once per frame and pushes primitives to a
// Surface.
package render

import "github.com/kbjakex/rollingball/internal/game"

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Polyline is an open run of connected points. A graph rasterizes into
// zero or more polylines, one per contiguous defined interval.
type Polyline []Point

// Segment is a single line segment in pixel space.
type Segment struct {
	A, B Point
}

// SpriteID names a sprite a Surface prepares at construction time.
type SpriteID int

const (
	// SpriteFlag is the goal flag.
	SpriteFlag SpriteID = iota
)

// Surface is the drawing target. Implementations exist for a raylib
// window, a gg pixmap and a terminal braille canvas; the core only needs
// line, circle and sprite primitives.
//
// Coordinates handed to a Surface are pixel-space, relative to the current
// translation. Sprite resources are owned by the Surface; failure to
// prepare them is fatal at construction, never per frame.
type Surface interface {
	// Size returns the drawable extent in pixels.
	Size() (w, h float64)

	// Begin starts a frame and clears the surface.
	Begin()
	// End finishes the frame.
	End()

	// Push saves the current translation, Pop restores it.
	Push()
	Pop()
	// Translate offsets subsequent drawing by (dx, dy).
	Translate(dx, dy float64)

	// SetStroke sets color and width for Line and Polyline.
	SetStroke(c game.Color, width float64)
	Line(x1, y1, x2, y2 float64)
	Polyline(pts Polyline)

	FillCircle(x, y, r float64, c game.Color)
	Sprite(id SpriteID, x, y, w, h float64)
}

// Fixed scene colors.
var (
	colGrid     = game.Color{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
	colAxis     = game.Color{R: 0x69, G: 0x69, B: 0x69, A: 0xff}
	colBallFill = game.Color{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	colObstacle = game.Color{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colGoal     = game.Color{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)
