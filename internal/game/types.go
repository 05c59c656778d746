// Package game owns the puzzle simulation: levels, obstacles, the graphs
// the player has plotted and the ball rolling along them.
package game

import "github.com/kbjakex/rollingball/internal/fn"

// Level geometry is a fixed coordinate system, symmetric about the origin.
// Viewports only decide how much of it is visible, never its extent.
const (
	// LevelHalfWidth is the horizontal half-extent in simulation units.
	LevelHalfWidth = 10.0
	// LevelHalfHeight is the vertical half-extent in simulation units.
	LevelHalfHeight = 8.0
	// BallRadius in simulation units.
	BallRadius = 0.5
)

// Point is a position in simulation units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ObstacleKind enumerates obstacle variants. The set is closed: renderers
// and collision code switch exhaustively over it.
type ObstacleKind int

const (
	// KindSpike is a stationary point hazard.
	KindSpike ObstacleKind = iota
)

// Obstacle is an immutable obstacle descriptor within a level.
type Obstacle struct {
	Kind ObstacleKind
	Pos  Point
}

// Color is a display color for a graph. Each rendering surface converts it
// to its own color representation.
type Color struct {
	R, G, B, A uint8
}

// Graph pairs a player-authored function with its display color. The
// simulator owns graph lifetimes; renderers read them once per frame and
// hold no reference across frames.
type Graph struct {
	id    int
	fn    *fn.Function
	Color Color
}

// Fn returns the graph's current function.
func (g *Graph) Fn() *fn.Function { return g.fn }

// SetFunction swaps the formula in place, keeping identity and color.
func (g *Graph) SetFunction(f *fn.Function) { g.fn = f }

// palette cycles as graphs are added, so every plot is distinguishable.
var palette = []Color{
	{0xd3, 0x2f, 0x2f, 0xff}, // red
	{0x30, 0x3f, 0x9f, 0xff}, // indigo
	{0x38, 0x8e, 0x3c, 0xff}, // green
	{0xf5, 0x7c, 0x00, 0xff}, // orange
	{0x7b, 0x1f, 0xa2, 0xff}, // purple
	{0x00, 0x83, 0x8f, 0xff}, // teal
}
