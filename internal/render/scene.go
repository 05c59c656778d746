package render

import (
	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
)

// Stroke widths and goal marker geometry, in pixels.
const (
	gridStroke  = 1.0
	axisStroke  = 2.0
	curveStroke = 2.0
	spikeStroke = 1.0

	goalDotRadius = 3.5
	flagSizePx    = 50.0
	flagOffsetX   = -1.5625 // nudges the pole onto the goal point
)

// Compositor draws one frame of the scene in a fixed order: grid, curves,
// ball, obstacles, goal marker. Later layers paint over earlier ones; the
// goal marker comes last so it is never occluded.
type Compositor struct {
	mapper  Mapper
	evalCtx fn.EvalContext
}

// NewCompositor returns a Compositor drawing at the Mapper's scale.
func NewCompositor(m Mapper) *Compositor {
	return &Compositor{mapper: m}
}

// Mapper returns the compositor's coordinate mapping.
func (c *Compositor) Mapper() Mapper { return c.mapper }

// Draw renders the current simulation snapshot. The surface must already
// be translated so that (0, 0) is the canvas center. wallMillis feeds the
// decorative obstacle animation only.
func (c *Compositor) Draw(s Surface, sim Simulation, wallMillis int64) {
	c.drawGrid(s)
	c.drawCurves(s, sim)
	c.drawBall(s, sim)
	c.drawObstacles(s, sim, wallMillis)
	c.drawGoal(s, sim)
}

func (c *Compositor) extentPx() (w, h float64) {
	return game.LevelHalfWidth * c.mapper.PxPerUnit, game.LevelHalfHeight * c.mapper.PxPerUnit
}

// drawGrid strokes one line per integer simulation unit on both axes,
// then the two origin axes on top with a heavier stroke.
func (c *Compositor) drawGrid(s Surface) {
	wPx, hPx := c.extentPx()

	s.SetStroke(colGrid, gridStroke)
	for i := -int(game.LevelHalfWidth); i <= int(game.LevelHalfWidth); i++ {
		x := float64(i) * c.mapper.PxPerUnit
		s.Line(x, -hPx, x, hPx)
	}
	for i := -int(game.LevelHalfHeight); i <= int(game.LevelHalfHeight); i++ {
		y := float64(i) * c.mapper.PxPerUnit
		s.Line(-wPx, y, wPx, y)
	}

	s.SetStroke(colAxis, axisStroke)
	s.Line(-wPx, 0, wPx, 0)
	s.Line(0, -hPx, 0, hPx)
}

// drawCurves rasterizes every active graph and strokes the resulting
// polylines in the graph's color. The evaluation context is reused across
// all samples of the frame; only this method writes it.
func (c *Compositor) drawCurves(s Surface, sim Simulation) {
	graphs := sim.ActiveGraphs()
	if len(graphs) == 0 {
		return
	}
	wPx, _ := c.extentPx()
	c.evalCtx.T = sim.PlayingTimeSeconds()

	for _, g := range graphs {
		lines := Rasterize(g.Fn(), &c.evalCtx, c.mapper, -wPx, wPx, DefaultStridePx)
		s.SetStroke(g.Color, curveStroke)
		for _, line := range lines {
			if len(line) < 2 {
				continue
			}
			s.Polyline(line)
		}
	}
}

func (c *Compositor) drawBall(s Surface, sim Simulation) {
	bx, by := sim.BallPosition()
	px, py := c.mapper.ToScreen(bx, by)
	s.FillCircle(px, py, game.BallRadius*c.mapper.PxPerUnit, colBallFill)
}

func (c *Compositor) drawObstacles(s Surface, sim Simulation, wallMillis int64) {
	s.SetStroke(colObstacle, spikeStroke)
	for i, ob := range sim.Obstacles() {
		switch ob.Kind {
		case game.KindSpike:
			arms := SpikeArms(c.mapper, i, ob.Pos, wallMillis)
			for _, arm := range arms {
				s.Line(arm.A.X, arm.A.Y, arm.B.X, arm.B.Y)
			}
		}
	}
}

func (c *Compositor) drawGoal(s Surface, sim Simulation) {
	gx, gy := sim.GoalPosition()
	px, py := c.mapper.ToScreen(gx, gy)
	s.FillCircle(px, py, goalDotRadius, colGoal)
	s.Sprite(SpriteFlag, px+flagOffsetX, py-flagSizePx, flagSizePx, flagSizePx)
}
