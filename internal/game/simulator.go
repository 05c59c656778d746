package game

import (
	"math"

	"github.com/kbjakex/rollingball/internal/fn"
)

// Simulation tuning. The step size is fixed: one Step call is one display
// frame, so playing time advances in lockstep with the frame schedule.
const (
	StepDt    = 1.0 / 60.0
	rollSpeed = 2.0  // horizontal units per second
	gravity   = 12.0 // units per second squared while airborne
	climbTol  = 0.6  // how far above the ball a curve may sit and still carry it
	goalReach = 0.2  // extra slack on goal contact
)

// Outcome is invoked once when a run ends: victory with the final playing
// time, or defeat when the ball hits a spike or falls out of the level.
type Outcome func(victory bool, playingTime float64)

// Simulator advances the ball along the plotted graphs. All methods must
// be called from a single goroutine; the frame driver and the UI share one.
type Simulator struct {
	level   *Level
	outcome Outcome

	graphs []*Graph
	nextID int

	ball        Point
	fallSpeed   float64
	playing     bool
	playingTime float64
	done        bool

	evalCtx fn.EvalContext
}

// NewSimulator creates a simulator for the given level. The outcome
// callback may be nil.
func NewSimulator(level *Level, outcome Outcome) *Simulator {
	if outcome == nil {
		outcome = func(bool, float64) {}
	}
	return &Simulator{
		level:   level,
		outcome: outcome,
		ball:    level.Start,
	}
}

// Level returns the level being played.
func (s *Simulator) Level() *Level { return s.level }

// BallPosition returns the ball center in simulation units.
func (s *Simulator) BallPosition() (x, y float64) { return s.ball.X, s.ball.Y }

// PlayingTimeSeconds reports elapsed playing time. It freezes while
// paused and resets with the ball.
func (s *Simulator) PlayingTimeSeconds() float64 { return s.playingTime }

// GoalPosition returns the goal flag position.
func (s *Simulator) GoalPosition() (x, y float64) { return s.level.Goal.X, s.level.Goal.Y }

// Obstacles returns the level's obstacle list in level order.
func (s *Simulator) Obstacles() []Obstacle { return s.level.Obstacles }

// ActiveGraphs returns the plotted graphs in insertion order. Callers
// treat the slice as a read-only snapshot for the current frame.
func (s *Simulator) ActiveGraphs() []*Graph { return s.graphs }

// Playing reports whether the simulation is advancing.
func (s *Simulator) Playing() bool { return s.playing }

// Done reports whether the level has been won.
func (s *Simulator) Done() bool { return s.done }

// TogglePlaying starts or pauses the run. Starting a finished run resets
// it first.
func (s *Simulator) TogglePlaying() {
	if s.done {
		s.Reset()
	}
	s.playing = !s.playing
}

// Reset puts the ball back at the start and zeroes the clock. Plotted
// graphs are kept.
func (s *Simulator) Reset() {
	s.ball = s.level.Start
	s.fallSpeed = 0
	s.playingTime = 0
	s.playing = false
	s.done = false
}

// AddGraph registers a new graph for the function and assigns it the next
// palette color.
func (s *Simulator) AddGraph(f *fn.Function) *Graph {
	g := &Graph{id: s.nextID, fn: f, Color: palette[s.nextID%len(palette)]}
	s.nextID++
	s.graphs = append(s.graphs, g)
	formula, _ := f.Source()
	Logger().Debug("graph added", "level", s.level.Name, "formula", formula)
	return g
}

// RemoveGraph drops a graph by identity. Unknown graphs are ignored.
func (s *Simulator) RemoveGraph(g *Graph) {
	for i, have := range s.graphs {
		if have == g {
			s.graphs = append(s.graphs[:i], s.graphs[i+1:]...)
			return
		}
	}
}

// Step advances the simulation by one fixed step. It is a no-op while
// paused or finished; the frame driver calls it unconditionally.
func (s *Simulator) Step() {
	if !s.playing || s.done {
		return
	}
	s.playingTime += StepDt

	x := s.ball.X + rollSpeed*StepDt
	y := s.ball.Y

	if support, ok := s.supportAt(x, y); ok {
		y = support
		s.fallSpeed = 0
	} else {
		s.fallSpeed += gravity * StepDt
		fallen := y - s.fallSpeed*StepDt
		// Landing: a curve crossed during the fall catches the ball.
		if support, ok := s.surfaceBetween(x, fallen, y); ok {
			y = support
			s.fallSpeed = 0
		} else {
			y = fallen
		}
	}
	s.ball = Point{x, y}

	if x > LevelHalfWidth || y < -LevelHalfHeight-2*BallRadius {
		s.finish(false)
		return
	}
	for _, ob := range s.level.Obstacles {
		switch ob.Kind {
		case KindSpike:
			if dist(s.ball, ob.Pos) <= BallRadius+0.35 {
				s.finish(false)
				return
			}
		}
	}
	if dist(s.ball, s.level.Goal) <= BallRadius+goalReach {
		s.finish(true)
	}
}

// supportAt returns the y of the topmost graph at x that can carry the
// ball, i.e. lies at or below the ball plus a small climb tolerance.
func (s *Simulator) supportAt(x, ballY float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, g := range s.graphs {
		v, ok := s.graphValueAt(g, x)
		if !ok || v > ballY+climbTol {
			continue
		}
		if v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// surfaceBetween returns the topmost graph value at x within [lo, hi].
func (s *Simulator) surfaceBetween(x, lo, hi float64) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, g := range s.graphs {
		v, ok := s.graphValueAt(g, x)
		if !ok || v < lo || v > hi {
			continue
		}
		if v > best {
			best = v
			found = true
		}
	}
	return best, found
}

func (s *Simulator) graphValueAt(g *Graph, x float64) (float64, bool) {
	s.evalCtx.X = x
	s.evalCtx.T = s.playingTime
	f := g.Fn()
	if f == nil || !f.CanEval(&s.evalCtx) {
		return 0, false
	}
	v := f.Eval(&s.evalCtx)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (s *Simulator) finish(victory bool) {
	t := s.playingTime
	Logger().Info("run finished",
		"level", s.level.Name,
		"victory", victory,
		"seconds", t,
		"graphs", len(s.graphs))
	s.playing = false
	if victory {
		s.done = true
	} else {
		s.ball = s.level.Start
		s.fallSpeed = 0
		s.playingTime = 0
	}
	s.outcome(victory, t)
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
