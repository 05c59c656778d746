package render

import (
	"context"
	"testing"
	"time"

	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
)

// recordSurface logs every draw call for assertions.
type recordSurface struct {
	w, h float64

	ops       []string
	begins    int
	ends      int
	depth     int
	translate []Point
	circles   []struct {
		x, y, r float64
		c       game.Color
	}
	sprites   int
	lineCount int
	polylines []Polyline
}

func newRecordSurface(w, h float64) *recordSurface {
	return &recordSurface{w: w, h: h}
}

func (r *recordSurface) Size() (float64, float64) { return r.w, r.h }
func (r *recordSurface) Begin()                   { r.begins++; r.ops = append(r.ops, "begin") }
func (r *recordSurface) End()                     { r.ends++; r.ops = append(r.ops, "end") }
func (r *recordSurface) Push()                    { r.depth++ }
func (r *recordSurface) Pop()                     { r.depth-- }
func (r *recordSurface) Translate(dx, dy float64) {
	r.translate = append(r.translate, Point{dx, dy})
}
func (r *recordSurface) SetStroke(game.Color, float64) {}
func (r *recordSurface) Line(x1, y1, x2, y2 float64) {
	r.lineCount++
	r.ops = append(r.ops, "line")
}
func (r *recordSurface) Polyline(pts Polyline) {
	r.polylines = append(r.polylines, pts)
	r.ops = append(r.ops, "polyline")
}
func (r *recordSurface) FillCircle(x, y, rad float64, c game.Color) {
	r.circles = append(r.circles, struct {
		x, y, r float64
		c       game.Color
	}{x, y, rad, c})
	r.ops = append(r.ops, "circle")
}
func (r *recordSurface) Sprite(SpriteID, float64, float64, float64, float64) {
	r.sprites++
	r.ops = append(r.ops, "sprite")
}

// stubSim is a canned Simulation snapshot.
type stubSim struct {
	steps    int
	ballX    float64
	ballY    float64
	playTime float64
	goalX    float64
	goalY    float64
	obs      []game.Obstacle
	graphs   []*game.Graph
}

func (s *stubSim) Step()                            { s.steps++ }
func (s *stubSim) BallPosition() (float64, float64) { return s.ballX, s.ballY }
func (s *stubSim) PlayingTimeSeconds() float64      { return s.playTime }
func (s *stubSim) GoalPosition() (float64, float64) { return s.goalX, s.goalY }
func (s *stubSim) Obstacles() []game.Obstacle       { return s.obs }
func (s *stubSim) ActiveGraphs() []*game.Graph      { return s.graphs }

func graphOf(t *testing.T, sim *game.Simulator, formula, condition string) *game.Graph {
	t.Helper()
	f, err := fn.Parse(formula, condition)
	if err != nil {
		t.Fatalf("parse %q: %v", formula, err)
	}
	return sim.AddGraph(f)
}

func testDriver(t *testing.T, sim Simulation) (*Driver, *recordSurface, *string) {
	t.Helper()
	surface := newRecordSurface(1000, 800)
	var readout string
	d := NewDriver(sim, surface, NewCompositor(NewMapper(50)), func(s string) { readout = s })
	return d, surface, &readout
}

func TestTickCompletesFrame(t *testing.T) {
	helper := game.NewSimulator(&game.Level{Start: game.Point{X: -8}, Goal: game.Point{X: 8}}, nil)
	good := graphOf(t, helper, "sin(x)", "")

	sim := &stubSim{
		ballX: -8, ballY: 0,
		goalX: 8, goalY: 0,
		playTime: 3.5,
		obs:      []game.Obstacle{{Kind: game.KindSpike, Pos: game.Point{X: 1, Y: 1}}},
		graphs:   []*game.Graph{good},
	}
	d, surface, readout := testDriver(t, sim)

	d.Tick(time.UnixMilli(777))

	if sim.steps != 1 {
		t.Errorf("expected exactly one simulation step, got %d", sim.steps)
	}
	if surface.begins != 1 || surface.ends != 1 {
		t.Errorf("expected one begin/end pair, got %d/%d", surface.begins, surface.ends)
	}
	if surface.depth != 0 {
		t.Errorf("unbalanced push/pop, depth %d", surface.depth)
	}
	if len(surface.translate) == 0 || surface.translate[0] != (Point{500, 400}) {
		t.Errorf("expected origin translation to canvas center, got %v", surface.translate)
	}
	if *readout != "Time: 3.50s" {
		t.Errorf("unexpected readout %q", *readout)
	}
	// Ball and goal dot drawn, flag sprite drawn.
	if len(surface.circles) != 2 {
		t.Errorf("expected 2 filled circles (ball, goal dot), got %d", len(surface.circles))
	}
	if surface.sprites != 1 {
		t.Errorf("expected 1 flag sprite, got %d", surface.sprites)
	}
	// Spike arms on top of grid lines.
	if surface.lineCount <= 5 {
		t.Errorf("expected grid plus spike lines, got %d", surface.lineCount)
	}
}

func TestTickDrawOrder(t *testing.T) {
	helper := game.NewSimulator(&game.Level{}, nil)
	g := graphOf(t, helper, "1", "")

	sim := &stubSim{graphs: []*game.Graph{g}, obs: []game.Obstacle{{Kind: game.KindSpike}}}
	d, surface, _ := testDriver(t, sim)
	d.Tick(time.UnixMilli(0))

	last := func(kind string) int {
		idx := -1
		for i, op := range surface.ops {
			if op == kind {
				idx = i
			}
		}
		return idx
	}
	first := func(kind string) int {
		for i, op := range surface.ops {
			if op == kind {
				return i
			}
		}
		return -1
	}

	if !(first("polyline") > first("line")) {
		t.Error("curves must draw after the grid")
	}
	if !(first("circle") > last("polyline")) {
		t.Error("ball must draw after the curves")
	}
	if !(last("sprite") > last("circle")) {
		t.Error("goal flag must draw last")
	}
	if surface.ops[len(surface.ops)-1] != "end" {
		t.Error("frame must finish with End")
	}
}

func TestTickSurvivesUndefinedGraph(t *testing.T) {
	helper := game.NewSimulator(&game.Level{}, nil)
	undefined := graphOf(t, helper, "x", "x > 100")
	faulting := graphOf(t, helper, "sqrt(-1 - x^2)", "") // NaN everywhere
	good := graphOf(t, helper, "x", "")

	sim := &stubSim{graphs: []*game.Graph{undefined, faulting, good}}
	d, surface, readout := testDriver(t, sim)

	d.Tick(time.UnixMilli(55)) // must not panic

	if surface.ends != 1 {
		t.Fatal("frame did not complete")
	}
	// The good graph still rendered.
	if len(surface.polylines) != 1 {
		t.Errorf("expected 1 polyline from the defined graph, got %d", len(surface.polylines))
	}
	if len(surface.circles) != 2 {
		t.Error("ball and goal skipped because of a bad graph")
	}
	if *readout == "" {
		t.Error("readout skipped because of a bad graph")
	}
}

func TestBallDiameterScalesWithMapper(t *testing.T) {
	sim := &stubSim{}
	surface := newRecordSurface(400, 300) // viewport size must not matter
	d := NewDriver(sim, surface, NewCompositor(NewMapper(50)), nil)
	d.Tick(time.UnixMilli(0))

	if len(surface.circles) == 0 {
		t.Fatal("no circles drawn")
	}
	ball := surface.circles[0]
	if want := game.BallRadius * 50; ball.r != want {
		t.Errorf("ball radius %v px, want %v", ball.r, want)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "Time: 0.00s"},
		{1, "Time: 1.00s"},
		{12.346, "Time: 12.35s"}, // rounds, not truncates
		{9.999, "Time: 10.00s"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v): expected %q, got %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim := &stubSim{}
	d, _, _ := testDriver(t, sim)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, time.Millisecond) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
	if sim.steps == 0 {
		t.Error("expected at least one tick before cancellation")
	}
}
