package render

import (
	"context"
	"fmt"
	"time"

	"github.com/kbjakex/rollingball/internal/game"
)

// Simulation is the per-frame contract with the game simulator. Step is
// called exactly once per frame regardless of pause state; the simulator
// makes it a no-op while paused, the driver never branches on it.
type Simulation interface {
	Step()
	BallPosition() (x, y float64)
	PlayingTimeSeconds() float64
	GoalPosition() (x, y float64)
	Obstacles() []game.Obstacle
	ActiveGraphs() []*game.Graph
}

// Driver ticks the simulation and redraws the frame. It owns no timer of
// its own: front-ends call Tick from their frame loop, or use Run with a
// ticker for headless operation. All calls must come from one goroutine.
type Driver struct {
	sim     Simulation
	surface Surface
	scene   *Compositor
	readout func(string)
}

// NewDriver wires a driver. readout receives the formatted time display
// once per frame and may be nil.
func NewDriver(sim Simulation, surface Surface, scene *Compositor, readout func(string)) *Driver {
	return &Driver{sim: sim, surface: surface, scene: scene, readout: readout}
}

// Tick runs one frame: advance the simulation one step, clear, draw the
// scene around the canvas center, update the time readout. A frame always
// completes; per-sample evaluation trouble only shortens curves (see
// Rasterize) and never propagates here.
func (d *Driver) Tick(now time.Time) {
	d.sim.Step()

	w, h := d.surface.Size()
	d.surface.Begin()
	d.surface.Push()
	d.surface.Translate(w/2, h/2)
	d.scene.Draw(d.surface, d.sim, now.UnixMilli())
	d.surface.Pop()
	d.surface.End()

	if d.readout != nil {
		d.readout(FormatTime(d.sim.PlayingTimeSeconds()))
	}
}

// Run ticks at the given interval until the context is canceled. Frames
// are serialized: a tick completes before the next is taken, and a slow
// frame simply delays its successor.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			d.Tick(now)
		}
	}
}

// FormatTime renders the playing-time readout, rounded to centiseconds.
func FormatTime(seconds float64) string {
	return fmt.Sprintf("Time: %.2fs", seconds)
}
