package render

import (
	"math"

	"github.com/kbjakex/rollingball/internal/fn"
)

// DefaultStridePx is the curve sampling stride in pixel space. Sampling
// in pixels keeps curve resolution independent of the simulation scale.
//
// The stride is uniform rather than curvature-adaptive; straight runs are
// sampled as densely as tight bends. Adaptive stepping would be a drop-in
// replacement as long as output stays within a pixel of the uniform result.
const DefaultStridePx = 2.0

// Rasterize samples f across [minPx, maxPx] at stepPx stride and returns
// the resulting polylines, one per contiguous run of defined samples.
//
// Undefined samples produce gaps: the open polyline is terminated and
// scanning continues. A sample is undefined when the function's domain
// predicate rejects it or when evaluation yields a non-finite value (the
// arithmetic-fault case); neither ever aborts the scan. A function with no
// defined sample in view yields an empty slice. A single isolated defined
// sample yields a one-point polyline, which draws as nothing.
//
// ctx is reused across all samples of the call; callers must not alias it
// from concurrent evaluations.
func Rasterize(f *fn.Function, ctx *fn.EvalContext, m Mapper, minPx, maxPx, stepPx float64) []Polyline {
	if f == nil || stepPx <= 0 || maxPx < minPx {
		return nil
	}

	var lines []Polyline
	var open Polyline

	for px := minPx; px <= maxPx; px += stepPx {
		ctx.X, _ = m.ToSim(px, 0)

		if !f.CanEval(ctx) {
			if open != nil {
				lines = append(lines, open)
				open = nil
			}
			continue
		}
		v := f.Eval(ctx)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if open != nil {
				lines = append(lines, open)
				open = nil
			}
			continue
		}

		_, py := m.ToScreen(0, v)
		open = append(open, Point{px, py})
	}
	if open != nil {
		lines = append(lines, open)
	}
	return lines
}
