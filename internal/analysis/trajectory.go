// Package analysis computes summary statistics over recorded ball
// trajectories.
package analysis

import (
	"math"

	"github.com/kbjakex/rollingball/internal/storage"
)

// Summary describes one recorded trajectory.
type Summary struct {
	Duration  float64 // playing time covered by the samples
	MaxHeight float64
	MinHeight float64
	MaxX      float64
	Distance  float64 // path length in level units
	AvgSpeed  float64 // distance over duration
}

// Summarize reduces a sample series to a Summary. Fewer than two samples
// yield a zero summary.
func Summarize(samples []storage.Sample) Summary {
	if len(samples) < 2 {
		return Summary{}
	}

	s := Summary{
		MaxHeight: samples[0].Y,
		MinHeight: samples[0].Y,
		MaxX:      samples[0].X,
	}
	for i := 1; i < len(samples); i++ {
		p, q := samples[i-1], samples[i]
		s.Distance += math.Hypot(q.X-p.X, q.Y-p.Y)
		s.MaxHeight = math.Max(s.MaxHeight, q.Y)
		s.MinHeight = math.Min(s.MinHeight, q.Y)
		s.MaxX = math.Max(s.MaxX, q.X)
	}
	s.Duration = samples[len(samples)-1].T - samples[0].T
	if s.Duration > 0 {
		s.AvgSpeed = s.Distance / s.Duration
	}
	return s
}
