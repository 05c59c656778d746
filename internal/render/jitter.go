package render

import (
	"math"

	"github.com/kbjakex/rollingball/internal/game"
)

// Spike rendering constants. The arm half-length is in simulation units so
// spikes scale with the session zoom like everything else.
const (
	SpikeArmCount   = 5
	SpikeArmHalfLen = 0.35

	jitterAmplitude = 0.1   // radians
	jitterFreq      = 0.002 // radians per wall-clock millisecond
	ordinalStep     = 3     // per-obstacle phase offset multiplier
)

// JitterPhase returns the decorative angular wobble for the obstacle at
// the given position in the level's obstacle list.
//
// The phase is seeded from the wall clock, not simulation time, so it is
// deliberately not reproducible across runs: it animates while the game is
// paused and has no effect on the simulation. The per-obstacle offset is a
// plain ordinal multiple, which is enough to keep neighboring spikes out
// of sync.
func JitterPhase(ordinal int, wallMillis int64) float64 {
	offset := float64((ordinal + 1) * ordinalStep)
	return math.Sin(float64(wallMillis)*jitterFreq+offset) * jitterAmplitude
}

// SpikeArms lays out the arm segments for a spike obstacle: SpikeArmCount
// evenly spaced angles around the mapped center, each rotated by the
// jitter phase, each a full segment through the center with half-length
// SpikeArmHalfLen (in simulation units, mapped to pixels).
func SpikeArms(m Mapper, ordinal int, pos game.Point, wallMillis int64) [SpikeArmCount]Segment {
	var arms [SpikeArmCount]Segment
	cx, cy := m.ToScreen(pos.X, pos.Y)
	phase := JitterPhase(ordinal, wallMillis)
	for i := 0; i < SpikeArmCount; i++ {
		angle := 2*math.Pi*float64(i)/SpikeArmCount + phase
		dx := math.Cos(angle) * SpikeArmHalfLen * m.PxPerUnit
		dy := math.Sin(angle) * SpikeArmHalfLen * m.PxPerUnit
		arms[i] = Segment{
			A: Point{cx - dx, cy - dy},
			B: Point{cx + dx, cy + dy},
		}
	}
	return arms
}
