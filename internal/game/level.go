package game

import "math"

// Level describes one puzzle: where the ball starts, where the goal flag
// stands and which obstacles are in the way. Levels are immutable once
// built; the simulator never mutates them.
type Level struct {
	Name      string
	Start     Point
	Goal      Point
	Obstacles []Obstacle

	// Par values feed the completion score.
	ParEquations int
	ParSeconds   float64

	next *Level
}

// Next returns the level that follows this one in the campaign, or nil at
// the end of the chain.
func (l *Level) Next() *Level { return l.next }

// ScorePercent grades a completion: full marks at par, minus 10 per extra
// equation and minus 1 per second over par, floored at 10.
func (l *Level) ScorePercent(equations int, seconds float64) int {
	score := 100
	if extra := equations - l.ParEquations; extra > 0 {
		score -= 10 * extra
	}
	if over := seconds - l.ParSeconds; over > 0 {
		score -= int(math.Floor(over))
	}
	if score < 10 {
		score = 10
	}
	return score
}

func spike(x, y float64) Obstacle {
	return Obstacle{Kind: KindSpike, Pos: Point{x, y}}
}

// Campaign returns the built-in level chain, first level first. The
// returned slice shares the chained levels, so Next() walks the same
// objects.
func Campaign() []*Level {
	levels := []*Level{
		{
			Name:         "First Steps",
			Start:        Point{-8, 0},
			Goal:         Point{8, 0},
			ParEquations: 1,
			ParSeconds:   15,
		},
		{
			Name:         "Uphill Struggle",
			Start:        Point{-8, -4},
			Goal:         Point{8, 4},
			ParEquations: 1,
			ParSeconds:   20,
		},
		{
			Name:  "Spike Alley",
			Start: Point{-8, 0},
			Goal:  Point{8, 0},
			Obstacles: []Obstacle{
				spike(-2, 0.5), spike(2, 0.5),
			},
			ParEquations: 2,
			ParSeconds:   25,
		},
		{
			Name:  "The Gauntlet",
			Start: Point{-8, 4},
			Goal:  Point{8, -4},
			Obstacles: []Obstacle{
				spike(-4, 2), spike(0, 0), spike(4, -2), spike(6, -4),
			},
			ParEquations: 3,
			ParSeconds:   30,
		},
	}
	for i := 0; i < len(levels)-1; i++ {
		levels[i].next = levels[i+1]
	}
	return levels
}

// FindLevel looks a campaign level up by name. Returns nil when unknown.
func FindLevel(name string) *Level {
	for _, l := range Campaign() {
		if l.Name == name {
			return l
		}
	}
	return nil
}
