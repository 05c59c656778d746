package render

import (
	"math"
	"testing"

	"github.com/kbjakex/rollingball/internal/fn"
)

func mustParse(t *testing.T, formula, condition string) *fn.Function {
	t.Helper()
	f, err := fn.Parse(formula, condition)
	if err != nil {
		t.Fatalf("parse %q / %q: %v", formula, condition, err)
	}
	return f
}

func rasterizeDefault(t *testing.T, formula, condition string) []Polyline {
	t.Helper()
	m := NewMapper(50)
	var ctx fn.EvalContext
	return Rasterize(mustParse(t, formula, condition), &ctx, m, -500, 500, DefaultStridePx)
}

func TestRasterizeEverywhereDefined(t *testing.T) {
	lines := rasterizeDefault(t, "sin(x)", "")
	if len(lines) != 1 {
		t.Fatalf("expected one polyline, got %d", len(lines))
	}
	line := lines[0]
	if line[0].X != -500 || line[len(line)-1].X != 500 {
		t.Errorf("polyline should span the pixel domain, got [%v, %v]",
			line[0].X, line[len(line)-1].X)
	}
	// No gaps: consecutive samples exactly one stride apart.
	for i := 1; i < len(line); i++ {
		if d := line[i].X - line[i-1].X; math.Abs(d-DefaultStridePx) > 1e-9 {
			t.Fatalf("gap between samples %d and %d: dx=%v", i-1, i, d)
		}
	}
}

func TestRasterizeNowhereDefined(t *testing.T) {
	lines := rasterizeDefault(t, "x", "x > 100")
	if len(lines) != 0 {
		t.Errorf("expected zero polylines, got %d", len(lines))
	}
}

func TestRasterizeGap(t *testing.T) {
	// Undefined exactly on the open interval (-1, 1) simulation units.
	lines := rasterizeDefault(t, "0", "x <= -1 | x >= 1")
	if len(lines) != 2 {
		t.Fatalf("expected two polylines, got %d", len(lines))
	}

	gapStart := lines[0][len(lines[0])-1].X
	gapEnd := lines[1][0].X
	// x = ±1 maps to ±50 px; the gap edges land within one stride.
	if math.Abs(gapStart-(-50)) > DefaultStridePx {
		t.Errorf("gap start: expected about -50px, got %v", gapStart)
	}
	if math.Abs(gapEnd-50) > DefaultStridePx {
		t.Errorf("gap end: expected about 50px, got %v", gapEnd)
	}
}

func TestRasterizeIdentityEndpoints(t *testing.T) {
	// f(x) = x over [-500, 500] px at 50 px/unit: the curve runs from
	// (-500, 500) to (500, -500) because screen y is inverted.
	lines := rasterizeDefault(t, "x", "")
	if len(lines) != 1 {
		t.Fatalf("expected one polyline, got %d", len(lines))
	}
	line := lines[0]
	first, last := line[0], line[len(line)-1]
	if first.X != -500 || math.Abs(first.Y-500) > 1e-9 {
		t.Errorf("expected first point (-500, 500), got (%v, %v)", first.X, first.Y)
	}
	if last.X != 500 || math.Abs(last.Y-(-500)) > 1e-9 {
		t.Errorf("expected last point (500, -500), got (%v, %v)", last.X, last.Y)
	}
}

func TestRasterizeIsolatedSample(t *testing.T) {
	lines := rasterizeDefault(t, "0", "x = 0")
	if len(lines) != 1 {
		t.Fatalf("expected one degenerate polyline, got %d", len(lines))
	}
	if len(lines[0]) != 1 {
		t.Errorf("expected a single point, got %d", len(lines[0]))
	}
}

func TestRasterizeFaultTreatedAsUndefined(t *testing.T) {
	// sqrt is NaN for x < 0: the fault must produce a gap, not a crash
	// or a NaN vertex.
	lines := rasterizeDefault(t, "sqrt(x)", "")
	if len(lines) != 1 {
		t.Fatalf("expected one polyline over [0, 10], got %d", len(lines))
	}
	for _, p := range lines[0] {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			t.Fatal("non-finite vertex leaked into a polyline")
		}
		if p.X < 0 {
			t.Fatalf("sample at negative x=%v should be a gap", p.X)
		}
	}
}

func TestRasterizeStrideIsPixelSpace(t *testing.T) {
	// Doubling the zoom must not change pixel-space sampling density.
	var ctx fn.EvalContext
	f := mustParse(t, "sin(x)", "")

	at50 := Rasterize(f, &ctx, NewMapper(50), -500, 500, DefaultStridePx)
	at100 := Rasterize(f, &ctx, NewMapper(100), -500, 500, DefaultStridePx)
	if len(at50) != 1 || len(at100) != 1 {
		t.Fatal("expected single polylines")
	}
	if len(at50[0]) != len(at100[0]) {
		t.Errorf("sample count changed with zoom: %d vs %d", len(at50[0]), len(at100[0]))
	}
}

func TestRasterizeDegenerateArgs(t *testing.T) {
	m := NewMapper(50)
	var ctx fn.EvalContext
	f := mustParse(t, "x", "")

	if lines := Rasterize(nil, &ctx, m, -10, 10, 2); lines != nil {
		t.Error("nil function should rasterize to nothing")
	}
	if lines := Rasterize(f, &ctx, m, 10, -10, 2); lines != nil {
		t.Error("inverted domain should rasterize to nothing")
	}
	if lines := Rasterize(f, &ctx, m, -10, 10, 0); lines != nil {
		t.Error("zero stride should rasterize to nothing")
	}
}
