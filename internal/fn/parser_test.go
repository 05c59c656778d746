package fn

import (
	"math"
	"testing"
)

func evalAt(t *testing.T, formula, condition string, x, tm float64) float64 {
	t.Helper()
	f, err := Parse(formula, condition)
	if err != nil {
		t.Fatalf("parse %q: %v", formula, err)
	}
	return f.Eval(&EvalContext{X: x, T: tm})
}

func TestParseArithmetic(t *testing.T) {
	tests := []struct {
		formula string
		x       float64
		want    float64
	}{
		{"1 + 2 * 3", 0, 7},
		{"(1 + 2) * 3", 0, 9},
		{"2 ^ 3 ^ 2", 0, 512}, // right associative
		{"-x^2", 3, -9},
		{"10 - 4 - 3", 0, 3}, // left associative
		{"x / 4", 10, 2.5},
		{"1 + sin(x)", 0, 1},
		{"sqrt(x)", 16, 4},
		{"max(1, x, 3)", 7, 7},
		{"min(x, 0)", 5, 0},
		{"abs(-x)", 2, 2},
		{"2pi", 0, math.NaN()}, // implicit multiplication is not supported
	}

	for _, tt := range tests {
		f, err := Parse(tt.formula, "")
		if math.IsNaN(tt.want) {
			if err == nil {
				t.Errorf("%q: expected parse error", tt.formula)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.formula, err)
			continue
		}
		got := f.Eval(&EvalContext{X: tt.x})
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%q at x=%v: expected %v, got %v", tt.formula, tt.x, tt.want, got)
		}
	}
}

func TestParseConstantsAndTime(t *testing.T) {
	if got := evalAt(t, "pi", "", 0, 0); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("pi: got %v", got)
	}
	if got := evalAt(t, "sin(t)", "", 0, math.Pi/2); math.Abs(got-1) > 1e-12 {
		t.Errorf("sin(t) at t=pi/2: got %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"1 +",
		"(1",
		"foo(1)",
		"sin()",
		"sin(1, 2)",
		"1 $ 2",
		"..5",
		"x x",
	}
	for _, formula := range bad {
		if _, err := Parse(formula, ""); err == nil {
			t.Errorf("%q: expected parse error", formula)
		}
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("1 + foo(2)", "")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Pos != 4 {
		t.Errorf("expected position 4, got %d", pe.Pos)
	}
}

func TestConditions(t *testing.T) {
	tests := []struct {
		cond string
		x    float64
		want bool
	}{
		{"0 < x < 1", 0.5, true},
		{"0 < x < 1", 1.5, false},
		{"0 < x < 1", 0, false},
		{"0 <= x <= 1", 0, true},
		{"x < 0 | x > 1", -1, true},
		{"x < 0 | x > 1", 0.5, false},
		{"x > 0 & x < 2", 1, true},
		{"x > 0 and x < 2", 3, false},
		{"!(x < 0)", 1, true},
		{"(x < 0) or (x > 1)", 2, true},
		{"(x + 1) < 2", 0.5, true},
		{"x != 0", 0, false},
		{"x = 1", 1, true},
	}

	for _, tt := range tests {
		f, err := Parse("x", tt.cond)
		if err != nil {
			t.Errorf("condition %q: unexpected error: %v", tt.cond, err)
			continue
		}
		got := f.CanEval(&EvalContext{X: tt.x})
		if got != tt.want {
			t.Errorf("condition %q at x=%v: expected %v, got %v", tt.cond, tt.x, got, tt.want)
		}
	}
}

func TestConditionErrors(t *testing.T) {
	bad := []string{"x", "1 + 1", "x <", "< 1", "x & y"}
	for _, c := range bad {
		if _, err := Parse("x", c); err == nil {
			t.Errorf("condition %q: expected parse error", c)
		}
	}
}

func TestNoConditionDefinedEverywhere(t *testing.T) {
	f, err := Parse("x^2", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{-100, 0, 3.7, 1e9} {
		if !f.CanEval(&EvalContext{X: x}) {
			t.Errorf("expected CanEval true at x=%v", x)
		}
	}
}

func TestNonFiniteResults(t *testing.T) {
	// Domain faults inside math calls surface as non-finite values,
	// never as panics.
	f, err := Parse("sqrt(x)", "")
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Eval(&EvalContext{X: -1}); !math.IsNaN(v) {
		t.Errorf("sqrt(-1): expected NaN, got %v", v)
	}

	g, err := Parse("1 / x", "")
	if err != nil {
		t.Fatal(err)
	}
	if v := g.Eval(&EvalContext{X: 0}); !math.IsInf(v, 1) {
		t.Errorf("1/0: expected +Inf, got %v", v)
	}
}

func TestSourceRoundTrip(t *testing.T) {
	f, err := Parse("sin(x)", "x > 0")
	if err != nil {
		t.Fatal(err)
	}
	formula, condition := f.Source()
	if formula != "sin(x)" || condition != "x > 0" {
		t.Errorf("unexpected source: %q, %q", formula, condition)
	}
}
