// Package fn compiles player-entered formulas into evaluable functions.
//
// A function is a partial mapping from the graph x-coordinate (and the
// current playing time t) to a y value. Partiality comes from an optional
// filter condition such as "0 < x < 1": where the condition does not hold
// the function has no value at all. Evaluation never panics; anything that
// cannot be computed surfaces either as a parse error up front or as a
// non-finite value at evaluation time.
package fn

// EvalContext carries the inputs of a single evaluation. It is written
// once and read once per sample; callers reuse the same context across the
// samples of one frame to avoid reallocation, but never share it between
// concurrent evaluations.
type EvalContext struct {
	// X is the current sample position in simulation units.
	X float64
	// T is the simulation playing time in seconds.
	T float64
}

// Function is a compiled formula plus an optional domain condition.
type Function struct {
	expr    expr
	cond    cond
	src     string
	condSrc string
}

// CanEval reports whether the function has a value at the context's X.
// A function without a condition is defined everywhere.
func (f *Function) CanEval(ctx *EvalContext) bool {
	if f.cond == nil {
		return true
	}
	return f.cond.holds(ctx)
}

// Eval computes the function value. The result may be NaN or infinite for
// inputs outside the domain of an inner math operation (e.g. sqrt(x) for
// negative x); callers decide how to treat non-finite values.
func (f *Function) Eval(ctx *EvalContext) float64 {
	return f.expr.eval(ctx)
}

// Source returns the formula and condition strings the function was
// compiled from. The condition string is empty when none was given.
func (f *Function) Source() (formula, condition string) {
	return f.src, f.condSrc
}
