package fn

import "math"

// expr is an arithmetic node evaluating to a float64.
type expr interface {
	eval(ctx *EvalContext) float64
}

// cond is a boolean node deciding domain membership.
type cond interface {
	holds(ctx *EvalContext) bool
}

type numNode float64

func (n numNode) eval(*EvalContext) float64 { return float64(n) }

type varNode byte // 'x' or 't'

func (v varNode) eval(ctx *EvalContext) float64 {
	if v == 'x' {
		return ctx.X
	}
	return ctx.T
}

type negNode struct{ arg expr }

func (n negNode) eval(ctx *EvalContext) float64 { return -n.arg.eval(ctx) }

type binNode struct {
	op   byte // '+', '-', '*', '/', '^'
	l, r expr
}

func (b binNode) eval(ctx *EvalContext) float64 {
	l, r := b.l.eval(ctx), b.r.eval(ctx)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	default:
		return math.Pow(l, r)
	}
}

type callNode struct {
	fn   func(...float64) float64
	args []expr
}

func (c callNode) eval(ctx *EvalContext) float64 {
	vals := make([]float64, len(c.args))
	for i, a := range c.args {
		vals[i] = a.eval(ctx)
	}
	return c.fn(vals...)
}

// builtins maps call names to implementations plus arity. Arity -1 means
// variadic with at least one argument.
var builtins = map[string]struct {
	arity int
	fn    func(...float64) float64
}{
	"sin":   {1, func(v ...float64) float64 { return math.Sin(v[0]) }},
	"cos":   {1, func(v ...float64) float64 { return math.Cos(v[0]) }},
	"tan":   {1, func(v ...float64) float64 { return math.Tan(v[0]) }},
	"asin":  {1, func(v ...float64) float64 { return math.Asin(v[0]) }},
	"acos":  {1, func(v ...float64) float64 { return math.Acos(v[0]) }},
	"atan":  {1, func(v ...float64) float64 { return math.Atan(v[0]) }},
	"sqrt":  {1, func(v ...float64) float64 { return math.Sqrt(v[0]) }},
	"abs":   {1, func(v ...float64) float64 { return math.Abs(v[0]) }},
	"ln":    {1, func(v ...float64) float64 { return math.Log(v[0]) }},
	"log":   {1, func(v ...float64) float64 { return math.Log10(v[0]) }},
	"exp":   {1, func(v ...float64) float64 { return math.Exp(v[0]) }},
	"floor": {1, func(v ...float64) float64 { return math.Floor(v[0]) }},
	"ceil":  {1, func(v ...float64) float64 { return math.Ceil(v[0]) }},
	"sign":  {1, func(v ...float64) float64 { return signum(v[0]) }},
	"min":   {-1, variadic(math.Min)},
	"max":   {-1, variadic(math.Max)},
}

func signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func variadic(f func(a, b float64) float64) func(...float64) float64 {
	return func(v ...float64) float64 {
		acc := v[0]
		for _, x := range v[1:] {
			acc = f(acc, x)
		}
		return acc
	}
}

// cmpChain is a chained comparison like 0 < x < 1: every adjacent pair
// must hold.
type cmpChain struct {
	operands []expr
	ops      []string // len(operands)-1 entries, e.g. "<", ">="
}

func (c cmpChain) holds(ctx *EvalContext) bool {
	prev := c.operands[0].eval(ctx)
	for i, op := range c.ops {
		next := c.operands[i+1].eval(ctx)
		if !compare(op, prev, next) {
			return false
		}
		prev = next
	}
	return true
}

func compare(op string, l, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "!=":
		return l != r
	default: // "=" and "=="
		return l == r
	}
}

type andCond struct{ l, r cond }

func (c andCond) holds(ctx *EvalContext) bool { return c.l.holds(ctx) && c.r.holds(ctx) }

type orCond struct{ l, r cond }

func (c orCond) holds(ctx *EvalContext) bool { return c.l.holds(ctx) || c.r.holds(ctx) }

type notCond struct{ arg cond }

func (c notCond) holds(ctx *EvalContext) bool { return !c.arg.holds(ctx) }
