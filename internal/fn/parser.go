package fn

import (
	"fmt"
	"math"
	"strings"
)

// Parse compiles a formula and an optional condition into a Function.
// An empty condition yields a function defined on all of R.
func Parse(formula, condition string) (*Function, error) {
	formula = strings.TrimSpace(formula)
	condition = strings.TrimSpace(condition)
	if formula == "" {
		return nil, &ParseError{formula, 0, "empty formula"}
	}

	toks, err := lex(formula)
	if err != nil {
		return nil, err
	}
	p := &parser{input: formula, toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	f := &Function{expr: e, src: formula, condSrc: condition}
	if condition != "" {
		ctoks, err := lex(condition)
		if err != nil {
			return nil, err
		}
		cp := &parser{input: condition, toks: ctoks}
		c, err := cp.parseCond()
		if err != nil {
			return nil, err
		}
		if err := cp.expectEOF(); err != nil {
			return nil, err
		}
		f.cond = c
	}
	return f, nil
}

type parser struct {
	input string
	toks  []token
	pos   int
}

func (p *parser) peek() token  { return p.toks[p.pos] }
func (p *parser) next() token  { t := p.toks[p.pos]; p.pos++; return t }
func (p *parser) save() int    { return p.pos }
func (p *parser) restore(m int) { p.pos = m }

func (p *parser) errf(t token, format string, args ...any) error {
	return &ParseError{p.input, t.pos, fmt.Sprintf(format, args...)}
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errf(t, "unexpected %q", t.text)
	}
	return nil
}

func (p *parser) expectOp(op string) error {
	if t := p.peek(); t.kind != tokOp || t.text != op {
		return p.errf(t, "expected %q", op)
	}
	p.next()
	return nil
}

// parseExpr parses additive precedence: term {(+|-) term}.
func (p *parser) parseExpr() (expr, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return l, nil
		}
		p.next()
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = binNode{t.text[0], l, r}
	}
}

// parseTerm parses multiplicative precedence: power {(*|/) power}.
func (p *parser) parseTerm() (expr, error) {
	l, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return l, nil
		}
		p.next()
		r, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		l = binNode{t.text[0], l, r}
	}
}

// parsePower parses exponentiation, right associative: unary [^ power].
func (p *parser) parsePower() (expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp && t.text == "^" {
		p.next()
		r, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return binNode{'^', l, r}, nil
	}
	return l, nil
}

func (p *parser) parseUnary() (expr, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{arg}, nil
		}
		return arg, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return numNode(t.num), nil
	case tokIdent:
		switch t.text {
		case "x", "t":
			return varNode(t.text[0]), nil
		case "pi":
			return numNode(math.Pi), nil
		case "e":
			return numNode(math.E), nil
		}
		b, ok := builtins[t.text]
		if !ok {
			return nil, p.errf(t, "unknown name %q", t.text)
		}
		if err := p.expectOp("("); err != nil {
			return nil, err
		}
		var args []expr
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if nt := p.peek(); nt.kind == tokOp && nt.text == "," {
				p.next()
				continue
			}
			break
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		if b.arity >= 0 && len(args) != b.arity {
			return nil, p.errf(t, "%s takes %d argument(s), got %d", t.text, b.arity, len(args))
		}
		return callNode{b.fn, args}, nil
	case tokOp:
		if t.text == "(" {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.errf(t, "expected a value")
}

// parseCond parses the condition grammar, lowest precedence first:
// or-chain of and-chains of comparisons.
func (p *parser) parseCond() (cond, error) {
	l, err := p.parseCondAnd()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokLogic || (t.text != "|" && t.text != "or") {
			return l, nil
		}
		p.next()
		r, err := p.parseCondAnd()
		if err != nil {
			return nil, err
		}
		l = orCond{l, r}
	}
}

func (p *parser) parseCondAnd() (cond, error) {
	l, err := p.parseCondUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokLogic || (t.text != "&" && t.text != "and") {
			return l, nil
		}
		p.next()
		r, err := p.parseCondUnary()
		if err != nil {
			return nil, err
		}
		l = andCond{l, r}
	}
}

func (p *parser) parseCondUnary() (cond, error) {
	t := p.peek()
	if t.kind == tokLogic && t.text == "!" {
		p.next()
		arg, err := p.parseCondUnary()
		if err != nil {
			return nil, err
		}
		return notCond{arg}, nil
	}
	// A leading paren is ambiguous: "(x < 1) & ..." versus "(x+1) < 2".
	// Try a parenthesized condition first and fall back to a comparison.
	if t.kind == tokOp && t.text == "(" {
		mark := p.save()
		p.next()
		c, err := p.parseCond()
		if err == nil {
			if err := p.expectOp(")"); err == nil {
				if nt := p.peek(); nt.kind != tokRel {
					return c, nil
				}
			}
		}
		p.restore(mark)
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (cond, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	chain := cmpChain{operands: []expr{first}}
	for {
		t := p.peek()
		if t.kind != tokRel {
			break
		}
		p.next()
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		chain.ops = append(chain.ops, t.text)
		chain.operands = append(chain.operands, operand)
	}
	if len(chain.ops) == 0 {
		return nil, p.errf(p.peek(), "expected a comparison")
	}
	return chain, nil
}
