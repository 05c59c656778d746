package fn

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp    // + - * / ^ ( ) ,
	tokRel   // < <= > >= = == !=
	tokLogic // & | ! and or
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// ParseError reports where in the input parsing failed.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at position %d", e.Input, e.Msg, e.Pos)
}

func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			v, err := strconv.ParseFloat(input[start:i], 64)
			if err != nil {
				return nil, &ParseError{input, start, "malformed number"}
			}
			toks = append(toks, token{tokNum, input[start:i], v, start})
		case unicode.IsLetter(rune(c)):
			start := i
			for i < len(input) && (unicode.IsLetter(rune(input[i])) || unicode.IsDigit(rune(input[i]))) {
				i++
			}
			word := strings.ToLower(input[start:i])
			if word == "and" || word == "or" {
				toks = append(toks, token{tokLogic, word, 0, start})
			} else {
				toks = append(toks, token{tokIdent, word, 0, start})
			}
		case strings.IndexByte("+-*/^(),", c) >= 0:
			toks = append(toks, token{tokOp, string(c), 0, i})
			i++
		case c == '<' || c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokRel, input[i : i+2], 0, i})
				i += 2
			} else {
				toks = append(toks, token{tokRel, string(c), 0, i})
				i++
			}
		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokRel, "==", 0, i})
				i += 2
			} else {
				toks = append(toks, token{tokRel, "=", 0, i})
				i++
			}
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				toks = append(toks, token{tokRel, "!=", 0, i})
				i += 2
			} else {
				toks = append(toks, token{tokLogic, "!", 0, i})
				i++
			}
		case c == '&' || c == '|':
			// Accept doubled forms too.
			if i+1 < len(input) && input[i+1] == c {
				i++
			}
			word := "&"
			if c == '|' {
				word = "|"
			}
			toks = append(toks, token{tokLogic, word, 0, i})
			i++
		default:
			return nil, &ParseError{input, i, fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{tokEOF, "", 0, len(input)})
	return toks, nil
}
