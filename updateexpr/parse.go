// Package updateexpr parses and applies the SET dialect of update
// expressions: a comma-separated list of `target = :value` assignments.
package updateexpr

import (
	"github.com/okvist/tabletown/exprtoken"
)

// Expression is the parsed assignment list. Assignments apply left to right;
// a later assignment to the same target overwrites an earlier one.
type Expression struct {
	Assignments []Assignment
}

type Assignment struct {
	Target Name
	// Source is the :value alias on the right-hand side.
	Source string
}

// Name is an assignment target: either a literal attribute name or a #alias
// to be resolved against the expression attribute names map.
type Name struct {
	Ident string
	Alias string
}

// Parse parses an update expression. Parsing is deliberately lenient: an
// expression without a leading SET keyword yields an empty expression, and a
// malformed assignment group is skipped while well-formed groups around it
// are kept. Neither case is an error; the permissive behavior is part of the
// engine's compatibility contract.
func Parse(expr string) Expression {
	tokens := exprtoken.Tokenize(expr)
	if len(tokens) == 0 || !tokens[0].IsKeyword("SET") {
		return Expression{}
	}

	p := parser{tokens: tokens, pos: 1}
	var out Expression
	for !p.done() {
		if asgn, ok := p.assignment(); ok {
			out.Assignments = append(out.Assignments, asgn)
		} else {
			// Recovery mode: drop tokens up to the next comma so one bad
			// clause cannot poison the rest of the list.
			p.skipClause()
		}
		if !p.done() {
			if p.peek().Kind != exprtoken.Comma {
				p.skipClause()
				continue
			}
			p.next()
		}
	}
	return out
}

type parser struct {
	tokens []exprtoken.Token
	pos    int
}

func (p *parser) done() bool            { return p.pos >= len(p.tokens) }
func (p *parser) peek() exprtoken.Token { return p.tokens[p.pos] }
func (p *parser) next() exprtoken.Token { t := p.tokens[p.pos]; p.pos++; return t }

// assignment parses `target = :value`. It reports failure without consuming
// past the offending token; skipClause handles the rest.
func (p *parser) assignment() (Assignment, bool) {
	if p.done() {
		return Assignment{}, false
	}
	var target Name
	switch t := p.peek(); t.Kind {
	case exprtoken.Ident:
		target = Name{Ident: t.Text}
	case exprtoken.NameAlias:
		target = Name{Alias: t.Text}
	default:
		return Assignment{}, false
	}
	p.next()

	if p.done() || p.peek().Kind != exprtoken.Equals {
		return Assignment{}, false
	}
	p.next()

	if p.done() || p.peek().Kind != exprtoken.ValueAlias {
		return Assignment{}, false
	}
	source := p.next().Text

	return Assignment{Target: target, Source: source}, true
}

func (p *parser) skipClause() {
	for !p.done() && p.peek().Kind != exprtoken.Comma {
		p.next()
	}
}
