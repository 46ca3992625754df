// Package conditionexpr evaluates the condition guards attached to writes:
// attribute existence checks and equality comparisons, optionally joined
// with AND.
package conditionexpr

import (
	"fmt"

	"github.com/okvist/tabletown/exprtoken"
)

// Condition is a parsed boolean guard over a document.
type Condition interface {
	conditionMarker()
}

// Exists is attribute_exists(path) or, negated, attribute_not_exists(path).
type Exists struct {
	Name    Name
	Negated bool
}

// Equals is `path = :value`.
type Equals struct {
	Name  Name
	Value string
}

// And is the conjunction of two conditions.
type And struct {
	Left, Right Condition
}

func (*Exists) conditionMarker() {}
func (*Equals) conditionMarker() {}
func (*And) conditionMarker()    {}

// Name is a literal attribute name or a #alias.
type Name struct {
	Ident string
	Alias string
}

// Resolve returns the concrete attribute name. Unresolvable aliases pass
// through verbatim, matching the update-expression leniency.
func (n Name) Resolve(names map[string]string) string {
	if n.Alias == "" {
		return n.Ident
	}
	if resolved, ok := names[n.Alias]; ok {
		return resolved
	}
	return n.Alias
}

// Parse parses a condition expression.
func Parse(expr string) (Condition, error) {
	p := parser{tokens: exprtoken.Tokenize(expr)}
	cond, err := p.conjunction()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected token %q", p.peek().Text)
	}
	return cond, nil
}

type parser struct {
	tokens []exprtoken.Token
	pos    int
}

func (p *parser) done() bool            { return p.pos >= len(p.tokens) }
func (p *parser) peek() exprtoken.Token { return p.tokens[p.pos] }
func (p *parser) next() exprtoken.Token { t := p.tokens[p.pos]; p.pos++; return t }

func (p *parser) conjunction() (Condition, error) {
	left, err := p.simple()
	if err != nil {
		return nil, err
	}
	for !p.done() && p.peek().IsKeyword("AND") {
		p.next()
		right, err := p.simple()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) simple() (Condition, error) {
	if p.done() {
		return nil, fmt.Errorf("unexpected end of condition")
	}

	if p.peek().IsKeyword("attribute_exists") || p.peek().IsKeyword("attribute_not_exists") {
		negated := p.peek().IsKeyword("attribute_not_exists")
		p.next()
		if p.done() || p.peek().Kind != exprtoken.LParen {
			return nil, fmt.Errorf("expected ( after existence function")
		}
		p.next()
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		if p.done() || p.peek().Kind != exprtoken.RParen {
			return nil, fmt.Errorf("expected ) after attribute name")
		}
		p.next()
		return &Exists{Name: name, Negated: negated}, nil
	}

	name, err := p.name()
	if err != nil {
		return nil, err
	}
	if p.done() || p.peek().Kind != exprtoken.Equals {
		return nil, fmt.Errorf("expected = after attribute name %q", name.Ident+name.Alias)
	}
	p.next()
	if p.done() || p.peek().Kind != exprtoken.ValueAlias {
		return nil, fmt.Errorf("expected :value on right side of =")
	}
	return &Equals{Name: name, Value: p.next().Text}, nil
}

func (p *parser) name() (Name, error) {
	if p.done() {
		return Name{}, fmt.Errorf("expected attribute name")
	}
	switch t := p.peek(); t.Kind {
	case exprtoken.Ident:
		p.next()
		return Name{Ident: t.Text}, nil
	case exprtoken.NameAlias:
		p.next()
		return Name{Alias: t.Text}, nil
	default:
		return Name{}, fmt.Errorf("expected attribute name, got %q", t.Text)
	}
}
