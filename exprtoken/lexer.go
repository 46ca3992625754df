// Package exprtoken provides the tokenizer shared by the update- and
// condition-expression parsers.
package exprtoken

import "strings"

type Kind int

const (
	// Ident is a bare attribute name or keyword (SET, AND, attribute_exists, ...).
	Ident Kind = iota
	// NameAlias is a #placeholder resolved via the expression attribute names map.
	NameAlias
	// ValueAlias is a :placeholder resolved via the expression attribute values map.
	ValueAlias
	Equals
	Comma
	LParen
	RParen
	// Illegal marks a byte the lexer does not recognize. Parsers treat the
	// surrounding clause as malformed rather than failing the whole expression.
	Illegal
)

type Token struct {
	Kind Kind
	// Text is the literal token text. Alias tokens keep their marker byte
	// (#name, :value) because the request-supplied maps are keyed that way.
	Text string
}

// IsKeyword reports whether the token is the given keyword, ignoring case.
// The wire dialect uses uppercase keywords but clients are not consistent.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Ident && strings.EqualFold(t.Text, kw)
}

// Tokenize splits an expression into tokens. It never fails: unrecognized
// bytes become Illegal tokens and are left for the parser's recovery rules.
func Tokenize(expr string) []Token {
	var tokens []Token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '=':
			tokens = append(tokens, Token{Kind: Equals, Text: "="})
			i++
		case c == ',':
			tokens = append(tokens, Token{Kind: Comma, Text: ","})
			i++
		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Text: "("})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Text: ")"})
			i++
		case c == '#':
			word := identifier(expr[i+1:])
			tokens = append(tokens, Token{Kind: NameAlias, Text: expr[i : i+1+len(word)]})
			i += 1 + len(word)
		case c == ':':
			word := identifier(expr[i+1:])
			tokens = append(tokens, Token{Kind: ValueAlias, Text: expr[i : i+1+len(word)]})
			i += 1 + len(word)
		case isIdentByte(c):
			word := identifier(expr[i:])
			tokens = append(tokens, Token{Kind: Ident, Text: word})
			i += len(word)
		default:
			tokens = append(tokens, Token{Kind: Illegal, Text: string(c)})
			i++
		}
	}
	return tokens
}

func identifier(s string) string {
	end := 0
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return s[:end]
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' || c == '-'
}
