// Package token contains the tokens that the lexer produces when
// scanning a translation unit, and the keyword table used to re-tag
// identifiers in a second pass.
package token

import "github.com/skx/yoctocc/types"

// Kind identifies the lexical class of a Token.
type Kind int

// The lexical kinds a Token can carry.
const (
	UNKNOWN Kind = iota
	IDENT
	PUNCT
	KEYWORD
	STRING
	DIGIT
	EOF
)

// String renders a Kind for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case IDENT:
		return "IDENT"
	case PUNCT:
		return "PUNCT"
	case KEYWORD:
		return "KEYWORD"
	case STRING:
		return "STRING"
	case DIGIT:
		return "DIGIT"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit. Tokens form a singly-linked list terminated
// by an EOF sentinel; Next is the only owning pointer in the chain.
type Token struct {
	Kind        Kind
	Lexeme      string
	NumberValue int64

	// ByteOffset is the offset of the token's first character in the
	// source text; Line is the 1-based source line it starts on.
	ByteOffset int
	Line       int

	// LiteralType is set only for STRING tokens: an array-of-char type
	// of length len(Lexeme)+1, built by the lexer.
	LiteralType *types.Type

	Next *Token
}

// keywords is the fixed re-tagging table applied after the raw lexer
// pass: any IDENT token whose lexeme appears here is promoted to KEYWORD.
var keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
	"int":    true,
	"char":   true,
	"short":  true,
	"long":   true,
	"sizeof": true,
	"struct": true,
	"union":  true,
}

// IsKeyword reports whether lexeme is in the fixed keyword table.
func IsKeyword(lexeme string) bool {
	return keywords[lexeme]
}

// Is reports whether t is non-nil and its lexeme equals s. This is the
// single predicate the parser uses everywhere it needs to peek at the
// next token without consuming it.
func Is(t *Token, s string) bool {
	return t != nil && t.Lexeme == s
}

// SkipIf consumes t if its lexeme equals s, returning the following
// token; otherwise it returns t unchanged.
func SkipIf(t *Token, s string) *Token {
	if Is(t, s) {
		return t.Next
	}
	return t
}
