// Package lexer turns source text into a linked Token stream: whitespace
// and comment skipping, digit/string/identifier/punctuator recognition,
// escape decoding, and the keyword re-tagging pass.
//
// Adapted from a position/readPosition/ch/characters cursor and
// readChar/peekChar/NextToken shape, generalized from a six-operator
// arithmetic vocabulary to spec.md §4.2's full scan.
package lexer

import (
	"strconv"
	"strings"

	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/token"
	"github.com/skx/yoctocc/types"
)

// twoCharPunctuators is the greedy two-character operator set spec.md
// §4.2 item 7 names.
var twoCharPunctuators = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "->": true,
}

// Lexer holds the scanner's cursor state over one translation unit.
type Lexer struct {
	src *diag.Source

	characters []rune
	position   int // current character position
	line       int
}

// New creates a Lexer over src's text.
func New(src *diag.Source) *Lexer {
	return &Lexer{src: src, characters: []rune(src.Text), line: 1}
}

// Lex scans the whole translation unit and returns the head of a
// non-empty Token list terminated by an EOF token.
func Lex(src *diag.Source) *token.Token {
	l := New(src)

	head := &token.Token{}
	current := head

	for {
		tok := l.next()
		current.Next = tok
		current = tok
		if tok.Kind == token.EOF {
			break
		}
	}

	retag(head.Next)
	return head.Next
}

// retag promotes IDENT tokens whose lexeme is a keyword to KEYWORD, per
// spec.md §4.2's second pass.
func retag(head *token.Token) {
	for t := head; t != nil; t = t.Next {
		if t.Kind == token.IDENT && token.IsKeyword(t.Lexeme) {
			t.Kind = token.KEYWORD
		}
	}
}

func (l *Lexer) peekAt(offset int) rune {
	i := l.position + offset
	if i < 0 || i >= len(l.characters) {
		return 0
	}
	return l.characters[i]
}

func (l *Lexer) cur() rune  { return l.peekAt(0) }
func (l *Lexer) peek() rune { return l.peekAt(1) }

func (l *Lexer) advance() {
	if l.cur() == '\n' {
		l.line++
	}
	l.position++
}

func (l *Lexer) atEnd() bool { return l.position >= len(l.characters) }

// next scans and returns the single next token, skipping whitespace and
// comments first.
func (l *Lexer) next() *token.Token {
	l.skipTrivia()

	offset := l.position
	line := l.line

	if l.atEnd() {
		return &token.Token{Kind: token.EOF, ByteOffset: offset, Line: line}
	}

	ch := l.cur()

	switch {
	case isDigit(ch):
		return l.lexNumber(offset, line)
	case ch == '"':
		return l.lexString(offset, line)
	case isIdentStart(ch):
		return l.lexIdent(offset, line)
	default:
		return l.lexPunct(offset, line)
	}
}

// skipTrivia discards whitespace, line comments, and block comments
// until the cursor sits on meaningful content (or end of input).
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.atEnd():
			return
		case isWhitespace(l.cur()):
			l.advance()
		case l.cur() == '/' && l.peek() == '/':
			for !l.atEnd() && l.cur() != '\n' {
				l.advance()
			}
		case l.cur() == '/' && l.peek() == '*':
			start := l.position
			l.advance()
			l.advance()
			closed := false
			for !l.atEnd() {
				if l.cur() == '*' && l.peek() == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.src.Errorf(start, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (l *Lexer) lexNumber(offset, line int) *token.Token {
	start := l.position
	for !l.atEnd() && isDigit(l.cur()) {
		l.advance()
	}
	lexeme := string(l.characters[start:l.position])
	value, _ := strconv.ParseInt(lexeme, 10, 64)
	return &token.Token{Kind: token.DIGIT, Lexeme: lexeme, NumberValue: value, ByteOffset: offset, Line: line}
}

func (l *Lexer) lexIdent(offset, line int) *token.Token {
	start := l.position
	for !l.atEnd() && isIdentPart(l.cur()) {
		l.advance()
	}
	lexeme := string(l.characters[start:l.position])
	return &token.Token{Kind: token.IDENT, Lexeme: lexeme, ByteOffset: offset, Line: line}
}

func (l *Lexer) lexPunct(offset, line int) *token.Token {
	two := string([]rune{l.cur(), l.peek()})
	if twoCharPunctuators[two] {
		l.advance()
		l.advance()
		return &token.Token{Kind: token.PUNCT, Lexeme: two, ByteOffset: offset, Line: line}
	}

	ch := l.cur()
	if !isPunct(ch) {
		l.src.Errorf(offset, "unexpected character %q", string(ch))
	}
	l.advance()
	return &token.Token{Kind: token.PUNCT, Lexeme: string(ch), ByteOffset: offset, Line: line}
}

// lexString scans a "..." literal, decoding escapes, and attaches an
// array-of-char LiteralType of length(bytes)+1 per spec.md §4.2 item 5.
func (l *Lexer) lexString(offset, line int) *token.Token {
	l.advance() // opening quote

	var bytesOut []byte
	for {
		if l.atEnd() || l.cur() == '\n' {
			l.src.Errorf(offset, "unterminated string literal")
			literalType := types.ArrayOf(types.CharType(), len(bytesOut)+1)
			return &token.Token{
				Kind:        token.STRING,
				Lexeme:      string(bytesOut),
				ByteOffset:  offset,
				Line:        line,
				LiteralType: literalType,
			}
		}
		if l.cur() == '"' {
			l.advance()
			break
		}
		if l.cur() == '\\' {
			l.advance()
			bytesOut = append(bytesOut, l.readEscape(offset)...)
			continue
		}
		bytesOut = append(bytesOut, string(l.cur())...)
		l.advance()
	}

	literalType := types.ArrayOf(types.CharType(), len(bytesOut)+1)
	return &token.Token{
		Kind:        token.STRING,
		Lexeme:      string(bytesOut),
		ByteOffset:  offset,
		Line:        line,
		LiteralType: literalType,
	}
}

// readEscape decodes one escape sequence, with the cursor positioned
// just past the backslash, and returns the bytes it produces.
func (l *Lexer) readEscape(stringStart int) []byte {
	if l.atEnd() {
		l.src.Errorf(stringStart, "unterminated string literal")
	}
	ch := l.cur()

	switch ch {
	case 'n':
		l.advance()
		return []byte{'\n'}
	case 't':
		l.advance()
		return []byte{'\t'}
	case 'r':
		l.advance()
		return []byte{'\r'}
	case 'a':
		l.advance()
		return []byte{'\a'}
	case 'b':
		l.advance()
		return []byte{'\b'}
	case 'f':
		l.advance()
		return []byte{'\f'}
	case 'v':
		l.advance()
		return []byte{'\v'}
	case 'e':
		l.advance()
		return []byte{27}
	case '\\', '\'', '"', '?':
		l.advance()
		return []byte{byte(ch)}
	case 'x':
		l.advance()
		start := l.position
		for !l.atEnd() && isHexDigit(l.cur()) {
			l.advance()
		}
		digits := string(l.characters[start:l.position])
		if digits == "" {
			l.src.Errorf(stringStart, `\x escape with no hex digits`)
		}
		value, _ := strconv.ParseUint(digits, 16, 64)
		return []byte{byte(value)}
	default:
		if isOctalDigit(ch) {
			start := l.position
			for n := 0; n < 3 && !l.atEnd() && isOctalDigit(l.cur()); n++ {
				l.advance()
			}
			digits := string(l.characters[start:l.position])
			value, _ := strconv.ParseUint(digits, 8, 64)
			return []byte{byte(value)}
		}
		// Unknown escape: pass the character through unchanged,
		// matching the original tokenizer's default branch.
		l.advance()
		return []byte{byte(ch)}
	}
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch rune) bool { return ch >= '0' && ch <= '7' }

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isPunct reports whether ch is one of the single-character
// punctuators the grammar in spec.md §4.6 references.
func isPunct(ch rune) bool {
	return strings.ContainsRune(`+-*/%()[]{},;=<>&.!`, ch)
}
