package lexer

import (
	"testing"

	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/token"
	"github.com/stretchr/testify/require"
)

func collect(text string) []*token.Token {
	src := diag.New("test.c", text)
	var toks []*token.Token
	for t := Lex(src); t != nil; t = t.Next {
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestByteOffsets(t *testing.T) {
	toks := collect("ab + 12")
	require.Equal(t, token.IDENT, toks[0].Kind)
	require.Equal(t, 0, toks[0].ByteOffset)
	require.Equal(t, "+", toks[1].Lexeme)
	require.Equal(t, 3, toks[1].ByteOffset)
	require.Equal(t, "12", toks[2].Lexeme)
	require.Equal(t, 5, toks[2].ByteOffset)
}

func TestKeywordRetagging(t *testing.T) {
	toks := collect("int return foo")
	require.Equal(t, token.KEYWORD, toks[0].Kind)
	require.Equal(t, token.KEYWORD, toks[1].Kind)
	require.Equal(t, token.IDENT, toks[2].Kind)
}

func TestTwoCharPunctuatorsPreferredOverOneChar(t *testing.T) {
	toks := collect("a <= b -> c")
	require.Equal(t, "<=", toks[1].Lexeme)
	require.Equal(t, "->", toks[3].Lexeme)
}

func TestComments(t *testing.T) {
	toks := collect("1 // trailing\n/* block */2")
	require.Equal(t, "1", toks[0].Lexeme)
	require.Equal(t, "2", toks[1].Lexeme)
}

func TestEscapeDecoding(t *testing.T) {
	toks := collect(`"\n\t\x41\101"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "\n\tAA", toks[0].Lexeme)
	require.NotNil(t, toks[0].LiteralType)
	require.Equal(t, len(toks[0].Lexeme)+1, toks[0].LiteralType.ArraySize)
}

func TestStringLiteralTypeIsArrayOfChar(t *testing.T) {
	toks := collect(`"hi"`)
	lt := toks[0].LiteralType
	require.NotNil(t, lt)
	require.Equal(t, 3, lt.ArraySize)
}

func TestLineTracking(t *testing.T) {
	toks := collect("a\nb\n\nc")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 4, toks[2].Line)
}

func TestDigitNumberValue(t *testing.T) {
	toks := collect("12345")
	require.Equal(t, int64(12345), toks[0].NumberValue)
}

func TestUnterminatedStringCallsErrorf(t *testing.T) {
	src := diag.New("test.c", "\"abc")
	var exitCode = -1
	src.Exit = func(code int) { exitCode = code }
	Lex(src)
	require.Equal(t, 1, exitCode)
}
