package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimitiveSizes(t *testing.T) {
	require.Equal(t, 1, CharType().Size)
	require.Equal(t, 1, CharType().Alignment)
	require.Equal(t, 2, ShortType().Size)
	require.Equal(t, 4, IntType().Size)
	require.Equal(t, 8, LongType().Size)
	require.Equal(t, 8, PointerTo(IntType()).Size)
}

func TestArrayOfInvariant(t *testing.T) {
	arr := ArrayOf(IntType(), 10)
	require.Equal(t, 40, arr.Size)
	require.Equal(t, 4, arr.Alignment)
	require.Equal(t, 10, arr.ArraySize)
}

func TestLayoutStruct(t *testing.T) {
	// struct { char a; int b; } -> offsets 0, 4; size 8, align 4.
	a := &Member{Name: NamePos{Lexeme: "a"}, Type: CharType()}
	b := &Member{Name: NamePos{Lexeme: "b"}, Type: IntType()}
	a.Next = b

	size, align := LayoutStruct(a)
	require.Equal(t, 0, a.Offset)
	require.Equal(t, 4, b.Offset)
	require.Equal(t, 8, size)
	require.Equal(t, 4, align)
}

func TestLayoutStructAdjacentOffsetInvariant(t *testing.T) {
	a := &Member{Name: NamePos{Lexeme: "a"}, Type: CharType()}
	b := &Member{Name: NamePos{Lexeme: "b"}, Type: LongType()}
	a.Next = b

	size, align := LayoutStruct(a)
	require.GreaterOrEqual(t, b.Offset, AlignTo(a.Offset+a.Type.Size, b.Type.Alignment))
	require.Equal(t, AlignTo(b.Offset+b.Type.Size, align), size)
}

func TestLayoutUnion(t *testing.T) {
	a := &Member{Name: NamePos{Lexeme: "a"}, Type: CharType()}
	b := &Member{Name: NamePos{Lexeme: "b"}, Type: IntType()}
	a.Next = b

	size, align := LayoutUnion(a)
	require.Equal(t, 0, a.Offset)
	require.Equal(t, 0, b.Offset)
	require.Equal(t, 4, size)
	require.Equal(t, 4, align)
}

func TestFindMember(t *testing.T) {
	a := &Member{Name: NamePos{Lexeme: "a"}, Type: CharType()}
	b := &Member{Name: NamePos{Lexeme: "b"}, Type: IntType()}
	a.Next = b

	require.Same(t, b, FindMember(a, "b"))
	require.Nil(t, FindMember(a, "c"))
}

func TestIsIntegerAndTypeName(t *testing.T) {
	require.True(t, IsInteger(CharType()))
	require.True(t, IsInteger(LongType()))
	require.False(t, IsInteger(PointerTo(IntType())))

	require.True(t, IsTypeName("struct"))
	require.True(t, IsTypeName("long"))
	require.False(t, IsTypeName("foo"))
}
