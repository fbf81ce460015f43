// Package types implements the compiler's algebraic type representation:
// size/alignment, the pointer-to/array-of/function-returning
// constructors, and struct/union member layout.
package types

// Kind discriminates the variants of Type.
type Kind int

// The type-kind variants spec.md §3 names.
const (
	UNKNOWN Kind = iota
	CHAR
	SHORT
	INT
	LONG
	POINTER
	FUNCTION
	ARRAY
	STRUCT
	UNION
)

// String renders a Kind for diagnostics and tests.
func (k Kind) String() string {
	switch k {
	case CHAR:
		return "char"
	case SHORT:
		return "short"
	case INT:
		return "int"
	case LONG:
		return "long"
	case POINTER:
		return "pointer"
	case FUNCTION:
		return "function"
	case ARRAY:
		return "array"
	case STRUCT:
		return "struct"
	case UNION:
		return "union"
	default:
		return "unknown"
	}
}

// NamePos is a lightweight, non-owning snapshot of the declarator
// identifier token a Type was named by: just enough to report a useful
// diagnostic without Type depending on the token package (Token, in
// turn, carries a LiteralType *Type for string literals, so a direct
// *token.Token field here would form an import cycle).
type NamePos struct {
	Lexeme     string
	ByteOffset int
	Line       int
}

// Member is a single field of a STRUCT or UNION type.
type Member struct {
	Name   NamePos
	Type   *Type
	Offset int
	Next   *Member
}

// Type is the tagged variant described in spec.md §3. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Type struct {
	Kind      Kind
	Size      int
	Alignment int

	// POINTER / ARRAY
	Base      *Type
	ArraySize int

	// STRUCT / UNION
	Members *Member

	// Declarator identifier, when this Type came from a named
	// declaration.
	Name NamePos

	// FUNCTION
	ReturnType *Type
	Parameters *Type
	// Next threads a FUNCTION's Parameters list. Struct/union member
	// lists are threaded by Member.Next instead.
	Next *Type
}

// CharType returns a fresh 1-byte, 1-aligned CHAR type.
func CharType() *Type { return &Type{Kind: CHAR, Size: 1, Alignment: 1} }

// ShortType returns a fresh 2-byte, 2-aligned SHORT type. spec.md §9
// leaves short's code-generation path unspecified; this repo sizes it
// per spec.md §3's canonical table and otherwise treats it exactly like
// INT at code-generation time (see codegen's width helper).
func ShortType() *Type { return &Type{Kind: SHORT, Size: 2, Alignment: 2} }

// IntType returns a fresh 4-byte, 4-aligned INT type.
func IntType() *Type { return &Type{Kind: INT, Size: 4, Alignment: 4} }

// LongType returns a fresh 8-byte, 8-aligned LONG type.
func LongType() *Type { return &Type{Kind: LONG, Size: 8, Alignment: 8} }

// PointerTo returns a fresh 8-byte, 8-aligned POINTER type based on base.
func PointerTo(base *Type) *Type {
	return &Type{Kind: POINTER, Size: 8, Alignment: 8, Base: base}
}

// ArrayOf returns a fresh ARRAY type of n elements of base. Per spec.md
// §3's invariant, size = base.Size*n and alignment = base.Alignment.
func ArrayOf(base *Type, n int) *Type {
	return &Type{Kind: ARRAY, Size: base.Size * n, Alignment: base.Alignment, Base: base, ArraySize: n}
}

// FunctionType returns a fresh FUNCTION type returning returnType.
func FunctionType(returnType *Type) *Type {
	return &Type{Kind: FUNCTION, ReturnType: returnType}
}

// IsInteger reports whether t is one of the integer kinds.
func IsInteger(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case CHAR, SHORT, INT, LONG:
		return true
	default:
		return false
	}
}

// IsTypeName reports whether lexeme introduces a declspec.
func IsTypeName(lexeme string) bool {
	switch lexeme {
	case "char", "short", "int", "long", "struct", "union":
		return true
	default:
		return false
	}
}

// AlignTo rounds n up to the next multiple of align.
func AlignTo(n, align int) int {
	return (n + align - 1) / align * align
}

// LayoutStruct walks members in declaration order, assigning each an
// aligned offset and growing the cursor past it, per spec.md §4.5
// "Struct layout". It returns the struct Type's final size and alignment.
func LayoutStruct(members *Member) (size, alignment int) {
	cursor := 0
	alignment = 1
	for m := members; m != nil; m = m.Next {
		offset := AlignTo(cursor, m.Type.Alignment)
		m.Offset = offset
		cursor = offset + m.Type.Size
		if m.Type.Alignment > alignment {
			alignment = m.Type.Alignment
		}
	}
	size = AlignTo(cursor, alignment)
	return size, alignment
}

// LayoutUnion overlays every member at offset 0, per spec.md §4.5 "Union
// layout". It returns the union Type's final size and alignment.
func LayoutUnion(members *Member) (size, alignment int) {
	alignment = 1
	maxSize := 0
	for m := members; m != nil; m = m.Next {
		m.Offset = 0
		if m.Type.Size > maxSize {
			maxSize = m.Type.Size
		}
		if m.Type.Alignment > alignment {
			alignment = m.Type.Alignment
		}
	}
	size = AlignTo(maxSize, alignment)
	return size, alignment
}

// FindMember looks up a member by name in m's list, returning nil if
// absent.
func FindMember(m *Member, name string) *Member {
	for ; m != nil; m = m.Next {
		if m.Name.Lexeme == name {
			return m
		}
	}
	return nil
}
