// Package ast defines the typed abstract syntax tree the parser builds
// and the code generator walks: a single tagged Node variant plus the
// Object chain that represents functions and variables.
package ast

import (
	"github.com/skx/yoctocc/token"
	"github.com/skx/yoctocc/types"
)

// Kind discriminates the variants of Node.
type Kind int

// The node kinds spec.md §3 names.
const (
	UNKNOWN Kind = iota
	NUMBER
	ADD
	SUB
	MUL
	DIV
	NEGATE
	EQ
	NE
	LT
	LE
	GT
	GE
	ASSIGN
	COMMA
	MEMBER
	ADDRESS
	DEREF
	RETURN
	IF
	FOR
	BLOCK
	FUNCALL
	VARIABLE
	EXPR_STMT
	STMT_EXPR
)

// String renders a Kind for diagnostics and tests.
func (k Kind) String() string {
	names := map[Kind]string{
		NUMBER: "NUMBER", ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV",
		NEGATE: "NEGATE", EQ: "EQ", NE: "NE", LT: "LT", LE: "LE", GT: "GT", GE: "GE",
		ASSIGN: "ASSIGN", COMMA: "COMMA", MEMBER: "MEMBER", ADDRESS: "ADDRESS",
		DEREF: "DEREF", RETURN: "RETURN", IF: "IF", FOR: "FOR", BLOCK: "BLOCK",
		FUNCALL: "FUNCALL", VARIABLE: "VARIABLE", EXPR_STMT: "EXPR_STMT",
		STMT_EXPR: "STMT_EXPR",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Node is the single tagged AST variant: every expression and statement
// kind lives in this one struct, using only the fields relevant to its
// Kind, mirroring a flat Instruction{Type, Value} shape generalized to
// the full grammar.
type Node struct {
	Kind  Kind
	Value int64 // NUMBER

	// Type is nil until ast.Annotate fills it in; filling is
	// idempotent (re-running leaves an already-typed node alone).
	Type *types.Type

	// Token anchors this node to source for diagnostics.
	Token *token.Token

	Left, Right, Next *Node

	// IF / FOR
	Condition, Then, Els, Init, Inc *Node

	// BLOCK / STMT_EXPR: Next-threaded statement list.
	Body *Node

	// VARIABLE: borrowed, non-owning reference into the Object chain.
	Variable *Object

	// MEMBER: borrowed reference into the owning struct/union's member
	// list.
	Member *types.Member

	// FUNCALL
	FunctionName string
	Arguments    *Node // Next-threaded
}

// Object represents a global variable, a local variable, or a function.
type Object struct {
	IsLocal    bool
	IsFunction bool

	Name string
	Type *types.Type

	// Offset is the local's stack slot (negative, relative to RBP).
	// Meaningless for globals and functions.
	Offset int

	// HasInitialData distinguishes an explicitly-initialized global (a
	// string literal, however short) from a plain uninitialized one: the
	// former emits its InitialData bytes (padded with the implicit NUL
	// terminator up to Type.Size), the latter emits ".zero size". A
	// length-0 string literal still has HasInitialData set, so it still
	// emits its single padding byte instead of a .zero directive.
	HasInitialData bool
	InitialData    []byte

	// Function-only fields.
	Parameters *Object // Next-threaded, declaration order
	Body       *Node
	Locals     *Object // Next-threaded
	StackSize  int

	// Next threads every top-level Object together, in reverse
	// definition order (most-recently-defined first), matching the
	// parser's prepend-on-define discipline.
	Next *Object
}
