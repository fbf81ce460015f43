package ast

import (
	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/types"
)

// Annotate is the C9 type annotator: a single post-parse traversal that
// fills every node's Type field. It lives in the ast package rather
// than types (where the type model itself lives) because Type
// already needs no knowledge of Node, while the annotator inherently
// needs both — putting it in types would form an import cycle through
// ast's Node.Type field. Re-running Annotate on an already-typed node is
// a no-op, satisfying the idempotence invariant spec.md §8 requires.
//
// src is used only to report a location for the handful of type errors
// this pass can detect (not an lvalue, invalid dereference, a void
// statement expression); it is never mutated.
func Annotate(src *diag.Source, node *Node) {
	if node == nil || node.Type != nil {
		return
	}

	Annotate(src, node.Left)
	Annotate(src, node.Right)
	Annotate(src, node.Condition)
	Annotate(src, node.Then)
	Annotate(src, node.Els)
	Annotate(src, node.Init)
	Annotate(src, node.Inc)

	for body := node.Body; body != nil; body = body.Next {
		Annotate(src, body)
	}
	for arg := node.Arguments; arg != nil; arg = arg.Next {
		Annotate(src, arg)
	}

	switch node.Kind {
	case ADD, SUB, MUL, DIV, NEGATE:
		node.Type = node.Left.Type

	case ASSIGN:
		if node.Left.Type.Kind == types.ARRAY {
			src.Errorf(node.Token.ByteOffset, "not an lvalue")
			return
		}
		node.Type = node.Left.Type

	case EQ, NE, LT, LE, GT, GE, NUMBER, FUNCALL:
		node.Type = types.IntType()

	case VARIABLE:
		node.Type = node.Variable.Type

	case COMMA:
		node.Type = node.Right.Type

	case MEMBER:
		node.Type = node.Member.Type

	case ADDRESS:
		if node.Left.Type.Kind == types.ARRAY {
			node.Type = types.PointerTo(node.Left.Type.Base)
		} else {
			node.Type = types.PointerTo(node.Left.Type)
		}

	case DEREF:
		if node.Left.Type == nil || node.Left.Type.Base == nil {
			src.Errorf(node.Token.ByteOffset, "invalid pointer dereference")
			return
		}
		node.Type = node.Left.Type.Base

	case STMT_EXPR:
		stmt := node.Body
		for stmt != nil && stmt.Next != nil {
			stmt = stmt.Next
		}
		if stmt != nil && stmt.Kind == EXPR_STMT {
			node.Type = stmt.Left.Type
			return
		}
		src.Errorf(node.Token.ByteOffset, "statement expression returning void is not supported")

	case BLOCK, IF, FOR, EXPR_STMT, RETURN, UNKNOWN:
		// statements carry no type.
	}
}
