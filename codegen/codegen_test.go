package codegen

import (
	"strings"
	"testing"

	"github.com/skx/yoctocc/ast"
	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/token"
	"github.com/skx/yoctocc/types"
	"github.com/stretchr/testify/require"
)

func tok(line int) *token.Token {
	return &token.Token{Line: line}
}

func TestEmptyFunctionBodyHasZeroStackSize(t *testing.T) {
	body := &ast.Node{Kind: ast.BLOCK, Token: tok(1)}
	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: body}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)

	require.Equal(t, 0, fn.StackSize)
	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, ".globl main")
	require.Contains(t, joined, "main:")
	require.Contains(t, joined, ".L.return.main:")
	require.NotContains(t, joined, "sub rsp")
}

func TestStackSizeIsAlwaysAMultipleOf16(t *testing.T) {
	local := &ast.Object{IsLocal: true, Name: "a", Type: types.CharType()}
	fn := &ast.Object{
		IsFunction: true, Name: "f", Type: types.FunctionType(types.IntType()),
		Locals: local, Body: &ast.Node{Kind: ast.BLOCK, Token: tok(1)},
	}

	g := New(diag.New("t.c", ""))
	g.Run(fn)

	require.Equal(t, 0, fn.StackSize%16)
	require.Equal(t, -1, local.Offset)
}

func TestReturnLowersToJumpToReturnLabel(t *testing.T) {
	ret := &ast.Node{Kind: ast.RETURN, Token: tok(1), Left: &ast.Node{Kind: ast.NUMBER, Token: tok(1), Value: 42}}
	body := &ast.Node{Kind: ast.BLOCK, Token: tok(1), Body: ret}
	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: body}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, "mov rax, 42")
	require.Contains(t, joined, "jmp .L.return.main")
}

func TestIfElseLabelsAreUniquePerBranch(t *testing.T) {
	mkIf := func() *ast.Node {
		return &ast.Node{
			Kind:      ast.IF,
			Token:     tok(1),
			Condition: &ast.Node{Kind: ast.NUMBER, Token: tok(1), Value: 1},
			Then:      &ast.Node{Kind: ast.EXPR_STMT, Token: tok(1), Left: &ast.Node{Kind: ast.NUMBER, Token: tok(1), Value: 1}},
		}
	}
	body := &ast.Node{Kind: ast.BLOCK, Token: tok(1)}
	body.Body = mkIf()
	body.Body.Next = mkIf()

	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: body}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, ".L.else.0:")
	require.Contains(t, joined, ".L.end.0:")
	require.Contains(t, joined, ".L.else.1:")
	require.Contains(t, joined, ".L.end.1:")
}

func TestSixArgumentCallPacksAllArgRegisters(t *testing.T) {
	var args *ast.Node
	var tail *ast.Node
	for i := 0; i < 6; i++ {
		n := &ast.Node{Kind: ast.NUMBER, Token: tok(1), Value: int64(i)}
		if args == nil {
			args = n
		} else {
			tail.Next = n
		}
		tail = n
	}
	call := &ast.Node{Kind: ast.FUNCALL, Token: tok(1), FunctionName: "f", Arguments: args}
	stmt := &ast.Node{Kind: ast.EXPR_STMT, Token: tok(1), Left: call}
	body := &ast.Node{Kind: ast.BLOCK, Token: tok(1), Body: stmt}
	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: body}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, "pop rdi")
	require.Contains(t, joined, "pop rsi")
	require.Contains(t, joined, "pop rdx")
	require.Contains(t, joined, "pop rcx")
	require.Contains(t, joined, "pop r8")
	require.Contains(t, joined, "pop r9")
	require.Contains(t, joined, "call f")
}

func TestEmptyStringLiteralEmitsSingleZeroByte(t *testing.T) {
	str := &ast.Object{Name: ".L..0", Type: types.ArrayOf(types.CharType(), 1), HasInitialData: true}
	fn := &ast.Object{
		IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()),
		Body: &ast.Node{Kind: ast.BLOCK, Token: tok(1)},
	}
	str.Next = fn

	g := New(diag.New("t.c", ""))
	lines := g.Run(str)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, ".byte 0")
}

func TestNoDataSectionWhenNoGlobals(t *testing.T) {
	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: &ast.Node{Kind: ast.BLOCK, Token: tok(1)}}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)

	require.NotContains(t, lines, ".data")
}

func TestEntryPointCallsMainAndExits(t *testing.T) {
	fn := &ast.Object{IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()), Body: &ast.Node{Kind: ast.BLOCK, Token: tok(1)}}

	g := New(diag.New("t.c", ""))
	lines := g.Run(fn)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, ".globl _start")
	require.Contains(t, joined, "_start:")
	require.Contains(t, joined, "call main")
	require.Contains(t, joined, "mov rdi, rax")
	require.Contains(t, joined, "mov rax, 60")
	require.Contains(t, joined, "syscall")
}

func TestGlobalVariableAddressIsRipRelative(t *testing.T) {
	global := &ast.Object{Name: "counter", Type: types.IntType()}
	ref := &ast.Node{Kind: ast.VARIABLE, Token: tok(1), Type: types.IntType(), Variable: global}
	stmt := &ast.Node{Kind: ast.EXPR_STMT, Token: tok(1), Left: ref}
	fn := &ast.Object{
		IsFunction: true, Name: "main", Type: types.FunctionType(types.IntType()),
		Body: &ast.Node{Kind: ast.BLOCK, Token: tok(1), Body: stmt},
	}
	global.Next = fn

	g := New(diag.New("t.c", ""))
	lines := g.Run(global)
	joined := strings.Join(lines, "\n")

	require.Contains(t, joined, "lea rax, [rip + counter]")
}
