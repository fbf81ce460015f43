package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	require.Equal(t, "[rax]", At(RAX).String())
	require.Equal(t, "[rbp + 8]", AtOffset(RBP, 8).String())
	require.Equal(t, "[rbp - 16]", AtOffset(RBP, -16).String())
	require.Equal(t, "[rip + counter]", RipRelative("counter").String())
}

func TestAddressWithOffset(t *testing.T) {
	a := AtOffset(RAX, 4).WithOffset(-10)
	require.Equal(t, -6, a.Offset)
}

func TestLabel(t *testing.T) {
	l := NumberedLabel("begin", 1)
	require.Equal(t, ".L.begin.1", l.Ref())
	e := NumberedLabel("else", 1)
	require.Equal(t, ".L.else.1:", e.Def())

	ret := SuffixedLabel("return", "main")
	require.Equal(t, ".L.return.main", ret.Ref())
}

func TestInstr(t *testing.T) {
	require.Equal(t, "mov rax, 42", Instr(MOV, RAX, 42))
	require.Equal(t, "lea rax, [rbp - 8]", Instr(LEA, RAX, AtOffset(RBP, -8)))
	require.Equal(t, "ret", Instr(RET))
	require.Equal(t, "jmp .L.end.3", Instr(JMP, NumberedLabel("end", 3)))
	require.Equal(t, "call add", Instr(CALL, "add"))
}

func TestDirectives(t *testing.T) {
	require.Equal(t, ".globl main", Global("main"))
	require.Equal(t, ".zero 8", Zero(8))
	require.Equal(t, ".byte 65", Byte('A'))
	require.Equal(t, ".loc 1 7", Loc(1, 7))
}
