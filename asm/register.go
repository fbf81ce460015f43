// Package asm is the pure text-formatting layer (C11): register/opcode/
// directive/address enums with Intel-syntax String() methods, plus a
// small line-builder the code generator composes instructions with. No
// state, no control flow — generalized from teacher's
// instructions.InstructionType byte-enum to the richer operand set
// spec.md §4.7/§4.8 needs.
package asm

// Register is one of the x86-64 general-purpose registers, at whichever
// width the System-V ABI calls for.
type Register int

// The registers spec.md §4.7 names, plus the handful of pseudo-ops
// (CQO's implicit RAX:RDX pair) used directly by name elsewhere.
const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	RIP
	R8
	R9
	R10
	R11

	EAX
	ECX
	EDX
	ESI
	EDI
	R8D
	R9D

	AL
	CL
	DL
	SIL
	DIL
	R8B
	R9B
)

var registerNames = map[Register]string{
	RAX: "rax", RBX: "rbx", RCX: "rcx", RDX: "rdx", RSI: "rsi", RDI: "rdi",
	RBP: "rbp", RSP: "rsp", RIP: "rip", R8: "r8", R9: "r9", R10: "r10", R11: "r11",
	EAX: "eax", ECX: "ecx", EDX: "edx", ESI: "esi", EDI: "edi", R8D: "r8d", R9D: "r9d",
	AL: "al", CL: "cl", DL: "dl", SIL: "sil", DIL: "dil", R8B: "r8b", R9B: "r9b",
}

// String renders the register's Intel-syntax name.
func (r Register) String() string {
	if s, ok := registerNames[r]; ok {
		return s
	}
	return "???"
}

// ArgRegisters64 is the System-V integer argument-register order at
// 64-bit width, per spec.md §4.7.
var ArgRegisters64 = [6]Register{RDI, RSI, RDX, RCX, R8, R9}

// ArgRegisters32 is the same order at 32-bit width.
var ArgRegisters32 = [6]Register{EDI, ESI, EDX, ECX, R8D, R9D}

// ArgRegisters8 is the same order at 8-bit width.
var ArgRegisters8 = [6]Register{DIL, SIL, DL, CL, R8B, R9B}
