// Package codegen is the single-pass walker over the typed program chain
// that emits x86-64 assembly (C10), grounded line-for-line on
// original_source/src/Generator.cpp: Run/load/store/
// assignLocalVariableOffsets/generateAddress/generateStatement/
// generateExpression/generateFunction/emitData/emitText, using the asm
// package's typed pretty-printers instead of the original's free
// instruction-builder functions.
package codegen

import (
	"github.com/skx/yoctocc/ast"
	"github.com/skx/yoctocc/asm"
	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/types"
)

const stackAlignment = 16

// Generator holds the mutable state threaded through one code-generation
// pass: the accumulated output lines, the monotonic label counter spec.md
// §5 calls out as explicit per-instance state, and the function currently
// being emitted (needed to name its per-function return label).
type Generator struct {
	src *diag.Source

	lines []string

	labelCount uint64
	current    *ast.Object
}

// New creates a Generator with an empty label counter and output.
func New(src *diag.Source) *Generator {
	return &Generator{src: src}
}

// Run lowers the whole program chain to assembly lines: local variable
// offsets are assigned first, then the .data section, then the .text
// section.
func (g *Generator) Run(program *ast.Object) []string {
	g.assignLocalVariableOffsets(program)
	g.emitPreamble()
	g.emitData(program)
	g.emitText(program)
	g.emit(asm.NoteGNUStack())
	return g.lines
}

func (g *Generator) emit(line string) {
	g.lines = append(g.lines, line)
}

func (g *Generator) emitPreamble() {
	g.emit(".intel_syntax noprefix")
	g.emit(asm.File(1, g.src.Path))
}

// assignLocalVariableOffsets walks every function's locals, assigning each
// a stack slot, and rounds the function's total frame size up to 16 bytes.
// Grounded on Generator::assignLocalVariableOffsets.
func (g *Generator) assignLocalVariableOffsets(program *ast.Object) {
	for fn := program; fn != nil; fn = fn.Next {
		if !fn.IsFunction {
			continue
		}
		offset := 0
		for local := fn.Locals; local != nil; local = local.Next {
			offset += local.Type.Size
			local.Offset = -offset
		}
		fn.StackSize = types.AlignTo(offset, stackAlignment)
	}
}

// width reports the move/register width to use for a value of type t:
// byte-sized loads/stores get the narrow path, everything else is a full
// 64-bit register move. short is treated identically to int here, per the
// resolved open question on short's code-generation path.
func width(t *types.Type) int {
	return t.Size
}

// load emits code that dereferences the address currently in RAX into a
// value of type t, sign-extending single-byte loads. Arrays decay to their
// own address and need no load at all.
func (g *Generator) load(t *types.Type) {
	if t.Kind == types.ARRAY || t.Kind == types.STRUCT || t.Kind == types.UNION {
		return
	}
	if width(t) == 1 {
		g.emit(asm.Instr(asm.MOVSBQ, asm.RAX, asm.At(asm.RAX)))
	} else {
		g.emit(asm.Instr(asm.MOV, asm.RAX, asm.At(asm.RAX)))
	}
}

// store emits code that pops the destination address pushed before RHS
// evaluation and writes RAX (or AL) there.
func (g *Generator) store(t *types.Type) {
	g.emit(asm.Instr(asm.POP, asm.RDI))
	if width(t) == 1 {
		g.emit(asm.Instr(asm.MOV, asm.At(asm.RDI), asm.AL))
	} else {
		g.emit(asm.Instr(asm.MOV, asm.At(asm.RDI), asm.RAX))
	}
}

// generateAddress computes an lvalue's address into RAX. Grounded on
// Generator::generateAddress.
func (g *Generator) generateAddress(node *ast.Node) {
	switch node.Kind {
	case ast.VARIABLE:
		if node.Variable.IsLocal {
			g.emit(asm.Instr(asm.LEA, asm.RAX, asm.AtOffset(asm.RBP, node.Variable.Offset)))
		} else {
			g.emit(asm.Instr(asm.LEA, asm.RAX, asm.RipRelative(node.Variable.Name)))
		}
		return
	case ast.DEREF:
		g.generateExpression(node.Left)
		return
	case ast.MEMBER:
		g.generateAddress(node.Left)
		g.emit(asm.Instr(asm.ADD, asm.RAX, node.Member.Offset))
		return
	case ast.COMMA:
		g.generateExpression(node.Left)
		g.generateAddress(node.Right)
		return
	}

	g.src.Errorf(node.Token.ByteOffset, "not an lvalue")
}

// generateStatement lowers one statement node. Grounded on
// Generator::generateStatement.
func (g *Generator) generateStatement(node *ast.Node) {
	g.emit(asm.Loc(1, node.Token.Line))

	switch node.Kind {
	case ast.IF:
		count := g.labelCount
		g.labelCount++
		elseLabel := asm.NumberedLabel("else", count)
		endLabel := asm.NumberedLabel("end", count)

		g.generateExpression(node.Condition)
		g.emit(asm.Instr(asm.CMP, asm.RAX, 0))
		g.emit(asm.Instr(asm.JE, elseLabel))
		g.generateStatement(node.Then)
		g.emit(asm.Instr(asm.JMP, endLabel))
		g.emit(elseLabel.Def())
		if node.Els != nil {
			g.generateStatement(node.Els)
		}
		g.emit(endLabel.Def())
		return

	case ast.FOR:
		count := g.labelCount
		g.labelCount++
		beginLabel := asm.NumberedLabel("begin", count)
		endLabel := asm.NumberedLabel("end", count)

		if node.Init != nil {
			g.generateStatement(node.Init)
		}
		g.emit(beginLabel.Def())
		if node.Condition != nil {
			g.generateExpression(node.Condition)
			g.emit(asm.Instr(asm.CMP, asm.RAX, 0))
			g.emit(asm.Instr(asm.JE, endLabel))
		}
		g.generateStatement(node.Then)
		if node.Inc != nil {
			g.generateExpression(node.Inc)
		}
		g.emit(asm.Instr(asm.JMP, beginLabel))
		g.emit(endLabel.Def())
		return

	case ast.BLOCK:
		for stmt := node.Body; stmt != nil; stmt = stmt.Next {
			g.generateStatement(stmt)
		}
		return

	case ast.RETURN:
		g.generateExpression(node.Left)
		g.emit(asm.Instr(asm.JMP, asm.SuffixedLabel("return", g.current.Name)))
		return

	case ast.EXPR_STMT:
		g.generateExpression(node.Left)
		return
	}

	g.src.Errorf(node.Token.ByteOffset, "invalid statement")
}

// generateExpression lowers one expression node; the result always ends
// up in RAX. Grounded on Generator::generateExpression.
func (g *Generator) generateExpression(node *ast.Node) {
	g.emit(asm.Loc(1, node.Token.Line))

	switch node.Kind {
	case ast.NUMBER:
		g.emit(asm.Instr(asm.MOV, asm.RAX, node.Value))
		return
	case ast.NEGATE:
		g.generateExpression(node.Left)
		g.emit(asm.Instr(asm.NEG, asm.RAX))
		return
	case ast.VARIABLE, ast.MEMBER:
		g.generateAddress(node)
		g.load(node.Type)
		return
	case ast.ADDRESS:
		g.generateAddress(node.Left)
		return
	case ast.DEREF:
		g.generateExpression(node.Left)
		g.load(node.Type)
		return
	case ast.ASSIGN:
		g.generateAddress(node.Left)
		g.emit(asm.Instr(asm.PUSH, asm.RAX))
		g.generateExpression(node.Right)
		g.store(node.Type)
		return
	case ast.STMT_EXPR:
		for stmt := node.Body; stmt != nil; stmt = stmt.Next {
			g.generateStatement(stmt)
		}
		return
	case ast.COMMA:
		g.generateExpression(node.Left)
		g.generateExpression(node.Right)
		return
	case ast.FUNCALL:
		argCount := 0
		for arg := node.Arguments; arg != nil; arg = arg.Next {
			g.generateExpression(arg)
			g.emit(asm.Instr(asm.PUSH, asm.RAX))
			argCount++
		}
		for i := argCount - 1; i >= 0; i-- {
			g.emit(asm.Instr(asm.POP, asm.ArgRegisters64[i]))
		}
		g.emit(asm.Instr(asm.MOV, asm.RAX, 0))
		g.emit(asm.Instr(asm.CALL, node.FunctionName))
		return
	}

	g.generateExpression(node.Right)
	g.emit(asm.Instr(asm.PUSH, asm.RAX))
	g.generateExpression(node.Left)
	g.emit(asm.Instr(asm.POP, asm.RDI))

	switch node.Kind {
	case ast.ADD:
		g.emit(asm.Instr(asm.ADD, asm.RAX, asm.RDI))
	case ast.SUB:
		g.emit(asm.Instr(asm.SUB, asm.RAX, asm.RDI))
	case ast.MUL:
		g.emit(asm.Instr(asm.IMUL, asm.RAX, asm.RDI))
	case ast.DIV:
		g.emit(asm.Instr(asm.CQO))
		g.emit(asm.Instr(asm.IDIV, asm.RDI))
	case ast.EQ:
		g.emitCompare(asm.SETE)
	case ast.NE:
		g.emitCompare(asm.SETNE)
	case ast.LT:
		g.emitCompare(asm.SETL)
	case ast.LE:
		g.emitCompare(asm.SETLE)
	case ast.GT:
		g.emitCompare(asm.SETG)
	case ast.GE:
		g.emitCompare(asm.SETGE)
	default:
		g.src.Errorf(node.Token.ByteOffset, "invalid expression")
	}
}

func (g *Generator) emitCompare(set asm.OpCode) {
	g.emit(asm.Instr(asm.CMP, asm.RAX, asm.RDI))
	g.emit(asm.Instr(set, asm.AL))
	g.emit(asm.Instr(asm.MOVZX, asm.RAX, asm.AL))
}

// generateFunction emits one function's prologue, parameter spills, body,
// and epilogue. Grounded on Generator::generateFunction.
func (g *Generator) generateFunction(obj *ast.Object) {
	g.current = obj

	g.emit(asm.Global(obj.Name))
	g.emit(asm.NamedLabel(obj.Name).Def())
	g.emit(asm.Instr(asm.PUSH, asm.RBP))
	g.emit(asm.Instr(asm.MOV, asm.RBP, asm.RSP))
	if obj.StackSize > 0 {
		g.emit(asm.Instr(asm.SUB, asm.RSP, obj.StackSize))
	}

	i := 0
	for param := obj.Parameters; param != nil; param = param.Next {
		dst := asm.AtOffset(asm.RBP, param.Offset)
		switch {
		case param.Type.Size == 1:
			g.emit(asm.Instr(asm.MOV, dst, asm.ArgRegisters8[i]))
		case param.Type.Size <= 4:
			g.emit(asm.Instr(asm.MOV, dst, asm.ArgRegisters32[i]))
		default:
			g.emit(asm.Instr(asm.MOV, dst, asm.ArgRegisters64[i]))
		}
		i++
	}

	g.generateStatement(obj.Body)

	g.emit(asm.SuffixedLabel("return", obj.Name).Def())
	g.emit(asm.Instr(asm.MOV, asm.RSP, asm.RBP))
	g.emit(asm.Instr(asm.POP, asm.RBP))
	g.emit(asm.Instr(asm.RET))
}

// emitData emits the .data section: one label per global variable or
// synthesized string literal, its bytes or a .zero reservation. Grounded
// on Generator::emitData.
func (g *Generator) emitData(program *ast.Object) {
	hasGlobals := false
	for v := program; v != nil; v = v.Next {
		if !v.IsFunction {
			hasGlobals = true
			break
		}
	}
	if !hasGlobals {
		return
	}

	g.emit(asm.Data.String())
	for v := program; v != nil; v = v.Next {
		if v.IsFunction {
			continue
		}
		g.emit(asm.Global(v.Name))
		g.emit(asm.NamedLabel(v.Name).Def())
		if !v.HasInitialData {
			g.emit(asm.Zero(v.Type.Size))
			continue
		}
		for _, b := range v.InitialData {
			g.emit(asm.Byte(b))
		}
		for i := len(v.InitialData); i < v.Type.Size; i++ {
			g.emit(asm.Byte(0))
		}
	}
}

// entryPoint is the process' true entry symbol, per spec.md §6's runtime
// contract: it calls main, moves its return value into rdi as the exit
// status, and issues the Linux exit syscall directly (no libc). Grounded
// on original_source/include/Assembly/Assembly.hpp's SYSTEM_ENTRY_POINT
// constant, which names "_start" but whose emission wasn't present in
// the captured Generator.cpp snapshot.
const entryPoint = "_start"

// exitSyscallNumber is Linux x86-64's exit(2) syscall number.
const exitSyscallNumber = 60

// emitText emits the .text section: the _start entry point, then every
// function in chain order. Grounded on Generator::emitText, extended
// with _start per spec.md §6.
func (g *Generator) emitText(program *ast.Object) {
	g.emit(asm.Text.String())
	g.emitEntryPoint()
	for fn := program; fn != nil; fn = fn.Next {
		if !fn.IsFunction {
			continue
		}
		g.generateFunction(fn)
	}
}

func (g *Generator) emitEntryPoint() {
	g.emit(asm.Global(entryPoint))
	g.emit(asm.NamedLabel(entryPoint).Def())
	g.emit(asm.Instr(asm.CALL, "main"))
	g.emit(asm.Instr(asm.MOV, asm.RDI, asm.RAX))
	g.emit(asm.Instr(asm.MOV, asm.RAX, exitSyscallNumber))
	g.emit(asm.Instr(asm.SYSCALL))
}
