package asm

import (
	"fmt"
	"strings"
)

// Instr formats one instruction line as "<op> <operand>, <operand>, ...",
// the single instruction formatter spec.md §4.8 calls for. Operands may
// be Registers, Addresses, Labels (rendered via Ref), integers, or
// strings (rendered verbatim, e.g. a bare call target).
func Instr(op OpCode, operands ...any) string {
	if len(operands) == 0 {
		return op.String()
	}
	parts := make([]string, len(operands))
	for i, o := range operands {
		parts[i] = operand(o)
	}
	return fmt.Sprintf("%s %s", op, strings.Join(parts, ", "))
}

func operand(o any) string {
	switch v := o.(type) {
	case Register:
		return v.String()
	case Address:
		return v.String()
	case Label:
		return v.Ref()
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
