package asm

import "fmt"

// Label is a named assembly location; Ref is its use as a jump/call
// target, Def is its definition line. Grounded on
// original_source/include/Assembly/Label.hpp.
type Label struct {
	name string
}

// NamedLabel wraps an already-formatted symbol name (a function name,
// say) as a Label.
func NamedLabel(name string) Label {
	return Label{name: name}
}

// NumberedLabel builds a ".L.<prefix>.<id>" label, the shape
// spec.md §4.7's begin/else/end labels all share.
func NumberedLabel(prefix string, id uint64) Label {
	return Label{name: fmt.Sprintf(".L.%s.%d", prefix, id)}
}

// SuffixedLabel builds a ".L.<prefix>.<suffix>" label, used for the
// per-function return label (".L.return.<funcname>").
func SuffixedLabel(prefix, suffix string) Label {
	return Label{name: fmt.Sprintf(".L.%s.%s", prefix, suffix)}
}

// Ref returns the label's name as a jump/call operand.
func (l Label) Ref() string {
	return l.name
}

// Def returns the label's definition line ("name:").
func (l Label) Def() string {
	return l.name + ":"
}
