// Package scope holds the lexical variable and tag scope stack: a LIFO
// chain of frames, each carrying the variable and struct/union-tag
// names declared directly inside it.
//
// Adapted from a mutex-protected slice of strings that once held an RPN
// operand stack. spec.md §5
// declares the whole compiler single-threaded, so the mutex that guarded
// concurrent Push/Pop there would be carried here as dead weight; see
// DESIGN.md for why it's dropped rather than kept. What survives is the
// shape: a small New()-constructed stack with push/pop-style operations
// and a result-or-not-found lookup, generalized from one list of values
// to two name-keyed lists (variables, tags) searched innermost-out.
package scope

import (
	"github.com/skx/yoctocc/ast"
	"github.com/skx/yoctocc/types"
)

type variableEntry struct {
	name string
	obj  *ast.Object
	next *variableEntry
}

type tagEntry struct {
	name string
	typ  *types.Type
	next *tagEntry
}

type frame struct {
	variables *variableEntry
	tags      *tagEntry
	next      *frame
}

// Stack is the scope stack described in spec.md §3/§4.4.
type Stack struct {
	top *frame
}

// New returns an empty scope stack with no frames. Callers must Enter
// at least one frame before pushing variables or tags.
func New() *Stack {
	return &Stack{}
}

// Enter pushes a fresh, empty frame.
func (s *Stack) Enter() {
	s.top = &frame{next: s.top}
}

// Leave pops the innermost frame. Leaving an empty stack is a
// programmer error (every Enter must be matched), so it panics rather
// than silently doing nothing.
func (s *Stack) Leave() {
	if s.top == nil {
		panic("scope: Leave called with no frame entered")
	}
	s.top = s.top.next
}

// PushVariable declares name in the innermost frame, shadowing any
// outer declaration of the same name.
func (s *Stack) PushVariable(name string, obj *ast.Object) {
	s.top.variables = &variableEntry{name: name, obj: obj, next: s.top.variables}
}

// PushTag declares a struct/union tag in the innermost frame.
func (s *Stack) PushTag(name string, typ *types.Type) {
	s.top.tags = &tagEntry{name: name, typ: typ, next: s.top.tags}
}

// FindVariable searches frames innermost-to-outermost for name, and
// returns (nil, false) if no frame declares it.
func (s *Stack) FindVariable(name string) (*ast.Object, bool) {
	for f := s.top; f != nil; f = f.next {
		for v := f.variables; v != nil; v = v.next {
			if v.name == name {
				return v.obj, true
			}
		}
	}
	return nil, false
}

// FindTag searches frames innermost-to-outermost for a struct/union tag
// named name, and returns (nil, false) if no frame declares it.
func (s *Stack) FindTag(name string) (*types.Type, bool) {
	for f := s.top; f != nil; f = f.next {
		for t := f.tags; t != nil; t = t.next {
			if t.name == name {
				return t.typ, true
			}
		}
	}
	return nil, false
}
