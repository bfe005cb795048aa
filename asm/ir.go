package asm

import "fmt"

// ConstantKind discriminates the payload of a Constant.
type ConstantKind int

const (
	ConstNumber ConstantKind = iota
	ConstString
	ConstIdentifier
)

// Constant is a value a Binding can carry: a resolved number or string,
// or an identifier still waiting to be chased through the scope chain.
type Constant struct {
	Kind  ConstantKind
	Num   int32
	Str   string
	Ident string
}

// ScopeKind discriminates what a Scope does when the expander reaches it.
type ScopeKind int

const (
	ScopeNormal ScopeKind = iota
	ScopeRepeat
)

// Output is one entry in a Scope's body: exactly one of Line or Child is
// set, in source order.
type Output struct {
	Line  *TokenLine
	Child *Scope
}

// Scope is a node in the assembler's lexical tree. The root scope has no
// parent and kind Normal; %repeat introduces a child Repeat scope whose
// loop variable, if named, is rebound on every iteration during
// expansion.
type Scope struct {
	Kind     ScopeKind
	Count    int32
	LoopVar  string // empty if %repeat had no variable name
	Outputs  []Output
	Bindings map[string]Constant
	Parent   *Scope

	OpenLine int // source line where this scope was opened, for diagnostics
}

func newScope(kind ScopeKind, parent *Scope, openLine int) *Scope {
	return &Scope{
		Kind:     kind,
		Parent:   parent,
		Bindings: make(map[string]Constant),
		OpenLine: openLine,
	}
}

func (s *Scope) bind(name string, c Constant) {
	s.Bindings[name] = c
}

// resolve walks s and its ancestors looking for name, following
// identifier-valued bindings until a Number or String is reached.
// Cycles cannot occur because bind never installs a self-reference
// (repeat rebinds loop variables to fresh Numbers every iteration).
func (s *Scope) resolve(name string, line int) (Constant, error) {
	for cur := s; cur != nil; cur = cur.Parent {
		if c, ok := cur.Bindings[name]; ok {
			return resolveChain(cur, c, line)
		}
	}
	return Constant{}, &Error{Line: line, Msg: "undefined identifier " + name}
}

func resolveChain(scope *Scope, c Constant, line int) (Constant, error) {
	for c.Kind == ConstIdentifier {
		next, err := scope.resolve(c.Ident, line)
		if err != nil {
			return Constant{}, err
		}
		c = next
	}
	return c, nil
}

// Error is one assembler diagnostic with a source position.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%d: %s", e.Line, e.Msg)
}

// ErrList collects every diagnostic from one assembler run, in the order
// they were raised.
type ErrList []*Error

func (e ErrList) Error() string {
	if len(e) == 0 {
		return "no errors"
	}
	s := e[0].Error()
	for _, err := range e[1:] {
		s += "\n" + err.Error()
	}
	return s
}
