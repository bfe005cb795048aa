package asm

import (
	"io"

	"github.com/cg-jl/gc-vm/vm"
)

// argSpec is the argument schedule for one mnemonic; "print" is handled
// separately by desugar, not through this table.
type argSpec struct {
	op   vm.Opcode
	args []ConstantKind
}

var opcodeTable = map[string]argSpec{
	"out":              {op: vm.OpPrint},
	"in":               {op: vm.OpReadI32},
	"push":             {op: vm.OpPushI32, args: []ConstantKind{ConstNumber}},
	"pair":             {op: vm.OpPair},
	"swap":             {op: vm.OpSwap},
	"pop":              {op: vm.OpPop},
	"halt":             {op: vm.OpHalt},
	"die":              {op: vm.OpDie, args: []ConstantKind{ConstString}},
	"gc":               {op: vm.OpGC},
	"assert_allocated": {op: vm.OpAssertAlloc, args: []ConstantKind{ConstNumber, ConstString}},
}

// expander walks a Scope tree in post order and emits bytecode through
// the codec, the one path both it and the VM's fetcher share.
type expander struct {
	w    io.Writer
	errs ErrList
}

// Expand emits root's bytecode to w.
func Expand(root *Scope, w io.Writer) error {
	e := &expander{w: w}
	e.emitScope(root)
	if len(e.errs) > 0 {
		return e.errs
	}
	return nil
}

func (e *expander) fail(line int, msg string) {
	if len(e.errs) >= maxErrors {
		return
	}
	e.errs = append(e.errs, &Error{Line: line, Msg: msg})
}

func (e *expander) emitScope(s *Scope) {
	switch s.Kind {
	case ScopeNormal:
		e.emitBody(s)
	case ScopeRepeat:
		for i := int32(0); i < s.Count; i++ {
			if s.LoopVar != "" {
				s.bind(s.LoopVar, Constant{Kind: ConstNumber, Num: i})
			}
			e.emitBody(s)
		}
	}
}

func (e *expander) emitBody(s *Scope) {
	for _, out := range s.Outputs {
		if out.Child != nil {
			e.emitScope(out.Child)
			continue
		}
		e.emitLine(s, *out.Line)
	}
}

func (e *expander) emitLine(scope *Scope, line TokenLine) {
	tok := line.First()
	name := tok.Text
	if name == "print" {
		e.emitPrint(scope, line)
		return
	}
	spec, ok := opcodeTable[name]
	if !ok {
		e.fail(tok.Line, "unknown mnemonic "+name)
		return
	}
	rest := line.Advance(1)
	if rest.Len() != len(spec.args) {
		e.fail(tok.Line, name+": expected "+itoa(len(spec.args))+" argument(s)")
		return
	}
	var ins vm.Instruction
	ins.Op = spec.op
	for i, want := range spec.args {
		c, ok := e.readConstant(scope, rest.Tokens[i], want)
		if !ok {
			return
		}
		switch want {
		case ConstNumber:
			ins.Value = c.Num
		case ConstString:
			ins.Text = c.Str
		}
	}
	if err := vm.Encode(e.w, ins); err != nil {
		e.fail(tok.Line, err.Error())
	}
}

// readConstant resolves tok to a Constant of the expected kind: a literal
// token resolves trivially, an identifier is chased through the scope
// chain.
func (e *expander) readConstant(scope *Scope, tok Token, want ConstantKind) (Constant, bool) {
	var c Constant
	switch tok.Kind {
	case Number:
		c = Constant{Kind: ConstNumber, Num: tok.Num}
	case String:
		c = Constant{Kind: ConstString, Str: tok.Str}
	case Identifier:
		resolved, err := scope.resolve(tok.Text, tok.Line)
		if err != nil {
			e.fail(tok.Line, err.Error())
			return Constant{}, false
		}
		c = resolved
	default:
		e.fail(tok.Line, "expected a constant, got "+tok.Kind.String())
		return Constant{}, false
	}
	if c.Kind != want {
		e.fail(tok.Line, "wrong constant kind: expected "+constKindName(want)+", got "+constKindName(c.Kind))
		return Constant{}, false
	}
	return c, true
}

func constKindName(k ConstantKind) string {
	switch k {
	case ConstNumber:
		return "number"
	case ConstString:
		return "string"
	default:
		return "identifier"
	}
}

// emitPrint desugars print "str" into a chain of pairs built by pushing
// each character and pairing it onto the pair built so far (so the
// nesting grows on the head side), terminated by a newline, then
// PRINT; POP; GC. Strings shorter than two
// characters are rejected: the reference desugaring unconditionally
// reads str[0] and str[1], which is undefined for shorter input, and
// this assembler refuses to reproduce that rather than special-case it
// silently.
func (e *expander) emitPrint(scope *Scope, line TokenLine) {
	tok := line.First()
	rest := line.Advance(1)
	if rest.Len() != 1 {
		e.fail(tok.Line, "print: expected exactly one string argument")
		return
	}
	c, ok := e.readConstant(scope, rest.Tokens[0], ConstString)
	if !ok {
		return
	}
	s := c.Str
	if len(s) < 2 {
		e.fail(tok.Line, "print: string literal must be at least 2 characters long")
		return
	}
	full := s + "\n"
	for i := range full {
		if err := vm.Encode(e.w, vm.Instruction{Op: vm.OpPushI32, Value: int32(full[i])}); err != nil {
			e.fail(tok.Line, err.Error())
			return
		}
		if i > 0 {
			if err := vm.Encode(e.w, vm.Instruction{Op: vm.OpPair}); err != nil {
				e.fail(tok.Line, err.Error())
				return
			}
		}
	}
	for _, op := range []vm.Opcode{vm.OpPrint, vm.OpPop, vm.OpGC} {
		if err := vm.Encode(e.w, vm.Instruction{Op: op}); err != nil {
			e.fail(tok.Line, err.Error())
			return
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
