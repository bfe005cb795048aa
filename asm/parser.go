package asm

import "strings"

const maxErrors = 10

// parser turns lexed TokenLines into a Scope tree, tracking a stack of
// currently-open scopes the way the reference assembler's scope stack
// does, but as an explicit Go slice rather than indices into a fixed
// array.
type parser struct {
	stack []*Scope
	errs  ErrList
}

func newParser() *parser {
	root := newScope(ScopeNormal, nil, 0)
	return &parser{stack: []*Scope{root}}
}

func (p *parser) current() *Scope { return p.stack[len(p.stack)-1] }

func (p *parser) fail(line int, msg string) {
	p.errs = append(p.errs, &Error{Line: line, Msg: msg})
}

func (p *parser) abort() bool { return len(p.errs) >= maxErrors }

// Parse builds the scope tree from lines, returning the root scope. Any
// parse errors are returned together as an ErrList, capped at maxErrors
// entries.
func (p *parser) Parse(lines []TokenLine) (*Scope, error) {
	for _, line := range lines {
		if p.abort() {
			break
		}
		p.parseLine(line)
	}
	if len(p.stack) != 1 {
		for _, s := range p.stack[1:] {
			if p.abort() {
				break
			}
			p.fail(s.OpenLine, "scope opened here needs %end")
		}
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.stack[0], nil
}

func (p *parser) parseLine(line TokenLine) {
	tok := line.First()
	switch tok.Kind {
	case Mnemonic:
		cur := p.current()
		ln := line
		cur.Outputs = append(cur.Outputs, Output{Line: &ln})
	case Directive:
		p.parseDirective(line)
	default:
		p.fail(tok.Line, "expected a mnemonic or directive, got "+tok.Kind.String()+" "+tok.Text)
	}
}

func (p *parser) parseDirective(line TokenLine) {
	tok := line.First()
	switch strings.ToLower(tok.Text) {
	case "%repeat":
		p.parseRepeat(line)
	case "%end":
		p.parseEnd(line)
	}
}

func (p *parser) parseRepeat(line TokenLine) {
	rest := line.Advance(1)
	if rest.Len() < 1 {
		p.fail(line.Line, "%repeat requires a count")
		return
	}
	countTok := rest.Tokens[0]
	if countTok.Kind != Number {
		p.fail(countTok.Line, "%repeat count must be a number literal")
		return
	}
	if countTok.Num < 0 {
		p.fail(countTok.Line, "%repeat count must not be negative")
		return
	}
	scope := newScope(ScopeRepeat, p.current(), line.Line)
	scope.Count = countTok.Num

	switch n := rest.Len(); {
	case n == 1:
		// no loop variable
	case n == 2:
		varTok := rest.Tokens[1]
		if varTok.Kind != Identifier {
			p.fail(varTok.Line, "%repeat loop variable must be an identifier")
			return
		}
		scope.LoopVar = varTok.Text
	default:
		p.fail(rest.Tokens[2].Line, "unexpected extra tokens after %repeat")
		return
	}
	p.stack = append(p.stack, scope)
}

func (p *parser) parseEnd(line TokenLine) {
	rest := line.Advance(1)
	if rest.Len() != 0 {
		p.fail(rest.Tokens[0].Line, "unexpected tokens after %end")
		return
	}
	if len(p.stack) == 1 {
		p.fail(line.Line, "%end with no matching %repeat")
		return
	}
	closed := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	parent := p.current()
	parent.Outputs = append(parent.Outputs, Output{Child: closed})
}
