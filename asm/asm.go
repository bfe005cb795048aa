package asm

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Assemble reads source text from r and returns the assembled bytecode.
// name is used only to give diagnostics a source label (a file name, or
// "<stdin>"); it never affects the emitted bytes.
//
// On any lexical, syntactic or semantic error, Assemble returns a nil
// slice and an error that can be type-asserted to ErrList for the full,
// line-numbered diagnostic set (capped at 10 entries).
func Assemble(name string, r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read source", name)
	}
	lines, err := Lex(string(src))
	if err != nil {
		return nil, err
	}
	root, err := newParser().Parse(lines)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Expand(root, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
