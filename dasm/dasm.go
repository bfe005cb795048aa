// Package dasm turns a bytecode stream back into a listing of mnemonics
// and rendered operands, purely by walking the same codec the VM and
// assembler use — it does no formatting or coloring itself; that is a
// presentation concern left to the caller (see cmd/dasm).
package dasm

import (
	"bufio"
	"fmt"
	"io"
	"unicode"

	"github.com/pkg/errors"

	"github.com/cg-jl/gc-vm/vm"
)

// Row is one decoded instruction, ready to be printed.
type Row struct {
	Offset   int64
	Op       vm.Opcode
	Mnemonic string
	Operand  string // rendered payload, empty for payload-less opcodes
}

// Disassemble decodes every instruction in r and returns one Row per
// instruction, in stream order.
//
// r is wrapped in a single buffered reader for the whole walk: Decode
// reads DIE/ASSERT_ALLOC strings byte-by-byte through io.ByteReader,
// and re-wrapping a raw reader on every such call would each time pull
// a fresh lookahead buffer from r and then discard it, silently
// skipping whatever bytes landed in it.
func Disassemble(r io.Reader) ([]Row, error) {
	var rows []Row
	var offset int64
	br := bufio.NewReader(r)
	for {
		ins, err := vm.Decode(br)
		if err != nil {
			return rows, errors.Wrapf(err, "decode instruction at offset %d", offset)
		}
		if ins == nil {
			return rows, nil
		}
		rows = append(rows, Row{
			Offset:   offset,
			Op:       ins.Op,
			Mnemonic: ins.Op.Mnemonic(),
			Operand:  renderOperand(*ins),
		})
		offset += instructionSize(*ins)
	}
}

func renderOperand(ins vm.Instruction) string {
	switch ins.Op {
	case vm.OpPushI32:
		return renderPossibleChar(ins.Value)
	case vm.OpDie:
		return fmt.Sprintf("%q", ins.Text)
	case vm.OpAssertAlloc:
		return fmt.Sprintf("%d %q", ins.Value, ins.Text)
	default:
		return ""
	}
}

// renderPossibleChar prefers a character literal for a printable ASCII
// byte, escapes '\n' explicitly, and otherwise falls back to decimal —
// matching the reference disassembler's payload rendering rule.
func renderPossibleChar(value int32) string {
	if value == '\n' {
		return `'\n'`
	}
	if value >= 0 && value <= unicode.MaxASCII && unicode.IsPrint(rune(value)) {
		return fmt.Sprintf("'%c'", rune(value))
	}
	return fmt.Sprintf("%d", value)
}

// instructionSize reports how many bytes ins occupies on the wire, for
// reporting byte offsets in Row.Offset.
func instructionSize(ins vm.Instruction) int64 {
	switch ins.Op {
	case vm.OpPushI32:
		return 1 + 4
	case vm.OpDie:
		return 1 + int64(len(ins.Text)) + 1
	case vm.OpAssertAlloc:
		return 1 + 4 + int64(len(ins.Text)) + 1
	default:
		return 1
	}
}
