package vm

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Run decodes and executes instructions from program until it hits HALT,
// runs out of instructions, or faults. A fault (stack over/underflow, a
// malformed instruction stream, DIE, or a failed ASSERT_ALLOC) is returned
// as an error with no special unwinding — the VM is left exactly where
// execution stopped, which callers may inspect via Depth/NumObjects before
// discarding it.
//
// program is wrapped in a single buffered reader for the whole run:
// Decode reads DIE/ASSERT_ALLOC strings byte-by-byte through
// io.ByteReader, and re-wrapping a raw reader on every such call would
// each time pull a fresh lookahead buffer from program and then discard
// it, silently skipping whatever bytes landed in it.
func (v *VM) Run(program io.Reader) error {
	v.insCount = 0
	br := bufio.NewReader(program)
	for !v.halted {
		ins, err := Decode(br)
		if err != nil {
			return errors.Wrap(err, "fetch instruction")
		}
		if ins == nil {
			return nil
		}
		if err := v.exec(*ins); err != nil {
			return errors.Wrapf(err, "executing %s at instruction %d", ins.Op, v.insCount)
		}
		v.insCount++
	}
	return nil
}

func (v *VM) exec(ins Instruction) error {
	switch ins.Op {
	case OpPushI32:
		return v.PushInt(ins.Value)
	case OpPop:
		return v.Pop()
	case OpPair:
		return v.Pair()
	case OpSwap:
		return v.Swap()
	case OpPrint:
		return v.print()
	case OpReadI32:
		return v.readI32()
	case OpGC:
		v.GC()
		return nil
	case OpAssertAlloc:
		if v.numObjects != int(ins.Value) {
			return errors.Errorf("assertion error: %s (expected %d allocated objects, got %d)", ins.Text, ins.Value, v.numObjects)
		}
		return nil
	case OpHalt:
		v.halted = true
		return nil
	case OpDie:
		return errors.Errorf("program error: %s", ins.Text)
	default:
		// unreachable: Decode already refuses unknown opcode bytes.
		return errors.Errorf("internal error: unhandled opcode %s", ins.Op)
	}
}

// print peeks the top of the stack and writes it to the VM's output,
// leaving it in place for whoever reads the stack next.
func (v *VM) print() error {
	obj, err := v.peek()
	if err != nil {
		return errors.Wrap(err, "out")
	}
	return v.writeObject(obj)
}

// writeObject recursively emits obj to the VM's output: an integer emits
// its low 8 bits as a character — truncation is intentional "write
// character" semantics, not a bug — and a pair emits head then tail.
func (v *VM) writeObject(obj *Object) error {
	if obj.kind == KindInteger {
		_, err := v.output.Write([]byte{byte(obj.value)})
		return err
	}
	if err := v.writeObject(obj.head); err != nil {
		return err
	}
	return v.writeObject(obj.tail)
}

// eofSentinel is pushed by READ_I32 when the input stream is exhausted,
// matching the C reference's use of getchar()'s EOF return value.
const eofSentinel int32 = -1

func (v *VM) readI32() error {
	var b [1]byte
	n, err := v.input.Read(b[:])
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "in")
	}
	if n == 0 {
		return v.PushInt(eofSentinel)
	}
	return v.PushInt(int32(b[0]))
}
