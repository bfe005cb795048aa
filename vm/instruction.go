package vm

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Instruction is one decoded bytecode instruction. Which fields are
// meaningful depends on Op: only PUSH_I32 and ASSERT_ALLOC use Value, and
// only DIE and ASSERT_ALLOC use Text.
type Instruction struct {
	Op    Opcode
	Value int32  // PUSH_I32's constant, or ASSERT_ALLOC's expected count
	Text  string // DIE's or ASSERT_ALLOC's message, without the trailing NUL
}

// Encode writes ins to w in the wire format from §4.1: the opcode byte
// followed by its payload fields in declaration order, integers
// little-endian, strings NUL-terminated with no length prefix.
func Encode(w io.Writer, ins Instruction) error {
	if _, err := w.Write([]byte{byte(ins.Op)}); err != nil {
		return errors.Wrap(err, "write opcode")
	}
	switch ins.Op {
	case OpPushI32:
		if err := writeInt32(w, ins.Value); err != nil {
			return errors.Wrap(err, "write push operand")
		}
	case OpDie:
		if err := writeCString(w, ins.Text); err != nil {
			return errors.Wrap(err, "write die message")
		}
	case OpAssertAlloc:
		if err := writeInt32(w, ins.Value); err != nil {
			return errors.Wrap(err, "write assert_allocated count")
		}
		if err := writeCString(w, ins.Text); err != nil {
			return errors.Wrap(err, "write assert_allocated message")
		}
	case OpPrint, OpReadI32, OpPair, OpSwap, OpPop, OpHalt, OpGC:
		// no payload
	default:
		return errors.Errorf("encode: unknown opcode 0x%02x", byte(ins.Op))
	}
	return nil
}

// Decode reads one instruction from r. It returns (nil, nil) at a clean
// end of stream (no bytes read at all); a short read mid-instruction, or
// an unrecognized opcode byte, is always a fatal error.
func Decode(r io.Reader) (*Instruction, error) {
	var opByte [1]byte
	if _, err := io.ReadFull(r, opByte[:]); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read opcode")
	}
	op := Opcode(opByte[0])
	ins := &Instruction{Op: op}
	switch op {
	case OpPrint, OpReadI32, OpPair, OpSwap, OpPop, OpHalt, OpGC:
		// no payload
	case OpPushI32:
		n, err := readInt32(r)
		if err != nil {
			return nil, errors.Wrap(err, "push: expected constant")
		}
		ins.Value = n
	case OpDie:
		s, err := readCString(r)
		if err != nil {
			return nil, errors.Wrap(err, "die: expected message")
		}
		ins.Text = s
	case OpAssertAlloc:
		n, err := readInt32(r)
		if err != nil {
			return nil, errors.Wrap(err, "assert_allocated: expected constant")
		}
		s, err := readCString(r)
		if err != nil {
			return nil, errors.Wrap(err, "assert_allocated: expected message")
		}
		ins.Value, ins.Text = n, s
	default:
		return nil, errors.Errorf("not a known instruction code: 0x%02x", opByte[0])
	}
	return ins, nil
}

func writeInt32(w io.Writer, n int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	_, err := w.Write(b[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

func writeCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// readCString reads bytes one at a time until a NUL, growing its
// accumulator by doubling, mirroring the reference implementation's
// read_raw_str. A byte-oriented reader avoids requiring r to support
// ReadByte.
func readCString(r io.Reader) (string, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	buf := make([]byte, 0, 4)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", errors.New("unterminated string: unexpected end of stream")
			}
			return "", err
		}
		if b == 0 {
			return string(buf), nil
		}
		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), cap(buf)*2)
			copy(grown, buf)
			buf = grown
		}
		buf = append(buf, b)
	}
}
