package asm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cg-jl/gc-vm/asm"
	"github.com/cg-jl/gc-vm/vm"
)

func assembleOK(t *testing.T, src string) []byte {
	t.Helper()
	out, err := asm.Assemble("test.s", strings.NewReader(src))
	require.NoError(t, err)
	return out
}

func TestRepeatMacro(t *testing.T) {
	src := "%repeat 3 i\n push i\n%end\n"
	got := assembleOK(t, src)

	var want bytes.Buffer
	for i := int32(0); i < 3; i++ {
		require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpPushI32, Value: i}))
	}
	require.Equal(t, want.Bytes(), got)
	require.Len(t, got, 15) // 3 * (1 opcode byte + 4 value bytes)
}

func TestPrintDesugaring(t *testing.T) {
	got := assembleOK(t, `print "Hi"`)

	var want bytes.Buffer
	enc := func(ins vm.Instruction) {
		require.NoError(t, vm.Encode(&want, ins))
	}
	enc(vm.Instruction{Op: vm.OpPushI32, Value: 'H'})
	enc(vm.Instruction{Op: vm.OpPushI32, Value: 'i'})
	enc(vm.Instruction{Op: vm.OpPair})
	enc(vm.Instruction{Op: vm.OpPushI32, Value: '\n'})
	enc(vm.Instruction{Op: vm.OpPair})
	enc(vm.Instruction{Op: vm.OpPrint})
	enc(vm.Instruction{Op: vm.OpPop})
	enc(vm.Instruction{Op: vm.OpGC})
	require.Equal(t, want.Bytes(), got)
}

func TestPrintRejectsShortStrings(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader(`print "H"`))
	require.Error(t, err)
}

func TestAssembleRunsThroughVM(t *testing.T) {
	src := `
		push 1
		push 2
		pair
		assert_allocated 3 "expected 3 live objects"
		halt
	`
	program := assembleOK(t, src)

	v, err := vm.New()
	require.NoError(t, err)
	defer v.Close()
	require.NoError(t, v.Run(bytes.NewReader(program)))
}

func TestUnknownMnemonicFails(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader("frobnicate\n"))
	require.Error(t, err)
}

func TestUnclosedRepeatFails(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader("%repeat 2\n push 1\n"))
	require.Error(t, err)
}

func TestEndWithoutRepeatFails(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader("%end\n"))
	require.Error(t, err)
}

func TestWrongArityFails(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader("push\n"))
	require.Error(t, err)
}

func TestMalformedNumericTokenFails(t *testing.T) {
	for _, src := range []string{"push 3abc\n", "push 1.5\n", "push $$$\n"} {
		_, err := asm.Assemble("t.s", strings.NewReader(src))
		require.Error(t, err, "source %q should fail to lex", src)
	}
}

func TestLeadingZeroDecimalFails(t *testing.T) {
	_, err := asm.Assemble("t.s", strings.NewReader("push 010\n"))
	require.Error(t, err)
}

func TestHexLiteralAccepted(t *testing.T) {
	got := assembleOK(t, "push 0x10\n")

	var want bytes.Buffer
	require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpPushI32, Value: 0x10}))
	require.Equal(t, want.Bytes(), got)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	src := "; a full line comment\n\n  push 7 ; trailing comment\n halt\n"
	got := assembleOK(t, src)

	var want bytes.Buffer
	require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpPushI32, Value: 7}))
	require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpHalt}))
	require.Equal(t, want.Bytes(), got)
}

func TestIdentifierConstantResolution(t *testing.T) {
	// a repeat body can reference its own loop variable by name, proving
	// identifier resolution through the scope chain works end to end.
	src := "%repeat 2 n\n push n\n%end\n"
	got := assembleOK(t, src)

	var want bytes.Buffer
	require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpPushI32, Value: 0}))
	require.NoError(t, vm.Encode(&want, vm.Instruction{Op: vm.OpPushI32, Value: 1}))
	require.Equal(t, want.Bytes(), got)
}
