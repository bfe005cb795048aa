package vm_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cg-jl/gc-vm/vm"
)

func roundTrip(t *testing.T, ins vm.Instruction) vm.Instruction {
	t.Helper()
	var buf bytes.Buffer
	if err := vm.Encode(&buf, ins); err != nil {
		t.Fatalf("Encode(%v) = %v", ins, err)
	}
	got, err := vm.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if got == nil {
		t.Fatal("Decode() = nil, want an instruction")
	}
	return *got
}

func TestInstructionRoundTrip(t *testing.T) {
	cases := []vm.Instruction{
		{Op: vm.OpPrint},
		{Op: vm.OpReadI32},
		{Op: vm.OpPushI32, Value: 1234},
		{Op: vm.OpPushI32, Value: -1},
		{Op: vm.OpPair},
		{Op: vm.OpSwap},
		{Op: vm.OpPop},
		{Op: vm.OpHalt},
		{Op: vm.OpDie, Text: "out of cheese"},
		{Op: vm.OpGC},
		{Op: vm.OpAssertAlloc, Value: 3, Text: "leaked an object"},
		{Op: vm.OpDie, Text: ""},
	}
	for _, want := range cases {
		got := roundTrip(t, want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %v mismatch (-want +got):\n%s", want, diff)
		}
	}
}

func TestDecodeEmptyStreamIsClean(t *testing.T) {
	ins, err := vm.Decode(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Decode() = %v, want nil error", err)
	}
	if ins != nil {
		t.Fatalf("Decode() = %v, want nil instruction", ins)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := vm.Decode(bytes.NewReader([]byte{0xff}))
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	// OpPushI32 wants 4 bytes of payload; give it one.
	_, err := vm.Decode(bytes.NewReader([]byte{byte(vm.OpPushI32), 0x01}))
	if err == nil {
		t.Fatal("expected error for truncated push operand")
	}
}

func TestEncodeUnknownOpcode(t *testing.T) {
	var buf bytes.Buffer
	err := vm.Encode(&buf, vm.Instruction{Op: vm.Opcode(0xee)})
	if err == nil {
		t.Fatal("expected error encoding unknown opcode")
	}
}
