package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cg-jl/gc-vm/vm"
)

func assemble(t *testing.T, instrs ...vm.Instruction) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, ins := range instrs {
		if err := vm.Encode(&buf, ins); err != nil {
			t.Fatalf("Encode(%v) = %v", ins, err)
		}
	}
	return bytes.NewReader(buf.Bytes())
}

func TestRunHalts(t *testing.T) {
	var out bytes.Buffer
	v, err := vm.New(vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t,
		vm.Instruction{Op: vm.OpPushI32, Value: 'h'},
		vm.Instruction{Op: vm.OpPrint},
		vm.Instruction{Op: vm.OpHalt},
		vm.Instruction{Op: vm.OpPushI32, Value: 'x'}, // never reached
	)
	if err := v.Run(program); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got, want := out.String(), "h"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunDieFaults(t *testing.T) {
	v, err := vm.New()
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t, vm.Instruction{Op: vm.OpDie, Text: "boom"})
	err = v.Run(program)
	if err == nil {
		t.Fatal("expected DIE to fault")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %v does not mention die message", err)
	}
}

func TestRunAssertAllocPasses(t *testing.T) {
	v, err := vm.New()
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t,
		vm.Instruction{Op: vm.OpPushI32, Value: 1},
		vm.Instruction{Op: vm.OpPushI32, Value: 2},
		vm.Instruction{Op: vm.OpAssertAlloc, Value: 2, Text: "want two objects"},
		vm.Instruction{Op: vm.OpHalt},
	)
	if err := v.Run(program); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}

func TestRunAssertAllocFails(t *testing.T) {
	v, err := vm.New()
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t,
		vm.Instruction{Op: vm.OpPushI32, Value: 1},
		vm.Instruction{Op: vm.OpAssertAlloc, Value: 5, Text: "wrong count"},
	)
	err = v.Run(program)
	if err == nil {
		t.Fatal("expected ASSERT_ALLOC to fault")
	}
	if !strings.Contains(err.Error(), "wrong count") {
		t.Errorf("error %v does not mention assertion message", err)
	}
}

func TestRunPairAndSwap(t *testing.T) {
	var out bytes.Buffer
	v, err := vm.New(vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	// push 'a', push 'b', pair -> (a . b); print walks head then tail.
	program := assemble(t,
		vm.Instruction{Op: vm.OpPushI32, Value: 'a'},
		vm.Instruction{Op: vm.OpPushI32, Value: 'b'},
		vm.Instruction{Op: vm.OpPair},
		vm.Instruction{Op: vm.OpPrint},
		vm.Instruction{Op: vm.OpHalt},
	)
	if err := v.Run(program); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if got, want := out.String(), "ab"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunReadI32EOF(t *testing.T) {
	var out bytes.Buffer
	v, err := vm.New(vm.Input(strings.NewReader("")), vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t,
		vm.Instruction{Op: vm.OpReadI32},
		vm.Instruction{Op: vm.OpAssertAlloc, Value: 1, Text: "read pushed one object"},
		vm.Instruction{Op: vm.OpHalt},
	)
	if err := v.Run(program); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if v.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", v.Depth())
	}
}

func TestRunStackUnderflowFaults(t *testing.T) {
	v, err := vm.New()
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	program := assemble(t, vm.Instruction{Op: vm.OpPop})
	if err := v.Run(program); err == nil {
		t.Fatal("expected POP on empty stack to fault")
	}
}
