package vm

import "io"

// StackMax is the fixed capacity of the operand stack.
const StackMax = 256

// Option configures a VM at construction time.
type Option func(*VM) error

// Input sets the reader READ_I32 pulls bytes from. Defaults to an empty
// reader, so READ_I32 returns EOF immediately unless an Input is supplied.
func Input(r io.Reader) Option {
	return func(v *VM) error { v.input = r; return nil }
}

// Output sets the writer PRINT writes to. Defaults to io.Discard.
func Output(w io.Writer) Option {
	return func(v *VM) error { v.output = w; return nil }
}

// GCThreshold overrides the initial object count at which the first
// collection runs. Mostly useful in tests that want to force a collection
// without allocating a hundred objects first.
func GCThreshold(n int) Option {
	return func(v *VM) error { v.maxObjects = n; return nil }
}

// VM is a gc-vm instance: an operand stack of heap object references, the
// heap those objects live in, and the two byte streams READ_I32/PRINT talk
// to. It holds no other state — there is no process-wide singleton, and
// nothing prevents running several VMs side by side.
type VM struct {
	stack [StackMax]*Object
	sp    int

	first      *Object
	numObjects int
	maxObjects int

	halted bool

	input  io.Reader
	output io.Writer

	insCount int64
}

// New creates a VM ready to Run. Options are applied in order; a failing
// option aborts construction.
func New(opts ...Option) (*VM, error) {
	v := &VM{
		maxObjects: initialGCThreshold,
		output:     discardWriter{},
		input:      emptyReader{},
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Close empties the operand stack and runs a final GC cycle, guaranteeing
// every object the VM ever allocated is freed before the value is dropped.
// It mirrors the reference implementation's free_vm and exists mainly so
// that tests and embedders have an explicit, observable teardown point
// rather than relying on Go's runtime GC to eventually notice.
func (v *VM) Close() {
	v.sp = 0
	v.GC()
}

// InstructionCount returns the number of instructions executed so far.
func (v *VM) InstructionCount() int64 {
	return v.insCount
}

// Halted reports whether the VM has executed a HALT instruction.
func (v *VM) Halted() bool {
	return v.halted
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type emptyReader struct{}

func (emptyReader) Read(p []byte) (int, error) { return 0, io.EOF }
