// Package vm implements the gc-vm bytecode interpreter: a 256-slot operand
// stack of heap-allocated tagged objects (integers and cons pairs), a
// mark-and-sweep garbage collector over those objects, and the binary
// instruction codec shared with the assembler and disassembler.
//
// Supported opcodes:
//
//	byte	mnemonic		stack	description
//	0x00	out (print)		a-a	write TOS (integers as their low byte, pairs head then tail); TOS stays
//	0x01	in  (read_i32)		-a	read one byte from input, or -1 on EOF
//	0x02	push +4 byte i32	-a	push an integer constant
//	0x03	pair			ab-a	pop two, push pair{head: a, tail: b}
//	0x04	swap			ab-ba	exchange TOS and NOS
//	0x05	pop			a-	discard TOS
//	0x06	halt			-	stop the interpreter loop
//	0x07	die  +string\0		-	abort with a diagnostic
//	0x10	gc			-	run a full mark-sweep cycle
//	0x12	assert_allocated +4 byte i32 +string\0	-	fail unless NumObjects() == n
//
// A VM is a single owned value with no process-wide state: create one with
// New, feed it a byte stream of encoded instructions with Run, and let it
// go out of scope. Its own mark-and-sweep collector exists only to uphold
// the NumObjects/ASSERT_ALLOC contract the bytecode language can observe;
// it is not a substitute for Go's runtime GC, which still owns the actual
// memory backing every *Object.
package vm
