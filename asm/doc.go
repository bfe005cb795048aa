// Package asm assembles the gc-vm textual instruction language into the
// binary bytecode consumed by package vm.
//
// Source is line-oriented. Each line is stripped of a trailing `;` comment
// and surrounding whitespace; blank lines are skipped. What remains is
// tokenized into mnemonics, numeric/string/identifier constants, and
// `%repeat`/`%end` directives, then parsed into a tree of lexically scoped
// blocks (a Scope), and finally walked in post-order to emit bytecode
// through the same codec the VM uses to decode it.
//
// Grammar (informal):
//
//	program  := line*
//	line     := (comment | instr | directive | empty) '\n'
//	instr    := mnemonic token*
//	directive:= '%repeat' number ident?  |  '%end'
//	token    := number | string | ident
//
// Mnemonics:
//
//	out                       PRINT
//	in                        READ_I32
//	push <number>             PUSH_I32
//	pair                      PAIR
//	swap                      SWAP
//	pop                       POP
//	halt                      HALT
//	die <string>              DIE
//	gc                        GC
//	assert_allocated <n> <s>  ASSERT_ALLOC
//	print <string>            desugars to a chain of pairs (each
//	                          character paired onto the pairs before
//	                          it) terminated by a newline, then
//	                          PRINT; POP; GC
//
// %repeat N [var] ... %end repeats its body N times. If var is given, it
// is rebound to the iteration number (0 through N-1) in the repeat scope before
// each pass, so instructions inside the body can reference it as a
// constant.
package asm
