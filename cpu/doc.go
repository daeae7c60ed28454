// Package cpu implements the LS-8 processor, its program loader, and an
// assembler for the LS-8 instruction set.
//
// The CPU has eight 8-bit registers (r0-r7, with r7 reserved as the stack
// pointer), a flags register written by CMP, a program counter, and 256
// bytes of RAM. The stack grows down from STACK_TOP in the same RAM that
// holds the program.
//
// Programs are either loaded from a binary image (one base-2 byte per line,
// '#' comments) or assembled from LS-8 mnemonics, with labels, equates and
// compile-time $(...) expressions.
package cpu
