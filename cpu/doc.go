// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the interpreter core and assembler for an 8-bit
// virtual machine with 4K of memory.
//
// The CPU consists of sixteen 8-bit registers (v0-vf, with vf doubling as
// the carry/borrow/collision flag), a 12-bit index register, a program
// counter, a 16 entry return stack, and delay and sound timers. Instructions
// are 16-bit big-endian words, decoded into an Instruction and executed
// against the CPU state, drawing through an io.Display and reading keys
// through an io.Input.
//
// The assembler provides a mnemonic assembly language for the instruction
// set, supporting macros, labels, equates, and compile-time expression
// evaluation.
package cpu
