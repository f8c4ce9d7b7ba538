// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
)

// Statement is a line of assembled source with its address and generated bytes.
type Statement struct {
	LineNo    int
	Addr      int
	Words     []string
	Data      []uint8
	LinkLabel string
}

// Program is an assembled program listing.
type Program struct {
	Statements []Statement
}

// Debug locates an address within a program listing.
type Debug struct {
	*Statement
	Index int // Offset of the address within the statement's data.
}

// Debug returns the statement containing addr, if any.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(addr) >= st.Addr && int(addr) < st.Addr+len(st.Data) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr) - st.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the program image, to be loaded at PROGRAM_BASE.
func (prog *Program) Binary() (bin []uint8) {
	for _, st := range prog.Statements {
		bin = append(bin, st.Data...)
	}

	return
}

// Disassemble decodes a program image loaded at base, two bytes at a time.
// A trailing odd byte is decoded as if followed by a zero.
func Disassemble(bin []uint8, base uint16) iter.Seq2[uint16, Instruction] {
	return func(yield func(addr uint16, inst Instruction) bool) {
		for n := 0; n < len(bin); n += 2 {
			code := Code(bin[n]) << 8
			if n+1 < len(bin) {
				code |= Code(bin[n+1])
			}
			if !yield(base+uint16(n), code.Decode()) {
				return
			}
		}
	}
}
