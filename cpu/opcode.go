// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
)

// Op is a decoded operation type.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_UNKNOWN       = Op(0)  // .word
	OP_CLEAR         = Op(1)  // cls
	OP_RETURN        = Op(2)  // ret
	OP_JUMP          = Op(3)  // jp
	OP_CALL          = Op(4)  // call
	OP_SKIP_EQ_CONST = Op(5)  // se
	OP_SKIP_NE_CONST = Op(6)  // sne
	OP_SKIP_EQ_REG   = Op(7)  // se
	OP_SET_CONST     = Op(8)  // ld
	OP_ADD_CONST     = Op(9)  // add
	OP_COPY          = Op(10) // ld
	OP_OR            = Op(11) // or
	OP_AND           = Op(12) // and
	OP_XOR           = Op(13) // xor
	OP_ADD           = Op(14) // add
	OP_SUB           = Op(15) // sub
	OP_SHR           = Op(16) // shr
	OP_SUBN          = Op(17) // subn
	OP_SHL           = Op(18) // shl
	OP_SKIP_NE_REG   = Op(19) // sne
	OP_SET_INDEX     = Op(20) // ld
	OP_JUMP_OFFSET   = Op(21) // jp
	OP_RANDOM        = Op(22) // rnd
	OP_DRAW          = Op(23) // drw
	OP_SKIP_KEY_DOWN = Op(24) // skp
	OP_SKIP_KEY_UP   = Op(25) // sknp
	OP_GET_DELAY     = Op(26) // ld
	OP_WAIT_KEY      = Op(27) // ld
	OP_SET_DELAY     = Op(28) // ld
	OP_SET_SOUND     = Op(29) // ld
	OP_ADD_INDEX     = Op(30) // add
	OP_FONT          = Op(31) // ld
	OP_BCD           = Op(32) // ld
	OP_STORE         = Op(33) // ld
	OP_LOAD          = Op(34) // ld
	OP_COUNT         = Op(35) // -
)

// Code is a raw 16-bit instruction word, most significant byte first in memory.
type Code uint16

// Nibble returns the n'th nibble, counting from the most significant (n = 0).
func (code Code) Nibble(n int) uint8 {
	return uint8((code >> (12 - 4*n)) & 0xf)
}

// Instruction is a decoded Code. Only the operand fields used by Op are set.
type Instruction struct {
	Code Code   // Raw instruction word.
	Op   Op     // Operation.
	X    uint8  // First register index.
	Y    uint8  // Second register index.
	N    uint8  // 4-bit constant.
	NN   uint8  // 8-bit constant.
	NNN  uint16 // 12-bit address.
}

// Decode splits an instruction word into its operation and operands.
// Unrecognized words decode as OP_UNKNOWN. The low nibble of 5xy_ and 9xy_
// is ignored, and Ex__ selects key skips by its low nibble alone.
func (code Code) Decode() (inst Instruction) {
	inst = Instruction{Code: code}

	x := code.Nibble(1)
	y := code.Nibble(2)
	n := code.Nibble(3)
	nn := uint8(code & 0xff)
	nnn := uint16(code & 0xfff)

	withX := func(op Op) { inst.Op, inst.X = op, x }
	withXY := func(op Op) { inst.Op, inst.X, inst.Y = op, x, y }
	withXNN := func(op Op) { inst.Op, inst.X, inst.NN = op, x, nn }
	withNNN := func(op Op) { inst.Op, inst.NNN = op, nnn }

	switch code.Nibble(0) {
	case 0x0:
		switch code {
		case 0x00e0:
			inst.Op = OP_CLEAR
		case 0x00ee:
			inst.Op = OP_RETURN
		}
	case 0x1:
		withNNN(OP_JUMP)
	case 0x2:
		withNNN(OP_CALL)
	case 0x3:
		withXNN(OP_SKIP_EQ_CONST)
	case 0x4:
		withXNN(OP_SKIP_NE_CONST)
	case 0x5:
		withXY(OP_SKIP_EQ_REG)
	case 0x6:
		withXNN(OP_SET_CONST)
	case 0x7:
		withXNN(OP_ADD_CONST)
	case 0x8:
		switch n {
		case 0x0:
			withXY(OP_COPY)
		case 0x1:
			withXY(OP_OR)
		case 0x2:
			withXY(OP_AND)
		case 0x3:
			withXY(OP_XOR)
		case 0x4:
			withXY(OP_ADD)
		case 0x5:
			withXY(OP_SUB)
		case 0x6:
			withXY(OP_SHR)
		case 0x7:
			withXY(OP_SUBN)
		case 0xe:
			withXY(OP_SHL)
		}
	case 0x9:
		withXY(OP_SKIP_NE_REG)
	case 0xa:
		withNNN(OP_SET_INDEX)
	case 0xb:
		withNNN(OP_JUMP_OFFSET)
	case 0xc:
		withXNN(OP_RANDOM)
	case 0xd:
		withXY(OP_DRAW)
		inst.N = n
	case 0xe:
		switch n {
		case 0xe:
			withX(OP_SKIP_KEY_DOWN)
		case 0x1:
			withX(OP_SKIP_KEY_UP)
		}
	case 0xf:
		switch nn {
		case 0x07:
			withX(OP_GET_DELAY)
		case 0x0a:
			withX(OP_WAIT_KEY)
		case 0x15:
			withX(OP_SET_DELAY)
		case 0x18:
			withX(OP_SET_SOUND)
		case 0x1e:
			withX(OP_ADD_INDEX)
		case 0x29:
			withX(OP_FONT)
		case 0x33:
			withX(OP_BCD)
		case 0x55:
			withX(OP_STORE)
		case 0x65:
			withX(OP_LOAD)
		}
	}

	return
}

// Encode rebuilds the instruction word from the operation and operands.
// A raw word that decodes to the same instruction is kept as is.
func (inst Instruction) Encode() (code Code) {
	if inst.Code != 0 && inst.Code.Decode() == inst {
		code = inst.Code
		return
	}

	x := Code(inst.X&0xf) << 8
	y := Code(inst.Y&0xf) << 4
	n := Code(inst.N & 0xf)
	nn := Code(inst.NN)
	nnn := Code(inst.NNN & 0xfff)

	switch inst.Op {
	case OP_CLEAR:
		code = 0x00e0
	case OP_RETURN:
		code = 0x00ee
	case OP_JUMP:
		code = 0x1000 | nnn
	case OP_CALL:
		code = 0x2000 | nnn
	case OP_SKIP_EQ_CONST:
		code = 0x3000 | x | nn
	case OP_SKIP_NE_CONST:
		code = 0x4000 | x | nn
	case OP_SKIP_EQ_REG:
		code = 0x5000 | x | y
	case OP_SET_CONST:
		code = 0x6000 | x | nn
	case OP_ADD_CONST:
		code = 0x7000 | x | nn
	case OP_COPY:
		code = 0x8000 | x | y | 0x0
	case OP_OR:
		code = 0x8000 | x | y | 0x1
	case OP_AND:
		code = 0x8000 | x | y | 0x2
	case OP_XOR:
		code = 0x8000 | x | y | 0x3
	case OP_ADD:
		code = 0x8000 | x | y | 0x4
	case OP_SUB:
		code = 0x8000 | x | y | 0x5
	case OP_SHR:
		code = 0x8000 | x | y | 0x6
	case OP_SUBN:
		code = 0x8000 | x | y | 0x7
	case OP_SHL:
		code = 0x8000 | x | y | 0xe
	case OP_SKIP_NE_REG:
		code = 0x9000 | x | y
	case OP_SET_INDEX:
		code = 0xa000 | nnn
	case OP_JUMP_OFFSET:
		code = 0xb000 | nnn
	case OP_RANDOM:
		code = 0xc000 | x | nn
	case OP_DRAW:
		code = 0xd000 | x | y | n
	case OP_SKIP_KEY_DOWN:
		code = 0xe09e | x
	case OP_SKIP_KEY_UP:
		code = 0xe0a1 | x
	case OP_GET_DELAY:
		code = 0xf007 | x
	case OP_WAIT_KEY:
		code = 0xf00a | x
	case OP_SET_DELAY:
		code = 0xf015 | x
	case OP_SET_SOUND:
		code = 0xf018 | x
	case OP_ADD_INDEX:
		code = 0xf01e | x
	case OP_FONT:
		code = 0xf029 | x
	case OP_BCD:
		code = 0xf033 | x
	case OP_STORE:
		code = 0xf055 | x
	case OP_LOAD:
		code = 0xf065 | x
	default:
		code = inst.Code
	}

	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() (out string) {
	op := inst.Op.String()

	vx := fmt.Sprintf("v%x", inst.X)
	vy := fmt.Sprintf("v%x", inst.Y)

	switch inst.Op {
	case OP_CLEAR, OP_RETURN:
		out = op
	case OP_JUMP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", op, inst.NNN)
	case OP_JUMP_OFFSET:
		out = fmt.Sprintf("%v v0, 0x%03x", op, inst.NNN)
	case OP_SKIP_EQ_CONST, OP_SKIP_NE_CONST, OP_SET_CONST, OP_ADD_CONST, OP_RANDOM:
		out = fmt.Sprintf("%v %v, 0x%02x", op, vx, inst.NN)
	case OP_SKIP_EQ_REG, OP_SKIP_NE_REG, OP_COPY, OP_OR, OP_AND, OP_XOR,
		OP_ADD, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
		out = fmt.Sprintf("%v %v, %v", op, vx, vy)
	case OP_SET_INDEX:
		out = fmt.Sprintf("%v i, 0x%03x", op, inst.NNN)
	case OP_DRAW:
		out = fmt.Sprintf("%v %v, %v, %d", op, vx, vy, inst.N)
	case OP_SKIP_KEY_DOWN, OP_SKIP_KEY_UP:
		out = fmt.Sprintf("%v %v", op, vx)
	case OP_GET_DELAY:
		out = fmt.Sprintf("%v %v, dt", op, vx)
	case OP_WAIT_KEY:
		out = fmt.Sprintf("%v %v, k", op, vx)
	case OP_SET_DELAY:
		out = fmt.Sprintf("%v dt, %v", op, vx)
	case OP_SET_SOUND:
		out = fmt.Sprintf("%v st, %v", op, vx)
	case OP_ADD_INDEX:
		out = fmt.Sprintf("%v i, %v", op, vx)
	case OP_FONT:
		out = fmt.Sprintf("%v f, %v", op, vx)
	case OP_BCD:
		out = fmt.Sprintf("%v b, %v", op, vx)
	case OP_STORE:
		out = fmt.Sprintf("%v [i], %v", op, vx)
	case OP_LOAD:
		out = fmt.Sprintf("%v %v, [i]", op, vx)
	default:
		out = fmt.Sprintf("%v 0x%04x", OP_UNKNOWN.String(), uint16(inst.Code))
	}

	return
}
