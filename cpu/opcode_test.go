package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Nibble(t *testing.T) {
	assert := assert.New(t)

	code := Code(0xd12f)
	assert.Equal(uint8(0xd), code.Nibble(0))
	assert.Equal(uint8(0x1), code.Nibble(1))
	assert.Equal(uint8(0x2), code.Nibble(2))
	assert.Equal(uint8(0xf), code.Nibble(3))
}

func TestCode_Decode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		inst Instruction
	}){
		{0x00e0, Instruction{Op: OP_CLEAR}},
		{0x00ee, Instruction{Op: OP_RETURN}},
		{0x0123, Instruction{Op: OP_UNKNOWN}},
		{0x1234, Instruction{Op: OP_JUMP, NNN: 0x234}},
		{0x2345, Instruction{Op: OP_CALL, NNN: 0x345}},
		{0x3a12, Instruction{Op: OP_SKIP_EQ_CONST, X: 0xa, NN: 0x12}},
		{0x4a12, Instruction{Op: OP_SKIP_NE_CONST, X: 0xa, NN: 0x12}},
		{0x5ab0, Instruction{Op: OP_SKIP_EQ_REG, X: 0xa, Y: 0xb}},
		{0x5ab1, Instruction{Op: OP_SKIP_EQ_REG, X: 0xa, Y: 0xb}},
		{0x6a12, Instruction{Op: OP_SET_CONST, X: 0xa, NN: 0x12}},
		{0x7a12, Instruction{Op: OP_ADD_CONST, X: 0xa, NN: 0x12}},
		{0x8ab0, Instruction{Op: OP_COPY, X: 0xa, Y: 0xb}},
		{0x8ab1, Instruction{Op: OP_OR, X: 0xa, Y: 0xb}},
		{0x8ab2, Instruction{Op: OP_AND, X: 0xa, Y: 0xb}},
		{0x8ab3, Instruction{Op: OP_XOR, X: 0xa, Y: 0xb}},
		{0x8ab4, Instruction{Op: OP_ADD, X: 0xa, Y: 0xb}},
		{0x8ab5, Instruction{Op: OP_SUB, X: 0xa, Y: 0xb}},
		{0x8ab6, Instruction{Op: OP_SHR, X: 0xa, Y: 0xb}},
		{0x8ab7, Instruction{Op: OP_SUBN, X: 0xa, Y: 0xb}},
		{0x8ab8, Instruction{Op: OP_UNKNOWN}},
		{0x8abe, Instruction{Op: OP_SHL, X: 0xa, Y: 0xb}},
		{0x9ab0, Instruction{Op: OP_SKIP_NE_REG, X: 0xa, Y: 0xb}},
		{0x9ab1, Instruction{Op: OP_SKIP_NE_REG, X: 0xa, Y: 0xb}},
		{0xa456, Instruction{Op: OP_SET_INDEX, NNN: 0x456}},
		{0xb456, Instruction{Op: OP_JUMP_OFFSET, NNN: 0x456}},
		{0xca0f, Instruction{Op: OP_RANDOM, X: 0xa, NN: 0x0f}},
		{0xdab5, Instruction{Op: OP_DRAW, X: 0xa, Y: 0xb, N: 5}},
		{0xea9e, Instruction{Op: OP_SKIP_KEY_DOWN, X: 0xa}},
		{0xeaa1, Instruction{Op: OP_SKIP_KEY_UP, X: 0xa}},
		{0xea0e, Instruction{Op: OP_SKIP_KEY_DOWN, X: 0xa}},
		{0xea01, Instruction{Op: OP_SKIP_KEY_UP, X: 0xa}},
		{0xea00, Instruction{Op: OP_UNKNOWN}},
		{0xfa07, Instruction{Op: OP_GET_DELAY, X: 0xa}},
		{0xfa0a, Instruction{Op: OP_WAIT_KEY, X: 0xa}},
		{0xfa15, Instruction{Op: OP_SET_DELAY, X: 0xa}},
		{0xfa18, Instruction{Op: OP_SET_SOUND, X: 0xa}},
		{0xfa1e, Instruction{Op: OP_ADD_INDEX, X: 0xa}},
		{0xfa29, Instruction{Op: OP_FONT, X: 0xa}},
		{0xfa33, Instruction{Op: OP_BCD, X: 0xa}},
		{0xfa55, Instruction{Op: OP_STORE, X: 0xa}},
		{0xfa65, Instruction{Op: OP_LOAD, X: 0xa}},
		{0xfaff, Instruction{Op: OP_UNKNOWN}},
	}

	for _, entry := range table {
		entry.inst.Code = entry.code
		assert.Equal(entry.inst, entry.code.Decode(), "%04x", uint16(entry.code))
	}
}

func TestInstruction_Encode(t *testing.T) {
	assert := assert.New(t)

	for word := range 0x10000 {
		code := Code(word)
		inst := code.Decode()
		if inst.Op == OP_UNKNOWN {
			continue
		}

		if !assert.Equal(code, inst.Encode(), "%04x", word) {
			break
		}

		// Without the raw code, the canonical word decodes the same.
		inst.Code = 0
		canon := inst.Encode().Decode()
		canon.Code = 0
		if !assert.Equal(inst, canon, "%04x", word) {
			break
		}
	}
}

func TestInstruction_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{0x00e0, "cls"},
		{0x00ee, "ret"},
		{0x0123, ".word 0x0123"},
		{0x1234, "jp 0x234"},
		{0x2345, "call 0x345"},
		{0x3a12, "se va, 0x12"},
		{0x5ab0, "se va, vb"},
		{0x6005, "ld v0, 0x05"},
		{0x8ab1, "or va, vb"},
		{0x8abe, "shl va, vb"},
		{0xa456, "ld i, 0x456"},
		{0xb300, "jp v0, 0x300"},
		{0xc30f, "rnd v3, 0x0f"},
		{0xd125, "drw v1, v2, 5"},
		{0xe49e, "skp v4"},
		{0xe4a1, "sknp v4"},
		{0xf507, "ld v5, dt"},
		{0xf50a, "ld v5, k"},
		{0xf515, "ld dt, v5"},
		{0xf518, "ld st, v5"},
		{0xf51e, "add i, v5"},
		{0xf529, "ld f, v5"},
		{0xf533, "ld b, v5"},
		{0xf355, "ld [i], v3"},
		{0xf365, "ld v3, [i]"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.Decode().String(), "%04x", uint16(entry.code))
	}
}

func TestOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(".word", OP_UNKNOWN.String())
	assert.Equal("drw", OP_DRAW.String())
	assert.Equal("sknp", OP_SKIP_KEY_UP.String())
	assert.Equal("Op(99)", Op(99).String())
}
