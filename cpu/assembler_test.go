package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Empty(prog.Binary())

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x200", asm.Equate["HERE"])
	assert.Equal("0x200", asm.Equate["PROGRAM_BASE"])
	assert.Equal("0x1000", asm.Equate["MEMORY_SIZE"])
	assert.Equal("0x0", asm.Equate["FONT_BASE"])
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; A small program",
		"start:",
		"  cls",
		"  ld v0, 5     ; x",
		"  add v0, 3",
		"  ld i, sprite",
		"  drw v0, v1, 5",
		"  jp start",
		"sprite: .byte 0xf0, 0x90, 0x90, 0x90, 0xf0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint8{
		0x00, 0xe0,
		0x60, 0x05,
		0x70, 0x03,
		0xa2, 0x0c,
		0xd0, 0x15,
		0x12, 0x00,
		0xf0, 0x90, 0x90, 0x90, 0xf0,
	}, prog.Binary())

	assert.Equal(0x200, asm.Label["start"])
	assert.Equal(0x20c, asm.Label["sprite"])

	expected := []Statement{
		{3, 0x200, []string{"cls"}, []uint8{0x00, 0xe0}, ""},
		{4, 0x202, []string{"ld", "v0", "5"}, []uint8{0x60, 0x05}, ""},
		{5, 0x204, []string{"add", "v0", "3"}, []uint8{0x70, 0x03}, ""},
		{6, 0x206, []string{"ld", "i", "sprite"}, []uint8{0xa2, 0x0c}, "sprite"},
		{7, 0x208, []string{"drw", "v0", "v1", "5"}, []uint8{0xd0, 0x15}, ""},
		{8, 0x20a, []string{"jp", "start"}, []uint8{0x12, 0x00}, "start"},
		{9, 0x20c, []string{".byte", "0xf0", "0x90", "0x90", "0x90", "0xf0"}, []uint8{0xf0, 0x90, 0x90, 0x90, 0xf0}, ""},
	}
	assert.Equal(expected, prog.Statements)

	dbg := prog.Debug(0x20e)
	assert.Equal(9, dbg.LineNo)
	assert.Equal(2, dbg.Index)
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		code []uint8
	}){
		{"cls", []uint8{0x00, 0xe0}},
		{"ret", []uint8{0x00, 0xee}},
		{"jp 0x345", []uint8{0x13, 0x45}},
		{"jp v0, 0x300", []uint8{0xb3, 0x00}},
		{"call 0x400", []uint8{0x24, 0x00}},
		{"se v1, 0x22", []uint8{0x31, 0x22}},
		{"se v1, v2", []uint8{0x51, 0x20}},
		{"sne v1, 3", []uint8{0x41, 0x03}},
		{"sne v1, v2", []uint8{0x91, 0x20}},
		{"ld v1, 0x22", []uint8{0x61, 0x22}},
		{"ld v1, v2", []uint8{0x81, 0x20}},
		{"add v1, 0x22", []uint8{0x71, 0x22}},
		{"add v1, v2", []uint8{0x81, 0x24}},
		{"or v1, v2", []uint8{0x81, 0x21}},
		{"and v1, v2", []uint8{0x81, 0x22}},
		{"xor v1, v2", []uint8{0x81, 0x23}},
		{"sub v1, v2", []uint8{0x81, 0x25}},
		{"shr v1, v2", []uint8{0x81, 0x26}},
		{"subn v1, v2", []uint8{0x81, 0x27}},
		{"shl v1, v2", []uint8{0x81, 0x2e}},
		{"shl v1", []uint8{0x81, 0x1e}},
		{"shr VA", []uint8{0x8a, 0xa6}},
		{"ld i, 0x300", []uint8{0xa3, 0x00}},
		{"rnd v3, 0x0f", []uint8{0xc3, 0x0f}},
		{"drw v1, v2, 15", []uint8{0xd1, 0x2f}},
		{"skp v4", []uint8{0xe4, 0x9e}},
		{"sknp v4", []uint8{0xe4, 0xa1}},
		{"ld v5, dt", []uint8{0xf5, 0x07}},
		{"ld v5, k", []uint8{0xf5, 0x0a}},
		{"ld dt, v5", []uint8{0xf5, 0x15}},
		{"ld st, v5", []uint8{0xf5, 0x18}},
		{"add i, v5", []uint8{0xf5, 0x1e}},
		{"ld f, v5", []uint8{0xf5, 0x29}},
		{"ld b, v5", []uint8{0xf5, 0x33}},
		{"ld [i], v5", []uint8{0xf5, 0x55}},
		{"ld v5, [i]", []uint8{0xf5, 0x65}},
		{"LD V5, DT", []uint8{0xf5, 0x07}},
		{".word 0x1234, 0xabcd", []uint8{0x12, 0x34, 0xab, 0xcd}},
		{".byte 1 2 3", []uint8{1, 2, 3}},
		{"ld v0, -1", []uint8{0x60, 0xff}},
		{"ld v0, 'A'", []uint8{0x60, 0x41}},
		{"ld v0, ~0x0f", []uint8{0x60, 0xf0}},
		{"ld v0, 0b1010", []uint8{0x60, 0x0a}},
		{"ld v0, $(3 * 4)", []uint8{0x60, 0x0c}},
		{"ld v0, $(SCREEN_WIDTH // 2)", []uint8{0x60, 0x20}},
		{"jp PROGRAM_BASE", []uint8{0x12, 0x00}},
		{"jp HERE", []uint8{0x12, 0x00}},
		{".byte LINENO", []uint8{0x01}},
	}

	for _, entry := range table {
		asm := &Assembler{}
		asm.Predefine("SCREEN_WIDTH", "64")

		prog, err := asm.Parse(strings.NewReader(entry.line))
		if !assert.NoError(err, entry.line) {
			continue
		}
		assert.Equal(entry.code, prog.Binary(), entry.line)
	}
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		err     error
		lineno  int
	}){
		{"foo", ErrInstructionInvalid, 1},
		{"cls 1", ErrOpcodeExtraArgs, 1},
		{"drw v0, v1", ErrOpcodeValueMissing, 1},
		{"ld v0, 0x100", ErrValueRange, 1},
		{"ld v0, -129", ErrValueRange, 1},
		{"jp 0x1000", ErrValueRange, 1},
		{"drw v0, v1, 16", ErrValueRange, 1},
		{"ld vg, 1", ErrRegisterInvalid, 1},
		{"jp v1, 0x300", ErrRegisterInvalid, 1},
		{"skp 5", ErrRegisterInvalid, 1},
		{"ld q, v0", ErrOpcodeInvalid, 1},
		{"cls\n.endm", ErrMacroLonelyEndm, 2},
		{".macro x\ncls", ErrMacroLonely, 2},
		{".macro x\n.macro y", ErrMacroNesting, 2},
		{".macro", ErrMacroSyntax, 1},
		{".macro x\n.endm\n.macro x\n.endm", ErrMacroDuplicate, 3},
		{"a:\na:", ErrLabelDuplicate, 2},
		{".equ A 1\n.equ A 2", ErrEquateDuplicate, 2},
		{".equ A", ErrEquateSyntax, 1},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.program))
		assert.ErrorIs(err, entry.err, entry.program)

		var syntax ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.program) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.program)
		}
	}
}

func TestAssemblerLabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("cls\njp nowhere\ncls"))

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("nowhere"), missing)

	var syntax ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"start: cls",
		".equ COUNT 3",
		".word $(start + COUNT)",
		"ld v0, $(COUNT * 2)",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint8{0x00, 0xe0, 0x02, 0x03, 0x60, 0x06}, prog.Binary())

	asm = &Assembler{}
	_, err = asm.Parse(strings.NewReader("ld v0, $(1 +)"))
	assert.Error(err)

	asm = &Assembler{}
	_, err = asm.Parse(strings.NewReader(`ld v0, $("a")`))
	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ ptr v3",
		".equ SPEED 7",
		"ld ptr, SPEED",
		"add ptr, KEY",
	}

	asm := &Assembler{}
	asm.Predefine("KEY", "0x0a")

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint8{0x63, 0x07, 0x73, 0x0a}, prog.Binary())
	assert.Equal("v3", asm.Equate["ptr"])
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro inc reg",
		"  add reg, 1",
		".endm",
		".macro spin",
		"@loop: jp @loop",
		".endm",
		"inc v2",
		"inc v3",
		"spin",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint8{0x72, 0x01, 0x73, 0x01, 0x12, 0x04}, prog.Binary())
	assert.Equal(0x204, asm.Label["spin_3_loop"])

	// Macro arguments do not leak.
	_, ok := asm.Equate["reg"]
	assert.False(ok)

	asm = &Assembler{}
	_, err = asm.Parse(strings.NewReader(".macro inc reg\nadd reg, 1\n.endm\ninc"))
	assert.ErrorIs(err, ErrMacroSyntax)

	asm = &Assembler{}
	_, err = asm.Parse(strings.NewReader(".macro bad\nfoo\n.endm\nbad"))
	assert.ErrorIs(err, ErrInstructionInvalid)
	var macro ErrMacro
	assert.True(errors.As(err, &macro))
	assert.Equal("bad", macro.Macro)
}

func TestAssemblerMacroRepeat(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro spin",
		"@loop: jp @loop",
		".endm",
		"spin",
		"spin",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]uint8{0x12, 0x00, 0x12, 0x02}, prog.Binary())
	assert.Equal(0x200, asm.Label["spin_1_loop"])
	assert.Equal(0x202, asm.Label["spin_2_loop"])
}

func TestAssemblerProgramSize(t *testing.T) {
	assert := assert.New(t)

	var program []string
	for range PROGRAM_LIMIT/2 + 1 {
		program = append(program, "cls")
	}

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrProgramSize)
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	// Every known instruction disassembles to text that assembles back.
	for word := range 0x10000 {
		inst := Code(word).Decode()
		if inst.Op == OP_UNKNOWN {
			continue
		}

		text := inst.String()
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(text))
		if !assert.NoError(err, text) {
			break
		}
		inst.Code = 0
		code := inst.Encode()
		if !assert.Equal([]uint8{uint8(code >> 8), uint8(code)}, prog.Binary(), text) {
			break
		}
	}
}
