// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"HERE":   fmt.Sprintf("%#x", PROGRAM_BASE),
}

// Assembler is a single pass macro assembler.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions, for '@' label prefixes.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// constant returns a value that fits in the given number of bits.
// Negative values are accepted down to the signed range.
func (asm *Assembler) constant(word string, bits int) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	mask := int64(1)<<bits - 1
	if v64 > mask || v64 < -(int64(1)<<(bits-1)) {
		err = ErrValueRange
		return
	}

	value = uint16(v64 & mask)
	return
}

// labelPattern matches words usable as labels.
var labelPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// address returns a 12-bit address, or the label to link it to.
func (asm *Assembler) address(word string) (addr uint16, label string, err error) {
	_, err = asm.valueOf(word)
	if err != nil && labelPattern.MatchString(word) {
		label = word
		err = nil
		return
	}

	addr, err = asm.constant(word, 12)
	return
}

// register returns the index of a 'vN' register word.
func register(word string) (reg uint8, ok bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		return
	}

	value, err := strconv.ParseUint(word[1:], 16, 8)
	if err != nil {
		return
	}

	reg, ok = uint8(value), true
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words, handling equates,
// labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number and address.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	asm.Equate["HERE"] = fmt.Sprintf("%#x", asm.currentAddr())

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		prefix := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", prefix)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next statement.
func (asm *Assembler) currentAddr() int {
	if len(asm.Statement) == 0 {
		return PROGRAM_BASE
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Addr + len(last.Data)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range Defines() {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if asm.currentAddr() > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		label := st.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno, line = st.LineNo, strings.Join(st.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if len(st.Data) != 2 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, st.LineNo, st.Words)
		}
		if addr > INDEX_MASK {
			lineno, line = st.LineNo, strings.Join(st.Words, " ")
			err = ErrValueRange
			return
		}
		st.Data[1] |= uint8(addr & 0xff)
		st.Data[0] |= uint8((addr >> 8) & 0xf)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// aluMap maps register to register operation names.
var aluMap = map[string]Op{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
	"shr":  OP_SHR,
	"shl":  OP_SHL,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(data) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Data: data, LinkLabel: label}
		asm.Statement = append(asm.Statement, st)
	}()

	op := strings.ToLower(words[0])
	args := words[1:]

	argc := func(min, max int) (err error) {
		switch {
		case len(args) < min:
			err = ErrOpcodeValueMissing
		case len(args) > max:
			err = ErrOpcodeExtraArgs
		}
		return
	}

	reg := func(n int) (r uint8, err error) {
		r, ok := register(args[n])
		if !ok {
			err = ErrRegisterInvalid
		}
		return
	}

	var inst Instruction

	switch op {
	case ".byte":
		if err = argc(1, len(args)); err != nil {
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.constant(arg, 8)
			if err != nil {
				return
			}
			data = append(data, uint8(value))
		}
		return
	case ".word":
		if err = argc(1, len(args)); err != nil {
			return
		}
		for _, arg := range args {
			var value uint16
			value, err = asm.constant(arg, 16)
			if err != nil {
				return
			}
			data = append(data, uint8(value>>8), uint8(value))
		}
		return
	case "cls":
		if err = argc(0, 0); err != nil {
			return
		}
		inst.Op = OP_CLEAR
	case "ret":
		if err = argc(0, 0); err != nil {
			return
		}
		inst.Op = OP_RETURN
	case "jp":
		if err = argc(1, 2); err != nil {
			return
		}
		inst.Op = OP_JUMP
		if len(args) == 2 {
			if r, ok := register(args[0]); !ok || r != 0 {
				err = ErrRegisterInvalid
				return
			}
			inst.Op = OP_JUMP_OFFSET
			args = args[1:]
		}
		inst.NNN, label, err = asm.address(args[0])
	case "call":
		if err = argc(1, 1); err != nil {
			return
		}
		inst.Op = OP_CALL
		inst.NNN, label, err = asm.address(args[0])
	case "se", "sne":
		if err = argc(2, 2); err != nil {
			return
		}
		if inst.X, err = reg(0); err != nil {
			return
		}
		if y, ok := register(args[1]); ok {
			inst.Op, inst.Y = map[string]Op{"se": OP_SKIP_EQ_REG, "sne": OP_SKIP_NE_REG}[op], y
		} else {
			var nn uint16
			nn, err = asm.constant(args[1], 8)
			inst.Op, inst.NN = map[string]Op{"se": OP_SKIP_EQ_CONST, "sne": OP_SKIP_NE_CONST}[op], uint8(nn)
		}
	case "ld":
		if err = argc(2, 2); err != nil {
			return
		}
		err = asm.parseLoad(&inst, args, &label)
	case "add":
		if err = argc(2, 2); err != nil {
			return
		}
		if strings.ToLower(args[0]) == "i" {
			inst.Op = OP_ADD_INDEX
			args = args[1:]
			inst.X, err = reg(0)
			break
		}
		if inst.X, err = reg(0); err != nil {
			return
		}
		if y, ok := register(args[1]); ok {
			inst.Op, inst.Y = OP_ADD, y
		} else {
			var nn uint16
			nn, err = asm.constant(args[1], 8)
			inst.Op, inst.NN = OP_ADD_CONST, uint8(nn)
		}
	case "or", "and", "xor", "sub", "subn", "shr", "shl":
		inst.Op = aluMap[op]
		min := 2
		if inst.Op == OP_SHR || inst.Op == OP_SHL {
			// shr vx => shr vx vx
			min = 1
		}
		if err = argc(min, 2); err != nil {
			return
		}
		if inst.X, err = reg(0); err != nil {
			return
		}
		inst.Y = inst.X
		if len(args) == 2 {
			inst.Y, err = reg(1)
		}
	case "rnd":
		if err = argc(2, 2); err != nil {
			return
		}
		if inst.X, err = reg(0); err != nil {
			return
		}
		var nn uint16
		nn, err = asm.constant(args[1], 8)
		inst.Op, inst.NN = OP_RANDOM, uint8(nn)
	case "drw":
		if err = argc(3, 3); err != nil {
			return
		}
		if inst.X, err = reg(0); err != nil {
			return
		}
		if inst.Y, err = reg(1); err != nil {
			return
		}
		var n uint16
		n, err = asm.constant(args[2], 4)
		inst.Op, inst.N = OP_DRAW, uint8(n)
	case "skp", "sknp":
		if err = argc(1, 1); err != nil {
			return
		}
		inst.Op = map[string]Op{"skp": OP_SKIP_KEY_DOWN, "sknp": OP_SKIP_KEY_UP}[op]
		inst.X, err = reg(0)
	default:
		err = ErrInstructionInvalid
		return
	}

	if err != nil {
		return
	}

	code := inst.Encode()
	data = []uint8{uint8(code >> 8), uint8(code)}

	return
}

// parseLoad decodes the many forms of 'ld DST SRC'.
func (asm *Assembler) parseLoad(inst *Instruction, args []string, label *string) (err error) {
	dst := strings.ToLower(args[0])
	src := strings.ToLower(args[1])

	if x, ok := register(dst); ok {
		inst.X = x
		if y, ok := register(src); ok {
			inst.Op, inst.Y = OP_COPY, y
			return
		}
		switch src {
		case "dt":
			inst.Op = OP_GET_DELAY
		case "k":
			inst.Op = OP_WAIT_KEY
		case "[i]":
			inst.Op = OP_LOAD
		default:
			var nn uint16
			nn, err = asm.constant(args[1], 8)
			inst.Op, inst.NN = OP_SET_CONST, uint8(nn)
		}
		return
	}

	if dst == "i" {
		inst.Op = OP_SET_INDEX
		inst.NNN, *label, err = asm.address(args[1])
		return
	}

	x, ok := register(src)
	if !ok {
		err = ErrRegisterInvalid
		return
	}
	inst.X = x

	switch dst {
	case "dt":
		inst.Op = OP_SET_DELAY
	case "st":
		inst.Op = OP_SET_SOUND
	case "f":
		inst.Op = OP_FONT
	case "b":
		inst.Op = OP_BCD
	case "[i]":
		inst.Op = OP_STORE
	default:
		err = ErrOpcodeInvalid
	}

	return
}
