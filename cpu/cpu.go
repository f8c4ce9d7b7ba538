// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"

	"github.com/ezrec/chip8/io"
)

const (
	MEMORY_SIZE    = 4096                       // Addressable memory, in bytes.
	PROGRAM_BASE   = 0x200                      // Load address of programs.
	PROGRAM_LIMIT  = MEMORY_SIZE - PROGRAM_BASE // Largest program, in bytes.
	REGISTER_COUNT = 16                         // General purpose registers.
	REG_FLAG       = 0xf                        // Flag register index.
	INDEX_MASK     = 0xfff                      // Index register address bits.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":     fmt.Sprintf("%#x", MEMORY_SIZE),
	"PROGRAM_BASE":    fmt.Sprintf("%#x", PROGRAM_BASE),
	"FONT_BASE":       fmt.Sprintf("%#x", FONT_BASE),
	"FONT_GLYPH_SIZE": fmt.Sprintf("%d", FONT_GLYPH_SIZE),
	"STACK_LIMIT":     fmt.Sprintf("%d", STACK_LIMIT),
}

// Cpu is the interpreter state.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]uint8    // Memory, glyphs at FONT_BASE, program at PROGRAM_BASE.
	Register [REGISTER_COUNT]uint8 // Register bank, v0 - vf.
	I        uint16                // Index register.
	Pc       uint16                // Program counter.
	Stack    Stack                 // Return stack.
	Delay    uint8                 // Delay timer.
	Sound    uint8                 // Sound timer.

	Display io.Display   // Pixel grid.
	Input   io.Input     // Keypad.
	Random  func() uint8 // Random byte source.

	Ticks   int // Instructions executed.
	Unknown int // Unknown instructions executed.
}

// NewCpu creates a new CPU attached to a display and keypad.
func NewCpu(display io.Display, input io.Input) (cpu *Cpu) {
	cpu = &Cpu{
		Display: display,
		Input:   input,
		Random:  func() uint8 { return uint8(rand.Intn(256)) },
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers, stack, and timers.
// - Installs the font glyphs.
// - Sets the program counter to PROGRAM_BASE.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Stack.Reset()
	cpu.I = 0
	cpu.Pc = PROGRAM_BASE
	cpu.Delay = 0
	cpu.Sound = 0
	cpu.Ticks = 0
	cpu.Unknown = 0

	copy(cpu.Memory[FONT_BASE:], Font[:])
}

// Load copies a program image to PROGRAM_BASE.
func (cpu *Cpu) Load(program []uint8) (err error) {
	if len(program) > PROGRAM_LIMIT {
		err = ErrProgramSize
		return
	}

	copy(cpu.Memory[PROGRAM_BASE:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", cpu.Pc)
	text += fmt.Sprintf("    i: %03X\n", cpu.I)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("   v%X: %02X\n", n, val)
	}
	if val, ok := cpu.Stack.Peek(); ok {
		text += fmt.Sprintf("stack: %03X (%d)\n", val, cpu.Stack.Depth())
	} else {
		text += "stack: ---\n"
	}
	text += fmt.Sprintf("delay: %02X\n", cpu.Delay)
	text += fmt.Sprintf("sound: %02X\n", cpu.Sound)

	return
}

// Fetch reads the instruction at the program counter, and advances past it.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if int(cpu.Pc)+2 > MEMORY_SIZE {
		err = ErrPcRange
		return
	}

	code = Code(cpu.Memory[cpu.Pc])<<8 | Code(cpu.Memory[cpu.Pc+1])
	cpu.Pc += 2

	return
}

// Step executes a single instruction cycle.
// On failure the program counter is left at the failing instruction.
func (cpu *Cpu) Step() (err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code.Decode())
	if err != nil {
		cpu.Pc -= 2
		return
	}

	cpu.Ticks++

	return
}

// TickTimers decrements the non-zero timers. It returns true if the sound
// timer was running, and so a tone should be played.
func (cpu *Cpu) TickTimers() (tone bool) {
	if cpu.Sound > 0 {
		cpu.Sound--
		tone = true
	}

	if cpu.Delay > 0 {
		cpu.Delay--
	}

	return
}

// span checks that count bytes at addr are within memory.
func (cpu *Cpu) span(addr uint16, count int) (err error) {
	if int(addr)+count > MEMORY_SIZE {
		err = ErrMemoryRange
	}
	return
}

// read returns count bytes of memory at addr.
func (cpu *Cpu) read(addr uint16, count int) (data []uint8, err error) {
	err = cpu.span(addr, count)
	if err != nil {
		return
	}

	data = cpu.Memory[addr : int(addr)+count]
	return
}

// write stores data to memory at addr. The font glyphs are read only.
func (cpu *Cpu) write(addr uint16, data ...uint8) (err error) {
	err = cpu.span(addr, len(data))
	if err != nil {
		return
	}

	if len(data) > 0 && int(addr) < FONT_BASE+FONT_SIZE && int(addr)+len(data) > FONT_BASE {
		err = ErrMemoryReadOnly
		return
	}

	copy(cpu.Memory[addr:], data)
	return
}

// setFlag writes the flag register.
func (cpu *Cpu) setFlag(set bool) {
	if set {
		cpu.Register[REG_FLAG] = 1
	} else {
		cpu.Register[REG_FLAG] = 0
	}
}

// Execute executes a single decoded instruction. The program counter
// has already been advanced past it.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst.Code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%03x: %04x %v", cpu.Pc-2, uint16(inst.Code), inst)
	}

	next_pc := cpu.Pc

	reg := &cpu.Register
	x := inst.X & 0xf
	vx := reg[x]
	vy := reg[inst.Y&0xf]

	switch inst.Op {
	case OP_CLEAR:
		if cpu.Display == nil {
			err = ErrNoDisplay
			return
		}
		cpu.Display.Clear()
	case OP_RETURN:
		var ok bool
		next_pc, ok = cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
	case OP_JUMP:
		next_pc = inst.NNN
	case OP_CALL:
		if cpu.Stack.Full() {
			err = ErrStackFull
			return
		}
		cpu.Stack.Push(next_pc)
		next_pc = inst.NNN
	case OP_SKIP_EQ_CONST:
		if vx == inst.NN {
			next_pc += 2
		}
	case OP_SKIP_NE_CONST:
		if vx != inst.NN {
			next_pc += 2
		}
	case OP_SKIP_EQ_REG:
		if vx == vy {
			next_pc += 2
		}
	case OP_SKIP_NE_REG:
		if vx != vy {
			next_pc += 2
		}
	case OP_SET_CONST:
		reg[x] = inst.NN
	case OP_ADD_CONST:
		reg[x] = vx + inst.NN
	case OP_COPY:
		reg[x] = vy
	case OP_OR:
		reg[x] = vx | vy
		cpu.setFlag(false)
	case OP_AND:
		reg[x] = vx & vy
		cpu.setFlag(false)
	case OP_XOR:
		reg[x] = vx ^ vy
		cpu.setFlag(false)
	case OP_ADD:
		sum := uint16(vx) + uint16(vy)
		reg[x] = uint8(sum)
		cpu.setFlag(sum > 0xff)
	case OP_SUB:
		reg[x] = vx - vy
		cpu.setFlag(vx >= vy)
	case OP_SUBN:
		reg[x] = vy - vx
		cpu.setFlag(vy >= vx)
	case OP_SHR:
		reg[x] = vy >> 1
		cpu.setFlag((vy & 1) != 0)
	case OP_SHL:
		reg[x] = vy << 1
		cpu.setFlag((vy >> 7) != 0)
	case OP_SET_INDEX:
		cpu.I = inst.NNN & INDEX_MASK
	case OP_JUMP_OFFSET:
		next_pc = uint16(reg[0]) + inst.NNN
	case OP_RANDOM:
		reg[x] = cpu.Random() & inst.NN
	case OP_DRAW:
		if cpu.Display == nil {
			err = ErrNoDisplay
			return
		}
		if !cpu.Display.FrameReady() {
			// Re-issue until the next frame.
			next_pc -= 2
			break
		}
		err = cpu.draw(int(vx), int(vy), int(inst.N))
		if err != nil {
			return
		}
	case OP_SKIP_KEY_DOWN:
		if cpu.Input == nil {
			err = ErrNoInput
			return
		}
		if cpu.Input.KeyDown(vx) {
			next_pc += 2
		}
	case OP_SKIP_KEY_UP:
		if cpu.Input == nil {
			err = ErrNoInput
			return
		}
		if !cpu.Input.KeyDown(vx) {
			next_pc += 2
		}
	case OP_GET_DELAY:
		reg[x] = cpu.Delay
	case OP_SET_DELAY:
		cpu.Delay = vx
	case OP_SET_SOUND:
		cpu.Sound = vx
	case OP_ADD_INDEX:
		cpu.I += uint16(vx)
		cpu.setFlag(cpu.I > INDEX_MASK)
	case OP_WAIT_KEY:
		if cpu.Input == nil {
			err = ErrNoInput
			return
		}
		key, ok := cpu.Input.TakeReleased()
		if !ok {
			// Re-issue until a key is released.
			next_pc -= 2
			break
		}
		reg[x] = key
	case OP_FONT:
		cpu.I = FONT_BASE + uint16(vx)*FONT_GLYPH_SIZE
	case OP_BCD:
		err = cpu.write(cpu.I, vx/100, (vx/10)%10, vx%10)
		if err != nil {
			return
		}
	case OP_STORE:
		count := int(x) + 1
		err = cpu.write(cpu.I, reg[:count]...)
		if err != nil {
			return
		}
		cpu.I += uint16(count)
	case OP_LOAD:
		count := int(x) + 1
		var data []uint8
		data, err = cpu.read(cpu.I, count)
		if err != nil {
			return
		}
		copy(reg[:count], data)
		cpu.I += uint16(count)
	case OP_UNKNOWN:
		cpu.Unknown++
		if cpu.Verbose {
			log.Printf("cpu: %03x: unknown instruction 0x%04x", cpu.Pc-2, uint16(inst.Code))
		}
	default:
		panic(fmt.Sprintf("cpu: unhandled op %v", inst.Op))
	}

	cpu.Pc = next_pc

	return
}

// draw xors an n row sprite from memory at I onto the display, with its
// top left corner at (x, y) wrapped onto the screen. The sprite itself is
// clipped at the screen edges. The flag register is set if any lit pixel
// was turned off.
func (cpu *Cpu) draw(x, y, n int) (err error) {
	x %= io.SCREEN_WIDTH
	y %= io.SCREEN_HEIGHT

	rows := min(n, io.SCREEN_HEIGHT-y)
	sprite, err := cpu.read(cpu.I, rows)
	if err != nil {
		return
	}

	collided := false
	for row, bits := range sprite {
		for col := range min(8, io.SCREEN_WIDTH-x) {
			if (bits & (0x80 >> col)) == 0 {
				continue
			}
			if cpu.Display.Toggle(x+col, y+row) {
				collided = true
			}
		}
	}

	cpu.setFlag(collided)
	cpu.Display.Present()

	return
}
