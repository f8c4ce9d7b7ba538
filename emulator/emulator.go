// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator paces the interpreter core against a clock.
//
// Each Tick samples the clock once. When a timer period has elapsed, the
// delay and sound timers are decremented and, if the sound timer was
// running, a tone is played. When an instruction period has elapsed, a
// single instruction is executed and the input is pumped.
package emulator

import (
	"context"
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
)

const (
	CPU_HZ   = 700 // Default instruction rate.
	TIMER_HZ = 60  // Default timer rate.
)

var _emulator_defines = map[string]string{
	"CPU_HZ":   fmt.Sprintf("%d", CPU_HZ),
	"TIMER_HZ": fmt.Sprintf("%d", TIMER_HZ),
}

// Emulator state. CPU + IO collaborators + pacing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the running program, if any.

	Audio io.Audio // Tone output, may be nil.
	Clock io.Clock // Time source.

	CpuHz   int // Instruction rate.
	TimerHz int // Timer decrement rate.

	Tones int // Tones requested since reset.

	lastTimer time.Time
	lastStep  time.Time
}

// NewEmulator creates a new emulator.
func NewEmulator(display io.Display, input io.Input, audio io.Audio, clock io.Clock) (emu *Emulator) {
	if clock == nil {
		clock = io.SystemClock{}
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(display, input),
		Program: &cpu.Program{},
		Audio:   audio,
		Clock:   clock,
		CpuHz:   CPU_HZ,
		TimerHz: TIMER_HZ,
	}

	emu.lastTimer = clock.Now()
	emu.lastStep = emu.lastTimer

	return
}

// Defines returns an iterator over all of the defines, for the assembler.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
		io.Defines(),
	)
}

// Reset the machine, and load a program image.
func (emu *Emulator) Reset(rom []uint8) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	err = emu.Cpu.Load(rom)
	if err != nil {
		return
	}

	if emu.Cpu.Display != nil {
		emu.Cpu.Display.Clear()
	}

	emu.Tones = 0
	emu.lastTimer = emu.Clock.Now()
	emu.lastStep = emu.lastTimer

	if emu.Verbose {
		log.Printf("emulator: reset, %d Hz cpu, %d Hz timers", emu.CpuHz, emu.TimerHz)
	}

	return
}

// LineNo returns the current line number for the executing statement.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// period returns the interval of a rate, or of the fallback rate if unset.
func period(hz int, fallback int) time.Duration {
	if hz <= 0 {
		hz = fallback
	}

	return time.Second / time.Duration(hz)
}

// advance moves a reference time forward by one period. A reference that
// has fallen more than a period behind now is resynchronized to now.
func advance(last time.Time, now time.Time, every time.Duration) time.Time {
	next := last.Add(every)
	if now.Sub(next) >= every {
		return now
	}

	return next
}

// Tick performs a single iteration of the scheduler.
// done is set when the input has requested a quit.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	now := emu.Clock.Now()

	timerPeriod := period(emu.TimerHz, TIMER_HZ)
	if now.Sub(emu.lastTimer) >= timerPeriod {
		emu.lastTimer = advance(emu.lastTimer, now, timerPeriod)
		if emu.Cpu.TickTimers() {
			emu.Tones++
			if emu.Audio != nil {
				emu.Audio.PlayTone()
			}
		}
	}

	stepPeriod := period(emu.CpuHz, CPU_HZ)
	if now.Sub(emu.lastStep) < stepPeriod {
		return
	}
	emu.lastStep = advance(emu.lastStep, now, stepPeriod)

	addr := emu.Cpu.Pc
	lineno := emu.LineNo()

	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Addr: addr, LineNo: lineno, Err: err}
		return
	}

	if emu.Cpu.Input != nil && emu.Cpu.Input.Pump() {
		if emu.Verbose {
			log.Printf("emulator: quit requested")
		}
		done = true
	}

	return
}

// untilNext returns the time remaining until the next scheduler action.
func (emu *Emulator) untilNext() time.Duration {
	now := emu.Clock.Now()

	timer := emu.lastTimer.Add(period(emu.TimerHz, TIMER_HZ)).Sub(now)
	step := emu.lastStep.Add(period(emu.CpuHz, CPU_HZ)).Sub(now)

	return min(timer, step)
}

// Run ticks the emulator until a quit is requested, an error occurs, or
// the context is done. Between ticks it sleeps until the next action is due.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}

		wait := emu.untilNext()
		if wait > 0 {
			emu.Clock.Sleep(wait)
		}
	}
}
