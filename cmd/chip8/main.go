// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command chip8 runs, assembles, or disassembles programs for the
// 8-bit virtual machine.
//
//	chip8 [flags] ROM
//	chip8 [flags] -c SOURCE.asm
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/sdl"
	"github.com/ezrec/chip8/term"
)

var ErrUsage = errors.New("either a ROM or -c SOURCE is required")

// quitSignals stop the emulator, so the front ends are closed cleanly.
var quitSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

type options struct {
	compile     string
	save        string
	disassemble bool
	configPath  string
	useTerm     bool
	wav         string
	verbose     bool
	hz          int
	scale       int
	rom         string
}

func main() {
	var opts options

	flag.StringVar(&opts.compile, "c", "", "assembly source file to compile")
	flag.StringVar(&opts.save, "s", "", "save the program binary to a file, do not execute")
	flag.BoolVar(&opts.disassemble, "d", false, "disassemble the program, do not execute")
	flag.StringVar(&opts.configPath, "config", "", "TOML configuration file")
	flag.BoolVar(&opts.useTerm, "term", false, "use the terminal instead of an SDL window")
	flag.StringVar(&opts.wav, "wav", "", "record tones to a WAV file")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose mode")
	flag.IntVar(&opts.hz, "hz", 0, "instruction rate override")
	flag.IntVar(&opts.scale, "scale", 0, "window scale override")

	flag.Parse()

	switch {
	case flag.NArg() == 1 && len(opts.compile) == 0:
		opts.rom = flag.Arg(0)
	case flag.NArg() == 0 && len(opts.compile) != 0:
	default:
		log.Fatalf("%v: %v", os.Args[0], ErrUsage)
	}

	err := run(&opts)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}

// loadConfig reads the configuration, and applies the command line overrides.
func loadConfig(opts *options) (cfg *config.Config, err error) {
	cfg = config.Default()
	if len(opts.configPath) != 0 {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			err = fmt.Errorf("%v: %w", opts.configPath, err)
			return
		}
	}

	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.hz > 0 {
		cfg.CpuHz = opts.hz
	}
	if opts.scale > 0 {
		cfg.Scale = opts.scale
	}

	return
}

// loadProgram assembles the source, or reads the ROM image.
func loadProgram(opts *options) (prog *cpu.Program, rom []uint8, err error) {
	prog = &cpu.Program{}

	if len(opts.compile) == 0 {
		rom, err = io.ReadRom(opts.rom)
		if err != nil {
			err = fmt.Errorf("%v: %w", opts.rom, err)
		}
		return
	}

	inf, err := os.Open(opts.compile)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: opts.verbose}
	for key, value := range emulator.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", opts.compile, err)
		return
	}

	rom = prog.Binary()
	if len(rom) > io.ROM_LIMIT {
		err = fmt.Errorf("%v: %w", opts.compile, io.ErrRomTooLarge)
	}

	return
}

func run(opts *options) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return
	}

	keymap, err := cfg.KeyMap()
	if err != nil {
		return
	}

	prog, rom, err := loadProgram(opts)
	if err != nil {
		return
	}

	if len(opts.save) != 0 {
		return os.WriteFile(opts.save, rom, 0o644)
	}

	if opts.disassemble {
		for addr, inst := range cpu.Disassemble(rom, cpu.PROGRAM_BASE) {
			line := ""
			if dbg := prog.Debug(addr); dbg.Statement != nil {
				line = fmt.Sprintf("\t; line %d", dbg.LineNo)
			}
			fmt.Printf("%03x: %04x  %v%v\n", addr, uint16(inst.Code), inst, line)
		}
		return
	}

	clock := io.SystemClock{}

	var display io.Display
	var input io.Input
	var audio io.AudioGroup

	if opts.useTerm {
		disp := term.NewDisplay(os.Stdout, clock, cfg.FrameHz)
		defer disp.Close()
		display = disp

		var kp *term.Keypad
		kp, err = term.OpenKeypad("/dev/tty", keymap)
		if err != nil {
			return
		}
		defer kp.Close()
		kp.Verbose = cfg.Verbose
		input = kp
	} else {
		err = sdl.Init()
		if err != nil {
			return
		}
		defer sdl.Quit()

		var disp *sdl.Display
		disp, err = sdl.NewDisplay("chip8", clock, cfg.FrameHz, cfg.Scale)
		if err != nil {
			return
		}
		defer disp.Close()
		disp.Verbose = cfg.Verbose
		display = disp

		kb := sdl.NewKeyboard(keymap)
		kb.Verbose = cfg.Verbose
		input = kb

		var aud *sdl.Audio
		aud, err = sdl.NewAudio(cfg.Tone())
		if err != nil {
			return
		}
		defer aud.Close()
		aud.Verbose = cfg.Verbose
		audio = append(audio, aud)
	}

	if len(opts.wav) != 0 {
		var ouf *os.File
		ouf, err = os.Create(opts.wav)
		if err != nil {
			return
		}
		defer ouf.Close()

		var wr *io.WavRecorder
		wr, err = io.NewWavRecorder(ouf, cfg.Tone())
		if err != nil {
			return
		}
		defer func() {
			err = errors.Join(err, wr.Close())
		}()
		audio = append(audio, wr)
	}

	emu := emulator.NewEmulator(display, input, audio, clock)
	emu.Verbose = cfg.Verbose
	emu.CpuHz = cfg.CpuHz
	emu.TimerHz = cfg.TimerHz
	emu.Program = prog

	err = emu.Reset(rom)
	if err != nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), quitSignals...)
	defer stop()

	err = emu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil && cfg.Verbose {
		log.Printf("%v", emu.Cpu.String())
	}

	return
}
