// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sdl

import (
	"log"
	"strings"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/chip8/io"
)

// Keyboard is an io.Keypad fed from SDL keyboard events.
//
// Closing the window or pressing Escape requests a quit.
type Keyboard struct {
	io.Keypad
	Verbose bool // If set, logs unmapped keys.

	KeyMap map[string]uint8 // Upper case SDL scancode names to keypad keys.
}

var _ io.Input = (*Keyboard)(nil)

// NewKeyboard creates a keyboard with a host key name to keypad key map.
func NewKeyboard(keymap map[string]uint8) (kb *Keyboard) {
	kb = &Keyboard{
		KeyMap: make(map[string]uint8, len(keymap)),
	}

	for name, key := range keymap {
		kb.KeyMap[strings.ToUpper(name)] = key
	}

	return
}

// Pump queues all pending SDL events, then applies them to the keypad.
func (kb *Keyboard) Pump() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		kb.queue(event)
	}

	return kb.Keypad.Pump()
}

// queue converts an SDL event into a keypad event.
func (kb *Keyboard) queue(event sdl.Event) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		kb.Send(io.KeyEvent{Quit: true})
	case *sdl.KeyboardEvent:
		if ev.Repeat != 0 {
			return
		}

		if ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
			kb.Send(io.KeyEvent{Quit: true})
			return
		}

		name := strings.ToUpper(sdl.GetScancodeName(ev.Keysym.Scancode))
		key, ok := kb.KeyMap[name]
		if !ok {
			if kb.Verbose {
				log.Printf("sdl: key %q not mapped", name)
			}
			return
		}

		kb.Send(io.KeyEvent{Key: key, Down: ev.Type == sdl.KEYDOWN})
	}
}
