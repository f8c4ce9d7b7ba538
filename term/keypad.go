// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package term

import (
	goio "io"
	"log"
	"strings"

	tty "github.com/pkg/term"

	"github.com/ezrec/chip8/io"
)

const (
	HOLD_PUMPS = 70 // Default pumps before a key is released.

	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Keypad is an io.Keypad fed from terminal input.
//
// Ctrl-C, Escape, or the end of input requests a quit.
type Keypad struct {
	io.Keypad
	Verbose bool // If set, logs unmapped keys.

	KeyMap map[string]uint8 // Upper case characters to keypad keys.
	Hold   int              // Pumps a key stays down after it was last seen.

	tty   *tty.Term
	input chan byte
	done  chan struct{}
	held  map[uint8]int
}

var _ io.Input = (*Keypad)(nil)

// NewKeypad creates a keypad reading from input.
func NewKeypad(input goio.Reader, keymap map[string]uint8) (kp *Keypad) {
	kp = &Keypad{
		KeyMap: make(map[string]uint8, len(keymap)),
		Hold:   HOLD_PUMPS,
		input:  make(chan byte, 64),
		done:   make(chan struct{}),
		held:   make(map[uint8]int),
	}

	for name, key := range keymap {
		kp.KeyMap[strings.ToUpper(name)] = key
	}

	go kp.read(input)

	return
}

// OpenKeypad puts the terminal at path into raw mode, and reads keys from it.
func OpenKeypad(path string, keymap map[string]uint8) (kp *Keypad, err error) {
	t, err := tty.Open(path, tty.RawMode)
	if err != nil {
		return
	}

	kp = NewKeypad(t, keymap)
	kp.tty = t

	return
}

// read forwards input bytes until an error, or Close().
func (kp *Keypad) read(input goio.Reader) {
	defer close(kp.input)

	buf := make([]byte, 16)
	for {
		n, err := input.Read(buf)
		for _, b := range buf[:n] {
			select {
			case kp.input <- b:
			case <-kp.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// feed converts an input byte into keypad events.
func (kp *Keypad) feed(b byte) {
	switch b {
	case keyCtrlC, keyEscape:
		kp.Send(io.KeyEvent{Quit: true})
		return
	}

	name := strings.ToUpper(string(rune(b)))
	key, ok := kp.KeyMap[name]
	if !ok {
		if kp.Verbose {
			log.Printf("term: key %q not mapped", name)
		}
		return
	}

	if _, down := kp.held[key]; !down {
		kp.Send(io.KeyEvent{Key: key, Down: true})
	}
	kp.held[key] = kp.Hold
}

// age releases keys that have not been seen for Hold pumps.
func (kp *Keypad) age() {
	for key, left := range kp.held {
		left--
		if left > 0 {
			kp.held[key] = left
			continue
		}
		delete(kp.held, key)
		kp.Send(io.KeyEvent{Key: key, Down: false})
	}
}

// Pump applies the terminal input received since the last pump.
func (kp *Keypad) Pump() (quit bool) {
	kp.age()

	for pending := true; pending; {
		select {
		case b, ok := <-kp.input:
			if !ok {
				kp.input = nil
				kp.Send(io.KeyEvent{Quit: true})
				pending = false
				break
			}
			kp.feed(b)
		default:
			pending = false
		}
	}

	return kp.Keypad.Pump()
}

// Close restores the terminal.
func (kp *Keypad) Close() (err error) {
	close(kp.done)

	if kp.tty != nil {
		err = kp.tty.Restore()
		_ = kp.tty.Close()
		kp.tty = nil
	}

	return
}
