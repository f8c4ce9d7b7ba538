// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

const (
	KEY_COUNT = 16 // Number of keys on the keypad.
)

// KeyEvent is a single keypad state change, or a quit request.
type KeyEvent struct {
	Key  uint8 // Key 0x0 - 0xF.
	Down bool  // Set if pressed, clear if released.
	Quit bool  // Set to request termination, Key and Down are ignored.
}

// Keypad is an event driven Input.
//
// Front ends queue events with Send(). Each Pump() clears the released key
// latch, then applies queued events up to and including the first key
// event, so that a quick press and release spans at least two pumps.
type Keypad struct {
	key         [KEY_COUNT]bool
	released    uint8
	hasReleased bool

	events []KeyEvent
}

var _ Input = (*Keypad)(nil)

// Send queues an event for the next Pump().
func (kp *Keypad) Send(event KeyEvent) {
	kp.events = append(kp.events, event)
}

// Pending returns the number of queued events.
func (kp *Keypad) Pending() int {
	return len(kp.events)
}

// Pump applies queued events.
func (kp *Keypad) Pump() (quit bool) {
	kp.hasReleased = false

	for len(kp.events) > 0 {
		event := kp.events[0]
		kp.events = kp.events[1:]

		if event.Quit {
			quit = true
			return
		}

		if event.Key >= KEY_COUNT {
			continue
		}

		kp.key[event.Key] = event.Down
		if !event.Down {
			kp.released = event.Key
			kp.hasReleased = true
		}
		break
	}

	return
}

// KeyDown reports if the key is held. Keys beyond 0xF are never down.
func (kp *Keypad) KeyDown(key uint8) bool {
	if key >= KEY_COUNT {
		return false
	}

	return kp.key[key]
}

// TakeReleased returns the key released during the last Pump(), once.
func (kp *Keypad) TakeReleased() (key uint8, ok bool) {
	if !kp.hasReleased {
		return
	}

	key, ok = kp.released, true
	kp.hasReleased = false

	return
}

// Reset releases all keys and drops queued events.
func (kp *Keypad) Reset() {
	clear(kp.key[:])
	kp.hasReleased = false
	kp.events = nil
}
