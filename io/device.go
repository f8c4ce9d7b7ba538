// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the collaborators the interpreter core talks to.
// It defines the Display, Input, Audio and Clock interfaces, together with
// headless implementations of each: a pixel grid (Screen), a key event
// queue (Keypad), a tone recorder (WavRecorder) and both wall-clock and
// manually advanced clocks.
package io

import (
	"time"
)

// Display is a 64x32 monochrome pixel grid.
type Display interface {
	// Clear turns off every pixel.
	Clear()
	// Toggle inverts the pixel at (x, y) and returns its previous state.
	Toggle(x, y int) (was bool)
	// Present makes the current grid visible.
	Present()
	// FrameReady reports if a new frame may be presented.
	FrameReady() bool
}

// Input is the 16 key hexadecimal keypad.
type Input interface {
	// KeyDown reports if the key is currently held.
	KeyDown(key uint8) bool
	// TakeReleased returns the most recently released key, once.
	TakeReleased() (key uint8, ok bool)
	// Pump refreshes the key state from the environment.
	// It returns true when a quit has been requested.
	Pump() (quit bool)
}

// Audio plays the buzzer tone.
type Audio interface {
	// PlayTone plays one timer tick worth of tone.
	PlayTone()
}

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
