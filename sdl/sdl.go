// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package sdl implements the display, keypad and buzzer with SDL2.
//
// Init() must be called before creating any of the devices, and Quit()
// after they have all been closed. All calls must be made from the
// same goroutine.
package sdl

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Init the SDL video and audio subsystems.
func Init() (err error) {
	err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS)
	if err != nil {
		err = &ErrSdl{Op: "init", Err: err}
	}

	return
}

// Quit SDL.
func Quit() {
	sdl.Quit()
}
