// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sdl

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrSdl reports the SDL operation that failed.
type ErrSdl struct {
	Op  string
	Err error
}

func (err *ErrSdl) Error() string {
	return f("sdl: %v: %v", err.Op, err.Err)
}

func (err *ErrSdl) Unwrap() error {
	return err.Err
}
