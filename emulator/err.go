// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Addr   uint16 // Address of the failing instruction.
	LineNo int    // Source line, if a listing is available.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("%03x: %v", err.Addr, err.Err)
	}
	return f("%03x: line %d %v", err.Addr, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
