// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrRomTooLarge = errors.New(f("rom too large"))
	ErrRomEmpty    = errors.New(f("rom empty"))
	ErrToneInvalid = errors.New(f("tone invalid"))
)
