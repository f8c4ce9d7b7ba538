// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package config

import (
	"errors"
	"strings"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrRateInvalid   = errors.New(f("rate invalid"))
	ErrScaleInvalid  = errors.New(f("scale invalid"))
	ErrKeyInvalid    = errors.New(f("keypad key invalid"))
	ErrKeyDuplicate  = errors.New(f("host key duplicated"))
	ErrKeyUnassigned = errors.New(f("host key unassigned"))
)

// ErrUndecoded lists the configuration fields that were not understood.
type ErrUndecoded []string

func (err ErrUndecoded) Error() string {
	return f("unknown fields: %v", strings.Join(err, ", "))
}

// ErrKey names the key of a keypad configuration error.
type ErrKey string

func (err ErrKey) Error() string {
	return f("key '%v'", string(err))
}
