// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"io"
	"os"
)

const (
	ROM_LIMIT = 4096 - 512 // Largest program image, in bytes.
)

// ReadRom reads a program image. Images larger than ROM_LIMIT are
// rejected rather than truncated.
func ReadRom(path string) (rom []byte, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return LoadRom(inf)
}

// LoadRom reads a program image from a stream.
func LoadRom(input io.Reader) (rom []byte, err error) {
	rom, err = io.ReadAll(io.LimitReader(input, ROM_LIMIT+1))
	if err != nil {
		return
	}

	switch {
	case len(rom) == 0:
		err = ErrRomEmpty
		rom = nil
	case len(rom) > ROM_LIMIT:
		err = ErrRomTooLarge
		rom = nil
	}

	return
}
