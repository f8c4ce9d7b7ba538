// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRom(t *testing.T) {
	assert := assert.New(t)

	rom, err := LoadRom(bytes.NewReader([]byte{0x60, 0x05, 0x70, 0x03}))
	assert.NoError(err)
	assert.Equal([]byte{0x60, 0x05, 0x70, 0x03}, rom)

	rom, err = LoadRom(bytes.NewReader(make([]byte, ROM_LIMIT)))
	assert.NoError(err)
	assert.Equal(ROM_LIMIT, len(rom))

	rom, err = LoadRom(bytes.NewReader(make([]byte, ROM_LIMIT+1)))
	assert.ErrorIs(err, ErrRomTooLarge)
	assert.Nil(rom)

	rom, err = LoadRom(bytes.NewReader(nil))
	assert.ErrorIs(err, ErrRomEmpty)
	assert.Nil(rom)
}

func TestReadRom(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.ch8")
	assert.NoError(os.WriteFile(path, []byte{0x00, 0xe0}, 0o644))

	rom, err := ReadRom(path)
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0xe0}, rom)

	_, err = ReadRom(filepath.Join(dir, "missing.ch8"))
	assert.ErrorIs(err, os.ErrNotExist)
}
