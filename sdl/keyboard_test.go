package sdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyboard_Queue(t *testing.T) {
	assert := assert.New(t)

	kb := NewKeyboard(map[string]uint8{"x": 0x0, "1": 0x1})
	assert.Equal(map[string]uint8{"X": 0x0, "1": 0x1}, kb.KeyMap)

	kb.queue(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_X}})
	kb.queue(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_X}})
	kb.queue(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_P}})
	kb.queue(&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_X}})
	assert.Equal(2, kb.Pending())

	assert.False(kb.Keypad.Pump())
	assert.True(kb.KeyDown(0x0))

	assert.False(kb.Keypad.Pump())
	assert.False(kb.KeyDown(0x0))
	key, ok := kb.TakeReleased()
	assert.True(ok)
	assert.Equal(uint8(0x0), key)
}

func TestKeyboard_Quit(t *testing.T) {
	assert := assert.New(t)

	kb := NewKeyboard(nil)

	kb.queue(&sdl.QuitEvent{Type: sdl.QUIT})
	assert.True(kb.Keypad.Pump())

	kb.queue(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}})
	assert.True(kb.Keypad.Pump())
}

func TestPcm(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]uint8{0x01, 0x00, 0xff, 0xff, 0x00, 0x80}, pcm([]int16{1, -1, -32768}))
	assert.Empty(pcm(nil))
}
