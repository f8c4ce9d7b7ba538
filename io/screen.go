// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"iter"
	"maps"
	"strings"
	"time"
)

const (
	SCREEN_WIDTH  = 64 // Display width, in pixels.
	SCREEN_HEIGHT = 32 // Display height, in pixels.
)

var _screen_defines = map[string]string{
	"SCREEN_WIDTH":  "64",
	"SCREEN_HEIGHT": "32",
}

// Screen is an in-memory Display.
//
// With a nil Clock (or a zero FrameHz) the frame window is always open.
type Screen struct {
	Clock   Clock // Time source for the frame window.
	FrameHz int   // Maximum presentation rate.

	Presents int // Number of accepted presentations.

	pixel       [SCREEN_HEIGHT][SCREEN_WIDTH]bool
	lastPresent time.Time
}

var _ Display = (*Screen)(nil)

// NewScreen creates a screen limited to frameHz presentations per second.
func NewScreen(clock Clock, frameHz int) (scr *Screen) {
	scr = &Screen{
		Clock:   clock,
		FrameHz: frameHz,
	}

	if clock != nil {
		scr.lastPresent = clock.Now()
	}

	return
}

// Defines returns the screen geometry defines.
func Defines() iter.Seq2[string, string] {
	return maps.All(_screen_defines)
}

// Clear all pixels.
func (scr *Screen) Clear() {
	clear(scr.pixel[:])
}

// Toggle the pixel at (x, y), returning the previous state.
// Coordinates off the grid are ignored.
func (scr *Screen) Toggle(x, y int) (was bool) {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return
	}

	was = scr.pixel[y][x]
	scr.pixel[y][x] = !was

	return
}

// Pixel returns the state of the pixel at (x, y).
func (scr *Screen) Pixel(x, y int) bool {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return false
	}

	return scr.pixel[y][x]
}

// Present records the presentation time.
func (scr *Screen) Present() {
	scr.Presents++
	if scr.Clock != nil {
		scr.lastPresent = scr.Clock.Now()
	}
}

// FrameReady is true once a frame period has elapsed since the last Present().
func (scr *Screen) FrameReady() bool {
	if scr.Clock == nil || scr.FrameHz <= 0 {
		return true
	}

	period := time.Second / time.Duration(scr.FrameHz)

	return scr.Clock.Now().Sub(scr.lastPresent) >= period
}

// Rows iterates over the pixel rows, top to bottom.
func (scr *Screen) Rows() iter.Seq2[int, []bool] {
	return func(yield func(y int, row []bool) bool) {
		for y := range scr.pixel {
			if !yield(y, scr.pixel[y][:]) {
				return
			}
		}
	}
}

// String renders the grid as text, '#' for lit pixels and '.' otherwise.
func (scr *Screen) String() string {
	var sb strings.Builder

	for _, row := range scr.Rows() {
		for _, lit := range row {
			if lit {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
