// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package term implements the display and keypad on an ANSI terminal.
//
// The display draws two pixel rows per character cell with half block
// glyphs. Terminals do not report key releases, so the keypad releases
// a key once it has not been seen for a number of pumps.
package term

import (
	"bufio"
	goio "io"

	"github.com/ezrec/chip8/io"
)

const (
	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// Glyphs for a cell, indexed by top pixel | bottom pixel << 1.
var cellGlyph = [4]string{" ", "▀", "▄", "█"}

// Display is an io.Screen rendered to a terminal.
type Display struct {
	*io.Screen

	output *bufio.Writer
}

var _ io.Display = (*Display)(nil)

// NewDisplay creates a display drawing to output.
func NewDisplay(output goio.Writer, clock io.Clock, frameHz int) (disp *Display) {
	disp = &Display{
		Screen: io.NewScreen(clock, frameHz),
		output: bufio.NewWriter(output),
	}

	disp.output.WriteString(ansiClear + ansiHideCursor)
	disp.render()

	return
}

// Clear the grid and the terminal.
func (disp *Display) Clear() {
	disp.Screen.Clear()
	disp.render()
}

// Present renders the whole grid to the terminal.
func (disp *Display) Present() {
	disp.Screen.Present()
	disp.render()
}

func (disp *Display) render() {
	out := disp.output

	out.WriteString(ansiHome)
	for y := 0; y < io.SCREEN_HEIGHT; y += 2 {
		for x := range io.SCREEN_WIDTH {
			cell := 0
			if disp.Pixel(x, y) {
				cell |= 1
			}
			if disp.Pixel(x, y+1) {
				cell |= 2
			}
			out.WriteString(cellGlyph[cell])
		}
		out.WriteString("\r\n")
	}

	out.Flush()
}

// Close restores the cursor.
func (disp *Display) Close() (err error) {
	disp.output.WriteString(ansiShowCursor + "\r\n")
	err = disp.output.Flush()

	return
}
