// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sdl

import (
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/chip8/io"
)

// Display is an io.Screen rendered to an SDL window.
type Display struct {
	*io.Screen
	Verbose bool // If set, logs rendering failures.

	window   *sdl.Window
	renderer *sdl.Renderer
}

var _ io.Display = (*Display)(nil)

// NewDisplay opens a window of scale window pixels per display pixel.
func NewDisplay(title string, clock io.Clock, frameHz int, scale int) (disp *Display, err error) {
	disp = &Display{
		Screen: io.NewScreen(clock, frameHz),
	}

	width := int32(io.SCREEN_WIDTH * scale)
	height := int32(io.SCREEN_HEIGHT * scale)

	disp.window, err = sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, sdl.WINDOW_SHOWN)
	if err != nil {
		disp = nil
		err = &ErrSdl{Op: "window", Err: err}
		return
	}

	disp.renderer, err = sdl.CreateRenderer(disp.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = disp.window.Destroy()
		disp = nil
		err = &ErrSdl{Op: "renderer", Err: err}
		return
	}

	// Let SDL scale the 64x32 grid to the window.
	err = disp.renderer.SetLogicalSize(io.SCREEN_WIDTH, io.SCREEN_HEIGHT)
	if err != nil {
		disp.Close()
		disp = nil
		err = &ErrSdl{Op: "scale", Err: err}
		return
	}

	disp.render()

	return
}

// Clear the grid and the window.
func (disp *Display) Clear() {
	disp.Screen.Clear()
	disp.render()
}

// Present renders the whole grid to the window.
func (disp *Display) Present() {
	disp.Screen.Present()
	disp.render()
}

func (disp *Display) render() {
	err := disp.draw()
	if err != nil && disp.Verbose {
		log.Printf("sdl: render: %v", err)
	}
}

func (disp *Display) draw() (err error) {
	ren := disp.renderer

	err = ren.SetDrawColor(0, 0, 0, 255)
	if err != nil {
		return
	}
	err = ren.Clear()
	if err != nil {
		return
	}

	err = ren.SetDrawColor(255, 255, 255, 255)
	if err != nil {
		return
	}
	for y, row := range disp.Rows() {
		for x, lit := range row {
			if !lit {
				continue
			}
			err = ren.FillRect(&sdl.Rect{X: int32(x), Y: int32(y), W: 1, H: 1})
			if err != nil {
				return
			}
		}
	}

	ren.Present()

	return
}

// Close the window.
func (disp *Display) Close() (err error) {
	if disp.renderer != nil {
		err = disp.renderer.Destroy()
		disp.renderer = nil
	}

	if disp.window != nil {
		_ = disp.window.Destroy()
		disp.window = nil
	}

	return
}
