package ui

import (
	"github.com/veandco/go-sdl2/sdl"

	"nestor/console"
)

// Run opens a window and an audio device, then drives c interactively at
// roughly 60Hz until the window is closed. It mirrors the teacher's
// emu/window.go ShowWindow event loop (poll, step, present) generalized
// to run against this module's Console instead of being wired directly
// into a splash-screen/logo demo.
func Run(c *console.Console, title string, scale int) error {
	fb := c.Framebuffer()
	win, err := NewWindow(title, fb.Bounds().Dx(), fb.Bounds().Dy(), scale)
	if err != nil {
		return err
	}
	defer win.Close()

	audioOut, err := OpenAudioOut()
	if err != nil {
		return err
	}
	defer audioOut.Close()

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				running = false
			}
		}

		inputs := [2]console.ControllerState{PollPort1(), 0}
		pcm := c.StepFrame(inputs)
		audioOut.Queue(pcm)
		win.Present(c.Framebuffer().Pix)
	}
	return nil
}
