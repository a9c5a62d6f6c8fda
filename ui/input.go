package ui

import (
	"github.com/veandco/go-sdl2/sdl"

	"nestor/console"
)

// defaultKeymap binds port 1's keyboard layout, grounded on the teacher's
// hw/input_mapping.go scancode-polling approach (sdl.GetKeyboardState) in
// place of its standalone capture-window prototype.
var defaultKeymap = map[sdl.Scancode]console.ControllerState{
	sdl.SCANCODE_X:      console.ButtonA,
	sdl.SCANCODE_Z:      console.ButtonB,
	sdl.SCANCODE_RSHIFT: console.ButtonSelect,
	sdl.SCANCODE_RETURN: console.ButtonStart,
	sdl.SCANCODE_UP:     console.ButtonUp,
	sdl.SCANCODE_DOWN:   console.ButtonDown,
	sdl.SCANCODE_LEFT:   console.ButtonLeft,
	sdl.SCANCODE_RIGHT:  console.ButtonRight,
}

// PollPort1 reads the live SDL keyboard state into a ControllerState using
// defaultKeymap. Call it once per frame, right before Console.StepFrame.
func PollPort1() console.ControllerState {
	kb := sdl.GetKeyboardState()
	var s console.ControllerState
	for code, btn := range defaultKeymap {
		if kb[code] != 0 {
			s |= btn
		}
	}
	return s
}
