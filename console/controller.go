package console

// ControllerState is the 8-bit latched button state of one NES controller
// port: bit 0 is A, and the rest follow the order the hardware shift
// register reports them in.
type ControllerState uint8

const (
	ButtonA ControllerState = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Pressed reports whether btn is held in state.
func (s ControllerState) Pressed(btn ControllerState) bool { return s&btn != 0 }
