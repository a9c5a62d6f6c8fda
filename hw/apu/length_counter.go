package apu

// lengthCounter silences a channel after a programmed number of frame-
// counter half-frame ticks, unless halted.
type lengthCounter struct {
	channel Channel
	apu     apu

	newHalt       bool
	enabled       bool
	halt          bool
	counter       uint8
	reloadValue   uint8
	previousValue uint8
}

var lengthLUT = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

func (lc *lengthCounter) init(halt bool) {
	lc.apu.SetNeedToRun()
	lc.newHalt = halt
}

func (lc *lengthCounter) load(val uint8) {
	if lc.enabled {
		lc.reloadValue = lengthLUT[val&0x1F]
		lc.previousValue = lc.counter
		lc.apu.SetNeedToRun()
	}
}

func (lc *lengthCounter) reset(soft bool) {
	lc.enabled = false
	if soft && lc.channel == Triangle {
		// Triangle's length counter survives a soft reset.
		return
	}
	lc.halt = false
	lc.counter = 0
	lc.newHalt = false
	lc.reloadValue = 0
	lc.previousValue = 0
}

func (lc *lengthCounter) status() bool { return lc.counter > 0 }
func (lc *lengthCounter) isHalted() bool { return lc.halt }

func (lc *lengthCounter) reload() {
	if lc.reloadValue != 0 {
		if lc.counter == lc.previousValue {
			lc.counter = lc.reloadValue
		}
		lc.reloadValue = 0
	}
	lc.halt = lc.newHalt
}

func (lc *lengthCounter) tick() {
	if lc.counter > 0 && !lc.halt {
		lc.counter--
	}
}

func (lc *lengthCounter) setEnabled(enabled bool) {
	if !enabled {
		lc.counter = 0
	}
	lc.enabled = enabled
}

func (lc *lengthCounter) saveState(s *stateLengthCounter) {
	s.NewHalt, s.Enabled, s.Halt = lc.newHalt, lc.enabled, lc.halt
	s.Counter, s.ReloadValue, s.PreviousValue = lc.counter, lc.reloadValue, lc.previousValue
}

func (lc *lengthCounter) setState(s *stateLengthCounter) {
	lc.newHalt, lc.enabled, lc.halt = s.NewHalt, s.Enabled, s.Halt
	lc.counter, lc.reloadValue, lc.previousValue = s.Counter, s.ReloadValue, s.PreviousValue
}
