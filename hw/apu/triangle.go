package apu

// triangleChannel: timer, 32-step sequencer, length counter, linear
// counter, 4-bit DAC.
type triangleChannel struct {
	apu        apu
	lenCounter lengthCounter
	timer      timer

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8
}

func newTriangleChannel(a apu, mx mixer) triangleChannel {
	return triangleChannel{
		apu:        a,
		lenCounter: lengthCounter{channel: Triangle, apu: a},
		timer:      timer{channel: Triangle, mixer: mx},
	}
}

var triangleSequence = [32]int8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) run(targetCycle uint32) {
	for tc.timer.run(targetCycle) {
		if tc.lenCounter.status() && tc.linearCounter > 0 {
			tc.pos = (tc.pos + 1) & 0x1F
			if tc.timer.period >= 2 {
				// Silencing below period 2 removes ultrasonic "pops".
				tc.timer.addOutput(triangleSequence[tc.pos])
			}
		}
	}
}

func (tc *triangleChannel) reset(soft bool) {
	tc.timer.reset(soft)
	tc.lenCounter.reset(soft)
	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}

func (tc *triangleChannel) writeLinear(val uint8) {
	tc.apu.Run()
	tc.linearCtrl = val&0x80 == 0x80
	tc.linearCounterReload = val & 0x7F
	tc.lenCounter.init(tc.linearCtrl)
}

func (tc *triangleChannel) writeTimerLo(val uint8) {
	tc.apu.Run()
	tc.timer.period = (tc.timer.period & 0xFF00) | uint16(val)
}

func (tc *triangleChannel) writeTimerHi(val uint8) {
	tc.apu.Run()
	tc.lenCounter.load(val >> 3)
	tc.timer.period = (tc.timer.period & 0xFF) | (uint16(val&0x07) << 8)
	tc.linearReload = true
}

func (tc *triangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}
	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) tickLengthCounter()   { tc.lenCounter.tick() }
func (tc *triangleChannel) reloadLengthCounter() { tc.lenCounter.reload() }
func (tc *triangleChannel) endFrame()            { tc.timer.endFrame() }
func (tc *triangleChannel) setEnabled(enabled bool) { tc.lenCounter.setEnabled(enabled) }
func (tc *triangleChannel) status() bool         { return tc.lenCounter.status() }
func (tc *triangleChannel) output() uint8        { return uint8(tc.timer.lastOutput) }

func (tc *triangleChannel) saveState(s *stateTriangle) {
	tc.lenCounter.saveState(&s.LengthCounter)
	tc.timer.saveState(&s.Timer)
	s.LinearCounter, s.LinearCounterReload = tc.linearCounter, tc.linearCounterReload
	s.LinearReload, s.LinearCtrl, s.Pos = tc.linearReload, tc.linearCtrl, tc.pos
}

func (tc *triangleChannel) setState(s *stateTriangle) {
	tc.lenCounter.setState(&s.LengthCounter)
	tc.timer.setState(&s.Timer)
	tc.linearCounter, tc.linearCounterReload = s.LinearCounter, s.LinearCounterReload
	tc.linearReload, tc.linearCtrl, tc.pos = s.LinearReload, s.LinearCtrl, s.Pos
}
