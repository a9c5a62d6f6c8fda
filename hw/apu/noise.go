package apu

// noiseChannel generates pseudo-random 1-bit noise at 16 frequencies via a
// 15-bit linear feedback shift register.
type noiseChannel struct {
	apu      apu
	envelope envelope
	timer    timer

	shiftReg uint16
	mode     bool
}

func newNoiseChannel(a apu, mx mixer) noiseChannel {
	return noiseChannel{
		apu:      a,
		envelope: envelope{lenCounter: lengthCounter{channel: Noise, apu: a}},
		timer:    timer{channel: Noise, mixer: mx},
	}
}

var noisePeriodLUT = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}

func (nc *noiseChannel) writeVolume(val uint8) {
	nc.apu.Run()
	nc.envelope.init(val)
}

func (nc *noiseChannel) writePeriod(val uint8) {
	nc.apu.Run()
	nc.timer.period = noisePeriodLUT[val&0x0F] - 1
	nc.mode = val&0x80 != 0
}

func (nc *noiseChannel) writeLength(val uint8) {
	nc.apu.Run()
	nc.envelope.lenCounter.load(val >> 3)
	nc.envelope.restart()
}

func (nc *noiseChannel) isMuted() bool { return nc.shiftReg&0x01 == 0x01 }

func (nc *noiseChannel) run(targetCycle uint32) {
	for nc.timer.run(targetCycle) {
		modebit := uint(1)
		if nc.mode {
			modebit = 6
		}
		feedback := (nc.shiftReg & 0x01) ^ ((nc.shiftReg >> modebit) & 0x01)
		nc.shiftReg >>= 1
		nc.shiftReg |= feedback << 14

		if nc.isMuted() {
			nc.timer.addOutput(0)
		} else {
			nc.timer.addOutput(int8(nc.envelope.volume()))
		}
	}
}

func (nc *noiseChannel) reset(soft bool) {
	nc.envelope.reset(soft)
	nc.timer.reset(soft)
	nc.timer.period = noisePeriodLUT[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}

func (nc *noiseChannel) tickEnvelope()       { nc.envelope.tick() }
func (nc *noiseChannel) tickLengthCounter()  { nc.envelope.lenCounter.tick() }
func (nc *noiseChannel) reloadLengthCounter() { nc.envelope.lenCounter.reload() }
func (nc *noiseChannel) endFrame()           { nc.timer.endFrame() }
func (nc *noiseChannel) setEnabled(enabled bool) { nc.envelope.lenCounter.setEnabled(enabled) }
func (nc *noiseChannel) status() bool        { return nc.envelope.lenCounter.status() }
func (nc *noiseChannel) output() uint8       { return uint8(nc.timer.lastOutput) }

func (nc *noiseChannel) saveState(s *stateNoise) {
	nc.envelope.saveState(&s.Envelope)
	nc.timer.saveState(&s.Timer)
	s.ShiftReg, s.Mode = nc.shiftReg, nc.mode
}

func (nc *noiseChannel) setState(s *stateNoise) {
	nc.envelope.setState(&s.Envelope)
	nc.timer.setState(&s.Timer)
	nc.shiftReg, nc.mode = s.ShiftReg, s.Mode
}
