package apu

import "nestor/hw/hwdefs"

// dmcChannel (Delta Modulation Channel) streams 1-bit deltas fetched by DMA
// from cartridge space into a 7-bit DAC: DMA reader, timer, output shift
// register, 7-bit counter.
type dmcChannel struct {
	apu   apu
	cpu   cpu
	timer timer

	sampleAddr uint16
	sampleLen  uint16
	outlvl     uint8
	irqEnabled bool
	loop       bool

	curAddr   uint16
	remaining uint16
	readBuf   uint8
	bufEmpty  bool

	shiftReg     uint8
	bitsLeft     uint8
	silence      bool
	needToRun    bool
	disableDelay uint8
	startDelay   uint8
}

func newDMCChannel(a apu, c cpu, mx mixer) dmcChannel {
	return dmcChannel{
		apu:     a,
		cpu:     c,
		silence: true,
		timer:   timer{channel: DMC, mixer: mx},
	}
}

var dmcPeriodLUT = [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54}

func (dc *dmcChannel) initSample() {
	dc.curAddr = dc.sampleAddr
	dc.remaining = dc.sampleLen
	dc.needToRun = dc.needToRun || dc.remaining > 0
}

func (dc *dmcChannel) reset(soft bool) {
	dc.timer.reset(soft)
	if !soft {
		dc.sampleAddr = 0xC000
		dc.sampleLen = 1
	}
	dc.outlvl = 0
	dc.irqEnabled = false
	dc.loop = false
	dc.curAddr = 0
	dc.remaining = 0
	dc.readBuf = 0
	dc.bufEmpty = true
	dc.shiftReg = 0
	dc.bitsLeft = 8
	dc.silence = true
	dc.needToRun = false
	dc.startDelay = 0
	dc.disableDelay = 0
	dc.timer.period = dmcPeriodLUT[0] - 1
	// Avoid ticking on the very first cycle, matching dmc_dma_start tests.
	dc.timer.timerVal = dc.timer.period
}

func (dc *dmcChannel) writeFlags(val uint8) {
	dc.apu.Run()
	dc.irqEnabled = val&0x80 == 0x80
	dc.loop = val&0x40 == 0x40
	dc.timer.period = dmcPeriodLUT[val&0x0F] - 1
	if !dc.irqEnabled {
		dc.cpu.ClearIRQSource(hwdefs.DMC)
	}
}

func absInt8(x int8) int8 {
	mask := x >> 7
	return (x + mask) ^ mask
}

func (dc *dmcChannel) writeLoad(val uint8) {
	dc.apu.Run()
	newVal := val & 0x7F
	prev := dc.outlvl
	dc.outlvl = newVal
	if absInt8(int8(dc.outlvl)-int8(prev)) > 50 {
		dc.outlvl -= (dc.outlvl - prev) / 2
	}
	// $4011 writes apply immediately rather than on the timer's reload.
	dc.timer.addOutput(int8(dc.outlvl))
}

func (dc *dmcChannel) writeSampleAddr(val uint8) {
	dc.apu.Run()
	dc.sampleAddr = 0xC000 | uint16(val)<<6
}

func (dc *dmcChannel) writeSampleLen(val uint8) {
	dc.apu.Run()
	dc.sampleLen = uint16(val)<<4 | 0x1
}

func (dc *dmcChannel) startTransfer() {
	if dc.bufEmpty && dc.remaining > 0 {
		dc.cpu.StartDMCTransfer(dc.curAddr, dc.onByteFetched)
	}
}

func (dc *dmcChannel) onByteFetched(val uint8) {
	if dc.remaining > 0 {
		dc.readBuf = val
		dc.bufEmpty = false

		dc.curAddr++
		if dc.curAddr == 0 {
			dc.curAddr = 0x8000 // wraps to $8000, not $0000
		}
		dc.remaining--

		if dc.remaining == 0 {
			if dc.loop {
				dc.initSample() // looped samples never raise the IRQ
			} else if dc.irqEnabled {
				dc.cpu.SetIRQSource(hwdefs.DMC)
			}
		}
	}
}

func (dc *dmcChannel) run(targetCycle uint32) {
	for dc.timer.run(targetCycle) {
		if !dc.silence {
			if dc.shiftReg&0x01 != 0 {
				if dc.outlvl <= 125 {
					dc.outlvl += 2
				}
			} else if dc.outlvl >= 2 {
				dc.outlvl -= 2
			}
			dc.shiftReg >>= 1
		}

		dc.bitsLeft--
		if dc.bitsLeft == 0 {
			dc.bitsLeft = 8
			if dc.bufEmpty {
				dc.silence = true
			} else {
				dc.silence = false
				dc.shiftReg = dc.readBuf
				dc.bufEmpty = true
				dc.needToRun = true
				dc.startTransfer()
			}
		}

		dc.timer.addOutput(int8(dc.outlvl))
	}
}

func (dc *dmcChannel) irqPending(cyclesToRun uint32) bool {
	if dc.irqEnabled && dc.remaining > 0 {
		n := (uint32(dc.bitsLeft) + uint32(dc.remaining-1)*8) * uint32(dc.timer.period)
		return cyclesToRun >= n
	}
	return false
}

func (dc *dmcChannel) status() bool { return dc.remaining > 0 }
func (dc *dmcChannel) endFrame()    { dc.timer.endFrame() }

func (dc *dmcChannel) setEnabled(enabled bool) {
	if !enabled {
		if dc.disableDelay == 0 {
			if dc.cpu.CurrentCycle()&0x01 == 0 {
				dc.disableDelay = 2
			} else {
				dc.disableDelay = 3
			}
		}
		dc.needToRun = true
		return
	}
	if dc.remaining == 0 {
		dc.initSample()
		if dc.cpu.CurrentCycle()&0x01 == 0 {
			dc.startDelay = 2
		} else {
			dc.startDelay = 3
		}
		dc.needToRun = true
	}
}

func (dc *dmcChannel) processClock() {
	if dc.disableDelay != 0 {
		dc.disableDelay--
		if dc.disableDelay == 0 {
			dc.remaining = 0
			dc.cpu.StopDMCTransfer()
		}
	}
	if dc.startDelay != 0 {
		dc.startDelay--
		if dc.startDelay == 0 {
			dc.startTransfer()
		}
	}
	dc.needToRun = dc.disableDelay != 0 || dc.startDelay != 0 || dc.remaining != 0
}

func (dc *dmcChannel) NeedToRun() bool {
	if dc.needToRun {
		dc.processClock()
	}
	return dc.needToRun
}

func (dc *dmcChannel) output() uint8 { return uint8(dc.timer.lastOutput) }

func (dc *dmcChannel) saveState(s *stateDMC) {
	dc.timer.saveState(&s.Timer)
	s.SampleAddr, s.SampleLen, s.CurrentAddr, s.Remaining = dc.sampleAddr, dc.sampleLen, dc.curAddr, dc.remaining
	s.OutputLevel, s.ReadBuf, s.BitsLeft = dc.outlvl, dc.readBuf, dc.bitsLeft
	s.StartDelay, s.DisableDelay = dc.startDelay, dc.disableDelay
	s.IRQEnabled, s.Loop, s.BufEmpty = dc.irqEnabled, dc.loop, dc.bufEmpty
	s.ShiftReg, s.Silence, s.NeedToRun = dc.shiftReg, dc.silence, dc.needToRun
}

func (dc *dmcChannel) setState(s *stateDMC) {
	dc.timer.setState(&s.Timer)
	dc.sampleAddr, dc.sampleLen, dc.curAddr, dc.remaining = s.SampleAddr, s.SampleLen, s.CurrentAddr, s.Remaining
	dc.outlvl, dc.readBuf, dc.bitsLeft = s.OutputLevel, s.ReadBuf, s.BitsLeft
	dc.startDelay, dc.disableDelay = s.StartDelay, s.DisableDelay
	dc.irqEnabled, dc.loop, dc.bufEmpty = s.IRQEnabled, s.Loop, s.BufEmpty
	dc.shiftReg, dc.silence, dc.needToRun = s.ShiftReg, s.Silence, s.NeedToRun
}
