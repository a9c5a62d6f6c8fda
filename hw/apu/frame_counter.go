package apu

import "nestor/hw/hwdefs"

// frameType identifies what a frame-counter step clocks: nothing, just the
// envelopes/linear counter (quarter frame), or those plus the length
// counters/sweep units (half frame).
type frameType uint8

const (
	noFrame frameType = iota
	quarterFrame
	halfFrame
)

var fcStepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

var fcFrameType = [2][6]frameType{
	{quarterFrame, halfFrame, quarterFrame, noFrame, halfFrame, noFrame},
	{quarterFrame, halfFrame, quarterFrame, noFrame, halfFrame, noFrame},
}

// frameCounter sequences the APU's envelope/sweep/length-counter ticks in
// either a 4-step (with IRQ) or 5-step (no IRQ) pattern, selected by $4017.
type frameCounter struct {
	apu apu
	cpu cpu

	prevCycle         int32
	curStep           uint32
	stepMode          uint32 // 0: 4-step mode, 1: 5-step mode
	inhibitIRQ        bool
	blockTick         uint8
	newVal            int16
	writeDelayCounter int8
}

func newFrameCounter(a apu, c cpu) frameCounter {
	return frameCounter{apu: a, cpu: c}
}

func (fc *frameCounter) reset(soft bool) {
	fc.prevCycle = 0
	if !soft {
		fc.stepMode = 0
	}
	fc.curStep = 0

	// After reset or power-up, the APU behaves as if $00 had been written to
	// $4017 nine to twelve cycles before the first instruction; CPU.Reset
	// models that delay by priming newVal here rather than at construction.
	fc.newVal = 0
	if fc.stepMode != 0 {
		fc.newVal = 0x80
	}
	fc.writeDelayCounter = 3
	fc.inhibitIRQ = false
	fc.blockTick = 0
}

func (fc *frameCounter) write(val uint8) {
	fc.apu.Run()
	fc.newVal = int16(val)

	if fc.cpu.CurrentCycle()&0x01 != 0 {
		// Write between APU cycles: effects land 4 CPU cycles later.
		fc.writeDelayCounter = 4
	} else {
		fc.writeDelayCounter = 3
	}

	fc.inhibitIRQ = val&0x40 == 0x40
	if fc.inhibitIRQ {
		fc.cpu.ClearIRQSource(hwdefs.FrameCounter)
	}
}

func (fc *frameCounter) run(cyclesToRun *int32) uint32 {
	var cyclesRan int32

	if fc.prevCycle+*cyclesToRun >= fcStepCycles[fc.stepMode][fc.curStep] {
		if !fc.inhibitIRQ && fc.stepMode == 0 && fc.curStep >= 3 {
			fc.cpu.SetIRQSource(hwdefs.FrameCounter)
		}

		ftyp := fcFrameType[fc.stepMode][fc.curStep]
		if ftyp != noFrame && fc.blockTick == 0 {
			fc.apu.tickFrame(ftyp)
			// Writes to $4017 don't clock the sequencer for the next cycle
			// (this odd cycle plus the following even one).
			fc.blockTick = 2
		}

		if fcStepCycles[fc.stepMode][fc.curStep] < fc.prevCycle {
			cyclesRan = 0 // PAL/NTSC switch mid-sequence; avoid an underflow freeze.
		} else {
			cyclesRan = fcStepCycles[fc.stepMode][fc.curStep] - fc.prevCycle
		}
		*cyclesToRun -= cyclesRan

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.prevCycle = 0
		} else {
			fc.prevCycle += cyclesRan
		}
	} else {
		cyclesRan = *cyclesToRun
		*cyclesToRun = 0
		fc.prevCycle += cyclesRan
	}

	if fc.newVal >= 0 {
		fc.writeDelayCounter--
		if fc.writeDelayCounter == 0 {
			if fc.newVal&0x80 == 0x80 {
				fc.stepMode = 1
			} else {
				fc.stepMode = 0
			}
			fc.writeDelayCounter = -1
			fc.curStep = 0
			fc.prevCycle = 0
			fc.newVal = -1

			if fc.stepMode != 0 && fc.blockTick == 0 {
				// Bit 7 set clocks both quarter and half frame units at once.
				fc.apu.tickFrame(halfFrame)
				fc.blockTick = 2
			}
		}
	}

	if fc.blockTick > 0 {
		fc.blockTick--
	}

	return uint32(cyclesRan)
}

func (fc *frameCounter) needToRun(cyclesToRun uint32) bool {
	return fc.newVal >= 0 ||
		fc.blockTick > 0 ||
		fc.prevCycle+int32(cyclesToRun) >= fcStepCycles[fc.stepMode][fc.curStep]-1
}

func (fc *frameCounter) saveState(s *stateFrameCounter) {
	s.PrevCycle, s.CurStep, s.StepMode = fc.prevCycle, fc.curStep, fc.stepMode
	s.InhibitIRQ, s.BlockTick = fc.inhibitIRQ, fc.blockTick
	s.NewVal, s.WriteDelayCounter = fc.newVal, fc.writeDelayCounter
}

func (fc *frameCounter) setState(s *stateFrameCounter) {
	fc.prevCycle, fc.curStep, fc.stepMode = s.PrevCycle, s.CurStep, s.StepMode
	fc.inhibitIRQ, fc.blockTick = s.InhibitIRQ, s.BlockTick
	fc.newVal, fc.writeDelayCounter = s.NewVal, s.WriteDelayCounter
}
