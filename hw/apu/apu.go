// Package apu implements the 2A03's integrated audio unit: two square
// channels, triangle, noise, the DMC sample player, the frame counter that
// clocks their envelopes/sweeps/length counters, and a blip-based mixer
// that turns the per-channel delta stream into host-rate PCM.
package apu

import (
	"nestor/hw/hwdefs"
	"nestor/hw/snapshot"
	"nestor/log"
)

type (
	stateLengthCounter = snapshot.APULengthCounter
	stateEnvelope      = snapshot.APUEnvelope
	stateTimer         = snapshot.APUTimer
	stateSquare        = snapshot.APUSquare
	stateTriangle      = snapshot.APUTriangle
	stateNoise         = snapshot.APUNoise
	stateDMC           = snapshot.APUDMC
	stateFrameCounter  = snapshot.APUFrameCounter
)

const cycleLength = 1789773/60 + 100 // a frame's worth of CPU cycles, plus slack

// APU owns the five channels, the frame sequencer and the mixer, and
// dispatches the CPU-facing $4000-$4017 register window.
type APU struct {
	cpu   cpu
	mixer *Mixer

	square1  squareChannel
	square2  squareChannel
	triangle triangleChannel
	noise    noiseChannel
	dmc      dmcChannel
	frame    frameCounter

	curCycle   uint32
	prevCycle  uint32
	enabled    bool
	needToRun_ bool
}

// New wires the five channels and the frame counter against c (for IRQ
// lines and DMC DMA) and mx (for delta routing).
func New(c cpu, mx *Mixer) *APU {
	a := &APU{cpu: c, mixer: mx, enabled: true}
	a.square1 = newSquareChannel(a, mx, Square1, true)
	a.square2 = newSquareChannel(a, mx, Square2, false)
	a.triangle = newTriangleChannel(a, mx)
	a.noise = newNoiseChannel(a, mx)
	a.dmc = newDMCChannel(a, c, mx)
	a.frame = newFrameCounter(a, c)
	return a
}

func (a *APU) Reset(soft bool) {
	a.enabled = true
	a.curCycle = 0
	a.prevCycle = 0
	a.needToRun_ = false

	a.square1.reset(soft)
	a.square2.reset(soft)
	a.triangle.reset(soft)
	a.noise.reset(soft)
	a.dmc.reset(soft)
	a.frame.reset(soft)
	a.mixer.Reset()
}

// DroppedAudioSamples is the cumulative count of resampled audio samples
// lost to mixer overflow since power-on (see OverflowError).
func (a *APU) DroppedAudioSamples() int { return a.mixer.Dropped() }

func (a *APU) Enabled() bool           { return a.enabled }
func (a *APU) setEnabled(enabled bool) { a.enabled = enabled }

// SetNeedToRun flags that Run must advance the APU before the next CPU
// instruction completes, even if no frame-counter step is imminent.
func (a *APU) SetNeedToRun() { a.needToRun_ = true }

// Tick is called once per CPU cycle while the APU is enabled, advancing the
// frame-relative cycle counter Run measures against.
func (a *APU) Tick() {
	a.curCycle++
	if a.curCycle >= cycleLength {
		log.ModSound.WarnZ("APU cycle counter overran a frame; forcing EndFrame").End()
		a.EndFrame()
		return
	}
	if a.needToRun(a.curCycle) {
		a.Run()
	}
}

// Run advances the frame counter and every channel up to curCycle, flushing
// pending mixer deltas. Channels and the frame counter call it before any
// register write/read that could observe stale output.
func (a *APU) Run() {
	cyclesToRun := int32(a.curCycle - a.prevCycle)

	for cyclesToRun > 0 {
		a.prevCycle += a.frame.run(&cyclesToRun)

		// Run reloadLengthCounter after the frame counter so a 4003/4008/
		// 400B/400F write's pending reload is visible to the length-counter
		// clock that landed in the same batch, not the next one.
		a.square1.reloadLengthCounter()
		a.square2.reloadLengthCounter()
		a.noise.reloadLengthCounter()
		a.triangle.reloadLengthCounter()

		a.square1.run(a.prevCycle)
		a.square2.run(a.prevCycle)
		a.noise.run(a.prevCycle)
		a.triangle.run(a.prevCycle)
		a.dmc.run(a.prevCycle)
	}
}

// tickFrame is the frame counter's callback: a quarter frame always ticks
// envelopes and the triangle's linear counter; a half frame additionally
// ticks length counters and the sweep units.
func (a *APU) tickFrame(t frameType) {
	a.square1.tickEnvelope()
	a.square2.tickEnvelope()
	a.triangle.tickLinearCounter()
	a.noise.tickEnvelope()

	if t == halfFrame {
		a.square1.tickLengthCounter()
		a.square2.tickLengthCounter()
		a.triangle.tickLengthCounter()
		a.noise.tickLengthCounter()
		a.square1.tickSweep()
		a.square2.tickSweep()
	}
}

// EndFrame flushes the frame counter/channels up to the current cycle and
// returns this frame's resampled stereo PCM (see Mixer.DrainAudio).
func (a *APU) EndFrame() []int16 {
	a.dmc.processClock()
	a.Run()

	a.square1.endFrame()
	a.square2.endFrame()
	a.triangle.endFrame()
	a.noise.endFrame()
	a.dmc.endFrame()

	pcm := a.mixer.DrainAudio(a.curCycle)

	a.curCycle = 0
	a.prevCycle = 0
	return pcm
}

func (a *APU) needToRun(curCycle uint32) bool {
	if a.dmc.NeedToRun() || a.needToRun_ {
		// DMC running needs a tick every cycle for accurate CPU-stall/sprite-
		// DMA interaction; length-counter writes need one immediately too.
		a.needToRun_ = false
		return true
	}
	cyclesToRun := curCycle - a.prevCycle
	return a.frame.needToRun(cyclesToRun) || a.dmc.irqPending(cyclesToRun)
}

func (a *APU) status() uint8 {
	var val uint8
	if a.square1.status() {
		val |= 0x01
	}
	if a.square2.status() {
		val |= 0x02
	}
	if a.triangle.status() {
		val |= 0x04
	}
	if a.noise.status() {
		val |= 0x08
	}
	if a.dmc.status() {
		val |= 0x10
	}
	if a.cpu.HasIRQSource(hwdefs.FrameCounter) {
		val |= 0x40
	}
	if a.cpu.HasIRQSource(hwdefs.DMC) {
		val |= 0x80
	}
	return val
}

func (a *APU) Read8(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	a.Run()
	val := a.status()
	// Reading $4015 clears the frame-counter interrupt flag.
	a.cpu.ClearIRQSource(hwdefs.FrameCounter)
	return val
}

func (a *APU) Peek8(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	return a.status()
}

func (a *APU) Write8(addr uint16, val uint8) {
	switch addr {
	case 0x4000:
		a.square1.writeDuty(val)
	case 0x4001:
		a.square1.writeSweep(val)
	case 0x4002:
		a.square1.writeTimerLo(val)
	case 0x4003:
		a.square1.writeTimerHi(val)

	case 0x4004:
		a.square2.writeDuty(val)
	case 0x4005:
		a.square2.writeSweep(val)
	case 0x4006:
		a.square2.writeTimerLo(val)
	case 0x4007:
		a.square2.writeTimerHi(val)

	case 0x4008:
		a.triangle.writeLinear(val)
	case 0x400A:
		a.triangle.writeTimerLo(val)
	case 0x400B:
		a.triangle.writeTimerHi(val)

	case 0x400C:
		a.noise.writeVolume(val)
	case 0x400E:
		a.noise.writePeriod(val)
	case 0x400F:
		a.noise.writeLength(val)

	case 0x4010:
		a.dmc.writeFlags(val)
	case 0x4011:
		a.dmc.writeLoad(val)
	case 0x4012:
		a.dmc.writeSampleAddr(val)
	case 0x4013:
		a.dmc.writeSampleLen(val)

	case 0x4015:
		a.Run()
		// Writing $4015 clears the DMC interrupt flag before re-enabling the
		// channel, since re-enabling it can itself raise a new one.
		a.cpu.ClearIRQSource(hwdefs.DMC)
		a.square1.setEnabled(val&0x01 == 0x01)
		a.square2.setEnabled(val&0x02 == 0x02)
		a.triangle.setEnabled(val&0x04 == 0x04)
		a.noise.setEnabled(val&0x08 == 0x08)
		a.dmc.setEnabled(val&0x10 == 0x10)

	case 0x4017:
		a.frame.write(val)

	default:
		log.ModSound.DebugZ("write to unmapped APU register").Hex16("addr", addr).Hex8("val", val).End()
	}
}

func (a *APU) State() *snapshot.APU {
	var s snapshot.APU
	a.square1.saveState(&s.Square1)
	a.square2.saveState(&s.Square2)
	a.triangle.saveState(&s.Triangle)
	a.noise.saveState(&s.Noise)
	a.dmc.saveState(&s.DMC)
	a.frame.saveState(&s.FrameCounter)
	s.Mixer = *a.mixer.State()
	return &s
}

func (a *APU) SetState(s *snapshot.APU) {
	a.square1.setState(&s.Square1)
	a.square2.setState(&s.Square2)
	a.triangle.setState(&s.Triangle)
	a.noise.setState(&s.Noise)
	a.dmc.setState(&s.DMC)
	a.frame.setState(&s.FrameCounter)
	a.mixer.SetState(&s.Mixer)
}
