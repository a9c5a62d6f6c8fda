// Package apu implements the 2A03's integrated audio unit: two square
// channels, triangle, noise, the DMC sample player, the frame counter that
// clocks their envelopes/sweeps/length counters, and a blip-based mixer
// that turns the per-channel delta stream into host-rate PCM.
package apu

import "nestor/hw/hwdefs"

// Channel identifies one of the five audio channels, used to route mixer
// deltas and volume/panning lookups.
type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DMC
)

// cpu is the subset of *hw.CPU the APU needs: IRQ line control for the
// frame counter and DMC, and the DMC's DMA read-cycle steal.
type cpu interface {
	SetIRQSource(hwdefs.IRQSource)
	ClearIRQSource(hwdefs.IRQSource)
	HasIRQSource(hwdefs.IRQSource) bool
	CurrentCycle() int64
	StartDMCTransfer(addr uint16, onByte func(val uint8))
	StopDMCTransfer()
}

// mixer is the subset of *Mixer the channels need, kept as an interface so
// channel files don't have to import their own mixer back-reference type.
type mixer interface {
	addDelta(ch Channel, time uint32, delta int16)
}

// apu is the subset of *APU the channels/frame-counter need to call back
// into: flush pending deltas before a register read/write crosses a time
// boundary, flag that the APU must be ticked again this cycle, and dispatch
// a quarter/half-frame clock to every channel's envelope/sweep/length
// counter.
type apu interface {
	Run()
	SetNeedToRun()
	tickFrame(t frameType)
}
