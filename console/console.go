// Package console wires the CPU, PPU, APU and cartridge mapper into a
// single frame-stepping driver, the way nestor/emu.NES does for the
// reference UI, but built around this module's exported constructors
// instead of a concrete SDL front end.
package console

import (
	"fmt"
	"image"

	"nestor/hw"
	"nestor/hw/apu"
	"nestor/hw/hwdefs"
	"nestor/hw/mappers"
	"nestor/hw/snapshot"
	"nestor/ines"
	"nestor/log"
)

// cyclesPerFrame is the CPU's share of one NTSC frame: 262 scanlines of 341
// PPU dots each, three PPU dots per CPU cycle (29780.67), rounded up.
const cyclesPerFrame = 29781

// irqFilterSetter is implemented by mappers whose scanline IRQ counter is
// driven by an A12-edge filter (MMC3, MMC5) and can have that filter's
// re-arm threshold tuned per game.
type irqFilterSetter interface {
	SetIRQFilter(lowCycles uint8)
}

// Console owns one loaded cartridge and the CPU/PPU/APU/mapper wired
// together to run it, frame by frame.
type Console struct {
	CPU    *hw.CPU
	PPU    *hw.PPU
	APU    *apu.APU
	Mixer  *apu.Mixer
	Mapper hw.Mapper
	Rom    *ines.Rom

	ctrl [2]ControllerState
}

// New loads rom and powers up a console ready to run it. This mirrors the
// reference front end's powerUp: build the chips, wire the buses, load the
// mapper, then hard-reset.
func New(rom *ines.Rom) (*Console, error) {
	mixer := apu.NewMixer()
	ppu := hw.NewPPU()
	cpu := hw.NewCPU()
	au := apu.New(cpu, mixer)

	cpu.PlugPPU(ppu)
	ppu.CPU = cpu
	cpu.PlugAPU(au)
	cpu.InitBus()

	m, err := mappers.Load(rom, cpu, ppu)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	c := &Console{CPU: cpu, PPU: ppu, APU: au, Mixer: mixer, Mapper: m, Rom: rom}
	cpu.PlugInput(c)
	c.Reset(hwdefs.HardReset)

	log.ModEmu.InfoZ("console powered on").
		Hex16("mapper", rom.Mapper()).
		End()
	return c, nil
}

// Reset performs a soft or hard reset of every component.
func (c *Console) Reset(soft bool) {
	c.PPU.Reset(soft)
	c.APU.Reset(soft)
	c.CPU.Reset(soft)
	c.Mapper.Reset(soft)
}

// PowerCycle refills internal RAM and then hard-resets the console. A seed
// of 0 zero-fills RAM; any other seed fills it with a pseudo-random pattern
// derived from the seed, the same pattern every time for the same seed,
// giving callers a reproducible starting point for determinism tests.
func (c *Console) PowerCycle(seed uint64) {
	ram := c.CPU.RAM()
	if seed == 0 {
		clear(ram[:])
	} else {
		for i := range ram {
			seed = seed*6364136223846793005 + 1442695040888963407
			ram[i] = byte(seed >> 56)
		}
	}
	c.Reset(hwdefs.HardReset)
}

// StepFrame runs the CPU for cyclesPerFrame cycles (finishing the
// instruction in progress), using inputs as the two controller ports'
// button state for every read during it, and returns the audio of that
// span as resampled stereo PCM. A call covers one frame's worth of CPU
// time but is not aligned to the PPU's frame boundary: it does not stop at
// the start of vblank, and since a rendered frame averages 29780.5 CPU
// cycles, successive calls drift against the PPU's frames.
func (c *Console) StepFrame(inputs [2]ControllerState) []int16 {
	c.ctrl = inputs
	c.CPU.Run(cyclesPerFrame)
	return c.APU.EndFrame()
}

// LoadState implements hw.InputDevice: each port's 8 buttons in A, B,
// Select, Start, Up, Down, Left, Right order, matching $4016/$4017's shift
// order.
func (c *Console) LoadState() (uint8, uint8) {
	return uint8(c.ctrl[0]), uint8(c.ctrl[1])
}

// BatteryRAM returns the mapper's PRG-RAM if this cartridge declares it
// battery-backed, or nil otherwise. A host calls this at clean shutdown and
// passes the result to config.SaveRAM.
func (c *Console) BatteryRAM() []byte {
	if !c.Rom.HasPersistent() {
		return nil
	}
	return c.Mapper.State().PRGRAM
}

// RestoreBatteryRAM copies a previously saved PRG-RAM image (as loaded by
// config.LoadRAM) into the mapper, for a host to call right after New.
func (c *Console) RestoreBatteryRAM(data []byte) {
	if len(data) == 0 || !c.Rom.HasPersistent() {
		return
	}
	s := c.Mapper.State()
	copy(s.PRGRAM, data)
	c.Mapper.SetState(s)
}

// Framebuffer returns the PPU's current front buffer (256x240 RGBA).
func (c *Console) Framebuffer() *image.RGBA { return c.PPU.Framebuffer() }

// DroppedAudioSamples is the cumulative count of resampled audio samples
// lost to mixer overflow since power-on.
func (c *Console) DroppedAudioSamples() int { return c.APU.DroppedAudioSamples() }

// SetPermissiveOpcodes controls how the CPU reacts to a JAM byte: strict
// (the default) halts, permissive logs and keeps running.
func (c *Console) SetPermissiveOpcodes(permissive bool) { c.CPU.SetPermissiveOpcodes(permissive) }

// SetMapperIRQFilter overrides the loaded mapper's A12 re-arm threshold, if
// it has one (MMC3/MMC5); it is a no-op for mappers with no IRQ counter.
func (c *Console) SetMapperIRQFilter(lowCycles uint8) {
	if f, ok := c.Mapper.(irqFilterSetter); ok {
		f.SetIRQFilter(lowCycles)
	}
}

// Snapshot captures the entire console state as an opaque, versioned blob
// suitable for storing to disk and feeding back to Restore later.
func (c *Console) Snapshot() []byte {
	s := &snapshot.NES{
		Version: snapshot.CurrentVersion,
		CPU:     c.CPU.State(),
		PPU:     c.PPU.State(),
		APU:     c.APU.State(),
		Mapper:  c.Mapper.State(),
	}
	s.RAM = *c.CPU.RAM()
	return snapshot.NewEncoder().Encode(s)
}

// Restore decodes data into a scratch snapshot first; only once decoding
// succeeds in full does it overwrite any live state, so a truncated or
// version-mismatched blob leaves the running console untouched.
func (c *Console) Restore(data []byte) error {
	s, err := snapshot.Decode(data)
	if err != nil {
		return fmt.Errorf("console: restore: %w", err)
	}
	*c.CPU.RAM() = s.RAM
	c.CPU.SetState(s.CPU)
	c.PPU.Restore(s.PPU)
	c.APU.SetState(s.APU)
	c.Mapper.SetState(s.Mapper)
	return nil
}
