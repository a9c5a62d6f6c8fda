package hw

import (
	"io"

	"nestor/hw/hwdefs"
	"nestor/hw/snapshot"
	"nestor/hwio"
	"nestor/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// ppuDevice is the subset of *PPU the CPU needs to drive the master clock and
// service the OAMDMA/PPU register window. Kept as an interface so the CPU
// package has no import-cycle on the PPU's mapper-facing pieces.
type ppuDevice interface {
	hwio.BankIO8
	Run(masterClock uint64)
}

// apuDevice is the subset of *apu.APU the CPU needs to drive via the master clock.
type apuDevice interface {
	hwio.BankIO8
	Tick()
	Enabled() bool
}

// CPU implements the 2A03 (a 6502 core with no decimal mode, plus the
// integrated APU/controller ports). It runs a cycle-accurate master clock:
// every bus access ticks the PPU and APU exactly as real hardware would.
type CPU struct {
	Bus *hwio.Table

	ram [0x800]byte

	ppu   ppuDevice
	apu   apuDevice
	dma   *DMA
	input InputPorts

	tracer *tracer
	dbg    Debugger

	Cycles      int64 // completed CPU cycles since power-on/reset
	masterClock int64

	A, X, Y, SP uint8
	PC          uint16
	P           P

	nmiFlag, prevNmiFlag bool
	needNmi, prevNeedNmi bool
	runIRQ, prevRunIRQ   bool
	irqFlag              hwdefs.IRQSource

	halted     bool
	permissive bool // true: treat JAM/unimplemented bytes as a NOP instead of halting
}

// SetPermissiveOpcodes selects how the CPU reacts to a JAM (KIL) byte: false
// (the default) halts Run exactly as real hardware locks up; true logs an
// UnimplementedOpcodeError and burns two cycles as a guessed NOP so playback
// of a ROM that (intentionally or not) executes one doesn't just stop dead.
func (c *CPU) SetPermissiveOpcodes(permissive bool) { c.permissive = permissive }

// NewCPU creates a CPU wired to nothing; callers must call InitBus after
// plugging in a PPU, APU, and cartridge mapper.
func NewCPU() *CPU {
	return &CPU{
		Bus: hwio.NewTable("cpu"),
		SP:  0xFD,
		dbg: nopDebugger{},
	}
}

// PlugPPU attaches the PPU driven by this CPU's master clock. Must be called
// before InitBus.
func (c *CPU) PlugPPU(ppu ppuDevice) { c.ppu = ppu }

// PlugAPU attaches the APU driven by this CPU's master clock. Must be called
// before InitBus.
func (c *CPU) PlugAPU(apu apuDevice) { c.apu = apu }

// InitBus maps internal RAM, the OAMDMA trigger, and the APU/controller
// register window at $4000-$4017. The PPU register window ($2000-$3FFF) and
// cartridge space ($4020-$FFFF, sans the APU/controller window) are mapped
// by the caller (console wiring) once the mapper exists.
func (c *CPU) InitBus() {
	c.Bus.MapMirrored(0x0000, 0x1FFF, 0x0800, &hwio.SliceMem{Name: "ram", Data: c.ram[:]})

	c.dma = newDMA(c)
	c.Bus.MapDevice(0x4014, 0x4014, hwio.Func8{WriteFn: c.dma.writeOAMDMA})

	if c.ppu != nil {
		c.Bus.MapMirrored(0x2000, 0x3FFF, 8, c.ppu)
	}
	c.Bus.MapDevice(0x4016, 0x4016, &c.input)

	if c.apu != nil {
		c.Bus.MapDevice(0x4000, 0x4013, c.apu)
		c.Bus.MapDevice(0x4015, 0x4015, c.apu)
		c.Bus.MapDevice(0x4017, 0x4017, splitPort4017{r: &c.input, w: c.apu})
	}
}

func (c *CPU) Reset(soft bool) {
	if soft {
		c.SP -= 0x03
		c.P.setIntDisable(true)
	} else {
		c.A, c.X, c.Y = 0, 0, 0
		c.runIRQ = false
		c.SP = 0xFD
		c.P = 0
		c.P.setIntDisable(true)
		clear(c.ram[:])
	}

	c.PC = hwio.Read16(c.Bus, ResetVector)

	c.Cycles = -1
	c.nmiFlag = false
	c.masterClock = ntscCPUDivider

	for i := 0; i < 8; i++ {
		c.cycleBegin(true)
		c.cycleEnd(true)
	}
}

func (c *CPU) traceOp() {
	if c.tracer != nil {
		state := cpuState{A: c.A, X: c.X, Y: c.Y, P: c.P, SP: c.SP, Clock: c.Cycles, PC: c.PC}
		c.tracer.write(state)
	}
	c.dbg.Trace(c.PC)
}

// Run executes instructions until at least ncycles CPU cycles have elapsed.
func (c *CPU) Run(ncycles int64) {
	until := c.Cycles + ncycles
	var opcode uint8
	for c.Cycles < until {
		opcode = c.Read8(c.PC)
		c.traceOp()
		c.PC++
		ops[opcode](c)

		if c.halted {
			break
		}
		if c.prevRunIRQ || c.prevNeedNmi {
			c.IRQ()
		}
	}

	if c.halted {
		log.ModCPU.WarnZ("CPU halted").Hex16("PC", c.PC).Hex8("opcode", opcode).End()
	}
}

func (c *CPU) halt()          { c.halted = true }
func (c *CPU) IsHalted() bool { return c.halted }

const (
	ntscStartClockCount = 6
	ntscEndClockCount   = 6
	ntscCPUDivider      = 12
	ppuOffset           = 1
)

func (c *CPU) cycleBegin(forRead bool) {
	if forRead {
		c.masterClock += ntscStartClockCount - 1
	} else {
		c.masterClock += ntscStartClockCount + 1
	}
	c.Cycles++

	if c.ppu != nil {
		c.ppu.Run(uint64(c.masterClock - ppuOffset))
	}
	if c.apu != nil && c.apu.Enabled() {
		c.apu.Tick()
	}
}

func (c *CPU) cycleEnd(forRead bool) {
	if forRead {
		c.masterClock += ntscEndClockCount + 1
	} else {
		c.masterClock += ntscEndClockCount - 1
	}
	if c.ppu != nil {
		c.ppu.Run(uint64(c.masterClock - ppuOffset))
	}
	c.handleInterrupts()
}

func (c *CPU) Read8(addr uint16) uint8 {
	if c.dma != nil {
		c.dma.processPending(addr)
	}
	if !c.Bus.Mapped(addr) {
		log.ModCPU.TraceZ((&InvalidAddressError{Addr: addr, Write: false}).Error()).End()
	}
	c.cycleBegin(true)
	val := c.Bus.Read8(addr)
	c.cycleEnd(true)
	return val
}

func (c *CPU) Write8(addr uint16, val uint8) {
	if !c.Bus.Mapped(addr) {
		log.ModCPU.TraceZ((&InvalidAddressError{Addr: addr, Write: true}).Error()).End()
	}
	c.cycleBegin(false)
	c.Bus.Write8(addr, val)
	c.cycleEnd(false)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

/* stack */

func (c *CPU) push8(val uint8) {
	c.Write8(uint16(c.SP)+0x0100, val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.Read8(uint16(c.SP) + 0x0100)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* interrupts */

func (c *CPU) SetIRQSource(src hwdefs.IRQSource)      { c.irqFlag |= src }
func (c *CPU) HasIRQSource(src hwdefs.IRQSource) bool { return c.irqFlag&src != 0 }
func (c *CPU) ClearIRQSource(src hwdefs.IRQSource)    { c.irqFlag &^= src }

func (c *CPU) SetNMIFlag()   { c.nmiFlag = true }
func (c *CPU) ClearNMIFlag() { c.nmiFlag = false }

// CurrentCycle exposes the completed-cycle counter to the APU, which times
// its frame counter and DMC delay counters against it.
func (c *CPU) CurrentCycle() int64 { return c.Cycles }

// StartDMCTransfer queues a DMC sample-byte fetch to be stolen as extra CPU
// cycles on the next bus access; onByte is invoked with the fetched byte
// once the steal completes.
func (c *CPU) StartDMCTransfer(addr uint16, onByte func(val uint8)) {
	c.dma.RequestDMCFetch(addr, onByte)
}

// StopDMCTransfer cancels a DMC fetch queued but not yet run, used when the
// channel is disabled before the steal happens.
func (c *CPU) StopDMCTransfer() { c.dma.CancelDMCFetch() }

// RAM exposes the 2 KiB internal RAM array for snapshotting; the console
// package copies it directly into snapshot.NES.RAM.
func (c *CPU) RAM() *[0x800]byte { return &c.ram }

func (c *CPU) State() *snapshot.CPU {
	return &snapshot.CPU{
		PC: c.PC, SP: c.SP, P: uint8(c.P), A: c.A, X: c.X, Y: c.Y,
		Cycles:      c.Cycles,
		MasterClock: c.masterClock,
		IRQFlag:     uint8(c.irqFlag),
		RunIRQ:      c.runIRQ,
		PrevRunIRQ:  c.prevRunIRQ,
		NMIFlag:     c.nmiFlag,
		PrevNeedNMI: c.prevNeedNmi,
		PrevNMIFlag: c.prevNmiFlag,
		NeedNMI:     c.needNmi,
	}
}

func (c *CPU) SetState(s *snapshot.CPU) {
	c.PC, c.SP, c.P = s.PC, s.SP, P(s.P)
	c.A, c.X, c.Y = s.A, s.X, s.Y
	c.Cycles = s.Cycles
	c.masterClock = s.MasterClock
	c.irqFlag = hwdefs.IRQSource(s.IRQFlag)
	c.runIRQ, c.prevRunIRQ = s.RunIRQ, s.PrevRunIRQ
	c.nmiFlag, c.prevNeedNmi = s.NMIFlag, s.PrevNeedNMI
	c.prevNmiFlag, c.needNmi = s.PrevNMIFlag, s.NeedNMI
}

func (c *CPU) handleInterrupts() {
	c.prevNeedNmi = c.needNmi

	if !c.prevNmiFlag && c.nmiFlag {
		c.needNmi = true
	}
	c.prevNmiFlag = c.nmiFlag

	c.prevRunIRQ = c.runIRQ
	c.runIRQ = c.irqFlag != 0 && !c.P.intDisable()
}

func cpuBRK(cpu *CPU) {
	_ = cpu.Read8(cpu.PC) // dummy read
	cpu.push16(cpu.PC + 1)

	p := cpu.P
	p.setBrk(true)
	p.setUnused(true)
	cpu.push8(uint8(p))
	cpu.P.setIntDisable(true)

	if cpu.needNmi {
		cpu.needNmi = false
		cpu.PC = cpu.Read16(NMIVector)
	} else {
		cpu.PC = cpu.Read16(IRQVector)
	}
	cpu.prevNeedNmi = false
}

func (c *CPU) IRQ() {
	c.Read8(c.PC)
	c.Read8(c.PC)

	prevpc := c.PC
	c.push16(c.PC)

	if c.needNmi {
		c.needNmi = false
		p := c.P
		p.setBrk(false)
		p.setUnused(true)
		c.push8(uint8(p))
		c.P.setIntDisable(true)
		c.PC = c.Read16(NMIVector)
		c.dbg.Interrupt(prevpc, c.PC, true)
	} else {
		p := c.P
		p.setBrk(false)
		p.setUnused(true)
		c.push8(uint8(p))
		c.P.setIntDisable(true)
		c.PC = c.Read16(IRQVector)
		c.dbg.Interrupt(prevpc, c.PC, false)
	}
}

/* tracing/debugging */

func (c *CPU) SetTraceOutput(w io.Writer) { c.tracer = &tracer{w: w, d: c} }
func (c *CPU) SetDebugger(dbg Debugger)   { c.dbg = dbg }

func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.Bus.Peek8(pc)
	return disasmOps[opcode](c, pc)
}

type nopDebugger struct{}

func (nopDebugger) Trace(pc uint16)                            {}
func (nopDebugger) Interrupt(prevpc, curpc uint16, isNMI bool) {}
func (nopDebugger) WatchRead(addr uint16)                      {}
func (nopDebugger) WatchWrite(addr uint16, val uint16)         {}
func (nopDebugger) Break(msg string)                           {}
func (nopDebugger) FrameEnd()                                  {}
