package mappers

import (
	"nestor/hw"
	"nestor/hw/hwdefs"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// a12Watcher wraps the PPU-side pattern table window so every PPU access to
// it can be inspected for an A12 rising edge, which is how the MMC3 (and
// MMC5) detect when to clock their internal counters: real hardware wires
// A12 straight from the PPU address bus to the cartridge, but this core's
// PPU has no such pin, so the mapper instead watches every CHR fetch that
// passes through its own Read8.
type a12Watcher struct {
	prevHigh  bool
	lowRun    uint8 // consecutive low reads since the last high one
	threshold uint8 // low reads required to re-arm; tunable per-game via SetIRQFilter
	onRise    func()
}

// observe is called on every PPU-side CHR access. A12 must have been
// continuously low for a few PPU reads before a 0->1 transition counts as a
// "clean" rising edge, filtering out the rapid toggling that happens when
// sprite and background fetches interleave within a single dot.
func (w *a12Watcher) observe(addr uint16) {
	high := addr&0x1000 != 0
	if high {
		if !w.prevHigh && w.lowRun >= w.threshold {
			w.onRise()
		}
		w.lowRun = 0
	} else {
		w.lowRun++
	}
	w.prevHigh = high
}

// mmc3 implements mapper 4: eight bank-select registers reached through an
// even/odd $8000/$8001 pair, and an A12-edge-clocked scanline IRQ counter.
type mmc3 struct {
	*cartridge
	a12 a12Watcher

	bankSelect uint8
	chrBanks   [6]uint8
	prgBanks   [2]uint8
	prgRAMOn   bool
	prgRAMWP   bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool
}

func newMMC3(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*mmc3, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	m := &mmc3{cartridge: c}
	m.a12.onRise = m.clockIRQCounter
	m.a12.threshold = 3
	cpu.Bus.MapDevice(0x6000, 0x7FFF, m)
	cpu.Bus.MapDevice(0x8000, 0xFFFF, m)
	ppu.Bus.MapDevice(0x0000, 0x1FFF, mmc3CHR{m})
	m.Reset(false)
	return m, nil
}

func (m *mmc3) Reset(soft bool) {
	m.bankSelect = 0
	m.chrBanks = [6]uint8{}
	m.prgBanks = [2]uint8{0, 1}
	m.prgRAMOn, m.prgRAMWP = true, false
	m.irqLatch, m.irqCounter = 0, 0
	m.irqReload, m.irqEnabled, m.irqPending = false, false, false
	if m.prgRAM == nil {
		m.prgRAM = make([]byte, 0x2000)
	}
}

/* CPU-side: $6000-$7FFF PRG-RAM, $8000-$FFFF bank-select registers plus the
two switchable PRG windows. */

func (m *mmc3) Read8(addr uint16) uint8 {
	if addr < 0x8000 {
		if !m.prgRAMOn {
			return 0
		}
		return m.prgRAM[addr&0x1FFF]
	}
	return m.prgWindow(addr)[addr&0x1FFF]
}

func (m *mmc3) Write8(addr uint16, val uint8) {
	if addr < 0x8000 {
		if m.prgRAMOn && !m.prgRAMWP {
			m.prgRAM[addr&0x1FFF] = val
		}
		return
	}

	even := addr&1 == 0
	switch {
	case addr < 0xA000 && even:
		m.bankSelect = val
	case addr < 0xA000:
		m.writeBankData(val)
	case addr < 0xC000 && even:
		m.setMirroringBit(val)
	case addr < 0xC000:
		m.prgRAMOn = val&0x80 != 0
		m.prgRAMWP = val&0x40 != 0
	case addr < 0xE000 && even:
		m.irqLatch = val
	case addr < 0xE000:
		m.irqReload = true
	case even:
		m.irqEnabled = false
		m.irqPending = false
		m.cpu.ClearIRQSource(hwdefs.External)
	default:
		m.irqEnabled = true
	}
}

func (m *mmc3) writeBankData(val uint8) {
	reg := m.bankSelect & 0x07
	if reg < 6 {
		m.chrBanks[reg] = val
	} else {
		m.prgBanks[reg-6] = val & 0x3F
	}
}

func (m *mmc3) setMirroringBit(val uint8) {
	if val&0x01 != 0 {
		m.setMirroring(ines.MirrorHorizontal)
	} else {
		m.setMirroring(ines.MirrorVertical)
	}
}

func (m *mmc3) prgMode() bool { return m.bankSelect&0x40 != 0 } // true: $C000 swappable, $8000 fixed

func (m *mmc3) prgWindow(addr uint16) []byte {
	slot := (addr - 0x8000) / 0x2000
	fixedLast := m.prgBank16k(-1)
	fixedSecondLast := m.prgBank16k(-2)
	bank0 := m.prgBank16k(int(m.prgBanks[0]))
	bank1 := m.prgBank16k(int(m.prgBanks[1]))

	var windows [4][]byte
	if m.prgMode() {
		windows = [4][]byte{fixedSecondLast, bank1, bank0, fixedLast}
	} else {
		windows = [4][]byte{bank0, bank1, fixedSecondLast, fixedLast}
	}
	return windows[slot]
}

func (m *mmc3) chrA12Inverted() bool { return m.bankSelect&0x80 != 0 }

// SetIRQFilter adjusts how many consecutive A12-low CHR fetches are
// required before a 0->1 transition re-arms the scanline counter. Some
// board revisions and emulated games are sensitive to this filter length;
// the console exposes it so a specific title's known-good value can override
// the default of 3.
func (m *mmc3) SetIRQFilter(lowCycles uint8) { m.a12.threshold = lowCycles }

/* PPU-side: $0000-$1FFF pattern tables, also where A12 is observed. mmc3CHR
is a distinct BankIO8 from mmc3 itself because the CPU and PPU buses each
map a device at address 0, and the two need unrelated Read8/Write8
semantics despite the shared method names. */

type mmc3CHR struct{ *mmc3 }

func (d mmc3CHR) Read8(addr uint16) uint8 {
	d.a12.observe(addr)
	return d.chrByte(addr)
}

func (d mmc3CHR) Write8(addr uint16, val uint8) {
	if d.usesCHRRAM() {
		d.chrRAM[addr&0x1FFF] = val
	}
}

func (m *mmc3) chrByte(addr uint16) uint8 {
	if m.usesCHRRAM() {
		return m.chrRAM[addr&0x1FFF]
	}

	// 2 KiB windows 0/1 (banks 0,1, even-aligned) then four 1 KiB windows
	// (banks 2-5), swapped as a pair when bankSelect bit 7 inverts A12.
	var bank2k0, bank2k1 int
	var bank1k [4]int
	if !m.chrA12Inverted() {
		bank2k0, bank2k1 = int(m.chrBanks[0]&0xFE), int(m.chrBanks[1]&0xFE)
		bank1k = [4]int{int(m.chrBanks[2]), int(m.chrBanks[3]), int(m.chrBanks[4]), int(m.chrBanks[5])}
	} else {
		bank1k = [4]int{int(m.chrBanks[2]), int(m.chrBanks[3]), int(m.chrBanks[4]), int(m.chrBanks[5])}
		bank2k0, bank2k1 = int(m.chrBanks[0]&0xFE), int(m.chrBanks[1]&0xFE)
	}

	var lowBank, lowOff int
	low := addr < 0x1000
	a := addr & 0x0FFF
	switch {
	case m.chrA12Inverted() == low:
		// 1 KiB region
		idx := a / 0x400
		lowBank = bank1k[idx]
		lowOff = int(a % 0x400)
	default:
		// 2 KiB region
		if a < 0x0800 {
			lowBank = bank2k0
		} else {
			lowBank = bank2k1
		}
		lowOff = int(a % 0x800)
	}

	n := len(m.rom.CHR) / 0x400
	if n == 0 {
		n = 1
	}
	bank1kIdx := wrap(lowBank, n)
	return m.rom.CHR[bank1kIdx*0x400+lowOff]
}

func (m *mmc3) clockIRQCounter() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
		m.cpu.SetIRQSource(hwdefs.External)
	}
}

func (m *mmc3) State() *snapshot.Mapper {
	s := &snapshot.Mapper{
		BankSelect: m.bankSelect,
		PRGRAM:     m.prgRAM,
		CHRRAM:     m.chrRAM,
		IRQLatch:   m.irqLatch,
		IRQCounter: m.irqCounter,
		IRQReload:  m.irqReload,
		IRQEnabled: m.irqEnabled,
		IRQPending: m.irqPending,
		A12LowRun:  m.a12.lowRun,
	}
	for i, v := range m.chrBanks {
		if i < len(s.CHRBanks) {
			s.CHRBanks[i] = int32(v)
		}
	}
	for i, v := range m.prgBanks {
		s.PRGBanks[i] = int32(v)
	}
	return s
}

func (m *mmc3) SetState(s *snapshot.Mapper) {
	m.bankSelect = s.BankSelect
	if len(s.PRGRAM) > 0 {
		copy(m.prgRAM, s.PRGRAM)
	}
	if len(s.CHRRAM) > 0 {
		copy(m.chrRAM, s.CHRRAM)
	}
	m.irqLatch, m.irqCounter = s.IRQLatch, s.IRQCounter
	m.irqReload, m.irqEnabled, m.irqPending = s.IRQReload, s.IRQEnabled, s.IRQPending
	m.a12.lowRun = s.A12LowRun
	for i := range m.chrBanks {
		m.chrBanks[i] = uint8(s.CHRBanks[i])
	}
	for i := range m.prgBanks {
		m.prgBanks[i] = uint8(s.PRGBanks[i])
	}
}
