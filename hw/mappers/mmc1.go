package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// mmc1 implements mapper 1 (MMC1/SNROM/SKROM family) and mapper 155 (MMC1A,
// which skips the consecutive-write filter below). A 5-bit serial shift
// register fed one bit per write to $8000-$FFFF commits to one of four
// internal registers (selected by the address written to) on its 5th write;
// a write with bit 7 set resets the shift register instead of shifting in a
// bit.
type mmc1 struct {
	*cartridge
	relaxedConsecutive bool // true for mapper 155

	shift      uint8
	shiftCount uint8
	prevCycle  int64

	ctrl    uint8 // $8000: mirroring (0-1), PRG mode (2-3), CHR mode (4)
	chr0    uint8 // $A000
	chr1    uint8 // $C000
	prg     uint8 // $E000: PRG bank (0-3) and WRAM-disable (4)
	wramOff bool
}

func newMMC1(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU, relaxed bool) (*mmc1, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	m := &mmc1{cartridge: c, relaxedConsecutive: relaxed}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, m)
	if rom.PRGRAMSize() > 0 {
		m.initPRGRAM(rom.PRGRAMSize())
	}
	m.Reset(false)
	return m, nil
}

func (m *mmc1) Reset(soft bool) {
	m.shift, m.shiftCount = 0, 0
	// Power-on state: 16 KiB PRG mode with $8000 switchable, $C000 fixed to
	// the last bank, so boards with no banking logic of their own (SEROM)
	// still boot correctly.
	m.ctrl = 0x0C
	m.chr0, m.chr1, m.prg = 0, 0, 0
	m.wramOff = false
	m.remap()
}

func (m *mmc1) Read8(addr uint16) uint8 {
	if m.prgMode() <= 1 {
		bank := int(m.prg&0x0F) >> 1
		return m.prgBank32k(bank)[addr&0x7FFF]
	}
	if addr < 0xC000 {
		return m.lowPRGBank()[addr&0x3FFF]
	}
	return m.highPRGBank()[addr&0x3FFF]
}

func (m *mmc1) Write8(addr uint16, val uint8) {
	cycle := m.cpu.CurrentCycle()
	consecutive := cycle-m.prevCycle < 2
	m.prevCycle = cycle
	if consecutive && !m.relaxedConsecutive && val&0x80 == 0 {
		return
	}

	if val&0x80 != 0 {
		m.shift, m.shiftCount = 0, 0
		m.ctrl |= 0x0C
		m.remap()
		return
	}

	m.shift |= (val & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	reg := m.shift
	m.shift, m.shiftCount = 0, 0
	switch (addr >> 13) & 0x3 {
	case 0:
		m.ctrl = reg
	case 1:
		m.chr0 = reg
	case 2:
		m.chr1 = reg
	case 3:
		m.prg = reg & 0x1F
		m.wramOff = reg&0x10 != 0
	}
	m.remap()
}

func (m *mmc1) prgMode() uint8 { return (m.ctrl >> 2) & 0x3 }
func (m *mmc1) chrMode() uint8 { return (m.ctrl >> 4) & 0x1 }

func (m *mmc1) prgBank32k(bank int) []byte {
	n := m.numPRGBanks16k() / 2
	if n == 0 {
		n = 1
	}
	bank = wrap(bank, n)
	return m.rom.PRG[bank*0x8000 : bank*0x8000+0x8000]
}

func (m *mmc1) lowPRGBank() []byte {
	switch m.prgMode() {
	case 2:
		return m.prgBank16k(0)
	default:
		return m.prgBank16k(int(m.prg & 0x0F))
	}
}

func (m *mmc1) highPRGBank() []byte {
	switch m.prgMode() {
	case 3:
		return m.prgBank16k(-1)
	default:
		return m.prgBank16k(int(m.prg & 0x0F))
	}
}

func (m *mmc1) remap() {
	if m.chrMode() == 0 {
		m.mapCHR8kBank(int(m.chr0 >> 1))
	} else {
		m.mapCHR4k(0x0000, int(m.chr0))
		m.mapCHR4k(0x1000, int(m.chr1))
	}

	switch m.ctrl & 0x03 {
	case 0:
		m.setMirroring(ines.MirrorSingleA)
	case 1:
		m.setMirroring(ines.MirrorSingleB)
	case 2:
		m.setMirroring(ines.MirrorVertical)
	case 3:
		m.setMirroring(ines.MirrorHorizontal)
	}
}

// mapCHR8kBank maps an 8 KiB CHR bank indexed the way MMC1's CHR0 register
// addresses it (ignoring CHR0's low bit, which only matters in 4 KiB mode).
func (m *mmc1) mapCHR8kBank(bank int) { m.mapCHR8k(bank) }

func (m *mmc1) State() *snapshot.Mapper {
	return &snapshot.Mapper{
		ShiftReg: m.shift, ShiftCount: m.shiftCount,
		Ctrl:     m.ctrl,
		CHRBank0: int32(m.chr0), CHRBank1: int32(m.chr1),
		PRGBank0:     int32(m.prg),
		PRGRAMEnable: !m.wramOff,
		PRGRAM:       m.prgRAM,
		CHRRAM:       m.chrRAM,
	}
}

func (m *mmc1) SetState(s *snapshot.Mapper) {
	m.shift, m.shiftCount = s.ShiftReg, s.ShiftCount
	m.ctrl = s.Ctrl
	m.chr0, m.chr1 = uint8(s.CHRBank0), uint8(s.CHRBank1)
	m.prg = uint8(s.PRGBank0)
	m.wramOff = !s.PRGRAMEnable
	if len(s.PRGRAM) > 0 {
		copy(m.prgRAM, s.PRGRAM)
	}
	if len(s.CHRRAM) > 0 {
		copy(m.chrRAM, s.CHRRAM)
	}
	m.remap()
}
