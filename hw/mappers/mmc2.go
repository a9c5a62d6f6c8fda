package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// mmc2 implements mapper 9 (MMC2/PxROM, used by Punch-Out!!): a single
// switchable 8 KiB PRG window at $8000-$9FFF with the rest fixed to the
// cartridge's last 24 KiB, and two independent 4 KiB CHR banks each chosen
// by one of two latches. Each latch flips between its "$FD" and "$FE"
// setting when the PPU fetches the tile byte at the corresponding
// $xFD8-$xFDF/$xFE8-$xFEF address range, which is how real Punch-Out!!
// boards swap in alternate pattern data mid-scanline without a CPU write.
type mmc2 struct {
	*cartridge

	prgBank int
	chr0FD  int
	chr0FE  int
	chr1FD  int
	chr1FE  int
	latch0FE bool
	latch1FE bool
}

func newMMC2(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*mmc2, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	m := &mmc2{cartridge: c}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, m)
	ppu.Bus.MapDevice(0x0000, 0x1FFF, mmc2CHR{m})
	if rom.PRGRAMSize() > 0 {
		m.initPRGRAM(rom.PRGRAMSize())
	}
	m.Reset(false)
	return m, nil
}

func (m *mmc2) Reset(soft bool) {
	m.prgBank = 0
	m.chr0FD, m.chr0FE, m.chr1FD, m.chr1FE = 0, 0, 0, 0
	m.latch0FE, m.latch1FE = false, false
	m.setMirroring(m.rom.Mirroring())
}

func (m *mmc2) Read8(addr uint16) uint8 {
	if addr < 0xA000 {
		return m.prgBank8k(m.prgBank)[addr&0x1FFF]
	}
	// $A000-$FFFF: fixed to the cartridge's last three 8 KiB banks in order.
	slot := int((addr-0xA000)/0x2000) + 1
	return m.prgBank8k(-4 + slot)[addr&0x1FFF]
}

func (m *mmc2) Write8(addr uint16, val uint8) {
	switch {
	case addr < 0xA000:
		return
	case addr < 0xB000:
		m.prgBank = int(val & 0x0F)
	case addr < 0xC000:
		m.chr0FD = int(val & 0x1F)
	case addr < 0xD000:
		m.chr0FE = int(val & 0x1F)
	case addr < 0xE000:
		m.chr1FD = int(val & 0x1F)
	case addr < 0xF000:
		m.chr1FE = int(val & 0x1F)
	default:
		if val&0x01 != 0 {
			m.setMirroring(ines.MirrorHorizontal)
		} else {
			m.setMirroring(ines.MirrorVertical)
		}
	}
}

// prgBank8k returns the n-th 8 KiB PRG slice, wrapping negative indices from
// the end the way prgBank16k does for 16 KiB boards.
func (m *mmc2) prgBank8k(bank int) []byte {
	n := m.numPRGBanks16k() * 2
	bank = wrap(bank, n)
	half := m.prgBank16k(bank / 2)
	if bank%2 == 0 {
		return half[:0x2000]
	}
	return half[0x2000:]
}

type mmc2CHR struct{ *mmc2 }

func (d mmc2CHR) Read8(addr uint16) uint8 {
	val := d.chrByte(addr)
	d.latchTile(addr)
	return val
}

func (d mmc2CHR) Write8(addr uint16, val uint8) {}

func (m *mmc2) chrByte(addr uint16) uint8 {
	var bank int
	if addr < 0x1000 {
		if m.latch0FE {
			bank = m.chr0FE
		} else {
			bank = m.chr0FD
		}
	} else {
		if m.latch1FE {
			bank = m.chr1FE
		} else {
			bank = m.chr1FD
		}
	}
	n := len(m.rom.CHR) / 0x1000
	if n == 0 {
		n = 1
	}
	bank = wrap(bank, n)
	return m.rom.CHR[bank*0x1000+int(addr&0x0FFF)]
}

func (m *mmc2) latchTile(addr uint16) {
	switch addr & 0x1FF8 {
	case 0x0FD8:
		m.latch0FE = false
	case 0x0FE8:
		m.latch0FE = true
	case 0x1FD8:
		m.latch1FE = false
	case 0x1FE8:
		m.latch1FE = true
	}
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (m *mmc2) State() *snapshot.Mapper {
	return &snapshot.Mapper{
		PRGBank0: int32(m.prgBank),
		CHRBanks: [8]int32{int32(m.chr0FD), int32(m.chr0FE), int32(m.chr1FD), int32(m.chr1FE)},
		Latch0:   boolToU8(m.latch0FE),
		Latch1:   boolToU8(m.latch1FE),
		PRGRAM:   m.prgRAM,
	}
}

func (m *mmc2) SetState(s *snapshot.Mapper) {
	m.prgBank = int(s.PRGBank0)
	m.chr0FD, m.chr0FE = int(s.CHRBanks[0]), int(s.CHRBanks[1])
	m.chr1FD, m.chr1FE = int(s.CHRBanks[2]), int(s.CHRBanks[3])
	m.latch0FE = s.Latch0 != 0
	m.latch1FE = s.Latch1 != 0
	if len(s.PRGRAM) > 0 {
		copy(m.prgRAM, s.PRGRAM)
	}
}
