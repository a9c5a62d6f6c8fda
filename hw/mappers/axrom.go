package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// axrom is mapper 7 (AxROM): a single 32 KiB PRG bank switchable over the
// whole $8000-$FFFF window, plus a single-screen mirroring select (one of
// the two physical 1 KiB nametable banks, chosen per write instead of by
// the header). CHR is always CHR-RAM.
type axrom struct {
	*cartridge
	prgBank int
	screenB bool
}

func newAxROM(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*axrom, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	a := &axrom{cartridge: c}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, a)
	a.Reset(false)
	return a, nil
}

func (a *axrom) Reset(soft bool) {
	a.prgBank = 0
	a.screenB = false
	a.mapCHR8k(0)
	a.remap()
}

func (a *axrom) remap() {
	if a.screenB {
		a.setMirroring(ines.MirrorSingleB)
	} else {
		a.setMirroring(ines.MirrorSingleA)
	}
}

// numPRG32kBanks reports how many 32 KiB banks the PRG image holds.
func (a *axrom) numPRG32kBanks() int {
	n := a.numPRGBanks16k() / 2
	if n == 0 {
		n = 1
	}
	return n
}

// Read8 serves PRG data directly from the selected 32 KiB bank: AxROM maps
// its bank-select register over the exact same $8000-$FFFF window the PRG
// data lives in, so there is no separate read-only slice mapping to swap.
func (a *axrom) Read8(addr uint16) uint8 {
	bank := wrap(a.prgBank, a.numPRG32kBanks())
	return a.rom.PRG[bank*0x8000+int(addr&0x7FFF)]
}

func (a *axrom) Write8(addr uint16, val uint8) {
	a.prgBank = int(val & 0x07)
	a.screenB = val&0x10 != 0
	a.remap()
}

func (a *axrom) State() *snapshot.Mapper {
	m := int32(0)
	if a.screenB {
		m = 1
	}
	return &snapshot.Mapper{PRGBank0: int32(a.prgBank), Mirroring: uint8(m), CHRRAM: a.chrRAM}
}

func (a *axrom) SetState(s *snapshot.Mapper) {
	a.prgBank = int(s.PRGBank0)
	a.screenB = s.Mirroring != 0
	a.remap()
	if len(s.CHRRAM) > 0 {
		copy(a.chrRAM, s.CHRRAM)
	}
}
