package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// uxrom is mapper 2 (UNROM/UOROM): a 16 KiB PRG bank switchable at $8000,
// fixed to the last 16 KiB bank at $C000. Any write in $8000-$FFFF loads
// the bank-select register; CNROM-style bus conflicts aren't modeled. CHR
// is always a fixed 8 KiB bank (CHR-RAM on every UxROM board).
type uxrom struct {
	*cartridge
	prgBank int
}

func newUxROM(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*uxrom, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	u := &uxrom{cartridge: c}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, u)
	u.Reset(false)
	return u, nil
}

func (u *uxrom) Reset(soft bool) {
	u.prgBank = 0
	u.mapCHR8k(0)
	u.setMirroring(u.rom.Mirroring())
}

func (u *uxrom) Read8(addr uint16) uint8 {
	if addr < 0xC000 {
		return u.prgBank16k(u.prgBank)[addr&0x3FFF]
	}
	return u.prgBank16k(-1)[addr&0x3FFF]
}

func (u *uxrom) Write8(addr uint16, val uint8) { u.prgBank = int(val & 0x0F) }

func (u *uxrom) State() *snapshot.Mapper {
	return &snapshot.Mapper{PRGBank0: int32(u.prgBank), CHRRAM: u.chrRAM}
}

func (u *uxrom) SetState(s *snapshot.Mapper) {
	u.prgBank = int(s.PRGBank0)
	if len(s.CHRRAM) > 0 {
		copy(u.chrRAM, s.CHRRAM)
	}
}
