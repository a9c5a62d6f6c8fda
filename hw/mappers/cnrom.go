package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// cnrom is mapper 3: fixed 16/32 KiB PRG (no switching), CHR banked in 8 KiB
// units by any write to $8000-$FFFF. Some CNROM boards (submapper 2) have
// the PRG data lines wired so a write reads back the current PRG byte
// before ANDing it with the written value ("bus conflicts"); this core
// models that when the header's submapper says so.
type cnrom struct {
	*cartridge
	chrBank      int
	busConflicts bool
}

func newCNROM(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*cnrom, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	n := &cnrom{cartridge: c, busConflicts: rom.Submapper() == 2}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, n)
	n.Reset(false)
	return n, nil
}

func (n *cnrom) Reset(soft bool) {
	n.chrBank = 0
	if n.numPRGBanks16k() == 1 {
		n.mapPRG16k(0x8000, 0)
		n.mapPRG16k(0xC000, 0)
	} else {
		n.mapPRG32k()
	}
	n.mapCHR8k(n.chrBank)
	n.setMirroring(n.rom.Mirroring())
}

func (n *cnrom) Read8(addr uint16) uint8 {
	if n.numPRGBanks16k() == 1 {
		return n.prgBank16k(0)[addr&0x3FFF]
	}
	return n.rom.PRG[addr&0x7FFF]
}

func (n *cnrom) Write8(addr uint16, val uint8) {
	if n.busConflicts {
		val &= n.Read8(addr)
	}
	n.chrBank = int(val & 0x03)
	n.mapCHR8k(n.chrBank)
}

func (n *cnrom) State() *snapshot.Mapper {
	return &snapshot.Mapper{CHRBank0: int32(n.chrBank), CHRRAM: n.chrRAM}
}

func (n *cnrom) SetState(s *snapshot.Mapper) {
	n.chrBank = int(s.CHRBank0)
	n.mapCHR8k(n.chrBank)
	if len(s.CHRRAM) > 0 {
		copy(n.chrRAM, s.CHRRAM)
	}
}
