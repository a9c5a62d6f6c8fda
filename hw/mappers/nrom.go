package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// nrom is mapper 0: no bank switching. 16 KiB PRG carts (NROM-128) mirror
// their single bank across both halves of $8000-$FFFF; 32 KiB carts
// (NROM-256) fill the window directly. CHR is a fixed 8 KiB bank, ROM or
// RAM.
type nrom struct{ *cartridge }

func newNROM(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*nrom, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	n := &nrom{c}
	n.Reset(false)
	return n, nil
}

func (n *nrom) Reset(soft bool) {
	if n.numPRGBanks16k() == 1 {
		n.mapPRG16k(0x8000, 0)
		n.mapPRG16k(0xC000, 0)
	} else {
		n.mapPRG32k()
	}
	n.mapCHR8k(0)
	n.setMirroring(n.rom.Mirroring())
}

func (n *nrom) State() *snapshot.Mapper    { return &snapshot.Mapper{CHRRAM: n.chrRAM, PRGRAM: n.prgRAM} }
func (n *nrom) SetState(s *snapshot.Mapper) {
	if len(s.CHRRAM) > 0 {
		copy(n.chrRAM, s.CHRRAM)
	}
	if len(s.PRGRAM) > 0 {
		copy(n.prgRAM, s.PRGRAM)
	}
}
