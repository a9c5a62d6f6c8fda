package mappers

import (
	"nestor/hw"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// bf909x implements mapper 71 (Camerica/Codemasters BF9093/BF9097): a UxROM
// shape (16 KiB PRG bank switchable at $8000, last 16 KiB fixed at $C000)
// but with the bank-select register moved to $C000-$FFFF so it doesn't
// collide with games that use $8000-$BFFF for other purposes. The BF9097
// variant additionally wires $9000-$9FFF to a single-screen mirroring
// select; plain BF9093 carts ignore writes there.
type bf909x struct {
	*cartridge
	prgBank     int
	screenB     bool
	hasMirrorSel bool
}

func newBF909x(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*bf909x, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	b := &bf909x{cartridge: c, hasMirrorSel: rom.Submapper() == 1}
	cpu.Bus.MapDevice(0x8000, 0xFFFF, b)
	b.Reset(false)
	return b, nil
}

func (b *bf909x) Reset(soft bool) {
	b.prgBank = 0
	b.screenB = false
	b.mapCHR8k(0)
	b.remap()
}

func (b *bf909x) remap() {
	if !b.hasMirrorSel {
		b.setMirroring(b.rom.Mirroring())
		return
	}
	if b.screenB {
		b.setMirroring(ines.MirrorSingleB)
	} else {
		b.setMirroring(ines.MirrorSingleA)
	}
}

func (b *bf909x) Read8(addr uint16) uint8 {
	if addr < 0xC000 {
		return b.prgBank16k(b.prgBank)[addr&0x3FFF]
	}
	return b.prgBank16k(-1)[addr&0x3FFF]
}

func (b *bf909x) Write8(addr uint16, val uint8) {
	switch {
	case addr >= 0x9000 && addr < 0xA000 && b.hasMirrorSel:
		b.screenB = val&0x10 != 0
		b.remap()
	case addr >= 0xC000:
		b.prgBank = int(val & 0x0F)
	}
}

func (b *bf909x) State() *snapshot.Mapper {
	m := int32(0)
	if b.screenB {
		m = 1
	}
	return &snapshot.Mapper{PRGBank0: int32(b.prgBank), Mirroring: uint8(m), CHRRAM: b.chrRAM}
}

func (b *bf909x) SetState(s *snapshot.Mapper) {
	b.prgBank = int(s.PRGBank0)
	b.screenB = s.Mirroring != 0
	b.remap()
	if len(s.CHRRAM) > 0 {
		copy(b.chrRAM, s.CHRRAM)
	}
}
