// Package mappers implements the cartridge boards (iNES mapper numbers)
// this core supports: NROM, MMC1 (and its mapper-155 variant), UxROM, CNROM,
// MMC3, MMC5, AxROM, MMC2 and BF909x (see Load). Each wires
// its PRG/CHR banking and nametable mirroring onto the CPU and PPU buses
// handed to it at load time.
package mappers

import (
	"fmt"

	"nestor/hw"
	"nestor/ines"
)

// cartridge holds the state and bus-wiring helpers shared by every mapper:
// the ROM image, a reference to the CPU/PPU buses it maps onto, the two
// physical 1 KiB nametable banks (mainboard RAM external to the PPU itself),
// and CHR-RAM backing for boards whose cartridge has no CHR-ROM.
type cartridge struct {
	rom *ines.Rom
	cpu *hw.CPU
	ppu *hw.PPU

	nametables [0x800]byte

	chrRAM []byte // non-nil if the cart has no CHR-ROM
	prgRAM []byte // non-nil if the board has PRG-RAM/WRAM at $6000-$7FFF
}

func newCartridge(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*cartridge, error) {
	if len(rom.PRG) == 0 || len(rom.PRG)%0x4000 != 0 {
		return nil, fmt.Errorf("mappers: PRG-ROM size %d is not a multiple of 16KiB", len(rom.PRG))
	}
	c := &cartridge{rom: rom, cpu: cpu, ppu: ppu}
	if len(rom.CHR) == 0 {
		sz := rom.CHRRAMSize()
		if sz == 0 {
			sz = 0x2000
		}
		c.chrRAM = make([]byte, sz)
	}
	return c, nil
}

func (c *cartridge) usesCHRRAM() bool { return c.chrRAM != nil }

func (c *cartridge) numPRGBanks16k() int { return len(c.rom.PRG) / 0x4000 }

func (c *cartridge) numCHRBanks8k() int {
	if c.usesCHRRAM() {
		return 1
	}
	n := len(c.rom.CHR) / 0x2000
	if n == 0 {
		n = 1
	}
	return n
}

func wrap(bank, n int) int {
	bank %= n
	if bank < 0 {
		bank += n
	}
	return bank
}

// prgBank16k returns the n-th 16 KiB PRG bank, wrapping negative indices
// from the end (-1 is the last bank, used for boards that fix it there).
func (c *cartridge) prgBank16k(bank int) []byte {
	n := c.numPRGBanks16k()
	bank = wrap(bank, n)
	return c.rom.PRG[bank*0x4000 : bank*0x4000+0x4000]
}

// mapPRG16k maps a fixed, non-switchable 16 KiB PRG bank onto the CPU bus.
// Boards with a bank-select register map $8000-$FFFF to themselves instead
// and serve PRG reads from their own Read8.
func (c *cartridge) mapPRG16k(addr uint16, bank int) {
	c.cpu.Bus.MapMemorySlice(addr, addr+0x3FFF, c.prgBank16k(bank), true)
}

// mapPRG32k maps a fixed 32 KiB PRG image covering the whole $8000-$FFFF
// window (NROM-256 and other boards with no bank switching at all).
func (c *cartridge) mapPRG32k() {
	c.cpu.Bus.MapMemorySlice(0x8000, 0xFFFF, c.rom.PRG[:0x8000], true)
}

func (c *cartridge) chrBank8k(bank int) []byte {
	if c.usesCHRRAM() {
		return c.chrRAM
	}
	n := c.numCHRBanks8k()
	bank = wrap(bank, n)
	return c.rom.CHR[bank*0x2000 : bank*0x2000+0x2000]
}

// mapCHR8k maps an 8 KiB CHR window (pattern tables) onto the PPU bus,
// writable when backed by CHR-RAM.
func (c *cartridge) mapCHR8k(bank int) {
	c.ppu.Bus.MapMemorySlice(0x0000, 0x1FFF, c.chrBank8k(bank), !c.usesCHRRAM())
}

// mapCHR4k maps a 4 KiB half of the pattern-table space independently,
// used by mappers whose CHR banking granularity is finer than 8 KiB.
func (c *cartridge) mapCHR4k(half uint16, bank int) {
	if c.usesCHRRAM() {
		c.ppu.Bus.MapMemorySlice(half, half+0x0FFF, c.chrRAM[:0x1000], false)
		return
	}
	n := len(c.rom.CHR) / 0x1000
	if n == 0 {
		n = 1
	}
	bank = wrap(bank, n)
	data := c.rom.CHR[bank*0x1000 : bank*0x1000+0x1000]
	c.ppu.Bus.MapMemorySlice(half, half+0x0FFF, data, true)
}

// setMirroring rebuilds the $2000-$3EFF nametable mapping from the two
// physical 1 KiB banks according to m.
func (c *cartridge) setMirroring(m ines.Mirroring) {
	c.ppu.Bus.Unmap(0x2000, 0x3EFF)

	a := c.nametables[0x000:0x400]
	b := c.nametables[0x400:0x800]

	var nt0, nt1, nt2, nt3 []byte
	switch m {
	case ines.MirrorHorizontal:
		nt0, nt1, nt2, nt3 = a, a, b, b
	case ines.MirrorVertical:
		nt0, nt1, nt2, nt3 = a, b, a, b
	case ines.MirrorSingleA:
		nt0, nt1, nt2, nt3 = a, a, a, a
	case ines.MirrorSingleB:
		nt0, nt1, nt2, nt3 = b, b, b, b
	default:
		// Four-screen needs cartridge-resident nametable RAM this core
		// doesn't model; fall back to vertical rather than refuse to load.
		nt0, nt1, nt2, nt3 = a, b, a, b
	}

	c.ppu.Bus.MapMemorySlice(0x2000, 0x23FF, nt0, false)
	c.ppu.Bus.MapMemorySlice(0x2400, 0x27FF, nt1, false)
	c.ppu.Bus.MapMemorySlice(0x2800, 0x2BFF, nt2, false)
	c.ppu.Bus.MapMemorySlice(0x2C00, 0x2FFF, nt3, false)
	c.ppu.Bus.MapMemorySlice(0x3000, 0x33FF, nt0, false)
	c.ppu.Bus.MapMemorySlice(0x3400, 0x37FF, nt1, false)
	c.ppu.Bus.MapMemorySlice(0x3800, 0x3BFF, nt2, false)
	c.ppu.Bus.MapMemorySlice(0x3C00, 0x3EFF, nt3, false)
}

// initPRGRAM allocates and maps sz bytes of battery-backed or work RAM at
// $6000-$7FFF. Boards that don't have any simply never call it.
func (c *cartridge) initPRGRAM(sz int) {
	if sz == 0 {
		sz = 0x2000
	}
	c.prgRAM = make([]byte, sz)
	c.cpu.Bus.MapMirrored(0x6000, 0x7FFF, uint16(sz), &prgRAMDevice{buf: c.prgRAM})
}

// prgRAMDevice wraps a PRG-RAM slice as a BankIO8 so MapMirrored can repeat
// it across $6000-$7FFF when sz is smaller than the window.
type prgRAMDevice struct{ buf []byte }

func (d *prgRAMDevice) Read8(addr uint16) uint8  { return d.buf[addr%uint16(len(d.buf))] }
func (d *prgRAMDevice) Write8(addr uint16, v uint8) { d.buf[addr%uint16(len(d.buf))] = v }
