package mappers

import (
	"fmt"

	"nestor/hw"
	"nestor/ines"
)

// Load builds the cartridge-side Mapper implementation for rom's iNES
// mapper number and wires it onto cpu's and ppu's buses. Every returned
// value satisfies hw.Mapper.
func Load(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (hw.Mapper, error) {
	switch rom.Mapper() {
	case 0:
		return newNROM(rom, cpu, ppu)
	case 1:
		return newMMC1(rom, cpu, ppu, false)
	case 2:
		return newUxROM(rom, cpu, ppu)
	case 3:
		return newCNROM(rom, cpu, ppu)
	case 4:
		return newMMC3(rom, cpu, ppu)
	case 5:
		return newMMC5(rom, cpu, ppu)
	case 7:
		return newAxROM(rom, cpu, ppu)
	case 9:
		return newMMC2(rom, cpu, ppu)
	case 71:
		return newBF909x(rom, cpu, ppu)
	case 155:
		return newMMC1(rom, cpu, ppu, true)
	default:
		return nil, fmt.Errorf("mappers: unsupported mapper %d", rom.Mapper())
	}
}
