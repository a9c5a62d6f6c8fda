package mappers

import (
	"testing"

	"nestor/hw"
	"nestor/ines"
)

func newTestBuses() (*hw.CPU, *hw.PPU) {
	cpu := hw.NewCPU()
	ppu := hw.NewPPU()
	cpu.PlugPPU(ppu)
	cpu.InitBus()
	return cpu, ppu
}

// prgFilledWith16kBanks builds an n*16KiB PRG image where byte 0 of bank i
// is the value i, so bank-switching tests can assert on which bank is
// visible at a given address without needing full instruction decoding.
func prgFilledWith16kBanks(n int) []byte {
	prg := make([]byte, n*0x4000)
	for i := 0; i < n; i++ {
		prg[i*0x4000] = byte(i)
	}
	return prg
}

func TestNROM128MirrorsSingleBank(t *testing.T) {
	cpu, ppu := newTestBuses()
	rom := &ines.Rom{PRG: prgFilledWith16kBanks(1), CHR: make([]byte, 0x2000)}

	if _, err := newNROM(rom, cpu, ppu); err != nil {
		t.Fatalf("newNROM: %v", err)
	}

	if got := cpu.Bus.Read8(0x8000); got != 0 {
		t.Errorf("Read8($8000) = %d, want 0", got)
	}
	if got := cpu.Bus.Read8(0xC000); got != 0 {
		t.Errorf("Read8($C000) = %d, want 0 (single bank mirrored)", got)
	}
}

func TestNROM256MapsFullImage(t *testing.T) {
	cpu, ppu := newTestBuses()
	prg := prgFilledWith16kBanks(2)
	rom := &ines.Rom{PRG: prg, CHR: make([]byte, 0x2000)}

	if _, err := newNROM(rom, cpu, ppu); err != nil {
		t.Fatalf("newNROM: %v", err)
	}

	if got := cpu.Bus.Read8(0x8000); got != 0 {
		t.Errorf("Read8($8000) = %d, want 0", got)
	}
	if got := cpu.Bus.Read8(0xC000); got != 1 {
		t.Errorf("Read8($C000) = %d, want 1 (second bank)", got)
	}
}

func TestNROMRejectsUnalignedPRG(t *testing.T) {
	cpu, ppu := newTestBuses()
	rom := &ines.Rom{PRG: make([]byte, 100), CHR: make([]byte, 0x2000)}
	if _, err := newNROM(rom, cpu, ppu); err == nil {
		t.Fatal("expected an error for a PRG size that isn't a multiple of 16KiB")
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	cpu, ppu := newTestBuses()
	prg := prgFilledWith16kBanks(4)
	rom := &ines.Rom{PRG: prg, CHR: make([]byte, 0x2000)}

	u, err := newUxROM(rom, cpu, ppu)
	if err != nil {
		t.Fatalf("newUxROM: %v", err)
	}

	// $C000 is always fixed to the last bank.
	if got := cpu.Bus.Read8(0xC000); got != 3 {
		t.Errorf("Read8($C000) = %d, want 3 (fixed last bank)", got)
	}
	// $8000 starts on bank 0 after reset.
	if got := cpu.Bus.Read8(0x8000); got != 0 {
		t.Errorf("Read8($8000) = %d, want 0", got)
	}

	u.Write8(0x8000, 2)
	if got := cpu.Bus.Read8(0x8000); got != 2 {
		t.Errorf("after bank switch, Read8($8000) = %d, want 2", got)
	}
	if got := cpu.Bus.Read8(0xC000); got != 3 {
		t.Errorf("Read8($C000) after switch = %d, want 3 (still fixed)", got)
	}
}

func TestCHRRAMAllocatedWhenNoCHRROM(t *testing.T) {
	cpu, ppu := newTestBuses()
	rom := &ines.Rom{PRG: prgFilledWith16kBanks(1)} // no CHR

	n, err := newNROM(rom, cpu, ppu)
	if err != nil {
		t.Fatalf("newNROM: %v", err)
	}
	if !n.usesCHRRAM() {
		t.Fatal("expected CHR-RAM to be allocated when the ROM has no CHR-ROM")
	}

	ppu.Bus.Write8(0x0000, 0x55)
	if got := ppu.Bus.Read8(0x0000); got != 0x55 {
		t.Errorf("CHR-RAM round trip = %#x, want 0x55", got)
	}
}
