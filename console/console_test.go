package console

import (
	"testing"

	"nestor/ines"
)

// nopRom builds a minimal NROM-128 cartridge whose PRG is a wall of NOPs
// with the reset vector pointed at the start of the mapped window, so
// StepFrame can run real CPU cycles without hitting an invalid opcode.
func nopRom() *ines.Rom {
	prg := make([]byte, 0x4000)
	for i := range prg {
		prg[i] = 0xEA // NOP
	}
	prg[0x3FFC] = 0x00 // reset vector low  -> $8000
	prg[0x3FFD] = 0x80 // reset vector high
	return &ines.Rom{PRG: prg, CHR: make([]byte, 0x2000)}
}

func TestNewPowersUpAndResets(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.CPU.PC != 0x8000 {
		t.Errorf("PC after power-on = %#x, want $8000", c.CPU.PC)
	}
}

func TestStepFrameAdvancesCPUCycles(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := c.CPU.Cycles
	c.StepFrame([2]ControllerState{})
	if c.CPU.Cycles <= before {
		t.Fatalf("Cycles did not advance: before=%d after=%d", before, c.CPU.Cycles)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.StepFrame([2]ControllerState{})
	snap := c.Snapshot()
	pcAtSnapshot := c.CPU.PC
	cyclesAtSnapshot := c.CPU.Cycles

	// Diverge from the snapshot.
	c.StepFrame([2]ControllerState{})
	c.StepFrame([2]ControllerState{})
	if c.CPU.Cycles == cyclesAtSnapshot {
		t.Fatal("expected state to have diverged after further stepping")
	}

	if err := c.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if c.CPU.PC != pcAtSnapshot {
		t.Errorf("PC after restore = %#x, want %#x", c.CPU.PC, pcAtSnapshot)
	}
	if c.CPU.Cycles != cyclesAtSnapshot {
		t.Errorf("Cycles after restore = %d, want %d", c.CPU.Cycles, cyclesAtSnapshot)
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pc := c.CPU.PC

	if err := c.Restore([]byte("not a snapshot")); err == nil {
		t.Fatal("expected Restore to reject garbage input")
	}
	if c.CPU.PC != pc {
		t.Error("a failed Restore must leave the live console untouched")
	}
}

func TestBatteryRAMNilWithoutPersistence(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.BatteryRAM(); got != nil {
		t.Errorf("BatteryRAM() = %v, want nil for a cart with no battery", got)
	}
	// RestoreBatteryRAM must be a harmless no-op in the same situation.
	c.RestoreBatteryRAM([]byte{1, 2, 3})
}

func TestSetPermissiveOpcodesPreventsHalt(t *testing.T) {
	rom := nopRom()
	rom.PRG[0] = 0x02 // JAM at $8000

	c, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.SetPermissiveOpcodes(true)
	c.StepFrame([2]ControllerState{})

	if c.CPU.IsHalted() {
		t.Fatal("expected permissive mode to keep the CPU running past a JAM byte")
	}
}

func TestSetMapperIRQFilterIsNoopForNROM(t *testing.T) {
	c, err := New(nopRom())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// NROM has no IRQ counter; this must not panic.
	c.SetMapperIRQFilter(8)
}
