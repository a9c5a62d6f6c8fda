package hw

import "testing"

// stubPPU and stubAPU satisfy ppuDevice/apuDevice with no-op behavior, just
// enough for InitBus to wire the $2000-$3FFF and $4000-$4017 windows.
type stubPPU struct{}

func (stubPPU) Read8(addr uint16) uint8    { return 0 }
func (stubPPU) Write8(addr uint16, v uint8) {}
func (stubPPU) Run(masterClock uint64)      {}

type stubAPU struct{}

func (stubAPU) Read8(addr uint16) uint8    { return 0 }
func (stubAPU) Write8(addr uint16, v uint8) {}
func (stubAPU) Tick()                       {}
func (stubAPU) Enabled() bool               { return true }

// newTestCPU builds a CPU wired to a flat 32KB PRG ROM at $8000-$FFFF, with
// the reset vector pointed at $8000, so tests can drop opcodes at the start
// of PRG and run them without a real cartridge/mapper.
func newTestCPU(prg []byte) (*CPU, []byte) {
	c := NewCPU()
	c.PlugPPU(stubPPU{})
	c.PlugAPU(stubAPU{})
	c.InitBus()

	rom := make([]byte, 0x8000)
	copy(rom, prg)
	rom[0x7FFC] = 0x00 // reset vector low -> $8000
	rom[0x7FFD] = 0x80 // reset vector high
	c.Bus.MapMemorySlice(0x8000, 0xFFFF, rom, true)

	c.Reset(false)
	return c, rom
}

func TestJAMHaltsInStrictMode(t *testing.T) {
	c, _ := newTestCPU([]byte{0x02}) // JAM at $8000
	c.Run(10)

	if !c.IsHalted() {
		t.Fatal("expected CPU to halt on JAM in strict mode")
	}
}

func TestJAMIsNopInPermissiveMode(t *testing.T) {
	c, _ := newTestCPU([]byte{0x02, 0xEA, 0xEA}) // JAM, NOP, NOP
	c.SetPermissiveOpcodes(true)

	startPC := c.PC
	c.Run(10)

	if c.IsHalted() {
		t.Fatal("expected CPU to keep running past JAM in permissive mode")
	}
	if c.PC <= startPC {
		t.Fatalf("PC did not advance past the JAM byte: %#x", c.PC)
	}
}

func TestReadUnmappedAddressDoesNotPanic(t *testing.T) {
	c, _ := newTestCPU([]byte{0xEA})

	// $5000 is outside any mapped window (no cartridge expansion RAM here);
	// Read8/Write8 should log an InvalidAddressError rather than panic, and
	// the open-bus value should come back unharmed.
	_ = c.Read8(0x5000)
	c.Write8(0x5000, 0x42)
}
