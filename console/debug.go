package console

import "nestor/hw"

// CPUState is a snapshot of the CPU's user-visible registers, for debug
// views that don't need the full internal snapshot format.
type CPUState struct {
	PC          uint16
	SP, P, A, X, Y uint8
	Cycles      int64
}

// CPUState reports the CPU's current registers without side effects.
func (c *Console) CPUState() CPUState {
	s := c.CPU.State()
	return CPUState{PC: s.PC, SP: s.SP, P: s.P, A: s.A, X: s.X, Y: s.Y, Cycles: s.Cycles}
}

// Disassemble decodes the instruction at pc without advancing execution.
func (c *Console) Disassemble(pc uint16) hw.DisasmOp { return c.CPU.Disasm(pc) }

// PatternTable decodes one of the PPU's two 4 KiB pattern tables (0 or 1)
// into a flat slice of 256 8x8 tiles, each tile 64 bytes of 2-bit palette
// indices (0-3), for tools that want to render the cartridge's raw CHR data
// without going through the render pipeline.
func (c *Console) PatternTable(half int) []byte {
	base := uint16(half&1) * 0x1000
	out := make([]byte, 256*64)
	for tile := 0; tile < 256; tile++ {
		tileBase := base + uint16(tile)*16
		for row := 0; row < 8; row++ {
			lo := c.PPU.Bus.Peek8(tileBase + uint16(row))
			hi := c.PPU.Bus.Peek8(tileBase + uint16(row) + 8)
			for col := 0; col < 8; col++ {
				shift := 7 - col
				bit0 := (lo >> shift) & 1
				bit1 := (hi >> shift) & 1
				out[tile*64+row*8+col] = bit1<<1 | bit0
			}
		}
	}
	return out
}

// PPUViewer exposes the handful of PPU registers and counters useful for an
// on-screen debug overlay: current scanline/dot and the raw palette RAM.
type PPUViewer struct {
	Scanline int
	Cycle    uint32
	Palette  [0x20]uint8
}

func (c *Console) PPUViewer() PPUViewer {
	s := c.PPU.State()
	return PPUViewer{Scanline: s.Scanline, Cycle: s.Cycle, Palette: s.Palette}
}
