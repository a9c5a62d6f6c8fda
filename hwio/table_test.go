package hwio

import "testing"

type regs8 struct{ v uint8 }

func (r *regs8) Read8(addr uint16) uint8    { return r.v }
func (r *regs8) Write8(addr uint16, v uint8) { r.v = v }

func TestTableMappedDispatch(t *testing.T) {
	tbl := NewTable("test")
	dev := &regs8{v: 0x42}
	tbl.MapDevice(0x10, 0x1F, dev)

	if !tbl.Mapped(0x10) || !tbl.Mapped(0x1F) {
		t.Fatal("expected 0x10-0x1F to be mapped")
	}
	if tbl.Mapped(0x20) {
		t.Fatal("expected 0x20 to be unmapped")
	}
	if got := tbl.Read8(0x15); got != 0x42 {
		t.Errorf("Read8(0x15) = %#x, want 0x42", got)
	}
	tbl.Write8(0x15, 0x99)
	if dev.v != 0x99 {
		t.Errorf("device value = %#x, want 0x99", dev.v)
	}
}

func TestTableOpenBusReturnsLastValue(t *testing.T) {
	tbl := NewTable("test")
	dev := &regs8{}
	tbl.MapDevice(0x00, 0x00, dev)

	tbl.Write8(0x00, 0x77) // latches t.last = 0x77 via the mapped path
	if got := tbl.Read8(0x9999); got != 0x77 {
		t.Errorf("unmapped Read8 = %#x, want last-driven byte 0x77", got)
	}

	// An unmapped write also latches, so a following unmapped read sees it.
	tbl.Write8(0x8888, 0xAB)
	if got := tbl.Read8(0x9999); got != 0xAB {
		t.Errorf("unmapped Read8 after unmapped write = %#x, want 0xAB", got)
	}
}

func TestTableUnmap(t *testing.T) {
	tbl := NewTable("test")
	dev := &regs8{v: 1}
	tbl.MapDevice(0x00, 0x0F, dev)
	tbl.Unmap(0x00, 0x0F)
	if tbl.Mapped(0x05) {
		t.Fatal("expected range to be unmapped")
	}
}

func TestMapMirrored(t *testing.T) {
	tbl := NewTable("test")
	dev := &regs8{v: 9}
	tbl.MapMirrored(0x2000, 0x3FFF, 0x0008, dev)

	for _, addr := range []uint16{0x2000, 0x2008, 0x3FF8} {
		if !tbl.Mapped(addr) {
			t.Errorf("expected %#x to be mapped via mirroring", addr)
		}
	}
}

func TestRead16Write16(t *testing.T) {
	tbl := NewTable("test")
	tbl.MapMemorySlice(0x0000, 0x00FF, make([]byte, 0x100), false)

	Write16(tbl, 0x0010, 0xBEEF)
	if got := Read16(tbl, 0x0010); got != 0xBEEF {
		t.Errorf("Read16 = %#x, want 0xBEEF", got)
	}
}
