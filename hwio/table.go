// Package hwio provides a small memory-mapped I/O bus abstraction used by the
// CPU and PPU to route byte-wide reads and writes to RAM, registers and
// mapper-controlled cartridge space.
package hwio

import "nestor/log"

// BankIO8 is implemented by anything that can be mapped onto a Table: RAM,
// registers, or a device forwarding accesses to the cartridge mapper.
type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// PeekIO8 is optionally implemented by devices that can provide a read
// without side effects, for tracing/debugging.
type PeekIO8 interface {
	Peek8(addr uint16) uint8
}

// Table routes accesses in a 16-bit address space to whichever BankIO8 was
// last mapped over a given address. Unlike a general-purpose radix tree, the
// NES address space is small enough (64 KiB) that a flat array of device
// pointers, one per address, gives O(1) dispatch with no extra bookkeeping.
type Table struct {
	Name    string
	devices [0x10000]BankIO8
	last    uint8 // last byte driven onto the bus, returned on an unmapped access
}

// NewTable creates an empty bus. name is used for log messages only.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// MapDevice maps io over [begin, end] inclusive.
func (t *Table) MapDevice(begin, end uint16, io BankIO8) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		t.devices[addr] = io
	}
}

// MapMirrored maps io over [begin, begin+span) and repeats the mapping every
// stride bytes until end is reached (used for RAM mirroring, PPU register
// mirroring, and palette-mirrored nametables).
func (t *Table) MapMirrored(begin, end uint16, stride uint16, io BankIO8) {
	for base := uint32(begin); base <= uint32(end); base += uint32(stride) {
		last := base + uint32(stride) - 1
		if last > uint32(end) {
			last = uint32(end)
		}
		t.MapDevice(uint16(base), uint16(last), io)
	}
}

// MapMemorySlice maps a contiguous, pre-sized byte slice (ROM or RAM) as
// linear memory, optionally read-only.
func (t *Table) MapMemorySlice(begin, end uint16, buf []byte, readonly bool) {
	t.MapDevice(begin, end, &SliceMem{Data: buf, ReadOnly: readonly})
}

// Unmap clears any mapping over [begin, end].
func (t *Table) Unmap(begin, end uint16) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		t.devices[addr] = nil
	}
}

// Mapped reports whether any device is mapped at addr.
func (t *Table) Mapped(addr uint16) bool { return t.devices[addr] != nil }

// Read8 forwards a read to whichever device is mapped at addr, or returns
// whatever byte last crossed the bus (simulating open bus) if nothing is
// mapped there.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.devices[addr]
	if io == nil {
		log.ModIO.TraceZ("unmapped read, returning open bus").Hex16("addr", addr).String("bus", t.Name).End()
		return t.last
	}
	t.last = io.Read8(addr)
	return t.last
}

// Peek8 reads without side effects where the mapped device supports it,
// falling back to Read8 otherwise. Used by the disassembler and debugger.
func (t *Table) Peek8(addr uint16) uint8 {
	io := t.devices[addr]
	if io == nil {
		return 0
	}
	if p, ok := io.(PeekIO8); ok {
		return p.Peek8(addr)
	}
	return io.Read8(addr)
}

// Write8 forwards a write, dropping it silently (open bus) if unmapped.
// Either way, val is latched as the byte a following unmapped read sees.
func (t *Table) Write8(addr uint16, val uint8) {
	t.last = val
	io := t.devices[addr]
	if io == nil {
		log.ModIO.TraceZ("unmapped write").Hex16("addr", addr).Hex8("val", val).String("bus", t.Name).End()
		return
	}
	io.Write8(addr, val)
}

// Read16 and Write16 read/write a little-endian 16-bit value through a bus.
func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}
