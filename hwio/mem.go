package hwio

import "nestor/log"

// SliceMem wraps a plain byte slice (RAM or ROM) as a BankIO8, mirroring
// accesses that fall outside the slice's length down into it. Data's length
// must be a power of two.
type SliceMem struct {
	Name     string
	Data     []byte
	ReadOnly bool
	Base     uint16 // address the mapping starts at; used to compute the mirrored offset

	// WriteCb, if set, is called in addition to a successful write.
	WriteCb func(addr uint16, val uint8)
}

func (m *SliceMem) mask() uint16 { return uint16(len(m.Data) - 1) }

func (m *SliceMem) Read8(addr uint16) uint8 {
	return m.Data[(addr-m.Base)&m.mask()]
}

func (m *SliceMem) Peek8(addr uint16) uint8 {
	return m.Read8(addr)
}

func (m *SliceMem) Write8(addr uint16, val uint8) {
	if m.ReadOnly {
		log.ModIO.DebugZ("write to read-only memory").Hex16("addr", addr).Hex8("val", val).End()
		return
	}
	m.Data[(addr-m.Base)&m.mask()] = val
	if m.WriteCb != nil {
		m.WriteCb(addr, val)
	}
}

// NewRAM allocates a zeroed RAM region of the given power-of-two size.
func NewRAM(size int) *SliceMem {
	return &SliceMem{Data: make([]byte, size)}
}
