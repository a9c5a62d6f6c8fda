package hwio

// Func8 adapts a pair of read/write closures into a BankIO8, for devices
// whose "register" has no backing storage at all (e.g. OAMDMA, the
// controller strobe/shift ports).
type Func8 struct {
	ReadFn  func(addr uint16) uint8
	WriteFn func(addr uint16, val uint8)
}

func (f Func8) Read8(addr uint16) uint8 {
	if f.ReadFn == nil {
		return 0
	}
	return f.ReadFn(addr)
}

func (f Func8) Write8(addr uint16, val uint8) {
	if f.WriteFn != nil {
		f.WriteFn(addr, val)
	}
}
