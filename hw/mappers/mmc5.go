package mappers

import (
	"nestor/hw"
	"nestor/hw/hwdefs"
	"nestor/hw/snapshot"
	"nestor/ines"
)

// mmc5 implements the banking and IRQ portions of mapper 5 (MMC5, used by
// Castlevania III and Metroid's Japanese release): 8 KiB-granularity PRG
// banking across four modes, 1 KiB-granularity CHR banking, a 1 KiB
// extended RAM that the CPU reads and writes at $5C00-$5FFF (as the $5104
// mode allows), and a scanline counter that raises an IRQ when it reaches a
// programmed target. The nametable-mapping ($5105) and fill ($5106/$5107)
// registers are stored and saved in snapshots but not applied: the PPU's
// nametables keep the header's mirroring, and ExRAM is never fetched as
// nametable or attribute data. MMC5's extra sound
// channels (a third square-ish "PCM" channel and the hardware multiplier)
// are not modeled.
type mmc5 struct {
	*cartridge
	a12 a12Watcher

	prgMode uint8 // $5100: 0=32K,1=16K+16K,2=16K+8K+8K,3=8K*4
	chrMode uint8 // $5101
	exRAMMode uint8 // $5104
	ntMode    uint8 // $5105, 2 bits per nametable quadrant
	fillTile  uint8 // $5106
	fillAttr  uint8 // $5107

	prgBanks [4]uint8 // $5113-$5117, bit7 selects ROM(1)/RAM(0) except slot3 always ROM
	chrBanks [8]uint8 // $5120-$512B collapse to 8 effective 1 KiB banks for bg; sprite set mirrors it here

	exRAM [0x400]byte

	irqTarget  uint8 // $5203
	irqEnabled bool  // $5204 bit7
	irqPending bool
	scanline   uint8
}

func newMMC5(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*mmc5, error) {
	c, err := newCartridge(rom, cpu, ppu)
	if err != nil {
		return nil, err
	}
	m := &mmc5{cartridge: c}
	m.a12.onRise = m.clockScanline
	m.a12.threshold = 3
	if rom.PRGRAMSize() > 0 {
		m.prgRAM = make([]byte, rom.PRGRAMSize())
	} else {
		m.prgRAM = make([]byte, 0x10000)
	}
	cpu.Bus.MapDevice(0x5000, 0x5FFF, m)
	cpu.Bus.MapDevice(0x6000, 0x7FFF, m)
	cpu.Bus.MapDevice(0x8000, 0xFFFF, m)
	ppu.Bus.MapDevice(0x0000, 0x1FFF, mmc5CHR{m})
	m.Reset(false)
	return m, nil
}

func (m *mmc5) Reset(soft bool) {
	m.prgMode, m.chrMode = 3, 3
	m.exRAMMode, m.ntMode = 0, 0
	m.fillTile, m.fillAttr = 0, 0
	m.prgBanks = [4]uint8{0xFF, 0xFF, 0xFF, 0xFF}
	m.chrBanks = [8]uint8{}
	m.irqTarget, m.irqEnabled, m.irqPending, m.scanline = 0, false, false, 0
	m.setMirroring(m.rom.Mirroring())
}

func (m *mmc5) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x5204:
		return 0
	case addr == 0x5204:
		v := uint8(0)
		if m.irqPending {
			v |= 0x80
		}
		m.irqPending = false
		m.cpu.ClearIRQSource(hwdefs.External)
		return v
	case addr < 0x5C00:
		return 0
	case addr < 0x6000:
		if m.exRAMMode >= 2 {
			return m.exRAM[addr&0x3FF]
		}
		return 0
	case addr < 0x8000:
		return m.prgWindow(addr)
	default:
		return m.prgWindow(addr)
	}
}

func (m *mmc5) Write8(addr uint16, val uint8) {
	switch {
	case addr == 0x5100:
		m.prgMode = val & 0x03
	case addr == 0x5101:
		m.chrMode = val & 0x03
	case addr == 0x5104:
		m.exRAMMode = val & 0x03
	case addr == 0x5105:
		m.ntMode = val
	case addr == 0x5106:
		m.fillTile = val
	case addr == 0x5107:
		m.fillAttr = val & 0x03
	case addr >= 0x5113 && addr <= 0x5117:
		m.prgBanks[addr-0x5113] = val
	case addr >= 0x5120 && addr <= 0x512B:
		idx := (addr - 0x5120) % 8
		m.chrBanks[idx] = val
	case addr == 0x5203:
		m.irqTarget = val
	case addr == 0x5204:
		m.irqEnabled = val&0x80 != 0
	case addr >= 0x5C00 && addr < 0x6000:
		if m.exRAMMode != 3 {
			m.exRAM[addr&0x3FF] = val
		}
	case addr >= 0x6000 && addr < 0x8000:
		m.prgRAM[m.ramOffset(addr)] = val
	}
}

func (m *mmc5) ramOffset(addr uint16) int {
	bank := int(m.prgBanks[0] & 0x0F)
	n := len(m.prgRAM) / 0x2000
	if n == 0 {
		n = 1
	}
	return wrap(bank, n)*0x2000 + int(addr&0x1FFF)
}

func (m *mmc5) prgWindow(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.prgRAM[m.ramOffset(addr)]
	}
	switch m.prgMode {
	case 0:
		bank := int(m.prgBanks[3]&0x7F) >> 2
		n := m.numPRGBanks16k() / 2
		if n == 0 {
			n = 1
		}
		off := int(addr & 0x7FFF)
		return m.rom.PRG[wrap(bank, n)*0x8000+off]
	case 1:
		if addr < 0xC000 {
			return m.prgBank16k(int(m.prgBanks[1]&0x7F) >> 1)[addr&0x3FFF]
		}
		return m.prgBank16k(int(m.prgBanks[3]&0x7F) >> 1)[addr&0x3FFF]
	case 2:
		slot := (addr - 0x8000) / 0x2000
		reg := [4]uint8{m.prgBanks[1] &^ 1, m.prgBanks[1] | 1, m.prgBanks[2], m.prgBanks[3]}[slot]
		return m.prgBank8k(int(reg & 0x7F))[addr&0x1FFF]
	default: // 3: four independent 8 KiB banks
		slot := (addr - 0x8000) / 0x2000
		reg := [4]uint8{m.prgBanks[0], m.prgBanks[1], m.prgBanks[2], m.prgBanks[3]}[slot]
		return m.prgBank8k(int(reg & 0x7F))[addr&0x1FFF]
	}
}

func (m *mmc5) prgBank8k(bank int) []byte {
	n := m.numPRGBanks16k() * 2
	if n == 0 {
		n = 1
	}
	bank = wrap(bank, n)
	half := m.prgBank16k(bank / 2)
	if bank%2 == 0 {
		return half[:0x2000]
	}
	return half[0x2000:]
}

// SetIRQFilter mirrors mmc3's tunable A12 re-arm filter.
func (m *mmc5) SetIRQFilter(lowCycles uint8) { m.a12.threshold = lowCycles }

func (m *mmc5) clockScanline() {
	m.scanline++
	if m.scanline == m.irqTarget {
		m.irqPending = true
		if m.irqEnabled {
			m.cpu.SetIRQSource(hwdefs.External)
		}
	}
}

type mmc5CHR struct{ *mmc5 }

func (d mmc5CHR) Read8(addr uint16) uint8 {
	d.a12.observe(addr)
	return d.chrByte(addr)
}

func (d mmc5CHR) Write8(addr uint16, val uint8) {
	if d.usesCHRRAM() {
		d.chrRAM[addr&0x1FFF] = val
	}
}

func (m *mmc5) chrByte(addr uint16) uint8 {
	if m.usesCHRRAM() {
		return m.chrRAM[addr&0x1FFF]
	}
	idx := addr / 0x400
	bank := m.chrBanks[idx&0x7]
	n := len(m.rom.CHR) / 0x400
	if n == 0 {
		n = 1
	}
	return m.rom.CHR[wrap(int(bank), n)*0x400+int(addr&0x3FF)]
}

func (m *mmc5) State() *snapshot.Mapper {
	return &snapshot.Mapper{
		PRGBanks:      [4]int32{int32(m.prgBanks[0]), int32(m.prgBanks[1]), int32(m.prgBanks[2]), int32(m.prgBanks[3])},
		CHRBanks:      [8]int32{int32(m.chrBanks[0]), int32(m.chrBanks[1]), int32(m.chrBanks[2]), int32(m.chrBanks[3]), int32(m.chrBanks[4]), int32(m.chrBanks[5]), int32(m.chrBanks[6]), int32(m.chrBanks[7])},
		Ctrl:          m.prgMode,
		ExRAMMode:     m.exRAMMode,
		NametableMode: m.ntMode,
		FillTile:      m.fillTile,
		FillAttr:      m.fillAttr,
		ExRAM:         m.exRAM[:],
		PRGRAM:        m.prgRAM,
		CHRRAM:        m.chrRAM,
		IRQLatch:      m.irqTarget,
		IRQEnabled:    m.irqEnabled,
		IRQPending:    m.irqPending,
		IRQCounter:    m.scanline,
	}
}

func (m *mmc5) SetState(s *snapshot.Mapper) {
	for i := range m.prgBanks {
		m.prgBanks[i] = uint8(s.PRGBanks[i])
	}
	for i := range m.chrBanks {
		m.chrBanks[i] = uint8(s.CHRBanks[i])
	}
	m.prgMode = s.Ctrl
	m.exRAMMode = s.ExRAMMode
	m.ntMode = s.NametableMode
	m.fillTile = s.FillTile
	m.fillAttr = s.FillAttr
	if len(s.ExRAM) > 0 {
		copy(m.exRAM[:], s.ExRAM)
	}
	if len(s.PRGRAM) > 0 {
		copy(m.prgRAM, s.PRGRAM)
	}
	if len(s.CHRRAM) > 0 {
		copy(m.chrRAM, s.CHRRAM)
	}
	m.irqTarget = s.IRQLatch
	m.irqEnabled = s.IRQEnabled
	m.irqPending = s.IRQPending
	m.scanline = s.IRQCounter
}
