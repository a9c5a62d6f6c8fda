package snapshot

import (
	"errors"
	"fmt"

	"github.com/go-faster/jx"
)

// CurrentVersion is the only version this Encoder emits and this Decoder
// accepts. Bump it whenever NES's field set changes in a way that would
// silently misread an old save-state.
const CurrentVersion = 1

// VersionError reports a save-state whose version tag doesn't match
// CurrentVersion, so the caller never tries to decode a layout this build
// doesn't understand.
type VersionError struct {
	Got, Want int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("snapshot: version %d, want %d", e.Got, e.Want)
}

// Encoder serializes a NES snapshot into a single flat JSON object, written
// through go-faster/jx's streaming writer rather than encoding/json so a
// save-state never costs an intermediate reflection pass over the whole
// struct tree.
type Encoder struct {
	e jx.Encoder
}

func NewEncoder() *Encoder { return &Encoder{} }

// Encode returns the encoded bytes. The Encoder is single-use: call
// NewEncoder again for the next snapshot.
func (enc *Encoder) Encode(s *NES) []byte {
	enc.e.ObjStart()
	enc.e.FieldStart("version")
	enc.e.Int(s.Version)
	enc.e.FieldStart("cpu")
	writeCPU(&enc.e, s.CPU)
	enc.e.FieldStart("ram")
	writeU8Slice(&enc.e, s.RAM[:])
	enc.e.FieldStart("dma")
	writeDMA(&enc.e, s.DMA)
	enc.e.FieldStart("ppu")
	writePPU(&enc.e, s.PPU)
	enc.e.FieldStart("apu")
	writeAPU(&enc.e, s.APU)
	enc.e.FieldStart("mapper")
	writeMapper(&enc.e, s.Mapper)
	enc.e.ObjEnd()
	return enc.e.Bytes()
}

// Decode parses data into a freshly allocated NES, validating the version
// tag first. It never touches caller state: on error the returned *NES is
// nil, so Console.Restore can decode into a scratch value and only swap the
// live console over on success.
func Decode(data []byte) (*NES, error) {
	d := jx.DecodeBytes(data)
	s := &NES{}
	sawVersion := false
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			v, err := d.Int()
			if err != nil {
				return err
			}
			s.Version = v
			sawVersion = true
			if v != CurrentVersion {
				return &VersionError{Got: v, Want: CurrentVersion}
			}
		case "cpu":
			cpu, err := readCPU(d)
			if err != nil {
				return err
			}
			s.CPU = cpu
		case "ram":
			return readU8Slice(d, s.RAM[:])
		case "dma":
			dma, err := readDMA(d)
			if err != nil {
				return err
			}
			s.DMA = dma
		case "ppu":
			ppu, err := readPPU(d)
			if err != nil {
				return err
			}
			s.PPU = ppu
		case "apu":
			au, err := readAPU(d)
			if err != nil {
				return err
			}
			s.APU = au
		case "mapper":
			m, err := readMapper(d)
			if err != nil {
				return err
			}
			s.Mapper = m
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		var verr *VersionError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, err
	}
	if !sawVersion {
		return nil, &VersionError{Got: 0, Want: CurrentVersion}
	}
	return s, nil
}

func writeU8Slice(e *jx.Encoder, b []byte) {
	e.ArrStart()
	for _, v := range b {
		e.UInt8(v)
	}
	e.ArrEnd()
}

func readU8Slice(d *jx.Decoder, dst []byte) error {
	i := 0
	return d.Arr(func(d *jx.Decoder) error {
		v, err := d.UInt8()
		if err != nil {
			return err
		}
		if i < len(dst) {
			dst[i] = v
		}
		i++
		return nil
	})
}

func writeU32Slice(e *jx.Encoder, b []uint32) {
	e.ArrStart()
	for _, v := range b {
		e.UInt32(v)
	}
	e.ArrEnd()
}

func readU32Slice(d *jx.Decoder, dst []uint32) error {
	i := 0
	return d.Arr(func(d *jx.Decoder) error {
		v, err := d.UInt32()
		if err != nil {
			return err
		}
		if i < len(dst) {
			dst[i] = v
		}
		i++
		return nil
	})
}

func writeI32Slice(e *jx.Encoder, b []int32) {
	e.ArrStart()
	for _, v := range b {
		e.Int32(v)
	}
	e.ArrEnd()
}

func readI32Slice(d *jx.Decoder, dst []int32) error {
	i := 0
	return d.Arr(func(d *jx.Decoder) error {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		if i < len(dst) {
			dst[i] = v
		}
		i++
		return nil
	})
}

func writeI16Slice(e *jx.Encoder, b []int16) {
	e.ArrStart()
	for _, v := range b {
		e.Int32(int32(v))
	}
	e.ArrEnd()
}

func readI16Slice(d *jx.Decoder, dst []int16) error {
	i := 0
	return d.Arr(func(d *jx.Decoder) error {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		if i < len(dst) {
			dst[i] = int16(v)
		}
		i++
		return nil
	})
}

func writeCPU(e *jx.Encoder, c *CPU) {
	if c == nil {
		e.Null()
		return
	}
	e.ObjStart()
	e.FieldStart("pc")
	e.UInt32(uint32(c.PC))
	e.FieldStart("sp")
	e.UInt8(c.SP)
	e.FieldStart("p")
	e.UInt8(c.P)
	e.FieldStart("a")
	e.UInt8(c.A)
	e.FieldStart("x")
	e.UInt8(c.X)
	e.FieldStart("y")
	e.UInt8(c.Y)
	e.FieldStart("cycles")
	e.Int64(c.Cycles)
	e.FieldStart("master_clock")
	e.Int64(c.MasterClock)
	e.FieldStart("irq_flag")
	e.UInt8(c.IRQFlag)
	e.FieldStart("run_irq")
	e.Bool(c.RunIRQ)
	e.FieldStart("prev_run_irq")
	e.Bool(c.PrevRunIRQ)
	e.FieldStart("nmi_flag")
	e.Bool(c.NMIFlag)
	e.FieldStart("prev_need_nmi")
	e.Bool(c.PrevNeedNMI)
	e.FieldStart("prev_nmi_flag")
	e.Bool(c.PrevNMIFlag)
	e.FieldStart("need_nmi")
	e.Bool(c.NeedNMI)
	e.ObjEnd()
}

func readCPU(d *jx.Decoder) (*CPU, error) {
	c := &CPU{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			var v uint32
			v, err = d.UInt32()
			c.PC = uint16(v)
		case "sp":
			c.SP, err = d.UInt8()
		case "p":
			c.P, err = d.UInt8()
		case "a":
			c.A, err = d.UInt8()
		case "x":
			c.X, err = d.UInt8()
		case "y":
			c.Y, err = d.UInt8()
		case "cycles":
			c.Cycles, err = d.Int64()
		case "master_clock":
			c.MasterClock, err = d.Int64()
		case "irq_flag":
			c.IRQFlag, err = d.UInt8()
		case "run_irq":
			c.RunIRQ, err = d.Bool()
		case "prev_run_irq":
			c.PrevRunIRQ, err = d.Bool()
		case "nmi_flag":
			c.NMIFlag, err = d.Bool()
		case "prev_need_nmi":
			c.PrevNeedNMI, err = d.Bool()
		case "prev_nmi_flag":
			c.PrevNMIFlag, err = d.Bool()
		case "need_nmi":
			c.NeedNMI, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func writeDMA(e *jx.Encoder, m *DMA) {
	if m == nil {
		e.Null()
		return
	}
	e.ObjStart()
	e.FieldStart("dmc_running")
	e.Bool(m.DMCRunning)
	e.FieldStart("abort_dmc")
	e.Bool(m.AbortDMC)
	e.FieldStart("oam_running")
	e.Bool(m.OAMRunning)
	e.FieldStart("dummy_cycle")
	e.Bool(m.DummyCycle)
	e.FieldStart("need_halt")
	e.Bool(m.NeedHalt)
	e.ObjEnd()
}

func readDMA(d *jx.Decoder) (*DMA, error) {
	m := &DMA{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "dmc_running":
			m.DMCRunning, err = d.Bool()
		case "abort_dmc":
			m.AbortDMC, err = d.Bool()
		case "oam_running":
			m.OAMRunning, err = d.Bool()
		case "dummy_cycle":
			m.DummyCycle, err = d.Bool()
		case "need_halt":
			m.NeedHalt, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func writeSprite(e *jx.Encoder, s *Sprite) {
	e.ObjStart()
	e.FieldStart("id")
	e.UInt8(s.ID)
	e.FieldStart("x")
	e.UInt8(s.X)
	e.FieldStart("y")
	e.UInt8(s.Y)
	e.FieldStart("tile")
	e.UInt8(s.Tile)
	e.FieldStart("attr")
	e.UInt8(s.Attr)
	e.FieldStart("data_l")
	e.UInt8(s.DataL)
	e.FieldStart("data_h")
	e.UInt8(s.DataH)
	e.ObjEnd()
}

func readSprite(d *jx.Decoder) (Sprite, error) {
	var s Sprite
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "tile":
			s.Tile, err = d.UInt8()
		case "attr":
			s.Attr, err = d.UInt8()
		case "data_l":
			s.DataL, err = d.UInt8()
		case "data_h":
			s.DataH, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	return s, err
}

func writeSpriteArr(e *jx.Encoder, arr []Sprite) {
	e.ArrStart()
	for i := range arr {
		writeSprite(e, &arr[i])
	}
	e.ArrEnd()
}

func readSpriteArr(d *jx.Decoder, dst []Sprite) error {
	i := 0
	return d.Arr(func(d *jx.Decoder) error {
		s, err := readSprite(d)
		if err != nil {
			return err
		}
		if i < len(dst) {
			dst[i] = s
		}
		i++
		return nil
	})
}

func writeBgRegs(e *jx.Encoder, r *PPUBgRegs) {
	e.ObjStart()
	e.FieldStart("addr_latch")
	e.UInt32(uint32(r.AddrLatch))
	e.FieldStart("finex")
	e.UInt8(r.Finex)
	e.FieldStart("nt")
	e.UInt8(r.NT)
	e.FieldStart("at")
	e.UInt8(r.AT)
	e.FieldStart("bg_lo")
	e.UInt8(r.BgLo)
	e.FieldStart("bg_hi")
	e.UInt8(r.BgHi)
	e.FieldStart("bg_shift_lo")
	e.UInt32(uint32(r.BgShiftLo))
	e.FieldStart("bg_shift_hi")
	e.UInt32(uint32(r.BgShiftHi))
	e.FieldStart("at_shift_lo")
	e.UInt8(r.ATShiftLo)
	e.FieldStart("at_shift_hi")
	e.UInt8(r.ATShiftHi)
	e.FieldStart("at_latch_lo")
	e.Bool(r.ATLatchLo)
	e.FieldStart("at_latch_hi")
	e.Bool(r.ATLatchHi)
	e.ObjEnd()
}

func readBgRegs(d *jx.Decoder) (PPUBgRegs, error) {
	var r PPUBgRegs
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "addr_latch":
			var v uint32
			v, err = d.UInt32()
			r.AddrLatch = uint16(v)
		case "finex":
			r.Finex, err = d.UInt8()
		case "nt":
			r.NT, err = d.UInt8()
		case "at":
			r.AT, err = d.UInt8()
		case "bg_lo":
			r.BgLo, err = d.UInt8()
		case "bg_hi":
			r.BgHi, err = d.UInt8()
		case "bg_shift_lo":
			var v uint32
			v, err = d.UInt32()
			r.BgShiftLo = uint16(v)
		case "bg_shift_hi":
			var v uint32
			v, err = d.UInt32()
			r.BgShiftHi = uint16(v)
		case "at_shift_lo":
			r.ATShiftLo, err = d.UInt8()
		case "at_shift_hi":
			r.ATShiftHi, err = d.UInt8()
		case "at_latch_lo":
			r.ATLatchLo, err = d.Bool()
		case "at_latch_hi":
			r.ATLatchHi, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	return r, err
}

func writePPU(e *jx.Encoder, p *PPU) {
	if p == nil {
		e.Null()
		return
	}
	e.ObjStart()
	e.FieldStart("palette")
	writeU8Slice(e, p.Palette[:])
	e.FieldStart("oam_mem")
	writeU8Slice(e, p.OAMMem[:])
	e.FieldStart("oam")
	writeSpriteArr(e, p.OAM[:])
	e.FieldStart("oam2")
	writeSpriteArr(e, p.OAM2[:])
	e.FieldStart("open_bus")
	e.UInt8(p.OpenBus)
	e.FieldStart("open_bus_decay_buf")
	writeU32Slice(e, p.OpenBusDecayBuf[:])
	e.FieldStart("bus_addr")
	e.UInt32(uint32(p.BusAddr))
	e.FieldStart("oam_addr")
	e.UInt8(p.OAMAddr)
	e.FieldStart("vram_addr")
	e.UInt32(uint32(p.VRAMAddr))
	e.FieldStart("vram_temp")
	e.UInt32(uint32(p.VRAMTemp))
	e.FieldStart("write_latch")
	e.Bool(p.WriteLatch)
	e.FieldStart("ppu_data_buf")
	e.UInt8(p.PPUDataBuf)
	e.FieldStart("bg_regs")
	writeBgRegs(e, &p.PPUBgRegs)
	e.FieldStart("ppuctrl")
	e.UInt8(p.PPUCTRL)
	e.FieldStart("ppumask")
	e.UInt8(p.PPUMASK)
	e.FieldStart("ppustatus")
	e.UInt8(p.PPUSTATUS)
	e.FieldStart("master_clock")
	e.UInt64(p.MasterClock)
	e.FieldStart("cycle")
	e.UInt32(p.Cycle)
	e.FieldStart("scanline")
	e.Int(p.Scanline)
	e.FieldStart("frame_count")
	e.UInt32(p.FrameCount)
	e.FieldStart("odd_frame")
	e.Bool(p.OddFrame)
	e.FieldStart("prevent_vblank")
	e.Bool(p.PreventVBlank)
	e.ObjEnd()
}

func readPPU(d *jx.Decoder) (*PPU, error) {
	p := &PPU{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "palette":
			return readU8Slice(d, p.Palette[:])
		case "oam_mem":
			return readU8Slice(d, p.OAMMem[:])
		case "oam":
			return readSpriteArr(d, p.OAM[:])
		case "oam2":
			return readSpriteArr(d, p.OAM2[:])
		case "open_bus":
			p.OpenBus, err = d.UInt8()
		case "open_bus_decay_buf":
			return readU32Slice(d, p.OpenBusDecayBuf[:])
		case "bus_addr":
			var v uint32
			v, err = d.UInt32()
			p.BusAddr = uint16(v)
		case "oam_addr":
			p.OAMAddr, err = d.UInt8()
		case "vram_addr":
			var v uint32
			v, err = d.UInt32()
			p.VRAMAddr = uint16(v)
		case "vram_temp":
			var v uint32
			v, err = d.UInt32()
			p.VRAMTemp = uint16(v)
		case "write_latch":
			p.WriteLatch, err = d.Bool()
		case "ppu_data_buf":
			p.PPUDataBuf, err = d.UInt8()
		case "bg_regs":
			p.PPUBgRegs, err = readBgRegs(d)
		case "ppuctrl":
			p.PPUCTRL, err = d.UInt8()
		case "ppumask":
			p.PPUMASK, err = d.UInt8()
		case "ppustatus":
			p.PPUSTATUS, err = d.UInt8()
		case "master_clock":
			p.MasterClock, err = d.UInt64()
		case "cycle":
			p.Cycle, err = d.UInt32()
		case "scanline":
			p.Scanline, err = d.Int()
		case "frame_count":
			p.FrameCount, err = d.UInt32()
		case "odd_frame":
			p.OddFrame, err = d.Bool()
		case "prevent_vblank":
			p.PreventVBlank, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func writeTimer(e *jx.Encoder, t *APUTimer) {
	e.ObjStart()
	e.FieldStart("prev_cycle")
	e.UInt32(t.PreviousCycle)
	e.FieldStart("timer")
	e.UInt32(uint32(t.Timer))
	e.FieldStart("period")
	e.UInt32(uint32(t.Period))
	e.FieldStart("last_output")
	e.Int32(int32(t.LastOutput))
	e.ObjEnd()
}

func readTimer(d *jx.Decoder) (APUTimer, error) {
	var t APUTimer
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "prev_cycle":
			t.PreviousCycle, err = d.UInt32()
		case "timer":
			var v uint32
			v, err = d.UInt32()
			t.Timer = uint16(v)
		case "period":
			var v uint32
			v, err = d.UInt32()
			t.Period = uint16(v)
		case "last_output":
			var v int32
			v, err = d.Int32()
			t.LastOutput = int8(v)
		default:
			return d.Skip()
		}
		return err
	})
	return t, err
}

func writeLengthCounter(e *jx.Encoder, l *APULengthCounter) {
	e.ObjStart()
	e.FieldStart("new_halt")
	e.Bool(l.NewHalt)
	e.FieldStart("enabled")
	e.Bool(l.Enabled)
	e.FieldStart("halt")
	e.Bool(l.Halt)
	e.FieldStart("counter")
	e.UInt8(l.Counter)
	e.FieldStart("reload_value")
	e.UInt8(l.ReloadValue)
	e.FieldStart("previous_value")
	e.UInt8(l.PreviousValue)
	e.ObjEnd()
}

func readLengthCounter(d *jx.Decoder) (APULengthCounter, error) {
	var l APULengthCounter
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "new_halt":
			l.NewHalt, err = d.Bool()
		case "enabled":
			l.Enabled, err = d.Bool()
		case "halt":
			l.Halt, err = d.Bool()
		case "counter":
			l.Counter, err = d.UInt8()
		case "reload_value":
			l.ReloadValue, err = d.UInt8()
		case "previous_value":
			l.PreviousValue, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	return l, err
}

func writeEnvelope(e *jx.Encoder, v *APUEnvelope) {
	e.ObjStart()
	e.FieldStart("length_counter")
	writeLengthCounter(e, &v.LengthCounter)
	e.FieldStart("constant_volume")
	e.Bool(v.ConstantVolume)
	e.FieldStart("volume")
	e.UInt8(v.Volume)
	e.FieldStart("start")
	e.Bool(v.Start)
	e.FieldStart("divider")
	e.Int32(int32(v.Divider))
	e.FieldStart("counter")
	e.UInt8(v.Counter)
	e.ObjEnd()
}

func readEnvelope(d *jx.Decoder) (APUEnvelope, error) {
	var v APUEnvelope
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "length_counter":
			v.LengthCounter, err = readLengthCounter(d)
		case "constant_volume":
			v.ConstantVolume, err = d.Bool()
		case "volume":
			v.Volume, err = d.UInt8()
		case "start":
			v.Start, err = d.Bool()
		case "divider":
			var iv int32
			iv, err = d.Int32()
			v.Divider = int8(iv)
		case "counter":
			v.Counter, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	return v, err
}

func writeSquare(e *jx.Encoder, s *APUSquare) {
	e.ObjStart()
	e.FieldStart("timer")
	writeTimer(e, &s.Timer)
	e.FieldStart("envelope")
	writeEnvelope(e, &s.Envelope)
	e.FieldStart("sweep_target_period")
	e.UInt32(s.SweepTargetPeriod)
	e.FieldStart("real_period")
	e.UInt32(uint32(s.RealPeriod))
	e.FieldStart("sweep_enabled")
	e.Bool(s.SweepEnabled)
	e.FieldStart("sweep_period")
	e.UInt8(s.SweepPeriod)
	e.FieldStart("sweep_negate")
	e.Bool(s.SweepNegate)
	e.FieldStart("sweep_shift")
	e.UInt8(s.SweepShift)
	e.FieldStart("sweep_divider")
	e.UInt8(s.SweepDivider)
	e.FieldStart("reload_sweep")
	e.Bool(s.ReloadSweep)
	e.FieldStart("duty")
	e.UInt8(s.Duty)
	e.FieldStart("duty_pos")
	e.UInt8(s.DutyPos)
	e.ObjEnd()
}

func readSquare(d *jx.Decoder) (APUSquare, error) {
	var s APUSquare
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "timer":
			s.Timer, err = readTimer(d)
		case "envelope":
			s.Envelope, err = readEnvelope(d)
		case "sweep_target_period":
			s.SweepTargetPeriod, err = d.UInt32()
		case "real_period":
			var v uint32
			v, err = d.UInt32()
			s.RealPeriod = uint16(v)
		case "sweep_enabled":
			s.SweepEnabled, err = d.Bool()
		case "sweep_period":
			s.SweepPeriod, err = d.UInt8()
		case "sweep_negate":
			s.SweepNegate, err = d.Bool()
		case "sweep_shift":
			s.SweepShift, err = d.UInt8()
		case "sweep_divider":
			s.SweepDivider, err = d.UInt8()
		case "reload_sweep":
			s.ReloadSweep, err = d.Bool()
		case "duty":
			s.Duty, err = d.UInt8()
		case "duty_pos":
			s.DutyPos, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	return s, err
}

func writeTriangle(e *jx.Encoder, t *APUTriangle) {
	e.ObjStart()
	e.FieldStart("length_counter")
	writeLengthCounter(e, &t.LengthCounter)
	e.FieldStart("timer")
	writeTimer(e, &t.Timer)
	e.FieldStart("linear_counter")
	e.UInt8(t.LinearCounter)
	e.FieldStart("linear_counter_reload")
	e.UInt8(t.LinearCounterReload)
	e.FieldStart("linear_reload")
	e.Bool(t.LinearReload)
	e.FieldStart("linear_ctrl")
	e.Bool(t.LinearCtrl)
	e.FieldStart("pos")
	e.UInt8(t.Pos)
	e.ObjEnd()
}

func readTriangle(d *jx.Decoder) (APUTriangle, error) {
	var t APUTriangle
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "length_counter":
			t.LengthCounter, err = readLengthCounter(d)
		case "timer":
			t.Timer, err = readTimer(d)
		case "linear_counter":
			t.LinearCounter, err = d.UInt8()
		case "linear_counter_reload":
			t.LinearCounterReload, err = d.UInt8()
		case "linear_reload":
			t.LinearReload, err = d.Bool()
		case "linear_ctrl":
			t.LinearCtrl, err = d.Bool()
		case "pos":
			t.Pos, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	return t, err
}

func writeNoise(e *jx.Encoder, n *APUNoise) {
	e.ObjStart()
	e.FieldStart("envelope")
	writeEnvelope(e, &n.Envelope)
	e.FieldStart("timer")
	writeTimer(e, &n.Timer)
	e.FieldStart("shift_reg")
	e.UInt32(uint32(n.ShiftReg))
	e.FieldStart("mode")
	e.Bool(n.Mode)
	e.ObjEnd()
}

func readNoise(d *jx.Decoder) (APUNoise, error) {
	var n APUNoise
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "envelope":
			n.Envelope, err = readEnvelope(d)
		case "timer":
			n.Timer, err = readTimer(d)
		case "shift_reg":
			var v uint32
			v, err = d.UInt32()
			n.ShiftReg = uint16(v)
		case "mode":
			n.Mode, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	return n, err
}

func writeDMC(e *jx.Encoder, m *APUDMC) {
	e.ObjStart()
	e.FieldStart("timer")
	writeTimer(e, &m.Timer)
	e.FieldStart("sample_addr")
	e.UInt32(uint32(m.SampleAddr))
	e.FieldStart("sample_len")
	e.UInt32(uint32(m.SampleLen))
	e.FieldStart("current_addr")
	e.UInt32(uint32(m.CurrentAddr))
	e.FieldStart("remaining")
	e.UInt32(uint32(m.Remaining))
	e.FieldStart("output_level")
	e.UInt8(m.OutputLevel)
	e.FieldStart("read_buf")
	e.UInt8(m.ReadBuf)
	e.FieldStart("bits_left")
	e.UInt8(m.BitsLeft)
	e.FieldStart("start_delay")
	e.UInt8(m.StartDelay)
	e.FieldStart("disable_delay")
	e.UInt8(m.DisableDelay)
	e.FieldStart("irq_enabled")
	e.Bool(m.IRQEnabled)
	e.FieldStart("loop")
	e.Bool(m.Loop)
	e.FieldStart("buf_empty")
	e.Bool(m.BufEmpty)
	e.FieldStart("shift_reg")
	e.UInt8(m.ShiftReg)
	e.FieldStart("silence")
	e.Bool(m.Silence)
	e.FieldStart("need_to_run")
	e.Bool(m.NeedToRun)
	e.ObjEnd()
}

func readDMCChannel(d *jx.Decoder) (APUDMC, error) {
	var m APUDMC
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "timer":
			m.Timer, err = readTimer(d)
		case "sample_addr":
			var v uint32
			v, err = d.UInt32()
			m.SampleAddr = uint16(v)
		case "sample_len":
			var v uint32
			v, err = d.UInt32()
			m.SampleLen = uint16(v)
		case "current_addr":
			var v uint32
			v, err = d.UInt32()
			m.CurrentAddr = uint16(v)
		case "remaining":
			var v uint32
			v, err = d.UInt32()
			m.Remaining = uint16(v)
		case "output_level":
			m.OutputLevel, err = d.UInt8()
		case "read_buf":
			m.ReadBuf, err = d.UInt8()
		case "bits_left":
			m.BitsLeft, err = d.UInt8()
		case "start_delay":
			m.StartDelay, err = d.UInt8()
		case "disable_delay":
			m.DisableDelay, err = d.UInt8()
		case "irq_enabled":
			m.IRQEnabled, err = d.Bool()
		case "loop":
			m.Loop, err = d.Bool()
		case "buf_empty":
			m.BufEmpty, err = d.Bool()
		case "shift_reg":
			m.ShiftReg, err = d.UInt8()
		case "silence":
			m.Silence, err = d.Bool()
		case "need_to_run":
			m.NeedToRun, err = d.Bool()
		default:
			return d.Skip()
		}
		return err
	})
	return m, err
}

func writeFrameCounter(e *jx.Encoder, f *APUFrameCounter) {
	e.ObjStart()
	e.FieldStart("prev_cycle")
	e.Int32(f.PrevCycle)
	e.FieldStart("cur_step")
	e.UInt32(f.CurStep)
	e.FieldStart("step_mode")
	e.UInt32(f.StepMode)
	e.FieldStart("inhibit_irq")
	e.Bool(f.InhibitIRQ)
	e.FieldStart("block_tick")
	e.UInt8(f.BlockTick)
	e.FieldStart("new_val")
	e.Int32(int32(f.NewVal))
	e.FieldStart("write_delay_counter")
	e.Int32(int32(f.WriteDelayCounter))
	e.ObjEnd()
}

func readFrameCounter(d *jx.Decoder) (APUFrameCounter, error) {
	var f APUFrameCounter
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "prev_cycle":
			f.PrevCycle, err = d.Int32()
		case "cur_step":
			f.CurStep, err = d.UInt32()
		case "step_mode":
			f.StepMode, err = d.UInt32()
		case "inhibit_irq":
			f.InhibitIRQ, err = d.Bool()
		case "block_tick":
			f.BlockTick, err = d.UInt8()
		case "new_val":
			var v int32
			v, err = d.Int32()
			f.NewVal = int16(v)
		case "write_delay_counter":
			var v int32
			v, err = d.Int32()
			f.WriteDelayCounter = int8(v)
		default:
			return d.Skip()
		}
		return err
	})
	return f, err
}

func writeMixer(e *jx.Encoder, m *APUMixer) {
	e.ObjStart()
	e.FieldStart("clock_rate")
	e.UInt32(m.ClockRate)
	e.FieldStart("sample_rate")
	e.UInt32(m.SampleRate)
	e.FieldStart("previous_output_left")
	e.Int32(int32(m.PreviousOutputLeft))
	e.FieldStart("previous_output_right")
	e.Int32(int32(m.PreviousOutputRight))
	e.FieldStart("current_output")
	writeI16Slice(e, m.CurrentOutput[:])
	e.ObjEnd()
}

func readMixer(d *jx.Decoder) (APUMixer, error) {
	var m APUMixer
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "clock_rate":
			m.ClockRate, err = d.UInt32()
		case "sample_rate":
			m.SampleRate, err = d.UInt32()
		case "previous_output_left":
			var v int32
			v, err = d.Int32()
			m.PreviousOutputLeft = int16(v)
		case "previous_output_right":
			var v int32
			v, err = d.Int32()
			m.PreviousOutputRight = int16(v)
		case "current_output":
			return readI16Slice(d, m.CurrentOutput[:])
		default:
			return d.Skip()
		}
		return err
	})
	return m, err
}

func writeAPU(e *jx.Encoder, a *APU) {
	if a == nil {
		e.Null()
		return
	}
	e.ObjStart()
	e.FieldStart("square1")
	writeSquare(e, &a.Square1)
	e.FieldStart("square2")
	writeSquare(e, &a.Square2)
	e.FieldStart("triangle")
	writeTriangle(e, &a.Triangle)
	e.FieldStart("noise")
	writeNoise(e, &a.Noise)
	e.FieldStart("dmc")
	writeDMC(e, &a.DMC)
	e.FieldStart("frame_counter")
	writeFrameCounter(e, &a.FrameCounter)
	e.FieldStart("mixer")
	writeMixer(e, &a.Mixer)
	e.ObjEnd()
}

func readAPU(d *jx.Decoder) (*APU, error) {
	a := &APU{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "square1":
			a.Square1, err = readSquare(d)
		case "square2":
			a.Square2, err = readSquare(d)
		case "triangle":
			a.Triangle, err = readTriangle(d)
		case "noise":
			a.Noise, err = readNoise(d)
		case "dmc":
			a.DMC, err = readDMCChannel(d)
		case "frame_counter":
			a.FrameCounter, err = readFrameCounter(d)
		case "mixer":
			a.Mixer, err = readMixer(d)
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func writeMapper(e *jx.Encoder, m *Mapper) {
	if m == nil {
		e.Null()
		return
	}
	e.ObjStart()
	e.FieldStart("prg_bank0")
	e.Int32(m.PRGBank0)
	e.FieldStart("prg_bank1")
	e.Int32(m.PRGBank1)
	e.FieldStart("prg_banks")
	writeI32Slice(e, m.PRGBanks[:])
	e.FieldStart("chr_bank0")
	e.Int32(m.CHRBank0)
	e.FieldStart("chr_bank1")
	e.Int32(m.CHRBank1)
	e.FieldStart("chr_banks")
	writeI32Slice(e, m.CHRBanks[:])
	e.FieldStart("mirroring")
	e.UInt8(m.Mirroring)
	e.FieldStart("shift_reg")
	e.UInt8(m.ShiftReg)
	e.FieldStart("shift_count")
	e.UInt8(m.ShiftCount)
	e.FieldStart("ctrl")
	e.UInt8(m.Ctrl)
	e.FieldStart("prg_ram_enable")
	e.Bool(m.PRGRAMEnable)
	e.FieldStart("prg_ram")
	writeU8Slice(e, m.PRGRAM)
	e.FieldStart("chr_ram")
	writeU8Slice(e, m.CHRRAM)
	e.FieldStart("bank_select")
	e.UInt8(m.BankSelect)
	e.FieldStart("irq_counter")
	e.UInt8(m.IRQCounter)
	e.FieldStart("irq_latch")
	e.UInt8(m.IRQLatch)
	e.FieldStart("irq_enabled")
	e.Bool(m.IRQEnabled)
	e.FieldStart("irq_reload")
	e.Bool(m.IRQReload)
	e.FieldStart("irq_pending")
	e.Bool(m.IRQPending)
	e.FieldStart("a12_low_run")
	e.UInt8(m.A12LowRun)
	e.FieldStart("latch0")
	e.UInt8(m.Latch0)
	e.FieldStart("latch1")
	e.UInt8(m.Latch1)
	e.FieldStart("ex_ram")
	writeU8Slice(e, m.ExRAM)
	e.FieldStart("ex_ram_mode")
	e.UInt8(m.ExRAMMode)
	e.FieldStart("nametable_mode")
	e.UInt8(m.NametableMode)
	e.FieldStart("fill_tile")
	e.UInt8(m.FillTile)
	e.FieldStart("fill_attr")
	e.UInt8(m.FillAttr)
	e.FieldStart("prg_ram_bank")
	e.UInt8(m.PRGRAMBank)
	e.ObjEnd()
}

func readMapper(d *jx.Decoder) (*Mapper, error) {
	m := &Mapper{}
	var prgRAM, chrRAM, exRAM []byte
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "prg_bank0":
			m.PRGBank0, err = d.Int32()
		case "prg_bank1":
			m.PRGBank1, err = d.Int32()
		case "prg_banks":
			return readI32Slice(d, m.PRGBanks[:])
		case "chr_bank0":
			m.CHRBank0, err = d.Int32()
		case "chr_bank1":
			m.CHRBank1, err = d.Int32()
		case "chr_banks":
			return readI32Slice(d, m.CHRBanks[:])
		case "mirroring":
			m.Mirroring, err = d.UInt8()
		case "shift_reg":
			m.ShiftReg, err = d.UInt8()
		case "shift_count":
			m.ShiftCount, err = d.UInt8()
		case "ctrl":
			m.Ctrl, err = d.UInt8()
		case "prg_ram_enable":
			m.PRGRAMEnable, err = d.Bool()
		case "prg_ram":
			prgRAM, err = readByteArr(d)
		case "chr_ram":
			chrRAM, err = readByteArr(d)
		case "bank_select":
			m.BankSelect, err = d.UInt8()
		case "irq_counter":
			m.IRQCounter, err = d.UInt8()
		case "irq_latch":
			m.IRQLatch, err = d.UInt8()
		case "irq_enabled":
			m.IRQEnabled, err = d.Bool()
		case "irq_reload":
			m.IRQReload, err = d.Bool()
		case "irq_pending":
			m.IRQPending, err = d.Bool()
		case "a12_low_run":
			m.A12LowRun, err = d.UInt8()
		case "latch0":
			m.Latch0, err = d.UInt8()
		case "latch1":
			m.Latch1, err = d.UInt8()
		case "ex_ram":
			exRAM, err = readByteArr(d)
		case "ex_ram_mode":
			m.ExRAMMode, err = d.UInt8()
		case "nametable_mode":
			m.NametableMode, err = d.UInt8()
		case "fill_tile":
			m.FillTile, err = d.UInt8()
		case "fill_attr":
			m.FillAttr, err = d.UInt8()
		case "prg_ram_bank":
			m.PRGRAMBank, err = d.UInt8()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	m.PRGRAM, m.CHRRAM, m.ExRAM = prgRAM, chrRAM, exRAM
	return m, nil
}

func readByteArr(d *jx.Decoder) ([]byte, error) {
	var out []byte
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := d.UInt8()
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
