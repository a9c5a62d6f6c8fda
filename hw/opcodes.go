package hw

import (
	"fmt"

	"nestor/log"
)

// addrMode distinguishes the 6502 addressing modes, split further where the
// extra "dummy read" cycle differs between read-only and write/read-modify-
// write instructions sharing the same nominal mode (e.g. LDA abs,X vs
// STA abs,X).
type addrMode uint8

const (
	amImp addrMode = iota
	amAcc
	amImm
	amZpg
	amZpx
	amZpy
	amAbs
	amAbxR
	amAbxW
	amAbyR
	amAbyW
	amInd
	amIzx
	amIzyR
	amIzyW
)

// operandLen is the number of bytes following the opcode byte, used by the
// disassembler to know how many bytes to peek.
func (m addrMode) operandLen() int {
	switch m {
	case amImp, amAcc:
		return 0
	case amImm, amZpg, amZpx, amZpy, amIzx, amIzyR, amIzyW:
		return 1
	default:
		return 2
	}
}

func (c *CPU) resolve(mode addrMode) uint16 {
	switch mode {
	case amImm:
		return c.imm()
	case amZpg:
		return c.zpg()
	case amZpx:
		return c.zpx()
	case amZpy:
		return c.zpy()
	case amAbs:
		return c.abs()
	case amAbxR:
		return c.abx(false)
	case amAbxW:
		return c.abx(true)
	case amAbyR:
		return c.aby(false)
	case amAbyW:
		return c.aby(true)
	case amInd:
		return c.ind()
	case amIzx:
		return c.izx()
	case amIzyR:
		return c.izy(false)
	case amIzyW:
		return c.izy(true)
	}
	return 0
}

func (c *CPU) readOperand(mode addrMode) uint8 {
	return c.Read8(c.resolve(mode))
}

func (c *CPU) writeOperand(mode addrMode, val uint8) {
	c.Write8(c.resolve(mode), val)
}

// rmw performs the read/dummy-write/write sequence real 6502 read-modify-
// write instructions use, and returns the computed value so callers can
// derive status flags from either it or cpu.A.
func (c *CPU) rmw(mode addrMode, f func(uint8) uint8) uint8 {
	addr := c.resolve(mode)
	val := c.Read8(addr)
	c.Write8(addr, val)
	newval := f(val)
	c.Write8(addr, newval)
	return newval
}

func (c *CPU) cmp(reg, val uint8) {
	c.P.setCarry(reg >= val)
	c.P.setNZ(reg - val)
}

/* shift/rotate cores, shared between accumulator and memory forms */

func shiftASL(c *CPU, v uint8) uint8 {
	c.P.setCarry(v&0x80 != 0)
	return v << 1
}

func shiftLSR(c *CPU, v uint8) uint8 {
	c.P.setCarry(v&0x01 != 0)
	return v >> 1
}

func shiftROL(c *CPU, v uint8) uint8 {
	var carryIn uint8
	if c.P.carry() {
		carryIn = 1
	}
	c.P.setCarry(v&0x80 != 0)
	return v<<1 | carryIn
}

func shiftROR(c *CPU, v uint8) uint8 {
	var carryIn uint8
	if c.P.carry() {
		carryIn = 0x80
	}
	c.P.setCarry(v&0x01 != 0)
	return v>>1 | carryIn
}

/* official opcodes */

func opBRK(c *CPU, mode addrMode) { cpuBRK(c) }

func opORA(c *CPU, mode addrMode) { c.A |= c.readOperand(mode); c.P.setNZ(c.A) }
func opAND(c *CPU, mode addrMode) { c.A &= c.readOperand(mode); c.P.setNZ(c.A) }
func opEOR(c *CPU, mode addrMode) { c.A ^= c.readOperand(mode); c.P.setNZ(c.A) }
func opADC(c *CPU, mode addrMode) { c.add(c.readOperand(mode)) }
func opSBC(c *CPU, mode addrMode) { c.add(^c.readOperand(mode)) }
func opLDA(c *CPU, mode addrMode) { c.setreg(&c.A, c.readOperand(mode)) }
func opLDX(c *CPU, mode addrMode) { c.setreg(&c.X, c.readOperand(mode)) }
func opLDY(c *CPU, mode addrMode) { c.setreg(&c.Y, c.readOperand(mode)) }
func opCMP(c *CPU, mode addrMode) { c.cmp(c.A, c.readOperand(mode)) }
func opCPX(c *CPU, mode addrMode) { c.cmp(c.X, c.readOperand(mode)) }
func opCPY(c *CPU, mode addrMode) { c.cmp(c.Y, c.readOperand(mode)) }

func opBIT(c *CPU, mode addrMode) {
	v := c.readOperand(mode)
	c.P.setOverflow(v&0x40 != 0)
	c.P.clearFlags(flagZero | flagNegative)
	if c.A&v == 0 {
		c.P.setFlags(flagZero)
	}
	if v&0x80 != 0 {
		c.P.setFlags(flagNegative)
	}
}

func opSTA(c *CPU, mode addrMode) { c.writeOperand(mode, c.A) }
func opSTX(c *CPU, mode addrMode) { c.writeOperand(mode, c.X) }
func opSTY(c *CPU, mode addrMode) { c.writeOperand(mode, c.Y) }

func opASL(c *CPU, mode addrMode) {
	if mode == amAcc {
		c.acc()
		c.A = shiftASL(c, c.A)
		c.P.setNZ(c.A)
		return
	}
	c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return shiftASL(c, v) }))
}

func opLSR(c *CPU, mode addrMode) {
	if mode == amAcc {
		c.acc()
		c.A = shiftLSR(c, c.A)
		c.P.setNZ(c.A)
		return
	}
	c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return shiftLSR(c, v) }))
}

func opROL(c *CPU, mode addrMode) {
	if mode == amAcc {
		c.acc()
		c.A = shiftROL(c, c.A)
		c.P.setNZ(c.A)
		return
	}
	c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return shiftROL(c, v) }))
}

func opROR(c *CPU, mode addrMode) {
	if mode == amAcc {
		c.acc()
		c.A = shiftROR(c, c.A)
		c.P.setNZ(c.A)
		return
	}
	c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return shiftROR(c, v) }))
}

func opINC(c *CPU, mode addrMode) { c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return v + 1 })) }
func opDEC(c *CPU, mode addrMode) { c.P.setNZ(c.rmw(mode, func(v uint8) uint8 { return v - 1 })) }

func opJMP(c *CPU, mode addrMode) { c.PC = c.resolve(mode) }

func opJSR(c *CPU, mode addrMode) {
	target := c.fetch16()
	c.Read8(uint16(c.SP) + 0x0100)
	c.push16(c.PC - 1)
	c.PC = target
}

func opRTS(c *CPU, mode addrMode) {
	c.Read8(c.PC)
	c.Read8(uint16(c.SP) + 0x0100)
	c.PC = c.pull16() + 1
	c.Read8(c.PC)
}

func opRTI(c *CPU, mode addrMode) {
	c.Read8(c.PC)
	c.Read8(uint16(c.SP) + 0x0100)
	p := P(c.pull8())
	p.setUnused(true)
	c.P = p
	c.PC = c.pull16()
}

func opPHA(c *CPU, mode addrMode) { c.imp(); c.push8(c.A) }

func opPHP(c *CPU, mode addrMode) {
	c.imp()
	p := c.P
	p.setBrk(true)
	p.setUnused(true)
	c.push8(uint8(p))
}

func opPLA(c *CPU, mode addrMode) {
	c.imp()
	c.Read8(uint16(c.SP) + 0x0100)
	c.setreg(&c.A, c.pull8())
}

func opPLP(c *CPU, mode addrMode) {
	c.imp()
	c.Read8(uint16(c.SP) + 0x0100)
	p := P(c.pull8())
	p.setUnused(true)
	c.P = p
}

func opCLC(c *CPU, mode addrMode) { c.imp(); c.P.clearFlags(flagCarry) }
func opSEC(c *CPU, mode addrMode) { c.imp(); c.P.setFlags(flagCarry) }
func opCLI(c *CPU, mode addrMode) { c.imp(); c.P.setIntDisable(false) }
func opSEI(c *CPU, mode addrMode) { c.imp(); c.P.setIntDisable(true) }
func opCLD(c *CPU, mode addrMode) { c.imp(); c.P.clearFlags(flagDecimal) }
func opSED(c *CPU, mode addrMode) { c.imp(); c.P.setFlags(flagDecimal) }
func opCLV(c *CPU, mode addrMode) { c.imp(); c.P.clearFlags(flagOverflow) }

func opTAX(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.X, c.A) }
func opTXA(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.A, c.X) }
func opTAY(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.Y, c.A) }
func opTYA(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.A, c.Y) }
func opTSX(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.X, c.SP) }
func opTXS(c *CPU, mode addrMode) { c.imp(); c.SP = c.X }

func opINX(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.X, c.X+1) }
func opINY(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.Y, c.Y+1) }
func opDEX(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.X, c.X-1) }
func opDEY(c *CPU, mode addrMode) { c.imp(); c.setreg(&c.Y, c.Y-1) }

func opNOP(c *CPU, mode addrMode) {
	if mode == amImp {
		c.imp()
		return
	}
	c.readOperand(mode)
}

func opBPL(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, !c.P.negative()) }
func opBMI(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, c.P.negative()) }
func opBVC(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, !c.P.overflow()) }
func opBVS(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, c.P.overflow()) }
func opBCC(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, !c.P.carry()) }
func opBCS(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, c.P.carry()) }
func opBNE(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, !c.P.zero()) }
func opBEQ(c *CPU, mode addrMode) { off := c.fetch8(); c.doBranch(off, c.P.zero()) }

/* unofficial opcodes */

func opJAM(c *CPU, mode addrMode) {
	if !c.permissive {
		c.halt()
		return
	}
	err := &UnimplementedOpcodeError{Opcode: c.Bus.Peek8(c.PC - 1), PC: c.PC - 1}
	log.ModCPU.WarnZ(err.Error()).End()
	c.cycleBegin(true)
	c.cycleEnd(true)
}

func opSLO(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return shiftASL(c, v) })
	c.A |= v
	c.P.setNZ(c.A)
}

func opRLA(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return shiftROL(c, v) })
	c.A &= v
	c.P.setNZ(c.A)
}

func opSRE(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return shiftLSR(c, v) })
	c.A ^= v
	c.P.setNZ(c.A)
}

func opRRA(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return shiftROR(c, v) })
	c.add(v)
}

func opDCP(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return v - 1 })
	c.cmp(c.A, v)
}

func opISC(c *CPU, mode addrMode) {
	v := c.rmw(mode, func(v uint8) uint8 { return v + 1 })
	c.add(^v)
}

func opSAX(c *CPU, mode addrMode) { c.writeOperand(mode, c.A&c.X) }

func opLAX(c *CPU, mode addrMode) {
	v := c.readOperand(mode)
	c.A = v
	c.X = v
	c.P.setNZ(v)
}

func opANC(c *CPU, mode addrMode) {
	c.A &= c.readOperand(mode)
	c.P.setCarry(c.A&0x80 != 0)
	c.P.setNZ(c.A)
}

func opALR(c *CPU, mode addrMode) {
	c.A &= c.readOperand(mode)
	c.P.setCarry(c.A&0x01 != 0)
	c.A >>= 1
	c.P.setNZ(c.A)
}

func opARR(c *CPU, mode addrMode) {
	c.A &= c.readOperand(mode)
	var carryIn uint8
	if c.P.carry() {
		carryIn = 0x80
	}
	c.A = c.A>>1 | carryIn
	c.P.setNZ(c.A)
	c.P.setCarry(c.A&0x40 != 0)
	c.P.setOverflow((c.A&0x40 != 0) != (c.A&0x20 != 0))
}

func opANE(c *CPU, mode addrMode) {
	c.A = (c.A | 0xEE) & c.X & c.readOperand(mode)
	c.P.setNZ(c.A)
}

func opLXA(c *CPU, mode addrMode) {
	c.A = (c.A | 0xEE) & c.readOperand(mode)
	c.X = c.A
	c.P.setNZ(c.A)
}

func opLAS(c *CPU, mode addrMode) {
	v := c.readOperand(mode) & c.SP
	c.A, c.X, c.SP = v, v, v
	c.P.setNZ(v)
}

func opSBX(c *CPU, mode addrMode) {
	ax := c.A & c.X
	v := c.readOperand(mode)
	c.P.setCarry(ax >= v)
	c.X = ax - v
	c.P.setNZ(c.X)
}

func opSHA(c *CPU, mode addrMode) {
	switch mode {
	case amAbyW:
		base := c.fetch16()
		c.sh(base, c.Y, c.A&c.X)
	default: // izyW
		zp := c.fetch8()
		lo := c.Read8(uint16(zp))
		hi := c.Read8(uint16(zp + 1))
		c.sh(uint16(hi)<<8|uint16(lo), c.Y, c.A&c.X)
	}
}

func opSHX(c *CPU, mode addrMode) { c.sh(c.fetch16(), c.Y, c.X) }
func opSHY(c *CPU, mode addrMode) { c.sh(c.fetch16(), c.X, c.Y) }

func opTAS(c *CPU, mode addrMode) {
	c.SP = c.A & c.X
	c.sh(c.fetch16(), c.Y, c.SP)
}

/* dispatch table */

type instr struct {
	name string
	mode addrMode
	exec func(c *CPU, mode addrMode)
}

var opTable = [256]instr{
	0x00: {"BRK", amImp, opBRK}, 0x01: {"ORA", amIzx, opORA}, 0x02: {"JAM", amImp, opJAM}, 0x03: {"SLO", amIzx, opSLO},
	0x04: {"NOP", amZpg, opNOP}, 0x05: {"ORA", amZpg, opORA}, 0x06: {"ASL", amZpg, opASL}, 0x07: {"SLO", amZpg, opSLO},
	0x08: {"PHP", amImp, opPHP}, 0x09: {"ORA", amImm, opORA}, 0x0A: {"ASL", amAcc, opASL}, 0x0B: {"ANC", amImm, opANC},
	0x0C: {"NOP", amAbs, opNOP}, 0x0D: {"ORA", amAbs, opORA}, 0x0E: {"ASL", amAbs, opASL}, 0x0F: {"SLO", amAbs, opSLO},

	0x10: {"BPL", amImp, opBPL}, 0x11: {"ORA", amIzyR, opORA}, 0x12: {"JAM", amImp, opJAM}, 0x13: {"SLO", amIzyW, opSLO},
	0x14: {"NOP", amZpx, opNOP}, 0x15: {"ORA", amZpx, opORA}, 0x16: {"ASL", amZpx, opASL}, 0x17: {"SLO", amZpx, opSLO},
	0x18: {"CLC", amImp, opCLC}, 0x19: {"ORA", amAbyR, opORA}, 0x1A: {"NOP", amImp, opNOP}, 0x1B: {"SLO", amAbyW, opSLO},
	0x1C: {"NOP", amAbxR, opNOP}, 0x1D: {"ORA", amAbxR, opORA}, 0x1E: {"ASL", amAbxW, opASL}, 0x1F: {"SLO", amAbxW, opSLO},

	0x20: {"JSR", amAbs, opJSR}, 0x21: {"AND", amIzx, opAND}, 0x22: {"JAM", amImp, opJAM}, 0x23: {"RLA", amIzx, opRLA},
	0x24: {"BIT", amZpg, opBIT}, 0x25: {"AND", amZpg, opAND}, 0x26: {"ROL", amZpg, opROL}, 0x27: {"RLA", amZpg, opRLA},
	0x28: {"PLP", amImp, opPLP}, 0x29: {"AND", amImm, opAND}, 0x2A: {"ROL", amAcc, opROL}, 0x2B: {"ANC", amImm, opANC},
	0x2C: {"BIT", amAbs, opBIT}, 0x2D: {"AND", amAbs, opAND}, 0x2E: {"ROL", amAbs, opROL}, 0x2F: {"RLA", amAbs, opRLA},

	0x30: {"BMI", amImp, opBMI}, 0x31: {"AND", amIzyR, opAND}, 0x32: {"JAM", amImp, opJAM}, 0x33: {"RLA", amIzyW, opRLA},
	0x34: {"NOP", amZpx, opNOP}, 0x35: {"AND", amZpx, opAND}, 0x36: {"ROL", amZpx, opROL}, 0x37: {"RLA", amZpx, opRLA},
	0x38: {"SEC", amImp, opSEC}, 0x39: {"AND", amAbyR, opAND}, 0x3A: {"NOP", amImp, opNOP}, 0x3B: {"RLA", amAbyW, opRLA},
	0x3C: {"NOP", amAbxR, opNOP}, 0x3D: {"AND", amAbxR, opAND}, 0x3E: {"ROL", amAbxW, opROL}, 0x3F: {"RLA", amAbxW, opRLA},

	0x40: {"RTI", amImp, opRTI}, 0x41: {"EOR", amIzx, opEOR}, 0x42: {"JAM", amImp, opJAM}, 0x43: {"SRE", amIzx, opSRE},
	0x44: {"NOP", amZpg, opNOP}, 0x45: {"EOR", amZpg, opEOR}, 0x46: {"LSR", amZpg, opLSR}, 0x47: {"SRE", amZpg, opSRE},
	0x48: {"PHA", amImp, opPHA}, 0x49: {"EOR", amImm, opEOR}, 0x4A: {"LSR", amAcc, opLSR}, 0x4B: {"ALR", amImm, opALR},
	0x4C: {"JMP", amAbs, opJMP}, 0x4D: {"EOR", amAbs, opEOR}, 0x4E: {"LSR", amAbs, opLSR}, 0x4F: {"SRE", amAbs, opSRE},

	0x50: {"BVC", amImp, opBVC}, 0x51: {"EOR", amIzyR, opEOR}, 0x52: {"JAM", amImp, opJAM}, 0x53: {"SRE", amIzyW, opSRE},
	0x54: {"NOP", amZpx, opNOP}, 0x55: {"EOR", amZpx, opEOR}, 0x56: {"LSR", amZpx, opLSR}, 0x57: {"SRE", amZpx, opSRE},
	0x58: {"CLI", amImp, opCLI}, 0x59: {"EOR", amAbyR, opEOR}, 0x5A: {"NOP", amImp, opNOP}, 0x5B: {"SRE", amAbyW, opSRE},
	0x5C: {"NOP", amAbxR, opNOP}, 0x5D: {"EOR", amAbxR, opEOR}, 0x5E: {"LSR", amAbxW, opLSR}, 0x5F: {"SRE", amAbxW, opSRE},

	0x60: {"RTS", amImp, opRTS}, 0x61: {"ADC", amIzx, opADC}, 0x62: {"JAM", amImp, opJAM}, 0x63: {"RRA", amIzx, opRRA},
	0x64: {"NOP", amZpg, opNOP}, 0x65: {"ADC", amZpg, opADC}, 0x66: {"ROR", amZpg, opROR}, 0x67: {"RRA", amZpg, opRRA},
	0x68: {"PLA", amImp, opPLA}, 0x69: {"ADC", amImm, opADC}, 0x6A: {"ROR", amAcc, opROR}, 0x6B: {"ARR", amImm, opARR},
	0x6C: {"JMP", amInd, opJMP}, 0x6D: {"ADC", amAbs, opADC}, 0x6E: {"ROR", amAbs, opROR}, 0x6F: {"RRA", amAbs, opRRA},

	0x70: {"BVS", amImp, opBVS}, 0x71: {"ADC", amIzyR, opADC}, 0x72: {"JAM", amImp, opJAM}, 0x73: {"RRA", amIzyW, opRRA},
	0x74: {"NOP", amZpx, opNOP}, 0x75: {"ADC", amZpx, opADC}, 0x76: {"ROR", amZpx, opROR}, 0x77: {"RRA", amZpx, opRRA},
	0x78: {"SEI", amImp, opSEI}, 0x79: {"ADC", amAbyR, opADC}, 0x7A: {"NOP", amImp, opNOP}, 0x7B: {"RRA", amAbyW, opRRA},
	0x7C: {"NOP", amAbxR, opNOP}, 0x7D: {"ADC", amAbxR, opADC}, 0x7E: {"ROR", amAbxW, opROR}, 0x7F: {"RRA", amAbxW, opRRA},

	0x80: {"NOP", amImm, opNOP}, 0x81: {"STA", amIzx, opSTA}, 0x82: {"NOP", amImm, opNOP}, 0x83: {"SAX", amIzx, opSAX},
	0x84: {"STY", amZpg, opSTY}, 0x85: {"STA", amZpg, opSTA}, 0x86: {"STX", amZpg, opSTX}, 0x87: {"SAX", amZpg, opSAX},
	0x88: {"DEY", amImp, opDEY}, 0x89: {"NOP", amImm, opNOP}, 0x8A: {"TXA", amImp, opTXA}, 0x8B: {"ANE", amImm, opANE},
	0x8C: {"STY", amAbs, opSTY}, 0x8D: {"STA", amAbs, opSTA}, 0x8E: {"STX", amAbs, opSTX}, 0x8F: {"SAX", amAbs, opSAX},

	0x90: {"BCC", amImp, opBCC}, 0x91: {"STA", amIzyW, opSTA}, 0x92: {"JAM", amImp, opJAM}, 0x93: {"SHA", amIzyW, opSHA},
	0x94: {"STY", amZpx, opSTY}, 0x95: {"STA", amZpx, opSTA}, 0x96: {"STX", amZpy, opSTX}, 0x97: {"SAX", amZpy, opSAX},
	0x98: {"TYA", amImp, opTYA}, 0x99: {"STA", amAbyW, opSTA}, 0x9A: {"TXS", amImp, opTXS}, 0x9B: {"TAS", amAbyW, opTAS},
	0x9C: {"SHY", amAbxW, opSHY}, 0x9D: {"STA", amAbxW, opSTA}, 0x9E: {"SHX", amAbyW, opSHX}, 0x9F: {"SHA", amAbyW, opSHA},

	0xA0: {"LDY", amImm, opLDY}, 0xA1: {"LDA", amIzx, opLDA}, 0xA2: {"LDX", amImm, opLDX}, 0xA3: {"LAX", amIzx, opLAX},
	0xA4: {"LDY", amZpg, opLDY}, 0xA5: {"LDA", amZpg, opLDA}, 0xA6: {"LDX", amZpg, opLDX}, 0xA7: {"LAX", amZpg, opLAX},
	0xA8: {"TAY", amImp, opTAY}, 0xA9: {"LDA", amImm, opLDA}, 0xAA: {"TAX", amImp, opTAX}, 0xAB: {"LXA", amImm, opLXA},
	0xAC: {"LDY", amAbs, opLDY}, 0xAD: {"LDA", amAbs, opLDA}, 0xAE: {"LDX", amAbs, opLDX}, 0xAF: {"LAX", amAbs, opLAX},

	0xB0: {"BCS", amImp, opBCS}, 0xB1: {"LDA", amIzyR, opLDA}, 0xB2: {"JAM", amImp, opJAM}, 0xB3: {"LAX", amIzyR, opLAX},
	0xB4: {"LDY", amZpx, opLDY}, 0xB5: {"LDA", amZpx, opLDA}, 0xB6: {"LDX", amZpy, opLDX}, 0xB7: {"LAX", amZpy, opLAX},
	0xB8: {"CLV", amImp, opCLV}, 0xB9: {"LDA", amAbyR, opLDA}, 0xBA: {"TSX", amImp, opTSX}, 0xBB: {"LAS", amAbyR, opLAS},
	0xBC: {"LDY", amAbxR, opLDY}, 0xBD: {"LDA", amAbxR, opLDA}, 0xBE: {"LDX", amAbyR, opLDX}, 0xBF: {"LAX", amAbyR, opLAX},

	0xC0: {"CPY", amImm, opCPY}, 0xC1: {"CMP", amIzx, opCMP}, 0xC2: {"NOP", amImm, opNOP}, 0xC3: {"DCP", amIzx, opDCP},
	0xC4: {"CPY", amZpg, opCPY}, 0xC5: {"CMP", amZpg, opCMP}, 0xC6: {"DEC", amZpg, opDEC}, 0xC7: {"DCP", amZpg, opDCP},
	0xC8: {"INY", amImp, opINY}, 0xC9: {"CMP", amImm, opCMP}, 0xCA: {"DEX", amImp, opDEX}, 0xCB: {"SBX", amImm, opSBX},
	0xCC: {"CPY", amAbs, opCPY}, 0xCD: {"CMP", amAbs, opCMP}, 0xCE: {"DEC", amAbs, opDEC}, 0xCF: {"DCP", amAbs, opDCP},

	0xD0: {"BNE", amImp, opBNE}, 0xD1: {"CMP", amIzyR, opCMP}, 0xD2: {"JAM", amImp, opJAM}, 0xD3: {"DCP", amIzyW, opDCP},
	0xD4: {"NOP", amZpx, opNOP}, 0xD5: {"CMP", amZpx, opCMP}, 0xD6: {"DEC", amZpx, opDEC}, 0xD7: {"DCP", amZpx, opDCP},
	0xD8: {"CLD", amImp, opCLD}, 0xD9: {"CMP", amAbyR, opCMP}, 0xDA: {"NOP", amImp, opNOP}, 0xDB: {"DCP", amAbyW, opDCP},
	0xDC: {"NOP", amAbxR, opNOP}, 0xDD: {"CMP", amAbxR, opCMP}, 0xDE: {"DEC", amAbxW, opDEC}, 0xDF: {"DCP", amAbxW, opDCP},

	0xE0: {"CPX", amImm, opCPX}, 0xE1: {"SBC", amIzx, opSBC}, 0xE2: {"NOP", amImm, opNOP}, 0xE3: {"ISC", amIzx, opISC},
	0xE4: {"CPX", amZpg, opCPX}, 0xE5: {"SBC", amZpg, opSBC}, 0xE6: {"INC", amZpg, opINC}, 0xE7: {"ISC", amZpg, opISC},
	0xE8: {"INX", amImp, opINX}, 0xE9: {"SBC", amImm, opSBC}, 0xEA: {"NOP", amImp, opNOP}, 0xEB: {"SBC", amImm, opSBC},
	0xEC: {"CPX", amAbs, opCPX}, 0xED: {"SBC", amAbs, opSBC}, 0xEE: {"INC", amAbs, opINC}, 0xEF: {"ISC", amAbs, opISC},

	0xF0: {"BEQ", amImp, opBEQ}, 0xF1: {"SBC", amIzyR, opSBC}, 0xF2: {"JAM", amImp, opJAM}, 0xF3: {"ISC", amIzyW, opISC},
	0xF4: {"NOP", amZpx, opNOP}, 0xF5: {"SBC", amZpx, opSBC}, 0xF6: {"INC", amZpx, opINC}, 0xF7: {"ISC", amZpx, opISC},
	0xF8: {"SED", amImp, opSED}, 0xF9: {"SBC", amAbyR, opSBC}, 0xFA: {"NOP", amImp, opNOP}, 0xFB: {"ISC", amAbyW, opISC},
	0xFC: {"NOP", amAbxR, opNOP}, 0xFD: {"SBC", amAbxR, opSBC}, 0xFE: {"INC", amAbxW, opINC}, 0xFF: {"ISC", amAbxW, opISC},
}

var ops [256]func(*CPU)

func init() {
	for i, in := range opTable {
		mode, exec := in.mode, in.exec
		ops[i] = func(c *CPU) { exec(c, mode) }
	}
}

/* disassembly, peek-only (no bus side effects, no cycle accounting) */

func (c *CPU) disasmOperand(pc uint16, mode addrMode) string {
	switch mode {
	case amImp, amAcc:
		return ""
	case amImm:
		return fmt.Sprintf("#$%02X", c.Bus.Peek8(pc+1))
	case amZpg:
		return formatAddr16(uint16(c.Bus.Peek8(pc + 1)))
	case amZpx:
		return fmt.Sprintf("$%02X,X", c.Bus.Peek8(pc+1))
	case amZpy:
		return fmt.Sprintf("$%02X,Y", c.Bus.Peek8(pc+1))
	case amIzx:
		return fmt.Sprintf("($%02X,X)", c.Bus.Peek8(pc+1))
	case amIzyR, amIzyW:
		return fmt.Sprintf("($%02X),Y", c.Bus.Peek8(pc+1))
	case amInd:
		return fmt.Sprintf("($%04X)", c.peek16(pc+1))
	case amAbxR, amAbxW:
		return fmt.Sprintf("%s,X", formatAddr(c.peek16(pc+1)))
	case amAbyR, amAbyW:
		return fmt.Sprintf("%s,Y", formatAddr(c.peek16(pc+1)))
	default: // amAbs
		return formatAddr(c.peek16(pc + 1))
	}
}

func (c *CPU) peek16(addr uint16) uint16 {
	lo := c.Bus.Peek8(addr)
	hi := c.Bus.Peek8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func formatAddr16(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%02X", addr)
}

var disasmOps [256]func(*CPU, uint16) DisasmOp

func init() {
	for i, in := range opTable {
		name, mode := in.name, in.mode
		disasmOps[i] = func(c *CPU, pc uint16) DisasmOp {
			n := mode.operandLen()
			buf := make([]byte, 1+n)
			buf[0] = c.Bus.Peek8(pc)
			for j := 0; j < n; j++ {
				buf[j+1] = c.Bus.Peek8(pc + 1 + uint16(j))
			}
			// relative branches are encoded as amImp here (no generic
			// mode carries a signed 8-bit offset); special-case them by
			// opcode name since they're the only implied-mode ops that
			// consume an operand byte.
			if isBranchName(name) {
				buf = append(buf, c.Bus.Peek8(pc+1))
				off := int8(buf[1])
				target := uint16(int32(pc) + 2 + int32(off))
				return DisasmOp{Opcode: name, Oper: fmt.Sprintf("$%04X", target), Buf: buf, PC: pc}
			}
			return DisasmOp{Opcode: name, Oper: c.disasmOperand(pc, mode), Buf: buf, PC: pc}
		}
	}
}

func isBranchName(name string) bool {
	switch name {
	case "BPL", "BMI", "BVC", "BVS", "BCC", "BCS", "BNE", "BEQ":
		return true
	}
	return false
}
