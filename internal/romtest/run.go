package romtest

import (
	"bytes"
	"fmt"
	"path/filepath"

	"nestor/console"
	"nestor/ines"
)

// statusMagic is written to $6001-$6003 by every blargg-style status-
// protocol test ROM once its harness is ready, so a runner can tell a real
// result apart from whatever $6000 happens to hold before the ROM starts.
var statusMagic = [3]byte{0xde, 0xb0, 0x61}

// Result is a status-protocol test ROM's outcome: Code 0 means pass,
// 1-0x7F is a ROM-specific failure code, and Text carries whatever
// diagnostic string (if any) the ROM wrote to $6004.
type Result struct {
	Code uint8
	Text string
}

// maxStatusFrames bounds how long RunStatusROM waits for a result before
// concluding the ROM hung, so a broken build fails a test instead of
// hanging the whole suite.
const maxStatusFrames = 1200

// RunStatusROM loads and runs path against a fresh console using the
// common blargg status-protocol: the ROM polls $6000 for its own ready
// state, writes a result code there once done, and optionally leaves a
// NUL-terminated message at $6004. It mirrors the teacher's
// emu/roms_test.go runTestRom.
func RunStatusROM(path string) (Result, error) {
	rom, err := ines.Open(path)
	if err != nil {
		return Result{}, err
	}
	c, err := console.New(rom)
	if err != nil {
		return Result{}, err
	}

	var ctrl [2]console.ControllerState
	magicSeen := false
	for frame := 0; frame < maxStatusFrames; frame++ {
		c.StepFrame(ctrl)

		var data [3]byte
		for i := range data {
			data[i] = c.CPU.Bus.Peek8(0x6001 + uint16(i))
		}
		if !magicSeen {
			if bytes.Equal(data[:], statusMagic[:]) {
				magicSeen = true
			}
			continue
		}
		if !bytes.Equal(data[:], statusMagic[:]) {
			return Result{}, fmt.Errorf("%s: status memory corrupted", filepath.Base(path))
		}
		code := c.CPU.Bus.Peek8(0x6000)
		if code <= 0x7F {
			return Result{Code: code, Text: readCString(c, 0x6004)}, nil
		}
	}
	return Result{}, fmt.Errorf("%s: timed out waiting for a result after %d frames", filepath.Base(path), maxStatusFrames)
}

func readCString(c *console.Console, addr uint16) string {
	var buf []byte
	for {
		b := c.CPU.Bus.Peek8(addr)
		if b == 0 || len(buf) > 4096 {
			break
		}
		buf = append(buf, b)
		addr++
	}
	return string(buf)
}

// RunNestest runs nestest.nes in its CPU-only automation mode (PC forced
// to $C000) and reports the two status bytes it leaves at $02/$03, which
// are zero only when every opcode under test behaved correctly.
func RunNestest(path string) (lo, hi uint8, err error) {
	rom, err := ines.Open(path)
	if err != nil {
		return 0, 0, err
	}
	c, err := console.New(rom)
	if err != nil {
		return 0, 0, err
	}
	c.CPU.PC = 0xC000

	var ctrl [2]console.ControllerState
	for frame := 0; frame < 100; frame++ {
		c.StepFrame(ctrl)
	}
	return c.CPU.Bus.Peek8(0x02), c.CPU.Bus.Peek8(0x03), nil
}
