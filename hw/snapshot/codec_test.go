package snapshot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleNES() *NES {
	s := &NES{
		Version: CurrentVersion,
		CPU: &CPU{
			PC: 0xC000, SP: 0xFD, P: 0x24, A: 1, X: 2, Y: 3,
			Cycles: 1234, MasterClock: 5678,
			IRQFlag: 1, RunIRQ: true, PrevRunIRQ: false,
			NMIFlag: true, PrevNeedNMI: false, PrevNMIFlag: true, NeedNMI: false,
		},
		DMA: &DMA{DMCRunning: true, OAMRunning: false, DummyCycle: true, NeedHalt: true},
		PPU: &PPU{
			OpenBus: 0x42,
			BusAddr: 0x2006, OAMAddr: 7, VRAMAddr: 0x2400, VRAMTemp: 0x2401,
			WriteLatch: true, PPUDataBuf: 0x55,
			PPUBgRegs: PPUBgRegs{AddrLatch: 0x1234, Finex: 3, NT: 9, BgShiftLo: 0xBEEF},
			PPUCTRL:   0x80, PPUMASK: 0x1E, PPUSTATUS: 0xA0,
			MasterClock: 99999, Cycle: 123, Scanline: 241, FrameCount: 7,
			OddFrame: true, PreventVBlank: false,
		},
		APU: &APU{
			Square1: APUSquare{Timer: APUTimer{Period: 0x1AA}, Duty: 2},
			DMC:     APUDMC{SampleAddr: 0xC000, SampleLen: 0x10, IRQEnabled: true},
			Mixer:   APUMixer{ClockRate: 1789773, SampleRate: 96000},
		},
		Mapper: &Mapper{
			PRGBank0: 1, PRGBank1: -1, Mirroring: 1,
			PRGRAM: []uint8{1, 2, 3, 4},
			CHRRAM: []uint8{},
			IRQCounter: 0xFF, IRQEnabled: true,
		},
	}
	s.RAM[0] = 0xAA
	s.RAM[0x7FF] = 0x55
	s.PPU.Palette[3] = 0x0F
	s.PPU.OAMMem[4] = 0xEE
	s.PPU.OAM[0] = Sprite{ID: 1, X: 10, Y: 20, Tile: 3, Attr: 0x40}
	return s
}

func TestCodecRoundTrip(t *testing.T) {
	want := sampleNES()
	data := NewEncoder().Encode(want)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodecVersionMismatch(t *testing.T) {
	s := sampleNES()
	s.Version = CurrentVersion + 1
	data := NewEncoder().Encode(s)

	_, err := Decode(data)
	if err == nil {
		t.Fatal("expected a version mismatch error")
	}
	verr, ok := err.(*VersionError)
	if !ok {
		t.Fatalf("error type = %T, want *VersionError", err)
	}
	if verr.Got != CurrentVersion+1 || verr.Want != CurrentVersion {
		t.Errorf("VersionError = %+v", verr)
	}
}

func TestCodecTruncated(t *testing.T) {
	data := NewEncoder().Encode(sampleNES())
	_, err := Decode(data[:len(data)/2])
	if err == nil {
		t.Fatal("expected an error decoding a truncated snapshot")
	}
}

func TestCodecDoesNotMutateOnError(t *testing.T) {
	// A decode error must return a nil *NES, never a partially filled one,
	// so Console.Restore can safely skip the live-state swap on failure.
	data := []byte(`{"version":999}`)
	got, err := Decode(data)
	if err == nil {
		t.Fatal("expected an error for an unknown version")
	}
	if got != nil {
		t.Fatalf("Decode returned a non-nil *NES alongside an error: %+v", got)
	}
}
