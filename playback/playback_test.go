package playback

import (
	"testing"

	"nestor/console"
	"nestor/ines"
)

func testRom() *ines.Rom {
	return &ines.Rom{PRG: []byte{1, 2, 3, 4}, CHR: []byte{5, 6}}
}

func TestCartridgeHashStable(t *testing.T) {
	a := CartridgeHash(testRom())
	b := CartridgeHash(testRom())
	if a != b {
		t.Fatal("CartridgeHash is not deterministic for identical ROM bytes")
	}

	other := &ines.Rom{PRG: []byte{1, 2, 3, 5}, CHR: []byte{5, 6}}
	if CartridgeHash(other) == a {
		t.Fatal("CartridgeHash collided for different PRG bytes")
	}
}

func TestRecordLoadRoundTrip(t *testing.T) {
	rom := testRom()
	rec := NewRecorder(rom, 0xCAFE)

	seq := []console.ControllerState{
		0,
		console.ButtonA,
		console.ButtonA,
		console.ButtonA | console.ButtonRight,
		0,
	}
	for i, s := range seq {
		rec.Record(uint32(i), [2]console.ControllerState{s, 0})
	}

	data := rec.Bytes()
	p, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := p.CheckCartridge(rom); err != nil {
		t.Fatalf("CheckCartridge: %v", err)
	}
	if p.Seed() != 0xCAFE {
		t.Errorf("Seed() = %#x, want 0xCAFE", p.Seed())
	}
	if p.FrameCount() != uint32(len(seq)) {
		t.Errorf("FrameCount() = %d, want %d", p.FrameCount(), len(seq))
	}

	for i, want := range seq {
		got := p.InputsAt(uint32(i))
		if got[0] != want {
			t.Errorf("frame %d: inputs[0] = %v, want %v", i, got[0], want)
		}
	}
}

func TestCheckCartridgeMismatch(t *testing.T) {
	rec := NewRecorder(testRom(), 1)
	rec.Record(0, [2]console.ControllerState{console.ButtonStart, 0})
	data := rec.Bytes()

	p, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	other := &ines.Rom{PRG: []byte{9, 9, 9, 9}, CHR: []byte{9, 9}}
	if err := p.CheckCartridge(other); err == nil {
		t.Fatal("expected CheckCartridge to fail against a different cartridge")
	}
}

func TestLoadBadMagic(t *testing.T) {
	if _, err := Load([]byte("not a playback file at all, way too short")); err == nil {
		t.Fatal("expected a FormatError for bad magic")
	}
}

func TestLoadTruncated(t *testing.T) {
	rec := NewRecorder(testRom(), 1)
	rec.Record(0, [2]console.ControllerState{console.ButtonB, 0})
	data := rec.Bytes()

	if _, err := Load(data[:len(data)-1]); err == nil {
		t.Fatal("expected a FormatError for a truncated recording")
	}
}

func TestRecorderSkipsUnchangedFrames(t *testing.T) {
	rom := testRom()
	rec := NewRecorder(rom, 0)
	held := console.ControllerState(console.ButtonA)
	for f := uint32(0); f < 100; f++ {
		rec.Record(f, [2]console.ControllerState{held, 0})
	}
	data := rec.Bytes()

	p, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.FrameCount() != 100 {
		t.Errorf("FrameCount() = %d, want 100", p.FrameCount())
	}
	if got := p.InputsAt(99); got[0] != held {
		t.Errorf("InputsAt(99) = %v, want %v", got[0], held)
	}
}
