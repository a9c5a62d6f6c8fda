package ines

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestRomOpen(t *testing.T) {
	dir := filepath.Join("..", "testdata", "nes-test-roms", "instr_test-v5", "rom_singles")
	paths := []string{
		"01-basics.nes",
		"02-implied.nes",
		"03-immediate.nes",
		"04-zero_page.nes",
		"05-zp_xy.nes",
		"06-absolute.nes",
		"07-abs_xy.nes",
		"08-ind_x.nes",
		"09-ind_y.nes",
		"10-branches.nes",
		"11-stack.nes",
		"12-jmp_jsr.nes",
		"13-rts.nes",
		"14-rti.nes",
		"15-brk.nes",
		"16-special.nes",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rom, err := Open(filepath.Join(dir, path))
			if err != nil {
				t.Fatal(err)
			}
			t.Logf("%+v", rom)
		})
	}
}

func buildINESHeader(prgBanks, chrBanks, flags6, flags7 byte) []byte {
	h := make([]byte, 16)
	copy(h[:4], Magic)
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = flags6
	h[7] = flags7
	return h
}

func TestDecodeBadMagic(t *testing.T) {
	buf := bytes.Repeat([]byte{0}, 16)
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err == nil {
		t.Fatal("expected an error for a missing magic number")
	}
}

func TestDecodeTooShort(t *testing.T) {
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader([]byte("NES"))); err == nil {
		t.Fatal("expected an error for a truncated header")
	}
}

func TestDecodeMirroring(t *testing.T) {
	tests := []struct {
		flags6 byte
		want   Mirroring
	}{
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
		{0x09, MirrorFourScreen},
	}
	for _, tt := range tests {
		h := buildINESHeader(1, 1, tt.flags6, 0)
		h = append(h, make([]byte, 16384+8192)...)
		var rom Rom
		if _, err := rom.ReadFrom(bytes.NewReader(h)); err != nil {
			t.Fatalf("flags6=%#x: %v", tt.flags6, err)
		}
		if rom.Mirroring() != tt.want {
			t.Errorf("flags6=%#x: mirroring = %v, want %v", tt.flags6, rom.Mirroring(), tt.want)
		}
	}
}

func TestDecodeMapperNumber(t *testing.T) {
	// MMC3 is mapper 4: low nibble in flags6 bits 4-7, high nibble in flags7 bits 4-7.
	h := buildINESHeader(2, 1, 0x40, 0x00)
	h = append(h, make([]byte, 2*16384+8192)...)
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(h)); err != nil {
		t.Fatal(err)
	}
	if got := rom.Mapper(); got != 4 {
		t.Errorf("mapper = %d, want 4", got)
	}
}

func TestDecodeCHRRAM(t *testing.T) {
	h := buildINESHeader(1, 0, 0, 0)
	h = append(h, make([]byte, 16384)...)
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(h)); err != nil {
		t.Fatal(err)
	}
	if len(rom.CHR) != 0 {
		t.Errorf("expected no CHR-ROM payload, got %d bytes", len(rom.CHR))
	}
	if rom.CHRRAMSize() != 8192 {
		t.Errorf("CHRRAMSize() = %d, want 8192", rom.CHRRAMSize())
	}
}

func TestDecodeNES20(t *testing.T) {
	h := buildINESHeader(1, 1, 0x40, 0x08) // flags7 bits 2-3 = 10b -> NES 2.0
	h[8] = 0x10                            // submapper 1, mapper hi2 = 0
	h = append(h, make([]byte, 16+16384+8192)...)
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(h)); err != nil {
		t.Fatal(err)
	}
	if !rom.IsNES20() {
		t.Error("expected IsNES20() to be true")
	}
	if rom.Submapper() != 1 {
		t.Errorf("submapper = %d, want 1", rom.Submapper())
	}
}

func TestDecodeTruncatedPRG(t *testing.T) {
	h := buildINESHeader(2, 1, 0, 0) // claims 2 PRG banks but supplies none
	var rom Rom
	if _, err := rom.ReadFrom(bytes.NewReader(h)); err == nil {
		t.Fatal("expected an error for a truncated PRG-ROM section")
	}
}
