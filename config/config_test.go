package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
)

func TestConfigTOMLRoundTrip(t *testing.T) {
	want := Config{
		General:       GeneralConfig{ShowSplash: false, Speed: 200},
		Video:         VideoConfig{Scale: 4, Fullscreen: true, DisableVSync: true},
		Audio:         AudioConfig{SampleRate: 44100, Volume: 0.5, Muted: true},
		Input:         InputConfig{Port1: "keyboard", Port2: "pad0"},
		ConsistentRAM: 0xDEADBEEF,
	}

	buf, err := toml.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Config
	if err := toml.Unmarshal(buf, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultConfig(t *testing.T) {
	if !defaultConfig.General.ShowSplash {
		t.Error("expected default ShowSplash = true")
	}
	if defaultConfig.General.Speed != 100 {
		t.Errorf("default Speed = %d, want 100", defaultConfig.General.Speed)
	}
	if defaultConfig.ConsistentRAM != 0 {
		t.Errorf("default ConsistentRAM = %d, want 0 (zero-filled RAM)", defaultConfig.ConsistentRAM)
	}
}
