// Package config loads and saves nestor's persistent settings: video/audio
// preferences a host front end applies before the first frame, and the
// power-on RAM seed used for deterministic runs. It follows the teacher's
// emu/config.go: TOML on disk, located through kirsle/configdir instead of
// hand-rolling XDG/AppData path logic.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nestor/log"
)

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	Fullscreen   bool `toml:"fullscreen"`
	DisableVSync bool `toml:"disable_vsync"`
}

type AudioConfig struct {
	SampleRate uint32  `toml:"sample_rate"`
	Volume     float64 `toml:"volume"`
	Muted      bool    `toml:"muted"`
}

type InputConfig struct {
	// Port1, Port2 name a bound input device (e.g. "keyboard", "pad0") for
	// the front end to resolve; the core itself only ever sees the 8-bit
	// ControllerState the front end produces from whichever device this
	// names.
	Port1 string `toml:"port1"`
	Port2 string `toml:"port2"`
}

type GeneralConfig struct {
	ShowSplash bool `toml:"show_splash"`
	Speed      int  `toml:"speed"` // percent, 100 = full speed
}

// Config is nestor's entire persisted settings tree.
type Config struct {
	General GeneralConfig `toml:"general"`
	Video   VideoConfig   `toml:"video"`
	Audio   AudioConfig   `toml:"audio"`
	Input   InputConfig   `toml:"input"`

	// ConsistentRAM seeds PowerCycle's RAM-fill, matching the --consistent-ram
	// CLI flag: 0 (the default) zero-fills RAM on every power-on, any other
	// value fills it with a pseudo-random pattern derived from the seed,
	// reproducing the same RAM contents across runs for deterministic
	// testing/TAS playback.
	ConsistentRAM uint64 `toml:"consistent_ram"`
}

var defaultConfig = Config{
	General: GeneralConfig{ShowSplash: true, Speed: 100},
	Video:   VideoConfig{Scale: 3},
	Audio:   AudioConfig{SampleRate: 48000, Volume: 1.0},
}

const dirName = "nestor"
const fileName = "config.toml"

var dir = sync.OnceValue(func() string {
	d := configdir.LocalConfig(dirName)
	if err := configdir.MakePath(d); err != nil {
		log.ModEmu.FatalZ("failed to create config directory").
			String("dir", d).Error("err", err).End()
	}
	return d
})

// Dir returns nestor's platform-typical persistent data directory (also
// where battery-backed PRG-RAM saves land), creating it if necessary.
func Dir() string { return dir() }

// LoadOrDefault loads config.toml from Dir, or returns defaultConfig
// unchanged if it doesn't exist or fails to parse.
func LoadOrDefault() Config {
	cfg := defaultConfig
	if _, err := toml.DecodeFile(filepath.Join(dir(), fileName), &cfg); err != nil {
		return defaultConfig
	}
	return cfg
}

// Save writes cfg to config.toml under Dir.
func Save(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir(), fileName), buf, 0644)
}

// SaveRAM writes battery-backed PRG-RAM to Dir under name+".sav", the
// teacher's convention for where a clean shutdown persists cartridge saves.
func SaveRAM(name string, ram []byte) error {
	return os.WriteFile(filepath.Join(dir(), name+".sav"), ram, 0644)
}

// LoadRAM reads a previously saved name+".sav", or returns nil with no
// error if none exists yet (a fresh cartridge with nothing to restore).
func LoadRAM(name string) ([]byte, error) {
	buf, err := os.ReadFile(filepath.Join(dir(), name+".sav"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return buf, err
}
