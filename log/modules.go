// Package log provides module-tagged structured logging for the emulator
// core. Each subsystem logs through a Module constant; debug/trace output is
// gated per-module so a host can enable "ppu,mapper" without drowning in CPU
// trace noise, while warnings and errors always make it to the sink.
package log

import "github.com/sirupsen/logrus"

type ModuleMask uint64

type Module uint

const ModuleMaskAll ModuleMask = 0xFFFFFFFFFFFFFFFF

const (
	ModEmu Module = iota
	ModCPU
	ModPPU
	ModSound
	ModMapper
	ModIO
	ModDMA

	endStandardMods
)

var modCount = endStandardMods

var modNames = []string{
	"emu", "cpu", "ppu", "sound", "mapper", "io", "dma",
}

// NewModule registers an additional module beyond the standard set above,
// for mapper or host code that wants its own log tag.
func NewModule(name string) Module {
	mod := modCount
	modCount++
	modNames = append(modNames, name)
	return mod
}

func ModuleByName(name string) (Module, bool) {
	for idx, s := range modNames {
		if s == name {
			return Module(idx), true
		}
	}
	return 0, false
}

// ModuleNames lists every registered module name, standard and host-added,
// in registration order. Used by the CLI to build its --log help text.
func ModuleNames() []string {
	out := make([]string, len(modNames))
	copy(out, modNames)
	return out
}

var debugMask ModuleMask
var disabled bool

func EnableDebugModules(mask ModuleMask)  { debugMask |= mask }
func DisableDebugModules(mask ModuleMask) { debugMask &^= mask }

// Disable silences every module at every level, warnings and errors
// included, so boundary events (ROM load, reset, mapper IRQ) are dropped too.
func Disable() { disabled = true }

func (mod Module) Mask() ModuleMask { return 1 << ModuleMask(mod) }

func (mod Module) name() string {
	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return "?"
}

func (mod Module) enabled(lvl logrus.Level) bool {
	if disabled {
		return false
	}
	if lvl <= logrus.WarnLevel {
		return true
	}
	return debugMask&mod.Mask() != 0
}

func (mod Module) TraceZ(msg string) *Entry { return mod.entry(logrus.TraceLevel, msg) }
func (mod Module) DebugZ(msg string) *Entry { return mod.entry(logrus.DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *Entry  { return mod.entry(logrus.InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *Entry  { return mod.entry(logrus.WarnLevel, msg) }
func (mod Module) ErrorZ(msg string) *Entry { return mod.entry(logrus.ErrorLevel, msg) }
func (mod Module) FatalZ(msg string) *Entry { return mod.entry(logrus.FatalLevel, msg) }

func (mod Module) entry(lvl logrus.Level, msg string) *Entry {
	if !mod.enabled(lvl) {
		return nil
	}
	return &Entry{mod: mod, lvl: lvl, msg: msg}
}
