package hw

import "nestor/hw/snapshot"

// Mapper is the cartridge-side logic plugged into the CPU/PPU buses: PRG/CHR
// bank switching, nametable mirroring and, for some boards, extra PRG-RAM.
// The concrete types live in nestor/hw/mappers; this interface is just
// enough for save states and power-cycle/reset to stay mapper-agnostic.
type Mapper interface {
	Reset(soft bool)
	State() *snapshot.Mapper
	SetState(*snapshot.Mapper)
}
