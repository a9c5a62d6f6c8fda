// Package playback implements nestor's .playback input-recording format: a
// small header identifying which cartridge and RNG seed a run used, followed
// by a varint-delimited stream of controller-state deltas. Recorder builds
// one while Console.StepFrame runs; Player replays one back into StepFrame
// after checking it was recorded against the same cartridge.
package playback

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"nestor/console"
	"nestor/ines"
)

// magic identifies a .playback file before the version byte, so a
// misidentified file fails fast instead of decoding garbage.
var magic = [4]byte{'N', 'P', 'B', '1'}

// CartridgeHash returns the SHA-256 of a cartridge's PRG+CHR image, the
// identity a Player checks a loaded ROM against before replaying.
func CartridgeHash(rom *ines.Rom) [32]byte {
	h := sha256.New()
	h.Write(rom.PRG)
	h.Write(rom.CHR)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

type delta struct {
	frame  uint32
	inputs [2]console.ControllerState
}

// Recorder accumulates controller-state deltas as a run progresses. Only
// frames where the latched input actually changed are stored, so long
// stretches of held (or released) buttons cost nothing.
type Recorder struct {
	hash   [32]byte
	seed   uint64
	frames uint32
	last   [2]console.ControllerState
	have   bool
	deltas []delta
}

// NewRecorder starts a recording against rom with the given power-on RAM
// seed (0 meaning zero-filled RAM, as config.Config.ConsistentRAM does).
func NewRecorder(rom *ines.Rom, seed uint64) *Recorder {
	return &Recorder{hash: CartridgeHash(rom), seed: seed}
}

// Record latches this frame's inputs. Call it once per Console.StepFrame,
// in frame order, with the same inputs StepFrame was given.
func (r *Recorder) Record(frameIndex uint32, inputs [2]console.ControllerState) {
	r.frames = frameIndex + 1
	if r.have && inputs == r.last {
		return
	}
	r.have = true
	r.last = inputs
	r.deltas = append(r.deltas, delta{frame: frameIndex, inputs: inputs})
}

// Bytes serializes the recording made so far into a complete .playback
// file image.
func (r *Recorder) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.Write(r.hash[:])

	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], r.seed)
	buf.Write(scratch[:n])

	n = binary.PutUvarint(scratch[:], uint64(r.frames))
	buf.Write(scratch[:n])

	n = binary.PutUvarint(scratch[:], uint64(len(r.deltas)))
	buf.Write(scratch[:n])

	for _, d := range r.deltas {
		n = binary.PutUvarint(scratch[:], uint64(d.frame))
		buf.Write(scratch[:n])
		buf.WriteByte(byte(d.inputs[0]))
		buf.WriteByte(byte(d.inputs[1]))
	}
	return buf.Bytes()
}

// FormatError reports a .playback blob that's truncated, not ours, or
// whose cartridge hash doesn't match the ROM a Player was asked to check it
// against.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "playback: " + e.Reason }

// Player replays a decoded .playback recording's inputs back into a
// Console, frame by frame.
type Player struct {
	hash   [32]byte
	seed   uint64
	frames uint32
	deltas []delta

	next int // index of the next undelivered delta
	cur  [2]console.ControllerState
}

// Load parses data into a Player without yet checking it against any
// cartridge; call CheckCartridge once a ROM is loaded.
func Load(data []byte) (*Player, error) {
	if len(data) < 4+32 || [4]byte(data[:4]) != magic {
		return nil, &FormatError{Reason: "bad magic, not a .playback file"}
	}
	p := &Player{}
	copy(p.hash[:], data[4:36])
	rest := data[36:]

	seed, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, &FormatError{Reason: "truncated seed"}
	}
	p.seed = seed
	rest = rest[n:]

	frames, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, &FormatError{Reason: "truncated frame count"}
	}
	p.frames = uint32(frames)
	rest = rest[n:]

	count, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, &FormatError{Reason: "truncated delta count"}
	}
	rest = rest[n:]

	p.deltas = make([]delta, 0, count)
	for i := uint64(0); i < count; i++ {
		frame, n := binary.Uvarint(rest)
		if n <= 0 || len(rest) < n+2 {
			return nil, &FormatError{Reason: "truncated delta"}
		}
		rest = rest[n:]
		d := delta{
			frame: uint32(frame),
			inputs: [2]console.ControllerState{
				console.ControllerState(rest[0]),
				console.ControllerState(rest[1]),
			},
		}
		rest = rest[2:]
		p.deltas = append(p.deltas, d)
	}
	return p, nil
}

// CheckCartridge returns a *FormatError if rom isn't the cartridge this
// recording was made against.
func (p *Player) CheckCartridge(rom *ines.Rom) error {
	if CartridgeHash(rom) != p.hash {
		return &FormatError{Reason: "recording was made against a different cartridge"}
	}
	return nil
}

// Seed is the power-on RAM seed the recording was made with.
func (p *Player) Seed() uint64 { return p.seed }

// FrameCount is the total number of frames the recording spans.
func (p *Player) FrameCount() uint32 { return p.frames }

// InputsAt returns the latched controller state for frameIndex, applying
// any pending deltas up to and including it. Call it once per frame, in
// increasing frame order; Player tracks its own position in the delta
// stream and does not support seeking backward.
func (p *Player) InputsAt(frameIndex uint32) [2]console.ControllerState {
	for p.next < len(p.deltas) && p.deltas[p.next].frame <= frameIndex {
		p.cur = p.deltas[p.next].inputs
		p.next++
	}
	return p.cur
}

// Play replays the entire recording into c, which must already have
// CheckCartridge-verified cartridge loaded, returning the concatenated
// audio from every frame.
func (p *Player) Play(c *console.Console) ([]int16, error) {
	if err := p.CheckCartridge(c.Rom); err != nil {
		return nil, err
	}
	var pcm []int16
	for f := uint32(0); f < p.frames; f++ {
		pcm = append(pcm, c.StepFrame(p.InputsAt(f))...)
	}
	return pcm, nil
}
