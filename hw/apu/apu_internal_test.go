package apu

import "testing"

// stubAPU and stubMixer satisfy the apu/mixer interfaces the channel and
// frame-counter units call back into, recording just enough to assert on.
type stubAPU struct {
	ran, needRun bool
	frames       []frameType
}

func (s *stubAPU) Run()            { s.ran = true }
func (s *stubAPU) SetNeedToRun()   { s.needRun = true }
func (s *stubAPU) tickFrame(t frameType) { s.frames = append(s.frames, t) }

type stubMixer struct {
	deltas []int16
}

func (m *stubMixer) addDelta(ch Channel, time uint32, delta int16) { m.deltas = append(m.deltas, delta) }

func TestLengthCounterLoadAndTick(t *testing.T) {
	a := &stubAPU{}
	lc := lengthCounter{channel: Square1, apu: a}
	lc.init(false)
	lc.setEnabled(true)

	lc.load(0) // lengthLUT[0] == 10
	lc.reload()
	if lc.counter != 10 {
		t.Fatalf("counter = %d, want 10", lc.counter)
	}
	if !lc.status() {
		t.Fatal("expected status() true with counter > 0")
	}

	for i := 0; i < 10; i++ {
		lc.tick()
	}
	if lc.status() {
		t.Fatal("expected status() false after counter reaches 0")
	}
}

func TestLengthCounterHaltSuppressesTick(t *testing.T) {
	a := &stubAPU{}
	lc := lengthCounter{channel: Square2, apu: a}
	lc.init(true) // halt
	lc.setEnabled(true)
	lc.load(0)
	lc.reload()

	before := lc.counter
	lc.tick()
	if lc.counter != before {
		t.Fatalf("counter ticked down while halted: before=%d after=%d", before, lc.counter)
	}
}

func TestLengthCounterDisabledIgnoresLoad(t *testing.T) {
	lc := lengthCounter{channel: Noise, apu: &stubAPU{}}
	lc.init(false)
	// not enabled: load must be a no-op
	lc.load(5)
	if lc.reloadValue != 0 {
		t.Fatal("load() should be ignored while the channel is disabled")
	}
}

func TestEnvelopeConstantVolume(t *testing.T) {
	var env envelope
	env.lenCounter.apu = &stubAPU{}
	env.init(0x1F) // constant volume (no halt), vol=0xF
	if env.volume() != 0 {
		t.Fatal("length counter starts at 0, volume() should report silence")
	}

	env.lenCounter.enabled = true
	env.lenCounter.counter = 1
	if got := env.volume(); got != 0x0F {
		t.Errorf("constant volume = %d, want 15", got)
	}
}

func TestEnvelopeDecay(t *testing.T) {
	var env envelope
	env.lenCounter.apu = &stubAPU{}
	env.init(0x02) // no halt, no constant volume, divider period = 2
	env.lenCounter.enabled = true
	env.lenCounter.counter = 1
	env.restart()

	env.tick() // consumes the restart, counter -> 15
	if env.counter != 15 {
		t.Fatalf("counter after restart tick = %d, want 15", env.counter)
	}

	for i := 0; i < 3; i++ {
		env.tick()
	}
	if env.counter >= 15 {
		t.Fatal("expected decay counter to have ticked down at least once")
	}
}

func TestSquareChannelMutedBelowMinPeriod(t *testing.T) {
	mx := &stubMixer{}
	sc := newSquareChannel(&stubAPU{}, mx, Square1, true)
	sc.setPeriod(4) // below the 8-cycle minimum
	if !sc.isMuted() {
		t.Fatal("expected square channel with period < 8 to be muted")
	}

	sc.setPeriod(100)
	if sc.isMuted() {
		t.Fatal("expected square channel with a normal period to be audible")
	}
}

func TestSquareChannelTimerDoublesPeriod(t *testing.T) {
	mx := &stubMixer{}
	sc := newSquareChannel(&stubAPU{}, mx, Square1, true)
	sc.setPeriod(10)
	if sc.timer.period != 21 {
		t.Errorf("timer.period = %d, want 2*10+1 = 21", sc.timer.period)
	}
}
