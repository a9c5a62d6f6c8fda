package apu

// timer is the divide-by-N counter that clocks each channel's sequencer. It
// also tracks the last DAC output written so the mixer only has to record
// deltas (changes), not every sample.
type timer struct {
	channel Channel
	mixer   mixer

	previousCycle uint32
	timerVal      uint16
	period        uint16
	lastOutput    int8
}

func (t *timer) addOutput(output int8) {
	if output != t.lastOutput {
		t.mixer.addDelta(t.channel, t.previousCycle, int16(output)-int16(t.lastOutput))
		t.lastOutput = output
	}
}

// run advances the timer to targetCycle, returning true once per period
// elapsed (the caller loops on it to clock the sequencer forward).
func (t *timer) run(targetCycle uint32) bool {
	cyclesToRun := uint16(targetCycle - t.previousCycle)
	if cyclesToRun > t.timerVal {
		t.previousCycle += uint32(t.timerVal) + 1
		t.timerVal = t.period
		return true
	}
	t.timerVal -= cyclesToRun
	t.previousCycle = targetCycle
	return false
}

func (t *timer) endFrame() { t.previousCycle = 0 }

func (t *timer) reset(_ bool) {
	t.timerVal = 0
	t.period = 0
	t.previousCycle = 0
	t.lastOutput = 0
}

func (t *timer) saveState(s *stateTimer) {
	s.PreviousCycle, s.Timer, s.Period, s.LastOutput = t.previousCycle, t.timerVal, t.period, t.lastOutput
}

func (t *timer) setState(s *stateTimer) {
	t.previousCycle, t.timerVal, t.period, t.lastOutput = s.PreviousCycle, s.Timer, s.Period, s.LastOutput
}
