package apu

import (
	"fmt"
	"slices"

	"github.com/arl/blip"

	"nestor/hw/hwdefs"
	"nestor/hw/snapshot"
	"nestor/log"
)

// OverflowError reports that a frame produced more resampled audio than the
// mixer's fixed-size output buffer can hold, as happens when the CPU is run
// far past the ~4x overclock headroom maxSamplesPerFrame budgets for.
// Dropped tracks the cumulative sample count lost this way so a host can
// decide whether to warn once or keep a running counter.
type OverflowError struct {
	Dropped int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("apu: mixer overflow, %d samples dropped", e.Dropped)
}

// MaxSampleRate is the host sample rate the mixer resamples down to; 4x
// headroom over it is reserved per frame to tolerate CPU overclocking.
const MaxSampleRate = 96000
const maxSamplesPerFrame = MaxSampleRate / 60 * 4 * 2

const ntscClockRate uint32 = 1789773

// Mixer turns the five channels' delta streams into band-limited PCM via
// two blip.Buffers (one per stereo side, collapsed to mono until panning is
// wired up).
type Mixer struct {
	outbuf   [maxSamplesPerFrame]int16
	bufleft  *blip.Buffer
	bufright *blip.Buffer

	prevOutleft  int16
	prevOutright int16

	nsamples   int
	hasPanning bool

	volumes [hwdefs.NumAudioChannels]float64
	panning [hwdefs.NumAudioChannels]float64

	timestamps []uint32
	chanoutput [hwdefs.NumAudioChannels][cycleLength]int16
	curOutput  [hwdefs.NumAudioChannels]int16

	clockRate  uint32
	sampleRate uint32

	dropped int
}

// Dropped returns the cumulative number of samples discarded by overflow
// since the mixer was created; Reset does not clear it.
func (m *Mixer) Dropped() int { return m.dropped }

func NewMixer() *Mixer {
	m := &Mixer{
		bufleft:    blip.NewBuffer(maxSamplesPerFrame),
		bufright:   blip.NewBuffer(maxSamplesPerFrame),
		sampleRate: MaxSampleRate,
	}
	return m
}

func (m *Mixer) Reset() {
	m.nsamples = 0
	m.prevOutleft = 0
	m.prevOutright = 0
	m.bufleft.Clear()
	m.bufright.Clear()
	m.timestamps = m.timestamps[:0]

	for i := range hwdefs.NumAudioChannels {
		m.volumes[i] = 1.0
		m.panning[i] = 0
	}
	clear(m.chanoutput[:])
	clear(m.curOutput[:])

	m.updateRates(true)
}

// DrainAudio flushes pending deltas up to time, resamples, and returns the
// interleaved stereo S16LE samples produced this frame. The returned slice
// aliases the mixer's internal buffer and is only valid until the next call.
func (m *Mixer) DrainAudio(time uint32) []int16 {
	m.EndFrame(time)

	out := m.outbuf[:]
	sampleCount := m.bufleft.ReadSamples(out, maxSamplesPerFrame, blip.Stereo)
	if avail := m.bufleft.SamplesAvailable(); avail > 0 {
		m.dropped += avail
		err := &OverflowError{Dropped: avail}
		log.ModSound.WarnZ(err.Error()).Int("total_dropped", m.dropped).End()
		m.bufleft.Clear()
		if m.hasPanning {
			m.bufright.Clear()
		}
	}

	if m.hasPanning {
		m.bufright.ReadSamples(out[1:], maxSamplesPerFrame, blip.Stereo)
	} else {
		for i := 0; i < sampleCount*2; i += 2 {
			out[i+1] = out[i]
		}
	}

	m.updateRates(false)
	return out[:sampleCount*2]
}

func (m *Mixer) updateRates(forceUpdate bool) {
	if forceUpdate || m.clockRate != ntscClockRate {
		m.clockRate = ntscClockRate
		m.bufleft.SetRates(float64(m.clockRate), float64(m.sampleRate))
		m.bufright.SetRates(float64(m.clockRate), float64(m.sampleRate))
	}

	hasPanning := false
	for i := range hwdefs.NumAudioChannels {
		m.volumes[i] = 0.8
		m.panning[i] = 1.0
		if m.panning[i] != 1.0 {
			if !m.hasPanning {
				m.bufleft.Clear()
				m.bufright.Clear()
			}
			hasPanning = true
		}
	}
	m.hasPanning = hasPanning
}

func (m *Mixer) channelOutput(ch Channel, right bool) float64 {
	if right {
		return float64(m.curOutput[ch]) * m.volumes[ch] * m.panning[ch]
	}
	return float64(m.curOutput[ch]) * m.volumes[ch] * (2.0 - m.panning[ch])
}

func (m *Mixer) outputVolume(isRight bool) int16 {
	squareOutput := m.channelOutput(Square1, isRight) + m.channelOutput(Square2, isRight)
	tndOutput := m.channelOutput(DMC, isRight) +
		2.7516713261*m.channelOutput(Triangle, isRight) +
		1.8493587125*m.channelOutput(Noise, isRight)

	squareVolume := uint16((95.88 * 5000.0) / (8128.0/squareOutput + 100.0))
	tndVolume := uint16((159.79 * 5000.0) / (22638.0/tndOutput + 100.0))

	return int16(squareVolume + tndVolume)
}

func (m *Mixer) addDelta(ch Channel, time uint32, delta int16) {
	if delta != 0 {
		m.timestamps = append(m.timestamps, time)
		m.chanoutput[ch][time] += delta
	}
}

func (m *Mixer) EndFrame(time uint32) {
	slices.Sort(m.timestamps)
	m.timestamps = slices.Compact(m.timestamps)

	for _, stamp := range m.timestamps {
		for j := range hwdefs.NumAudioChannels {
			m.curOutput[j] += m.chanoutput[j][stamp]
		}

		currentOut := m.outputVolume(false) * 4
		m.bufleft.AddDelta(uint64(stamp), int32(currentOut-m.prevOutleft))
		m.prevOutleft = currentOut

		if m.hasPanning {
			currentOut = m.outputVolume(true) * 4
			m.bufright.AddDelta(uint64(stamp), int32(currentOut-m.prevOutright))
			m.prevOutright = currentOut
		}
	}

	m.bufleft.EndFrame(int(time))
	if m.hasPanning {
		m.bufright.EndFrame(int(time))
	}

	m.timestamps = m.timestamps[:0]
	for i := range m.chanoutput {
		clear(m.chanoutput[i][:])
	}
}

func (m *Mixer) State() *snapshot.APUMixer {
	var s snapshot.APUMixer
	s.ClockRate = m.clockRate
	s.SampleRate = m.sampleRate
	s.PreviousOutputLeft = m.prevOutleft
	s.PreviousOutputRight = m.prevOutright
	for i := range hwdefs.NumAudioChannels {
		s.CurrentOutput[i] = m.curOutput[i]
	}
	return &s
}

func (m *Mixer) SetState(s *snapshot.APUMixer) {
	m.clockRate = s.ClockRate
	m.sampleRate = s.SampleRate

	m.Reset()
	m.updateRates(true)

	m.prevOutleft = s.PreviousOutputLeft
	m.prevOutright = s.PreviousOutputRight
	for i := range hwdefs.NumAudioChannels {
		m.curOutput[i] = s.CurrentOutput[i]
	}
}
