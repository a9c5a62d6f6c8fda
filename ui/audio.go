package ui

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"nestor/hw/apu"
	"nestor/log"
)

// AudioOut queues a console frame's resampled PCM to an SDL audio device,
// grounded on the teacher's hw/audio.go AudioMixer.PlayAudioBuffer: open one
// S16LSB stereo device at the mixer's own sample rate and sdl.QueueAudio
// each frame's samples rather than pushing through a callback.
type AudioOut struct {
	dev sdl.AudioDeviceID
}

// OpenAudioOut opens the default SDL audio output device at apu.MaxSampleRate.
func OpenAudioOut() (*AudioOut, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("ui: sdl audio init: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     int32(apu.MaxSampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  4096,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("ui: open audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)
	return &AudioOut{dev: dev}, nil
}

// Queue pushes one frame's interleaved stereo PCM (as returned by
// console.Console.StepFrame) to the device.
func (a *AudioOut) Queue(pcm []int16) {
	if len(pcm) == 0 {
		return
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&pcm[0])), len(pcm)*2)
	if err := sdl.QueueAudio(a.dev, buf); err != nil {
		log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
	}
}

// Close stops and releases the audio device.
func (a *AudioOut) Close() {
	sdl.CloseAudioDevice(a.dev)
}
