// Package sdlaudio streams the SCSP's mixed stereo output through an
// SDL2 audio queue, for the "--audio" headless playback mode.
package sdlaudio

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// Sink is a ring-buffered SDL audio output device. It satisfies the shape
// the SCSP's OutputSample callback expects: a func(left, right int16).
type Sink struct {
	deviceID sdl.AudioDeviceID
	buf      []int16
}

// Open initializes SDL's audio subsystem and queues a 44.1 kHz stereo
// device, matching the SCSP's fixed sample rate.
func Open() (*Sink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdlaudio: init: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	obtained := &sdl.AudioSpec{}

	deviceID, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("sdlaudio: open device: %w", err)
	}

	sdl.PauseAudioDevice(deviceID, false)
	return &Sink{deviceID: deviceID, buf: make([]int16, 0, 2048)}, nil
}

// Push queues one interleaved stereo sample. It's wired directly as the
// SCSP Block's OutputSample callback.
func (s *Sink) Push(left, right int16) {
	s.buf = append(s.buf, left, right)
	if len(s.buf) >= 1024 {
		s.flush()
	}
}

func (s *Sink) flush() {
	if len(s.buf) == 0 {
		return
	}
	bytes := (*[1 << 30]byte)(unsafe.Pointer(&s.buf[0]))[: len(s.buf)*2 : len(s.buf)*2]
	sdl.QueueAudio(s.deviceID, bytes)
	s.buf = s.buf[:0]
}

// Close flushes any buffered samples and releases the device.
func (s *Sink) Close() {
	s.flush()
	sdl.CloseAudioDevice(s.deviceID)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
}
