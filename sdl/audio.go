// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sdl

import (
	"encoding/binary"
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ezrec/chip8/io"
)

// QUEUE_LIMIT is the number of tones that may be queued before more are dropped.
const QUEUE_LIMIT = 4

// Audio plays tones on the default SDL audio device.
type Audio struct {
	Verbose bool    // If set, logs queueing failures.
	Tone    io.Tone // Tone parameters.

	id     sdl.AudioDeviceID
	buffer []uint8
}

var _ io.Audio = (*Audio)(nil)

// pcm converts samples to signed 16-bit little endian PCM.
func pcm(samples []int16) (buffer []uint8) {
	buffer = make([]uint8, 0, len(samples)*2)
	for _, sample := range samples {
		buffer = binary.LittleEndian.AppendUint16(buffer, uint16(sample))
	}

	return
}

// NewAudio opens the default audio device for the tone.
func NewAudio(tone io.Tone) (aud *Audio, err error) {
	err = tone.Validate()
	if err != nil {
		return
	}

	aud = &Audio{
		Tone:   tone,
		buffer: pcm(tone.Samples()),
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(tone.SampleRate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(len(aud.buffer) / 2),
	}

	var actualSpec sdl.AudioSpec
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		aud = nil
		err = &ErrSdl{Op: "audio", Err: err}
		return
	}

	sdl.PauseAudioDevice(aud.id, false)

	return
}

// PlayTone queues one tick of tone.
func (aud *Audio) PlayTone() {
	if sdl.GetQueuedAudioSize(aud.id) > uint32(len(aud.buffer)*QUEUE_LIMIT) {
		return
	}

	err := sdl.QueueAudio(aud.id, aud.buffer)
	if err != nil && aud.Verbose {
		log.Printf("sdl: audio: %v", err)
	}
}

// Close the audio device.
func (aud *Audio) Close() (err error) {
	sdl.CloseAudioDevice(aud.id)

	return
}
