// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

// Tone describes the buzzer square wave.
type Tone struct {
	Freq       int // Tone frequency, in Hz.
	Volume     int // Peak amplitude of the signed 16-bit samples.
	SampleRate int // Samples per second.
	TickHz     int // Timer rate; one PlayTone() lasts 1/TickHz seconds.
}

// DefaultTone is a 430Hz square wave, one 60Hz tick long, sampled at 48kHz.
var DefaultTone = Tone{
	Freq:       430,
	Volume:     3000,
	SampleRate: 48000,
	TickHz:     60,
}

// Validate checks that all the tone parameters are usable.
func (tone Tone) Validate() (err error) {
	switch {
	case tone.Freq <= 0, tone.SampleRate <= 0, tone.TickHz <= 0:
		err = ErrToneInvalid
	case tone.Volume < 0 || tone.Volume > 0x7fff:
		err = ErrToneInvalid
	case tone.Freq*2 > tone.SampleRate:
		err = ErrToneInvalid
	}

	return
}

// Samples returns one tick of the square wave.
func (tone Tone) Samples() (samples []int16) {
	if tone.Validate() != nil {
		return
	}

	count := tone.SampleRate / tone.TickHz
	half := tone.SampleRate / tone.Freq / 2

	samples = make([]int16, count)
	for n := range samples {
		if (n/half)%2 == 1 {
			samples[n] = int16(tone.Volume)
		} else {
			samples[n] = -int16(tone.Volume)
		}
	}

	return
}
