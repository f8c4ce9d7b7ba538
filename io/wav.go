// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth     = 16
	wavFormatPCM    = 1
	wavChannelsMono = 1
)

// WavRecorder is an Audio that appends every tone it plays to a WAV stream.
// Samples are buffered in memory and written out by Close().
type WavRecorder struct {
	Output io.WriteSeeker

	Tone  Tone
	Tones int // Number of tones played.

	slice  []int
	buffer []int
}

var _ Audio = (*WavRecorder)(nil)

// NewWavRecorder creates a recorder writing to output.
func NewWavRecorder(output io.WriteSeeker, tone Tone) (wr *WavRecorder, err error) {
	err = tone.Validate()
	if err != nil {
		return
	}

	wr = &WavRecorder{
		Output: output,
		Tone:   tone,
	}

	for _, sample := range tone.Samples() {
		wr.slice = append(wr.slice, int(sample))
	}

	return
}

// PlayTone appends one tick of tone.
func (wr *WavRecorder) PlayTone() {
	wr.Tones++
	wr.buffer = append(wr.buffer, wr.slice...)
}

// Close encodes the recorded samples.
func (wr *WavRecorder) Close() (err error) {
	enc := wav.NewEncoder(wr.Output, wr.Tone.SampleRate, wavBitDepth, wavChannelsMono, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: wavChannelsMono,
			SampleRate:  wr.Tone.SampleRate,
		},
		Data:           wr.buffer,
		SourceBitDepth: wavBitDepth,
	}

	err = enc.Write(buf)
	if err != nil {
		return
	}

	return enc.Close()
}

// AudioGroup plays each tone on every member.
type AudioGroup []Audio

var _ Audio = AudioGroup(nil)

func (group AudioGroup) PlayTone() {
	for _, aud := range group {
		aud.PlayTone()
	}
}
