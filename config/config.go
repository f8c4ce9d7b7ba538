// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the emulator settings from a TOML file.
//
// An example file, with the default values:
//
//	cpu_hz = 700
//	timer_hz = 60
//	frame_hz = 60
//	scale = 10
//	tone_hz = 430
//	volume = 3000
//	sample_rate = 48000
//	verbose = false
//
//	[keys]
//	0 = "X"
//	1 = "1"
//	# ...
//	F = "V"
//
// Keys not listed keep their default host key, unless a listed key took
// that host key. Such keys are left unbound.
//
// Fields missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

const (
	FRAME_HZ = 60 // Default display refresh rate.
	SCALE    = 10 // Default window pixels per display pixel.
)

// Config holds the emulator settings.
type Config struct {
	CpuHz      int               `toml:"cpu_hz"`
	TimerHz    int               `toml:"timer_hz"`
	FrameHz    int               `toml:"frame_hz"`
	Scale      int               `toml:"scale"`
	ToneHz     int               `toml:"tone_hz"`
	Volume     int               `toml:"volume"`
	SampleRate int               `toml:"sample_rate"`
	Verbose    bool              `toml:"verbose"`
	Keys       map[string]string `toml:"keys"` // Keypad digit to host key name.
}

// Default host keys for keypad keys 0x0 - 0xF.
var defaultKeys = []string{
	"X", "1", "2", "3",
	"Q", "W", "E", "A",
	"S", "D", "Z", "C",
	"4", "R", "F", "V",
}

// Default returns the default configuration.
func Default() (cfg *Config) {
	cfg = &Config{
		CpuHz:      emulator.CPU_HZ,
		TimerHz:    emulator.TIMER_HZ,
		FrameHz:    FRAME_HZ,
		Scale:      SCALE,
		ToneHz:     io.DefaultTone.Freq,
		Volume:     io.DefaultTone.Volume,
		SampleRate: io.DefaultTone.SampleRate,
		Keys:       make(map[string]string, io.KEY_COUNT),
	}

	for n, name := range defaultKeys {
		cfg.Keys[fmt.Sprintf("%X", n)] = name
	}

	return
}

// Load reads a configuration file.
func Load(path string) (cfg *Config, err error) {
	return decode(func(cfg *Config) (toml.MetaData, error) {
		return toml.DecodeFile(path, cfg)
	})
}

// Decode reads a configuration from TOML text.
func Decode(text string) (cfg *Config, err error) {
	return decode(func(cfg *Config) (toml.MetaData, error) {
		return toml.Decode(text, cfg)
	})
}

func decode(decoder func(cfg *Config) (toml.MetaData, error)) (cfg *Config, err error) {
	cfg = Default()
	keys := cfg.Keys
	cfg.Keys = nil

	md, err := decoder(cfg)
	if err != nil {
		cfg = nil
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var names ErrUndecoded
		for _, key := range undecoded {
			names = append(names, key.String())
		}
		err = names
		cfg = nil
		return
	}

	// Normalize the keypad digits.
	explicit := make(map[string]string, len(cfg.Keys))
	taken := make(map[string]bool, len(cfg.Keys))
	for digit, name := range cfg.Keys {
		var key uint8
		key, err = parseDigit(digit)
		if err != nil {
			cfg = nil
			return
		}
		explicit[fmt.Sprintf("%X", key)] = name
		taken[strings.ToUpper(strings.TrimSpace(name))] = true
	}

	// Fill in the missing digits. A default whose host key was claimed
	// by an explicit entry is left unbound.
	for digit, name := range keys {
		if _, ok := explicit[digit]; ok {
			continue
		}
		if taken[strings.ToUpper(name)] {
			delete(keys, digit)
		}
	}
	maps.Copy(keys, explicit)
	cfg.Keys = keys

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// parseDigit parses a keypad digit, 0 - F.
func parseDigit(digit string) (key uint8, err error) {
	value, err := strconv.ParseUint(digit, 16, 8)
	if err != nil || value >= io.KEY_COUNT {
		err = errors.Join(ErrKeyInvalid, ErrKey(digit))
		return
	}

	key = uint8(value)
	return
}

// Validate checks the configuration for usable values.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.CpuHz <= 0, cfg.TimerHz <= 0, cfg.FrameHz <= 0:
		err = ErrRateInvalid
		return
	case cfg.Scale <= 0:
		err = ErrScaleInvalid
		return
	}

	err = cfg.Tone().Validate()
	if err != nil {
		return
	}

	_, err = cfg.KeyMap()
	return
}

// Tone returns the buzzer tone settings.
func (cfg *Config) Tone() io.Tone {
	return io.Tone{
		Freq:       cfg.ToneHz,
		Volume:     cfg.Volume,
		SampleRate: cfg.SampleRate,
		TickHz:     cfg.TimerHz,
	}
}

// KeyMap returns the map of upper case host key names to keypad keys.
func (cfg *Config) KeyMap() (keymap map[string]uint8, err error) {
	keymap = make(map[string]uint8, len(cfg.Keys))

	for _, digit := range slices.Sorted(maps.Keys(cfg.Keys)) {
		var key uint8
		key, err = parseDigit(digit)
		if err != nil {
			keymap = nil
			return
		}

		name := strings.ToUpper(strings.TrimSpace(cfg.Keys[digit]))
		if len(name) == 0 {
			keymap = nil
			err = errors.Join(ErrKeyUnassigned, ErrKey(digit))
			return
		}

		if _, ok := keymap[name]; ok {
			keymap = nil
			err = errors.Join(ErrKeyDuplicate, ErrKey(name))
			return
		}

		keymap[name] = key
	}

	return
}
