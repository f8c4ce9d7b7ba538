// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"time"
)

// SystemClock is the host wall clock.
type SystemClock struct{}

var _ Clock = SystemClock{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// ManualClock only moves when told to. Sleeping advances it.
type ManualClock struct {
	now time.Time
}

var _ Clock = (*ManualClock)(nil)

// Now returns the current simulated time.
func (mc *ManualClock) Now() time.Time {
	return mc.now
}

// Sleep advances the simulated time by d.
func (mc *ManualClock) Sleep(d time.Duration) {
	mc.Advance(d)
}

// Advance moves the simulated time forward.
func (mc *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		mc.now = mc.now.Add(d)
	}
}
