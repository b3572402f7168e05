// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

// LFO is a triangle-wave low frequency oscillator, delayed by an initial
// number of steps and advanced once per CalcInterval, the SF2 vibrato/
// modulation oscillator shape.
type LFO struct {
	outputRate float64
	steps      uint64
	delay      uint64
	delta      float64
	value      float64
	rising     bool
}

// NewLFO creates an LFO rendering at outputRate samples/sec, initially
// silent (value 0) and rising.
func NewLFO(outputRate float64) *LFO {
	return &LFO{outputRate: outputRate, rising: true}
}

// Value reports the LFO's current output in [-1,1].
func (l *LFO) Value() float64 { return l.value }

// SetDelay sets, in SF2 timecents, how long the LFO stays at 0 before
// starting to oscillate.
func (l *LFO) SetDelay(delayTimecents float64) {
	l.delay = uint64(l.outputRate * TimecentToSecond(delayTimecents) / CalcInterval)
}

// SetFrequency sets the LFO's oscillation frequency in SF2 absolute cents.
func (l *LFO) SetFrequency(freqAbsoluteCents float64) {
	l.delta = 4.0 * CalcInterval * AbsoluteCentToHertz(freqAbsoluteCents) / l.outputRate
}

// Update advances the LFO by one CalcInterval step.
func (l *LFO) Update() {
	if l.steps <= l.delay {
		l.steps++
		return
	}
	if l.rising {
		l.value += l.delta
		if l.value > 1.0 {
			l.value = 2.0 - l.value
			l.rising = false
		}
	} else {
		l.value -= l.delta
		if l.value < -1.0 {
			l.value = -2.0 - l.value
			l.rising = true
		}
	}
}
