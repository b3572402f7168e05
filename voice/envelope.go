// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

// EnvelopePhase enumerates an Envelope's progress through the
// DAHDSR (Delay-Attack-Hold-Decay-Sustain-Release) cycle.
type EnvelopePhase int

const (
	Delay EnvelopePhase = iota
	Attack
	Hold
	Decay
	Sustain
	Release
	Finished
)

// Envelope advances a DAHDSR curve one CalcInterval-sized step at a time.
// Delay/Hold hold the output flat; Attack rises linearly to 1; Decay and
// Release fall linearly toward Sustain and 0 respectively.
type Envelope struct {
	outputRate   float64
	params       [Release + 1]float64 // seconds (Delay/Attack/Hold/Decay/Release) or level (Sustain, 0..1).
	phase        EnvelopePhase
	phaseSteps   uint64
	value        float64
	releaseStart float64 // value captured at the instant Release began.
}

// NewEnvelope creates an envelope rendering at outputRate samples/sec.
func NewEnvelope(outputRate float64) *Envelope {
	return &Envelope{outputRate: outputRate, phase: Delay}
}

// SetParameter sets phase's duration in seconds (Sustain is instead a
// level in [0,1]).
func (e *Envelope) SetParameter(phase EnvelopePhase, param float64) {
	e.params[phase] = param
}

// Phase reports the envelope's current DAHDSR phase.
func (e *Envelope) Phase() EnvelopePhase { return e.phase }

// Value reports the envelope's current output level.
func (e *Envelope) Value() float64 { return e.value }

// Release transitions the envelope directly into its Release phase,
// regardless of where it currently is — triggered by a MIDI note-off.
func (e *Envelope) Release() {
	e.releaseStart = e.value
	e.changePhase(Release)
}

func (e *Envelope) changePhase(phase EnvelopePhase) {
	e.phase = phase
	e.phaseSteps = 0
}

// phaseSeconds converts a phase's elapsed step count to seconds.
func (e *Envelope) phaseSeconds() float64 {
	return float64(e.phaseSteps) * CalcInterval / e.outputRate
}

// Update advances the envelope by one CalcInterval step.
func (e *Envelope) Update() {
	switch e.phase {
	case Delay:
		e.value = 0
		if e.phaseSeconds() >= e.params[Delay] {
			e.changePhase(Attack)
		}
	case Attack:
		attackTime := e.params[Attack]
		if attackTime <= 0 {
			e.value = 1
			e.changePhase(Hold)
			break
		}
		e.value = e.phaseSeconds() / attackTime
		if e.value >= 1 {
			e.value = 1
			e.changePhase(Hold)
		}
	case Hold:
		e.value = 1
		if e.phaseSeconds() >= e.params[Hold] {
			e.changePhase(Decay)
		}
	case Decay:
		decayTime := e.params[Decay]
		sustain := e.params[Sustain]
		if decayTime <= 0 {
			e.value = sustain
			e.changePhase(Sustain)
			break
		}
		frac := e.phaseSeconds() / decayTime
		if frac >= 1 {
			e.value = sustain
			e.changePhase(Sustain)
			break
		}
		e.value = 1 - frac*(1-sustain)
	case Sustain:
		e.value = e.params[Sustain]
	case Release:
		releaseTime := e.params[Release]
		if releaseTime <= 0 {
			e.value = 0
			e.changePhase(Finished)
			break
		}
		frac := e.phaseSeconds() / releaseTime
		if frac >= 1 {
			e.value = 0
			e.changePhase(Finished)
			break
		}
		e.value = e.releaseStart * (1 - frac)
	case Finished:
		e.value = 0
	}
	e.phaseSteps++
}
