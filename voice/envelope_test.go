// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "testing"

// newTestEnvelope builds an Envelope whose phaseSeconds() equals its
// phase step count exactly, so phase durations below can be read as
// plain step counts instead of computed seconds.
func newTestEnvelope() *Envelope { return NewEnvelope(CalcInterval) }

func TestEnvelopeAttackRisesToOne(t *testing.T) {
	e := newTestEnvelope()
	e.SetParameter(Delay, 0)
	e.SetParameter(Attack, 2)
	e.SetParameter(Hold, 0)
	e.SetParameter(Decay, 0)
	e.SetParameter(Sustain, 0.3)
	e.SetParameter(Release, 2)

	for i := 0; i < 10 && e.Phase() != Hold; i++ {
		e.Update()
	}
	if e.Phase() != Hold {
		t.Fatalf("expected envelope to reach Hold after attack elapses, phase=%v", e.Phase())
	}
	if e.Value() < 0.99 {
		t.Fatalf("expected envelope value near 1 at end of attack, got %v", e.Value())
	}
}

func TestEnvelopeReleaseDecaysToZero(t *testing.T) {
	e := newTestEnvelope()
	e.SetParameter(Delay, 0)
	e.SetParameter(Attack, 0)
	e.SetParameter(Hold, 0)
	e.SetParameter(Decay, 0)
	e.SetParameter(Sustain, 0.5)
	e.SetParameter(Release, 2)

	for i := 0; i < 5; i++ {
		e.Update()
	}
	if e.Phase() != Sustain {
		t.Fatalf("expected envelope to settle in Sustain, phase=%v", e.Phase())
	}

	e.Release()
	if e.Phase() != Release {
		t.Fatalf("expected Release() to switch phase to Release, got %v", e.Phase())
	}

	for i := 0; i < 10 && e.Phase() != Finished; i++ {
		e.Update()
	}
	if e.Phase() != Finished {
		t.Fatalf("expected envelope to finish after release elapses, phase=%v", e.Phase())
	}
	if e.Value() != 0 {
		t.Fatalf("expected finished envelope value 0, got %v", e.Value())
	}
}

func TestEnvelopeZeroDecayJumpsToSustain(t *testing.T) {
	e := newTestEnvelope()
	e.SetParameter(Delay, 0)
	e.SetParameter(Attack, 0)
	e.SetParameter(Hold, 0)
	e.SetParameter(Decay, 0)
	e.SetParameter(Sustain, 0.7)

	// Each Update leaves at most one finished phase, so the zero-length
	// Delay, Attack, Hold and Decay take one Update each.
	for i := 0; i < 4; i++ {
		e.Update()
	}
	if e.Phase() != Sustain {
		t.Fatalf("expected zero-length decay to jump straight to Sustain, got %v", e.Phase())
	}
	if e.Value() != 0.7 {
		t.Fatalf("expected sustain value 0.7, got %v", e.Value())
	}
}
