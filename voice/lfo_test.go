// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "testing"

func TestLFOStaysZeroDuringDelay(t *testing.T) {
	l := NewLFO(1000)
	l.SetDelay(1200) // 2 seconds in timecents (2^(1200/1200)).
	l.SetFrequency(6000)

	for i := 0; i < 10; i++ {
		l.Update()
		if l.Value() != 0 {
			t.Fatalf("expected LFO to stay at 0 during its delay, got %v at step %d", l.Value(), i)
		}
	}
}

func TestLFOOscillatesAfterDelay(t *testing.T) {
	l := NewLFO(1000)
	l.SetDelay(-12000) // SF2's "effectively no delay" timecent value.
	l.SetFrequency(-8000)

	sawPositive, sawNegative := false, false
	for i := 0; i < 20000; i++ {
		l.Update()
		if l.Value() > 0.5 {
			sawPositive = true
		}
		if l.Value() < -0.5 {
			sawNegative = true
		}
		if v := l.Value(); v < -1.0001 || v > 1.0001 {
			t.Fatalf("expected LFO value to stay within [-1,1], got %v", v)
		}
	}
	if !sawPositive || !sawNegative {
		t.Fatalf("expected LFO to swing through both polarities, positive=%v negative=%v", sawPositive, sawNegative)
	}
}
