// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "testing"

func TestFixedPointIntegerConstruction(t *testing.T) {
	f := NewFixedPointInt(42)
	if f.IntegerPart() != 42 {
		t.Fatalf("expected integer part 42, got %v", f.IntegerPart())
	}
	if f.FractionalPart() != 0 {
		t.Fatalf("expected fractional part 0, got %v", f.FractionalPart())
	}
}

func TestFixedPointFractionalConstruction(t *testing.T) {
	f := NewFixedPoint(3.5)
	if f.IntegerPart() != 3 {
		t.Fatalf("expected integer part 3, got %v", f.IntegerPart())
	}
	if diff := f.FractionalPart() - 0.5; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected fractional part near 0.5, got %v", f.FractionalPart())
	}
}

func TestFixedPointAddAndSub(t *testing.T) {
	a := NewFixedPoint(1.25)
	b := NewFixedPoint(0.25)
	sum := a.Add(b)
	if sum.IntegerPart() != 1 {
		t.Fatalf("expected sum integer part 1, got %v", sum.IntegerPart())
	}
	if diff := sum.FractionalPart() - 0.5; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected sum fractional part near 0.5, got %v", sum.FractionalPart())
	}

	back := sum.Sub(b)
	if back.IntegerPart() != a.IntegerPart() || back.FractionalPart() != a.FractionalPart() {
		t.Fatalf("expected sub to undo add, got int=%v frac=%v", back.IntegerPart(), back.FractionalPart())
	}
}
