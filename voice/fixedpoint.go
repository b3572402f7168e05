// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

// FixedPoint is a 64-bit fixed-point sample index: the high 32 bits hold
// the integer sample position, the low 32 bits the fractional position
// used for linear interpolation between adjacent samples.
type FixedPoint struct {
	raw uint64
}

// NewFixedPointInt builds a FixedPoint at an exact integer sample index.
func NewFixedPointInt(integer uint32) FixedPoint {
	return FixedPoint{raw: uint64(integer) << 32}
}

// NewFixedPoint builds a FixedPoint from a fractional sample index, such
// as a per-tick pitch-derived playback delta.
func NewFixedPoint(value float64) FixedPoint {
	intPart := uint64(value)
	frac := value - float64(uint32(value))
	return FixedPoint{raw: (intPart << 32) | uint64(uint32(frac*4294967296.0))}
}

// IntegerPart returns the sample index to read.
func (f FixedPoint) IntegerPart() uint32 { return uint32(f.raw >> 32) }

// FractionalPart returns the interpolation weight toward the next sample.
func (f FixedPoint) FractionalPart() float64 {
	return float64(uint32(f.raw)) / 4294967296.0
}

// Add advances f by delta, the per-CalcInterval pitch-driven step.
func (f FixedPoint) Add(delta FixedPoint) FixedPoint { return FixedPoint{raw: f.raw + delta.raw} }

// Sub rewinds f by delta, used to wrap a looped sample back to its loop start.
func (f FixedPoint) Sub(delta FixedPoint) FixedPoint { return FixedPoint{raw: f.raw - delta.raw} }
