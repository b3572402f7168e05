// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package voice implements per-note sample playback: envelopes, LFOs, a
// modulator graph, and fixed-point resampling, rendered at a recompute
// cadence of CalcInterval samples — the synthesizer half of the engine,
// grounded on the SF2 rendering model rather than anything in the 3D/BSP
// side of the codebase.
package voice

import "math"

// CalcInterval is the number of output samples between recomputing a
// voice's modulated parameters (pitch, volume, filter cutoff): the SF2
// player convention of updating control-rate parameters far less often
// than the audio-rate sample stream itself.
const CalcInterval = 64

var attenToAmpTable [1441]float64
var centToHertzTable [1200]float64

func init() {
	for i := range attenToAmpTable {
		// -200 instead of -100 keeps headroom consistent with the SF2
		// spec's centibel attenuation convention.
		attenToAmpTable[i] = math.Pow(10.0, float64(i)/-200.0)
	}
	for i := range centToHertzTable {
		centToHertzTable[i] = 6.875 * math.Exp2(float64(i)/1200.0)
	}
}

// AttenuationToAmplitude converts a centibel attenuation value to a
// normalized linear amplitude in [0,1].
func AttenuationToAmplitude(atten float64) float64 {
	switch {
	case atten <= 0:
		return 1
	case atten >= float64(len(attenToAmpTable)):
		return 0
	default:
		return attenToAmpTable[int(atten)]
	}
}

// AmplitudeToAttenuation is AttenuationToAmplitude's inverse.
func AmplitudeToAttenuation(amp float64) float64 {
	return -200.0 * math.Log10(amp)
}

// KeyToHertz converts a MIDI key number (float for fractional tuning) to
// a fundamental frequency using the table-driven octave-folding approach
// the SF2 spec's sample pitch conversion uses.
func KeyToHertz(key float64) float64 {
	if key < 0 {
		return 1
	}
	offset := 300
	ratio := 1.0
	for threshold := 900; threshold <= 14100; threshold += 1200 {
		if key*100 < float64(threshold) {
			idx := int(key*100) + offset
			return ratio * centToHertzTable[idx]
		}
		offset -= 1200
		ratio *= 2
	}
	return 1
}

// TimecentToSecond converts an SF2 timecent value to seconds.
func TimecentToSecond(tc float64) float64 { return math.Exp2(tc / 1200.0) }

// AbsoluteCentToHertz converts an SF2 absolute-cent pitch value to hertz.
func AbsoluteCentToHertz(ac float64) float64 { return 8.176 * math.Exp2(ac/1200.0) }

// Concave and Convex implement the SF2 spec's concave/convex controller
// curve shapes used by modulators (e.g. velocity-to-attenuation).
func Concave(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	default:
		return 2.0 * AmplitudeToAttenuation(1.0-x) / 960.0
	}
}

func Convex(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	default:
		return 1.0 - 2.0*AmplitudeToAttenuation(x)/960.0
	}
}
