// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "math"

// ControllerPalette distinguishes an SF2 modulator source's controller
// namespace: a handful of synthesizer-general values (velocity, key
// number, pitch wheel...) versus the 128 standard MIDI CC numbers.
type ControllerPalette int

const (
	PaletteGeneral ControllerPalette = iota
	PaletteMIDI
)

// GeneralController enumerates the SF2 spec's non-MIDI-CC modulator
// sources.
type GeneralController uint8

const (
	ControllerNone                  GeneralController = 0
	ControllerNoteOnVelocity        GeneralController = 2
	ControllerNoteOnKeyNumber       GeneralController = 3
	ControllerPolyPressure          GeneralController = 10
	ControllerChannelPressure       GeneralController = 13
	ControllerPitchWheel            GeneralController = 14
	ControllerPitchWheelSensitivity GeneralController = 16
	ControllerLink                  GeneralController = 127
)

// SourceDirection and SourcePolarity select one of the SF2 spec's four
// unipolar/bipolar, increasing/decreasing controller mapping curves;
// SourceType picks linear, concave, convex, or switch shaping atop that.
type (
	SourceDirection int
	SourcePolarity  int
	SourceType      int
)

const (
	DirectionPositive SourceDirection = iota
	DirectionNegative
)

const (
	PolarityUnipolar SourcePolarity = iota
	PolarityBipolar
)

const (
	SourceLinear SourceType = iota
	SourceConcave
	SourceConvex
	SourceSwitch
)

// Transform is the SF2 spec's modulator output transform: identity or
// absolute value.
type Transform int

const (
	TransformLinear Transform = iota
	TransformAbsoluteValue
)

// ModulatorSource describes one of a ModulatorParam's two controller
// inputs (the primary source and the amount-scaling source).
type ModulatorSource struct {
	Palette   ControllerPalette
	Index     uint8 // GeneralController value, or a MIDI CC number, per Palette.
	Direction SourceDirection
	Polarity  SourcePolarity
	Type      SourceType
}

// ModulatorParam is one SF2 modulator list entry as parsed from a zone:
// source controller, destination generator, amount, amount-scaling
// source, and output transform.
type ModulatorParam struct {
	Src       ModulatorSource
	Dest      Generator
	Amount    int16
	AmtSrc    ModulatorSource
	Transform Transform
}

// Modulator is a live instance of a ModulatorParam bound to a voice: it
// tracks its two controller inputs' current mapped values and recomputes
// its contribution to Dest whenever either changes.
type Modulator struct {
	param        ModulatorParam
	source       float64
	amountSource float64
	value        float64
}

// NewModulator builds a Modulator from a parsed zone parameter, unipolar
// full-scale until the first controller update arrives.
func NewModulator(param ModulatorParam) *Modulator {
	return &Modulator{param: param, source: 0.0, amountSource: 1.0}
}

// Destination reports the generator this modulator perturbs.
func (m *Modulator) Destination() Generator { return m.param.Dest }

// Amount reports the modulator's configured depth.
func (m *Modulator) Amount() int16 { return m.param.Amount }

// CanBeNegative reports whether this modulator might ever reduce the
// destination generator's effective attenuation (i.e. increase volume):
// voice construction uses this to compute a safe worst-case minimum
// attenuation for its dynamic-range cutoff.
func (m *Modulator) CanBeNegative() bool {
	if m.param.Transform == TransformAbsoluteValue || m.param.Amount == 0 {
		return false
	}
	if m.param.Amount > 0 {
		noSrc := m.param.Src.Palette == PaletteGeneral && m.param.Src.Index == uint8(ControllerNone)
		uniSrc := m.param.Src.Polarity == PolarityUnipolar
		noAmt := m.param.AmtSrc.Palette == PaletteGeneral && m.param.AmtSrc.Index == uint8(ControllerNone)
		uniAmt := m.param.AmtSrc.Polarity == PolarityUnipolar
		if (uniSrc && uniAmt) || (uniSrc && noAmt) || (noSrc && uniAmt) || (noSrc && noAmt) {
			return false
		}
	}
	return true
}

// Value reports the modulator's current contribution to its destination
// generator.
func (m *Modulator) Value() float64 { return m.value }

// mapSource converts a raw controller value (0..127, or 0..16383 for the
// pitch wheel) through src's direction/polarity/curve into the SF2 spec's
// normalized modulator range.
func mapSource(value float64, src ModulatorSource) float64 {
	if src.Palette == PaletteGeneral && GeneralController(src.Index) == ControllerPitchWheel {
		value /= 1 << 14
	} else {
		value /= 1 << 7
	}

	if src.Type == SourceSwitch {
		off := 0.0
		if src.Polarity == PolarityBipolar {
			off = -1.0
		}
		x := value
		if src.Direction == DirectionNegative {
			x = 1.0 - value
		}
		if x >= 0.5 {
			return 1.0
		}
		return off
	}

	if src.Polarity == PolarityUnipolar {
		x := value
		if src.Direction == DirectionNegative {
			x = 1.0 - value
		}
		switch src.Type {
		case SourceConcave:
			return Concave(x)
		case SourceConvex:
			return Convex(x)
		default:
			return x
		}
	}

	dir := 1.0
	if src.Direction == DirectionNegative {
		dir = -1.0
	}
	sign := 1.0
	if value <= 0.5 {
		sign = -1.0
	}
	x := 2.0*value - 1.0
	switch src.Type {
	case SourceConcave:
		return sign * dir * Concave(sign*x)
	case SourceConvex:
		return sign * dir * Convex(sign*x)
	default:
		return dir * x
	}
}

// UpdateSFController feeds a synthesizer-general controller change
// (velocity, key number, pitch wheel...) to this modulator, recomputing
// its value if either of its sources reads that controller. Reports
// whether it changed.
func (m *Modulator) UpdateSFController(controller GeneralController, value float64) bool {
	updated := false
	if m.param.Src.Palette == PaletteGeneral && GeneralController(m.param.Src.Index) == controller {
		m.source = mapSource(value, m.param.Src)
		updated = true
	}
	if m.param.AmtSrc.Palette == PaletteGeneral && GeneralController(m.param.AmtSrc.Index) == controller {
		m.amountSource = mapSource(value, m.param.AmtSrc)
		updated = true
	}
	if updated {
		m.recalculate()
	}
	return updated
}

// UpdateMIDIController feeds a MIDI CC change to this modulator. Reports
// whether it changed.
func (m *Modulator) UpdateMIDIController(controller, value uint8) bool {
	updated := false
	if m.param.Src.Palette == PaletteMIDI && m.param.Src.Index == controller {
		m.source = mapSource(float64(value), m.param.Src)
		updated = true
	}
	if m.param.AmtSrc.Palette == PaletteMIDI && m.param.AmtSrc.Index == controller {
		m.amountSource = mapSource(float64(value), m.param.AmtSrc)
		updated = true
	}
	if updated {
		m.recalculate()
	}
	return updated
}

func applyTransform(value float64, t Transform) float64 {
	if t == TransformAbsoluteValue {
		return math.Abs(value)
	}
	return value
}

func (m *Modulator) recalculate() {
	m.value = applyTransform(float64(m.param.Amount)*m.source*m.amountSource, m.param.Transform)
}

// identicalSource reports whether a and b bind the same src/dest/amtSrc/
// transform, SF2's notion of "the same modulator" independent of amount.
func identicalSource(a, b ModulatorParam) bool {
	return a.Src == b.Src && a.Dest == b.Dest && a.AmtSrc == b.AmtSrc && a.Transform == b.Transform
}

// AppendModParam appends param to list unless list already holds an
// identical-source modulator, in which case list is returned unchanged —
// the "append" half of the SF2 zone modulator merge rule (a preset/
// instrument zone's own modulators are never overridden by a default).
func AppendModParam(list []ModulatorParam, param ModulatorParam) []ModulatorParam {
	for _, p := range list {
		if identicalSource(p, param) {
			return list
		}
	}
	return append(list, param)
}

// AddModParam appends param to list, or accumulates its amount into an
// existing identical-source entry — the rule a preset zone's modulators
// use to offset (not replace) an instrument zone's modulators.
func AddModParam(list []ModulatorParam, param ModulatorParam) []ModulatorParam {
	for i, p := range list {
		if identicalSource(p, param) {
			list[i].Amount += param.Amount
			return list
		}
	}
	return append(list, param)
}

// DefaultModulatorParams returns the SF2 spec's ten built-in default
// modulators (section 8.4), merged into every voice's modulator list
// beneath whatever its zones define explicitly.
func DefaultModulatorParams() []ModulatorParam {
	return []ModulatorParam{
		{ // 8.4.1 velocity -> initial attenuation
			Src:    ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNoteOnVelocity), Direction: DirectionNegative, Polarity: PolarityUnipolar, Type: SourceConcave},
			Dest:   GenInitialAttenuation,
			Amount: 960,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.2 velocity -> filter cutoff
			Src:    ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNoteOnVelocity), Direction: DirectionNegative, Polarity: PolarityUnipolar, Type: SourceLinear},
			Dest:   GenInitialFilterFc,
			Amount: -2400,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.3 channel pressure -> vibrato LFO pitch depth
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 13, Direction: DirectionPositive, Polarity: PolarityUnipolar, Type: SourceLinear},
			Dest:   GenVibLfoToPitch,
			Amount: 50,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.4 CC1 (modulation wheel) -> vibrato LFO pitch depth
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 1, Direction: DirectionPositive, Polarity: PolarityUnipolar, Type: SourceLinear},
			Dest:   GenVibLfoToPitch,
			Amount: 50,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.5 CC7 (volume) -> initial attenuation
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 7, Direction: DirectionNegative, Polarity: PolarityUnipolar, Type: SourceConcave},
			Dest:   GenInitialAttenuation,
			Amount: 960,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.6 CC10 (pan) -> pan position
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 10, Direction: DirectionPositive, Polarity: PolarityBipolar, Type: SourceLinear},
			Dest:   GenPan,
			Amount: 500,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.7 CC11 (expression) -> initial attenuation
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 11, Direction: DirectionNegative, Polarity: PolarityUnipolar, Type: SourceConcave},
			Dest:   GenInitialAttenuation,
			Amount: 960,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.8 CC91 (reverb send) -> reverb effects send
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 91, Direction: DirectionPositive, Polarity: PolarityUnipolar, Type: SourceLinear},
			Dest:   GenReverbEffectsSend,
			Amount: 200,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.9 CC93 (chorus send) -> chorus effects send
			Src:    ModulatorSource{Palette: PaletteMIDI, Index: 93, Direction: DirectionPositive, Polarity: PolarityUnipolar, Type: SourceLinear},
			Dest:   GenChorusEffectsSend,
			Amount: 200,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerNone)},
		},
		{ // 8.4.10 pitch wheel (scaled by pitch wheel sensitivity) -> pitch
			Src:    ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerPitchWheel), Direction: DirectionPositive, Polarity: PolarityBipolar, Type: SourceLinear},
			Dest:   GenPitch,
			Amount: 12700,
			AmtSrc: ModulatorSource{Palette: PaletteGeneral, Index: uint8(ControllerPitchWheelSensitivity), Direction: DirectionPositive, Polarity: PolarityUnipolar, Type: SourceLinear},
		},
	}
}
