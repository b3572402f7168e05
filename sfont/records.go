// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package sfont loads SoundFont 2 (SF2) files: a RIFF container holding
// raw PCM sample data plus a preset/instrument/sample zone hierarchy that
// package voice's generators and modulators are assembled from.
package sfont

import "github.com/doomvu/engine/voice"

// rawModulator is an SF2 binary modulator source field, a bit-packed
// uint16: bits 0-6 the controller index, bit 7 the palette, bit 8 the
// direction, bit 9 the polarity, bits 10-15 the curve type.
type rawModulator uint16

func (r rawModulator) decode() voice.ModulatorSource {
	return voice.ModulatorSource{
		Index:     uint8(r & 0x7f),
		Palette:   voice.ControllerPalette((r >> 7) & 0x1),
		Direction: voice.SourceDirection((r >> 8) & 0x1),
		Polarity:  voice.SourcePolarity((r >> 9) & 0x1),
		Type:      voice.SourceType((r >> 10) & 0x3f),
	}
}

// sfPresetHeader mirrors the SF2 spec's phdr record layout exactly, read
// via encoding/binary.Read.
type sfPresetHeader struct {
	PresetName   [20]byte
	Preset       uint16
	Bank         uint16
	PresetBagNdx uint16
	Library      uint32
	Genre        uint32
	Morphology   uint32
}

// sfBag mirrors pbag/ibag.
type sfBag struct {
	GenNdx uint16
	ModNdx uint16
}

// sfModList mirrors pmod/imod.
type sfModList struct {
	ModSrcOper    rawModulator
	ModDestOper   uint16
	ModAmount     int16
	ModAmtSrcOper rawModulator
	ModTransOper  uint16
}

// sfGenList mirrors pgen/igen.
type sfGenList struct {
	GenOper   uint16
	GenAmount uint16
}

// sfInst mirrors the inst record.
type sfInst struct {
	InstName   [20]byte
	InstBagNdx uint16
}

// sfSample mirrors the shdr record.
type sfSample struct {
	SampleName  [20]byte
	Start       uint32
	End         uint32
	StartLoop   uint32
	EndLoop     uint32
	SampleRate  uint32
	OriginalKey int8
	Correction  int8
	SampleLink  uint16
	SampleType  uint16
}

func cstring(b [20]byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
