// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package channel drives the per-channel and per-synthesizer MIDI state
// machine: sixteen Channels each tracking controllers, RPNs, and the live
// voice pool a preset's zones spawn, plus a Synthesizer tying channels to
// loaded SoundFonts and mixing their output to a single render buffer.
package channel

// PercussionChannel is the MIDI channel (0-indexed) General MIDI reserves
// for percussion.
const PercussionChannel = 9

// NumControllers is the width of the MIDI continuous-controller address
// space (CC 0-127).
const NumControllers = 128

// MaxKey is the highest representable MIDI note number.
const MaxKey = 127

// Standard selects how a bank-select/program-change pair maps to a
// SoundFont preset: plain GM ignores bank select, GS reads the MSB, XG
// reads the LSB (or routes to percussion when MSB signals a drum kit).
type Standard int

const (
	GM Standard = iota
	GS
	XG
)

// MessageStatus is a MIDI channel voice message's high nibble.
type MessageStatus uint8

const (
	NoteOff         MessageStatus = 0x80
	NoteOn          MessageStatus = 0x90
	KeyPressure     MessageStatus = 0xa0
	ControlChange   MessageStatus = 0xb0
	ProgramChange   MessageStatus = 0xc0
	ChannelPressure MessageStatus = 0xd0
	PitchBend       MessageStatus = 0xe0
)

// Control change numbers this package interprets directly rather than
// forwarding as an opaque modulator controller.
const (
	ccBankSelectMSB       = 0
	ccDataEntryMSB        = 6
	ccVolume              = 7
	ccPan                 = 10
	ccExpression          = 11
	ccBankSelectLSB       = 32
	ccDataEntryLSB        = 38
	ccSustain             = 64
	ccDataIncrement       = 96
	ccDataDecrement       = 97
	ccNRPNLSB             = 98
	ccNRPNMSB             = 99
	ccRPNLSB              = 100
	ccRPNMSB              = 101
	ccAllSoundOff         = 120
	ccResetAllControllers = 121
	ccAllNotesOff         = 123
)

// rpn indexes the General MIDI registered parameters this package tracks.
type rpn uint16

const (
	rpnPitchBendSensitivity rpn = 0
	rpnFineTuning           rpn = 1
	rpnCoarseTuning         rpn = 2
	rpnCount                rpn = 3
	rpnNone                 rpn = 0x3fff // RPN/NRPN null, selected MSB=LSB=127.
)

// joinBytes combines a 7-bit MSB/LSB pair into a 14-bit value, the
// encoding RPN data entry and pitch bend both use.
func joinBytes(msb, lsb uint8) uint16 {
	return uint16(msb)<<7 + uint16(lsb)
}
