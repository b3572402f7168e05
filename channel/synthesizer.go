// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package channel

import (
	"fmt"
	"io"
	"math"

	"github.com/doomvu/engine/internal/dlog"
	"github.com/doomvu/engine/sfont"
	"github.com/doomvu/engine/voice"
	"gitlab.com/gomidi/midi/v2"
)

// NumChannels is the General MIDI channel count a Synthesizer exposes.
const NumChannels = 16

// Synthesizer mixes NumChannels MIDI channels against one or more loaded
// SoundFonts, dispatching MIDI channel-voice messages and rendering the
// result to interleaved stereo float or 16-bit PCM buffers.
type Synthesizer struct {
	channels   [NumChannels]*Channel
	soundFonts []*sfont.SoundFont
	volume     float64

	midiStd        Standard
	defaultMIDIStd Standard
	stdFixed       bool
}

// New constructs a Synthesizer rendering at outputRate (samples/sec),
// with all sixteen GM channels primed and full volume.
func New(outputRate float64) *Synthesizer {
	s := &Synthesizer{volume: 1.0, midiStd: GM, defaultMIDIStd: GM}
	for i := range s.channels {
		s.channels[i] = New(outputRate)
	}
	return s
}

// LoadSoundFont decodes an SF2 file from r and adds its presets to this
// synthesizer's lookup chain.
func (s *Synthesizer) LoadSoundFont(r io.Reader) error {
	sf, err := sfont.Load(r)
	if err != nil {
		return fmt.Errorf("channel: loading soundfont: %w", err)
	}
	s.soundFonts = append(s.soundFonts, sf)
	return nil
}

// SetVolume sets the master output gain; negative values clamp to 0.
func (s *Synthesizer) SetVolume(volume float64) {
	s.volume = math.Max(0.0, volume)
}

// SetMIDIStandard fixes (or just defaults) which bank-select convention
// ProcessChannelMessage's program-change handling uses. When fixed is
// true, incoming SysEx GM/GS/XG reset messages are ignored.
func (s *Synthesizer) SetMIDIStandard(std Standard, fixed bool) {
	s.midiStd = std
	s.defaultMIDIStd = std
	s.stdFixed = fixed
}

var (
	gmSystemOn     = []byte{0xf0, 0x7e, 0, 0x09, 0x01, 0xf7}
	gmSystemOff    = []byte{0xf0, 0x7e, 0, 0x09, 0x02, 0xf7}
	gsReset        = []byte{0xf0, 0x41, 0, 0x42, 0x12, 0x40, 0x00, 0x7f, 0x00, 0x41, 0xf7}
	gsSysModeSet1  = []byte{0xf0, 0x41, 0, 0x42, 0x12, 0x00, 0x00, 0x7f, 0x00, 0x01, 0xf7}
	gsSysModeSet2  = []byte{0xf0, 0x41, 0, 0x42, 0x12, 0x00, 0x00, 0x7f, 0x01, 0x00, 0xf7}
	xgSystemOn     = []byte{0xf0, 0x43, 0, 0x4c, 0x00, 0x00, 0x7e, 0x00, 0xf7}
)

// matchSysEx reports whether data equals want, treating byte index 2 (the
// device ID) as a wildcard — devices are expected to respond regardless
// of which device ID a SysEx message targets.
func matchSysEx(data, want []byte) bool {
	if len(data) != len(want) {
		return false
	}
	for i := range want {
		if i == 2 {
			continue
		}
		if data[i] != want[i] {
			return false
		}
	}
	return true
}

// ProcessSysEx recognizes the GM/GS/XG system-exclusive reset messages
// and switches this synthesizer's bank-select interpretation accordingly.
// A no-op once SetMIDIStandard has fixed the standard.
func (s *Synthesizer) ProcessSysEx(data []byte) {
	if s.stdFixed {
		return
	}
	switch {
	case matchSysEx(data, gmSystemOn):
		s.midiStd = GM
	case matchSysEx(data, gmSystemOff):
		s.midiStd = s.defaultMIDIStd
	case matchSysEx(data, gsReset), matchSysEx(data, gsSysModeSet1), matchSysEx(data, gsSysModeSet2):
		s.midiStd = GS
	case matchSysEx(data, xgSystemOn):
		s.midiStd = XG
	}
}

// FindPreset looks up a bank/program pair across every loaded SoundFont,
// in load order, falling back through the GM bank chain (percussion ->
// GM percussion, any bank -> GM bank 0, any program -> Acoustic Grand
// Piano) the way a General MIDI device is expected to when a bank or
// program goes unmapped.
func (s *Synthesizer) FindPreset(bank, program uint16) (*sfont.SoundFont, *sfont.Preset) {
	for _, sf := range s.soundFonts {
		if p := sf.FindPreset(bank, program); p != nil {
			return sf, p
		}
	}

	switch {
	case bank == sfont.PercussionBank:
		if program != 0 {
			return s.FindPreset(bank, 0)
		}
		dlog.Warnf("channel: no preset for 128:0 (GM percussion)")
		return nil, nil
	case bank != 0:
		return s.FindPreset(0, program)
	case program != 0:
		return s.FindPreset(0, 0)
	default:
		dlog.Warnf("channel: no preset for 0:0 (GM acoustic grand piano)")
		return nil, nil
	}
}

// ProcessChannelMessage dispatches one MIDI channel-voice message (note
// on/off, control change, program change, pressure, pitch bend) to the
// addressed channel (0-15).
func (s *Synthesizer) ProcessChannelMessage(status MessageStatus, chanNum, param1, param2 uint8) {
	if int(chanNum) >= len(s.channels) {
		return
	}
	c := s.channels[chanNum]

	switch status {
	case NoteOff:
		c.NoteOff(param1)
	case NoteOn:
		if !c.HasPreset() {
			bank := uint16(0)
			if chanNum == PercussionChannel {
				bank = sfont.PercussionBank
			}
			if sf, p := s.FindPreset(bank, 0); p != nil {
				c.SetPreset(sf, p)
			}
		}
		c.NoteOn(param1, param2)
	case KeyPressure:
		c.KeyPressure(param1, param2)
	case ControlChange:
		c.ControlChange(param1, param2)
	case ProgramChange:
		msb, lsb := c.Bank()
		var sfBank uint16
		switch s.midiStd {
		case GM:
			sfBank = 0
		case GS:
			sfBank = uint16(msb)
		case XG:
			if msb == 127 {
				sfBank = sfont.PercussionBank
			} else {
				sfBank = uint16(lsb)
			}
		}
		if chanNum == PercussionChannel {
			sfBank = sfont.PercussionBank
		}
		if sf, p := s.FindPreset(sfBank, uint16(param1)); p != nil {
			c.SetPreset(sf, p)
		}
	case ChannelPressure:
		c.ChannelPressure(param1)
	case PitchBend:
		c.PitchBend(joinBytes(param2, param1))
	}
}

// ProcessRawMIDI decodes one raw MIDI message — a live-input byte stream
// rather than cmd/enginecli's already-TrackEvent-decoded Standard MIDI
// File messages — using the same gomidi/midi/v2 Message decoder
// readMIDIEvents uses, and dispatches it exactly as ProcessChannelMessage/
// ProcessSysEx would.
func (s *Synthesizer) ProcessRawMIDI(data []byte) {
	if len(data) > 0 && data[0] == 0xf0 {
		s.ProcessSysEx(data)
		return
	}

	msg := midi.NewMessage(data)
	var ch, p1, p2 uint8
	var bendRel int16
	var bendAbs uint16
	switch {
	case msg.GetNoteOn(&ch, &p1, &p2):
		s.ProcessChannelMessage(NoteOn, ch, p1, p2)
	case msg.GetNoteOff(&ch, &p1, &p2):
		s.ProcessChannelMessage(NoteOff, ch, p1, 0)
	case msg.GetPolyAfterTouch(&ch, &p1, &p2):
		s.ProcessChannelMessage(KeyPressure, ch, p1, p2)
	case msg.GetControlChange(&ch, &p1, &p2):
		s.ProcessChannelMessage(ControlChange, ch, p1, p2)
	case msg.GetProgramChange(&ch, &p1):
		s.ProcessChannelMessage(ProgramChange, ch, p1, 0)
	case msg.GetAfterTouch(&ch, &p1):
		s.ProcessChannelMessage(ChannelPressure, ch, p1, 0)
	case msg.GetPitchBend(&ch, &bendRel, &bendAbs):
		s.ProcessChannelMessage(PitchBend, ch, uint8(bendAbs&0x7f), uint8(bendAbs>>7))
	}
}

// Pause sends All Notes Off to every channel: voices finish their release
// envelope rather than cutting off abruptly.
func (s *Synthesizer) Pause() {
	for _, c := range s.channels {
		c.ControlChange(ccAllNotesOff, 0)
	}
}

// Stop sends All Sound Off to every channel: voices are discarded
// immediately.
func (s *Synthesizer) Stop() {
	for _, c := range s.channels {
		c.ControlChange(ccAllSoundOff, 0)
	}
}

// RenderFloat fills buffer (interleaved stereo, len(buffer) samples —
// an even count) with this synthesizer's mixed output.
func (s *Synthesizer) RenderFloat(buffer []float32) {
	for i := 0; i+1 < len(buffer); i += 2 {
		sum := voice.Stereo{}
		for _, c := range s.channels {
			sum = sum.Add(c.Render())
		}
		sum = sum.Scale(s.volume)
		buffer[i] = float32(sum.Left)
		buffer[i+1] = float32(sum.Right)
	}
}

// RenderS16 fills buffer (interleaved stereo, len(buffer) samples — an
// even count) with this synthesizer's mixed output, clamped to signed
// 16-bit PCM range.
func (s *Synthesizer) RenderS16(buffer []int16) {
	for i := 0; i+1 < len(buffer); i += 2 {
		sum := voice.Stereo{}
		for _, c := range s.channels {
			sum = sum.Add(c.Render())
		}
		sum = sum.Scale(s.volume)
		buffer[i] = clampS16(sum.Left)
		buffer[i+1] = clampS16(sum.Right)
	}
}

func clampS16(v float64) int16 {
	switch {
	case v < -1.00004566:
		return -32768
	case v > 1.00001514:
		return 32767
	default:
		return int16(v * 32767.5)
	}
}
