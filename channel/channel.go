// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package channel

import (
	"sync"

	"github.com/doomvu/engine/sfont"
	"github.com/doomvu/engine/voice"
)

type dataEntryMode int

const (
	modeRPN dataEntryMode = iota
	modeNRPN
)

// Channel is one of a Synthesizer's sixteen MIDI channels: the live
// controller state a General MIDI device exposes, the preset currently
// assigned to it, and the pool of Voices its note-on messages have
// spawned.
type Channel struct {
	outputRate float64

	mu sync.Mutex

	preset          *sfont.Preset
	soundFont       *sfont.SoundFont
	controllers     [NumControllers]uint8
	rpns            [rpnCount]uint16
	keyPressures    [MaxKey + 1]uint8
	channelPressure uint8
	pitchBend       uint16
	dataEntryMode   dataEntryMode
	pitchBendSens   float64
	fineTuning      float64
	coarseTuning    float64
	voices          []*voice.Voice
	currentNoteID   uint64
}

// New constructs a Channel rendering at outputRate, with the GM-mandated
// controller defaults (full volume, centered pan, full expression, null
// RPN selected).
func New(outputRate float64) *Channel {
	c := &Channel{outputRate: outputRate, pitchBend: 1 << 13, pitchBendSens: 2.0}
	c.controllers[ccVolume] = 100
	c.controllers[ccPan] = 64
	c.controllers[ccExpression] = 127
	c.controllers[ccRPNLSB] = 127
	c.controllers[ccRPNMSB] = 127
	return c
}

// Bank reports the bank-select MSB/LSB this channel currently has set.
func (c *Channel) Bank() (msb, lsb uint8) {
	return c.controllers[ccBankSelectMSB], c.controllers[ccBankSelectLSB]
}

// HasPreset reports whether a preset has been assigned to this channel.
func (c *Channel) HasPreset() bool { return c.preset != nil }

// SetPreset assigns the preset (and its owning SoundFont, for sample
// lookup) this channel's note-on messages will spawn voices from.
func (c *Channel) SetPreset(sf *sfont.SoundFont, preset *sfont.Preset) {
	c.soundFont = sf
	c.preset = preset
}

// NoteOff releases every live voice currently sounding key, honoring the
// sustain pedal.
func (c *Channel) NoteOff(key uint8) {
	sustained := c.controllers[ccSustain] >= 64

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.voices {
		if v.ActualKey() == key {
			v.Release(sustained)
		}
	}
}

// NoteOn spawns one voice per (preset zone, instrument zone) pair whose
// key/velocity ranges cover key/velocity, per the SF2 zone hierarchy. A
// zero velocity is a note-off in disguise, per the MIDI spec.
func (c *Channel) NoteOn(key, velocity uint8) {
	if velocity == 0 {
		c.NoteOff(key)
		return
	}
	if c.preset == nil || c.soundFont == nil {
		return
	}

	for _, presetZone := range c.preset.Zones {
		if !presetZone.InRange(int8(key), int8(velocity)) {
			continue
		}
		instID := int(presetZone.Generators.GetOrDefault(voice.GenInstrument))
		if instID < 0 || instID >= len(c.soundFont.Instruments) {
			continue
		}
		inst := c.soundFont.Instruments[instID]
		for _, instZone := range inst.Zones {
			if !instZone.InRange(int8(key), int8(velocity)) {
				continue
			}
			sampleID := int(instZone.Generators.GetOrDefault(voice.GenSampleID))
			if sampleID < 0 || sampleID >= len(c.soundFont.Samples) {
				continue
			}
			sample := c.soundFont.Samples[sampleID]

			generators := instZone.Generators.Add(presetZone.Generators)

			modparams := append([]voice.ModulatorParam{}, instZone.Modulators...)
			for _, p := range presetZone.Modulators {
				modparams = voice.AddModParam(modparams, p)
			}
			for _, p := range voice.DefaultModulatorParams() {
				modparams = voice.AppendModParam(modparams, p)
			}

			v := voice.NewVoice(c.currentNoteID, c.outputRate, sample, generators, modparams, key, velocity)
			v.SetPercussion(c.preset.Bank == sfont.PercussionBank)
			c.addVoice(v)
		}
	}
	c.currentNoteID++
}

// KeyPressure applies polyphonic aftertouch to every voice sounding key.
func (c *Channel) KeyPressure(key, value uint8) {
	c.keyPressures[key] = value

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.voices {
		if v.ActualKey() == key {
			v.UpdateSFController(voice.ControllerPolyPressure, float64(value))
		}
	}
}

// ControlChange applies a MIDI continuous controller change: the handful
// CCs the SF2 spec and GM reserve (sustain, RPN/NRPN data entry, all-
// sound/notes-off, reset-all-controllers) are interpreted directly;
// everything else is forwarded to every live voice's modulator graph.
func (c *Channel) ControlChange(controller, value uint8) {
	c.controllers[controller] = value

	c.mu.Lock()
	defer c.mu.Unlock()
	switch controller {
	case ccDataEntryMSB, ccDataEntryLSB:
		if c.dataEntryMode == modeRPN {
			if r := c.selectedRPN(); r < uint16(rpnCount) {
				data := joinBytes(c.controllers[ccDataEntryMSB], c.controllers[ccDataEntryLSB])
				c.rpns[r] = data
				c.updateRPN()
			}
		}
	case ccSustain:
		if value < 64 {
			for _, v := range c.voices {
				if v.Status() == voice.Sustained {
					v.Release(false)
				}
			}
		}
	case ccDataIncrement:
		if c.dataEntryMode == modeRPN {
			if r := c.selectedRPN(); r < uint16(rpnCount) && c.rpns[r]>>7 < 127 {
				c.rpns[r] += 1 << 7
				c.updateRPN()
			}
		}
	case ccDataDecrement:
		if c.dataEntryMode == modeRPN {
			if r := c.selectedRPN(); r < uint16(rpnCount) && c.rpns[r]>>7 > 0 {
				c.rpns[r] -= 1 << 7
				c.updateRPN()
			}
		}
	case ccNRPNMSB, ccNRPNLSB:
		c.dataEntryMode = modeNRPN
	case ccRPNMSB, ccRPNLSB:
		c.dataEntryMode = modeRPN
	case ccAllSoundOff:
		c.voices = nil
	case ccResetAllControllers:
		c.resetAllControllers()
	case ccAllNotesOff:
		sustained := c.controllers[ccSustain] >= 64
		for _, v := range c.voices {
			v.Release(sustained)
		}
	default:
		for _, v := range c.voices {
			v.UpdateMIDIController(controller, value)
		}
	}
}

// resetAllControllers implements General MIDI's "Reset All Controllers"
// response: key/channel pressure and pitch bend return to their rest
// values, and every CC outside the reserved 70-79/91-95 effects-depth
// band and a handful of persistent controllers resets (127 for
// expression/RPN select, 0 for everything else).
func (c *Channel) resetAllControllers() {
	c.keyPressures = [MaxKey + 1]uint8{}
	c.channelPressure = 0
	c.pitchBend = 1 << 13
	for _, v := range c.voices {
		v.UpdateSFController(voice.ControllerChannelPressure, float64(c.channelPressure))
		v.UpdateSFController(voice.ControllerPitchWheel, float64(c.pitchBend))
	}
	for i := uint8(1); i < 122; i++ {
		if (91 <= i && i <= 95) || (70 <= i && i <= 79) {
			continue
		}
		switch i {
		case ccVolume, ccPan, ccBankSelectLSB, ccAllSoundOff:
			// left untouched.
		case ccExpression, ccRPNLSB, ccRPNMSB:
			c.controllers[i] = 127
			for _, v := range c.voices {
				v.UpdateMIDIController(i, 127)
			}
		default:
			c.controllers[i] = 0
			for _, v := range c.voices {
				v.UpdateMIDIController(i, 0)
			}
		}
	}
}

// ChannelPressure applies monophonic aftertouch to every live voice.
func (c *Channel) ChannelPressure(value uint8) {
	c.channelPressure = value
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.voices {
		v.UpdateSFController(voice.ControllerChannelPressure, float64(value))
	}
}

// PitchBend applies a 14-bit pitch wheel value to every live voice.
func (c *Channel) PitchBend(value uint16) {
	c.pitchBend = value
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.voices {
		v.UpdateSFController(voice.ControllerPitchWheel, float64(value))
	}
}

// Render mixes every live voice's current sample into one stereo frame,
// advancing each voice (and reclaiming any that finished) first.
func (c *Channel) Render() voice.Stereo {
	sum := voice.Stereo{}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.voices {
		if v.Status() == voice.Finished {
			continue
		}
		v.Update()
		if v.Status() == voice.Finished {
			continue
		}
		sum = sum.Add(v.Render())
	}
	return sum
}

func (c *Channel) selectedRPN() uint16 {
	return joinBytes(c.controllers[ccRPNMSB], c.controllers[ccRPNLSB])
}

// addVoice primes the new voice with every controller this channel
// currently holds, steals any other voice sharing its exclusive class,
// and reclaims a finished voice slot before growing the pool.
func (c *Channel) addVoice(v *voice.Voice) {
	v.UpdateSFController(voice.ControllerPolyPressure, float64(c.keyPressures[v.ActualKey()]))
	v.UpdateSFController(voice.ControllerChannelPressure, float64(c.channelPressure))
	v.UpdateSFController(voice.ControllerPitchWheel, float64(c.pitchBend))
	v.UpdateSFController(voice.ControllerPitchWheelSensitivity, c.pitchBendSens)
	v.UpdateFineTuning(c.fineTuning)
	v.UpdateCoarseTuning(c.coarseTuning)
	for i := 0; i < NumControllers; i++ {
		v.UpdateMIDIController(uint8(i), c.controllers[i])
	}

	exclusiveClass := v.ExclusiveClass()

	c.mu.Lock()
	defer c.mu.Unlock()
	if exclusiveClass != 0 {
		for _, other := range c.voices {
			if other.NoteID != c.currentNoteID && other.ExclusiveClass() == exclusiveClass {
				other.Release(false)
			}
		}
	}

	for i, other := range c.voices {
		if other.Status() == voice.Finished {
			c.voices[i] = v
			return
		}
	}
	c.voices = append(c.voices, v)
}

func (c *Channel) updateRPN() {
	r := c.selectedRPN()
	data := int32(c.rpns[r])
	switch rpn(r) {
	case rpnPitchBendSensitivity:
		c.pitchBendSens = float64(data) / 128.0
		for _, v := range c.voices {
			v.UpdateSFController(voice.ControllerPitchWheelSensitivity, c.pitchBendSens)
		}
	case rpnFineTuning:
		c.fineTuning = float64(data-8192) / 81.92
		for _, v := range c.voices {
			v.UpdateFineTuning(c.fineTuning)
		}
	case rpnCoarseTuning:
		c.coarseTuning = float64(data-8192) / 128.0
		for _, v := range c.voices {
			v.UpdateCoarseTuning(c.coarseTuning)
		}
	}
}
