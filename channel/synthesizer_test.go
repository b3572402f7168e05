// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package channel

import "testing"

func TestNewSynthesizerHasSixteenChannels(t *testing.T) {
	s := New(44100)
	for i, c := range s.channels {
		if c == nil {
			t.Fatalf("expected channel %d to be constructed", i)
		}
	}
	if s.volume != 1.0 {
		t.Fatalf("expected default volume 1.0, got %v", s.volume)
	}
}

func TestSetVolumeClampsNegative(t *testing.T) {
	s := New(44100)
	s.SetVolume(-5)
	if s.volume != 0 {
		t.Fatalf("expected negative volume to clamp to 0, got %v", s.volume)
	}
}

func TestProcessSysExSwitchesStandard(t *testing.T) {
	s := New(44100)
	s.ProcessSysEx(gsReset)
	if s.midiStd != GS {
		t.Fatalf("expected GS reset SysEx to switch standard to GS, got %v", s.midiStd)
	}
	s.ProcessSysEx(xgSystemOn)
	if s.midiStd != XG {
		t.Fatalf("expected XG system-on SysEx to switch standard to XG, got %v", s.midiStd)
	}
	s.ProcessSysEx(gmSystemOn)
	if s.midiStd != GM {
		t.Fatalf("expected GM system-on SysEx to switch standard back to GM, got %v", s.midiStd)
	}
}

func TestProcessSysExIgnoredWhenFixed(t *testing.T) {
	s := New(44100)
	s.SetMIDIStandard(GM, true)
	s.ProcessSysEx(gsReset)
	if s.midiStd != GM {
		t.Fatalf("expected a fixed MIDI standard to ignore SysEx resets, got %v", s.midiStd)
	}
}

func TestMatchSysExIgnoresDeviceID(t *testing.T) {
	variant := append([]byte{}, gsReset...)
	variant[2] = 0x7f // a different device ID than the canonical message's 0.
	if !matchSysEx(variant, gsReset) {
		t.Fatal("expected matchSysEx to ignore the device ID byte")
	}
}

func TestFindPresetFallsBackToGMBank(t *testing.T) {
	s := New(44100)
	s.soundFonts = append(s.soundFonts, onePresetSoundFont())
	// onePresetSoundFont's only preset defaults to bank 0, program 0.
	if _, p := s.FindPreset(0, 5); p == nil {
		t.Fatal("expected a missing program to fall back to program 0 in the same bank")
	} else if p.Name != "Test Patch" {
		t.Fatalf("expected fallback to reach the GM bank 0 program 0 preset, got %q", p.Name)
	}
}

func TestFindPresetMissingReturnsNil(t *testing.T) {
	s := New(44100)
	if _, p := s.FindPreset(0, 0); p != nil {
		t.Fatal("expected no preset to be found when no SoundFont is loaded")
	}
}

func TestRenderFloatProducesInterleavedStereo(t *testing.T) {
	s := New(44100)
	s.soundFonts = append(s.soundFonts, onePresetSoundFont())
	s.ProcessChannelMessage(NoteOn, 0, 60, 100)

	buf := make([]float32, 256)
	s.RenderFloat(buf)
	// Silence is a valid (if uninteresting) render; the call must not panic
	// and must fill every sample slot.
	if len(buf) != 256 {
		t.Fatalf("expected render to leave buffer length untouched, got %d", len(buf))
	}
}

func TestRenderS16ClampsRange(t *testing.T) {
	if got := clampS16(2.0); got != 32767 {
		t.Fatalf("expected clamp to 32767, got %d", got)
	}
	if got := clampS16(-2.0); got != -32768 {
		t.Fatalf("expected clamp to -32768, got %d", got)
	}
}

func TestProcessRawMIDIDispatchesNoteOn(t *testing.T) {
	s := New(44100)
	s.soundFonts = append(s.soundFonts, onePresetSoundFont())

	s.ProcessRawMIDI([]byte{0x90, 60, 100}) // NoteOn, channel 0, key 60, velocity 100.
	if len(s.channels[0].voices) == 0 {
		t.Fatal("expected a raw NoteOn message to spawn a voice on channel 0")
	}
}

func TestProcessRawMIDIRoutesSysEx(t *testing.T) {
	s := New(44100)
	s.ProcessRawMIDI(gsReset)
	if s.midiStd != GS {
		t.Fatalf("expected a raw SysEx byte stream to switch standard to GS, got %v", s.midiStd)
	}
}

func TestProcessChannelMessageProgramChangeAssignsPreset(t *testing.T) {
	s := New(44100)
	s.soundFonts = append(s.soundFonts, onePresetSoundFont())
	s.ProcessChannelMessage(ProgramChange, 0, 0, 0)
	if !s.channels[0].HasPreset() {
		t.Fatal("expected program change to assign a preset")
	}
}
