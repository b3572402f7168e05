// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "testing"

func rampSample() Sample {
	buf := make([]int16, 200)
	for i := range buf {
		buf[i] = int16(i * 100)
	}
	return Sample{
		Buffer:     buf,
		Start:      0,
		End:        150,
		StartLoop:  10,
		EndLoop:    140,
		SampleRate: 44100,
		Key:        60,
		Correction: 0,
	}
}

func TestNewVoiceStartsPlaying(t *testing.T) {
	v := NewVoice(1, 44100, rampSample(), GeneratorSet{}, nil, 60, 100)
	if v.Status() != Playing {
		t.Fatalf("expected new voice to start Playing, got %v", v.Status())
	}
	if v.ActualKey() != 60 {
		t.Fatalf("expected actual key 60, got %v", v.ActualKey())
	}
}

func TestVoiceUnloopedSampleFinishesAtEnd(t *testing.T) {
	gens := GeneratorSet{GenSampleModes: int16(ModeUnLooped)}
	v := NewVoice(1, 44100, rampSample(), gens, nil, 60, 100)

	for i := 0; i < 1_000_000 && v.Status() != Finished; i++ {
		v.Update()
	}
	if v.Status() != Finished {
		t.Fatal("expected an unlooped voice to eventually finish once it reaches the sample end")
	}
}

func TestVoiceLoopedSampleNeverFinishesOnItsOwn(t *testing.T) {
	gens := GeneratorSet{GenSampleModes: int16(ModeLooped)}
	v := NewVoice(1, 44100, rampSample(), gens, nil, 60, 100)

	for i := 0; i < 200_000; i++ {
		v.Update()
		if v.Status() == Finished {
			t.Fatal("expected a looped voice to keep playing indefinitely")
		}
	}
}

func TestVoiceReleaseEventuallyFinishes(t *testing.T) {
	gens := GeneratorSet{
		GenSampleModes:   int16(ModeLooped),
		GenReleaseVolEnv: -1200, // a short release time in timecents.
	}
	v := NewVoice(1, 44100, rampSample(), gens, nil, 60, 100)

	for i := 0; i < 1000; i++ {
		v.Update()
	}
	v.Release(false)
	if v.Status() != Released {
		t.Fatalf("expected voice status Released after Release(false), got %v", v.Status())
	}

	for i := 0; i < 1_000_000 && v.Status() != Finished; i++ {
		v.Update()
	}
	if v.Status() != Finished {
		t.Fatal("expected a released voice to eventually become inaudible and finish")
	}
}

func TestVoiceRenderProducesStereoOutput(t *testing.T) {
	// Default generator amounts (SF2 spec 8.1.3) give a near-instant
	// attack, so the voice is already audible within a few CalcIntervals.
	// The sample is looped so it is still sounding after 1000 updates.
	gens := GeneratorSet{GenSampleModes: int16(ModeLooped)}
	v := NewVoice(1, 44100, rampSample(), gens, nil, 60, 100)
	for i := 0; i < 1000; i++ {
		v.Update()
	}
	out := v.Render()
	if out.Left == 0 && out.Right == 0 {
		t.Fatal("expected a playing voice past its attack to render non-zero output")
	}
}

func TestVoiceSustainHeldUntilRelease(t *testing.T) {
	gens := GeneratorSet{GenSampleModes: int16(ModeLooped)}
	v := NewVoice(1, 44100, rampSample(), gens, nil, 60, 100)
	if v.Release(true); v.Status() != Sustained {
		t.Fatalf("expected Release(true) to sustain, got %v", v.Status())
	}
	v.Release(false)
	if v.Status() != Released {
		t.Fatalf("expected a sustained voice to release on a later Release(false), got %v", v.Status())
	}
}
