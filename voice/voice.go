// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

import "math"

// State is a Voice's playback lifecycle stage.
type State int

const (
	Playing State = iota
	Sustained
	Released
	Finished
)

// SampleMode is the SF2 spec's sampleModes generator value, decoding how
// a voice loops (or doesn't) through its sample buffer.
type SampleMode int

const (
	ModeUnLooped           SampleMode = 0
	ModeLooped             SampleMode = 1
	ModeUnUsed             SampleMode = 2
	ModeLoopedUntilRelease SampleMode = 3
)

// Sample is the minimal per-sample data a Voice needs to play it back: a
// shared, read-only PCM buffer plus the region and tuning metadata a
// zone's generators refine.
type Sample struct {
	Buffer     []int16
	Start      uint32
	End        uint32
	StartLoop  uint32
	EndLoop    uint32
	SampleRate uint32
	Key        int8 // original recorded pitch, MIDI key number.
	Correction int8 // cents, pitch correction toward Key.
	MinAtten   float64
}

type runtimeSample struct {
	mode                           SampleMode
	pitch                          float64
	start, end, startLoop, endLoop uint32
}

// Voice renders one active note: a playing (or sustained/released)
// instance of a sample, shaped by its envelopes, LFOs, and modulator
// graph. Update advances it one sample at a time; the envelopes, LFOs and
// modulated parameters are recomputed every CalcInterval samples.
type Voice struct {
	NoteID     uint64
	actualKey                uint8
	sampleBuf                []int16
	generators               GeneratorSet
	rtSample                 runtimeSample
	keyScaling               float64
	modulators               []*Modulator
	minAtten                 float64
	modulated                [genCount]float64
	percussion               bool
	fineTuning, coarseTuning float64
	deltaIndexRatio          float64
	steps                    uint64
	status                   State
	voicePitch               float64
	index, deltaIndex        FixedPoint
	volume                   Stereo
	amp, deltaAmp            float64
	volEnv, modEnv           *Envelope
	vibLFO, modLFO           *LFO
}

// attenFactor scales InitialAttenuation for compatibility with SF2 files
// authored against a less aggressive attenuation convention than the
// spec's literal centibel reading.
const attenFactor = 0.4

// coarseOffsetUnit is the sample-count step a "coarse" addr offset
// generator represents.
const coarseOffsetUnit = 32768

// NewVoice constructs a Voice playing sample at key/velocity, shaped by
// generators (already merged preset-over-instrument) and modparams.
func NewVoice(noteID uint64, outputRate float64, sample Sample, generators GeneratorSet, modparams []ModulatorParam, key, velocity uint8) *Voice {
	v := &Voice{
		NoteID:     noteID,
		actualKey:  key,
		sampleBuf:  sample.Buffer,
		generators: generators,
		status:     Playing,
		index:      NewFixedPointInt(sample.Start),
		volume:     Stereo{1, 1},
		volEnv:     NewEnvelope(outputRate),
		modEnv:     NewEnvelope(outputRate),
		vibLFO:     NewLFO(outputRate),
		modLFO:     NewLFO(outputRate),
	}

	v.rtSample.mode = SampleMode(0b11 & generators.GetOrDefault(GenSampleModes))
	overriddenKey := generators.GetOrDefault(GenOverridingRootKey)
	pitch := float64(sample.Key)
	if overriddenKey > 0 {
		pitch = float64(overriddenKey)
	}
	v.rtSample.pitch = pitch - 0.01*float64(sample.Correction)

	v.rtSample.start = sample.Start + coarseOffsetUnit*uint32(generators.GetOrDefault(GenStartAddrsCoarseOffset)) + uint32(generators.GetOrDefault(GenStartAddrsOffset))
	v.rtSample.end = sample.End + coarseOffsetUnit*uint32(generators.GetOrDefault(GenEndAddrsCoarseOffset)) + uint32(generators.GetOrDefault(GenEndAddrsOffset))
	v.rtSample.startLoop = sample.StartLoop + coarseOffsetUnit*uint32(generators.GetOrDefault(GenStartloopAddrsCoarseOffset)) + uint32(generators.GetOrDefault(GenStartloopAddrsOffset))
	v.rtSample.endLoop = sample.EndLoop + coarseOffsetUnit*uint32(generators.GetOrDefault(GenEndloopAddrsCoarseOffset)) + uint32(generators.GetOrDefault(GenEndloopAddrsOffset))

	bufSize := uint32(len(sample.Buffer))
	if bufSize == 0 {
		bufSize = 1
	}
	v.rtSample.start = minU32(bufSize-1, v.rtSample.start)
	v.rtSample.end = maxU32(v.rtSample.start+1, minU32(bufSize, v.rtSample.end))
	v.rtSample.startLoop = maxU32(v.rtSample.start, minU32(v.rtSample.end-1, v.rtSample.startLoop))
	v.rtSample.endLoop = maxU32(v.rtSample.startLoop+1, minU32(v.rtSample.end, v.rtSample.endLoop))

	v.deltaIndexRatio = 1.0 / KeyToHertz(v.rtSample.pitch) * float64(sample.SampleRate) / outputRate

	for _, mp := range modparams {
		v.modulators = append(v.modulators, NewModulator(mp))
	}

	genVelocity := generators.GetOrDefault(GenVelocity)
	vel := velocity
	if genVelocity > 0 {
		vel = uint8(genVelocity)
	}
	v.UpdateSFController(ControllerNoteOnVelocity, float64(vel))

	genKey := generators.GetOrDefault(GenKeynum)
	effectiveKey := key
	if genKey > 0 {
		effectiveKey = uint8(genKey)
	}
	v.keyScaling = 60 - float64(effectiveKey)
	v.UpdateSFController(ControllerNoteOnKeyNumber, float64(effectiveKey))

	minModulatedAtten := attenFactor * float64(generators.GetOrDefault(GenInitialAttenuation))
	for _, mod := range v.modulators {
		if mod.Destination() == GenInitialAttenuation && mod.CanBeNegative() {
			minModulatedAtten -= math.Abs(float64(mod.Amount()))
		}
	}
	v.minAtten = sample.MinAtten + math.Max(0, minModulatedAtten)

	for g := Generator(0); g < genCount; g++ {
		v.modulated[g] = float64(generators.GetOrDefault(g))
	}
	for _, g := range []Generator{
		GenPan, GenDelayModLFO, GenFreqModLFO, GenDelayVibLFO, GenFreqVibLFO, GenDelayModEnv,
		GenAttackModEnv, GenHoldModEnv, GenDecayModEnv, GenSustainModEnv, GenReleaseModEnv, GenDelayVolEnv,
		GenAttackVolEnv, GenHoldVolEnv, GenDecayVolEnv, GenSustainVolEnv, GenReleaseVolEnv, GenCoarseTune,
	} {
		v.updateModulatedParams(g)
	}
	return v
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// ExclusiveClass reports the SF2 exclusive-class group this voice belongs
// to (0 means none), used to steal a matching voice already sounding on
// the same channel.
func (v *Voice) ExclusiveClass() int16 { return v.generators.GetOrDefault(GenExclusiveClass) }

// Status reports the voice's lifecycle stage.
func (v *Voice) Status() State { return v.status }

// ActualKey reports the MIDI key number this voice was struck at.
func (v *Voice) ActualKey() uint8 { return v.actualKey }

// Render produces this voice's current stereo output sample via linear
// interpolation between the two samples index_ straddles.
func (v *Voice) Render() Stereo {
	i := v.index.IntegerPart()
	r := v.index.FractionalPart()
	if int(i)+1 >= len(v.sampleBuf) {
		return Stereo{}
	}
	interpolated := (1-r)*float64(v.sampleBuf[i]) + r*float64(v.sampleBuf[i+1])
	return v.volume.Scale(v.amp * interpolated / 32767.0)
}

// SetPercussion records whether this voice belongs to a percussion key
// map; the voice's own playback does not read the flag.
func (v *Voice) SetPercussion(percussion bool) { v.percussion = percussion }

// UpdateSFController notifies every modulator of a synthesizer-general
// controller change, recomputing any destination generator it perturbs.
func (v *Voice) UpdateSFController(controller GeneralController, value float64) {
	for _, mod := range v.modulators {
		if mod.UpdateSFController(controller, value) {
			v.updateModulatedParams(mod.Destination())
		}
	}
}

// UpdateMIDIController notifies every modulator of a MIDI CC change.
func (v *Voice) UpdateMIDIController(controller, value uint8) {
	for _, mod := range v.modulators {
		if mod.UpdateMIDIController(controller, value) {
			v.updateModulatedParams(mod.Destination())
		}
	}
}

// UpdateFineTuning applies a channel's RPN fine-tuning (in cents).
func (v *Voice) UpdateFineTuning(fineTuning float64) {
	v.fineTuning = fineTuning
	v.updateModulatedParams(GenFineTune)
}

// UpdateCoarseTuning applies a channel's RPN coarse-tuning (in semitones).
func (v *Voice) UpdateCoarseTuning(coarseTuning float64) {
	v.coarseTuning = coarseTuning
	v.updateModulatedParams(GenCoarseTune)
}

// Release transitions the voice out of Playing: into Sustained if held by
// a channel's sustain pedal, otherwise into Released and starts its
// envelopes' release phase.
func (v *Voice) Release(sustained bool) {
	if v.status != Playing && v.status != Sustained {
		return
	}
	if sustained {
		v.status = Sustained
		return
	}
	v.status = Released
	v.volEnv.Release()
	v.modEnv.Release()
}

// dynamicRange is signed 16-bit PCM's dynamic range, in centibels — a
// voice whose attenuation has fallen below audibility by this much is
// inaudible and can be reclaimed.
var dynamicRange = 200.0 * math.Log10(32768.0)

// Update advances the voice by one output sample, recomputing its
// modulated parameters once every CalcInterval samples.
func (v *Voice) Update() {
	calc := v.steps%CalcInterval == 0
	v.steps++

	if calc {
		if v.volEnv.Phase() == Finished ||
			(v.volEnv.Phase() > Attack && v.minAtten+960.0*(1.0-v.volEnv.Value()) >= dynamicRange) {
			v.status = Finished
			return
		}
		v.volEnv.Update()
	}

	v.index = v.index.Add(v.deltaIndex)

	switch v.rtSample.mode {
	case ModeUnLooped, ModeUnUsed:
		if v.index.IntegerPart() >= v.rtSample.end {
			v.status = Finished
			return
		}
	case ModeLooped:
		if v.index.IntegerPart() >= v.rtSample.endLoop {
			v.index = v.index.Sub(NewFixedPointInt(v.rtSample.endLoop - v.rtSample.startLoop))
		}
	case ModeLoopedUntilRelease:
		if v.status == Released {
			if v.index.IntegerPart() >= v.rtSample.end {
				v.status = Finished
				return
			}
		} else if v.index.IntegerPart() >= v.rtSample.endLoop {
			v.index = v.index.Sub(NewFixedPointInt(v.rtSample.endLoop - v.rtSample.startLoop))
		}
	}

	v.amp += v.deltaAmp

	if calc {
		v.modEnv.Update()
		v.vibLFO.Update()
		v.modLFO.Update()

		modEnvValue := v.modEnv.Value()
		if v.modEnv.Phase() == Attack {
			modEnvValue = Convex(modEnvValue)
		}
		pitch := v.voicePitch + 0.01*(v.getModulatedGenerator(GenModEnvToPitch)*modEnvValue+
			v.getModulatedGenerator(GenVibLfoToPitch)*v.vibLFO.Value()+
			v.getModulatedGenerator(GenModLfoToPitch)*v.modLFO.Value())
		v.deltaIndex = NewFixedPoint(v.deltaIndexRatio * KeyToHertz(pitch))

		attenModLFO := v.getModulatedGenerator(GenModLfoToVolume) * v.modLFO.Value()
		var targetAmp float64
		if v.volEnv.Phase() == Attack {
			targetAmp = v.volEnv.Value() * AttenuationToAmplitude(attenModLFO)
		} else {
			targetAmp = AttenuationToAmplitude(960.0*(1.0-v.volEnv.Value()) + attenModLFO)
		}
		v.deltaAmp = (targetAmp - v.amp) / CalcInterval
	}
}

func (v *Voice) getModulatedGenerator(g Generator) float64 { return v.modulated[g] }

// calculatePannedVolume converts an SF2 pan generator value (-500..500,
// hard left to hard right) to independent left/right gain via an
// equal-power pan law.
func calculatePannedVolume(pan float64) Stereo {
	switch {
	case pan <= -500.0:
		return Stereo{1, 0}
	case pan >= 500.0:
		return Stereo{0, 1}
	default:
		const factor = math.Pi / 2000.0
		return Stereo{math.Sin(factor * (-pan + 500.0)), math.Sin(factor * (pan + 500.0))}
	}
}

func (v *Voice) updateModulatedParams(destination Generator) {
	modulated := float64(v.generators.GetOrDefault(destination))
	if destination == GenInitialAttenuation {
		modulated *= attenFactor
	}
	for _, mod := range v.modulators {
		if mod.Destination() == destination {
			modulated += mod.Value()
		}
	}
	v.modulated[destination] = modulated

	switch destination {
	case GenPan, GenInitialAttenuation:
		v.volume = calculatePannedVolume(v.getModulatedGenerator(GenPan)).Scale(AttenuationToAmplitude(v.getModulatedGenerator(GenInitialAttenuation)))
	case GenDelayModLFO:
		v.modLFO.SetDelay(modulated)
	case GenFreqModLFO:
		v.modLFO.SetFrequency(modulated)
	case GenDelayVibLFO:
		v.vibLFO.SetDelay(modulated)
	case GenFreqVibLFO:
		v.vibLFO.SetFrequency(modulated)
	case GenDelayModEnv:
		v.modEnv.SetParameter(Delay, TimecentToSecond(modulated))
	case GenAttackModEnv:
		v.modEnv.SetParameter(Attack, TimecentToSecond(modulated))
	case GenHoldModEnv, GenKeynumToModEnvHold:
		v.modEnv.SetParameter(Hold, TimecentToSecond(v.getModulatedGenerator(GenHoldModEnv)+v.getModulatedGenerator(GenKeynumToModEnvHold)*v.keyScaling))
	case GenDecayModEnv, GenKeynumToModEnvDecay:
		v.modEnv.SetParameter(Decay, TimecentToSecond(v.getModulatedGenerator(GenDecayModEnv)+v.getModulatedGenerator(GenKeynumToModEnvDecay)*v.keyScaling))
	case GenSustainModEnv:
		// SF2 encodes sustainModEnv in units of 0.1% attenuation of full
		// scale (0 = no attenuation, 1000 = silence); Envelope wants a
		// 0..1 level where 1 is full scale.
		v.modEnv.SetParameter(Sustain, 1.0-modulated/1000.0)
	case GenReleaseModEnv:
		v.modEnv.SetParameter(Release, TimecentToSecond(modulated))
	case GenDelayVolEnv:
		v.volEnv.SetParameter(Delay, TimecentToSecond(modulated))
	case GenAttackVolEnv:
		v.volEnv.SetParameter(Attack, TimecentToSecond(modulated))
	case GenHoldVolEnv, GenKeynumToVolEnvHold:
		v.volEnv.SetParameter(Hold, TimecentToSecond(v.getModulatedGenerator(GenHoldVolEnv)+v.getModulatedGenerator(GenKeynumToVolEnvHold)*v.keyScaling))
	case GenDecayVolEnv, GenKeynumToVolEnvDecay:
		v.volEnv.SetParameter(Decay, TimecentToSecond(v.getModulatedGenerator(GenDecayVolEnv)+v.getModulatedGenerator(GenKeynumToVolEnvDecay)*v.keyScaling))
	case GenSustainVolEnv:
		// SF2 encodes sustainVolEnv as a centibel attenuation from peak;
		// convert to the 0..1 level Envelope expects.
		v.volEnv.SetParameter(Sustain, AttenuationToAmplitude(modulated))
	case GenReleaseVolEnv:
		v.volEnv.SetParameter(Release, TimecentToSecond(modulated))
	case GenCoarseTune, GenFineTune, GenScaleTuning, GenPitch:
		v.voicePitch = v.rtSample.pitch + 0.01*v.getModulatedGenerator(GenPitch) +
			0.01*float64(v.generators.GetOrDefault(GenScaleTuning))*(float64(v.actualKey)-v.rtSample.pitch) +
			v.coarseTuning + v.getModulatedGenerator(GenCoarseTune) +
			0.01*(v.fineTuning+v.getModulatedGenerator(GenFineTune))
	}
}
