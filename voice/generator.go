// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

// Generator identifies one of the SF2 spec's generator destinations, the
// small set of per-zone parameters a voice reads at construction time and
// a modulator graph can additionally perturb at render time.
type Generator uint16

// Generator IDs, matching the SF2 spec numbering used by the rest of the
// pack's generator-index arithmetic (zones store raw indices on disk).
const (
	GenStartAddrsOffset           Generator = 0
	GenEndAddrsOffset             Generator = 1
	GenStartloopAddrsOffset       Generator = 2
	GenEndloopAddrsOffset         Generator = 3
	GenStartAddrsCoarseOffset     Generator = 4
	GenModLfoToPitch              Generator = 5
	GenVibLfoToPitch              Generator = 6
	GenModEnvToPitch              Generator = 7
	GenInitialFilterFc            Generator = 8
	GenInitialFilterQ             Generator = 9
	GenModLfoToFilterFc           Generator = 10
	GenModEnvToFilterFc           Generator = 11
	GenEndAddrsCoarseOffset       Generator = 12
	GenModLfoToVolume             Generator = 13
	GenChorusEffectsSend          Generator = 15
	GenReverbEffectsSend          Generator = 16
	GenPan                        Generator = 17
	GenDelayModLFO                Generator = 21
	GenFreqModLFO                 Generator = 22
	GenDelayVibLFO                Generator = 23
	GenFreqVibLFO                 Generator = 24
	GenDelayModEnv                Generator = 25
	GenAttackModEnv               Generator = 26
	GenHoldModEnv                 Generator = 27
	GenDecayModEnv                Generator = 28
	GenSustainModEnv              Generator = 29
	GenReleaseModEnv              Generator = 30
	GenKeynumToModEnvHold         Generator = 31
	GenKeynumToModEnvDecay        Generator = 32
	GenDelayVolEnv                Generator = 33
	GenAttackVolEnv               Generator = 34
	GenHoldVolEnv                 Generator = 35
	GenDecayVolEnv                Generator = 36
	GenSustainVolEnv              Generator = 37
	GenReleaseVolEnv              Generator = 38
	GenKeynumToVolEnvHold         Generator = 39
	GenKeynumToVolEnvDecay        Generator = 40
	GenInstrument                 Generator = 41
	GenKeyRange                   Generator = 43
	GenVelRange                   Generator = 44
	GenStartloopAddrsCoarseOffset Generator = 45
	GenKeynum                     Generator = 46
	GenVelocity                   Generator = 47
	GenInitialAttenuation         Generator = 48
	GenEndloopAddrsCoarseOffset   Generator = 50
	GenCoarseTune                 Generator = 51
	GenFineTune                   Generator = 52
	GenSampleID                   Generator = 53
	GenSampleModes                Generator = 54
	GenScaleTuning                Generator = 56
	GenExclusiveClass             Generator = 57
	GenOverridingRootKey          Generator = 58
	GenEndOper                    Generator = 60
	GenPitch                      Generator = 61 // synthetic: default pitch-bend modulator destination.
	genCount                      Generator = 62
)

// GeneratorSet holds a zone's (preset or instrument) generator values. A
// generator never explicitly set is absent; GetOrDefault reports its SF2
// default from defaultGeneratorValues.
type GeneratorSet map[Generator]int16

// defaultGeneratorValues holds the SF2 spec's (section 8.1.3) default
// amount for every generator a zone never sets explicitly — most
// envelope timing generators default to -12000 timecents (effectively
// instantaneous) rather than 0, which would instead mean a full second.
var defaultGeneratorValues = map[Generator]int16{
	GenInitialFilterFc: 13500,
	GenDelayModLFO:     -12000,
	GenDelayVibLFO:     -12000,
	GenDelayModEnv:     -12000,
	GenAttackModEnv:    -12000,
	GenHoldModEnv:      -12000,
	GenDecayModEnv:     -12000,
	GenReleaseModEnv:   -12000,
	GenDelayVolEnv:     -12000,
	GenAttackVolEnv:    -12000,
	GenHoldVolEnv:      -12000,
	GenDecayVolEnv:     -12000,
	GenReleaseVolEnv:   -12000,
	GenKeynum:          -1,
	GenVelocity:        -1,
	GenScaleTuning:     100,
	GenOverridingRootKey: -1,
}

// Set records value for gen, SF2 zone construction's accumulate-as-parsed
// step.
func (g GeneratorSet) Set(gen Generator, value int16) { g[gen] = value }

// GetOrDefault returns gen's value, or its SF2 spec default if the zone
// never set it.
func (g GeneratorSet) GetOrDefault(gen Generator) int16 {
	if v, ok := g[gen]; ok {
		return v
	}
	return defaultGeneratorValues[gen]
}

// Merge overlays override atop g, returning a new set: the SF2 rule that
// an instrument zone's generators refine (not replace wholesale) any
// matching preset zone generators.
func (g GeneratorSet) Merge(override GeneratorSet) GeneratorSet {
	merged := make(GeneratorSet, len(g)+len(override))
	for k, v := range g {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// Add accumulates override's explicitly-set generators onto g's existing
// effective values, returning a new set — the SF2 rule a preset zone's
// generators use to offset (not replace) an instrument zone's generators.
func (g GeneratorSet) Add(override GeneratorSet) GeneratorSet {
	merged := make(GeneratorSet, len(g)+len(override))
	for k, v := range g {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = g.GetOrDefault(k) + v
	}
	return merged
}
