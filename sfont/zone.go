// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sfont

import "github.com/doomvu/engine/voice"

// Range is an inclusive 0-127 key or velocity range a Zone applies to.
type Range struct {
	Lo, Hi int8
}

// Contains reports whether value falls within [Lo,Hi].
func (r Range) Contains(value int8) bool { return value >= r.Lo && value <= r.Hi }

func defaultRange() Range { return Range{0, 127} }

// Zone is one preset or instrument zone: the key/velocity range it
// applies over, and the generators/modulators it contributes once a
// note falls in range.
type Zone struct {
	KeyRange, VelRange Range
	Generators         voice.GeneratorSet
	Modulators         []voice.ModulatorParam
}

// InRange reports whether key/velocity both fall within z's ranges.
func (z Zone) InRange(key, velocity int8) bool {
	return z.KeyRange.Contains(key) && z.VelRange.Contains(velocity)
}

func decodeModParam(m sfModList) voice.ModulatorParam {
	return voice.ModulatorParam{
		Src:       m.ModSrcOper.decode(),
		Dest:      voice.Generator(m.ModDestOper),
		Amount:    m.ModAmount,
		AmtSrc:    m.ModAmtSrcOper.decode(),
		Transform: voice.Transform(m.ModTransOper),
	}
}

// decodedBag is one bag's fully-decoded generators/modulators/ranges.
type decodedBag struct {
	keyRange, velRange Range
	generators         voice.GeneratorSet
	modulators         []voice.ModulatorParam
	hasDiscriminator   map[voice.Generator]bool
}

func decodeBag(bags []sfBag, bagIdx int, gens []sfGenList, mods []sfModList) decodedBag {
	bag := bags[bagIdx]
	genHi, modHi := len(gens), len(mods)
	if bagIdx+1 < len(bags) {
		genHi, modHi = int(bags[bagIdx+1].GenNdx), int(bags[bagIdx+1].ModNdx)
	}

	d := decodedBag{
		keyRange:         defaultRange(),
		velRange:         defaultRange(),
		generators:       make(voice.GeneratorSet),
		hasDiscriminator: make(map[voice.Generator]bool),
	}
	for _, g := range gens[bag.GenNdx:clampIdx(genHi, len(gens))] {
		gen := voice.Generator(g.GenOper)
		switch gen {
		case voice.GenKeyRange:
			d.keyRange = Range{int8(uint8(g.GenAmount)), int8(uint8(g.GenAmount >> 8))}
		case voice.GenVelRange:
			d.velRange = Range{int8(uint8(g.GenAmount)), int8(uint8(g.GenAmount >> 8))}
		default:
			d.generators.Set(gen, int16(g.GenAmount))
			d.hasDiscriminator[gen] = true
		}
	}
	for _, m := range mods[bag.ModNdx:clampIdx(modHi, len(mods))] {
		d.modulators = append(d.modulators, decodeModParam(m))
	}
	return d
}

// buildZones decodes the zones belonging to one bag range [bagLo,bagHi)
// (a preset's or instrument's slice of pbag/ibag), applying the SF2
// spec's global-zone rule: if the first zone lacks discriminator (the
// SampleID generator for instrument zones, the Instrument generator for
// preset zones), its generators/modulators become defaults merged into
// every other zone in the range instead of producing a zone of its own.
func buildZones(bags []sfBag, bagLo, bagHi int, gens []sfGenList, mods []sfModList, discriminator voice.Generator) []Zone {
	if bagLo >= bagHi || bagHi > len(bags) {
		return nil
	}

	var globalGen voice.GeneratorSet
	var globalMod []voice.ModulatorParam
	start := bagLo

	first := decodeBag(bags, bagLo, gens, mods)
	if !first.hasDiscriminator[discriminator] {
		globalGen, globalMod = first.generators, first.modulators
		start = bagLo + 1
	}

	var zones []Zone
	for i := start; i < bagHi; i++ {
		d := decodeBag(bags, i, gens, mods)

		merged := make(voice.GeneratorSet, len(globalGen)+len(d.generators))
		for k, v := range globalGen {
			merged[k] = v
		}
		for k, v := range d.generators {
			merged[k] = v
		}
		allMods := append(append([]voice.ModulatorParam{}, globalMod...), d.modulators...)

		zones = append(zones, Zone{KeyRange: d.keyRange, VelRange: d.velRange, Generators: merged, Modulators: allMods})
	}
	return zones
}

func clampIdx(v, max int) int {
	if v > max {
		return max
	}
	return v
}
