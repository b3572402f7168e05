// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sfont

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/doomvu/engine/voice"
)

// PercussionBank is the SF2 convention's bank number reserved for
// percussion (drum kit) presets.
const PercussionBank = 128

// Instrument is one SF2 instrument: a name and the zones (each bound to
// one Sample, by generator reference) that make it up.
type Instrument struct {
	Name  string
	Zones []Zone
}

// Preset is one SF2 preset (an instrument patch as a MIDI program sees
// it): a bank/program pair and the zones — each referencing an
// Instrument — that layer to produce it.
type Preset struct {
	Name      string
	Bank      uint16
	ProgramID uint16
	Zones     []Zone
}

// SoundFont is a fully decoded SF2 bank: raw sample audio plus the
// instrument/preset zone hierarchy that reads it.
type SoundFont struct {
	Name        string
	SampleRate  uint32
	SampleData  []int16
	Samples     []voice.Sample
	Instruments []Instrument
	Presets     []*Preset
}

// FindPreset returns the preset matching bank/program, or nil.
func (sf *SoundFont) FindPreset(bank, program uint16) *Preset {
	for _, p := range sf.Presets {
		if p.Bank == bank && p.ProgramID == program {
			return p
		}
	}
	return nil
}

type rawTables struct {
	samples []sfSample
	insts   []sfInst
	ibag    []sfBag
	imod    []sfModList
	igen    []sfGenList
	phdrs   []sfPresetHeader
	pbag    []sfBag
	pmod    []sfModList
	pgen    []sfGenList
}

// Load decodes an SF2 file from r, which must be positioned at the start
// of its outer RIFF chunk (typically the very start of the file).
func Load(r io.Reader) (*SoundFont, error) {
	var hdr chunkHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("sfont: reading RIFF header: %w", err)
	}
	if string(hdr.ID[:]) != "RIFF" {
		return nil, fmt.Errorf("sfont: not a RIFF file")
	}
	var form [4]byte
	if _, err := io.ReadFull(r, form[:]); err != nil {
		return nil, err
	}
	if string(form[:]) != "sfbk" {
		return nil, fmt.Errorf("sfont: not an SF2 (sfbk) file")
	}

	sf := &SoundFont{}
	var tables rawTables

	err := readChunks(r, int64(hdr.Size)-4, func(c chunk) error {
		if c.id != "LIST" {
			return nil
		}
		switch c.form {
		case "INFO":
			return readInfoChunk(c.body, sf)
		case "sdta":
			return readSdtaChunk(c.body, sf)
		case "pdta":
			return readPdtaChunk(c.body, &tables)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sf.Samples = buildSamples(tables.samples, sf.SampleData)
	sf.Instruments = buildInstruments(tables.insts, tables.ibag, tables.imod, tables.igen)
	sf.Presets = buildPresets(tables.phdrs, tables.pbag, tables.pmod, tables.pgen)
	return sf, nil
}

func readInfoChunk(r io.Reader, sf *SoundFont) error {
	return readChunks(r, 1<<31-1, func(c chunk) error {
		if c.id == "INAM" {
			b, err := io.ReadAll(c.body)
			if err != nil {
				return err
			}
			n := len(b)
			for n > 0 && b[n-1] == 0 {
				n--
			}
			sf.Name = string(b[:n])
		}
		return nil
	})
}

func readSdtaChunk(r io.Reader, sf *SoundFont) error {
	return readChunks(r, 1<<31-1, func(c chunk) error {
		if c.id != "smpl" {
			return nil
		}
		raw, err := io.ReadAll(c.body)
		if err != nil {
			return err
		}
		samples := make([]int16, len(raw)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		sf.SampleData = samples
		sf.SampleRate = 44100
		return nil
	})
}

func readPdtaChunk(r io.Reader, t *rawTables) error {
	return readChunks(r, 1<<31-1, func(c chunk) error {
		switch c.id {
		case "phdr":
			return readRecords(c.body, &t.phdrs)
		case "pbag":
			return readRecords(c.body, &t.pbag)
		case "pmod":
			return readRecords(c.body, &t.pmod)
		case "pgen":
			return readRecords(c.body, &t.pgen)
		case "inst":
			return readRecords(c.body, &t.insts)
		case "ibag":
			return readRecords(c.body, &t.ibag)
		case "imod":
			return readRecords(c.body, &t.imod)
		case "igen":
			return readRecords(c.body, &t.igen)
		case "shdr":
			return readRecords(c.body, &t.samples)
		}
		return nil
	})
}

// readRecords fills *out with every fixed-size record body yields, the
// SF2 spec's flat-array-of-structs encoding for every pdta subchunk.
func readRecords[T any](body io.Reader, out *[]T) error {
	for {
		var rec T
		if err := binary.Read(body, binary.LittleEndian, &rec); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
		*out = append(*out, rec)
	}
}

func buildSamples(raw []sfSample, buffer []int16) []voice.Sample {
	// The shdr chunk ends with a terminal "EOS" record that is not a sample.
	if n := len(raw); n > 0 && cstring(raw[n-1].SampleName) == "EOS" {
		raw = raw[:n-1]
	}
	samples := make([]voice.Sample, len(raw))
	for i, s := range raw {
		minAtten := 0.0
		if s.Start < s.End && int(s.End) <= len(buffer) {
			peak := 0
			for _, v := range buffer[s.Start:s.End] {
				a := int(v)
				if a < 0 {
					a = -a
				}
				if a > peak {
					peak = a
				}
			}
			minAtten = voice.AmplitudeToAttenuation(float64(peak) / 32767.0)
		}
		samples[i] = voice.Sample{
			Buffer:     buffer,
			Start:      s.Start,
			End:        s.End,
			StartLoop:  s.StartLoop,
			EndLoop:    s.EndLoop,
			SampleRate: s.SampleRate,
			Key:        s.OriginalKey,
			Correction: s.Correction,
			MinAtten:   minAtten,
		}
	}
	return samples
}

func buildInstruments(raw []sfInst, ibag []sfBag, imod []sfModList, igen []sfGenList) []Instrument {
	if len(raw) == 0 {
		return nil
	}
	// SF2 appends a terminal "EOI" record whose InstBagNdx marks the end
	// of the last real instrument's bag range.
	insts := make([]Instrument, 0, len(raw)-1)
	for i := 0; i < len(raw)-1; i++ {
		lo, hi := int(raw[i].InstBagNdx), int(raw[i+1].InstBagNdx)
		insts = append(insts, Instrument{
			Name:  cstring(raw[i].InstName),
			Zones: buildZones(ibag, lo, hi, igen, imod, voice.GenSampleID),
		})
	}
	return insts
}

func buildPresets(raw []sfPresetHeader, pbag []sfBag, pmod []sfModList, pgen []sfGenList) []*Preset {
	if len(raw) == 0 {
		return nil
	}
	presets := make([]*Preset, 0, len(raw)-1)
	for i := 0; i < len(raw)-1; i++ {
		lo, hi := int(raw[i].PresetBagNdx), int(raw[i+1].PresetBagNdx)
		presets = append(presets, &Preset{
			Name:      cstring(raw[i].PresetName),
			Bank:      raw[i].Bank,
			ProgramID: raw[i].Preset,
			Zones:     buildZones(pbag, lo, hi, pgen, pmod, voice.GenInstrument),
		})
	}
	sort.Slice(presets, func(i, j int) bool {
		if presets[i].Bank != presets[j].Bank {
			return presets[i].Bank < presets[j].Bank
		}
		return presets[i].ProgramID < presets[j].ProgramID
	})
	return presets
}
