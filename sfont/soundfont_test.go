// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sfont

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/doomvu/engine/voice"
)

// writeChunk appends a RIFF chunk (id + size + body), padding body to an
// even length as the RIFF format requires.
func writeChunk(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
	if len(body)%2 == 1 {
		buf.WriteByte(0)
	}
}

func namebuf(s string) [20]byte {
	var b [20]byte
	copy(b[:], s)
	return b
}

// buildMinimalSF2 hand-assembles a one-sample, one-instrument,
// one-preset SoundFont byte stream exercising the RIFF/pdta record
// layout Load decodes.
func buildMinimalSF2(t *testing.T) []byte {
	t.Helper()

	var info bytes.Buffer
	writeChunk(&info, "INAM", []byte("Test Bank\x00"))

	var sdta bytes.Buffer
	samples := []int16{0, 1000, 2000, 1000, 0, -1000, -2000, -1000, 0, 0}
	sampleBytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(sampleBytes[i*2:], uint16(s))
	}
	writeChunk(&sdta, "smpl", sampleBytes)

	var shdr bytes.Buffer
	binary.Write(&shdr, binary.LittleEndian, sfSample{
		SampleName: namebuf("Tone"),
		Start:      0, End: 8, StartLoop: 2, EndLoop: 6,
		SampleRate: 44100, OriginalKey: 60, Correction: 0,
	})
	binary.Write(&shdr, binary.LittleEndian, sfSample{SampleName: namebuf("EOS")})

	var igen bytes.Buffer
	binary.Write(&igen, binary.LittleEndian, sfGenList{GenOper: uint16(voice.GenSampleID), GenAmount: 0})

	var ibag bytes.Buffer
	binary.Write(&ibag, binary.LittleEndian, sfBag{GenNdx: 0, ModNdx: 0})
	binary.Write(&ibag, binary.LittleEndian, sfBag{GenNdx: 1, ModNdx: 0})

	var inst bytes.Buffer
	binary.Write(&inst, binary.LittleEndian, sfInst{InstName: namebuf("Tone Inst"), InstBagNdx: 0})
	binary.Write(&inst, binary.LittleEndian, sfInst{InstName: namebuf("EOI"), InstBagNdx: 1})

	var pgen bytes.Buffer
	binary.Write(&pgen, binary.LittleEndian, sfGenList{GenOper: uint16(voice.GenInstrument), GenAmount: 0})

	var pbag bytes.Buffer
	binary.Write(&pbag, binary.LittleEndian, sfBag{GenNdx: 0, ModNdx: 0})
	binary.Write(&pbag, binary.LittleEndian, sfBag{GenNdx: 1, ModNdx: 0})

	var phdr bytes.Buffer
	binary.Write(&phdr, binary.LittleEndian, sfPresetHeader{PresetName: namebuf("Test Patch"), Preset: 0, Bank: 0, PresetBagNdx: 0})
	binary.Write(&phdr, binary.LittleEndian, sfPresetHeader{PresetName: namebuf("EOP"), PresetBagNdx: 1})

	var pdta bytes.Buffer
	writeChunk(&pdta, "phdr", phdr.Bytes())
	writeChunk(&pdta, "pbag", pbag.Bytes())
	writeChunk(&pdta, "pmod", nil)
	writeChunk(&pdta, "pgen", pgen.Bytes())
	writeChunk(&pdta, "inst", inst.Bytes())
	writeChunk(&pdta, "ibag", ibag.Bytes())
	writeChunk(&pdta, "imod", nil)
	writeChunk(&pdta, "igen", igen.Bytes())
	writeChunk(&pdta, "shdr", shdr.Bytes())

	var riffBody bytes.Buffer
	riffBody.WriteString("sfbk")
	writeListChunk(&riffBody, "INFO", info.Bytes())
	writeListChunk(&riffBody, "sdta", sdta.Bytes())
	writeListChunk(&riffBody, "pdta", pdta.Bytes())

	var out bytes.Buffer
	writeChunk(&out, "RIFF", riffBody.Bytes())
	return out.Bytes()
}

func writeListChunk(buf *bytes.Buffer, form string, body []byte) {
	var inner bytes.Buffer
	inner.WriteString(form)
	inner.Write(body)
	writeChunk(buf, "LIST", inner.Bytes())
}

func TestLoadDecodesMinimalSoundFont(t *testing.T) {
	sf, err := Load(bytes.NewReader(buildMinimalSF2(t)))
	if err != nil {
		t.Fatalf("unexpected error loading soundfont: %v", err)
	}
	if sf.Name != "Test Bank" {
		t.Fatalf("expected name %q, got %q", "Test Bank", sf.Name)
	}
	if len(sf.SampleData) != 10 {
		t.Fatalf("expected 10 raw sample frames, got %d", len(sf.SampleData))
	}
	if len(sf.Samples) != 1 {
		t.Fatalf("expected 1 decoded sample (EOS record dropped), got %d", len(sf.Samples))
	}
	if len(sf.Instruments) != 1 {
		t.Fatalf("expected 1 instrument, got %d", len(sf.Instruments))
	}
	if len(sf.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(sf.Presets))
	}

	preset := sf.FindPreset(0, 0)
	if preset == nil {
		t.Fatal("expected to find preset at bank 0 program 0")
	}
	if preset.Name != "Test Patch" {
		t.Fatalf("expected preset name %q, got %q", "Test Patch", preset.Name)
	}
	if len(preset.Zones) != 1 {
		t.Fatalf("expected 1 preset zone, got %d", len(preset.Zones))
	}
	if instIdx := preset.Zones[0].Generators.GetOrDefault(voice.GenInstrument); instIdx != 0 {
		t.Fatalf("expected preset zone to reference instrument 0, got %d", instIdx)
	}

	inst := sf.Instruments[0]
	if len(inst.Zones) != 1 {
		t.Fatalf("expected 1 instrument zone, got %d", len(inst.Zones))
	}
	if sampleIdx := inst.Zones[0].Generators.GetOrDefault(voice.GenSampleID); sampleIdx != 0 {
		t.Fatalf("expected instrument zone to reference sample 0, got %d", sampleIdx)
	}
}

func TestBuildSamplesComputesMinAttenFromPeak(t *testing.T) {
	buffer := []int16{0, 16383, 0}
	samples := buildSamples([]sfSample{{Start: 0, End: 3, SampleRate: 44100}}, buffer)
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].MinAtten <= 0 {
		t.Fatalf("expected a half-scale peak to carry positive minimum attenuation, got %v", samples[0].MinAtten)
	}
}
