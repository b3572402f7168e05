// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"encoding/binary"
	"io"
)

// wavHeader is the canonical 44-byte RIFF/WAVE PCM header layout, written
// field by field in little-endian order.
type wavHeader struct {
	RiffID      [4]byte
	FileSize    uint32
	WaveID      [4]byte
	Fmt         [4]byte
	FmtSize     uint32
	AudioFormat uint16
	Channels    uint16
	Frequency   uint32
	ByteRate    uint32
	BlockAlign  uint16
	SampleBits  uint16
	DataID      [4]byte
	DataSize    uint32
}

// writeWavS16 writes samples (interleaved stereo, 16-bit PCM) to w as a
// complete WAV file at the given sample rate.
func writeWavS16(w io.Writer, samples []int16, sampleRate uint32) error {
	dataSize := uint32(len(samples) * 2)
	hdr := wavHeader{
		RiffID:      [4]byte{'R', 'I', 'F', 'F'},
		FileSize:    36 + dataSize,
		WaveID:      [4]byte{'W', 'A', 'V', 'E'},
		Fmt:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:     16,
		AudioFormat: 1,
		Channels:    2,
		Frequency:   sampleRate,
		ByteRate:    sampleRate * 2 * 2,
		BlockAlign:  4,
		SampleBits:  16,
		DataID:      [4]byte{'d', 'a', 't', 'a'},
		DataSize:    dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, samples)
}
