// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/doomvu/engine/channel"
	"github.com/doomvu/engine/internal/dlog"
)

// timedEvent is one MIDI channel-voice message, already resolved to an
// absolute render-time offset.
type timedEvent struct {
	micros  int64
	status  channel.MessageStatus
	chanNum uint8
	param1  uint8
	param2  uint8
}

// releaseTailSeconds is how long rendering continues past the last MIDI
// event, giving release envelopes time to reach silence.
const releaseTailSeconds = 3.0

func newPlayCmd() *cobra.Command {
	var soundfontPath, midiPath, outPath string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Render a Standard MIDI File through a loaded SoundFont to a WAV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runPlay(cfg, soundfontPath, midiPath, outPath)
		},
	}
	cmd.Flags().StringVar(&soundfontPath, "soundfont", "", "path to an SF2 SoundFont file (required)")
	cmd.Flags().StringVar(&midiPath, "midi", "", "path to a Standard MIDI File to render (required)")
	cmd.Flags().StringVar(&outPath, "out", "out.wav", "path to write the rendered WAV file")
	cmd.MarkFlagRequired("soundfont")
	cmd.MarkFlagRequired("midi")
	return cmd
}

func runPlay(cfg *Config, soundfontPath, midiPath, outPath string) error {
	synth := channel.New(cfg.Audio.SampleRate)
	synth.SetVolume(cfg.Audio.Volume)
	synth.SetMIDIStandard(parseStandard(cfg.Audio.MIDIStandard), false)

	sfFile, err := os.Open(soundfontPath)
	if err != nil {
		return fmt.Errorf("opening soundfont: %w", err)
	}
	defer sfFile.Close()
	if err := synth.LoadSoundFont(sfFile); err != nil {
		return err
	}

	events, err := readMIDIEvents(midiPath)
	if err != nil {
		return fmt.Errorf("reading MIDI file: %w", err)
	}
	dlog.Debugf("enginecli: dispatching %d MIDI events", len(events))

	totalMicros := int64(releaseTailSeconds * 1e6)
	if n := len(events); n > 0 {
		totalMicros += events[n-1].micros
	}
	totalSamples := int(float64(totalMicros) * cfg.Audio.SampleRate / 1e6)
	buffer := make([]int16, totalSamples*2)

	rendered := 0
	for _, ev := range events {
		target := int(float64(ev.micros) * cfg.Audio.SampleRate / 1e6)
		if target > rendered {
			synth.RenderS16(buffer[rendered*2 : target*2])
			rendered = target
		}
		synth.ProcessChannelMessage(ev.status, ev.chanNum, ev.param1, ev.param2)
	}
	if rendered < totalSamples {
		synth.RenderS16(buffer[rendered*2:])
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := writeWavS16(out, buffer, uint32(cfg.Audio.SampleRate)); err != nil {
		return err
	}
	dlog.Debugf("enginecli: wrote %d frames to %s", totalSamples, outPath)
	return nil
}

func parseStandard(s string) channel.Standard {
	switch s {
	case "gs":
		return channel.GS
	case "xg":
		return channel.XG
	default:
		return channel.GM
	}
}

// readMIDIEvents decodes every channel-voice message in path, converted
// to absolute microsecond offsets and sorted by time — smf.ReadFile
// already interleaves tracks in tempo-adjusted time order, this just
// collects and re-asserts that ordering.
func readMIDIEvents(path string) ([]timedEvent, error) {
	var events []timedEvent

	err := smf.ReadFile(path, func(te smf.TrackEvent) {
		msg := te.Message
		var ch, p1, p2 uint8
		var bendRel int16
		var bendAbs uint16

		switch {
		case msg.GetNoteOn(&ch, &p1, &p2):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.NoteOn, ch, p1, p2})
		case msg.GetNoteOff(&ch, &p1, &p2):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.NoteOff, ch, p1, 0})
		case msg.GetPolyAfterTouch(&ch, &p1, &p2):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.KeyPressure, ch, p1, p2})
		case msg.GetControlChange(&ch, &p1, &p2):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.ControlChange, ch, p1, p2})
		case msg.GetProgramChange(&ch, &p1):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.ProgramChange, ch, p1, 0})
		case msg.GetAfterTouch(&ch, &p1):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.ChannelPressure, ch, p1, 0})
		case msg.GetPitchBend(&ch, &bendRel, &bendAbs):
			events = append(events, timedEvent{te.AbsMicroSeconds, channel.PitchBend, ch, uint8(bendAbs & 0x7f), uint8(bendAbs >> 7)})
		}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].micros < events[j].micros })
	return events, nil
}
