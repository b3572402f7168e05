// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is enginecli's on-disk settings file: audio rendering defaults
// and the headless simulation's tick pacing, loaded with --config.
type Config struct {
	Audio struct {
		SampleRate   float64 `yaml:"sampleRate"`
		Volume       float64 `yaml:"volume"`
		MIDIStandard string  `yaml:"midiStandard"` // "gm", "gs", or "xg".
	} `yaml:"audio"`

	Simulation struct {
		TicksPerSecond int     `yaml:"ticksPerSecond"`
		StepSize       float64 `yaml:"stepSize"`
	} `yaml:"simulation"`
}

// defaultConfig matches a General MIDI device's own defaults: 44.1kHz
// stereo, full volume, GM bank interpretation, classic 35Hz tick rate.
func defaultConfig() *Config {
	c := &Config{}
	c.Audio.SampleRate = 44100
	c.Audio.Volume = 1.0
	c.Audio.MIDIStandard = "gm"
	c.Simulation.TicksPerSecond = 35
	return c
}

// loadConfig reads and merges a YAML config file over defaultConfig's
// values; a missing path is not an error, since every field has a
// sensible default.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
