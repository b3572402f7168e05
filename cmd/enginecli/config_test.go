// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingPathReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Audio.SampleRate != 44100 || cfg.Audio.MIDIStandard != "gm" {
		t.Fatalf("expected default config, got %+v", cfg.Audio)
	}
}

func TestLoadConfigNonexistentFileReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Simulation.TicksPerSecond != 35 {
		t.Fatalf("expected default ticks, got %d", cfg.Simulation.TicksPerSecond)
	}
}

func TestLoadConfigOverlaysOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "audio:\n  midiStandard: gs\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Audio.MIDIStandard != "gs" {
		t.Fatalf("expected overlaid midiStandard gs, got %q", cfg.Audio.MIDIStandard)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Fatalf("expected untouched default sampleRate, got %v", cfg.Audio.SampleRate)
	}
}
