// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command enginecli is a headless driver for the map runtime and
// SoundFont synthesizer: no window, no renderer, no IWAD parsing — it
// drives the same tick and render entry points an embedding game would,
// for smoke testing and offline MIDI rendering.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doomvu/engine/internal/dlog"
)

var (
	configPath string
	debug      bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enginecli",
		Short: "Headless driver for the doomvu map runtime and SoundFont synthesizer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			dlog.SetLevel(debug)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	root.AddCommand(newPlayCmd())
	root.AddCommand(newSimulateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
