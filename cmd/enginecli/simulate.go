// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doomvu/engine/internal/dlog"
	"github.com/doomvu/engine/level"
	"github.com/doomvu/engine/move"
	"github.com/doomvu/engine/player"
)

func newSimulateCmd() *cobra.Command {
	var ticks int
	var forward float64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless smoke test of the player/move tick loop in a single-room level",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			runSimulate(cfg, ticks, forward)
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 350, "number of ticks to run (35 ticks/sec convention)")
	cmd.Flags().Float64Var(&forward, "forward", 1.0, "constant forward-move axis value, -1..1")
	return cmd
}

// buildRoom constructs a single 1024x1024 map-unit room, floor at 0,
// ceiling at 256: just enough level for SlideMove/ThingHeightClip to have
// somewhere to resolve movement against.
func buildRoom() *level.Level {
	lv := level.NewLevel()
	sector := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{sector}

	ss := level.NewSubsector(0, sector)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	sector.Subsectors = []*level.Subsector{ss}
	lv.Root = ss

	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)
	return lv
}

func runSimulate(cfg *Config, ticks int, forward float64) {
	lv := buildRoom()
	def := &level.MapObjectDef{Name: "player", Radius: 16, Height: 56, Flags: level.MFSolid | level.MFShootable}
	mo := lv.CreateMapObject(def, -400, 0, 0)
	mo.Health = 100
	mo.Player = &level.PlayerInfo{ViewHeight: player.ViewHeightMax, Powerups: map[int]int{}}

	opts := move.Options{StepSize: cfg.Simulation.StepSize}
	cmd := player.TicCmd{ForwardMove: forward, Angle: 0}

	for i := 0; i < ticks; i++ {
		player.Think(lv, mo, cmd, opts)
		if i%35 == 0 {
			dlog.Debugf("enginecli: tick %d pos=(%.1f,%.1f,%.1f)", i, mo.X, mo.Y, mo.Z)
		}
	}

	fmt.Printf("ran %d ticks, final position (%.2f, %.2f, %.2f), floor=%.2f\n", ticks, mo.X, mo.Y, mo.Z, mo.FloorZ)
}
