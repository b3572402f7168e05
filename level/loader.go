// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

import "fmt"

// MapLoader is the narrow seam between this package and whatever external
// collaborator turns on-disk map data (WAD lumps, an AJBSP-built node tree,
// DDF line/sector special tables) into a populated Level. The map runtime
// never parses map files itself — see the spec's Non-goals.
type MapLoader interface {
	// Load populates and returns a new Level. The returned Level must
	// already satisfy Validate.
	Load(name string) (*Level, error)
}

// Validate checks the post-load consistency the rest of the engine
// requires: Sectors, Subsectors, Root, and Blockmap are populated, every
// subsector has a sector, and every line side's sector matches the line's
// front/back sector. Lines may be empty. A level that fails Validate is a data-load
// error (the spec's "malformed BSP" case is caught earlier, at traversal
// time, as a fatal logic error instead).
func (lv *Level) Validate() error {
	if len(lv.Sectors) == 0 {
		return fmt.Errorf("level: no sectors")
	}
	if len(lv.Subsectors) == 0 {
		return fmt.Errorf("level: no subsectors")
	}
	if lv.Root == nil {
		return fmt.Errorf("level: no BSP root")
	}
	if lv.Blockmap == nil {
		return fmt.Errorf("level: no blockmap")
	}
	for _, ss := range lv.Subsectors {
		if ss.Sector == nil {
			return fmt.Errorf("level: subsector %d has no sector", ss.ID)
		}
	}
	for _, l := range lv.Lines {
		for i, side := range l.Sides {
			if side == nil {
				continue
			}
			wantSector := l.FrontSector
			if i == 1 {
				wantSector = l.BackSector
			}
			if side.Sector != wantSector {
				return fmt.Errorf("level: line %d side %d sector mismatch", l.ID, i)
			}
		}
	}
	return nil
}
