// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import (
	"math"

	"github.com/doomvu/engine/level"
)

// ThingHeightClip recomputes mo.FloorZ/CeilingZ/DropoffZ for its current
// (x,y) without moving it, the way the original code re-clips a thing's
// vertical envelope whenever a sector it stands in changes height (a
// PlaneMover ran this tick). It also returns onGround: whether mo's current
// z is at or below the recomputed floor (false means it is airborne).
func ThingHeightClip(lv *level.Level, mo *level.MapObject) (floor, ceiling, dropoff float64, onGround bool) {
	box := level.AABB{
		MinX: mo.X - mo.Radius, MaxX: mo.X + mo.Radius,
		MinY: mo.Y - mo.Radius, MaxY: mo.Y + mo.Radius,
	}

	ss := lv.PointInSubsector(mo.X, mo.Y)
	floor, ceiling, dropoff = math.Inf(-1), math.Inf(1), math.Inf(1)
	if ss != nil && ss.Sector != nil {
		floor = sectorFloorAt(ss.Sector, mo.X, mo.Y, mo.Z)
		ceiling = ss.Sector.CeilingHeightAt(mo.X, mo.Y)
		dropoff = floor
	}

	lv.BlockmapLineIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(l *level.Line) bool {
		if !lineTouchesBox(l, box) || !l.TwoSided() {
			return true
		}
		opening := LineOpening(l, mo.Z)
		if opening.Ceiling < ceiling {
			ceiling = opening.Ceiling
		}
		if opening.Floor > floor {
			floor = opening.Floor
		}
		lowFloor := math.Min(l.FrontSector.FloorHeight, l.BackSector.FloorHeight)
		if lowFloor < dropoff {
			dropoff = lowFloor
		}
		return true
	})

	mo.FloorZ, mo.CeilingZ = floor, ceiling
	if !math.IsInf(dropoff, 1) {
		mo.DropoffZ = dropoff
	}
	onGround = mo.Z <= floor
	return floor, ceiling, dropoff, onGround
}

// sectorFloorAt returns the highest extrafloor top at or below z, or the
// sector's base floor (ray-plane intersection at (x,y) for a vertex-slope
// sector, else the flat FloorHeight) if z is below every extrafloor — the
// vertical stacking rule a mover's clip uses to stand on top of a stacked
// slab instead of sinking through to the true floor.
func sectorFloorAt(s *level.Sector, x, y, z float64) float64 {
	best := s.FloorHeightAt(x, y)
	for _, ef := range s.Extrafloors {
		if ef.Top <= z && ef.Top > best {
			best = ef.Top
		}
	}
	return best
}
