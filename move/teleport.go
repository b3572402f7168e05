// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import (
	"math"

	"github.com/doomvu/engine/level"
)

// TeleportOptions tunes TeleportMove's telefrag behaviour.
type TeleportOptions struct {
	// Telefrag, when true, instantly kills any shootable thing occupying
	// the destination instead of blocking the teleport (the classic
	// player-teleporter behaviour). Monster teleporters in the original
	// game leave this false and simply fail the teleport on contact.
	Telefrag bool

	// OnTelefrag is called once per thing killed by a telefragging move.
	OnTelefrag func(killer, victim *level.MapObject)
}

// TeleportMove instantly relocates mo to (x, y, z) on the given angle,
// bypassing the incremental line/step checks TryMove performs, but still
// rejecting on solid thing contact (optionally telefragging instead).
// Returns false without moving mo if the destination cannot be occupied.
func TeleportMove(lv *level.Level, mo *level.MapObject, x, y, z, angle float64, opts TeleportOptions) bool {
	ss := lv.PointInSubsector(x, y)
	if ss == nil || ss.Sector == nil {
		return false
	}
	if ss.Sector.CeilingHeight-ss.Sector.FloorHeight < mo.Height {
		return false
	}

	box := level.AABB{
		MinX: x - mo.Radius, MaxX: x + mo.Radius,
		MinY: y - mo.Radius, MaxY: y + mo.Radius,
	}
	var victims []*level.MapObject
	blocked := false
	lv.BlockmapThingIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(other *level.MapObject) bool {
		if other == mo || other.Flags&level.MFSolid == 0 {
			return true
		}
		dist := math.Hypot(x-other.X, y-other.Y)
		if dist >= mo.Radius+other.Radius {
			return true
		}
		if z+mo.Height <= other.Z || other.Z+other.Height <= z {
			return true
		}
		if !opts.Telefrag || other.Flags&level.MFShootable == 0 {
			blocked = true
			return false
		}
		victims = append(victims, other)
		return true
	})
	if blocked {
		return false
	}

	for _, v := range victims {
		lv.RemoveMapObject(v)
		if opts.OnTelefrag != nil {
			opts.OnTelefrag(mo, v)
		}
	}

	mo.OldX, mo.OldY, mo.OldZ = mo.X, mo.Y, mo.Z
	mo.X, mo.Y, mo.Z = x, y, z
	mo.Angle = angle
	mo.MomX, mo.MomY, mo.MomZ = 0, 0, 0
	lv.ChangeThingPosition(mo)
	ThingHeightClip(lv, mo)
	return true
}
