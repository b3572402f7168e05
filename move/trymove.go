// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package move implements the relative-motion collision resolver: TryMove,
// SlideMove, TeleportMove, and ThingHeightClip, with step/drop/slide/slope
// semantics. It is the doomvu analogue of vu/move's Mover.Step, generalized
// from vu's rigid-body broadphase/narrowphase/solver pipeline to the
// line-and-thing-contact model a BSP map runtime needs.
package move

import (
	"math"

	"github.com/doomvu/engine/level"
)

// DefaultStepSize is the maximum height difference a mover can step up or
// down without being blocked.
const DefaultStepSize = 24.0

// Options tunes TryMove's behaviour per call site (players vs monsters vs
// missiles all reuse the same resolver with different options).
type Options struct {
	StepSize float64 // 0 defaults to DefaultStepSize.

	// TriggerSpecial is invoked for every special line the move crosses,
	// once the move is committed. Left nil to skip triggering (e.g. for
	// speculative Collide-style checks).
	TriggerSpecial func(l *level.Line, mo *level.MapObject)

	// Is3DGameplayEnabled allows floating over lower solids using extrafloor
	// stacking rules; off emulates classic 2.5D blocking.
	Is3DGameplayEnabled bool

	// ResolveMissile handles mover-is-missile contact with another thing.
	// Returning true means the contact was resolved (pass through or the
	// other thing was destroyed) and the move should continue; false means
	// the missile is blocked by the contact.
	ResolveMissile func(missile, other *level.MapObject) (resolved bool)

	// OnPickup is called when mover has level.MFPickup and touches a
	// special (level.MFSpecial) thing during the move.
	OnPickup func(mover, item *level.MapObject)

	// OnSlam is called when a Skullfly-flagged mover's killing contact hits
	// another thing; the move stops regardless of the callback. It is also
	// called as OnSlam(touchy, mover) when a solid mover touches an
	// MFTouchy thing, and that contact does not stop the move.
	OnSlam func(mover, other *level.MapObject)
}

func (o Options) stepSize() float64 {
	if o.StepSize <= 0 {
		return DefaultStepSize
	}
	return o.StepSize
}

// contactGather accumulates the constraints TryMove discovers while
// scanning the blockmap for lines and things near the destination AABB.
type contactGather struct {
	minCeiling float64
	maxFloor   float64
	minDropoff float64
	blockLine  *level.Line
	crossed    []*level.Line
	rejected   bool
}

// TryMove decides whether mo may occupy (destX, destY) at its current z,
// and if accepted, performs the move: links mo at the new position via
// level.ChangeThingPosition, updates FloorZ/CeilingZ/DropoffZ, and fires
// TriggerSpecial for every special line crossed.
//
// TryMove returns false on any reject. When it does, blockLine points at
// the first line that blocked the move, for the caller's convenience.
func TryMove(lv *level.Level, mo *level.MapObject, destX, destY float64, opts Options) (ok bool, blockLine *level.Line) {
	if mo.Flags&level.MFNoClip != 0 {
		oldX, oldY := mo.X, mo.Y
		mo.OldX, mo.OldY = oldX, oldY
		mo.X, mo.Y = destX, destY
		lv.ChangeThingPosition(mo)
		return true, nil
	}

	box := level.AABB{
		MinX: destX - mo.Radius, MaxX: destX + mo.Radius,
		MinY: destY - mo.Radius, MaxY: destY + mo.Radius,
	}

	g := &contactGather{minCeiling: math.Inf(1), maxFloor: math.Inf(-1), minDropoff: math.Inf(1)}

	destSS := lv.PointInSubsector(destX, destY)
	if destSS == nil || destSS.Sector == nil {
		return false, nil
	}
	g.maxFloor = sectorFloorAt(destSS.Sector, destX, destY, mo.Z)
	g.minCeiling = destSS.Sector.CeilingHeightAt(destX, destY)
	g.minDropoff = destSS.Sector.FloorHeightAt(destX, destY)

	lv.BlockmapLineIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(l *level.Line) bool {
		if !lineTouchesBox(l, box) {
			return true
		}
		gatherLine(l, mo, box, g)
		return !g.rejected
	})
	if g.rejected {
		return false, g.blockLine
	}

	thingBlocked := gatherThings(lv, mo, destX, destY, box, opts, g)
	if thingBlocked {
		return false, g.blockLine
	}

	if !fits(mo, g) {
		return false, g.blockLine
	}

	stepUp := g.maxFloor - mo.Z
	if stepUp > opts.stepSize() {
		// Report the two-sided line whose opening floor is the step that
		// is too tall.
		stepLine := g.blockLine
		lv.BlockmapLineIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(l *level.Line) bool {
			if lineTouchesBox(l, box) && l.TwoSided() && LineOpening(l, mo.Z).Floor == g.maxFloor {
				stepLine = l
				return false
			}
			return true
		})
		return false, stepLine
	}

	isMonster := mo.Flags&level.MFCountKill != 0
	if isMonster && mo.Flags&level.MFDropoff == 0 {
		stepDown := mo.FloorZ - g.maxFloor
		if stepDown > opts.stepSize() {
			return false, g.blockLine
		}
		if g.maxFloor-g.minDropoff > opts.stepSize() && !math.IsInf(g.minDropoff, 1) {
			return false, g.blockLine
		}
	}

	if mo.Player != nil {
		ss := lv.PointInSubsector(destX, destY)
		if ss != nil && ss.Sector != nil && ss.Sector.Lowering && g.maxFloor > mo.FloorZ {
			return false, g.blockLine
		}
	}

	oldX, oldY := mo.X, mo.Y
	mo.OldX, mo.OldY = mo.X, mo.Y
	mo.X, mo.Y = destX, destY
	mo.FloorZ = g.maxFloor
	mo.CeilingZ = g.minCeiling
	if !math.IsInf(g.minDropoff, 1) {
		mo.DropoffZ = g.minDropoff
	}
	lv.ChangeThingPosition(mo)

	if opts.TriggerSpecial != nil {
		for _, l := range g.crossed {
			sideBefore := l.PointOnSide(oldX, oldY)
			sideAfter := l.PointOnSide(mo.X, mo.Y)
			if sideBefore != sideAfter && l.Special != 0 {
				opts.TriggerSpecial(l, mo)
			}
		}
	}
	return true, nil
}

func fits(mo *level.MapObject, g *contactGather) bool {
	return g.minCeiling-g.maxFloor >= mo.Height
}

func lineTouchesBox(l *level.Line, box level.AABB) bool {
	lbox := level.AABB{
		MinX: math.Min(l.V1.X, l.V2.X), MaxX: math.Max(l.V1.X, l.V2.X),
		MinY: math.Min(l.V1.Y, l.V2.Y), MaxY: math.Max(l.V1.Y, l.V2.Y),
	}
	return lbox.Overlaps(box)
}

// gatherLine classifies a single line contacted by the move and folds its
// constraints into g. Rejection for a flat-out blocking line is immediate;
// otherwise the line's opening narrows the floor/ceiling envelope.
func gatherLine(l *level.Line, mo *level.MapObject, box level.AABB, g *contactGather) {
	if !l.TwoSided() {
		g.rejected = true
		g.blockLine = l
		return
	}
	if l.Flags&level.LineBlocking != 0 {
		g.rejected = true
		g.blockLine = l
		return
	}
	if mo.Flags&level.MFCountKill != 0 && l.Flags&level.LineBlockMonsters != 0 {
		g.rejected = true
		g.blockLine = l
		return
	}
	if mo.Player != nil && l.Flags&level.LineBlockPlayers != 0 {
		g.rejected = true
		g.blockLine = l
		return
	}

	opening := LineOpening(l, mo.Z)
	if opening.Ceiling < g.minCeiling {
		g.minCeiling = opening.Ceiling
	}
	if opening.Floor > g.maxFloor {
		g.maxFloor = opening.Floor
	}
	lowFloor := math.Min(l.FrontSector.FloorHeight, l.BackSector.FloorHeight)
	if lowFloor < g.minDropoff {
		g.minDropoff = lowFloor
	}
	if l.Special != 0 {
		g.crossed = append(g.crossed, l)
	}
}

// LineOpening picks the best-fitting stacked gap for a mover currently at
// height z: an exact containing interval if one exists, otherwise the gap
// whose floor is closest to z. With no extrafloor-derived gaps it falls
// back to the plain two-sided opening (min ceiling, max floor).
func LineOpening(l *level.Line, z float64) level.Gap {
	if len(l.Gaps) == 0 {
		return level.Gap{
			Floor:   math.Max(l.FrontSector.FloorHeight, l.BackSector.FloorHeight),
			Ceiling: math.Min(l.FrontSector.CeilingHeight, l.BackSector.CeilingHeight),
		}
	}
	best := l.Gaps[0]
	bestDist := math.Inf(1)
	for _, gp := range l.Gaps {
		if z >= gp.Floor && z <= gp.Ceiling {
			return gp
		}
		d := math.Abs(gp.Floor - z)
		if d < bestDist {
			bestDist = d
			best = gp
		}
	}
	return best
}

// gatherThings applies the mover-vs-thing contact sub-rules (a)-(e) from
// the spec: pass-through, missile contact, pickups, touchy auto-death,
// shoveable pushes, and skullfly killing contact. Returns true if the move
// is blocked by a thing.
func gatherThings(lv *level.Level, mo *level.MapObject, destX, destY float64, box level.AABB, opts Options, g *contactGather) bool {
	blocked := false
	lv.BlockmapThingIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(other *level.MapObject) bool {
		if other == mo || other.Flags&level.MFSolid == 0 && other.Flags&level.MFSpecial == 0 && other.Flags&level.MFTouchy == 0 {
			return true
		}
		dx, dy := destX-other.X, destY-other.Y
		dist := math.Hypot(dx, dy)
		if dist >= mo.Radius+other.Radius {
			return true
		}
		if mo.Z+mo.Height <= other.Z || other.Z+other.Height <= mo.Z {
			return true // vertically clear.
		}

		switch {
		case mo.Flags&level.MFMissile != 0 && other != mo.Source:
			if opts.ResolveMissile != nil && opts.ResolveMissile(mo, other) {
				return true
			}
			blocked = true
			return false
		case other.Flags&level.MFSpecial != 0 && mo.Flags&level.MFPickup != 0:
			if opts.OnPickup != nil {
				opts.OnPickup(mo, other)
			}
			return true
		case other.Flags&level.MFTouchy != 0 && mo.Flags&level.MFSolid != 0:
			if opts.OnSlam != nil {
				opts.OnSlam(other, mo)
			}
			return true
		case other.Flags&level.MFShoveable != 0:
			push := 1.0
			if dist > 0 {
				other.MomX += dx / dist * push
				other.MomY += dy / dist * push
			}
			return true
		case mo.Flags&level.MFSkullfly != 0:
			if opts.OnSlam != nil {
				opts.OnSlam(mo, other)
			}
			blocked = true
			return false
		default:
			blocked = true
			return false
		}
	})
	return blocked
}
