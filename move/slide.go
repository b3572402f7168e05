// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package move

import (
	"math"

	"github.com/doomvu/engine/level"
)

// SlideMove resolves a mover's momentum against the first blocking line it
// meets, by projecting the remaining momentum onto the blocking wall and
// retrying the reduced move, twice. A final stair-step fallback attempts
// the two axis-aligned component moves independently, the same trick the
// original wall-slide code uses to get monsters unstuck in corners.
//
// SlideMove mutates mo.MomX/MomY in place to the resolved (possibly zeroed)
// remainder, and leaves mo positioned wherever the resolved portion of the
// move landed.
func SlideMove(lv *level.Level, mo *level.MapObject, opts Options) {
	momX, momY := mo.MomX, mo.MomY

	for i := 0; i < 2; i++ {
		destX, destY := mo.X+momX, mo.Y+momY
		if ok, _ := TryMove(lv, mo, destX, destY, opts); ok {
			mo.MomX, mo.MomY = momX, momY
			return
		}

		blockLine := firstBlockingLine(lv, mo, destX, destY, opts)
		if blockLine == nil {
			break
		}
		momX, momY = projectAlongWall(blockLine, momX, momY)
		if momX == 0 && momY == 0 {
			break
		}
	}

	// Stair-step fallback: try each axis independently so a mover sliding
	// into a corner still makes whatever progress the open axis allows.
	if ok, _ := TryMove(lv, mo, mo.X+momX, mo.Y, opts); ok {
		mo.MomY = 0
		mo.MomX = momX
		return
	}
	if ok, _ := TryMove(lv, mo, mo.X, mo.Y+momY, opts); ok {
		mo.MomX = 0
		mo.MomY = momY
		return
	}
	mo.MomX, mo.MomY = 0, 0
}

// firstBlockingLine re-derives which line rejected the attempted move, by
// rerunning TryMove's line classification pass alone (cheaper than
// threading the blockLine out of every reject branch above, and slide
// retries are rare relative to TryMove's own call volume).
func firstBlockingLine(lv *level.Level, mo *level.MapObject, destX, destY float64, opts Options) *level.Line {
	box := level.AABB{
		MinX: destX - mo.Radius, MaxX: destX + mo.Radius,
		MinY: destY - mo.Radius, MaxY: destY + mo.Radius,
	}
	var block *level.Line
	lv.BlockmapLineIterator(box.MinX, box.MinY, box.MaxX, box.MaxY, func(l *level.Line) bool {
		if !lineTouchesBox(l, box) {
			return true
		}
		if !l.TwoSided() || l.Flags&level.LineBlocking != 0 {
			block = l
			return false
		}
		return true
	})
	return block
}

// projectAlongWall removes the momentum component perpendicular to the
// wall, leaving only the component parallel to it — the standard
// slide-along-the-wall vector projection.
func projectAlongWall(l *level.Line, momX, momY float64) (float64, float64) {
	wallLen := l.Length
	if wallLen == 0 {
		return 0, 0
	}
	ux, uy := l.Dx/wallLen, l.Dy/wallLen
	dot := momX*ux + momY*uy
	return ux * dot, uy * dot
}

// PointOnLineOpeningFloor reports the floor height of the gap a mover at z
// would land in if it crossed l, for callers (e.g. sight/hitscan) that only
// need the floor without running a full TryMove.
func PointOnLineOpeningFloor(l *level.Line, z float64) float64 {
	return LineOpening(l, z).Floor
}

// clampMomentum scales momentum down so its magnitude does not exceed a
// speed cap, without changing direction.
func clampMomentum(momX, momY, max float64) (float64, float64) {
	speed := math.Hypot(momX, momY)
	if speed <= max || speed == 0 {
		return momX, momY
	}
	scale := max / speed
	return momX * scale, momY * scale
}
