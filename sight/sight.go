// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sight

import (
	"math"

	"github.com/doomvu/engine/level"
)

// EyeZ returns the z height a mobj looks out from: a player's eye is
// Z+ViewHeight, everything else is approximated at three quarters of its
// height, close enough for sight and autoaim checks that don't otherwise
// track a precise eye bone.
func EyeZ(mo *level.MapObject) float64 {
	if mo.Player != nil {
		return mo.Z + mo.Player.ViewHeight
	}
	return mo.Z + mo.Height*0.75
}

// Sight reports whether looker can see target: no LineBlockSight-flagged
// or one-sided line between them occludes the straight line from the
// looker's eye height to the target's mid-height, interpolated against each crossed line's SightGaps opening.
func Sight(lv *level.Level, looker, target *level.MapObject) bool {
	z1 := EyeZ(looker)
	z2 := target.Z + target.Height*0.5
	x1, y1 := looker.X, looker.Y
	x2, y2 := target.X, target.Y
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return true
	}

	blocked := false
	Traverse(lv, x1, y1, x2, y2, false, func(ic Intercept) bool {
		l := ic.Line
		if !l.TwoSided() || l.Flags&level.LineBlockSight != 0 {
			blocked = true
			return false
		}
		z := z1 + (z2-z1)*ic.Frac

		var open bool
		if lineHasSlope(l) {
			ix := x1 + (x2-x1)*ic.Frac
			iy := y1 + (y2-y1)*ic.Frac
			g := probeOpeningAt(l, ix, iy)
			open = z >= g.Floor && z <= g.Ceiling
		} else {
			gaps := l.SightGaps
			if len(gaps) == 0 {
				gaps = l.Gaps
			}
			open = zFitsAnyGap(gaps, z)
		}
		if !open {
			blocked = true
			return false
		}
		return true
	})
	return !blocked
}

// lineHasSlope reports whether either side of l borders a vertex-slope
// sector, in which case the precomputed flat Gaps/SightGaps intervals no
// longer describe the true opening and a hitscan probe against the actual
// floor/ceiling planes is needed instead.
func lineHasSlope(l *level.Line) bool {
	for _, s := range [2]*level.Sector{l.FrontSector, l.BackSector} {
		if s != nil && (s.FloorSlope != nil || s.CeilSlope != nil) {
			return true
		}
	}
	return false
}

// probeOpeningAt computes a line's vertical opening at (x,y) by evaluating
// each side's floor/ceiling plane directly — the vertex-slope fallback in
// place of the precomputed, flat Gaps interval.
func probeOpeningAt(l *level.Line, x, y float64) level.Gap {
	floor := l.FrontSector.FloorHeightAt(x, y)
	ceiling := l.FrontSector.CeilingHeightAt(x, y)
	if l.BackSector != nil {
		if f := l.BackSector.FloorHeightAt(x, y); f > floor {
			floor = f
		}
		if c := l.BackSector.CeilingHeightAt(x, y); c < ceiling {
			ceiling = c
		}
	}
	return level.Gap{Floor: floor, Ceiling: ceiling}
}

func zFitsAnyGap(gaps []level.Gap, z float64) bool {
	if len(gaps) == 0 {
		return true
	}
	for _, g := range gaps {
		if z >= g.Floor && z <= g.Ceiling {
			return true
		}
	}
	return false
}

// HitResult is the outcome of a LineAttack trace.
type HitResult struct {
	Line    *level.Line      // non-nil if a wall stopped the trace.
	Thing   *level.MapObject // non-nil if a shootable thing stopped the trace.
	X, Y, Z float64          // point of impact.
}

// LineAttack fires a hitscan from source's eye point along angle (radians,
// map convention) and slope (rise/run toward the target height), stopping
// at the nearest blocking line or shootable thing within distance. source
// itself is never hit.
func LineAttack(lv *level.Level, source *level.MapObject, angle, slope, distance float64) HitResult {
	x1, y1, z1 := source.X, source.Y, EyeZ(source)
	x2 := x1 + math.Cos(angle)*distance
	y2 := y1 + math.Sin(angle)*distance

	var result HitResult
	Traverse(lv, x1, y1, x2, y2, true, func(ic Intercept) bool {
		travelled := ic.Frac * distance
		z := z1 + slope*travelled

		if ic.Thing != nil {
			if ic.Thing == source || ic.Thing.Flags&level.MFShootable == 0 {
				return true
			}
			if z < ic.Thing.Z || z > ic.Thing.Z+ic.Thing.Height {
				return true
			}
			result.Thing = ic.Thing
			result.X = x1 + (x2-x1)*ic.Frac
			result.Y = y1 + (y2-y1)*ic.Frac
			result.Z = z
			return false
		}

		l := ic.Line
		if l.TwoSided() {
			ix := x1 + (x2-x1)*ic.Frac
			iy := y1 + (y2-y1)*ic.Frac
			var open bool
			if lineHasSlope(l) {
				g := probeOpeningAt(l, ix, iy)
				open = z >= g.Floor && z <= g.Ceiling
			} else {
				open = zFitsAnyGap(l.Gaps, z)
			}
			if open {
				return true // passes cleanly through the opening.
			}
		}
		result.Line = l
		result.X = x1 + (x2-x1)*ic.Frac
		result.Y = y1 + (y2-y1)*ic.Frac
		result.Z = z
		return false
	})
	return result
}

// AutoAim scans a narrow vertical cone along angle for the nearest
// shootable thing within distance, returning the slope that would aim at
// it. ok is false if nothing was found, in which case slope is 0.
func AutoAim(lv *level.Level, source *level.MapObject, angle, distance float64) (slope float64, target *level.MapObject, ok bool) {
	const aimConeSlope = 100.0 / 160.0 // matches the classic ~35 degree vertical search cone.

	x1, y1, z1 := source.X, source.Y, EyeZ(source)
	x2 := x1 + math.Cos(angle)*distance
	y2 := y1 + math.Sin(angle)*distance

	bestSlope := 0.0
	found := false
	blocked := false

	Traverse(lv, x1, y1, x2, y2, true, func(ic Intercept) bool {
		if blocked {
			return false
		}
		travelled := ic.Frac * distance
		if travelled <= 0 {
			return true
		}

		if ic.Line != nil {
			l := ic.Line
			if !l.TwoSided() {
				blocked = true
				return false
			}
			ix := x1 + math.Cos(angle)*travelled
			iy := y1 + math.Sin(angle)*travelled
			topSlope := (l.FrontSector.CeilingHeightAt(ix, iy) - z1) / travelled
			botSlope := (l.FrontSector.FloorHeightAt(ix, iy) - z1) / travelled
			if l.BackSector != nil {
				if s := (l.BackSector.CeilingHeightAt(ix, iy) - z1) / travelled; s < topSlope {
					topSlope = s
				}
				if s := (l.BackSector.FloorHeightAt(ix, iy) - z1) / travelled; s > botSlope {
					botSlope = s
				}
			}
			if topSlope <= -aimConeSlope || botSlope >= aimConeSlope {
				blocked = true
				return false
			}
			return true
		}

		mo := ic.Thing
		if mo == source || mo.Flags&level.MFShootable == 0 {
			return true
		}
		topSlope := (mo.Z + mo.Height - z1) / travelled
		botSlope := (mo.Z - z1) / travelled
		if topSlope < -aimConeSlope || botSlope > aimConeSlope {
			return true // outside the vertical aim cone.
		}
		if topSlope > aimConeSlope {
			topSlope = aimConeSlope
		}
		if botSlope < -aimConeSlope {
			botSlope = -aimConeSlope
		}
		bestSlope = (topSlope + botSlope) / 2
		target = mo
		found = true
		return false
	})

	return bestSlope, target, found
}
