// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

import (
	"math"

	"github.com/doomvu/engine/internal/dlog"
)

// blockmap.go implements the uniform-grid spatial index: a rectangular
// grid of BlockSize cells, each owning the lines that touch it and the
// mobjs centered in it, plus the SetThingPosition/UnsetThingPosition
// linkage discipline that keeps the BSP, blockmap, and touch-node indices
// consistent with each other.

// Cell owns the lines that touch it and the mobjs whose center lies in it.
type Cell struct {
	Lines []*Line
	Mobjs map[int]*MapObject
}

// Blockmap is a rectangular grid of Cells, origin (OriginX, OriginY),
// Width x Height cells of BlockSize map units each.
type Blockmap struct {
	OriginX, OriginY float64
	Width, Height    int
	Cells            []Cell
}

// NewBlockmap creates a blockmap grid. Line linkage is filled in by the
// caller (a loader) after construction via LinkLine.
func NewBlockmap(originX, originY float64, width, height int) *Blockmap {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i].Mobjs = map[int]*MapObject{}
	}
	return &Blockmap{OriginX: originX, OriginY: originY, Width: width, Height: height, Cells: cells}
}

func (bm *Blockmap) cellCoord(x, y float64) (bx, by int, ok bool) {
	bx = int(math.Floor((x - bm.OriginX) / BlockSize))
	by = int(math.Floor((y - bm.OriginY) / BlockSize))
	return bx, by, bx >= 0 && by >= 0 && bx < bm.Width && by < bm.Height
}

func (bm *Blockmap) cellAt(bx, by int) *Cell {
	return &bm.Cells[by*bm.Width+bx]
}

// LinkLine registers a line with every cell its bounding box overlaps.
// Expected to be called once per line by the level loader.
func (bm *Blockmap) LinkLine(l *Line) {
	minX, maxX := math.Min(l.V1.X, l.V2.X), math.Max(l.V1.X, l.V2.X)
	minY, maxY := math.Min(l.V1.Y, l.V2.Y), math.Max(l.V1.Y, l.V2.Y)
	bx0, by0, _ := bm.cellCoord(minX, minY)
	bx1, by1, _ := bm.cellCoord(maxX, maxY)
	bx0, bx1 = clampRange(bx0, bx1, bm.Width)
	by0, by1 = clampRange(by0, by1, bm.Height)
	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			c := bm.cellAt(bx, by)
			c.Lines = append(c.Lines, l)
		}
	}
}

func clampRange(a, b, limit int) (int, int) {
	if a > b {
		a, b = b, a
	}
	if a < 0 {
		a = 0
	}
	if b >= limit {
		b = limit - 1
	}
	if a > b {
		return 0, -1 // empty range, handled by callers' loop bound.
	}
	return a, b
}

// BlockmapLineIterator visits each line in a cell overlapping the AABB
// exactly once, using the level's ValidCount to dedup lines referenced by
// multiple cells. fn returning false stops iteration early.
func (lv *Level) BlockmapLineIterator(x1, y1, x2, y2 float64, fn func(*Line) bool) {
	bm := lv.Blockmap
	if bm == nil {
		return
	}
	stamp := lv.NextValidCount()
	minX, maxX := math.Min(x1, x2), math.Max(x1, x2)
	minY, maxY := math.Min(y1, y2), math.Max(y1, y2)
	bx0, by0, _ := bm.cellCoord(minX, minY)
	bx1, by1, _ := bm.cellCoord(maxX, maxY)
	bx0, bx1 = clampRange(bx0, bx1, bm.Width)
	by0, by1 = clampRange(by0, by1, bm.Height)
	seen := map[int]int{}
	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			c := bm.cellAt(bx, by)
			for _, l := range c.Lines {
				if seen[l.ID] == stamp {
					continue
				}
				seen[l.ID] = stamp
				if !fn(l) {
					return
				}
			}
		}
	}
}

// BlockmapThingIterator visits each mobj whose center lies in a cell
// overlapping the (expanded-by-one-cell) AABB exactly once. The expansion
// accounts for thing radii up to one cell (BlockSize) across.
func (lv *Level) BlockmapThingIterator(x1, y1, x2, y2 float64, fn func(*MapObject) bool) {
	bm := lv.Blockmap
	if bm == nil {
		return
	}
	stamp := lv.NextValidCount()
	minX, maxX := math.Min(x1, x2)-BlockSize, math.Max(x1, x2)+BlockSize
	minY, maxY := math.Min(y1, y2)-BlockSize, math.Max(y1, y2)+BlockSize
	bx0, by0, _ := bm.cellCoord(minX, minY)
	bx1, by1, _ := bm.cellCoord(maxX, maxY)
	bx0, bx1 = clampRange(bx0, bx1, bm.Width)
	by0, by1 = clampRange(by0, by1, bm.Height)
	seen := map[int]int{}
	for by := by0; by <= by1; by++ {
		for bx := bx0; bx <= bx1; bx++ {
			c := bm.cellAt(bx, by)
			for id, mo := range c.Mobjs {
				if seen[id] == stamp {
					continue
				}
				seen[id] = stamp
				if !fn(mo) {
					return
				}
			}
		}
	}
}

// SetThingPosition links mo into the subsector, blockmap cell, and touch
// set appropriate for its current (X,Y). Off-map coordinates silently skip
// blockmap linkage (mo survives with no blockmap presence), per the
// spec's cosmetic-skip failure semantics.
func (lv *Level) SetThingPosition(mo *MapObject) {
	ss := lv.PointInSubsector(mo.X, mo.Y)
	if ss == nil {
		dlog.Fatalf("level: BSP produced no containing subsector for (%.2f, %.2f)", mo.X, mo.Y)
		return
	}
	mo.Subsector = ss
	if mo.Flags&MFNoSector == 0 {
		ss.Mobjs[mo.ID] = mo
		mo.subsecLinked = true
	}

	if mo.Flags&MFNoBlockmap == 0 && lv.Blockmap != nil {
		if bx, by, ok := lv.Blockmap.cellCoord(mo.X, mo.Y); ok {
			lv.Blockmap.cellAt(bx, by).Mobjs[mo.ID] = mo
			mo.blockX, mo.blockY = bx, by
			mo.blockLinked = true
		}
	}

	lv.recomputeTouchSet(mo)
}

// recomputeTouchSet descends the BSP against mo's radius AABB, collecting
// every leaf whose sector isn't already touched, and installs fresh touch
// nodes for the result (eager unlink-then-relink, see touch.go).
func (lv *Level) recomputeTouchSet(mo *MapObject) {
	lv.clearTouchSet(mo)
	box := AABB{
		MinX: mo.X - mo.Radius, MaxX: mo.X + mo.Radius,
		MinY: mo.Y - mo.Radius, MaxY: mo.Y + mo.Radius,
	}
	touched := map[int]bool{}
	lv.LeavesOverlapping(box, func(ss *Subsector) bool {
		if ss.Sector == nil || touched[ss.Sector.ID] {
			return true
		}
		touched[ss.Sector.ID] = true
		lv.addTouch(mo, ss.Sector)
		return true
	})
}

// UnsetThingPosition detaches mo from every index it is linked into.
func (lv *Level) UnsetThingPosition(mo *MapObject) {
	if mo.subsecLinked && mo.Subsector != nil {
		delete(mo.Subsector.Mobjs, mo.ID)
		mo.subsecLinked = false
	}
	if mo.blockLinked && lv.Blockmap != nil {
		delete(lv.Blockmap.cellAt(mo.blockX, mo.blockY).Mobjs, mo.ID)
		mo.blockLinked = false
	}
	lv.clearTouchSet(mo)
}

// UnsetThingFinal releases the remaining bookkeeping for a mobj that is
// being permanently removed. With eager touch-node unlinking this is a
// no-op beyond clearing the subsector pointer, kept as a distinct call so
// the removal pipeline documented in the spec has an explicit final step.
func (lv *Level) UnsetThingFinal(mo *MapObject) {
	mo.Subsector = nil
}

// ChangeThingPosition is the idempotent Unset+Set round trip TryMove calls
// after committing a new (x,y,z): the mobj ends up in the subsector,
// blockmap cell, and touch-set its new coordinates imply.
func (lv *Level) ChangeThingPosition(mo *MapObject) {
	lv.UnsetThingPosition(mo)
	lv.SetThingPosition(mo)
}
