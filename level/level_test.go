// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

import (
	"math"
	"testing"
)

// newTestLevel builds a minimal two-sector level split by a single BSP
// node: x<0 is sector 0, x>=0 is sector 1, both 512 map units wide/tall,
// with a blockmap covering [-512, 512] on each axis.
func newTestLevel() *Level {
	lv := NewLevel()
	s0 := NewSector(0, 0, 128)
	s1 := NewSector(1, 0, 128)
	lv.Sectors = []*Sector{s0, s1}

	ss0 := NewSubsector(0, s0)
	ss0.BBox = AABB{MinX: -512, MinY: -512, MaxX: 0, MaxY: 512}
	ss1 := NewSubsector(1, s1)
	ss1.BBox = AABB{MinX: 0, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*Subsector{ss0, ss1}
	s0.Subsectors = []*Subsector{ss0}
	s1.Subsectors = []*Subsector{ss1}

	root := &BSPNode{
		DividerX: 0, DividerY: 0, DividerDx: 0, DividerDy: 1,
		FrontBox:   ss1.BBox,
		BackBox:    ss0.BBox,
		FrontChild: ss1,
		BackChild:  ss0,
	}
	lv.Root = root

	lv.Blockmap = NewBlockmap(-512, -512, 8, 8)
	return lv
}

func TestPointInSubsectorMatchesDivider(t *testing.T) {
	lv := newTestLevel()
	if ss := lv.PointInSubsector(-10, 0); ss.Sector.ID != 0 {
		t.Fatalf("expected sector 0, got %d", ss.Sector.ID)
	}
	if ss := lv.PointInSubsector(10, 0); ss.Sector.ID != 1 {
		t.Fatalf("expected sector 1, got %d", ss.Sector.ID)
	}
}

func TestSetThingPositionInvariants(t *testing.T) {
	lv := newTestLevel()
	def := &MapObjectDef{Radius: 16, Height: 56}
	// far enough left of the x=0 divider that the radius box stays in sector 0.
	mo := lv.CreateMapObject(def, -100, 0, 0)

	if mo.Subsector.Sector.ID != 0 {
		t.Fatalf("PointInSubsector mismatch: mobj linked to sector %d", mo.Subsector.Sector.ID)
	}
	if _, ok := mo.Subsector.Mobjs[mo.ID]; !ok {
		t.Fatal("mobj missing from its subsector's mobj list")
	}

	bx, by, ok := lv.Blockmap.cellCoord(mo.X, mo.Y)
	if !ok {
		t.Fatal("test mobj unexpectedly off the blockmap")
	}
	if _, ok := lv.Blockmap.cellAt(bx, by).Mobjs[mo.ID]; !ok {
		t.Fatal("mobj missing from its blockmap cell")
	}

	touched := mo.TouchedSectors(lv)
	if len(touched) != 1 || touched[0].ID != 0 {
		t.Fatalf("expected touch-set {sector 0}, got %v", touched)
	}
}

func TestChangeThingPositionRoundTrip(t *testing.T) {
	lv := newTestLevel()
	def := &MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, -10, 0, 0)
	beforeSS := mo.Subsector
	beforeTouch := len(mo.touchHandles)

	lv.ChangeThingPosition(mo)

	if mo.Subsector != beforeSS {
		t.Fatalf("round trip changed subsector: got %v want %v", mo.Subsector, beforeSS)
	}
	if len(mo.touchHandles) != beforeTouch {
		t.Fatalf("round trip changed touch-set size: got %d want %d", len(mo.touchHandles), beforeTouch)
	}
}

func TestTouchSetCrossesDivider(t *testing.T) {
	lv := newTestLevel()
	def := &MapObjectDef{Radius: 32, Height: 56}
	// straddles x=0, the BSP divider, so both leaves should be touched.
	mo := lv.CreateMapObject(def, 0, 0, 0)
	touched := mo.TouchedSectors(lv)
	if len(touched) != 2 {
		t.Fatalf("expected mobj straddling the divider to touch 2 sectors, got %d", len(touched))
	}
}

func TestBlockmapLineIteratorDedup(t *testing.T) {
	lv := newTestLevel()
	v1, v2 := &Vertex{X: -300, Y: 0}, &Vertex{X: 300, Y: 0}
	l := NewLine(0, v1, v2)
	lv.Lines = []*Line{l}
	lv.Blockmap.LinkLine(l)

	count := 0
	lv.BlockmapLineIterator(-400, -10, 400, 10, func(ln *Line) bool {
		count++
		return true
	})
	if count != 1 {
		t.Fatalf("expected line visited exactly once across cells, got %d", count)
	}
}

func TestPlaneHeightAtTiltedFloor(t *testing.T) {
	// a floor tilted to rise 64 units over 128 map units along x, flat
	// along y, the way a three-vertex-slope sector would be built.
	p := NewPlane([3]float64{0, 0, 0}, [3]float64{128, 0, 64}, [3]float64{0, 128, 0})
	if got := p.HeightAt(0, 0); got != 0 {
		t.Fatalf("expected height 0 at origin, got %v", got)
	}
	if got := p.HeightAt(128, 0); math.Abs(got-64) > 1e-9 {
		t.Fatalf("expected height 64 at x=128, got %v", got)
	}
	if got := p.HeightAt(64, 0); math.Abs(got-32) > 1e-9 {
		t.Fatalf("expected height 32 at the halfway point, got %v", got)
	}
}

func TestSectorHeightAtFallsBackToFlat(t *testing.T) {
	s := NewSector(0, 10, 200)
	if got := s.FloorHeightAt(999, 999); got != 10 {
		t.Fatalf("expected flat floor height 10 with no slope, got %v", got)
	}
	if got := s.CeilingHeightAt(999, 999); got != 200 {
		t.Fatalf("expected flat ceiling height 200 with no slope, got %v", got)
	}

	s.FloorSlope = NewPlane([3]float64{0, 0, 0}, [3]float64{128, 0, 64}, [3]float64{0, 128, 0})
	if got := s.FloorHeightAt(128, 0); math.Abs(got-64) > 1e-9 {
		t.Fatalf("expected slope-derived height 64, got %v", got)
	}
}

func TestRemoveMapObjectDeferred(t *testing.T) {
	lv := newTestLevel()
	def := &MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, -10, 0, 0)
	id := mo.ID

	lv.RemoveMapObject(mo)
	if _, ok := lv.Mobjs[id]; !ok {
		t.Fatal("mobj should remain linked through the current think pass")
	}

	lv.FinalizeRemovals()
	if _, ok := lv.Mobjs[id]; ok {
		t.Fatal("mobj should be unlinked after FinalizeRemovals")
	}
}
