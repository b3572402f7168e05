// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package special

import (
	"testing"

	"github.com/doomvu/engine/level"
	"github.com/doomvu/engine/plane"
)

func TestLineScrollerAccumulates(t *testing.T) {
	v1, v2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 0}
	l := level.NewLine(0, v1, v2)
	s := level.NewSector(0, 0, 128)
	l.FrontSector = s
	l.Sides[0] = level.NewSide(s)

	ls := NewLineScroller(l, OffsetScroll, 1, 0.5)
	ls.Tick()
	ls.Tick()

	if l.Sides[0].Middle.ScrollX != 2 {
		t.Fatalf("expected ScrollX to accumulate to 2, got %v", l.Sides[0].Middle.ScrollX)
	}
	if l.Sides[0].Middle.ScrollY != 1 {
		t.Fatalf("expected ScrollY to accumulate to 1, got %v", l.Sides[0].Middle.ScrollY)
	}
}

func TestSectorMoverPushesRestingThing(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, 0, 0, 0)
	mo.FloorZ = 0 // resting.

	sm := NewSectorMover(s)
	sm.PushX = 2
	sm.Tick()

	if mo.MomX != 2 {
		t.Fatalf("expected resting thing to be pushed, MomX=%v", mo.MomX)
	}
}

func TestSectorMoverIgnoresAirborneThing(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, 0, 0, 50)
	mo.FloorZ = 0 // airborne: Z(50) > FloorZ(0).

	sm := NewSectorMover(s)
	sm.PushX = 2
	sm.Tick()

	if mo.MomX != 0 {
		t.Fatalf("expected airborne thing to be unaffected by sector push, MomX=%v", mo.MomX)
	}
}

func TestRadiusForcePushesOutward(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, 50, 0, 0)

	rf := &RadiusForce{X: 0, Y: 0, Radius: 200, Strength: 1000}
	rf.Tick(lv)

	if mo.MomX <= 0 {
		t.Fatalf("expected thing to be pushed away from force center, MomX=%v", mo.MomX)
	}
}

func TestTaggedOffsetScrollDerivesVectorFromControlLine(t *testing.T) {
	v1, v2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 0}
	l := level.NewLine(0, v1, v2)
	s := level.NewSector(0, 0, 128)
	l.FrontSector = s
	l.Sides[0] = level.NewSide(s)

	cv1, cv2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 32}
	control := level.NewLine(1, cv1, cv2)

	ls := NewTaggedOffsetScroller(l, control)
	ls.Tick()

	wantX, wantY := control.Dx/taggedScrollDivisor, control.Dy/taggedScrollDivisor
	if l.Sides[0].Middle.ScrollX != wantX || l.Sides[0].Middle.ScrollY != wantY {
		t.Fatalf("expected scroll vector (%v,%v), got (%v,%v)", wantX, wantY, l.Sides[0].Middle.ScrollX, l.Sides[0].Middle.ScrollY)
	}
}

func TestLineScrollerMirrorFlagsNegateAxis(t *testing.T) {
	v1, v2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 0}
	l := level.NewLine(0, v1, v2)
	s := level.NewSector(0, 0, 128)
	l.FrontSector = s
	l.Sides[0] = level.NewSide(s)

	ls := NewLineScroller(l, OffsetScroll, 1, 1)
	ls.MirrorX = true
	ls.Tick()

	if l.Sides[0].Middle.ScrollX != -1 {
		t.Fatalf("expected MirrorX to negate the X vector, got %v", l.Sides[0].Middle.ScrollX)
	}
	if l.Sides[0].Middle.ScrollY != 1 {
		t.Fatalf("expected Y vector unaffected, got %v", l.Sides[0].Middle.ScrollY)
	}
}

func TestDrivenScrollerLatchesOnDriverFinish(t *testing.T) {
	v1, v2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 0}
	l := level.NewLine(0, v1, v2)
	control := level.NewSector(0, 0, 128)
	l.FrontSector = control
	l.Sides[0] = level.NewSide(control)

	pm := plane.NewPlaneMover(control, plane.Floor, plane.Up, 4, 8, plane.NoCrush)
	ls := NewDrivenLineScroller(l, OffsetScroll, control, pm)

	for pm.State == plane.Moving {
		control.PushX += 1 // simulate the mover's conveyor-linked motion.
		pm.Tick(nil, nil)
		ls.Tick()
	}
	if pm.State != plane.Finished {
		t.Fatalf("expected driver to finish, got %v", pm.State)
	}
	if !ls.latched {
		t.Fatal("expected scroller to latch once its driver finished")
	}
	before := l.Sides[0].Middle.ScrollX
	ls.Tick()
	if l.Sides[0].Middle.ScrollX <= before {
		t.Fatalf("expected a latched scroller to keep scrolling at its frozen rate, got %v -> %v", before, l.Sides[0].Middle.ScrollX)
	}
}

func TestApplySectorEffectBoomHeightsAndLight(t *testing.T) {
	ref := level.NewSector(0, 32, 200)
	ref.LightLevel = 200
	s := level.NewSector(1, 0, 128)

	ApplySectorEffect(s, BoomHeights, ref)
	if s.DrawHeightsFrom != ref {
		t.Fatal("expected BoomHeights to set DrawHeightsFrom")
	}

	ApplySectorEffect(s, LightFloor, ref)
	if s.FloorSurface.OverrideLight != 200 {
		t.Fatalf("expected LightFloor to copy ref's light level, got %v", s.FloorSurface.OverrideLight)
	}
}

func TestSectorForceCurrentOnlyAppliesInLiquid(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	mo := lv.CreateMapObject(def, 0, 0, 0)
	s.Touching[mo.ID] = mo

	sf := NewSectorForce(s, Current, 0, 10)
	sf.Tick()
	if mo.MomX != 0 {
		t.Fatalf("expected Current to be a no-op without a liquid extrafloor, got MomX=%v", mo.MomX)
	}

	s.Extrafloors = append(s.Extrafloors, &level.Extrafloor{Flags: level.EFLiquid})
	sf.Tick()
	if mo.MomX <= 0 {
		t.Fatalf("expected Current to push once the sector has a liquid extrafloor, got MomX=%v", mo.MomX)
	}
}

func TestSetTranslucencyAppliesToAllSurfaces(t *testing.T) {
	v1, v2 := &level.Vertex{X: 0, Y: 0}, &level.Vertex{X: 64, Y: 0}
	l := level.NewLine(0, v1, v2)
	s := level.NewSector(0, 0, 128)
	l.FrontSector = s
	l.Sides[0] = level.NewSide(s)

	SetTranslucency(l, 0.5)
	if l.Sides[0].Middle.Translucency != 0.5 {
		t.Fatalf("expected middle surface translucency 0.5, got %v", l.Sides[0].Middle.Translucency)
	}
}
