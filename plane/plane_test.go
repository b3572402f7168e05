// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plane

import (
	"testing"

	"github.com/doomvu/engine/level"
)

func TestPlaneMoverReachesTarget(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}

	pm := NewPlaneMover(s, Ceiling, Down, 4, 96, NoCrush)
	for i := 0; i < 100 && pm.State == Moving; i++ {
		pm.Tick(lv, nil)
	}
	if pm.State != Finished {
		t.Fatalf("expected mover to finish, got state %v after height %v", pm.State, s.CeilingHeight)
	}
	if s.CeilingHeight != 96 {
		t.Fatalf("expected ceiling at 96, got %v", s.CeilingHeight)
	}
}

func TestPlaneMoverReversesOnBlockingThing(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 64}
	mo := lv.CreateMapObject(def, 0, 0, 0)

	pm := NewPlaneMover(s, Ceiling, Down, 8, 0, NoCrush)
	startDir := pm.Dir
	for i := 0; i < 40 && pm.Dir == startDir; i++ {
		pm.Tick(lv, nil)
	}
	_ = mo
	if pm.Dir == startDir {
		t.Fatal("expected mover to reverse direction once the ceiling crushed down onto the thing")
	}
}

func TestPlatformCyclesWithWait(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}

	pm := NewCyclingPlaneMover(s, Floor, Up, 4, 0, 128, 70, NoCrush, TypePlatform)

	tick := 0
	reachedTop := -1
	startedDown := -1
	reachedBottom := -1
	for tick < 200 {
		tick++
		wasWaiting := pm.State == Waiting
		pm.Tick(lv, nil)
		if reachedTop < 0 && s.FloorHeight == 128 {
			reachedTop = tick
		}
		if startedDown < 0 && wasWaiting && pm.State == Moving && pm.Dir == Down {
			startedDown = tick
		}
		if reachedBottom < 0 && reachedTop > 0 && s.FloorHeight == 0 && tick > reachedTop {
			reachedBottom = tick
		}
	}
	if reachedTop != 32 {
		t.Fatalf("expected platform to reach 128 at tick 32, got tick %d", reachedTop)
	}
	if startedDown != 102 {
		t.Fatalf("expected platform to reverse at tick 102, got tick %d", startedDown)
	}
	if reachedBottom != 134 {
		t.Fatalf("expected platform back at 0 by tick 134, got tick %d", reachedBottom)
	}
	if pm.State == Finished {
		t.Fatal("a platform mover should cycle forever, never finish")
	}
}

func TestToggleMoverParksInStasisUntilActivated(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 0)
	lv.Sectors = []*level.Sector{s}

	pm := NewCyclingPlaneMover(s, Floor, Up, 8, 0, 64, 0, NoCrush, TypeToggle)
	for i := 0; i < 20 && pm.State != InStasis; i++ {
		pm.Tick(lv, nil)
	}
	if pm.State != InStasis {
		t.Fatalf("expected toggle mover to park in Stasis, got %v", pm.State)
	}
	if s.FloorHeight != 64 {
		t.Fatalf("expected floor at 64, got %v", s.FloorHeight)
	}

	pm.Activate()
	if pm.State != Moving || pm.Dir != Down {
		t.Fatalf("expected Activate to resume moving Down, got state %v dir %v", pm.State, pm.Dir)
	}
	for i := 0; i < 20 && pm.State != InStasis; i++ {
		pm.Tick(lv, nil)
	}
	if s.FloorHeight != 0 {
		t.Fatalf("expected floor back at 0, got %v", s.FloorHeight)
	}
}

func TestCrushSlowsDownBelowThreshold(t *testing.T) {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -512, MinY: -512, MaxX: 512, MaxY: 512}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-512, -512, 8, 8)

	def := &level.MapObjectDef{Radius: 16, Height: 64}
	lv.CreateMapObject(def, 0, 0, 0)

	pm := NewPlaneMover(s, Ceiling, Down, 1, 0, SlowCrush)
	// 192 ticks at speed 1 bring the ceiling from 256 down to the thing's
	// height of 64; the next tick is blocked by it.
	for i := 0; i < 200; i++ {
		pm.Tick(lv, nil)
	}
	if pm.Speed >= 1 {
		t.Fatalf("expected crush speed below 1.5 to be divided by 8, got %v", pm.Speed)
	}
}

func TestSlidingDoorMoverCycle(t *testing.T) {
	l := &level.Line{ID: 0}
	dm := NewSlidingDoorMover(l, 0.5, 2)

	dm.Tick() // progress 0.5
	if dm.State != DoorOpening {
		t.Fatalf("expected still opening, got %v", dm.State)
	}
	dm.Tick() // progress 1.0 -> open
	if dm.State != DoorOpen {
		t.Fatalf("expected open, got %v", dm.State)
	}
	dm.Tick() // hold 1
	dm.Tick() // hold 0 -> closing next tick transition happens at hold check
	if dm.State != DoorClosing && dm.State != DoorOpen {
		t.Fatalf("unexpected state after hold: %v", dm.State)
	}
	for i := 0; i < 10 && dm.State != DoorClosed; i++ {
		dm.Tick()
	}
	if dm.State != DoorClosed {
		t.Fatal("expected door to finish closing")
	}
	if l.Slider.Opening {
		t.Fatal("expected Slider.Opening false once closed")
	}
}
