// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sight

import (
	"math"
	"testing"

	"github.com/doomvu/engine/level"
)

func openLevel() *level.Level {
	lv := level.NewLevel()
	s := level.NewSector(0, 0, 256)
	lv.Sectors = []*level.Sector{s}
	ss := level.NewSubsector(0, s)
	ss.BBox = level.AABB{MinX: -1024, MinY: -1024, MaxX: 1024, MaxY: 1024}
	lv.Subsectors = []*level.Subsector{ss}
	s.Subsectors = []*level.Subsector{ss}
	lv.Root = ss
	lv.Blockmap = level.NewBlockmap(-1024, -1024, 16, 16)
	return lv
}

func TestSightUnobstructed(t *testing.T) {
	lv := openLevel()
	def := &level.MapObjectDef{Radius: 16, Height: 56}
	a := lv.CreateMapObject(def, -100, 0, 0)
	b := lv.CreateMapObject(def, 100, 0, 0)
	if !Sight(lv, a, b) {
		t.Fatal("expected clear sight across an open room")
	}
}

func TestSightBlockedByOneSidedWall(t *testing.T) {
	lv := openLevel()
	v1, v2 := &level.Vertex{X: 0, Y: -512}, &level.Vertex{X: 0, Y: 512}
	wall := level.NewLine(0, v1, v2)
	wall.FrontSector = lv.Sectors[0]
	wall.Sides[0] = level.NewSide(lv.Sectors[0])
	lv.Lines = []*level.Line{wall}
	lv.Blockmap.LinkLine(wall)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	a := lv.CreateMapObject(def, -100, 0, 0)
	b := lv.CreateMapObject(def, 100, 0, 0)
	if Sight(lv, a, b) {
		t.Fatal("expected a one-sided wall to block sight")
	}
}

func TestSightBlockedByBlockSightFlag(t *testing.T) {
	lv := openLevel()
	other := level.NewSector(1, 0, 256)
	lv.Sectors = append(lv.Sectors, other)

	v1, v2 := &level.Vertex{X: 0, Y: -512}, &level.Vertex{X: 0, Y: 512}
	l := level.NewLine(0, v1, v2)
	l.FrontSector, l.BackSector = lv.Sectors[0], other
	l.Sides[0] = level.NewSide(lv.Sectors[0])
	l.Sides[1] = level.NewSide(other)
	l.Flags |= level.LineBlockSight
	l.Gaps = []level.Gap{{Floor: 0, Ceiling: 256}}
	l.SightGaps = l.Gaps
	lv.Lines = []*level.Line{l}
	lv.Blockmap.LinkLine(l)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	a := lv.CreateMapObject(def, -100, 0, 0)
	b := lv.CreateMapObject(def, 100, 0, 0)
	if Sight(lv, a, b) {
		t.Fatal("expected LineBlockSight to block sight even on a two-sided line")
	}
}

func TestSightProbesVertexSlopeInsteadOfStaleGaps(t *testing.T) {
	lv := openLevel()
	other := level.NewSector(1, 0, 256)
	// a ceiling that slopes down to 40 units right at the dividing line
	// (x=0), well below a looker's eye height, even though the
	// precomputed flat Gaps (built for the sector's un-sloped base
	// CeilingHeight) still says open.
	other.CeilSlope = level.NewPlane([3]float64{0, -512, 40}, [3]float64{0, 512, 40}, [3]float64{300, 0, 300})
	lv.Sectors = append(lv.Sectors, other)

	v1, v2 := &level.Vertex{X: 0, Y: -512}, &level.Vertex{X: 0, Y: 512}
	l := level.NewLine(0, v1, v2)
	l.FrontSector, l.BackSector = lv.Sectors[0], other
	l.Sides[0] = level.NewSide(lv.Sectors[0])
	l.Sides[1] = level.NewSide(other)
	l.Gaps = []level.Gap{{Floor: 0, Ceiling: 256}}
	l.SightGaps = l.Gaps
	lv.Lines = []*level.Line{l}
	lv.Blockmap.LinkLine(l)

	def := &level.MapObjectDef{Radius: 16, Height: 56}
	a := lv.CreateMapObject(def, -100, 0, 50)
	b := lv.CreateMapObject(def, 180, 0, 50)
	if Sight(lv, a, b) {
		t.Fatal("expected the probed vertex-slope ceiling to block sight despite the stale flat Gaps interval")
	}
}

func TestLineAttackHitsThing(t *testing.T) {
	lv := openLevel()
	def := &level.MapObjectDef{Radius: 16, Height: 56, Flags: level.MFShootable}
	shooter := lv.CreateMapObject(def, 0, 0, 0)
	victim := lv.CreateMapObject(def, 200, 0, 0)

	result := LineAttack(lv, shooter, 0, 0, 500)
	if result.Thing != victim {
		t.Fatalf("expected hitscan to hit victim, got line=%v thing=%v", result.Line, result.Thing)
	}
}

func TestLineAttackStopsAtWall(t *testing.T) {
	lv := openLevel()
	v1, v2 := &level.Vertex{X: 50, Y: -512}, &level.Vertex{X: 50, Y: 512}
	wall := level.NewLine(0, v1, v2)
	wall.FrontSector = lv.Sectors[0]
	wall.Sides[0] = level.NewSide(lv.Sectors[0])
	lv.Lines = []*level.Line{wall}
	lv.Blockmap.LinkLine(wall)

	def := &level.MapObjectDef{Radius: 16, Height: 56, Flags: level.MFShootable}
	shooter := lv.CreateMapObject(def, 0, 0, 0)
	victim := lv.CreateMapObject(def, 200, 0, 0)

	result := LineAttack(lv, shooter, 0, 0, 500)
	if result.Line != wall || result.Thing == victim {
		t.Fatalf("expected hitscan to stop at the wall before reaching the victim, got line=%v thing=%v", result.Line, result.Thing)
	}
}

func TestAutoAimFindsTarget(t *testing.T) {
	lv := openLevel()
	def := &level.MapObjectDef{Radius: 16, Height: 56, Flags: level.MFShootable}
	shooter := lv.CreateMapObject(def, 0, 0, 0)
	target := lv.CreateMapObject(def, 300, 0, 0)

	slope, got, ok := AutoAim(lv, shooter, 0, 1000)
	if !ok || got != target {
		t.Fatalf("expected autoaim to find target, ok=%v got=%v", ok, got)
	}
	if math.Abs(slope) > 1 {
		t.Fatalf("expected a small slope for a same-height target, got %v", slope)
	}
}
