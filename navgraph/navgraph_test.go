// Copyright © 2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package navgraph

import (
	"math"
	"testing"

	"github.com/doomvu/engine/level"
)

// chainLevel builds three sectors in a row, each with one subsector, each
// adjacent pair joined by a two-sided line.
func chainLevel() *level.Level {
	lv := level.NewLevel()
	var secs []*level.Sector
	var subs []*level.Subsector
	for i := 0; i < 3; i++ {
		s := level.NewSector(i, 0, 128)
		ss := level.NewSubsector(i, s)
		ss.MidX, ss.MidY = float64(i*256), 0
		s.Subsectors = []*level.Subsector{ss}
		secs = append(secs, s)
		subs = append(subs, ss)
	}
	lv.Sectors = secs
	lv.Subsectors = subs

	for i := 0; i < 2; i++ {
		l := level.NewLine(i, &level.Vertex{X: float64(i*256 + 128), Y: -64}, &level.Vertex{X: float64(i*256 + 128), Y: 64})
		l.FrontSector, l.BackSector = secs[i], secs[i+1]
		l.Sides[0] = level.NewSide(secs[i])
		l.Sides[1] = level.NewSide(secs[i+1])
		lv.Lines = append(lv.Lines, l)
	}
	return lv
}

func TestFindPathAcrossChain(t *testing.T) {
	lv := chainLevel()
	g := Build(lv)

	start := g.byIndex[0]
	goal := g.byIndex[2]
	path := FindPath(g, start, goal)
	if len(path) != 3 {
		t.Fatalf("expected a 3-node path across the chain, got %d", len(path))
	}
	if path[0] != start || path[2] != goal {
		t.Fatalf("expected path to start at %v and end at %v, got %v", start, goal, path)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	lv := chainLevel()
	// remove the edges connecting node 1 to node 2 (drop the 2nd line's
	// effect by rebuilding a graph missing it).
	g2 := &Graph{byIndex: map[int]*Node{}}
	for _, ss := range lv.Subsectors {
		n := &Node{Subsector: ss}
		g2.nodes = append(g2.nodes, n)
		g2.byIndex[ss.ID] = n
	}
	l := lv.Lines[0]
	na, nb := g2.byIndex[0], g2.byIndex[1]
	na.Edges = append(na.Edges, Edge{To: nb, Via: l, Type: Normal, Cost: 1})
	nb.Edges = append(nb.Edges, Edge{To: na, Via: l, Type: Normal, Cost: 1})

	path := FindPath(g2, g2.byIndex[0], g2.byIndex[2])
	if path != nil {
		t.Fatalf("expected no path to an unreachable node, got %v", path)
	}
}

func TestDoorEdgeCostAndWaypoints(t *testing.T) {
	lv := level.NewLevel()
	front := level.NewSector(0, 0, 128)
	back := level.NewSector(1, 0, 72)
	ssFront := level.NewSubsector(0, front)
	ssBack := level.NewSubsector(1, back)
	ssFront.MidX, ssFront.MidY = -100, 0
	ssBack.MidX, ssBack.MidY = 100, 0
	front.Subsectors = []*level.Subsector{ssFront}
	back.Subsectors = []*level.Subsector{ssBack}
	lv.Sectors = []*level.Sector{front, back}
	lv.Subsectors = []*level.Subsector{ssFront, ssBack}

	l := level.NewLine(0, &level.Vertex{X: 0, Y: -64}, &level.Vertex{X: 0, Y: 64})
	l.FrontSector, l.BackSector = front, back
	l.Sides[0] = level.NewSide(front)
	l.Sides[1] = level.NewSide(back)
	l.Special = 1 // vertical-lift door special range.
	lv.Lines = append(lv.Lines, l)

	g := Build(lv)
	start, goal := g.byIndex[0], g.byIndex[1]

	e := edgeBetween(start, goal)
	if e == nil {
		t.Fatal("expected an edge across the door line")
	}
	if e.Type != Door {
		t.Fatalf("expected Door edge type, got %v", e.Type)
	}
	wantCost := math.Hypot(ssBack.MidX-ssFront.MidX, ssBack.MidY-ssFront.MidY)/runningSpeed + doorCostSeconds
	if math.Abs(e.Cost-wantCost) > 1e-9 {
		t.Fatalf("expected cost %v, got %v", wantCost, e.Cost)
	}

	path := FindPath(g, start, goal)
	if len(path) != 2 {
		t.Fatalf("expected a 2-node path, got %d", len(path))
	}
	wp := Waypoints(path)
	if len(wp) != 2 {
		t.Fatalf("expected two waypoints on the door's midpoint, got %d", len(wp))
	}
	if wp[0] != wp[1] {
		t.Fatalf("expected both door waypoints to sit at the same midpoint, got %v and %v", wp[0], wp[1])
	}
}

func TestFindNearestMatchesPredicate(t *testing.T) {
	lv := chainLevel()
	g := Build(lv)
	start := g.byIndex[0]

	path := FindNearest(g, start, func(n *Node) bool { return n.Subsector.ID == 2 })
	if len(path) != 3 {
		t.Fatalf("expected FindNearest to reach node 2 via a 3-node path, got %v", path)
	}
}
