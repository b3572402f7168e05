// Copyright © 2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package navgraph builds a subsector-adjacency graph from a level and
// finds routes across it with A*, adapted directly from ai.Find's
// container/heap priority-queue shape — generalized from ai's abstract
// Graph/Point pair to concrete BSP subsectors joined by the line each
// pair shares, with edges additionally typed (door/lift/teleport) so a
// monster's route can react to what kind of connection it's crossing and
// costed in travel-time seconds rather than raw map-unit distance.
package navgraph

import (
	"math"

	"github.com/doomvu/engine/level"
)

// runningSpeed is a player's running speed in map units per second, the
// denominator every edge's base travel-time cost divides by.
const runningSpeed = 450.0

// Per-edge-type seconds added on top of the base travel time.
const (
	liftCostSeconds     = 10.0
	doorCostSeconds     = 2.0
	teleportCostSeconds = 1.0
)

// maxStepUp and minClearance bound what an ordinary ground-bound mover can
// cross without a door or lift; fallThreshold is the drop beyond which the
// edge pays a fall-time cost computed from gravity.
const (
	maxStepUp     = 24.0
	minClearance  = 56.0
	fallThreshold = 100.0
	gravity       = 800.0 // map units per second^2.
)

// EdgeType classifies what kind of connection a Edge represents.
type EdgeType int

const (
	Normal EdgeType = iota
	Door
	Lift
	Teleport
)

// Edge is one directed connection from a Node to a neighbour. MidX/MidY is
// the midpoint of the line actually crossed, used to build route
// waypoints finer-grained than one point per subsector.
type Edge struct {
	To       *Node
	Via      *level.Line
	Type     EdgeType
	Cost     float64
	MidX     float64
	MidY     float64
}

// Node is one subsector's place in the graph.
type Node struct {
	Subsector *level.Subsector
	Edges     []Edge
}

// Graph is the built subsector-adjacency graph for a level.
type Graph struct {
	nodes   []*Node
	byIndex map[int]*Node // subsector ID -> Node
}

// Build constructs a Graph by joining, for every two-sided line, each
// subsector of the line's front sector to each subsector of its back
// sector: doors and lifts get their own EdgeType so a navigating monster
// can special-case waiting for them. A line whose crossing is genuinely
// impossible for a ground-bound mover (too tall a step with no door/lift,
// too little vertical clearance) gets no edge at all.
func Build(lv *level.Level) *Graph {
	g := &Graph{byIndex: map[int]*Node{}}
	for _, ss := range lv.Subsectors {
		n := &Node{Subsector: ss}
		g.nodes = append(g.nodes, n)
		g.byIndex[ss.ID] = n
	}

	for _, l := range lv.Lines {
		if !l.TwoSided() {
			continue
		}
		for _, front := range frontSubsectors(l.FrontSector) {
			for _, back := range frontSubsectors(l.BackSector) {
				na, nb := g.byIndex[front.ID], g.byIndex[back.ID]
				if na == nil || nb == nil || na == nb {
					continue
				}
				edgeType := classifyEdge(l)
				cost, ok := edgeCost(na, nb, l, edgeType)
				if !ok {
					continue
				}
				midX, midY := (l.V1.X+l.V2.X)/2, (l.V1.Y+l.V2.Y)/2
				na.Edges = append(na.Edges, Edge{To: nb, Via: l, Type: edgeType, Cost: cost, MidX: midX, MidY: midY})
				nb.Edges = append(nb.Edges, Edge{To: na, Via: l, Type: edgeType, Cost: cost, MidX: midX, MidY: midY})
			}
		}
	}
	return g
}

func frontSubsectors(s *level.Sector) []*level.Subsector {
	if s == nil {
		return nil
	}
	return s.Subsectors
}

// classifyEdge tags a line by the kind of crossing it represents. l.Slider
// catches the rare texture-sliding door; isDoorSpecial catches the
// ordinary vertical-lift door, whose motion is driven by a
// plane.PlaneMover the navgraph never sees directly — package navgraph
// only needs to know the line's special number falls in the door range,
// the same way it already infers Lift and Teleport from special ranges.
func classifyEdge(l *level.Line) EdgeType {
	switch {
	case l.Slider != nil:
		return Door
	case l.Special != 0 && isDoorSpecial(l.Special):
		return Door
	case l.Special != 0 && isLiftSpecial(l.Special):
		return Lift
	case l.Special != 0 && isTeleportSpecial(l.Special):
		return Teleport
	default:
		return Normal
	}
}

// isDoorSpecial, isLiftSpecial, and isTeleportSpecial classify line
// specials by the numeric ranges the original line-special tables assign
// them; package special owns the authoritative per-special behaviour,
// this is purely for path-cost/edge-typing purposes.
func isDoorSpecial(special int) bool     { return special >= 1 && special <= 9 }
func isLiftSpecial(special int) bool     { return special >= 10 && special <= 19 }
func isTeleportSpecial(special int) bool { return special >= 39 && special <= 41 }

// edgeCost computes a's-to-b's travel-time cost in seconds for crossing l
// as an edge of type t. It reports ok=false when the crossing is
// impossible for a ground-bound mover.
func edgeCost(a, b *Node, l *level.Line, t EdgeType) (cost float64, ok bool) {
	stepUp := math.Abs(l.FrontSector.FloorHeight - l.BackSector.FloorHeight)
	clearance := math.Min(l.FrontSector.CeilingHeight, l.BackSector.CeilingHeight) -
		math.Max(l.FrontSector.FloorHeight, l.BackSector.FloorHeight)

	if clearance < minClearance {
		return 0, false
	}
	if stepUp > maxStepUp && t != Door && t != Lift {
		return 0, false
	}

	cost = distance(a, b) / runningSpeed
	switch t {
	case Lift:
		cost += liftCostSeconds
	case Door:
		cost += doorCostSeconds
	case Teleport:
		cost += teleportCostSeconds
	}
	if stepUp > fallThreshold {
		cost += math.Sqrt(2 * stepUp / gravity)
	}
	return cost, true
}

func distance(a, b *Node) float64 {
	dx := a.Subsector.MidX - b.Subsector.MidX
	dy := a.Subsector.MidY - b.Subsector.MidY
	return math.Hypot(dx, dy)
}

// timeHeuristic is the Euclidean travel time between two nodes, relaxed by
// 1.25x so A* trades strict admissibility for smoother, less zig-zagging
// paths.
func timeHeuristic(a, b *Node) float64 {
	return (distance(a, b) / runningSpeed) * 1.25
}

// NodeFor looks up the graph node for the subsector containing (x,y).
func (g *Graph) NodeFor(lv *level.Level, x, y float64) *Node {
	ss := lv.PointInSubsector(x, y)
	if ss == nil {
		return nil
	}
	return g.byIndex[ss.ID]
}

// Waypoint is one point along a reconstructed route, finer-grained than
// one point per subsector.
type Waypoint struct {
	X, Y float64
}

// Waypoints expands a node path into the seg-crossing points a bot
// actually walks toward: the midpoint of the line crossed for each
// transition. A lift transition additionally visits the destination
// subsector's own midpoint so the bot walks onto the lift platform and
// waits there; a door transition visits its crossing point twice, once to
// arrive and wait for it to open and once to walk through.
func Waypoints(path []*Node) []Waypoint {
	var out []Waypoint
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]
		e := edgeBetween(from, to)
		if e == nil {
			continue
		}
		mid := Waypoint{X: e.MidX, Y: e.MidY}
		out = append(out, mid)
		switch e.Type {
		case Door:
			out = append(out, mid)
		case Lift:
			out = append(out, Waypoint{X: to.Subsector.MidX, Y: to.Subsector.MidY})
		}
	}
	return out
}

func edgeBetween(from, to *Node) *Edge {
	for i := range from.Edges {
		if from.Edges[i].To == to {
			return &from.Edges[i]
		}
	}
	return nil
}
