// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

// bsp.go answers "which subsector contains (x,y)" and "which BSP leaves
// does this AABB overlap", the two primitives the rest of the spatial
// index and the navigation graph build on.

// PointInSubsector descends the BSP, choosing a child by side-of-divider,
// until it reaches a leaf. A malformed tree with no reachable leaf is a
// fatal logic error per the spec's error-handling table, not a recoverable
// condition — callers that hit it have a corrupt level.
func (lv *Level) PointInSubsector(x, y float64) *Subsector {
	child := lv.Root
	for {
		switch n := child.(type) {
		case *Subsector:
			return n
		case *BSPNode:
			if pointOnDividerSide(n, x, y) == 0 {
				child = n.FrontChild
			} else {
				child = n.BackChild
			}
		default:
			return nil
		}
	}
}

// pointOnDividerSide returns 0 for front, 1 for back, using the same
// cross-product test Line.PointOnSide uses.
func pointOnDividerSide(n *BSPNode, x, y float64) int {
	dx := x - n.DividerX
	dy := y - n.DividerY
	cross := n.DividerDx*dy - n.DividerDy*dx
	if cross <= 0 {
		return 0
	}
	return 1
}

// LeavesOverlapping collects every subsector whose BSP leaf bounding box
// intersects the given AABB, descending both children whenever the box
// straddles the divider. fn is invoked once per leaf; returning false stops
// the descent early.
func (lv *Level) LeavesOverlapping(box AABB, fn func(*Subsector) bool) {
	var walk func(child BSPChild, nodeBox AABB) bool
	walk = func(child BSPChild, nodeBox AABB) bool {
		if !nodeBox.Overlaps(box) {
			return true
		}
		switch n := child.(type) {
		case *Subsector:
			return fn(n)
		case *BSPNode:
			if !walk(n.FrontChild, n.FrontBox) {
				return false
			}
			return walk(n.BackChild, n.BackBox)
		}
		return true
	}
	full := AABB{MinX: -1e30, MinY: -1e30, MaxX: 1e30, MaxY: 1e30}
	walk(lv.Root, full)
}
