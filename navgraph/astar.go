// Copyright © 2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package navgraph

import "container/heap"

// FindPath is an A* search from start to goal over g, structured the same
// way as ai.Find: a cost-so-far map, a came-from map for path
// reconstruction, and a binary heap frontier ordered by cost+heuristic.
// Returns nil if no route connects start and goal.
func FindPath(g *Graph, start, goal *Node) []*Node {
	if start == nil || goal == nil {
		return nil
	}
	cameFrom := map[*Node]*Node{start: nil}
	costSoFar := map[*Node]float64{start: 0}

	frontier := &nodeHeap{{node: start, priority: 0}}
	heap.Init(frontier)

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(prioritizedNode).node
		if current == goal {
			break
		}
		for _, e := range current.Edges {
			next := e.To
			newCost := costSoFar[current] + e.Cost
			if c, ok := costSoFar[next]; !ok || newCost < c {
				costSoFar[next] = newCost
				priority := newCost + timeHeuristic(next, goal)
				heap.Push(frontier, prioritizedNode{node: next, priority: priority})
				cameFrom[next] = current
			}
		}
	}

	if _, ok := cameFrom[goal]; !ok {
		return nil
	}
	var path []*Node
	for n := goal; n != nil; n = cameFrom[n] {
		path = append([]*Node{n}, path...)
	}
	return path
}

// FindNearest runs a Dijkstra-degenerate A* (no heuristic) outward from
// start, returning the first node for which match reports true — the
// pattern a monster's "find the nearest reachable item/enemy/exit" search
// uses instead of routing to one fixed goal.
func FindNearest(g *Graph, start *Node, match func(*Node) bool) []*Node {
	if start == nil {
		return nil
	}
	cameFrom := map[*Node]*Node{start: nil}
	costSoFar := map[*Node]float64{start: 0}

	frontier := &nodeHeap{{node: start, priority: 0}}
	heap.Init(frontier)

	var found *Node
	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(prioritizedNode).node
		if match(current) {
			found = current
			break
		}
		for _, e := range current.Edges {
			next := e.To
			newCost := costSoFar[current] + e.Cost
			if c, ok := costSoFar[next]; !ok || newCost < c {
				costSoFar[next] = newCost
				heap.Push(frontier, prioritizedNode{node: next, priority: newCost})
				cameFrom[next] = current
			}
		}
	}
	if found == nil {
		return nil
	}
	var path []*Node
	for n := found; n != nil; n = cameFrom[n] {
		path = append([]*Node{n}, path...)
	}
	return path
}

// prioritizedNode is a Node queued in the search frontier with its
// current priority (cost-so-far plus heuristic, or cost-so-far alone for
// FindNearest).
type prioritizedNode struct {
	node     *Node
	priority float64
}

// nodeHeap implements container/heap.Interface as a min-heap on priority.
type nodeHeap []prioritizedNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(prioritizedNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
