// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

// touch.go replaces the original's hand-maintained doubly linked touch-node
// lists with an arena of nodes indexed by integer handle, per the spec's own
// design note: each MapObject stores handles into the arena instead of raw
// pointers, and deletion is a free-list push. Unlinking a moved mobj from
// its old touch set is done eagerly (fresh free+alloc on every Set), which
// the design note recommends over lazy reuse unless profiling says otherwise.

type touchHandle int32

type touchNode struct {
	sector *Sector
	mobj   *MapObject
	inUse  bool
}

type touchArena struct {
	nodes []touchNode
	free  []touchHandle
}

func newTouchArena() touchArena {
	return touchArena{}
}

func (a *touchArena) alloc(sector *Sector, mobj *MapObject) touchHandle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[h] = touchNode{sector: sector, mobj: mobj, inUse: true}
		return h
	}
	a.nodes = append(a.nodes, touchNode{sector: sector, mobj: mobj, inUse: true})
	return touchHandle(len(a.nodes) - 1)
}

func (a *touchArena) free_(h touchHandle) {
	a.nodes[h] = touchNode{}
	a.free = append(a.free, h)
}

func (a *touchArena) get(h touchHandle) touchNode {
	return a.nodes[h]
}

// clearTouchSet eagerly frees every touch node mo currently owns and
// removes mo from each sector's Touching map, leaving mo.touchHandles
// empty for a fresh recomputation.
func (lv *Level) clearTouchSet(mo *MapObject) {
	for _, h := range mo.touchHandles {
		n := lv.arena.get(h)
		if n.sector != nil {
			delete(n.sector.Touching, mo.ID)
		}
		lv.arena.free_(h)
	}
	mo.touchHandles = mo.touchHandles[:0]
}

// addTouch links mo into sector's touch set with a freshly allocated node.
func (lv *Level) addTouch(mo *MapObject, sector *Sector) {
	h := lv.arena.alloc(sector, mo)
	mo.touchHandles = append(mo.touchHandles, h)
	sector.Touching[mo.ID] = mo
}

// TouchedSectors returns every sector mo currently overlaps, per its
// touch-node list.
func (mo *MapObject) TouchedSectors(lv *Level) []*Sector {
	out := make([]*Sector, 0, len(mo.touchHandles))
	for _, h := range mo.touchHandles {
		n := lv.arena.get(h)
		if n.sector != nil {
			out = append(out, n.sector)
		}
	}
	return out
}
