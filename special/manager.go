// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package special

import "github.com/doomvu/engine/level"

// Manager owns every active per-tick special in a level and advances them
// together each tick, the counterpart to level.DrainDeferredStates /
// FinalizeRemovals in the tick pipeline's ordering.
type Manager struct {
	LineScrollers []*LineScroller
	SectorMovers  []*SectorMover
	RadiusForces  []*RadiusForce
	SectorForces  []*SectorForce
}

// NewManager creates an empty Manager; callers populate its slices from
// loaded line/sector special tags before the first tick.
func NewManager() *Manager { return &Manager{} }

// Tick advances every registered special by one game tick, in a fixed
// order (scrollers, then sector movers, then radius and sector forces) so
// push and scroll contributions compose predictably within a tick.
func (m *Manager) Tick(lv *level.Level) {
	for _, ls := range m.LineScrollers {
		ls.Tick()
	}
	for _, sm := range m.SectorMovers {
		sm.Tick()
	}
	for _, rf := range m.RadiusForces {
		rf.Tick(lv)
	}
	for _, sf := range m.SectorForces {
		sf.Tick()
	}
}

// ApplyLineTextureEffect resolves the non-motion line effects (unblock
// things, block shots, block sight, texture scale and skew, wall light,
// sky transfer) that a line carries permanently rather than drives through a per-tick
// mover — these only need to run once, when the level loads or a linedef
// special explicitly toggles them, not every tick.
func ApplyLineTextureEffect(l *level.Line, effect LineEffect, amount float64) {
	switch effect {
	case NoLineEffect:
		return
	case UnblockThings:
		l.Flags &^= level.LineBlocking
	case BlockShots:
		l.Flags |= level.LineBlockShots
	case BlockSightLine:
		l.Flags |= level.LineBlockSight
	case TextureScale:
		applyToSurfaces(l, func(s *level.Surface) { s.ScaleX, s.ScaleY = amount, amount })
	case TextureSkew:
		applyToSurfaces(l, func(s *level.Surface) { s.ScrollY += amount })
	case LightFromWall:
		applyToSurfaces(l, func(s *level.Surface) { s.OverrideLight = int(amount) })
	case SkyTransfer:
		// Sky transfer has no per-surface state of its own: it tells a
		// renderer to substitute the sky for this line's upper texture,
		// so this function changes nothing on the line for it.
	}
}

func applyToSurfaces(l *level.Line, fn func(*level.Surface)) {
	for _, side := range l.Sides {
		if side == nil {
			continue
		}
		if side.Top != nil {
			fn(side.Top)
		}
		if side.Middle != nil {
			fn(side.Middle)
		}
		if side.Bottom != nil {
			fn(side.Bottom)
		}
	}
}

// SetTranslucency sets every surface on l to the given translucency
// (0 = opaque, 1 = fully transparent), the BOOM "line transparency"
// special.
func SetTranslucency(l *level.Line, amount float64) {
	applyToSurfaces(l, func(s *level.Surface) { s.Translucency = amount })
}

// SectorsWithTag returns every sector in lv whose Tag matches.
func SectorsWithTag(lv *level.Level, tag int) []*level.Sector {
	var out []*level.Sector
	for _, s := range lv.Sectors {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}
