// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package special implements the generalized line and sector specials —
// scrollers, pushers/pullers, friction zones, translucency, and the
// various Boom/MBF line-flag extensions — applied once per tick over a
// level, in the same small-per-unit-update-function style plane.PlaneMover
// uses for its own state machine.
package special

import (
	"math"

	"github.com/doomvu/engine/level"
	"github.com/doomvu/engine/plane"
)

// textureUnit is the tile size offset scrolling wraps against, so a
// permanently-scrolling surface's offset never grows without bound.
const textureUnit = 64.0

func wrapTexture(v float64) float64 {
	v = math.Mod(v, textureUnit)
	if v < 0 {
		v += textureUnit
	}
	return v
}

// taggedScrollDivisor converts a source linedef's raw length/delta into a
// per-tick scroll rate for TaggedOffsetScroll, matching the scale Boom's
// "scroll by linedef vector" static-init specials use so a 64-unit control
// line produces a gentle 2 unit/tick crawl.
const taggedScrollDivisor = 32.0

// LineEffect enumerates the line-special-driven surface effects a line
// carries in addition to whatever triggers a PlaneMover.
type LineEffect int

const (
	NoLineEffect LineEffect = iota
	OffsetScroll
	VectorScroll
	TaggedOffsetScroll
	UnblockThings
	BlockShots
	BlockSightLine
	TextureScale
	TextureSkew
	LightFromWall
	SkyTransfer
)

// LineScroller holds a line-carried scroll effect. Its vector comes from
// one of three sources depending on which fields are set: a constant
// VecX/VecY (OffsetScroll/VectorScroll), a control sector's displacement
// since the last tick (Control, Boom's accelerative scroll-by-sector-
// motion), or a control linedef's own length and direction (ControlLine,
// TaggedOffsetScroll). Control- and Driver-backed scrollers write into the
// surface's dynamic channel (recomputed every tick); constant-vector
// scrollers write into the static channel (permanently accumulated,
// wrapped modulo textureUnit). MirrorX/MirrorY are Boom's LeftReverseX/Y
// static-init flags: they negate the corresponding vector axis.
type LineScroller struct {
	Line        *level.Line
	Effect      LineEffect
	VecX        float64
	VecY        float64
	Control     *level.Sector // non-nil for accelerative-by-sector scrollers.
	ControlLine *level.Line   // non-nil for TaggedOffsetScroll.
	// Driver is the PlaneMover whose motion this scroller rides along
	// with (a conveyor tied to a lift, say). Once Driver finishes moving,
	// the scroller's last dynamic vector is latched permanently into the
	// static channel, so the conveyor keeps crawling at its final rate
	// instead of stopping dead the instant the mover stops ticking.
	Driver *plane.PlaneMover

	MirrorX, MirrorY bool

	lastCX, lastCY float64
	latched        bool
}

// NewLineScroller creates a constant-vector scroller (no control sector).
func NewLineScroller(l *level.Line, effect LineEffect, vecX, vecY float64) *LineScroller {
	return &LineScroller{Line: l, Effect: effect, VecX: vecX, VecY: vecY}
}

// NewControlledLineScroller creates a scroller whose effective vector is
// the given control sector's displacement since the previous tick — Boom's
// "scroll by front sector's motion" line types.
func NewControlledLineScroller(l *level.Line, effect LineEffect, control *level.Sector) *LineScroller {
	return &LineScroller{Line: l, Effect: effect, Control: control, lastCX: control.PushX, lastCY: control.PushY}
}

// NewTaggedOffsetScroller creates a TaggedOffsetScroll scroller whose
// vector is derived from controlLine's own length and direction, divided
// down to a per-tick rate.
func NewTaggedOffsetScroller(l, controlLine *level.Line) *LineScroller {
	return &LineScroller{Line: l, Effect: TaggedOffsetScroll, ControlLine: controlLine}
}

// NewDrivenLineScroller creates a scroller whose dynamic vector is derived
// from a control sector's motion (as NewControlledLineScroller) and that
// latches its last vector into the static channel once driver finishes.
func NewDrivenLineScroller(l *level.Line, effect LineEffect, control *level.Sector, driver *plane.PlaneMover) *LineScroller {
	return &LineScroller{Line: l, Effect: effect, Control: control, Driver: driver, lastCX: control.PushX, lastCY: control.PushY}
}

func (ls *LineScroller) vector() (float64, float64) {
	switch {
	case ls.latched:
		return ls.VecX, ls.VecY
	case ls.Effect == TaggedOffsetScroll && ls.ControlLine != nil:
		return ls.ControlLine.Dx / taggedScrollDivisor, ls.ControlLine.Dy / taggedScrollDivisor
	case ls.Control != nil:
		dx, dy := ls.Control.PushX-ls.lastCX, ls.Control.PushY-ls.lastCY
		ls.lastCX, ls.lastCY = ls.Control.PushX, ls.Control.PushY
		return dx, dy
	default:
		return ls.VecX, ls.VecY
	}
}

// Tick applies one tick's worth of scroll to the line's surfaces.
func (ls *LineScroller) Tick() {
	vx, vy := ls.vector()
	if ls.MirrorX {
		vx = -vx
	}
	if ls.MirrorY {
		vy = -vy
	}

	dynamic := !ls.latched && (ls.Control != nil || ls.Driver != nil)

	for _, side := range ls.Line.Sides {
		if side == nil {
			continue
		}
		scrollSurface(side.Top, vx, vy, dynamic)
		scrollSurface(side.Middle, vx, vy, dynamic)
		scrollSurface(side.Bottom, vx, vy, dynamic)
	}

	if ls.Driver != nil && !ls.latched && ls.Driver.State == plane.Finished {
		ls.VecX, ls.VecY = vx, vy
		ls.latched = true
	}
}

// scrollSurface applies vx/vy to s. A dynamic contribution overwrites the
// NetScrollX/Y channel each tick (it is not accumulated — it tracks the
// driving sector's current rate, nothing more); a static contribution
// accumulates permanently into ScrollX/Y, wrapped against textureUnit so
// it never grows without bound.
func scrollSurface(s *level.Surface, vx, vy float64, dynamic bool) {
	if s == nil {
		return
	}
	s.OldScrollX, s.OldScrollY = s.ScrollX, s.ScrollY
	if dynamic {
		s.NetScrollX, s.NetScrollY = vx, vy
		return
	}
	s.ScrollX = wrapTexture(s.ScrollX + vx)
	s.ScrollY = wrapTexture(s.ScrollY + vy)
	s.NetScrollX, s.NetScrollY = 0, 0
}

// SectorEffect enumerates the one-shot sector-to-sector transfer specials
// applied when a static-init sector special is resolved against its
// tagged reference sector, rather than ticked every frame.
type SectorEffect int

const (
	NoSectorEffect SectorEffect = iota
	LightFloor
	LightCeiling
	ResetFloor
	ResetCeiling
	AlignFloor
	AlignCeiling
	ScaleFloor
	ScaleCeiling
	// BoomHeights borrows ref's floor/ceiling heights purely for drawing
	// (Boom 242), via level.Sector.DrawHeightsFrom.
	BoomHeights
)

// ApplySectorEffect resolves a sector-to-sector transfer special on s
// using ref as the reference/control sector.
func ApplySectorEffect(s *level.Sector, effect SectorEffect, ref *level.Sector) {
	if ref == nil {
		return
	}
	switch effect {
	case NoSectorEffect:
		return
	case LightFloor:
		s.FloorSurface.OverrideLight = ref.LightLevel
	case LightCeiling:
		s.CeilSurface.OverrideLight = ref.LightLevel
	case ResetFloor:
		s.FloorSurface.Image = ref.FloorSurface.Image
		s.FloorSurface.ScrollX, s.FloorSurface.ScrollY = 0, 0
	case ResetCeiling:
		s.CeilSurface.Image = ref.CeilSurface.Image
		s.CeilSurface.ScrollX, s.CeilSurface.ScrollY = 0, 0
	case AlignFloor:
		s.FloorSurface.ScrollX, s.FloorSurface.ScrollY = ref.FloorSurface.ScrollX, ref.FloorSurface.ScrollY
	case AlignCeiling:
		s.CeilSurface.ScrollX, s.CeilSurface.ScrollY = ref.CeilSurface.ScrollX, ref.CeilSurface.ScrollY
	case ScaleFloor:
		s.FloorSurface.ScaleX, s.FloorSurface.ScaleY = ref.FloorSurface.ScaleX, ref.FloorSurface.ScaleY
	case ScaleCeiling:
		s.CeilSurface.ScaleX, s.CeilSurface.ScaleY = ref.CeilSurface.ScaleX, ref.CeilSurface.ScaleY
	case BoomHeights:
		s.DrawHeightsFrom = ref
	}
}

// SectorMover enumerates the per-tick effects a sector special applies to
// things standing in it: constant push/pull forces, scrolling floor
// surfaces (which drag standing things along), and friction changes.
type SectorMover struct {
	Sector   *level.Sector
	PushX    float64
	PushY    float64
	Friction float64 // 1.0 = normal; lower = icier, higher = muddier.
	ScrollX  float64
	ScrollY  float64
}

// NewSectorMover creates a mover with normal friction and no push/scroll.
func NewSectorMover(s *level.Sector) *SectorMover {
	return &SectorMover{Sector: s, Friction: 1.0}
}

// Tick applies this tick's push force and floor scroll to every mobj
// resting in the sector, and updates the sector's own Friction/PushX/
// PushY fields that move.TryMove's future callers (player think, monster
// think) read when integrating momentum.
func (sm *SectorMover) Tick() {
	sm.Sector.Friction = sm.Friction
	sm.Sector.PushX = sm.PushX + sm.ScrollX
	sm.Sector.PushY = sm.PushY + sm.ScrollY

	for _, mo := range sm.Sector.Touching {
		if mo.Z > mo.FloorZ {
			continue // only things resting on the floor feel scroll/push; airborne things don't.
		}
		mo.MomX += sm.Sector.PushX
		mo.MomY += sm.Sector.PushY
	}
}

// RadiusForce applies a point-source push or pull (Boom's wind/current
// "RadiusForce" specials) to every mobj within Radius of (X,Y), scaled
// linearly from Strength at the center to 0 at the radius.
type RadiusForce struct {
	X, Y     float64
	Radius   float64
	Strength float64 // positive pushes away, negative pulls in.
}

// Tick applies the force to every mobj in lv within range, for one tick.
func (rf *RadiusForce) Tick(lv *level.Level) {
	lv.BlockmapThingIterator(rf.X-rf.Radius, rf.Y-rf.Radius, rf.X+rf.Radius, rf.Y+rf.Radius, func(mo *level.MapObject) bool {
		dx, dy := mo.X-rf.X, mo.Y-rf.Y
		dist := math.Hypot(dx, dy)
		if dist >= rf.Radius || dist == 0 {
			return true
		}
		falloff := (rf.Radius - dist) / rf.Radius
		mag := rf.Strength * falloff / dist
		mo.MomX += dx * mag
		mo.MomY += dy * mag
		return true
	})
}

// ForceKind distinguishes Boom's two sector-wide uniform forces: Wind
// pushes everything in the sector regardless of height, Current only
// pushes things actually submerged in one of the sector's liquid
// extrafloors.
type ForceKind int

const (
	Wind ForceKind = iota
	Current
)

// SectorForce applies a constant directional force to every mobj touching
// Sector, each tick — the sector-wide counterpart to RadiusForce's point
// source, used for Boom's whole-sector wind and current specials.
type SectorForce struct {
	Sector   *level.Sector
	Kind     ForceKind
	Angle    float64 // radians.
	Strength float64
}

// NewSectorForce creates a sector-wide force of the given kind, angle (in
// radians), and per-tick strength.
func NewSectorForce(s *level.Sector, kind ForceKind, angle, strength float64) *SectorForce {
	return &SectorForce{Sector: s, Kind: kind, Angle: angle, Strength: strength}
}

func (sf *SectorForce) sectorIsLiquid() bool {
	for _, ef := range sf.Sector.Extrafloors {
		if ef.IsLiquid() {
			return true
		}
	}
	return false
}

// Tick applies the force to every mobj touching Sector. Current only acts
// when the sector actually has a liquid extrafloor; Wind always acts.
func (sf *SectorForce) Tick() {
	if sf.Kind == Current && !sf.sectorIsLiquid() {
		return
	}
	vx := math.Cos(sf.Angle) * sf.Strength
	vy := math.Sin(sf.Angle) * sf.Strength
	for _, mo := range sf.Sector.Touching {
		mo.MomX += vx
		mo.MomY += vy
	}
}
