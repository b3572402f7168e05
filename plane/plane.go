// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package plane implements the plane-mover state machines that drive
// floors, ceilings, lifts, and sliding doors: the generalized update-per-
// tick pattern ai.Behaviour uses for a single actor's status, applied here
// to a moving solid plane's direction/speed/target and the crushing
// interaction with things caught in its path.
package plane

import (
	"github.com/doomvu/engine/level"
	"github.com/doomvu/engine/move"
)

// MoverState mirrors ai.BehaviourState's progress-reporting convention.
type MoverState int

const (
	Invalid MoverState = iota
	Moving
	Waiting
	InStasis
	Finished
)

// Direction is the plane's current travel direction.
type Direction int

const (
	Down Direction = -1
	Stop Direction = 0
	Up   Direction = 1
)

// MoverType selects which row of the plane-mover state table a PlaneMover
// follows once it reaches a destination height.
type MoverType int

const (
	// TypeOnce moves once toward Target and finishes; no wait, no return
	// leg.
	TypeOnce MoverType = iota
	// TypeMoveWaitReturn moves to Target, waits WaitTicks, returns to its
	// starting height, then finishes.
	TypeMoveWaitReturn
	// TypePlatform cycles Low<->High forever, waiting WaitTicks at each
	// end.
	TypePlatform
	// TypeContinuous behaves like TypePlatform: an unbounded Low<->High
	// cycle. Kept as a distinct named type because DDF distinguishes the
	// two triggers even though the state machine is identical.
	TypeContinuous
	// TypeToggle moves to Target once, then parks in Stasis until an
	// external Activate call resumes it in its saved direction.
	TypeToggle
	// TypeStairs and TypeElevator move once like TypeOnce; they exist as
	// distinct DDF trigger names (see spec §6's plane-mover type list)
	// though a single PlaneMover's Tick treats them identically — a
	// stair/elevator sequence is built from several PlaneMovers chained by
	// OnFinish, not special-cased in one mover's state machine.
	TypeStairs
	TypeElevator
	// TypeStop has no behaviour of its own: Tick handles it like TypeOnce,
	// finishing when the plane reaches its target.
	TypeStop
)

// CrushBehaviour controls what a mover does when a thing blocks it.
type CrushBehaviour int

const (
	// NoCrush reverses direction on contact, the classic door/platform
	// behaviour (nothing takes damage).
	NoCrush CrushBehaviour = iota
	// SlowCrush damages blocking things at a slow rate and keeps pushing,
	// the classic crusher-ceiling behaviour.
	SlowCrush
	// FastCrush damages at a fast rate, used by the speed-doubled crusher
	// variant once a blockage persists.
	FastCrush
)

// TargetPlane selects whether a PlaneMover drives the floor or ceiling.
type TargetPlane int

const (
	Floor TargetPlane = iota
	Ceiling
)

// TextureChange directs what a mover does to its sector's plane texture
// and special once it reaches its destination height (Boom "trigger model"
// generalized specials carry this).
type TextureChange struct {
	Apply       bool
	FromSector  *level.Sector // copy texture (and optionally special) from here.
	CopySpecial bool
	ZeroSpecial bool
}

// PlaneMover advances one sector's floor or ceiling height toward a target
// at a fixed speed each tick, crushing or reversing on thing contact per
// Crush, and reporting Finished once the target height is reached.
//
// A simple single-leg mover (a door, a one-shot floor raise) is built with
// NewPlaneMover and never leaves Moving except to Finished. A cycling
// mover (a platform, a move-wait-return lift, a toggle-activated mover)
// is built with NewCyclingPlaneMover, which also populates Low/High so
// Tick can re-target the opposite endpoint on Wait expiry or on an
// external Activate call out of Stasis.
type PlaneMover struct {
	Sector *level.Sector
	Which  TargetPlane

	Type MoverType

	Dir      Direction
	startDir Direction
	Speed    float64
	Target   float64
	Low      float64 // destination moving Down; cycling movers only.
	High     float64 // destination moving Up; cycling movers only.
	Crush    CrushBehaviour

	// WaitTicks is how long a cycling mover parks at each endpoint before
	// reversing.
	WaitTicks     int
	waitRemaining int

	State MoverState
	// OldDir is the direction a Toggle mover was travelling in when it
	// reached Stasis, restored by Activate.
	OldDir Direction

	OnTexture TextureChange

	// OnFinish is invoked once, when the mover reaches Finished — the hook
	// package special uses to clear a sector's active-mover slot and
	// potentially restart a repeatable special.
	OnFinish func(pm *PlaneMover)

	cycling bool // true once Low/High are meaningful (set by NewCyclingPlaneMover).
}

// NewPlaneMover creates a single-leg mover already set to Moving in dir
// toward target, finishing (not cycling) once it arrives.
func NewPlaneMover(s *level.Sector, which TargetPlane, dir Direction, speed, target float64, crush CrushBehaviour) *PlaneMover {
	return &PlaneMover{
		Sector: s, Which: which, Type: TypeOnce,
		Dir: dir, startDir: dir, Speed: speed, Target: target, Crush: crush,
		State: Moving,
	}
}

// NewCyclingPlaneMover creates a mover that travels between low and high,
// per moverType's row of the plane-mover state table: TypePlatform and
// TypeContinuous cycle forever, waiting waitTicks at each endpoint;
// TypeMoveWaitReturn makes one round trip (out, wait, back) then
// finishes; TypeToggle moves to its first destination then parks in
// Stasis until Activate is called. dir is the mover's initial direction.
func NewCyclingPlaneMover(s *level.Sector, which TargetPlane, dir Direction, speed, low, high float64, waitTicks int, crush CrushBehaviour, moverType MoverType) *PlaneMover {
	pm := &PlaneMover{
		Sector: s, Which: which, Type: moverType,
		Dir: dir, startDir: dir, Speed: speed, Low: low, High: high, Crush: crush,
		WaitTicks: waitTicks, State: Moving, cycling: true,
	}
	pm.Target = pm.targetFor(dir)
	return pm
}

// Activate resumes a Toggle mover sitting in Stasis, restoring the
// direction it was travelling in when it arrived — the state table's
// "Stasis: external -> Up/Down (restore old_direction)" row.
func (pm *PlaneMover) Activate() {
	if pm.State != InStasis {
		return
	}
	pm.Dir = pm.OldDir
	pm.Target = pm.targetFor(pm.Dir)
	pm.State = Moving
}

func (pm *PlaneMover) targetFor(dir Direction) float64 {
	if dir == Up {
		return pm.High
	}
	return pm.Low
}

func (pm *PlaneMover) height() float64 {
	if pm.Which == Floor {
		return pm.Sector.FloorHeight
	}
	return pm.Sector.CeilingHeight
}

func (pm *PlaneMover) setHeight(h float64) {
	if pm.Which == Floor {
		pm.Sector.FloorHeight = h
		pm.Sector.Lowering = pm.Dir == Down
	} else {
		pm.Sector.CeilingHeight = h
	}
}

// Tick advances the mover by one game tick. For a crushing mover (Crush
// other than NoCrush), onContact is called for every mobj whose height clip
// now fails to fit the moved plane; the callback applies any damage itself,
// and its return value is not used. lv is used to re-clip every thing standing on or under the moving plane.
func (pm *PlaneMover) Tick(lv *level.Level, onContact func(mo *level.MapObject) (damage int)) {
	switch pm.State {
	case Waiting:
		pm.waitRemaining--
		if pm.waitRemaining <= 0 {
			pm.Dir = -pm.Dir
			pm.Target = pm.targetFor(pm.Dir)
			pm.State = Moving
		}
		return
	case Moving:
		// falls through to the movement below.
	default: // Invalid, InStasis, Finished.
		return
	}

	current := pm.height()
	next := current + float64(pm.Dir)*pm.Speed
	reached := (pm.Dir == Up && next >= pm.Target) || (pm.Dir == Down && next <= pm.Target)
	if reached {
		next = pm.Target
	}

	blocked := pm.crushSector(lv, current, next, onContact)
	if blocked {
		switch pm.Crush {
		case NoCrush:
			pm.Dir = -pm.Dir
			if pm.cycling {
				pm.Target = pm.targetFor(pm.Dir)
			}
			return
		case SlowCrush, FastCrush:
			// Crush-slow-down rule: a crusher already running slow grinds
			// to a crawl rather than speeding back up once it meets
			// resistance. Damage was already delivered via crushSector's
			// callback above; height holds at current until the blockage
			// clears.
			if pm.Speed < 1.5 {
				pm.Speed /= 8
			}
			return
		}
	}

	pm.setHeight(next)
	pm.reclipThings(lv)

	if reached {
		pm.onReachedTarget()
	}
}

// onReachedTarget applies the texture-change directive (if any) and moves
// the mover to whichever next state its Type calls for: Finished (Once/
// Stairs/Elevator/Stop), Waiting then reverse (Platform/Continuous, and
// MoveWaitReturn's outbound leg), or Stasis (Toggle).
func (pm *PlaneMover) onReachedTarget() {
	pm.Sector.Lowering = false
	if pm.OnTexture.Apply {
		applyTextureChange(pm.Sector, pm.OnTexture)
	}

	switch pm.Type {
	case TypeToggle:
		pm.OldDir = pm.Dir
		pm.State = InStasis
	case TypeMoveWaitReturn:
		if pm.Dir == pm.startDir {
			pm.State = Waiting
			pm.waitRemaining = pm.WaitTicks
		} else {
			pm.finish()
		}
	case TypePlatform, TypeContinuous:
		pm.State = Waiting
		pm.waitRemaining = pm.WaitTicks
	default: // TypeOnce, TypeStairs, TypeElevator, TypeStop.
		pm.finish()
	}
}

func (pm *PlaneMover) finish() {
	pm.State = Finished
	if pm.OnFinish != nil {
		pm.OnFinish(pm)
	}
}

// crushSector re-clips every mobj touching the sector against the
// hypothetical new height and reports whether any no longer fits,
// delivering crush damage through onContact for movers configured to
// crush rather than reverse.
func (pm *PlaneMover) crushSector(lv *level.Level, current, proposed float64, onContact func(*level.MapObject) int) bool {
	blocked := false
	saved := pm.height()
	pm.setHeightRaw(proposed)
	for _, mo := range pm.Sector.Touching {
		_, _, _, _ = move.ThingHeightClip(lv, mo)
		if mo.CeilingZ-mo.FloorZ < mo.Height {
			blocked = true
			if pm.Crush != NoCrush && onContact != nil {
				onContact(mo)
			}
		}
	}
	pm.setHeightRaw(saved)
	for _, mo := range pm.Sector.Touching {
		move.ThingHeightClip(lv, mo)
	}
	return blocked
}

func (pm *PlaneMover) setHeightRaw(h float64) {
	if pm.Which == Floor {
		pm.Sector.FloorHeight = h
	} else {
		pm.Sector.CeilingHeight = h
	}
}

func (pm *PlaneMover) reclipThings(lv *level.Level) {
	for _, mo := range pm.Sector.Touching {
		move.ThingHeightClip(lv, mo)
	}
}

func applyTextureChange(s *level.Sector, tc TextureChange) {
	if tc.FromSector == nil {
		return
	}
	s.FloorSurface = tc.FromSector.FloorSurface
	if tc.CopySpecial {
		s.Special = tc.FromSector.Special
	}
	if tc.ZeroSpecial {
		s.Special = 0
	}
}
