// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package level

// mapobject.go implements thing lifecycle: creation, deferred state
// transitions, and removal. MapObjectSetStateDeferred exists because
// MapObjectSetState can re-enter the move code (a state's action function
// may call TryMove); queuing the transition and draining it at a
// well-defined point each tick (end of think pass) avoids that reentrancy,
// per the original spec's own design-note resolution.

// MobjFlag enumerates the coarse behavioural flags carried by a MapObject.
type MobjFlag uint32

const (
	MFSpecial MobjFlag = 1 << iota
	MFSolid
	MFShootable
	MFNoSector // not linked into a subsector's mobj list.
	MFNoBlockmap
	MFPickup
	MFNoClip
	MFFloat
	MFTeleport
	MFMissile
	MFDropoff
	MFShadow
	MFNoGravity
	MFSkullfly // charging objects whose contact with a thing is a killing slam.
	MFCorpse
	MFCountKill
	MFCountItem
	MFTouchy    // dies on any solid contact.
	MFShoveable // takes a lateral push from contact instead of blocking.
)

// State is a single animation/think frame. Tics is the duration in game
// ticks (-1 means permanent); Next is the state to transition to when Tics
// reaches zero; Think, if non-nil, runs every tick this state is active.
type State struct {
	ID    int
	Tics  int
	Next  int
	Think func(mo *MapObject)
}

// MapObjectDef is the immutable template a class of things shares: the
// spec's "info" pointer.
type MapObjectDef struct {
	Name       string
	Radius     float64
	Height     float64
	Mass       float64
	Flags      MobjFlag
	SpawnState int
	Speed      float64
}

// MapObject is a thing: a player, monster, projectile, pickup, or decoration.
type MapObject struct {
	ID int

	X, Y, Z          float64
	OldX, OldY, OldZ float64
	MomX, MomY, MomZ float64
	Radius, Height   float64
	OriginalHeight   float64
	Angle            float64 // yaw, radians.
	VerticalAngle    float64 // pitch, radians.

	Info  *MapObjectDef
	Flags MobjFlag

	Health int
	Tics   int
	State  *State

	Subsector *Subsector
	blockX, blockY int
	blockLinked    bool
	subsecLinked   bool

	touchHandles []touchHandle

	Attacker *MapObject
	Source   *MapObject
	Target   *MapObject
	Support  *MapObject
	Above    *MapObject
	Below    *MapObject

	FloorZ, CeilingZ, DropoffZ float64

	OnLadder bool
	Player   *PlayerInfo // nil for non-players.

	removing bool
}

// PlayerInfo is the minimal player-only state level needs to know about;
// package player owns the full think logic and keeps this populated.
type PlayerInfo struct {
	ViewHeight float64
	AirInLungs float64
	Armor      int
	ArmorClass int // 0 = none; 1-5 index the green/blue/purple/yellow/red save fractions.
	Powerups   map[int]int // powerup id -> ticks remaining.

	FOV  float64
	Zoom bool

	JumpCooldown int // ticks remaining before another jump is allowed.
	Crouching    bool
	InWater      bool

	SecretsFound    int
	AwaitingRespawn bool
}

type deferredState struct {
	mo    *MapObject
	state *State
}

// CreateMapObject allocates a mobj from the given definition at (x,y,z) and
// links it into the level's spatial indices (via SetThingPosition), unless
// the definition's flags opt it out of sector/blockmap linkage.
func (lv *Level) CreateMapObject(def *MapObjectDef, x, y, z float64) *MapObject {
	mo := &MapObject{
		ID:             lv.NextMobjID(),
		X:              x,
		Y:              y,
		Z:              z,
		OldX:           x,
		OldY:           y,
		OldZ:           z,
		Radius:         def.Radius,
		Height:         def.Height,
		OriginalHeight: def.Height,
		Info:           def,
		Flags:          def.Flags,
		Health:         1,
	}
	lv.Mobjs[mo.ID] = mo
	lv.SetThingPosition(mo)
	return mo
}

// MapObjectSetStateDeferred queues a state transition to be applied by
// DrainDeferredStates at the end of the current think pass, avoiding
// reentering move code from within a state's think/action function.
func (lv *Level) MapObjectSetStateDeferred(mo *MapObject, s *State) {
	lv.deferredSet = append(lv.deferredSet, deferredState{mo: mo, state: s})
}

// DrainDeferredStates applies every queued state transition in submission
// order, then clears the queue. Expected to be called once per tick, after
// the per-object thinker loop and before UpdateSpecials.
func (lv *Level) DrainDeferredStates() {
	pending := lv.deferredSet
	lv.deferredSet = lv.deferredSet[:0]
	for _, d := range pending {
		if d.mo.removing {
			continue
		}
		d.mo.State = d.state
		d.mo.Tics = d.state.Tics
	}
}

// RemoveMapObject marks a mobj for removal. It stays linked through the
// current think pass so iteration loops remain stable; FinalizeRemovals
// unlinks it from every index and scrubs outstanding references at a safe
// point (end of tick).
func (lv *Level) RemoveMapObject(mo *MapObject) {
	mo.removing = true
}

// FinalizeRemovals unlinks and frees every mobj marked for removal this
// tick, scrubbing attacker/source/target/support/above/below references
// that pointed at it. Expected to run once per tick, after DrainDeferredStates.
func (lv *Level) FinalizeRemovals() {
	var doomed []*MapObject
	for _, mo := range lv.Mobjs {
		if mo.removing {
			doomed = append(doomed, mo)
		}
	}
	if len(doomed) == 0 {
		return
	}
	for _, mo := range doomed {
		lv.UnsetThingPosition(mo)
		lv.UnsetThingFinal(mo)
		delete(lv.Mobjs, mo.ID)
	}
	scrub := func(ref **MapObject) {
		if *ref != nil && (*ref).removing {
			*ref = nil
		}
	}
	for _, mo := range lv.Mobjs {
		scrub(&mo.Attacker)
		scrub(&mo.Source)
		scrub(&mo.Target)
		scrub(&mo.Support)
		scrub(&mo.Above)
		scrub(&mo.Below)
	}
}
