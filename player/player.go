// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package player implements per-tick player simulation: turning a tic
// command into movement via package move, sector-special damage/light
// application, powerup countdowns, and death think — the single-actor
// analogue of plane.PlaneMover's per-tick state advance, applied to the
// one mobj a human (or demo/net) input stream drives.
package player

import (
	"math"

	"github.com/doomvu/engine/level"
	"github.com/doomvu/engine/move"
	"github.com/doomvu/engine/sight"
)

// Button bits carried by a TicCmd.
const (
	ButtonAttack uint32 = 1 << iota
	ButtonUse
	ButtonJump
	ButtonCrouch
	ButtonSpeed
	ButtonZoom
)

// TicCmd is one tick's worth of player input, already sampled and
// quantized by whatever collects it (local input, demo playback, or a net
// packet) — this package only consumes it.
type TicCmd struct {
	ForwardMove float64 // -1..1
	SideMove    float64 // -1..1
	UpMove      float64 // -1..1, vertical thrust while swimming/flying/on a ladder.
	Angle       float64 // absolute yaw, radians.
	Pitch       float64 // absolute pitch, radians.
	Buttons     uint32
}

// Powerup IDs used as keys into PlayerInfo.Powerups.
const (
	PowerInvulnerability = iota
	PowerStrength
	PowerInvisibility
	PowerRadSuit
	PowerAllMap
	PowerLightAmp
)

// Tuning constants, in map units per tick (35 tics/sec convention).
const (
	RunSpeed      = 50.0
	WalkSpeedMult = 0.5
	JumpSpeed     = 8.0
	ViewHeightMax = 56.0
	CrouchHeight  = 28.0
	MaxHealth     = 200

	// CrouchSlowdown halves ground speed while crouched.
	CrouchSlowdown = 0.5
	// CrouchStepPerTick is how fast mo.Height eases toward its crouch or
	// standing target, one map unit pair per tick either direction.
	CrouchStepPerTick = 2.0

	// JumpCooldownTicks blocks re-jumping for roughly half a second,
	// matching the pause the original enforces after a jump.
	JumpCooldownTicks = 18

	// MouseLookLimit clamps vertical look to ±75 degrees.
	MouseLookLimit = 75.0 * math.Pi / 180.0

	// DefaultFOV and ZoomAngleDivisor implement "zoom": while the zoom
	// button is held the field of view is divided by the divisor; turning
	// speed is unchanged.
	DefaultFOV       = 90.0
	ZoomAngleDivisor = 4.0
)

// Sector specials this package recognizes, following the same bare-int
// convention the original's sector->special field uses.
const (
	SectorDamageSlow   = 5  // 10% health/sec, slow-burning hazard.
	SectorDamageNukage = 7  // 5% health/sec, nukage.
	SectorSecret       = 9  // credits the player once, then clears itself.
	SectorDamageSuper  = 16 // 20% health/sec, super-hazard.
	SectorAirless      = 17 // drains air_in_lungs; damages once it runs out.
)

// skyFlatName is the magic flat name a sky ceiling is drawn with, the
// classic convention ReverbProbe uses to pick an outdoor reverb zone.
const skyFlatName = "F_SKY1"

// Think advances mo by one tic per cmd: builds a world-space momentum
// delta from cmd's forward/side/up axes rotated by the cmd's angle and
// pitch, scaled by sector friction and crouch slowdown, then resolves it
// through move.SlideMove so the player slides along walls instead of
// stopping dead.
func Think(lv *level.Level, mo *level.MapObject, cmd TicCmd, opts move.Options) {
	if mo.Health <= 0 {
		DeathThink(mo)
		if mo.Player != nil && cmd.Buttons&ButtonUse != 0 {
			mo.Player.AwaitingRespawn = true
		}
		return
	}

	mo.Angle = cmd.Angle
	mo.VerticalAngle = clampPitch(cmd.Pitch)

	if mo.Player != nil {
		mo.Player.Zoom = cmd.Buttons&ButtonZoom != 0
		mo.Player.FOV = DefaultFOV
		if mo.Player.Zoom {
			mo.Player.FOV /= ZoomAngleDivisor
		}
		if mo.Player.JumpCooldown > 0 {
			mo.Player.JumpCooldown--
		}
	}

	onGround := mo.Z <= mo.FloorZ
	swimming := mo.Player != nil && mo.Player.InWater
	flying := mo.Flags&level.MFNoGravity != 0 && swimming
	crouching := mo.Player != nil && mo.Player.Crouching

	speed := RunSpeed
	if cmd.Buttons&ButtonSpeed == 0 {
		speed *= WalkSpeedMult
	}
	if crouching {
		speed *= CrouchSlowdown
	}
	speed *= groundFriction(mo)

	cosA, sinA := math.Cos(mo.Angle), math.Sin(mo.Angle)
	fwd, side := cmd.ForwardMove*speed, cmd.SideMove*speed
	if swimming || flying || mo.OnLadder {
		// rotate the forward axis by pitch too, so swimming toward the
		// look direction climbs or dives instead of staying level.
		cosP := math.Cos(mo.VerticalAngle)
		sinP := math.Sin(mo.VerticalAngle)
		mo.MomX += fwd*cosA*cosP - side*sinA
		mo.MomY += fwd*sinA*cosP + side*cosA
		mo.MomZ += fwd*sinP + cmd.UpMove*speed
	} else {
		mo.MomX += fwd*cosA - side*sinA
		mo.MomY += fwd*sinA + side*cosA
	}

	if cmd.Buttons&ButtonJump != 0 && onGround && !crouching && !swimming && !flying &&
		(mo.Player == nil || mo.Player.JumpCooldown <= 0) {
		mo.MomZ = JumpSpeed
		if mo.Player != nil {
			mo.Player.JumpCooldown = JumpCooldownTicks
		}
	}

	applyCrouch(mo, cmd, onGround)

	move.SlideMove(lv, mo, opts)
	ApplySectorSpecial(mo)
	TickPowerups(mo)
}

func clampPitch(pitch float64) float64 {
	switch {
	case pitch > MouseLookLimit:
		return MouseLookLimit
	case pitch < -MouseLookLimit:
		return -MouseLookLimit
	default:
		return pitch
	}
}

// groundFriction returns the standing sector's Friction, clamped to
// [0,1] the way Boom's movement-factor application does, or 1.0 (no
// slowdown) when mo isn't linked to a sector yet.
func groundFriction(mo *level.MapObject) float64 {
	if mo.Subsector == nil || mo.Subsector.Sector == nil {
		return 1.0
	}
	f := mo.Subsector.Sector.Friction
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 1
	default:
		return f
	}
}

// applyCrouch eases mo.Height toward the crouch or standing target by
// CrouchStepPerTick, refusing to stand back up if the ceiling is too low
// to clear the standing height.
func applyCrouch(mo *level.MapObject, cmd TicCmd, onGround bool) {
	if mo.Player == nil {
		return
	}
	mo.Player.Crouching = cmd.Buttons&ButtonCrouch != 0 && onGround

	target := mo.OriginalHeight
	if mo.Player.Crouching {
		target = CrouchHeight
	}
	switch {
	case mo.Height > target:
		mo.Height = math.Max(target, mo.Height-CrouchStepPerTick)
	case mo.Height < target:
		if mo.CeilingZ-mo.FloorZ >= target {
			mo.Height = math.Min(target, mo.Height+CrouchStepPerTick)
		}
	}
}

// ApplySectorSpecial applies the standing-in-damage-floor, airless,
// swimming, and secret-credit per-tick sector special effects (light-
// blink is a renderer concern, not modeled here) to mo's current sector.
func ApplySectorSpecial(mo *level.MapObject) {
	if mo.Subsector == nil || mo.Subsector.Sector == nil {
		return
	}
	sec := mo.Subsector.Sector

	updateSwimming(mo, sec)
	creditSecret(mo, sec)

	if sec.Special == SectorAirless {
		drainAir(mo)
	}

	if mo.Z > mo.FloorZ {
		return
	}
	switch sec.Special {
	case SectorDamageSlow:
		damagePlayer(mo, 10)
	case SectorDamageNukage:
		damagePlayer(mo, 5)
	case SectorDamageSuper:
		damagePlayer(mo, 20)
	}
}

// updateSwimming sets PlayerInfo.InWater when mo's vertical extent
// overlaps a liquid extrafloor stacked in sec.
func updateSwimming(mo *level.MapObject, sec *level.Sector) {
	if mo.Player == nil {
		return
	}
	swimming := false
	for _, ef := range sec.Extrafloors {
		if ef.IsLiquid() && mo.Z < ef.Top && mo.Z+mo.Height > ef.Bottom {
			swimming = true
			break
		}
	}
	mo.Player.InWater = swimming
}

// creditSecret credits the player once for entering a secret sector, then
// clears the special so re-entering doesn't credit it again.
func creditSecret(mo *level.MapObject, sec *level.Sector) {
	if mo.Player == nil || sec.Special != SectorSecret {
		return
	}
	mo.Player.SecretsFound++
	sec.Special = 0
}

func drainAir(mo *level.MapObject) {
	if mo.Player == nil {
		return
	}
	const drainPerTick = 1.0
	mo.Player.AirInLungs -= drainPerTick
	if mo.Player.AirInLungs < 0 {
		mo.Player.AirInLungs = 0
		damagePlayer(mo, 2) // drowning, once air runs out.
	}
}

// armorSaveFraction is the fraction of damage each armor class absorbs:
// green, blue, purple, yellow, red.
var armorSaveFraction = map[int]float64{
	1: 0.33,
	2: 0.50,
	3: 0.66,
	4: 0.75,
	5: 0.90,
}

// absorbArmor reduces damage by the player's armor class's save fraction,
// consuming armor points 1-for-1 with the amount saved, same as the
// original's per-class armor-protect percentages.
func absorbArmor(p *level.PlayerInfo, damage int) int {
	frac, ok := armorSaveFraction[p.ArmorClass]
	if !ok || p.Armor <= 0 {
		return damage
	}
	saved := int(float64(damage) * frac)
	if saved > p.Armor {
		saved = p.Armor
	}
	p.Armor -= saved
	if p.Armor <= 0 {
		p.ArmorClass = 0
	}
	return damage - saved
}

func damagePlayer(mo *level.MapObject, percentPerSecond int) {
	if mo.Player != nil && mo.Player.Powerups[PowerRadSuit] > 0 {
		return
	}
	const tickRate = 35
	damage := percentPerSecond / tickRate
	if damage < 1 {
		damage = 1
	}
	if mo.Player != nil {
		damage = absorbArmor(mo.Player, damage)
	}
	mo.Health -= damage
}

// TickPowerups decrements every active powerup's remaining duration by
// one tick, removing it once it reaches zero.
func TickPowerups(mo *level.MapObject) {
	if mo.Player == nil {
		return
	}
	for id, ticsLeft := range mo.Player.Powerups {
		ticsLeft--
		if ticsLeft <= 0 {
			delete(mo.Player.Powerups, id)
		} else {
			mo.Player.Powerups[id] = ticsLeft
		}
	}
}

// deathTurnFraction is how much of the remaining angle to an attacker
// DeathThink closes per tick — a fifth, the same easing the original uses.
const deathTurnFraction = 0.2

// DeathThink settles a dead player's view height toward the ground and
// rotates the corpse's view to face its killer, the classic "camera sinks
// and turns toward the attacker" death animation.
func DeathThink(mo *level.MapObject) {
	if mo.Player == nil {
		return
	}
	const sinkRate = 1.0
	if mo.Player.ViewHeight > 6 {
		mo.Player.ViewHeight -= sinkRate
	}
	mo.Player.Zoom = false

	if mo.Attacker != nil && mo.Attacker != mo {
		dx := mo.Attacker.X - mo.X
		dy := mo.Attacker.Y - mo.Y
		dz := (mo.Attacker.Z + mo.Attacker.Height/2) - (mo.Z + mo.Player.ViewHeight)

		wantAngle := math.Atan2(dy, dx)
		wantPitch := math.Atan2(dz, math.Hypot(dx, dy))

		mo.Angle = turnToward(mo.Angle, wantAngle, deathTurnFraction)
		mo.VerticalAngle = turnToward(mo.VerticalAngle, wantPitch, deathTurnFraction)
	}
}

func turnToward(current, target, frac float64) float64 {
	return current + normalizeAngle(target-current)*frac
}

func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// ReverbZone is the coarse room classification ReverbProbe derives: a
// room-size distance a channel mixer maps onto reverb decay/density, and
// whether the zone is enclosed (false once any probe ray, or the
// listener's own sector, exposes sky).
type ReverbZone struct {
	RoomSize float64
	Indoor   bool
}

// Room-size thresholds (in map units) a ReverbZone.Class call buckets
// RoomSize against; empirical, per the original's own design note.
const (
	reverbSmallRoomMax  = 350.0
	reverbMediumRoomMax = 700.0
)

// RoomSizeClass buckets a ReverbZone.RoomSize into small/medium/large, the
// granularity a reverb send's decay time is chosen from.
type RoomSizeClass int

const (
	RoomSmall RoomSizeClass = iota
	RoomMedium
	RoomLarge
)

// Class buckets z.RoomSize against the small/medium/large thresholds.
func (z ReverbZone) Class() RoomSizeClass {
	switch {
	case z.RoomSize < reverbSmallRoomMax:
		return RoomSmall
	case z.RoomSize < reverbMediumRoomMax:
		return RoomMedium
	default:
		return RoomLarge
	}
}

// ReverbProbe casts 8 evenly spaced sight rays outward from mo and
// averages their hit distance into a room-size estimate, cheaper than
// tracing a full impulse response per tick. Indoor is false (outdoor
// reverb applies) if any probe ray or the listener's own sector exposes
// a sky ceiling.
func ReverbProbe(lv *level.Level, mo *level.MapObject, maxDistance float64) ReverbZone {
	const rays = 8
	sawSky := mo.Subsector != nil && isSkySector(mo.Subsector.Sector)

	total := 0.0
	for i := 0; i < rays; i++ {
		angle := float64(i) * (2 * math.Pi / rays)
		dist, hitSky := probeDistance(lv, mo, angle, maxDistance)
		total += dist
		if hitSky {
			sawSky = true
		}
	}
	return ReverbZone{RoomSize: total / rays, Indoor: !sawSky}
}

func probeDistance(lv *level.Level, mo *level.MapObject, angle, maxDistance float64) (dist float64, hitSky bool) {
	x1, y1 := mo.X, mo.Y
	x2 := x1 + math.Cos(angle)*maxDistance
	y2 := y1 + math.Sin(angle)*maxDistance

	hitFrac := 1.0
	sight.Traverse(lv, x1, y1, x2, y2, false, func(ic sight.Intercept) bool {
		if !ic.Line.TwoSided() {
			hitFrac = ic.Frac
			if isSkySector(ic.Line.FrontSector) {
				hitSky = true
			}
			return false
		}
		return true
	})
	return hitFrac * maxDistance, hitSky
}

func isSkySector(s *level.Sector) bool {
	return s != nil && s.CeilSurface != nil && s.CeilSurface.Image == skyFlatName
}
