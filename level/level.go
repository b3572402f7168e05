// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package level implements the BSP world model and blockmap-accelerated
// spatial index: vertices, sectors, lines, sides, segs, subsectors, BSP
// nodes, extrafloors, and the moving objects that inhabit them.
//
// Level data is populated by an external collaborator (a WAD/DDF loader
// lives outside this package, see MapLoader) and is then read-shared,
// mutated-sequentially by the rest of the engine for the life of the map.
//
// Package level is provided as part of the doomvu map runtime.
package level

import (
	"math"

	"github.com/doomvu/engine/rng"
)

// BlockSize is the blockmap cell size in map units, fixed by the original
// format.
const BlockSize = 128.0

// Vertex is a 2D point used by lines and segs.
type Vertex struct {
	X, Y float64
}

// Surface describes one drawable plane or wall face: image reference,
// scroll offset (current + old, for interpolation, + net per-tick
// accumulator), scale matrix, and optional override lighting. The image
// field is a name, not pixel data — rendering is an external collaborator.
type Surface struct {
	Image         string
	ScrollX       float64
	ScrollY       float64
	OldScrollX    float64
	OldScrollY    float64
	NetScrollX    float64 // per-tick accumulator, flushed at UpdateSpecials.
	NetScrollY    float64
	ScaleX        float64
	ScaleY        float64
	Translucency  float64 // 0 = opaque, 1 = fully transparent.
	OverrideLight int     // -1 means "no override", use sector light.
}

// NewSurface returns a surface with identity scale and no scroll.
func NewSurface(image string) *Surface {
	return &Surface{Image: image, ScaleX: 1, ScaleY: 1, OverrideLight: -1}
}

// Gap is a vertical open interval along a line, accounting for stacked
// extrafloors: things may occupy z in [Floor, Ceiling) within this gap.
type Gap struct {
	Floor, Ceiling float64
}

// ExtrafloorFlag enumerates extrafloor behaviour bits.
type ExtrafloorFlag uint32

const (
	EFThick ExtrafloorFlag = 1 << iota
	EFLiquid
)

// Extrafloor is a stacked liquid or solid floor slab inside a host sector.
type Extrafloor struct {
	Top, Bottom       float64
	TopSurface        *Surface
	BottomSurface     *Surface
	Flags             ExtrafloorFlag
	Higher, Lower     *Extrafloor // doubly linked list within the host sector.
	ControllingSector *Sector     // the sector whose floor/ceiling drive this slab.
	Host              *Sector     // the sector this slab lives inside.
}

// IsLiquid reports whether things should be treated as swimming within
// this extrafloor's depth.
func (e *Extrafloor) IsLiquid() bool { return e.Flags&EFLiquid != 0 }

// Plane is a tilted 3D floor or ceiling defined by three vertex heights
// (a vertex-slope sector, Boom's vertex-heights extension), distinct from
// Line.SlopeType's 2D direction classification. Points satisfy
// Normal.X*x + Normal.Y*y + Normal.Z*z = D.
type Plane struct {
	NormalX, NormalY, NormalZ float64
	D                         float64
}

// NewPlane builds the plane through three non-collinear (x,y,z) points,
// the way a vertex-slope sector's three control vertices define it.
func NewPlane(p1, p2, p3 [3]float64) *Plane {
	ux, uy, uz := p2[0]-p1[0], p2[1]-p1[1], p2[2]-p1[2]
	vx, vy, vz := p3[0]-p1[0], p3[1]-p1[1], p3[2]-p1[2]
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	return &Plane{
		NormalX: nx, NormalY: ny, NormalZ: nz,
		D: nx*p1[0] + ny*p1[1] + nz*p1[2],
	}
}

// HeightAt solves the plane equation for z at (x,y), the ray-plane
// intersection of a vertical ray dropped from (x,y).
func (p *Plane) HeightAt(x, y float64) float64 {
	return (p.D - p.NormalX*x - p.NormalY*y) / p.NormalZ
}

// Sector is a convex or non-convex floor/ceiling region.
type Sector struct {
	ID int

	FloorHeight   float64
	CeilingHeight float64
	FloorSurface  *Surface
	CeilSurface   *Surface
	LightLevel    int
	Special       int
	Tag           int

	// FloorSlope/CeilSlope are non-nil for a vertex-slope sector; when set
	// they take priority over FloorHeight/CeilingHeight at a given point.
	FloorSlope *Plane
	CeilSlope  *Plane

	Lines      []*Line
	Subsectors []*Subsector

	// ControlFloors is the inverse of Extrafloor.ControllingSector: every
	// extrafloor elsewhere in the level whose floor/ceiling this sector's
	// height changes drive.
	ControlFloors []*Extrafloor
	// Extrafloors stacked inside this sector itself, lowest first.
	Extrafloors []*Extrafloor

	GlowThings []*MapObject
	Touching   map[int]*MapObject // mobjs overlapping this sector, keyed by MapObject.ID.

	TagNext *Sector // tag-chain sibling, same Tag value.

	// Friction, force, and scroll state applied by special (see package special).
	Friction     float64 // 1.0 = normal.
	PushX, PushY float64 // constant per-tick push vector.

	// DrawHeights (Boom 242) lets a sector borrow another sector's floor
	// and ceiling height purely for visual purposes.
	DrawHeightsFrom *Sector

	// Lowering is set by a PlaneMover while this sector's floor is moving
	// down, so move.TryMove can refuse a player stepping onto it.
	Lowering bool
}

// NewSector creates a sector with standard friction and no special.
func NewSector(id int, floor, ceiling float64) *Sector {
	return &Sector{
		ID:            id,
		FloorHeight:   floor,
		CeilingHeight: ceiling,
		FloorSurface:  NewSurface(""),
		CeilSurface:   NewSurface(""),
		Friction:      1.0,
		Touching:      map[int]*MapObject{},
	}
}

// FloorHeightAt returns the floor height at (x,y): the vertex-slope plane's
// ray-plane intersection if this sector has one, otherwise the flat
// FloorHeight.
func (s *Sector) FloorHeightAt(x, y float64) float64 {
	if s.FloorSlope != nil {
		return s.FloorSlope.HeightAt(x, y)
	}
	return s.FloorHeight
}

// CeilingHeightAt returns the ceiling height at (x,y), the vertex-slope
// analogue of FloorHeightAt.
func (s *Sector) CeilingHeightAt(x, y float64) float64 {
	if s.CeilSlope != nil {
		return s.CeilSlope.HeightAt(x, y)
	}
	return s.CeilingHeight
}

// Subsector is a convex leaf of the BSP.
type Subsector struct {
	ID      int
	Sector  *Sector
	Segs    []*Seg
	Mobjs   map[int]*MapObject // objects whose (x,y) currently lies inside.
	BBox    AABB
	MidX    float64 // centroid, used by navgraph edge length/waypoints.
	MidY    float64
}

// NewSubsector creates an empty subsector belonging to the given sector.
func NewSubsector(id int, sector *Sector) *Subsector {
	return &Subsector{ID: id, Sector: sector, Mobjs: map[int]*MapObject{}}
}

// LineFlag enumerates Line.Flags bits.
type LineFlag uint32

const (
	LineBlocking LineFlag = 1 << iota
	LineBlockMonsters
	LineTwoSided
	LineBlockGroundedMonsters
	LineBlockPlayers
	LineBlockShots
	LineBlockSight
	LineMidTranslucent
)

// SlopeType classifies a line's direction for fast rejection tests.
type SlopeType int

const (
	SlopeHorizontal SlopeType = iota
	SlopeVertical
	SlopePositive
	SlopeNegative
)

// Side holds the wall surfaces on one side of a line.
type Side struct {
	Top, Middle, Bottom *Surface
	Sector              *Sector
}

// NewSide creates a side bound to the given sector with empty surfaces.
func NewSide(sector *Sector) *Side {
	return &Side{Top: NewSurface(""), Middle: NewSurface(""), Bottom: NewSurface(""), Sector: sector}
}

// Line is a level edge, with 1 or 2 sides.
type Line struct {
	ID int

	V1, V2 *Vertex
	Sides  [2]*Side // Sides[1] is nil for one-sided walls.

	FrontSector, BackSector *Sector

	Special int
	Tag     int
	Flags   LineFlag

	Length     float64
	Dx, Dy     float64
	SlopeType  SlopeType

	// Gaps are the stacked open vertical intervals between extrafloors on
	// each side, recomputed whenever a bordering sector's height or
	// extrafloor stack changes.
	Gaps      []Gap
	SightGaps []Gap

	Slider *SliderState // non-nil if this line carries a sliding door.
}

// SliderState is the minimal slider-door linkage a Line needs; package
// plane owns the full SlidingDoorMover and keeps this pointer current.
type SliderState struct {
	Opening bool
}

// TwoSided reports whether the line has a back side.
func (l *Line) TwoSided() bool { return l.Sides[1] != nil }

// NewLine creates a line between v1 and v2, computing length/delta/slope.
func NewLine(id int, v1, v2 *Vertex) *Line {
	l := &Line{ID: id, V1: v1, V2: v2}
	l.Dx = v2.X - v1.X
	l.Dy = v2.Y - v1.Y
	l.Length = math.Hypot(l.Dx, l.Dy)
	switch {
	case l.Dx == 0:
		l.SlopeType = SlopeVertical
	case l.Dy == 0:
		l.SlopeType = SlopeHorizontal
	case l.Dy/l.Dx > 0:
		l.SlopeType = SlopePositive
	default:
		l.SlopeType = SlopeNegative
	}
	return l
}

// PointOnSide returns 0 if (x,y) is on the front (right) side of the line
// and 1 if it is on the back (left) side, using the same cross-product
// test the BSP divider uses.
func (l *Line) PointOnSide(x, y float64) int {
	dx := x - l.V1.X
	dy := y - l.V1.Y
	cross := l.Dx*dy - l.Dy*dx
	if cross <= 0 {
		return 0
	}
	return 1
}

// Seg is a directed edge of a subsector.
type Seg struct {
	ID                  int
	Front, Back         *Subsector
	Line                *Line // nil for a miniseg.
	Miniseg             bool
	V1, V2              *Vertex
}

// Mid returns the seg's midpoint, used by navgraph waypoints.
func (s *Seg) Mid() (x, y float64) {
	return (s.V1.X + s.V2.X) / 2, (s.V1.Y + s.V2.Y) / 2
}

// BSPNode is a binary split of the level.
type BSPNode struct {
	DividerX, DividerY   float64
	DividerDx, DividerDy float64
	FrontBox, BackBox    AABB

	// Child is either another *BSPNode or a *Subsector (a leaf).
	FrontChild, BackChild BSPChild
}

// BSPChild is implemented by *BSPNode and *Subsector.
type BSPChild interface {
	isBSPChild()
}

func (*BSPNode) isBSPChild()   {}
func (*Subsector) isBSPChild() {}

// AABB is an axis aligned bounding box in the map's x,y plane.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

// Overlaps reports whether two AABBs intersect (touching counts as overlap).
func (a AABB) Overlaps(b AABB) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX && a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

// Contains reports whether the point lies within the box.
func (a AABB) Contains(x, y float64) bool {
	return x >= a.MinX && x <= a.MaxX && y >= a.MinY && y <= a.MaxY
}

// Expand returns a box grown by margin on every side.
func (a AABB) Expand(margin float64) AABB {
	return AABB{a.MinX - margin, a.MinY - margin, a.MaxX + margin, a.MaxY + margin}
}

// Level owns the whole map's data and index structures, plus the mutable
// state (ValidCount, the stateful RNG, the node arena) that the original
// spec's design notes call for packaging into a context struct rather than
// leaving as package globals. Traversal functions take *Level as their
// first argument.
type Level struct {
	Sectors    []*Sector
	Subsectors []*Subsector
	Lines      []*Line
	Root       BSPChild

	Blockmap *Blockmap

	// validCount is a monotonically increasing stamp. Traversal callers
	// increment it (NextValidCount) before a pass so each line/sector's
	// own stamp is strictly less, deduplicating multi-cell references.
	validCount int

	// RNG is the stateful, deterministic stream that decisions affecting
	// simulation outcomes (monster travel choice, etc.) must use.
	RNG *rng.Stateful

	// Mobjs is every live MapObject, keyed by ID, independent of whether it
	// is linked into a subsector or blockmap cell (NoSector/NoBlockmap
	// mobjs are omitted from those indices but still live here).
	Mobjs map[int]*MapObject

	arena       touchArena
	nextMobjID  int
	deferredSet []deferredState
}

// NewLevel creates an empty level context. Sectors/Lines/Subsectors/Root
// and the Blockmap are populated afterwards by a loader.
func NewLevel() *Level {
	return &Level{
		RNG:   rng.NewStateful(),
		arena: newTouchArena(),
		Mobjs: map[int]*MapObject{},
	}
}

// NextValidCount increments and returns the global traversal stamp.
func (lv *Level) NextValidCount() int {
	lv.validCount++
	return lv.validCount
}

// NextMobjID hands out a unique MapObject identifier.
func (lv *Level) NextMobjID() int {
	lv.nextMobjID++
	return lv.nextMobjID
}
