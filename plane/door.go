// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plane

import "github.com/doomvu/engine/level"

// SlidingDoorState mirrors PlaneMover's progress states for a door that
// slides its texture sideways (Strife/Hexen-style) instead of raising a
// ceiling.
type SlidingDoorState int

const (
	DoorClosed SlidingDoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

// SlidingDoorMover animates Line.Slider.Opening and a 0..1 Progress value
// a renderer can use to offset the door's two half-width side textures,
// instead of moving a sector plane height.
type SlidingDoorMover struct {
	Line     *level.Line
	State    SlidingDoorState
	Progress float64 // 0 = fully closed, 1 = fully open.
	Speed    float64 // progress units per tick.
	HoldTics int     // ticks to wait fully open before closing.
	holdLeft int

	OnFinish func(dm *SlidingDoorMover)
}

// NewSlidingDoorMover creates a mover starting in DoorOpening.
func NewSlidingDoorMover(l *level.Line, speed float64, holdTics int) *SlidingDoorMover {
	if l.Slider == nil {
		l.Slider = &level.SliderState{}
	}
	return &SlidingDoorMover{Line: l, Speed: speed, HoldTics: holdTics, State: DoorOpening}
}

// Tick advances the slider by one game tick.
func (dm *SlidingDoorMover) Tick() {
	switch dm.State {
	case DoorOpening:
		dm.Progress += dm.Speed
		dm.Line.Slider.Opening = true
		if dm.Progress >= 1 {
			dm.Progress = 1
			dm.State = DoorOpen
			dm.holdLeft = dm.HoldTics
		}
	case DoorOpen:
		if dm.holdLeft > 0 {
			dm.holdLeft--
			return
		}
		dm.State = DoorClosing
	case DoorClosing:
		dm.Progress -= dm.Speed
		if dm.Progress <= 0 {
			dm.Progress = 0
			dm.State = DoorClosed
			dm.Line.Slider.Opening = false
			if dm.OnFinish != nil {
				dm.OnFinish(dm)
			}
		}
	case DoorClosed:
		return
	}
}
