// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rng provides the two independent random number streams the map
// runtime needs: a stateless stream for cosmetic randomness (which sound
// variant to play) and a stateful, deterministic stream for anything that
// affects simulation outcomes (which way a monster decides to travel).
//
// Package rng is provided as part of the doomvu map runtime.
package rng

import (
	"math/rand"
	"time"
)

// Stateless is reseeded on every call and is never required to replay the
// same sequence twice. Use it for anything that must not affect netgame
// synchronisation, e.g. picking which of several ambient sounds to play.
type Stateless struct {
	src *rand.Rand
}

// NewStateless creates a stream seeded from the wall clock.
func NewStateless() *Stateless {
	return &Stateless{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Random8Bit reseeds the stream from the wall clock and returns a number
// from 0 to 255.
func (s *Stateless) Random8Bit() int {
	s.src.Seed(time.Now().UnixNano())
	return s.src.Intn(256)
}

// Chance returns true with the given probability in [0,1].
func (s *Stateless) Chance(probability float64) bool {
	switch {
	case probability <= 0:
		return false
	case probability >= 1:
		return true
	default:
		return float64(s.Random8Bit())/255.0 < probability
	}
}

// Stateful is a deterministic 24-bit LCG-like stream: calling it with the
// same index/step history always produces the same sequence, which is what
// makes it safe to use for anything that determines simulation outcomes in
// a replay or netgame. Its index and step are the save-game hook.
type Stateful struct {
	index int
	step  int
}

// NewStateful creates a stream at its initial index/step (0, 1).
func NewStateful() *Stateful { return &Stateful{index: 0, step: 1} }

// Random8BitStateful advances the internal index and step, runs one step
// of a 24-bit linear congruential generator seeded from their sum, and
// returns the top 8 of its 24 bits, a number from 0 to 255.
//
// The index wraps at 256; every time it wraps back to zero the step is
// bumped by 47*2 so that the sequence doesn't repeat with a short period.
func (s *Stateful) Random8BitStateful() int {
	s.index += s.step
	s.index &= 0xff
	if s.index == 0 {
		s.step += 47 * 2
	}
	seed := uint32(s.index+s.step) & 0xffffff
	seed = (seed*0xFD43FD + 0xC39EC3) & 0xffffff
	return int(seed >> 16)
}

// RandomNegPos returns a number between -255 and 255, skewed so that values
// near zero have a higher probability. It exists to replace the naive
// "Random() - Random()" pattern while keeping both calls and their
// evaluation order, since some implementations of that pattern produce
// different results depending on argument evaluation order.
//
// Keep r1 computed strictly before r2: callers that rely on replay
// determinism depend on this ordering, not just on the final difference.
func (s *Stateful) RandomNegPos() int {
	r1 := s.Random8BitStateful()
	r2 := s.Random8BitStateful()
	return r1 - r2
}

// State returns the current index/step for serialisation into a save game.
func (s *Stateful) State() (index, step int) { return s.index, s.step }

// SetState restores a previously saved index/step.
func (s *Stateful) SetState(index, step int) { s.index, s.step = index, step }
