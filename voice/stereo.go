// Copyright © 2014-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package voice

// Stereo is a left/right sample pair, the unit a Voice renders and a
// channel mixer accumulates.
type Stereo struct {
	Left, Right float64
}

// Scale returns s scaled by b.
func (s Stereo) Scale(b float64) Stereo { return Stereo{s.Left * b, s.Right * b} }

// Add returns s + b.
func (s Stereo) Add(b Stereo) Stereo { return Stereo{s.Left + b.Left, s.Right + b.Right} }
