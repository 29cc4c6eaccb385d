// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package interp provides the interpolation policies used to estimate a
recorded value at an arbitrary time offset between two bracketing
observations.

Observations are indexed by age: the time, in msec, since the observation
was recorded.  A query age falls between the age of a younger observation
(the one recorded closer to now) and an older one.  The three policies
resolve the query as the nearest observation (within a tolerance, falling
back to linear), as the last value held (step function), or as a pure
linear interpolation.

All functions here are pure: out-of-bounds queries (older than anything
recorded) are resolved by the caller, which knows its overbound policy.
*/
package interp

import "github.com/goki/ki/kit"

// Modes are the interpolation policies for estimating a value between
// two recorded observations.
type Modes int32

//go:generate stringer -type=Modes

var KiT_Modes = kit.Enums.AddEnum(ModesN, kit.NotBitFlag, nil)

func (ev Modes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Modes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The interpolation modes
const (
	// Nearest snaps to the closer bracketing observation when it is within
	// Tol of the query age, and otherwise interpolates linearly.
	Nearest Modes = iota

	// Previous holds the last value: the observation recorded at or before
	// the query time (the older bracket, unless the younger one co-occurs
	// exactly with the query).
	Previous

	// Linear always interpolates linearly between the bracketing
	// observations as a function of age.
	Linear

	ModesN
)

// Params are the interpolation parameters for resolving delayed reads
// between recorded observations.
type Params struct {
	Mode Modes   `desc:"policy for estimating a value between two recorded observations"`
	Tol  float32 `min:"0" def:"0" desc:"maximum difference in time, in msec, from an observation for the query to be treated as co-occurring with it -- Nearest mode only"`
}

func (ip *Params) Defaults() {
	ip.Mode = Previous
	ip.Tol = 0
}

func (ip *Params) Update() {
}

// Val returns the estimated value at query age qa given the bracketing
// observations: pv at the younger age pa, and nv at the older age na,
// with pa <= qa <= na.  A zero-width window (na <= pa) returns pv
// directly, without division.
func (ip *Params) Val(pv, nv, pa, na, qa float32) float32 {
	if na <= pa {
		return pv
	}
	switch ip.Mode {
	case Previous:
		if pa >= qa { // observation exactly at the query time wins
			return pv
		}
		return nv
	case Nearest:
		dp := qa - pa
		dn := na - qa
		if dp <= ip.Tol || dn <= ip.Tol {
			if dp <= dn {
				return pv
			}
			return nv
		}
		return ip.lerp(pv, nv, pa, na, qa)
	default:
		return ip.lerp(pv, nv, pa, na, qa)
	}
}

func (ip *Params) lerp(pv, nv, pa, na, qa float32) float32 {
	return pv + (nv-pv)*((qa-pa)/(na-pa))
}
