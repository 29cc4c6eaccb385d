// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"github.com/emer/etable/etensor"
)

// copyTsr returns a fresh tensor with the same shape and values.
func copyTsr(ts *etensor.Float32) *etensor.Float32 {
	out := etensor.NewFloat32(ts.Shp, nil, nil)
	copy(out.Values, ts.Values)
	return out
}

// Exponential performs one step of simple exponential smoothing of the
// observation into the running level:
//
//	s = alpha*obs + (1-alpha)*level
//
// A nil level is the initialization sentinel: the first observation
// becomes the level directly.  Inputs are not modified; the returned
// tensor is new.  Shapes must match (unchecked, elementwise over the
// shorter of the two).
func Exponential(obs, level *etensor.Float32, alpha float32) *etensor.Float32 {
	if level == nil {
		return copyTsr(obs)
	}
	out := etensor.NewFloat32(obs.Shp, nil, nil)
	for i := range obs.Values {
		out.Values[i] = alpha*obs.Values[i] + (1-alpha)*level.Values[i]
	}
	return out
}

// HoltLinear performs one step of Holt linear (double exponential)
// smoothing, tracking both a level and a trend:
//
//	s = alpha*obs + (1-alpha)*(level + trend)
//	b = beta*(s - level) + (1-beta)*trend
//
// Nil sentinels handle initialization: with nil level the observation
// becomes the level and the trend stays nil (returned as nil); with nil
// trend (second step) the trend initializes to obs - level.  Returns the
// new level and trend.
func HoltLinear(obs, level, trend *etensor.Float32, alpha, beta float32) (*etensor.Float32, *etensor.Float32) {
	if level == nil {
		return copyTsr(obs), nil
	}
	if trend == nil {
		trend = etensor.NewFloat32(obs.Shp, nil, nil)
		for i := range obs.Values {
			trend.Values[i] = obs.Values[i] - level.Values[i]
		}
	}
	s := etensor.NewFloat32(obs.Shp, nil, nil)
	b := etensor.NewFloat32(obs.Shp, nil, nil)
	for i := range obs.Values {
		s.Values[i] = alpha*obs.Values[i] + (1-alpha)*(level.Values[i]+trend.Values[i])
		b.Values[i] = beta*(s.Values[i]-level.Values[i]) + (1-beta)*trend.Values[i]
	}
	return s, b
}
