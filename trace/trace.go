// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package trace provides exponentially-decaying spike traces and the
supporting smoothing and inter-spike-interval statistics used for
eligibility and activity monitoring in spiking models.

A trace x decays toward zero with time constant Tau and responds to
spikes either by overwriting (Nearest) or accumulating (Cumulative) the
spike amplitude:

	Nearest:    x = Amp            on spike, else x * exp(-dt/Tau)
	Cumulative: x = x*exp(-dt/Tau) + Amp on spike

Cumulative traces therefore grow with burst activity while nearest
traces only track recency of the last spike.
*/
package trace

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
	"github.com/pkg/errors"
)

//go:generate stringer -type=Modes

var KiT_Modes = kit.Enums.AddEnum(ModesN, kit.NotBitFlag, nil)

func (ev Modes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Modes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// Modes are the ways a trace responds to a spike.
type Modes int32

const (
	// Nearest overwrites the trace with the spike amplitude, tracking the
	// recency of the most recent spike only.
	Nearest Modes = iota

	// Cumulative adds the spike amplitude onto the decayed trace, so
	// closely-spaced spikes build a larger trace.
	Cumulative

	ModesN
)

// Params are the trace decay and amplitude parameters.
type Params struct {
	Tau   float32 `min:"1" def:"20" desc:"decay time constant, in msec"`
	Amp   float32 `def:"1" desc:"amplitude contributed by each spike"`
	Decay float32 `view:"-" json:"-" xml:"-" desc:"per-step decay factor = exp(-StepTime/Tau)"`
}

func (tp *Params) Defaults() {
	tp.Tau = 20
	tp.Amp = 1
}

// Update computes the per-step decay factor for the given step time.
func (tp *Params) Update(stepTime float32) {
	tp.Decay = mat32.FastExp(-stepTime / tp.Tau)
}

// NearestVal returns the updated trace value for one unit in Nearest
// mode: the amplitude on spike, the decayed trace otherwise.
func (tp *Params) NearestVal(tr, spk, amp float32) float32 {
	if spk != 0 {
		return amp
	}
	return tr * tp.Decay
}

// CumulativeVal returns the updated trace value for one unit in
// Cumulative mode: the decayed trace, plus the amplitude on spike.
func (tp *Params) CumulativeVal(tr, spk, amp float32) float32 {
	tr *= tp.Decay
	if spk != 0 {
		tr += amp
	}
	return tr
}

// Trace maintains an exponentially-decaying trace over a group of
// units, with a leading batch dimension like the rest of the simulation
// state.
type Trace struct {
	Mode     Modes   `desc:"how the trace responds to spikes"`
	Par      Params  `view:"inline" desc:"decay and amplitude parameters"`
	Shp      []int   `desc:"unit shape, excluding the batch dimension"`
	Batch    int     `desc:"batch size"`
	StepTime float32 `min:"0" def:"1" desc:"simulation step duration, in msec"`

	// current trace values, shape (Batch, Shp...).
	Tr *etensor.Float32
}

// New returns a new trace over shp units x batch instances with the
// given step time (msec) and default parameters.  Non-positive batch or
// step time fall back to 1.
func New(shp []int, batch int, stepTime float32) *Trace {
	if batch < 1 {
		batch = 1
	}
	if stepTime <= 0 {
		stepTime = 1
	}
	tr := &Trace{Batch: batch, StepTime: stepTime}
	tr.Shp = append([]int(nil), shp...)
	tr.Par.Defaults()
	tr.Mode = Cumulative
	tr.Update()
	tr.Tr = etensor.NewFloat32(append([]int{batch}, tr.Shp...), nil, nil)
	return tr
}

// Update recomputes derived rate constants after parameter changes.
func (tr *Trace) Update() {
	tr.Par.Update(tr.StepTime)
}

// size returns the number of units per batch instance.
func (tr *Trace) size() int {
	sz := 1
	for _, d := range tr.Shp {
		sz *= d
	}
	return sz
}

// Step advances the trace one simulation step with the given spikes
// (nonzero = spike) and returns the trace tensor.  A non-nil scale
// tensor modulates the per-unit spike amplitude (Amp * scale), for
// reward- or error-weighted traces.
func (tr *Trace) Step(spikes, scale *etensor.Float32) (*etensor.Float32, error) {
	want := tr.Batch * tr.size()
	if spikes == nil || spikes.Len() != want {
		return nil, errors.Errorf("trace: spike input needs %d values", want)
	}
	if scale != nil && scale.Len() != want {
		return nil, errors.Errorf("trace: scale input needs %d values", want)
	}
	for i := range tr.Tr.Values {
		amp := tr.Par.Amp
		if scale != nil {
			amp *= scale.Values[i]
		}
		switch tr.Mode {
		case Nearest:
			tr.Tr.Values[i] = tr.Par.NearestVal(tr.Tr.Values[i], spikes.Values[i], amp)
		default:
			tr.Tr.Values[i] = tr.Par.CumulativeVal(tr.Tr.Values[i], spikes.Values[i], amp)
		}
	}
	return tr.Tr, nil
}

// Clear resets the trace values to zero.
func (tr *Trace) Clear() {
	tr.Tr.SetZeros()
}
