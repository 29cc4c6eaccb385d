// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
	"github.com/emer/pulse/interp"
)

// Synapse is the interface for synapse state machines: one simulation
// step converts presynaptic spikes into synaptic current, and past
// current / spike values can be read back at arbitrary delays.
type Synapse interface {
	// Step runs one simulation step: records the input spikes and returns
	// the synaptic current.  Additional inject tensors are passthrough
	// currents summed into the output by variants that support them;
	// others ignore them.
	Step(spikes *etensor.Float32, inject ...*etensor.Float32) (*etensor.Float32, error)

	// CurrentAt returns the synaptic current at the given per-unit delays,
	// in msec.  Pure read: repeated calls without an intervening Step
	// return identical results.
	CurrentAt(delay *etensor.Float32) (*etensor.Float32, error)

	// SpikeAt returns the recorded spike values (0/1, possibly fractional
	// between observations) at the given per-unit delays, in msec.
	SpikeAt(delay *etensor.Float32) (*etensor.Float32, error)

	// Clear resets recorded histories to their resting state, without
	// resetting learned parameters.
	Clear()

	// SetBatch resizes the batch dimension.  Destructive: all state is
	// rebuilt and reset.
	SetBatch(batch int) error

	// MaxDelay returns the maximum supported read delay, in msec.
	MaxDelay() float32

	InShape() []int
	OutShape() []int
}

// SynParams are the construction parameters shared by the synapse
// variants.
type SynParams struct {
	SpikeQ  float32         `def:"1" desc:"charge carried by each presynaptic spike, in pC -- instantaneous current per spike is SpikeQ / StepTime -- must be non-zero"`
	Delay   float32         `min:"0" def:"0" desc:"maximum supported delay for delayed reads, in msec -- sets the history depth retained"`
	Interp  interp.Params   `view:"inline" desc:"interpolation between recorded observations for delayed reads"`
	CurOver OverboundParams `view:"inline" desc:"how current reads beyond the recorded history resolve"`
	SpkOver OverboundParams `view:"inline" desc:"how spike reads beyond the recorded history resolve"`
}

func (sp *SynParams) Defaults() {
	sp.SpikeQ = 1
	sp.Delay = 0
	sp.Interp.Defaults()
	sp.CurOver.Defaults()
	sp.SpkOver.Defaults()
}

func (sp *SynParams) Update() {
}

// Validate checks the construction-time numeric contract.
func (sp *SynParams) Validate() error {
	if sp.SpikeQ == 0 {
		return configErrorf("spike charge must be non-zero")
	}
	if sp.Delay < 0 {
		return configErrorf("delay must be non-negative, got %g", sp.Delay)
	}
	if sp.Interp.Mode < 0 || sp.Interp.Mode >= interp.ModesN {
		return configErrorf("unknown interpolation mode %d", sp.Interp.Mode)
	}
	return nil
}

// SpikeInterp returns the interpolation params for the spike channel:
// spikes are a step function, so Linear degrades to Nearest there.
func (sp *SynParams) SpikeInterp() interp.Params {
	ip := sp.Interp
	if ip.Mode == interp.Linear {
		ip.Mode = interp.Nearest
	}
	return ip
}

///////////////////////////////////////////////////////////////////////
//  Delta

// Delta is the memoryless CUBA synapse: it responds instantaneously to
// input, I = SpikeQ / StepTime where there is a presynaptic spike and 0
// otherwise.  It keeps no internal current memory -- only a spike
// history -- and derives delayed currents from the interpolated spike
// history.
type Delta struct {
	Group
	Par    SynParams `view:"inline" desc:"synapse parameters"`
	Spikes *DelayLine
}

// NewDelta returns a new Delta synapse group with the given unit shape,
// batch size, step time (msec), and parameters.
func NewDelta(shp []int, batch int, stepTime float32, par SynParams) (*Delta, error) {
	sy := &Delta{}
	if err := sy.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	if err := par.Validate(); err != nil {
		return nil, err
	}
	sy.Par = par
	var err error
	sy.Spikes, err = NewDelayLine(sy.Size(), batch, stepTime, par.Delay)
	if err != nil {
		return nil, err
	}
	return sy, nil
}

// scale is the instantaneous current per spike.
func (sy *Delta) scale() float32 { return sy.Par.SpikeQ / sy.StepTime }

func (sy *Delta) MaxDelay() float32 { return sy.Par.Delay }

// Step records the input spikes (nonzero = spike) and returns the
// instantaneous synaptic current.  Extra inject tensors are ignored.
func (sy *Delta) Step(spikes *etensor.Float32, inject ...*etensor.Float32) (*etensor.Float32, error) {
	if err := sy.CheckInput(spikes); err != nil {
		return nil, err
	}
	out := sy.NewState()
	spk := make([]float32, len(spikes.Values))
	sc := sy.scale()
	for i, v := range spikes.Values {
		if v != 0 {
			spk[i] = 1
			out.Values[i] = sc
		}
	}
	if err := sy.Spikes.Write(spk); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentAt derives delayed currents from the spike history.  The
// current-channel overbound value is pre-divided by the per-spike
// current so the scaled out-of-bounds result equals the configured
// override exactly.
func (sy *Delta) CurrentAt(delay *etensor.Float32) (*etensor.Float32, error) {
	sc := sy.scale()
	ob := sy.Par.CurOver
	if !ob.Clamp {
		ob.Val /= sc
	}
	res, err := sy.Spikes.ReadAt(delay, sy.Par.SpikeInterp(), ob)
	if err != nil {
		return nil, err
	}
	for i := range res.Values {
		res.Values[i] *= sc
	}
	return res, nil
}

// SpikeAt returns recorded spike values at the given delays.
func (sy *Delta) SpikeAt(delay *etensor.Float32) (*etensor.Float32, error) {
	return sy.Spikes.ReadAt(delay, sy.Par.SpikeInterp(), sy.Par.SpkOver)
}

// Clear resets the spike history to its resting state.  Learned
// parameters are untouched.
func (sy *Delta) Clear() {
	sy.Spikes.Clear()
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// recorded history.
func (sy *Delta) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	sy.Batch = batch
	var err error
	sy.Spikes, err = NewDelayLine(sy.Size(), batch, sy.StepTime, sy.Par.Delay)
	return err
}

///////////////////////////////////////////////////////////////////////
//  DeltaPlus

// DeltaPlus is the delta synapse with passthrough current: the
// instantaneous delta response plus any externally injected currents.
// It maintains both a current history and a spike history, so delayed
// current reads reflect the injected component too.
type DeltaPlus struct {
	Group
	Par      SynParams `view:"inline" desc:"synapse parameters"`
	Currents *DelayLine
	Spikes   *DelayLine
}

// NewDeltaPlus returns a new DeltaPlus synapse group with the given unit
// shape, batch size, step time (msec), and parameters.
func NewDeltaPlus(shp []int, batch int, stepTime float32, par SynParams) (*DeltaPlus, error) {
	sy := &DeltaPlus{}
	if err := sy.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	if err := par.Validate(); err != nil {
		return nil, err
	}
	sy.Par = par
	return sy, sy.build()
}

func (sy *DeltaPlus) build() error {
	var err error
	sy.Currents, err = NewDelayLine(sy.Size(), sy.Batch, sy.StepTime, sy.Par.Delay)
	if err != nil {
		return err
	}
	sy.Spikes, err = NewDelayLine(sy.Size(), sy.Batch, sy.StepTime, sy.Par.Delay)
	return err
}

func (sy *DeltaPlus) scale() float32 { return sy.Par.SpikeQ / sy.StepTime }

func (sy *DeltaPlus) MaxDelay() float32 { return sy.Par.Delay }

// Step records the input spikes and current, and returns the synaptic
// current: the delta response plus the sum of any inject tensors, which
// must match the group's batched shape.
func (sy *DeltaPlus) Step(spikes *etensor.Float32, inject ...*etensor.Float32) (*etensor.Float32, error) {
	if err := sy.CheckInput(spikes); err != nil {
		return nil, err
	}
	for _, inj := range inject {
		if err := sy.CheckInput(inj); err != nil {
			return nil, err
		}
	}
	out := sy.NewState()
	spk := make([]float32, len(spikes.Values))
	sc := sy.scale()
	for i, v := range spikes.Values {
		if v != 0 {
			spk[i] = 1
			out.Values[i] = sc
		}
		for _, inj := range inject {
			out.Values[i] += inj.Values[i]
		}
	}
	if err := sy.Spikes.Write(spk); err != nil {
		return nil, err
	}
	if err := sy.Currents.Write(out.Values); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentAt returns the recorded synaptic current at the given delays.
func (sy *DeltaPlus) CurrentAt(delay *etensor.Float32) (*etensor.Float32, error) {
	return sy.Currents.ReadAt(delay, sy.Par.Interp, sy.Par.CurOver)
}

// SpikeAt returns recorded spike values at the given delays.
func (sy *DeltaPlus) SpikeAt(delay *etensor.Float32) (*etensor.Float32, error) {
	return sy.Spikes.ReadAt(delay, sy.Par.SpikeInterp(), sy.Par.SpkOver)
}

// Clear resets both histories to their resting state.
func (sy *DeltaPlus) Clear() {
	sy.Currents.Clear()
	sy.Spikes.Clear()
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// recorded history.
func (sy *DeltaPlus) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	sy.Batch = batch
	return sy.build()
}
