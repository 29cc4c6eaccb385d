// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

///////////////////////////////////////////////////////////////////////
//  LIF

// LIF is the leaky integrate-and-fire neuron: membrane voltage decays
// exponentially toward rest and integrates input current scaled by the
// membrane resistance, with forward-Euler updates:
//
//	Vm += (StepTime / TauM) * (-(Vm - Rest) + R*I)
//
// A spike is emitted when Vm crosses Thr, after which Vm resets and the
// unit holds at reset for the absolute refractory period.
type LIF struct {
	NeuronGroup
	Rest    float32     `def:"-70" desc:"resting membrane potential, in mV"`
	TauM    float32     `min:"1" def:"20" desc:"membrane time constant, in msec"`
	R       float32     `def:"1" desc:"membrane resistance, in MOhm -- scales input current (nA) into voltage"`
	Spk     SpikeParams `view:"inline" desc:"threshold, reset, and refractory behavior"`
	VmRange minmax.F32  `view:"inline" desc:"hard limits on integrated membrane potential, preventing numerical blowup"`
	VmDt    float32     `view:"-" json:"-" xml:"-" desc:"integration rate = StepTime / TauM"`
}

// NewLIF returns a new LIF neuron group with the given unit shape, batch
// size, and step time (msec), with default parameters.
func NewLIF(shp []int, batch int, stepTime float32) (*LIF, error) {
	nr := &LIF{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.Clear()
	return nr, nil
}

func (nr *LIF) Defaults() {
	nr.Rest = -70
	nr.TauM = 20
	nr.R = 1
	nr.Spk.Defaults()
	nr.VmRange.Min = -90
	nr.VmRange.Max = 40
	nr.Update()
}

// Update recomputes derived rate constants after parameter changes.
func (nr *LIF) Update() {
	nr.VmDt = nr.StepTime / nr.TauM
}

// Step integrates one step of input current and returns the spikes.
func (nr *LIF) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	for i := range nr.Vm.Values {
		if nr.refracHold(i, nr.Spk.Reset) {
			continue
		}
		vm := nr.Vm.Values[i]
		vm += nr.VmDt * (-(vm - nr.Rest) + nr.R*in.Values[i])
		vm = nr.VmRange.ClipVal(vm)
		if vm >= nr.Spk.Thr {
			nr.Spike.Values[i] = 1
			vm = nr.Spk.ResetVm(vm)
			nr.Refrac.Values[i] = nr.Spk.Refrac
		} else {
			nr.Spike.Values[i] = 0
		}
		nr.Vm.Values[i] = vm
	}
	return nr.Spike, nil
}

// Clear resets all dynamic state: Vm to rest, spikes and refractory
// counters to zero.
func (nr *LIF) Clear() {
	nr.clearState(nr.Rest)
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *LIF) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	nr.Batch = batch
	nr.buildState()
	nr.Clear()
	return nil
}

///////////////////////////////////////////////////////////////////////
//  ALIF

// ALIF is the adaptive leaky integrate-and-fire neuron: LIF dynamics
// plus a per-unit threshold offset that rises with each spike and decays
// exponentially, giving spike-frequency adaptation.
type ALIF struct {
	LIF
	Adapt AdaptThrParams `view:"inline" desc:"adaptive threshold parameters"`

	// current threshold offset above Spk.Thr, in mV.
	ThrOff *etensor.Float32
}

// NewALIF returns a new ALIF neuron group with the given unit shape,
// batch size, and step time (msec), with default parameters and the
// adaptive threshold enabled.
func NewALIF(shp []int, batch int, stepTime float32) (*ALIF, error) {
	nr := &ALIF{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.ThrOff = nr.NewState()
	nr.Clear()
	return nr, nil
}

func (nr *ALIF) Defaults() {
	nr.LIF.Defaults()
	nr.Adapt.Defaults()
	nr.Adapt.On = true
	nr.Update()
}

// Update recomputes derived rate constants after parameter changes.
func (nr *ALIF) Update() {
	nr.LIF.Update()
	nr.Adapt.Update(nr.StepTime)
}

// Step integrates one step of input current and returns the spikes.
// Order per unit: integrate, decay the threshold offset, test against
// the adapted threshold, then reset and raise the offset on spike.
func (nr *ALIF) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	for i := range nr.Vm.Values {
		off := nr.ThrOff.Values[i]
		if nr.Adapt.On {
			off *= nr.Adapt.Decay
		}
		if nr.refracHold(i, nr.Spk.Reset) {
			nr.ThrOff.Values[i] = off
			continue
		}
		vm := nr.Vm.Values[i]
		vm += nr.VmDt * (-(vm - nr.Rest) + nr.R*in.Values[i])
		vm = nr.VmRange.ClipVal(vm)
		if vm >= nr.Spk.Thr+off {
			nr.Spike.Values[i] = 1
			vm = nr.Spk.ResetVm(vm)
			nr.Refrac.Values[i] = nr.Spk.Refrac
			if nr.Adapt.On {
				off += nr.Adapt.Inc
			}
		} else {
			nr.Spike.Values[i] = 0
		}
		nr.Vm.Values[i] = vm
		nr.ThrOff.Values[i] = off
	}
	return nr.Spike, nil
}

// Clear resets all dynamic state, including the threshold offsets.
func (nr *ALIF) Clear() {
	nr.clearState(nr.Rest)
	nr.ThrOff.SetZeros()
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *ALIF) SetBatch(batch int) error {
	if err := nr.LIF.SetBatch(batch); err != nil {
		return err
	}
	nr.ThrOff = nr.NewState()
	return nil
}
