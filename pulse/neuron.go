// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// Neuron is the interface for neuron state machines: one simulation step
// integrates input current into membrane voltage and returns the
// resulting spikes as a 0/1 tensor.
type Neuron interface {
	// Step runs one simulation step with the given input current (nA) and
	// returns the spike tensor (1 = spiked this step).
	Step(in *etensor.Float32) (*etensor.Float32, error)

	// Clear resets all dynamic state to rest.
	Clear()

	// SetBatch resizes the batch dimension.  Destructive: all state is
	// rebuilt and reset.
	SetBatch(batch int) error

	InShape() []int
	OutShape() []int
}

// NeuronGroup holds the dynamic state shared by all the neuron models:
// membrane voltage, the spike output of the last step, and the remaining
// refractory time per unit.  Model-specific state (adaptation variables,
// recovery currents) lives on the concrete types.
type NeuronGroup struct {
	Group

	// membrane potential, in mV.
	Vm *etensor.Float32

	// whether the neuron spiked on the last step (0 or 1).
	Spike *etensor.Float32

	// remaining absolute refractory time, in msec.
	Refrac *etensor.Float32
}

// buildState allocates the shared state tensors for the current batched
// shape.
func (ng *NeuronGroup) buildState() {
	ng.Vm = ng.NewState()
	ng.Spike = ng.NewState()
	ng.Refrac = ng.NewState()
}

// clearState resets the shared state: Vm to the resting potential,
// spikes and refractory counters to zero.
func (ng *NeuronGroup) clearState(rest float32) {
	for i := range ng.Vm.Values {
		ng.Vm.Values[i] = rest
	}
	ng.Spike.SetZeros()
	ng.Refrac.SetZeros()
}

// refracHold handles unit i when it is refractory: the counter is
// decremented by one step, voltage is pinned to hold, and no spike is
// emitted.  Returns true if the unit was refractory, meaning integration
// is skipped this step.
func (ng *NeuronGroup) refracHold(i int, hold float32) bool {
	rf := ng.Refrac.Values[i]
	if rf <= 0 {
		return false
	}
	rf -= ng.StepTime
	if rf < 0 {
		rf = 0
	}
	ng.Refrac.Values[i] = rf
	ng.Vm.Values[i] = hold
	ng.Spike.Values[i] = 0
	return true
}

//go:generate stringer -type=ResetModes

var KiT_ResetModes = kit.Enums.AddEnum(ResetModesN, kit.NotBitFlag, nil)

func (ev ResetModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ResetModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// ResetModes are the ways membrane voltage resets after a spike.
type ResetModes int32

const (
	// ResetFixed sets the voltage to the configured reset value.
	ResetFixed ResetModes = iota

	// ResetSubtract subtracts the threshold-to-reset distance from the
	// voltage, preserving any overshoot past threshold.
	ResetSubtract

	ResetModesN
)

// SpikeParams holds the threshold, reset, and refractory behavior
// shared by the spiking neuron models.
type SpikeParams struct {
	Thr       float32    `def:"-50" desc:"membrane potential at or above which a spike is emitted, in mV"`
	Reset     float32    `def:"-65" desc:"post-spike membrane potential, in mV"`
	ResetMode ResetModes `desc:"how the voltage resets after a spike"`
	Refrac    float32    `min:"0" def:"2" desc:"absolute refractory period after a spike, in msec -- voltage is held at Reset and input is ignored"`
}

func (sp *SpikeParams) Defaults() {
	sp.Thr = -50
	sp.Reset = -65
	sp.ResetMode = ResetFixed
	sp.Refrac = 2
}

func (sp *SpikeParams) Update() {
}

// ResetVm returns the post-spike voltage given the voltage at spike
// time.
func (sp *SpikeParams) ResetVm(vm float32) float32 {
	if sp.ResetMode == ResetSubtract {
		return vm - (sp.Thr - sp.Reset)
	}
	return sp.Reset
}

// AdaptThrParams govern an adaptive threshold offset: each spike raises
// the effective threshold by Inc, and the offset decays exponentially
// back to zero with time constant Tau.
type AdaptThrParams struct {
	On    bool    `desc:"enable the adaptive threshold"`
	Tau   float32 `viewif:"On" min:"1" def:"100" desc:"decay time constant for the threshold offset, in msec"`
	Inc   float32 `viewif:"On" def:"0.5" desc:"amount the threshold offset rises per spike, in mV"`
	Decay float32 `view:"-" json:"-" xml:"-" desc:"per-step decay factor = exp(-StepTime/Tau)"`
}

func (at *AdaptThrParams) Defaults() {
	at.Tau = 100
	at.Inc = 0.5
}

// Update computes the per-step decay factor for the given step time.
func (at *AdaptThrParams) Update(stepTime float32) {
	at.Decay = mat32.FastExp(-stepTime / at.Tau)
}

// AdaptCurParams govern a spike-triggered adaptation current w that
// opposes the input: dw/dt = (A*(Vm-Rest) - w) / Tau, and each spike
// increments w by B.
type AdaptCurParams struct {
	On  bool    `desc:"enable the adaptation current"`
	Tau float32 `viewif:"On" min:"1" def:"144" desc:"adaptation time constant, in msec"`
	A   float32 `viewif:"On" def:"0.004" desc:"subthreshold adaptation conductance coupling voltage to w, in uS"`
	B   float32 `viewif:"On" def:"0.0805" desc:"amount w rises per spike, in nA"`
	WDt float32 `view:"-" json:"-" xml:"-" desc:"integration rate = StepTime / Tau"`
}

func (ac *AdaptCurParams) Defaults() {
	ac.Tau = 144
	ac.A = 0.004
	ac.B = 0.0805
}

// Update computes the integration rate for the given step time.
func (ac *AdaptCurParams) Update(stepTime float32) {
	ac.WDt = stepTime / ac.Tau
}
