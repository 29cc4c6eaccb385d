// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  QIF

// QIF is the quadratic integrate-and-fire neuron: below the critical
// voltage the membrane decays toward rest, above it the voltage
// accelerates away toward spiking:
//
//	Vm += (StepTime / TauM) * (Alpha*(Vm-Rest)*(Vm-Crit) + R*I)
//
// Spk.Thr acts as the spike cutoff voltage.
type QIF struct {
	NeuronGroup
	Rest    float32     `def:"-62" desc:"resting membrane potential, in mV"`
	Crit    float32     `def:"-30" desc:"critical membrane potential between rest and spike initiation, in mV -- above it the voltage runs away"`
	Alpha   float32     `min:"0" def:"0.04" desc:"strength of the quadratic drift term, in 1/mV"`
	TauM    float32     `min:"1" def:"20" desc:"membrane time constant, in msec"`
	R       float32     `def:"1" desc:"membrane resistance, in MOhm"`
	Spk     SpikeParams `view:"inline" desc:"spike cutoff, reset, and refractory behavior"`
	VmRange minmax.F32  `view:"inline" desc:"hard limits on integrated membrane potential"`
	VmDt    float32     `view:"-" json:"-" xml:"-" desc:"integration rate = StepTime / TauM"`
}

// NewQIF returns a new QIF neuron group with the given unit shape, batch
// size, and step time (msec), with default parameters.
func NewQIF(shp []int, batch int, stepTime float32) (*QIF, error) {
	nr := &QIF{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.Clear()
	return nr, nil
}

func (nr *QIF) Defaults() {
	nr.Rest = -62
	nr.Crit = -30
	nr.Alpha = 0.04
	nr.TauM = 20
	nr.R = 1
	nr.Spk.Defaults()
	nr.Spk.Thr = 30 // cutoff, not rheobase: spikes fire at the runaway peak
	nr.VmRange.Min = -90
	nr.VmRange.Max = 40
	nr.Update()
}

// Update recomputes derived rate constants after parameter changes.
func (nr *QIF) Update() {
	nr.VmDt = nr.StepTime / nr.TauM
}

// Step integrates one step of input current and returns the spikes.
func (nr *QIF) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	for i := range nr.Vm.Values {
		if nr.refracHold(i, nr.Spk.Reset) {
			continue
		}
		vm := nr.Vm.Values[i]
		vm += nr.VmDt * (nr.Alpha*(vm-nr.Rest)*(vm-nr.Crit) + nr.R*in.Values[i])
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

// Clear resets all dynamic state.
func (nr *QIF) Clear() {
	nr.clearState(nr.Rest)
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *QIF) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	nr.Batch = batch
	nr.buildState()
	nr.Clear()
	return nil
}

///////////////////////////////////////////////////////////////////////
//  Izhikevich

// Izhikevich is the two-variable Izhikevich neuron: the quadratic
// voltage dynamics coupled to a slow recovery current u.
//
//	Vm += StepTime * (0.04*Vm^2 + 5*Vm + 140 - u + I)
//	u  += StepTime * A * (B*Vm - u)
//
// On reaching the cutoff Spk.Thr, Vm resets to Spk.Reset and u is
// incremented by D.  The A/B/Spk.Reset/D parameterization reproduces the
// standard regular-spiking, bursting, and chattering regimes.
type Izhikevich struct {
	NeuronGroup
	A       float32     `def:"0.02" desc:"recovery time scale, in 1/msec -- smaller is slower recovery"`
	B       float32     `def:"0.2" desc:"recovery sensitivity to subthreshold voltage"`
	D       float32     `def:"8" desc:"amount the recovery current rises per spike"`
	Spk     SpikeParams `view:"inline" desc:"spike cutoff (Thr, typically 30), reset (typically -65), and refractory behavior"`
	VmRange minmax.F32  `view:"inline" desc:"hard limits on integrated membrane potential"`

	// recovery current u, in model units.
	Rec *etensor.Float32
}

// NewIzhikevich returns a new Izhikevich neuron group with the given
// unit shape, batch size, and step time (msec), with regular-spiking
// default parameters.
func NewIzhikevich(shp []int, batch int, stepTime float32) (*Izhikevich, error) {
	nr := &Izhikevich{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.Rec = nr.NewState()
	nr.Clear()
	return nr, nil
}

func (nr *Izhikevich) Defaults() {
	nr.A = 0.02
	nr.B = 0.2
	nr.D = 8
	nr.Spk.Defaults()
	nr.Spk.Thr = 30
	nr.Spk.Reset = -65
	nr.Spk.Refrac = 0 // recovery current provides its own refractoriness
	nr.VmRange.Min = -90
	nr.VmRange.Max = 35
}

func (nr *Izhikevich) Update() {
}

// Step integrates one step of input current and returns the spikes.
// Both variables advance from the pre-step values.
func (nr *Izhikevich) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	dt := nr.StepTime
	for i := range nr.Vm.Values {
		if nr.refracHold(i, nr.Spk.Reset) {
			continue
		}
		vm := nr.Vm.Values[i]
		u := nr.Rec.Values[i]
		nvm := vm + dt*(0.04*vm*vm+5*vm+140-u+in.Values[i])
		nvm = nr.VmRange.ClipVal(nvm)
		u += dt * nr.A * (nr.B*vm - u)
		if nvm >= nr.Spk.Thr {
			nr.Spike.Values[i] = 1
			nvm = nr.Spk.ResetVm(nvm)
			u += nr.D
			nr.Refrac.Values[i] = nr.Spk.Refrac
		} else {
			nr.Spike.Values[i] = 0
		}
		nr.Vm.Values[i] = nvm
		nr.Rec.Values[i] = u
	}
	return nr.Spike, nil
}

// Clear resets all dynamic state: Vm to the reset potential and the
// recovery current to its fixed-point value B*Vm.
func (nr *Izhikevich) Clear() {
	nr.clearState(nr.Spk.Reset)
	for i := range nr.Rec.Values {
		nr.Rec.Values[i] = nr.B * nr.Spk.Reset
	}
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *Izhikevich) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	nr.Batch = batch
	nr.buildState()
	nr.Rec = nr.NewState()
	nr.Clear()
	return nil
}

///////////////////////////////////////////////////////////////////////
//  EIF

// EIF is the exponential integrate-and-fire neuron: LIF dynamics plus an
// exponential spike-initiation term that takes over above the rheobase
// threshold:
//
//	Vm += (StepTime / TauM) * (-(Vm-Rest) + Slope*exp((Vm-RheoThr)/Slope) + R*I)
//
// Spk.Thr acts as the spike cutoff voltage, well above RheoThr.
type EIF struct {
	NeuronGroup
	Rest    float32     `def:"-70" desc:"resting membrane potential, in mV"`
	RheoThr float32     `def:"-50" desc:"rheobase threshold where the exponential spike initiation takes over, in mV"`
	Slope   float32     `min:"0.1" def:"2" desc:"sharpness of spike initiation (Delta_T), in mV"`
	TauM    float32     `min:"1" def:"20" desc:"membrane time constant, in msec"`
	R       float32     `def:"1" desc:"membrane resistance, in MOhm"`
	Spk     SpikeParams `view:"inline" desc:"spike cutoff, reset, and refractory behavior"`
	VmRange minmax.F32  `view:"inline" desc:"hard limits on integrated membrane potential"`
	VmDt    float32     `view:"-" json:"-" xml:"-" desc:"integration rate = StepTime / TauM"`
}

// NewEIF returns a new EIF neuron group with the given unit shape, batch
// size, and step time (msec), with default parameters.
func NewEIF(shp []int, batch int, stepTime float32) (*EIF, error) {
	nr := &EIF{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.Clear()
	return nr, nil
}

func (nr *EIF) Defaults() {
	nr.Rest = -70
	nr.RheoThr = -50
	nr.Slope = 2
	nr.TauM = 20
	nr.R = 1
	nr.Spk.Defaults()
	nr.Spk.Thr = 0 // cutoff: exponential runaway carries Vm here fast
	nr.Spk.Reset = -70
	nr.VmRange.Min = -90
	nr.VmRange.Max = 20
	nr.Update()
}

// Update recomputes derived rate constants after parameter changes.
func (nr *EIF) Update() {
	nr.VmDt = nr.StepTime / nr.TauM
}

// dVm is the voltage increment for one step at voltage vm with input
// current cur.  VmRange keeps the exponential argument bounded.
func (nr *EIF) dVm(vm, cur float32) float32 {
	return nr.VmDt * (-(vm - nr.Rest) + nr.Slope*mat32.FastExp((vm-nr.RheoThr)/nr.Slope) + nr.R*cur)
}

// Step integrates one step of input current and returns the spikes.
func (nr *EIF) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	for i := range nr.Vm.Values {
		if nr.refracHold(i, nr.Spk.Reset) {
			continue
		}
		vm := nr.Vm.Values[i]
		vm += nr.dVm(vm, in.Values[i])
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

// Clear resets all dynamic state.
func (nr *EIF) Clear() {
	nr.clearState(nr.Rest)
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *EIF) SetBatch(batch int) error {
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	nr.Batch = batch
	nr.buildState()
	nr.Clear()
	return nil
}

///////////////////////////////////////////////////////////////////////
//  AdEx

// AdEx is the adaptive exponential integrate-and-fire neuron: EIF
// dynamics plus a spike-triggered adaptation current w that opposes the
// input and couples to the subthreshold voltage:
//
//	Vm += (StepTime / TauM) * (-(Vm-Rest) + Slope*exp((Vm-RheoThr)/Slope) + R*(I - W))
//	W  += (StepTime / Adapt.Tau) * (Adapt.A*(Vm-Rest) - W)
//
// and each spike increments W by Adapt.B.
type AdEx struct {
	EIF
	Adapt AdaptCurParams `view:"inline" desc:"adaptation current parameters"`

	// adaptation current w, in nA.
	W *etensor.Float32
}

// NewAdEx returns a new AdEx neuron group with the given unit shape,
// batch size, and step time (msec), with default parameters and the
// adaptation current enabled.
func NewAdEx(shp []int, batch int, stepTime float32) (*AdEx, error) {
	nr := &AdEx{}
	if err := nr.initGroup(shp, batch, stepTime); err != nil {
		return nil, err
	}
	nr.Defaults()
	nr.buildState()
	nr.W = nr.NewState()
	nr.Clear()
	return nr, nil
}

func (nr *AdEx) Defaults() {
	nr.EIF.Defaults()
	nr.Adapt.Defaults()
	nr.Adapt.On = true
	nr.Update()
}

// Update recomputes derived rate constants after parameter changes.
func (nr *AdEx) Update() {
	nr.EIF.Update()
	nr.Adapt.Update(nr.StepTime)
}

// Step integrates one step of input current and returns the spikes.
// Order per unit: integrate voltage against the pre-step w, advance w,
// test the cutoff, then reset and increment w on spike.
func (nr *AdEx) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if err := nr.CheckInput(in); err != nil {
		return nil, err
	}
	for i := range nr.Vm.Values {
		if nr.refracHold(i, nr.Spk.Reset) {
			continue
		}
		vm := nr.Vm.Values[i]
		w := nr.W.Values[i]
		cur := in.Values[i]
		if nr.Adapt.On {
			cur -= w
		}
		nvm := vm + nr.dVm(vm, cur)
		nvm = nr.VmRange.ClipVal(nvm)
		if nr.Adapt.On {
			w += nr.Adapt.WDt * (nr.Adapt.A*(vm-nr.Rest) - w)
		}
		if nvm >= nr.Spk.Thr {
			nr.Spike.Values[i] = 1
			nvm = nr.Spk.ResetVm(nvm)
			nr.Refrac.Values[i] = nr.Spk.Refrac
			if nr.Adapt.On {
				w += nr.Adapt.B
			}
		} else {
			nr.Spike.Values[i] = 0
		}
		nr.Vm.Values[i] = nvm
		nr.W.Values[i] = w
	}
	return nr.Spike, nil
}

// Clear resets all dynamic state, including the adaptation current.
func (nr *AdEx) Clear() {
	nr.clearState(nr.Rest)
	nr.W.SetZeros()
}

// SetBatch resizes the batch dimension, rebuilding and resetting all
// state.
func (nr *AdEx) SetBatch(batch int) error {
	if err := nr.EIF.SetBatch(batch); err != nil {
		return err
	}
	nr.W = nr.NewState()
	return nil
}
