// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
	"github.com/pkg/errors"
)

// newTestLIF returns a LIF in normalized units: rest = reset = 0,
// R = 1, tau = 20, dt = 1.
func newTestLIF(t *testing.T, thr float32) *LIF {
	nr, err := NewLIF([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	nr.Rest = 0
	nr.Spk.Thr = thr
	nr.Spk.Reset = 0
	nr.VmRange.Min = -10
	nr.VmRange.Max = 10
	nr.Update()
	nr.Clear()
	return nr
}

func TestLIFCharging(t *testing.T) {
	// subthreshold: the Euler trajectory stays monotone, below the
	// steady state I*R, and close to the exact exponential charge
	nr := newTestLIF(t, 100)
	in := tsr(1)
	prev := float32(0)
	for n := 1; n <= 100; n++ {
		if _, err := nr.Step(in); err != nil {
			t.Fatal(err)
		}
		vm := nr.Vm.Values[0]
		if vm <= prev {
			t.Fatalf("step %d: vm %g not increasing from %g", n, vm, prev)
		}
		if vm >= 1 {
			t.Fatalf("step %d: vm %g reached steady state", n, vm)
		}
		exact := 1 - math32.Exp(-float32(n)/20)
		if dif := mat32.Abs(vm - exact); dif > 0.02 {
			t.Errorf("step %d: vm %g vs exact %g, dif %g", n, vm, exact, dif)
		}
		prev = vm
	}
}

func TestLIFSpikeReset(t *testing.T) {
	// thr = 0.5 with I = 1: vm_n = 1 - 0.95^n crosses at step 14
	nr := newTestLIF(t, 0.5)
	in := tsr(1)
	for n := 1; n <= 13; n++ {
		out, err := nr.Step(in)
		if err != nil {
			t.Fatal(err)
		}
		if out.Values[0] != 0 {
			t.Fatalf("step %d: premature spike at vm %g", n, nr.Vm.Values[0])
		}
	}
	out, _ := nr.Step(in)
	if out.Values[0] != 1 {
		t.Fatalf("step 14: no spike, vm %g", nr.Vm.Values[0])
	}
	if nr.Vm.Values[0] != 0 {
		t.Errorf("post-spike vm: got %g, want reset 0", nr.Vm.Values[0])
	}
	if nr.Refrac.Values[0] != nr.Spk.Refrac {
		t.Errorf("post-spike refrac: got %g, want %g", nr.Refrac.Values[0], nr.Spk.Refrac)
	}

	// refractory: input ignored, vm held at reset, for Refrac/dt steps
	for n := 0; n < 2; n++ {
		out, _ = nr.Step(in)
		if out.Values[0] != 0 || nr.Vm.Values[0] != 0 {
			t.Errorf("refrac step %d: spike %g vm %g, want held at 0", n, out.Values[0], nr.Vm.Values[0])
		}
	}
	// integration resumes
	nr.Step(in)
	if nr.Vm.Values[0] == 0 {
		t.Errorf("integration did not resume after refractory period")
	}
}

func TestLIFResetSubtract(t *testing.T) {
	nr := newTestLIF(t, 0.5)
	nr.Spk.ResetMode = ResetSubtract
	nr.Spk.Refrac = 0
	in := tsr(1)
	for n := 0; n < 14; n++ {
		nr.Step(in)
	}
	if nr.Spike.Values[0] != 1 {
		t.Fatalf("no spike at step 14, vm %g", nr.Vm.Values[0])
	}
	// overshoot past threshold is preserved: vm = v - (thr - reset)
	want := (1 - mat32.Pow(0.95, 14)) - 0.5
	if dif := mat32.Abs(nr.Vm.Values[0] - want); dif > 1.0e-5 {
		t.Errorf("subtract reset vm: got %g, want %g", nr.Vm.Values[0], want)
	}
}

func TestALIFAdaptation(t *testing.T) {
	nr, err := NewALIF([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	nr.Rest = 0
	nr.Spk.Thr = 0.5
	nr.Spk.Reset = 0
	nr.Spk.Refrac = 0
	nr.VmRange.Min = -10
	nr.VmRange.Max = 10
	nr.Update()
	nr.Clear()

	in := tsr(1)
	for n := 0; n < 14; n++ {
		nr.Step(in)
	}
	if nr.Spike.Values[0] != 1 {
		t.Fatalf("no spike at step 14, vm %g", nr.Vm.Values[0])
	}
	// offset starts at 0, so after the first spike it is exactly Inc
	if dif := mat32.Abs(nr.ThrOff.Values[0] - nr.Adapt.Inc); dif > difTol {
		t.Errorf("post-spike offset: got %g, want %g", nr.ThrOff.Values[0], nr.Adapt.Inc)
	}
	// and decays on a silent step
	off := nr.ThrOff.Values[0]
	nr.Step(tsr(0))
	if dif := mat32.Abs(nr.ThrOff.Values[0] - off*nr.Adapt.Decay); dif > difTol {
		t.Errorf("offset decay: got %g, want %g", nr.ThrOff.Values[0], off*nr.Adapt.Decay)
	}

	// adaptation slows the spike rate relative to plain LIF
	lif := newTestLIF(t, 0.5)
	lif.Spk.Refrac = 0
	nr.Clear()
	var aspk, lspk float32
	for n := 0; n < 200; n++ {
		ao, _ := nr.Step(in)
		lo, _ := lif.Step(in)
		aspk += ao.Values[0]
		lspk += lo.Values[0]
	}
	if aspk >= lspk {
		t.Errorf("adaptation did not slow spiking: alif %g vs lif %g", aspk, lspk)
	}
}

func TestNeuronClear(t *testing.T) {
	nr, err := NewLIF([]int{2}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := tsr(100, 100, 100, 100)
	nr.Step(in)
	nr.Step(in)
	nr.Clear()
	for i := range nr.Vm.Values {
		if nr.Vm.Values[i] != nr.Rest {
			t.Errorf("vm %d: got %g, want rest %g", i, nr.Vm.Values[i], nr.Rest)
		}
		if nr.Spike.Values[i] != 0 || nr.Refrac.Values[i] != 0 {
			t.Errorf("unit %d: spike/refrac not cleared", i)
		}
	}
}

func TestNeuronShapes(t *testing.T) {
	if _, err := NewLIF([]int{0}, 1, 1); !errors.Is(err, ErrConfig) {
		t.Errorf("zero dim: got %v, want ErrConfig", err)
	}
	if _, err := NewLIF([]int{2}, 0, 1); !errors.Is(err, ErrConfig) {
		t.Errorf("zero batch: got %v, want ErrConfig", err)
	}
	nr, err := NewLIF([]int{2}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nr.Step(tsr(1, 1)); !errors.Is(err, ErrShape) {
		t.Errorf("short input: got %v, want ErrShape", err)
	}
	if err := nr.SetBatch(3); err != nil {
		t.Fatal(err)
	}
	if _, err := nr.Step(tsr(1, 1, 1, 1, 1, 1)); err != nil {
		t.Errorf("resized input: %v", err)
	}
}

func TestNonlinearSpiking(t *testing.T) {
	// each nonlinear model spikes under sustained drive and resets
	const steps = 300

	qif, err := NewQIF([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	izhi, err := NewIzhikevich([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	eif, err := NewEIF([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	adex, err := NewAdEx([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	models := []struct {
		nm  string
		nr  Neuron
		in  float32
		rst float32
	}{
		{"QIF", qif, 50, qif.Spk.Reset},
		{"Izhikevich", izhi, 10, izhi.Spk.Reset},
		{"EIF", eif, 30, eif.Spk.Reset},
		{"AdEx", adex, 30, adex.Spk.Reset},
	}
	for _, md := range models {
		in := tsr(md.in)
		var nspk float32
		for n := 0; n < steps; n++ {
			out, err := md.nr.Step(in)
			if err != nil {
				t.Fatal(err)
			}
			nspk += out.Values[0]
		}
		if nspk < 1 {
			t.Errorf("%s: no spikes in %d steps under drive %g", md.nm, steps, md.in)
		}
	}

	// AdEx adaptation slows spiking relative to EIF
	eif.Clear()
	adex.Clear()
	adex.Adapt.B = 2 // strong spike-triggered adaptation
	adex.Update()
	in := tsr(30)
	var espk, aspk float32
	for n := 0; n < steps; n++ {
		eo, _ := eif.Step(in)
		ao, _ := adex.Step(in)
		espk += eo.Values[0]
		aspk += ao.Values[0]
	}
	if aspk >= espk {
		t.Errorf("adaptation did not slow spiking: adex %g vs eif %g", aspk, espk)
	}
}

func TestIzhikevichRecovery(t *testing.T) {
	nr, err := NewIzhikevich([]int{1}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// recovery starts at its fixed point
	if dif := mat32.Abs(nr.Rec.Values[0] - nr.B*nr.Spk.Reset); dif > difTol {
		t.Errorf("initial recovery: got %g, want %g", nr.Rec.Values[0], nr.B*nr.Spk.Reset)
	}
	in := tsr(10)
	for n := 0; n < 300; n++ {
		out, err := nr.Step(in)
		if err != nil {
			t.Fatal(err)
		}
		if out.Values[0] == 1 {
			// spike increments recovery by D over its pre-spike value
			if nr.Vm.Values[0] != nr.Spk.Reset {
				t.Errorf("post-spike vm: got %g, want %g", nr.Vm.Values[0], nr.Spk.Reset)
			}
			return
		}
	}
	t.Error("no spike in 300 steps")
}
