// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"testing"

	"github.com/emer/pulse/interp"
	"github.com/goki/mat32"
	"github.com/pkg/errors"
)

func deltaPar(delay float32) SynParams {
	par := SynParams{}
	par.Defaults()
	par.Delay = delay
	return par
}

func TestDeltaImpulse(t *testing.T) {
	sy, err := NewDelta([]int{1}, 1, 1, deltaPar(3))
	if err != nil {
		t.Fatal(err)
	}

	// one spike: instantaneous current is SpikeQ / StepTime = 1
	out, err := sy.Step(tsr(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.Values[0] != 1 {
		t.Errorf("step current: got %g, want 1", out.Values[0])
	}
	cur, _ := sy.CurrentAt(tsr(0))
	if cur.Values[0] != 1 {
		t.Errorf("current at 0: got %g, want 1", cur.Values[0])
	}

	// next step silent: current gone, history holds the spike at delay 1
	out, _ = sy.Step(tsr(0))
	if out.Values[0] != 0 {
		t.Errorf("silent step current: got %g, want 0", out.Values[0])
	}
	cur, _ = sy.CurrentAt(tsr(0))
	if cur.Values[0] != 0 {
		t.Errorf("current at 0: got %g, want 0", cur.Values[0])
	}
	cur, _ = sy.CurrentAt(tsr(1))
	if cur.Values[0] != 1 {
		t.Errorf("current at 1: got %g, want 1", cur.Values[0])
	}
	spk, _ := sy.SpikeAt(tsr(1))
	if spk.Values[0] != 1 {
		t.Errorf("spike at 1: got %g, want 1", spk.Values[0])
	}
}

func TestDeltaScaling(t *testing.T) {
	// q = 2 pC over 0.5 msec steps: 4 nA per spike
	par := deltaPar(2)
	par.SpikeQ = 2
	sy, err := NewDelta([]int{1}, 1, 0.5, par)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := sy.Step(tsr(1))
	if dif := mat32.Abs(out.Values[0] - 4); dif > difTol {
		t.Errorf("scaled current: got %g, want 4", out.Values[0])
	}
}

func TestDeltaOverboundCurrent(t *testing.T) {
	// the current-channel override must come back in current units
	// even though only spikes are recorded
	par := deltaPar(3)
	par.SpikeQ = 2
	par.CurOver.Val = 42
	sy, err := NewDelta([]int{1}, 1, 1, par)
	if err != nil {
		t.Fatal(err)
	}
	cur, _ := sy.CurrentAt(tsr(0))
	if dif := mat32.Abs(cur.Values[0] - 42); dif > difTol {
		t.Errorf("cold current override: got %g, want 42", cur.Values[0])
	}
	spk, _ := sy.SpikeAt(tsr(0))
	if spk.Values[0] != 0 {
		t.Errorf("cold spike: got %g, want 0", spk.Values[0])
	}
}

func TestDeltaSpikeInterp(t *testing.T) {
	// linear interpolation degrades to nearest on the spike channel
	par := deltaPar(3)
	par.Interp.Mode = interp.Linear
	par.Interp.Tol = 0.3
	sy, err := NewDelta([]int{1}, 1, 1, par)
	if err != nil {
		t.Fatal(err)
	}
	sy.Step(tsr(1))
	sy.Step(tsr(0))
	// pure linear would give 0.25: the spike channel snaps instead
	spk, _ := sy.SpikeAt(tsr(0.25))
	if spk.Values[0] != 0 {
		t.Errorf("spike at 0.25: got %g, want 0 (snapped to newer)", spk.Values[0])
	}
	spk, _ = sy.SpikeAt(tsr(0.75))
	if spk.Values[0] != 1 {
		t.Errorf("spike at 0.75: got %g, want 1 (snapped to older)", spk.Values[0])
	}
	cur, _ := sy.CurrentAt(tsr(0.75))
	if cur.Values[0] != 1 {
		t.Errorf("current at 0.75: got %g, want 1", cur.Values[0])
	}
}

func TestDeltaConfig(t *testing.T) {
	par := deltaPar(0)
	par.SpikeQ = 0
	if _, err := NewDelta([]int{1}, 1, 1, par); !errors.Is(err, ErrConfig) {
		t.Errorf("zero charge: got %v, want ErrConfig", err)
	}
	par = deltaPar(-1)
	if _, err := NewDelta([]int{1}, 1, 1, par); !errors.Is(err, ErrConfig) {
		t.Errorf("negative delay: got %v, want ErrConfig", err)
	}
	if _, err := NewDelta(nil, 1, 1, deltaPar(0)); !errors.Is(err, ErrConfig) {
		t.Errorf("empty shape: got %v, want ErrConfig", err)
	}
	sy, err := NewDelta([]int{2, 2}, 1, 1, deltaPar(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sy.Step(tsr(1, 0)); !errors.Is(err, ErrShape) {
		t.Errorf("short input: got %v, want ErrShape", err)
	}
}

func TestDeltaSetBatch(t *testing.T) {
	sy, err := NewDelta([]int{2}, 1, 1, deltaPar(2))
	if err != nil {
		t.Fatal(err)
	}
	sy.Step(tsr(1, 1))
	if err := sy.SetBatch(3); err != nil {
		t.Fatal(err)
	}
	// destructive: history is gone
	cur, err := sy.CurrentAt(tsr(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if cur.Len() != 6 {
		t.Errorf("batched read len: got %d, want 6", cur.Len())
	}
	for i, v := range cur.Values {
		if v != 0 {
			t.Errorf("entry %d survived batch resize: %g", i, v)
		}
	}
	if err := sy.SetBatch(0); !errors.Is(err, ErrConfig) {
		t.Errorf("zero batch: got %v, want ErrConfig", err)
	}
}

func TestDeltaPlusInject(t *testing.T) {
	sy, err := NewDeltaPlus([]int{2}, 1, 1, deltaPar(2))
	if err != nil {
		t.Fatal(err)
	}
	out, err := sy.Step(tsr(1, 0), tsr(0.5, 0.25))
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1.5, 0.25}
	for i := range want {
		if dif := mat32.Abs(out.Values[i] - want[i]); dif > difTol {
			t.Errorf("unit %d: got %g, want %g", i, out.Values[i], want[i])
		}
	}

	// delayed current reads include the injected component; spikes don't
	sy.Step(tsr(0, 0))
	cur, _ := sy.CurrentAt(tsr(1, 1))
	for i := range want {
		if dif := mat32.Abs(cur.Values[i] - want[i]); dif > difTol {
			t.Errorf("current unit %d at 1: got %g, want %g", i, cur.Values[i], want[i])
		}
	}
	spk, _ := sy.SpikeAt(tsr(1, 1))
	if spk.Values[0] != 1 || spk.Values[1] != 0 {
		t.Errorf("spikes at 1: got %v, want [1 0]", spk.Values[:2])
	}

	// mismatched inject errors
	if _, err := sy.Step(tsr(0, 0), tsr(1)); !errors.Is(err, ErrShape) {
		t.Errorf("short inject: got %v, want ErrShape", err)
	}
}

func TestDeltaClear(t *testing.T) {
	sy, _ := NewDelta([]int{1}, 1, 1, deltaPar(2))
	sy.Step(tsr(1))
	sy.Clear()
	cur, _ := sy.CurrentAt(tsr(0))
	if cur.Values[0] != 0 {
		t.Errorf("post-clear current: got %g, want 0", cur.Values[0])
	}
}
