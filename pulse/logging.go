// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// Recorder accumulates per-step summary statistics of a neuron group
// into an etable.Table, one row per recorded step: mean membrane
// potential, spike fraction, mean refractory time, and optionally the
// mean of an associated trace tensor.  The table can be saved or
// plotted with the standard etable tooling.
type Recorder struct {
	Table *etable.Table `desc:"recorded rows, one per step"`
}

// NewRecorder returns a new recorder with an empty table.
func NewRecorder(name string) *Recorder {
	rc := &Recorder{Table: &etable.Table{}}
	rc.Table.SetMetaData("name", name)
	rc.Table.SetMetaData("precision", "4")
	sch := etable.Schema{
		{Name: "Step", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Time", Type: etensor.FLOAT32, CellShape: nil, DimNames: nil},
		{Name: "VmAvg", Type: etensor.FLOAT32, CellShape: nil, DimNames: nil},
		{Name: "SpikePct", Type: etensor.FLOAT32, CellShape: nil, DimNames: nil},
		{Name: "RefracAvg", Type: etensor.FLOAT32, CellShape: nil, DimNames: nil},
		{Name: "TraceAvg", Type: etensor.FLOAT32, CellShape: nil, DimNames: nil},
	}
	rc.Table.SetFromSchema(sch, 0)
	return rc
}

// Record appends one row with the given time state and the neuron
// group's current summary statistics.  An optional trace tensor (e.g.
// from trace.Trace) contributes the TraceAvg column, which is otherwise
// zero.
func (rc *Recorder) Record(tm *Time, ng *NeuronGroup, trc ...*etensor.Float32) {
	row := rc.Table.Rows
	rc.Table.SetNumRows(row + 1)
	n := len(ng.Vm.Values)
	var vm, spk, rf float32
	for i := 0; i < n; i++ {
		vm += ng.Vm.Values[i]
		spk += ng.Spike.Values[i]
		rf += ng.Refrac.Values[i]
	}
	fn := float32(n)
	rc.Table.SetCellFloat("Step", row, float64(tm.Step))
	rc.Table.SetCellFloat("Time", row, float64(tm.Time))
	rc.Table.SetCellFloat("VmAvg", row, float64(vm/fn))
	rc.Table.SetCellFloat("SpikePct", row, float64(spk/fn))
	rc.Table.SetCellFloat("RefracAvg", row, float64(rf/fn))
	if len(trc) > 0 && trc[0] != nil && trc[0].Len() > 0 {
		var tv float32
		for _, v := range trc[0].Values {
			tv += v
		}
		rc.Table.SetCellFloat("TraceAvg", row, float64(tv/float32(trc[0].Len())))
	}
}

// Reset discards all recorded rows.
func (rc *Recorder) Reset() {
	rc.Table.SetNumRows(0)
}
