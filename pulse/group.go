// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import "github.com/emer/etable/etensor"

// Group holds the shared geometry and timing of a homogeneous collection
// of simulated units (neurons or synapses): the per-unit shape, the batch
// size, and the simulation step duration.  All per-unit state tensors of
// a group have shape (batch, units...), and every unit in the group
// advances by the same fixed step.
type Group struct {

	// shape of the group of units being simulated, excluding the batch
	// dimension -- row major, outer-to-inner.
	Shp []int

	// size of input batches for simulation: number of independent
	// instances computed in one vectorized pass.
	Batch int

	// length of a simulation time step, in msec.
	StepTime float32 `min:"0" def:"1"`
}

// initGroup validates and sets the group geometry.  shp is copied.
func (gp *Group) initGroup(shp []int, batch int, stepTime float32) error {
	if len(shp) == 0 {
		return configErrorf("group shape must have at least one dimension")
	}
	for _, d := range shp {
		if d <= 0 {
			return configErrorf("group shape dimensions must be positive, got %v", shp)
		}
	}
	if batch < 1 {
		return configErrorf("batch size must be at least 1, got %d", batch)
	}
	if stepTime <= 0 {
		return configErrorf("step time must be positive, got %g", stepTime)
	}
	gp.Shp = append([]int(nil), shp...)
	gp.Batch = batch
	gp.StepTime = stepTime
	return nil
}

// Size returns the number of units per batch instance (product of Shp).
func (gp *Group) Size() int {
	sz := 1
	for _, d := range gp.Shp {
		sz *= d
	}
	return sz
}

// InShape returns the shape of per-step inputs, excluding the batch
// dimension.
func (gp *Group) InShape() []int { return gp.Shp }

// OutShape returns the shape of per-step outputs, excluding the batch
// dimension.
func (gp *Group) OutShape() []int { return gp.Shp }

// BatchedShape returns the full shape of the group's state tensors,
// including the leading batch dimension.
func (gp *Group) BatchedShape() []int {
	return append([]int{gp.Batch}, gp.Shp...)
}

// NewState returns a new zero-valued state tensor with the group's
// batched shape.
func (gp *Group) NewState() *etensor.Float32 {
	return etensor.NewFloat32(gp.BatchedShape(), nil, nil)
}

// CheckInput verifies that a per-step input tensor has the group's
// batched number of elements.  Inputs are processed flattened, so any
// shape with batch * Size() total elements is accepted.
func (gp *Group) CheckInput(ts *etensor.Float32) error {
	if ts == nil {
		return shapeErrorf("nil input tensor")
	}
	want := gp.Batch * gp.Size()
	if ts.Len() != want {
		return shapeErrorf("input has %d elements, group needs %d (batch %d x units %d)", ts.Len(), want, gp.Batch, gp.Size())
	}
	return nil
}
