// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
	"github.com/emer/pulse/interp"
	"github.com/goki/mat32"
)

// OverboundParams specifies how a delayed read past the recorded history
// depth resolves.  Out-of-bounds reads are policy-resolved, not errors,
// so the simulation loop stays error-free during cold start.
type OverboundParams struct {
	Clamp bool    `desc:"resolve out-of-bounds reads to the boundary (oldest retained) observation instead of returning Val"`
	Val   float32 `desc:"override value returned for reads beyond the recorded history depth"`
}

func (ob *OverboundParams) Defaults() {
	ob.Clamp = false
	ob.Val = 0
}

// DelayLine is a fixed-capacity per-unit ring buffer of past
// observations, addressable by age and readable at arbitrary fractional
// delays via interpolation.  One value is recorded per unit per
// simulation step; the newest write overwrites the oldest slot.
// Capacity is ceil(maxDelay / stepTime) + 1, so a delay of exactly
// maxDelay always resolves against a retained observation once the
// buffer has filled.
//
// The line owns only geometry and storage: interpolation and overbound
// policies are passed per read by the owning synapse, which may resolve
// its current and spike channels differently over the same history.
type DelayLine struct {

	// number of units per batch instance (flattened).
	Size int

	// batch size: number of independent instances.
	Batch int

	// length of a simulation time step, in msec.
	StepTime float32

	// maximum supported delay, in msec.  Read delays beyond this are
	// clamped, not errored.
	MaxDelay float32

	// ring capacity in steps = ceil(MaxDelay/StepTime) + 1.
	Cap int

	// number of observations recorded since Clear, saturating at Cap.
	Writes int

	// ring slot holding the newest observation.
	pos int

	// slot-major storage: Cap x Batch x Size.
	Buf []float32
}

// NewDelayLine returns a new delay line for size units x batch
// instances, with the given step time and maximum delay in msec.
func NewDelayLine(size, batch int, stepTime, maxDelay float32) (*DelayLine, error) {
	if size < 1 {
		return nil, configErrorf("delay line size must be at least 1, got %d", size)
	}
	if batch < 1 {
		return nil, configErrorf("delay line batch must be at least 1, got %d", batch)
	}
	if stepTime <= 0 {
		return nil, configErrorf("step time must be positive, got %g", stepTime)
	}
	if maxDelay < 0 {
		return nil, configErrorf("max delay must be non-negative, got %g", maxDelay)
	}
	dl := &DelayLine{Size: size, Batch: batch, StepTime: stepTime, MaxDelay: maxDelay}
	dl.Cap = int(mat32.Ceil(maxDelay/stepTime)) + 1
	dl.Buf = make([]float32, dl.Cap*batch*size)
	dl.pos = dl.Cap - 1 // first write lands on slot 0
	return dl, nil
}

// Write records one observation per unit for the current step,
// overwriting the oldest ring slot.  vals must hold Batch * Size values,
// batch-major.
func (dl *DelayLine) Write(vals []float32) error {
	n := dl.Batch * dl.Size
	if len(vals) != n {
		return shapeErrorf("delay line write has %d values, needs %d", len(vals), n)
	}
	dl.pos = (dl.pos + 1) % dl.Cap
	copy(dl.Buf[dl.pos*n:(dl.pos+1)*n], vals)
	if dl.Writes < dl.Cap {
		dl.Writes++
	}
	return nil
}

// at returns the recorded value for batch instance b, unit u, at the
// given age in steps (0 = newest).  age must be < Writes.
func (dl *DelayLine) at(age, b, u int) float32 {
	slot := dl.pos - age
	if slot < 0 {
		slot += dl.Cap
	}
	return dl.Buf[(slot*dl.Batch+b)*dl.Size+u]
}

// ReadAt resolves a delayed read for every batch instance and delay
// entry.  The delay tensor's total length must be a positive multiple of
// Size: its trailing elements cycle over the units, so extra leading
// dimensions (e.g. a per-(receiver, sender) delay matrix) broadcast over
// the same history.  The result has shape (Batch, delay-shape...).
//
// Each delay entry, in msec, is clamped to [0, MaxDelay], converted to a
// fractional step offset, and resolved between the two bracketing ring
// slots with the given interpolation params.  Entries beyond the
// recorded history depth resolve via the overbound params.
func (dl *DelayLine) ReadAt(delay *etensor.Float32, ip interp.Params, ob OverboundParams) (*etensor.Float32, error) {
	if delay == nil {
		return nil, shapeErrorf("nil delay tensor")
	}
	dlen := delay.Len()
	if dlen == 0 || dlen%dl.Size != 0 {
		return nil, shapeErrorf("delay tensor has %d elements, must be a positive multiple of %d units", dlen, dl.Size)
	}
	oshp := append([]int{dl.Batch}, delay.Shp...)
	out := etensor.NewFloat32(oshp, nil, nil)
	for b := 0; b < dl.Batch; b++ {
		for j := 0; j < dlen; j++ {
			out.Values[b*dlen+j] = dl.readVal(delay.Values[j], b, j%dl.Size, ip, ob)
		}
	}
	return out, nil
}

// readVal resolves one delayed read for batch instance b, unit u.
func (dl *DelayLine) readVal(d float32, b, u int, ip interp.Params, ob OverboundParams) float32 {
	if d < 0 {
		d = 0
	}
	if d > dl.MaxDelay {
		d = dl.MaxDelay
	}
	if dl.Writes == 0 { // nothing recorded: resting value or override
		if ob.Clamp {
			return 0
		}
		return ob.Val
	}
	r := d / dl.StepTime
	oldest := dl.Writes - 1
	if r > float32(oldest) {
		if ob.Clamp {
			return dl.at(oldest, b, u)
		}
		return ob.Val
	}
	lo := int(r)
	hi := lo + 1
	if hi > oldest {
		hi = oldest
	}
	return ip.Val(dl.at(lo, b, u), dl.at(hi, b, u),
		float32(lo)*dl.StepTime, float32(hi)*dl.StepTime, d)
}

// Clear resets all buffer slots to the resting value (0) and the write
// counter to zero.  Capacity is unchanged.
func (dl *DelayLine) Clear() {
	for i := range dl.Buf {
		dl.Buf[i] = 0
	}
	dl.Writes = 0
	dl.pos = dl.Cap - 1
}
