// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

// pulse.Time contains the timing state for running a model: a step
// counter and the accumulated simulated time.  One step = StepTime msec
// of simulated time.
type Time struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in msec.
	Time float32

	// total step count: number of simulation steps run since Reset.
	Step int

	// amount of simulated time per step, in msec.
	StepTime float32 `def:"1"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.StepTime = 1
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.StepTime == 0 {
		tm.Defaults()
	}
}

// StepInc increments the counters by one simulation step
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time += tm.StepTime
}
