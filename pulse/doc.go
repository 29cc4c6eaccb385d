// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package pulse implements the core spiking neural network simulation
machinery: unit groups, delay lines, synapse state machines (Delta and
DeltaPlus current-based models), neuron state machines (LIF, ALIF, QIF,
Izhikevich, EIF, AdEx), linear connections with learnable per-pair delays,
and layer / network composition.

All state is held in per-unit-group tensors of shape (batch, units...),
mutated in place one simulation step at a time.  Simulation is strictly
single-threaded and synchronous: the caller serializes Step / Write /
ReadAt calls in simulation order, and each step is a bounded,
deterministic computation.  Spikes are encoded as 0 / 1 float32 values
throughout, so the same delay-read interpolation machinery serves both
current and spike histories.

Construction-time parameter errors are reported via ErrConfig, and
runtime tensor shape mismatches via ErrShape.  Reads at delays beyond the
recorded history are never errors: they resolve through per-channel
overbound policies (clamp to the boundary observation, or return a
configured override), keeping the simulation loop error-free under normal
operating ranges such as cold start.
*/
package pulse
