// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package pulse is the overall repository for the pulse spiking neural
network (SNN) simulation library implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* pulse: the core simulation package with unit groups, delay lines,
synapse and neuron state machines, linear connections, and layer / network
composition.  All simulation is discrete-time, step-driven, and strictly
synchronous, with a batch dimension for running independent instances of
the same model in one vectorized pass.

* interp: interpolation policies (nearest, previous, linear) for reading
time-indexed observations at arbitrary fractional offsets -- used by the
delay lines to resolve reads between recorded simulation steps.

* trace: exponentially-decaying spike traces used by learning-rule
consumers, exponential / Holt smoothing recurrences, and inter-spike
interval extraction.
*/
package pulse
