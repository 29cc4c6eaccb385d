// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// ISI extracts inter-spike intervals from recorded spike trains.  The
// input's last dimension is time, one entry per simulation step, with
// nonzero = spike; leading dimensions identify independent trains
// (batch, units).  stepTime converts step counts to msec; a
// non-positive stepTime reports intervals in steps.
//
// The result keeps the leading dimensions and replaces the time
// dimension with max-intervals: the largest number of intervals in any
// single train.  Trains with fewer intervals are right-padded with NaN.
// If no train has two spikes, the last dimension has length zero.
func ISI(spikes *etensor.Float32, stepTime float32) *etensor.Float32 {
	if stepTime <= 0 {
		stepTime = 1
	}
	nd := spikes.NumDims()
	tlen := spikes.Dim(nd - 1)
	rows := 1
	lead := make([]int, 0, nd)
	for d := 0; d < nd-1; d++ {
		lead = append(lead, spikes.Dim(d))
		rows *= spikes.Dim(d)
	}

	// first pass: interval counts per train
	maxIv := 0
	counts := make([]int, rows)
	for r := 0; r < rows; r++ {
		nspk := 0
		for t := 0; t < tlen; t++ {
			if spikes.Values[r*tlen+t] != 0 {
				nspk++
			}
		}
		if nspk > 1 {
			counts[r] = nspk - 1
			if counts[r] > maxIv {
				maxIv = counts[r]
			}
		}
	}

	out := etensor.NewFloat32(append(lead, maxIv), nil, nil)
	if maxIv == 0 {
		return out
	}
	nan := math32.NaN()
	for r := 0; r < rows; r++ {
		iv := 0
		last := -1
		for t := 0; t < tlen; t++ {
			if spikes.Values[r*tlen+t] == 0 {
				continue
			}
			if last >= 0 {
				out.Values[r*maxIv+iv] = float32(t-last) * stepTime
				iv++
			}
			last = t
		}
		for ; iv < maxIv; iv++ {
			out.Values[r*maxIv+iv] = nan
		}
	}
	return out
}
