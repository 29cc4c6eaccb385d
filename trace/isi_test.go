// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

func TestISI(t *testing.T) {
	// spikes at steps 2, 5, 9: intervals 3 and 4
	spk := tsr(0, 0, 1, 0, 0, 1, 0, 0, 0, 1)
	iv := ISI(spk, 1)
	if iv.Len() != 2 {
		t.Fatalf("intervals: got %d, want 2", iv.Len())
	}
	if iv.Values[0] != 3 || iv.Values[1] != 4 {
		t.Errorf("intervals: got %v, want [3 4]", iv.Values)
	}

	// step time scales the intervals
	iv = ISI(spk, 0.5)
	if iv.Values[0] != 1.5 || iv.Values[1] != 2 {
		t.Errorf("scaled intervals: got %v, want [1.5 2]", iv.Values)
	}
}

func TestISIPadding(t *testing.T) {
	// 3 trains x 6 steps: 3 intervals, 1 interval, none
	spk := etensor.NewFloat32([]int{3, 6}, nil, nil)
	copy(spk.Values, []float32{
		1, 1, 0, 1, 0, 1,
		0, 1, 0, 0, 1, 0,
		0, 0, 0, 1, 0, 0,
	})
	iv := ISI(spk, 1)
	if iv.NumDims() != 2 || iv.Dim(0) != 3 || iv.Dim(1) != 3 {
		t.Fatalf("shape: got %v, want [3 3]", iv.Shp)
	}
	want := []float32{1, 2, 2, 3}
	if iv.Values[0] != want[0] || iv.Values[1] != want[1] || iv.Values[2] != want[2] {
		t.Errorf("train 0: got %v, want %v", iv.Values[:3], want[:3])
	}
	if iv.Values[3] != want[3] {
		t.Errorf("train 1: got %g, want %g", iv.Values[3], want[3])
	}
	// ragged trains pad with NaN
	for _, idx := range []int{4, 5, 6, 7, 8} {
		if !math32.IsNaN(iv.Values[idx]) {
			t.Errorf("entry %d: got %g, want NaN", idx, iv.Values[idx])
		}
	}
}

func TestISIEmpty(t *testing.T) {
	// fewer than two spikes anywhere: zero-length interval dimension
	iv := ISI(tsr(0, 1, 0), 1)
	if iv.Len() != 0 {
		t.Errorf("empty intervals: got len %d, want 0", iv.Len())
	}
	spk := etensor.NewFloat32([]int{2, 3}, nil, nil)
	iv = ISI(spk, 1)
	if iv.NumDims() != 2 || iv.Dim(1) != 0 {
		t.Errorf("empty shape: got %v, want [2 0]", iv.Shp)
	}
}
