// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import "github.com/pkg/errors"

var (
	// ErrConfig is the base error for invalid construction-time parameters
	// (non-positive step time, negative delay, zero charge quantum, etc).
	// These are fatal at construction and never recovered internally.
	// Test with errors.Is.
	ErrConfig = errors.New("invalid configuration")

	// ErrShape is the base error for a runtime tensor whose shape or batch
	// size does not match the configured unit group.  Fatal per call: the
	// caller must fix its inputs, there is nothing to retry.
	ErrShape = errors.New("tensor shape mismatch")
)

func configErrorf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrConfig, format, args...)
}

func shapeErrorf(format string, args ...interface{}) error {
	return errors.WithMessagef(ErrShape, format, args...)
}
