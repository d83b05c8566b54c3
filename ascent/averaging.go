// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import "github.com/curioloop/ascent/vec"

// Averaging decorates an inner optimizer and accumulates the weight
// trajectory for later averaging. The running sum picks up the weights
// before each inner step, so the average covers the starting point and
// excludes the weights produced by the newest step.
type Averaging struct {
	inner Optimizer
	sum   vec.Dense
	count int
}

// NewAveraging wraps inner with trajectory averaging.
func NewAveraging(inner Optimizer) *Averaging {
	if inner == nil {
		panic("ascent: inner optimizer is required")
	}
	return &Averaging{inner: inner}
}

func (a *Averaging) Step(weights, gradient vec.Dense, value, margin float64) {
	if a.inner.Converged() {
		return
	}
	if a.sum == nil {
		a.sum = weights.Clone()
	} else {
		a.sum.AddScaled(1, weights)
	}
	a.count++
	a.inner.Step(weights, gradient, value, margin)
}

// Average returns the mean of the weight snapshots seen so far,
// or nil before the first step.
func (a *Averaging) Average() vec.Dense {
	if a.count == 0 {
		return nil
	}
	avg := a.sum.Clone()
	avg.Scale(1 / float64(a.count))
	return avg
}

// Converged delegates to the inner optimizer.
func (a *Averaging) Converged() bool { return a.inner.Converged() }

// Reset clears the accumulated trajectory and resets the inner optimizer.
func (a *Averaging) Reset() {
	a.sum, a.count = nil, 0
	a.inner.Reset()
}
