// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"github.com/curioloop/ascent/vec"
)

var _ = []Optimizer{
	(*Stepwise)(nil),
	(*Averaging)(nil),
	(*Backtrack)(nil),
	(*Steepest)(nil),
	(*Conjugate)(nil),
}

// objective pairs a value function with its analytic gradient for test loops.
type objective struct {
	value func(w vec.Dense) float64
	grad  func(w vec.Dense) vec.Dense
}

// parabola is the 1-D objective f(x) = -(x-c)² maximized at c.
func parabola(c float64) objective {
	return objective{
		value: func(w vec.Dense) float64 { return -(w[0] - c) * (w[0] - c) },
		grad:  func(w vec.Dense) vec.Dense { return vec.Of(-2 * (w[0] - c)) },
	}
}

// drive evaluates obj at the current weights and steps opt until it converges
// or maxSteps is hit, returning the number of Step calls made.
func drive(opt Optimizer, w vec.Dense, obj objective, maxSteps int) int {
	steps := 0
	for !opt.Converged() && steps < maxSteps {
		opt.Step(w, obj.grad(w), obj.value(w), 0)
		steps++
	}
	return steps
}
