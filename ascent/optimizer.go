// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ascent implements iterative maximizers for smooth scalar objectives.
//
// Each optimizer consumes one externally evaluated (value, gradient) pair per
// call and applies a bounded update to a caller-owned weight vector. The
// evaluation itself (model, training examples) stays on the caller side:
//
//	opt := ascent.NewConjugate(1.0, nil)
//	for !opt.Converged() {
//		value, gradient := eval(weights) // caller-side objective
//		opt.Step(weights, gradient, value, 0)
//	}
//
// The weight vector is mutated in place and no copy is ever returned. Every
// optimizer owns its episode state exclusively: instances are not safe for
// concurrent or reentrant use, and the caller must not touch the weight
// vector while a Step call is running.
package ascent

import "github.com/curioloop/ascent/vec"

// Optimizer is the contract shared by all maximizers in this package.
//
// Between two Step calls the caller must re-evaluate the objective at the
// weights mutated by the previous call. A stale value or gradient generally
// shows up as a failed sufficient-increase check or spurious non-convergence.
type Optimizer interface {
	// Step consumes the objective value and gradient evaluated at weights
	// and mutates weights in place. The margin scalar is reserved for
	// margin-based training objectives and ignored by the optimizers here.
	// Once Converged reports true, Step is a no-op.
	Step(weights, gradient vec.Dense, value, margin float64)
	// Converged reports whether the optimizer will no longer mutate weights.
	Converged() bool
	// Reset clears all episode state so the instance can be reused on a
	// fresh problem. Configured rates and tolerances are kept.
	Reset()
}

// Tol holds the convergence tolerances shared by the line-search drivers.
type Tol struct {
	// Value stops the episode on a small relative objective change:
	//   2|fₖ₊₁ - fₖ| < 𝚟𝚊𝚕𝚞𝚎 × (|fₖ₊₁| + |fₖ| + 10⁻¹⁰)
	Value float64
	// Gradient stops the episode when ‖g‖₂ drops below it.
	Gradient float64
}

const (
	defValueTol = 1e-4
	defGradTol  = 1e-3
	valueEps    = 1e-10
)

func (t *Tol) orDefault() Tol {
	if t == nil {
		return Tol{Value: defValueTol, Gradient: defGradTol}
	}
	if t.Value < 0 || t.Gradient < 0 {
		panic("ascent: tolerance must not be negative")
	}
	return *t
}
