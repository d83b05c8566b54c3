// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"fmt"
	"math"

	"github.com/curioloop/ascent/vec"
)

const (
	// backAlf is the Armijo sufficient-increase constant.
	backAlf = 1e-4
	// backRelTol bounds the smallest admissible step relative to the weight magnitudes.
	backRelTol = 1e-7
	// backAbsTol is the absolute weight-change tolerance below which the
	// whole search counts as no net progress.
	backAbsTol = 1e-4
)

// Backtrack maximizes the objective along one fixed ascent direction using
// backtracking with polynomial interpolation, the 𝚕𝚗𝚜𝚛𝚌𝚑 algorithm adapted
// for maximization.
//
// An instance drives a single directional maximization: create it with the
// direction, feed it one freshly evaluated (value, gradient) pair per Step
// until Converged, then discard it. The direction is copied on construction
// and, when its norm exceeds maxStep, scaled down to that norm so the first
// unit step never moves the weights further than maxStep.
//
// A failed sufficient-increase check backtracks the step length: a quadratic
// model proposes the next step on the first backtrack, afterwards a cubic fit
// through the two newest (step, value) samples does, with the proposal
// clamped into [0.1, 0.5] of the current step. Numerical stalls (vanishing
// step, non-finite objective, unchanged weights) roll the weights back to the
// snapshot taken at the first call and declare convergence instead of failing.
//
// # Reference
//
//   - W.H. Press et al., 'Numerical Recipes in C', 2nd edition, §9.7
type Backtrack struct {
	dir     vec.Dense // direction as constructed
	maxStep float64

	line vec.Dense // working direction, norm capped at maxStep
	orig vec.Dense // rollback snapshot of the weights

	slope   float64 // gᵀd at the origin, NaN until the first step
	alamin  float64 // smallest admissible step length
	alam    float64 // newest proposed step length
	oldAlam float64 // step length the weights currently sit at
	alam2   float64 // second newest sample for the cubic fit

	origValue float64
	oldValue  float64

	converged bool
}

// NewBacktrack creates a line search along direction. The direction is copied,
// the caller's vector stays untouched. maxStep caps the length of the first step.
func NewBacktrack(direction vec.Dense, maxStep float64) *Backtrack {
	if len(direction) == 0 {
		panic("ascent: search direction is required")
	}
	if maxStep <= 0 {
		panic("ascent: maximum step must be positive")
	}
	return &Backtrack{dir: direction.Clone(), maxStep: maxStep, slope: math.NaN()}
}

func (bt *Backtrack) Step(weights, gradient vec.Dense, value, margin float64) {
	if bt.converged {
		return
	}
	if math.IsNaN(bt.slope) {
		bt.begin(weights, gradient, value)
		return
	}
	bt.search(weights, value)
}

// Converged reports whether the directional maximization finished.
// A converged search must be discarded, not reused.
func (bt *Backtrack) Converged() bool { return bt.converged }

// Reset discards the episode state so the same direction can be maximized
// again from scratch.
func (bt *Backtrack) Reset() {
	bt.line, bt.orig = nil, nil
	bt.slope = math.NaN()
	bt.alamin, bt.alam, bt.oldAlam, bt.alam2 = 0, 0, 0, 0
	bt.origValue, bt.oldValue = 0, 0
	bt.converged = false
}

func (bt *Backtrack) begin(weights, gradient vec.Dense, value float64) {
	if !weights.Compatible(bt.dir) || !gradient.Compatible(bt.dir) {
		panic("ascent: weights dimension not match direction")
	}

	bt.line = bt.dir.Clone()
	if norm := bt.line.Norm(); norm > bt.maxStep {
		bt.line.Scale(bt.maxStep / norm)
	}

	bt.slope = gradient.Dot(bt.line)
	if bt.slope <= 0 {
		panic(fmt.Sprintf("ascent: initial slope %g is not ascending", bt.slope))
	}

	// Largest coordinate move relative to the weight magnitudes
	// decides how small a step is still numerically meaningful.
	test := 0.0
	for i, d := range bt.line {
		if r := math.Abs(d) / math.Max(math.Abs(weights[i]), 1); r > test {
			test = r
		}
	}
	bt.alamin = backRelTol / test

	bt.orig = weights.Clone()
	bt.origValue, bt.oldValue = value, value
	bt.alam, bt.oldAlam = 1, 0
	weights.AddScaled(bt.alam-bt.oldAlam, bt.line)
}

func (bt *Backtrack) search(weights vec.Dense, value float64) {
	tmplam := 0.0
	switch {
	case value >= bt.origValue+backAlf*bt.alam*bt.slope:
		// Sufficient increase, the step is accepted.
		if value < bt.origValue {
			panic("ascent: objective decreased on an accepted step")
		}
		bt.converged = true

	case math.IsInf(value, 0) || math.IsNaN(value) ||
		math.IsInf(bt.oldValue, 0) || math.IsNaN(bt.oldValue):
		// The step overshot into an unstable region.
		if bt.alam < bt.alamin {
			weights.CopyFrom(bt.orig)
			bt.converged = true
		} else {
			tmplam = 0.2 * bt.alam
		}

	case bt.alam == bt.oldAlam:
		bt.converged = true // stalled, no new step proposed

	default:
		tmplam = bt.interpolate(value)
	}

	if !bt.converged {
		bt.alam2 = bt.alam
		bt.oldValue = value
		bt.oldAlam = bt.alam
		bt.alam = math.Max(tmplam, 0.1*bt.alam) // never shrink more than 10× per backtrack
		if bt.alam == bt.oldAlam {
			bt.converged = true
		} else {
			weights.AddScaled(bt.alam-bt.oldAlam, bt.line)
		}
	}

	// A vanishing step or unchanged weights end the search with no net progress.
	if bt.alam < bt.alamin || weights.EqualsWithin(bt.orig, backAbsTol) {
		weights.CopyFrom(bt.orig)
		bt.converged = true
	}
}

// interpolate proposes the next step length from a polynomial model of the
// objective along the line: a quadratic on the first backtrack, afterwards a
// cubic through the two newest (step, value) samples.
func (bt *Backtrack) interpolate(value float64) (tmplam float64) {
	if bt.alam == 1 {
		return -bt.slope / (2 * (value - bt.origValue - bt.slope))
	}
	if bt.alam == bt.alam2 {
		panic("ascent: coincident step lengths in cubic fit")
	}
	rhs1 := value - bt.origValue - bt.alam*bt.slope
	rhs2 := bt.oldValue - bt.origValue - bt.alam2*bt.slope
	a := (rhs1/(bt.alam*bt.alam) - rhs2/(bt.alam2*bt.alam2)) / (bt.alam - bt.alam2)
	b := (-bt.alam2*rhs1/(bt.alam*bt.alam) + bt.alam*rhs2/(bt.alam2*bt.alam2)) / (bt.alam - bt.alam2)
	switch disc := b*b - 3*a*bt.slope; {
	case a == 0: // cubic degenerates, fall back to the quadratic form
		tmplam = -bt.slope / (2 * b)
	case disc < 0:
		tmplam = 0.5 * bt.alam
	case b <= 0:
		tmplam = (-b + math.Sqrt(disc)) / (3 * a)
	default:
		tmplam = -bt.slope / (b + math.Sqrt(disc))
	}
	if tmplam > 0.5*bt.alam {
		tmplam = 0.5 * bt.alam
	}
	return
}
