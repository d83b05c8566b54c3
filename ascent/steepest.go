// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"math"

	"github.com/curioloop/ascent/vec"
)

// Steepest drives one backtracking line search after another, each along the
// freshly supplied gradient. Convergence is decided before a new direction
// starts: either the relative objective change between episodes or the
// gradient norm drops below its tolerance.
type Steepest struct {
	stepSize float64
	tol      Tol

	line      *Backtrack
	oldValue  float64 // NaN until the first line search starts
	converged bool
}

// NewSteepest creates a steepest-ascent optimizer whose line searches start
// with steps of at most stepSize. A nil tol picks the defaults (1e-4, 1e-3).
func NewSteepest(stepSize float64, tol *Tol) *Steepest {
	if stepSize <= 0 {
		panic("ascent: step size must be positive")
	}
	return &Steepest{stepSize: stepSize, tol: tol.orDefault(), oldValue: math.NaN()}
}

// Step advances the active line search, or finishes it and immediately seeds
// the next direction's first step with the same (value, gradient) pair just
// supplied, so no evaluation cycle is wasted between directions.
func (s *Steepest) Step(weights, gradient vec.Dense, value, margin float64) {
	if s.converged {
		return
	}
	// NaN oldValue keeps this false before the first line search.
	if 2*math.Abs(value-s.oldValue) < s.tol.Value*(math.Abs(value)+math.Abs(s.oldValue)+valueEps) {
		s.converged = true
		return
	}
	if gradient.Norm() < s.tol.Gradient {
		s.converged = true
		return
	}
	if s.line == nil {
		s.line = NewBacktrack(gradient, s.stepSize)
		s.oldValue = value
	}
	s.line.Step(weights, gradient, value, margin)
	if !s.line.Converged() {
		return
	}
	s.line = NewBacktrack(gradient, s.stepSize)
	s.line.Step(weights, gradient, value, margin)
	s.oldValue = value
}

func (s *Steepest) Converged() bool { return s.converged }

func (s *Steepest) Reset() {
	s.line = nil
	s.oldValue = math.NaN()
	s.converged = false
}
