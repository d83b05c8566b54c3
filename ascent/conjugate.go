// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"math"

	"github.com/curioloop/ascent/vec"
)

// Conjugate maintains a Polak–Ribiere conjugate ascent direction across
// line-search episodes:
//
//	γ = Σ ξᵢ(ξᵢ-gᵢ) / Σ gᵢ²
//	h ← γh + ξ
//
// where ξ is the newest gradient and g the previous one. The conjugate
// direction h is adopted only while it still ascends (ξᵀh > 0); once it turns
// descending, a known degenerate case under inexact line search, the state
// falls back to steepest ascent.
//
// # Reference
//
//   - W.H. Press et al., 'Numerical Recipes in C', 2nd edition, §10.6
type Conjugate struct {
	stepSize float64
	tol      Tol

	xi, g, h vec.Dense // search direction, previous gradient, conjugate direction
	oldValue float64
	iter     int

	line      *Backtrack
	converged bool
}

// NewConjugate creates a conjugate-gradient optimizer whose line searches
// start with steps of at most stepSize. A nil tol picks the defaults (1e-4, 1e-3).
func NewConjugate(stepSize float64, tol *Tol) *Conjugate {
	if stepSize <= 0 {
		panic("ascent: step size must be positive")
	}
	return &Conjugate{stepSize: stepSize, tol: tol.orDefault()}
}

// Iterations returns the number of completed direction updates.
func (cg *Conjugate) Iterations() int { return cg.iter }

// Step advances the active line search. When a search finishes, the direction
// is updated per Polak–Ribiere and the next search takes its first step with
// the same (value, gradient) pair just supplied.
func (cg *Conjugate) Step(weights, gradient vec.Dense, value, margin float64) {
	if cg.converged {
		return
	}
	if cg.xi == nil {
		cg.xi = gradient.Clone()
		cg.g = gradient.Clone()
		cg.h = gradient.Clone()
		cg.oldValue = value
	}
	if cg.line == nil {
		cg.line = NewBacktrack(cg.xi, cg.stepSize)
	}
	cg.line.Step(weights, gradient, value, margin)
	if !cg.line.Converged() {
		return
	}
	cg.line = nil
	cg.xi = gradient.Clone()

	if 2*math.Abs(value-cg.oldValue) <= cg.tol.Value*(math.Abs(value)+math.Abs(cg.oldValue)+valueEps) {
		cg.converged = true
		return
	}
	if cg.xi.Norm() < cg.tol.Gradient {
		cg.converged = true
		return
	}
	cg.oldValue = value

	gg, dgg := 0.0, 0.0
	for i, gi := range cg.g {
		gg += gi * gi
		dgg += cg.xi[i] * (cg.xi[i] - gi)
	}
	if gg == 0 { // previous gradient vanished, nothing left to climb
		cg.converged = true
		return
	}
	gam := dgg / gg
	cg.g.CopyFrom(cg.xi)
	for i := range cg.h {
		cg.h[i] = cg.h[i]*gam + cg.g[i]
		if math.IsNaN(cg.h[i]) || math.IsInf(cg.h[i], 0) {
			panic("ascent: conjugate direction is not finite")
		}
	}
	if cg.xi.Dot(cg.h) > 0 {
		cg.xi.CopyFrom(cg.h) // conjugate direction still ascends
	} else {
		cg.h.CopyFrom(cg.xi) // fall back to steepest ascent
	}
	cg.iter++

	cg.line = NewBacktrack(cg.xi, cg.stepSize)
	cg.line.Step(weights, gradient, value, margin)
}

func (cg *Conjugate) Converged() bool { return cg.converged }

func (cg *Conjugate) Reset() {
	cg.xi, cg.g, cg.h = nil, nil, nil
	cg.line = nil
	cg.oldValue = 0
	cg.iter = 0
	cg.converged = false
}
