// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import "github.com/curioloop/ascent/vec"

// Decay maps the rate used by the current step to the rate for the next one.
type Decay func(rate float64) float64

// Stepwise is the plain gradient-ascent baseline: each step adds rate×gradient
// to the weights. It never converges on its own, the caller decides when to
// stop. An optional decay schedule adjusts the rate after every step.
type Stepwise struct {
	rate  float64
	decay Decay
}

// NewStepwise creates a fixed-rate ascent optimizer.
// A nil decay keeps the rate constant.
func NewStepwise(rate float64, decay Decay) *Stepwise {
	if rate <= 0 {
		panic("ascent: step rate must be positive")
	}
	return &Stepwise{rate: rate, decay: decay}
}

// Rate returns the rate the next step will use.
func (s *Stepwise) Rate() float64 { return s.rate }

func (s *Stepwise) Step(weights, gradient vec.Dense, value, margin float64) {
	weights.AddScaled(s.rate, gradient)
	if s.decay != nil {
		s.rate = s.decay(s.rate)
	}
}

// Converged always reports false.
func (s *Stepwise) Converged() bool { return false }

// Reset is a no-op: the decayed rate counts as configuration, not episode state.
func (s *Stepwise) Reset() {}
