// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numgrad estimates gradients of scalar objectives by finite
// differences. It serves callers whose objective has no analytic gradient
// and doubles as a gradient checker in tests.
package numgrad

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Cbrt(math.Nextafter(1, 2) - 1)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Spec represents a finite-difference approximation of the gradient of a scalar function.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
type Spec struct {
	N int
	// Object is the scalar function of which to estimate the gradient.
	// The argument x passed to this function is an n-vector.
	Object func(x []float64) float64
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size as
	// h = RelStep * sign(x0) * abs(x0).
	// Selected automatically as h = eps(Method) * sign(x0) * max(1, abs(x0))
	// when neither RelStep nor AbsStep is provided.
	RelStep float64
	// Absolute step size to use. Takes precedence over RelStep.
	AbsStep float64

	step []float64
}

// Check the parameters and prepare the workspace.
func (s *Spec) Check(x0, grad []float64) (err error) {
	switch {
	case s.N <= 0:
		err = errors.New("negative dimensions")
	case s.Method != Forward && s.Method != Central:
		err = errors.New("unknown method")
	case s.Object == nil:
		err = errors.New("object function is required")
	case s.N != len(x0):
		return errors.New("invalid x0 dimensions")
	case s.N != len(grad):
		return errors.New("invalid grad dimensions")
	}
	if len(s.step) != s.N {
		s.step = make([]float64, s.N)
	}
	return
}

// Grad calculate the gradient approximation of Object at x0 into grad.
// The point x0 is perturbed in place and restored before returning.
func (s *Spec) Grad(x0, grad []float64) error {
	if err := s.Check(x0, grad); err != nil {
		return err
	}
	s.absoluteStep(x0)
	if s.Method == Central {
		s.approxCentral(x0, grad)
	} else {
		s.approxForward(x0, grad)
	}
	return nil
}

// Evaluation adapts Object into an (x, g) ↦ f evaluation suitable for the
// ascent driver. The returned function panics on dimension mismatch.
func (s *Spec) Evaluation() func(x, g []float64) float64 {
	return func(x, g []float64) float64 {
		if err := s.Grad(x, g); err != nil {
			panic(err)
		}
		return s.Object(x)
	}
}

func (s *Spec) absoluteStep(x0 []float64) {
	h := s.step
	if len(h) != len(x0) {
		panic("bound check error")
	}

	eps := sqrtEps
	if s.Method == Central {
		eps = cubeEps
	}

	abs, rel := s.AbsStep, s.RelStep
	if abs == 0 && rel == 0 {
		for i, v := range x0 {
			h[i] = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		return
	}
	for i, v := range x0 {
		t := abs
		if t == 0 {
			t = math.Copysign(rel, v) * math.Abs(v)
		}
		if d := (v + t) - v; d == 0 {
			t = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		h[i] = t
	}
}

func (s *Spec) approxForward(x0, grad []float64) {
	h := s.step
	if len(h) != len(x0) || len(grad) != len(x0) {
		panic("bound check error")
	}

	f0 := s.Object(x0)
	for i, t := range h {
		x := x0[i]
		x0[i] = x + t
		grad[i] = (s.Object(x0) - f0) / t
		x0[i] = x
	}
}

func (s *Spec) approxCentral(x0, grad []float64) {
	h := s.step
	if len(h) != len(x0) || len(grad) != len(x0) {
		panic("bound check error")
	}

	for i, t := range h {
		x := x0[i]
		x0[i] = x - t
		f1 := s.Object(x0)
		x0[i] = x + t
		f2 := s.Object(x0)
		grad[i] = (f2 - f1) / (2 * t)
		x0[i] = x
	}
}
