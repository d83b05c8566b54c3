// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec provides the dense real-valued vector shared by the optimizers.
package vec

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Dense is a dense vector of float64 backed by a plain slice.
// Elements are accessed by indexing the slice directly.
type Dense []float64

// New creates a zero vector of dimension n.
func New(n int) Dense { return make(Dense, n) }

// Of creates a vector from the given elements.
func Of(v ...float64) Dense { return v }

// Clone returns a deep copy of v.
func (v Dense) Clone() Dense { return slices.Clone(v) }

// Compatible reports whether u has the same dimension as v.
func (v Dense) Compatible(u Dense) bool { return len(v) == len(u) }

// CopyFrom assigns the elements of u into v in place.
func (v Dense) CopyFrom(u Dense) {
	if len(v) != len(u) {
		panic("vec: dimension not match")
	}
	copy(v, u)
}

// AddScaled performs v += alpha×u in place.
func (v Dense) AddScaled(alpha float64, u Dense) {
	if len(v) != len(u) {
		panic("vec: dimension not match")
	}
	floats.AddScaled(v, alpha, u)
}

// Scale performs v *= alpha in place.
func (v Dense) Scale(alpha float64) { floats.Scale(alpha, v) }

// Dot returns the inner product vᵀu.
func (v Dense) Dot(u Dense) float64 {
	if len(v) != len(u) {
		panic("vec: dimension not match")
	}
	return floats.Dot(v, u)
}

// Norm returns the Euclidean norm ‖v‖₂.
func (v Dense) Norm() float64 { return floats.Norm(v, 2) }

// EqualsWithin reports whether every element of v lies within
// absolute tolerance tol of the corresponding element of u.
func (v Dense) EqualsWithin(u Dense, tol float64) bool {
	if len(v) != len(u) {
		return false
	}
	for i, e := range v {
		if !scalar.EqualWithinAbs(e, u[i], tol) {
			return false
		}
	}
	return true
}
