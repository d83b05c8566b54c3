// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/ascent/vec"
)

func TestBacktrackQuadraticAccept(t *testing.T) {
	obj := parabola(0.1)
	w := vec.Of(0)

	bt := NewBacktrack(vec.Of(1), 1.0)
	bt.Step(w, obj.grad(w), obj.value(w), 0) // full unit step
	require.False(t, bt.Converged())
	require.InDelta(t, 1.0, w[0], 1e-12)

	// Overshot: one quadratic backtrack lands on the maximizer.
	bt.Step(w, obj.grad(w), obj.value(w), 0)
	require.False(t, bt.Converged())
	require.InDelta(t, 0.1, w[0], 1e-12)

	bt.Step(w, obj.grad(w), obj.value(w), 0)
	require.True(t, bt.Converged())
	require.InDelta(t, 0.1, w[0], 1e-12)

	// Armijo sufficient-increase condition holds for the accepted step.
	require.GreaterOrEqual(t, obj.value(w), bt.origValue+backAlf*bt.alam*bt.slope)
}

func TestBacktrackCubicBacktrack(t *testing.T) {
	obj := objective{
		value: func(w vec.Dense) float64 { return w[0] - 1000*math.Pow(w[0], 4) },
		grad:  func(w vec.Dense) vec.Dense { return vec.Of(1 - 4000*math.Pow(w[0], 3)) },
	}
	w := vec.Of(0)

	bt := NewBacktrack(vec.Of(1), 1.0)
	steps := drive(bt, w, obj, 100)

	require.True(t, bt.Converged())
	require.Equal(t, 4, steps) // full step, quadratic backtrack, cubic backtrack, accept
	require.InDelta(t, 0.01, w[0], 1e-6)
	require.GreaterOrEqual(t, obj.value(w), bt.origValue+backAlf*bt.alam*bt.slope)
	require.Greater(t, obj.value(w), bt.origValue)
}

func TestBacktrackDescendingPanics(t *testing.T) {
	obj := parabola(3) // gradient at 0 is +6
	w := vec.Of(0)
	bt := NewBacktrack(vec.Of(-1), 1.0) // opposite of the gradient
	require.Panics(t, func() { bt.Step(w, obj.grad(w), obj.value(w), 0) })
}

func TestBacktrackDimensionPanics(t *testing.T) {
	bt := NewBacktrack(vec.Of(1), 1.0)
	require.Panics(t, func() { bt.Step(vec.Of(0, 0), vec.Of(1, 1), 0, 0) })
}

func TestBacktrackDirectionCopied(t *testing.T) {
	obj := parabola(3)
	w := vec.Of(0)
	g := obj.grad(w)
	dir := g.Clone()

	bt := NewBacktrack(g, 1.0) // norm 6 forces an internal rescale
	bt.Step(w, g, obj.value(w), 0)
	require.Equal(t, dir, g) // the caller's gradient stays untouched
}

func TestBacktrackNonFiniteRollsBack(t *testing.T) {
	w := vec.Of(0)
	bt := NewBacktrack(vec.Of(1), 1.0)
	bt.Step(w, vec.Of(1), 0, 0)
	// Every step lands in an unstable region: the step shrinks by 5× per
	// call until the weights sit within tolerance of the snapshot, then
	// the search rolls back and gives up.
	for i := 0; i < 50 && !bt.Converged(); i++ {
		bt.Step(w, vec.Of(1), math.NaN(), 0)
	}
	require.True(t, bt.Converged())
	require.Equal(t, 0.0, w[0])
}

func TestBacktrackNoopAfterConverged(t *testing.T) {
	obj := parabola(0.1)
	w := vec.Of(0)
	bt := NewBacktrack(vec.Of(1), 1.0)
	drive(bt, w, obj, 100)
	require.True(t, bt.Converged())

	frozen := w.Clone()
	for i := 0; i < 5; i++ {
		bt.Step(w, vec.Of(123), -456, 0)
	}
	require.Equal(t, frozen, w)
}

func TestBacktrackReset(t *testing.T) {
	obj := parabola(0.1)
	w := vec.Of(0)
	bt := NewBacktrack(vec.Of(1), 1.0)
	first := drive(bt, w, obj, 100)
	final := w.Clone()

	bt.Reset()
	w[0] = 0
	second := drive(bt, w, obj, 100)

	require.Equal(t, first, second)
	require.Equal(t, final, w)
}
