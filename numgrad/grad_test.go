// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numgrad

import (
	"math"
	"testing"
)

func objTrig(x []float64) float64 {
	return x[0]*math.Sin(x[1]) + math.Pow(x[0], 3)
}

func gradTrig(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]) + 3*x[0]*x[0],
		x[0] * math.Cos(x[1]),
	}
}

func maxAbsDiff(a, b []float64) (d float64) {
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return
}

func TestGradTrig(t *testing.T) {

	x := []float64{1.5, 0.7}
	want := gradTrig(x)
	grad := make([]float64, 2)

	s := Spec{N: 2, Object: objTrig, Method: Forward}
	if err := s.Grad(x, grad); err != nil {
		t.Fatal(err)
	}
	if d := maxAbsDiff(grad, want); d > 1e-5 {
		t.Fatalf("forward difference too far from analytic gradient: %g", d)
	}

	s.Method = Central
	if err := s.Grad(x, grad); err != nil {
		t.Fatal(err)
	}
	if d := maxAbsDiff(grad, want); d > 1e-8 {
		t.Fatalf("central difference too far from analytic gradient: %g", d)
	}

	if x[0] != 1.5 || x[1] != 0.7 {
		t.Fatalf("x0 must be restored after evaluation: %v", x)
	}
}

func TestGradSteps(t *testing.T) {

	x := []float64{2}
	want := 12.0 // d/dx x³ at 2
	grad := make([]float64, 1)

	cube := func(x []float64) float64 { return math.Pow(x[0], 3) }

	s := Spec{N: 1, Object: cube, Method: Central, AbsStep: 1e-4}
	if err := s.Grad(x, grad); err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(grad[0] - want); d > 1e-6 {
		t.Fatalf("absolute step estimate too far: %g", d)
	}

	s = Spec{N: 1, Object: cube, Method: Central, RelStep: 1e-5}
	if err := s.Grad(x, grad); err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(grad[0] - want); d > 1e-6 {
		t.Fatalf("relative step estimate too far: %g", d)
	}
}

func TestGradCheck(t *testing.T) {

	obj := func(x []float64) float64 { return x[0] }

	cases := []struct {
		name string
		spec Spec
		x, g []float64
	}{
		{"dimension", Spec{N: 0, Object: obj}, nil, nil},
		{"method", Spec{N: 1, Object: obj, Method: Method(7)}, []float64{0}, []float64{0}},
		{"object", Spec{N: 1}, []float64{0}, []float64{0}},
		{"x0", Spec{N: 2, Object: obj}, []float64{0}, []float64{0, 0}},
		{"grad", Spec{N: 1, Object: obj}, []float64{0}, []float64{0, 0}},
	}

	for _, c := range cases {
		if err := c.spec.Grad(c.x, c.g); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestEvaluation(t *testing.T) {

	s := Spec{N: 1, Object: func(x []float64) float64 { return -(x[0] - 3) * (x[0] - 3) }, Method: Central}
	eval := s.Evaluation()

	x, g := []float64{0}, []float64{0}
	f := eval(x, g)

	switch {
	case f != -9:
		t.Fatalf("unexpected value: %g", f)
	case math.Abs(g[0]-6) > 1e-7:
		t.Fatalf("unexpected gradient: %g", g[0])
	}
}
