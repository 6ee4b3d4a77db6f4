// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"fmt"
	"math"
)

// HermiteLine implements the cubic Hermite interpolation on a straight 2-node line
// (beams). The four functions interpolate [w1, θ1, w2, θ2] where θ are rotations;
// the rotation functions depend on the length l of the line
//  Note: the geometry is linear; x[ndim][2]
type HermiteLine struct{}

// Length returns the length of the line
func (o HermiteLine) Length(x [][]float64) (l float64) {
	for i := 0; i < len(x); i++ {
		l += math.Pow(x[i][1]-x[i][0], 2)
	}
	return math.Sqrt(l)
}

// EvalN returns the four shape functions at ξ ∈ [-1,1]
func (o HermiteLine) EvalN(ξ, l float64) []float64 {
	return []float64{
		0.25 * (1.0 - ξ) * (1.0 - ξ) * (2.0 + ξ),
		0.125 * l * (1.0 - ξ) * (1.0 - ξ) * (1.0 + ξ),
		0.25 * (1.0 + ξ) * (1.0 + ξ) * (2.0 - ξ),
		-0.125 * l * (1.0 + ξ) * (1.0 + ξ) * (1.0 - ξ),
	}
}

// EvalDNdx returns the derivatives of the shape functions w.r.t the arc-length
func (o HermiteLine) EvalDNdx(ξ, l float64) []float64 {
	return []float64{
		1.5 * (ξ*ξ - 1.0) / l,
		0.25 * (ξ - 1.0) * (3.0*ξ + 1.0),
		-1.5 * (ξ*ξ - 1.0) / l,
		0.25 * (ξ + 1.0) * (3.0*ξ - 1.0),
	}
}

// EvalD2Ndx2 returns the second derivatives of the shape functions w.r.t the arc-length
func (o HermiteLine) EvalD2Ndx2(ξ, l float64) []float64 {
	return []float64{
		6.0 * ξ / (l * l),
		(3.0*ξ - 1.0) / l,
		-6.0 * ξ / (l * l),
		(3.0*ξ + 1.0) / l,
	}
}

// Jacobian returns dx/dξ == l/2
func (o HermiteLine) Jacobian(x [][]float64) (float64, error) {
	l := o.Length(x)
	if l <= MINDET {
		return 0, fmt.Errorf("hermite line: length = %g: %w", l, ErrDegenerate)
	}
	return l / 2.0, nil
}

// Local2Global returns the real coordinates of ξ (linear geometry)
func (o HermiteLine) Local2Global(x [][]float64, ξ float64) (y []float64) {
	y = make([]float64, len(x))
	for i := 0; i < len(x); i++ {
		y[i] = 0.5*(1.0-ξ)*x[i][0] + 0.5*(1.0+ξ)*x[i][1]
	}
	return
}

// Global2Local projects y onto the line and returns ξ clamped into [-1,1]
func (o HermiteLine) Global2Local(x [][]float64, y []float64) (ξ float64, inside bool) {
	l := o.Length(x)
	if l <= MINDET {
		return 0, false
	}
	s := 0.0
	for i := 0; i < len(x); i++ {
		s += (x[i][1] - x[i][0]) * (y[i] - x[i][0])
	}
	ξ = 2.0*s/(l*l) - 1.0
	inside = ξ >= -1-POINT_TOL && ξ <= 1+POINT_TOL
	ξ = math.Max(-1, math.Min(1, ξ))
	return
}

// Normal returns the unit normal (dy, -dx)/l of a 2D line and the edge Jacobian l/2
func (o HermiteLine) Normal(x [][]float64) (n []float64, jac float64) {
	l := o.Length(x)
	n = []float64{(x[1][1] - x[1][0]) / l, -(x[0][1] - x[0][0]) / l}
	return n, l / 2.0
}
