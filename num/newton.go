// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package num implements the small root-finding helpers used by softening laws,
// return mappings and inverse mappings
package num

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/femcore/tsr"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// errors
var (
	ErrMaxIt          = errors.New("maximum number of iterations reached")
	ErrZeroDerivative = errors.New("zero derivative")
)

// Newton1D solves scalar equations r(x) = 0
type Newton1D struct {
	Tol   float64 // absolute tolerance on |r|
	MaxIt int     // maximum number of iterations
}

// Solve runs Newton's method starting from x0. The callback returns the residual
// and its derivative dr/dx
func (o Newton1D) Solve(x0 float64, f func(x float64) (r, drdx float64)) (x float64, it int, err error) {
	x = x0
	for it = 0; it <= o.MaxIt; it++ {
		r, drdx := f(x)
		if math.Abs(r) <= o.Tol {
			return
		}
		if drdx == 0 || math.IsNaN(drdx) {
			return x, it, fmt.Errorf("Newton1D: x=%g r=%g: %w", x, r, ErrZeroDerivative)
		}
		x -= r / drdx
	}
	return x, it, fmt.Errorf("Newton1D: x=%g after %d iterations: %w", x, o.MaxIt, ErrMaxIt)
}

// NewtonN solves small systems of nonlinear equations r(x) = 0
type NewtonN struct {
	Tol   float64 // tolerance on the norm of the residual
	MaxIt int     // maximum number of iterations
	Step  float64 // finite-difference step used when no Jacobian callback is given; 0 => default

	// scratchpad
	r  []float64
	dx []float64
	J  [][]float64
}

// Residual computes r(x)
type Residual func(r, x []float64)

// Jacobian computes J = dr/dx
type Jacobian func(J [][]float64, x []float64)

// Solve runs Newton's method in place on x. If jac is nil the Jacobian is
// computed by central finite differences
func (o *NewtonN) Solve(x []float64, res Residual, jac Jacobian) (it int, err error) {
	n := len(x)
	if len(o.r) != n {
		o.r = make([]float64, n)
		o.dx = make([]float64, n)
		o.J = tsr.Alloc(n, n)
	}
	for it = 0; it <= o.MaxIt; it++ {
		res(o.r, x)
		if tsr.Norm(o.r) <= o.Tol {
			return
		}
		if jac == nil {
			o.numJacobian(x, res)
		} else {
			jac(o.J, x)
		}
		if e := tsr.Solve(o.dx, o.J, o.r); e != nil {
			return it, fmt.Errorf("NewtonN: %v: %w", e, ErrZeroDerivative)
		}
		for i := 0; i < n; i++ {
			x[i] -= o.dx[i]
		}
	}
	return it, fmt.Errorf("NewtonN: |r|=%g after %d iterations: %w", tsr.Norm(o.r), o.MaxIt, ErrMaxIt)
}

// numJacobian computes o.J with gonum's finite differences
func (o *NewtonN) numJacobian(x []float64, res Residual) {
	n := len(x)
	J := mat.NewDense(n, n, nil)
	fd.Jacobian(J, func(y, z []float64) { res(y, z) }, x, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    o.Step,
	})
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			o.J[i][j] = J.At(i, j)
		}
	}
}
