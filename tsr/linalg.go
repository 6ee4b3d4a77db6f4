// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsr

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a matrix cannot be inverted
var ErrSingular = errors.New("singular matrix")

// Alloc allocates a matrix [m][n]
func Alloc(m, n int) [][]float64 {
	return utl.Alloc(m, n)
}

// Clone returns a deep copy of a matrix
func Clone(a [][]float64) (b [][]float64) {
	b = make([][]float64, len(a))
	for i := range a {
		b[i] = make([]float64, len(a[i]))
		copy(b[i], a[i])
	}
	return
}

// Fill sets all entries of a to v
func Fill(a [][]float64, v float64) {
	for i := range a {
		for j := range a[i] {
			a[i][j] = v
		}
	}
}

// Scale multiplies all entries of a by s
func Scale(a [][]float64, s float64) {
	for i := range a {
		floats.Scale(s, a[i])
	}
}

// dense returns a gonum matrix holding a copy of a
func dense(a [][]float64) *mat.Dense {
	m := len(a)
	n := len(a[0])
	d := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		d.SetRow(i, a[i])
	}
	return d
}

// toSlices copies a gonum matrix into res
func toSlices(res [][]float64, d mat.Matrix) {
	for i := range res {
		for j := range res[i] {
			res[i][j] = d.At(i, j)
		}
	}
}

// Det returns the determinant of a square matrix
func Det(a [][]float64) float64 {
	switch len(a) {
	case 1:
		return a[0][0]
	case 2:
		return a[0][0]*a[1][1] - a[0][1]*a[1][0]
	case 3:
		return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
			a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
			a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	}
	return mat.Det(dense(a))
}

// Inv computes ai = inv(a) and returns the determinant of a.
// An error wrapping ErrSingular is returned if |det(a)| <= mindet
func Inv(ai, a [][]float64, mindet float64) (det float64, err error) {
	det = Det(a)
	if math.IsNaN(det) || math.Abs(det) <= mindet {
		return det, fmt.Errorf("cannot invert %dx%d matrix: det = %g: %w", len(a), len(a), det, ErrSingular)
	}
	switch len(a) {
	case 1:
		ai[0][0] = 1.0 / a[0][0]
		return
	case 2:
		ai[0][0] = a[1][1] / det
		ai[0][1] = -a[0][1] / det
		ai[1][0] = -a[1][0] / det
		ai[1][1] = a[0][0] / det
		return
	case 3:
		ai[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) / det
		ai[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) / det
		ai[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) / det
		ai[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) / det
		ai[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) / det
		ai[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) / det
		ai[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) / det
		ai[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) / det
		ai[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) / det
		return
	}
	var inv mat.Dense
	if e := inv.Inverse(dense(a)); e != nil {
		return det, fmt.Errorf("cannot invert %dx%d matrix: %v: %w", len(a), len(a), e, ErrSingular)
	}
	toSlices(ai, &inv)
	return
}

// Solve solves a·x = b using an LU factorisation
func Solve(x []float64, a [][]float64, b []float64) (err error) {
	var lu mat.LU
	lu.Factorize(dense(a))
	if lu.Det() == 0 {
		return fmt.Errorf("cannot solve %dx%d system: %w", len(a), len(a), ErrSingular)
	}
	xv := mat.NewVecDense(len(x), nil)
	if e := lu.SolveVecTo(xv, false, mat.NewVecDense(len(b), b)); e != nil {
		var cond mat.Condition
		if !errors.As(e, &cond) {
			return fmt.Errorf("cannot solve %dx%d system: %v: %w", len(a), len(a), e, ErrSingular)
		}
	}
	for i := range x {
		x[i] = xv.AtVec(i)
	}
	return
}

// MatVecMul computes v = α·a·u
func MatVecMul(v []float64, α float64, a [][]float64, u []float64) {
	for i := range v {
		v[i] = α * floats.Dot(a[i], u)
	}
}

// MatMul computes c = α·a·b
func MatMul(c [][]float64, α float64, a, b [][]float64) {
	for i := range c {
		for j := range c[i] {
			c[i][j] = 0
			for k := range b {
				c[i][j] += α * a[i][k] * b[k][j]
			}
		}
	}
}

// Dot returns u·v
func Dot(u, v []float64) float64 {
	return floats.Dot(u, v)
}

// Norm returns the Euclidean norm of v
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Dist returns the Euclidean distance between a and b
func Dist(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Normalize scales v to unit length and returns its original norm
func Normalize(v []float64) (n float64) {
	n = Norm(v)
	if n > 0 {
		floats.Scale(1.0/n, v)
	}
	return
}

// Cross3 computes w = u × v for 3D vectors
func Cross3(w, u, v []float64) {
	w[0] = u[1]*v[2] - u[2]*v[1]
	w[1] = u[2]*v[0] - u[0]*v[2]
	w[2] = u[0]*v[1] - u[1]*v[0]
}

// InvG computes the generalised (Moore-Penrose) inverse ai[n][m] of a[m][n]
// by a thin SVD. Singular values below tol·σmax are dropped
func InvG(ai, a [][]float64, tol float64) (err error) {
	var svd mat.SVD
	if ok := svd.Factorize(dense(a), mat.SVDThin); !ok {
		return fmt.Errorf("cannot compute SVD of %dx%d matrix: %w", len(a), len(a[0]), ErrSingular)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	σ := svd.Values(nil)
	_, k := u.Dims()
	n, _ := v.Dims()
	m, _ := u.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			ai[i][j] = 0
			for l := 0; l < k; l++ {
				if σ[l] > tol*σ[0] {
					ai[i][j] += v.At(i, l) * u.At(j, l) / σ[l]
				}
			}
		}
	}
	return
}
