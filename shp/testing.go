// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		S := shape.EvalN(r)

		// check
		if verbose {
			io.Pf("S = %v\n", S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(S[m] - 1.0)
			} else {
				errS += math.Abs(S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckUnity checks that shape functions sum up to one at r
func CheckUnity(tst *testing.T, shape *Shape, r []float64, tol float64) {
	sum := 0.0
	for _, s := range shape.EvalN(r) {
		sum += s
	}
	if math.Abs(sum-1.0) > tol {
		tst.Errorf("%s: Σ S(%v) = %v. err = %g\n", shape.Type, r, sum, math.Abs(sum-1.0))
	}
}

// CheckSubShapes checks that the cell functions evaluated at points mapped from
// edges/faces reproduce the edge/face functions and vanish at other vertices
func CheckSubShapes(tst *testing.T, shape *Shape, tol float64, verbose bool) {
	check := func(kind string, idx int, verts []int, S, Ssub []float64) {
		errS := 0.0
		for m := 0; m < shape.Nverts; m++ {
			expected := 0.0
			for k, n := range verts {
				if n == m {
					expected = Ssub[k]
				}
			}
			errS += math.Abs(S[m] - expected)
		}
		if verbose {
			io.Pforan("%s %s %d: err = %g\n", shape.Type, kind, idx, errS)
		}
		if errS > tol {
			tst.Errorf("%s: %s %d failed with err = %g\n", shape.Type, kind, idx, errS)
		}
	}
	for _, u := range []float64{-1, -0.6, 0, 0.3, 1} {
		for e, verts := range shape.EdgeLocalVerts {
			check("edge", e, verts, shape.EvalN(shape.EdgeToCell(e, u)), shape.EdgeEvalN(u))
		}
	}
	if shape.Gndim < 3 {
		return
	}
	pts := [][]float64{{-0.5, -0.3}, {0.2, 0.7}, {0, 0}, {1, -1}}
	if shape.face.Simplex {
		pts = [][]float64{{0.2, 0.3}, {0.1, 0.1}, {0.5, 0.5}, {0, 1}}
	}
	for _, rf := range pts {
		for f, verts := range shape.FaceLocalVerts {
			check("face", f, verts, shape.EvalN(shape.FaceToCell(f, rf)), shape.FaceEvalN(rf))
		}
	}
}

// CheckDSdR checks dSdR derivatives of shape structures
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// auxiliary
	r_tmp := make([]float64, len(r))

	// analytical
	dSdR := shape.EvalDNdXi(r)

	// numerical
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			dSndRi := fd.Derivative(func(t float64) float64 {
				copy(r_tmp, r)
				r_tmp[i] = t
				return shape.EvalN(r_tmp)[n]
			}, r[i], &fd.Settings{Formula: fd.Central, Step: 1e-3})
			if verbose {
				io.Pf("  dS%ddR%d @ %5.2f = %v (num: %v)\n", n, i, r, dSdR[n][i], dSndRi)
			}
			if math.Abs(dSdR[n][i]-dSndRi) > tol {
				tst.Errorf("%s: dS%ddR%d failed with err = %g\n", shape.Type, n, i, math.Abs(dSdR[n][i]-dSndRi))
				return
			}
		}
	}
}

// CheckDSdx checks G=dSdx derivatives of shape structures
func CheckDSdx(tst *testing.T, shape *Shape, xmat [][]float64, x []float64, tol float64, verbose bool) {

	// find r corresponding to x
	r, inside := shape.Global2Local(xmat, x)
	if !inside {
		tst.Errorf("%s: point %v is not inside cell\n", shape.Type, x)
		return
	}

	// analytical
	_, G, err := shape.EvalDNdX(xmat, r)
	if err != nil {
		tst.Errorf("EvalDNdX failed:\n%v", err)
		return
	}

	// numerical
	x_tmp := make([]float64, len(x))
	for n := 0; n < shape.Nverts; n++ {
		for i := 0; i < shape.Gndim; i++ {
			dSnDxi := fd.Derivative(func(t float64) float64 {
				copy(x_tmp, x)
				x_tmp[i] = t
				rr, _ := shape.Global2Local(xmat, x_tmp)
				return shape.EvalN(rr)[n]
			}, x[i], &fd.Settings{Formula: fd.Central, Step: 1e-4})
			if verbose {
				io.Pf("  dS%dDx%d @ %5.2f = %v (num: %v)\n", n, i, x, G[n][i], dSnDxi)
			}
			if math.Abs(G[n][i]-dSnDxi) > tol {
				tst.Errorf("%s: dS%dDx%d failed with err = %g\n", shape.Type, n, i, math.Abs(G[n][i]-dSnDxi))
				return
			}
		}
	}
}
