// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsr

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

func Test_modes01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modes01")

	chk.Int(tst, "1d", Mode1D.Size(), 1)
	chk.Int(tst, "pstress", PlaneStress.Size(), 3)
	chk.Int(tst, "pstrain", PlaneStrain.Size(), 4)
	chk.Int(tst, "3d", Mode3D.Size(), 6)
	chk.Int(tst, "iface2d", Interface2D.Size(), 2)
	chk.Int(tst, "iface3d", Interface3D.Size(), 3)

	for _, m := range []Mode{Mode1D, PlaneStress, PlaneStrain, Mode3D, Interface2D, Interface3D} {
		p, err := ParseMode(m.String())
		require.NoError(tst, err)
		assert.Equal(tst, m, p)
	}
	_, err := ParseMode("axisym")
	assert.Error(tst, err)

	full := Expand(PlaneStrain, []float64{1, 2, 3, 4})
	chk.Array(tst, "pstrain full", 1e-17, full, []float64{1, 2, 3, 0, 0, 4})
	chk.Array(tst, "pstrain back", 1e-17, Contract(PlaneStrain, full), []float64{1, 2, 3, 4})

	full = FullStrain(PlaneStress, []float64{1e-3, 2e-3, 5e-4}, 0.25)
	chk.Float64(tst, "εzz", 1e-17, full[ZZ], -0.25*3e-3/0.75)

	full = FullStrain(Mode1D, []float64{1e-3}, 0.2)
	chk.Array(tst, "1d full", 1e-17, full, []float64{1e-3, -2e-4, -2e-4, 0, 0, 0})

	D := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	Dfull := ExpandMatrix(PlaneStress, D)
	chk.Float64(tst, "Dfull[xy][xx]", 1e-17, Dfull[XY][XX], 7)
	chk.Deep2(tst, "D back", 1e-17, ContractMatrix(PlaneStress, Dfull), D)
}

func Test_eigen01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eigen01")

	vecs := [][]float64{
		{1, 2, 3, 0, 0, 0},
		{1e-4, -2e-4, 3e-5, 4e-5, -1e-5, 2e-4},
		{10, 10, 10, 0, 0, 0},
		{-3, 1, 0.5, 0.7, 0.2, -1.1},
	}
	for _, strain := range []bool{false, true} {
		for _, v := range vecs {
			vals, dirs, err := PrincipalValues(v, strain)
			require.NoError(tst, err)
			if chk.Verbose {
				io.Pforan("vals = %v\n", vals)
			}
			assert.True(tst, vals[0] >= vals[1] && vals[1] >= vals[2])

			// invariants
			t := VoigtToTensor(v, strain)
			chk.Float64(tst, "I1", 1e-14*(1+math.Abs(t[0][0])), vals[0]+vals[1]+vals[2], t[0][0]+t[1][1]+t[2][2])

			// directions are orthonormal
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					δ := 0.0
					if a == b {
						δ = 1
					}
					chk.Float64(tst, "nᵃ·nᵇ", 1e-14, Dot(Column(dirs, a), Column(dirs, b)), δ)
				}
			}

			// round trip
			scale := 0.0
			for _, x := range v {
				scale = math.Max(scale, math.Abs(x))
			}
			chk.Array(tst, "composed", 1e-12*scale, Compose(vals, dirs, strain), v)
		}
	}

	chk.Float64(tst, "positive norm", 1e-17, PositiveNorm([]float64{3, -1, 4}), 5)
}

func Test_linalg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linalg01")

	a := [][]float64{
		{4, 1, 0, 0},
		{1, 3, 1, 0},
		{0, 1, 2, 0.5},
		{0, 0, 0.5, 1},
	}
	ai := Alloc(4, 4)
	det, err := Inv(ai, a, 1e-14)
	require.NoError(tst, err)
	chk.Float64(tst, "det", 1e-12, det, Det(a))

	id := Alloc(4, 4)
	MatMul(id, 1, a, ai)
	chk.Deep2(tst, "a·ai", 1e-14, id, [][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}})

	x := make([]float64, 4)
	require.NoError(tst, Solve(x, a, []float64{1, 2, 3, 4}))
	b := make([]float64, 4)
	MatVecMul(b, 1, a, x)
	chk.Array(tst, "a·x", 1e-14, b, []float64{1, 2, 3, 4})

	s := [][]float64{{1, 2, 3}, {2, 4, 6}, {1, 0, 1}}
	_, err = Inv(Alloc(3, 3), s, 1e-14)
	assert.ErrorIs(tst, err, ErrSingular)

	w := make([]float64, 3)
	Cross3(w, []float64{1, 0, 0}, []float64{0, 1, 0})
	chk.Array(tst, "x × y", 1e-17, w, []float64{0, 0, 1})
	v := []float64{3, 4, 0}
	chk.Float64(tst, "norm", 1e-15, Normalize(v), 5)
	chk.Array(tst, "unit", 1e-15, v, []float64{0.6, 0.8, 0})
}

func Test_eigen02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eigen02. stress transformation and 2D principal values")

	σ := []float64{3, -1, 2, 0.5, -0.7, 1.2}
	vals, dirs, err := PrincipalValues(σ, false)
	require.NoError(tst, err)
	T := StressTransform(dirs)
	res := make([]float64, 6)
	MatVecMul(res, 1, T, []float64{vals[0], vals[1], vals[2], 0, 0, 0})
	io.Pforan("res = %v\n", res)
	chk.Array(tst, "T·σp", 1e-12, res, σ)

	// 2D: compare with the 3D decomposition of an in-plane tensor
	v2, d2 := PrincipalValues2D(2, -1, 1.5, false)
	v3, d3, err := PrincipalValues([]float64{2, -1, 0, 0, 0, 1.5}, false)
	require.NoError(tst, err)
	chk.Float64(tst, "σ1", 1e-13, v2[0], v3[0])
	chk.Float64(tst, "σ2", 1e-13, v2[1], v3[2])
	assert.InDelta(tst, 1.0, math.Abs(d2[0][0]*d3[0][0]+d2[1][0]*d3[1][0]), 1e-12)

	// engineering shear
	v2, _ = PrincipalValues2D(0, 0, 2, true)
	chk.Array(tst, "γ", 1e-15, v2, []float64{1, -1})
}
