// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsr

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// VoigtToTensor converts a full Voigt vector into a 3x3 symmetric tensor.
// For strains (engineering shear) the off-diagonal terms are halved
func VoigtToTensor(v []float64, strain bool) (t [][]float64) {
	f := 1.0
	if strain {
		f = 0.5
	}
	t = Alloc(3, 3)
	t[0][0], t[1][1], t[2][2] = v[XX], v[YY], v[ZZ]
	t[1][2], t[2][1] = f*v[YZ], f*v[YZ]
	t[0][2], t[2][0] = f*v[XZ], f*v[XZ]
	t[0][1], t[1][0] = f*v[XY], f*v[XY]
	return
}

// TensorToVoigt converts a 3x3 symmetric tensor into a full Voigt vector
func TensorToVoigt(t [][]float64, strain bool) (v []float64) {
	f := 1.0
	if strain {
		f = 2.0
	}
	return []float64{t[0][0], t[1][1], t[2][2], f * t[1][2], f * t[0][2], f * t[0][1]}
}

// PrincipalValues computes the principal values (descending) and the principal
// directions of a symmetric tensor given in full Voigt form.
//  Output:
//   vals[3]    -- principal values; vals[0] >= vals[1] >= vals[2]
//   dirs[3][3] -- principal directions stored as columns; dirs[i][k] is the
//                 i-th component of the k-th direction
func PrincipalValues(v []float64, strain bool) (vals []float64, dirs [][]float64, err error) {
	t := VoigtToTensor(v, strain)
	sym := mat.NewSymDense(3, []float64{
		t[0][0], t[0][1], t[0][2],
		t[1][0], t[1][1], t[1][2],
		t[2][0], t[2][1], t[2][2],
	})
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, chk.Err("eigen-decomposition failed for tensor %v", v)
	}
	λ := eig.Values(nil)
	var vec mat.Dense
	eig.VectorsTo(&vec)

	// sort descending
	idx := []int{0, 1, 2}
	sort.SliceStable(idx, func(a, b int) bool { return λ[idx[a]] > λ[idx[b]] })
	vals = make([]float64, 3)
	dirs = Alloc(3, 3)
	for k, K := range idx {
		vals[k] = λ[K]
		for i := 0; i < 3; i++ {
			dirs[i][k] = vec.At(i, K)
		}
	}
	return
}

// Compose rebuilds a full Voigt vector from principal values and directions:
//  t = Σ_k vals[k] · n_k ⊗ n_k
func Compose(vals []float64, dirs [][]float64, strain bool) []float64 {
	t := Alloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				t[i][j] += vals[k] * dirs[i][k] * dirs[j][k]
			}
		}
	}
	return TensorToVoigt(t, strain)
}

// Column returns the k-th principal direction
func Column(dirs [][]float64, k int) []float64 {
	return []float64{dirs[0][k], dirs[1][k], dirs[2][k]}
}

// PositiveNorm returns the Euclidean norm of the positive entries of vals
func PositiveNorm(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		if v > 0 {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

// voigtPairs holds the tensor indices of each full Voigt component
var voigtPairs = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}

// StressTransform returns the 6x6 matrix T rotating a stress given in the frame of
// dirs (columns) into the global frame: σ = T·σ'. Only the first three columns
// are needed for principal stresses
func StressTransform(dirs [][]float64) (T [][]float64) {
	T = Alloc(6, 6)
	for I, ij := range voigtPairs {
		i, j := ij[0], ij[1]
		for K, kl := range voigtPairs {
			k, l := kl[0], kl[1]
			if k == l {
				T[I][K] = dirs[i][k] * dirs[j][k]
				continue
			}
			T[I][K] = dirs[i][k]*dirs[j][l] + dirs[i][l]*dirs[j][k]
		}
	}
	return
}

// PrincipalValues2D computes the in-plane principal values (descending) and
// directions (columns) of the 2D tensor [xx, yy, xy]
func PrincipalValues2D(xx, yy, xy float64, strain bool) (vals []float64, dirs [][]float64) {
	if strain {
		xy /= 2.0
	}
	c := (xx + yy) / 2.0
	r := math.Hypot((xx-yy)/2.0, xy)
	vals = []float64{c + r, c - r}
	θ := 0.5 * math.Atan2(2.0*xy, xx-yy)
	co, si := math.Cos(θ), math.Sin(θ)
	dirs = [][]float64{{co, -si}, {si, co}}
	return
}
