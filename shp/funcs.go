// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// lagrange1D returns the 1D Lagrange polynomial (and its derivative) of the
// node located at ξi ∈ {-1, 0, 1} on the linear (order=1) or quadratic (order=2) line
func lagrange1D(order int, ξi, x float64) (L, dL float64) {
	if order == 1 {
		return (1.0 + ξi*x) / 2.0, ξi / 2.0
	}
	switch {
	case ξi < 0:
		return x * (x - 1.0) / 2.0, x - 0.5
	case ξi > 0:
		return x * (x + 1.0) / 2.0, x + 0.5
	}
	return 1.0 - x*x, -2.0 * x
}

// tensorFunc returns the shape functions of Lagrange lines, quadrilaterals and
// hexahedra built as tensor products of 1D polynomials
func tensorFunc(order, gndim int, natCoords [][]float64) ShpFunc {
	return func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
		var L, dL [3]float64
		for m := range S {
			S[m] = 1.0
			for i := 0; i < gndim; i++ {
				L[i], dL[i] = lagrange1D(order, natCoords[i][m], r[i])
				S[m] *= L[i]
			}
			if !derivs {
				continue
			}
			for i := 0; i < gndim; i++ {
				dSdR[m][i] = dL[i]
				for j := 0; j < gndim; j++ {
					if j != i {
						dSdR[m][i] *= L[j]
					}
				}
			}
		}
	}
}

// serendipityFunc returns the shape functions of the 8-node quadrilateral and
// the 20-node hexahedron
//  corners:   N = (1/2ⁿ) Π(1+ξξi) (Σ ξξi - (n-1))
//  mid-edges: N = (1/2ⁿ⁻¹) Π f,  f = 1-ξ² if ξi == 0 else 1+ξξi
func serendipityFunc(gndim int, natCoords [][]float64) ShpFunc {
	cc := 1.0 / float64(int(1)<<uint(gndim))
	cm := 2.0 * cc
	return func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
		var a, da [3]float64
		for m := range S {
			corner := true
			for i := 0; i < gndim; i++ {
				ξi := natCoords[i][m]
				if ξi == 0 {
					corner = false
					a[i], da[i] = 1.0-r[i]*r[i], -2.0*r[i]
				} else {
					a[i], da[i] = 1.0+r[i]*ξi, ξi
				}
			}
			if corner {
				s := -float64(gndim - 1)
				prod := 1.0
				for i := 0; i < gndim; i++ {
					s += r[i] * natCoords[i][m]
					prod *= a[i]
				}
				S[m] = cc * prod * s
				if !derivs {
					continue
				}
				for i := 0; i < gndim; i++ {
					p := 1.0
					for j := 0; j < gndim; j++ {
						if j != i {
							p *= a[j]
						}
					}
					dSdR[m][i] = cc * da[i] * p * (s + a[i])
				}
				continue
			}
			S[m] = cm
			for i := 0; i < gndim; i++ {
				S[m] *= a[i]
			}
			if !derivs {
				continue
			}
			for i := 0; i < gndim; i++ {
				dSdR[m][i] = cm * da[i]
				for j := 0; j < gndim; j++ {
					if j != i {
						dSdR[m][i] *= a[j]
					}
				}
			}
		}
	}
}

// simplexFunc returns the shape functions of triangles and tetrahedra in terms of
// the volume coordinates L0 = 1 - Σr, Lk = r[k-1]. mids holds the pair of corners
// of each mid-edge node (quadratic simplices)
func simplexFunc(gndim int, mids [][2]int) ShpFunc {
	nc := gndim + 1
	return func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
		var L [4]float64
		var dL [4][3]float64
		L[0] = 1.0
		for i := 0; i < gndim; i++ {
			L[0] -= r[i]
			L[i+1] = r[i]
			dL[0][i] = -1.0
			dL[i+1][i] = 1.0
		}
		if len(mids) == 0 {
			for k := 0; k < nc; k++ {
				S[k] = L[k]
				if derivs {
					copy(dSdR[k], dL[k][:gndim])
				}
			}
			return
		}
		for k := 0; k < nc; k++ {
			S[k] = L[k] * (2.0*L[k] - 1.0)
			if derivs {
				for i := 0; i < gndim; i++ {
					dSdR[k][i] = (4.0*L[k] - 1.0) * dL[k][i]
				}
			}
		}
		for k, p := range mids {
			a, b := p[0], p[1]
			S[nc+k] = 4.0 * L[a] * L[b]
			if derivs {
				for i := 0; i < gndim; i++ {
					dSdR[nc+k][i] = 4.0 * (L[a]*dL[b][i] + L[b]*dL[a][i])
				}
			}
		}
	}
}
