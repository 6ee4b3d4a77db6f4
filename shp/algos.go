// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/femcore/num"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
)

// constants
const (
	INVMAP_RTOL = 1.0e-6 // tolerance for inverse mapping function, relative to CharLength
	INVMAP_NIT  = 40     // maximum number of iterations for inverse mapping
	POINT_TOL   = 1.0e-3 // points outside the reference domain by less than this are accepted
)

// Centroid returns the natural coordinates of the centroid of the reference cell
func (o *Shape) Centroid() (r []float64) {
	r = make([]float64, 3)
	for i := 0; i < o.Gndim; i++ {
		for m := 0; m < o.Ncorners; m++ {
			r[i] += o.NatCoords[i][m]
		}
		r[i] /= float64(o.Ncorners)
	}
	return
}

// CharLength returns a characteristic length of the cell: the largest distance
// between two corner vertices. This is the diagonal of quadrilaterals and
// hexahedra, the longest edge of simplices and the length of lines
func (o *Shape) CharLength(x [][]float64) (l float64) {
	ndim := len(x)
	for a := 0; a < o.Ncorners; a++ {
		for b := a + 1; b < o.Ncorners; b++ {
			d := 0.0
			for i := 0; i < ndim; i++ {
				d += math.Pow(x[i][b]-x[i][a], 2)
			}
			l = math.Max(l, math.Sqrt(d))
		}
	}
	return
}

// Global2Local computes the natural coordinates r of the real point y
//  Input:
//   x[ndim][nverts] -- coordinates matrix of element
//   y[ndim]         -- real coordinates of point
//  Output:
//   r[3]   -- natural coordinates
//   inside -- the point lies in the cell (within POINT_TOL)
//  Note: Newton's method starting from the centroid. If gndim < ndim, the normal
//        equations dxdRᵀ·(x(r) - y) = 0 are solved with the Gauss-Newton Jacobian
//        dxdRᵀ·dxdR. Converged points outside the reference domain by more than
//        POINT_TOL and non-converged points are clamped into the domain and flagged outside
func (o *Shape) Global2Local(x [][]float64, y []float64) (r []float64, inside bool) {

	// auxiliary
	ndim := len(x)
	gnd := o.Gndim
	S := make([]float64, o.Nverts)
	dSdR := tsr.Alloc(o.Nverts, gnd)
	dxdR := tsr.Alloc(ndim, gnd)
	e := make([]float64, ndim)
	L := o.CharLength(x)

	// e = x·S - y and dxdR = x·dSdR at ξ
	mapping := func(ξ []float64) {
		copy(r, ξ)
		o.Func(S, dSdR, r, true)
		for i := 0; i < ndim; i++ {
			e[i] = -y[i]
			for m := 0; m < o.Nverts; m++ {
				e[i] += x[i][m] * S[m]
			}
			for j := 0; j < gnd; j++ {
				dxdR[i][j] = 0
				for m := 0; m < o.Nverts; m++ {
					dxdR[i][j] += x[i][m] * dSdR[m][j]
				}
			}
		}
	}

	res := func(F, ξ []float64) {
		mapping(ξ)
		if gnd == ndim {
			copy(F, e)
			return
		}
		for j := 0; j < gnd; j++ {
			F[j] = 0
			for i := 0; i < ndim; i++ {
				F[j] += dxdR[i][j] * e[i]
			}
		}
	}

	jac := func(J [][]float64, ξ []float64) {
		mapping(ξ)
		for j := 0; j < gnd; j++ {
			if gnd == ndim {
				for i := 0; i < ndim; i++ {
					J[i][j] = dxdR[i][j]
				}
				continue
			}
			for k := 0; k < gnd; k++ {
				J[j][k] = 0
				for i := 0; i < ndim; i++ {
					J[j][k] += dxdR[i][j] * dxdR[i][k]
				}
			}
		}
	}

	// iterations
	r = o.Centroid()
	ξ := make([]float64, gnd)
	copy(ξ, r)
	nwt := num.NewtonN{Tol: INVMAP_RTOL * L, MaxIt: INVMAP_NIT}
	if gnd < ndim {
		nwt.Tol *= L
	}
	_, err := nwt.Solve(ξ, res, jac)
	copy(r, ξ)

	// clamp
	if err != nil {
		o.clamp(r, 0)
		return r, false
	}
	return r, !o.clamp(r, POINT_TOL)
}

// clamp moves r into the reference domain if it lies outside by more than tol.
// It returns true if r was modified
func (o *Shape) clamp(r []float64, tol float64) (modified bool) {
	if o.Simplex {
		sum := 0.0
		for i := 0; i < o.Gndim; i++ {
			if r[i] < -tol {
				r[i], modified = 0, true
			}
			sum += r[i]
		}
		if sum > 1+tol {
			for i := 0; i < o.Gndim; i++ {
				r[i] /= sum
			}
			modified = true
		}
		return
	}
	for i := 0; i < o.Gndim; i++ {
		if r[i] < -1-tol {
			r[i], modified = -1, true
		}
		if r[i] > 1+tol {
			r[i], modified = 1, true
		}
	}
	return
}

// CellBryDist returns the shortest distance between R and the boundary of the cell
// in natural coordinates. Negative values indicate points outside the cell
func (o *Shape) CellBryDist(R []float64) (d float64) {
	if o.Simplex {
		d = 1.0
		for i := 0; i < o.Gndim; i++ {
			d -= R[i]
		}
		for i := 0; i < o.Gndim; i++ {
			d = math.Min(d, R[i])
		}
		return
	}
	d = 1.0 - math.Abs(R[0])
	for i := 1; i < o.Gndim; i++ {
		d = math.Min(d, 1.0-math.Abs(R[i]))
	}
	return
}

// edges ////////////////////////////////////////////////////////////////////////////////////////////

func (o *Shape) checkEdge(iedge int) {
	if iedge < 0 || iedge >= len(o.EdgeLocalVerts) {
		chk.Panic("%s: edge index %d is out of range [0, %d)", o.Type, iedge, len(o.EdgeLocalVerts))
	}
}

// EdgeEvalN returns the shape functions of an edge at the edge coordinate u ∈ [-1,1]
func (o *Shape) EdgeEvalN(u float64) []float64 {
	return o.edge.EvalN([]float64{u})
}

// EdgeToCell maps the edge coordinate u of edge iedge to the natural coordinates of the cell
func (o *Shape) EdgeToCell(iedge int, u float64) (r []float64) {
	o.checkEdge(iedge)
	Se := o.EdgeEvalN(u)
	r = make([]float64, 3)
	for i := 0; i < o.Gndim; i++ {
		for k, n := range o.EdgeLocalVerts[iedge] {
			r[i] += Se[k] * o.NatCoords[i][n]
		}
	}
	return
}

// EdgeLocal2Global returns the real coordinates of the point u on edge iedge
func (o *Shape) EdgeLocal2Global(x [][]float64, iedge int, u float64) (y []float64) {
	o.checkEdge(iedge)
	Se := o.EdgeEvalN(u)
	y = make([]float64, len(x))
	for i := 0; i < len(x); i++ {
		for k, n := range o.EdgeLocalVerts[iedge] {
			y[i] += Se[k] * x[i][n]
		}
	}
	return
}

// EdgeJacobian returns |dx/du| on edge iedge
func (o *Shape) EdgeJacobian(x [][]float64, iedge int, u float64) float64 {
	o.checkEdge(iedge)
	dSe := o.edge.EvalDNdXi([]float64{u})
	v := make([]float64, len(x))
	for i := 0; i < len(x); i++ {
		for k, n := range o.EdgeLocalVerts[iedge] {
			v[i] += dSe[k][0] * x[i][n]
		}
	}
	return tsr.Norm(v)
}

// faces ////////////////////////////////////////////////////////////////////////////////////////////

func (o *Shape) checkFace(iface int) {
	if iface < 0 || iface >= len(o.FaceLocalVerts) {
		chk.Panic("%s: face index %d is out of range [0, %d)", o.Type, iface, len(o.FaceLocalVerts))
	}
}

// FaceEvalN returns the shape functions of a face at face natural coordinates rf
func (o *Shape) FaceEvalN(rf []float64) []float64 {
	return o.face.EvalN(rf)
}

// FaceToCell maps the face coordinates rf of face iface to the natural coordinates of the cell
func (o *Shape) FaceToCell(iface int, rf []float64) (r []float64) {
	o.checkFace(iface)
	Sf := o.FaceEvalN(rf)
	r = make([]float64, 3)
	for i := 0; i < o.Gndim; i++ {
		for k, n := range o.FaceLocalVerts[iface] {
			r[i] += Sf[k] * o.NatCoords[i][n]
		}
	}
	return
}

// FaceLocal2Global returns the real coordinates of the point rf on face iface
func (o *Shape) FaceLocal2Global(x [][]float64, iface int, rf []float64) (y []float64) {
	o.checkFace(iface)
	Sf := o.FaceEvalN(rf)
	y = make([]float64, len(x))
	for i := 0; i < len(x); i++ {
		for k, n := range o.FaceLocalVerts[iface] {
			y[i] += Sf[k] * x[i][n]
		}
	}
	return
}

// FaceNormal returns the outward unit normal n and the surface Jacobian jac
// (area or length scale) at the point rf of face iface
func (o *Shape) FaceNormal(x [][]float64, iface int, rf []float64) (n []float64, jac float64) {
	o.CalcAtFaceIp(x, rf, iface)
	n = make([]float64, len(o.Fnvec))
	copy(n, o.Fnvec)
	jac = tsr.Normalize(n)
	return
}

// extrapolation ////////////////////////////////////////////////////////////////////////////////////

// GetNodesNatCoordsMat returns the matrix (ξ) with natural coordinates of nodes,
// augmented by one column which is filled with ones [nverts][ndim+1]
func (o *Shape) GetNodesNatCoordsMat() (ξ [][]float64) {
	ξ = tsr.Alloc(o.Nverts, o.Gndim+1)
	for i := 0; i < o.Nverts; i++ {
		for j := 0; j < o.Gndim; j++ {
			ξ[i][j] = o.NatCoords[j][i]
		}
		ξ[i][o.Gndim] = 1.0
	}
	return
}

// GetIpsNatCoordsMat returns the matrix (\hat{ξ}) with natural coordinates of interation
// points, augmented by one column which is filled with ones [nip][ndim+1]
func (o *Shape) GetIpsNatCoordsMat(ips []Ipoint) (ξh [][]float64) {
	nip := len(ips)
	ξh = tsr.Alloc(nip, o.Gndim+1)
	for i := 0; i < nip; i++ {
		for j := 0; j < o.Gndim; j++ {
			ξh[i][j] = ips[i][j]
		}
		ξh[i][o.Gndim] = 1.0
	}
	return
}

// GetShapeMatAtIps returns a matrix formed by computing the shape functions
// at all integration points [nip][nverts]
func (o *Shape) GetShapeMatAtIps(ips []Ipoint) (N [][]float64) {
	nip := len(ips)
	N = tsr.Alloc(nip, o.Nverts)
	for i := 0; i < nip; i++ {
		o.Func(N[i], nil, ips[i], false)
	}
	return
}

// Extrapolator computes the extrapolation matrix for this Shape with a combination of integration points 'ips'
//  Note: E[nverts][nip] must be pre-allocated
func (o *Shape) Extrapolator(E [][]float64, ips []Ipoint) (err error) {
	tsr.Fill(E, 0)
	nip := len(ips)
	N := o.GetShapeMatAtIps(ips)
	if nip >= o.Nverts {
		return tsr.InvG(E, N, 1e-10)
	}
	ξ := o.GetNodesNatCoordsMat()
	ξh := o.GetIpsNatCoordsMat(ips)
	ξhi := tsr.Alloc(o.Gndim+1, nip)
	Ni := tsr.Alloc(o.Nverts, nip)
	if err = tsr.InvG(Ni, N, 1e-10); err != nil {
		return
	}
	if err = tsr.InvG(ξhi, ξh, 1e-10); err != nil {
		return
	}
	ξhξhI := tsr.Alloc(nip, nip) // ξh * inv(ξh)
	for k := 0; k < o.Gndim+1; k++ {
		for j := 0; j < nip; j++ {
			for i := 0; i < nip; i++ {
				ξhξhI[i][j] += ξh[i][k] * ξhi[k][j]
			}
			for i := 0; i < o.Nverts; i++ {
				E[i][j] += ξ[i][k] * ξhi[k][j] // ξ * inv(ξh)
			}
		}
	}
	for i := 0; i < o.Nverts; i++ {
		for j := 0; j < nip; j++ {
			for k := 0; k < nip; k++ {
				I_kj := 0.0
				if j == k {
					I_kj = 1.0
				}
				E[i][j] += Ni[i][k] * (I_kj - ξhξhI[k][j])
			}
		}
	}
	return
}
