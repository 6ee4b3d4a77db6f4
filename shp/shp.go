// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines
package shp

import (
	"errors"
	"fmt"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const MINDET = 1.0e-14 // minimum determinant allowed for dxdR

// ErrDegenerate is returned when the Jacobian of the isoparametric mapping is not positive
var ErrDegenerate = errors.New("degenerate cell geometry")

// ShpFunc is the shape functions callback function
//  Note: dSdR may be nil if derivs == false
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data
type Shape struct {

	// geometry
	Type       string      // name; e.g. "lin2"
	Func       ShpFunc     // shape/derivs function callback function
	BasicType  string      // geometry of basic element; e.g. "qua8" => "qua4"
	Gndim      int         // geometry of shape; e.g. "lin3" => gnd == 1 (even in 3D simulations)
	Nverts     int         // number of vertices in cell; e.g. "qua8" => 8
	Ncorners   int         // number of corner vertices; e.g. "qua8" => 4
	Simplex    bool        // natural domain is the unit simplex instead of [-1,1]^gndim
	NatCoords  [][]float64 // natural coordinates [gndim][nverts]
	DefaultNip int         // number of integration points of the default rule

	// edges (1D boundaries)
	EdgeType       string  // geometry of edge; e.g. "hex20" => "lin3"
	EdgeLocalVerts [][]int // edge local vertices [nedges][nVertsOnEdge]; ends first, then mid-node

	// faces (boundaries of dimension gndim-1). for 2D cells, faces == edges
	FaceType       string  // geometry of face; e.g. "qua8" => "lin3"
	FaceNvertsMax  int     // max number of vertices on face
	FaceLocalVerts [][]int // face local vertices [nfaces][...]; outward normal by right-hand rule

	// sub-shapes
	edge *Shape // private copy of the edge shape
	face *Shape // private copy of the face shape

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][gndim] G == dSdx. derivative of shape function
	J    float64     // Jacobian: determinant of dxdr
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][gndim] dRdx == inverse(dxdR)

	// scratchpad: line
	Jvec3d []float64 // Jacobian: norm of dxdr for line elements (size==3)
	Gvec   []float64 // [nverts] G == dSdx. derivative of shape function

	// scratchpad: face
	Sf     []float64   // [FaceNvertsMax] shape functions values
	Fnvec  []float64   // [gndim] face normal vector multiplied by Jf
	DSfdRf [][]float64 // [FaceNvertsMax][gndim-1] derivatives of Sf w.r.t natural coordinates
	DxfdRf [][]float64 // [gndim][gndim-1] derivatives of real coordinates w.r.t natural coordinates
}

// GetCopy returns a new copy of this shape structure
func (o Shape) GetCopy() *Shape {
	p := o
	p.NatCoords = tsr.Clone(o.NatCoords)
	p.EdgeLocalVerts = utl.IntClone(o.EdgeLocalVerts)
	p.FaceLocalVerts = utl.IntClone(o.FaceLocalVerts)
	if o.edge != nil {
		p.edge = o.edge.GetCopy()
	}
	if o.face != nil {
		p.face = o.face.GetCopy()
	}
	p.init_scratchpad()
	return &p
}

// Nedges returns the number of edges
func (o *Shape) Nedges() int { return len(o.EdgeLocalVerts) }

// Nfaces returns the number of faces
func (o *Shape) Nfaces() int { return len(o.FaceLocalVerts) }

// EvalN returns the shape functions at natural coordinates r (new slice)
func (o *Shape) EvalN(r []float64) (S []float64) {
	S = make([]float64, o.Nverts)
	o.Func(S, nil, r, false)
	return
}

// EvalDNdXi returns the derivatives of the shape functions w.r.t natural coordinates [nverts][gndim]
func (o *Shape) EvalDNdXi(r []float64) (dSdR [][]float64) {
	S := make([]float64, o.Nverts)
	dSdR = tsr.Alloc(o.Nverts, o.Gndim)
	o.Func(S, dSdR, r, true)
	return
}

// EvalDNdX returns the Jacobian determinant and the derivatives of the shape functions
// w.r.t real coordinates G[nverts][gndim] (new matrix). For lines, G[m][0] is the
// derivative w.r.t the arc-length
func (o *Shape) EvalDNdX(x [][]float64, r []float64) (det float64, G [][]float64, err error) {
	err = o.CalcAtIp(x, r, true)
	det = o.J
	if err != nil {
		return
	}
	G = tsr.Alloc(o.Nverts, o.Gndim)
	for m := 0; m < o.Nverts; m++ {
		if o.Gndim == 1 {
			G[m][0] = o.Gvec[m]
			continue
		}
		copy(G[m], o.G[m])
	}
	return
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	return o.Local2Global(x, ip)
}

// Local2Global returns the real coordinates y of the point with natural coordinates r
func (o *Shape) Local2Global(x [][]float64, r []float64) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, nil, r, false)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// CalcAtIp calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ip              -- integration point or natural coordinates
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, ip, derivs)
	if !derivs {
		return
	}

	if o.Gndim == 1 {
		// calculate Jvec3d == dxdR
		for i := 0; i < 3; i++ {
			o.Jvec3d[i] = 0.0
		}
		for i := 0; i < len(x); i++ {
			for m := 0; m < o.Nverts; m++ {
				o.Jvec3d[i] += x[i][m] * o.DSdR[m][0] // dxdR := x * dSdR
			}
		}

		// calculate J = norm of Jvec3d
		o.J = tsr.Norm(o.Jvec3d)
		if o.J <= MINDET {
			return fmt.Errorf("%s: line Jacobian = %g: %w", o.Type, o.J, ErrDegenerate)
		}

		// calculate G
		for m := 0; m < o.Nverts; m++ {
			o.Gvec[m] = o.DSdR[m][0] / o.J
		}
		return
	}

	if len(x) != o.Gndim {
		return chk.Err("%s: coordinates matrix must have %d rows; %d is invalid", o.Type, o.Gndim, len(x))
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	o.J = tsr.Det(o.DxdR)
	if o.J <= MINDET {
		return fmt.Errorf("%s: det(dxdR) = %g: %w", o.Type, o.J, ErrDegenerate)
	}
	if _, err = tsr.Inv(o.DRdx, o.DxdR, MINDET); err != nil {
		return fmt.Errorf("%s: %v: %w", o.Type, err, ErrDegenerate)
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dR_i := sum_i dS^m/dR_i * dR_i/dx_j
	tsr.MatMul(o.G, 1, o.DSdR, o.DRdx)
	return
}

// CalcAtFaceIp calculates face data such as Sf and Fnvec
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ipf             -- local/natural coordinates of face
//   idxface         -- local index of face
//  Output:
//   Sf and Fnvec
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {

	// skip 1D elements
	if o.Gndim == 1 {
		return
	}
	o.checkFace(idxface)

	// Sf and dSfdR
	o.face.Func(o.Sf, o.DSfdRf, ipf, true)

	// dxfdRf := sum_n x * dSfdRf   =>  dxf_i/dRf_j := sum_n xf^n_i * dSf^n/dRf_j
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim-1; j++ {
			o.DxfdRf[i][j] = 0.0
			for k, n := range o.FaceLocalVerts[idxface] {
				o.DxfdRf[i][j] += x[i][n] * o.DSfdRf[k][j]
			}
		}
	}

	// face normal vector
	if o.Gndim == 2 {
		o.Fnvec[0] = o.DxfdRf[1][0]
		o.Fnvec[1] = -o.DxfdRf[0][0]
		return
	}
	o.Fnvec[0] = o.DxfdRf[1][0]*o.DxfdRf[2][1] - o.DxfdRf[2][0]*o.DxfdRf[1][1]
	o.Fnvec[1] = o.DxfdRf[2][0]*o.DxfdRf[0][1] - o.DxfdRf[0][0]*o.DxfdRf[2][1]
	o.Fnvec[2] = o.DxfdRf[0][0]*o.DxfdRf[1][1] - o.DxfdRf[1][0]*o.DxfdRf[0][1]
	return
}

// init_scratchpad initialise volume data (scratchpad)
func (o *Shape) init_scratchpad() {

	// volume data
	o.S = make([]float64, o.Nverts)
	o.DSdR = tsr.Alloc(o.Nverts, o.Gndim)
	o.DxdR = tsr.Alloc(o.Gndim, o.Gndim)
	o.DRdx = tsr.Alloc(o.Gndim, o.Gndim)
	o.G = tsr.Alloc(o.Nverts, o.Gndim)

	// face data
	if o.Gndim > 1 {
		o.Sf = make([]float64, o.FaceNvertsMax)
		o.DSfdRf = tsr.Alloc(o.FaceNvertsMax, o.Gndim-1)
		o.DxfdRf = tsr.Alloc(o.Gndim, o.Gndim-1)
		o.Fnvec = make([]float64, o.Gndim)
	}

	// lin data
	if o.Gndim == 1 {
		o.Jvec3d = make([]float64, 3)
		o.Gvec = make([]float64, o.Nverts)
	}
}
