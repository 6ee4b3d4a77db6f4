// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements the geometric cells that own integration points
package ele

import (
	"fmt"
	"math"
	"sync"

	"github.com/cpmech/femcore/msolid"
	"github.com/cpmech/femcore/shp"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
)

// Cell holds the geometry of one element
//  Note: interface cells hold the bottom vertices followed by the top vertices;
//        Shape describes the mid-surface
type Cell struct {
	Id    int         // cell id
	Type  string      // geometry type; e.g. "hex8"
	Shape *shp.Shape  // private copy of shape structure
	X     [][]float64 // vertex coordinates [ndim][nverts] (or [ndim][2*nverts] for interfaces)
	Caps  CapSet      // capabilities

	// derived
	fac *shp.Factory // factory used to get integration rules
	xm  [][]float64  // coordinates used by the shape: X or mid-surface of interfaces
	ips []shp.Ipoint // default integration points

	// cached measures
	vol    float64
	volErr error
	size   float64

	// extrapolation matrix [nverts][nip]; built once on first use
	extOnce sync.Once
	ext     [][]float64
	extErr  error
}

// NewCell allocates a new cell
func NewCell(fac *shp.Factory, id int, geoType string, X [][]float64, caps ...Capability) (o *Cell, err error) {
	o = &Cell{Id: id, Type: geoType, X: X, Caps: NewCapSet(caps...), fac: fac}
	o.Shape = fac.Get(geoType, id+1)
	if o.Shape == nil {
		return nil, chk.Err("cell %d: cannot find shape %q", id, geoType)
	}
	ndim := len(X)
	if ndim < 1 || ndim > 3 || ndim < o.Shape.Gndim {
		return nil, chk.Err("cell %d: %d coordinates are invalid for %q", id, ndim, geoType)
	}
	nv := o.Shape.Nverts
	if o.Caps.Has(CapInterface) {
		nv *= 2
		if o.Shape.Gndim != ndim-1 {
			return nil, chk.Err("cell %d: interface mid-surface %q must have dimension %d", id, geoType, ndim-1)
		}
	} else if o.Shape.Gndim > 1 && o.Shape.Gndim != ndim {
		return nil, chk.Err("cell %d: %q requires %d coordinates", id, geoType, o.Shape.Gndim)
	}
	for i := 0; i < ndim; i++ {
		if len(X[i]) != nv {
			return nil, chk.Err("cell %d: %q requires %d vertices; %d is invalid", id, geoType, nv, len(X[i]))
		}
	}
	o.xm = X
	if o.Caps.Has(CapInterface) {
		n := o.Shape.Nverts
		o.xm = tsr.Alloc(ndim, n)
		for i := 0; i < ndim; i++ {
			for m := 0; m < n; m++ {
				o.xm[i][m] = (X[i][m] + X[i][n+m]) / 2.0
			}
		}
	}
	if o.ips, err = fac.GetIps(geoType, 0); err != nil {
		return nil, err
	}
	o.measure()
	return
}

// CellId returns the cell id
func (o *Cell) CellId() int { return o.Id }

// Ndim returns the space dimension
func (o *Cell) Ndim() int { return len(o.X) }

// VertexCoords returns the coordinates of vertex i
func (o *Cell) VertexCoords(i int) (x []float64) {
	x = make([]float64, len(o.X))
	for k := range o.X {
		x[k] = o.X[k][i]
	}
	return
}

// DetJ returns the measure of the isoparametric mapping at r: volume (gndim == ndim),
// line length or surface area scale
//  Note: only local buffers are used; cells are shared by integration points
//        evaluated concurrently
func (o *Cell) DetJ(r []float64) (J float64, err error) {
	s := o.Shape
	ndim := len(o.xm)
	dSdR := s.EvalDNdXi(r)
	dxdR := tsr.Alloc(ndim, s.Gndim)
	for i := 0; i < ndim; i++ {
		for j := 0; j < s.Gndim; j++ {
			for m := 0; m < s.Nverts; m++ {
				dxdR[i][j] += o.xm[i][m] * dSdR[m][j]
			}
		}
	}
	switch {
	case s.Gndim == ndim:
		J = tsr.Det(dxdR)
	case s.Gndim == 1:
		t := make([]float64, ndim)
		for i := 0; i < ndim; i++ {
			t[i] = dxdR[i][0]
		}
		J = tsr.Norm(t)
	default: // surface in 3D
		a := []float64{dxdR[0][0], dxdR[1][0], dxdR[2][0]}
		b := []float64{dxdR[0][1], dxdR[1][1], dxdR[2][1]}
		n := make([]float64, 3)
		tsr.Cross3(n, a, b)
		J = tsr.Norm(n)
	}
	if J <= shp.MINDET {
		return J, fmt.Errorf("cell %d: det(dx/dR) = %g: %w", o.Id, J, shp.ErrDegenerate)
	}
	return
}

// Volume returns the volume (area, length) of the cell computed by quadrature
func (o *Cell) Volume() (float64, error) {
	return o.vol, o.volErr
}

// Size returns a size measure: |V|^(1/gndim)
func (o *Cell) Size() float64 {
	return o.size
}

// measure computes the cached volume and size
func (o *Cell) measure() {
	for _, ip := range o.ips {
		J, err := o.DetJ(ip)
		if err != nil {
			o.vol, o.volErr = 0, err
			return
		}
		o.vol += J * ip.W()
	}
	o.size = math.Pow(o.vol, 1.0/float64(o.Shape.Gndim))
}

// CharLength returns the characteristic length of the cell. With CapCrackBand and a
// non-nil direction, this is the extent of the vertices projected on dir
// (crack-band length); otherwise, or if dir is normal to the cell, the size
// measure is returned
func (o *Cell) CharLength(r, dir []float64) float64 {
	if dir == nil || !o.Caps.Has(CapCrackBand) {
		return o.Size()
	}
	lmin, lmax := math.Inf(1), math.Inf(-1)
	for m := 0; m < o.Shape.Nverts; m++ {
		p := 0.0
		for i := 0; i < len(o.xm) && i < len(dir); i++ {
			p += o.xm[i][m] * dir[i]
		}
		lmin = math.Min(lmin, p)
		lmax = math.Max(lmax, p)
	}
	l := (lmax - lmin) / math.Max(tsr.Norm(dir), shp.MINDET)
	if l <= shp.MINDET {
		return o.Size() // dir is normal to the cell; e.g. z in 2D
	}
	return l
}

// Locate returns the natural coordinates of the real point y
func (o *Cell) Locate(y []float64) (r []float64, inside bool) {
	return o.Shape.Global2Local(o.xm, y)
}

// Extrapolate extrapolates the values at the default integration points to the vertices
func (o *Cell) Extrapolate(ipvals []float64) (nodvals []float64, err error) {
	if len(ipvals) != len(o.ips) {
		return nil, chk.Err("cell %d: %d values are required; %d is invalid", o.Id, len(o.ips), len(ipvals))
	}
	o.extOnce.Do(func() {
		E := tsr.Alloc(o.Shape.Nverts, len(o.ips))
		if o.extErr = o.Shape.Extrapolator(E, o.ips); o.extErr == nil {
			o.ext = E
		}
	})
	if o.extErr != nil {
		return nil, fmt.Errorf("cell %d: %w", o.Id, o.extErr)
	}
	nodvals = make([]float64, o.Shape.Nverts)
	tsr.MatVecMul(nodvals, 1, o.ext, ipvals)
	return
}

// Frame returns the local system of an interface cell at r
func (o *Cell) Frame(r []float64) (*Frame, error) {
	if !o.Caps.Has(CapInterface) {
		return nil, chk.Err("cell %d is not an interface", o.Id)
	}
	if len(o.xm) == 2 {
		dSdR := o.Shape.EvalDNdXi(r)
		t := make([]float64, 2)
		for i := 0; i < 2; i++ {
			for m := 0; m < o.Shape.Nverts; m++ {
				t[i] += o.xm[i][m] * dSdR[m][0]
			}
		}
		return LineInterfaceFrame(t)
	}
	return TriInterfaceFrame(o.xm)
}

// Jump returns the displacement jump (top minus bottom) in the local system of an
// interface cell: [n, s] in 2D and [n, s1, s2] in 3D
//  u -- displacements [ndim][2*nverts]
func (o *Cell) Jump(r []float64, u [][]float64) ([]float64, error) {
	f, err := o.Frame(r)
	if err != nil {
		return nil, err
	}
	n := o.Shape.Nverts
	N := o.Shape.EvalN(r)
	Δ := make([]float64, len(u))
	for i := range u {
		for m := 0; m < n; m++ {
			Δ[i] += N[m] * (u[i][n+m] - u[i][m])
		}
	}
	return f.ToLocal(Δ), nil
}

// IntPoints allocates the integration points of this cell. nip == 0 selects the default rule
func (o *Cell) IntPoints(nip int, mode tsr.Mode) (pts []*msolid.IntPoint, err error) {
	if mode.IsInterface() != o.Caps.Has(CapInterface) {
		return nil, chk.Err("cell %d: material mode %q is incompatible with capabilities %v", o.Id, mode, o.Caps)
	}
	ips, err := o.fac.GetIps(o.Type, nip)
	if err != nil {
		return
	}
	pts = make([]*msolid.IntPoint, len(ips))
	for k, ip := range ips {
		pts[k] = &msolid.IntPoint{Cell: o, Id: k, R: []float64{ip[0], ip[1], ip[2]}, W: ip.W(), Mode: mode}
	}
	return
}
