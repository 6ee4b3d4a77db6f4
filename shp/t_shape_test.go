// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

// interiorPoints returns a few natural coordinates inside the reference domain
func interiorPoints(s *Shape) [][]float64 {
	if s.Simplex {
		return [][]float64{{0.2, 0.3, 0.1}, {0.05, 0.1, 0.7}, {0.25, 0.25, 0.25}, {0.6, 0.1, 0.05}}
	}
	return [][]float64{{0.3, -0.4, 0.5}, {-0.9, 0.8, -0.2}, {0, 0, 0}, {0.55, 0.15, -0.75}}
}

// distorted returns the coordinates of a distorted (but valid) cell
func distorted(s *Shape) (x [][]float64) {
	A := [][]float64{{2, 0.3, 0.1}, {0.2, 1.5, 0}, {0, 0.1, 1}}
	ndim := s.Gndim
	if ndim == 1 {
		ndim = 2
	}
	x = tsr.Alloc(ndim, s.Nverts)
	for m := 0; m < s.Nverts; m++ {
		for i := 0; i < ndim; i++ {
			x[i][m] = 1.0 + float64(i)
			for j := 0; j < s.Gndim; j++ {
				x[i][m] += A[i][j] * s.NatCoords[j][m]
			}
		}
		x[0][m] += 0.05 * s.NatCoords[0][m] * s.NatCoords[s.Gndim-1][m]
	}
	return
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01")

	fac := NewFactory()
	for _, name := range fac.Names() {
		shape := fac.Get(name, 0)
		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)

		// Kronecker delta
		CheckShape(tst, shape, 1e-14, chk.Verbose)

		// partition of unity
		for _, r := range interiorPoints(shape) {
			CheckUnity(tst, shape, r, 1e-12)
		}

		// edges and faces
		CheckSubShapes(tst, shape, 1e-14, chk.Verbose)

		// dSdR
		for _, r := range interiorPoints(shape) {
			CheckDSdR(tst, shape, r, 1e-9, chk.Verbose)
		}
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02")

	fac := NewFactory()
	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	r := []float64{0, 0, 0}
	shape := fac.Get("qua4", 0)
	require.NoError(tst, shape.CalcAtIp(xmat, r, true))
	io.Pforan("J = %v\n", shape.J)
	chk.Float64(tst, "J", 1e-15, shape.J, (dx/dr)*(dy/ds))
	chk.Float64(tst, "edge 0: jac", 1e-15, shape.EdgeJacobian(xmat, 0, 0.3), dx/dr)
	chk.Float64(tst, "edge 1: jac", 1e-15, shape.EdgeJacobian(xmat, 1, 0.3), dy/ds)
	chk.Array(tst, "edge 2: y(u=-1)", 1e-15, shape.EdgeLocal2Global(xmat, 2, -1), []float64{13, 9})
	chk.Float64(tst, "char length", 1e-15, shape.CharLength(xmat), math.Sqrt(10))

	CheckDSdx(tst, shape, xmat, []float64{12.0, 8.5}, 1e-8, chk.Verbose)

	// affine tetrahedron and box
	CheckDSdx(tst, fac.Get("tet4", 0), [][]float64{
		{0, 2, 0, 0.5},
		{0, 0, 3, 0.5},
		{0, 0, 0, 1},
	}, []float64{0.5, 0.6, 0.2}, 1e-8, chk.Verbose)
	hex := fac.Get("hex8", 0)
	box := tsr.Alloc(3, 8)
	for m := 0; m < 8; m++ {
		box[0][m] = 2 * hex.NatCoords[0][m]
		box[1][m] = 1 + hex.NatCoords[1][m]
		box[2][m] = 0.5 * hex.NatCoords[2][m]
	}
	CheckDSdx(tst, hex, box, []float64{0.3, 1.2, -0.1}, 1e-8, chk.Verbose)
	det, _, err := hex.EvalDNdX(box, []float64{0.1, 0.2, 0.3})
	require.NoError(tst, err)
	chk.Float64(tst, "hex8: det", 1e-15, det, 2*1*0.5)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. degenerate cells")

	fac := NewFactory()
	for _, name := range []string{"hex8", "hex20", "hex27"} {
		shape := fac.Get(name, 0)

		// flat hexahedron: all vertices on z = 0
		flat := tsr.Alloc(3, shape.Nverts)
		for m := 0; m < shape.Nverts; m++ {
			flat[0][m] = shape.NatCoords[0][m]
			flat[1][m] = shape.NatCoords[1][m]
		}
		det, G, err := shape.EvalDNdX(flat, []float64{0.1, 0.2, 0.3})
		io.Pforan("%s: det = %v, err = %v\n", name, det, err)
		assert.ErrorIs(tst, err, ErrDegenerate)
		assert.Nil(tst, G)
		assert.False(tst, math.IsNaN(det))
		assert.True(tst, det <= 0)

		// mirrored hexahedron: negative Jacobian
		mirror := tsr.Clone(shape.NatCoords)
		for m := 0; m < shape.Nverts; m++ {
			mirror[2][m] = -mirror[2][m]
		}
		det, _, err = shape.EvalDNdX(mirror, []float64{0, 0, 0})
		assert.ErrorIs(tst, err, ErrDegenerate)
		chk.Float64(tst, "det(mirror)", 1e-14, det, -1)
	}

	// zero-length line
	_, _, err := fac.Get("lin2", 0).EvalDNdX([][]float64{{1, 1}, {2, 2}}, []float64{0})
	assert.ErrorIs(tst, err, ErrDegenerate)
}

func Test_shape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape04. inverse mapping")

	fac := NewFactory()
	for _, name := range fac.Names() {
		shape := fac.Get(name, 0)
		x := distorted(shape)
		for _, ξ := range interiorPoints(shape) {
			y := shape.Local2Global(x, ξ)
			r, inside := shape.Global2Local(x, y)
			if chk.Verbose {
				io.Pforan("%6s: ξ = %v  r = %v\n", name, ξ[:shape.Gndim], r[:shape.Gndim])
			}
			assert.True(tst, inside, "%s: point must be inside", name)
			chk.Array(tst, name+": r", 1e-5, r[:shape.Gndim], ξ[:shape.Gndim])
		}
	}

	// outside points are clamped
	hex := fac.Get("hex8", 0)
	r, inside := hex.Global2Local(hex.NatCoords, []float64{5, 0, 0})
	assert.False(tst, inside)
	chk.Array(tst, "hex8: clamped", 1e-12, r, []float64{1, 0, 0})

	tri := fac.Get("tri3", 0)
	r, inside = tri.Global2Local(tri.NatCoords, []float64{1, 1})
	assert.False(tst, inside)
	chk.Array(tst, "tri3: clamped", 1e-12, r[:2], []float64{0.5, 0.5})

	// slightly outside points are accepted
	r, inside = hex.Global2Local(hex.NatCoords, []float64{1.0005, 0, 0})
	assert.True(tst, inside)
	chk.Float64(tst, "hex8: r0", 1e-12, r[0], 1.0005)
	chk.Float64(tst, "bry dist", 1e-12, hex.CellBryDist(r), -0.0005)
}

func Test_shape05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape05. face normals")

	fac := NewFactory()
	for _, name := range fac.Names() {
		shape := fac.Get(name, 0)
		if shape.Gndim == 1 {
			continue
		}
		x := shape.NatCoords
		xc := shape.Local2Global(x, shape.Centroid())
		rfc := []float64{0, 0}
		if shape.face.Simplex {
			rfc = []float64{1.0 / 3.0, 1.0 / 3.0}
		}
		for f := 0; f < shape.Nfaces(); f++ {
			n, jac := shape.FaceNormal(x, f, rfc)
			yc := shape.FaceLocal2Global(x, f, rfc)
			d := 0.0
			for i := range n {
				d += n[i] * (yc[i] - xc[i])
			}
			if chk.Verbose {
				io.Pforan("%6s: face %d: n = %v jac = %v\n", name, f, n, jac)
			}
			assert.True(tst, d > 0, "%s: normal of face %d must point outwards", name, f)
			assert.True(tst, jac > 0)
			chk.Float64(tst, "|n|", 1e-15, tsr.Norm(n), 1)
		}
	}

	// unit cube [0,2]³: face Jacobian == area/4 == 1
	hex := fac.Get("hex20", 0)
	x := tsr.Clone(hex.NatCoords)
	for i := range x {
		for m := range x[i] {
			x[i][m] += 1
		}
	}
	for f := 0; f < 6; f++ {
		_, jac := hex.FaceNormal(x, f, []float64{0.2, -0.3})
		chk.Float64(tst, "hex20: face jac", 1e-14, jac, 1)
	}
}

func Test_shape06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape06. extrapolation")

	fac := NewFactory()
	field := func(r []float64) float64 { return 1 + 2*r[0] - 3*r[1] + 0.5*r[2] }
	for _, c := range []struct {
		name string
		nip  int
	}{{"qua4", 4}, {"qua8", 4}, {"qua8", 9}, {"tri3", 3}, {"tri6", 3}, {"hex8", 8}, {"hex20", 8}} {
		shape := fac.Get(c.name, 0)
		ips, err := fac.GetIps(c.name, c.nip)
		require.NoError(tst, err)
		E := tsr.Alloc(shape.Nverts, len(ips))
		require.NoError(tst, shape.Extrapolator(E, ips))
		fip := make([]float64, len(ips))
		for i, ip := range ips {
			r := []float64{ip[0], ip[1], 0}
			if shape.Gndim == 3 {
				r[2] = ip[2]
			}
			fip[i] = field(r)
		}
		fnod := make([]float64, shape.Nverts)
		tsr.MatVecMul(fnod, 1, E, fip)
		for m := 0; m < shape.Nverts; m++ {
			r := []float64{shape.NatCoords[0][m], shape.NatCoords[1][m], 0}
			if shape.Gndim == 3 {
				r[2] = shape.NatCoords[2][m]
			}
			chk.Float64(tst, io.Sf("%s(nip=%d): f@%d", c.name, c.nip, m), 1e-10, fnod[m], field(r))
		}
	}
}

func Test_shape07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape07. projection onto lines and surfaces")

	fac := NewFactory()

	lin := fac.Get("lin2", 0)
	r, inside := lin.Global2Local([][]float64{{0, 4}, {0, 0}}, []float64{1, 2})
	assert.True(tst, inside)
	chk.Float64(tst, "lin2: r", 1e-12, r[0], -0.5)

	qua := fac.Get("qua4", 0)
	x := [][]float64{{0, 2, 2, 0}, {0, 0, 2, 2}, {0, 0, 0, 0}}
	r, inside = qua.Global2Local(x, []float64{1.5, 0.5, 3})
	assert.True(tst, inside)
	chk.Array(tst, "qua4: r", 1e-12, r[:2], []float64{0.5, -0.5})

	r, inside = qua.Global2Local(x, []float64{3, 1, -1})
	assert.False(tst, inside)
	chk.Array(tst, "qua4: clamped", 1e-12, r[:2], []float64{1, 0})
}
