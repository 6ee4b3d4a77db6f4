// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ipoints01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ipoints01")

	fac := NewFactory()
	volumes := map[string]float64{"lin2": 2, "qua4": 4, "hex8": 8, "tri3": 0.5, "tet4": 1.0 / 6.0}
	nips := map[string][]int{
		"lin2": {1, 2, 3, 4, 5},
		"qua4": {1, 4, 9, 16, 25},
		"hex8": {1, 8, 27, 64, 125},
		"tri3": {1, 3, 6, 7},
		"tet4": {1, 4, 5},
	}
	for _, name := range fac.Names() {
		shape := fac.Get(name, 0)
		for _, nip := range nips[shape.BasicType] {
			ips, err := fac.GetIps(name, nip)
			require.NoError(tst, err)
			chk.Int(tst, name+": nip", len(ips), nip)
			sum := 0.0
			for _, ip := range ips {
				sum += ip.W()
			}
			chk.Float64(tst, io.Sf("%s(%d): Σw", name, nip), 1e-14, sum, volumes[shape.BasicType])
		}
		ips, err := fac.GetIps(name, 0)
		require.NoError(tst, err)
		chk.Int(tst, name+": default nip", len(ips), shape.DefaultNip)
	}

	_, err := fac.GetIps("tri6", 2)
	assert.Error(tst, err)
	_, err = fac.GetIps("pyr5", 1)
	assert.Error(tst, err)
}

func Test_ipoints02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ipoints02. exactness")

	fac := NewFactory()
	integrate := func(name string, nip int, f func(r []float64) float64) (res float64) {
		ips, err := fac.GetIps(name, nip)
		require.NoError(tst, err)
		for _, ip := range ips {
			res += f(ip) * ip.W()
		}
		return
	}

	// ∫ ξ⁴ dξ over [-1,1] with 3 points
	chk.Float64(tst, "lin", 1e-14, integrate("lin2", 3, func(r []float64) float64 { return r[0] * r[0] * r[0] * r[0] }), 0.4)

	// ∫∫ ξ²η² over [-1,1]²
	chk.Float64(tst, "qua", 1e-14, integrate("qua4", 4, func(r []float64) float64 { return r[0] * r[0] * r[1] * r[1] }), 4.0/9.0)

	// ∫∫∫ (ξ+1)ζ² over [-1,1]³
	chk.Float64(tst, "hex", 1e-14, integrate("hex8", 8, func(r []float64) float64 { return (r[0] + 1) * r[2] * r[2] }), 8.0/3.0)

	// ∫∫ r² over unit triangle == 1/12
	for _, nip := range []int{3, 6, 7} {
		chk.Float64(tst, "tri", 1e-13, integrate("tri3", nip, func(r []float64) float64 { return r[0] * r[0] }), 1.0/12.0)
	}

	// ∫∫ r²s² over unit triangle == 1/180
	for _, nip := range []int{6, 7} {
		chk.Float64(tst, "tri deg4", 1e-13, integrate("tri3", nip, func(r []float64) float64 { return r[0] * r[0] * r[1] * r[1] }), 1.0/180.0)
	}

	// ∫∫∫ r over unit tetrahedron == 1/24; ∫∫∫ r·s == 1/120
	for _, nip := range []int{1, 4, 5} {
		chk.Float64(tst, "tet", 1e-14, integrate("tet4", nip, func(r []float64) float64 { return r[0] }), 1.0/24.0)
	}
	for _, nip := range []int{4, 5} {
		chk.Float64(tst, "tet deg2", 1e-14, integrate("tet4", nip, func(r []float64) float64 { return r[0] * r[1] }), 1.0/120.0)
	}
}
