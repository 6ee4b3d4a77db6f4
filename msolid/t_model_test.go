// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

// newPoint returns a point in a cell with characteristic length Le
func newPoint(mode tsr.Mode, Le float64) *IntPoint {
	return &IntPoint{Cell: PointGeometry{Id: 7, Le: Le}, R: []float64{0, 0, 0}, W: 1, Mode: mode}
}

func Test_registry01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("registry01")

	reg := NewRegistry()
	names := reg.Names()
	io.Pforan("names = %v\n", names)
	assert.Equal(tst, []string{"isodamage", "kelvin-chain", "linelast", "masonry02", "mazars", "mps-damage"}, names)

	// every built-in model accepts its own example parameters
	for _, name := range names {
		mode := tsr.PlaneStrain
		if name == "masonry02" {
			mode = tsr.Interface2D
		}
		mdl, err := reg.New(name)
		require.NoError(tst, err)
		_, err = reg.Alloc(name, mode, mdl.GetPrms())
		assert.NoError(tst, err, name)
	}

	// duplicates and unknown names
	assert.Error(tst, reg.Register("linelast", func() Model { return new(LinElast) }))
	_, err := reg.New("nonlinear-elastic")
	assert.Error(tst, err)

	// bad parameters
	_, err = reg.Alloc("linelast", tsr.Mode3D, dbf.Params{&dbf.P{N: "nu", V: 0.2}})
	assert.ErrorIs(tst, err, ErrConfig)
	_, err = reg.Alloc("linelast", tsr.Mode3D, dbf.Params{&dbf.P{N: "E", V: 1}, &dbf.P{N: "nu", V: 0.5}})
	assert.ErrorIs(tst, err, ErrConfig)
	_, err = reg.Alloc("linelast", tsr.Interface2D, dbf.Params{&dbf.P{N: "E", V: 1}})
	assert.ErrorIs(tst, err, ErrConfig)
	_, err = reg.Alloc("masonry02", tsr.PlaneStress, new(Masonry02).GetPrms())
	assert.ErrorIs(tst, err, ErrConfig)
	_, err = reg.Alloc("linelast", tsr.Mode3D, dbf.Params{&dbf.P{N: "E", V: 1}, &dbf.P{N: "K", V: 1}})
	assert.Error(tst, err)

	// user models
	require.NoError(tst, reg.Register("elastic", func() Model { return new(LinElast) }))
	mdl, err := reg.Alloc("elastic", tsr.Mode1D, dbf.Params{&dbf.P{N: "E", V: 10}})
	require.NoError(tst, err)
	assert.Equal(tst, "linelast", mdl.Name())
}

func Test_elastic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elastic01. stiffness and compliance")

	E, ν := 1000.0, 0.25
	for _, m := range []tsr.Mode{tsr.Mode1D, tsr.PlaneStress, tsr.PlaneStrain, tsr.Mode3D} {
		n := m.Size()
		D, C, I := tsr.Alloc(n, n), tsr.Alloc(n, n), tsr.Alloc(n, n)
		ElasticD(D, m, E, ν)
		ElasticC(C, m, E, ν)
		tsr.MatMul(I, 1, D, C)
		if chk.Verbose {
			io.Pforan("%v: D = %v\n", m, D)
		}
		if m == tsr.PlaneStrain {
			continue // C is the inverse of the in-plane part only
		}
		Ie := tsr.Alloc(n, n)
		for i := 0; i < n; i++ {
			Ie[i][i] = 1
		}
		chk.Deep2(tst, m.String()+": D·C", 1e-13, I, Ie)
	}

	// plane stress: zero out-of-plane stress
	D3 := tsr.Alloc(6, 6)
	ElasticD(D3, tsr.Mode3D, E, ν)
	εxx, εyy := 1e-3, -2e-4
	εzz := tsr.ZzStrainPlaneStress(εxx, εyy, ν)
	σ := make([]float64, 6)
	tsr.MatVecMul(σ, 1, D3, []float64{εxx, εyy, εzz, 0, 0, 0})
	chk.Float64(tst, "σzz", 1e-13, σ[2], 0)
	Dps := tsr.Alloc(3, 3)
	ElasticD(Dps, tsr.PlaneStress, E, ν)
	σps := make([]float64, 3)
	tsr.MatVecMul(σps, 1, Dps, []float64{εxx, εyy, 0})
	chk.Array(tst, "σ(plane stress)", 1e-13, σps[:2], σ[:2])
}

func Test_linelast01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linelast01")

	var mdl LinElast
	require.NoError(tst, mdl.Init(tsr.PlaneStrain, mdl.GetPrms()))

	var drv Driver
	require.NoError(tst, drv.Init(&mdl, tsr.PlaneStrain, PointGeometry{Le: 1}))
	drv.TstD = tst
	var pth Path
	pth.Linear([]float64{1e-3, -2e-4, 0, 5e-4}, 3, 0)
	pth.Linear([]float64{0, 0, 0, 0}, 2, 0)
	require.NoError(tst, drv.Run(&pth))
	assert.Len(tst, drv.Res, 6)
	chk.Array(tst, "σ(end)", 1e-12, drv.Res[5].Sig, []float64{0, 0, 0, 0})

	// σzz = ν(σxx+σyy)
	s := drv.Res[3].Sig
	chk.Float64(tst, "σzz", 1e-9, s[2], mdl.Nu*(s[0]+s[1]))

	// mode and size mismatches
	pt := newPoint(tsr.PlaneStress, 1)
	_, err := mdl.EvaluateStress(pt, []float64{0, 0, 0}, 0)
	assert.ErrorIs(tst, err, ErrConfig)
	var ee *EvalError
	require.ErrorAs(tst, err, &ee)
	assert.Equal(tst, 7, ee.Cell)
	_, err = mdl.EvaluateStress(drv.Pt, []float64{0, 0, 0}, 0)
	assert.ErrorIs(tst, err, ErrConfig)

	// bad path
	pth.Add([]float64{0, 0}, 0)
	assert.Error(tst, drv.Run(&pth))
}
