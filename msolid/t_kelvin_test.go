// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"
	"testing"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_kelvin01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kelvin01. one unit without spring")

	var mdl KelvinChain
	require.NoError(tst, mdl.Init(tsr.Mode1D, dbf.Params{
		&dbf.P{N: "nUnits", V: 1},
		&dbf.P{N: "tau1", V: 1},
		&dbf.P{N: "Eunit", V: 1000},
		&dbf.P{N: "nu", V: 0.2},
	}))

	pt := newPoint(tsr.Mode1D, 1)
	σ, err := mdl.EvaluateStress(pt, []float64{1}, 1)
	require.NoError(tst, err)
	h, err := mdl.history(pt)
	require.NoError(tst, err)
	io.Pforan("σ = %v  hidden = %v\n", σ, h.Temp.Hidden)
	chk.Float64(tst, "σ", 1e-9, σ[0], 1000*math.E)
	chk.Float64(tst, "hidden", 1e-9, h.Temp.Hidden[0][0], (1-math.Exp(-1))*σ[0])
	chk.Float64(tst, "time", 1e-15, h.Temp.Time, 1)

	// tangent
	D := [][]float64{{0}}
	require.NoError(tst, mdl.EvaluateTangent(D, pt, Tangent, 1))
	chk.Float64(tst, "Einc", 1e-9, D[0][0], 1000*math.E)

	// zero time step without spring
	_, err = mdl.EvaluateStress(pt, []float64{1}, 0)
	assert.ErrorIs(tst, err, ErrConfig)
}

func Test_kelvin02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kelvin02. λμ and βμ")

	var mdl KelvinChain
	require.NoError(tst, mdl.Init(tsr.Mode3D, mdl.GetPrms()))
	chk.Array(tst, "τ", 1e-12, mdl.Tau, []float64{0.1, 1, 10, 100})

	exact := func(x float64) float64 { return -math.Expm1(-x) / x }
	for _, x := range []float64{1e-8, 1e-6, 9.99e-6, 1e-5, 0.3, 1, 29.9, 30, 30.1, 100} {
		Δt := x * mdl.Tau[1]
		λ := mdl.LambdaMu(Δt, 1)
		if chk.Verbose {
			io.Pforan("x = %8g  λ = %v  exact = %v\n", x, λ, exact(x))
		}
		chk.Float64(tst, io.Sf("λ(%g)", x), 1e-12, λ, exact(x))
		if x <= 30 {
			chk.Float64(tst, io.Sf("β(%g)", x), 1e-15, mdl.BetaMu(Δt, 1), math.Exp(-x))
		} else {
			chk.Float64(tst, io.Sf("β(%g)", x), 1e-15, mdl.BetaMu(Δt, 1), 0)
		}
	}

	// unit overrides
	require.NoError(tst, mdl.Init(tsr.Mode3D, dbf.Params{
		&dbf.P{N: "nUnits", V: 2},
		&dbf.P{N: "tau1", V: 1},
		&dbf.P{N: "tau2", V: 5},
		&dbf.P{N: "E1", V: 10},
		&dbf.P{N: "E2", V: 20},
		&dbf.P{N: "nu", V: 0.2},
	}))
	chk.Array(tst, "τ", 1e-15, mdl.Tau, []float64{1, 5})
	chk.Array(tst, "Eμ", 1e-15, mdl.Emu, []float64{10, 20})

	// bad parameters
	bad := []dbf.Params{
		{&dbf.P{N: "nUnits", V: 0}, &dbf.P{N: "tau1", V: 1}, &dbf.P{N: "Eunit", V: 1}, &dbf.P{N: "nu", V: 0.2}},
		{&dbf.P{N: "nUnits", V: 1}, &dbf.P{N: "tau1", V: 1}, &dbf.P{N: "Eunit", V: 1}},
		{&dbf.P{N: "nUnits", V: 1}, &dbf.P{N: "Eunit", V: 1}, &dbf.P{N: "nu", V: 0.2}},
		{&dbf.P{N: "nUnits", V: 1}, &dbf.P{N: "tau1", V: 1}, &dbf.P{N: "nu", V: 0.2}},
		{&dbf.P{N: "nUnits", V: 1}, &dbf.P{N: "tau1", V: 1}, &dbf.P{N: "Eunit", V: 1}, &dbf.P{N: "nu", V: 0.2}, &dbf.P{N: "tau3", V: 1}},
	}
	for i, prms := range bad {
		var m KelvinChain
		assert.ErrorIs(tst, m.Init(tsr.Mode3D, prms), ErrConfig, "case %d", i)
	}
	var m KelvinChain
	assert.Error(tst, m.Init(tsr.Mode3D, dbf.Params{&dbf.P{N: "ft", V: 1}}))
}

func Test_kelvin03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kelvin03. relaxation")

	Einf, E1 := 2000.0, 1000.0
	var mdl KelvinChain
	require.NoError(tst, mdl.Init(tsr.Mode1D, dbf.Params{
		&dbf.P{N: "nUnits", V: 1},
		&dbf.P{N: "tau1", V: 1},
		&dbf.P{N: "Eunit", V: E1},
		&dbf.P{N: "Einf", V: Einf},
		&dbf.P{N: "nu", V: 0.2},
	}))

	var drv Driver
	require.NoError(tst, drv.Init(&mdl, tsr.Mode1D, PointGeometry{Le: 1}))
	var pth Path
	pth.Add([]float64{1e-3}, 1e-3)
	for i := 0; i < 1000; i++ {
		pth.Add([]float64{1e-3}, 0.05)
	}
	require.NoError(tst, drv.Run(&pth))

	σ0 := drv.Res[1].Sig[0]
	σf := drv.Res[len(drv.Res)-1].Sig[0]
	io.Pforan("σ0 = %v  σf = %v\n", σ0, σf)
	assert.InDelta(tst, Einf*1e-3, σ0, 0.01)
	chk.Float64(tst, "σ(∞)", 1e-3, σf, 1e-3/(1/Einf+1/E1))
	for i := 2; i < len(drv.Res); i++ {
		assert.True(tst, drv.Res[i].Sig[0] <= drv.Res[i-1].Sig[0]+1e-12, "stress must relax")
	}
}

func Test_kelvin04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kelvin04. consistent tangent and casting time")

	var mdl KelvinChain
	prms := append(mdl.GetPrms(), &dbf.P{N: "castingTime", V: 0.15})
	require.NoError(tst, mdl.Init(tsr.Mode3D, prms))

	var drv Driver
	require.NoError(tst, drv.Init(&mdl, tsr.Mode3D, PointGeometry{Le: 1}))
	var pth Path
	pth.Add([]float64{1e-4, 0, 0, 0, 0, 0}, 0.1)
	pth.Linear([]float64{2e-4, -1e-4, 0, 5e-5, 0, 1e-4}, 4, 0.1)
	require.NoError(tst, drv.Run(&pth))
	chk.Array(tst, "σ before casting", 1e-17, drv.Res[1].Sig, []float64{0, 0, 0, 0, 0, 0})

	drv.TstD = tst
	drv.TolD = 1e-6
	require.NoError(tst, drv.Run(&pth))
}
