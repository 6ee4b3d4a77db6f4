// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path"
	"testing"

	"github.com/cpmech/femcore/msolid"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_loccmdrv01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("loccmdrv01")

	in, err := readInput("data/mazars.hjson")
	require.NoError(tst, err)
	assert.Equal(tst, "mazars", in.Model)
	assert.Len(tst, in.Prms, 7)
	chk.Float64(tst, "E", 1e-15, in.Prms[0].V, 30e9)

	mode, err := tsr.ParseMode(in.Mode)
	require.NoError(tst, err)
	mdl, err := msolid.NewRegistry().Alloc(in.Model, mode, in.Prms)
	require.NoError(tst, err)

	var pth msolid.Path
	require.NoError(tst, pth.ReadJson(mode, path.Join(in.Dir, in.PathFn)))
	assert.Equal(tst, 35, pth.Size())
	var bad msolid.Path
	assert.Error(tst, bad.ReadJson(mode, path.Join(in.Dir, "missing.json")))

	var drv msolid.Driver
	require.NoError(tst, drv.Init(mdl, mode, msolid.PointGeometry{Le: in.Le}))
	require.NoError(tst, drv.Run(&pth))
	assert.Len(tst, drv.Res, 36)
	last := drv.Res[len(drv.Res)-1]
	assert.True(tst, drv.Res[10].Out["damage"] > 0)
	assert.True(tst, last.Out["damage"] >= drv.Res[10].Out["damage"])
	chk.Array(tst, "σ(unloaded)", 1e-6, drv.Res[15].Sig, []float64{0, 0, 0, 0, 0, 0})
	assert.True(tst, last.Sig[0] < 0)

	_, err = readInput("data/missing.hjson")
	assert.Error(tst, err)
}
