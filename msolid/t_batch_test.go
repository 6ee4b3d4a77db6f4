// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"context"
	"errors"
	"testing"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchPoints(tst *testing.T, mdl Model, n int) (pts []*IntPoint, strains [][]float64) {
	pts = make([]*IntPoint, n)
	strains = make([][]float64, n)
	for i := 0; i < n; i++ {
		pts[i] = &IntPoint{Cell: PointGeometry{Id: i, Le: 0.05 + 0.01*float64(i%7)}, R: []float64{0, 0, 0}, W: 1, Mode: tsr.PlaneStrain}
		require.NoError(tst, mdl.InitIntVars(pts[i]))
		a := 5e-5 * float64(1+i%9)
		strains[i] = []float64{a, -0.2 * a, 0, 0.5 * a * float64(i%3-1)}
	}
	return
}

func Test_batch01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("batch01. concurrent evaluation")

	reg := NewRegistry()
	mdl, err := reg.Alloc("isodamage", tsr.PlaneStrain, IsoDamage{}.GetPrms())
	require.NoError(tst, err)

	n := 200
	pts, strains := batchPoints(tst, mdl, n)
	seq, _ := batchPoints(tst, mdl, n)

	// sequential reference
	ref := make([][]float64, n)
	Dref := make([][][]float64, n)
	for i := 0; i < n; i++ {
		ref[i], err = mdl.EvaluateStress(seq[i], strains[i], 1)
		require.NoError(tst, err)
		Dref[i] = tsr.Alloc(4, 4)
		require.NoError(tst, mdl.EvaluateTangent(Dref[i], seq[i], Secant, 1))
	}

	// concurrent
	b := &Batch{Model: mdl, Points: pts}
	for _, nw := range []int{0, 1, 3, 16} {
		σ, err := b.Evaluate(context.Background(), strains, 1, nw)
		require.NoError(tst, err)
		io.Pforan("nworkers = %2d: σ[8] = %v\n", nw, σ[8])
		assert.Equal(tst, ref, σ)

		D := make([][][]float64, n)
		for i := range D {
			D[i] = tsr.Alloc(4, 4)
		}
		require.NoError(tst, b.Tangents(context.Background(), D, Secant, 1, nw))
		assert.Equal(tst, Dref, D)
	}

	// some points are damaged
	ndam := 0
	for _, p := range pts {
		if mdl.(Outputer).Outputs(p)["damage"] > 0 {
			ndam++
		}
	}
	io.Pforan("ndam = %d\n", ndam)
	assert.True(tst, ndam > 0 && ndam < n)

	// rollback and commit
	b.RollbackAll()
	for _, p := range pts {
		assert.Equal(tst, 0.0, mdl.(Outputer).Outputs(p)["kappa"])
	}
	_, err = b.Evaluate(context.Background(), strains, 1, 4)
	require.NoError(tst, err)
	b.CommitAll()
	b.RollbackAll()
	for i, p := range pts {
		assert.Equal(tst, mdl.(Outputer).Outputs(seq[i])["kappa"], mdl.(Outputer).Outputs(p)["kappa"])
	}
}

func Test_batch02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("batch02. errors and cancellation")

	mdl := new(LinElast)
	require.NoError(tst, mdl.Init(tsr.PlaneStrain, mdl.GetPrms()))
	pts, strains := batchPoints(tst, mdl, 50)
	b := &Batch{Model: mdl, Points: pts}

	// cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Evaluate(ctx, strains, 1, 4)
	assert.ErrorIs(tst, err, context.Canceled)
	D := make([][][]float64, len(pts))
	for i := range D {
		D[i] = tsr.Alloc(4, 4)
	}
	assert.ErrorIs(tst, b.Tangents(ctx, D, Elastic, 1, 4), context.Canceled)

	// wrong sizes
	_, err = b.Evaluate(context.Background(), strains[:3], 1, 4)
	assert.Error(tst, err)
	assert.Error(tst, b.Tangents(context.Background(), D[:3], Elastic, 1, 4))

	// failure at one point
	strains[13] = []float64{1e-3, 0}
	σ, err := b.Evaluate(context.Background(), strains, 1, 4)
	assert.Nil(tst, σ)
	var ee *EvalError
	require.True(tst, errors.As(err, &ee))
	assert.Equal(tst, 13, ee.Cell)
}
