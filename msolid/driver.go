// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"
	"testing"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// PointGeometry is a Geometry with a fixed characteristic length
type PointGeometry struct {
	Id int     // cell id
	Le float64 // characteristic length in any direction
}

// CellId returns the cell id
func (o PointGeometry) CellId() int { return o.Id }

// CharLength returns Le
func (o PointGeometry) CharLength(r, dir []float64) float64 { return o.Le }

// Snapshot holds results after one step
type Snapshot struct {
	Time float64            `json:"time"`          // accumulated time
	Eps  []float64          `json:"eps"`           // strains
	Sig  []float64          `json:"sig"`           // stresses
	Out  map[string]float64 `json:"out,omitempty"` // internal variables if available
}

// Driver runs models along strain paths at a single point
type Driver struct {

	// input
	Mdl  Model     // solid model
	Mode tsr.Mode  // material mode
	Pt   *IntPoint // the point

	// settings
	TolD  float64 // tolerance to check consistent matrix; relative to max |D|
	StepD float64 // step size for numerical derivatives
	VerD  bool    // verbose check of D

	// check D matrix
	TstD *testing.T // if != nil, do check consistent matrix

	// results
	Res []*Snapshot // results
}

// Init initialises driver
func (o *Driver) Init(mdl Model, mode tsr.Mode, geo Geometry) (err error) {
	o.Mdl = mdl
	o.Mode = mode
	o.Pt = &IntPoint{Cell: geo, R: []float64{0, 0, 0}, W: 1, Mode: mode}
	o.TolD = 1e-6
	o.StepD = 1e-8
	o.VerD = chk.Verbose
	return mdl.InitIntVars(o.Pt)
}

// Run runs simulation. The trial state is discarded if a step fails
func (o *Driver) Run(pth *Path) (err error) {
	if err = pth.Check(o.Mode); err != nil {
		return
	}
	o.Res = make([]*Snapshot, 0, pth.Size()+1)
	o.Res = append(o.Res, &Snapshot{Eps: make([]float64, o.Mode.Size()), Sig: make([]float64, o.Mode.Size())})
	time := 0.0
	for k, ε := range pth.Eps {
		Δt := pth.Dt[k]
		σ, e := o.Mdl.EvaluateStress(o.Pt, ε, Δt)
		if e != nil {
			o.Pt.Rollback()
			return chk.Err("driver: step %d failed:\n%v", k, e)
		}
		if o.TstD != nil {
			if err = o.CheckD(o.TstD, ε, Δt); err != nil {
				o.Pt.Rollback()
				return
			}
		}
		snap := &Snapshot{Eps: append([]float64{}, ε...), Sig: σ}
		if out, ok := o.Mdl.(Outputer); ok {
			snap.Out = out.Outputs(o.Pt)
		}
		o.Pt.Commit()
		time += Δt
		snap.Time = time
		o.Res = append(o.Res, snap)
	}
	return
}

// CheckD compares the consistent tangent at the trial state with the numerical
// derivative of the stress update. The trial state is recomputed at ε afterwards
func (o *Driver) CheckD(tst *testing.T, ε []float64, Δt float64) (err error) {
	n := len(ε)
	Dana := tsr.Alloc(n, n)
	if err = o.Mdl.EvaluateTangent(Dana, o.Pt, Tangent, Δt); err != nil {
		return
	}
	var failed error
	J := mat.NewDense(n, n, nil)
	fd.Jacobian(J, func(σ, x []float64) {
		s, e := o.Mdl.EvaluateStress(o.Pt, x, Δt)
		if e != nil {
			failed = e
			return
		}
		copy(σ, s)
	}, ε, &fd.JacobianSettings{Formula: fd.Central, Step: o.StepD})
	if failed != nil {
		return failed
	}
	if _, err = o.Mdl.EvaluateStress(o.Pt, ε, Δt); err != nil {
		return
	}
	Dnum := tsr.Alloc(n, n)
	scale := 1.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			Dnum[i][j] = J.At(i, j)
			scale = math.Max(scale, math.Abs(Dana[i][j]))
		}
	}
	if o.VerD {
		io.Pforan("D(ana) = %v\nD(num) = %v\n", Dana, Dnum)
	}
	chk.Deep2(tst, io.Sf("D @ ε=%v", ε), o.TolD*scale, Dana, Dnum)
	return
}
