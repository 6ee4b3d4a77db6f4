// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// KelvinData holds the state of viscoelastic points
type KelvinData struct {
	Time   float64     // time at the end of the step
	Eps    []float64   // strains
	Sig    []float64   // stresses
	Hidden [][]float64 // stress-like hidden variables of each unit [nunits][nsig]
}

func newKelvinData(nsig, nunits int) *KelvinData {
	o := &KelvinData{Eps: make([]float64, nsig), Sig: make([]float64, nsig)}
	o.Hidden = make([][]float64, nunits)
	for μ := range o.Hidden {
		o.Hidden[μ] = make([]float64, nsig)
	}
	return o
}

// Copy returns a deep copy
func (o *KelvinData) Copy() *KelvinData {
	p := &KelvinData{Time: o.Time, Eps: append([]float64{}, o.Eps...), Sig: append([]float64{}, o.Sig...)}
	p.Hidden = tsr.Clone(o.Hidden)
	return p
}

// Write writes all fields
func (o *KelvinData) Write(w *Writer) {
	w.Float(o.Time)
	w.VarFloats(o.Eps)
	w.VarFloats(o.Sig)
	w.Int(len(o.Hidden))
	for _, h := range o.Hidden {
		w.VarFloats(h)
	}
}

// Read reads all fields
func (o *KelvinData) Read(r *Reader) {
	o.Time = r.Float()
	o.Eps = r.VarFloats()
	o.Sig = r.VarFloats()
	n := r.Int()
	if r.Err() != nil {
		return
	}
	if n < 0 || n > 1<<10 {
		r.err = chk.Err("invalid number of units %d", n)
		return
	}
	o.Hidden = make([][]float64, n)
	for μ := range o.Hidden {
		o.Hidden[μ] = r.VarFloats()
	}
}

// KelvinChain implements a non-aging Kelvin chain solid, optionally in series with an
// elastic spring. Hidden variables follow the exponential algorithm:
//  σμ ← βμ·σμ + λμ·Δσ
//  βμ = exp(-Δt/τμ)
//  λμ = (1-βμ)·τμ/Δt
//  E_inc = 1 / (1/Einf + Σ (1-λμ)/Eμ)
type KelvinChain struct {
	Checks
	Mode        tsr.Mode    // material mode
	Nunits      int         // number of Kelvin units
	Tau         []float64   // retardation times [nunits]
	Emu         []float64   // moduli of units [nunits]
	Einf        float64     // modulus of the elastic spring; 0 => no spring
	Nu          float64     // Poisson's coefficient
	CastingTime float64     // material is inactive before this time
	Du          [][]float64 // unit stiffness (E = 1)
	Cu          [][]float64 // unit compliance (E = 1)
}

// Name returns the name in registry
func (o *KelvinChain) Name() string { return "kelvin-chain" }

// Init initialises model
func (o *KelvinChain) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	*o = KelvinChain{}
	return o.init(mode, prms, nil)
}

// init parses the chain parameters; other(name, value) handles extra parameters
// and returns false if the name is unknown
func (o *KelvinChain) init(mode tsr.Mode, prms dbf.Params, other func(string, float64) bool) (err error) {
	if mode.IsInterface() {
		return cfgErr(o.Name(), "mode %v is not available", mode)
	}
	o.Mode = mode
	var tau1, eunit float64
	taus := make(map[int]float64)
	mods := make(map[int]float64)
	found := make(map[string]bool)
	for _, p := range prms {
		found[p.N] = true
		if o.Checks.parse(p.N, p.V) {
			continue
		}
		switch p.N {
		case "nUnits":
			o.Nunits = int(p.V)
		case "tau1":
			tau1 = p.V
		case "Eunit":
			eunit = p.V
		case "Einf":
			o.Einf = p.V
		case "nu":
			o.Nu = p.V
		case "castingTime":
			o.CastingTime = p.V
		default:
			if i, ok := unitIndex(p.N, "tau"); ok {
				taus[i] = p.V
				continue
			}
			if i, ok := unitIndex(p.N, "E"); ok {
				mods[i] = p.V
				continue
			}
			if other != nil && other(p.N, p.V) {
				continue
			}
			return chk.Err("%s: parameter named %q is incorrect\n", o.Name(), p.N)
		}
	}
	if o.Nunits < 1 {
		return cfgErr(o.Name(), "parameter \"nUnits\" must be at least 1")
	}
	if !found["nu"] {
		return cfgErr(o.Name(), "parameter \"nu\" is required")
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return cfgErr(o.Name(), "parameter \"nu\" must be in [0, 0.5); nu = %g is invalid", o.Nu)
	}
	if o.Einf < 0 {
		return cfgErr(o.Name(), "parameter \"Einf\" must not be negative")
	}
	o.Tau = make([]float64, o.Nunits)
	o.Emu = make([]float64, o.Nunits)
	for μ := 0; μ < o.Nunits; μ++ {
		o.Tau[μ] = tau1 * math.Pow(10, float64(μ))
		if v, ok := taus[μ+1]; ok {
			o.Tau[μ] = v
		}
		o.Emu[μ] = eunit
		if v, ok := mods[μ+1]; ok {
			o.Emu[μ] = v
		}
		if o.Tau[μ] <= 0 {
			return cfgErr(o.Name(), "retardation time of unit %d is missing or not positive (set \"tau1\" or \"tau%d\")", μ+1, μ+1)
		}
		if o.Emu[μ] <= 0 {
			return cfgErr(o.Name(), "modulus of unit %d is missing or not positive (set \"Eunit\" or \"E%d\")", μ+1, μ+1)
		}
	}
	for i := range taus {
		if i > o.Nunits {
			return cfgErr(o.Name(), "\"tau%d\" exceeds the number of units %d", i, o.Nunits)
		}
	}
	for i := range mods {
		if i > o.Nunits {
			return cfgErr(o.Name(), "\"E%d\" exceeds the number of units %d", i, o.Nunits)
		}
	}
	n := mode.Size()
	o.Du = tsr.Alloc(n, n)
	o.Cu = tsr.Alloc(n, n)
	ElasticD(o.Du, mode, 1, o.Nu)
	ElasticC(o.Cu, mode, 1, o.Nu)
	return
}

// unitIndex parses names such as "tau3" => 3
func unitIndex(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	i, err := strconv.Atoi(name[len(prefix):])
	if err != nil || i < 1 {
		return 0, false
	}
	return i, true
}

// GetPrms gets (an example) of parameters
func (o KelvinChain) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "nUnits", V: 4},
		&dbf.P{N: "tau1", V: 0.1},
		&dbf.P{N: "Eunit", V: 30e9},
		&dbf.P{N: "Einf", V: 35e9},
		&dbf.P{N: "nu", V: 0.2},
	}
}

// InitIntVars allocates the state of pt
func (o *KelvinChain) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *KelvinChain) history(pt *IntPoint) (*History[*KelvinData], error) {
	return Get(pt, o.Name(), func() *KelvinData { return newKelvinData(o.Mode.Size(), o.Nunits) })
}

// BetaMu returns exp(-Δt/τμ)
func (o *KelvinChain) BetaMu(Δt float64, μ int) float64 {
	x := Δt / o.Tau[μ]
	if x > 30 {
		return 0
	}
	return math.Exp(-x)
}

// LambdaMu returns (1-exp(-Δt/τμ))·τμ/Δt using series expansions for small
// and large Δt/τμ
func (o *KelvinChain) LambdaMu(Δt float64, μ int) float64 {
	x := Δt / o.Tau[μ]
	switch {
	case x < 1e-5:
		return 1.0 - x/2.0 + x*x/6.0 - x*x*x/24.0
	case x > 30:
		return 1.0 / x
	}
	return (1.0 - math.Exp(-x)) / x
}

// Einc returns the incremental modulus for the time increment Δt
func (o *KelvinChain) Einc(Δt float64) (float64, error) {
	sum := 0.0
	if o.Einf > 0 {
		sum = 1.0 / o.Einf
	}
	for μ := 0; μ < o.Nunits; μ++ {
		sum += (1.0 - o.LambdaMu(Δt, μ)) / o.Emu[μ]
	}
	if sum <= 0 {
		return 0, cfgErr(o.Name(), "incremental modulus is unbounded for Δt = %g without elastic spring", Δt)
	}
	return 1.0 / sum, nil
}

// CreepIncrement computes the strain increment due to the committed hidden variables
//  Δεcr = Cu · Σ (1-βμ)/Eμ · σμ
func (o *KelvinChain) CreepIncrement(Δεcr []float64, c *KelvinData, Δt float64) {
	n := len(Δεcr)
	s := make([]float64, n)
	for μ := 0; μ < o.Nunits; μ++ {
		f := (1.0 - o.BetaMu(Δt, μ)) / o.Emu[μ]
		for i := 0; i < n; i++ {
			s[i] += f * c.Hidden[μ][i]
		}
	}
	tsr.MatVecMul(Δεcr, 1, o.Cu, s)
}

// update computes t from c for the total strain ε
func (o *KelvinChain) update(c, t *KelvinData, ε []float64, Δt float64) (err error) {
	t.Time = c.Time + Δt
	copy(t.Eps, ε)
	if t.Time < o.CastingTime {
		for i := range t.Sig {
			t.Sig[i] = 0
		}
		tsr.Fill(t.Hidden, 0)
		return
	}
	E, err := o.Einc(Δt)
	if err != nil {
		return
	}
	n := len(ε)
	Δε := make([]float64, n)
	o.CreepIncrement(Δε, c, Δt)
	for i := 0; i < n; i++ {
		Δε[i] = ε[i] - c.Eps[i] - Δε[i]
	}
	Δσ := make([]float64, n)
	tsr.MatVecMul(Δσ, E, o.Du, Δε)
	for i := 0; i < n; i++ {
		t.Sig[i] = c.Sig[i] + Δσ[i]
	}
	for μ := 0; μ < o.Nunits; μ++ {
		β, λ := o.BetaMu(Δt, μ), o.LambdaMu(Δt, μ)
		for i := 0; i < n; i++ {
			t.Hidden[μ][i] = β*c.Hidden[μ][i] + λ*Δσ[i]
		}
	}
	return
}

// EvaluateStress computes the stress at the end of a step of size Δt
func (o *KelvinChain) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
	if err = checkPoint(o.Name(), o.Mode, pt, ε); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h, err := o.history(pt)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h.InitTemp()
	if err = o.update(h.Committed, h.Temp, ε, Δt); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	return append([]float64{}, h.Temp.Sig...), nil
}

// EvaluateTangent computes E_inc·Du for all responses
func (o *KelvinChain) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	E, err := o.Einc(Δt)
	if err != nil {
		return evalErr(o.Name(), pt, err)
	}
	for i := range o.Du {
		for j := range o.Du[i] {
			D[i][j] = E * o.Du[i][j]
		}
	}
	return nil
}
