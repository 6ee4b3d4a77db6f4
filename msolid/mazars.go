// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"
	"math"

	"github.com/cpmech/femcore/num"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Mazars objectivity iterations
const (
	MAZARS_TOL = 1e-15
	MAZARS_NIT = 400
)

// Mazars implements the Mazars damage model for concrete
//  ω = αt·gt(κ) + αc·gc(κ)
//  version 0: gt = 1 - (1-At)·e0/κ - At·exp(-Bt·(κ-e0))
//  version 1: gt = 1 - (e0/κ)·exp((e0-κ)/ef)
//  gc = 1 - (1-Ac)·e0/κ - Ac·exp(-Bc·(κ-e0))
type Mazars struct {
	Checks
	Mode     tsr.Mode // material mode
	E        float64  // Young's modulus
	Nu       float64  // Poisson's coefficient
	E0       float64  // damage threshold
	Ac       float64  // compression parameter
	Bc       float64  // compression parameter; default (Ac-1)/(Ac·e0)
	At       float64  // tension parameter (version 0)
	Bt       float64  // tension parameter (version 0)
	Ef       float64  // tension softening strain (version 1)
	Beta     float64  // exponent of the α weights
	Version  int      // 0: original; 1: exponential tension softening
	HrefT    float64  // reference length for tension; 0 => no size adjustment
	HrefC    float64  // reference length for compression; 0 => no size adjustment
	MaxOmega float64  // largest damage used in stiffness matrices

	// derived
	De [][]float64 // elastic stiffness of mode
	d3 [][]float64 // normal block of 3D stiffness
	c3 [][]float64 // normal block of 3D compliance
}

// Name returns the name in registry
func (o *Mazars) Name() string { return "mazars" }

// Init initialises model
func (o *Mazars) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	*o = Mazars{}
	if mode.IsInterface() {
		return cfgErr(o.Name(), "mode %v is not available", mode)
	}
	o.Mode = mode
	o.Beta = 1.06
	o.MaxOmega = 0.999999
	found := make(map[string]bool)
	for _, p := range prms {
		found[p.N] = true
		if o.Checks.parse(p.N, p.V) {
			continue
		}
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		case "e0":
			o.E0 = p.V
		case "Ac":
			o.Ac = p.V
		case "Bc":
			o.Bc = p.V
		case "At":
			o.At = p.V
		case "Bt":
			o.Bt = p.V
		case "ef":
			o.Ef = p.V
		case "beta":
			o.Beta = p.V
		case "version":
			o.Version = int(p.V)
		case "hReft":
			o.HrefT = p.V
		case "hRefc":
			o.HrefC = p.V
		case "maxOmega":
			o.MaxOmega = p.V
		default:
			return chk.Err("mazars: parameter named %q is incorrect\n", p.N)
		}
	}
	required := []string{"E", "nu", "e0", "Ac"}
	switch o.Version {
	case 0:
		required = append(required, "At", "Bt")
	case 1:
		required = append(required, "ef")
	default:
		return cfgErr(o.Name(), "version %d is unknown", o.Version)
	}
	for _, key := range required {
		if !found[key] {
			return cfgErr(o.Name(), "parameter %q is required", key)
		}
	}
	if err = checkElastic(o.Name(), o.E, o.Nu); err != nil {
		return
	}
	if o.E0 <= 0 || o.Ac <= 0 {
		return cfgErr(o.Name(), "parameters \"e0\" and \"Ac\" must be positive; e0 = %g and Ac = %g are invalid", o.E0, o.Ac)
	}
	if !found["Bc"] {
		o.Bc = (o.Ac - 1.0) / (o.Ac * o.E0)
	}
	if o.Version == 1 && o.Ef <= 0 {
		return cfgErr(o.Name(), "parameter \"ef\" must be positive; ef = %g is invalid", o.Ef)
	}

	// auxiliary
	n := mode.Size()
	o.De = tsr.Alloc(n, n)
	ElasticD(o.De, mode, o.E, o.Nu)
	o.c3 = tsr.Alloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.c3[i][j] = -o.Nu / o.E
		}
		o.c3[i][i] = 1.0 / o.E
	}
	o.d3 = tsr.Alloc(3, 3)
	if _, err = tsr.Inv(o.d3, o.c3, 1e-300); err != nil {
		return cfgErr(o.Name(), "cannot invert compliance: %v", err)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Mazars) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: 30e9},
		&dbf.P{N: "nu", V: 0.2},
		&dbf.P{N: "e0", V: 1e-4},
		&dbf.P{N: "Ac", V: 1.2},
		&dbf.P{N: "Bc", V: 1500},
		&dbf.P{N: "At", V: 0.8},
		&dbf.P{N: "Bt", V: 10000},
		&dbf.P{N: "beta", V: 1.06},
		&dbf.P{N: "version", V: 0},
	}
}

// InitIntVars allocates the state of pt
func (o *Mazars) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *Mazars) history(pt *IntPoint) (*History[*DamageData], error) {
	return Get(pt, o.Name(), func() *DamageData { return newDamageData(o.Mode.Size()) })
}

// gt0 computes the tension damage function and its derivative without size adjustment
func (o *Mazars) gt0(κ float64) (g, dgdκ float64) {
	if o.Version == 1 {
		ex := math.Exp((o.E0 - κ) / o.Ef)
		g = 1.0 - (o.E0/κ)*ex
		dgdκ = (o.E0/κ/κ + o.E0/κ/o.Ef) * ex
		return
	}
	ex := math.Exp(-o.Bt * (κ - o.E0))
	g = 1.0 - (1.0-o.At)*o.E0/κ - o.At*ex
	dgdκ = (1.0-o.At)*o.E0/κ/κ + o.At*o.Bt*ex
	return
}

// gc0 computes the compression damage function and its derivative without size adjustment
func (o *Mazars) gc0(κ float64) (g, dgdκ float64) {
	ex := math.Exp(-o.Bc * (κ - o.E0))
	g = 1.0 - (1.0-o.Ac)*o.E0/κ - o.Ac*ex
	dgdκ = (1.0-o.Ac)*o.E0/κ/κ + o.Ac*o.Bc*ex
	return
}

// objective adjusts g for the element size h with the reference size href by
// solving κr·(1 + g(κr)·(href/h - 1)) = κ for κr
func objective(g0 func(float64) (float64, float64), κ, href, h float64) (float64, error) {
	if href <= 0 {
		g, _ := g0(κ)
		return g, nil
	}
	if h <= 0 {
		return 0, fmt.Errorf("element size %g is not positive: %w", h, ErrDegenerate)
	}
	a := href/h - 1.0
	solver := num.Newton1D{Tol: MAZARS_TOL, MaxIt: MAZARS_NIT}
	κr, _, err := solver.Solve(κ, func(x float64) (r, drdx float64) {
		g, dg := g0(x)
		return x*(1.0+g*a) - κ, 1.0 + g*a + dg*x*a
	})
	if err != nil {
		return 0, fmt.Errorf("objectivity iteration failed: %v: %w", err, ErrNoConvergence)
	}
	g, _ := g0(κr)
	return g * href * κr / (h * κ), nil
}

// ComputeGt returns the tension damage function for the characteristic length Le
func (o *Mazars) ComputeGt(κ, Le float64) (float64, error) {
	return objective(o.gt0, κ, o.HrefT, Le)
}

// ComputeGc returns the compression damage function for the characteristic length Lec
func (o *Mazars) ComputeGc(κ, Lec float64) (float64, error) {
	return objective(o.gc0, κ, o.HrefC, Lec)
}

// Alpha computes the tension weight α from the principal strains
func (o *Mazars) Alpha(vals []float64) (α float64) {
	σ := make([]float64, 3)
	tsr.MatVecMul(σ, 1, o.d3, vals)
	for i := range σ {
		if σ[i] < 0 {
			σ[i] = 0
		}
	}
	εt := make([]float64, 3)
	tsr.MatVecMul(εt, 1, o.c3, σ)
	eq2 := 0.0
	for i := 0; i < 3; i++ {
		if vals[i] > 0 {
			eq2 += vals[i] * vals[i]
			α += εt[i] * vals[i]
		}
	}
	if eq2 > 0 {
		α /= eq2
	}
	return math.Max(0, math.Min(1, α))
}

// DamageParam computes ω for the equivalent strain κ and the principal strains vals
func (o *Mazars) DamageParam(κ float64, vals []float64, Le, Lec float64) (ω float64, err error) {
	if κ <= o.E0 {
		return 0, nil
	}
	gt, err := o.ComputeGt(κ, Le)
	if err != nil {
		return
	}
	gc, err := o.ComputeGc(κ, Lec)
	if err != nil {
		return
	}
	α := o.Alpha(vals)
	var αt, αc float64
	switch {
	case o.Beta == 1:
		αt, αc = α, 1.0-α
	case α <= 0:
		αt, αc = 0, 1
	case α < 1:
		αt, αc = math.Pow(α, o.Beta), math.Pow(1.0-α, o.Beta)
	default:
		αt, αc = 1, 0
	}
	return math.Min(αt*gt+αc*gc, 1.0), nil
}

// EvaluateStress computes σ = (1-ω)·De·ε. Damage is updated only when the equivalent
// strain exceeds the committed κ
func (o *Mazars) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
	if err = checkPoint(o.Name(), o.Mode, pt, ε); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h, err := o.history(pt)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h.InitTemp()
	c, t := h.Committed, h.Temp

	vals, dirs, err := principalStrains(o.Mode, ε, o.Nu)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	eq := tsr.PositiveNorm(vals)
	if eq > c.Kappa && eq > o.E0 {
		t.Kappa = eq
		if c.Omega == 0 {
			if t.Le, t.Lec, t.Normal, err = crackLengths(pt, vals, dirs); err != nil {
				return nil, evalErr(o.Name(), pt, err)
			}
		}
		ω, e := o.DamageParam(eq, vals, t.Le, t.Lec)
		if e != nil {
			return nil, evalErr(o.Name(), pt, e)
		}
		if t.Omega, err = clampDamage(o.Checks, o.Name(), pt, math.Max(ω, c.Omega)); err != nil {
			return nil, evalErr(o.Name(), pt, err)
		}
	} else {
		t.Kappa, t.Omega = math.Max(c.Kappa, eq), c.Omega
	}
	copy(t.Eps, ε)
	tsr.MatVecMul(t.Sig, 1.0-t.Omega, o.De, ε)
	return append([]float64{}, t.Sig...), nil
}

// EvaluateTangent computes the elastic or secant stiffness. Tangent returns the secant
func (o *Mazars) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	h, err := o.history(pt)
	if err != nil {
		return evalErr(o.Name(), pt, err)
	}
	damageTangent(D, o.De, resp, h.Temp.Omega, o.MaxOmega)
	return nil
}

// Outputs returns internal variables of the trial state
func (o *Mazars) Outputs(pt *IntPoint) map[string]float64 {
	h, err := o.history(pt)
	if err != nil {
		return nil
	}
	return map[string]float64{"damage": h.Temp.Omega, "kappa": h.Temp.Kappa, "charLength": h.Temp.Le, "charLengthC": h.Temp.Lec}
}
