// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"
	"math"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// DamageData holds the state of isotropic damage points
type DamageData struct {
	Kappa  float64   // κ: largest equivalent strain reached
	Omega  float64   // ω: damage
	Le     float64   // characteristic length (tension); frozen at damage onset
	Lec    float64   // characteristic length (compression); frozen at damage onset
	Normal []float64 // crack-plane normal [3]; frozen at damage onset
	Eps    []float64 // strains
	Sig    []float64 // nominal stresses
}

func newDamageData(nsig int) *DamageData {
	return &DamageData{Normal: make([]float64, 3), Eps: make([]float64, nsig), Sig: make([]float64, nsig)}
}

// Copy returns a deep copy
func (o *DamageData) Copy() *DamageData {
	p := *o
	p.Normal = append([]float64{}, o.Normal...)
	p.Eps = append([]float64{}, o.Eps...)
	p.Sig = append([]float64{}, o.Sig...)
	return &p
}

// Write writes all fields
func (o *DamageData) Write(w *Writer) {
	w.Float(o.Kappa)
	w.Float(o.Omega)
	w.Float(o.Le)
	w.Float(o.Lec)
	w.Floats(o.Normal)
	w.VarFloats(o.Eps)
	w.VarFloats(o.Sig)
}

// Read reads all fields
func (o *DamageData) Read(r *Reader) {
	o.Kappa = r.Float()
	o.Omega = r.Float()
	o.Le = r.Float()
	o.Lec = r.Float()
	if len(o.Normal) != 3 {
		o.Normal = make([]float64, 3)
	}
	r.Floats(o.Normal)
	o.Eps = r.VarFloats()
	o.Sig = r.VarFloats()
}

// principalStrains returns the principal values (descending) and directions of the
// full strain tensor of mode m; lateral strains are implied by ν
func principalStrains(m tsr.Mode, ε []float64, ν float64) (vals []float64, dirs [][]float64, err error) {
	return tsr.PrincipalValues(tsr.FullStrain(m, ε, ν), true)
}

// crackLengths computes the characteristic lengths along the largest (tension) and
// smallest (compression) principal directions and the crack-plane normal
func crackLengths(pt *IntPoint, vals []float64, dirs [][]float64) (Le, Lec float64, n []float64, err error) {
	if pt.Mode == tsr.Mode1D {
		n = []float64{1, 0, 0}
		Le = pt.CharLength(n)
		Lec = Le
	} else {
		n = tsr.Column(dirs, 0)
		Le = pt.CharLength(n)
		Lec = pt.CharLength(tsr.Column(dirs, 2))
	}
	if Le <= 0 || Lec <= 0 {
		return 0, 0, nil, fmt.Errorf("characteristic length (%g, %g) is not positive: %w", Le, Lec, ErrDegenerate)
	}
	return
}

// clampDamage clamps ω into [0,1] following the out-of-range policy
func clampDamage(policy Checks, model string, pt *IntPoint, ω float64) (float64, error) {
	if ω >= 0 && ω <= 1 {
		return ω, nil
	}
	if err := policy.outOfRange(model, pt, "damage %g is outside [0,1]", ω); err != nil {
		return ω, err
	}
	return math.Max(0, math.Min(1, ω)), nil
}

// damageTangent computes the secant stiffness (1-ω)·De with ω limited by maxOmega
func damageTangent(D, De [][]float64, resp Response, ω, maxOmega float64) {
	f := 1.0
	if resp != Elastic {
		f = 1.0 - math.Min(ω, maxOmega)
	}
	for i := range De {
		for j := range De[i] {
			D[i][j] = f * De[i][j]
		}
	}
}

// IsoDamage implements isotropic damage driven by the norm of the positive
// principal strains with exponential softening regularised by the crack band
//  ω = 1 - (e0/κ)·exp(-(κ-e0)/(ef-e0))
//  ef = gf/(E·e0·Le) + e0/2     (when gf is given)
type IsoDamage struct {
	Checks
	Mode     tsr.Mode    // material mode
	E        float64     // Young's modulus
	Nu       float64     // Poisson's coefficient
	E0       float64     // strain at peak stress
	Ef       float64     // softening strain (used if Gf == 0)
	Gf       float64     // fracture energy per unit area
	MaxOmega float64     // largest damage used in stiffness matrices
	De       [][]float64 // elastic stiffness
}

// Name returns the name in registry
func (o *IsoDamage) Name() string { return "isodamage" }

// Init initialises model
func (o *IsoDamage) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	*o = IsoDamage{}
	if mode.IsInterface() {
		return cfgErr(o.Name(), "mode %v is not available", mode)
	}
	o.Mode = mode
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
		case "ef":
			o.Ef = p.V
		case "gf":
			o.Gf = p.V
		case "maxOmega":
			o.MaxOmega = p.V
		default:
			return chk.Err("isodamage: parameter named %q is incorrect\n", p.N)
		}
	}
	for _, key := range []string{"E", "e0"} {
		if !found[key] {
			return cfgErr(o.Name(), "parameter %q is required", key)
		}
	}
	if !found["gf"] && !found["ef"] {
		return cfgErr(o.Name(), "either \"gf\" or \"ef\" is required")
	}
	if err = checkElastic(o.Name(), o.E, o.Nu); err != nil {
		return
	}
	if o.E0 <= 0 {
		return cfgErr(o.Name(), "parameter \"e0\" must be positive; e0 = %g is invalid", o.E0)
	}
	if o.Gf < 0 || (o.Gf == 0 && o.Ef <= o.E0) {
		return cfgErr(o.Name(), "softening is invalid: gf = %g, ef = %g, e0 = %g", o.Gf, o.Ef, o.E0)
	}
	n := mode.Size()
	o.De = tsr.Alloc(n, n)
	ElasticD(o.De, mode, o.E, o.Nu)
	return
}

// GetPrms gets (an example) of parameters
func (o IsoDamage) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: 30e9},
		&dbf.P{N: "nu", V: 0.2},
		&dbf.P{N: "e0", V: 1e-4},
		&dbf.P{N: "gf", V: 100},
		&dbf.P{N: "maxOmega", V: 0.999999},
	}
}

// InitIntVars allocates the state of pt
func (o *IsoDamage) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *IsoDamage) history(pt *IntPoint) (*History[*DamageData], error) {
	return Get(pt, o.Name(), func() *DamageData { return newDamageData(o.Mode.Size()) })
}

// Damage computes the damage for κ and the characteristic length Le
func (o *IsoDamage) Damage(pt *IntPoint, κ, Le float64) (ω float64, err error) {
	if κ <= o.E0 {
		return 0, nil
	}
	ef := o.Ef
	if o.Gf > 0 {
		ef = o.Gf/(o.E*o.E0*Le) + o.E0/2.0
	}
	if ef <= o.E0 {
		err = o.outOfRange(o.Name(), pt, "snap-back: ef = %g <= e0 = %g with Le = %g; gf must be larger than %g", ef, o.E0, Le, o.E*o.E0*o.E0*Le/2.0)
		return 1, err
	}
	return 1.0 - (o.E0/κ)*math.Exp(-(κ-o.E0)/(ef-o.E0)), nil
}

// EvaluateStress computes σ = (1-ω)·De·ε
func (o *IsoDamage) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
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
	if eq > c.Kappa {
		t.Kappa = eq
		if eq > o.E0 && c.Omega == 0 {
			if t.Le, t.Lec, t.Normal, err = crackLengths(pt, vals, dirs); err != nil {
				return nil, evalErr(o.Name(), pt, err)
			}
		}
		ω, e := o.Damage(pt, eq, t.Le)
		if e != nil {
			return nil, evalErr(o.Name(), pt, e)
		}
		if t.Omega, err = clampDamage(o.Checks, o.Name(), pt, math.Max(ω, c.Omega)); err != nil {
			return nil, evalErr(o.Name(), pt, err)
		}
	}
	copy(t.Eps, ε)
	tsr.MatVecMul(t.Sig, 1.0-t.Omega, o.De, ε)
	return append([]float64{}, t.Sig...), nil
}

// EvaluateTangent computes the elastic or secant stiffness. Tangent returns the secant
func (o *IsoDamage) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	h, err := o.history(pt)
	if err != nil {
		return evalErr(o.Name(), pt, err)
	}
	damageTangent(D, o.De, resp, h.Temp.Omega, o.MaxOmega)
	return nil
}

// Outputs returns internal variables of the trial state
func (o *IsoDamage) Outputs(pt *IntPoint) map[string]float64 {
	h, err := o.history(pt)
	if err != nil {
		return nil
	}
	return map[string]float64{"damage": h.Temp.Omega, "kappa": h.Temp.Kappa, "charLength": h.Temp.Le}
}
