// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"
	"math"

	"github.com/cpmech/femcore/num"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/fun/dbf"
)

// softening laws of MpsDamage
const (
	SoftExponential = 0 // exponential cohesive crack
	SoftLinear      = 1 // linear cohesive crack
	SoftDisabled    = 6 // no damage
)

// exponential softening iterations
const (
	MPSDAM_NIT = 40
	MPSDAM_TOL = 1e-12 // relative to e0
)

// MpsData holds the state of damaging viscoelastic points
type MpsData struct {
	Kappa       float64     // κ = max(σ1,0)/E
	Omega       float64     // ω: damage
	Le          float64     // characteristic length; frozen at damage onset
	E0          float64     // age-dependent e0; frozen at damage onset
	Gf          float64     // age-dependent fracture energy; frozen at damage onset
	CrackWidth  float64     // Le·ω·ε1
	ResStrength float64     // residual tensile strength
	Crack       []float64   // crack-plane normal [3]
	SigEff      []float64   // effective (viscoelastic) stress
	Chain       *KelvinData // state of the chain
}

// Copy returns a deep copy
func (o *MpsData) Copy() *MpsData {
	p := *o
	p.Crack = append([]float64{}, o.Crack...)
	p.SigEff = append([]float64{}, o.SigEff...)
	p.Chain = o.Chain.Copy()
	return &p
}

// Write writes all fields
func (o *MpsData) Write(w *Writer) {
	w.Float(o.Kappa)
	w.Float(o.Omega)
	w.Float(o.Le)
	w.Float(o.E0)
	w.Float(o.Gf)
	w.Float(o.CrackWidth)
	w.Float(o.ResStrength)
	w.Floats(o.Crack)
	w.VarFloats(o.SigEff)
	o.Chain.Write(w)
}

// Read reads all fields
func (o *MpsData) Read(r *Reader) {
	o.Kappa = r.Float()
	o.Omega = r.Float()
	o.Le = r.Float()
	o.E0 = r.Float()
	o.Gf = r.Float()
	o.CrackWidth = r.Float()
	o.ResStrength = r.Float()
	if len(o.Crack) != 3 {
		o.Crack = make([]float64, 3)
	}
	r.Floats(o.Crack)
	o.SigEff = r.VarFloats()
	if o.Chain == nil {
		o.Chain = new(KelvinData)
	}
	o.Chain.Read(r)
}

// MpsDamage implements tensile damage on top of the stress of a Kelvin chain.
// Nominal stress is the effective stress with positive principal values scaled by
// (1-ω) (or all components if isotropic). Damage follows a cohesive crack law
// regularised by the crack band
type MpsDamage struct {
	KelvinChain
	E         float64 // modulus used for κ = σ1/E and e0 = ft/E
	Ft        float64 // tensile strength
	GfConst   float64 // fracture energy
	SoftType  int     // softening law
	Isotropic bool    // scale all stress components
	MaxOmega  float64 // largest damage used in stiffness matrices

	// time-dependent fracturing (fib Model Code)
	TimeDep  bool    // strength and fracture energy depend on the age at damage onset
	FibS     float64 // cement-type coefficient s
	FibFcm28 float64 // mean compressive strength at 28 days [MPa]
	Ft28     float64 // tensile strength at 28 days; overrides fcm28
	Gf28     float64 // fracture energy at 28 days; overrides the fcm28 estimate
	StiffFac float64 // stresses are given in Pa/StiffFac
	Lambda0  float64 // length of one day in time units
}

// Name returns the name in registry
func (o *MpsDamage) Name() string { return "mps-damage" }

// Init initialises model
func (o *MpsDamage) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	*o = MpsDamage{MaxOmega: 0.999999, StiffFac: 1e6, Lambda0: 1}
	found := make(map[string]bool)
	err = o.KelvinChain.init(mode, prms, func(name string, v float64) bool {
		found[name] = true
		switch name {
		case "E":
			o.E = v
		case "ft":
			o.Ft = v
		case "gf":
			o.GfConst = v
		case "damageLaw":
			o.SoftType = int(v)
		case "isotropic":
			o.Isotropic = v > 0
		case "maxOmega":
			o.MaxOmega = v
		case "timedepfracturing":
			o.TimeDep = v > 0
		case "fib_s":
			o.FibS = v
		case "fib_fcm28":
			o.FibFcm28 = v
		case "ft28":
			o.Ft28 = v
		case "gf28":
			o.Gf28 = v
		case "stiffnessFactor":
			o.StiffFac = v
		case "lambda0":
			o.Lambda0 = v
		default:
			return false
		}
		return true
	})
	if err != nil {
		return
	}
	if !found["E"] {
		o.E = o.Einf
	}
	if o.E <= 0 {
		return cfgErr(o.Name(), "parameter \"E\" is required when there is no elastic spring")
	}
	switch o.SoftType {
	case SoftExponential, SoftLinear, SoftDisabled:
	default:
		return cfgErr(o.Name(), "softening type number %d is unknown", o.SoftType)
	}
	if o.TimeDep {
		if !found["fib_s"] {
			return cfgErr(o.Name(), "parameter \"fib_s\" is required")
		}
		if o.Gf28 < 0 || o.Ft28 < 0 {
			return cfgErr(o.Name(), "\"gf28\" and \"ft28\" must not be negative")
		}
		if (o.Ft28 == 0 || o.Gf28 == 0) && o.FibFcm28 <= 0 {
			return cfgErr(o.Name(), "parameter \"fib_fcm28\" is required without \"ft28\" and \"gf28\"")
		}
		if o.StiffFac <= 0 || o.Lambda0 <= 0 {
			return cfgErr(o.Name(), "\"stiffnessFactor\" and \"lambda0\" must be positive")
		}
		return
	}
	if o.SoftType != SoftDisabled {
		if !found["ft"] || !found["gf"] {
			return cfgErr(o.Name(), "parameters \"ft\" and \"gf\" are required by damage law %d", o.SoftType)
		}
		if o.Ft <= 0 || o.GfConst <= 0 {
			return cfgErr(o.Name(), "\"ft\" and \"gf\" must be positive")
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o MpsDamage) GetPrms() dbf.Params {
	return append(o.KelvinChain.GetPrms(),
		&dbf.P{N: "E", V: 35e9},
		&dbf.P{N: "ft", V: 3e6},
		&dbf.P{N: "gf", V: 100},
		&dbf.P{N: "damageLaw", V: SoftExponential},
	)
}

// InitIntVars allocates the state of pt
func (o *MpsDamage) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *MpsDamage) history(pt *IntPoint) (*History[*MpsData], error) {
	n := o.Mode.Size()
	return Get(pt, o.Name(), func() *MpsData {
		return &MpsData{Crack: make([]float64, 3), SigEff: make([]float64, n), Chain: newKelvinData(n, o.Nunits)}
	})
}

// equivalentTime returns the age of the material at the end of the step
func (o *MpsDamage) equivalentTime(t *MpsData) float64 {
	return t.Chain.Time - o.CastingTime
}

// TensileStrength returns the mean tensile strength at the equivalent time te (fib)
func (o *MpsDamage) TensileStrength(te float64) float64 {
	if te <= 0 {
		return 0
	}
	fcm28 := o.FibFcm28
	if o.Ft28 > 0 {
		fcm28 = math.Pow(o.Ft28*o.StiffFac/0.3e6, 1.5) + 8.0
	}
	fcm := math.Exp(o.FibS*(1.0-math.Sqrt(28.0*o.Lambda0/te))) * fcm28
	switch {
	case fcm >= 58:
		return 2.12 * math.Log(1.0+0.1*fcm) * 1e6 / o.StiffFac
	case fcm <= 20:
		return 0.07862 * fcm * 1e6 / o.StiffFac
	}
	return 0.3 * math.Pow(fcm-8.0, 2.0/3.0) * 1e6 / o.StiffFac
}

// FractureEnergy returns the fracture energy at the equivalent time te; it evolves
// like the tensile strength
func (o *MpsDamage) FractureEnergy(te float64) float64 {
	gf28 := o.Gf28
	if gf28 <= 0 {
		gf28 = 73.0 * math.Pow(o.FibFcm28, 0.18) / o.StiffFac
	}
	ft28 := o.TensileStrength(28.0 * o.Lambda0)
	if ft28 <= 0 {
		return 0
	}
	return gf28 * o.TensileStrength(te) / ft28
}

// e0gf returns e0 and gf of the trial state
func (o *MpsDamage) e0gf(t *MpsData) (e0, gf float64) {
	if o.TimeDep {
		return t.E0, t.Gf
	}
	return o.Ft / o.E, o.GfConst
}

// crackOpening returns wf such that the area under the traction-opening law is gf
func (o *MpsDamage) crackOpening(e0, gf float64) float64 {
	if o.SoftType == SoftLinear {
		return 2.0 * gf / o.E / e0
	}
	return gf / o.E / e0
}

// Damage computes ω for κ with the characteristic length Le
func (o *MpsDamage) Damage(pt *IntPoint, κ, e0, gf, Le float64) (ω float64, err error) {
	if o.SoftType == SoftDisabled || κ <= e0 {
		return 0, nil
	}
	ef := o.crackOpening(e0, gf) / Le
	if ef < e0 {
		minGf := o.E * e0 * e0 * Le
		if o.SoftType == SoftLinear {
			minGf /= 2.0
		}
		if err = o.outOfRange(o.Name(), pt, "snap-back: ef = %g < e0 = %g with Le = %g; gf must be increased from %g to %g", ef, e0, Le, gf, minGf); err != nil {
			return
		}
		return 1, nil
	}
	if o.SoftType == SoftLinear {
		if κ >= ef {
			return 1, nil
		}
		ω = (ef / κ) * (κ - e0) / (ef - e0)
	} else {
		solver := num.Newton1D{Tol: e0 * MPSDAM_TOL, MaxIt: MPSDAM_NIT}
		ω, _, err = solver.Solve(0, func(x float64) (r, drdx float64) {
			ex := e0 * math.Exp(-x*κ/ef)
			return (1.0-x)*κ - ex, -κ + ex*κ/ef
		})
		if err != nil {
			return 0, fmt.Errorf("exponential softening: %v: %w", err, ErrNoConvergence)
		}
	}
	if ω > 1 || ω < 0 {
		if err = o.outOfRange(o.Name(), pt, "damage parameter is %g; snap-back problems", ω); err != nil {
			return
		}
		if ω < 0 {
			ω = 1
		}
		ω = math.Min(ω, 1)
	}
	return
}

// residual computes the residual tensile strength
func (o *MpsDamage) residual(κ, ω, e0, gf, Le float64) float64 {
	if ω == 0 || Le <= 0 {
		return o.E * e0
	}
	ef := o.crackOpening(e0, gf) / Le
	if o.SoftType == SoftLinear {
		return o.E * e0 * (ef - κ) / (ef - e0)
	}
	return o.E * e0 * math.Exp(-(κ-e0)/ef)
}

// principalStress returns the largest principal value and the principal values and
// directions of σ in the layout of mode
func principalStress(m tsr.Mode, σ []float64) (vals []float64, dirs [][]float64, err error) {
	switch m {
	case tsr.Mode1D:
		return []float64{σ[0]}, [][]float64{{1}}, nil
	case tsr.PlaneStress:
		vals, dirs = tsr.PrincipalValues2D(σ[0], σ[1], σ[2], false)
		return
	}
	return tsr.PrincipalValues(tsr.Expand(m, σ), false)
}

// nominal scales the positive principal effective stresses by (1-ω)
func nominal(m tsr.Mode, vals []float64, dirs [][]float64, ω float64) []float64 {
	p := make([]float64, len(vals))
	for i, v := range vals {
		p[i] = v
		if v > 0 {
			p[i] = v * (1.0 - ω)
		}
	}
	switch m {
	case tsr.Mode1D:
		return p
	case tsr.PlaneStress:
		c, s := dirs[0][0], dirs[1][0]
		return []float64{
			p[0]*c*c + p[1]*s*s,
			p[0]*s*s + p[1]*c*c,
			(p[0] - p[1]) * c * s,
		}
	}
	full := make([]float64, 6)
	tsr.MatVecMul(full, 1, tsr.StressTransform(dirs), []float64{p[0], p[1], p[2], 0, 0, 0})
	return tsr.Contract(m, full)
}

// EvaluateStress computes the nominal stress at the end of a step of size Δt
func (o *MpsDamage) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
	if err = checkPoint(o.Name(), o.Mode, pt, ε); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h, err := o.history(pt)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h.InitTemp()
	c, t := h.Committed, h.Temp
	if err = o.KelvinChain.update(c.Chain, t.Chain, ε, Δt); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	copy(t.SigEff, t.Chain.Sig)
	if t.Chain.Time < o.CastingTime {
		t.CrackWidth, t.ResStrength = 0, 0
		return append([]float64{}, t.SigEff...), nil
	}

	// strength of undamaged material follows the age
	if o.TimeDep && c.Omega == 0 {
		te := o.equivalentTime(t)
		t.E0 = o.TensileStrength(te) / o.E
		t.Gf = o.FractureEnergy(te)
	}
	e0, gf := o.e0gf(t)

	vals, dirs, err := principalStress(o.Mode, t.SigEff)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	σ1 := math.Max(vals[0], 0)
	κ := σ1 / o.E
	if κ > c.Kappa {
		t.Kappa = κ
		if κ > e0 && c.Omega == 0 && o.SoftType != SoftDisabled {
			for i := range t.Crack {
				t.Crack[i] = 0
			}
			for i := range dirs {
				t.Crack[i] = dirs[i][0]
			}
			t.Le = pt.CharLength(t.Crack)
			if t.Le <= 0 {
				return nil, evalErr(o.Name(), pt, fmt.Errorf("characteristic length %g is not positive: %w", t.Le, ErrDegenerate))
			}
		}
		ω, e := o.Damage(pt, t.Kappa, e0, gf, t.Le)
		if e != nil {
			return nil, evalErr(o.Name(), pt, e)
		}
		t.Omega = math.Max(ω, c.Omega)
	}
	t.ResStrength = o.residual(t.Kappa, t.Omega, e0, gf, t.Le)

	// nominal stress
	switch {
	case t.Omega == 0:
		σ = append([]float64{}, t.SigEff...)
	case o.Isotropic:
		σ = make([]float64, len(t.SigEff))
		for i, v := range t.SigEff {
			σ[i] = (1.0 - t.Omega) * v
		}
	default:
		σ = nominal(o.Mode, vals, dirs, t.Omega)
	}

	// crack width
	t.CrackWidth = 0
	if t.Omega > 0 && σ1 > 0 {
		ev, _, e := principalStrains(o.Mode, ε, o.Nu)
		if e != nil {
			return nil, evalErr(o.Name(), pt, e)
		}
		t.CrackWidth = t.Le * t.Omega * ev[0]
	}
	return
}

// EvaluateTangent computes the stiffness of the chain scaled by (1-ω). Elastic, and
// Secant of anisotropic damage, return the undamaged stiffness
func (o *MpsDamage) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	if err := o.KelvinChain.EvaluateTangent(D, pt, resp, Δt); err != nil {
		return evalErr(o.Name(), pt, err)
	}
	if resp == Elastic || (resp == Secant && !o.Isotropic) {
		return nil
	}
	h, err := o.history(pt)
	if err != nil {
		return evalErr(o.Name(), pt, err)
	}
	tsr.Scale(D, 1.0-math.Min(h.Temp.Omega, o.MaxOmega))
	return nil
}

// Outputs returns internal variables of the trial state
func (o *MpsDamage) Outputs(pt *IntPoint) map[string]float64 {
	h, err := o.history(pt)
	if err != nil {
		return nil
	}
	t := h.Temp
	res := map[string]float64{
		"damage":           t.Omega,
		"kappa":            t.Kappa,
		"charLength":       t.Le,
		"crackWidth":       t.CrackWidth,
		"residualStrength": t.ResStrength,
		"crackIndex":       0,
	}
	ft := o.Ft
	if o.TimeDep {
		ft = o.TensileStrength(o.equivalentTime(t))
	}
	res["tensileStrength"] = ft
	if h.Committed.Omega > 0 {
		res["crackIndex"] = 1
	} else if vals, _, err := principalStress(o.Mode, t.SigEff); err == nil && ft > 1e-20 && vals[0] > 1e-20 {
		res["crackIndex"] = vals[0] / ft
	}
	return res
}
