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
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// return mapping settings
const (
	MASONRY_NPASS = 6     // max number of active-set passes
	MASONRY_NIT   = 50    // max number of Newton iterations per pass
	MASONRY_TOL   = 1e-10 // tolerance on scaled residuals
)

// MasonryData holds the state of masonry joints
type MasonryData struct {
	Eps  []float64 // displacement jumps [2]: normal, shear
	EpsP []float64 // plastic jumps [2]
	Sig  []float64 // tractions [2]
	K    []float64 // hardening variables [3]: tension, shear, cap
}

func newMasonryData() *MasonryData {
	return &MasonryData{Eps: make([]float64, 2), EpsP: make([]float64, 2), Sig: make([]float64, 2), K: make([]float64, 3)}
}

// Copy returns a deep copy
func (o *MasonryData) Copy() *MasonryData {
	return &MasonryData{
		Eps:  append([]float64{}, o.Eps...),
		EpsP: append([]float64{}, o.EpsP...),
		Sig:  append([]float64{}, o.Sig...),
		K:    append([]float64{}, o.K...),
	}
}

// Write writes all fields
func (o *MasonryData) Write(w *Writer) {
	w.Floats(o.Eps)
	w.Floats(o.EpsP)
	w.Floats(o.Sig)
	w.Floats(o.K)
}

// Read reads all fields
func (o *MasonryData) Read(r *Reader) {
	if len(o.Eps) != 2 || len(o.K) != 3 {
		*o = *newMasonryData()
	}
	r.Floats(o.Eps)
	r.Floats(o.EpsP)
	r.Floats(o.Sig)
	r.Floats(o.K)
}

// Masonry02 implements a composite interface model for masonry joints with
// three yield surfaces:
//  f1 = σ - ft(k1)                               tension cut-off
//  f2 = |τ| + σ·tanφ(k2) - c(k2)                 Coulomb friction
//  f3 = Cnn·σ² + Css·τ² + Cn·σ - σc(k3)²         compressive cap
// Tension and shear softening are coupled through gfI·c0/(gfII·ft0)
type Masonry02 struct {
	Mode   tsr.Mode
	Kn, Ks float64 // elastic stiffness

	// tension and shear
	Ft0    float64 // tensile strength
	GfI    float64 // mode I fracture energy
	GfII   float64 // mode II fracture energy
	C0     float64 // cohesion
	Tanfi0 float64 // initial friction coefficient
	Tanfir float64 // residual friction coefficient
	Tanpsi float64 // dilatancy coefficient

	// cap
	Cnn, Css, Cn float64 // shape of cap
	Sic          float64 // initial compressive strength
	Spc          float64 // peak compressive strength
	Smc          float64 // middle compressive strength
	Src          float64 // residual compressive strength
	Kp, Km, Kr   float64 // hardening variables at peak, middle and residual points

	// derived
	help float64 // gfI·c0/(gfII·ft0)
	sc   float64 // stress scale
}

// Name returns the name in registry
func (o *Masonry02) Name() string { return "masonry02" }

// Init initialises model
func (o *Masonry02) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	if mode != tsr.Interface2D {
		return cfgErr(o.Name(), "mode %v is not available; only %v is", mode, tsr.Interface2D)
	}
	o.Mode = mode
	found := make(map[string]bool)
	for _, p := range prms {
		found[p.N] = true
		switch p.N {
		case "kn":
			o.Kn = p.V
		case "ks":
			o.Ks = p.V
		case "ft0":
			o.Ft0 = p.V
		case "gfI":
			o.GfI = p.V
		case "gfII":
			o.GfII = p.V
		case "c0":
			o.C0 = p.V
		case "tanfi0":
			o.Tanfi0 = p.V
		case "tanfir":
			o.Tanfir = p.V
		case "tanpsi":
			o.Tanpsi = p.V
		case "Cnn":
			o.Cnn = p.V
		case "Css":
			o.Css = p.V
		case "Cn":
			o.Cn = p.V
		case "sic":
			o.Sic = p.V
		case "spc":
			o.Spc = p.V
		case "smc":
			o.Smc = p.V
		case "src":
			o.Src = p.V
		case "kp":
			o.Kp = p.V
		case "km":
			o.Km = p.V
		case "kr":
			o.Kr = p.V
		default:
			return chk.Err("masonry02: parameter named %q is incorrect\n", p.N)
		}
	}
	for _, key := range []string{"kn", "ks", "ft0", "gfI", "gfII", "c0", "tanfi0", "tanfir", "tanpsi",
		"Cnn", "Css", "Cn", "sic", "spc", "smc", "src", "kp", "km", "kr"} {
		if !found[key] {
			return cfgErr(o.Name(), "parameter %q is required", key)
		}
	}
	if o.Kn <= 0 || o.Ks <= 0 {
		return cfgErr(o.Name(), "stiffnesses must be positive; kn = %g, ks = %g", o.Kn, o.Ks)
	}
	if o.Ft0 <= 0 || o.C0 <= 0 || o.GfI <= 0 || o.GfII <= 0 {
		return cfgErr(o.Name(), "\"ft0\", \"c0\", \"gfI\" and \"gfII\" must be positive")
	}
	if o.Sic <= 0 || o.Kp <= 0 || o.Km <= o.Kp {
		return cfgErr(o.Name(), "cap requires sic > 0 and 0 < kp < km; sic = %g, kp = %g, km = %g", o.Sic, o.Kp, o.Km)
	}
	if o.Smc == o.Src {
		return cfgErr(o.Name(), "\"smc\" and \"src\" must differ")
	}
	o.help = o.GfI * o.C0 / (o.GfII * o.Ft0)
	o.sc = math.Max(o.Ft0, o.C0)
	return
}

// GetPrms gets (an example) of parameters
func (o Masonry02) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "kn", V: 2e11},
		&dbf.P{N: "ks", V: 0.9e11},
		&dbf.P{N: "ft0", V: 0.16e6},
		&dbf.P{N: "gfI", V: 12},
		&dbf.P{N: "gfII", V: 50},
		&dbf.P{N: "c0", V: 0.224e6},
		&dbf.P{N: "tanfi0", V: 0.75},
		&dbf.P{N: "tanfir", V: 0.75},
		&dbf.P{N: "tanpsi", V: 0},
		&dbf.P{N: "Cnn", V: 1},
		&dbf.P{N: "Css", V: 9},
		&dbf.P{N: "Cn", V: 0},
		&dbf.P{N: "sic", V: 3.5e6},
		&dbf.P{N: "spc", V: 10.5e6},
		&dbf.P{N: "smc", V: 5e6},
		&dbf.P{N: "src", V: 1e6},
		&dbf.P{N: "kp", V: 0.09e-3},
		&dbf.P{N: "km", V: 0.49e-3},
		&dbf.P{N: "kr", V: 0.75e-3},
	}
}

// InitIntVars allocates the state of pt
func (o *Masonry02) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *Masonry02) history(pt *IntPoint) (*History[*MasonryData], error) {
	return Get(pt, o.Name(), newMasonryData)
}

// Tension returns the tensile strength ft(k1)
func (o *Masonry02) Tension(k1 float64) float64 {
	return o.Ft0 * math.Exp(-o.Ft0*k1/o.GfI)
}

// Cohesion returns c(k2) and tanφ(k2)
func (o *Masonry02) Cohesion(k2 float64) (c, tanfi float64) {
	c = o.C0 * math.Exp(-o.C0*k2/o.GfII)
	tanfi = o.Tanfi0 + (o.Tanfir-o.Tanfi0)*(o.C0-c)/o.C0
	return
}

// CapStrength returns the compressive strength σc(k3)
func (o *Masonry02) CapStrength(k float64) float64 {
	switch {
	case k <= 0:
		return o.Sic
	case k < o.Kp:
		return (o.Sic-o.Spc)*k*k/o.Kp/o.Kp - 2.0*(o.Sic-o.Spc)*k/o.Kp + o.Sic
	case k < o.Km:
		h := (k - o.Kp) / (o.Km - o.Kp)
		return o.Spc + (o.Smc-o.Spc)*h*h
	}
	m := 2.0 * (o.Smc - o.Spc) / (o.Km - o.Kp)
	return o.Src + (o.Smc-o.Src)*math.Exp(m*(k-o.Km)/(o.Smc-o.Src))
}

// CapGradient returns the secant gradient of the cap law
func (o *Masonry02) CapGradient(k float64) float64 {
	switch {
	case k < 0:
		return 0
	case k == 0:
		return -2.0 * (o.Sic - o.Spc) / o.Kp
	case k < o.Km:
		return (o.CapStrength(k) - o.Sic) / k
	}
	return (o.CapStrength(k) - o.Src) / k
}

// Yield computes the yield function isurf ∈ {0,1,2}
func (o *Masonry02) Yield(isurf int, σ, k []float64) float64 {
	switch isurf {
	case 0:
		return σ[0] - o.Tension(k[0])
	case 1:
		c, tanfi := o.Cohesion(k[1])
		return math.Abs(σ[1]) + σ[0]*tanfi - c
	}
	st := o.CapStrength(k[2])
	return o.Cnn*σ[0]*σ[0] + o.Css*σ[1]*σ[1] + o.Cn*σ[0] - st*st
}

// flow computes the gradient of the plastic potential of surface isurf
func (o *Masonry02) flow(g []float64, isurf int, σ []float64) {
	switch isurf {
	case 0:
		g[0], g[1] = 1, 0
	case 1:
		g[0], g[1] = o.Tanpsi, sgn(σ[1])
	default:
		g[0], g[1] = 2.0*o.Cnn*σ[0]+o.Cn, 2.0*o.Css*σ[1]
	}
}

// normal computes the gradient of yield function isurf w.r.t σ
func (o *Masonry02) normal(n []float64, isurf int, σ, k []float64) {
	if isurf == 1 {
		_, tanfi := o.Cohesion(k[1])
		n[0], n[1] = tanfi, sgn(σ[1])
		return
	}
	o.flow(n, isurf, σ)
}

// HardeningIncrement computes Δk for the multipliers Δλ of the active surfaces
func (o *Masonry02) HardeningIncrement(Δk []float64, σ, Δλ []float64, active []bool) {
	Δk[0], Δk[1], Δk[2] = 0, 0, 0
	l1, l2 := Δλ[0], Δλ[1]
	switch {
	case active[0] && active[1]:
		switch {
		case l1 > 0 && l2 > 0:
			Δk[0] = math.Sqrt(l1*l1 + o.help*l2*o.help*l2)
			Δk[1] = math.Sqrt(l1/o.help*l1/o.help + l2*l2)
		case l1 > 0:
			Δk[0], Δk[1] = l1, l1/o.help
		case l2 > 0:
			Δk[0], Δk[1] = o.help*l2, l2
		}
	case active[0]:
		if l1 > 0 {
			Δk[0], Δk[1] = l1, l1/o.help
		}
	case active[1]:
		if l2 > 0 {
			Δk[0], Δk[1] = o.help*l2, l2
		}
	}
	if active[2] && Δλ[2] > 0 {
		p1 := 2.0*o.Cnn*σ[0] + o.Cn
		p2 := 2.0 * o.Css * σ[1]
		Δk[2] = Δλ[2] * math.Sqrt(p1*p1+p2*p2)
	}
}

// scales of multipliers (λ·kn·gs/sc) and of yield values (f/fs)
func (o *Masonry02) gscale(isurf int) float64 {
	if isurf == 2 {
		return o.Sic
	}
	return 1
}

func (o *Masonry02) fscale(isurf int) float64 {
	if isurf == 2 {
		return o.Sic * o.sc
	}
	return o.sc
}

// returnMap computes the tractions, plastic jumps and hardening variables of the
// state c subjected to the total jump ε using a closest-point projection
func (o *Masonry02) returnMap(c *MasonryData, ε []float64) (σ, εp, k []float64, err error) {
	D := []float64{o.Kn, o.Ks}
	tr := []float64{D[0] * (ε[0] - c.EpsP[0]), D[1] * (ε[1] - c.EpsP[1])}
	σ = append([]float64{}, tr...)
	εp = append([]float64{}, c.EpsP...)
	k = append([]float64{}, c.K...)

	// elastic
	active := make([]bool, 3)
	nact := 0
	for i := 0; i < 3; i++ {
		if o.Yield(i, tr, c.K)/o.fscale(i) > MASONRY_TOL {
			active[i] = true
			nact++
		}
	}
	if nact == 0 {
		return
	}

	// active-set iterations
	Δλ := make([]float64, 3)
	g, n := make([]float64, 2), make([]float64, 2)
	for pass := 0; pass < MASONRY_NPASS; pass++ {
		idx := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			if active[i] {
				idx = append(idx, i)
			}
		}

		// initial values from the linearised yield conditions
		x := make([]float64, 2+len(idx))
		x[0], x[1] = tr[0]/o.sc, tr[1]/o.sc
		for j, i := range idx {
			o.flow(g, i, tr)
			o.normal(n, i, tr, c.K)
			den := n[0]*D[0]*g[0] + n[1]*D[1]*g[1]
			if den > 0 {
				x[2+j] = math.Max(o.Yield(i, tr, c.K)/den, 0) * o.Kn * o.gscale(i) / o.sc
			}
		}

		// unknowns: scaled tractions and multipliers
		unpack := func(x []float64) (s, λ, kk []float64) {
			s = []float64{x[0] * o.sc, x[1] * o.sc}
			λ = make([]float64, 3)
			for j, i := range idx {
				λ[i] = x[2+j] * o.sc / (o.Kn * o.gscale(i))
			}
			Δk := make([]float64, 3)
			o.HardeningIncrement(Δk, s, λ, active)
			kk = []float64{c.K[0] + Δk[0], c.K[1] + Δk[1], c.K[2] + Δk[2]}
			return
		}
		res := func(r, x []float64) {
			s, λ, kk := unpack(x)
			gg := make([]float64, 2)
			for a := 0; a < 2; a++ {
				r[a] = s[a] - tr[a]
			}
			for _, i := range idx {
				o.flow(gg, i, s)
				for a := 0; a < 2; a++ {
					r[a] += D[a] * λ[i] * gg[a]
				}
			}
			r[0] /= o.sc
			r[1] /= o.sc
			for j, i := range idx {
				r[2+j] = o.Yield(i, s, kk) / o.fscale(i)
			}
		}
		solver := num.NewtonN{Tol: MASONRY_TOL, MaxIt: MASONRY_NIT, Step: 1e-8}
		if _, err = solver.Solve(x, res, nil); err != nil {
			return nil, nil, nil, fmt.Errorf("return mapping with active surfaces %v: %v: %w", idx, err, ErrNoConvergence)
		}
		s, λ, kk := unpack(x)
		copy(Δλ, λ)

		// drop the most negative multiplier
		worst, wval := -1, -MASONRY_TOL
		for j, i := range idx {
			if x[2+j] < wval {
				worst, wval = i, x[2+j]
			}
		}
		if worst >= 0 {
			active[worst] = false
			nact--
			if nact == 0 {
				return nil, nil, nil, fmt.Errorf("return mapping: empty active set: %w", ErrNoConvergence)
			}
			continue
		}

		// activate violated surfaces
		violated := false
		for i := 0; i < 3; i++ {
			if !active[i] && o.Yield(i, s, kk)/o.fscale(i) > MASONRY_TOL {
				active[i] = true
				nact++
				violated = true
			}
		}
		if violated {
			continue
		}

		// converged
		copy(σ, s)
		copy(k, kk)
		for _, i := range idx {
			o.flow(g, i, s)
			εp[0] += Δλ[i] * g[0]
			εp[1] += Δλ[i] * g[1]
		}
		return
	}
	return nil, nil, nil, fmt.Errorf("return mapping: active set did not settle after %d passes: %w", MASONRY_NPASS, ErrNoConvergence)
}

// EvaluateStress computes the tractions corresponding to the jump ε
func (o *Masonry02) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
	if err = checkPoint(o.Name(), o.Mode, pt, ε); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h, err := o.history(pt)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h.InitTemp()
	t := h.Temp
	σ, εp, k, err := o.returnMap(h.Committed, ε)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	copy(t.Eps, ε)
	copy(t.Sig, σ)
	copy(t.EpsP, εp)
	copy(t.K, k)
	return append([]float64{}, σ...), nil
}

// EvaluateTangent computes the consistent tangent by differentiating the return
// mapping from the committed state. Elastic and Secant return diag(kn, ks)
func (o *Masonry02) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	tsr.Fill(D, 0)
	if resp != Tangent {
		D[0][0], D[1][1] = o.Kn, o.Ks
		return nil
	}
	h, err := o.history(pt)
	if err != nil {
		return evalErr(o.Name(), pt, err)
	}
	var failed error
	J := mat.NewDense(2, 2, nil)
	fd.Jacobian(J, func(σ, ε []float64) {
		s, _, _, e := o.returnMap(h.Committed, ε)
		if e != nil {
			failed = e
			σ[0], σ[1] = 0, 0
			return
		}
		copy(σ, s)
	}, h.Temp.Eps, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    1e-4 * o.Ft0 / o.Kn,
	})
	if failed != nil {
		return evalErr(o.Name(), pt, failed)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			D[i][j] = J.At(i, j)
		}
	}
	return nil
}

// Outputs returns internal variables of the trial state
func (o *Masonry02) Outputs(pt *IntPoint) map[string]float64 {
	h, err := o.history(pt)
	if err != nil {
		return nil
	}
	t := h.Temp
	return map[string]float64{
		"k1":    t.K[0],
		"k2":    t.K[1],
		"k3":    t.K[2],
		"epsPn": t.EpsP[0],
		"epsPs": t.EpsP[1],
	}
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
