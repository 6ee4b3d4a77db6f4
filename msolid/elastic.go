// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// ElasticD computes the isotropic elastic stiffness of mode m (reduced Voigt form,
// engineering shear strains)
func ElasticD(D [][]float64, m tsr.Mode, E, ν float64) {
	tsr.Fill(D, 0)
	switch m {
	case tsr.Mode1D:
		D[0][0] = E
	case tsr.PlaneStress:
		c := E / (1.0 - ν*ν)
		D[0][0], D[0][1] = c, c*ν
		D[1][0], D[1][1] = c*ν, c
		D[2][2] = c * (1.0 - ν) / 2.0
	default:
		λ := E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
		G := E / (2.0 * (1.0 + ν))
		full := tsr.Alloc(6, 6)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				full[i][j] = λ
			}
			full[i][i] = λ + 2.0*G
			full[3+i][3+i] = G
		}
		if m == tsr.Mode3D {
			for i := 0; i < 6; i++ {
				copy(D[i], full[i])
			}
			return
		}
		red := tsr.ContractMatrix(m, full)
		for i := range red {
			copy(D[i], red[i])
		}
	}
}

// ElasticC computes the isotropic elastic compliance of mode m
func ElasticC(C [][]float64, m tsr.Mode, E, ν float64) {
	tsr.Fill(C, 0)
	switch m {
	case tsr.Mode1D:
		C[0][0] = 1.0 / E
	case tsr.PlaneStress:
		C[0][0], C[0][1] = 1.0/E, -ν/E
		C[1][0], C[1][1] = -ν/E, 1.0/E
		C[2][2] = 2.0 * (1.0 + ν) / E
	default:
		idx := m.VoigtMap()
		for a, I := range idx {
			for b, J := range idx {
				switch {
				case I < 3 && J < 3 && I == J:
					C[a][b] = 1.0 / E
				case I < 3 && J < 3:
					C[a][b] = -ν / E
				case I == J:
					C[a][b] = 2.0 * (1.0 + ν) / E
				}
			}
		}
	}
}

// checkElastic checks E and ν
func checkElastic(name string, E, ν float64) error {
	if E <= 0 {
		return cfgErr(name, "parameter \"E\" must be positive; E = %g is invalid", E)
	}
	if ν < 0 || ν >= 0.5 {
		return cfgErr(name, "parameter \"nu\" must be in [0, 0.5); nu = %g is invalid", ν)
	}
	return nil
}

// ElasticData holds the state of elastic points
type ElasticData struct {
	Eps []float64 // strains
	Sig []float64 // stresses
}

// Copy returns a deep copy
func (o *ElasticData) Copy() *ElasticData {
	return &ElasticData{Eps: append([]float64{}, o.Eps...), Sig: append([]float64{}, o.Sig...)}
}

// Write writes all fields
func (o *ElasticData) Write(w *Writer) {
	w.VarFloats(o.Eps)
	w.VarFloats(o.Sig)
}

// Read reads all fields
func (o *ElasticData) Read(r *Reader) {
	o.Eps = r.VarFloats()
	o.Sig = r.VarFloats()
}

// LinElast implements isotropic linear elasticity
type LinElast struct {
	Mode tsr.Mode    // material mode
	E    float64     // Young's modulus
	Nu   float64     // Poisson's coefficient
	D    [][]float64 // stiffness
}

// Name returns the name in registry
func (o *LinElast) Name() string { return "linelast" }

// Init initialises model
func (o *LinElast) Init(mode tsr.Mode, prms dbf.Params) (err error) {
	if mode.IsInterface() {
		return cfgErr(o.Name(), "mode %v is not available", mode)
	}
	o.Mode = mode
	var hasE bool
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E, hasE = p.V, true
		case "nu":
			o.Nu = p.V
		default:
			return chk.Err("linelast: parameter named %q is incorrect\n", p.N)
		}
	}
	if !hasE {
		return cfgErr(o.Name(), "parameter \"E\" is required")
	}
	if err = checkElastic(o.Name(), o.E, o.Nu); err != nil {
		return
	}
	n := mode.Size()
	o.D = tsr.Alloc(n, n)
	ElasticD(o.D, mode, o.E, o.Nu)
	return
}

// GetPrms gets (an example) of parameters
func (o LinElast) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: 30000},
		&dbf.P{N: "nu", V: 0.2},
	}
}

// InitIntVars allocates the state of pt
func (o *LinElast) InitIntVars(pt *IntPoint) (err error) {
	_, err = o.history(pt)
	return
}

func (o *LinElast) history(pt *IntPoint) (*History[*ElasticData], error) {
	n := o.Mode.Size()
	return Get(pt, o.Name(), func() *ElasticData {
		return &ElasticData{Eps: make([]float64, n), Sig: make([]float64, n)}
	})
}

// EvaluateStress computes σ = D·ε
func (o *LinElast) EvaluateStress(pt *IntPoint, ε []float64, Δt float64) (σ []float64, err error) {
	if err = checkPoint(o.Name(), o.Mode, pt, ε); err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h, err := o.history(pt)
	if err != nil {
		return nil, evalErr(o.Name(), pt, err)
	}
	h.InitTemp()
	copy(h.Temp.Eps, ε)
	tsr.MatVecMul(h.Temp.Sig, 1, o.D, ε)
	return append([]float64{}, h.Temp.Sig...), nil
}

// EvaluateTangent returns D for all responses
func (o *LinElast) EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error {
	if err := checkPoint(o.Name(), o.Mode, pt, nil); err != nil {
		return evalErr(o.Name(), pt, err)
	}
	for i := range o.D {
		copy(D[i], o.D[i])
	}
	return nil
}
