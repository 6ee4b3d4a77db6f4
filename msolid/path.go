// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"encoding/json"
	"os"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
)

// Path holds a sequence of strain states, each one reached after a time step
type Path struct {
	Eps [][]float64 `json:"eps"` // strain states [nsteps][nsig]
	Dt  []float64   `json:"dt"`  // time steps [nsteps]
}

// Size returns the number of steps
func (o *Path) Size() int { return len(o.Eps) }

// Add adds a strain state reached after Δt
func (o *Path) Add(ε []float64, Δt float64) {
	o.Eps = append(o.Eps, append([]float64{}, ε...))
	o.Dt = append(o.Dt, Δt)
}

// Linear adds nincs equal increments from the last state (or zero) to ε
func (o *Path) Linear(ε []float64, nincs int, Δt float64) {
	start := make([]float64, len(ε))
	if n := len(o.Eps); n > 0 {
		copy(start, o.Eps[n-1])
	}
	for k := 1; k <= nincs; k++ {
		s := float64(k) / float64(nincs)
		e := make([]float64, len(ε))
		for i := range ε {
			e[i] = start[i] + s*(ε[i]-start[i])
		}
		o.Add(e, Δt)
	}
}

// Check checks the sizes of strain states against mode m
func (o *Path) Check(m tsr.Mode) error {
	if len(o.Dt) != len(o.Eps) {
		return chk.Err("path: number of time steps (%d) must equal the number of strain states (%d)", len(o.Dt), len(o.Eps))
	}
	for k, ε := range o.Eps {
		if len(ε) != m.Size() {
			return chk.Err("path: strain state %d has %d components; mode %v requires %d", k, len(ε), m, m.Size())
		}
	}
	return nil
}

// ReadJson reads path from a JSON file
func (o *Path) ReadJson(m tsr.Mode, fn string) (err error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return
	}
	if err = json.Unmarshal(b, o); err != nil {
		return chk.Err("path: cannot unmarshal %q: %v", fn, err)
	}
	return o.Check(m)
}
