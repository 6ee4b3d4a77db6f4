// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements constitutive models for solids and interfaces together
// with the per-point history records they update
/*
 *  Each evaluation restarts from the committed state:
 *
 *     temp := committed
 *     temp := update(temp, ε_new, Δt)      EvaluateStress (idempotent)
 *     D    := dσ/dε (temp)                 EvaluateTangent
 *     committed := temp                    Commit, after global convergence
 */
package msolid

import (
	"fmt"
	"sort"

	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Response selects the stiffness returned by EvaluateTangent
type Response int

// responses
const (
	Elastic Response = iota
	Secant
	Tangent
)

// String returns the name of the response
func (o Response) String() string {
	switch o {
	case Elastic:
		return "elastic"
	case Secant:
		return "secant"
	}
	return "tangent"
}

// Model defines constitutive models. Models hold parameters only and may be used
// concurrently by many points; all history lives in IntPoint.State
type Model interface {
	Init(mode tsr.Mode, prms dbf.Params) error                                    // initialises model
	GetPrms() dbf.Params                                                          // gets (an example) of parameters
	Name() string                                                                 // name in registry
	InitIntVars(pt *IntPoint) error                                               // allocates the state of pt
	EvaluateStress(pt *IntPoint, ε []float64, Δt float64) ([]float64, error)      // trial stress for total strain ε
	EvaluateTangent(D [][]float64, pt *IntPoint, resp Response, Δt float64) error // stiffness at trial state
}

// Outputer is implemented by models reporting internal variables of the trial state
type Outputer interface {
	Outputs(pt *IntPoint) map[string]float64
}

// Allocator returns a new model
type Allocator func() Model

// Registry maps model names to allocators
type Registry struct {
	allocators map[string]Allocator
}

// NewRegistry returns a registry with all built-in models
func NewRegistry() *Registry {
	o := &Registry{allocators: make(map[string]Allocator)}
	o.allocators["linelast"] = func() Model { return new(LinElast) }
	o.allocators["isodamage"] = func() Model { return new(IsoDamage) }
	o.allocators["mazars"] = func() Model { return new(Mazars) }
	o.allocators["kelvin-chain"] = func() Model { return new(KelvinChain) }
	o.allocators["mps-damage"] = func() Model { return new(MpsDamage) }
	o.allocators["masonry02"] = func() Model { return new(Masonry02) }
	return o
}

// Register adds a new model
func (o *Registry) Register(name string, alloc Allocator) error {
	if _, ok := o.allocators[name]; ok {
		return chk.Err("model %q is already registered", name)
	}
	o.allocators[name] = alloc
	return nil
}

// New returns a new (uninitialised) model
func (o *Registry) New(name string) (Model, error) {
	allocator, ok := o.allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'msolid' database", name)
	}
	return allocator(), nil
}

// Alloc returns a new model initialised with mode and prms
func (o *Registry) Alloc(name string, mode tsr.Mode, prms dbf.Params) (Model, error) {
	mdl, err := o.New(name)
	if err != nil {
		return nil, err
	}
	if err = mdl.Init(mode, prms); err != nil {
		return nil, fmt.Errorf("cannot initialise model %q: %w", name, err)
	}
	return mdl, nil
}

// Names returns the sorted names of all registered models
func (o *Registry) Names() (l []string) {
	for name := range o.allocators {
		l = append(l, name)
	}
	sort.Strings(l)
	return
}

// checkPoint checks the mode of pt and the size of ε
func checkPoint(name string, mode tsr.Mode, pt *IntPoint, ε []float64) error {
	if pt.Mode != mode {
		return cfgErr(name, "point mode %v differs from model mode %v", pt.Mode, mode)
	}
	if ε != nil && len(ε) != mode.Size() {
		return cfgErr(name, "strain must have %d components; %d is invalid", mode.Size(), len(ε))
	}
	return nil
}
