// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "strings"

// Capability is an optional service a cell may provide
type Capability uint

// capabilities
const (
	CapCrackBand     Capability = 1 << iota // directional (projected) characteristic length
	CapInterface                            // mid-surface of a zero-thickness interface
	CapExtrapolation                        // integration point to node extrapolation
	CapPointLocation                        // inverse mapping of real points
)

var capNames = []struct {
	c    Capability
	name string
}{
	{CapCrackBand, "crackband"},
	{CapInterface, "interface"},
	{CapExtrapolation, "extrapolation"},
	{CapPointLocation, "pointlocation"},
}

// CapSet is the set of capabilities declared by a cell
type CapSet uint

// NewCapSet returns a set with the given capabilities
func NewCapSet(caps ...Capability) (o CapSet) {
	for _, c := range caps {
		o |= CapSet(c)
	}
	return
}

// Has tells whether c is in the set
func (o CapSet) Has(c Capability) bool { return o&CapSet(c) != 0 }

// String returns the names of the capabilities in the set
func (o CapSet) String() string {
	var l []string
	for _, cn := range capNames {
		if o.Has(cn.c) {
			l = append(l, cn.name)
		}
	}
	return "{" + strings.Join(l, ",") + "}"
}

// CrackBand computes the crack-band length of a cell in a given direction
type CrackBand interface {
	CharLength(r, dir []float64) float64
}

// PointLocator finds the natural coordinates of a real point
type PointLocator interface {
	Locate(y []float64) (r []float64, inside bool)
}

// Extrapolator extrapolates integration point values to nodes
type Extrapolator interface {
	Extrapolate(ipvals []float64) (nodvals []float64, err error)
}

// InterfaceFrame computes the local frame and the displacement jump of interfaces
type InterfaceFrame interface {
	Frame(r []float64) (*Frame, error)
	Jump(r []float64, u [][]float64) ([]float64, error)
}

// AsCrackBand returns the crack-band view of c, if declared
func AsCrackBand(c *Cell) (CrackBand, bool) {
	if c == nil || !c.Caps.Has(CapCrackBand) {
		return nil, false
	}
	return c, true
}

// AsPointLocator returns the point-location view of c, if declared
func AsPointLocator(c *Cell) (PointLocator, bool) {
	if c == nil || !c.Caps.Has(CapPointLocation) {
		return nil, false
	}
	return c, true
}

// AsExtrapolator returns the extrapolation view of c, if declared
func AsExtrapolator(c *Cell) (Extrapolator, bool) {
	if c == nil || !c.Caps.Has(CapExtrapolation) {
		return nil, false
	}
	return c, true
}

// AsInterface returns the interface view of c, if declared
func AsInterface(c *Cell) (InterfaceFrame, bool) {
	if c == nil || !c.Caps.Has(CapInterface) {
		return nil, false
	}
	return c, true
}
