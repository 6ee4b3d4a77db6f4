// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Ipoint holds integration point data: natural coordinates and weight
//  Ipoint == [r, s, t, w]
type Ipoint []float64

// W returns the weight
func (o Ipoint) W() float64 { return o[3] }

// gaussLegendre returns the n points and weights of the Gauss-Legendre rule in [-1,1]
func gaussLegendre(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	return
}

// ipsLin returns the n-point Gauss-Legendre rule for lines
func ipsLin(n int) (ips []Ipoint) {
	x, w := gaussLegendre(n)
	for i := 0; i < n; i++ {
		ips = append(ips, Ipoint{x[i], 0, 0, w[i]})
	}
	return
}

// ipsQua returns the n×n tensor-product rule for quadrilaterals
func ipsQua(n int) (ips []Ipoint) {
	x, w := gaussLegendre(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			ips = append(ips, Ipoint{x[i], x[j], 0, w[i] * w[j]})
		}
	}
	return
}

// ipsHex returns the n×n×n tensor-product rule for hexahedra
func ipsHex(n int) (ips []Ipoint) {
	x, w := gaussLegendre(n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				ips = append(ips, Ipoint{x[i], x[j], x[k], w[i] * w[j] * w[k]})
			}
		}
	}
	return
}

// triangle rules (weights sum to 1/2)
var ipsTri = map[int][]Ipoint{
	1: {
		{1.0 / 3.0, 1.0 / 3.0, 0, 1.0 / 2.0},
	},
	3: {
		{1.0 / 6.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{2.0 / 3.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{1.0 / 6.0, 2.0 / 3.0, 0, 1.0 / 6.0},
	},
	6: {
		{0.445948490915965, 0.445948490915965, 0, 0.111690794839005},
		{0.108103018168070, 0.445948490915965, 0, 0.111690794839005},
		{0.445948490915965, 0.108103018168070, 0, 0.111690794839005},
		{0.091576213509771, 0.091576213509771, 0, 0.054975871827661},
		{0.816847572980459, 0.091576213509771, 0, 0.054975871827661},
		{0.091576213509771, 0.816847572980459, 0, 0.054975871827661},
	},
	7: {
		{1.0 / 3.0, 1.0 / 3.0, 0, 9.0 / 80.0},
		{0.059715871789770, 0.470142064105115, 0, 0.066197076394253},
		{0.470142064105115, 0.059715871789770, 0, 0.066197076394253},
		{0.470142064105115, 0.470142064105115, 0, 0.066197076394253},
		{0.101286507323456, 0.101286507323456, 0, 0.062969590272414},
		{0.797426985353087, 0.101286507323456, 0, 0.062969590272414},
		{0.101286507323456, 0.797426985353087, 0, 0.062969590272414},
	},
}

// tetrahedron rules (weights sum to 1/6)
var ipsTet = map[int][]Ipoint{
	1: {
		{1.0 / 4.0, 1.0 / 4.0, 1.0 / 4.0, 1.0 / 6.0},
	},
	4: {
		{0.58541019662496852, 0.1381966011250105, 0.1381966011250105, 1.0 / 24.0},
		{0.1381966011250105, 0.58541019662496852, 0.1381966011250105, 1.0 / 24.0},
		{0.1381966011250105, 0.1381966011250105, 0.58541019662496852, 1.0 / 24.0},
		{0.1381966011250105, 0.1381966011250105, 0.1381966011250105, 1.0 / 24.0},
	},
	5: {
		{1.0 / 4.0, 1.0 / 4.0, 1.0 / 4.0, -2.0 / 15.0},
		{1.0 / 6.0, 1.0 / 6.0, 1.0 / 6.0, 3.0 / 40.0},
		{1.0 / 6.0, 1.0 / 6.0, 1.0 / 2.0, 3.0 / 40.0},
		{1.0 / 6.0, 1.0 / 2.0, 1.0 / 6.0, 3.0 / 40.0},
		{1.0 / 2.0, 1.0 / 6.0, 1.0 / 6.0, 3.0 / 40.0},
	},
}

// buildIps computes the integration rule with nip points for the given basic geometry.
// It returns nil if the rule is not available
func buildIps(basic string, nip int) []Ipoint {
	switch basic {
	case "lin2":
		if nip >= 1 && nip <= 5 {
			return ipsLin(nip)
		}
	case "qua4":
		for n := 1; n <= 5; n++ {
			if n*n == nip {
				return ipsQua(n)
			}
		}
	case "hex8":
		for n := 1; n <= 5; n++ {
			if n*n*n == nip {
				return ipsHex(n)
			}
		}
	case "tri3":
		return ipsTri[nip]
	case "tet4":
		return ipsTet[nip]
	}
	return nil
}

// GetIps returns the integration points for a shape. nip == 0 selects the default rule
func (o *Factory) GetIps(geoType string, nip int) (ips []Ipoint, err error) {
	s, ok := o.shapes[geoType]
	if !ok {
		return nil, chk.Err("cannot find shape %q", geoType)
	}
	if nip == 0 {
		nip = s.DefaultNip
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	key := ipsKey{s.BasicType, nip}
	if ips, ok = o.ips[key]; ok {
		return
	}
	ips = buildIps(s.BasicType, nip)
	if ips == nil {
		return nil, chk.Err("integration rule with nip=%d is not available for %q", nip, geoType)
	}
	o.ips[key] = ips
	return
}
