// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"fmt"
	"math"

	"github.com/cpmech/femcore/shp"
	"github.com/cpmech/femcore/tsr"
)

// Frame holds a local coordinate system. The rows of Q are the unit vectors of the
// local axes expressed in the global system; Q[0] is the normal direction
type Frame struct {
	Q      [][]float64 // [ndim][ndim] rotation matrix: local = Q · global
	Centre []float64   // origin of the local system
	Length float64     // distance between particles (cohesive surfaces)
	Area   float64     // contact area (cohesive surfaces)
}

// ToLocal returns Q·v
func (o *Frame) ToLocal(v []float64) (l []float64) {
	l = make([]float64, len(o.Q))
	tsr.MatVecMul(l, 1, o.Q, v)
	return
}

// ToGlobal returns Qᵀ·l
func (o *Frame) ToGlobal(l []float64) (v []float64) {
	v = make([]float64, len(o.Q))
	for i := range o.Q {
		for j := range o.Q {
			v[j] += o.Q[i][j] * l[i]
		}
	}
	return
}

// LineInterfaceFrame returns the local system [n, s] of a 2D line interface with
// tangent t: s = t/|t| and n is s rotated by +90°
func LineInterfaceFrame(t []float64) (*Frame, error) {
	l := math.Hypot(t[0], t[1])
	if l <= shp.MINDET {
		return nil, fmt.Errorf("line interface: tangent length = %g: %w", l, shp.ErrDegenerate)
	}
	s := []float64{t[0] / l, t[1] / l}
	return &Frame{Q: [][]float64{{-s[1], s[0]}, s}}, nil
}

// TriInterfaceFrame returns the local system [n, s1, s2] of a triangular interface
// given the coordinates of its first three (mid-surface) vertices x[3][3]:
// s1 points from vertex 0 to vertex 1, n = s1 × (x2-x0) and s2 = n × s1
func TriInterfaceFrame(x [][]float64) (*Frame, error) {
	s1 := make([]float64, 3)
	t2 := make([]float64, 3)
	for i := 0; i < 3; i++ {
		s1[i] = x[i][1] - x[i][0]
		t2[i] = x[i][2] - x[i][0]
	}
	if tsr.Normalize(s1) <= shp.MINDET {
		return nil, fmt.Errorf("triangle interface: coincident vertices: %w", shp.ErrDegenerate)
	}
	n := make([]float64, 3)
	tsr.Cross3(n, s1, t2)
	if tsr.Normalize(n) <= shp.MINDET {
		return nil, fmt.Errorf("triangle interface: collinear vertices: %w", shp.ErrDegenerate)
	}
	s2 := make([]float64, 3)
	tsr.Cross3(s2, n, s1)
	return &Frame{Q: [][]float64{n, s1, s2}}, nil
}

// CohesiveFrame returns the local system of a cohesive contact between two spherical
// particles A and B with radii rA and rB. The normal points from A to B; the centre
// lies on AB such that it is equidistant to the two particle surfaces
func CohesiveFrame(xA, xB []float64, rA, rB, area float64) (*Frame, error) {
	if area < 0 {
		return nil, fmt.Errorf("cohesive surface: negative area %g", area)
	}
	n := make([]float64, 3)
	for i := 0; i < 3; i++ {
		n[i] = xB[i] - xA[i]
	}
	L := tsr.Normalize(n)
	if L <= shp.MINDET {
		return nil, fmt.Errorf("cohesive surface: particles coincide: %w", shp.ErrDegenerate)
	}
	aux := 0.5 + (rA-rB)/(2.0*L)
	c := make([]float64, 3)
	for i := 0; i < 3; i++ {
		c[i] = aux*xB[i] + (1.0-aux)*xA[i]
	}

	// in-plane axes: pick the global axis least aligned with n
	m := []float64{1, 0, 0}
	if math.Abs(n[0]) > math.Abs(n[1]) {
		m = []float64{0, 1, 0}
	}
	t := make([]float64, 3)
	s := make([]float64, 3)
	tsr.Cross3(t, n, m)
	tsr.Normalize(t)
	tsr.Cross3(s, t, n)
	tsr.Normalize(s)
	return &Frame{Q: [][]float64{n, s, t}, Centre: c, Length: L, Area: area}, nil
}

// CohesiveStrain returns the local strain-like jump [n, s, t] of a cohesive contact
// given the generalised displacements of the particles
//  d = [uA(3), θA(3), uB(3), θB(3)]
//  xA, xB -- particle centres
func (o *Frame) CohesiveStrain(xA, xB, d []float64) (ε []float64) {
	var a, b [3]float64
	for i := 0; i < 3; i++ {
		a[i] = xA[i] - o.Centre[i]
		b[i] = xB[i] - o.Centre[i]
	}

	// displacement of the centre as seen from each particle (rigid body motion)
	jump := make([]float64, 3)
	for i := 0; i < 3; i++ {
		jump[i] = d[6+i] - d[i]
	}
	jump[0] += -b[2]*d[10] + b[1]*d[11] + a[2]*d[4] - a[1]*d[5]
	jump[1] += b[2]*d[9] - b[0]*d[11] - a[2]*d[3] + a[0]*d[5]
	jump[2] += -b[1]*d[9] + b[0]*d[10] + a[1]*d[3] - a[0]*d[4]

	ε = o.ToLocal(jump)
	for i := range ε {
		ε[i] /= o.Length
	}
	return
}
