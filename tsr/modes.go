// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tsr implements small dense linear algebra and tensor helpers for
// constitutive updates: Voigt forms of each material mode, principal values and
// directions of symmetric tensors, inverses and solves
package tsr

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Mode defines the stress-state dimensionality of an integration point
type Mode int

// material modes
const (
	Mode1D      Mode = iota // uniaxial
	PlaneStress             // σzz = 0
	PlaneStrain             // εzz = 0
	Mode3D                  // full 3D continuum
	Interface2D             // line interface: [n, s]
	Interface3D             // surface interface: [n, s1, s2]
)

// full Voigt form indices: [xx, yy, zz, yz, xz, xy]
const (
	XX = 0
	YY = 1
	ZZ = 2
	YZ = 3
	XZ = 4
	XY = 5
)

// reduced-to-full index maps for the continuum modes
var voigtMaps = map[Mode][]int{
	Mode1D:      {XX},
	PlaneStress: {XX, YY, XY},
	PlaneStrain: {XX, YY, ZZ, XY},
	Mode3D:      {XX, YY, ZZ, YZ, XZ, XY},
}

var modeNames = map[Mode]string{
	Mode1D:      "1d",
	PlaneStress: "pstress",
	PlaneStrain: "pstrain",
	Mode3D:      "3d",
	Interface2D: "iface2d",
	Interface3D: "iface3d",
}

// String returns the short name of the mode; e.g. "pstress"
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode returns the mode corresponding to a short name
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m, s := range modeNames {
		if s == key {
			return m, nil
		}
	}
	return Mode3D, chk.Err("material mode %q is not available", name)
}

// Size returns the number of components of the reduced Voigt form
func (m Mode) Size() int {
	switch m {
	case Interface2D:
		return 2
	case Interface3D:
		return 3
	}
	return len(voigtMaps[m])
}

// Ndim returns the number of spatial dimensions handled by normal blocks:
// 1 for 1D, 2 for plane stress and 3 otherwise
func (m Mode) Ndim() int {
	switch m {
	case Mode1D:
		return 1
	case PlaneStress, Interface2D:
		return 2
	}
	return 3
}

// IsInterface tells whether the mode is an interface (traction-separation) mode
func (m Mode) IsInterface() bool {
	return m == Interface2D || m == Interface3D
}

// VoigtMap returns the indices of the reduced components in the full form.
// Interface modes have no continuum map and return nil
func (m Mode) VoigtMap() []int {
	return voigtMaps[m]
}

// Expand converts a reduced vector into the full 6-component form. Missing
// components are zero
func Expand(m Mode, reduced []float64) (full []float64) {
	full = make([]float64, 6)
	idx := voigtMaps[m]
	if len(idx) != len(reduced) {
		chk.Panic("cannot expand vector of size %d with mode %v", len(reduced), m)
	}
	for i, I := range idx {
		full[I] = reduced[i]
	}
	return
}

// Contract extracts the reduced vector of mode m from a full 6-component vector
func Contract(m Mode, full []float64) (reduced []float64) {
	idx := voigtMaps[m]
	reduced = make([]float64, len(idx))
	for i, I := range idx {
		reduced[i] = full[I]
	}
	return
}

// ExpandMatrix copies a reduced square matrix into a full 6x6 one
func ExpandMatrix(m Mode, reduced [][]float64) (full [][]float64) {
	full = Alloc(6, 6)
	idx := voigtMaps[m]
	for i, I := range idx {
		for j, J := range idx {
			full[I][J] = reduced[i][j]
		}
	}
	return
}

// ContractMatrix extracts the reduced block of mode m from a full 6x6 matrix.
// Use CondensePlaneStress for a statically condensed plane-stress stiffness
func ContractMatrix(m Mode, full [][]float64) (reduced [][]float64) {
	idx := voigtMaps[m]
	reduced = Alloc(len(idx), len(idx))
	for i, I := range idx {
		for j, J := range idx {
			reduced[i][j] = full[I][J]
		}
	}
	return
}

// ZzStrainPlaneStress returns the out-of-plane strain of an isotropic elastic
// body under plane stress: εzz = -ν(εxx+εyy)/(1-ν)
func ZzStrainPlaneStress(εxx, εyy, ν float64) float64 {
	return -ν * (εxx + εyy) / (1.0 - ν)
}

// FullStrain returns the full strain vector of a reduced one, filling the lateral
// components implied by the mode for an isotropic body with Poisson ratio ν
func FullStrain(m Mode, reduced []float64, ν float64) (full []float64) {
	full = Expand(m, reduced)
	switch m {
	case PlaneStress:
		full[ZZ] = ZzStrainPlaneStress(full[XX], full[YY], ν)
	case Mode1D:
		full[YY] = -ν * full[XX]
		full[ZZ] = -ν * full[XX]
	}
	return
}
