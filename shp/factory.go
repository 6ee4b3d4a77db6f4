// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"sort"
	"sync"
)

// ipsKey identifies a cached integration rule
type ipsKey struct {
	basic string
	nip   int
}

// Factory holds all Shapes available and caches integration rules
type Factory struct {
	shapes map[string]*Shape
	ips    map[ipsKey][]Ipoint
	mu     sync.Mutex
}

// NewFactory returns a factory with all topologies registered
func NewFactory() (o *Factory) {
	o = &Factory{
		shapes: make(map[string]*Shape),
		ips:    make(map[ipsKey][]Ipoint),
	}
	for _, s := range []*Shape{
		newLin2(), newLin3(),
		newTri3(), newTri6(), newQua4(), newQua8(), newQua9(),
		newTet4(), newTet10(), newHex8(), newHex20(), newHex27(),
	} {
		o.add(s)
	}
	return
}

// add links sub-shapes and registers s. Lower-dimensional shapes must be added first
func (o *Factory) add(s *Shape) {
	if s.EdgeType != "" {
		s.edge = o.shapes[s.EdgeType].GetCopy()
	}
	if s.FaceType != "" {
		s.face = o.shapes[s.FaceType].GetCopy()
	}
	for _, verts := range s.FaceLocalVerts {
		if len(verts) > s.FaceNvertsMax {
			s.FaceNvertsMax = len(verts)
		}
	}
	s.init_scratchpad()
	o.shapes[s.Type] = s
}

// Get returns an existent Shape structure
//  Note: 1) returns nil on errors
//        2) use goroutineId > 0 to get a copy
func (o *Factory) Get(geoType string, goroutineId int) *Shape {
	s, ok := o.shapes[geoType]
	if !ok {
		return nil
	}
	if goroutineId > 0 {
		return s.GetCopy()
	}
	return s
}

// Names returns the sorted names of all shapes
func (o *Factory) Names() (names []string) {
	for name := range o.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// lines ////////////////////////////////////////////////////////////////////////////////////////////

func newLin2() *Shape {
	nat := [][]float64{{-1, 1}}
	return &Shape{Type: "lin2", BasicType: "lin2", Gndim: 1, Nverts: 2, Ncorners: 2, DefaultNip: 2,
		NatCoords: nat, Func: tensorFunc(1, 1, nat)}
}

func newLin3() *Shape {
	nat := [][]float64{{-1, 1, 0}}
	return &Shape{Type: "lin3", BasicType: "lin2", Gndim: 1, Nverts: 3, Ncorners: 2, DefaultNip: 3,
		NatCoords: nat, Func: tensorFunc(2, 1, nat)}
}

// 2D ///////////////////////////////////////////////////////////////////////////////////////////////

var (
	triEdges3 = [][]int{{0, 1}, {1, 2}, {2, 0}}
	triEdges6 = [][]int{{0, 1, 3}, {1, 2, 4}, {2, 0, 5}}
	quaEdges4 = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	quaEdges8 = [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}}
)

func newTri3() *Shape {
	return &Shape{Type: "tri3", BasicType: "tri3", Gndim: 2, Nverts: 3, Ncorners: 3, Simplex: true, DefaultNip: 1,
		NatCoords: [][]float64{{0, 1, 0}, {0, 0, 1}},
		Func:      simplexFunc(2, nil),
		EdgeType:  "lin2", EdgeLocalVerts: triEdges3,
		FaceType: "lin2", FaceLocalVerts: triEdges3}
}

func newTri6() *Shape {
	return &Shape{Type: "tri6", BasicType: "tri3", Gndim: 2, Nverts: 6, Ncorners: 3, Simplex: true, DefaultNip: 3,
		NatCoords: [][]float64{{0, 1, 0, 0.5, 0.5, 0}, {0, 0, 1, 0, 0.5, 0.5}},
		Func:      simplexFunc(2, [][2]int{{0, 1}, {1, 2}, {2, 0}}),
		EdgeType:  "lin3", EdgeLocalVerts: triEdges6,
		FaceType: "lin3", FaceLocalVerts: triEdges6}
}

func newQua4() *Shape {
	nat := [][]float64{{-1, 1, 1, -1}, {-1, -1, 1, 1}}
	return &Shape{Type: "qua4", BasicType: "qua4", Gndim: 2, Nverts: 4, Ncorners: 4, DefaultNip: 4,
		NatCoords: nat, Func: tensorFunc(1, 2, nat),
		EdgeType: "lin2", EdgeLocalVerts: quaEdges4,
		FaceType: "lin2", FaceLocalVerts: quaEdges4}
}

func newQua8() *Shape {
	nat := [][]float64{{-1, 1, 1, -1, 0, 1, 0, -1}, {-1, -1, 1, 1, -1, 0, 1, 0}}
	return &Shape{Type: "qua8", BasicType: "qua4", Gndim: 2, Nverts: 8, Ncorners: 4, DefaultNip: 9,
		NatCoords: nat, Func: serendipityFunc(2, nat),
		EdgeType: "lin3", EdgeLocalVerts: quaEdges8,
		FaceType: "lin3", FaceLocalVerts: quaEdges8}
}

func newQua9() *Shape {
	nat := [][]float64{{-1, 1, 1, -1, 0, 1, 0, -1, 0}, {-1, -1, 1, 1, -1, 0, 1, 0, 0}}
	return &Shape{Type: "qua9", BasicType: "qua4", Gndim: 2, Nverts: 9, Ncorners: 4, DefaultNip: 9,
		NatCoords: nat, Func: tensorFunc(2, 2, nat),
		EdgeType: "lin3", EdgeLocalVerts: quaEdges8,
		FaceType: "lin3", FaceLocalVerts: quaEdges8}
}

// tetrahedra ///////////////////////////////////////////////////////////////////////////////////////

func newTet4() *Shape {
	return &Shape{Type: "tet4", BasicType: "tet4", Gndim: 3, Nverts: 4, Ncorners: 4, Simplex: true, DefaultNip: 1,
		NatCoords: [][]float64{
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
		Func:           simplexFunc(3, nil),
		EdgeType:       "lin2",
		EdgeLocalVerts: [][]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}},
		FaceType:       "tri3",
		FaceLocalVerts: [][]int{{0, 3, 2}, {0, 1, 3}, {0, 2, 1}, {1, 2, 3}},
	}
}

func newTet10() *Shape {
	return &Shape{Type: "tet10", BasicType: "tet4", Gndim: 3, Nverts: 10, Ncorners: 4, Simplex: true, DefaultNip: 4,
		NatCoords: [][]float64{
			{0, 1, 0, 0, 0.5, 0.5, 0, 0, 0.5, 0},
			{0, 0, 1, 0, 0, 0.5, 0.5, 0, 0, 0.5},
			{0, 0, 0, 1, 0, 0, 0, 0.5, 0.5, 0.5},
		},
		Func:           simplexFunc(3, [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}),
		EdgeType:       "lin3",
		EdgeLocalVerts: [][]int{{0, 1, 4}, {1, 2, 5}, {2, 0, 6}, {0, 3, 7}, {1, 3, 8}, {2, 3, 9}},
		FaceType:       "tri6",
		FaceLocalVerts: [][]int{{0, 3, 2, 7, 9, 6}, {0, 1, 3, 4, 8, 7}, {0, 2, 1, 6, 5, 4}, {1, 2, 3, 5, 9, 8}},
	}
}

// hexahedra ////////////////////////////////////////////////////////////////////////////////////////
//
//  corners 0-3 on ζ=+1 and 4-7 on ζ=-1, counter-clockwise about -ζ:
//   0 = (-1,-1,±1), 1 = (-1,1,±1), 2 = (1,1,±1), 3 = (1,-1,±1)
//  mid-edges 8-11 on ζ=+1, 12-15 on ζ=-1 and 16-19 on ζ=0
//  hex27: face centres 20-25 (in face order) and centroid 26

var (
	hexCoords8 = [][]float64{
		{-1, -1, 1, 1, -1, -1, 1, 1},
		{-1, 1, 1, -1, -1, 1, 1, -1},
		{1, 1, 1, 1, -1, -1, -1, -1},
	}
	hexCoordsMid = [][]float64{
		{-1, 0, 1, 0, -1, 0, 1, 0, -1, -1, 1, 1},
		{0, 1, 0, -1, 0, 1, 0, -1, -1, 1, 1, -1},
		{1, 1, 1, 1, -1, -1, -1, -1, 0, 0, 0, 0},
	}
	hexCoordsFace = [][]float64{
		{0, 0, -1, 0, 1, 0, 0},
		{0, 0, 0, 1, 0, -1, 0},
		{1, -1, 0, 0, 0, 0, 0},
	}
	hexEdges8  = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	hexEdges20 = [][]int{{0, 1, 8}, {1, 2, 9}, {2, 3, 10}, {3, 0, 11}, {4, 5, 12}, {5, 6, 13},
		{6, 7, 14}, {7, 4, 15}, {0, 4, 16}, {1, 5, 17}, {2, 6, 18}, {3, 7, 19}}
	hexFaces20 = [][]int{
		{0, 3, 2, 1, 11, 10, 9, 8},
		{4, 5, 6, 7, 12, 13, 14, 15},
		{4, 0, 1, 5, 16, 8, 17, 12},
		{5, 1, 2, 6, 17, 9, 18, 13},
		{7, 6, 2, 3, 14, 18, 10, 19},
		{4, 7, 3, 0, 15, 19, 11, 16},
	}
)

// hexNatCoords joins the corner, mid-edge and centre coordinates of a hexahedron with nverts nodes
func hexNatCoords(nverts int) (nat [][]float64) {
	nat = make([][]float64, 3)
	for i := 0; i < 3; i++ {
		nat[i] = append(nat[i], hexCoords8[i]...)
		if nverts > 8 {
			nat[i] = append(nat[i], hexCoordsMid[i]...)
		}
		if nverts > 20 {
			nat[i] = append(nat[i], hexCoordsFace[i]...)
		}
	}
	return
}

// hexFaces returns the face tables with the first n vertices of each 8-node face
// and, if centre is true, the face centre node
func hexFaces(n int, centre bool) (faces [][]int) {
	faces = make([][]int, 6)
	for k, f := range hexFaces20 {
		faces[k] = append([]int{}, f[:n]...)
		if centre {
			faces[k] = append(faces[k], 20+k)
		}
	}
	return
}

func newHex8() *Shape {
	nat := hexNatCoords(8)
	return &Shape{Type: "hex8", BasicType: "hex8", Gndim: 3, Nverts: 8, Ncorners: 8, DefaultNip: 8,
		NatCoords: nat, Func: tensorFunc(1, 3, nat),
		EdgeType: "lin2", EdgeLocalVerts: hexEdges8,
		FaceType: "qua4", FaceLocalVerts: hexFaces(4, false)}
}

func newHex20() *Shape {
	nat := hexNatCoords(20)
	return &Shape{Type: "hex20", BasicType: "hex8", Gndim: 3, Nverts: 20, Ncorners: 8, DefaultNip: 27,
		NatCoords: nat, Func: serendipityFunc(3, nat),
		EdgeType: "lin3", EdgeLocalVerts: hexEdges20,
		FaceType: "qua8", FaceLocalVerts: hexFaces(8, false)}
}

func newHex27() *Shape {
	nat := hexNatCoords(27)
	return &Shape{Type: "hex27", BasicType: "hex8", Gndim: 3, Nverts: 27, Ncorners: 8, DefaultNip: 27,
		NatCoords: nat, Func: tensorFunc(2, 3, nat),
		EdgeType: "lin3", EdgeLocalVerts: hexEdges20,
		FaceType: "qua9", FaceLocalVerts: hexFaces(8, true)}
}
