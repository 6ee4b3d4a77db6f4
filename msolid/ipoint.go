// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"io"

	"github.com/cpmech/femcore/tsr"
)

// Geometry is the read-only view of the cell owning an integration point
type Geometry interface {
	CellId() int
	CharLength(r, dir []float64) float64 // crack-band length in direction dir; dir may be nil
}

// Holder is the per-point material state with commit/rollback semantics
type Holder interface {
	InitTemp()                     // copies committed into temporary
	Commit()                       // copies temporary into committed
	Rollback()                     // discards temporary
	Serialize(w io.Writer) error   // writes committed fields
	Deserialize(r io.Reader) error // reads committed fields and resets temporary
	Owner() string                 // name of the model that allocated the state
}

// IntPoint is an integration point
type IntPoint struct {
	Cell  Geometry  // owning cell
	Id    int       // index within the cell
	R     []float64 // natural coordinates
	W     float64   // integration weight
	Mode  tsr.Mode  // material mode
	State Holder    // material state; allocated on the first evaluation
}

// CellId returns the id of the owning cell or -1
func (o *IntPoint) CellId() int {
	if o.Cell == nil {
		return -1
	}
	return o.Cell.CellId()
}

// CharLength returns the characteristic length of the owning cell in direction dir
func (o *IntPoint) CharLength(dir []float64) float64 {
	if o.Cell == nil {
		return 0
	}
	return o.Cell.CharLength(o.R, dir)
}

// Commit commits the state of the point, if any
func (o *IntPoint) Commit() {
	if o.State != nil {
		o.State.Commit()
	}
}

// Rollback discards the trial state of the point, if any
func (o *IntPoint) Rollback() {
	if o.State != nil {
		o.State.Rollback()
	}
}
