// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"
	goio "io"
)

// Data is implemented by the state records of each model (pointer types)
type Data[T any] interface {
	Copy() T         // deep copy
	Write(w *Writer) // writes all fields in fixed order
	Read(r *Reader)  // reads all fields in the same order
}

// History holds the committed and temporary snapshots of a state record
type History[T Data[T]] struct {
	owner     string
	Committed T // accepted at the end of the last converged step
	Temp      T // being computed within the current step
}

// NewHistory returns a new history with both snapshots equal to init
func NewHistory[T Data[T]](owner string, init T) *History[T] {
	return &History[T]{owner: owner, Committed: init, Temp: init.Copy()}
}

// InitTemp copies committed into temporary
func (o *History[T]) InitTemp() { o.Temp = o.Committed.Copy() }

// Commit copies temporary into committed
func (o *History[T]) Commit() { o.Committed = o.Temp.Copy() }

// Rollback discards temporary
func (o *History[T]) Rollback() { o.InitTemp() }

// Owner returns the name of the model that allocated this state
func (o *History[T]) Owner() string { return o.owner }

// Serialize writes the committed snapshot
func (o *History[T]) Serialize(w goio.Writer) error {
	wr := NewWriter(w)
	o.Committed.Write(wr)
	return wr.Err()
}

// Deserialize reads the committed snapshot and resets temporary
func (o *History[T]) Deserialize(r goio.Reader) error {
	rd := NewReader(r)
	o.Committed.Read(rd)
	if err := rd.Err(); err != nil {
		return err
	}
	o.InitTemp()
	return nil
}

// Get returns the typed state of pt, allocating it on the first call
func Get[T Data[T]](pt *IntPoint, owner string, alloc func() T) (*History[T], error) {
	if pt.State == nil {
		h := NewHistory(owner, alloc())
		pt.State = h
		return h, nil
	}
	h, ok := pt.State.(*History[T])
	if !ok || h.owner != owner {
		return nil, fmt.Errorf("point %d is owned by %q; %q is invalid: %w", pt.Id, pt.State.Owner(), owner, ErrStateMismatch)
	}
	return h, nil
}
