// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"encoding/binary"
	goio "io"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Writer writes state fields as little-endian IEEE-754 words.
// The first error is kept and all subsequent writes are skipped
type Writer struct {
	w   goio.Writer
	buf [8]byte
	err error
}

// NewWriter returns a new writer
func NewWriter(w goio.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error
func (o *Writer) Err() error { return o.err }

func (o *Writer) word(u uint64) {
	if o.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(o.buf[:], u)
	_, o.err = o.w.Write(o.buf[:])
}

// Float writes a scalar
func (o *Writer) Float(v float64) { o.word(math.Float64bits(v)) }

// Int writes an integer
func (o *Writer) Int(v int) { o.word(uint64(int64(v))) }

// Floats writes a fixed-size vector
func (o *Writer) Floats(v []float64) {
	for _, x := range v {
		o.Float(x)
	}
}

// VarFloats writes a variable-size vector prefixed by its length
func (o *Writer) VarFloats(v []float64) {
	o.Int(len(v))
	o.Floats(v)
}

// Reader reads fields written by Writer
type Reader struct {
	r   goio.Reader
	buf [8]byte
	err error
}

// NewReader returns a new reader
func NewReader(r goio.Reader) *Reader { return &Reader{r: r} }

// Err returns the first error
func (o *Reader) Err() error { return o.err }

func (o *Reader) word() uint64 {
	if o.err != nil {
		return 0
	}
	if _, o.err = goio.ReadFull(o.r, o.buf[:]); o.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(o.buf[:])
}

// Float reads a scalar
func (o *Reader) Float() float64 { return math.Float64frombits(o.word()) }

// Int reads an integer
func (o *Reader) Int() int { return int(int64(o.word())) }

// Floats reads len(v) values into v
func (o *Reader) Floats(v []float64) {
	for i := range v {
		v[i] = o.Float()
	}
}

// VarFloats reads a vector prefixed by its length
func (o *Reader) VarFloats() (v []float64) {
	n := o.Int()
	if o.err != nil {
		return nil
	}
	if n < 0 || n > 1<<20 {
		o.err = chk.Err("invalid vector length %d", n)
		return nil
	}
	v = make([]float64, n)
	o.Floats(v)
	return
}
