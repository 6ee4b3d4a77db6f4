// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	goio "io"

	"github.com/cpmech/gosl/chk"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Checkpoint holds the committed states of a set of integration points
type Checkpoint struct {
	Owners []string // model owning each state
	States [][]byte // binary committed state of each point; nil if unallocated
}

// SavePoints encodes the committed states of pts
func SavePoints(w goio.Writer, enctype string, pts []*IntPoint) (err error) {
	var cp Checkpoint
	cp.Owners = make([]string, len(pts))
	cp.States = make([][]byte, len(pts))
	for i, pt := range pts {
		if pt.State == nil {
			continue
		}
		var buf bytes.Buffer
		if err = pt.State.Serialize(&buf); err != nil {
			return chk.Err("cannot serialize state of point %d:\n%v", i, err)
		}
		cp.Owners[i] = pt.State.Owner()
		cp.States[i] = buf.Bytes()
	}
	if err = GetEncoder(w, enctype).Encode(&cp); err != nil {
		return chk.Err("cannot encode checkpoint\n%v", err)
	}
	return
}

// LoadPoints decodes states saved by SavePoints into pts. States are allocated
// with mdl when needed
func LoadPoints(r goio.Reader, enctype string, mdl Model, pts []*IntPoint) (err error) {
	var cp Checkpoint
	if err = GetDecoder(r, enctype).Decode(&cp); err != nil {
		return chk.Err("cannot decode checkpoint\n%v", err)
	}
	if len(cp.States) != len(pts) {
		return chk.Err("checkpoint has %d points; %d is invalid", len(cp.States), len(pts))
	}
	for i, pt := range pts {
		if cp.States[i] == nil {
			continue
		}
		if cp.Owners[i] != mdl.Name() {
			return fmt.Errorf("point %d: checkpoint owner %q differs from %q: %w", i, cp.Owners[i], mdl.Name(), ErrStateMismatch)
		}
		if pt.State == nil {
			if err = mdl.InitIntVars(pt); err != nil {
				return
			}
		}
		if err = pt.State.Deserialize(bytes.NewReader(cp.States[i])); err != nil {
			return chk.Err("cannot deserialize state of point %d:\n%v", i, err)
		}
	}
	return
}
