// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"errors"
	"fmt"

	"github.com/cpmech/femcore/shp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// error kinds; test with errors.Is
var (
	ErrConfig        = errors.New("configuration error")
	ErrNoConvergence = errors.New("local iteration did not converge")
	ErrDegenerate    = shp.ErrDegenerate
	ErrOutOfRange    = errors.New("result out of range")
	ErrStateMismatch = errors.New("state belongs to another model")
)

// EvalError holds the context of a failed evaluation at an integration point
type EvalError struct {
	Model string // model name
	Cell  int    // cell id; -1 if unknown
	Ip    int    // integration point id
	Err   error  // cause
}

// Error returns the message with the point context
func (o *EvalError) Error() string {
	return chk.Err("%s: cell %d, ip %d: %v", o.Model, o.Cell, o.Ip, o.Err).Error()
}

// Unwrap returns the cause
func (o *EvalError) Unwrap() error { return o.Err }

// evalErr wraps err with the context of pt
func evalErr(model string, pt *IntPoint, err error) error {
	if err == nil {
		return nil
	}
	var e *EvalError
	if errors.As(err, &e) {
		return err
	}
	return &EvalError{Model: model, Cell: pt.CellId(), Ip: pt.Id, Err: err}
}

// cfgErr returns a configuration error
func cfgErr(model, msg string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", model, io.Sf(msg, args...), ErrConfig)
}

// Checks holds the uniform policy for out-of-range physical results
//  strict == 1 : out-of-range results are fatal
//  silent == 1 : warnings are not printed
type Checks struct {
	Strict bool
	Silent bool
}

// parse reads the policy parameters; returns false if p is not a policy parameter
func (o *Checks) parse(name string, v float64) bool {
	switch name {
	case "strict", "checkSnapBack":
		o.Strict = v > 0
	case "silent":
		o.Silent = v > 0
	default:
		return false
	}
	return true
}

// outOfRange warns about an out-of-range result or returns an error in strict mode
func (o Checks) outOfRange(model string, pt *IntPoint, msg string, args ...interface{}) error {
	if o.Strict {
		return fmt.Errorf("%s: %w", io.Sf(msg, args...), ErrOutOfRange)
	}
	if !o.Silent {
		io.Pfyel("%s: cell %d, ip %d: warning: %s\n", model, pt.CellId(), pt.Id, io.Sf(msg, args...))
	}
	return nil
}
