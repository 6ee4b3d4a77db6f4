// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
)

func Test_race01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("Test race01")

	fac := NewFactory()
	nchan := 4
	done := make(chan error, nchan)

	shapes := make([]*Shape, nchan)
	for i := 0; i < nchan; i++ {
		shapes[i] = fac.Get("hex20", i+1)
	}

	x := distorted(shapes[0])
	for i := 0; i < nchan; i++ {
		go func(shape *Shape) {
			for k := 0; k < 50; k++ {
				if err := shape.CalcAtIp(x, []float64{0.1, 0.2, 0.3}, true); err != nil {
					done <- err
					return
				}
				shape.CalcAtFaceIp(x, []float64{0.1, 0.2}, k%6)
				shape.Global2Local(x, []float64{1.5, 2.5, 3.1})
			}
			_, err := fac.GetIps("hex20", 0)
			done <- err
		}(shapes[i])
	}

	for i := 0; i < nchan; i++ {
		assert.NoError(tst, <-done)
	}
}
