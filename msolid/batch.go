// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// Batch evaluates one model at many integration points. Models are read-only
// after Init and each point owns its state; hence points may be evaluated
// concurrently. Commit and rollback happen only after all evaluations are done
type Batch struct {
	Model  Model       // shared model
	Points []*IntPoint // points using Model
}

// Evaluate computes the trial stresses of all points. strains[i] is the strain of
// Points[i]. nworkers <= 0 means GOMAXPROCS workers
func (o *Batch) Evaluate(ctx context.Context, strains [][]float64, Δt float64, nworkers int) (stresses [][]float64, err error) {
	if len(strains) != len(o.Points) {
		return nil, chk.Err("batch: number of strains (%d) must equal the number of points (%d)", len(strains), len(o.Points))
	}
	if nworkers <= 0 {
		nworkers = runtime.GOMAXPROCS(0)
	}
	stresses = make([][]float64, len(o.Points))
	errs := make([]error, len(o.Points))
	jobs := make(chan int, nworkers*5)
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if e := ctx.Err(); e != nil {
					errs[i] = e
					continue
				}
				stresses[i], errs[i] = o.Model.EvaluateStress(o.Points[i], strains[i], Δt)
			}
		}()
	}
	for i := range o.Points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if err = errors.Join(errs...); err != nil {
		return nil, err
	}
	return
}

// Tangents computes the stiffness of all points; D[i] must be allocated
func (o *Batch) Tangents(ctx context.Context, D [][][]float64, resp Response, Δt float64, nworkers int) error {
	if len(D) != len(o.Points) {
		return chk.Err("batch: number of matrices (%d) must equal the number of points (%d)", len(D), len(o.Points))
	}
	if nworkers <= 0 {
		nworkers = runtime.GOMAXPROCS(0)
	}
	errs := make([]error, len(o.Points))
	jobs := make(chan int, nworkers*5)
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if e := ctx.Err(); e != nil {
					errs[i] = e
					continue
				}
				errs[i] = o.Model.EvaluateTangent(D[i], o.Points[i], resp, Δt)
			}
		}()
	}
	for i := range o.Points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return errors.Join(errs...)
}

// CommitAll commits the trial state of all points
func (o *Batch) CommitAll() {
	for _, p := range o.Points {
		p.Commit()
	}
}

// RollbackAll discards the trial state of all points
func (o *Batch) RollbackAll() {
	for _, p := range o.Points {
		p.Rollback()
	}
}
