// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// loccmdrv runs a constitutive model at a single integration point along a strain path
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path"

	"github.com/cpmech/femcore/msolid"
	"github.com/cpmech/femcore/tsr"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/hjson/hjson-go"
	"github.com/pkg/profile"
)

// Linear defines a path with equal increments from zero to Eps
type Linear struct {
	Eps   []float64 `json:"eps"`
	Nincs int       `json:"nincs"`
	Dt    float64   `json:"dt"`
}

// Input holds the input data
type Input struct {
	Dir      string     `json:"dir"`      // directory with path file
	Model    string     `json:"model"`    // model name in registry
	Mode     string     `json:"mode"`     // material mode; e.g. "pstrain"
	Le       float64    `json:"le"`       // characteristic length
	Prms     dbf.Params `json:"prms"`     // model parameters
	PathFn   string     `json:"pathfn"`   // path filename (json)
	Linear   []Linear   `json:"linear"`   // path segments used if PathFn is empty
	Outputs  []string   `json:"outputs"`  // internal variables to print
	ResultFn string     `json:"resultfn"` // results filename (json); optional
}

// Result holds the results written to ResultFn
type Result struct {
	Run   string             `json:"run"`
	Model string             `json:"model"`
	Mode  string             `json:"mode"`
	Steps []*msolid.Snapshot `json:"steps"`
}

func (o *Input) PostProcess() {
	if o.Le <= 0 {
		o.Le = 1
	}
	if o.Mode == "" {
		o.Mode = "3d"
	}
}

func (o Input) String() (l string) {
	l += "\nInput data\n"
	l += "==========\n"
	l += io.Sf("directory with path file : Dir      = %v\n", o.Dir)
	l += io.Sf("model name               : Model    = %v\n", o.Model)
	l += io.Sf("material mode            : Mode     = %v\n", o.Mode)
	l += io.Sf("characteristic length    : Le       = %v\n", o.Le)
	l += io.Sf("path filename            : PathFn   = %v\n", o.PathFn)
	l += io.Sf("number of path segments  : Linear   = %d\n", len(o.Linear))
	l += io.Sf("outputs                  : Outputs  = %q\n", o.Outputs)
	l += io.Sf("results filename         : ResultFn = %v\n", o.ResultFn)
	l += "\n"
	return
}

// readInput reads an HJSON file into in
func readInput(fn string) (in Input, err error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return
	}
	var dat map[string]interface{}
	if err = hjson.Unmarshal(b, &dat); err != nil {
		return in, chk.Err("cannot parse %q: %v", fn, err)
	}
	if b, err = json.Marshal(dat); err != nil {
		return
	}
	err = json.Unmarshal(b, &in)
	in.PostProcess()
	return
}

func main() {

	// flags
	cpuprof := flag.Bool("cpuprof", false, "write CPU profile to current directory")
	flag.Parse()
	if *cpuprof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	// input data file
	inpfn := "data/mazars.hjson"
	if len(flag.Args()) > 0 {
		inpfn = flag.Arg(0)
	}
	if io.FnExt(inpfn) == "" {
		inpfn += ".hjson"
	}
	in, err := readInput(inpfn)
	if err != nil {
		io.PfRed("cannot read input:\n%v\n", err)
		os.Exit(1)
	}
	io.Pf("%v\n", in)

	// model
	mode, err := tsr.ParseMode(in.Mode)
	if err != nil {
		io.PfRed("%v\n", err)
		os.Exit(1)
	}
	mdl, err := msolid.NewRegistry().Alloc(in.Model, mode, in.Prms)
	if err != nil {
		io.PfRed("cannot allocate model:\n%v\n", err)
		os.Exit(1)
	}

	// path
	var pth msolid.Path
	if in.PathFn != "" {
		err = pth.ReadJson(mode, path.Join(in.Dir, in.PathFn))
	} else {
		for _, seg := range in.Linear {
			pth.Linear(seg.Eps, seg.Nincs, seg.Dt)
		}
		err = pth.Check(mode)
	}
	if err != nil {
		io.PfRed("cannot load path:\n%v\n", err)
		os.Exit(1)
	}

	// run
	var drv msolid.Driver
	if err = drv.Init(mdl, mode, msolid.PointGeometry{Le: in.Le}); err != nil {
		io.PfRed("cannot initialise driver:\n%v\n", err)
		os.Exit(1)
	}
	err = drv.Run(&pth)
	for k, sta := range drv.Res {
		io.Pf("%4d %10.4f eps = %v sig = %v", k, sta.Time, sta.Eps, sta.Sig)
		for _, key := range in.Outputs {
			io.Pf(" %s = %g", key, sta.Out[key])
		}
		io.Pf("\n")
	}
	if err != nil {
		io.PfRed("driver: Run failed:\n%v\n", err)
	}

	// results
	if in.ResultFn != "" {
		res := Result{Run: uuid.New().String(), Model: in.Model, Mode: mode.String(), Steps: drv.Res}
		b, e := json.MarshalIndent(res, "", "  ")
		if e != nil {
			io.PfRed("cannot encode results: %v\n", e)
			os.Exit(1)
		}
		if e = os.WriteFile(in.ResultFn, b, 0644); e != nil {
			io.PfRed("cannot write results: %v\n", e)
			os.Exit(1)
		}
		io.Pfgreen("run %s: file <%s> written\n", res.Run, in.ResultFn)
	}
	if err != nil {
		os.Exit(1)
	}
}
