// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem contains the domain, elements and solvers for running simulations with tied
// contact interfaces using the finite element method
package fem

import (
	"os"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/Xianchao-Xu/FEBio/inp"
)

// FEsolver implements the actual solver (time loop)
type FEsolver interface {
	Run(tf float64, dtFunc, dtoFunc fun.TimeSpace, verbose bool) (err error)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func(dom *Domain, sum *Summary) FEsolver)

// FEM holds all data for a simulation using the finite element method
type FEM struct {
	Sim         *inp.Simulation // simulation data
	Summary     *Summary        // summary structure
	Domain      *Domain         // domain
	Solver      FEsolver        // finite element method solver
	SaveSummary bool            // save summary at the end of Run
	Verbose     bool            // show messages
}

// NewFEM returns a new FEM structure
//  Input:
//   simfilepath -- simulation (.sim) filename including full path
//   alias       -- word to be appended to simulation key; e.g. when running multiple FE solutions
//   erasePrev   -- erase previous results files
//   saveSummary -- save summary
//   readSummary -- ready summary of previous simulation
//   verbose     -- show messages
func NewFEM(simfilepath, alias string, erasePrev, saveSummary, readSummary, verbose bool) (o *FEM, err error) {

	// read input data
	sim, err := inp.ReadSim(simfilepath, alias, erasePrev)
	if err != nil {
		return
	}

	// allocate structures
	o, err = NewFEMsim(sim, saveSummary, verbose)
	if err != nil {
		return
	}

	// read summary of previous simulation
	if readSummary {
		err = o.Summary.Read(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
		if err != nil {
			return nil, chk.Err("cannot read summary:\n%v", err)
		}
	}
	return
}

// NewFEMsim returns a new FEM structure from simulation data already read and post-processed
func NewFEMsim(sim *inp.Simulation, saveSummary, verbose bool) (o *FEM, err error) {

	// new FEM object
	o = new(FEM)
	o.Sim = sim
	o.Summary = new(Summary)
	o.SaveSummary = saveSummary
	o.Verbose = verbose

	// output directory
	err = os.MkdirAll(o.Sim.DirOut, 0777)
	if err != nil {
		return nil, chk.Err("cannot create directory for output results (%s): %v", o.Sim.DirOut, err)
	}

	// allocate domain
	o.Domain, err = NewDomain(o.Sim)
	if err != nil {
		return nil, chk.Err("cannot allocate domain:\n%v", err)
	}

	// allocate solver
	if alloc, ok := solverallocators[o.Sim.Solver.Type]; ok {
		o.Solver = alloc(o.Domain, o.Summary)
	} else {
		return nil, chk.Err("cannot find solver type named %q", o.Sim.Solver.Type)
	}
	return
}

// Run runs FE simulation
func (o *FEM) Run() (err error) {

	// message
	if o.Verbose {
		io.Pf("\n%v\n", o.Sim.Data.Desc)
		io.Pf("  number of vertices           = %d\n", len(o.Domain.X))
		io.Pf("  number of elements           = %d\n", len(o.Domain.Elems))
		io.Pf("  number of contact interfaces = %d\n", len(o.Domain.Contacts))
	}

	// loop over stages
	cputime := time.Now()
	for stgidx, stg := range o.Sim.Stages {

		// skip stage?
		if stg.Skip {
			continue
		}

		// set stage
		err = o.SetStage(stgidx)
		if err != nil {
			return
		}

		// time loop
		err = o.SolveOneStage(stgidx)
		if err != nil {
			return
		}
	}

	// message
	if o.Verbose {
		io.Pf("\n\n")
		if o.Domain.Sol != nil {
			io.Pf("\nfinal time = %v\n", o.Domain.Sol.T)
		}
		if o.Domain.Qn != nil {
			io.Pf("BFGS: %d updates, %d rejected, %d reformations\n", o.Summary.Nupdates, o.Summary.Nrejected, o.Summary.Nreforms)
		}
		io.Pforan("cpu time   = %v\n", time.Now().Sub(cputime))
	}

	// save summary
	if o.SaveSummary {
		err = o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.Verbose)
	}
	return
}

// SetStage sets stage of domain
//  Input:
//   stgidx -- stage index (in o.Sim.Stages)
func (o *FEM) SetStage(stgidx int) (err error) {
	err = o.Domain.SetStage(stgidx)
	if err != nil {
		return chk.Err("cannot set stage %d:\n%v", stgidx, err)
	}
	if o.Verbose {
		io.Pfyel("\nstage %d: %d equations, %d non-zeros in profile\n", stgidx, o.Domain.Ny, o.Domain.NnzProf())
	}
	return
}

// SolveOneStage solves one stage that was already set
//  Input:
//   stgidx -- stage index (in o.Sim.Stages)
func (o *FEM) SolveOneStage(stgidx int) (err error) {
	stg := o.Sim.Stages[stgidx]
	err = o.Solver.Run(stg.Control.Tf, stg.Control.DtFunc, stg.Control.DtoFunc, o.Verbose)
	if err != nil {
		return chk.Err("stage %d failed:\n%v", stgidx, err)
	}
	return
}
