// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_fileio01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio01. solution and contact state. summary")

	// run
	a, err := NewFEM("data/tied01.sim", "io", true, true, false, chk.Verbose)
	if err != nil {
		tst.Errorf("NewFEM failed:\n%v", err)
		return
	}
	err = a.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}

	// read summary and last output
	b, err := NewFEM("data/tied01.sim", "io", false, false, true, chk.Verbose)
	if err != nil {
		tst.Errorf("NewFEM failed:\n%v", err)
		return
	}
	chk.Array(tst, "OutTimes", 1e-15, b.Summary.OutTimes, a.Summary.OutTimes)
	chk.Array(tst, "AugErrs", 1e-15, b.Summary.AugErrs, a.Summary.AugErrs)
	chk.IntAssert(b.Summary.Nupdates, a.Summary.Nupdates)
	chk.IntAssert(b.Summary.Nreforms, a.Summary.Nreforms)
	err = b.SetStage(0)
	if err != nil {
		tst.Errorf("SetStage failed:\n%v", err)
		return
	}
	tidx := len(a.Summary.OutTimes) - 1
	err = b.Domain.ReadSol(b.Sim.DirOut, b.Sim.Key, b.Sim.EncType, tidx)
	if err != nil {
		tst.Errorf("ReadSol failed:\n%v", err)
		return
	}

	// compare
	da, db := a.Domain, b.Domain
	chk.Float64(tst, "T", 1e-15, db.Sol.T, da.Sol.T)
	chk.Array(tst, "Y", 1e-15, db.Sol.Y, da.Sol.Y)
	chk.Array(tst, "Ubar", 1e-15, db.Sol.Ubar, da.Sol.Ubar)
	ca, cb := da.Contacts[0], db.Contacts[0]
	for A := range ca.Ss.Nodes {
		la, lb := ca.Ss.L[A], cb.Ss.L[A]
		chk.Array(tst, io.Sf("L[%d]", A), 1e-15, []float64{lb.X, lb.Y, lb.Z}, []float64{la.X, la.Y, la.Z})
		ga, gb := ca.Ss.Gap[A], cb.Ss.Gap[A]
		chk.Array(tst, io.Sf("gap[%d]", A), 1e-15, []float64{gb.X, gb.Y, gb.Z}, []float64{ga.X, ga.Y, ga.Z})
	}

	// missing file
	err = b.Domain.ReadSol(b.Sim.DirOut, b.Sim.Key, b.Sim.EncType, tidx+1)
	if err == nil {
		tst.Errorf("reading a missing file must fail")
	}
}

func Test_fileio02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio02. gob encoding")

	a := run_spring(tst, "newton")
	b := run_spring(tst, "bfgs")
	err := b.Domain.ReadSol(a.Sim.DirOut, a.Sim.Key, a.Sim.EncType, 3)
	if err != nil {
		tst.Errorf("ReadSol failed:\n%v", err)
		return
	}
	chk.Float64(tst, "T", 1e-15, b.Domain.Sol.T, 1)
	chk.Array(tst, "Y", 1e-15, b.Domain.Sol.Y, a.Domain.Sol.Y)
}
