// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/inp"
	"github.com/Xianchao-Xu/FEBio/mortar"
)

// grid_sim returns a simulation with a 2×2 qua4 slave surface tied to a 3×3 tri3 master surface;
// all slave vertices have springs and the master surface is pulled along x
func grid_sim(tst *testing.T, qnmethod string, prune bool, naug int) *inp.Simulation {

	// mesh
	ts, cs, coords := mortar.GridFaces(2, 2, 0, 0, 0, 1, 1, false, nil)
	nslave := len(coords)
	tm, cm, coords := mortar.GridFaces(3, 3, 0, 0, 0, 1, 1, true, coords)
	msh := new(inp.Mesh)
	for i, x := range coords {
		tag := -1
		if i >= nslave {
			tag = -2
		}
		msh.Verts = append(msh.Verts, &inp.Vert{Id: i, Tag: tag, C: x})
	}
	for i, c := range cs {
		msh.Faces = append(msh.Faces, &inp.Face{Id: len(msh.Faces), Tag: -10, Type: ts[i], Verts: c})
	}
	for i, c := range cm {
		msh.Faces = append(msh.Faces, &inp.Face{Id: len(msh.Faces), Tag: -20, Type: tm[i], Verts: c})
	}

	// contact
	c := new(inp.ContactData)
	c.SetDefault()
	c.Slave, c.Master = -10, -20
	c.Laugon = true
	c.Penalty = 1e4
	c.MinAug, c.MaxAug = naug, naug
	c.Prune = prune

	// simulation
	sim := new(inp.Simulation)
	sim.Solver.SetDefault()
	sim.Solver.QnMethod = qnmethod
	sim.Data.Stat = true
	sim.DirOut = filepath.Join(os.TempDir(), "tiedfem", "grid")
	sim.Key = "grid-" + qnmethod
	sim.Mesh = msh
	sim.Functions = inp.FuncsData{
		{Name: "dx", Type: "rmp", Prms: dbf.Params{
			{N: "ca", V: 0}, {N: "cb", V: 0.01}, {N: "ta", V: 0}, {N: "tb", V: 1},
		}},
	}
	sim.Contacts = []*inp.ContactData{c}
	sim.Springs = []*inp.SpringData{{Tag: -1, K: 1}}
	sim.Stages = []*inp.Stage{{
		NodeBcs: []*inp.NodeBc{{Tag: -2, Keys: []string{"ux", "uy", "uz"}, Funcs: []string{"dx", "zero", "zero"}}},
		Control: inp.TimeControl{Tf: 1, Dt: 1},
	}}
	err := sim.PostProcess()
	if err != nil {
		tst.Fatalf("PostProcess failed:\n%v", err)
	}
	return sim
}

// check_tied checks that all slave vertices follow the master surface
func check_tied(tst *testing.T, d *Domain, nslave int, δ, tol float64) {
	for vid := 0; vid < len(d.X); vid++ {
		u := d.Sol.Disp(vid, d.Vid2eqs[vid])
		if vid >= nslave {
			chk.Float64(tst, io.Sf("master: ux[%d]", vid), 1e-15, u.X, δ)
			continue
		}
		chk.Float64(tst, io.Sf("slave: ux[%d]", vid), tol, u.X, δ)
		chk.Float64(tst, io.Sf("slave: uy[%d]", vid), 1e-12, u.Y, 0)
		chk.Float64(tst, io.Sf("slave: uz[%d]", vid), 1e-15, u.Z, 0)
	}
	for _, c := range d.Contacts {
		for A := range c.Ss.Nodes {
			chk.Float64(tst, io.Sf("|gap[%d]|", A), tol, r3.Norm(c.Ss.Gap[A]), 0)
		}
	}
}

func Test_tied01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tied01. square tied to two triangles. BFGS")

	analysis, err := NewFEM("data/tied01.sim", "", true, true, false, chk.Verbose)
	if err != nil {
		tst.Errorf("NewFEM failed:\n%v", err)
		return
	}
	err = analysis.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	d := analysis.Domain
	sum := analysis.Summary

	// equations and profile
	chk.IntAssert(d.Ny, 12)
	chk.IntAssert(d.Nout, 0)
	chk.IntAssert(d.NnzProf(), 12*12)

	// displacements and gaps
	δ := 0.01
	check_tied(tst, d, 4, δ, 1e-10)

	// tractions balance the springs: -f - ΣB N1[A][B] t = 0 with ΣB N1[A][B] = 1/4
	c := d.Contacts[0]
	f := δ + 0.5*δ*δ*δ
	for A := range c.Ss.Nodes {
		t := c.Traction(A)
		chk.Float64(tst, io.Sf("tx[%d]", A), 1e-9, t.X, -4*f)
		chk.Float64(tst, io.Sf("ty[%d]", A), 1e-9, t.Y, 0)
	}
	chk.Float64(tst, "ΣN1", 1e-14, c.W.Sum1, 1)
	chk.Float64(tst, "ΣN2", 1e-14, c.W.Sum2, 1)

	// summary
	io.Pforan("AugErrs = %v\n", sum.AugErrs)
	chk.Array(tst, "OutTimes", 1e-15, sum.OutTimes, []float64{0.5, 1})
	if len(sum.AugErrs) < 4 {
		tst.Errorf("at least two augmentations per time step must be performed: %v", sum.AugErrs)
	}
	chk.IntAssert(len(sum.Resids), len(sum.AugErrs))
	if sum.AugErrs[len(sum.AugErrs)-1] > 1e-8 {
		tst.Errorf("augmentations did not converge: %v", sum.AugErrs)
	}
	chk.IntAssert(sum.Nrejected, 0)
}

func Test_tied02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tied02. non-matching grids. Newton and BFGS. pruned profile")

	var nnz [2]int
	var Y [2][]float64
	for i, method := range []string{"newton", "bfgs"} {
		prune := i == 0
		sim := grid_sim(tst, method, prune, 15)
		analysis, err := NewFEMsim(sim, false, chk.Verbose)
		if err != nil {
			tst.Errorf("NewFEMsim failed:\n%v", err)
			return
		}
		err = analysis.Run()
		if err != nil {
			tst.Errorf("Run failed:\n%v", err)
			return
		}
		d := analysis.Domain
		sum := analysis.Summary

		// equations and profile
		chk.IntAssert(d.Ny, 27)
		chk.IntAssert(d.Nout, 0)
		nnz[i] = d.NnzProf()
		Y[i] = d.Sol.Y

		// solution
		check_tied(tst, d, 9, 0.01, 1e-9)

		// fixed number of augmentations: naug = 0, 1, ... 15
		chk.IntAssert(len(sum.AugErrs), 16)
		if method == "newton" {
			chk.IntAssert(sum.Nupdates, 0)
		}
	}
	if nnz[0] > nnz[1] {
		tst.Errorf("pruned profile cannot be larger than full profile: %d > %d", nnz[0], nnz[1])
	}
	chk.Array(tst, "Y(newton) - Y(bfgs)", 1e-9, Y[0], Y[1])
}

func Test_tied03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tied03. penalty method without augmentations")

	sim := grid_sim(tst, "newton", false, 0)
	sim.Contacts[0].Laugon = false
	analysis, err := NewFEMsim(sim, false, chk.Verbose)
	if err != nil {
		tst.Errorf("NewFEMsim failed:\n%v", err)
		return
	}
	err = analysis.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	d := analysis.Domain

	// no augmentations: multipliers are zero and the gap is finite
	chk.IntAssert(len(analysis.Summary.AugErrs), 1)
	c := d.Contacts[0]
	var maxgap float64
	for A := range c.Ss.Nodes {
		chk.Float64(tst, io.Sf("|L[%d]|", A), 1e-17, r3.Norm(c.Ss.L[A]), 0)
		if g := r3.Norm(c.Ss.Gap[A]); g > maxgap {
			maxgap = g
		}
	}
	io.Pforan("max gap = %g\n", maxgap)
	if maxgap < 1e-10 || maxgap > 1e-3 {
		tst.Errorf("penalty gap is out of the expected range: %g", maxgap)
	}
}
