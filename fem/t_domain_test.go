// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/james-bowman/sparse"

	"github.com/Xianchao-Xu/FEBio/inp"
)

func Test_domain01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain01. equations, prescribed values and host")

	sim, err := inp.ReadSim("data/tied01.sim", "domain", true)
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}
	d, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed:\n%v", err)
		return
	}
	chk.IntAssert(len(d.Elems), 4)
	chk.IntAssert(len(d.Contacts), 1)
	if d.SetStage(1) == nil {
		tst.Errorf("SetStage with invalid index must fail")
		return
	}
	err = d.SetStage(0)
	if err != nil {
		tst.Errorf("SetStage failed:\n%v", err)
		return
	}

	// equations: slave vertices are free; master vertices are prescribed
	chk.IntAssert(d.Ny, 12)
	for vid := 0; vid < 8; vid++ {
		if vid < 4 {
			chk.Ints(tst, "eqs", d.NodeEqs(vid), []int{3 * vid, 3*vid + 1, 3*vid + 2})
		} else {
			chk.Ints(tst, "eqs", d.NodeEqs(vid), []int{-1, -1, -1})
		}
	}
	chk.IntAssert(len(d.EssenBcs), 12)
	chk.IntAssert(len(d.PtNatBcs), 0)
	if d.Qn == nil {
		tst.Errorf("BFGS solver must be allocated")
		return
	}

	// prescribed values
	d.set_prescribed(0.5)
	x := d.Position(5)
	chk.Array(tst, "x(5)", 1e-15, []float64{x.X, x.Y, x.Z}, []float64{1.005, 0, 0})
	x = d.Position(2)
	chk.Array(tst, "x(2)", 1e-15, []float64{x.X, x.Y, x.Z}, []float64{1, 1, 0})

	// residual
	d.AssembleResidual([]int{5, 1}, []int{-1, 4}, []float64{10, 2})
	chk.Float64(tst, "Fb[4]", 1e-15, d.Fb[4], 2)

	// tangent: entries outside profile are counted
	chk.IntAssert(d.NnzProf(), 144)
	d.AssembleTangent([]int{0, -1}, []int{11, 3}, [][]float64{{1, 2}, {3, 4}})
	chk.IntAssert(d.Nout, 0)
	chk.Float64(tst, "Kb[0][11]", 1e-15, d.Kb.At(0, 11), 1)
	chk.Float64(tst, "Kb[0][3]", 1e-15, d.Kb.At(0, 3), 2)
	d.Prof = sparse.NewDOK(d.Ny, d.Ny)
	d.BuildAdd([]int{0, -1, 1})
	chk.IntAssert(d.NnzProf(), 4)
	d.AssembleTangent([]int{0}, []int{1, 2}, [][]float64{{1, 1}})
	chk.IntAssert(d.Nout, 1)

	// keys
	dof, essential, ok := ykey2dof("uz")
	chk.IntAssert(dof, 2)
	if !essential || !ok {
		tst.Errorf("uz must be an essential key")
	}
	dof, essential, ok = ykey2dof("fy")
	chk.IntAssert(dof, 1)
	if essential || !ok {
		tst.Errorf("fy must be a natural key")
	}
	if _, _, ok = ykey2dof("pl"); ok {
		tst.Errorf("pl must be invalid")
	}
}

func Test_domain02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain02. multiple stages")

	sim, err := inp.ReadSim("data/spring01.sim", "stages", true)
	if err != nil {
		tst.Errorf("ReadSim failed:\n%v", err)
		return
	}

	// second stage: hold ux and pull along y
	sim.Stages = append(sim.Stages, &inp.Stage{
		NodeBcs: []*inp.NodeBc{{Tag: -1, Keys: []string{"ux", "fy"}, Funcs: []string{"hold", "load"}}},
		Control: inp.TimeControl{Tf: 1, Dt: 0.5},
	})
	sim.Functions = append(sim.Functions, &inp.FuncData{Name: "hold", Type: "cte", Prms: dbf.Params{{N: "c", V: 0.25}}})
	err = sim.PostProcess()
	if err != nil {
		tst.Errorf("PostProcess failed:\n%v", err)
		return
	}
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
	chk.IntAssert(d.Ny, 2)
	chk.IntAssert(len(d.EssenBcs), 1)
	u := d.Sol.Disp(0, d.NodeEqs(0))
	chk.Float64(tst, "ux", 1e-15, u.X, 0.25)
	chk.Float64(tst, "uy + 0.5 uy³", 1e-10, u.Y+0.5*u.Y*u.Y*u.Y, 2)
	chk.Float64(tst, "uz", 1e-15, u.Z, 0)
	chk.Array(tst, "OutTimes", 1e-15, analysis.Summary.OutTimes, []float64{0.25, 0.5, 0.75, 1, 0.5, 1})
}

func Test_domain03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain03. scaled norm of increments")

	d := &Domain{
		Wb:  []float64{3e-6, -4e-6},
		Sol: &Solution{Y: []float64{0, 1}},
	}

	// w / (atol + rtol |y|) = {3, -2}
	atol, rtol := 1e-6, 1e-6
	chk.Float64(tst, "Lδu", 1e-14, d.normδu(atol, rtol), math.Sqrt((9.0+4.0)/2.0))
	chk.IntAssert(len(d.zeroNy), 2)

	// empty system
	d = &Domain{Sol: &Solution{}}
	chk.Float64(tst, "Lδu(empty)", 1e-17, d.normδu(atol, rtol), 0)
}
