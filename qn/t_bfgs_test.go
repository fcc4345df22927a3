// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qn

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// failingSolver always fails
type failingSolver struct{ ncalls int }

func (o *failingSolver) BackSolve(x, b []float64) error {
	o.ncalls++
	return chk.Err("factorisation is not available")
}

// factorised returns a back solver with K0
func factorised(tst *testing.T, K0 *mat.Dense) *DenseLU {
	var lu DenseLU
	err := lu.Factorize(K0)
	if err != nil {
		tst.Fatalf("Factorize failed:\n%v", err)
	}
	return &lu
}

// secantData returns the increment ui = K0⁻¹ R0 and the residual R1 = R0 - K ui
func secantData(tst *testing.T, lu *DenseLU, K *mat.Dense, R0 []float64) (ui, R1 []float64) {
	n := len(R0)
	ui = make([]float64, n)
	err := lu.BackSolve(ui, R0)
	if err != nil {
		tst.Fatalf("BackSolve failed:\n%v", err)
	}
	var Kui mat.VecDense
	Kui.MulVec(K, mat.NewVecDense(n, ui))
	R1 = make([]float64, n)
	for i := 0; i < n; i++ {
		R1[i] = R0[i] - Kui.AtVec(i)
	}
	return
}

func Test_bfgs01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bfgs01. secant condition")

	cases := []struct {
		K0, K *mat.Dense
		R0    []float64
	}{
		{
			mat.NewDense(2, 2, []float64{4, 1, 1, 3}),
			mat.NewDense(2, 2, []float64{5, 1, 1, 4}),
			[]float64{1, 2},
		},
		{
			mat.NewDense(3, 3, []float64{4, -1, 0, -1, 4, -1, 0, -1, 4}),
			mat.NewDense(3, 3, []float64{6, -1, 0.5, -1, 5, -1, 0.5, -1, 7}),
			[]float64{1, -2, 3},
		},
	}

	for k, c := range cases {
		n := len(c.R0)
		lu := factorised(tst, c.K0)
		ui, R1 := secantData(tst, lu, c.K, c.R0)

		var o BFGS
		o.SetDefault()
		err := o.Init(n, lu)
		if err != nil {
			tst.Errorf("Init failed:\n%v", err)
			return
		}
		if !o.Update(1, ui, c.R0, R1) {
			tst.Errorf("case %d: update should have been accepted\n", k)
			return
		}
		chk.IntAssert(o.Nups(), 1)
		chk.IntAssert(o.Nstored(), 1)

		// K⁻¹ (R0 - R1) = ui
		G := make([]float64, n)
		for i := 0; i < n; i++ {
			G[i] = c.R0[i] - R1[i]
		}
		x := make([]float64, n)
		err = o.Solve(x, G)
		if err != nil {
			tst.Errorf("Solve failed:\n%v", err)
			return
		}
		io.Pforan("case %d: x = %v  ui = %v\n", k, x, ui)
		chk.Array(tst, io.Sf("case %d: x", k), 1e-13, x, ui)
	}
}

func Test_bfgs02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bfgs02. rejected updates")

	K0 := mat.NewDense(2, 2, []float64{4, 1, 1, 3})
	lu := factorised(tst, K0)
	R0 := []float64{1, 2}

	// huge change of residual => c = 1e6 > Cmax
	K := mat.NewDense(2, 2, []float64{4e12, 1e12, 1e12, 3e12})
	ui, R1 := secantData(tst, lu, K, R0)

	var o BFGS
	o.SetDefault()
	o.Init(2, lu)
	if o.Update(1, ui, R0, R1) {
		tst.Errorf("update should have been rejected\n")
		return
	}
	chk.IntAssert(o.Nups(), 0)
	chk.IntAssert(o.Nstored(), 0)

	// solution is the one with K0
	b := []float64{3, -1}
	x := make([]float64, 2)
	xref := make([]float64, 2)
	o.Solve(x, b)
	lu.BackSolve(xref, b)
	chk.Array(tst, "x", 1e-15, x, xref)

	// small bound
	o.Cmax = 1e-3
	ui, R1 = secantData(tst, lu, mat.NewDense(2, 2, []float64{5, 1, 1, 4}), R0)
	if o.Update(1, ui, R0, R1) {
		tst.Errorf("update should have been rejected with small Cmax\n")
	}
	chk.IntAssert(o.Nups(), 0)

	// no change of residual
	if o.Update(1, ui, R0, R0) {
		tst.Errorf("update with zero residual change should have been rejected\n")
	}
	chk.IntAssert(o.Nstored(), 0)
}

func Test_bfgs03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bfgs03. buffer capacity")

	K0 := mat.NewDense(3, 3, []float64{4, -1, 0, -1, 4, -1, 0, -1, 4})
	lu := factorised(tst, K0)

	// capacity + 5 updates
	capacity, nupd := 3, 8
	type update struct{ ui, R0, R1 []float64 }
	var updates []update
	for k := 0; k < nupd; k++ {
		K := mat.DenseCopyOf(K0)
		for i := 0; i < 3; i++ {
			K.Set(i, i, K.At(i, i)+0.5*float64(k+1))
		}
		R0 := []float64{1 + float64(k), -2 + 0.3*float64(k), 0.5 * float64(k*k)}
		ui, R1 := secantData(tst, lu, K, R0)
		updates = append(updates, update{ui, R0, R1})
	}

	solve := func(o *BFGS) []float64 {
		x := make([]float64, 3)
		err := o.Solve(x, []float64{1, 1, 1})
		if err != nil {
			tst.Fatalf("Solve failed:\n%v", err)
		}
		return x
	}
	feed := func(cycle bool, upds []update) *BFGS {
		o := &BFGS{MaxUps: capacity, Cmax: 1e5, Cycle: cycle}
		o.Init(3, lu)
		for i, u := range upds {
			if !o.Update(1, u.ui, u.R0, u.R1) {
				tst.Fatalf("update %d should have been accepted\n", i)
			}
		}
		return o
	}

	for _, cycle := range []bool{false, true} {
		o := feed(cycle, updates)
		chk.IntAssert(o.Nups(), nupd)
		chk.IntAssert(o.Nstored(), capacity)

		var ref *BFGS
		if cycle {
			ref = feed(cycle, updates[nupd-capacity:]) // most recent
		} else {
			ref = feed(cycle, updates[:capacity]) // oldest
		}
		x, xref := solve(o), solve(ref)
		io.Pforan("cycle=%v: x = %v\n", cycle, x)
		chk.Array(tst, io.Sf("cycle=%v: x", cycle), 1e-14, x, xref)

		// the other choice gives a different answer
		var other *BFGS
		if cycle {
			other = feed(cycle, updates[:capacity])
		} else {
			other = feed(cycle, updates[nupd-capacity:])
		}
		xother := solve(other)
		diff := 0.0
		for i := range x {
			diff += (x[i] - xother[i]) * (x[i] - xother[i])
		}
		if diff < 1e-20 {
			tst.Errorf("cycle=%v: oldest and newest updates should give different solutions\n", cycle)
		}
	}

	// wrapping exactly at capacity
	o := feed(true, updates[:capacity])
	chk.Array(tst, "x(full)", 1e-15, solve(o), solve(feed(false, updates[:capacity])))
}

func Test_bfgs04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bfgs04. failures")

	// back substitution fails
	ls := new(failingSolver)
	var o BFGS
	o.SetDefault()
	o.Init(2, ls)
	err := o.Solve(make([]float64, 2), []float64{1, 1})
	if err == nil {
		tst.Errorf("Solve should have failed\n")
	}
	io.Pforan("%v\n", err)
	chk.IntAssert(ls.ncalls, 1)

	// no equations
	o.Init(0, ls)
	err = o.Solve(nil, nil)
	if err != nil {
		tst.Errorf("Solve with no equations should not fail:\n%v", err)
	}
	chk.IntAssert(ls.ncalls, 1)

	// invalid input
	if (&BFGS{MaxUps: -1}).Init(2, ls) == nil {
		tst.Errorf("Init should have failed with negative MaxUps\n")
	}
	if (&BFGS{MaxUps: 2}).Init(2, nil) == nil {
		tst.Errorf("Init should have failed without back solver\n")
	}

	// singular matrix
	var lu DenseLU
	err = lu.Factorize(mat.NewDense(2, 2, []float64{1, 2, 2, 4}))
	if err == nil {
		tst.Errorf("Factorize should have failed with singular matrix\n")
	}
	err = lu.BackSolve(make([]float64, 2), []float64{1, 1})
	if err == nil {
		tst.Errorf("BackSolve should have failed without factorisation\n")
	}
}
