// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/mortar"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// host implements Host with dense storage; equations are 3*vid+i
type host struct {
	X    [][]float64     // coordinates
	U    []float64       // displacements
	Fb   []float64       // residual
	K    *mat.Dense      // tangent
	Prof map[[2]int]bool // declared pairs
	Nout int             // number of entries assembled outside profile
}

func newHost(X [][]float64) *host {
	n := 3 * len(X)
	return &host{X: X, U: make([]float64, n), Fb: make([]float64, n), K: mat.NewDense(n, n, nil), Prof: make(map[[2]int]bool)}
}

func (o *host) NodeEqs(vid int) []int { return []int{3 * vid, 3*vid + 1, 3*vid + 2} }

func (o *host) Position(vid int) r3.Vec {
	return r3.Vec{X: o.X[vid][0] + o.U[3*vid], Y: o.X[vid][1] + o.U[3*vid+1], Z: o.X[vid][2] + o.U[3*vid+2]}
}

func (o *host) AssembleResidual(nodes, eqs []int, vals []float64) {
	for i, eq := range eqs {
		o.Fb[eq] += vals[i]
	}
}

func (o *host) AssembleTangent(rows, cols []int, ke [][]float64) {
	for i, r := range rows {
		for j, c := range cols {
			if !o.Prof[[2]int{r, c}] {
				o.Nout++
			}
			o.K.Set(r, c, o.K.At(r, c)+ke[i][j])
		}
	}
}

func (o *host) BuildAdd(lm []int) {
	for _, r := range lm {
		for _, c := range lm {
			o.Prof[[2]int{r, c}] = true
		}
	}
}

func (o *host) clear() {
	for i := range o.Fb {
		o.Fb[i] = 0
	}
	o.K.Zero()
}

// tied returns a tied interface between two unit squares at z=0
func tied(tst *testing.T, nxs, nxm int, tris, trim bool, prms Params) (o *MortarTied, h *host) {
	var coords [][]float64
	ts, cs, coords := mortar.GridFaces(nxs, nxs, 0, 0, 0, 1, 1, tris, coords)
	tm, cm, coords := mortar.GridFaces(nxm, nxm, 0, 0, 0, 1, 1, trim, coords)
	slave, err := mortar.NewSurface(ts, cs, coords)
	if err != nil {
		tst.Fatalf("NewSurface failed:\n%v", err)
	}
	master, err := mortar.NewSurface(tm, cm, coords)
	if err != nil {
		tst.Fatalf("NewSurface failed:\n%v", err)
	}
	h = newHost(coords)
	o, err = NewMortarTied(1, slave, master, prms, h)
	if err != nil {
		tst.Fatalf("NewMortarTied failed:\n%v", err)
	}
	return
}
