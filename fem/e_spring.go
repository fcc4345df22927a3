// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/contact"
	"github.com/Xianchao-Xu/FEBio/inp"
)

// Spring represents a nodal spring connecting a vertex to its reference position
//  The force of each component is
//   f = K u + K3 u³
type Spring struct {

	// basic data
	Eid int // element id
	Vid int // vertex id

	// parameters
	K  float64 // linear stiffness
	K3 float64 // cubic stiffness

	// problem variables
	Umap []int // assembly map (location array/element equations)

	// state
	F r3.Vec // spring force; computed by Update

	// flags
	Debug bool // print force after each update

	// scratchpad
	fe []float64   // [3] force
	ke [][]float64 // [3][3] stiffness
}

// NewSpring returns a new spring element
//  extra -- "!k3:value" sets the cubic stiffness
func NewSpring(eid, vid int, dat *inp.SpringData) (o *Spring, err error) {
	if dat.K < 0 {
		return nil, chk.Err("spring stiffness must be non-negative; K=%g is invalid", dat.K)
	}
	o = &Spring{Eid: eid, Vid: vid, K: dat.K}
	o.K3, o.Debug = GetSpringFlags(dat.Extra)
	o.fe = make([]float64, 3)
	o.ke = [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	return
}

// Id returns the element Id
func (o *Spring) Id() int { return o.Eid }

// SetEqs sets equations
func (o *Spring) SetEqs(vid2eqs [][]int) (err error) {
	if o.Vid < 0 || o.Vid >= len(vid2eqs) {
		return chk.Err("spring %d: vertex %d is out of range", o.Eid, o.Vid)
	}
	o.Umap = vid2eqs[o.Vid]
	return
}

// BuildMatrixProfile declares coupled equations
func (o *Spring) BuildMatrixProfile(p contact.ProfileBuilder) {
	p.BuildAdd(o.Umap)
}

// AddToRhs adds -R to global residual vector fb
func (o *Spring) AddToRhs(fb []float64, sol *Solution) (err error) {
	u := o.disp(sol)
	for i, eq := range o.Umap {
		if eq >= 0 {
			fb[eq] -= o.K*u[i] + o.K3*u[i]*u[i]*u[i]
		}
	}
	return
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *Spring) AddToKb(Kb contact.TangentAssembler, sol *Solution, firstIt bool) (err error) {
	u := o.disp(sol)
	for i := 0; i < 3; i++ {
		o.ke[i][i] = o.K + 3*o.K3*u[i]*u[i]
	}
	Kb.AssembleTangent(o.Umap, o.Umap, o.ke)
	return
}

// Update computes the spring force
func (o *Spring) Update(sol *Solution) (err error) {
	u := o.disp(sol)
	for i := 0; i < 3; i++ {
		o.fe[i] = o.K*u[i] + o.K3*u[i]*u[i]*u[i]
	}
	o.F = r3.Vec{X: o.fe[0], Y: o.fe[1], Z: o.fe[2]}
	if o.Debug {
		io.Pf("spring %d: u = %v  F = %v\n", o.Eid, o.disp(sol), o.F)
	}
	return
}

// disp returns the displacements of vertex
func (o *Spring) disp(sol *Solution) [3]float64 {
	u := sol.Disp(o.Vid, o.Umap)
	return [3]float64{u.X, u.Y, u.Z}
}
