// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/mortar"
)

// MortarTied implements a tied contact interface between a slave and a master surface
type MortarTied struct {

	// input
	Id     int             // identifier of interface
	Prms   Params          // parameters
	IpsKey string          // integration points on facets
	Ss     *TiedSurface    // slave (non-mortar) surface
	Ms     *mortar.Surface // master (mortar) surface

	// derived
	W      *mortar.Weights // mortar weights
	MaxErr float64         // augmentation error of last call to Augment
	Active bool            // Activate was called

	// collaborators
	host Host

	// scratchpad
	seqs [][]int     // [ns][3] equations of slave nodes
	meqs [][]int     // [nm][3] equations of master nodes
	fe   []float64   // [3] nodal force
	ke   [][]float64 // [3][3] diagonal block
}

// NewMortarTied returns a new tied contact interface
func NewMortarTied(id int, slave, master *mortar.Surface, prms Params, host Host) (o *MortarTied, err error) {
	if slave == nil || master == nil {
		return nil, chk.Err("tied contact %d: slave and master surfaces must be given", id)
	}
	if host == nil {
		return nil, chk.Err("tied contact %d: host must be given", id)
	}
	o = &MortarTied{
		Id:     id,
		Prms:   prms,
		IpsKey: "tri_7",
		Ss:     NewTiedSurface(slave),
		Ms:     master,
		host:   host,
		fe:     make([]float64, 3),
		ke:     [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
	}
	return
}

// Activate computes nodal areas, mortar weights and gaps
//  Note: weights of tied interfaces are computed only once, here
func (o *MortarTied) Activate() (err error) {

	// equations
	o.set_eqs()

	// areas
	err = o.Ss.UpdateNodalAreas()
	if err != nil {
		return chk.Err("tied contact %d: cannot compute nodal areas:\n%v", o.Id, err)
	}

	// weights
	o.W, err = mortar.UpdateWeights(o.Ss.Surface, o.Ms, o.IpsKey, o.Prms.Prune)
	if err != nil {
		return chk.Err("tied contact %d: cannot compute mortar weights:\n%v", o.Id, err)
	}
	st := o.W.Stats
	if st.NdegenFacets > 0 || st.NoutOfRange > 0 || st.Nfailed > 0 {
		io.Pfyel("tied contact %d: %d degenerate facets, %d projections out of range, %d facets skipped\n",
			o.Id, st.NdegenFacets, st.NoutOfRange, st.Nfailed)
	}
	io.Pf("tied contact %d: ΣN1 = %g  ΣN2 = %g  (%d patches)\n", o.Id, o.W.Sum1, o.W.Sum2, st.Npatches)

	// gaps
	o.Active = true
	o.Update()
	return
}

// BuildMatrixProfile declares the equations coupled by this interface
//  Note: before activation (or without pruning) all equations of both surfaces are coupled
func (o *MortarTied) BuildMatrixProfile() {
	if !o.Active || !o.Prms.Prune {
		var lm []int
		for _, vid := range o.Ss.Nodes {
			lm = append(lm, o.host.NodeEqs(vid)...)
		}
		for _, vid := range o.Ms.Nodes {
			lm = append(lm, o.host.NodeEqs(vid)...)
		}
		o.host.BuildAdd(lm)
		return
	}
	for A := range o.Ss.Nodes {
		var lm []int
		o.W.DoRowN1(A, func(B int, _ float64) { lm = append(lm, o.seqs[B]...) })
		o.W.DoRowN2(A, func(C int, _ float64) { lm = append(lm, o.meqs[C]...) })
		if len(lm) > 0 {
			o.host.BuildAdd(lm)
		}
	}
}

// Update updates current positions and gaps
func (o *MortarTied) Update() {
	o.Ss.SetPositions(o.host.Position)
	o.Ms.SetPositions(o.host.Position)
	o.UpdateGaps()
}

// UpdateGaps computes gap[A] = Σ N1[A][B] x_B - Σ N2[A][C] x_C
func (o *MortarTied) UpdateGaps() {
	for A := range o.Ss.Gap {
		var g r3.Vec
		o.W.DoRowN1(A, func(B int, n1 float64) {
			g = r3.Add(g, r3.Scale(n1, o.Ss.X[B]))
		})
		o.W.DoRowN2(A, func(C int, n2 float64) {
			g = r3.Sub(g, r3.Scale(n2, o.Ms.X[C]))
		})
		o.Ss.Gap[A] = g
	}
}

// Traction returns the effective traction at slave node A: t = L + ε A g
func (o *MortarTied) Traction(A int) r3.Vec {
	eps := o.Prms.Eps * o.Ss.A[A]
	return r3.Add(o.Ss.L[A], r3.Scale(eps, o.Ss.Gap[A]))
}

// AddToRhs adds contact forces to the residual
//  slave:  -N1[A][B] t_A
//  master: +N2[A][C] t_A
func (o *MortarTied) AddToRhs() {
	node := []int{0}
	for A := range o.Ss.Nodes {
		t := o.Traction(A)
		o.W.DoRowN1(A, func(B int, n1 float64) {
			node[0] = o.Ss.Nodes[B]
			o.setfe(t, -n1)
			o.host.AssembleResidual(node, o.seqs[B], o.fe)
		})
		o.W.DoRowN2(A, func(C int, n2 float64) {
			node[0] = o.Ms.Nodes[C]
			o.setfe(t, n2)
			o.host.AssembleResidual(node, o.meqs[C], o.fe)
		})
	}
}

// AddToKb adds contact stiffness to the tangent matrix
func (o *MortarTied) AddToKb() {
	for A := range o.Ss.Nodes {
		eps := o.Prms.Eps * o.Ss.A[A]

		// slave rows
		o.W.DoRowN1(A, func(B int, n1B float64) {
			nAB := n1B * eps
			o.W.DoRowN1(A, func(C int, n1C float64) {
				o.addke(o.seqs[B], o.seqs[C], n1C*nAB)
			})
			o.W.DoRowN2(A, func(C int, n2C float64) {
				o.addke(o.seqs[B], o.meqs[C], -n2C*nAB)
			})
		})

		// master rows
		o.W.DoRowN2(A, func(B int, n2B float64) {
			nAB := -n2B * eps
			o.W.DoRowN1(A, func(C int, n1C float64) {
				o.addke(o.meqs[B], o.seqs[C], n1C*nAB)
			})
			o.W.DoRowN2(A, func(C int, n2C float64) {
				o.addke(o.meqs[B], o.meqs[C], -n2C*nAB)
			})
		})
	}
}

// AugError computes the largest relative change of the norm of multipliers if an augmentation was done
func (o *MortarTied) AugError() (maxErr float64) {
	for A := range o.Ss.Nodes {
		uold := r3.Norm(o.Ss.L[A])
		unew := r3.Norm(o.Traction(A))
		if uold+unew == 0 {
			continue
		}
		maxErr = math.Max(maxErr, math.Abs((uold-unew)/(uold+unew)))
	}
	return
}

// Augment checks the augmentation convergence and updates the multipliers if not converged
//  naug -- number of augmentations done so far
func (o *MortarTied) Augment(naug int) (converged bool) {
	if !o.Prms.Laugon {
		return true
	}
	o.MaxErr = o.AugError()
	converged = AugConverged(o.Prms, o.MaxErr, naug)

	// message
	if io.Verbose {
		io.Pf(" mortar interface # %d\n", o.Id)
		io.Pf("                        CURRENT        REQUIRED\n")
		io.Pf("    normal force : %15e", o.MaxErr)
		if o.Prms.Atol > 0 {
			io.Pf("%15e\n", o.Prms.Atol)
		} else {
			io.Pf("       ***\n")
		}
	}

	// commit multipliers
	if !converged {
		for A := range o.Ss.Nodes {
			o.Ss.L[A] = o.Traction(A)
		}
	}
	return
}

// AugConverged decides whether the augmentations have converged
//  maxErr -- augmentation error
//  naug   -- number of augmentations done so far
func AugConverged(prms Params, maxErr float64, naug int) (converged bool) {
	if !prms.Laugon {
		return true
	}
	converged = true
	if prms.Atol > 0 && maxErr > prms.Atol {
		converged = false
	}
	if prms.NaugMin > naug {
		converged = false
	}
	if prms.NaugMax <= naug {
		converged = true
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// set_eqs collects the equations of slave and master nodes
func (o *MortarTied) set_eqs() {
	o.seqs = make([][]int, o.Ss.Nnodes())
	for a, vid := range o.Ss.Nodes {
		o.seqs[a] = o.host.NodeEqs(vid)
	}
	o.meqs = make([][]int, o.Ms.Nnodes())
	for c, vid := range o.Ms.Nodes {
		o.meqs[c] = o.host.NodeEqs(vid)
	}
}

func (o *MortarTied) setfe(t r3.Vec, coef float64) {
	o.fe[0], o.fe[1], o.fe[2] = coef*t.X, coef*t.Y, coef*t.Z
}

func (o *MortarTied) addke(rows, cols []int, v float64) {
	if v == 0 {
		return
	}
	o.ke[0][0], o.ke[1][1], o.ke[2][2] = v, v, v
	o.host.AssembleTangent(rows, cols, o.ke)
}
