// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/mortar"
)

// State holds the raw arrays of a tied contact interface
type State struct {
	L    []r3.Vec  // multipliers
	Gap  []r3.Vec  // gaps
	A    []float64 // inverse nodal areas
	Ns   int       // number of slave nodes
	Nm   int       // number of master nodes
	N1   []float64 // [ns*ns] row-major weights
	N2   []float64 // [ns*nm] row-major weights
	Sum1 float64   // Σ N1
	Sum2 float64   // Σ N2
}

// Encode encodes the state of this interface
func (o *MortarTied) Encode(enc Encoder) (err error) {
	if !o.Active {
		return chk.Err("tied contact %d: cannot encode state of inactive interface", o.Id)
	}
	ns, nm := o.Ss.Nnodes(), o.Ms.Nnodes()
	st := State{L: o.Ss.L, Gap: o.Ss.Gap, A: o.Ss.A, Ns: ns, Nm: nm, Sum1: o.W.Sum1, Sum2: o.W.Sum2}
	st.N1 = make([]float64, 0, ns*ns)
	st.N2 = make([]float64, 0, ns*nm)
	for A := 0; A < ns; A++ {
		st.N1 = append(st.N1, o.W.N1.RawRowView(A)...)
		st.N2 = append(st.N2, o.W.N2.RawRowView(A)...)
	}
	err = enc.Encode(st)
	if err != nil {
		return chk.Err("tied contact %d: cannot encode state:\n%v", o.Id, err)
	}
	return
}

// Decode decodes the state of this interface; the interface becomes active
func (o *MortarTied) Decode(dec Decoder) (err error) {
	var st State
	err = dec.Decode(&st)
	if err != nil {
		return chk.Err("tied contact %d: cannot decode state:\n%v", o.Id, err)
	}
	ns, nm := o.Ss.Nnodes(), o.Ms.Nnodes()
	if ns == 0 || nm == 0 || st.Ns != ns || st.Nm != nm || len(st.L) != ns || len(st.Gap) != ns || len(st.A) != ns ||
		len(st.N1) != ns*ns || len(st.N2) != ns*nm {
		return chk.Err("tied contact %d: decoded state does not match surfaces: ns=%d (%d) nm=%d (%d)", o.Id, st.Ns, ns, st.Nm, nm)
	}
	copy(o.Ss.L, st.L)
	copy(o.Ss.Gap, st.Gap)
	copy(o.Ss.A, st.A)
	o.W = &mortar.Weights{
		N1:   mat.NewDense(ns, ns, st.N1),
		N2:   mat.NewDense(ns, nm, st.N2),
		Sum1: st.Sum1,
		Sum2: st.Sum2,
	}
	if o.Prms.Prune {
		o.W.Prune()
	}
	o.set_eqs()
	o.Active = true
	return
}
