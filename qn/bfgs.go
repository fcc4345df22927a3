// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package qn implements quasi-Newton (secant) solvers for the linear systems of Newton iterations
package qn

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// BackSolver solves K0 x = b with an already factorised matrix K0
type BackSolver interface {
	BackSolve(x, b []float64) error
}

// BFGS implements the BFGS secant update of the inverse of a factorised tangent matrix
//  The inverse after n updates is
//   K⁻¹ = (I + w_n v_nᵀ) … (I + w_1 v_1ᵀ) K0⁻¹ (I + v_1 w_1ᵀ) … (I + v_n w_nᵀ)
//  where the pairs (v_i, w_i) are kept in a ring buffer
type BFGS struct {

	// parameters
	MaxUps     int     // maximum number of updates before the tangent is reformed
	MaxBufSize int     // capacity of buffer; ≤ 0 means MaxUps
	Cmax       float64 // maximum condition number of updates
	Cycle      bool    // overwrite the oldest updates when the buffer is full

	// update vectors
	V [][]float64 // [capacity][neq]
	W [][]float64 // [capacity][neq]

	// scratchpad
	D, G, H []float64 // [neq]
	tmp     []float64 // [neq]

	// state
	neq  int        // number of equations
	nups int        // number of accepted updates
	next int        // slot for next stored update
	nbuf int        // number of stored updates
	ls   BackSolver // solver with K0
}

// SetDefault sets default parameters
func (o *BFGS) SetDefault() {
	o.MaxUps = 10
	o.Cmax = 1e5
}

// Init allocates the buffer
//  neq -- number of equations
//  ls  -- solver with the factorised tangent
func (o *BFGS) Init(neq int, ls BackSolver) (err error) {
	if o.MaxUps < 0 {
		return chk.Err("maximum number of updates must be non-negative; MaxUps=%d is invalid", o.MaxUps)
	}
	if o.MaxBufSize <= 0 {
		o.MaxBufSize = o.MaxUps
	}
	if ls == nil {
		return chk.Err("BFGS solver needs a back solver")
	}
	o.neq = neq
	o.ls = ls
	o.V = make([][]float64, o.MaxBufSize)
	o.W = make([][]float64, o.MaxBufSize)
	for i := 0; i < o.MaxBufSize; i++ {
		o.V[i] = make([]float64, neq)
		o.W[i] = make([]float64, neq)
	}
	o.D = make([]float64, neq)
	o.G = make([]float64, neq)
	o.H = make([]float64, neq)
	o.tmp = make([]float64, neq)
	o.Reset()
	return
}

// Reset discards all updates; e.g. after the tangent is reformed
func (o *BFGS) Reset() {
	o.nups, o.next, o.nbuf = 0, 0, 0
}

// Nups returns the number of accepted updates
func (o *BFGS) Nups() int { return o.nups }

// Nstored returns the number of updates used by Solve
func (o *BFGS) Nstored() int { return o.nbuf }

// Update computes a new pair of update vectors
//  Input:
//   s  -- line search factor
//   ui -- increment computed with the previous inverse
//   R0 -- previous residual
//   R1 -- current residual
//  Output:
//   ok -- false if the update was rejected because its condition number is larger than Cmax
//  Note: when the buffer is full and Cycle is false, the update is accepted but not stored
func (o *BFGS) Update(s float64, ui, R0, R1 []float64) (ok bool) {

	// update vectors
	for i := 0; i < o.neq; i++ {
		o.D[i] = s * ui[i]
		o.G[i] = R0[i] - R1[i]
		o.H[i] = s * R0[i]
	}
	dg := floats.Dot(o.D, o.G)
	dh := floats.Dot(o.D, o.H)

	// condition number
	c := math.Sqrt(math.Abs(dg / dh))
	if c > o.Cmax || math.IsNaN(c) || dg == 0 {
		return false
	}

	// store
	if o.MaxBufSize > 0 && (o.nbuf < o.MaxBufSize || o.Cycle) {
		v, w := o.V[o.next], o.W[o.next]
		for i := 0; i < o.neq; i++ {
			v[i] = -o.H[i]*c - o.G[i]
			w[i] = o.D[i] / dg
		}
		o.next++
		if o.next == o.MaxBufSize {
			o.next = 0
		}
		if o.nbuf < o.MaxBufSize {
			o.nbuf++
		}
	}
	o.nups++
	return true
}

// Solve solves K x = b using the updates and one back substitution with K0
func (o *BFGS) Solve(x, b []float64) (err error) {

	// skip empty systems
	if o.neq == 0 {
		return
	}

	// oldest update
	n0 := 0
	if o.nbuf == o.MaxBufSize {
		n0 = o.next
	}

	// from newest to oldest: tmp += v (w・tmp)
	copy(o.tmp, b)
	for i := o.nbuf - 1; i >= 0; i-- {
		n := o.slot(n0, i)
		floats.AddScaled(o.tmp, floats.Dot(o.W[n], o.tmp), o.V[n])
	}

	// back substitution
	err = o.ls.BackSolve(x, o.tmp)
	if err != nil {
		return chk.Err("BFGS: back substitution failed:\n%v", err)
	}

	// from oldest to newest: x += w (v・x)
	for i := 0; i < o.nbuf; i++ {
		n := o.slot(n0, i)
		floats.AddScaled(x, floats.Dot(o.V[n], x), o.W[n])
	}
	return
}

// slot returns the buffer index of the i-th update counted from the oldest one at n0
func (o *BFGS) slot(n0, i int) (n int) {
	n = n0 + i
	if n >= o.MaxBufSize {
		n -= o.MaxBufSize
	}
	return
}
