// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qn

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// DenseLU implements BackSolver with a dense LU factorisation
type DenseLU struct {
	lu   mat.LU  // factors
	n    int     // dimension
	Cond float64 // estimated condition number of last factorisation
}

// Factorize computes the LU factors of a
func (o *DenseLU) Factorize(a mat.Matrix) (err error) {
	m, n := a.Dims()
	if m != n {
		return chk.Err("matrix must be square; %d×%d is invalid", m, n)
	}
	o.n = 0
	o.lu.Factorize(a)
	o.Cond = o.lu.Cond()
	if math.IsInf(o.Cond, 1) {
		return chk.Err("matrix is singular")
	}
	o.n = n
	return
}

// BackSolve solves K0 x = b with the factors computed by Factorize
//  Note: large condition numbers are accepted; only exactly singular matrices fail
func (o *DenseLU) BackSolve(x, b []float64) (err error) {
	if o.n == 0 {
		return chk.Err("matrix has not been factorised")
	}
	if len(x) != o.n || len(b) != o.n {
		return chk.Err("vectors must have length %d; len(x)=%d len(b)=%d", o.n, len(x), len(b))
	}
	err = o.lu.SolveVecTo(mat.NewVecDense(o.n, x), false, mat.NewVecDense(o.n, b))
	if err != nil {
		if c, ok := err.(mat.Condition); ok && !math.IsInf(float64(c), 1) {
			return nil
		}
		return chk.Err("cannot solve linear system:\n%v", err)
	}
	return
}
