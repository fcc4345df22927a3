// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const (
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// NatCentre returns the natural coordinates of the centre of the basic geometry
func (o *Shape) NatCentre() []float64 {
	if o.BasicType == "tri3" {
		return []float64{1.0 / 3.0, 1.0 / 3.0, 0}
	}
	return []float64{0, 0, 0}
}

// Project computes the natural coordinates r of the point on the surface nearest to y
//  Input:
//   y[3]         -- point coordinates
//   x[3][nverts] -- coordinates matrix of face
//  Output:
//   r[3] -- natural coordinates of projected point (may be outside the face)
//  Note: Gauss-Newton iterations on |y - x(r)|²; for flat faces this is the orthogonal projection
func (o *Shape) Project(r, y []float64, x [][]float64) (err error) {

	var δRnorm float64
	var A [2][2]float64
	var b [2]float64
	e := make([]float64, 3) // residual
	copy(r, o.NatCentre())  // first trial
	it := 0
	for it = 0; it < INVMAP_NIT; it++ {

		// shape functions and derivatives
		err = o.CalcAtIp(x, r, true)
		if err != nil {
			return
		}

		// residual: e = y - x * S
		for i := 0; i < 3; i++ {
			e[i] = y[i]
			for j := 0; j < o.Nverts; j++ {
				e[i] -= x[i][j] * o.S[j]
			}
		}

		// normal equations: (dxdRᵀ dxdR) δr = dxdRᵀ e
		for i := 0; i < 2; i++ {
			b[i] = 0
			for j := 0; j < 2; j++ {
				A[i][j] = 0
			}
			for k := 0; k < 3; k++ {
				b[i] += o.DxdR[k][i] * e[k]
				for j := 0; j < 2; j++ {
					A[i][j] += o.DxdR[k][i] * o.DxdR[k][j]
				}
			}
		}
		det := A[0][0]*A[1][1] - A[0][1]*A[1][0]
		if math.Abs(det) < MINDET {
			return chk.Err("cannot project point onto %s face: singular metric (det=%g)", o.Type, det)
		}
		δr0 := (A[1][1]*b[0] - A[0][1]*b[1]) / det
		δr1 := (A[0][0]*b[1] - A[1][0]*b[0]) / det

		// converged?
		r[0] += δr0
		r[1] += δr1
		δRnorm = math.Sqrt(δr0*δr0 + δr1*δr1)
		if δRnorm < INVMAP_TOL {
			break
		}
	}

	// check
	if it == INVMAP_NIT {
		return chk.Err("projection onto %s face did not converge after %d iterations (|δr|=%g)", o.Type, it, δRnorm)
	}
	return
}

// CellBryDist returns the shortest distance between R and the boundary of the cell in natural coordinates
//  Note: negative values mean that R is outside the cell
func (o *Shape) CellBryDist(R []float64) float64 {
	r, s := R[0], R[1]
	switch o.BasicType {
	case "tri3":
		return utl.Min(r, utl.Min(s, 1.0-r-s))
	case "qua4":
		return utl.Min(1.0-math.Abs(r), 1.0-math.Abs(s))
	}
	chk.Panic("cannot handle BasicType=%q yet", o.BasicType)
	return 0 // must not reach this point
}

// ClampNat moves R onto the closest natural point inside the cell if it is outside by more than tol
//  Output: clamped -- true if R was modified
func (o *Shape) ClampNat(R []float64, tol float64) (clamped bool) {
	if o.CellBryDist(R) >= -tol {
		return
	}
	clamped = true
	switch o.BasicType {
	case "tri3":
		R[0] = utl.Max(R[0], 0)
		R[1] = utl.Max(R[1], 0)
		if sum := R[0] + R[1]; sum > 1 {
			R[0] /= sum
			R[1] /= sum
		}
	case "qua4":
		R[0] = utl.Min(utl.Max(R[0], -1), 1)
		R[1] = utl.Min(utl.Max(R[1], -1), 1)
	}
	return
}
