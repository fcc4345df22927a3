// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/Xianchao-Xu/FEBio/contact"

// Elem defines what elements must calculate
type Elem interface {

	// information and initialisation
	Id() int                          // returns the element Id
	SetEqs(vid2eqs [][]int) (err error) // set equations

	// matrix profile
	BuildMatrixProfile(p contact.ProfileBuilder) // declares coupled equations

	// called for each iteration
	AddToRhs(fb []float64, sol *Solution) (err error)                               // adds -R to global residual vector fb
	AddToKb(Kb contact.TangentAssembler, sol *Solution, firstIt bool) (err error) // adds element K to global Jacobian matrix Kb
	Update(sol *Solution) (err error)                                               // perform (tangent) update
}
