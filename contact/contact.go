// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package contact implements tied contact between non-matching surfaces using the mortar method
// and an augmented Lagrangian enforcement
package contact

import "gonum.org/v1/gonum/spatial/r3"

// EqLocator returns the equation numbers of the x, y and z displacements of a vertex
//  Note: negative numbers indicate inactive (prescribed) equations
type EqLocator interface {
	NodeEqs(vid int) []int
}

// Locator returns the current position of a vertex
type Locator interface {
	Position(vid int) r3.Vec
}

// ResidualAssembler adds values into the global residual vector
type ResidualAssembler interface {
	AssembleResidual(nodes, eqs []int, vals []float64)
}

// TangentAssembler adds a dense block into the global tangent matrix
type TangentAssembler interface {
	AssembleTangent(rows, cols []int, ke [][]float64)
}

// ProfileBuilder declares that all equations in lm are coupled to each other
type ProfileBuilder interface {
	BuildAdd(lm []int)
}

// Host collects all collaborators needed by contact interfaces
type Host interface {
	EqLocator
	Locator
	ResidualAssembler
	TangentAssembler
	ProfileBuilder
}

// Params holds the parameters of a tied contact interface
type Params struct {
	Laugon  bool    // augmented Lagrangian flag
	Atol    float64 // augmentation tolerance; ≤ 0 means no check
	Eps     float64 // penalty factor
	NaugMin int     // minimum number of augmentations
	NaugMax int     // maximum number of augmentations
	Prune   bool    // use the sparse pattern of weights
}

// SetDefault sets default values
func (o *Params) SetDefault() {
	o.Eps = 1
	o.NaugMax = 10
}

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}
