// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/mortar"
)

// TiedSurface holds the nodal data of the slave (non-mortar) surface
type TiedSurface struct {
	*mortar.Surface
	A   []float64 // inverse of nodal areas
	Gap []r3.Vec  // nodal gaps
	L   []r3.Vec  // Lagrange multipliers
}

// NewTiedSurface allocates nodal data
func NewTiedSurface(s *mortar.Surface) (o *TiedSurface) {
	nn := s.Nnodes()
	return &TiedSurface{
		Surface: s,
		A:       make([]float64, nn),
		Gap:     make([]r3.Vec, nn),
		L:       make([]r3.Vec, nn),
	}
}

// UpdateNodalAreas computes the inverse of the nodal areas; each face area is equally split among its nodes
func (o *TiedSurface) UpdateNodalAreas() (err error) {
	for i := range o.A {
		o.A[i] = 0
	}
	for _, face := range o.Faces {
		a, err := o.FaceArea(face)
		if err != nil {
			return err
		}
		fa := a / float64(len(face.Verts))
		for _, m := range face.Verts {
			o.A[m] += fa
		}
	}
	for i, a := range o.A {
		if a <= 0 {
			return chk.Err("nodal area of node %d (vertex %d) is zero", i, o.Nodes[i])
		}
		o.A[i] = 1.0 / a
	}
	return
}
