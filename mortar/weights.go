// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mortar

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/shp"
)

// constants
const (
	OUTTOL = 1.0e-8 // tolerance on the parametric distance of projections outside faces
	MAXNV  = 8      // maximum number of vertices of faces
)

// Stats collects recoverable anomalies found while computing weights
type Stats struct {
	Npatches     int // number of patches
	Nfacets      int // number of facets integrated
	NdegenFacets int // number of facets skipped due to small area
	NoutOfRange  int // number of projections outside faces (clamped)
	Nfailed      int // number of facets skipped due to projection failure
}

// Weights holds the mortar coupling operators
//  N1[A][B] = ∫ Ns_A Ns_B dΓ   (slave × slave)
//  N2[A][C] = ∫ Ns_A Nm_C dΓ   (slave × master)
type Weights struct {
	N1    *mat.Dense  // [ns][ns]
	N2    *mat.Dense  // [ns][nm]
	P1    *sparse.CSR // non-zero pattern of N1 (nil if not pruned)
	P2    *sparse.CSR // non-zero pattern of N2 (nil if not pruned)
	Sum1  float64     // Σ N1; should be the contact area
	Sum2  float64     // Σ N2; should be the contact area
	Stats Stats       // anomalies

	// scratchpad
	ips []shp.Ipoint // integration points on facets
	sn  [][]float64  // [nip][MAXNV] slave shape functions @ integration points
	mn  [][]float64  // [nip][MAXNV] master shape functions @ integration points
}

// UpdateWeights computes the mortar weights between slave and master surfaces
//  ipsKey -- key of integration points set on facets; e.g. "tri_7"
//  prune  -- build the sparse pattern of non-zero weights
func UpdateWeights(slave, master *Surface, ipsKey string, prune bool) (o *Weights, err error) {

	// integration points on facets
	ips, err := shp.GetIps(ipsKey)
	if err != nil {
		return
	}
	if !strings.HasPrefix(ipsKey, "tri_") {
		return nil, chk.Err("integration points on facets must be of triangles; %q is invalid", ipsKey)
	}

	// allocate operators
	ns, nm := slave.Nnodes(), master.Nnodes()
	if ns == 0 || nm == 0 {
		return nil, chk.Err("slave and master surfaces must have nodes; ns=%d nm=%d", ns, nm)
	}
	o = newWeights(ns, nm, ips)

	// mortar surface
	mortar := CalcMortarSurface(slave, master)
	o.Stats.Npatches = len(mortar.Patches)

	// loop over patches
	for _, patch := range mortar.Patches {
		o.integrate(slave, master, patch)
	}

	// sanity check
	for A := 0; A < ns; A++ {
		for B := 0; B < ns; B++ {
			o.Sum1 += o.N1.At(A, B)
		}
		for C := 0; C < nm; C++ {
			o.Sum2 += o.N2.At(A, C)
		}
	}

	// pattern
	if prune {
		o.Prune()
	}
	return
}

// Prune builds the sparse pattern of non-zero weights used by row traversals
func (o *Weights) Prune() {
	o.P1 = pattern(o.N1)
	o.P2 = pattern(o.N2)
}

// DoRowN1 calls fn for each non-zero N1[A][B] in row A
func (o *Weights) DoRowN1(A int, fn func(B int, v float64)) {
	doRow(o.N1, o.P1, A, fn)
}

// DoRowN2 calls fn for each non-zero N2[A][C] in row A
func (o *Weights) DoRowN2(A int, fn func(C int, v float64)) {
	doRow(o.N2, o.P2, A, fn)
}

// Nnz returns the number of non-zero entries in N1 and N2
func (o *Weights) Nnz() (nnz1, nnz2 int) {
	ns, _ := o.N1.Dims()
	for A := 0; A < ns; A++ {
		o.DoRowN1(A, func(int, float64) { nnz1++ })
		o.DoRowN2(A, func(int, float64) { nnz2++ })
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// newWeights allocates operators and scratchpad
func newWeights(ns, nm int, ips []shp.Ipoint) (o *Weights) {
	o = new(Weights)
	o.N1 = mat.NewDense(ns, ns, nil)
	o.N2 = mat.NewDense(ns, nm, nil)
	o.ips = ips
	o.sn = utl.Alloc(len(ips), MAXNV)
	o.mn = utl.Alloc(len(ips), MAXNV)
	return
}

// integrate adds the contributions of all facets of a patch
func (o *Weights) integrate(slave, master *Surface, patch *Patch) {
	sface := slave.Faces[patch.SlaveFace]
	mface := master.Faces[patch.MasterFace]
	for _, facet := range patch.Facets {

		// area scaled by 2 since the sum of weights of triangles is 1/2
		area := facet.Area() * 2.0
		if area <= MINAREA {
			o.Stats.NdegenFacets++
			continue
		}

		// shape functions @ integration points
		ok := true
		for n, ip := range o.ips {
			xp := facet.Position(ip[0], ip[1])
			if !o.evalAt(o.sn[n], slave, sface, xp) || !o.evalAt(o.mn[n], master, mface, xp) {
				ok = false
				break
			}
		}
		if !ok {
			o.Stats.Nfailed++
			continue
		}
		o.Stats.Nfacets++

		// contributions
		for A, a := range sface.Verts {
			for B, b := range sface.Verts {
				n1 := 0.0
				for n, ip := range o.ips {
					n1 += ip[3] * o.sn[n][A] * o.sn[n][B]
				}
				o.N1.Set(a, b, o.N1.At(a, b)+n1*area)
			}
			for C, c := range mface.Verts {
				n2 := 0.0
				for n, ip := range o.ips {
					n2 += ip[3] * o.sn[n][A] * o.mn[n][C]
				}
				o.N2.Set(a, c, o.N2.At(a, c)+n2*area)
			}
		}
	}
}

// evalAt projects xp onto face and computes shape functions there; returns false on failure
func (o *Weights) evalAt(S []float64, surf *Surface, face *Face, xp r3.Vec) bool {
	r, dist, err := surf.ProjectToFace(face, xp)
	if err != nil {
		return false
	}
	if dist < -OUTTOL {
		face.Shp.ClampNat(r, OUTTOL)
		o.Stats.NoutOfRange++
	}
	face.Shp.Func(S, nil, r, false)
	return true
}

// pattern returns the sparse pattern of non-zero entries of a dense matrix
func pattern(a *mat.Dense) *sparse.CSR {
	m, n := a.Dims()
	dok := sparse.NewDOK(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if v := a.At(i, j); v != 0 {
				dok.Set(i, j, v)
			}
		}
	}
	return dok.ToCSR()
}

// doRow calls fn for the non-zero entries of row i of a, using the pattern p if available
func doRow(a *mat.Dense, p *sparse.CSR, i int, fn func(j int, v float64)) {
	if p != nil {
		p.DoRowNonZero(i, func(_, j int, v float64) {
			fn(j, v)
		})
		return
	}
	_, n := a.Dims()
	for j := 0; j < n; j++ {
		if v := a.At(i, j); v != 0 {
			fn(j, v)
		}
	}
}
