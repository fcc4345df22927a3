// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mortar implements the geometric coupling of two non-matching surfaces
package mortar

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/shp"
)

// Face holds a surface element
type Face struct {
	Id    int        // index in Surface.Faces
	Type  string     // geometry type; e.g. "tri3", "qua4"
	Verts []int      // local node indices (into Surface.Nodes)
	Shp   *shp.Shape // shape structure
}

// Surface holds a set of faces sharing nodes
type Surface struct {
	Nodes []int       // global vertex ids, in order of first appearance
	X0    []r3.Vec    // reference positions
	X     []r3.Vec    // current positions
	Faces []*Face     // faces
	loc   map[int]int // global vertex id => local node index
}

// NewSurface creates a surface from the connectivity of its faces
//  ctypes -- face types; e.g. {"tri3", "tri3"}
//  conn   -- connectivity with global vertex ids
//  coords -- [nvertsMesh][3] coordinates of all vertices of the mesh
func NewSurface(ctypes []string, conn [][]int, coords [][]float64) (o *Surface, err error) {
	if len(ctypes) != len(conn) {
		return nil, chk.Err("number of face types (%d) must be equal to number of connectivities (%d)", len(ctypes), len(conn))
	}
	o = new(Surface)
	o.loc = make(map[int]int)
	for i, ctype := range ctypes {
		s := shp.Get(ctype, i+1)
		if s == nil {
			return nil, chk.Err("cannot find shape of face %d: type %q is not available", i, ctype)
		}
		if len(conn[i]) != s.Nverts {
			return nil, chk.Err("face %d of type %q needs %d vertices; %d given", i, ctype, s.Nverts, len(conn[i]))
		}
		face := &Face{Id: i, Type: ctype, Shp: s, Verts: make([]int, s.Nverts)}
		for j, vid := range conn[i] {
			if vid < 0 || vid >= len(coords) {
				return nil, chk.Err("face %d: vertex id %d is out of range [0, %d)", i, vid, len(coords))
			}
			a, ok := o.loc[vid]
			if !ok {
				a = len(o.Nodes)
				o.loc[vid] = a
				o.Nodes = append(o.Nodes, vid)
				x := coords[vid]
				p := r3.Vec{X: x[0], Y: x[1]}
				if len(x) > 2 {
					p.Z = x[2]
				}
				o.X0 = append(o.X0, p)
				o.X = append(o.X, p)
			}
			face.Verts[j] = a
		}
		o.Faces = append(o.Faces, face)
	}
	return
}

// Nnodes returns the number of nodes
func (o *Surface) Nnodes() int { return len(o.Nodes) }

// LocalId returns the local node index of a global vertex id, or -1
func (o *Surface) LocalId(vid int) int {
	if a, ok := o.loc[vid]; ok {
		return a
	}
	return -1
}

// SetPositions updates current positions
//  pos -- returns the current position of a global vertex
func (o *Surface) SetPositions(pos func(vid int) r3.Vec) {
	for a, vid := range o.Nodes {
		o.X[a] = pos(vid)
	}
}

// FaceCoords returns the coordinates matrix x[3][nverts] of a face
//  reference -- use reference positions instead of current ones
func (o *Surface) FaceCoords(face *Face, reference bool) (x [][]float64) {
	X := o.X
	if reference {
		X = o.X0
	}
	x = utl.Alloc(3, len(face.Verts))
	for j, a := range face.Verts {
		x[0][j], x[1][j], x[2][j] = X[a].X, X[a].Y, X[a].Z
	}
	return
}

// FaceArea computes the area of a face in the reference configuration
func (o *Surface) FaceArea(face *Face) (area float64, err error) {
	area, err = face.Shp.FaceArea(o.FaceCoords(face, true))
	if err != nil {
		err = chk.Err("cannot compute area of face %d:\n%v", face.Id, err)
	}
	return
}

// Corners returns the reference positions of the corner vertices of a face
func (o *Surface) Corners(face *Face) (p []r3.Vec) {
	p = make([]r3.Vec, face.Shp.Ncorners)
	for j := 0; j < face.Shp.Ncorners; j++ {
		p[j] = o.X0[face.Verts[j]]
	}
	return
}

// ProjectToFace projects y onto face (reference configuration)
//  Output:
//   r     -- natural coordinates of projected point
//   dist  -- parametric distance to face boundary (negative means outside)
func (o *Surface) ProjectToFace(face *Face, y r3.Vec) (r []float64, dist float64, err error) {
	r = make([]float64, 3)
	err = face.Shp.Project(r, []float64{y.X, y.Y, y.Z}, o.FaceCoords(face, true))
	if err != nil {
		return
	}
	dist = face.Shp.CellBryDist(r)
	return
}
