// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/Xianchao-Xu/FEBio/shp"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==2 or 3)
}

// Face holds surface element data
type Face struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag; e.g. -10 => slave, -20 => master
	Type  string `json:"type"`  // geometry type; e.g. "tri3", "qua4"
	Verts []int  `json:"verts"` // vertices
}

// Mesh holds the vertices and the surface elements of contact interfaces
type Mesh struct {

	// from JSON
	Verts []*Vert `json:"verts"` // vertices
	Faces []*Face `json:"faces"` // faces

	// derived
	FnamePath  string  // complete filename path
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate
	Zmin, Zmax float64 // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert // vertex tag => set of vertices
	FaceTag2faces map[int][]*Face // face tag => set of faces
}

// ReadMsh reads a mesh from a JSON or YAML file
func ReadMsh(dir, fn string) (o *Mesh, err error) {
	o = new(Mesh)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := io.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", o.FnamePath, err)
	}
	err = unmarshal(fn, b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", o.FnamePath, err)
	}
	err = o.Init()
	if err != nil {
		return nil, chk.Err("mesh file %q is invalid:\n%v", o.FnamePath, err)
	}
	return
}

// Init checks data and computes derived quantities
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 1 {
		return chk.Err("mesh must have at least 1 vertex")
	}

	// vertices
	o.Xmin, o.Ymin, o.Zmin = o.Verts[0].C[0], o.Verts[0].C[1], 0
	if len(o.Verts[0].C) > 2 {
		o.Zmin = o.Verts[0].C[2]
	}
	o.Xmax, o.Ymax, o.Zmax = o.Xmin, o.Ymin, o.Zmin
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {
		if v.Id != i {
			return chk.Err("vertex ids must be sequential; vertex %d has id=%d", i, v.Id)
		}
		nd := len(v.C)
		if nd < 2 || nd > 3 {
			return chk.Err("vertex %d must have 2 or 3 coordinates; %d given", i, nd)
		}
		if v.Tag < 0 {
			o.VertTag2verts[v.Tag] = append(o.VertTag2verts[v.Tag], v)
		}
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		if nd > 2 {
			o.Zmin = utl.Min(o.Zmin, v.C[2])
			o.Zmax = utl.Max(o.Zmax, v.C[2])
		}
	}

	// faces
	o.FaceTag2faces = make(map[int][]*Face)
	for i, f := range o.Faces {
		if f.Id != i {
			return chk.Err("face ids must be sequential; face %d has id=%d", i, f.Id)
		}
		if f.Tag >= 0 {
			return chk.Err("face %d must have a negative tag; tag=%d is invalid", i, f.Tag)
		}
		s := shp.Get(f.Type, 0)
		if s == nil {
			return chk.Err("face %d: geometry type %q is not available", i, f.Type)
		}
		if len(f.Verts) != s.Nverts {
			return chk.Err("face %d of type %q needs %d vertices; %d given", i, f.Type, s.Nverts, len(f.Verts))
		}
		for _, v := range f.Verts {
			if v < 0 || v >= len(o.Verts) {
				return chk.Err("face %d: vertex %d is out of range", i, v)
			}
		}
		o.FaceTag2faces[f.Tag] = append(o.FaceTag2faces[f.Tag], f)
	}
	return
}

// Coords returns the [nverts][3] coordinates of all vertices
func (o *Mesh) Coords() (coords [][]float64) {
	coords = utl.Alloc(len(o.Verts), 3)
	for i, v := range o.Verts {
		copy(coords[i], v.C)
	}
	return
}

// Surface returns the types and connectivity of all faces with a given tag
func (o *Mesh) Surface(tag int) (ctypes []string, conn [][]int, err error) {
	faces, ok := o.FaceTag2faces[tag]
	if !ok {
		return nil, nil, chk.Err("cannot find faces with tag = %d", tag)
	}
	for _, f := range faces {
		ctypes = append(ctypes, f.Type)
		conn = append(conn, f.Verts)
	}
	return
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Face
func (o *Face) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"verts\":[", o.Id, o.Tag, o.Type)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"faces\" : [\n"
	for i, x := range o.Faces {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
