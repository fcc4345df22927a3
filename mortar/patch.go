// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mortar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// constants
const (
	MINAREA = 1.0e-15 // facets with area×2 below this value are skipped
	CLIPTOL = 1.0e-12 // relative tolerance for the polygon clipping inside test
)

// Facet is a triangle within a patch
type Facet struct {
	V [3]r3.Vec // vertices
}

// Area returns the area of facet
func (o Facet) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(o.V[1], o.V[0]), r3.Sub(o.V[2], o.V[0])))
}

// Position returns the position of the point with natural coordinates (r,s) on the facet
func (o Facet) Position(r, s float64) r3.Vec {
	p := r3.Scale(1.0-r-s, o.V[0])
	p = r3.Add(p, r3.Scale(r, o.V[1]))
	return r3.Add(p, r3.Scale(s, o.V[2]))
}

// Patch is the intersection between one slave face and one master face
type Patch struct {
	SlaveFace  int     // index of slave face
	MasterFace int     // index of master face
	Facets     []Facet // triangulation of intersection polygon
}

// Area returns the sum of areas of facets
func (o *Patch) Area() (area float64) {
	for _, f := range o.Facets {
		area += f.Area()
	}
	return
}

// MortarSurface holds all patches
type MortarSurface struct {
	Patches []*Patch
}

// Area returns the total area of mortar surface
func (o *MortarSurface) Area() (area float64) {
	for _, p := range o.Patches {
		area += p.Area()
	}
	return
}

// CalcMortarSurface computes the intersections between all faces of slave and master surfaces
//  Note: the intersection is computed in the plane of each slave face; master faces are projected
//        onto this plane and clipped by the slave polygon. Master faces farther from the plane than
//        the size of the slave face are ignored.
func CalcMortarSurface(slave, master *Surface) (ms *MortarSurface) {
	ms = new(MortarSurface)

	// bounding data of master faces
	mc := make([]r3.Vec, len(master.Faces))
	mr := make([]float64, len(master.Faces))
	for l, face := range master.Faces {
		mc[l], mr[l] = boundingSphere(master.Corners(face))
	}

	// loop over slave faces
	for k, sface := range slave.Faces {

		// plane of slave face
		scorners := slave.Corners(sface)
		pl := newPlane(scorners)
		if pl == nil {
			continue
		}
		sc, sr := boundingSphere(scorners)
		spoly := pl.project2d(scorners)

		// loop over master faces
		for l, mface := range master.Faces {

			// quick rejection
			if r3.Norm(r3.Sub(mc[l], sc)) > sr+mr[l] {
				continue
			}
			if math.Abs(r3.Dot(r3.Sub(mc[l], pl.c), pl.n)) > 2*sr {
				continue
			}

			// clip
			mpoly := pl.project2d(master.Corners(mface))
			if signedArea(mpoly) < 0 {
				reverse(mpoly)
			}
			poly := clip(mpoly, spoly)
			if len(poly) < 3 || math.Abs(signedArea(poly)) <= CLIPTOL*sr*sr {
				continue
			}

			// triangulate
			patch := &Patch{SlaveFace: k, MasterFace: l}
			var cen vec2
			for _, p := range poly {
				cen.x += p.x / float64(len(poly))
				cen.y += p.y / float64(len(poly))
			}
			c3 := pl.to3d(cen)
			for i := 0; i < len(poly); i++ {
				j := (i + 1) % len(poly)
				patch.Facets = append(patch.Facets, Facet{V: [3]r3.Vec{c3, pl.to3d(poly[i]), pl.to3d(poly[j])}})
			}
			ms.Patches = append(ms.Patches, patch)
		}
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// vec2 is a point in the local system of a plane
type vec2 struct {
	x, y float64
}

// plane holds a local coordinate system
type plane struct {
	c, n, e1, e2 r3.Vec // centre, unit normal and unit in-plane vectors
}

// newPlane computes the best-fit plane through a polygon using Newell's method
func newPlane(p []r3.Vec) *plane {
	var o plane
	for _, q := range p {
		o.c = r3.Add(o.c, r3.Scale(1.0/float64(len(p)), q))
	}
	for i := range p {
		o.n = r3.Add(o.n, r3.Cross(p[i], p[(i+1)%len(p)]))
	}
	if r3.Norm(o.n) < MINAREA {
		return nil
	}
	o.n = r3.Unit(o.n)
	e1 := r3.Sub(p[1], p[0])
	e1 = r3.Sub(e1, r3.Scale(r3.Dot(e1, o.n), o.n))
	if r3.Norm(e1) < MINAREA {
		return nil
	}
	o.e1 = r3.Unit(e1)
	o.e2 = r3.Cross(o.n, o.e1)
	return &o
}

func (o *plane) project2d(p []r3.Vec) (q []vec2) {
	q = make([]vec2, len(p))
	for i := range p {
		d := r3.Sub(p[i], o.c)
		q[i] = vec2{r3.Dot(d, o.e1), r3.Dot(d, o.e2)}
	}
	return
}

func (o *plane) to3d(p vec2) r3.Vec {
	return r3.Add(o.c, r3.Add(r3.Scale(p.x, o.e1), r3.Scale(p.y, o.e2)))
}

// boundingSphere returns the centroid and the largest distance from it to any point
func boundingSphere(p []r3.Vec) (c r3.Vec, rad float64) {
	for _, q := range p {
		c = r3.Add(c, r3.Scale(1.0/float64(len(p)), q))
	}
	for _, q := range p {
		rad = math.Max(rad, r3.Norm(r3.Sub(q, c)))
	}
	return
}

func signedArea(p []vec2) (a float64) {
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].x*p[j].y - p[j].x*p[i].y
	}
	return a / 2
}

func reverse(p []vec2) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// clip clips the subject polygon by a convex counter-clockwise polygon (Sutherland–Hodgman)
func clip(subject, clipper []vec2) (out []vec2) {
	scale := 0.0
	for _, p := range clipper {
		scale = math.Max(scale, math.Max(math.Abs(p.x), math.Abs(p.y)))
	}
	tol := CLIPTOL * scale * scale
	out = subject
	for i := range clipper {
		a, b := clipper[i], clipper[(i+1)%len(clipper)]
		side := func(p vec2) float64 {
			return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
		}
		in := out
		out = nil
		if len(in) == 0 {
			return
		}
		prev := in[len(in)-1]
		sp := side(prev)
		for _, cur := range in {
			sc := side(cur)
			if sc >= -tol {
				if sp < -tol {
					out = append(out, intersect(prev, cur, sp, sc))
				}
				out = append(out, cur)
			} else if sp >= -tol {
				out = append(out, intersect(prev, cur, sp, sc))
			}
			prev, sp = cur, sc
		}
	}
	return removeDuplicates(out, math.Sqrt(tol))
}

func intersect(p, q vec2, sp, sq float64) vec2 {
	t := sp / (sp - sq)
	return vec2{p.x + t*(q.x-p.x), p.y + t*(q.y-p.y)}
}

func removeDuplicates(p []vec2, tol float64) (q []vec2) {
	for i := range p {
		j := (i + 1) % len(p)
		if math.Abs(p[i].x-p[j].x) > tol || math.Abs(p[i].y-p[j].y) > tol {
			q = append(q, p[i])
		}
	}
	return
}
