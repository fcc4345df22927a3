// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines for surface (face) elements in 3D
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const MINDET = 1.0e-14 // minimum norm allowed for the surface Jacobian vector

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data of a surface element embedded in 3D
type Shape struct {

	// geometry
	Type       string      // name; e.g. "tri3"
	Func       ShpFunc     // shape/derivs function callback function
	BasicType  string      // geometry of basic element; e.g. "tri6" => "tri3"
	Gndim      int         // geometry of shape; always 2 for surfaces
	Nverts     int         // number of vertices in cell; e.g. "tri6" => 6
	Ncorners   int         // number of corner vertices; e.g. "tri6" => 3
	NatCoords  [][]float64 // natural coordinates [gndim][nverts]
	DefaultIps string      // key of default integration points set; e.g. "tri_3"

	// scratchpad
	S    []float64   // [nverts] shape functions
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [3][gndim] derivatives of real coordinates w.r.t natural coordinates
	Nvec []float64   // [3] normal vector: dxdr × dxds (not unit)
	J    float64     // Jacobian: norm of Nvec
}

// GetCopy returns a new copy of this shape structure
func (o Shape) GetCopy() *Shape {
	p := &Shape{
		Type:       o.Type,
		Func:       o.Func,
		BasicType:  o.BasicType,
		Gndim:      o.Gndim,
		Nverts:     o.Nverts,
		Ncorners:   o.Ncorners,
		NatCoords:  utl.Alloc(len(o.NatCoords), o.Nverts),
		DefaultIps: o.DefaultIps,
	}
	for i := range o.NatCoords {
		copy(p.NatCoords[i], o.NatCoords[i])
	}
	p.init_scratchpad()
	return p
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// Get returns an existent Shape structure
//  Note: 1) returns nil on errors
//        2) use goroutineId > 0 to get a copy
func Get(geoType string, goroutineId int) *Shape {
	s, ok := factory[geoType]
	if !ok {
		return nil
	}
	if goroutineId > 0 {
		return s.GetCopy()
	}
	return s
}

// IpRealCoords returns the real coordinates (y) of a point with natural coordinates r
//  x[3][nverts] -- coordinates matrix of face
func (o *Shape) IpRealCoords(x [][]float64, r []float64) (y []float64) {
	y = make([]float64, len(x))
	o.Func(o.S, o.DSdR, r, false)
	for i := 0; i < len(x); i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// CalcAtIp calculates S, DSdR, DxdR, Nvec and J at natural coordinate r
//  Input:
//   x[3][nverts] -- coordinates matrix of face
//   r            -- natural coordinates (an Ipoint may be given)
//   derivs       -- also compute derivatives and Jacobian
func (o *Shape) CalcAtIp(x [][]float64, r []float64, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, r, derivs)
	if !derivs {
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < 3; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			if i >= len(x) {
				continue
			}
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// normal vector
	o.Nvec[0] = o.DxdR[1][0]*o.DxdR[2][1] - o.DxdR[2][0]*o.DxdR[1][1]
	o.Nvec[1] = o.DxdR[2][0]*o.DxdR[0][1] - o.DxdR[0][0]*o.DxdR[2][1]
	o.Nvec[2] = o.DxdR[0][0]*o.DxdR[1][1] - o.DxdR[1][0]*o.DxdR[0][1]
	o.J = math.Sqrt(o.Nvec[0]*o.Nvec[0] + o.Nvec[1]*o.Nvec[1] + o.Nvec[2]*o.Nvec[2])
	if o.J < MINDET {
		return chk.Err("surface Jacobian is too small: J=%g < %g", o.J, MINDET)
	}
	return
}

// FaceArea computes the area of a face by integrating J over the default integration points
func (o *Shape) FaceArea(x [][]float64) (area float64, err error) {
	ips, err := GetIps(o.DefaultIps)
	if err != nil {
		return
	}
	for _, ip := range ips {
		err = o.CalcAtIp(x, ip, true)
		if err != nil {
			return
		}
		area += ip[3] * o.J
	}
	return
}

// init_scratchpad initialise scratchpad data
func (o *Shape) init_scratchpad() {
	o.S = make([]float64, o.Nverts)
	o.DSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.DxdR = utl.Alloc(3, o.Gndim)
	o.Nvec = make([]float64, 3)
}
