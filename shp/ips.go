// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Ipoint holds the natural coordinates and weight of an integration point: {r, s, t, w}
type Ipoint []float64

// ipsfactory holds all sets of integration points
var ipsfactory = make(map[string][]Ipoint)

// GetIps returns a set of integration points
//  key -- e.g. "tri_3", "tri_7", "qua_4", "qua_9"
func GetIps(key string) (ips []Ipoint, err error) {
	var ok bool
	if ips, ok = ipsfactory[key]; !ok {
		err = chk.Err("cannot find integration points set with key=%q", key)
	}
	return
}

// GetIpsForShape returns the default set of integration points of a shape, or the one with n points
//  nip -- number of points; use 0 for the default set
func GetIpsForShape(geoType string, nip int) (ips []Ipoint, err error) {
	s := Get(geoType, 0)
	if s == nil {
		return nil, chk.Err("cannot find shape %q", geoType)
	}
	if nip == 0 {
		return GetIps(s.DefaultIps)
	}
	switch s.BasicType {
	case "tri3":
		return GetIps(io.Sf("tri_%d", nip))
	case "qua4":
		return GetIps(io.Sf("qua_%d", nip))
	}
	return nil, chk.Err("cannot find %d integration points for %q", nip, geoType)
}

func init() {

	// triangles: weights sum to 1/2
	ipsfactory["tri_1"] = []Ipoint{
		{1.0 / 3.0, 1.0 / 3.0, 0, 0.5},
	}
	ipsfactory["tri_3"] = []Ipoint{
		{1.0 / 6.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{2.0 / 3.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{1.0 / 6.0, 2.0 / 3.0, 0, 1.0 / 6.0},
	}
	a, b, w1 := 0.101286507323456, 0.797426985353087, 0.0629695902724135
	c, d, w2 := 0.470142064105115, 0.059715871789770, 0.066197076394253
	ipsfactory["tri_7"] = []Ipoint{
		{1.0 / 3.0, 1.0 / 3.0, 0, 0.1125},
		{a, a, 0, w1},
		{b, a, 0, w1},
		{a, b, 0, w1},
		{c, d, 0, w2},
		{c, c, 0, w2},
		{d, c, 0, w2},
	}

	// quadrilaterals: weights sum to 4
	g := 1.0 / math.Sqrt(3.0)
	ipsfactory["qua_4"] = []Ipoint{
		{-g, -g, 0, 1},
		{+g, -g, 0, 1},
		{+g, +g, 0, 1},
		{-g, +g, 0, 1},
	}
	h := math.Sqrt(3.0 / 5.0)
	p := []float64{-h, 0, h}
	w := []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0}
	var q9 []Ipoint
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			q9 = append(q9, Ipoint{p[i], p[j], 0, w[i] * w[j]})
		}
	}
	ipsfactory["qua_9"] = q9
}
