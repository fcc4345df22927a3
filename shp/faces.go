// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {

	// tri3
	factory["tri3"] = &Shape{
		Type:       "tri3",
		Func:       Tri3,
		BasicType:  "tri3",
		Gndim:      2,
		Nverts:     3,
		Ncorners:   3,
		DefaultIps: "tri_3",
		NatCoords: [][]float64{
			{0, 1, 0},
			{0, 0, 1},
		},
	}

	// tri6
	factory["tri6"] = &Shape{
		Type:       "tri6",
		Func:       Tri6,
		BasicType:  "tri3",
		Gndim:      2,
		Nverts:     6,
		Ncorners:   3,
		DefaultIps: "tri_7",
		NatCoords: [][]float64{
			{0, 1, 0, 0.5, 0.5, 0},
			{0, 0, 1, 0, 0.5, 0.5},
		},
	}

	// qua4
	factory["qua4"] = &Shape{
		Type:       "qua4",
		Func:       Qua4,
		BasicType:  "qua4",
		Gndim:      2,
		Nverts:     4,
		Ncorners:   4,
		DefaultIps: "qua_4",
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		},
	}

	// qua8
	factory["qua8"] = &Shape{
		Type:       "qua8",
		Func:       Qua8,
		BasicType:  "qua4",
		Gndim:      2,
		Nverts:     8,
		Ncorners:   4,
		DefaultIps: "qua_9",
		NatCoords: [][]float64{
			{-1, 1, 1, -1, 0, 1, 0, -1},
			{-1, -1, 1, 1, -1, 0, 1, 0},
		},
	}

	for _, s := range factory {
		s.init_scratchpad()
	}
}

// Tri3 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tri3
// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
func Tri3(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	/*    s
	      |
	      2, (0,1)
	      | ',
	      |   ',
	      |     ',
	      |       ',
	      |         ',
	      |           ',
	      |             ',
	      |               ',
	      | (0,0)           ',(1,0)
	      0-------------------1 ---- r
	*/
	r, s := R[0], R[1]
	S[0] = 1.0 - r - s
	S[1] = r
	S[2] = s

	if !derivs {
		return
	}

	dSdR[0][0], dSdR[0][1] = -1.0, -1.0
	dSdR[1][0], dSdR[1][1] = 1.0, 0.0
	dSdR[2][0], dSdR[2][1] = 0.0, 1.0
}

// Tri6 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tri6
// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
func Tri6(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	/*    s
	      |
	      2, (0,1)
	      | ',
	      |   ',
	      |     ',
	      |       ',
	      5         4,
	      |           ',
	      |             ',
	      |               ',
	      | (0,0)           ', (1,0)
	      0---------3---------1 ---- r
	*/
	r, s := R[0], R[1]
	z := 1.0 - r - s
	S[0] = z * (2.0*z - 1.0)
	S[1] = r * (2.0*r - 1.0)
	S[2] = s * (2.0*s - 1.0)
	S[3] = 4.0 * r * z
	S[4] = 4.0 * r * s
	S[5] = 4.0 * s * z

	if !derivs {
		return
	}

	dSdR[0][0] = 1.0 - 4.0*z
	dSdR[1][0] = 4.0*r - 1.0
	dSdR[2][0] = 0.0
	dSdR[3][0] = 4.0 * (z - r)
	dSdR[4][0] = 4.0 * s
	dSdR[5][0] = -4.0 * s

	dSdR[0][1] = 1.0 - 4.0*z
	dSdR[1][1] = 0.0
	dSdR[2][1] = 4.0*s - 1.0
	dSdR[3][1] = -4.0 * r
	dSdR[4][1] = 4.0 * r
	dSdR[5][1] = 4.0 * (z - s)
}

// Qua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
func Qua4(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	/*
	    3-----------2
	    |     s     |
	    |     |     |
	    |     +--r  |
	    |           |
	    |           |
	    0-----------1
	*/
	r, s := R[0], R[1]
	S[0] = (1.0 - r - s + r*s) / 4.0
	S[1] = (1.0 + r - s - r*s) / 4.0
	S[2] = (1.0 + r + s + r*s) / 4.0
	S[3] = (1.0 - r + s - r*s) / 4.0

	if !derivs {
		return
	}

	dSdR[0][0] = (-1.0 + s) / 4.0
	dSdR[1][0] = (+1.0 - s) / 4.0
	dSdR[2][0] = (+1.0 + s) / 4.0
	dSdR[3][0] = (-1.0 - s) / 4.0

	dSdR[0][1] = (-1.0 + r) / 4.0
	dSdR[1][1] = (-1.0 - r) / 4.0
	dSdR[2][1] = (+1.0 + r) / 4.0
	dSdR[3][1] = (+1.0 - r) / 4.0
}

// Qua8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua8
// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
func Qua8(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	/*
	    3-----6-----2
	    |     s     |
	    |     |     |
	    7     +--r  5
	    |           |
	    |           |
	    0-----4-----1
	*/
	r, s := R[0], R[1]
	ri := []float64{-1, 1, 1, -1}
	si := []float64{-1, -1, 1, 1}

	// corners
	for m := 0; m < 4; m++ {
		a, b := 1.0+ri[m]*r, 1.0+si[m]*s
		S[m] = a * b * (ri[m]*r + si[m]*s - 1.0) / 4.0
		if derivs {
			dSdR[m][0] = ri[m] * b * (2.0*ri[m]*r + si[m]*s) / 4.0
			dSdR[m][1] = si[m] * a * (ri[m]*r + 2.0*si[m]*s) / 4.0
		}
	}

	// mid-side vertices
	S[4] = (1.0 - r*r) * (1.0 - s) / 2.0
	S[5] = (1.0 + r) * (1.0 - s*s) / 2.0
	S[6] = (1.0 - r*r) * (1.0 + s) / 2.0
	S[7] = (1.0 - r) * (1.0 - s*s) / 2.0

	if !derivs {
		return
	}

	dSdR[4][0], dSdR[4][1] = -r*(1.0-s), -(1.0-r*r)/2.0
	dSdR[5][0], dSdR[5][1] = (1.0-s*s)/2.0, -s*(1.0+r)
	dSdR[6][0], dSdR[6][1] = -r*(1.0+s), (1.0-r*r)/2.0
	dSdR[7][0], dSdR[7][1] = -(1.0-s*s)/2.0, -s*(1.0-r)
}
