// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mortar

// GridFaces generates the faces of a structured nx × ny grid on the plane z = const
//  Input:
//   xmin, ymin, z -- corner and elevation
//   lx, ly        -- lengths
//   tri           -- split each cell into two tri3 faces instead of one qua4
//   coords        -- existent coordinates; new vertices are appended
//  Output:
//   ctypes, conn -- face types and connectivity with global vertex ids
//   coords       -- updated coordinates
//  Note: normals point to +z
func GridFaces(nx, ny int, xmin, ymin, z, lx, ly float64, tri bool, coords [][]float64) (ctypes []string, conn [][]int, newcoords [][]float64) {
	start := len(coords)
	newcoords = coords
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			newcoords = append(newcoords, []float64{xmin + lx*float64(i)/float64(nx), ymin + ly*float64(j)/float64(ny), z})
		}
	}
	vid := func(i, j int) int { return start + i + j*(nx+1) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a, b, c, d := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			if tri {
				ctypes = append(ctypes, "tri3", "tri3")
				conn = append(conn, []int{a, b, c}, []int{a, c, d})
				continue
			}
			ctypes = append(ctypes, "qua4")
			conn = append(conn, []int{a, b, c, d})
		}
	}
	return
}
