// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/io"

// GetSpringFlags parses the extra flags of springs
//  e.g. "!k3:0.5 !debug:1"
func GetSpringFlags(extra string) (k3 float64, debug bool) {

	// flag: cubic stiffness
	if s_k3, found := io.Keycode(extra, "k3"); found {
		k3 = io.Atof(s_k3)
	}

	// flag: debug
	if s_debug, found := io.Keycode(extra, "debug"); found {
		debug = io.Atob(s_debug)
	}
	return
}
