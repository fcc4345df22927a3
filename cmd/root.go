// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cmd implements the command line interface
package cmd

import (
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tiedfem",
	Short: "Finite element simulations with tied contact interfaces",
	Long: `
Runs simulations of surfaces tied together with the mortar method. Multipliers
are found by augmented Lagrangian iterations; the nonlinear problem is solved
with Newton-Raphson or BFGS.

tiedfem run mysim.sim`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() (err error) {
	err = rootCmd.Execute()
	if err != nil {
		io.Pfred("ERROR: %v\n", err)
	}
	return
}
