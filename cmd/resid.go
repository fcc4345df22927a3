// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/Xianchao-Xu/FEBio/fem"
	"github.com/Xianchao-Xu/FEBio/inp"
)

// ResidCmd represents the resid command
var ResidCmd = &cobra.Command{
	Use:   "resid <file.sim>",
	Short: "Print residuals and augmentation errors saved in the summary",
	Long: `
Reads the summary of a previous run (saved with "stat" on) and prints the
convergence history of each call to the nonlinear solver.

tiedfem resid data/tied01.sim`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias, _ := cmd.Flags().GetString("alias")
		skip, _ := cmd.Flags().GetInt("skip")
		cmd.SilenceUsage = true
		sum, err := ReadSummary(args[0], alias)
		if err != nil {
			return err
		}
		PrintResids(sum, skip)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ResidCmd)
	ResidCmd.Flags().StringP("alias", "a", "", "word appended to the simulation key")
	ResidCmd.Flags().IntP("skip", "k", 0, "number of initial solutions to skip")
}

// ReadSummary reads the summary of a simulation
func ReadSummary(simfn, alias string) (sum *fem.Summary, err error) {
	sim, err := inp.ReadSim(simfn, alias, false)
	if err != nil {
		return
	}
	sum = new(fem.Summary)
	err = sum.Read(sim.DirOut, sim.Key, sim.EncType)
	if err != nil {
		return nil, chk.Err("cannot read summary of %q:\n%v", simfn, err)
	}
	return
}

// CountIters returns the number of iterations of each solution
func CountIters(sum *fem.Summary) (N []int) {
	for _, r := range sum.Resids {
		N = append(N, len(r)-1)
	}
	return
}

// PrintResids prints log10 of residuals, iterations histogram and augmentation errors
func PrintResids(sum *fem.Summary, skip int) {
	io.Pf("\nResiduals: log10(largFb)\n")
	io.Pf("========================\n")
	for i, r := range sum.Resids {
		if i < skip {
			continue
		}
		io.Pf("%4d :", i)
		for _, v := range r {
			io.Pf("%7.2f", math.Log10(v))
		}
		io.Pf("\n")
	}

	// histogram
	count := make(map[int]int)
	nmax := 0
	for _, n := range CountIters(sum) {
		count[n]++
		if n > nmax {
			nmax = n
		}
	}
	io.Pf("\nIterations\n")
	io.Pf("==========\n")
	for n := 0; n <= nmax; n++ {
		if count[n] > 0 {
			io.Pf("%4d : %d\n", n, count[n])
		}
	}

	// augmentations and secant updates
	if len(sum.AugErrs) > 0 {
		io.Pf("\nAugmentation errors\n")
		io.Pf("===================\n")
		for i, e := range sum.AugErrs {
			io.Pf("%4d : %13.6e\n", i, e)
		}
	}
	io.Pf("\nsecant updates = %d  rejected = %d  reformations = %d\n", sum.Nupdates, sum.Nrejected, sum.Nreforms)
}
