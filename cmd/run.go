// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/Xianchao-Xu/FEBio/fem"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run <file.sim>",
	Short: "Run all stages of a simulation",
	Long: `
Reads a simulation file (JSON; or YAML if the extension is .yaml or .yml),
runs all stages and saves the results and the summary.

tiedfem run -v data/tied01.sim`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := new(Runner)
		r.Fnamepath = args[0]
		r.Alias, _ = cmd.Flags().GetString("alias")
		r.ErasePrev, _ = cmd.Flags().GetBool("erase")
		r.SaveSummary, _ = cmd.Flags().GetBool("summary")
		r.Verbose, _ = cmd.Flags().GetBool("verbose")
		cmd.SilenceUsage = true
		return r.Run()
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("alias", "a", "", "word to be appended to the simulation key")
	RunCmd.Flags().BoolP("erase", "e", true, "erase previous results")
	RunCmd.Flags().BoolP("summary", "s", true, "save summary")
	RunCmd.Flags().BoolP("verbose", "v", false, "show messages")
}

// Runner holds the input parameters of the run command
type Runner struct {
	Fnamepath   string // filename path
	Alias       string // word to add to results
	ErasePrev   bool   // erase previous results
	SaveSummary bool   // save summary
	Verbose     bool   // show messages

	// results
	Analysis *fem.FEM // analysis after Run
}

// Run runs the simulation
func (o *Runner) Run() (err error) {

	// message
	io.Verbose = o.Verbose
	if o.Verbose {
		io.Pf("\ntiedfem -- tied contact with the finite element method\n\n")
		io.Pf("  filename path          = %s\n", o.Fnamepath)
		io.Pf("  word to add to results = %s\n", o.Alias)
		io.Pf("  erase previous results = %v\n", o.ErasePrev)
		io.Pf("  save summary           = %v\n", o.SaveSummary)
	}

	// analysis data
	readSummary := false
	o.Analysis, err = fem.NewFEM(o.Fnamepath, o.Alias, o.ErasePrev, o.SaveSummary, readSummary, o.Verbose)
	if err != nil {
		return chk.Err("cannot start simulation:\n%v", err)
	}

	// run simulation
	err = o.Analysis.Run()
	if err != nil {
		return chk.Err("Run failed:\n%v", err)
	}
	return
}
