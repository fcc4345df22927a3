// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

func Test_run01(tst *testing.T) {

	chk.PrintTitle("run01. run command")

	r := &Runner{Fnamepath: "../fem/data/spring01.sim", Alias: "cmd", ErasePrev: true, SaveSummary: true}
	require.NoError(tst, r.Run())
	require.NotNil(tst, r.Analysis)
	require.Equal(tst, "spring01-cmd", r.Analysis.Sim.Key)
	require.Len(tst, r.Analysis.Summary.OutTimes, 4)
	u := r.Analysis.Domain.Sol.Y[0]
	require.InDelta(tst, 2.0, u+0.5*u*u*u, 1e-10)

	r = &Runner{Fnamepath: "../fem/data/notfound.sim"}
	require.Error(tst, r.Run())
}

func Test_run02(tst *testing.T) {

	chk.PrintTitle("run02. command line")

	rootCmd.SetArgs([]string{"run", "--alias", "cli", "../fem/data/tied01.sim"})
	require.NoError(tst, Execute())

	rootCmd.SetArgs([]string{"run"})
	require.Error(tst, Execute())
}

func Test_resid01(tst *testing.T) {

	chk.PrintTitle("resid01. residuals in summary")

	r := &Runner{Fnamepath: "../fem/data/tied01.sim", Alias: "resid", ErasePrev: true, SaveSummary: true}
	require.NoError(tst, r.Run())

	sum, err := ReadSummary("../fem/data/tied01.sim", "resid")
	require.NoError(tst, err)
	require.Equal(tst, r.Analysis.Summary.OutTimes, sum.OutTimes)
	require.Len(tst, sum.Resids, len(sum.AugErrs))
	N := CountIters(sum)
	require.Len(tst, N, len(sum.Resids))
	for i, n := range N {
		require.Equal(tst, len(sum.Resids[i])-1, n)
	}
	PrintResids(sum, 0)

	_, err = ReadSummary("../fem/data/tied01.sim", "nosummary")
	require.Error(tst, err)
}
