// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SolverImplicit solves FEM problem using an implicit procedure (with Newton-Raphson method
// or a BFGS secant method) and augmentations of the multipliers of tied contact interfaces
type SolverImplicit struct {
	dom  *Domain  // domain
	sum  *Summary // summary
	tidx int      // time output index
}

// set factory
func init() {
	solverallocators["imp"] = func(dom *Domain, sum *Summary) FEsolver {
		solver := new(SolverImplicit)
		solver.dom = dom
		solver.sum = sum
		return solver
	}
}

// Run runs the time loop of one stage
func (o *SolverImplicit) Run(tf float64, dtFunc, dtoFunc fun.TimeSpace, verbose bool) (err error) {

	// auxiliary
	d := o.dom
	prm := &d.Sim.Solver
	md := 1.0    // time step multiplier if divergence control is on
	ndiverg := 0 // number of steps diverging

	// time control
	t := d.Sol.T
	tout := t + dtoFunc.F(t, nil)

	// time loop
	var Δt, Δtout float64
	var lasttimestep bool
	for t < tf {

		// check for continued divergence
		if ndiverg >= prm.NdvgMax {
			return chk.Err("continuous divergence after %d steps reached", ndiverg)
		}

		// time increment
		Δt = dtFunc.F(t, nil) * md
		if t+Δt >= tf {
			Δt = tf - t
			lasttimestep = true
		}
		if Δt < prm.DtMin {
			if md < 1 {
				return chk.Err("Δt increment is too small: %g < %g", Δt, prm.DtMin)
			}
			return
		}

		// time update
		t += Δt
		d.Sol.T = t
		Δtout = dtoFunc.F(t, nil)

		// message
		if verbose && !d.Sim.Data.ShowR {
			io.Pf("%30.15f\r", t)
		}

		// backup solution if divergence control is on
		if prm.DvgCtrl {
			d.backup()
		}

		// run augmentations and iterations
		var diverging bool
		diverging, err = run_augmentations(t, d, o.sum)
		if err != nil {
			return
		}

		// restore solution and reduce time step if divergence control is on
		if prm.DvgCtrl {
			if diverging {
				if verbose {
					io.Pfred(". . . iterations diverging (%2d) . . .\n", ndiverg+1)
				}
				d.restore()
				t -= Δt
				d.Sol.T = t
				md *= 0.5
				ndiverg++
				lasttimestep = false
				continue
			}
			ndiverg = 0
			md = 1.0
		}

		// perform output
		if t >= tout || lasttimestep {
			o.sum.OutTimes = append(o.sum.OutTimes, t)
			err = d.SaveSol(o.tidx, verbose)
			if err != nil {
				return
			}
			tout += Δtout
			o.tidx++
		}
	}
	return
}

// run_augmentations solves the nonlinear problem until all tied contact interfaces converge
func run_augmentations(t float64, d *Domain, sum *Summary) (diverging bool, err error) {

	// boundary conditions and gaps at the new time
	d.set_prescribed(t)
	for _, c := range d.Contacts {
		c.Update()
	}

	// zero accumulated increments
	floats.Scale(0, d.Sol.ΔY)

	// augmentations
	for naug := 0; ; naug++ {

		// equilibrium with fixed multipliers
		diverging, err = run_iterations(t, d, sum)
		if err != nil || diverging {
			return
		}

		// check all interfaces; each one commits its own multipliers
		converged := true
		var maxErr float64
		for _, c := range d.Contacts {
			if !c.Augment(naug) {
				converged = false
			}
			maxErr = math.Max(maxErr, c.MaxErr)
		}
		if d.Sim.Data.Stat && len(d.Contacts) > 0 {
			sum.AugErrs = append(sum.AugErrs, maxErr)
		}
		if converged {
			return
		}
	}
}

// run_iterations solves the nonlinear problem with fixed multipliers
func run_iterations(t float64, d *Domain, sum *Summary) (diverging bool, err error) {

	// skip empty systems
	if d.Ny == 0 {
		return
	}

	// auxiliary variables
	prm := &d.Sim.Solver
	var it int
	var largFb, largFb0, Lδu float64
	var prevFb, prevLδu float64

	// message
	if d.Sim.Data.ShowR {
		io.Pf("\n%13s%4s%23s%23s\n", "t", "it", "largFb", "Lδu")
		defer func() {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", t, it, largFb, Lδu)
		}()
	}

	// iterations
	for it = 0; it < prm.NmaxIt; it++ {

		// assemble right-hand side vector (fb) with negative of residuals
		err = d.assemble_rhs(t)
		if err != nil {
			return
		}

		// find largest absolute component of fb
		largFb = floats.Norm(d.Fb, math.Inf(1))

		// save residual
		if d.Sim.Data.Stat {
			if it == 0 {
				sum.Resids = append(sum.Resids, nil)
			}
			n := len(sum.Resids) - 1
			sum.Resids[n] = append(sum.Resids[n], largFb)
		}

		// check largFb value
		if it == 0 {
			// store largest absolute component of fb
			largFb0 = largFb
		} else {
			// check convergence on Lf0
			if largFb < prm.FbTol*largFb0 { // converged on fb
				break
			}
			// check convergence on fb_min
			if largFb < prm.FbMin { // converged with smallest value of fb
				break
			}
		}

		// check divergence on fb
		if it > 1 && prm.DvgCtrl {
			if largFb > prevFb {
				diverging = true
				break
			}
		}
		prevFb = largFb

		// secant update or reformation of tangent
		reform := it == 0
		if d.Qn != nil {
			if it > 0 {
				if d.Qn.Nups() >= d.Qn.MaxUps {
					reform = true
				} else if d.Qn.Update(1, d.Wb, d.fbPrev, d.Fb) {
					sum.Nupdates++
				} else {
					sum.Nrejected++
					reform = true
				}
			}
		} else if !prm.CteTg {
			reform = true
		}

		// assemble and factorise Jacobian matrix
		if reform {
			err = d.assemble_kb(it == 0)
			if err != nil {
				return
			}
			err = d.LinSol.Factorize(mat.DenseCopyOf(d.Kb))
			if err != nil {
				return false, chk.Err("factorisation failed:\n%v", err)
			}
			sum.Nreforms++
			if d.Qn != nil {
				d.Qn.Reset()
			}
		}

		// solve for wb := δyb
		copy(d.fbPrev, d.Fb)
		if d.Qn != nil {
			err = d.Qn.Solve(d.Wb, d.Fb)
		} else {
			err = d.LinSol.BackSolve(d.Wb, d.Fb)
		}
		if err != nil {
			return false, chk.Err("solve failed:\n%v", err)
		}

		// update primary variables (y)
		floats.Add(d.Sol.Y, d.Wb)  // y += δy
		floats.Add(d.Sol.ΔY, d.Wb) // ΔY += δy

		// update secondary variables
		err = d.update()
		if err != nil {
			return
		}

		// compute RMS norm of δu and check convegence on δu
		Lδu = d.normδu(prm.Atol, prm.Rtol)

		// message
		if d.Sim.Data.ShowR {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", t, it, largFb, Lδu)
		}

		// stop if converged on δu
		if Lδu < prm.Itol {
			break
		}

		// check divergence on Lδu
		if it > 1 && prm.DvgCtrl {
			if Lδu > prevLδu {
				diverging = true
				break
			}
		}
		prevLδu = Lδu
	}

	// check if iterations diverged
	if it == prm.NmaxIt {
		return false, chk.Err("max number of iterations reached: it = %d", it)
	}
	return
}

// assemble_rhs computes fb = -R at time t
func (o *Domain) assemble_rhs(t float64) (err error) {
	floats.Scale(0, o.Fb)
	for _, e := range o.Elems {
		err = e.AddToRhs(o.Fb, o.Sol)
		if err != nil {
			return chk.Err("element %d failed to add to rhs:\n%v", e.Id(), err)
		}
	}
	for _, c := range o.Contacts {
		c.AddToRhs()
	}
	for _, bc := range o.PtNatBcs {
		o.Fb[bc.Eq] += bc.Fcn.F(t, nil)
	}
	return
}

// assemble_kb computes Kb = dR/dy
func (o *Domain) assemble_kb(firstIt bool) (err error) {
	o.Kb = sparse.NewDOK(o.Ny, o.Ny)
	for _, e := range o.Elems {
		err = e.AddToKb(o, o.Sol, firstIt)
		if err != nil {
			return chk.Err("element %d failed to add to Kb:\n%v", e.Id(), err)
		}
	}
	for _, c := range o.Contacts {
		c.AddToKb()
	}
	return
}

// update updates elements and gaps after a change of y
func (o *Domain) update() (err error) {
	for _, e := range o.Elems {
		err = e.Update(o.Sol)
		if err != nil {
			return chk.Err("element %d failed to update:\n%v", e.Id(), err)
		}
	}
	for _, c := range o.Contacts {
		c.Update()
	}
	return
}

// normδu returns the RMS norm of δy scaled by atol + rtol |y|
func (o *Domain) normδu(atol, rtol float64) float64 {
	if len(o.Wb) == 0 {
		return 0
	}
	if len(o.zeroNy) != len(o.Wb) {
		o.zeroNy = make([]float64, len(o.Wb))
	}
	return la.VecRmsError(o.Wb, o.zeroNy, atol, rtol, o.Sol.Y)
}
