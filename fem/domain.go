// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Xianchao-Xu/FEBio/contact"
	"github.com/Xianchao-Xu/FEBio/inp"
	"github.com/Xianchao-Xu/FEBio/mortar"
	"github.com/Xianchao-Xu/FEBio/qn"
)

// Solution holds the solution data @ nodes.
//
//  y = {ux, uy, uz} of all non-prescribed dofs (ny x 1)
//
type Solution struct {
	T    float64   // current time
	Y    []float64 // [ny] DOFs (solution variables)
	ΔY   []float64 // [ny] total increment (for nonlinear solver)
	Ubar []float64 // [3*nverts] prescribed displacements
}

// Disp returns the displacement of vertex vid with equations eqs
func (o *Solution) Disp(vid int, eqs []int) (u r3.Vec) {
	var v [3]float64
	for i, eq := range eqs {
		if eq >= 0 {
			v[i] = o.Y[eq]
		} else {
			v[i] = o.Ubar[3*vid+i]
		}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// EssentialBc holds a prescribed displacement component
type EssentialBc struct {
	Vid int           // vertex id
	Dof int           // 0, 1 or 2 => ux, uy or uz
	Fcn fun.TimeSpace // function
}

// PtNaturalBc holds a concentrated load
type PtNaturalBc struct {
	Eq  int           // equation number
	Fcn fun.TimeSpace // function
}

// Domain holds all vertices, elements and contact interfaces active during a stage
// in addition to the Solution at nodes.
//  Note: prescribed displacements are eliminated; i.e. their equation numbers are -1
type Domain struct {

	// init
	Sim *inp.Simulation // [from FEM] input data
	Msh *inp.Mesh       // mesh data
	X   [][]float64     // [nverts][3] coordinates

	// stage: dofs and equation numbers
	Active  []bool  // [nverts] vertex has dofs
	Vid2eqs [][]int // [nverts][3] equation numbers; -1 => prescribed or inactive
	Ny      int     // total number of equations

	// stage: elements and contact interfaces
	Elems    []Elem                // elements
	Contacts []*contact.MortarTied // tied contact interfaces

	// stage: boundary conditions
	EssenBcs []*EssentialBc // prescribed displacements
	PtNatBcs []*PtNaturalBc // point loads such as prescribed forces at nodes

	// stage: solution and linear solver
	Sol    *Solution   // solution state
	Kb     *sparse.DOK // Jacobian == dRdy
	Prof   *sparse.DOK // matrix profile; non-zero entries were declared with BuildAdd
	Nout   int         // number of entries assembled into Kb outside the profile
	Fb     []float64   // residual == -fb
	Wb     []float64   // workspace: δy
	LinSol qn.DenseLU  // factorisation of Kb
	Qn     *qn.BFGS    // secant solver; nil => full Newton

	// auxiliary
	fbPrev []float64  // [ny] residual used to compute Wb
	bkpSol *Solution  // backup solution for divergence control
	bkpL   [][]r3.Vec // backup of multipliers for divergence control
	zeroNy []float64  // [ny] zero vector for error norms
}

// NewDomain returns a new domain
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {
	if sim.Mesh == nil {
		return nil, chk.Err("simulation has no mesh")
	}
	o = new(Domain)
	o.Sim = sim
	o.Msh = sim.Mesh
	o.X = o.Msh.Coords()

	// active vertices
	o.Active = make([]bool, len(o.X))
	for _, s := range sim.Springs {
		for _, v := range o.Msh.VertTag2verts[s.Tag] {
			o.Active[v.Id] = true
		}
	}
	for _, c := range sim.Contacts {
		for _, tag := range []int{c.Slave, c.Master} {
			for _, f := range o.Msh.FaceTag2faces[tag] {
				for _, v := range f.Verts {
					o.Active[v] = true
				}
			}
		}
	}

	// elements
	for _, dat := range sim.Springs {
		for _, v := range o.Msh.VertTag2verts[dat.Tag] {
			e, err := NewSpring(len(o.Elems), v.Id, dat)
			if err != nil {
				return nil, chk.Err("cannot allocate spring:\n%v", err)
			}
			o.Elems = append(o.Elems, e)
		}
	}

	// contact interfaces
	for i, dat := range sim.Contacts {
		c, err := o.new_contact(i, dat)
		if err != nil {
			return nil, err
		}
		o.Contacts = append(o.Contacts, c)
	}
	return
}

// SetStage sets equation numbers, boundary conditions and solution vectors for given stage
//  Note: displacements of a previous stage are kept; time restarts at zero
func (o *Domain) SetStage(stgidx int) (err error) {

	// pointer to stage structure
	if stgidx < 0 || stgidx >= len(o.Sim.Stages) {
		return chk.Err("stage index %d is out of range", stgidx)
	}
	stg := o.Sim.Stages[stgidx]

	// displacements of previous stage
	var U []float64
	if o.Sol != nil {
		U = o.gather()
	}

	// boundary conditions
	nv := len(o.X)
	prescribed := make([]bool, 3*nv)
	o.EssenBcs = make([]*EssentialBc, 0)
	o.PtNatBcs = make([]*PtNaturalBc, 0)
	type load struct {
		vid, dof int
		fcn      fun.TimeSpace
	}
	var loads []load
	for _, nbc := range stg.NodeBcs {
		for j, key := range nbc.Keys {
			fcn, err := o.Sim.Functions.Get(nbc.Funcs[j])
			if err != nil {
				return chk.Err("cannot set node boundary condition:\n%v", err)
			}
			dof, essential, ok := ykey2dof(key)
			if !ok {
				return chk.Err("key %q of node boundary condition is invalid; e.g. ux, uy, uz, fx, fy, fz", key)
			}
			for _, v := range o.Msh.VertTag2verts[nbc.Tag] {
				if essential {
					prescribed[3*v.Id+dof] = true
					o.EssenBcs = append(o.EssenBcs, &EssentialBc{v.Id, dof, fcn})
				} else if o.Active[v.Id] {
					loads = append(loads, load{v.Id, dof, fcn})
				}
			}
		}
	}

	// equation numbers
	o.Vid2eqs = make([][]int, nv)
	o.Ny = 0
	for vid := 0; vid < nv; vid++ {
		o.Vid2eqs[vid] = []int{-1, -1, -1}
		if !o.Active[vid] {
			continue
		}
		for i := 0; i < 3; i++ {
			if !prescribed[3*vid+i] {
				o.Vid2eqs[vid][i] = o.Ny
				o.Ny++
			}
		}
	}
	for _, l := range loads {
		if eq := o.Vid2eqs[l.vid][l.dof]; eq >= 0 {
			o.PtNatBcs = append(o.PtNatBcs, &PtNaturalBc{eq, l.fcn})
		}
	}

	// elements
	for _, e := range o.Elems {
		err = e.SetEqs(o.Vid2eqs)
		if err != nil {
			return chk.Err("cannot set element equations:\n%v", err)
		}
	}

	// solution structure
	o.Sol = &Solution{
		Y:    make([]float64, o.Ny),
		ΔY:   make([]float64, o.Ny),
		Ubar: make([]float64, 3*nv),
	}
	if U != nil {
		o.scatter(U)
	}
	o.set_prescribed(0)

	// linear system
	o.Fb = make([]float64, o.Ny)
	o.Wb = make([]float64, o.Ny)
	o.fbPrev = make([]float64, o.Ny)
	o.Kb, o.Prof = nil, nil
	if o.Ny > 0 {
		o.Kb = sparse.NewDOK(o.Ny, o.Ny)
		o.Prof = sparse.NewDOK(o.Ny, o.Ny)
	}

	// secant solver
	o.Qn = nil
	if o.Sim.Solver.QnMethod == "bfgs" {
		o.Qn = &qn.BFGS{
			MaxUps:     o.Sim.Solver.MaxUps,
			MaxBufSize: o.Sim.Solver.MaxBuf,
			Cmax:       o.Sim.Solver.Cmax,
			Cycle:      o.Sim.Solver.Cycle,
		}
		err = o.Qn.Init(o.Ny, &o.LinSol)
		if err != nil {
			return chk.Err("cannot initialise BFGS solver:\n%v", err)
		}
	}

	// contact interfaces: weights, areas and gaps
	for _, c := range o.Contacts {
		err = c.Activate()
		if err != nil {
			return
		}
	}

	// matrix profile
	for _, e := range o.Elems {
		e.BuildMatrixProfile(o)
	}
	for _, c := range o.Contacts {
		c.BuildMatrixProfile()
	}
	return
}

// Host ////////////////////////////////////////////////////////////////////////////////////////////

// NodeEqs returns the equation numbers of vertex vid
func (o *Domain) NodeEqs(vid int) []int {
	return o.Vid2eqs[vid]
}

// Position returns the current position of vertex vid
func (o *Domain) Position(vid int) r3.Vec {
	x := o.X[vid]
	return r3.Add(r3.Vec{X: x[0], Y: x[1], Z: x[2]}, o.Sol.Disp(vid, o.Vid2eqs[vid]))
}

// AssembleResidual adds vals into Fb; negative equations are skipped
func (o *Domain) AssembleResidual(nodes, eqs []int, vals []float64) {
	for i, eq := range eqs {
		if eq >= 0 {
			o.Fb[eq] += vals[i]
		}
	}
}

// AssembleTangent adds ke into Kb; zero values and negative equations are skipped
func (o *Domain) AssembleTangent(rows, cols []int, ke [][]float64) {
	for i, r := range rows {
		if r < 0 {
			continue
		}
		for j, c := range cols {
			if c < 0 || ke[i][j] == 0 {
				continue
			}
			if o.Prof.At(r, c) == 0 {
				o.Nout++
			}
			o.Kb.Set(r, c, o.Kb.At(r, c)+ke[i][j])
		}
	}
}

// BuildAdd declares that all equations in lm are coupled to each other
func (o *Domain) BuildAdd(lm []int) {
	for _, r := range lm {
		if r < 0 {
			continue
		}
		for _, c := range lm {
			if c >= 0 {
				o.Prof.Set(r, c, 1)
			}
		}
	}
}

// NnzProf returns the number of declared entries of Kb
func (o *Domain) NnzProf() int {
	if o.Prof == nil {
		return 0
	}
	return o.Prof.NNZ()
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// new_contact allocates a tied contact interface
func (o *Domain) new_contact(id int, dat *inp.ContactData) (c *contact.MortarTied, err error) {
	var surfs [2]*mortar.Surface
	for i, tag := range []int{dat.Slave, dat.Master} {
		ctypes, conn, err := o.Msh.Surface(tag)
		if err != nil {
			return nil, chk.Err("contact %d:\n%v", id, err)
		}
		surfs[i], err = mortar.NewSurface(ctypes, conn, o.X)
		if err != nil {
			return nil, chk.Err("contact %d: cannot create surface with tag = %d:\n%v", id, tag, err)
		}
	}
	prms := contact.Params{
		Laugon:  dat.Laugon,
		Atol:    dat.Tolerance,
		Eps:     dat.Penalty,
		NaugMin: dat.MinAug,
		NaugMax: dat.MaxAug,
		Prune:   dat.Prune,
	}
	c, err = contact.NewMortarTied(id, surfs[0], surfs[1], prms, o)
	if err != nil {
		return
	}
	c.IpsKey = dat.Ips
	return
}

// set_prescribed computes prescribed displacements at time t
func (o *Domain) set_prescribed(t float64) {
	for _, bc := range o.EssenBcs {
		o.Sol.Ubar[3*bc.Vid+bc.Dof] = bc.Fcn.F(t, o.X[bc.Vid])
	}
}

// gather returns the [3*nverts] displacements of all vertices
func (o *Domain) gather() (U []float64) {
	U = make([]float64, len(o.Sol.Ubar))
	copy(U, o.Sol.Ubar)
	for vid, eqs := range o.Vid2eqs {
		for i, eq := range eqs {
			if eq >= 0 {
				U[3*vid+i] = o.Sol.Y[eq]
			}
		}
	}
	return
}

// scatter sets Y and Ubar from the [3*nverts] displacements of all vertices
func (o *Domain) scatter(U []float64) {
	copy(o.Sol.Ubar, U)
	for vid, eqs := range o.Vid2eqs {
		for i, eq := range eqs {
			if eq >= 0 {
				o.Sol.Y[eq] = U[3*vid+i]
			}
		}
	}
}

// backup saves a copy of solution and multipliers
func (o *Domain) backup() {
	if o.bkpSol == nil || len(o.bkpSol.Y) != o.Ny {
		o.bkpSol = &Solution{
			Y:    make([]float64, o.Ny),
			ΔY:   make([]float64, o.Ny),
			Ubar: make([]float64, len(o.Sol.Ubar)),
		}
		o.bkpL = make([][]r3.Vec, len(o.Contacts))
		for i, c := range o.Contacts {
			o.bkpL[i] = make([]r3.Vec, len(c.Ss.L))
		}
	}
	o.bkpSol.T = o.Sol.T
	copy(o.bkpSol.Y, o.Sol.Y)
	copy(o.bkpSol.ΔY, o.Sol.ΔY)
	copy(o.bkpSol.Ubar, o.Sol.Ubar)
	for i, c := range o.Contacts {
		copy(o.bkpL[i], c.Ss.L)
	}
}

// restore restores solution and multipliers
func (o *Domain) restore() {
	o.Sol.T = o.bkpSol.T
	copy(o.Sol.Y, o.bkpSol.Y)
	copy(o.Sol.ΔY, o.bkpSol.ΔY)
	copy(o.Sol.Ubar, o.bkpSol.Ubar)
	for i, c := range o.Contacts {
		copy(c.Ss.L, o.bkpL[i])
		c.Update()
	}
}

// ykey2dof converts keys of node boundary conditions
func ykey2dof(key string) (dof int, essential, ok bool) {
	switch key {
	case "ux", "uy", "uz":
		return int(key[1] - 'x'), true, true
	case "fx", "fy", "fz":
		return int(key[1] - 'x'), false, true
	}
	return
}
