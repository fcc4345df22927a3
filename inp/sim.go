// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input of simulation data and meshes
package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/ghodss/yaml"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/tiedfem
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" "json"
	ShowR   bool   `json:"showr"`   // show residual
	Stat    bool   `json:"stat"`    // save residuals and augmentation errors in summary
}

// SolverData holds FEM solver data
type SolverData struct {

	// nonlinear solver
	Type    string  `json:"type"`    // nonlinear solver type: {imp} => implicit
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FbTol   float64 `json:"fbtol"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"`   // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax"` // max number of continued divergence
	CteTg   bool    `json:"ctetg"`   // use constant tangent (modified Newton) during iterations
	DtMin   float64 `json:"dtmin"`   // minium value of Dt

	// quasi-Newton
	QnMethod string  `json:"qnmethod"` // "newton" or "bfgs"
	MaxUps   int     `json:"maxups"`   // BFGS: maximum number of updates
	MaxBuf   int     `json:"maxbuf"`   // BFGS: capacity of buffer; 0 => maxups
	Cmax     float64 `json:"cmax"`     // BFGS: maximum condition number of updates
	Cycle    bool    `json:"cycle"`    // BFGS: overwrite oldest updates when buffer is full

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// ContactData holds data of a tied contact interface
type ContactData struct {
	Desc      string  `json:"desc"`      // description
	Slave     int     `json:"slave"`     // tag of faces of slave (non-mortar) surface
	Master    int     `json:"master"`    // tag of faces of master (mortar) surface
	Laugon    bool    `json:"laugon"`    // augmented Lagrangian flag
	Tolerance float64 `json:"tolerance"` // augmentation tolerance
	Penalty   float64 `json:"penalty"`   // penalty factor
	MinAug    int     `json:"minaug"`    // minimum number of augmentations
	MaxAug    int     `json:"maxaug"`    // maximum number of augmentations
	Prune     bool    `json:"prune"`     // assemble only non-zero couplings
	Ips       string  `json:"ips"`       // integration points on facets; e.g. "tri_7"
}

// SpringData holds data of nodal springs
type SpringData struct {
	Tag   int     `json:"tag"`   // tag of vertices
	K     float64 `json:"k"`     // stiffness
	Extra string  `json:"extra"` // extra flags (in keycode format). ex: "!k3:0.5"
}

// NodeBc holds node boundary condition
type NodeBc struct {
	Tag   int      `json:"tag"`   // tag of node
	Keys  []string `json:"keys"`  // key indicating type of bcs. ex: ux, uy, uz, fx, fy, fz
	Funcs []string `json:"funcs"` // name of function. ex: zero, load, myfunction1, etc.
	Extra string   `json:"extra"` // extra information
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf     float64 `json:"tf"`     // final time
	Dt     float64 `json:"dt"`     // time step size (if constant)
	DtOut  float64 `json:"dtout"`  // time step size for output
	DtFcn  string  `json:"dtfcn"`  // time step size (function name)
	DtoFcn string  `json:"dtofcn"` // time step size for output (function name)

	// derived
	DtFunc  fun.TimeSpace `json:"-"` // time step function
	DtoFunc fun.TimeSpace `json:"-"` // output time step function
}

// Stage holds stage data
type Stage struct {
	Desc    string      `json:"desc"`    // description of simulation stage
	Skip    bool        `json:"skip"`    // do not run stage
	NodeBcs []*NodeBc   `json:"nodebcs"` // node boundary conditions
	Control TimeControl `json:"control"` // time control
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data           `json:"data"`      // stores global simulation data
	Functions FuncsData      `json:"functions"` // stores all boundary condition functions
	Solver    SolverData     `json:"solver"`    // FEM solver data
	Mshfile   string         `json:"mshfile"`   // file path of file with mesh data; if empty, "mesh" is used
	Mesh      *Mesh          `json:"mesh"`      // mesh given in simulation file
	Contacts  []*ContactData `json:"contacts"`  // tied contact interfaces
	Springs   []*SpringData  `json:"springs"`   // nodal springs
	Stages    []*Stage       `json:"stages"`    // stores all stages

	// derived
	DirOut  string // directory to save results
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string // encoder type
}

// ReadSim reads all simulation data from a .sim JSON file; or YAML if extension is .yaml or .yml
func ReadSim(simfilepath, alias string, erasePrev bool) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// set default values
	o = new(Simulation)
	o.Solver.SetDefault()

	// decode
	err = unmarshal(simfilepath, b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "tiedfem", fnkey)
	}

	// create directory and erase previous simulation results
	if erasePrev {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		io.RemoveAll(io.Sf("%s/%s_*", o.DirOut, o.Key))
	}

	// mesh
	if o.Mshfile != "" {
		o.Mesh, err = ReadMsh(dir, o.Mshfile)
		if err != nil {
			return nil, err
		}
	}

	// derived data
	err = o.PostProcess()
	if err != nil {
		return nil, chk.Err("simulation file %q is invalid:\n%v", simfilepath, err)
	}
	return
}

// PostProcess checks data and sets derived quantities of a just read simulation
func (o *Simulation) PostProcess() (err error) {

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// solver
	err = o.Solver.PostProcess()
	if err != nil {
		return
	}

	// mesh
	if o.Mesh == nil {
		return chk.Err("mesh must be given by \"mshfile\" or \"mesh\"")
	}
	if o.Mesh.VertTag2verts == nil {
		err = o.Mesh.Init()
		if err != nil {
			return chk.Err("mesh is invalid:\n%v", err)
		}
	}

	// contacts
	for i, c := range o.Contacts {
		err = c.PostProcess()
		if err != nil {
			return chk.Err("contact %d is invalid:\n%v", i, err)
		}
		for _, tag := range []int{c.Slave, c.Master} {
			if _, ok := o.Mesh.FaceTag2faces[tag]; !ok {
				return chk.Err("contact %d: cannot find faces with tag = %d", i, tag)
			}
		}
	}

	// springs
	for i, s := range o.Springs {
		if _, ok := o.Mesh.VertTag2verts[s.Tag]; !ok {
			return chk.Err("spring %d: cannot find vertices with tag = %d", i, s.Tag)
		}
	}

	// stages
	if len(o.Stages) == 0 {
		return chk.Err("at least one stage must be given")
	}
	for i, stg := range o.Stages {
		err = o.set_control(&stg.Control)
		if err != nil {
			return chk.Err("stage %d:\n%v", i, err)
		}
		for _, nbc := range stg.NodeBcs {
			if len(nbc.Funcs) != len(nbc.Keys) {
				return chk.Err("stage %d: node boundary condition with tag = %d needs one function per key", i, nbc.Tag)
			}
			if _, ok := o.Mesh.VertTag2verts[nbc.Tag]; !ok {
				return chk.Err("stage %d: cannot find vertices with tag = %d", i, nbc.Tag)
			}
		}
	}
	return
}

// GetNodeBc returns the node boundary condition of a tag or nil
func (o Stage) GetNodeBc(nodetag int) *NodeBc {
	for _, nbc := range o.NodeBcs {
		if nbc.Tag == nodetag {
			return nbc
		}
	}
	return nil
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "imp"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.DtMin = 1e-8

	// quasi-Newton
	o.QnMethod = "newton"
	o.MaxUps = 10
	o.Cmax = 1e5

	// constants
	o.Eps = 1e-16
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() (err error) {

	// methods
	if o.Type != "imp" {
		return chk.Err("solver type %q is not available; use \"imp\"", o.Type)
	}
	o.QnMethod = strings.ToLower(o.QnMethod)
	if o.QnMethod != "newton" && o.QnMethod != "bfgs" {
		return chk.Err("quasi-Newton method %q is not available; use \"newton\" or \"bfgs\"", o.QnMethod)
	}
	if o.NmaxIt < 1 {
		o.NmaxIt = 1
	}
	if o.MaxUps < 0 {
		o.MaxUps = 0
	}

	// iterations tolerance
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
	return
}

// SetDefault sets the parameters of tied contact interfaces
func (o *ContactData) SetDefault() {
	o.Penalty = 1
	o.MaxAug = 10
	o.Ips = "tri_7"
}

// PostProcess fixes contradictory augmentation bounds and checks parameters
func (o *ContactData) PostProcess() (err error) {
	if o.Slave == o.Master {
		return chk.Err("slave and master surfaces must be different; both have tag = %d", o.Slave)
	}
	if o.Penalty < 0 {
		return chk.Err("penalty factor must be non-negative; %g is invalid", o.Penalty)
	}
	if o.MinAug < 0 {
		o.MinAug = 0
	}
	if o.MaxAug < o.MinAug {
		o.MaxAug = o.MinAug
	}
	if !strings.HasPrefix(o.Ips, "tri_") {
		return chk.Err("integration points on facets must be of triangle type; %q is invalid", o.Ips)
	}
	return
}

// UnmarshalJSON decodes contact data on top of default values
func (o *ContactData) UnmarshalJSON(b []byte) (err error) {
	type plain ContactData
	var p plain
	(*ContactData)(&p).SetDefault()
	err = json.Unmarshal(b, &p)
	if err != nil {
		return
	}
	*o = ContactData(p)
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// set_control sets time step functions
//  Note: the time of each stage starts at zero
func (o *Simulation) set_control(ctrl *TimeControl) (err error) {

	// fix Tf
	if ctrl.Tf < 1e-14 {
		ctrl.Tf = 1
	}

	// fix Dt
	if ctrl.DtFcn == "" {
		if ctrl.Dt < 1e-14 {
			ctrl.Dt = ctrl.Tf
		}
		ctrl.DtFunc = &fun.Cte{C: ctrl.Dt}
	} else {
		ctrl.DtFunc, err = o.Functions.Get(ctrl.DtFcn)
		if err != nil {
			return
		}
		ctrl.Dt = ctrl.DtFunc.F(0, nil)
	}

	// fix DtOut
	if ctrl.DtoFcn == "" {
		if ctrl.DtOut < 1e-14 {
			ctrl.DtOut = ctrl.Dt
			ctrl.DtoFunc = ctrl.DtFunc
		} else {
			if ctrl.DtOut < ctrl.Dt {
				ctrl.DtOut = ctrl.Dt
			}
			ctrl.DtoFunc = &fun.Cte{C: ctrl.DtOut}
		}
	} else {
		ctrl.DtoFunc, err = o.Functions.Get(ctrl.DtoFcn)
		if err != nil {
			return
		}
		ctrl.DtOut = ctrl.DtoFunc.F(0, nil)
	}
	return
}

// unmarshal decodes JSON or YAML data depending on the file extension
func unmarshal(fn string, b []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	}
	return json.Unmarshal(b, v)
}
