// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a parameters (.yaml) file
package inp

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// grid stretching kinds per direction
const (
	GridUniform    = 0 // uniformly spaced nodes
	GridSingleTanh = 1 // single-sided tangent-hyperbolic stretching
	GridDoubleTanh = 2 // double-sided tangent-hyperbolic stretching
)

// minTolerance is the smallest Jacobi tolerance meaningful in double precision
const minTolerance = 1e-14

// rawSim mirrors the sections of the parameters.yaml file
type rawSim struct {
	Program struct {
		IcType     string  `yaml:"Initial Condition"`
		DomainType string  `yaml:"Domain Type"`
		Lx         float64 `yaml:"X Length"`
		Ly         float64 `yaml:"Y Length"`
		Lz         float64 `yaml:"Z Length"`
	} `yaml:"Program"`
	Mesh struct {
		MeshType string  `yaml:"Mesh Type"`
		BetaX    float64 `yaml:"X Beta"`
		BetaY    float64 `yaml:"Y Beta"`
		BetaZ    float64 `yaml:"Z Beta"`
		XInd     int     `yaml:"X Index"`
		YInd     int     `yaml:"Y Index"`
		ZInd     int     `yaml:"Z Index"`
	} `yaml:"Mesh"`
	Parallel struct {
		NThreads int `yaml:"Number of OMP threads"`
		NpX      int `yaml:"X Number of Procs"`
		NpY      int `yaml:"Y Number of Procs"`
	} `yaml:"Parallel"`
	Multigrid struct {
		Tolerance   float64 `yaml:"Jacobi Tolerance"`
		VcDepth     int     `yaml:"V-Cycle Depth"`
		VcCount     int     `yaml:"V-Cycle Count"`
		PreSmooth   int     `yaml:"Pre-Smoothing Count"`
		PostSmooth  int     `yaml:"Post-Smoothing Count"`
		InterSmooth []int   `yaml:"Inter-Smoothing Count"`
	} `yaml:"Multigrid"`
}

// Simulation holds all user-set parameters of one solver run
type Simulation struct {

	// program
	IcType     string  // initial condition name
	DomainType string  // periodicity string; e.g. "PPN" => periodic x, periodic y, non-periodic z
	Lx, Ly, Lz float64 // physical domain lengths

	// mesh
	MeshType            string  // stretching string; e.g. "UUD" => uniform x, uniform y, double-tanh z
	BetaX, BetaY, BetaZ float64 // stretching intensities; ignored for uniform directions
	XInd, YInd, ZInd    int     // base-2 logarithms of the global grid extents; YInd == 0 => planar

	// parallel
	NThreads int // number of OMP threads (reserved; stencil loops are serial per processor)
	NpX, NpY int // processors along x and y

	// multigrid
	Tolerance   float64 // infinity-norm convergence threshold
	VcDepth     int     // number of coarsening levels below the finest
	VcCount     int     // maximum number of V-cycles
	PreSmooth   int     // smoothing sweeps on the way down
	PostSmooth  int     // smoothing sweeps on the way up
	InterSmooth []int   // extra sweeps per level on the way up

	// derived
	XGrid, YGrid, ZGrid    int  // stretching kind per direction
	XPer, YPer, ZPer       bool // periodicity per direction
	Planar                 bool // 2D (x,z) run
	NxGlob, NyGlob, NzGlob int  // global grid extents
}

// ReadSim reads and validates a simulation input file.
//  Note: nproc is the MPI world size; pass 1 for serial runs.
func ReadSim(simfilepath string, nproc int) (o *Simulation, err error) {
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}
	var raw rawSim
	if err = yaml.Unmarshal(b, &raw); err != nil {
		return nil, chk.Err("cannot parse simulation file %q:\n%v", simfilepath, err)
	}
	o = new(Simulation)
	o.IcType = raw.Program.IcType
	o.DomainType = raw.Program.DomainType
	o.Lx, o.Ly, o.Lz = raw.Program.Lx, raw.Program.Ly, raw.Program.Lz
	o.MeshType = raw.Mesh.MeshType
	o.BetaX, o.BetaY, o.BetaZ = raw.Mesh.BetaX, raw.Mesh.BetaY, raw.Mesh.BetaZ
	o.XInd, o.YInd, o.ZInd = raw.Mesh.XInd, raw.Mesh.YInd, raw.Mesh.ZInd
	o.NThreads = raw.Parallel.NThreads
	o.NpX, o.NpY = raw.Parallel.NpX, raw.Parallel.NpY
	o.Tolerance = raw.Multigrid.Tolerance
	o.VcDepth = raw.Multigrid.VcDepth
	o.VcCount = raw.Multigrid.VcCount
	o.PreSmooth = raw.Multigrid.PreSmooth
	o.PostSmooth = raw.Multigrid.PostSmooth
	o.InterSmooth = raw.Multigrid.InterSmooth
	o.PostProcess()
	if err = o.Check(nproc); err != nil {
		return nil, err
	}
	return
}

// PostProcess derives the per-direction grid kinds, periodicity flags and
// global extents from the input strings and indices. Processor counts below
// one are clamped to one, as the original solver does.
func (o *Simulation) PostProcess() {

	// processor counts
	if o.NpX < 1 {
		io.Pf("WARNING: number of processors along x is smaller than 1; setting it to 1\n")
		o.NpX = 1
	}
	if o.NpY < 1 {
		io.Pf("WARNING: number of processors along y is smaller than 1; setting it to 1\n")
		o.NpY = 1
	}

	// grid kinds: U => uniform, S => single-sided tanh, D => double-sided tanh
	o.XGrid, o.YGrid, o.ZGrid = GridUniform, GridUniform, GridUniform
	if len(o.MeshType) == 3 {
		kinds := map[byte]int{'U': GridUniform, 'S': GridSingleTanh, 'D': GridDoubleTanh}
		o.XGrid = kinds[o.MeshType[0]]
		o.YGrid = kinds[o.MeshType[1]]
		o.ZGrid = kinds[o.MeshType[2]]
	}

	// periodicity: P => periodic, N => non-periodic
	o.XPer, o.YPer, o.ZPer = true, true, true
	if len(o.DomainType) == 3 {
		o.XPer = o.DomainType[0] != 'N'
		o.YPer = o.DomainType[1] != 'N'
		o.ZPer = o.DomainType[2] != 'N'
	}

	// global extents
	o.Planar = o.YInd == 0
	o.NxGlob = 1 << uint(o.XInd)
	o.NzGlob = 1 << uint(o.ZInd)
	o.NyGlob = 1
	if !o.Planar {
		o.NyGlob = 1 << uint(o.YInd)
	}
}

// Check performs the consistency checks on the user-set parameters.
// Any failure here is a configuration error: the solver must not start.
func (o *Simulation) Check(nproc int) (err error) {

	// strings
	if len(o.DomainType) != 3 {
		return chk.Err("domain type string %q must have exactly three characters", o.DomainType)
	}
	if len(o.MeshType) != 3 {
		return chk.Err("mesh type string %q must have exactly three characters", o.MeshType)
	}

	// process grid
	if o.NpX*o.NpY != nproc {
		return chk.Err("process grid %d x %d does not match the number of processors %d", o.NpX, o.NpY, nproc)
	}
	if o.Planar && o.NpY > 1 {
		return chk.Err("more than 1 processor along y is not possible in a planar run (Y Index = 0)")
	}

	// cycle and smoothing counts
	if o.VcDepth < 1 {
		return chk.Err("V-cycle depth must be positive (depth=%d)", o.VcDepth)
	}
	if o.VcCount < 1 {
		return chk.Err("V-cycle count must be positive (count=%d)", o.VcCount)
	}
	if o.PreSmooth < 0 || o.PostSmooth < 0 {
		return chk.Err("smoothing counts must not be negative (pre=%d, post=%d)", o.PreSmooth, o.PostSmooth)
	}
	if len(o.InterSmooth) < o.VcDepth {
		return chk.Err("the array of inter-smoothing counts (%d entries) is shorter than the V-cycle depth %d",
			len(o.InterSmooth), o.VcDepth)
	}

	// grid sizes: every processor must hold at least 2^(depth+1) cells in each
	// decomposed direction so that the coarsest level keeps a computable core
	coarsest := 1 << uint(o.VcDepth+1)
	if o.NxGlob%o.NpX != 0 {
		return chk.Err("number of processors along x (%d) does not divide the grid extent %d evenly", o.NpX, o.NxGlob)
	}
	if o.NxGlob/o.NpX < coarsest {
		return chk.Err("grid extent %d and %d processors along x leave sub-domains too coarse for V-cycle depth %d",
			o.NxGlob, o.NpX, o.VcDepth)
	}
	if !o.Planar {
		if o.NyGlob%o.NpY != 0 {
			return chk.Err("number of processors along y (%d) does not divide the grid extent %d evenly", o.NpY, o.NyGlob)
		}
		if o.NyGlob/o.NpY < coarsest {
			return chk.Err("grid extent %d and %d processors along y leave sub-domains too coarse for V-cycle depth %d",
				o.NyGlob, o.NpY, o.VcDepth)
		}
	}
	if o.NzGlob < coarsest {
		return chk.Err("grid extent %d along z is too coarse for V-cycle depth %d", o.NzGlob, o.VcDepth)
	}

	// tolerance
	if o.Tolerance < minTolerance {
		return chk.Err("Jacobi tolerance %g is too small for double precision calculations", o.Tolerance)
	}
	return
}

// WriteParams echoes the input file to buf for the run log; call from one rank only
func (o *Simulation) WriteParams(simfilepath string, buf *bytes.Buffer) (err error) {
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}
	io.Ff(buf, "%s", string(b))
	return
}
