// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/roshansamuel/loiret/fld"
	"github.com/roshansamuel/loiret/grid"
	"github.com/roshansamuel/loiret/inp"
	"github.com/roshansamuel/loiret/mg"
	"github.com/roshansamuel/loiret/par"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// message
	if mpi.Rank() == 0 {
		io.PfWhite("\nloiret -- geometric multigrid Poisson solver\n\n")
	}

	// input file
	flag.Parse()
	fnamepath := "input/parameters.yaml"
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	}
	nproc := 1
	if mpi.IsOn() {
		nproc = mpi.Size()
	}
	sim, err := inp.ReadSim(fnamepath, nproc)
	if err != nil {
		chk.Panic("cannot read simulation input data:\n%v", err)
	}

	// topology, mesh hierarchy and solver
	topo, err := par.NewTopology(sim.NpX, sim.NpY, sim.XPer, sim.YPer)
	if err != nil {
		chk.Panic("cannot build process topology:\n%v", err)
	}
	grd, err := grid.NewGrid(sim, topo, 1)
	if err != nil {
		chk.Panic("cannot build mesh hierarchy:\n%v", err)
	}
	solver, err := mg.NewSolver(sim, topo, grd, true)
	if err != nil {
		chk.Panic("cannot allocate multigrid solver:\n%v", err)
	}

	// finest-level fields
	lev := grd.Lvl[0]
	phi := fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	rhs := fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	imposeTaylorGreen(rhs, sim, lev)

	// solve
	converged, err := solver.Solve(phi, rhs)
	if err != nil {
		chk.Panic("solver failed:\n%v", err)
	}
	if topo.Rank == 0 {
		if converged {
			io.Pf("converged after %d V-cycles: residual = %g\n", solver.Ncycles, solver.ResHist[solver.Ncycles-1])
		} else {
			io.Pfyel("WARNING: V-cycle count %d exhausted: residual = %g\n", sim.VcCount, solver.ResHist[solver.Ncycles-1])
		}
	}
}

// imposeTaylorGreen sets the Taylor-Green vortex field on the right-hand side
func imposeTaylorGreen(rhs *fld.Field, sim *inp.Simulation, lev *grid.Level) {
	if mpi.Rank() == 0 {
		io.Pf("imposing Taylor-Green vortices initial condition\n")
	}
	p := lev.Pad
	if sim.Planar {
		j := p
		for i := p; i < lev.Nx+p; i++ {
			for k := p; k < lev.Nz+p; k++ {
				rhs.F[i][j][k] = math.Sin(2.0*math.Pi*lev.XColl[i]/sim.Lx) *
					math.Cos(2.0*math.Pi*lev.ZStag[k]/sim.Lz)
			}
		}
		return
	}
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				rhs.F[i][j][k] = math.Sin(2.0*math.Pi*lev.XColl[i]/sim.Lx) *
					math.Cos(2.0*math.Pi*lev.YStag[j]/sim.Ly) *
					math.Cos(2.0*math.Pi*lev.ZStag[k]/sim.Lz)
			}
		}
	}
}
