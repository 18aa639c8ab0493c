// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Parallel-invariance check on 4 processors:
//
//	mpirun -np 4 go run t_mg_main.go
//
// The Taylor-Green problem is solved once on the 2 x 2 process grid and once
// serially (every processor repeats the identical serial solve, so the
// collective reductions stay aligned). The distributed solution must match
// the serial one on every sub-domain to round-off.
package main

import (
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

// taylorGreenSim builds the 32^3 periodic input
func taylorGreenSim(npX, npY int) (sim *inp.Simulation) {
	sim = &inp.Simulation{
		DomainType: "PPP", MeshType: "UUU",
		Lx: 2.0 * math.Pi, Ly: 2.0 * math.Pi, Lz: 2.0 * math.Pi,
		BetaX: 1.0, BetaY: 1.0, BetaZ: 1.0,
		XInd: 5, YInd: 5, ZInd: 5,
		NpX: npX, NpY: npY,
		Tolerance: 1e-5, VcDepth: 3, VcCount: 10,
		PreSmooth: 2, PostSmooth: 2, InterSmooth: []int{2, 2, 2},
	}
	sim.PostProcess()
	return
}

// solve builds the hierarchy on topo and returns the computed solution
func solve(sim *inp.Simulation, topo *par.Topology) (phi *fld.Field, lev *grid.Level) {
	grd, err := grid.NewGrid(sim, topo, 1)
	if err != nil {
		chk.Panic("%v", err)
	}
	s, err := mg.NewSolver(sim, topo, grd, false)
	if err != nil {
		chk.Panic("%v", err)
	}
	lev = grd.Lvl[0]
	p := lev.Pad
	phi = fld.NewField(lev.Nx, lev.Ny, lev.Nz, p)
	rhs := fld.NewField(lev.Nx, lev.Ny, lev.Nz, p)
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				rhs.F[i][j][k] = math.Sin(lev.XStag[i]) * math.Cos(lev.YStag[j]) * math.Cos(lev.ZStag[k])
			}
		}
	}
	converged, err := s.Solve(phi, rhs)
	if err != nil {
		chk.Panic("%v", err)
	}
	if !converged {
		chk.Panic("solver did not converge")
	}
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if mpi.Size() != 4 {
		chk.Panic("this test needs 4 processors")
	}

	// distributed solve on the 2 x 2 grid
	simPar := taylorGreenSim(2, 2)
	topoPar, err := par.NewTopology(2, 2, simPar.XPer, simPar.YPer)
	if err != nil {
		chk.Panic("%v", err)
	}
	phiPar, levPar := solve(simPar, topoPar)

	// serial reference, repeated identically on every processor so that the
	// collective reductions see the same values everywhere
	simSer := taylorGreenSim(1, 1)
	topoSer := &par.Topology{
		Rank: 0, Nproc: 1, NpX: 1, NpY: 1,
		XPer: true, YPer: true,
		NearRanks: [4]int{0, 0, 0, 0},
	}
	phiSer, _ := solve(simSer, topoSer)

	// compare this processor's block against the serial solution
	p := levPar.Pad
	maxdiff := 0.0
	for i := p; i < levPar.Nx+p; i++ {
		for j := p; j < levPar.Ny+p; j++ {
			for k := p; k < levPar.Nz+p; k++ {
				gi := levPar.XOff + i - p
				gj := levPar.YOff + j - p
				d := math.Abs(phiPar.F[i][j][k] - phiSer.F[gi+p][gj+p][k])
				if d > maxdiff {
					maxdiff = d
				}
			}
		}
	}
	maxdiff = par.MaxAll(maxdiff)
	if maxdiff > 1e-10 {
		chk.Panic("distributed and serial solutions differ: maxdiff = %v", maxdiff)
	}
	if topoPar.Rank == 0 {
		io.Pf("parallel invariance OK: maxdiff = %v\n", maxdiff)
	}
}
