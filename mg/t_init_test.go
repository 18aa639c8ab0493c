// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/roshansamuel/loiret/fld"
	"github.com/roshansamuel/loiret/grid"
	"github.com/roshansamuel/loiret/inp"
	"github.com/roshansamuel/loiret/par"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newTestSim builds a serial input; the caller adjusts fields and must keep
// them consistent
func newTestSim(domainType, meshType string, xInd, yInd, zInd, depth int) (sim *inp.Simulation) {
	sim = &inp.Simulation{
		DomainType: domainType, MeshType: meshType,
		Lx: 1.0, Ly: 1.0, Lz: 1.0,
		BetaX: 1.0, BetaY: 1.0, BetaZ: 1.0,
		XInd: xInd, YInd: yInd, ZInd: zInd,
		NpX: 1, NpY: 1,
		Tolerance: 1e-6, VcDepth: depth, VcCount: 10,
		PreSmooth: 2, PostSmooth: 2,
		InterSmooth: []int{2, 2, 2, 2, 2, 2}[:depth],
	}
	sim.PostProcess()
	return
}

// newTestSolver builds the topology, the hierarchy and the solver for sim
func newTestSolver(tst *testing.T, sim *inp.Simulation) (s *Solver) {
	if err := sim.Check(1); err != nil {
		tst.Fatalf("inconsistent test input:\n%v", err)
	}
	topo, err := par.NewTopology(sim.NpX, sim.NpY, sim.XPer, sim.YPer)
	if err != nil {
		tst.Fatalf("NewTopology failed:\n%v", err)
	}
	grd, err := grid.NewGrid(sim, topo, 1)
	if err != nil {
		tst.Fatalf("NewGrid failed:\n%v", err)
	}
	s, err = NewSolver(sim, topo, grd, chk.Verbose)
	if err != nil {
		tst.Fatalf("NewSolver failed:\n%v", err)
	}
	return
}

// newLevelFields allocates a (phi, rhs) pair matching the finest level
func newLevelFields(s *Solver) (phi, rhs *fld.Field) {
	lev := s.Grd.Lvl[0]
	phi = fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	rhs = fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	return
}
