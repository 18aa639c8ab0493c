// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements the hierarchy of computational meshes used by the
// multigrid solver: per-level node coordinates on staggered and collocated
// positions, and the transformation metrics of the stretched directions.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/roshansamuel/loiret/inp"
	"github.com/roshansamuel/loiret/par"
)

// Level holds the local mesh data of one V-cycle level. All coordinate and
// metric arrays have length n+2*Pad in their direction and are aligned with
// the field arrays: array index i corresponds to the interior for
// i in [Pad, n+Pad).
type Level struct {

	// extents
	Lvl        int     // level index; 0 is the finest
	Nx, Ny, Nz int     // local interior extents
	Pad        int     // halo width
	XOff, YOff int     // global index offsets of the local origin at this level
	Hx, Hy, Hz float64 // computational-space node spacing per direction

	// x direction; the metrics live on the staggered nodes, where the
	// discretization evaluates the Laplacian
	XStag, XColl      []float64 // physical coordinates at staggered and collocated nodes
	XixStag, XixxStag []float64 // first and second transformation metric at staggered nodes

	// y direction
	YStag, YColl      []float64
	EtyStag, EtyyStag []float64

	// z direction
	ZStag, ZColl      []float64
	ZtzStag, ZtzzStag []float64
}

// Grid holds the complete mesh hierarchy for one processor
type Grid struct {
	Sim  *inp.Simulation // input data
	Topo *par.Topology   // process topology
	Pad  int             // halo width, uniform over all levels
	Lvl  []*Level        // levels; Lvl[0] is the finest, Lvl[Sim.VcDepth] the coarsest
}

// NewGrid builds the mesh hierarchy from the input data and the topology
func NewGrid(sim *inp.Simulation, topo *par.Topology, pad int) (o *Grid, err error) {
	if err = topo.CheckDepth(sim.NxGlob, sim.NyGlob, sim.VcDepth, pad); err != nil {
		return
	}
	o = new(Grid)
	o.Sim = sim
	o.Topo = topo
	o.Pad = pad
	o.Lvl = make([]*Level, sim.VcDepth+1)
	for l := 0; l <= sim.VcDepth; l++ {
		o.Lvl[l] = o.newLevel(l)
	}
	return
}

// newLevel builds one level by stride sub-sampling of the finest nodes
func (o *Grid) newLevel(lvl int) (lev *Level) {
	sim, topo, pad := o.Sim, o.Topo, o.Pad
	lev = new(Level)
	lev.Lvl = lvl
	lev.Pad = pad
	lev.Nx, lev.Ny = topo.LocalExtents(sim.NxGlob, sim.NyGlob, lvl)
	lev.Nz = sim.NzGlob >> uint(lvl)
	if sim.Planar {
		lev.Ny = 1
	}
	lev.XOff = topo.XRank * lev.Nx
	lev.YOff = topo.YRank * lev.Ny
	lev.Hx = 1.0 / float64(sim.NxGlob>>uint(lvl))
	lev.Hy = 1.0 / float64(maxInt(sim.NyGlob>>uint(lvl), 1))
	lev.Hz = 1.0 / float64(sim.NzGlob>>uint(lvl))

	lev.XStag, lev.XColl, lev.XixStag, lev.XixxStag =
		buildDir(sim.XGrid, sim.BetaX, sim.Lx, sim.NxGlob, lvl, lev.Nx, lev.XOff, pad)
	lev.YStag, lev.YColl, lev.EtyStag, lev.EtyyStag =
		buildDir(sim.YGrid, sim.BetaY, sim.Ly, maxInt(sim.NyGlob, 1), lvl, lev.Ny, lev.YOff, pad)
	lev.ZStag, lev.ZColl, lev.ZtzStag, lev.ZtzzStag =
		buildDir(sim.ZGrid, sim.BetaZ, sim.Lz, sim.NzGlob, lvl, lev.Nz, 0, pad)
	return
}

// buildDir computes the coordinate and metric arrays of one direction at one
// level. Interior nodes are the stride-2^lvl sub-sample of the finest nodes;
// halo nodes evaluate the same closed-form mapping at the strided index.
func buildDir(kind int, beta, length float64, nGlob0, lvl, nLoc, off, pad int) (stag, coll, etaS, etaSS []float64) {
	n := nLoc + 2*pad
	stag = make([]float64, n)
	coll = make([]float64, n)
	etaS = make([]float64, n)
	etaSS = make([]float64, n)
	s := 1 << uint(lvl)
	for i := 0; i < n; i++ {
		g0 := s * (off + i - pad) // index on the finest grid
		xiS := (float64(g0) + 0.5) / float64(nGlob0)
		xiC := float64(g0) / float64(nGlob0)
		x, xp, xpp := stretch(kind, beta, length, xiS)
		stag[i] = x
		etaS[i] = 1.0 / xp
		etaSS[i] = -xpp / (xp * xp * xp)
		x, _, _ = stretch(kind, beta, length, xiC)
		coll[i] = x
	}
	return
}

// stretch evaluates the grid transformation x(xi) and its first two
// derivatives with respect to xi, for xi in [0,1] (and slightly beyond, for
// the halo nodes).
//   kind 0: uniform             x = L xi
//   kind 1: single-sided tanh   x = L [1 + tanh(b(xi-1))/tanh(b)]
//   kind 2: double-sided tanh   x = L/2 [1 - tanh(b(1-2 xi))/tanh(b)]
func stretch(kind int, beta, length, xi float64) (x, xp, xpp float64) {
	switch kind {
	case inp.GridUniform:
		x = length * xi
		xp = length
		xpp = 0
	case inp.GridSingleTanh:
		u := beta * (xi - 1.0)
		sech2 := sech(u) * sech(u)
		x = length * (1.0 + math.Tanh(u)/math.Tanh(beta))
		xp = length * beta * sech2 / math.Tanh(beta)
		xpp = -2.0 * length * beta * beta * sech2 * math.Tanh(u) / math.Tanh(beta)
	case inp.GridDoubleTanh:
		u := beta * (1.0 - 2.0*xi)
		sech2 := sech(u) * sech(u)
		x = 0.5 * length * (1.0 - math.Tanh(u)/math.Tanh(beta))
		xp = length * beta * sech2 / math.Tanh(beta)
		xpp = 4.0 * length * beta * beta * sech2 * math.Tanh(u) / math.Tanh(beta)
	default:
		chk.Panic("unknown grid stretching kind %d", kind)
	}
	return
}

func sech(x float64) float64 { return 1.0 / math.Cosh(x) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
