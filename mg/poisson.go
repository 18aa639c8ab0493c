// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mg implements the geometric multigrid solver for the Poisson
// equation on the stretched Cartesian mesh hierarchy. The V-cycle descends
// through the levels with red-black Gauss-Seidel smoothing and full-weighting
// restriction, solves the coarsest level with weighted Jacobi iterations, and
// ascends with trilinear prolongation.
package mg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/roshansamuel/loiret/fld"
	"github.com/roshansamuel/loiret/grid"
	"github.com/roshansamuel/loiret/inp"
	"github.com/roshansamuel/loiret/par"
)

// maxBottomIter caps the Jacobi iterations of the coarsest-level solve so a
// stalled bottom solve cannot hang the V-cycle
const maxBottomIter = 100

// jacobiOmega is the under-relaxation factor of the bottom solve
const jacobiOmega = 2.0 / 3.0

// kernel groups the stencil operations that differ between planar and 3D runs
type kernel interface {
	smooth(lvl, sweeps int)  // red-black Gauss-Seidel sweeps on Phi[lvl]
	residual(lvl int)        // Res[lvl] = Rhs[lvl] - L Phi[lvl], halo synced
	restrict(lvl int)        // full weighting of Res[lvl] into Rhs[lvl+1]
	prolong(lvl int)         // interpolate Phi[lvl+1] and add into Phi[lvl]
	jacobi(lvl, maxIter int) // weighted Jacobi bottom solve on Phi[lvl]
}

// Solver owns the mesh hierarchy buffers and drives the V-cycles.
// All per-level buffers are allocated once here and reused by every cycle;
// the caller's finest-level fields are plugged in at Solve.
type Solver struct {

	// input
	Sim  *inp.Simulation // input data
	Topo *par.Topology   // process topology
	Grd  *grid.Grid      // mesh hierarchy

	// per-level buffers; index 0 is the finest level
	Phi []*fld.Field // solution / correction
	Rhs []*fld.Field // right-hand side
	Res []*fld.Field // residual
	hal []*par.Halo  // face descriptors, one per level

	// coarsest-level scratch for the Jacobi solve
	tmp *fld.Field

	// behaviour
	Proc    int  // this processor
	Nproc   int  // number of processors
	ShowMsg bool // print convergence history from processor 0

	// results
	Ncycles   int       // V-cycles run by the last Solve
	Converged bool      // whether the last Solve reached the tolerance
	ResHist   []float64 // residual infinity norm after each cycle

	kern kernel
}

// NewSolver allocates the hierarchy buffers and selects the planar or 3D
// stencil kernels according to the input data
func NewSolver(sim *inp.Simulation, topo *par.Topology, grd *grid.Grid, verbose bool) (o *Solver, err error) {
	o = new(Solver)
	o.Sim = sim
	o.Topo = topo
	o.Grd = grd
	o.Proc = topo.Rank
	o.Nproc = topo.Nproc
	o.ShowMsg = verbose && o.Proc == 0

	nlvl := sim.VcDepth + 1
	o.Phi = make([]*fld.Field, nlvl)
	o.Rhs = make([]*fld.Field, nlvl)
	o.Res = make([]*fld.Field, nlvl)
	o.hal = make([]*par.Halo, nlvl)
	for l := 0; l < nlvl; l++ {
		lev := grd.Lvl[l]
		if l > 0 { // level 0 aliases the caller's fields
			o.Phi[l] = fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
			o.Rhs[l] = fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
		}
		o.Res[l] = fld.NewField(lev.Nx, lev.Ny, lev.Nz, lev.Pad)
		o.hal[l] = par.NewHalo(topo, lev.Nx, lev.Ny, lev.Nz, lev.Pad, false, false)
	}
	bot := grd.Lvl[sim.VcDepth]
	o.tmp = fld.NewField(bot.Nx, bot.Ny, bot.Nz, bot.Pad)

	if sim.Planar {
		o.kern = &kern2d{o}
	} else {
		o.kern = &kern3d{o}
	}
	return
}

// Solve runs V-cycles on the finest-level fields phi (initial guess, updated
// in place) and rhs (read only) until the residual infinity norm drops below
// the configured tolerance or the cycle count is exhausted. A false converged
// flag is a warning for the caller, not an error: phi holds the last iterate
// and all level invariants still hold.
func (o *Solver) Solve(phi, rhs *fld.Field) (converged bool, err error) {
	lev := o.Grd.Lvl[0]
	if phi.Nx != lev.Nx || phi.Ny != lev.Ny || phi.Nz != lev.Nz || phi.Pad != lev.Pad {
		return false, chk.Err("phi extents (%d,%d,%d,pad=%d) do not match the finest level (%d,%d,%d,pad=%d)",
			phi.Nx, phi.Ny, phi.Nz, phi.Pad, lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	}
	if rhs.Nx != lev.Nx || rhs.Ny != lev.Ny || rhs.Nz != lev.Nz || rhs.Pad != lev.Pad {
		return false, chk.Err("rhs extents (%d,%d,%d,pad=%d) do not match the finest level (%d,%d,%d,pad=%d)",
			rhs.Nx, rhs.Ny, rhs.Nz, rhs.Pad, lev.Nx, lev.Ny, lev.Nz, lev.Pad)
	}
	o.Phi[0] = phi
	o.Rhs[0] = rhs

	o.ResHist = o.ResHist[:0]
	o.Ncycles = 0
	o.Converged = false
	for cyc := 1; cyc <= o.Sim.VcCount; cyc++ {
		o.vcycle()
		rnorm := o.residNorm(0)
		o.ResHist = append(o.ResHist, rnorm)
		o.Ncycles = cyc
		if o.ShowMsg {
			io.Pf("cycle %3d: residual = %g\n", cyc, rnorm)
		}
		if rnorm <= o.Sim.Tolerance {
			o.Converged = true
			break
		}
	}
	return o.Converged, nil
}

// vcycle runs one V-cycle over the whole hierarchy
func (o *Solver) vcycle() {
	d := o.Sim.VcDepth

	// descent
	for l := 0; l < d; l++ {
		o.kern.smooth(l, o.Sim.PreSmooth)
		o.kern.residual(l)
		o.kern.restrict(l)
		o.Phi[l+1].Fill(0)
	}

	// coarsest solve
	o.kern.jacobi(d, maxBottomIter)

	// ascent
	for l := d - 1; l >= 0; l-- {
		o.kern.prolong(l)
		o.kern.smooth(l, o.Sim.PostSmooth+o.Sim.InterSmooth[l])
	}
}

// residNorm computes the residual at level lvl and reduces its infinity norm
// over all processors
func (o *Solver) residNorm(lvl int) float64 {
	o.kern.residual(lvl)
	return par.MaxAll(o.Res[lvl].MaxAbs())
}

// syncAndBC refreshes the halo of f at level lvl: face exchange with the
// neighbouring processors first, then the boundary conditions on the faces
// that have no neighbour
func (o *Solver) syncAndBC(lvl int, f *fld.Field) {
	o.hal[lvl].SyncData(f.F)
	o.imposeBC(lvl, f)
}

// imposeBC fills the halo cells on physical faces: Dirichlet-zero on
// non-periodic faces and a local wrap along z, which is never decomposed.
// Periodic x and y faces are already handled by the wrap-around neighbour
// of the halo exchange.
func (o *Solver) imposeBC(lvl int, f *fld.Field) {
	p := f.Pad
	nx, ny, nz := f.Nx, f.Ny, f.Nz

	// x faces
	if o.Topo.Neighbor(par.FaceX0) == par.None {
		for i := 0; i < p; i++ {
			for j := range f.F[i] {
				for k := range f.F[i][j] {
					f.F[i][j][k] = 0
				}
			}
		}
	}
	if o.Topo.Neighbor(par.FaceX1) == par.None {
		for i := nx + p; i < nx+2*p; i++ {
			for j := range f.F[i] {
				for k := range f.F[i][j] {
					f.F[i][j][k] = 0
				}
			}
		}
	}

	// y faces; a planar run duplicates its single interior plane so that any
	// j +/- 1 access degenerates to the plane itself
	if o.Sim.Planar {
		for i := range f.F {
			for j := 0; j < p; j++ {
				copy(f.F[i][j], f.F[i][p])
				copy(f.F[i][ny+p+j], f.F[i][p])
			}
		}
	} else {
		if o.Topo.Neighbor(par.FaceY0) == par.None {
			for i := range f.F {
				for j := 0; j < p; j++ {
					for k := range f.F[i][j] {
						f.F[i][j][k] = 0
					}
				}
			}
		}
		if o.Topo.Neighbor(par.FaceY1) == par.None {
			for i := range f.F {
				for j := ny + p; j < ny+2*p; j++ {
					for k := range f.F[i][j] {
						f.F[i][j][k] = 0
					}
				}
			}
		}
	}

	// z faces: local wrap when periodic, Dirichlet-zero otherwise
	if o.Sim.ZPer {
		for i := range f.F {
			for j := range f.F[i] {
				for k := 0; k < p; k++ {
					f.F[i][j][k] = f.F[i][j][k+nz]
					f.F[i][j][nz+p+k] = f.F[i][j][p+k]
				}
			}
		}
	} else {
		for i := range f.F {
			for j := range f.F[i] {
				for k := 0; k < p; k++ {
					f.F[i][j][k] = 0
					f.F[i][j][nz+p+k] = 0
				}
			}
		}
	}
}
