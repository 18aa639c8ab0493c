// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package par implements the 2D Cartesian process topology and the halo
// exchange across sub-domain faces. The domain is decomposed along X and Y
// only; Z is kept whole on every processor.
package par

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// None marks the absence of a neighbouring processor on a face
const None = -1

// face indices
const (
	FaceX0 = iota // towards smaller x
	FaceX1        // towards larger x
	FaceY0        // towards smaller y (front)
	FaceY1        // towards larger y (rear)
)

// Topology holds the position of this processor within the 2D process grid
// and the ranks of its four neighbours. Periodic directions wrap around; on
// non-periodic edges the neighbour is None and the face carries a physical
// boundary condition instead.
type Topology struct {

	// global
	Rank  int // this processor
	Nproc int // total number of processors
	NpX   int // number of processors along x
	NpY   int // number of processors along y

	// position
	XRank int // coordinate of this processor along x
	YRank int // coordinate of this processor along y

	// periodicity
	XPer bool // wrap around along x
	YPer bool // wrap around along y

	// neighbours
	NearRanks [4]int // ranks on FaceX0, FaceX1, FaceY0, FaceY1; None on physical faces
}

// NewTopology builds the process topology for the current rank.
// Without MPI (serial runs and unit tests) rank is 0 and nproc is 1.
func NewTopology(npX, npY int, xPer, yPer bool) (o *Topology, err error) {
	o = new(Topology)
	o.Rank, o.Nproc = 0, 1
	if mpi.IsOn() {
		o.Rank = mpi.Rank()
		o.Nproc = mpi.Size()
	}
	if npX < 1 || npY < 1 {
		err = chk.Err("number of processors along x and y must be positive: npX=%d npY=%d", npX, npY)
		return
	}
	if npX*npY != o.Nproc {
		err = chk.Err("process grid %d x %d does not match world size %d", npX, npY, o.Nproc)
		return
	}
	o.NpX, o.NpY = npX, npY
	o.XPer, o.YPer = xPer, yPer
	o.XRank = o.Rank % npX
	o.YRank = o.Rank / npX
	o.NearRanks[FaceX0] = o.neighbour(o.XRank-1, o.YRank, npX, npY, xPer, true)
	o.NearRanks[FaceX1] = o.neighbour(o.XRank+1, o.YRank, npX, npY, xPer, true)
	o.NearRanks[FaceY0] = o.neighbour(o.XRank, o.YRank-1, npX, npY, yPer, false)
	o.NearRanks[FaceY1] = o.neighbour(o.XRank, o.YRank+1, npX, npY, yPer, false)
	return
}

// neighbour resolves one neighbouring coordinate pair into a rank
func (o *Topology) neighbour(cx, cy, npX, npY int, per, alongX bool) int {
	if alongX {
		if cx < 0 || cx >= npX {
			if !per {
				return None
			}
			cx = (cx + npX) % npX
		}
	} else {
		if cy < 0 || cy >= npY {
			if !per {
				return None
			}
			cy = (cy + npY) % npY
		}
	}
	return cy*npX + cx
}

// Neighbor returns the rank across the given face, or None
func (o *Topology) Neighbor(face int) int {
	return o.NearRanks[face]
}

// LocalExtents splits the global extents of level lvl among the processors.
// Z is not decomposed, so only nx and ny are per-processor values.
func (o *Topology) LocalExtents(nxGlob, nyGlob, lvl int) (nx, ny int) {
	nx = (nxGlob >> uint(lvl)) / o.NpX
	ny = (nyGlob >> uint(lvl)) / o.NpY
	return
}

// CheckDepth verifies that every level down to depth keeps enough interior
// cells in the decomposed directions to fill a halo of width pad.
func (o *Topology) CheckDepth(nxGlob, nyGlob, depth, pad int) (err error) {
	for lvl := 0; lvl <= depth; lvl++ {
		nx, ny := o.LocalExtents(nxGlob, nyGlob, lvl)
		if nx < 2*pad {
			return chk.Err("local x-extent %d at level %d is smaller than twice the halo width %d", nx, lvl, pad)
		}
		if nyGlob > 1 && ny < 2*pad {
			return chk.Err("local y-extent %d at level %d is smaller than twice the halo width %d", ny, lvl, pad)
		}
	}
	return
}

// MaxAll reduces x to the maximum over all processors
func MaxAll(x float64) float64 {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return x
	}
	v := []float64{x}
	w := make([]float64, 1)
	mpi.AllReduceMax(v, w)
	return v[0]
}

// SumAll reduces x to the sum over all processors
func SumAll(x float64) float64 {
	if !mpi.IsOn() || mpi.Size() < 2 {
		return x
	}
	v := []float64{x}
	w := make([]float64, 1)
	mpi.AllReduceSum(v, w)
	return v[0]
}
