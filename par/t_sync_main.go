// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Halo-exchange check on 4 processors:
//
//	mpirun -np 4 go run t_sync_main.go
//
// Every processor tags its interior with a function of the global indices,
// synchronises, and verifies that each halo cell equals the value its
// neighbour holds at the corresponding interior position.
package main

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"

	"github.com/roshansamuel/loiret/par"
)

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

	// 2 x 2 periodic topology; 8 x 8 x 4 cells per processor
	topo, err := par.NewTopology(2, 2, true, true)
	if err != nil {
		chk.Panic("%v", err)
	}
	nx, ny, nz, pad := 8, 8, 4, 1
	h := par.NewHalo(topo, nx, ny, nz, pad, false, false)

	// global tag: gx + 100 gy + 10000 k, periodic in gx and gy
	gnx, gny := nx*topo.NpX, ny*topo.NpY
	tag := func(gx, gy, k int) float64 {
		gx = (gx + gnx) % gnx
		gy = (gy + gny) % gny
		return float64(gx + 100*gy + 10000*k)
	}
	F := utl.Deep3alloc(nx+2*pad, ny+2*pad, nz+2*pad)
	for i := pad; i < nx+pad; i++ {
		for j := pad; j < ny+pad; j++ {
			for k := 0; k < nz+2*pad; k++ {
				F[i][j][k] = tag(topo.XRank*nx+i-pad, topo.YRank*ny+j-pad, k)
			}
		}
	}
	h.SyncData(F)

	// all halo cells must carry the neighbour's interior values
	maxdiff := 0.0
	for i := 0; i < nx+2*pad; i++ {
		for j := 0; j < ny+2*pad; j++ {
			for k := 0; k < nz+2*pad; k++ {
				inX := i >= pad && i < nx+pad
				inY := j >= pad && j < ny+pad
				if inX && inY {
					continue // interior
				}
				// face halos and the corners carried by the y-phase
				d := math.Abs(F[i][j][k] - tag(topo.XRank*nx+i-pad, topo.YRank*ny+j-pad, k))
				if d > maxdiff {
					maxdiff = d
				}
			}
		}
	}
	if maxdiff > 0 {
		chk.Panic("halo mismatch on processor %d: maxdiff = %v", topo.Rank, maxdiff)
	}
	if topo.Rank == 0 {
		io.Pf("halo exchange OK on %d processors\n", mpi.Size())
	}
}
