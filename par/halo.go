// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package par

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// slab describes a sub-array: an origin and an extent per dimension
type slab struct {
	lo [3]int // origin
	n  [3]int // extent
}

func (s slab) size() int { return s.n[0] * s.n[1] * s.n[2] }

// Halo holds the send/recv sub-array descriptors for the four X/Y faces of
// one array shape. The descriptors are built once per level and reused for
// every exchange on arrays of that shape. Halo does not own the array; the
// array to synchronise is handed to SyncData on each call.
//
// The exchange runs in two phases: X faces first, then Y faces. The Y slabs
// span the full padded x-extent, so the corner halos are carried by the
// second phase. Within a phase, processors with even coordinate send before
// receiving and the others receive before sending, pairing every blocking
// send with an already-posted receive.
type Halo struct {

	// topology and shape
	topo *Topology
	pad  int
	full [3]int // array extents including halo

	// descriptors
	send [4]slab
	recv [4]slab

	// pack buffers
	sbuf [4][]float64
	rbuf [4][]float64
}

// NewHalo builds the face descriptors for arrays of interior extents
// nx,ny,nz with halo width pad. The stagger bits shift the send slab origin
// by one cell along the corresponding direction, for fields whose first
// owned node coincides with the neighbour's last one.
func NewHalo(topo *Topology, nx, ny, nz, pad int, xStag, yStag bool) (o *Halo) {
	if pad < 1 {
		chk.Panic("halo width must be at least 1 (pad=%d)", pad)
	}
	o = new(Halo)
	o.topo = topo
	o.pad = pad
	o.full = [3]int{nx + 2*pad, ny + 2*pad, nz + 2*pad}
	nzf := nz + 2*pad

	// x faces: core y, full z
	o.send[FaceX0] = slab{[3]int{pad, pad, 0}, [3]int{pad, ny, nzf}}
	o.send[FaceX1] = slab{[3]int{nx, pad, 0}, [3]int{pad, ny, nzf}}
	o.recv[FaceX0] = slab{[3]int{0, pad, 0}, [3]int{pad, ny, nzf}}
	o.recv[FaceX1] = slab{[3]int{nx + pad, pad, 0}, [3]int{pad, ny, nzf}}

	// y faces: full padded x, full z
	nxf := nx + 2*pad
	o.send[FaceY0] = slab{[3]int{0, pad, 0}, [3]int{nxf, pad, nzf}}
	o.send[FaceY1] = slab{[3]int{0, ny, 0}, [3]int{nxf, pad, nzf}}
	o.recv[FaceY0] = slab{[3]int{0, 0, 0}, [3]int{nxf, pad, nzf}}
	o.recv[FaceY1] = slab{[3]int{0, ny + pad, 0}, [3]int{nxf, pad, nzf}}

	// stagger offsets
	if xStag {
		o.send[FaceX0].lo[0]++
		o.send[FaceX1].lo[0]++
	}
	if yStag {
		o.send[FaceY0].lo[1]++
		o.send[FaceY1].lo[1]++
	}

	for f := 0; f < 4; f++ {
		o.sbuf[f] = make([]float64, o.send[f].size())
		o.rbuf[f] = make([]float64, o.recv[f].size())
	}
	return
}

// SyncData synchronises the X and Y face halos of F with the neighbouring
// processors. On return, the halo cells hold a consistent snapshot of the
// neighbours' interiors; no interior cell is modified. Z halos and physical
// faces are left untouched. MPI failures abort the process group.
func (o *Halo) SyncData(F [][][]float64) {
	if len(F) != o.full[0] || len(F[0]) != o.full[1] || len(F[0][0]) != o.full[2] {
		chk.Panic("array extents (%d,%d,%d) do not match halo descriptors (%d,%d,%d)",
			len(F), len(F[0]), len(F[0][0]), o.full[0], o.full[1], o.full[2])
	}
	o.exchange(F, FaceX0, FaceX1, o.topo.XRank)
	o.exchange(F, FaceY0, FaceY1, o.topo.YRank)
}

// exchange runs one phase: both faces of one direction
func (o *Halo) exchange(F [][][]float64, f0, f1, coord int) {
	r0 := o.topo.NearRanks[f0]
	r1 := o.topo.NearRanks[f1]
	if r0 == None && r1 == None {
		return
	}

	// single processor with wrap-around: copy locally, no communication
	if r0 == o.topo.Rank {
		o.pack(F, o.send[f1], o.sbuf[f1])
		o.unpack(F, o.recv[f0], o.sbuf[f1])
		o.pack(F, o.send[f0], o.sbuf[f0])
		o.unpack(F, o.recv[f1], o.sbuf[f0])
		return
	}

	if coord%2 == 0 {
		o.sendFace(F, f0, r0)
		o.recvFace(F, f0, r0)
		o.sendFace(F, f1, r1)
		o.recvFace(F, f1, r1)
	} else {
		o.recvFace(F, f1, r1)
		o.sendFace(F, f1, r1)
		o.recvFace(F, f0, r0)
		o.sendFace(F, f0, r0)
	}
}

func (o *Halo) sendFace(F [][][]float64, face, to int) {
	if to == None {
		return
	}
	o.pack(F, o.send[face], o.sbuf[face])
	mpi.DblSend(o.sbuf[face], to)
}

func (o *Halo) recvFace(F [][][]float64, face, from int) {
	if from == None {
		return
	}
	mpi.DblRecv(o.rbuf[face], from)
	o.unpack(F, o.recv[face], o.rbuf[face])
}

func (o *Halo) pack(F [][][]float64, s slab, buf []float64) {
	m := 0
	for i := s.lo[0]; i < s.lo[0]+s.n[0]; i++ {
		for j := s.lo[1]; j < s.lo[1]+s.n[1]; j++ {
			for k := s.lo[2]; k < s.lo[2]+s.n[2]; k++ {
				buf[m] = F[i][j][k]
				m++
			}
		}
	}
}

func (o *Halo) unpack(F [][][]float64, s slab, buf []float64) {
	m := 0
	for i := s.lo[0]; i < s.lo[0]+s.n[0]; i++ {
		for j := s.lo[1]; j < s.lo[1]+s.n[1]; j++ {
			for k := s.lo[2]; k < s.lo[2]+s.n[2]; k++ {
				F[i][j][k] = buf[m]
				m++
			}
		}
	}
}
