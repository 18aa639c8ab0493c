// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fld implements the plain scalar field: a 3D array with a halo pad
package fld

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/floats"
)

// Field holds a scalar quantity on the local sub-domain, including the halo pad.
// F is indexed F[i][j][k] with i,j,k in [0, n+2*Pad); the interior occupies
// [Pad, n+Pad) in each direction. The field knows nothing about communication;
// halo synchronisation is performed on F by the par package.
type Field struct {
	F          [][][]float64 // data, including halo cells
	Nx, Ny, Nz int           // interior extents
	Pad        int           // halo width
}

// NewField allocates a field with interior extents nx,ny,nz and halo width pad
func NewField(nx, ny, nz, pad int) (o *Field) {
	if nx < 1 || ny < 1 || nz < 1 || pad < 1 {
		chk.Panic("field extents (%d,%d,%d) and pad (%d) must be positive", nx, ny, nz, pad)
	}
	o = new(Field)
	o.Nx, o.Ny, o.Nz, o.Pad = nx, ny, nz, pad
	o.F = utl.Deep3alloc(nx+2*pad, ny+2*pad, nz+2*pad)
	return
}

// Fill sets all cells, halo included, to value v
func (o *Field) Fill(v float64) {
	for i := range o.F {
		for j := range o.F[i] {
			for k := range o.F[i][j] {
				o.F[i][j][k] = v
			}
		}
	}
}

// CopyFrom copies all cells, halo included, from field b
func (o *Field) CopyFrom(b *Field) {
	if o.Nx != b.Nx || o.Ny != b.Ny || o.Nz != b.Nz || o.Pad != b.Pad {
		chk.Panic("cannot copy field with extents (%d,%d,%d,pad=%d) into (%d,%d,%d,pad=%d)",
			b.Nx, b.Ny, b.Nz, b.Pad, o.Nx, o.Ny, o.Nz, o.Pad)
	}
	for i := range o.F {
		for j := range o.F[i] {
			copy(o.F[i][j], b.F[i][j])
		}
	}
}

// AddScaled performs o += a * b over the interior
func (o *Field) AddScaled(a float64, b *Field) {
	p := o.Pad
	for i := p; i < o.Nx+p; i++ {
		for j := p; j < o.Ny+p; j++ {
			for k := p; k < o.Nz+p; k++ {
				o.F[i][j][k] += a * b.F[i][j][k]
			}
		}
	}
}

// Interior returns a flattened copy of the interior cells (halo excluded)
func (o *Field) Interior() (v []float64) {
	p := o.Pad
	v = make([]float64, o.Nx*o.Ny*o.Nz)
	m := 0
	for i := p; i < o.Nx+p; i++ {
		for j := p; j < o.Ny+p; j++ {
			for k := p; k < o.Nz+p; k++ {
				v[m] = o.F[i][j][k]
				m++
			}
		}
	}
	return
}

// MaxAbs returns the local infinity norm of the interior
func (o *Field) MaxAbs() float64 {
	v := o.Interior()
	for m := range v {
		v[m] = math.Abs(v[m])
	}
	return floats.Norm(v, math.Inf(1))
}

// MeanInterior returns the local mean of the interior cells
func (o *Field) MeanInterior() float64 {
	v := o.Interior()
	return floats.Sum(v) / float64(len(v))
}
