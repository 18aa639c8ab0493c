// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Test_kern01 checks that the planar kernels and the 3D kernels agree on a
// single (x,z) plane: with one cell along y and the plane duplicated into the
// y halo, every j-indexed term of the 3D stencil cancels exactly.
func Test_kern01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kern01. planar/3D residual parity")

	sim := newTestSim("PPP", "UUU", 5, 0, 5, 3)
	s2 := newTestSolver(tst, sim)
	s3 := newTestSolver(tst, sim)
	s3.kern = &kern3d{s3}

	phi2, rhs2 := newLevelFields(s2)
	phi3, rhs3 := newLevelFields(s3)
	s2.Phi[0], s2.Rhs[0] = phi2, rhs2
	s3.Phi[0], s3.Rhs[0] = phi3, rhs3

	fillRandom(s2, 0, phi2.F, 707)
	fillRandom(s2, 0, rhs2.F, 808)
	phi3.CopyFrom(phi2)
	rhs3.CopyFrom(rhs2)

	s2.syncAndBC(0, phi2)
	s3.syncAndBC(0, phi3)
	s2.kern.residual(0)
	s3.kern.residual(0)

	r2 := s2.Res[0].Interior()
	r3 := s3.Res[0].Interior()
	chk.Vector(tst, "residual parity", 1e-15, r2, r3)
}

// Test_kern02 solves the same planar problem with both kernel sets; the two
// iterations differ sweep by sweep but must land on the same discrete
// solution
func Test_kern02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kern02. planar/3D solve parity")

	sim := newTestSim("PPP", "UUU", 6, 0, 6, 4)
	sim.Tolerance = 1e-10
	sim.VcCount = 20

	s2 := newTestSolver(tst, sim)
	s3 := newTestSolver(tst, sim)
	s3.kern = &kern3d{s3}

	phi2, rhs2 := newLevelFields(s2)
	phi3, rhs3 := newLevelFields(s3)
	lev := s2.Grd.Lvl[0]
	p := lev.Pad
	j := p
	for i := p; i < lev.Nx+p; i++ {
		for k := p; k < lev.Nz+p; k++ {
			f := math.Sin(2.0*math.Pi*lev.XStag[i]) * math.Cos(2.0*math.Pi*lev.ZStag[k])
			rhs2.F[i][j][k] = f
			rhs3.F[i][j][k] = f
		}
	}

	conv2, err := s2.Solve(phi2, rhs2)
	if err != nil {
		tst.Errorf("planar solve failed:\n%v", err)
		return
	}
	conv3, err := s3.Solve(phi3, rhs3)
	if err != nil {
		tst.Errorf("3D solve failed:\n%v", err)
		return
	}
	if !conv2 || !conv3 {
		tst.Errorf("both solves must converge (planar=%v, 3D=%v)\n", conv2, conv3)
		return
	}
	io.Pforan("cycles: planar=%d  3D=%d\n", s2.Ncycles, s3.Ncycles)

	// compare on the plane, up to the constant of the periodic problem
	shift := phi2.MeanInterior() - phi3.MeanInterior()
	maxdiff := 0.0
	for i := p; i < lev.Nx+p; i++ {
		for k := p; k < lev.Nz+p; k++ {
			d := math.Abs(phi2.F[i][j][k] - phi3.F[i][j][k] - shift)
			if d > maxdiff {
				maxdiff = d
			}
		}
	}
	io.Pforan("maxdiff = %v\n", maxdiff)
	if maxdiff > 1e-8 {
		tst.Errorf("planar and 3D solutions differ by %g\n", maxdiff)
	}
}
