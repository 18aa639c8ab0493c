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

func Test_mg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg01. Taylor-Green right-hand side. 3D periodic")

	sim := newTestSim("PPP", "UUU", 5, 5, 5, 3)
	sim.Lx, sim.Ly, sim.Lz = 2.0*math.Pi, 2.0*math.Pi, 2.0*math.Pi
	sim.Tolerance = 1e-5

	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)
	lev := s.Grd.Lvl[0]
	p := lev.Pad
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				rhs.F[i][j][k] = math.Sin(lev.XStag[i]) * math.Cos(lev.YStag[j]) * math.Cos(lev.ZStag[k])
			}
		}
	}

	converged, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	io.Pforan("cycles = %d  residuals = %v\n", s.Ncycles, s.ResHist)
	if !converged {
		tst.Errorf("solver must converge\n")
		return
	}
	if s.Ncycles > 6 {
		tst.Errorf("solver must converge within 6 V-cycles (got %d)\n", s.Ncycles)
	}
	if s.ResHist[s.Ncycles-1] > 1e-5 {
		tst.Errorf("final residual %g exceeds the tolerance\n", s.ResHist[s.Ncycles-1])
	}

	// phi approaches -F/3, up to the constant of the periodic problem and
	// the O(h^2) offset between the discrete and continuum eigenvalues
	shift := phi.MeanInterior()
	maxdiff := 0.0
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				d := math.Abs(phi.F[i][j][k] - shift + rhs.F[i][j][k]/3.0)
				if d > maxdiff {
					maxdiff = d
				}
			}
		}
	}
	io.Pforan("max |phi + F/3| = %v\n", maxdiff)
	if maxdiff > 2e-3 {
		tst.Errorf("phi is too far from -F/3: %g\n", maxdiff)
	}
}

func Test_mg02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg02. sinusoidal right-hand side. planar periodic")

	sim := newTestSim("PPP", "UUU", 6, 0, 6, 4)
	sim.VcCount = 8

	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)
	lev := s.Grd.Lvl[0]
	p := lev.Pad
	j := p
	for i := p; i < lev.Nx+p; i++ {
		for k := p; k < lev.Nz+p; k++ {
			rhs.F[i][j][k] = math.Sin(2.0*math.Pi*lev.XStag[i]) * math.Cos(2.0*math.Pi*lev.ZStag[k])
		}
	}

	converged, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	io.Pforan("cycles = %d  residuals = %v\n", s.Ncycles, s.ResHist)
	if !converged {
		tst.Errorf("solver must converge within 8 V-cycles\n")
		return
	}
	if s.ResHist[s.Ncycles-1] > 1e-6 {
		tst.Errorf("final residual %g exceeds the tolerance\n", s.ResHist[s.Ncycles-1])
	}

	// relative error against the continuum solution -F/(8 pi^2)
	ref := 1.0 / (8.0 * math.Pi * math.Pi)
	shift := phi.MeanInterior()
	maxdiff := 0.0
	for i := p; i < lev.Nx+p; i++ {
		for k := p; k < lev.Nz+p; k++ {
			ana := -rhs.F[i][j][k] * ref
			d := math.Abs(phi.F[i][j][k] - shift - ana)
			if d > maxdiff {
				maxdiff = d
			}
		}
	}
	io.Pforan("relative error = %v\n", maxdiff/ref)
	if maxdiff/ref > 1e-3 {
		tst.Errorf("relative error %g exceeds 1e-3\n", maxdiff/ref)
	}
}

func Test_mg03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg03. unit right-hand side. Dirichlet box")

	sim := newTestSim("NNN", "UUU", 5, 5, 5, 3)
	sim.Tolerance = 5e-13
	sim.VcCount = 40

	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)
	rhs.Fill(1.0)

	converged, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	io.Pforan("cycles = %d  residual = %v\n", s.Ncycles, s.ResHist[s.Ncycles-1])
	if !converged {
		tst.Errorf("solver must converge\n")
		return
	}

	// L phi = 1 with phi = 0 on the walls gives a strictly negative interior
	lev := s.Grd.Lvl[0]
	p := lev.Pad
	for _, v := range phi.Interior() {
		if v >= 0 {
			tst.Errorf("interior value %g is not negative\n", v)
			return
		}
	}

	// the solution is symmetric about the centre of the box
	n := lev.Nx + 2*p
	maxdiff := 0.0
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				for _, m := range [][3]int{
					{n - 1 - i, j, k},
					{i, n - 1 - j, k},
					{i, j, n - 1 - k},
				} {
					d := math.Abs(phi.F[i][j][k] - phi.F[m[0]][m[1]][m[2]])
					if d > maxdiff {
						maxdiff = d
					}
				}
			}
		}
	}
	io.Pforan("max symmetry defect = %v\n", maxdiff)
	if maxdiff > 1e-12 {
		tst.Errorf("solution is not symmetric: defect = %g\n", maxdiff)
	}
}

func Test_mg04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg04. stretched mesh convergence factor")

	sim := newTestSim("PPN", "UUD", 5, 5, 5, 3)
	sim.BetaZ = 1.2
	sim.Tolerance = 1e-13
	sim.VcCount = 8

	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)
	lev := s.Grd.Lvl[0]
	p := lev.Pad
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				x, y, z := lev.XStag[i], lev.YStag[j], lev.ZStag[k]
				rhs.F[i][j][k] = math.Sin(2.0*math.Pi*x)*math.Cos(2.0*math.Pi*y)*z*(1.0-z) +
					0.3*math.Cos(4.0*math.Pi*x)*math.Sin(2.0*math.Pi*y)*math.Sin(math.Pi*z)
			}
		}
	}

	_, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	io.Pforan("residuals = %v\n", s.ResHist)

	// the reduction factor per cycle settles below 0.2 after the second
	// cycle; ignore cycles already at the rounding floor
	for m := 2; m < len(s.ResHist); m++ {
		if s.ResHist[m-1] < 1e-11 {
			break
		}
		factor := s.ResHist[m] / s.ResHist[m-1]
		io.Pforan("cycle %d: factor = %v\n", m+1, factor)
		if factor > 0.2 {
			tst.Errorf("reduction factor %g at cycle %d exceeds 0.2\n", factor, m+1)
		}
	}
}

func Test_mg05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg05. cycle count exhausted")

	sim := newTestSim("PPP", "UUU", 5, 5, 5, 3)
	sim.Lx, sim.Ly, sim.Lz = 2.0*math.Pi, 2.0*math.Pi, 2.0*math.Pi
	sim.Tolerance = 1e-5
	sim.VcCount = 1

	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)
	lev := s.Grd.Lvl[0]
	p := lev.Pad
	for i := p; i < lev.Nx+p; i++ {
		for j := p; j < lev.Ny+p; j++ {
			for k := p; k < lev.Nz+p; k++ {
				rhs.F[i][j][k] = math.Sin(lev.XStag[i]) * math.Cos(lev.YStag[j]) * math.Cos(lev.ZStag[k])
			}
		}
	}

	converged, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	if converged {
		tst.Errorf("a single cycle must not reach tolerance 1e-5\n")
		return
	}
	chk.IntAssert(s.Ncycles, 1)
	if !(s.ResHist[0] > sim.Tolerance) {
		tst.Errorf("residual %g after one cycle must still exceed the tolerance\n", s.ResHist[0])
	}

	// the state is self-consistent: resuming from the returned iterate
	// converges as usual
	sim.VcCount = 10
	converged, err = s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	if !converged {
		tst.Errorf("resumed solve must converge\n")
	}
	io.Pforan("resumed cycles = %d\n", s.Ncycles)
}

func Test_mg06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg06. zero right-hand side fixed point")

	sim := newTestSim("PPP", "UUU", 4, 4, 4, 2)
	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)

	converged, err := s.Solve(phi, rhs)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	if !converged {
		tst.Errorf("zero problem must converge immediately\n")
		return
	}
	chk.IntAssert(s.Ncycles, 1)
	chk.Scalar(tst, "residual", 1e-17, s.ResHist[0], 0)
	for _, v := range phi.Interior() {
		chk.Scalar(tst, "phi", 1e-17, v, 0)
	}
}

func Test_mg07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mg07. mismatched field extents")

	sim := newTestSim("PPP", "UUU", 4, 4, 4, 2)
	s := newTestSolver(tst, sim)
	phi, rhs := newLevelFields(s)

	bad := newTestSolver(tst, newTestSim("PPP", "UUU", 5, 5, 5, 2))
	badPhi, _ := newLevelFields(bad)

	if _, err := s.Solve(badPhi, rhs); err == nil {
		tst.Errorf("mismatched phi extents must fail\n")
	}
	if _, err := s.Solve(phi, badPhi); err == nil {
		tst.Errorf("mismatched rhs extents must fail\n")
	}
}
