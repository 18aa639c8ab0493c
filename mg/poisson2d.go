// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"github.com/roshansamuel/loiret/par"
)

// kern2d implements the stencil operations for planar (x,z) runs. The single
// interior plane sits at j = pad; all j-indexed terms of the 3D stencil drop
// and the point update solves the 5-point Laplacian.
type kern2d struct {
	s *Solver
}

func (o *kern2d) smooth(lvl, sweeps int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs := s.Phi[lvl], s.Rhs[lvl]
	p := lev.Pad
	j := p
	hx, hz := lev.Hx, lev.Hz
	hx2, hz2 := hx*hx, hz*hz
	F, B := phi.F, rhs.F
	for sw := 0; sw < sweeps; sw++ {
		for colour := 0; colour < 2; colour++ {
			s.syncAndBC(lvl, phi)
			for i := p; i < lev.Nx+p; i++ {
				xix, xixx := lev.XixStag[i], lev.XixxStag[i]
				gi := lev.XOff + i - p
				for k := p; k < lev.Nz+p; k++ {
					if (gi+k-p)&1 != colour {
						continue
					}
					ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
					num := xix*xix*(F[i+1][j][k]+F[i-1][j][k])/hx2 +
						xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
						ztz*ztz*(F[i][j][k+1]+F[i][j][k-1])/hz2 +
						ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz) -
						B[i][j][k]
					den := 2.0 * (xix*xix/hx2 + ztz*ztz/hz2)
					F[i][j][k] = num / den
				}
			}
		}
	}
	s.syncAndBC(lvl, phi)
}

func (o *kern2d) residual(lvl int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs, res := s.Phi[lvl], s.Rhs[lvl], s.Res[lvl]
	p := lev.Pad
	j := p
	hx, hz := lev.Hx, lev.Hz
	hx2, hz2 := hx*hx, hz*hz
	F := phi.F
	for i := p; i < lev.Nx+p; i++ {
		xix, xixx := lev.XixStag[i], lev.XixxStag[i]
		for k := p; k < lev.Nz+p; k++ {
			ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
			lap := xix*xix*(F[i+1][j][k]-2.0*F[i][j][k]+F[i-1][j][k])/hx2 +
				xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
				ztz*ztz*(F[i][j][k+1]-2.0*F[i][j][k]+F[i][j][k-1])/hz2 +
				ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz)
			res.F[i][j][k] = rhs.F[i][j][k] - lap
		}
	}
	s.syncAndBC(lvl, res)
}

// restrict transfers Res[lvl] into Rhs[lvl+1] by full weighting on the
// plane: centre 1/4, faces 1/8, corners 1/16, with the same inward folding
// as the 3D stencil at non-periodic physical faces
func (o *kern2d) restrict(lvl int) {
	s := o.s
	levC := s.Grd.Lvl[lvl+1]
	fine, coarse := s.Res[lvl], s.Rhs[lvl+1]
	p := levC.Pad
	j := p
	wallX0 := s.Topo.Neighbor(par.FaceX0) == par.None
	wallZ0 := !s.Sim.ZPer
	F := fine.F
	for ic := p; ic < levC.Nx+p; ic++ {
		i := p + 2*(ic-p)
		im, ip := i-1, i+1
		if i == p && wallX0 {
			im = i
		}
		for kc := p; kc < levC.Nz+p; kc++ {
			k := p + 2*(kc-p)
			km, kp := k-1, k+1
			if k == p && wallZ0 {
				km = k
			}
			sumM := 0.25*F[im][j][km] + 0.5*F[im][j][k] + 0.25*F[im][j][kp]
			sumC := 0.25*F[i][j][km] + 0.5*F[i][j][k] + 0.25*F[i][j][kp]
			sumP := 0.25*F[ip][j][km] + 0.5*F[ip][j][k] + 0.25*F[ip][j][kp]
			coarse.F[ic][j][kc] = 0.25*sumM + 0.5*sumC + 0.25*sumP
		}
	}
}

// prolong interpolates Phi[lvl+1] bilinearly onto level lvl and adds the
// result into Phi[lvl]
func (o *kern2d) prolong(lvl int) {
	s := o.s
	levF := s.Grd.Lvl[lvl]
	fine, coarse := s.Phi[lvl], s.Phi[lvl+1]
	p := levF.Pad
	j := p
	C := coarse.F
	for i := p; i < levF.Nx+p; i++ {
		ci := p + (i-p)>>1
		i1 := ci + (i-p)&1
		for k := p; k < levF.Nz+p; k++ {
			ck := p + (k-p)>>1
			k1 := ck + (k-p)&1
			fine.F[i][j][k] += 0.25 * (C[ci][j][ck] + C[i1][j][ck] + C[ci][j][k1] + C[i1][j][k1])
		}
	}
}

func (o *kern2d) jacobi(lvl, maxIter int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs, tmp := s.Phi[lvl], s.Rhs[lvl], s.tmp
	p := lev.Pad
	j := p
	hx, hz := lev.Hx, lev.Hz
	hx2, hz2 := hx*hx, hz*hz
	s.syncAndBC(lvl, phi)
	for it := 0; it < maxIter; it++ {
		F, B := phi.F, rhs.F
		for i := p; i < lev.Nx+p; i++ {
			xix, xixx := lev.XixStag[i], lev.XixxStag[i]
			for k := p; k < lev.Nz+p; k++ {
				ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
				num := xix*xix*(F[i+1][j][k]+F[i-1][j][k])/hx2 +
					xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
					ztz*ztz*(F[i][j][k+1]+F[i][j][k-1])/hz2 +
					ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz) -
					B[i][j][k]
				den := 2.0 * (xix*xix/hx2 + ztz*ztz/hz2)
				tmp.F[i][j][k] = F[i][j][k] + jacobiOmega*(num/den-F[i][j][k])
			}
		}
		for i := p; i < lev.Nx+p; i++ {
			for k := p; k < lev.Nz+p; k++ {
				phi.F[i][j][k] = tmp.F[i][j][k]
			}
		}
		s.syncAndBC(lvl, phi)
		if s.residNorm(lvl) <= s.Sim.Tolerance {
			break
		}
	}
}
