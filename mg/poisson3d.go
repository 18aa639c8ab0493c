// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"github.com/roshansamuel/loiret/par"
)

// kern3d implements the stencil operations for 3D runs. The discrete
// Laplacian on the stretched mesh reads, per direction,
//
//	L phi = xix^2 (phiE - 2 phiC + phiW)/hx^2 + xixx (phiE - phiW)/(2 hx) + ...
//
// with the transformation metrics taken at the staggered node being updated.
type kern3d struct {
	s *Solver
}

// smooth performs red-black Gauss-Seidel sweeps on Phi[lvl]. The halo is
// re-synchronised after each colour pass: the neighbouring processors need
// the freshly updated cells of one colour before the other colour can run.
func (o *kern3d) smooth(lvl, sweeps int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs := s.Phi[lvl], s.Rhs[lvl]
	p := lev.Pad
	hx, hy, hz := lev.Hx, lev.Hy, lev.Hz
	hx2, hy2, hz2 := hx*hx, hy*hy, hz*hz
	F, B := phi.F, rhs.F
	for sw := 0; sw < sweeps; sw++ {
		for colour := 0; colour < 2; colour++ {
			s.syncAndBC(lvl, phi)
			for i := p; i < lev.Nx+p; i++ {
				xix, xixx := lev.XixStag[i], lev.XixxStag[i]
				gi := lev.XOff + i - p
				for j := p; j < lev.Ny+p; j++ {
					ety, etyy := lev.EtyStag[j], lev.EtyyStag[j]
					gj := lev.YOff + j - p
					for k := p; k < lev.Nz+p; k++ {
						if (gi+gj+k-p)&1 != colour {
							continue
						}
						ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
						num := xix*xix*(F[i+1][j][k]+F[i-1][j][k])/hx2 +
							xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
							ety*ety*(F[i][j+1][k]+F[i][j-1][k])/hy2 +
							etyy*(F[i][j+1][k]-F[i][j-1][k])/(2.0*hy) +
							ztz*ztz*(F[i][j][k+1]+F[i][j][k-1])/hz2 +
							ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz) -
							B[i][j][k]
						den := 2.0 * (xix*xix/hx2 + ety*ety/hy2 + ztz*ztz/hz2)
						F[i][j][k] = num / den
					}
				}
			}
		}
	}
	s.syncAndBC(lvl, phi)
}

// residual computes Res[lvl] = Rhs[lvl] - L Phi[lvl] over the interior and
// synchronises the residual halo, which the restriction stencil reads one
// layer of at sub-domain edges
func (o *kern3d) residual(lvl int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs, res := s.Phi[lvl], s.Rhs[lvl], s.Res[lvl]
	p := lev.Pad
	hx, hy, hz := lev.Hx, lev.Hy, lev.Hz
	hx2, hy2, hz2 := hx*hx, hy*hy, hz*hz
	F := phi.F
	for i := p; i < lev.Nx+p; i++ {
		xix, xixx := lev.XixStag[i], lev.XixxStag[i]
		for j := p; j < lev.Ny+p; j++ {
			ety, etyy := lev.EtyStag[j], lev.EtyyStag[j]
			for k := p; k < lev.Nz+p; k++ {
				ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
				lap := xix*xix*(F[i+1][j][k]-2.0*F[i][j][k]+F[i-1][j][k])/hx2 +
					xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
					ety*ety*(F[i][j+1][k]-2.0*F[i][j][k]+F[i][j-1][k])/hy2 +
					etyy*(F[i][j+1][k]-F[i][j-1][k])/(2.0*hy) +
					ztz*ztz*(F[i][j][k+1]-2.0*F[i][j][k]+F[i][j][k-1])/hz2 +
					ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz)
				res.F[i][j][k] = rhs.F[i][j][k] - lap
			}
		}
	}
	s.syncAndBC(lvl, res)
}

// restrict transfers Res[lvl] into Rhs[lvl+1] by full weighting: per
// direction the fine cell below the coarse one carries weight 1/2 and its
// two neighbours 1/4 each. At non-periodic physical faces the outside
// neighbour index is clamped onto the face cell, which folds its weight
// inward and preserves the sum of the stencil.
func (o *kern3d) restrict(lvl int) {
	s := o.s
	levC := s.Grd.Lvl[lvl+1]
	fine, coarse := s.Res[lvl], s.Rhs[lvl+1]
	p := levC.Pad
	wallX0 := s.Topo.Neighbor(par.FaceX0) == par.None
	wallY0 := s.Topo.Neighbor(par.FaceY0) == par.None
	wallZ0 := !s.Sim.ZPer
	F := fine.F
	for ic := p; ic < levC.Nx+p; ic++ {
		i := p + 2*(ic-p)
		im, ip := i-1, i+1
		if i == p && wallX0 {
			im = i
		}
		for jc := p; jc < levC.Ny+p; jc++ {
			j := p + 2*(jc-p)
			jm, jp := j-1, j+1
			if j == p && wallY0 {
				jm = j
			}
			for kc := p; kc < levC.Nz+p; kc++ {
				k := p + 2*(kc-p)
				km, kp := k-1, k+1
				if k == p && wallZ0 {
					km = k
				}
				sumX0 := 0.25*F[im][jm][km] + 0.5*F[im][jm][k] + 0.25*F[im][jm][kp]
				sumX1 := 0.25*F[im][j][km] + 0.5*F[im][j][k] + 0.25*F[im][j][kp]
				sumX2 := 0.25*F[im][jp][km] + 0.5*F[im][jp][k] + 0.25*F[im][jp][kp]
				sumC0 := 0.25*F[i][jm][km] + 0.5*F[i][jm][k] + 0.25*F[i][jm][kp]
				sumC1 := 0.25*F[i][j][km] + 0.5*F[i][j][k] + 0.25*F[i][j][kp]
				sumC2 := 0.25*F[i][jp][km] + 0.5*F[i][jp][k] + 0.25*F[i][jp][kp]
				sumP0 := 0.25*F[ip][jm][km] + 0.5*F[ip][jm][k] + 0.25*F[ip][jm][kp]
				sumP1 := 0.25*F[ip][j][km] + 0.5*F[ip][j][k] + 0.25*F[ip][j][kp]
				sumP2 := 0.25*F[ip][jp][km] + 0.5*F[ip][jp][k] + 0.25*F[ip][jp][kp]
				coarse.F[ic][jc][kc] = 0.25*(0.25*sumX0+0.5*sumX1+0.25*sumX2) +
					0.5*(0.25*sumC0+0.5*sumC1+0.25*sumC2) +
					0.25*(0.25*sumP0+0.5*sumP1+0.25*sumP2)
			}
		}
	}
}

// prolong interpolates Phi[lvl+1] trilinearly onto level lvl and adds the
// result into Phi[lvl]. A fine cell whose indices are all even coincides
// with a coarse cell and receives its value exactly.
func (o *kern3d) prolong(lvl int) {
	s := o.s
	levF := s.Grd.Lvl[lvl]
	fine, coarse := s.Phi[lvl], s.Phi[lvl+1]
	p := levF.Pad
	C := coarse.F
	for i := p; i < levF.Nx+p; i++ {
		ci := p + (i-p)>>1
		i1 := ci + (i-p)&1
		for j := p; j < levF.Ny+p; j++ {
			cj := p + (j-p)>>1
			j1 := cj + (j-p)&1
			for k := p; k < levF.Nz+p; k++ {
				ck := p + (k-p)>>1
				k1 := ck + (k-p)&1
				fine.F[i][j][k] += 0.125 * (C[ci][cj][ck] + C[i1][cj][ck] +
					C[ci][j1][ck] + C[i1][j1][ck] +
					C[ci][cj][k1] + C[i1][cj][k1] +
					C[ci][j1][k1] + C[i1][j1][k1])
			}
		}
	}
}

// jacobi runs the weighted Jacobi bottom solve on Phi[lvl] until the global
// residual norm drops below the tolerance or maxIter iterations elapse
func (o *kern3d) jacobi(lvl, maxIter int) {
	s := o.s
	lev := s.Grd.Lvl[lvl]
	phi, rhs, tmp := s.Phi[lvl], s.Rhs[lvl], s.tmp
	p := lev.Pad
	hx, hy, hz := lev.Hx, lev.Hy, lev.Hz
	hx2, hy2, hz2 := hx*hx, hy*hy, hz*hz
	s.syncAndBC(lvl, phi)
	for it := 0; it < maxIter; it++ {
		F, B := phi.F, rhs.F
		for i := p; i < lev.Nx+p; i++ {
			xix, xixx := lev.XixStag[i], lev.XixxStag[i]
			for j := p; j < lev.Ny+p; j++ {
				ety, etyy := lev.EtyStag[j], lev.EtyyStag[j]
				for k := p; k < lev.Nz+p; k++ {
					ztz, ztzz := lev.ZtzStag[k], lev.ZtzzStag[k]
					num := xix*xix*(F[i+1][j][k]+F[i-1][j][k])/hx2 +
						xixx*(F[i+1][j][k]-F[i-1][j][k])/(2.0*hx) +
						ety*ety*(F[i][j+1][k]+F[i][j-1][k])/hy2 +
						etyy*(F[i][j+1][k]-F[i][j-1][k])/(2.0*hy) +
						ztz*ztz*(F[i][j][k+1]+F[i][j][k-1])/hz2 +
						ztzz*(F[i][j][k+1]-F[i][j][k-1])/(2.0*hz) -
						B[i][j][k]
					den := 2.0 * (xix*xix/hx2 + ety*ety/hy2 + ztz*ztz/hz2)
					tmp.F[i][j][k] = F[i][j][k] + jacobiOmega*(num/den-F[i][j][k])
				}
			}
		}
		for i := p; i < lev.Nx+p; i++ {
			for j := p; j < lev.Ny+p; j++ {
				for k := p; k < lev.Nz+p; k++ {
					phi.F[i][j][k] = tmp.F[i][j][k]
				}
			}
		}
		s.syncAndBC(lvl, phi)
		if s.residNorm(lvl) <= s.Sim.Tolerance {
			break
		}
	}
}
