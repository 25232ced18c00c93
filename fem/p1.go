// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// P1 kernels: linear lines and triangles; bilinear quadrilaterals
func init() {
	SetKernel("mass", &KernelSet{Rank: 2, Cell: massCell})
	SetKernel("laplace", &KernelSet{Rank: 2, Cell: laplaceCell})
	SetKernel("source", &KernelSet{Rank: 1, Cell: sourceCell})
	SetKernel("facet-mass", &KernelSet{Rank: 2, Exterior: facetMass})
	SetKernel("facet-source", &KernelSet{Rank: 1, Exterior: facetSource})
	SetKernel("jump", &KernelSet{Rank: 2, Interior: jumpPenalty})
}

// massCell computes ∫ Na Nb dΩ
func massCell(A []float64, x [][]float64) (err error) {
	n := len(x)
	switch n {
	case 2:
		h := floats.Distance(x[0], x[1], 2)
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				A[a*n+b] = h / 6 * (1 + delta(a, b))
			}
		}
	case 3:
		area, err := triArea(x)
		if err != nil {
			return err
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				A[a*n+b] = area / 12 * (1 + delta(a, b))
			}
		}
	case 4:
		return quadLoop(x, func(N []float64, G [][]float64, w float64) {
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					A[a*n+b] += N[a] * N[b] * w
				}
			}
		})
	default:
		return chk.Err("mass: cells with %d vertices are not available", n)
	}
	return
}

// laplaceCell computes ∫ ∇Na·∇Nb dΩ
func laplaceCell(A []float64, x [][]float64) (err error) {
	n := len(x)
	switch n {
	case 2:
		h := floats.Distance(x[0], x[1], 2)
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				A[a*n+b] = (2*delta(a, b) - 1) / h
			}
		}
	case 3:
		area, err := triArea(x)
		if err != nil {
			return err
		}
		var bb, cc [3]float64
		for i := 0; i < 3; i++ {
			j, k := (i+1)%3, (i+2)%3
			bb[i] = x[j][1] - x[k][1]
			cc[i] = x[k][0] - x[j][0]
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				A[a*n+b] = (bb[a]*bb[b] + cc[a]*cc[b]) / (4 * area)
			}
		}
	case 4:
		return quadLoop(x, func(N []float64, G [][]float64, w float64) {
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					A[a*n+b] += floats.Dot(G[a], G[b]) * w
				}
			}
		})
	default:
		return chk.Err("laplace: cells with %d vertices are not available", n)
	}
	return
}

// sourceCell computes ∫ Na dΩ
func sourceCell(A []float64, x [][]float64) (err error) {
	n := len(x)
	switch n {
	case 2:
		h := floats.Distance(x[0], x[1], 2)
		A[0], A[1] = h/2, h/2
	case 3:
		area, err := triArea(x)
		if err != nil {
			return err
		}
		for a := 0; a < 3; a++ {
			A[a] = area / 3
		}
	case 4:
		return quadLoop(x, func(N []float64, G [][]float64, w float64) {
			floats.AddScaled(A, w, N)
		})
	default:
		return chk.Err("source: cells with %d vertices are not available", n)
	}
	return
}

// facetMass computes ∫ Na Nb dΓ over a boundary facet (point or edge)
func facetMass(A []float64, x [][]float64, fv []int) (err error) {
	M, err := facetMassMatrix(x, fv)
	if err != nil {
		return
	}
	n := len(x)
	for a, la := range fv {
		for b, lb := range fv {
			A[la*n+lb] = M[a][b]
		}
	}
	return
}

// facetSource computes ∫ Na dΓ over a boundary facet (point or edge)
func facetSource(A []float64, x [][]float64, fv []int) (err error) {
	M, err := facetMassMatrix(x, fv)
	if err != nil {
		return
	}
	for a, la := range fv {
		A[la] = floats.Sum(M[a])
	}
	return
}

// jumpPenalty computes ∫ [Na][Nb] dΓ over an interior facet, with [u] = u⁰ - u¹
func jumpPenalty(A []float64, x [2][][]float64, fv [2][]int) (err error) {
	M, err := facetMassMatrix(x[0], fv[0])
	if err != nil {
		return
	}
	off := [2]int{0, len(x[0])}
	n := len(x[0]) + len(x[1])
	for s := 0; s < 2; s++ {
		for t := 0; t < 2; t++ {
			sign := 1.0
			if s != t {
				sign = -1
			}
			for a := range fv[s] {
				for b := range fv[t] {
					A[(off[s]+fv[s][a])*n+off[t]+fv[t][b]] += sign * M[a][b]
				}
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func delta(a, b int) float64 {
	if a == b {
		return 1
	}
	return 0
}

// triArea returns the area of a triangle in 2D
func triArea(x [][]float64) (area float64, err error) {
	if len(x[0]) != 2 {
		return 0, chk.Err("triangles must be in 2D. %dD is invalid", len(x[0]))
	}
	area = 0.5 * math.Abs((x[1][0]-x[0][0])*(x[2][1]-x[0][1])-(x[2][0]-x[0][0])*(x[1][1]-x[0][1]))
	if area <= 0 {
		return 0, chk.Err("triangle has zero area")
	}
	return
}

// facetMassMatrix returns the mass matrix of a point (1×1) or straight edge (2×2) facet
func facetMassMatrix(x [][]float64, fv []int) (M [][]float64, err error) {
	switch len(fv) {
	case 1:
		return [][]float64{{1}}, nil
	case 2:
		L := floats.Distance(x[fv[0]], x[fv[1]], 2)
		return [][]float64{{L / 3, L / 6}, {L / 6, L / 3}}, nil
	}
	return nil, chk.Err("facets with %d vertices are not available", len(fv))
}

// qua4 natural coordinates of vertices and Gauss points
var (
	qua4Nat = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	gauss2  = [2]float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}
)

// quadLoop calls fcn at each 2×2 Gauss point of a bilinear quadrilateral with the shape functions
// N[a], their gradients G[a][dim] and the weight times the determinant of the Jacobian
func quadLoop(x [][]float64, fcn func(N []float64, G [][]float64, w float64)) error {
	if len(x[0]) != 2 {
		return chk.Err("quadrilaterals must be in 2D. %dD is invalid", len(x[0]))
	}
	N := make([]float64, 4)
	dN := mat.NewDense(2, 4, nil) // derivatives w.r.t natural coordinates
	X := mat.NewDense(4, 2, nil)  // coordinates
	for a := 0; a < 4; a++ {
		X.Set(a, 0, x[a][0])
		X.Set(a, 1, x[a][1])
	}
	G := [][]float64{make([]float64, 2), make([]float64, 2), make([]float64, 2), make([]float64, 2)}
	var J, Ji, dNdx mat.Dense
	for _, r := range gauss2 {
		for _, s := range gauss2 {
			for a, c := range qua4Nat {
				N[a] = (1 + r*c[0]) * (1 + s*c[1]) / 4
				dN.Set(0, a, c[0]*(1+s*c[1])/4)
				dN.Set(1, a, c[1]*(1+r*c[0])/4)
			}
			J.Mul(dN, X) // J[i][j] = dx_j/dξ_i
			det := mat.Det(&J)
			if det <= 0 {
				return chk.Err("quadrilateral has a non-positive Jacobian determinant (%g)", det)
			}
			if err := Ji.Inverse(&J); err != nil {
				return chk.Err("cannot invert Jacobian:\n%v", err)
			}
			dNdx.Mul(&Ji, dN)
			for a := 0; a < 4; a++ {
				G[a][0], G[a][1] = dNdx.At(0, a), dNdx.At(1, a)
			}
			fcn(N, G, det)
		}
	}
	return nil
}
