// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// IntegralType defines the kinds of integrals in a form
type IntegralType int

const (
	Cell          IntegralType = iota // over cells
	InteriorFacet                     // over facets shared by two cells
	ExteriorFacet                     // over boundary facets
	nIntegralTypes
)

// IntegralTypes returns all kinds of integrals
func IntegralTypes() []IntegralType {
	return []IntegralType{Cell, InteriorFacet, ExteriorFacet}
}

var integralNames = [nIntegralTypes]string{"cell", "interior_facet", "exterior_facet"}

// String returns the name of the kind of integral
func (t IntegralType) String() string {
	if t < 0 || t >= nIntegralTypes {
		return io.Sf("IntegralType(%d)", int(t))
	}
	return integralNames[t]
}

// ParseIntegralType converts a name into IntegralType
func ParseIntegralType(name string) (t IntegralType, err error) {
	for k, n := range integralNames {
		if n == name {
			return IntegralType(k), nil
		}
	}
	return 0, chk.Err("integral type %q is not available; options are %v", name, integralNames)
}

// CellKernel computes the scalar element tensor of one cell.
//  A -- [nv] (rank 1) or [nv*nv] row-major (rank 2); zero on entry
//  x -- [nv][ndim] coordinates of the cell vertices
type CellKernel func(A []float64, x [][]float64) error

// FacetKernel computes the scalar element tensor of one boundary facet; A as in CellKernel.
//  fv -- local vertices (within the cell) on the facet
type FacetKernel func(A []float64, x [][]float64, fv []int) error

// InteriorFacetKernel computes the scalar element tensor of one interior facet over the
// vertices of both adjacent cells (cell 0 then cell 1).
//  A  -- [n] (rank 1) or [n*n] row-major (rank 2) with n = nv0+nv1; zero on entry
//  fv -- local vertices on the facet; fv[0][k] and fv[1][k] are the same vertex
type InteriorFacetKernel func(A []float64, x [2][][]float64, fv [2][]int) error

// Integral is one term of a form. The variants are CellIntegral, InteriorFacetIntegral and
// ExteriorFacetIntegral.
type Integral interface {
	Type() IntegralType // kind
	Tag() int           // cell or facet tag where the integral applies; 0 means everywhere
	sealed()
}

// CellIntegral integrates over cells
type CellIntegral struct {
	ID     int        // cell tag; 0 means all cells
	Kernel CellKernel // element tensor
}

// ExteriorFacetIntegral integrates over boundary facets
type ExteriorFacetIntegral struct {
	ID     int         // facet tag; 0 means all boundary facets
	Kernel FacetKernel // element tensor
}

// InteriorFacetIntegral integrates over facets shared by two cells
type InteriorFacetIntegral struct {
	ID     int                 // facet tag; 0 means all interior facets
	Kernel InteriorFacetKernel // element tensor
}

func (o *CellIntegral) Type() IntegralType { return Cell }
func (o *CellIntegral) Tag() int { return o.ID }
func (o *CellIntegral) sealed() {}
func (o *ExteriorFacetIntegral) Type() IntegralType { return ExteriorFacet }
func (o *ExteriorFacetIntegral) Tag() int { return o.ID }
func (o *ExteriorFacetIntegral) sealed() {}
func (o *InteriorFacetIntegral) Type() IntegralType { return InteriorFacet }
func (o *InteriorFacetIntegral) Tag() int { return o.ID }
func (o *InteriorFacetIntegral) sealed() {}
