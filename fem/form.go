// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/gosl/chk"
)

// Form holds a linear (rank 1) or bilinear (rank 2) form made of integrals
type Form struct {
	Spaces    []*FunctionSpace           // test space, or test and trial spaces
	integrals [nIntegralTypes][]Integral // integrals by kind
}

// NewForm returns a new form whose rank is the number of spaces
func NewForm(spaces []*FunctionSpace, integrals ...Integral) (o *Form, err error) {
	if len(spaces) < 1 || len(spaces) > 2 {
		return nil, chk.Err("forms must have 1 or 2 spaces. %d is invalid", len(spaces))
	}
	if len(spaces) == 2 && spaces[0].Mesh != spaces[1].Mesh {
		return nil, chk.Err("test and trial spaces must share the same mesh")
	}
	o = &Form{Spaces: spaces}
	for _, itg := range integrals {
		if err = o.Add(itg); err != nil {
			return nil, err
		}
	}
	return
}

// Add appends an integral to the form
func (o *Form) Add(itg Integral) (err error) {
	if itg == nil {
		return chk.Err("integral must not be nil")
	}
	ok := false
	switch v := itg.(type) {
	case *CellIntegral:
		ok = v.Kernel != nil
	case *ExteriorFacetIntegral:
		ok = v.Kernel != nil
	case *InteriorFacetIntegral:
		ok = v.Kernel != nil
	}
	if !ok {
		return chk.Err("%v integral requires a kernel", itg.Type())
	}
	t := itg.Type()
	o.integrals[t] = append(o.integrals[t], itg)
	return
}

// Rank returns 1 for linear forms and 2 for bilinear forms
func (o *Form) Rank() int { return len(o.Spaces) }

// Mesh returns the mesh of the form
func (o *Form) Mesh() *msh.Mesh { return o.Spaces[0].Mesh }

// NumIntegrals returns the number of integrals of kind t
func (o *Form) NumIntegrals(t IntegralType) int { return len(o.integrals[t]) }

// Integrals returns the integrals of kind t. Do not modify.
func (o *Form) Integrals(t IntegralType) []Integral { return o.integrals[t] }

// Transpose returns the bilinear form with test and trial spaces swapped
func (o *Form) Transpose() (res *Form, err error) {
	if o.Rank() != 2 {
		return nil, chk.Err("only bilinear forms can be transposed")
	}
	res = &Form{Spaces: []*FunctionSpace{o.Spaces[1], o.Spaces[0]}}
	for _, itg := range o.integrals[Cell] {
		k := itg.(*CellIntegral).Kernel
		res.integrals[Cell] = append(res.integrals[Cell], &CellIntegral{itg.Tag(), func(A []float64, x [][]float64) error {
			if err := k(A, x); err != nil {
				return err
			}
			return transposeSquare(A)
		}})
	}
	for _, itg := range o.integrals[ExteriorFacet] {
		k := itg.(*ExteriorFacetIntegral).Kernel
		res.integrals[ExteriorFacet] = append(res.integrals[ExteriorFacet], &ExteriorFacetIntegral{itg.Tag(), func(A []float64, x [][]float64, fv []int) error {
			if err := k(A, x, fv); err != nil {
				return err
			}
			return transposeSquare(A)
		}})
	}
	for _, itg := range o.integrals[InteriorFacet] {
		k := itg.(*InteriorFacetIntegral).Kernel
		res.integrals[InteriorFacet] = append(res.integrals[InteriorFacet], &InteriorFacetIntegral{itg.Tag(), func(A []float64, x [2][][]float64, fv [2][]int) error {
			if err := k(A, x, fv); err != nil {
				return err
			}
			return transposeSquare(A)
		}})
	}
	return
}

// hasIntegrals tells whether f contributes to a tensor; nil forms do not.
//  Note: this is the only place deciding whether a block is skipped
func hasIntegrals(f *Form) bool {
	if f == nil {
		return false
	}
	for _, t := range IntegralTypes() {
		if f.NumIntegrals(t) > 0 {
			return true
		}
	}
	return false
}

// transposeSquare transposes a row-major n×n matrix in place
func transposeSquare(A []float64) error {
	n := 0
	for n*n < len(A) {
		n++
	}
	if n*n != len(A) {
		return chk.Err("element tensor with %d entries is not square", len(A))
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			A[i*n+j], A[j*n+i] = A[j*n+i], A[i*n+j]
		}
	}
	return nil
}
