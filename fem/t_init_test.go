// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"

	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/pla"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// errBackend is returned by failing tensors
var errBackend = errors.New("backend failure")

// failingBackend wraps Native; its tensors fail at the operation named fail
type failingBackend struct {
	*pla.Native
	fail string
}

type failingVec struct {
	pla.Vec
	fail string
}

type failingMat struct {
	pla.Mat
	fail string
}

func (o *failingBackend) CreateVector(imap *par.IndexMap) (pla.Vec, error) {
	if o.fail == "VecCreate" {
		return nil, errBackend
	}
	v, err := o.Native.CreateVector(imap)
	return &failingVec{v, o.fail}, err
}

func (o *failingBackend) CreateMatrix(sp *pla.SparsityPattern) (pla.Mat, error) {
	m, err := o.Native.CreateMatrix(sp)
	return &failingMat{m, o.fail}, err
}

func (o *failingVec) SetValuesLocal(idx []int, vals []float64, mode pla.InsertMode) error {
	if o.fail == "VecSetValuesLocal" {
		return errBackend
	}
	return o.Vec.SetValuesLocal(idx, vals, mode)
}

func (o *failingMat) AssemblyBegin(kind pla.AssemblyType) error {
	if o.fail == "MatAssemblyBegin" && kind == pla.FinalAssembly {
		return errBackend
	}
	return o.Mat.AssemblyBegin(kind)
}

// fieldData holds the definition of one field in tests
type fieldData struct {
	name  string
	ncomp int
	rst   *dof.Restriction
}

// newBlockSpace returns the spaces of fields on mesh
func newBlockSpace(comm par.Comm, mesh *msh.Mesh, fields ...fieldData) (spaces []*FunctionSpace, bs *BlockFunctionSpace, err error) {
	spaces = make([]*FunctionSpace, len(fields))
	for i, f := range fields {
		spaces[i], err = NewFunctionSpace(comm, mesh, f.name, f.ncomp, f.rst)
		if err != nil {
			return
		}
	}
	bs, err = NewBlockFunctionSpace(comm, spaces...)
	return
}

// newIntegral returns a registered integral; it panics on errors
func newIntegral(t IntegralType, kernel string, tag int) Integral {
	itg, _, err := NewIntegral(t, kernel, tag)
	if err != nil {
		chk.Panic("%v", err)
	}
	return itg
}

// newForm returns a form; it panics on errors
func newForm(spaces []*FunctionSpace, integrals ...Integral) *Form {
	f, err := NewForm(spaces, integrals...)
	if err != nil {
		chk.Panic("%v", err)
	}
	return f
}

// unionIndex returns the union global index of global dof g of block k
func unionIndex(bs *BlockFunctionSpace, k, g int) int {
	imap := bs.Dofs.DofMap(k).Imap
	s := imap.Owner(g)
	u := bs.Dofs.Imap.Ranges()[s] + g - imap.Ranges()[s]
	for b := 0; b < k; b++ {
		r := bs.Dofs.DofMap(b).Imap.Ranges()
		u += r[s+1] - r[s]
	}
	return u
}

// unionKeys returns, for every union global index, the key (block, vertex, component).
// Keys do not depend on the number of processes.
func unionKeys(bs *BlockFunctionSpace) (keys map[int]string) {
	keys = make(map[int]string)
	for k := 0; k < bs.NumBlocks(); k++ {
		dm := bs.Dofs.DofMap(k)
		for v := 0; v < dm.Mesh.NumVerts(); v++ {
			for c := 0; c < dm.Ncomp; c++ {
				if g := dm.VertDof(v, c); g >= 0 {
					keys[unionIndex(bs, k, g)] = io.Sf("%d_%d_%d", k, v, c)
				}
			}
		}
	}
	return
}
