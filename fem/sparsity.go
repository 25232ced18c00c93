// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/pla"
)

// BuildSparsity inserts into sp every (row, column) pair that blocks of a may touch, then the
// diagonal of every owned row, and finally assembles sp.
//  Notes:
//   1) blocks without integrals are skipped
//   2) within a block, every element of each kind of integral present is visited, regardless of tags
//   3) collective (via sp.Assemble)
func BuildSparsity(sp *pla.SparsityPattern, a *BlockForm2) (err error) {
	rank := sp.Map(0).Rank()
	for i := 0; i < a.BlockSize(0); i++ {
		for j := 0; j < a.BlockSize(1); j++ {
			if err = insertBlockPair(sp, a, i, j, rank); err != nil {
				return
			}
		}
	}
	if err = insertDiagonal(sp); err != nil {
		return
	}
	return status(sp.Assemble(), "SparsityPatternAssemble")
}

// insertBlockPair inserts the pairs of block (i, j) of a; blocks without integrals insert nothing
func insertBlockPair(sp *pla.SparsityPattern, a *BlockForm2, i, j, rank int) (err error) {
	f, err := a.Block(i, j)
	if err != nil {
		return
	}
	if !hasIntegrals(f) {
		return
	}
	rv, err := a.Spaces[0].Dofs.View(i)
	if err != nil {
		return
	}
	cv, err := a.Spaces[1].Dofs.View(j)
	if err != nil {
		return
	}
	for _, t := range IntegralTypes() {
		if f.NumIntegrals(t) == 0 {
			continue
		}
		if err = insertBlock(sp, f, t, rv, cv, rank); err != nil {
			return
		}
	}
	return
}

// insertBlock inserts the pairs of block (rv, cv) due to integrals of kind t
func insertBlock(sp *pla.SparsityPattern, f *Form, t IntegralType, rv, cv *dof.BlockView, rank int) (err error) {
	elems, err := elementsOf(f.Mesh(), t, 0, rank)
	if err != nil {
		return
	}
	var rows, cols []int
	for _, e := range elems {
		rows = rv.ToUnion(e.dofs(rv.DofMap, nil), resize(rows, e.nverts()*rv.DofMap.Ncomp))
		cols = cv.ToUnion(e.dofs(cv.DofMap, nil), resize(cols, e.nverts()*cv.DofMap.Ncomp))
		if err = status(sp.Insert(rows, cols), "SparsityPatternInsert"); err != nil {
			return
		}
	}
	return
}

// insertDiagonal inserts (I, I) for every owned row I that is also a column; calling it again
// inserts nothing new
func insertDiagonal(sp *pla.SparsityPattern) (err error) {
	lo, hi := sp.Map(0).LocalRange()
	ncol := sp.Map(1).SizeGlobal()
	for I := lo; I < hi && I < ncol; I++ {
		if err = status(sp.InsertGlobal([]int{I}, []int{I}), "SparsityPatternInsertGlobal"); err != nil {
			return
		}
	}
	return
}
