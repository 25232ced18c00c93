// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/goblock/pla"

// InitVector allocates a zero vector with the layout of the union of dofs of space
func InitVector(be pla.Backend, space *BlockFunctionSpace) (b pla.Vec, err error) {
	b, err = be.CreateVector(space.Dofs.Imap)
	return b, status(err, "VecCreate")
}

// InitMatrix allocates a zero matrix with the structure required by the blocks of a.
//  The diagonal of every owned row exists and holds an explicit zero such that backends dropping
//  entries never written keep it; if the backend requires so, a flush assembly follows.
//  Note: collective
func InitMatrix(be pla.Backend, a *BlockForm2) (A pla.Mat, err error) {

	// pattern
	rmap, cmap := a.Spaces[0].Dofs.Imap, a.Spaces[1].Dofs.Imap
	sp := pla.NewSparsityPattern(rmap, cmap)
	if err = BuildSparsity(sp, a); err != nil {
		return
	}

	// matrix
	A, err = be.CreateMatrix(sp)
	if err = status(err, "MatCreate"); err != nil {
		return nil, err
	}

	// explicit zeros on the diagonal
	lo, hi := rmap.LocalRange()
	zero := []float64{0}
	for I := lo; I < hi && I < cmap.SizeGlobal(); I++ {
		if err = status(A.SetValues([]int{I}, []int{I}, zero, pla.Insert), "MatSetValues"); err != nil {
			return nil, err
		}
	}
	if !be.Caps().FlushModes {
		return
	}
	if err = status(A.AssemblyBegin(pla.FlushAssembly), "MatAssemblyBegin"); err != nil {
		return nil, err
	}
	if err = status(A.AssemblyEnd(pla.FlushAssembly), "MatAssemblyEnd"); err != nil {
		return nil, err
	}
	return
}
