// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/goblock/pla"

// AssembleVector allocates and assembles the vector of L.
//  Note: collective
func AssembleVector(be pla.Backend, L *BlockForm1) (b pla.Vec, err error) {
	b, err = InitVector(be, L.Space)
	if err != nil {
		return
	}
	if err = AssembleVectorTo(b, L); err != nil {
		return nil, err
	}
	return
}

// AssembleVectorTo adds the blocks of L into b and sends ghost contributions to their owners.
//  Note: collective
func AssembleVectorTo(b pla.Vec, L *BlockForm1) (err error) {
	rank := b.Map().Rank()
	for i := 0; i < L.BlockSize(); i++ {
		f, err := L.Block(i)
		if err != nil {
			return err
		}
		if !hasIntegrals(f) {
			continue
		}
		view, err := L.Space.Dofs.View(i)
		if err != nil {
			return err
		}
		err = WithSubVector(b, view, pla.Add, func(sv *SubVector) error {
			return assembleVectorBlock(sv, f, rank)
		})
		if err != nil {
			return err
		}
	}
	if err = status(b.GhostUpdateBegin(pla.Add, pla.ScatterReverse), "VecGhostUpdateBegin"); err != nil {
		return
	}
	return status(b.GhostUpdateEnd(pla.Add, pla.ScatterReverse), "VecGhostUpdateEnd")
}

// AssembleMatrix allocates and assembles the matrix of a.
//  Note: collective
func AssembleMatrix(be pla.Backend, a *BlockForm2) (A pla.Mat, err error) {
	A, err = InitMatrix(be, a)
	if err != nil {
		return
	}
	if err = AssembleMatrixTo(A, a); err != nil {
		return nil, err
	}
	return
}

// AssembleMatrixTo adds the blocks of a into A and then performs one final assembly.
// A must have been created by InitMatrix with the same block form (or one with the same structure).
//  Note: collective
func AssembleMatrixTo(A pla.Mat, a *BlockForm2) (err error) {
	rank := A.Map(0).Rank()
	for i := 0; i < a.BlockSize(0); i++ {
		for j := 0; j < a.BlockSize(1); j++ {
			f, err := a.Block(i, j)
			if err != nil {
				return err
			}
			if !hasIntegrals(f) {
				continue
			}
			rv, err := a.Spaces[0].Dofs.View(i)
			if err != nil {
				return err
			}
			cv, err := a.Spaces[1].Dofs.View(j)
			if err != nil {
				return err
			}
			err = WithSubMatrix(A, rv, cv, pla.Add, func(sm *SubMatrix) error {
				return assembleMatrixBlock(sm, f, rank, nil)
			})
			if err != nil {
				return err
			}
		}
	}
	if err = status(A.AssemblyBegin(pla.FinalAssembly), "MatAssemblyBegin"); err != nil {
		return
	}
	return status(A.AssemblyEnd(pla.FinalAssembly), "MatAssemblyEnd")
}
