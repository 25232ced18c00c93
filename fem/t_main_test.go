// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/goblock/inp"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/pla"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
)

func Test_main01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main01. Poisson problem")

	prob, err := inp.ReadProblem("data/poisson.blk")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	main, err := NewMain(par.Serial{}, prob, chk.Verbose)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	A, b, err := main.Run()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(main.Summary.Neq, 9)
	chk.IntAssert(main.Summary.Nnz, 9+2*16)
	chk.IntAssert(A.(*pla.Matrix).NumNonzeros(), 9+2*16)
	chk.IntAssert(main.Kb.Len(), 9+2*16)
	res, err := b.(*pla.Vector).Gather()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "sum(b)", 1e-15, floats.Sum(res), 1)
	chk.Float64(tst, "|b|", 1e-14, main.Summary.Bnorm, floats.Norm(res, 2))
}

func Test_main02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main02. mixed problem in parallel")

	prob, err := inp.ReadProblem("data/mixed.blk")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	ref, err := NewMain(par.Serial{}, prob, chk.Verbose)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if _, _, err = ref.Run(); err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(ref.Summary.Neq, 12*2+12+4)

	for _, nproc := range []int{2, 3} {
		sums := make([]*Summary, nproc)
		err = par.Run(nproc, func(comm par.Comm) error {
			o, err := NewMain(comm, prob, false)
			if err != nil {
				return err
			}
			if _, _, err = o.Run(); err != nil {
				return err
			}
			sums[comm.Rank()] = o.Summary
			return nil
		})
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		for rank, s := range sums {
			io.Pforan("nproc=%d rank=%d: %+v\n", nproc, rank, *s)
			chk.IntAssert(s.Neq, ref.Summary.Neq)
			chk.IntAssert(s.Nnz, ref.Summary.Nnz)
			chk.Float64(tst, "|b|", 1e-13, s.Bnorm, ref.Summary.Bnorm)
		}
	}
}

func Test_main03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main03. mesh file and errors")

	prob, err := inp.ReadProblem("data/twotri.blk")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	main, err := NewMain(par.Serial{}, prob, chk.Verbose)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	A, b, err := main.Run()
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if b != nil || main.Rhs != nil {
		tst.Errorf("there is no rhs")
		return
	}
	chk.IntAssert(main.Summary.Neq, 3)
	M := A.(*pla.Matrix)
	chk.Float64(tst, "M00", 1e-15, M.Get(0, 0), 1.0/12)
	chk.Float64(tst, "M01", 1e-15, M.Get(0, 1), 1.0/24)

	prob, err = inp.ReadProblem("data/badrank.blk")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if _, err = NewMain(par.Serial{}, prob, false); err == nil {
		tst.Errorf("linear kernel in bilinear block should have failed")
	}

	// more partitions than processes
	prob, err = inp.ReadProblem("data/poisson.blk")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	prob.Mesh.Nparts = 2
	if _, err = NewMain(par.Serial{}, prob, false); err == nil {
		tst.Errorf("two partitions on one process should have failed")
	}
}
