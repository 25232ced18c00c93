// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements structures and functions to compare assembled systems
package tests

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/cpmech/goblock/fem"
	"github.com/cpmech/goblock/inp"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/pla"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Results holds the reference system of a problem (serial numbering)
type Results struct {
	Note string      `json:"note"` // note about the reference values
	Neq  int         `json:"neq"`  // number of equations
	Nnz  int         `json:"nnz"`  // number of stored entries of matrix
	A    [][]float64 `json:"a"`    // [neq][neq] dense matrix; nil if there is no lhs
	B    []float64   `json:"b"`    // [neq] vector; nil if there is no rhs
}

// Run assembles the problem in blkpath on comm
func Run(comm par.Comm, blkpath string, verbose bool) (main *fem.Main, A pla.Mat, b pla.Vec, err error) {
	prob, err := inp.ReadProblem(blkpath)
	if err != nil {
		return
	}
	main, err = fem.NewMain(comm, prob, verbose)
	if err != nil {
		return
	}
	A, b, err = main.Run()
	return
}

// CompareResults assembles blkpath serially and compares with the results in cmpfname (.cmp file)
func CompareResults(tst *testing.T, blkpath, cmpfname string, tolA, tolb float64, verbose bool) {

	// read file with comparison results
	buf, err := os.ReadFile(cmpfname)
	if err != nil {
		tst.Errorf("CompareResults: ReadFile failed:%v\n", err)
		return
	}
	var cmp Results
	err = json.Unmarshal(buf, &cmp)
	if err != nil {
		tst.Errorf("CompareResults: Unmarshal failed:%v\n", err)
		return
	}

	// assemble
	main, A, b, err := Run(par.Serial{}, blkpath, verbose)
	if err != nil {
		tst.Errorf("CompareResults: Run failed:\n%v", err)
		return
	}
	chk.IntAssert(main.Summary.Neq, cmp.Neq)
	chk.IntAssert(main.Summary.Nnz, cmp.Nnz)

	// matrix
	if cmp.A != nil {
		if verbose {
			io.Pfgreen(". . . checking matrix . . .\n")
		}
		D, err := A.(*pla.Matrix).GatherDense()
		if err != nil {
			tst.Errorf("CompareResults: GatherDense failed:\n%v", err)
			return
		}
		chk.Deep2(tst, "A", tolA, DenseRows(D), cmp.A)
	}

	// vector
	if cmp.B != nil {
		if verbose {
			io.Pfgreen(". . . checking vector . . .\n")
		}
		res, err := b.(*pla.Vector).Gather()
		if err != nil {
			tst.Errorf("CompareResults: Gather failed:\n%v", err)
			return
		}
		for i, v := range cmp.B {
			chk.AnaNum(tst, io.Sf("b%d", i), tolb, res[i], v, verbose)
		}
	}
}

// CompareParallel assembles blkpath with nproc processes and compares the global summaries with
// those of the serial run
func CompareParallel(tst *testing.T, blkpath string, nproc int, tol float64) {
	ref, _, _, err := Run(par.Serial{}, blkpath, false)
	if err != nil {
		tst.Errorf("CompareParallel: serial Run failed:\n%v", err)
		return
	}
	sums := make([]*fem.Summary, nproc)
	err = par.Run(nproc, func(comm par.Comm) error {
		main, _, _, err := Run(comm, blkpath, false)
		if err != nil {
			return err
		}
		sums[comm.Rank()] = main.Summary
		return nil
	})
	if err != nil {
		tst.Errorf("CompareParallel: Run with %d processes failed:\n%v", nproc, err)
		return
	}
	for rank, s := range sums {
		if s.Neq != ref.Summary.Neq || s.Nnz != ref.Summary.Nnz {
			tst.Errorf("rank %d: neq=%d nnz=%d differ from serial neq=%d nnz=%d", rank, s.Neq, s.Nnz, ref.Summary.Neq, ref.Summary.Nnz)
		}
		chk.Float64(tst, io.Sf("rank %d: |b|", rank), tol, s.Bnorm, ref.Summary.Bnorm)
	}
}
