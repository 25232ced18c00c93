// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assembly

import (
	"testing"

	"github.com/cpmech/goblock/tests"
	"github.com/cpmech/gosl/chk"
)

func Test_poisson01(tst *testing.T) {

	//tests.Verbose()
	chk.PrintTitle("poisson01. Poisson problem on a segment")

	tests.CompareResults(tst, "data/poisson1d.blk", "data/poisson1d.cmp", 1e-15, 1e-15, chk.Verbose)
}

func Test_ends01(tst *testing.T) {

	//tests.Verbose()
	chk.PrintTitle("ends01. restricted fields without coupling")

	tests.CompareResults(tst, "data/ends.blk", "data/ends.cmp", 1e-15, 1e-15, chk.Verbose)
}

func Test_coupled01(tst *testing.T) {

	//tests.Verbose()
	chk.PrintTitle("coupled01. serial versus parallel")

	for _, nproc := range []int{2, 3, 4} {
		tests.CompareParallel(tst, "data/coupled.blk", nproc, 1e-13)
	}
}
