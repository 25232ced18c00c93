// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/goblock/fem"
	"github.com/cpmech/goblock/inp"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/par/mpicomm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.WorldRank() == 0 {
				io.PfRed("\nERROR: %v", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop()
	}()
	mpi.Start()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".blk", true)
	verbose := io.ArgToBool(1, true)

	// message
	if mpi.WorldRank() == 0 && verbose {
		io.PfWhite("\nGoblock -- assembly of block-partitioned finite element systems\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"problem filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// process group
	var comm par.Comm = par.Serial{}
	if mpi.WorldSize() > 1 {
		comm = mpicomm.New()
	}

	// problem data
	prob, err := inp.ReadProblem(fnamepath)
	if err != nil {
		chk.Panic("cannot read problem:\n%v", err)
	}

	// assemble
	analysis, err := fem.NewMain(comm, prob, verbose)
	if err != nil {
		chk.Panic("cannot set problem:\n%v", err)
	}
	_, _, err = analysis.Run()
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
}
