// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package par

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// AllGatherI collects one integer from each process; res[p] is the value given by process p
func AllGatherI(comm Comm, val int) (res []int, err error) {
	send := make([][]int, comm.Size())
	for p := range send {
		send[p] = []int{val}
	}
	recv, err := comm.ExchangeI(send)
	if err != nil {
		return
	}
	res = make([]int, len(recv))
	for p, r := range recv {
		if len(r) != 1 {
			return nil, chk.Err("all-gather: process %d sent %d values instead of 1", p, len(r))
		}
		res[p] = r[0]
	}
	return
}

// AllReduceSum replaces x by the sum of x over all processes
func AllReduceSum(comm Comm, x []float64) (err error) {
	send := make([][]float64, comm.Size())
	for p := range send {
		send[p] = x
	}
	recv, err := comm.ExchangeF(send)
	if err != nil {
		return
	}
	for p, r := range recv {
		if len(r) != len(x) {
			return chk.Err("all-reduce: process %d sent %d values instead of %d", p, len(r), len(x))
		}
	}
	for i := range x {
		x[i] = 0
	}
	for _, r := range recv {
		floats.Add(x, r)
	}
	return
}

// AllReduceSumI returns the sum of val over all processes
func AllReduceSumI(comm Comm, val int) (sum int, err error) {
	vals, err := AllGatherI(comm, val)
	if err != nil {
		return
	}
	for _, v := range vals {
		sum += v
	}
	return
}

// AllReduceMaxI returns the maximum of val over all processes
func AllReduceMaxI(comm Comm, val int) (res int, err error) {
	vals, err := AllGatherI(comm, val)
	if err != nil {
		return
	}
	res = vals[0]
	for _, v := range vals[1:] {
		if v > res {
			res = v
		}
	}
	return
}
