// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpicomm implements par.Comm on top of MPI
package mpicomm

import (
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Comm wraps an MPI communicator
type Comm struct {
	c *mpi.Communicator
}

// New returns a communicator over all MPI processes.
//  Note: mpi.Start must have been called already
func New() *Comm {
	if !mpi.IsOn() {
		chk.Panic("MPI is not on; call mpi.Start first")
	}
	return &Comm{c: mpi.NewCommunicator(nil)}
}

// compile-time check
var _ par.Comm = (*Comm)(nil)

// Rank returns the number of this process
func (o *Comm) Rank() int { return o.c.Rank() }

// Size returns the number of processes
func (o *Comm) Size() int { return o.c.Size() }

// Barrier waits for all processes
func (o *Comm) Barrier() error {
	o.c.Barrier()
	return nil
}

// ExchangeI sends send[p] to every p and receives recv[p] from every p.
// Pairs are visited in increasing order; the lower rank of a pair sends first.
func (o *Comm) ExchangeI(send [][]int) (recv [][]int, err error) {
	size, rank := o.c.Size(), o.c.Rank()
	if len(send) != size {
		return nil, chk.Err("exchange requires %d buffers. %d is invalid", size, len(send))
	}
	recv = make([][]int, size)
	recv[rank] = append([]int{}, send[rank]...)
	for p := 0; p < size; p++ {
		if p == rank {
			continue
		}
		if rank < p {
			o.sendI(send[p], p)
			recv[p] = o.recvI(p)
		} else {
			recv[p] = o.recvI(p)
			o.sendI(send[p], p)
		}
	}
	return
}

// ExchangeF sends send[p] to every p and receives recv[p] from every p
func (o *Comm) ExchangeF(send [][]float64) (recv [][]float64, err error) {
	size, rank := o.c.Size(), o.c.Rank()
	if len(send) != size {
		return nil, chk.Err("exchange requires %d buffers. %d is invalid", size, len(send))
	}
	recv = make([][]float64, size)
	recv[rank] = append([]float64{}, send[rank]...)
	for p := 0; p < size; p++ {
		if p == rank {
			continue
		}
		if rank < p {
			o.sendF(send[p], p)
			recv[p] = o.recvF(p)
		} else {
			recv[p] = o.recvF(p)
			o.sendF(send[p], p)
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////

func (o *Comm) sendI(vals []int, to int) {
	o.c.SendOneI(len(vals), to)
	if len(vals) > 0 {
		o.c.SendI(vals, to)
	}
}

func (o *Comm) recvI(from int) (vals []int) {
	n := o.c.RecvOneI(from)
	vals = make([]int, n)
	if n > 0 {
		o.c.RecvI(vals, from)
	}
	return
}

func (o *Comm) sendF(vals []float64, to int) {
	o.c.SendOneI(len(vals), to)
	if len(vals) > 0 {
		o.c.Send(vals, to)
	}
}

func (o *Comm) recvF(from int) (vals []float64) {
	n := o.c.RecvOneI(from)
	vals = make([]float64, n)
	if n > 0 {
		o.c.Recv(vals, from)
	}
	return
}
