// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pla

import (
	"fmt"
	"math"

	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Vector implements a distributed vector with ghost entries.
// Local storage: owned values followed by ghost values (see par.IndexMap).
type Vector struct {
	imap *par.IndexMap
	vals []float64 // [nown+nghost]

	// ghost update
	plan     *scatterPlan
	inflight bool
	upMode   InsertMode
	upDir    ScatterMode
	received [][]float64
}

// scatterPlan holds which local entries are exchanged with each process
type scatterPlan struct {
	ghosts [][]int // [nproc] local indices of ghosts owned by p
	shared [][]int // [nproc] local indices of owned entries that are ghosts on p
}

// NewVector returns a new zero vector
func NewVector(imap *par.IndexMap) *Vector {
	return &Vector{imap: imap, vals: make([]float64, imap.SizeLocal()+imap.NumGhosts())}
}

// Map returns the parallel layout
func (o *Vector) Map() *par.IndexMap { return o.imap }

// Local returns the owned and ghost values. Do not keep.
func (o *Vector) Local() []float64 { return o.vals }

// Owned returns the owned values. Do not keep.
func (o *Vector) Owned() []float64 { return o.vals[:o.imap.SizeLocal()] }

// Zero sets all local values to zero
func (o *Vector) Zero() {
	for i := range o.vals {
		o.vals[i] = 0
	}
}

// SetValuesLocal writes values at local indices. Negative indices are skipped.
func (o *Vector) SetValuesLocal(idx []int, vals []float64, mode InsertMode) (err error) {
	if o.inflight {
		return fmt.Errorf("%w: vector has a pending ghost update", ErrPhase)
	}
	if len(idx) != len(vals) {
		return chk.Err("number of indices (%d) and values (%d) differ", len(idx), len(vals))
	}
	for k, i := range idx {
		if i < 0 {
			continue
		}
		if i >= len(o.vals) {
			return fmt.Errorf("%w: local index %d >= %d", ErrIndex, i, len(o.vals))
		}
		if mode == Add {
			o.vals[i] += vals[k]
		} else {
			o.vals[i] = vals[k]
		}
	}
	return
}

// SetValues writes values at global indices available on this process. Negative indices are skipped.
func (o *Vector) SetValues(idx []int, vals []float64, mode InsertMode) (err error) {
	loc := make([]int, len(idx))
	for k, g := range idx {
		if g < 0 {
			loc[k] = -1
			continue
		}
		loc[k] = o.imap.GlobalToLocal(g)
		if loc[k] < 0 {
			return fmt.Errorf("%w: global index %d is not available on rank %d", ErrIndex, g, o.imap.Rank())
		}
	}
	return o.SetValuesLocal(loc, vals, mode)
}

// GhostUpdateBegin starts the communication of ghost values.
//  ScatterReverse: ghost values are sent to owners and combined there according to mode;
//                  ghost values themselves are left untouched.
//  ScatterForward: owned values are sent to the processes holding them as ghosts.
//  Note: collective
func (o *Vector) GhostUpdateBegin(mode InsertMode, dir ScatterMode) (err error) {
	if o.inflight {
		return fmt.Errorf("%w: ghost update already started", ErrPhase)
	}
	if o.plan == nil {
		if err = o.buildPlan(); err != nil {
			return
		}
	}
	comm := o.imap.Comm()
	send := make([][]float64, comm.Size())
	src := o.plan.ghosts
	if dir == ScatterForward {
		src = o.plan.shared
	}
	for p, locs := range src {
		send[p] = make([]float64, len(locs))
		for k, l := range locs {
			send[p][k] = o.vals[l]
		}
	}
	o.received, err = comm.ExchangeF(send)
	if err != nil {
		return
	}
	o.inflight, o.upMode, o.upDir = true, mode, dir
	return
}

// GhostUpdateEnd completes the communication started by GhostUpdateBegin with the same arguments
func (o *Vector) GhostUpdateEnd(mode InsertMode, dir ScatterMode) (err error) {
	if !o.inflight {
		return fmt.Errorf("%w: ghost update has not started", ErrPhase)
	}
	if mode != o.upMode || dir != o.upDir {
		return fmt.Errorf("%w: ghost update started with (%v, %d) and ended with (%v, %d)", ErrPhase, o.upMode, o.upDir, mode, dir)
	}
	dst := o.plan.shared
	if dir == ScatterForward {
		dst = o.plan.ghosts
	}
	for p, locs := range dst {
		if len(o.received[p]) != len(locs) {
			return chk.Err("ghost update: rank %d sent %d values instead of %d", p, len(o.received[p]), len(locs))
		}
		for k, l := range locs {
			if mode == Add {
				o.vals[l] += o.received[p][k]
			} else {
				o.vals[l] = o.received[p][k]
			}
		}
	}
	o.inflight, o.received = false, nil
	return
}

// Gather returns the whole global vector on every process.
//  Note: collective
func (o *Vector) Gather() (res []float64, err error) {
	comm := o.imap.Comm()
	send := make([][]float64, comm.Size())
	for p := range send {
		send[p] = o.Owned()
	}
	recv, err := comm.ExchangeF(send)
	if err != nil {
		return
	}
	res = make([]float64, 0, o.imap.SizeGlobal())
	for _, r := range recv {
		res = append(res, r...)
	}
	if len(res) != o.imap.SizeGlobal() {
		return nil, chk.Err("gather: received %d values instead of %d", len(res), o.imap.SizeGlobal())
	}
	return
}

// Norm2 returns the Euclidean norm of the global vector.
//  Note: collective
func (o *Vector) Norm2() (res float64, err error) {
	sum := []float64{floats.Dot(o.Owned(), o.Owned())}
	if err = par.AllReduceSum(o.imap.Comm(), sum); err != nil {
		return
	}
	return math.Sqrt(sum[0]), nil
}

// buildPlan tells each owner which of its entries are ghosts here.
//  Note: collective
func (o *Vector) buildPlan() (err error) {
	comm := o.imap.Comm()
	nown := o.imap.SizeLocal()
	plan := &scatterPlan{ghosts: make([][]int, comm.Size()), shared: make([][]int, comm.Size())}
	send := make([][]int, comm.Size())
	for k, g := range o.imap.Ghosts() {
		p := o.imap.GhostOwners()[k]
		plan.ghosts[p] = append(plan.ghosts[p], nown+k)
		send[p] = append(send[p], g)
	}
	recv, err := comm.ExchangeI(send)
	if err != nil {
		return
	}
	lo, hi := o.imap.LocalRange()
	for p, gs := range recv {
		plan.shared[p] = make([]int, len(gs))
		for k, g := range gs {
			if g < lo || g >= hi {
				return fmt.Errorf("%w: rank %d requested index %d which is not owned by rank %d", ErrIndex, p, g, comm.Rank())
			}
			plan.shared[p][k] = g - lo
		}
	}
	o.plan = plan
	return
}
