// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package par

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// IndexMap holds the ownership and ghost layout of indices distributed over a process group.
// Each process owns a contiguous range of global indices; ranges follow the process numbers.
// Local numbering: owned indices first (in global order) followed by ghosts.
//
//   local:   0 ... nown-1 | nown ... nown+nghost-1
//   global:  lo ... hi-1  | Ghosts[0] ... Ghosts[nghost-1]
//
type IndexMap struct {
	comm   Comm        // process group
	ranges []int       // [size+1] ownership ranges
	ghosts []int       // global indices of ghosts
	owners []int       // owners of ghosts
	g2l    map[int]int // ghost global => local
}

// NewIndexMap returns a new IndexMap from the number of indices owned by this process.
//  Note: collective
func NewIndexMap(comm Comm, nown int, ghosts []int) (o *IndexMap, err error) {
	if nown < 0 {
		return nil, chk.Err("number of owned indices must be non-negative. %d is invalid", nown)
	}
	sizes, err := AllGatherI(comm, nown)
	if err != nil {
		return
	}
	ranges := make([]int, len(sizes)+1)
	for p, n := range sizes {
		ranges[p+1] = ranges[p] + n
	}
	return NewIndexMapFromRanges(comm, ranges, ghosts)
}

// NewIndexMapFromRanges returns a new IndexMap with known ownership ranges (no communication)
func NewIndexMapFromRanges(comm Comm, ranges, ghosts []int) (o *IndexMap, err error) {
	if len(ranges) != comm.Size()+1 {
		return nil, chk.Err("ranges must have %d entries. %d is invalid", comm.Size()+1, len(ranges))
	}
	if ranges[0] != 0 {
		return nil, chk.Err("ranges must start at 0. %d is invalid", ranges[0])
	}
	for p := 0; p < comm.Size(); p++ {
		if ranges[p+1] < ranges[p] {
			return nil, chk.Err("ranges must be non-decreasing. %v is invalid", ranges)
		}
	}
	o = &IndexMap{
		comm:   comm,
		ranges: append([]int{}, ranges...),
		ghosts: append([]int{}, ghosts...),
		owners: make([]int, len(ghosts)),
		g2l:    make(map[int]int, len(ghosts)),
	}
	nown := o.SizeLocal()
	for k, g := range o.ghosts {
		if g < 0 || g >= o.SizeGlobal() {
			return nil, chk.Err("ghost %d is out of range [0, %d)", g, o.SizeGlobal())
		}
		o.owners[k] = o.Owner(g)
		if o.owners[k] == comm.Rank() {
			return nil, chk.Err("ghost %d is owned by this process (rank %d)", g, comm.Rank())
		}
		if _, dup := o.g2l[g]; dup {
			return nil, chk.Err("ghost %d is repeated", g)
		}
		o.g2l[g] = nown + k
	}
	return
}

// Comm returns the process group
func (o *IndexMap) Comm() Comm { return o.comm }

// Rank returns the number of this process
func (o *IndexMap) Rank() int { return o.comm.Rank() }

// SizeLocal returns the number of indices owned by this process
func (o *IndexMap) SizeLocal() int {
	r := o.comm.Rank()
	return o.ranges[r+1] - o.ranges[r]
}

// NumGhosts returns the number of ghosts
func (o *IndexMap) NumGhosts() int { return len(o.ghosts) }

// SizeGlobal returns the total number of indices
func (o *IndexMap) SizeGlobal() int { return o.ranges[len(o.ranges)-1] }

// LocalRange returns the global range [lo, hi) owned by this process
func (o *IndexMap) LocalRange() (lo, hi int) {
	r := o.comm.Rank()
	return o.ranges[r], o.ranges[r+1]
}

// Ranges returns the ownership ranges of all processes. Do not modify.
func (o *IndexMap) Ranges() []int { return o.ranges }

// Ghosts returns the global indices of ghosts. Do not modify.
func (o *IndexMap) Ghosts() []int { return o.ghosts }

// GhostOwners returns the owners of ghosts. Do not modify.
func (o *IndexMap) GhostOwners() []int { return o.owners }

// Owner returns the process owning global index g
func (o *IndexMap) Owner(g int) int {
	return sort.Search(len(o.ranges)-1, func(p int) bool { return o.ranges[p+1] > g })
}

// LocalToGlobal converts a local index into a global index. Negative indices give -1.
func (o *IndexMap) LocalToGlobal(l int) int {
	if l < 0 {
		return -1
	}
	lo, hi := o.LocalRange()
	if l < hi-lo {
		return lo + l
	}
	k := l - (hi - lo)
	if k >= len(o.ghosts) {
		chk.Panic("local index %d is out of range [0, %d)", l, hi-lo+len(o.ghosts))
	}
	return o.ghosts[k]
}

// GlobalToLocal converts a global index into a local index; returns -1 if g is not available here
func (o *IndexMap) GlobalToLocal(g int) int {
	lo, hi := o.LocalRange()
	if g >= lo && g < hi {
		return g - lo
	}
	if l, ok := o.g2l[g]; ok {
		return l
	}
	return -1
}
