// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dof

import (
	"errors"
	"fmt"

	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
)

// ErrBlockIndex is matched (errors.Is) by every BlockIndexError
var ErrBlockIndex = errors.New("block index out of range")

// BlockIndexError reports a block index outside the block grid
type BlockIndexError struct {
	Dim   int // dimension of the grid: 0 (rows) or 1 (columns)
	Index int // requested index
	Size  int // number of blocks in Dim
}

func (e *BlockIndexError) Error() string {
	return fmt.Sprintf("block index %d is out of range [0, %d) in dimension %d", e.Index, e.Size, e.Dim)
}

// Is makes errors.Is(err, ErrBlockIndex) true
func (e *BlockIndexError) Is(target error) bool { return target == ErrBlockIndex }

// CheckBlockIndex returns a *BlockIndexError if index is not in [0, size)
func CheckBlockIndex(dim, index, size int) error {
	if index < 0 || index >= size {
		return &BlockIndexError{Dim: dim, Index: index, Size: size}
	}
	return nil
}

// BlockDofMap joins the dofs of several fields into one parallel layout (the union).
//
//  Local union numbering on each rank:
//
//    [ owned of block 0 | owned of block 1 | ... | ghosts of block 0 | ghosts of block 1 | ... ]
//
//  Global union numbering: ranks in order; within a rank, blocks in order.
type BlockDofMap struct {
	Imap    *par.IndexMap // union layout
	dofmaps []*DofMap
	ownOff  []int // [nblocks+1] offsets of owned dofs of blocks in union local numbering
	ghtOff  []int // [nblocks+1] offsets of ghosts of blocks (relative to first ghost)
}

// NewBlockDofMap returns a new BlockDofMap. No communication is needed.
func NewBlockDofMap(comm par.Comm, dofmaps []*DofMap) (o *BlockDofMap, err error) {
	if len(dofmaps) < 1 {
		return nil, chk.Err("at least one dof map is required")
	}
	size := comm.Size()
	nb := len(dofmaps)
	for k, dm := range dofmaps {
		if len(dm.Imap.Ranges()) != size+1 {
			return nil, chk.Err("dof map %d was created for %d processes; %d expected", k, len(dm.Imap.Ranges())-1, size)
		}
	}

	// union ranges
	uranges := make([]int, size+1)
	for s := 0; s < size; s++ {
		n := 0
		for _, dm := range dofmaps {
			r := dm.Imap.Ranges()
			n += r[s+1] - r[s]
		}
		uranges[s+1] = uranges[s] + n
	}

	// offsets and ghosts
	o = &BlockDofMap{dofmaps: dofmaps, ownOff: make([]int, nb+1), ghtOff: make([]int, nb+1)}
	var ghosts []int
	for k, dm := range dofmaps {
		o.ownOff[k+1] = o.ownOff[k] + dm.Imap.SizeLocal()
		o.ghtOff[k+1] = o.ghtOff[k] + dm.Imap.NumGhosts()
		for i, g := range dm.Imap.Ghosts() {
			s := dm.Imap.GhostOwners()[i]
			ug := uranges[s] + g - dm.Imap.Ranges()[s]
			for b := 0; b < k; b++ {
				r := dofmaps[b].Imap.Ranges()
				ug += r[s+1] - r[s]
			}
			ghosts = append(ghosts, ug)
		}
	}
	o.Imap, err = par.NewIndexMapFromRanges(comm, uranges, ghosts)
	return
}

// NumBlocks returns the number of blocks
func (o *BlockDofMap) NumBlocks() int { return len(o.dofmaps) }

// DofMap returns the dof map of block k
func (o *BlockDofMap) DofMap(k int) *DofMap { return o.dofmaps[k] }

// View returns the sub-map of block k
func (o *BlockDofMap) View(k int) (v *BlockView, err error) {
	if err = CheckBlockIndex(0, k, len(o.dofmaps)); err != nil {
		return
	}
	return &BlockView{Block: k, DofMap: o.dofmaps[k], parent: o}, nil
}

// BlockView translates the local numbering of one block into the union numbering
type BlockView struct {
	Block  int     // block index
	DofMap *DofMap // dof map of this block
	parent *BlockDofMap
}

// ToUnion converts block-local indices into union-local indices; negative indices give -1.
// dst may be nil; otherwise it must have len(local) entries.
func (o *BlockView) ToUnion(local, dst []int) []int {
	if dst == nil {
		dst = make([]int, len(local))
	}
	nown := o.DofMap.Imap.SizeLocal()
	nunion := o.parent.Imap.SizeLocal()
	for i, l := range local {
		switch {
		case l < 0:
			dst[i] = -1
		case l < nown:
			dst[i] = o.parent.ownOff[o.Block] + l
		default:
			dst[i] = nunion + o.parent.ghtOff[o.Block] + l - nown
		}
	}
	return dst
}

// Global converts a block-local index into a union global index; negative gives -1
func (o *BlockView) Global(local int) int {
	u := o.ToUnion([]int{local}, nil)[0]
	return o.parent.Imap.LocalToGlobal(u)
}

// OwnedRange returns the union-local range [lo, hi) holding the dofs of this block owned here
func (o *BlockView) OwnedRange() (lo, hi int) {
	return o.parent.ownOff[o.Block], o.parent.ownOff[o.Block+1]
}
