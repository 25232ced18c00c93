// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/gosl/chk"
)

// BlockForm1 holds N linear forms; one per block of the test space. nil blocks are zero.
type BlockForm1 struct {
	Space  *BlockFunctionSpace // test space
	blocks []*Form
}

// NewBlockForm1 returns a new BlockForm1
func NewBlockForm1(space *BlockFunctionSpace, forms []*Form) (o *BlockForm1, err error) {
	if len(forms) != space.NumBlocks() {
		return nil, chk.Err("number of forms (%d) must be equal to the number of blocks (%d)", len(forms), space.NumBlocks())
	}
	for i, f := range forms {
		if f == nil {
			continue
		}
		if f.Rank() != 1 {
			return nil, chk.Err("block %d: form must be linear. rank %d is invalid", i, f.Rank())
		}
		if f.Spaces[0] != space.Spaces[i] {
			return nil, chk.Err("block %d: test space %q is not the block space %q", i, f.Spaces[0].Name, space.Spaces[i].Name)
		}
	}
	return &BlockForm1{Space: space, blocks: forms}, nil
}

// BlockSize returns the number of blocks
func (o *BlockForm1) BlockSize() int { return len(o.blocks) }

// Block returns form i; a nil form means a zero block
func (o *BlockForm1) Block(i int) (f *Form, err error) {
	if err = dof.CheckBlockIndex(0, i, len(o.blocks)); err != nil {
		return
	}
	return o.blocks[i], nil
}

// BlockForm2 holds an N×M grid of bilinear forms. nil blocks are zero.
type BlockForm2 struct {
	Spaces [2]*BlockFunctionSpace // test (rows) and trial (columns) spaces
	blocks [][]*Form
}

// NewBlockForm2 returns a new BlockForm2
func NewBlockForm2(rows, cols *BlockFunctionSpace, forms [][]*Form) (o *BlockForm2, err error) {
	if len(forms) != rows.NumBlocks() {
		return nil, chk.Err("number of block rows (%d) must be equal to %d", len(forms), rows.NumBlocks())
	}
	for i := range forms {
		if len(forms[i]) != cols.NumBlocks() {
			return nil, chk.Err("number of blocks in row %d (%d) must be equal to %d", i, len(forms[i]), cols.NumBlocks())
		}
		for j, f := range forms[i] {
			if f == nil {
				continue
			}
			if f.Rank() != 2 {
				return nil, chk.Err("block (%d,%d): form must be bilinear. rank %d is invalid", i, j, f.Rank())
			}
			if f.Spaces[0] != rows.Spaces[i] || f.Spaces[1] != cols.Spaces[j] {
				return nil, chk.Err("block (%d,%d): spaces (%q,%q) do not match the block spaces", i, j, f.Spaces[0].Name, f.Spaces[1].Name)
			}
		}
	}
	return &BlockForm2{Spaces: [2]*BlockFunctionSpace{rows, cols}, blocks: forms}, nil
}

// BlockSize returns the number of blocks along rows (dim=0) or columns (dim=1)
func (o *BlockForm2) BlockSize(dim int) int {
	if dim == 0 {
		return len(o.blocks)
	}
	return o.Spaces[1].NumBlocks()
}

// Block returns form (i,j); a nil form means a zero block
func (o *BlockForm2) Block(i, j int) (f *Form, err error) {
	if err = dof.CheckBlockIndex(0, i, o.BlockSize(0)); err != nil {
		return
	}
	if err = dof.CheckBlockIndex(1, j, o.BlockSize(1)); err != nil {
		return
	}
	return o.blocks[i][j], nil
}

// Adjoint returns the block form with test and trial spaces swapped: block (j,i) of the result is
// the transpose of block (i,j). Zero blocks stay zero.
func Adjoint(a *BlockForm2) (res *BlockForm2, err error) {
	n, m := a.BlockSize(0), a.BlockSize(1)
	forms := make([][]*Form, m)
	for j := 0; j < m; j++ {
		forms[j] = make([]*Form, n)
		for i := 0; i < n; i++ {
			if a.blocks[i][j] == nil {
				continue
			}
			forms[j][i], err = a.blocks[i][j].Transpose()
			if err != nil {
				return
			}
		}
	}
	return NewBlockForm2(a.Spaces[1], a.Spaces[0], forms)
}
