// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/pla"
)

// SubVector is a window onto the segment of one block of a global vector.
// Indices are local to the block; writes go straight into the global vector.
type SubVector struct {
	vec      pla.Vec
	view     *dof.BlockView
	mode     pla.InsertMode
	released bool
	buf      []int
}

// WithSubVector lends a SubVector over block view.Block of vec to fcn. The view is released when
// fcn returns; it must not be kept.
func WithSubVector(vec pla.Vec, view *dof.BlockView, mode pla.InsertMode, fcn func(sv *SubVector) error) error {
	sv := &SubVector{vec: vec, view: view, mode: mode}
	defer func() { sv.released = true }()
	return fcn(sv)
}

// Block returns the block index
func (o *SubVector) Block() int { return o.view.Block }

// DofMap returns the dofs of the block
func (o *SubVector) DofMap() *dof.DofMap { return o.view.DofMap }

// SetValues writes vals at block-local indices; negative indices are skipped
func (o *SubVector) SetValues(idx []int, vals []float64) error {
	if o.released {
		return ErrViewReleased
	}
	o.buf = o.view.ToUnion(idx, resize(o.buf, len(idx)))
	return status(o.vec.SetValuesLocal(o.buf, vals, o.mode), "VecSetValuesLocal")
}

// SubMatrix is a window onto block (i,j) of a global matrix.
// Indices are local to the blocks; writes go straight into the global matrix.
type SubMatrix struct {
	mat      pla.Mat
	rview    *dof.BlockView
	cview    *dof.BlockView
	mode     pla.InsertMode
	released bool
	rbuf     []int
	cbuf     []int
}

// WithSubMatrix lends a SubMatrix over block (rview.Block, cview.Block) of mat to fcn. The view is
// released when fcn returns; it must not be kept.
func WithSubMatrix(mat pla.Mat, rview, cview *dof.BlockView, mode pla.InsertMode, fcn func(sm *SubMatrix) error) error {
	sm := &SubMatrix{mat: mat, rview: rview, cview: cview, mode: mode}
	defer func() { sm.released = true }()
	return fcn(sm)
}

// Block returns the block indices
func (o *SubMatrix) Block() (i, j int) { return o.rview.Block, o.cview.Block }

// DofMaps returns the dofs of the row and column blocks
func (o *SubMatrix) DofMaps() (rows, cols *dof.DofMap) { return o.rview.DofMap, o.cview.DofMap }

// SetValues writes the dense block rows×cols (row-major vals) at block-local indices; negative
// indices are skipped
func (o *SubMatrix) SetValues(rows, cols []int, vals []float64) error {
	if o.released {
		return ErrViewReleased
	}
	o.rbuf = o.rview.ToUnion(rows, resize(o.rbuf, len(rows)))
	o.cbuf = o.cview.ToUnion(cols, resize(o.cbuf, len(cols)))
	return status(o.mat.SetValuesLocal(o.rbuf, o.cbuf, vals, o.mode), "MatSetValuesLocal")
}

// resize returns a slice with n entries reusing buf when possible
func resize(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}
