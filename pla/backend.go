// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pla

import "github.com/cpmech/goblock/par"

// Vec defines the distributed vector operations required by assemblers
type Vec interface {
	Map() *par.IndexMap                                              // parallel layout
	SetValuesLocal(idx []int, vals []float64, mode InsertMode) error // local (owned+ghost) indices
	GhostUpdateBegin(mode InsertMode, dir ScatterMode) error         // collective
	GhostUpdateEnd(mode InsertMode, dir ScatterMode) error           // collective
}

// Mat defines the distributed matrix operations required by assemblers
type Mat interface {
	Map(dim int) *par.IndexMap                                              // parallel layout of rows (0) or columns (1)
	SetValuesLocal(rows, cols []int, vals []float64, mode InsertMode) error // local indices; row-major vals
	SetValues(rows, cols []int, vals []float64, mode InsertMode) error      // global indices; row-major vals
	AssemblyBegin(kind AssemblyType) error                                  // collective
	AssemblyEnd(kind AssemblyType) error                                    // collective
}

// Backend allocates distributed tensors
type Backend interface {
	Caps() Caps
	CreateVector(imap *par.IndexMap) (Vec, error)
	CreateMatrix(sp *SparsityPattern) (Mat, error)
}

// Native implements Backend with the in-memory tensors of this package
type Native struct {
	caps Caps
}

// NewNative returns a new Native backend
func NewNative(caps Caps) *Native { return &Native{caps} }

// Caps returns the capabilities of this backend
func (o *Native) Caps() Caps { return o.caps }

// CreateVector returns a new zero Vector
func (o *Native) CreateVector(imap *par.IndexMap) (Vec, error) {
	return NewVector(imap), nil
}

// CreateMatrix returns a new zero Matrix
func (o *Native) CreateMatrix(sp *SparsityPattern) (Mat, error) {
	return NewMatrix(sp, o.caps)
}
