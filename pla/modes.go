// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pla implements distributed (parallel) vectors, sparse matrices and sparsity patterns
package pla

import "errors"

// InsertMode defines how values are written into tensors
type InsertMode int

const (
	Insert InsertMode = iota // overwrite
	Add                      // accumulate
)

// String returns the name of the mode
func (o InsertMode) String() string {
	if o == Add {
		return "add"
	}
	return "insert"
}

// AssemblyType defines the kind of matrix assembly
type AssemblyType int

const (
	FlushAssembly AssemblyType = iota // communicates pending values only
	FinalAssembly                     // communicates pending values and finalises the structure
)

// ScatterMode defines the direction of ghost updates
type ScatterMode int

const (
	ScatterForward ScatterMode = iota // owners => ghosts
	ScatterReverse                    // ghosts => owners
)

// Caps holds backend behaviours that callers must cope with
type Caps struct {
	DropUnset  bool // final assembly removes structural entries never written
	FlushModes bool // switching between Insert and Add requires a flush assembly
}

// DefaultCaps holds the behaviour of the Native backend when nothing else is requested
var DefaultCaps = Caps{DropUnset: true, FlushModes: true}

// errors returned by tensors and patterns
var (
	ErrIndex               = errors.New("index out of range")
	ErrNewNonzero          = errors.New("entry is not in the nonzero structure")
	ErrMixedModes          = errors.New("insert and add values cannot be mixed without a flush assembly")
	ErrPhase               = errors.New("operation not allowed in the current assembly phase")
	ErrPatternAssembled    = errors.New("sparsity pattern is already assembled")
	ErrPatternNotAssembled = errors.New("sparsity pattern is not assembled")
)
