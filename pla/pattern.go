// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pla

import (
	"fmt"
	"sort"

	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
)

// SparsityPattern holds the nonzero structure of a distributed matrix.
// Build phase: Insert may be called with owned or ghost rows.
// Assemble (collective) then sends ghost rows to their owners; after that only owned rows remain.
type SparsityPattern struct {
	rmap      *par.IndexMap // rows layout
	cmap      *par.IndexMap // columns layout
	build     [][]int       // [nown+nghost] global columns per local row (build phase)
	rows      [][]int       // [nown] sorted unique global columns per owned row (assembled)
	assembled bool
}

// NewSparsityPattern returns a new empty pattern
func NewSparsityPattern(rmap, cmap *par.IndexMap) *SparsityPattern {
	return &SparsityPattern{
		rmap:  rmap,
		cmap:  cmap,
		build: make([][]int, rmap.SizeLocal()+rmap.NumGhosts()),
	}
}

// Map returns the layout of rows (dim=0) or columns (dim=1)
func (o *SparsityPattern) Map(dim int) *par.IndexMap {
	if dim == 0 {
		return o.rmap
	}
	return o.cmap
}

// Assembled tells whether Assemble has been called
func (o *SparsityPattern) Assembled() bool { return o.assembled }

// Insert adds the dense block rows×cols given by local indices. Negative indices are skipped.
func (o *SparsityPattern) Insert(rows, cols []int) (err error) {
	if o.assembled {
		return ErrPatternAssembled
	}
	nrl := len(o.build)
	ncl := o.cmap.SizeLocal() + o.cmap.NumGhosts()
	gcols := make([]int, 0, len(cols))
	for _, c := range cols {
		if c < 0 {
			continue
		}
		if c >= ncl {
			return fmt.Errorf("%w: local column %d >= %d", ErrIndex, c, ncl)
		}
		gcols = append(gcols, o.cmap.LocalToGlobal(c))
	}
	for _, r := range rows {
		if r < 0 {
			continue
		}
		if r >= nrl {
			return fmt.Errorf("%w: local row %d >= %d", ErrIndex, r, nrl)
		}
		o.build[r] = append(o.build[r], gcols...)
	}
	return
}

// InsertGlobal adds the dense block rows×cols given by global indices.
// Rows must be owned or ghosts of this process. Negative indices are skipped.
func (o *SparsityPattern) InsertGlobal(rows, cols []int) (err error) {
	if o.assembled {
		return ErrPatternAssembled
	}
	ng := o.cmap.SizeGlobal()
	for _, c := range cols {
		if c >= ng {
			return fmt.Errorf("%w: global column %d >= %d", ErrIndex, c, ng)
		}
	}
	for _, r := range rows {
		if r < 0 {
			continue
		}
		l := o.rmap.GlobalToLocal(r)
		if l < 0 {
			return fmt.Errorf("%w: global row %d is not available on rank %d", ErrIndex, r, o.rmap.Rank())
		}
		for _, c := range cols {
			if c >= 0 {
				o.build[l] = append(o.build[l], c)
			}
		}
	}
	return
}

// Assemble moves ghost rows to their owners and finalises the structure.
//  Note: collective
func (o *SparsityPattern) Assemble() (err error) {
	if o.assembled {
		return ErrPatternAssembled
	}
	comm := o.rmap.Comm()
	nown := o.rmap.SizeLocal()

	// message to each owner: row, ncols, cols...
	send := make([][]int, comm.Size())
	for k, g := range o.rmap.Ghosts() {
		cols := o.build[nown+k]
		if len(cols) == 0 {
			continue
		}
		p := o.rmap.GhostOwners()[k]
		send[p] = append(send[p], g, len(cols))
		send[p] = append(send[p], cols...)
	}
	recv, err := comm.ExchangeI(send)
	if err != nil {
		return
	}
	lo, hi := o.rmap.LocalRange()
	for p, buf := range recv {
		for k := 0; k < len(buf); {
			if k+2 > len(buf) || k+2+buf[k+1] > len(buf) {
				return chk.Err("pattern: truncated message from rank %d", p)
			}
			g, n := buf[k], buf[k+1]
			if g < lo || g >= hi {
				return fmt.Errorf("%w: rank %d sent row %d which is not owned by rank %d", ErrIndex, p, g, comm.Rank())
			}
			o.build[g-lo] = append(o.build[g-lo], buf[k+2:k+2+n]...)
			k += 2 + n
		}
	}

	// sort and remove duplicates
	o.rows = make([][]int, nown)
	for i := 0; i < nown; i++ {
		o.rows[i] = sortUnique(o.build[i])
	}
	o.build = nil
	o.assembled = true
	return
}

// Row returns the sorted global columns of owned row i (local index). Do not modify.
func (o *SparsityPattern) Row(i int) []int {
	if !o.assembled {
		chk.Panic("pattern must be assembled before accessing rows")
	}
	return o.rows[i]
}

// NumNonzeros returns the number of entries in rows owned by this process
func (o *SparsityPattern) NumNonzeros() (nnz int) {
	if o.assembled {
		for _, r := range o.rows {
			nnz += len(r)
		}
		return
	}
	for _, r := range o.build {
		nnz += len(sortUnique(append([]int{}, r...)))
	}
	return
}

// RowCounts returns, for each owned row, the number of entries in the columns owned by this
// process (diag) and elsewhere (offd); as required to preallocate distributed matrices
func (o *SparsityPattern) RowCounts() (diag, offd []int) {
	if !o.assembled {
		chk.Panic("pattern must be assembled before counting rows")
	}
	lo, hi := o.cmap.LocalRange()
	diag, offd = make([]int, len(o.rows)), make([]int, len(o.rows))
	for i, r := range o.rows {
		for _, c := range r {
			if c >= lo && c < hi {
				diag[i]++
			} else {
				offd[i]++
			}
		}
	}
	return
}

// Equal compares the local structures of two assembled patterns
func (o *SparsityPattern) Equal(other *SparsityPattern) bool {
	if !o.assembled || !other.assembled || len(o.rows) != len(other.rows) {
		return false
	}
	for i := range o.rows {
		if len(o.rows[i]) != len(other.rows[i]) {
			return false
		}
		for k := range o.rows[i] {
			if o.rows[i][k] != other.rows[i][k] {
				return false
			}
		}
	}
	return true
}

// sortUnique sorts a and removes repeated entries in place
func sortUnique(a []int) []int {
	if len(a) == 0 {
		return []int{}
	}
	sort.Ints(a)
	n := 1
	for k := 1; k < len(a); k++ {
		if a[k] != a[n-1] {
			a[n] = a[k]
			n++
		}
	}
	return a[:n]
}
