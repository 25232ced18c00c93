// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pla

import (
	"fmt"
	"sort"

	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// noMode indicates that no values have been set since the last assembly
const noMode = -1

// Matrix implements a distributed sparse matrix in compressed-row format.
// Each process stores its owned rows with global column indices.
// Values of rows owned by other processes are stashed and shipped during assembly.
type Matrix struct {
	rmap    *par.IndexMap
	cmap    *par.IndexMap
	caps    Caps
	rowptr  []int     // [nown+1]
	cols    []int     // [nnz] global columns; sorted within each row
	vals    []float64 // [nnz]
	written []bool    // [nnz] entry has received a value

	// assembly
	mode     int          // pending InsertMode or noMode
	stash    []stashEntry // values for rows owned by other processes
	inflight bool
	kind     AssemblyType
	rcvI     [][]int
	rcvF     [][]float64
}

// stashEntry holds one off-process value
type stashEntry struct {
	row, col int
	mode     InsertMode
	val      float64
}

// NewMatrix returns a new zero matrix with the structure of an assembled pattern
func NewMatrix(sp *SparsityPattern, caps Caps) (o *Matrix, err error) {
	if !sp.Assembled() {
		return nil, ErrPatternNotAssembled
	}
	o = &Matrix{rmap: sp.Map(0), cmap: sp.Map(1), caps: caps, mode: noMode}
	nown := o.rmap.SizeLocal()
	o.rowptr = make([]int, nown+1)
	for i := 0; i < nown; i++ {
		o.rowptr[i+1] = o.rowptr[i] + len(sp.Row(i))
	}
	o.cols = make([]int, 0, o.rowptr[nown])
	for i := 0; i < nown; i++ {
		o.cols = append(o.cols, sp.Row(i)...)
	}
	o.vals = make([]float64, len(o.cols))
	o.written = make([]bool, len(o.cols))
	return
}

// Map returns the layout of rows (dim=0) or columns (dim=1)
func (o *Matrix) Map(dim int) *par.IndexMap {
	if dim == 0 {
		return o.rmap
	}
	return o.cmap
}

// SetValuesLocal writes the dense block rows×cols given by local indices; vals is row-major.
// Negative indices are skipped.
func (o *Matrix) SetValuesLocal(rows, cols []int, vals []float64, mode InsertMode) (err error) {
	nrl := o.rmap.SizeLocal() + o.rmap.NumGhosts()
	ncl := o.cmap.SizeLocal() + o.cmap.NumGhosts()
	grows := make([]int, len(rows))
	for k, r := range rows {
		if r >= nrl {
			return fmt.Errorf("%w: local row %d >= %d", ErrIndex, r, nrl)
		}
		grows[k] = o.rmap.LocalToGlobal(r)
	}
	gcols := make([]int, len(cols))
	for k, c := range cols {
		if c >= ncl {
			return fmt.Errorf("%w: local column %d >= %d", ErrIndex, c, ncl)
		}
		gcols[k] = o.cmap.LocalToGlobal(c)
	}
	return o.SetValues(grows, gcols, vals, mode)
}

// SetValues writes the dense block rows×cols given by global indices; vals is row-major.
// Negative indices are skipped. Rows owned by other processes are stashed until assembly.
func (o *Matrix) SetValues(rows, cols []int, vals []float64, mode InsertMode) (err error) {
	if o.inflight {
		return fmt.Errorf("%w: matrix assembly in progress", ErrPhase)
	}
	if len(vals) != len(rows)*len(cols) {
		return chk.Err("number of values (%d) must be equal to %d×%d", len(vals), len(rows), len(cols))
	}
	if o.mode != noMode && InsertMode(o.mode) != mode && o.caps.FlushModes {
		return fmt.Errorf("%w: %v after %v", ErrMixedModes, mode, InsertMode(o.mode))
	}
	o.mode = int(mode)
	lo, hi := o.rmap.LocalRange()
	nr, nc := o.rmap.SizeGlobal(), o.cmap.SizeGlobal()
	for i, r := range rows {
		if r < 0 {
			continue
		}
		if r >= nr {
			return fmt.Errorf("%w: global row %d >= %d", ErrIndex, r, nr)
		}
		for j, c := range cols {
			if c < 0 {
				continue
			}
			if c >= nc {
				return fmt.Errorf("%w: global column %d >= %d", ErrIndex, c, nc)
			}
			v := vals[i*len(cols)+j]
			if r < lo || r >= hi {
				o.stash = append(o.stash, stashEntry{r, c, mode, v})
				continue
			}
			if err = o.set(r-lo, c, v, mode); err != nil {
				return
			}
		}
	}
	return
}

// AssemblyBegin ships stashed values to their owners.
//  Note: collective
func (o *Matrix) AssemblyBegin(kind AssemblyType) (err error) {
	if o.inflight {
		return fmt.Errorf("%w: matrix assembly already started", ErrPhase)
	}
	comm := o.rmap.Comm()

	// header with pending mode, then triples (row, col, mode)
	sendI := make([][]int, comm.Size())
	sendF := make([][]float64, comm.Size())
	for p := range sendI {
		sendI[p] = []int{o.mode}
	}
	for _, e := range o.stash {
		p := o.rmap.Owner(e.row)
		sendI[p] = append(sendI[p], e.row, e.col, int(e.mode))
		sendF[p] = append(sendF[p], e.val)
	}
	o.rcvI, err = comm.ExchangeI(sendI)
	if err != nil {
		return
	}
	o.rcvF, err = comm.ExchangeF(sendF)
	if err != nil {
		return
	}
	o.stash = o.stash[:0]

	// every process sees the same headers, hence reports the same error
	if o.caps.FlushModes {
		mode := noMode
		for p, buf := range o.rcvI {
			if len(buf) == 0 || buf[0] == noMode {
				continue
			}
			if mode != noMode && buf[0] != mode {
				o.rcvI, o.rcvF, o.mode = nil, nil, noMode
				return fmt.Errorf("%w: rank %d used %v while another rank used %v", ErrMixedModes, p, InsertMode(buf[0]), InsertMode(mode))
			}
			mode = buf[0]
		}
	}
	o.inflight, o.kind = true, kind
	return
}

// AssemblyEnd adds the received values. A final assembly also removes entries never written if
// the backend drops unset entries.
func (o *Matrix) AssemblyEnd(kind AssemblyType) (err error) {
	if !o.inflight {
		return fmt.Errorf("%w: matrix assembly has not started", ErrPhase)
	}
	if kind != o.kind {
		return fmt.Errorf("%w: assembly started with kind %d and ended with kind %d", ErrPhase, o.kind, kind)
	}
	defer func() {
		o.inflight, o.rcvI, o.rcvF, o.mode = false, nil, nil, noMode
	}()
	lo, _ := o.rmap.LocalRange()
	for p, buf := range o.rcvI {
		if len(buf) < 1 || (len(buf)-1)%3 != 0 || (len(buf)-1)/3 != len(o.rcvF[p]) {
			return chk.Err("assembly: malformed message from rank %d", p)
		}
		for k := 0; k < len(o.rcvF[p]); k++ {
			r, c, m := buf[1+3*k], buf[2+3*k], InsertMode(buf[3+3*k])
			if err = o.set(r-lo, c, o.rcvF[p][k], m); err != nil {
				return
			}
		}
	}
	if kind == FinalAssembly && o.caps.DropUnset {
		o.compress()
	}
	return
}

// Zero sets all stored values to zero keeping the structure
func (o *Matrix) Zero() {
	for k := range o.vals {
		o.vals[k] = 0
	}
}

// NumNonzeros returns the number of stored entries in rows owned by this process
func (o *Matrix) NumNonzeros() int { return len(o.cols) }

// Row returns the global columns and values of owned row i (local index). Do not modify.
func (o *Matrix) Row(i int) (cols []int, vals []float64) {
	a, b := o.rowptr[i], o.rowptr[i+1]
	return o.cols[a:b], o.vals[a:b]
}

// Has tells whether global entry (r, c) is stored here
func (o *Matrix) Has(r, c int) bool {
	return o.find(r, c) >= 0
}

// Get returns the value of global entry (r, c); the row must be owned by this process.
// Entries outside the structure are zero.
func (o *Matrix) Get(r, c int) float64 {
	lo, hi := o.rmap.LocalRange()
	if r < lo || r >= hi {
		chk.Panic("row %d is not owned by rank %d", r, o.rmap.Rank())
	}
	if k := o.find(r, c); k >= 0 {
		return o.vals[k]
	}
	return 0
}

// ToTriplet returns the owned rows in triplet format; row indices are local and column indices global
func (o *Matrix) ToTriplet() (T *la.Triplet) {
	nnz := len(o.cols)
	if nnz == 0 {
		nnz = 1
	}
	T = new(la.Triplet)
	T.Init(o.rmap.SizeLocal(), o.cmap.SizeGlobal(), nnz)
	for i := 0; i < o.rmap.SizeLocal(); i++ {
		for k := o.rowptr[i]; k < o.rowptr[i+1]; k++ {
			T.Put(i, o.cols[k], o.vals[k])
		}
	}
	return
}

// GatherDense returns the whole global matrix on every process.
//  Note: collective
func (o *Matrix) GatherDense() (res *mat.Dense, err error) {
	comm := o.rmap.Comm()
	lo, _ := o.rmap.LocalRange()
	var idx []int
	var vals []float64
	for i := 0; i < o.rmap.SizeLocal(); i++ {
		for k := o.rowptr[i]; k < o.rowptr[i+1]; k++ {
			idx = append(idx, lo+i, o.cols[k])
			vals = append(vals, o.vals[k])
		}
	}
	sendI := make([][]int, comm.Size())
	sendF := make([][]float64, comm.Size())
	for p := range sendI {
		sendI[p], sendF[p] = idx, vals
	}
	rcvI, err := comm.ExchangeI(sendI)
	if err != nil {
		return
	}
	rcvF, err := comm.ExchangeF(sendF)
	if err != nil {
		return
	}
	m, n := o.rmap.SizeGlobal(), o.cmap.SizeGlobal()
	if m == 0 || n == 0 {
		return &mat.Dense{}, nil
	}
	res = mat.NewDense(m, n, nil)
	for p := range rcvI {
		if len(rcvI[p]) != 2*len(rcvF[p]) {
			return nil, chk.Err("gather: malformed message from rank %d", p)
		}
		for k, v := range rcvF[p] {
			res.Set(rcvI[p][2*k], rcvI[p][2*k+1], v)
		}
	}
	return
}

// set writes value into owned row i (local) at global column c
func (o *Matrix) set(i, c int, v float64, mode InsertMode) error {
	a, b := o.rowptr[i], o.rowptr[i+1]
	k := a + sort.SearchInts(o.cols[a:b], c)
	if k == b || o.cols[k] != c {
		return fmt.Errorf("%w: (%d, %d)", ErrNewNonzero, o.rmap.LocalToGlobal(i), c)
	}
	if mode == Add {
		o.vals[k] += v
	} else {
		o.vals[k] = v
	}
	o.written[k] = true
	return nil
}

// find returns the position of global entry (r, c) or -1
func (o *Matrix) find(r, c int) int {
	lo, hi := o.rmap.LocalRange()
	if r < lo || r >= hi {
		return -1
	}
	a, b := o.rowptr[r-lo], o.rowptr[r-lo+1]
	k := a + sort.SearchInts(o.cols[a:b], c)
	if k == b || o.cols[k] != c {
		return -1
	}
	return k
}

// compress removes entries never written
func (o *Matrix) compress() {
	n := 0
	for i := 0; i+1 < len(o.rowptr); i++ {
		a, b := o.rowptr[i], o.rowptr[i+1]
		o.rowptr[i] = n
		for k := a; k < b; k++ {
			if o.written[k] {
				o.cols[n], o.vals[n], o.written[n] = o.cols[k], o.vals[k], true
				n++
			}
		}
	}
	o.rowptr[len(o.rowptr)-1] = n
	o.cols, o.vals, o.written = o.cols[:n], o.vals[:n], o.written[:n]
}
