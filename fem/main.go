// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements block forms and the assembly of block-partitioned distributed systems
package fem

import (
	"time"

	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/inp"
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/pla"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Summary holds global information about the assembled system
type Summary struct {
	Neq   int     // number of equations (union of all fields)
	Nnz   int     // number of stored entries of the matrix
	Bnorm float64 // Euclidean norm of the vector
}

// Main holds all data to assemble a block system described by a problem (.blk) file
type Main struct {
	Prob    *inp.Problem        // problem data
	Comm    par.Comm            // process group
	Backend pla.Backend         // tensors
	Mesh    *msh.Mesh           // replicated mesh
	Space   *BlockFunctionSpace // all fields
	Lhs     *BlockForm2         // bilinear block form; may be nil
	Rhs     *BlockForm1         // linear block form; may be nil
	Summary *Summary            // results of last Run
	Kb      *la.Triplet         // owned rows of the matrix of last Run; as handed to linear solvers
	Nproc   int                 // number of processors
	Proc    int                 // processor id
	ShowMsg bool                // show messages
}

// NewMain returns a new Main structure
//  Input:
//   comm    -- process group; e.g. par.Serial{} or mpicomm.New()
//   prob    -- problem data
//   verbose -- show messages (on processor 0 only)
func NewMain(comm par.Comm, prob *inp.Problem, verbose bool) (o *Main, err error) {

	// new Main object
	o = &Main{Prob: prob, Comm: comm, Nproc: comm.Size(), Proc: comm.Rank()}
	o.ShowMsg = verbose && o.Proc == 0
	o.Backend = pla.NewNative(pla.Caps{DropUnset: !prob.Backend.KeepUnset, FlushModes: !prob.Backend.NoFlush})

	// mesh
	o.Mesh, err = buildMesh(prob, o.Nproc)
	if err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Mesh with %d cells and %d vertices ready (%d partitions)\n", o.Mesh.NumCells(), o.Mesh.NumVerts(), o.Mesh.Nparts)
	}

	// spaces
	spaces := make([]*FunctionSpace, len(prob.Fields))
	for i, f := range prob.Fields {
		rst := &dof.Restriction{CellTags: f.CellTags, FacetTags: f.FacetTags}
		spaces[i], err = NewFunctionSpace(comm, o.Mesh, f.Name, f.Ncomp, rst)
		if err != nil {
			return
		}
	}
	o.Space, err = NewBlockFunctionSpace(comm, spaces...)
	if err != nil {
		return
	}

	// forms
	nf := len(spaces)
	if len(prob.Lhs) > 0 {
		forms := make([][]*Form, nf)
		for i := range forms {
			forms[i] = make([]*Form, nf)
		}
		for _, blk := range prob.Lhs {
			if forms[blk.I][blk.J] == nil {
				forms[blk.I][blk.J], err = NewForm([]*FunctionSpace{spaces[blk.I], spaces[blk.J]})
				if err != nil {
					return
				}
			}
			if err = addIntegrals(forms[blk.I][blk.J], blk); err != nil {
				return
			}
		}
		o.Lhs, err = NewBlockForm2(o.Space, o.Space, forms)
		if err != nil {
			return
		}
	}
	if len(prob.Rhs) > 0 {
		forms := make([]*Form, nf)
		for _, blk := range prob.Rhs {
			if forms[blk.I] == nil {
				forms[blk.I], err = NewForm([]*FunctionSpace{spaces[blk.I]})
				if err != nil {
					return
				}
			}
			if err = addIntegrals(forms[blk.I], blk); err != nil {
				return
			}
		}
		o.Rhs, err = NewBlockForm1(o.Space, forms)
		if err != nil {
			return
		}
	}

	// message
	if o.ShowMsg {
		io.Pf("> Problem (.blk) file read; %d fields and %d equations\n", nf, o.Space.Dofs.Imap.SizeGlobal())
	}
	return
}

// Run assembles the matrix (nil if there is no Lhs) and the vector (nil if there is no Rhs)
//  Note: collective
func (o *Main) Run() (A pla.Mat, b pla.Vec, err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// matrix
	o.Summary = &Summary{Neq: o.Space.Dofs.Imap.SizeGlobal()}
	if o.Lhs != nil {
		t0 := time.Now()
		A, err = AssembleMatrix(o.Backend, o.Lhs)
		if err != nil {
			return
		}
		if m, ok := A.(*pla.Matrix); ok {
			o.Kb = m.ToTriplet()
			o.Summary.Nnz, err = par.AllReduceSumI(o.Comm, o.Kb.Len())
			if err != nil {
				return
			}
		}
		if o.ShowMsg {
			io.Pf("> Matrix assembled in %v\n", time.Now().Sub(t0))
		}
	}

	// vector
	if o.Rhs != nil {
		t0 := time.Now()
		b, err = AssembleVector(o.Backend, o.Rhs)
		if err != nil {
			return
		}
		if v, ok := b.(*pla.Vector); ok {
			o.Summary.Bnorm, err = v.Norm2()
			if err != nil {
				return
			}
		}
		if o.ShowMsg {
			io.Pf("> Vector assembled in %v\n", time.Now().Sub(t0))
		}
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints final message with summary and cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) error {
	if !o.ShowMsg {
		return prevErr
	}
	if prevErr != nil {
		io.PfRed("> Failed\n")
		return prevErr
	}
	io.Pfyel("> neq = %d, nnz = %d, |b| = %g\n", o.Summary.Neq, o.Summary.Nnz, o.Summary.Bnorm)
	io.PfGreen("> Success\n")
	io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
	return nil
}

// buildMesh reads or generates the mesh and sets its partitions
func buildMesh(prob *inp.Problem, nproc int) (m *msh.Mesh, err error) {
	md := prob.Mesh
	strategy, err := msh.ParseStrategy(md.Strategy)
	if err != nil {
		return
	}
	nparts := md.Nparts
	if md.File != "" {
		m, err = msh.Read(prob.Dir, md.File)
		if err != nil {
			return
		}
		if nparts == 0 {
			return
		}
	} else {
		switch md.Gen {
		case "line":
			m, err = msh.GenLine(md.N[0], md.L[0])
		case "trirect":
			m, err = msh.GenTriRect(md.N[0], md.N[1], md.L[0], md.L[1])
		case "quadrect":
			m, err = msh.GenQuadRect(md.N[0], md.N[1], md.L[0], md.L[1])
		default:
			err = chk.Err("mesh generator %q is not available", md.Gen)
		}
		if err != nil {
			return
		}
		if nparts == 0 {
			nparts = nproc
		}
	}
	err = m.Partition(nparts, strategy)
	return
}

// addIntegrals adds the integrals of blk to f
func addIntegrals(f *Form, blk *inp.BlockData) (err error) {
	for _, d := range blk.Integrals {
		t, err := ParseIntegralType(d.Kind)
		if err != nil {
			return err
		}
		itg, rank, err := NewIntegral(t, d.Kernel, d.Tag)
		if err != nil {
			return err
		}
		if rank != f.Rank() {
			return chk.Err("block (%d,%d): kernel %q has rank %d but the form has rank %d", blk.I, blk.J, d.Kernel, rank, f.Rank())
		}
		if err = f.Add(itg); err != nil {
			return err
		}
	}
	return
}
