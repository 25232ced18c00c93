// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/goblock/pla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// system holds an assembled system keyed by (block, vertex, component)
type system struct {
	A   map[[2]string]float64 // nonzero entries of matrix
	b   map[string]float64    // nonzero entries of vector
	nnz int                   // stored entries (all processes)
	sp  int                   // pattern entries (all processes)
}

// assembleMixed assembles a three-field problem on a triangle mesh split into comm.Size() parts
func assembleMixed(comm par.Comm, strategy msh.Strategy) (res *system, err error) {

	// mesh and spaces
	m, err := msh.GenTriRect(4, 3, 2, 1.5)
	if err != nil {
		return
	}
	if err = m.Partition(comm.Size(), strategy); err != nil {
		return
	}
	spaces, bs, err := newBlockSpace(comm, m,
		fieldData{"u", 2, nil},
		fieldData{"p", 1, nil},
		fieldData{"l", 1, &dof.Restriction{FacetTags: []int{msh.TagBottom}}},
	)
	if err != nil {
		return
	}
	sp2 := func(i, j int) []*FunctionSpace { return []*FunctionSpace{spaces[i], spaces[j]} }

	// forms
	a, err := NewBlockForm2(bs, bs, [][]*Form{
		{newForm(sp2(0, 0), newIntegral(Cell, "laplace", 0), newIntegral(InteriorFacet, "jump", 0)), newForm(sp2(0, 1), newIntegral(Cell, "mass", 0)), nil},
		{newForm(sp2(1, 0), newIntegral(Cell, "mass", 0)), newForm(sp2(1, 1), newIntegral(Cell, "laplace", 0)), nil},
		{nil, nil, newForm(sp2(2, 2), newIntegral(ExteriorFacet, "facet-mass", msh.TagBottom))},
	})
	if err != nil {
		return
	}
	L, err := NewBlockForm1(bs, []*Form{
		newForm(spaces[0:1], newIntegral(Cell, "source", 0)),
		nil,
		newForm(spaces[2:3], newIntegral(ExteriorFacet, "facet-source", msh.TagBottom)),
	})
	if err != nil {
		return
	}

	// assemble
	be := pla.NewNative(pla.DefaultCaps)
	A, err := AssembleMatrix(be, a)
	if err != nil {
		return
	}
	b, err := AssembleVector(be, L)
	if err != nil {
		return
	}
	sp := pla.NewSparsityPattern(bs.Dofs.Imap, bs.Dofs.Imap)
	if err = BuildSparsity(sp, a); err != nil {
		return
	}

	// results
	M := A.(*pla.Matrix)
	D, err := M.GatherDense()
	if err != nil {
		return
	}
	v, err := b.(*pla.Vector).Gather()
	if err != nil {
		return
	}
	res = &system{A: make(map[[2]string]float64), b: make(map[string]float64)}
	if res.nnz, err = par.AllReduceSumI(comm, M.NumNonzeros()); err != nil {
		return
	}
	if res.sp, err = par.AllReduceSumI(comm, sp.NumNonzeros()); err != nil {
		return
	}
	keys := unionKeys(bs)
	n := bs.Dofs.Imap.SizeGlobal()
	for I := 0; I < n; I++ {
		if math.Abs(v[I]) > 1e-14 {
			res.b[keys[I]] = v[I]
		}
		for J := 0; J < n; J++ {
			if x := D.At(I, J); math.Abs(x) > 1e-14 {
				res.A[[2]string{keys[I], keys[J]}] = x
			}
		}
	}
	return
}

func TestParallelEqualsSerial(t *testing.T) {
	ref, err := assembleMixed(par.Serial{}, msh.BlockPartition)
	require.NoError(t, err)
	require.NotEmpty(t, ref.A)
	require.NotEmpty(t, ref.b)

	for _, strategy := range []msh.Strategy{msh.BlockPartition, msh.RoundRobin} {
		for _, size := range []int{2, 3} {
			err = par.Run(size, func(comm par.Comm) error {
				res, err := assembleMixed(comm, strategy)
				if err != nil {
					return err
				}
				assert.Equal(t, ref.nnz, res.nnz, "nnz with %d processes", size)
				assert.Equal(t, ref.sp, res.sp, "pattern with %d processes", size)
				assert.Equal(t, len(ref.A), len(res.A), "matrix entries with %d processes", size)
				for k, x := range ref.A {
					assert.InDelta(t, x, res.A[k], 1e-12, "A%v with %d processes", k, size)
				}
				assert.Equal(t, len(ref.b), len(res.b), "vector entries with %d processes", size)
				for k, x := range ref.b {
					assert.InDelta(t, x, res.b[k], 1e-12, "b[%s] with %d processes", k, size)
				}
				return nil
			})
			require.NoError(t, err)
		}
	}
}

func TestParallelEmptyRank(t *testing.T) {
	// mesh with one partition only; the other processes own nothing but take part in collectives
	err := par.Run(3, func(comm par.Comm) error {
		m, err := msh.GenLine(3, 1)
		if err != nil {
			return err
		}
		spaces, bs, err := newBlockSpace(comm, m, fieldData{"u", 1, nil})
		if err != nil {
			return err
		}
		a, err := NewBlockForm2(bs, bs, [][]*Form{{newForm([]*FunctionSpace{spaces[0], spaces[0]}, newIntegral(Cell, "laplace", 0))}})
		if err != nil {
			return err
		}
		A, err := AssembleMatrix(pla.NewNative(pla.DefaultCaps), a)
		if err != nil {
			return err
		}
		D, err := A.(*pla.Matrix).GatherDense()
		if err != nil {
			return err
		}
		if comm.Rank() > 0 {
			assert.Equal(t, 0, A.Map(0).SizeLocal())
		}
		assert.InDelta(t, 3.0, D.At(0, 0), 1e-12)
		assert.InDelta(t, 6.0, D.At(1, 1), 1e-12)
		assert.InDelta(t, -3.0, D.At(1, 2), 1e-12)
		assert.InDelta(t, 0.0, D.At(0, 2), 1e-12)
		return nil
	})
	require.NoError(t, err)
}

func TestSparsityBlockOrder(t *testing.T) {
	// blocks touch disjoint (row, column) sets of the union numbering; visiting them in reverse
	// order must give the same pattern on every process
	for _, size := range []int{1, 2, 3} {
		err := par.Run(size, func(comm par.Comm) error {
			m, err := msh.GenTriRect(4, 3, 2, 1.5)
			if err != nil {
				return err
			}
			if err = m.Partition(comm.Size(), msh.RoundRobin); err != nil {
				return err
			}
			spaces, bs, err := newBlockSpace(comm, m,
				fieldData{"u", 2, nil},
				fieldData{"p", 1, nil},
				fieldData{"l", 1, &dof.Restriction{FacetTags: []int{msh.TagBottom}}},
			)
			if err != nil {
				return err
			}
			sp2 := func(i, j int) []*FunctionSpace { return []*FunctionSpace{spaces[i], spaces[j]} }
			a, err := NewBlockForm2(bs, bs, [][]*Form{
				{newForm(sp2(0, 0), newIntegral(Cell, "laplace", 0), newIntegral(InteriorFacet, "jump", 0)), newForm(sp2(0, 1), newIntegral(Cell, "mass", 0)), newForm(sp2(0, 2), newIntegral(ExteriorFacet, "facet-mass", msh.TagBottom))},
				{newForm(sp2(1, 0), newIntegral(Cell, "mass", 0)), nil, nil},
				{newForm(sp2(2, 0), newIntegral(ExteriorFacet, "facet-mass", msh.TagBottom)), nil, newForm(sp2(2, 2), newIntegral(ExteriorFacet, "facet-mass", msh.TagBottom))},
			})
			if err != nil {
				return err
			}

			fwd := pla.NewSparsityPattern(bs.Dofs.Imap, bs.Dofs.Imap)
			if err = BuildSparsity(fwd, a); err != nil {
				return err
			}

			rev := pla.NewSparsityPattern(bs.Dofs.Imap, bs.Dofs.Imap)
			rank := rev.Map(0).Rank()
			for i := a.BlockSize(0) - 1; i >= 0; i-- {
				for j := a.BlockSize(1) - 1; j >= 0; j-- {
					if err = insertBlockPair(rev, a, i, j, rank); err != nil {
						return err
					}
				}
			}
			if err = insertDiagonal(rev); err != nil {
				return err
			}
			if err = rev.Assemble(); err != nil {
				return err
			}

			assert.True(t, fwd.Equal(rev), "rank %d of %d: reverse block order changed the pattern", rank, size)
			assert.Equal(t, fwd.NumNonzeros(), rev.NumNonzeros(), "rank %d of %d", rank, size)
			return nil
		})
		require.NoError(t, err)
	}
}
