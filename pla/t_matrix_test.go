// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pla

import (
	"testing"

	"github.com/cpmech/goblock/par"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fullPattern returns an assembled dense pattern of n×n over one process
func fullPattern(t *testing.T, n int) *SparsityPattern {
	imap, err := par.NewIndexMap(par.Serial{}, n, nil)
	require.NoError(t, err)
	sp := NewSparsityPattern(imap, imap)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	require.NoError(t, sp.Insert(all, all))
	require.NoError(t, sp.Assemble())
	return sp
}

func TestMatrixDropUnset(t *testing.T) {
	A, err := NewMatrix(fullPattern(t, 2), Caps{DropUnset: true, FlushModes: true})
	require.NoError(t, err)
	require.Equal(t, 4, A.NumNonzeros())
	require.NoError(t, A.SetValues([]int{0}, []int{0, 1}, []float64{1, 2}, Add))
	require.NoError(t, A.SetValues([]int{0}, []int{1}, []float64{3}, Add))

	// flush keeps the structure
	require.NoError(t, A.AssemblyBegin(FlushAssembly))
	require.NoError(t, A.AssemblyEnd(FlushAssembly))
	require.Equal(t, 4, A.NumNonzeros())

	require.NoError(t, A.AssemblyBegin(FinalAssembly))
	require.NoError(t, A.AssemblyEnd(FinalAssembly))
	require.Equal(t, 2, A.NumNonzeros())
	require.True(t, A.Has(0, 1))
	require.False(t, A.Has(1, 1))
	require.Equal(t, 5.0, A.Get(0, 1))
	require.Equal(t, 0.0, A.Get(1, 0))
	cols, vals := A.Row(0)
	require.Equal(t, []int{0, 1}, cols)
	require.Equal(t, []float64{1, 5}, vals)

	require.ErrorIs(t, A.SetValues([]int{1}, []int{1}, []float64{1}, Add), ErrNewNonzero)

	T := A.ToTriplet()
	require.Equal(t, 2, T.Len())
}

func TestMatrixKeepUnset(t *testing.T) {
	A, err := NewMatrix(fullPattern(t, 2), Caps{})
	require.NoError(t, err)
	require.NoError(t, A.SetValues([]int{0}, []int{0}, []float64{1}, Add))
	require.NoError(t, A.SetValues([]int{1}, []int{1}, []float64{1}, Insert)) // mixing is fine here
	require.NoError(t, A.AssemblyBegin(FinalAssembly))
	require.NoError(t, A.AssemblyEnd(FinalAssembly))
	require.Equal(t, 4, A.NumNonzeros())
}

func TestMatrixModesAndPhases(t *testing.T) {
	A, err := NewMatrix(fullPattern(t, 2), DefaultCaps)
	require.NoError(t, err)
	require.NoError(t, A.SetValues([]int{0}, []int{0}, []float64{1}, Insert))
	require.ErrorIs(t, A.SetValues([]int{0}, []int{0}, []float64{1}, Add), ErrMixedModes)
	require.NoError(t, A.AssemblyBegin(FlushAssembly))
	require.ErrorIs(t, A.SetValues([]int{0}, []int{0}, []float64{1}, Insert), ErrPhase)
	require.ErrorIs(t, A.AssemblyBegin(FlushAssembly), ErrPhase)
	require.ErrorIs(t, A.AssemblyEnd(FinalAssembly), ErrPhase)
	require.NoError(t, A.AssemblyEnd(FlushAssembly))
	require.ErrorIs(t, A.AssemblyEnd(FlushAssembly), ErrPhase)
	require.NoError(t, A.SetValues([]int{0}, []int{0}, []float64{2}, Add))
	require.Equal(t, 3.0, A.Get(0, 0))

	require.ErrorIs(t, A.SetValues([]int{2}, []int{0}, []float64{1}, Add), ErrIndex)
	require.ErrorIs(t, A.SetValues([]int{0}, []int{2}, []float64{1}, Add), ErrIndex)
	require.Error(t, A.SetValues([]int{0}, []int{0, 1}, []float64{1}, Add))

	A.Zero()
	require.Equal(t, 0.0, A.Get(0, 0))
}

func TestMatrixStash(t *testing.T) {
	err := par.Run(2, func(comm par.Comm) error {
		imap, err := twoRankMap(comm)
		if err != nil {
			return err
		}
		sp := NewSparsityPattern(imap, imap)
		if err = sp.Insert([]int{0, 1, 2}, []int{0, 1, 2}); err != nil {
			return err
		}
		if err = sp.Assemble(); err != nil {
			return err
		}
		A, err := NewMatrix(sp, DefaultCaps)
		if err != nil {
			return err
		}

		// both ranks add 1 to the 2×2 block of globals {1,2}
		if err = A.SetValues([]int{1, 2}, []int{1, 2}, []float64{1, 1, 1, 1}, Add); err != nil {
			return err
		}
		if err = A.AssemblyBegin(FinalAssembly); err != nil {
			return err
		}
		if err = A.AssemblyEnd(FinalAssembly); err != nil {
			return err
		}
		D, err := A.GatherDense()
		if err != nil {
			return err
		}
		want := mat.NewDense(4, 4, []float64{
			0, 0, 0, 0,
			0, 2, 2, 0,
			0, 2, 2, 0,
			0, 0, 0, 0,
		})
		assert.True(t, mat.Equal(want, D))
		assert.Equal(t, 2, A.NumNonzeros())
		return nil
	})
	require.NoError(t, err)
}

func TestMatrixMixedModesAcrossRanks(t *testing.T) {
	err := par.Run(2, func(comm par.Comm) error {
		imap, err := twoRankMap(comm)
		if err != nil {
			return err
		}
		sp := NewSparsityPattern(imap, imap)
		if err = sp.Insert([]int{0, 1}, []int{0, 1}); err != nil {
			return err
		}
		if err = sp.Assemble(); err != nil {
			return err
		}
		A, err := NewMatrix(sp, DefaultCaps)
		if err != nil {
			return err
		}
		mode := Insert
		if comm.Rank() == 1 {
			mode = Add
		}
		if err = A.SetValuesLocal([]int{0}, []int{0}, []float64{1}, mode); err != nil {
			return err
		}
		err = A.AssemblyBegin(FlushAssembly)
		assert.ErrorIs(t, err, ErrMixedModes)
		return nil
	})
	require.NoError(t, err)
}

func TestNativeBackend(t *testing.T) {
	be := NewNative(DefaultCaps)
	require.Equal(t, DefaultCaps, be.Caps())
	sp := fullPattern(t, 3)
	v, err := be.CreateVector(sp.Map(0))
	require.NoError(t, err)
	require.Equal(t, 3, v.Map().SizeGlobal())
	A, err := be.CreateMatrix(sp)
	require.NoError(t, err)
	require.Equal(t, 3, A.Map(1).SizeGlobal())
}
