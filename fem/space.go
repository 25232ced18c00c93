// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
)

// FunctionSpace holds one field discretised with linear (P1) vertex dofs
type FunctionSpace struct {
	Name string      // name of field; e.g. "u"
	Mesh *msh.Mesh   // mesh
	Dofs *dof.DofMap // degrees of freedom
}

// NewFunctionSpace returns a new FunctionSpace with ncomp components restricted to rst (nil means whole mesh)
func NewFunctionSpace(comm par.Comm, mesh *msh.Mesh, name string, ncomp int, rst *dof.Restriction) (o *FunctionSpace, err error) {
	dm, err := dof.New(comm, mesh, ncomp, rst)
	if err != nil {
		return nil, chk.Err("cannot create dofs of field %q:\n%v", name, err)
	}
	return &FunctionSpace{Name: name, Mesh: mesh, Dofs: dm}, nil
}

// BlockFunctionSpace holds an ordered set of function spaces sharing one block dof map
type BlockFunctionSpace struct {
	Spaces []*FunctionSpace // one per block
	Dofs   *dof.BlockDofMap // union of dofs
}

// NewBlockFunctionSpace returns a new BlockFunctionSpace. All spaces must share the same mesh.
func NewBlockFunctionSpace(comm par.Comm, spaces ...*FunctionSpace) (o *BlockFunctionSpace, err error) {
	if len(spaces) < 1 {
		return nil, chk.Err("block function space requires at least one space")
	}
	dms := make([]*dof.DofMap, len(spaces))
	for k, s := range spaces {
		if s.Mesh != spaces[0].Mesh {
			return nil, chk.Err("space %d (%q) is defined on a different mesh", k, s.Name)
		}
		dms[k] = s.Dofs
	}
	bdm, err := dof.NewBlockDofMap(comm, dms)
	if err != nil {
		return
	}
	return &BlockFunctionSpace{Spaces: spaces, Dofs: bdm}, nil
}

// NumBlocks returns the number of blocks
func (o *BlockFunctionSpace) NumBlocks() int { return len(o.Spaces) }

// Mesh returns the mesh shared by all spaces
func (o *BlockFunctionSpace) Mesh() *msh.Mesh { return o.Spaces[0].Mesh }

// Space returns the space of block k
func (o *BlockFunctionSpace) Space(k int) (s *FunctionSpace, err error) {
	if err = dof.CheckBlockIndex(0, k, len(o.Spaces)); err != nil {
		return
	}
	return o.Spaces[k], nil
}
