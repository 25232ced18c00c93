// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dof implements the numbering of degrees of freedom of fields and blocks of fields
package dof

import (
	"sort"

	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/goblock/par"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Restriction selects the part of the mesh where a field lives.
// The field is defined on the vertices of cells with CellTags and of facets with FacetTags.
// An empty Restriction means the whole mesh.
type Restriction struct {
	CellTags  []int `json:"celltags"`  // tags of cells
	FacetTags []int `json:"facettags"` // tags of facets
}

// Empty tells whether r selects the whole mesh
func (r *Restriction) Empty() bool {
	return r == nil || (len(r.CellTags) == 0 && len(r.FacetTags) == 0)
}

// DofMap numbers the degrees of freedom of one field with Ncomp components on the vertices of the mesh.
//  Each vertex is owned by the lowest partition among its cells; the rank p owns a contiguous
//  range of global dofs. Dofs of inactive vertices (outside the Restriction) are -1.
//  Local cells are the owned cells and their facet neighbours; their dofs are owned or ghosts.
type DofMap struct {
	Mesh  *msh.Mesh     // mesh
	Ncomp int           // number of components
	Imap  *par.IndexMap // parallel layout

	vdof   []int // [nverts] first global dof of vertex or -1
	local  []int // local cells
	islocl []bool
}

// New returns a new DofMap. The numbering is computed from the replicated mesh without communication.
func New(comm par.Comm, mesh *msh.Mesh, ncomp int, rst *Restriction) (o *DofMap, err error) {

	// check
	if ncomp < 1 {
		return nil, chk.Err("number of components must be positive. %d is invalid", ncomp)
	}
	if mesh.Nparts > comm.Size() {
		return nil, chk.Err("mesh has %d partitions but there are only %d processes", mesh.Nparts, comm.Size())
	}
	o = &DofMap{Mesh: mesh, Ncomp: ncomp}

	// owners of vertices
	nv := mesh.NumVerts()
	owner := utl.IntVals(nv, -1)
	for _, c := range mesh.Cells {
		for _, v := range c.Verts {
			if owner[v] < 0 || c.Part < owner[v] {
				owner[v] = c.Part
			}
		}
	}

	// active vertices
	active := make([]bool, nv)
	if rst.Empty() {
		for v := range active {
			active[v] = owner[v] >= 0
		}
	} else {
		for _, tag := range rst.CellTags {
			for _, c := range mesh.CellTag2cells[tag] {
				for _, v := range c.Verts {
					active[v] = true
				}
			}
		}
		if len(rst.FacetTags) > 0 {
			err = mesh.CreateConnectivity(mesh.Tdim-1, mesh.Tdim)
			if err != nil {
				return nil, err
			}
			tags := make(map[int]bool)
			for _, tag := range rst.FacetTags {
				tags[tag] = true
			}
			for fid := 0; fid < mesh.NumFacets(); fid++ {
				if tags[mesh.FacetTag(fid)] {
					for _, v := range mesh.FacetVerts(fid) {
						active[v] = true
					}
				}
			}
		}
	}

	// global numbering: partition by partition, vertex by vertex
	size := comm.Size()
	ranges := make([]int, size+1)
	o.vdof = utl.IntVals(nv, -1)
	next := 0
	for p := 0; p < size; p++ {
		ranges[p] = next
		for v := 0; v < nv; v++ {
			if active[v] && owner[v] == p {
				o.vdof[v] = next
				next += ncomp
			}
		}
	}
	ranges[size] = next

	// local cells
	rank := comm.Rank()
	o.islocl = make([]bool, mesh.NumCells())
	for _, cid := range mesh.OwnedCells(rank, 0) {
		o.islocl[cid] = true
		for _, nid := range mesh.CellNeighbours(cid) {
			o.islocl[nid] = true
		}
	}
	for cid, ok := range o.islocl {
		if ok {
			o.local = append(o.local, cid)
		}
	}

	// ghosts
	lo, hi := ranges[rank], ranges[rank+1]
	seen := make(map[int]bool)
	var ghosts []int
	for _, cid := range o.local {
		for _, v := range mesh.Cells[cid].Verts {
			g := o.vdof[v]
			if g < 0 || (g >= lo && g < hi) || seen[g] {
				continue
			}
			seen[g] = true
			for k := 0; k < ncomp; k++ {
				ghosts = append(ghosts, g+k)
			}
		}
	}
	sort.Ints(ghosts)
	o.Imap, err = par.NewIndexMapFromRanges(comm, ranges, ghosts)
	return
}

// LocalCells returns the ids of cells whose dofs are available on this process. Do not modify.
func (o *DofMap) LocalCells() []int { return o.local }

// IsLocal tells whether the dofs of cell cid are available on this process
func (o *DofMap) IsLocal(cid int) bool { return o.islocl[cid] }

// VertDof returns the global dof of component k at vertex v or -1
func (o *DofMap) VertDof(v, k int) int {
	if o.vdof[v] < 0 {
		return -1
	}
	return o.vdof[v] + k
}

// CellDofs returns the local dofs of a local cell: vertex by vertex, component by component.
// Inactive dofs are -1.
func (o *DofMap) CellDofs(cid int) (res []int) {
	if !o.islocl[cid] {
		chk.Panic("cell %d is not local to rank %d", cid, o.Imap.Rank())
	}
	verts := o.Mesh.Cells[cid].Verts
	res = make([]int, len(verts)*o.Ncomp)
	for i, v := range verts {
		for k := 0; k < o.Ncomp; k++ {
			g := o.VertDof(v, k)
			if g < 0 {
				res[i*o.Ncomp+k] = -1
				continue
			}
			res[i*o.Ncomp+k] = o.Imap.GlobalToLocal(g)
		}
	}
	return
}

// CellGlobalDofs returns the global dofs of any cell: vertex by vertex, component by component
func (o *DofMap) CellGlobalDofs(cid int) (res []int) {
	verts := o.Mesh.Cells[cid].Verts
	res = make([]int, len(verts)*o.Ncomp)
	for i, v := range verts {
		for k := 0; k < o.Ncomp; k++ {
			res[i*o.Ncomp+k] = o.VertDof(v, k)
		}
	}
	return
}
