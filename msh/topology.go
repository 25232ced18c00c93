// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// topology holds facets and their connectivity with cells
type topology struct {
	facetVerts [][]int // [nfacets] sorted vertex ids
	facetCells [][]int // [nfacets] adjacent cells in increasing id order (1 or 2)
	facetTags  []int   // [nfacets] tags (0 means untagged)
	cellFacets [][]int // [ncells][nlocalfacets] facet ids
	hasF2C     bool    // facet => cell connectivity available
	hasC2F     bool    // cell => facet connectivity available
	nbuild     int     // number of times facets were created
}

// CreateEntities creates the mesh entities of dimension dim. Only facets (dim == Tdim-1) are
// supported; calling it again does nothing.
func (o *Mesh) CreateEntities(dim int) (err error) {
	if dim != o.Tdim-1 {
		return chk.Err("only facets (dim=%d) can be created. dim=%d is invalid", o.Tdim-1, dim)
	}
	if o.topo.facetVerts != nil {
		return
	}
	index := make(map[string]int)
	o.topo.cellFacets = make([][]int, len(o.Cells))
	o.topo.facetVerts = [][]int{}
	for _, c := range o.Cells {
		ct := CellTypes[c.Type]
		o.topo.cellFacets[c.Id] = make([]int, len(ct.Facets))
		for i, lverts := range ct.Facets {
			verts := make([]int, len(lverts))
			for k, l := range lverts {
				verts[k] = c.Verts[l]
			}
			sort.Ints(verts)
			key := io.Sf("%v", verts)
			fid, ok := index[key]
			if !ok {
				fid = len(o.topo.facetVerts)
				index[key] = fid
				o.topo.facetVerts = append(o.topo.facetVerts, verts)
			}
			o.topo.cellFacets[c.Id][i] = fid
		}
	}
	o.topo.nbuild++
	return
}

// CreateConnectivity creates the incidence between entities of dimensions d0 and d1.
// Supported pairs are (Tdim-1, Tdim) and (Tdim, Tdim-1); calling it again does nothing.
func (o *Mesh) CreateConnectivity(d0, d1 int) (err error) {
	fd := o.Tdim - 1
	if !((d0 == fd && d1 == o.Tdim) || (d0 == o.Tdim && d1 == fd)) {
		return chk.Err("connectivity (%d, %d) is not available", d0, d1)
	}
	if err = o.CreateEntities(fd); err != nil {
		return
	}
	if d0 == o.Tdim {
		o.topo.hasC2F = true // computed with the entities
		return
	}
	if o.topo.hasF2C {
		return
	}
	nf := len(o.topo.facetVerts)
	o.topo.facetCells = make([][]int, nf)
	o.topo.facetTags = make([]int, nf)
	for _, c := range o.Cells { // increasing cell id
		for i, fid := range o.topo.cellFacets[c.Id] {
			if len(o.topo.facetCells[fid]) == 2 {
				return chk.Err("facet %v is shared by more than two cells", o.topo.facetVerts[fid])
			}
			o.topo.facetCells[fid] = append(o.topo.facetCells[fid], c.Id)
			if len(c.FTags) > 0 && c.FTags[i] != 0 && o.topo.facetTags[fid] == 0 {
				o.topo.facetTags[fid] = c.FTags[i]
			}
		}
	}
	o.topo.hasF2C = true
	return
}

// NumFacets returns the number of facets
func (o *Mesh) NumFacets() int {
	o.needFacets()
	return len(o.topo.facetVerts)
}

// FacetVerts returns the sorted vertices of facet fid
func (o *Mesh) FacetVerts(fid int) []int {
	o.needFacets()
	return o.topo.facetVerts[fid]
}

// FacetCells returns the cells adjacent to facet fid in increasing id order
func (o *Mesh) FacetCells(fid int) []int {
	o.needF2C()
	return o.topo.facetCells[fid]
}

// FacetTag returns the tag of facet fid; 0 means untagged
func (o *Mesh) FacetTag(fid int) int {
	o.needF2C()
	return o.topo.facetTags[fid]
}

// CellFacets returns the facets of cell cid in local facet order
func (o *Mesh) CellFacets(cid int) []int {
	if !o.topo.hasC2F {
		chk.Panic("cell => facet connectivity must be created first")
	}
	return o.topo.cellFacets[cid]
}

// LocalFacet returns the local index of facet fid within cell cid or -1
func (o *Mesh) LocalFacet(cid, fid int) int {
	o.needFacets()
	for i, f := range o.topo.cellFacets[cid] {
		if f == fid {
			return i
		}
	}
	return -1
}

// FacetLocalVerts returns the local vertices (within cell cid) of facet fid
func (o *Mesh) FacetLocalVerts(cid, fid int) []int {
	i := o.LocalFacet(cid, fid)
	if i < 0 {
		chk.Panic("facet %d does not belong to cell %d", fid, cid)
	}
	return CellTypes[o.Cells[cid].Type].Facets[i]
}

// NumTopologyBuilds returns how many times facets have been created
func (o *Mesh) NumTopologyBuilds() int { return o.topo.nbuild }

// ExteriorFacets returns the boundary facets whose cell is in partition part; tag == 0 means any
func (o *Mesh) ExteriorFacets(part, tag int) (res []int) {
	o.needF2C()
	for fid, cells := range o.topo.facetCells {
		if len(cells) != 1 || o.Cells[cells[0]].Part != part {
			continue
		}
		if tag == 0 || o.topo.facetTags[fid] == tag {
			res = append(res, fid)
		}
	}
	return
}

// InteriorFacets returns the facets shared by two cells and assigned to partition part.
// A facet is assigned to the partition of its adjacent cell with the lowest id. tag == 0 means any.
func (o *Mesh) InteriorFacets(part, tag int) (res []int) {
	o.needF2C()
	for fid, cells := range o.topo.facetCells {
		if len(cells) != 2 || o.Cells[cells[0]].Part != part {
			continue
		}
		if tag == 0 || o.topo.facetTags[fid] == tag {
			res = append(res, fid)
		}
	}
	return
}

func (o *Mesh) needFacets() {
	if o.topo.facetVerts == nil {
		chk.Panic("facets must be created first")
	}
}

func (o *Mesh) needF2C() {
	if !o.topo.hasF2C {
		chk.Panic("facet => cell connectivity must be created first")
	}
}
