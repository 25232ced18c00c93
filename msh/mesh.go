// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msh implements the replicated mesh used to assemble block forms
package msh

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==1, 2 or 3)
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag
	Type  string `json:"type"`  // geometry type; e.g. "tri3"
	Part  int    `json:"part"`  // partition id; i.e. the rank owning this cell
	Verts []int  `json:"verts"` // vertices
	FTags []int  `json:"ftags"` // facet tags; point (1D) or edge (2D)
}

// Mesh holds a mesh replicated on every process. Ownership of cells is given by Cell.Part.
type Mesh struct {

	// from JSON
	Verts []*Vert `json:"verts"` // vertices
	Cells []*Cell `json:"cells"` // cells

	// derived
	FnamePath  string  `json:"-"` // complete filename path
	Ndim       int     `json:"-"` // space dimension
	Tdim       int     `json:"-"` // topological dimension of cells
	Nparts     int     `json:"-"` // number of partitions = max(Part)+1
	Xmin, Xmax float64 `json:"-"` // min and max x-coordinate

	// derived: maps
	CellTag2cells map[int][]*Cell `json:"-"` // cell tag => set of cells
	Part2cells    map[int][]*Cell `json:"-"` // partition number => set of cells
	Vert2cells    [][]int         `json:"-"` // [nverts] cells sharing vertex; increasing id

	// facets; created on demand
	topo topology
}

// Read reads a mesh from a JSON file
func Read(dir, fn string) (o *Mesh, err error) {
	fnpath := filepath.Join(dir, fn)
	b, err := os.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot open mesh file %q:\n%v", fnpath, err)
	}
	o = new(Mesh)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", fnpath, err)
	}
	o.FnamePath = fnpath
	err = o.Init()
	return
}

// Init checks the mesh and computes derived data. Must be called after changing Verts or Cells.
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("mesh must have at least 2 vertices. %d is invalid", len(o.Verts))
	}
	if len(o.Cells) < 1 {
		return chk.Err("mesh must have at least 1 cell")
	}

	// vertices
	for i, v := range o.Verts {
		if v == nil {
			return chk.Err("vertex %d is missing", i)
		}
	}
	o.Ndim = len(o.Verts[0].C)
	if o.Ndim < 1 || o.Ndim > 3 {
		return chk.Err("space dimension must be 1, 2 or 3. %d is invalid", o.Ndim)
	}
	o.Xmin, o.Xmax = o.Verts[0].C[0], o.Verts[0].C[0]
	for i, v := range o.Verts {
		if v.Id != i {
			return chk.Err("vertices must be numbered sequentially. vertex %d has id %d", i, v.Id)
		}
		if len(v.C) != o.Ndim {
			return chk.Err("vertex %d has %d coordinates; %d expected", i, len(v.C), o.Ndim)
		}
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
	}

	// cells
	o.Tdim, o.Nparts = -1, 0
	o.Vert2cells = make([][]int, len(o.Verts))
	o.CellTag2cells = make(map[int][]*Cell)
	o.Part2cells = make(map[int][]*Cell)
	for i, c := range o.Cells {
		if c == nil {
			return chk.Err("cell %d is missing", i)
		}
		if c.Id != i {
			return chk.Err("cells must be numbered sequentially. cell %d has id %d", i, c.Id)
		}
		ct, ok := CellTypes[c.Type]
		if !ok {
			return chk.Err("cell %d: geometry type %q is not available", i, c.Type)
		}
		if o.Tdim < 0 {
			o.Tdim = ct.Tdim
		}
		if ct.Tdim != o.Tdim {
			return chk.Err("cell %d: all cells must have the same topological dimension (%d != %d)", i, ct.Tdim, o.Tdim)
		}
		if ct.Tdim > o.Ndim {
			return chk.Err("cell %d: %q cells cannot be used in %dD", i, c.Type, o.Ndim)
		}
		if len(c.Verts) != ct.Nverts {
			return chk.Err("cell %d: %q requires %d vertices. %d is invalid", i, c.Type, ct.Nverts, len(c.Verts))
		}
		for _, v := range c.Verts {
			if v < 0 || v >= len(o.Verts) {
				return chk.Err("cell %d: vertex %d is out of range", i, v)
			}
		}
		if len(c.FTags) != 0 && len(c.FTags) != len(ct.Facets) {
			return chk.Err("cell %d: number of facet tags must be %d. %d is invalid", i, len(ct.Facets), len(c.FTags))
		}
		if c.Part < 0 {
			return chk.Err("cell %d: partition number must be non-negative. %d is invalid", i, c.Part)
		}
		o.Nparts = utl.Imax(o.Nparts, c.Part+1)
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)
		o.Part2cells[c.Part] = append(o.Part2cells[c.Part], c)
		for _, v := range c.Verts {
			o.Vert2cells[v] = append(o.Vert2cells[v], c.Id)
		}
	}
	o.topo = topology{}
	return
}

// NumVerts returns the number of vertices
func (o *Mesh) NumVerts() int { return len(o.Verts) }

// NumCells returns the number of cells
func (o *Mesh) NumCells() int { return len(o.Cells) }

// OwnedCells returns the ids of cells in partition part; tag == 0 means any tag
func (o *Mesh) OwnedCells(part, tag int) (res []int) {
	for _, c := range o.Part2cells[part] {
		if tag == 0 || c.Tag == tag {
			res = append(res, c.Id)
		}
	}
	return
}

// CellNeighbours returns the cells sharing a facet with cell cid in increasing id order.
// Neighbours are found from shared vertices; facets need not exist.
func (o *Mesh) CellNeighbours(cid int) (res []int) {
	c := o.Cells[cid]
	for _, lverts := range CellTypes[c.Type].Facets {
		for _, nid := range o.Vert2cells[c.Verts[lverts[0]]] {
			if nid == cid || utl.IntIndexSmall(res, nid) >= 0 {
				continue
			}
			shared := true
			for _, l := range lverts[1:] {
				if utl.IntIndexSmall(o.Cells[nid].Verts, c.Verts[l]) < 0 {
					shared = false
					break
				}
			}
			if shared {
				res = append(res, nid)
			}
		}
	}
	sort.Ints(res)
	return
}

// CellCoords returns the coordinates of the vertices of cell cid; x[vertex][dim]
func (o *Mesh) CellCoords(cid int) (x [][]float64) {
	c := o.Cells[cid]
	x = make([][]float64, len(c.Verts))
	for i, v := range c.Verts {
		x[i] = o.Verts[v].C
	}
	return
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"part\":%d, \"verts\":[", o.Id, o.Tag, o.Type, o.Part)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "], \"ftags\":["
	for i, x := range o.FTags {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o *Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
