// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

// CellType holds the local topology of a kind of cell
type CellType struct {
	Name   string  // e.g. "tri3"
	Tdim   int     // topological dimension
	Nverts int     // number of vertices
	Facets [][]int // [nfacets][nverts_per_facet] local vertices of facets
}

// CellTypes holds all available cell types
var CellTypes = map[string]*CellType{
	"lin2": {"lin2", 1, 2, [][]int{{0}, {1}}},
	"tri3": {"tri3", 2, 3, [][]int{{0, 1}, {1, 2}, {2, 0}}},
	"qua4": {"qua4", 2, 4, [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
}
