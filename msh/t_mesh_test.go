// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_msh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh01. read mesh and create facets")

	m, err := Read("data", "twotri.msh")
	if err != nil {
		tst.Errorf("cannot read mesh:\n%v", err)
		return
	}
	chk.IntAssert(m.Ndim, 2)
	chk.IntAssert(m.Tdim, 2)
	chk.IntAssert(m.Nparts, 2)
	chk.Ints(tst, "owned cells 0", m.OwnedCells(0, 0), []int{0})
	chk.Ints(tst, "owned cells 1", m.OwnedCells(1, 0), []int{1})
	chk.IntAssert(len(m.OwnedCells(1, -1)), 0)

	err = m.CreateConnectivity(1, 2)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	err = m.CreateConnectivity(2, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(m.NumTopologyBuilds(), 1)
	chk.IntAssert(m.NumFacets(), 5)

	// the diagonal is the only interior facet; it is assigned to the partition of cell 0
	chk.IntAssert(len(m.InteriorFacets(1, 0)), 0)
	inter := m.InteriorFacets(0, 0)
	chk.IntAssert(len(inter), 1)
	chk.Ints(tst, "diagonal verts", m.FacetVerts(inter[0]), []int{0, 2})
	chk.Ints(tst, "diagonal cells", m.FacetCells(inter[0]), []int{0, 1})
	chk.IntAssert(m.LocalFacet(0, inter[0]), 2)
	chk.IntAssert(m.LocalFacet(1, inter[0]), 0)
	chk.Ints(tst, "local verts", m.FacetLocalVerts(1, inter[0]), []int{0, 1})

	// exterior facets
	chk.IntAssert(len(m.ExteriorFacets(0, 0)), 2)
	chk.IntAssert(len(m.ExteriorFacets(1, 0)), 2)
	right := m.ExteriorFacets(0, -11)
	chk.IntAssert(len(right), 1)
	chk.Ints(tst, "right verts", m.FacetVerts(right[0]), []int{1, 2})
	chk.IntAssert(m.FacetTag(right[0]), -11)
	chk.IntAssert(len(m.ExteriorFacets(0, -13)), 0)
	chk.IntAssert(len(m.ExteriorFacets(1, -13)), 1)
	chk.IntAssert(len(m.CellFacets(1)), 3)

	x := m.CellCoords(1)
	chk.Deep2(tst, "x", 1e-15, x, [][]float64{{0, 0}, {1, 1}, {0, 1}})

	io.Pforan("%v\n", m)
}

func Test_msh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh02. errors")

	_, err := Read("data", "bad.msh")
	if err == nil {
		tst.Errorf("unknown cell type should have failed")
	}
	_, err = Read("data", "notfound.msh")
	if err == nil {
		tst.Errorf("missing file should have failed")
	}

	m, err := GenLine(2, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	err = m.CreateEntities(1)
	if err == nil {
		tst.Errorf("edges of a line mesh should have failed")
	}
	err = m.CreateConnectivity(0, 0)
	if err == nil {
		tst.Errorf("vertex-vertex connectivity should have failed")
	}
	err = m.Partition(0, BlockPartition)
	if err == nil {
		tst.Errorf("zero partitions should have failed")
	}
	_, err = ParseStrategy("metis")
	if err == nil {
		tst.Errorf("unknown strategy should have failed")
	}
	_, err = GenTriRect(0, 1, 1, 1)
	if err == nil {
		tst.Errorf("zero divisions should have failed")
	}
}

func Test_msh03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh03. generators")

	m, err := GenLine(3, 1.5)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(m.Ndim, 1)
	chk.IntAssert(m.Tdim, 1)
	chk.Float64(tst, "xmax", 1e-15, m.Xmax, 1.5)
	err = m.CreateConnectivity(0, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(m.NumFacets(), 4)
	chk.IntAssert(len(m.InteriorFacets(0, 0)), 2)
	left := m.ExteriorFacets(0, TagLeft)
	chk.IntAssert(len(left), 1)
	chk.Ints(tst, "left", m.FacetVerts(left[0]), []int{0})

	t, err := GenTriRect(2, 1, 2, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(t.NumCells(), 4)
	chk.IntAssert(t.NumVerts(), 6)
	err = t.CreateConnectivity(1, 2)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(t.NumFacets(), 9) // 7 rectangle edges + 2 diagonals
	chk.IntAssert(len(t.InteriorFacets(0, 0)), 3)
	for _, tag := range []int{TagBottom, TagEast, TagTop, TagWest} {
		n := 0
		for _, fid := range t.ExteriorFacets(0, tag) {
			if t.FacetTag(fid) == tag {
				n++
			}
		}
		io.Pforan("tag %d: %d facets\n", tag, n)
		if tag == TagBottom || tag == TagTop {
			chk.IntAssert(n, 2)
		} else {
			chk.IntAssert(n, 1)
		}
	}

	q, err := GenQuadRect(2, 2, 1, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	err = q.CreateConnectivity(1, 2)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.IntAssert(q.NumFacets(), 12)
	chk.IntAssert(len(q.ExteriorFacets(0, 0)), 8)
}

func Test_msh04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh04. partitions")

	m, err := GenLine(5, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	err = m.Partition(2, BlockPartition)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Ints(tst, "part 0", m.OwnedCells(0, 0), []int{0, 1, 2})
	chk.Ints(tst, "part 1", m.OwnedCells(1, 0), []int{3, 4})

	err = m.Partition(2, RoundRobin)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Ints(tst, "part 0", m.OwnedCells(0, 0), []int{0, 2, 4})
	chk.Ints(tst, "part 1", m.OwnedCells(1, 0), []int{1, 3})
	chk.IntAssert(m.Nparts, 2)

	err = m.CreateConnectivity(0, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	n0, n1 := len(m.InteriorFacets(0, 0)), len(m.InteriorFacets(1, 0))
	chk.IntAssert(n0+n1, 4)
	chk.IntAssert(n0, 2) // points 1 and 3; lowest cells 0 and 2
}

func Test_msh05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh05. null entries")

	for _, fn := range []string{"nullvert.msh", "nullcell.msh"} {
		_, err := Read("data", fn)
		if err == nil {
			tst.Errorf("%s: should have failed", fn)
			continue
		}
		io.Pforan("%s: %v\n", fn, err)
	}
}

func Test_msh06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh06. cell neighbours without facets")

	q, err := GenQuadRect(2, 2, 1, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Ints(tst, "cell 0", q.CellNeighbours(0), []int{1, 2}) // 3 shares one vertex only
	chk.Ints(tst, "cell 3", q.CellNeighbours(3), []int{1, 2})
	chk.Ints(tst, "vert 4", q.Vert2cells[4], []int{0, 1, 2, 3})

	m, err := Read("data", "twotri.msh")
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Ints(tst, "tri 0", m.CellNeighbours(0), []int{1})
	chk.Ints(tst, "tri 1", m.CellNeighbours(1), []int{0})

	l, err := GenLine(3, 1)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Ints(tst, "seg 1", l.CellNeighbours(1), []int{0, 2})
	chk.IntAssert(len(l.CellNeighbours(0)), 1)

	chk.IntAssert(q.NumTopologyBuilds(), 0)
	chk.IntAssert(m.NumTopologyBuilds(), 0)
	chk.IntAssert(l.NumTopologyBuilds(), 0)
}
