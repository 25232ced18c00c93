// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goblock/dof"
	"github.com/cpmech/goblock/msh"
	"github.com/cpmech/gosl/chk"
)

// element holds the data of one cell or of the two cells around an interior facet
type element struct {
	cells []int         // one cell or the two cells of an interior facet
	nv    []int         // number of vertices of each cell
	x     [][][]float64 // coordinates of each cell
	fv    [][]int       // facet local vertices in each cell; nil for cells
}

// nverts returns the total number of vertices
func (o *element) nverts() (n int) {
	for _, k := range o.nv {
		n += k
	}
	return
}

// dofs returns the local dofs of all vertices: cell by cell, vertex by vertex, component by component
func (o *element) dofs(dm *dof.DofMap, bcs map[int]bool) (res []int) {
	for _, cid := range o.cells {
		res = append(res, dm.CellDofs(cid)...)
	}
	for i, l := range res {
		if bcs[l] {
			res[i] = -1
		}
	}
	return
}

// elementLoops holds one handler per kind of integral returning the elements owned by rank with tag
var elementLoops = [nIntegralTypes]func(mesh *msh.Mesh, tag, rank int) ([]*element, error){
	Cell:          cellElements,
	InteriorFacet: interiorFacetElements,
	ExteriorFacet: exteriorFacetElements,
}

// elementsOf returns the elements of integrals of kind t with tag, owned by rank
func elementsOf(mesh *msh.Mesh, t IntegralType, tag, rank int) (res []*element, err error) {
	if t < 0 || t >= nIntegralTypes {
		return nil, chk.Err("integral type %v is not available", t)
	}
	return elementLoops[t](mesh, tag, rank)
}

func cellElements(mesh *msh.Mesh, tag, rank int) (res []*element, err error) {
	for _, cid := range mesh.OwnedCells(rank, tag) {
		res = append(res, &element{cells: []int{cid}, nv: []int{len(mesh.Cells[cid].Verts)}, x: [][][]float64{mesh.CellCoords(cid)}})
	}
	return
}

func exteriorFacetElements(mesh *msh.Mesh, tag, rank int) (res []*element, err error) {
	if err = initFacets(mesh); err != nil {
		return
	}
	return facetElements(mesh, mesh.ExteriorFacets(rank, tag)), nil
}

func interiorFacetElements(mesh *msh.Mesh, tag, rank int) (res []*element, err error) {
	if err = initFacets(mesh); err != nil {
		return
	}
	return facetElements(mesh, mesh.InteriorFacets(rank, tag)), nil
}

func facetElements(mesh *msh.Mesh, fids []int) (res []*element) {
	for _, fid := range fids {
		e := new(element)
		for _, cid := range mesh.FacetCells(fid) {
			e.cells = append(e.cells, cid)
			e.nv = append(e.nv, len(mesh.Cells[cid].Verts))
			e.x = append(e.x, mesh.CellCoords(cid))
			e.fv = append(e.fv, facetLocalVerts(mesh, cid, fid))
		}
		res = append(res, e)
	}
	return
}

// facetLocalVerts returns the positions within cell cid of the (sorted) vertices of facet fid
func facetLocalVerts(mesh *msh.Mesh, cid, fid int) (res []int) {
	verts := mesh.Cells[cid].Verts
	for _, v := range mesh.FacetVerts(fid) {
		for l, w := range verts {
			if w == v {
				res = append(res, l)
				break
			}
		}
	}
	return
}

// initFacets creates facets and their connectivity with cells; nothing happens if they exist
func initFacets(mesh *msh.Mesh) (err error) {
	d := mesh.Tdim
	if err = mesh.CreateEntities(d - 1); err != nil {
		return
	}
	if err = mesh.CreateConnectivity(d-1, d); err != nil {
		return
	}
	return mesh.CreateConnectivity(d, d-1)
}

// evaluate calls the kernel of itg on element e; A is zeroed first
func evaluate(itg Integral, e *element, A []float64) (err error) {
	for i := range A {
		A[i] = 0
	}
	switch v := itg.(type) {
	case *CellIntegral:
		return v.Kernel(A, e.x[0])
	case *ExteriorFacetIntegral:
		return v.Kernel(A, e.x[0], e.fv[0])
	case *InteriorFacetIntegral:
		return v.Kernel(A, [2][][]float64{e.x[0], e.x[1]}, [2][]int{e.fv[0], e.fv[1]})
	}
	return chk.Err("integral %T is not available", itg)
}

// expand spreads the scalar element tensor over components.
//  Rank 2: A is nvr×nvc; entry (vi*nci+ci, vj*ncj+cj) = A[vi][vj] if ci == cj or either space is scalar.
//  Rank 1: call with nvc = ncj = 1.
func expand(A []float64, nvr, nvc, nci, ncj int) (res []float64) {
	nr, nc := nvr*nci, nvc*ncj
	res = make([]float64, nr*nc)
	for vi := 0; vi < nvr; vi++ {
		for vj := 0; vj < nvc; vj++ {
			a := A[vi*nvc+vj]
			for ci := 0; ci < nci; ci++ {
				for cj := 0; cj < ncj; cj++ {
					if ci == cj || nci == 1 || ncj == 1 {
						res[(vi*nci+ci)*nc+vj*ncj+cj] = a
					}
				}
			}
		}
	}
	return
}

// assembleVectorBlock adds the element vectors of form f into the block view sv
func assembleVectorBlock(sv *SubVector, f *Form, rank int) (err error) {
	dm := sv.DofMap()
	for _, t := range IntegralTypes() {
		for _, itg := range f.Integrals(t) {
			elems, err := elementsOf(f.Mesh(), t, itg.Tag(), rank)
			if err != nil {
				return err
			}
			for _, e := range elems {
				n := e.nverts()
				A := make([]float64, n)
				if err = evaluate(itg, e, A); err != nil {
					return chk.Err("%v integral (tag %d) on cells %v failed:\n%v", t, itg.Tag(), e.cells, err)
				}
				if err = sv.SetValues(e.dofs(dm, nil), expand(A, n, 1, dm.Ncomp, 1)); err != nil {
					return err
				}
			}
		}
	}
	return
}

// assembleMatrixBlock adds the element matrices of form f into the block view sm.
// Rows of dofs in bcs (local to the row block) are skipped; e.g. to impose essential conditions later.
func assembleMatrixBlock(sm *SubMatrix, f *Form, rank int, bcs []int) (err error) {
	rdm, cdm := sm.DofMaps()
	var marked map[int]bool
	if len(bcs) > 0 {
		marked = make(map[int]bool, len(bcs))
		for _, l := range bcs {
			marked[l] = true
		}
	}
	for _, t := range IntegralTypes() {
		for _, itg := range f.Integrals(t) {
			elems, err := elementsOf(f.Mesh(), t, itg.Tag(), rank)
			if err != nil {
				return err
			}
			for _, e := range elems {
				n := e.nverts()
				A := make([]float64, n*n)
				if err = evaluate(itg, e, A); err != nil {
					return chk.Err("%v integral (tag %d) on cells %v failed:\n%v", t, itg.Tag(), e.cells, err)
				}
				rows, cols := e.dofs(rdm, marked), e.dofs(cdm, nil)
				if err = sm.SetValues(rows, cols, expand(A, n, n, rdm.Ncomp, cdm.Ncomp)); err != nil {
					return err
				}
			}
		}
	}
	return
}
