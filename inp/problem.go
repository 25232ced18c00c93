// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.blk) JSON file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// MeshData holds the mesh of a problem: either a file or a generator
type MeshData struct {
	File     string    `json:"file"`     // mesh (.msh) filename relative to the problem file
	Gen      string    `json:"gen"`      // generator: "line", "trirect" or "quadrect"
	N        []int     `json:"n"`        // generator: number of divisions along each direction
	L        []float64 `json:"l"`        // generator: lengths along each direction
	Nparts   int       `json:"nparts"`   // number of partitions; 0 means: keep those in File or use the number of processes
	Strategy string    `json:"strategy"` // partitioning strategy: "block" or "roundrobin"
}

// FieldData holds one field (block of unknowns)
type FieldData struct {
	Name      string `json:"name"`      // name of field; e.g. "u"
	Ncomp     int    `json:"ncomp"`     // number of components; default = 1
	CellTags  []int  `json:"celltags"`  // field lives on cells with these tags; empty means everywhere
	FacetTags []int  `json:"facettags"` // field lives on facets with these tags
}

// IntegralData holds one integral of a block
type IntegralData struct {
	Kind   string `json:"kind"`   // "cell", "interior_facet" or "exterior_facet"
	Kernel string `json:"kernel"` // name of registered kernel; e.g. "mass"
	Tag    int    `json:"tag"`    // cell or facet tag; 0 means everywhere
}

// BlockData holds the integrals of one block of a form
type BlockData struct {
	I         int             `json:"i"`         // row block (test field index)
	J         int             `json:"j"`         // column block (trial field index); ignored in Rhs
	Integrals []*IntegralData `json:"integrals"` // integrals
}

// BackendData holds options of the tensor backend
type BackendData struct {
	KeepUnset bool `json:"keepunset"` // keep structural entries never written during final assembly
	NoFlush   bool `json:"noflush"`   // backend accepts mixing insert and add without flushing
}

// Problem holds all input data
type Problem struct {

	// input
	Desc    string       `json:"desc"`    // description
	Mesh    MeshData     `json:"mesh"`    // mesh
	Fields  []*FieldData `json:"fields"`  // fields; one per block
	Lhs     []*BlockData `json:"lhs"`     // blocks of the bilinear form
	Rhs     []*BlockData `json:"rhs"`     // blocks of the linear form
	Backend BackendData  `json:"backend"` // backend options

	// derived
	Key       string `json:"-"` // filename key; e.g. problem.blk => problem
	Dir       string `json:"-"` // directory of problem file
	FnamePath string `json:"-"` // complete filename path
}

// ReadProblem reads and checks a problem (.blk) file
func ReadProblem(fnpath string) (o *Problem, err error) {

	// read file
	b, err := os.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot read problem file %q:\n%v", fnpath, err)
	}

	// decode
	o = new(Problem)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal problem file %q:\n%v", fnpath, err)
	}

	// derived
	o.FnamePath = fnpath
	o.Dir = os.ExpandEnv(filepath.Dir(fnpath))
	o.Key = io.FnKey(filepath.Base(fnpath))
	err = o.PostProcess()
	return
}

// PostProcess sets default values and checks data
func (o *Problem) PostProcess() (err error) {

	// mesh
	if (o.Mesh.File == "") == (o.Mesh.Gen == "") {
		return chk.Err("mesh requires either a file or a generator")
	}
	if o.Mesh.Gen != "" {
		ndiv := map[string]int{"line": 1, "trirect": 2, "quadrect": 2}[o.Mesh.Gen]
		if ndiv == 0 {
			return chk.Err("mesh generator %q is not available", o.Mesh.Gen)
		}
		if len(o.Mesh.N) != ndiv || len(o.Mesh.L) != ndiv {
			return chk.Err("mesh generator %q requires %d divisions and %d lengths", o.Mesh.Gen, ndiv, ndiv)
		}
	}
	if o.Mesh.Nparts < 0 {
		return chk.Err("number of partitions must be non-negative. %d is invalid", o.Mesh.Nparts)
	}

	// fields
	if len(o.Fields) < 1 {
		return chk.Err("at least one field is required")
	}
	names := make(map[string]bool)
	for i, f := range o.Fields {
		if f == nil {
			return chk.Err("field %d is missing", i)
		}
		if f.Name == "" {
			f.Name = io.Sf("f%d", i)
		}
		if names[f.Name] {
			return chk.Err("field name %q is repeated", f.Name)
		}
		names[f.Name] = true
		if f.Ncomp == 0 {
			f.Ncomp = 1
		}
		if f.Ncomp < 0 {
			return chk.Err("field %q: number of components must be positive. %d is invalid", f.Name, f.Ncomp)
		}
	}

	// blocks
	nf := len(o.Fields)
	for k, blk := range o.Lhs {
		if blk == nil {
			return chk.Err("lhs block %d is missing", k)
		}
		if blk.I < 0 || blk.I >= nf || blk.J < 0 || blk.J >= nf {
			return chk.Err("lhs block %d: indices (%d,%d) are out of range [0, %d)", k, blk.I, blk.J, nf)
		}
		if err = checkIntegrals(blk); err != nil {
			return chk.Err("lhs block %d: %v", k, err)
		}
	}
	for k, blk := range o.Rhs {
		if blk == nil {
			return chk.Err("rhs block %d is missing", k)
		}
		if blk.I < 0 || blk.I >= nf {
			return chk.Err("rhs block %d: index %d is out of range [0, %d)", k, blk.I, nf)
		}
		if err = checkIntegrals(blk); err != nil {
			return chk.Err("rhs block %d: %v", k, err)
		}
	}
	if len(o.Lhs) == 0 && len(o.Rhs) == 0 {
		return chk.Err("at least one lhs or rhs block is required")
	}
	return
}

// FieldIndex returns the index of field or -1
func (o *Problem) FieldIndex(name string) int {
	for i, f := range o.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func checkIntegrals(blk *BlockData) error {
	for i, itg := range blk.Integrals {
		if itg == nil {
			return chk.Err("integral %d is missing", i)
		}
		switch itg.Kind {
		case "cell", "interior_facet", "exterior_facet":
		default:
			return chk.Err("integral kind %q is not available", itg.Kind)
		}
		if itg.Kernel == "" {
			return chk.Err("%s integral requires a kernel name", itg.Kind)
		}
	}
	return nil
}
