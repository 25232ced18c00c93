// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

func init() {
	io.Verbose = false
}

func Verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// DenseRows returns the rows of a dense matrix; an empty matrix gives nil
func DenseRows(m *mat.Dense) (res [][]float64) {
	if m.IsEmpty() {
		return
	}
	r, _ := m.Dims()
	res = make([][]float64, r)
	for i := 0; i < r; i++ {
		res[i] = mat.Row(nil, i, m)
	}
	return
}
