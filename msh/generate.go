// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import "github.com/cpmech/gosl/chk"

// tags set by generators
const (
	CellTag   = -1  // all cells
	TagLeft   = -10 // GenLine: x = 0
	TagRight  = -11 // GenLine: x = L
	TagBottom = -10 // rectangles: y = 0
	TagEast   = -11 // rectangles: x = lx
	TagTop    = -12 // rectangles: y = ly
	TagWest   = -13 // rectangles: x = 0
)

// GenLine generates n lin2 cells over [0, L]
func GenLine(n int, L float64) (o *Mesh, err error) {
	if n < 1 || L <= 0 {
		return nil, chk.Err("GenLine requires n > 0 and L > 0. n=%d and L=%g are invalid", n, L)
	}
	o = new(Mesh)
	for i := 0; i <= n; i++ {
		o.Verts = append(o.Verts, &Vert{Id: i, C: []float64{L * float64(i) / float64(n)}})
	}
	for i := 0; i < n; i++ {
		ftags := []int{0, 0}
		if i == 0 {
			ftags[0] = TagLeft
		}
		if i == n-1 {
			ftags[1] = TagRight
		}
		o.Cells = append(o.Cells, &Cell{Id: i, Tag: CellTag, Type: "lin2", Verts: []int{i, i + 1}, FTags: ftags})
	}
	err = o.Init()
	return
}

// GenTriRect generates 2·nx·ny tri3 cells over [0,lx]×[0,ly]; each rectangle is split along its diagonal
func GenTriRect(nx, ny int, lx, ly float64) (o *Mesh, err error) {
	o, err = rectVerts(nx, ny, lx, ly)
	if err != nil {
		return
	}
	vid := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a, b, c, d := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			bot, east, top, west := rectTags(i, j, nx, ny)
			o.Cells = append(o.Cells,
				&Cell{Id: len(o.Cells), Tag: CellTag, Type: "tri3", Verts: []int{a, b, c}, FTags: []int{bot, east, 0}},
				&Cell{Id: len(o.Cells) + 1, Tag: CellTag, Type: "tri3", Verts: []int{a, c, d}, FTags: []int{0, top, west}},
			)
		}
	}
	err = o.Init()
	return
}

// GenQuadRect generates nx·ny qua4 cells over [0,lx]×[0,ly]
func GenQuadRect(nx, ny int, lx, ly float64) (o *Mesh, err error) {
	o, err = rectVerts(nx, ny, lx, ly)
	if err != nil {
		return
	}
	vid := func(i, j int) int { return i + j*(nx+1) }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			bot, east, top, west := rectTags(i, j, nx, ny)
			o.Cells = append(o.Cells, &Cell{
				Id:    len(o.Cells),
				Tag:   CellTag,
				Type:  "qua4",
				Verts: []int{vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)},
				FTags: []int{bot, east, top, west},
			})
		}
	}
	err = o.Init()
	return
}

func rectVerts(nx, ny int, lx, ly float64) (o *Mesh, err error) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		return nil, chk.Err("rectangle requires positive divisions and lengths. (%d, %d, %g, %g) is invalid", nx, ny, lx, ly)
	}
	o = new(Mesh)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x := []float64{lx * float64(i) / float64(nx), ly * float64(j) / float64(ny)}
			o.Verts = append(o.Verts, &Vert{Id: len(o.Verts), C: x})
		}
	}
	return
}

func rectTags(i, j, nx, ny int) (bot, east, top, west int) {
	if j == 0 {
		bot = TagBottom
	}
	if i == nx-1 {
		east = TagEast
	}
	if j == ny-1 {
		top = TagTop
	}
	if i == 0 {
		west = TagWest
	}
	return
}
