// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Strategy defines how cells are distributed among partitions
type Strategy int

const (
	BlockPartition Strategy = iota // consecutive cells
	RoundRobin                     // cyclic distribution
)

// ParseStrategy converts a name ("block" or "roundrobin") into Strategy; empty means "block"
func ParseStrategy(name string) (s Strategy, err error) {
	switch name {
	case "", "block":
		return BlockPartition, nil
	case "roundrobin":
		return RoundRobin, nil
	}
	return 0, chk.Err("partition strategy %q is not available", name)
}

// Partition sets Cell.Part of all cells such that cells are shared by nparts processes
func (o *Mesh) Partition(nparts int, strategy Strategy) (err error) {
	if nparts < 1 {
		return chk.Err("number of partitions must be positive. %d is invalid", nparts)
	}
	ncells := len(o.Cells)
	per := int(math.Ceil(float64(ncells) / float64(nparts)))
	for i, c := range o.Cells {
		switch strategy {
		case BlockPartition:
			c.Part = i / per
			if c.Part >= nparts {
				c.Part = nparts - 1
			}
		case RoundRobin:
			c.Part = i % nparts
		default:
			return chk.Err("partition strategy %d is not available", strategy)
		}
	}
	o.Nparts = nparts
	o.Part2cells = make(map[int][]*Cell)
	for _, c := range o.Cells {
		o.Part2cells[c.Part] = append(o.Part2cells[c.Part], c)
	}
	return
}
