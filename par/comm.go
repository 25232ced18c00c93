// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package par implements the process group and the parallel index layout of distributed dofs
package par

import (
	"errors"

	"github.com/cpmech/gosl/chk"
)

// errors reported by process groups
var (
	ErrAborted    = errors.New("process group aborted")
	ErrCollective = errors.New("collective calls issued in different order")
)

// Comm defines a fixed group of cooperating processes.
//  Note: all methods, except Rank and Size, are collective; i.e. every process in the group
//        must call them, in the same order, regardless of having data to contribute or not.
type Comm interface {
	Rank() int                                                // this process number
	Size() int                                                // number of processes in group
	Barrier() error                                           // waits for all processes
	ExchangeI(send [][]int) (recv [][]int, err error)         // send[p] goes to p; recv[p] came from p
	ExchangeF(send [][]float64) (recv [][]float64, err error) // send[p] goes to p; recv[p] came from p
}

// Serial implements Comm for a single process
type Serial struct{}

// Rank returns 0
func (Serial) Rank() int { return 0 }

// Size returns 1
func (Serial) Size() int { return 1 }

// Barrier does nothing
func (Serial) Barrier() error { return nil }

// ExchangeI returns a copy of send
func (Serial) ExchangeI(send [][]int) (recv [][]int, err error) {
	if len(send) != 1 {
		return nil, chk.Err("serial exchange requires exactly one buffer. %d is invalid", len(send))
	}
	return [][]int{append([]int{}, send[0]...)}, nil
}

// ExchangeF returns a copy of send
func (Serial) ExchangeF(send [][]float64) (recv [][]float64, err error) {
	if len(send) != 1 {
		return nil, chk.Err("serial exchange requires exactly one buffer. %d is invalid", len(send))
	}
	return [][]float64{append([]float64{}, send[0]...)}, nil
}
