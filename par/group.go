// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package par

import (
	"fmt"
	"sync"

	"github.com/cpmech/gosl/chk"
	"golang.org/x/sync/errgroup"
)

// kinds of collective messages
const (
	kindInts = iota + 1
	kindFloats
)

// envelope holds one message between two members
type envelope struct {
	kind int       // kindInts or kindFloats
	seq  int       // collective call number at sender
	ints []int     // integer payload
	flts []float64 // float payload
}

// Group implements a process group whose members live in this OS process; e.g. as goroutines.
// Each member owns its Comm; members must not share a Comm.
type Group struct {
	size  int
	boxes [][]chan envelope // [to][from] mailboxes
	done  chan struct{}     // closed on abort
	once  sync.Once
	cause error
}

// NewGroup returns a new group with size members
func NewGroup(size int) (o *Group) {
	if size < 1 {
		chk.Panic("group size must be positive. %d is invalid", size)
	}
	o = &Group{size: size, done: make(chan struct{})}
	o.boxes = make([][]chan envelope, size)
	for to := 0; to < size; to++ {
		o.boxes[to] = make([]chan envelope, size)
		for from := 0; from < size; from++ {
			o.boxes[to][from] = make(chan envelope, 2)
		}
	}
	return
}

// Size returns the number of members
func (o *Group) Size() int { return o.size }

// Comm returns the communicator of member rank
func (o *Group) Comm(rank int) Comm {
	if rank < 0 || rank >= o.size {
		chk.Panic("rank %d is out of range [0, %d)", rank, o.size)
	}
	return &member{grp: o, rank: rank}
}

// Abort stops the group; members blocked on collectives return ErrAborted.
// Only the first cause is recorded.
func (o *Group) Abort(cause error) {
	o.once.Do(func() {
		o.cause = cause
		close(o.done)
	})
}

// Cause returns the error that aborted the group, if any
func (o *Group) Cause() error {
	select {
	case <-o.done:
		return o.cause
	default:
		return nil
	}
}

// aborted returns the error seen by members after an abort
func (o *Group) aborted() error {
	return fmt.Errorf("%w: %v", ErrAborted, o.cause)
}

// Run executes fcn on every member of a new group and waits for all of them.
// The first failing member aborts the group such that the others do not block on collectives;
// the error of that member is returned. Panics are converted into errors.
func Run(size int, fcn func(comm Comm) error) error {
	grp := NewGroup(size)
	var eg errgroup.Group
	for rank := 0; rank < size; rank++ {
		comm := grp.Comm(rank)
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = chk.Err("rank %d panicked: %v", comm.Rank(), r)
				}
				if err != nil {
					grp.Abort(err)
				}
			}()
			return fcn(comm)
		})
	}
	err := eg.Wait()
	if cause := grp.Cause(); cause != nil {
		return cause
	}
	return err
}

// member implements Comm for one member of a Group
type member struct {
	grp  *Group
	rank int
	seq  int
}

func (o *member) Rank() int { return o.rank }
func (o *member) Size() int { return o.grp.size }

func (o *member) Barrier() (err error) {
	_, err = o.ExchangeI(make([][]int, o.grp.size))
	return
}

func (o *member) ExchangeI(send [][]int) (recv [][]int, err error) {
	if len(send) != o.grp.size {
		return nil, chk.Err("exchange requires %d buffers. %d is invalid", o.grp.size, len(send))
	}
	out := make([]envelope, len(send))
	for p, s := range send {
		out[p] = envelope{kind: kindInts, ints: append([]int{}, s...)}
	}
	in, err := o.exchange(out)
	if err != nil {
		return
	}
	recv = make([][]int, len(in))
	for p, env := range in {
		recv[p] = env.ints
	}
	return
}

func (o *member) ExchangeF(send [][]float64) (recv [][]float64, err error) {
	if len(send) != o.grp.size {
		return nil, chk.Err("exchange requires %d buffers. %d is invalid", o.grp.size, len(send))
	}
	out := make([]envelope, len(send))
	for p, s := range send {
		out[p] = envelope{kind: kindFloats, flts: append([]float64{}, s...)}
	}
	in, err := o.exchange(out)
	if err != nil {
		return
	}
	recv = make([][]float64, len(in))
	for p, env := range in {
		recv[p] = env.flts
	}
	return
}

// exchange posts one envelope to every member and then receives one from every member
func (o *member) exchange(out []envelope) (in []envelope, err error) {
	o.seq++
	for p := range out {
		out[p].seq = o.seq
		select {
		case o.grp.boxes[p][o.rank] <- out[p]:
		case <-o.grp.done:
			return nil, o.grp.aborted()
		}
	}
	in = make([]envelope, len(out))
	for p := range in {
		select {
		case env := <-o.grp.boxes[o.rank][p]:
			if env.seq != o.seq || env.kind != out[p].kind {
				err = fmt.Errorf("%w: rank %d at call %d (kind %d) received call %d (kind %d) from rank %d",
					ErrCollective, o.rank, o.seq, out[p].kind, env.seq, env.kind, p)
				o.grp.Abort(err)
				return nil, err
			}
			in[p] = env
		case <-o.grp.done:
			return nil, o.grp.aborted()
		}
	}
	return
}
