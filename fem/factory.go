// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/chk"

// KernelSet holds the element kernels registered under one name
type KernelSet struct {
	Rank     int                 // 1: linear form; 2: bilinear form
	Cell     CellKernel          // over cells; may be nil
	Exterior FacetKernel         // over boundary facets; may be nil
	Interior InteriorFacetKernel // over interior facets; may be nil
}

// kernels holds all kernel sets
var kernels = make(map[string]*KernelSet)

// SetKernel registers a kernel set
func SetKernel(name string, ks *KernelSet) {
	if _, ok := kernels[name]; ok {
		chk.Panic("cannot set kernel %q because this name exists already", name)
	}
	if ks.Rank != 1 && ks.Rank != 2 {
		chk.Panic("kernel %q must have rank 1 or 2. %d is invalid", name, ks.Rank)
	}
	kernels[name] = ks
}

// GetKernel returns a kernel set; it panics if name is not available
func GetKernel(name string) *KernelSet {
	if ks, ok := kernels[name]; ok {
		return ks
	}
	chk.Panic("cannot get kernel %q", name)
	return nil
}

// LookupKernel returns a kernel set or an error if name is not available
func LookupKernel(name string) (ks *KernelSet, err error) {
	ks, ok := kernels[name]
	if !ok {
		return nil, chk.Err("kernel %q is not available", name)
	}
	return
}

// NewIntegral returns an integral of kind t over tag using the kernel registered as name
func NewIntegral(t IntegralType, name string, tag int) (itg Integral, rank int, err error) {
	ks, err := LookupKernel(name)
	if err != nil {
		return
	}
	rank = ks.Rank
	switch {
	case t == Cell && ks.Cell != nil:
		itg = &CellIntegral{ID: tag, Kernel: ks.Cell}
	case t == ExteriorFacet && ks.Exterior != nil:
		itg = &ExteriorFacetIntegral{ID: tag, Kernel: ks.Exterior}
	case t == InteriorFacet && ks.Interior != nil:
		itg = &InteriorFacetIntegral{ID: tag, Kernel: ks.Interior}
	default:
		err = chk.Err("kernel %q has no %v integral", name, t)
	}
	return
}
