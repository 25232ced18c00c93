// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrViewReleased is returned when a sub-tensor view is used after its block step ended
var ErrViewReleased = errors.New("sub-tensor view used after release")

// StatusError reports a failing backend primitive. Assembly cannot continue after it.
type StatusError struct {
	Op    string // backend operation; e.g. "AssemblyBegin"
	Where string // file:line of the call
	Err   error  // error returned by the backend
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed at %s: %v", e.Op, e.Where, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// status wraps a non-nil error returned by the backend operation op called by the caller of status
func status(err error, op string) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) {
		return err
	}
	where := "?"
	if _, file, line, ok := runtime.Caller(1); ok {
		where = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return &StatusError{Op: op, Where: where, Err: err}
}
