// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package call

import (
	"errors"
	"fmt"
)

// ErrInsufficientDepth marks a step or region with fewer spanning reads
// than Opts.MinReads.  It is an expected, frequent outcome: callers treat
// it as "no variants here" and continue.  Test with errors.Is.
var ErrInsufficientDepth = errors.New("insufficient read depth")

// ShapeMismatchError reports encoder or inference output whose width
// disagrees with the reference window.  It indicates an upstream contract
// violation: the owning region must be aborted, since reconciliation
// correctness depends on positional alignment.
type ShapeMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s width %d, want %d", e.What, e.Got, e.Want)
}

// IsShapeMismatch reports whether err wraps a ShapeMismatchError.
func IsShapeMismatch(err error) bool {
	var sm *ShapeMismatchError
	return errors.As(err, &sm)
}
