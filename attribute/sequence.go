/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package attribute

import (
	"sync/atomic"

	"dirpx.dev/ffx/apis"
)

// Sequence constructs a computed attribute backed by a monotonically
// increasing counter starting at 1. Each run that applies the attribute
// (i.e. does not override it) observes the next value. The counter is owned
// by the attribute instance and safe for concurrent runs.
func Sequence(name string, fn func(n int64) any) (apis.Attribute, error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	var n atomic.Int64
	return Dynamic(name, func(apis.Evaluator) (any, error) {
		return fn(n.Add(1)), nil
	})
}
