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
	"errors"

	"dirpx.dev/ffx/apis"
)

// ErrNilRunner is returned when an association is constructed without a
// runner to dispatch the nested build to.
var ErrNilRunner = errors.New("ffx(attribute): nil runner for association")

// Association constructs a dynamic attribute whose value comes from running
// another factory's Create step. The target factory name defaults to the
// attribute name; spec.Factory selects a different one. A value already
// present in the running evaluator for this name is reused verbatim, so a
// pre-set value short-circuits the nested build.
func Association(name string, run apis.Runner, spec apis.AssocSpec) (apis.Attribute, error) {
	if run == nil {
		return nil, ErrNilRunner
	}
	target := spec.Factory
	if target == "" {
		target = name
	}
	return Dynamic(name, func(ev apis.Evaluator) (any, error) {
		if v, err := ev.Get(name); err == nil {
			return v, nil
		}
		return run.Create(target, spec.Overrides)
	})
}
