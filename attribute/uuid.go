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
	"github.com/google/uuid"

	"dirpx.dev/ffx/apis"
)

// UUID constructs a computed attribute producing a fresh random UUID string
// per run. Useful for identifier fields that must be unique per fixture.
func UUID(name string) (apis.Attribute, error) {
	return Dynamic(name, func(apis.Evaluator) (any, error) {
		return uuid.NewString(), nil
	})
}
