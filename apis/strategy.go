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

package apis

// Evaluator is the read surface a computed attribute sees while a run is in
// progress. Get returns the value of a sibling attribute that has already
// been resolved in the current run, or an error if it has not been resolved
// yet (attributes are applied in declaration order, so dependencies must be
// declared before their dependents).
type Evaluator interface {
	// Get returns the previously resolved value for name. Asking for an
	// attribute not yet processed in this run is an ordering error.
	Get(name string) (any, error)
}

// BuildStrategy is the per-run build policy: collect a plain attribute
// mapping, construct an in-memory instance, or construct and persist one.
// A strategy instance is created fresh for every run, driven through every
// attribute in declaration order, and discarded after Result.
//
// Lifecycle: Created -> Populated (via Set) -> Resulted. A strategy is
// terminal after Result; further Set calls fail.
type BuildStrategy interface {
	Evaluator

	// Set applies one resolved attribute value. Depending on the variant
	// this stores into a mapping or assigns a struct field.
	Set(name string, value any) error

	// Result finishes the run and returns the strategy's product: the
	// attribute mapping, the built instance, or the persisted instance.
	Result() (any, error)
}
