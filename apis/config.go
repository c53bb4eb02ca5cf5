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

// Config carries read-only build knobs that influence factory runs and
// build-class resolution. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// MaxUnwrap limits container unwrapping depth (ptr/slice/array) when
	// normalizing an explicit build class to its nearest named struct type.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int

	// StrictOverrides controls what happens to override keys that match no
	// declared attribute after alias resolution. If false, leftovers are
	// applied to the build strategy verbatim (ad hoc fields). If true, a
	// leftover key fails the run.
	StrictOverrides bool

	// InferClasses controls whether a factory with no explicit class option
	// may infer its build class from the factory name (singularized,
	// camelized, looked up in the class index). If false, such factories
	// fail at definition time.
	InferClasses bool
}
