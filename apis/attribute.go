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

// Computation is a deferred attribute value. It runs only when the attribute
// is actually applied to a build strategy: an overridden attribute's
// computation is never invoked. The evaluator argument allows lookups of
// sibling attributes already resolved in the current run; computations that
// need no siblings simply ignore it.
type Computation func(ev Evaluator) (any, error)

// Attribute is one named attribute definition inside a factory. Static
// attributes carry a fixed value; dynamic attributes carry a Computation
// evaluated lazily against the in-progress run.
type Attribute interface {
	// Name returns the normalized attribute name.
	Name() string

	// AddTo applies this attribute's value (fixed or computed) to the
	// build strategy for the current run.
	AddTo(s BuildStrategy) error
}

// Overrides is a caller-supplied mapping of attribute names to concrete
// values that take precedence over a factory's declared attributes for one
// run. Keys are normalized before lookup, so "FirstName", ":first_name" and
// "first_name" all refer to the same attribute.
type Overrides map[string]any
