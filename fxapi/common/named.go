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

package common

// Named identifies a fixture class by a stable, canonical factory name.
//
// # Overview
//
// Named is the zero-reflection fast path for deriving a factory name from a
// build class. When a sample value registered through RegisterClass
// implements Named, the class index MUST prefer this interface and MUST NOT
// derive the name from the Go type name.
//
// Semantically, Named is a type-level contract: FactoryName describes the
// *kind* of fixture, not a particular instance. The returned name is
// expected to be independent of instance state and to remain stable across
// program executions as long as the underlying domain model does not change.
//
// # Usage
//
//	type User struct {
//	    ID   string
//	    Name string
//	}
//
//	func (User) FactoryName() string {
//	    return "user"
//	}
//
//	reg.RegisterClass(User{}) // indexed under "user" via the Named fast path
//
// # Naming guidelines
//
// The FactoryName value is expected to be:
//
//   - Stable across program executions (MUST).
//   - Unique within the registry it is indexed in (SHOULD).
//   - Lower-cased, underscored, singular (SHOULD) — the spelling the
//     registry would otherwise derive from the type name.
type Named interface {
	// FactoryName returns the canonical, type-level factory name for this
	// fixture class.
	//
	// # Contract
	//
	//   - The returned name MUST be non-empty.
	//   - The returned name MUST be deterministic for a given concrete type
	//     and MUST NOT depend on mutable instance state.
	//   - The implementation MUST be safe for concurrent calls and MUST NOT
	//     perform blocking operations or I/O; returning a constant string
	//     literal is RECOMMENDED.
	FactoryName() string
}
