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

// Creator is the instance-level persistence hook invoked by the Create
// build strategy.
//
// # Overview
//
// The factory engine is not a persistence layer: Create delegates actual
// persistence to the built instance itself. When the instance (a pointer to
// the build class) implements Creator, the Create strategy MUST invoke
// Create exactly once, after every attribute has been applied, and MUST
// propagate its error to the caller. When the instance does not implement
// Creator, the registry-level Persister (if any) is used instead.
//
// Build and AttributesFor runs MUST NOT invoke this hook.
//
// # Usage
//
//	type User struct {
//	    ID   string
//	    Name string
//	}
//
//	func (u *User) Create() error {
//	    return usersTable.Insert(u)
//	}
//
// # Contract
//
//   - Create is called synchronously on the goroutine driving the run;
//     implementations MAY block on I/O (this is the one sanctioned I/O
//     point in a factory run).
//   - Create MUST be idempotent only to the extent the backing store
//     requires; the engine calls it once per Create run.
//   - A non-nil error fails the run; the engine performs no retries.
type Creator interface {
	// Create persists the receiver.
	Create() error
}
