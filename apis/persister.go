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

// Persister is the registry-level persistence hook invoked by the Create
// strategy for instances that do not carry their own common.Creator hook.
// The library delegates all actual persistence to implementations; it is
// not a persistence layer itself.
type Persister interface {
	// Persist stores obj, which was produced by the named factory.
	// Called synchronously at the end of a Create run; an error fails
	// the run.
	Persist(factoryName string, obj any) error
}
