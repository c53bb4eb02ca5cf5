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

package reflect

import (
	"errors"
	"reflect"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// containers) does not contain a named type (e.g., anonymous struct).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
	// ErrReflectNotStruct indicates that the nearest named type is not a
	// struct and therefore cannot serve as a build class.
	ErrReflectNotStruct = errors.New("reflect: build class is not a struct type")
)

// Normalize unwraps containers up to maxUnwrap levels and returns the
// nearest named struct type, or an error if none is found.
//
// Unwrapping policy:
//   - ptr/slice/array -> Elem()
//   - default: if t.Name() != "" and t is a struct, return t;
//     named non-struct -> ErrReflectNotStruct; anonymous -> ErrReflectTypeNotNamed.
//
// If maxUnwrap <= 0, a depth of 1 is used (the type itself).
func Normalize(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = 1
	}

	for i := 0; t != nil && i < maxUnwrap; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array:
			t = t.Elem()

		default:
			if t.Name() == "" {
				return nil, ErrReflectTypeNotNamed
			}
			if t.Kind() != reflect.Struct {
				return nil, ErrReflectNotStruct
			}
			return t, nil
		}
	}

	// After reaching max depth, ensure we ended on a named struct.
	if t != nil && t.Name() != "" && t.Kind() == reflect.Struct {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}
