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
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/ffx/utils/inflect"
)

var (
	// ErrFieldNotFound is returned when no exported struct field matches a
	// normalized attribute name (by ffx tag or underscored field name).
	ErrFieldNotFound = errors.New("reflect: no struct field matches attribute")
	// ErrFieldType is returned when a value is neither assignable nor
	// convertible to the matched field's type.
	ErrFieldType = errors.New("reflect: value type does not fit struct field")
	// ErrNotStructPointer is returned when the assignment target is not a
	// non-nil pointer to a struct.
	ErrNotStructPointer = errors.New("reflect: target is not a pointer to struct")
)

// FieldByAttr locates the exported field of st (a struct type) matching the
// normalized attribute name. An `ffx:"name"` tag wins over the underscored
// field name. The bool reports whether a field was found.
func FieldByAttr(st reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		if tag, ok := f.Tag.Lookup("ffx"); ok {
			if tagName, _, _ := strings.Cut(tag, ","); tagName == name {
				return f, true
			}
			continue // an explicit tag suppresses name matching
		}
		if inflect.Underscore(f.Name) == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// AssignField sets the attribute name on target, a pointer to a struct, to
// value. Values assignable to the field are set directly; convertible values
// are converted; nil zeroes the field.
func AssignField(target any, name string, value any) error {
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	elem := v.Elem()

	f, ok := FieldByAttr(elem.Type(), name)
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrFieldNotFound, name, elem.Type())
	}
	fv := elem.FieldByIndex(f.Index)

	if value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	vv := reflect.ValueOf(value)
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(fv.Type()):
		fv.Set(vv.Convert(fv.Type()))
	default:
		return fmt.Errorf("%w: %s into field %s %s", ErrFieldType, vv.Type(), f.Name, fv.Type())
	}
	return nil
}

// FieldValue reads the attribute name from target, a pointer to a struct.
// The bool reports whether a matching field exists.
func FieldValue(target any, name string) (any, bool) {
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, false
	}
	elem := v.Elem()
	f, ok := FieldByAttr(elem.Type(), name)
	if !ok {
		return nil, false
	}
	return elem.FieldByIndex(f.Index).Interface(), true
}
