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

// Package attribute provides the attribute-definition variants a factory is
// composed of: static values, lazily computed values, associations that
// trigger nested factory runs, sequences, and UUIDs.
package attribute

import (
	"errors"
	"fmt"

	"dirpx.dev/ffx/apis"
)

var (
	// ErrEmptyName is returned when an attribute is constructed with an
	// empty name.
	ErrEmptyName = errors.New("ffx(attribute): empty attribute name")
	// ErrNilComputation is returned when a dynamic attribute is constructed
	// without a computation.
	ErrNilComputation = errors.New("ffx(attribute): nil computation")
)

// static is a fixed-value attribute.
type static struct {
	name  string
	value any
}

// Static constructs a fixed-value attribute. The value is applied
// unconditionally on every run the attribute is not overridden in.
func Static(name string, value any) (apis.Attribute, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return static{name: name, value: value}, nil
}

func (a static) Name() string { return a.name }

func (a static) AddTo(s apis.BuildStrategy) error {
	return s.Set(a.name, a.value)
}

// dynamic is a computed attribute. The computation runs only when the
// attribute is actually applied: an overridden dynamic attribute's
// computation is never invoked.
type dynamic struct {
	name string
	fn   apis.Computation
}

// Dynamic constructs a lazily computed attribute. The computation always
// receives the in-progress evaluator; computations that need no sibling
// lookups ignore it.
func Dynamic(name string, fn apis.Computation) (apis.Attribute, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if fn == nil {
		return nil, ErrNilComputation
	}
	return dynamic{name: name, fn: fn}, nil
}

func (a dynamic) Name() string { return a.name }

func (a dynamic) AddTo(s apis.BuildStrategy) error {
	v, err := a.fn(s)
	if err != nil {
		return fmt.Errorf("ffx(attribute): computing %q: %w", a.name, err)
	}
	return s.Set(a.name, v)
}
