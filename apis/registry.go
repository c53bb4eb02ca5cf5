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

import "reflect"

// Runner dispatches the three public build operations to a named factory.
// It is the surface association attributes call back into, so it is kept
// separate from the wider Registry interface.
type Runner interface {
	// AttributesFor runs the factory under the attribute-collection
	// strategy: no instance is constructed, nothing is persisted.
	AttributesFor(name string, overrides Overrides) (map[string]any, error)

	// Build runs the factory under the in-memory strategy and returns a
	// pointer to the populated, unpersisted instance.
	Build(name string, overrides Overrides) (any, error)

	// Create runs the factory under the persisting strategy: Build plus
	// the persistence hook.
	Create(name string, overrides Overrides) (any, error)
}

// FactoryDef is the definition-time surface handed to a Define block.
// All declaration errors (duplicate name, value and computation together)
// are reported synchronously and abort the block.
type FactoryDef interface {
	// Name returns the normalized factory name.
	Name() string

	// Class returns the resolved build class (a named struct type).
	Class() reflect.Type

	// Add registers an attribute with either a fixed value or a
	// computation. Supplying both, or neither, is a definition error, as
	// is reusing a declared name.
	Add(name string, value any, fn Computation) error

	// Attribute registers a static attribute. Sugar over Add.
	Attribute(name string, value any) error

	// Computed registers a lazily evaluated attribute. Sugar over Add.
	Computed(name string, fn Computation) error

	// Association registers a dynamic attribute whose value comes from a
	// nested Create of another factory. The target factory name defaults
	// to the attribute name unless WithFactory is given.
	Association(name string, opts ...AssocOption) error

	// Sequence registers a computed attribute backed by a monotonically
	// increasing counter, starting at 1, scoped to this attribute.
	Sequence(name string, fn func(n int64) any) error

	// UUID registers a computed attribute producing a fresh UUID string
	// per run.
	UUID(name string) error
}

// Registry is the front door: it maps normalized factory names to factory
// definitions, owns the process-wide alias-rule list and the class index,
// and dispatches the three build operations. Populate it during a
// single-threaded setup phase; reads are safe concurrently afterwards.
type Registry interface {
	Runner

	// Define constructs a factory, passes it to define for attribute and
	// association declarations, and stores it keyed by normalized name.
	// A half-defined factory is never stored: if define fails, the
	// registry is unchanged. An empty name is allowed when an explicit
	// class option is present; the name is then derived from the class.
	Define(name string, define func(f FactoryDef) error, opts ...FactoryOption) error

	// Alias appends a process-wide alias rule used by every subsequent
	// run across all factories. pattern is a regular expression matched
	// against the whole key; rewrite uses regexp.Expand syntax.
	Alias(pattern, rewrite string) error

	// AliasRules returns the current rule list in registration order.
	AliasRules() []AliasRule

	// RegisterClass adds sample's type to the class index so factories
	// can resolve it by name. With no explicit names the type is indexed
	// under its lower-cased, underscored type name and its bare type name.
	RegisterClass(sample any, names ...string) error

	// LookupClass returns the indexed type for a normalized class name.
	LookupClass(name string) (reflect.Type, bool)

	// ClassName returns the factory-style name an indexed type was
	// registered under.
	ClassName(t reflect.Type) (string, bool)

	// SetPersister installs the registry-level persistence hook used by
	// Create when the instance itself carries none.
	SetPersister(p Persister)

	// Persister returns the registry-level persistence hook, or nil.
	Persister() Persister

	// Entries returns a snapshot for diagnostics/docs (order is
	// unspecified).
	Entries() []Entry

	// Count returns the number of defined factories.
	Count() int

	// Reset clears all factories, classes, and non-default alias rules.
	Reset()
}

// Entry is a single (name, class) association in a Registry snapshot.
type Entry struct {
	// Name is the normalized factory name.
	Name string
	// Class is the factory's resolved build class.
	Class reflect.Type
}

// FactorySpec collects the recognized Define options.
type FactorySpec struct {
	// Class is an explicit build class. Takes precedence over ClassName.
	Class reflect.Type
	// ClassName is an explicit class name resolved via the class index.
	ClassName string
}

// FactoryOption mutates a FactorySpec during Define.
type FactoryOption func(*FactorySpec)

// WithClass sets the build class from a sample value (typically a zero
// value or pointer to one). The nearest named struct type is used.
func WithClass(sample any) FactoryOption {
	return func(s *FactorySpec) {
		if sample != nil {
			s.Class = reflect.TypeOf(sample)
		}
	}
}

// WithClassType sets the build class explicitly.
func WithClassType(t reflect.Type) FactoryOption {
	return func(s *FactorySpec) {
		s.Class = t
	}
}

// WithClassName sets the build class by name, resolved through the class
// index at definition time.
func WithClassName(name string) FactoryOption {
	return func(s *FactorySpec) {
		s.ClassName = name
	}
}

// AssocSpec collects the recognized Association options.
type AssocSpec struct {
	// Factory is the target factory name. Empty means "same as the
	// attribute name".
	Factory string
	// Overrides are passed to the nested Create run.
	Overrides Overrides
}

// AssocOption mutates an AssocSpec during Association.
type AssocOption func(*AssocSpec)

// WithFactory targets the association at a differently named factory.
func WithFactory(name string) AssocOption {
	return func(s *AssocSpec) {
		s.Factory = name
	}
}

// WithAssocOverrides passes overrides to the nested Create run.
func WithAssocOverrides(ov Overrides) AssocOption {
	return func(s *AssocSpec) {
		s.Overrides = ov
	}
}
