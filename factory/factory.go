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

// Package factory implements the attribute-resolution engine: one Factory
// owns an ordered list of attribute definitions for a logical entity name,
// resolves caller overrides against them (including alias rewriting), and
// drives a build strategy through every attribute in declaration order.
package factory

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/attribute"
	"dirpx.dev/ffx/strategy"
	"dirpx.dev/ffx/utils/inflect"
)

var (
	// ErrAttributeDefinition is the umbrella for definition-time attribute
	// errors; the specific sentinels below wrap it.
	ErrAttributeDefinition = errors.New("ffx(factory): attribute definition error")
	// ErrDuplicateAttribute indicates a name already registered on this
	// factory. The factory's attribute set is unchanged after the failure.
	ErrDuplicateAttribute = fmt.Errorf("%w: duplicate attribute name", ErrAttributeDefinition)
	// ErrValueAndComputation indicates an attribute constructed with both a
	// fixed value and a computation.
	ErrValueAndComputation = fmt.Errorf("%w: both value and computation supplied", ErrAttributeDefinition)
	// ErrAmbiguousOverride indicates two override keys that normalize (or
	// alias-resolve) to the same attribute with different values. Rejected
	// rather than letting randomized map order pick a winner.
	ErrAmbiguousOverride = errors.New("ffx(factory): override keys normalize to the same attribute with different values")
	// ErrUnknownOverride indicates a leftover override key under
	// Config.StrictOverrides.
	ErrUnknownOverride = errors.New("ffx(factory): override matches no declared attribute")
	// ErrNilHost is returned when a factory is constructed without a host.
	ErrNilHost = errors.New("ffx(factory): nil host")
	// ErrEmptyName is returned when a factory is constructed with an empty
	// name.
	ErrEmptyName = errors.New("ffx(factory): empty factory name")
)

// Host is what a Factory needs from its registry: dispatch for nested
// association runs, the active config, the process-wide alias rules, and the
// registry-level persistence hook. Passed explicitly so tests can construct
// a fresh registry per case.
type Host interface {
	apis.Runner

	// Config returns the active build configuration.
	Config() apis.Config
	// AliasRules returns the alias rules in registration order.
	AliasRules() []apis.AliasRule
	// Persister returns the registry-level persistence hook, or nil.
	Persister() apis.Persister
}

// Factory is a named recipe for producing instances (or attribute mappings)
// of a build class. Attributes are appended during the definition block and
// never mutated afterwards; name and class are read-only after construction.
type Factory struct {
	host  Host
	name  string
	class reflect.Type
	attrs []apis.Attribute
	index map[string]int // attribute name -> position in attrs
}

// Ensure Factory implements the definition surface.
var _ apis.FactoryDef = (*Factory)(nil)

// New constructs a Factory bound to host with an already-resolved build
// class. The name is normalized (symbol spelling, case).
func New(host Host, name string, class reflect.Type) (*Factory, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	name = inflect.NormalizeKey(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if class == nil {
		return nil, strategy.ErrNilClass
	}
	return &Factory{
		host:  host,
		name:  name,
		class: class,
		index: make(map[string]int),
	}, nil
}

// SetHost rebinds the factory to a new host. Reserved for registry
// migration during config rebuilds; the old host must no longer be used
// once its factories are rebound.
func (f *Factory) SetHost(h Host) error {
	if h == nil {
		return ErrNilHost
	}
	f.host = h
	return nil
}

// hostRunner dispatches nested association runs through the factory's
// current host, so rebinding a factory also redirects its associations.
type hostRunner struct{ f *Factory }

func (h hostRunner) AttributesFor(name string, ov apis.Overrides) (map[string]any, error) {
	return h.f.host.AttributesFor(name, ov)
}

func (h hostRunner) Build(name string, ov apis.Overrides) (any, error) {
	return h.f.host.Build(name, ov)
}

func (h hostRunner) Create(name string, ov apis.Overrides) (any, error) {
	return h.f.host.Create(name, ov)
}

// Name returns the normalized factory name.
func (f *Factory) Name() string { return f.name }

// Class returns the resolved build class.
func (f *Factory) Class() reflect.Type { return f.class }

// AttributeNames returns the declared attribute names in declaration order.
func (f *Factory) AttributeNames() []string {
	out := make([]string, len(f.attrs))
	for i, a := range f.attrs {
		out[i] = a.Name()
	}
	return out
}

// Add registers an attribute with either a fixed value or a computation.
// With both nil, a static nil attribute is registered (the field keeps its
// zero value unless overridden).
func (f *Factory) Add(name string, value any, fn apis.Computation) error {
	if value != nil && fn != nil {
		return fmt.Errorf("%w: %q", ErrValueAndComputation, name)
	}

	nk := inflect.NormalizeKey(name)
	var (
		a   apis.Attribute
		err error
	)
	if fn != nil {
		a, err = attribute.Dynamic(nk, fn)
	} else {
		a, err = attribute.Static(nk, value)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttributeDefinition, err)
	}
	return f.register(a)
}

// Attribute registers a static attribute. Sugar over Add.
func (f *Factory) Attribute(name string, value any) error {
	return f.Add(name, value, nil)
}

// Computed registers a lazily evaluated attribute. Sugar over Add.
func (f *Factory) Computed(name string, fn apis.Computation) error {
	if fn == nil {
		return fmt.Errorf("%w: nil computation for %q", ErrAttributeDefinition, name)
	}
	return f.Add(name, nil, fn)
}

// Association registers a dynamic attribute whose value comes from a nested
// Create run of the target factory (the attribute name unless WithFactory
// is given).
func (f *Factory) Association(name string, opts ...apis.AssocOption) error {
	var spec apis.AssocSpec
	for _, opt := range opts {
		opt(&spec)
	}
	spec.Factory = inflect.NormalizeKey(spec.Factory)

	a, err := attribute.Association(inflect.NormalizeKey(name), hostRunner{f}, spec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttributeDefinition, err)
	}
	return f.register(a)
}

// Sequence registers a counter-backed computed attribute.
func (f *Factory) Sequence(name string, fn func(n int64) any) error {
	a, err := attribute.Sequence(inflect.NormalizeKey(name), fn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttributeDefinition, err)
	}
	return f.register(a)
}

// UUID registers a computed attribute producing a fresh UUID per run.
func (f *Factory) UUID(name string) error {
	a, err := attribute.UUID(inflect.NormalizeKey(name))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttributeDefinition, err)
	}
	return f.register(a)
}

// register appends a built attribute, enforcing per-factory name
// uniqueness. On error the attribute list is unchanged.
func (f *Factory) register(a apis.Attribute) error {
	if _, dup := f.index[a.Name()]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateAttribute, a.Name())
	}
	f.index[a.Name()] = len(f.attrs)
	f.attrs = append(f.attrs, a)
	return nil
}

// Run resolves overrides against the declared attributes and drives a fresh
// strategy of the given kind through them in declaration order. Overridden
// attributes take the caller's value and their own computation is never
// invoked. Leftover override keys are applied verbatim after the declared
// attributes (or rejected under StrictOverrides).
func (f *Factory) Run(kind strategy.Kind, overrides apis.Overrides) (any, error) {
	cfg := f.host.Config()

	norm, err := f.normalizeOverrides(overrides)
	if err != nil {
		return nil, err
	}
	norm, err = f.resolveAliases(norm)
	if err != nil {
		return nil, err
	}

	ev, err := strategy.New(kind, f.class, f.name, f.host.Persister())
	if err != nil {
		return nil, err
	}

	consumed := make(map[string]bool, len(norm))
	for _, a := range f.attrs {
		if v, ok := norm[a.Name()]; ok {
			if err := ev.Set(a.Name(), v); err != nil {
				return nil, err
			}
			consumed[a.Name()] = true
			continue
		}
		if err := a.AddTo(ev); err != nil {
			return nil, err
		}
	}

	// Leftovers in sorted order so failures are deterministic.
	var leftovers []string
	for k := range norm {
		if !consumed[k] {
			leftovers = append(leftovers, k)
		}
	}
	sort.Strings(leftovers)
	for _, k := range leftovers {
		if cfg.StrictOverrides {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOverride, k)
		}
		if err := ev.Set(k, norm[k]); err != nil {
			return nil, err
		}
	}

	return ev.Result()
}

// normalizeOverrides unifies key spellings. Two spellings of the same key
// with different values are rejected as ambiguous; identical values are
// tolerated.
func (f *Factory) normalizeOverrides(overrides apis.Overrides) (map[string]any, error) {
	out := make(map[string]any, len(overrides))
	for k, v := range overrides {
		nk := inflect.NormalizeKey(k)
		if old, exists := out[nk]; exists && !reflect.DeepEqual(old, v) {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousOverride, nk)
		}
		out[nk] = v
	}
	return out, nil
}

// resolveAliases rewrites override keys that match no declared attribute.
// The first rule (in registration order) whose rewrite lands on a declared
// attribute wins; keys no rule can place stay literal and are applied as
// leftovers.
func (f *Factory) resolveAliases(norm map[string]any) (map[string]any, error) {
	rules := f.host.AliasRules()
	out := make(map[string]any, len(norm))
	for k, v := range norm {
		key := k
		if _, declared := f.index[k]; !declared {
			for _, r := range rules {
				rewritten, ok := r.Apply(k)
				if !ok {
					continue
				}
				if _, declared := f.index[rewritten]; declared {
					key = rewritten
					break
				}
			}
		}
		if old, exists := out[key]; exists && !reflect.DeepEqual(old, v) {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousOverride, key)
		}
		out[key] = v
	}
	return out, nil
}
