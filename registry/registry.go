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

// Package registry implements the factory front door: a name-keyed table of
// factory definitions, the process-wide alias-rule list, and the class
// index used for build-class resolution. Populate during a single-threaded
// setup phase; build operations are safe concurrently afterwards.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sync"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/config"
	"dirpx.dev/ffx/factory"
	"dirpx.dev/ffx/fxapi/common"
	"dirpx.dev/ffx/resolver"
	"dirpx.dev/ffx/strategy"
	"dirpx.dev/ffx/utils/inflect"
	uref "dirpx.dev/ffx/utils/reflect"
)

var (
	// ErrUnknownFactory is returned when a build operation names a factory
	// not present in the registry.
	ErrUnknownFactory = errors.New("ffx(registry): no such factory")
	// ErrEmptyName is returned when Define is given neither a name nor an
	// explicit class to derive one from.
	ErrEmptyName = errors.New("ffx(registry): empty factory name")
	// ErrNilDefine is returned when Define is given a nil definition block.
	ErrNilDefine = errors.New("ffx(registry): nil define block")
	// ErrDuplicateFactory indicates an attempt to define a factory under a
	// name that is already taken.
	ErrDuplicateFactory = errors.New("ffx(registry): duplicate factory name")
	// ErrNilSample is returned when RegisterClass is given nil.
	ErrNilSample = errors.New("ffx(registry): nil class sample")
	// ErrConflictingRegistration indicates an attempt to index a class name
	// that already maps to a different type.
	ErrConflictingRegistration = errors.New("ffx(registry): conflicting class registration")
	// ErrBadAliasPattern is returned when an alias pattern fails to compile.
	ErrBadAliasPattern = errors.New("ffx(registry): invalid alias pattern")
)

// Default alias: an override key ending in "_id" stands in for the
// association attribute of the same stem.
const (
	defaultAliasPattern = `(.+)_id`
	defaultAliasRewrite = `$1`
)

// New constructs a Registry with the given configuration and the default
// alias rule seeded.
func New(cfg apis.Config) *Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	r := &Registry{cfg: cfg, res: resolver.Default()}
	r.seedAliasesLocked()
	return r
}

// Registry is the concrete apis.Registry implementation. It also serves as
// the factory.Host for every factory it owns and as the resolver.ClassIndex
// for build-class resolution.
type Registry struct {
	// cfg is the configuration factories read at run time.
	cfg apis.Config
	// res resolves build classes at definition time.
	res resolver.Resolver

	// mu guards write-side consistency, the counter, aliases and persister.
	mu sync.Mutex
	// factories maps normalized name to *factory.Factory.
	factories sync.Map
	// count tracks the number of defined factories.
	count int
	// aliases is the append-only rule list, default rule first.
	aliases []apis.AliasRule
	// classes maps normalized class name to reflect.Type.
	classes sync.Map
	// names maps reflect.Type to its factory-style name.
	names sync.Map
	// persister is the registry-level persistence hook, may be nil.
	persister apis.Persister
}

// Interface conformance.
var (
	_ apis.Registry       = (*Registry)(nil)
	_ factory.Host        = (*Registry)(nil)
	_ resolver.ClassIndex = (*Registry)(nil)
)

// Config returns the active configuration.
func (r *Registry) Config() apis.Config { return r.cfg }

// Define constructs a factory, runs the definition block against it, and
// stores it keyed by normalized name. On any error the registry is
// unchanged; a half-defined factory is never stored.
func (r *Registry) Define(name string, define func(f apis.FactoryDef) error, opts ...apis.FactoryOption) error {
	if define == nil {
		return ErrNilDefine
	}

	var spec apis.FactorySpec
	for _, opt := range opts {
		opt(&spec)
	}

	nk := inflect.NormalizeKey(name)
	if nk == "" && spec.Class == nil && spec.ClassName == "" {
		return ErrEmptyName
	}

	class, err := r.res.Resolve(spec, nk, r, r.cfg)
	if err != nil {
		return err
	}
	if nk == "" {
		// Factory constructed directly from a type: the name is the
		// lower-cased, underscored type name.
		nk = r.nameForClass(class)
	}

	f, err := factory.New(r, nk, class)
	if err != nil {
		return err
	}
	if err := define(f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.factories.Load(nk); taken {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, nk)
	}
	r.factories.Store(nk, f)
	r.count++
	r.indexClassLocked(class, nk)
	return nil
}

// nameForClass derives the factory-style name for a class: an indexed name
// wins, otherwise the underscored type name.
func (r *Registry) nameForClass(class reflect.Type) string {
	if v, ok := r.names.Load(class); ok {
		return v.(string)
	}
	return inflect.Underscore(class.Name())
}

// indexClassLocked records a class in the index both ways without
// overwriting existing entries. Caller holds r.mu.
func (r *Registry) indexClassLocked(class reflect.Type, name string) {
	r.classes.LoadOrStore(name, class)
	r.classes.LoadOrStore(inflect.Underscore(class.Name()), class)
	r.names.LoadOrStore(class, name)
}

// Lookup returns the factory stored under the (normalized) name.
func (r *Registry) Lookup(name string) (*factory.Factory, bool) {
	v, ok := r.factories.Load(inflect.NormalizeKey(name))
	if !ok {
		return nil, false
	}
	return v.(*factory.Factory), true
}

// AttributesFor runs the named factory under the attribute-collection
// strategy and returns the plain mapping.
func (r *Registry) AttributesFor(name string, overrides apis.Overrides) (map[string]any, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}
	out, err := f.Run(strategy.AttributesFor, overrides)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// Build runs the named factory under the in-memory strategy.
func (r *Registry) Build(name string, overrides apis.Overrides) (any, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}
	return f.Run(strategy.Build, overrides)
}

// Create runs the named factory under the persisting strategy.
func (r *Registry) Create(name string, overrides apis.Overrides) (any, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}
	return f.Run(strategy.Create, overrides)
}

// Alias appends a process-wide alias rule. The pattern is anchored on both
// ends, so it must match the whole override key.
func (r *Registry) Alias(pattern, rewrite string) error {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadAliasPattern, pattern, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases = append(r.aliases, apis.AliasRule{Pattern: re, Rewrite: rewrite})
	return nil
}

// AliasRules returns a copy of the rule list in registration order.
func (r *Registry) AliasRules() []apis.AliasRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.AliasRule, len(r.aliases))
	copy(out, r.aliases)
	return out
}

// defaultAliasRule is compiled once; the pattern is a constant.
var defaultAliasRule = apis.AliasRule{
	Pattern: regexp.MustCompile("^(?:" + defaultAliasPattern + ")$"),
	Rewrite: defaultAliasRewrite,
}

// seedAliasesLocked installs the default rule set. Caller holds r.mu (or
// has exclusive access during construction).
func (r *Registry) seedAliasesLocked() {
	r.aliases = []apis.AliasRule{defaultAliasRule}
}

// RegisterClass adds sample's type to the class index. With no explicit
// names, the type is indexed under its derived name: the common.Named fast
// path if implemented, otherwise the lower-cased, underscored type name.
func (r *Registry) RegisterClass(sample any, names ...string) error {
	if sample == nil {
		return ErrNilSample
	}
	t, err := uref.Normalize(reflect.TypeOf(sample), r.cfg.MaxUnwrap)
	if err != nil {
		return err
	}

	derived := inflect.Underscore(t.Name())
	if n, ok := sample.(common.Named); ok {
		derived = inflect.NormalizeKey(n.FactoryName())
	}

	keys := make([]string, 0, len(names)+1)
	if len(names) == 0 {
		keys = append(keys, derived)
	}
	for _, n := range names {
		keys = append(keys, inflect.NormalizeKey(n))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		if k == "" {
			return ErrEmptyName
		}
		if old, ok := r.classes.Load(k); ok {
			if old.(reflect.Type) == t {
				continue // idempotent re-registration
			}
			return fmt.Errorf("%w: %q", ErrConflictingRegistration, k)
		}
		r.classes.Store(k, t)
	}
	// Always make the bare type name resolvable too.
	r.classes.LoadOrStore(inflect.Underscore(t.Name()), t)
	r.names.LoadOrStore(t, derived)
	return nil
}

// LookupClass returns the indexed type for a normalized class name.
func (r *Registry) LookupClass(name string) (reflect.Type, bool) {
	v, ok := r.classes.Load(inflect.NormalizeKey(name))
	if !ok {
		return nil, false
	}
	return v.(reflect.Type), true
}

// ClassName returns the factory-style name a type was indexed under.
func (r *Registry) ClassName(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return "", false
	}
	if v, ok := r.names.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// SetPersister installs the registry-level persistence hook.
func (r *Registry) SetPersister(p apis.Persister) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persister = p
}

// Persister returns the registry-level persistence hook, or nil.
func (r *Registry) Persister() apis.Persister {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persister
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *Registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.factories.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Name:  key.(string),
			Class: value.(*factory.Factory).Class(),
		})
		return true
	})
	return entries
}

// Count returns the number of defined factories.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all factories, the class index, the persister, and restores
// the default alias rules.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = sync.Map{}
	r.classes = sync.Map{}
	r.names = sync.Map{}
	r.count = 0
	r.persister = nil
	r.seedAliasesLocked()
}

// CopyInto migrates this registry's state into next: factories (rebound to
// next), alias rules (replacing next's wholesale), the class index, and the
// persister. Used by builders during config rebuilds; the source registry
// must not be used afterwards.
func (r *Registry) CopyInto(next *Registry) {
	if next == nil || next == r {
		return
	}

	rules := r.AliasRules()
	pers := r.Persister()

	next.mu.Lock()
	next.aliases = rules
	if pers != nil {
		next.persister = pers
	}
	next.mu.Unlock()

	r.classes.Range(func(k, v any) bool {
		next.classes.LoadOrStore(k, v)
		return true
	})
	r.names.Range(func(k, v any) bool {
		next.names.LoadOrStore(k, v)
		return true
	})

	r.factories.Range(func(k, v any) bool {
		f := v.(*factory.Factory)
		if err := f.SetHost(next); err != nil {
			return true
		}
		next.mu.Lock()
		if _, taken := next.factories.Load(k); !taken {
			next.factories.Store(k, f)
			next.count++
		}
		next.mu.Unlock()
		return true
	})
}
