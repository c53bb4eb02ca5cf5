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

// Package ffx provides a global, process-wide fixture-factory service.
//
// ffx lets test code register named "factories" describing how to build
// instances of a struct type: which attributes get which values (static,
// computed, derived from associated factories, sequences), and which build
// strategy to apply. Examples: build an unpersisted User, create a Post
// whose author comes from a nested user factory, or collect a plain
// attribute mapping without instantiating anything.
//
// # Design
//
// The core of ffx is a read-mostly global snapshot (state). The snapshot
// holds three things:
//
//   - Config: knobs that control how factory runs behave (override
//     strictness, class-inference, normalization unwrap depth).
//
//   - Registry: a process-wide mapping from factory names to factory
//     definitions, plus the append-only alias-rule list and the class
//     index used for build-class resolution. The registry is populated
//     during a single-threaded setup phase (Define/Alias/RegisterClass)
//     and read by the build operations afterwards.
//
//   - Builder: a pluggable factory that knows how to construct Registry
//     instances for a given Config (and optional extension data). The
//     Builder is allowed to migrate definitions from previous Registry
//     instances when the Config changes.
//
// All of these live inside a single immutable struct called state.
// The package holds an atomic pointer to the current state. Readers load
// that pointer, use it, and never mutate it. Writers build a brand-new
// state and atomically swap it in, so build operations are lock-free on
// the hot path:
//
//	user, err := ffx.Build("user", nil)
//	attrs, err := ffx.AttributesFor("post", ffx.Overrides{"title": "x"})
//
// # Factories
//
// A factory is defined once, against a registry, with its attributes
// declared in dependency order:
//
//	ffx.RegisterClass(User{})
//	err := ffx.Define("user", func(f apis.FactoryDef) error {
//	    if err := f.Attribute("first_name", "Jane"); err != nil {
//	        return err
//	    }
//	    if err := f.Sequence("email", func(n int64) any {
//	        return fmt.Sprintf("jane%d@example.com", n)
//	    }); err != nil {
//	        return err
//	    }
//	    return f.Computed("full_name", func(ev apis.Evaluator) (any, error) {
//	        first, err := ev.Get("first_name")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return fmt.Sprintf("%v Doe", first), nil
//	    })
//	})
//
// Build strategies:
//
//   - AttributesFor collects a key→value map. The build class is never
//     instantiated, and nothing is persisted.
//   - Build instantiates the class and assigns every attribute onto the
//     matching exported struct field (by `ffx` tag, then by underscored
//     field name). Nothing is persisted.
//   - Create is Build plus one invocation of the persistence hook: the
//     instance's own common.Creator method if implemented, otherwise the
//     registry-level apis.Persister.
//
// Overrides take precedence over declared attributes, and an overridden
// computed attribute's computation is never invoked. Override keys accept
// string and "symbol" spellings interchangeably ("first_name",
// ":first_name", "FirstName"), and alias rules translate keys like
// "user_id" to the underlying "user" attribute.
//
// # Associations
//
// An association is a computed attribute whose value comes from running
// another factory's Create step:
//
//	err := ffx.Define("post", func(f apis.FactoryDef) error {
//	    if err := f.Attribute("title", "hello"); err != nil {
//	        return err
//	    }
//	    return f.Association("author", apis.WithFactory("user"))
//	})
//
// Supplying an override for the association's name short-circuits the
// nested run.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Build helpers:
//
//     AttributesFor(name, overrides) (map[string]any, error)
//     Build(name, overrides) (any, error)
//     Create(name, overrides) (any, error)
//     New(name, overrides) (any, error)   // shorthand for Create
//
//     These are safe for concurrent use once the setup phase is over.
//     They always read from the latest published snapshot.
//
//  2. Setup and mutation helpers:
//
//     Define(name, block, opts...)
//     Alias(pattern, rewrite)
//     RegisterClass(sample, names...)
//     SetPersister(p)
//     SetConfig(cfg)
//     SetBuilder(b)
//     SetRegistry(reg)
//     SetExt(ext)
//     SetAll(...)
//
//     SetConfig/SetBuilder/SetExt acquire an internal build lock, derive
//     a new snapshot (rebuilding or migrating the Registry as needed),
//     and atomically publish it. SetRegistry overwrites and "pins" the
//     registry: ffx stops rebuilding it until UnpinRegistry is called.
//     SetAll is the hard-reset API, mainly used by tests to get a clean
//     deterministic state between cases.
//
//  3. Introspection:
//
//     Registry().Entries(), Registry().Count(), ExtAs[T]()
//
// # Concurrency model
//
// Reads are wait-free: they load the current *state atomically and never
// take locks. Writes take a short build mutex, assemble a brand-new state,
// and publish it via an atomic pointer swap. Each factory run allocates a
// fresh, unshared build strategy, so concurrent runs never share mutable
// state. The registry itself is write-once-then-read-many: define all
// factories and aliases during a single-threaded setup phase before
// invoking runs from multiple goroutines.
//
// # Scope
//
// ffx is intentionally small. It is not a persistence layer (Create
// delegates to the instance's hook or a pluggable Persister), not a
// validation framework, and not a DI container. Everything else — loading
// definition files, wiring stores — belongs to the definitions and
// persist packages layered on top.
package ffx
