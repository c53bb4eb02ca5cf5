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

package ffx

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/builder"
	"dirpx.dev/ffx/config"
)

// init initializes the global ffx state.
func init() {
	// Initialize state with default cfg and reg.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

// ErrNilRegistry is returned when a builder returns a nil registry.
var ErrNilRegistry = errors.New("ffx: builder returned nil registry")

// Overrides is re-exported for call-site convenience.
type Overrides = apis.Overrides

// Define registers a factory under name in the global registry. The define
// block receives the factory for attribute and association declarations.
// This is a convenience wrapper around the global reg.
func Define(name string, define func(f apis.FactoryDef) error, opts ...apis.FactoryOption) error {
	return st.Load().reg.Define(name, define, opts...)
}

// AttributesFor runs the named factory without instantiating its build
// class and returns the plain attribute mapping.
// This is a convenience wrapper around the global reg.
func AttributesFor(name string, overrides apis.Overrides) (map[string]any, error) {
	return st.Load().reg.AttributesFor(name, overrides)
}

// Build runs the named factory and returns a pointer to the populated,
// unpersisted instance.
// This is a convenience wrapper around the global reg.
func Build(name string, overrides apis.Overrides) (any, error) {
	return st.Load().reg.Build(name, overrides)
}

// Create runs the named factory and persists the result via the instance's
// create hook or the registry-level persister.
// This is a convenience wrapper around the global reg.
func Create(name string, overrides apis.Overrides) (any, error) {
	return st.Load().reg.Create(name, overrides)
}

// New is the shorthand call form; it is equivalent to Create.
func New(name string, overrides apis.Overrides) (any, error) {
	return Create(name, overrides)
}

// Alias appends a process-wide alias rule to the global reg.
func Alias(pattern, rewrite string) error {
	return st.Load().reg.Alias(pattern, rewrite)
}

// RegisterClass adds a sample value's type to the global class index.
func RegisterClass(sample any, names ...string) error {
	return st.Load().reg.RegisterClass(sample, names...)
}

// SetPersister installs the persistence hook on the global reg.
func SetPersister(p apis.Persister) {
	st.Load().reg.SetPersister(p)
}

// SetAll explicitly sets all global ffx state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Ensure non-nil reg.
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  next,
			reg:  nreg,
			bld:  nbld,
			preg: npreg,
		},
	)
}

// Config returns the global ffx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global ffx configuration to cfg.
// It rebuilds the global reg using the new configuration unless the reg is
// pinned. This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg based on the new cfg and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}

	// Ensure non-nil reg.
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			bld:  b,
			preg: old.preg,
		},
	)
}

// Registry returns the global ffx reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global ffx reg to reg and pins it.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			bld:  old.bld,
			preg: true,
		},
	)
}

// Builder returns the global ffx bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global ffx bld to b.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}

	// Ensure non-nil reg.
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			bld:  b,
			preg: old.preg,
		},
	)
}

// SetExt replaces extension config and rebuilds the non-pinned reg via the
// builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}

	// Ensure non-nil reg.
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			bld:  b,
			preg: old.preg,
		},
	)
}

// ExtAs returns the global ffx extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global ffx reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global ffx reg immutable.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			bld:  old.bld,
			preg: true,
		},
	)
}

// UnpinRegistry makes the global ffx reg mutable again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			bld:  old.bld,
			preg: false,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global ffx state.
var st atomic.Pointer[state]

// state is the global ffx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global ffx configuration.
	cfg apis.Config
	// ext is the global ffx extension configuration.
	ext any
	// reg is the global ffx reg.
	reg apis.Registry
	// bld is the global ffx bld.
	bld apis.Builder
	// preg indicates whether the reg is pinned (immutable).
	preg bool
}
