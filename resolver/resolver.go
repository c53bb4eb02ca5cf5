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

// Package resolver turns a factory's Define options into a build class.
// A Resolver tries strategies in priority order: explicit class type >
// explicit class name (class index lookup) > inference from the factory
// name (singularized, camelized, class index lookup).
package resolver

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/utils/inflect"
	uref "dirpx.dev/ffx/utils/reflect"
)

var (
	// ErrUnresolvedClass is returned when no strategy can produce a build
	// class for a factory. Raised at factory construction time.
	ErrUnresolvedClass = errors.New("ffx(resolver): cannot resolve build class")
	// ErrUnknownClassName is returned when an explicit class-name option
	// matches nothing in the class index.
	ErrUnknownClassName = errors.New("ffx(resolver): class name not in index")
)

// ClassIndex answers name→type lookups. The registry implements it.
type ClassIndex interface {
	// LookupClass returns the indexed type for a normalized class name.
	LookupClass(name string) (reflect.Type, bool)
}

// Strategy is a pluggable resolution step. A Resolver chains multiple
// strategies in order.
type Strategy interface {
	// TryResolve attempts to produce a build class for the factory. It
	// returns handled=true when this strategy is responsible for the
	// outcome (success or failure); otherwise the chain falls through.
	TryResolve(spec apis.FactorySpec, factoryName string, idx ClassIndex, cfg apis.Config) (t reflect.Type, handled bool, err error)
}

// Resolver resolves build classes by running strategies in order.
type Resolver interface {
	// Resolve returns the build class for a factory, or an error wrapping
	// ErrUnresolvedClass when no strategy handles it.
	Resolve(spec apis.FactorySpec, factoryName string, idx ClassIndex, cfg apis.Config) (reflect.Type, error)
}

// New constructs a Resolver over the given strategies. Nil strategies are
// ignored.
func New(strategies ...Strategy) Resolver {
	out := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// Default returns the standard chain: explicit type, explicit name,
// inference.
func Default() Resolver {
	return New(explicitType{}, namedClass{}, inferred{})
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	strats []Strategy
}

func (c chain) Resolve(spec apis.FactorySpec, factoryName string, idx ClassIndex, cfg apis.Config) (reflect.Type, error) {
	for _, s := range c.strats {
		if t, handled, err := s.TryResolve(spec, factoryName, idx, cfg); handled {
			return t, err
		}
	}
	return nil, fmt.Errorf("%w: factory %q", ErrUnresolvedClass, factoryName)
}

// explicitType handles the explicit class option: the supplied type is
// normalized to its nearest named struct type (so &User{} resolves to User).
type explicitType struct{}

var _ Strategy = explicitType{}

func (explicitType) TryResolve(spec apis.FactorySpec, factoryName string, _ ClassIndex, cfg apis.Config) (reflect.Type, bool, error) {
	if spec.Class == nil {
		return nil, false, nil
	}
	t, err := uref.Normalize(spec.Class, cfg.MaxUnwrap)
	if err != nil {
		return nil, true, fmt.Errorf("%w: factory %q: %v", ErrUnresolvedClass, factoryName, err)
	}
	return t, true, nil
}

// namedClass handles the explicit class-name option via the class index.
// An explicit name that resolves to nothing is an error, not a fallthrough.
type namedClass struct{}

var _ Strategy = namedClass{}

func (namedClass) TryResolve(spec apis.FactorySpec, factoryName string, idx ClassIndex, _ apis.Config) (reflect.Type, bool, error) {
	if spec.ClassName == "" {
		return nil, false, nil
	}
	if idx == nil {
		return nil, true, fmt.Errorf("%w: %q (no class index)", ErrUnknownClassName, spec.ClassName)
	}
	if t, ok := idx.LookupClass(inflect.NormalizeKey(spec.ClassName)); ok {
		return t, true, nil
	}
	return nil, true, fmt.Errorf("%w: %q for factory %q", ErrUnknownClassName, spec.ClassName, factoryName)
}

// inferred derives the class from the factory name: the normalized name and
// its singular form are tried against the class index.
type inferred struct{}

var _ Strategy = inferred{}

func (inferred) TryResolve(_ apis.FactorySpec, factoryName string, idx ClassIndex, cfg apis.Config) (reflect.Type, bool, error) {
	if !cfg.InferClasses || idx == nil {
		return nil, false, nil
	}
	name := inflect.NormalizeKey(factoryName)
	for _, candidate := range []string{name, inflect.Singularize(name)} {
		if t, ok := idx.LookupClass(candidate); ok {
			return t, true, nil
		}
	}
	return nil, false, nil
}
