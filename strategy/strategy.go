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

// Package strategy implements the three build strategies a factory run can
// apply: AttributesFor (plain mapping), Build (in-memory instance), and
// Create (instance plus persistence hook). A strategy instance is created
// fresh per run and never shared.
package strategy

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/fxapi/common"
	uref "dirpx.dev/ffx/utils/reflect"
)

var (
	// ErrUnresolvedAttribute is returned by Get when a computation asks for
	// a sibling attribute not yet resolved in the current run. Declare
	// attributes in dependency order.
	ErrUnresolvedAttribute = errors.New("ffx(strategy): attribute not yet resolved in this run")
	// ErrResulted is returned by Set after Result has been read; a strategy
	// is terminal once its product is taken.
	ErrResulted = errors.New("ffx(strategy): strategy already resulted")
	// ErrNilClass is returned when an instantiating strategy is constructed
	// without a build class.
	ErrNilClass = errors.New("ffx(strategy): nil build class")
	// ErrUnknownKind is returned by New for an out-of-range Kind.
	ErrUnknownKind = errors.New("ffx(strategy): unknown strategy kind")
)

// New constructs the strategy for kind, bound to the factory's build class.
// factoryName and p are only consulted by Create (for the registry-level
// persistence hook); AttributesFor ignores the class entirely.
func New(kind Kind, class reflect.Type, factoryName string, p apis.Persister) (apis.BuildStrategy, error) {
	switch kind {
	case AttributesFor:
		return &attrMap{values: make(map[string]any)}, nil
	case Build:
		b, err := newBuilder(class)
		if err != nil {
			return nil, err
		}
		return b, nil
	case Create:
		b, err := newBuilder(class)
		if err != nil {
			return nil, err
		}
		return &creator{builder: b, factoryName: factoryName, persister: p}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// attrMap collects attribute values into a plain mapping. It never touches
// the build class and never persists.
type attrMap struct {
	values map[string]any
	done   bool
}

func (s *attrMap) Set(name string, value any) error {
	if s.done {
		return ErrResulted
	}
	s.values[name] = value
	return nil
}

func (s *attrMap) Get(name string) (any, error) {
	if v, ok := s.values[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvedAttribute, name)
}

func (s *attrMap) Result() (any, error) {
	s.done = true
	return s.values, nil
}

// builder assigns attribute values onto a live instance of the build class.
// resolved doubles as the sibling-lookup table: it records only attributes
// processed so far in this run, which is what Get must expose.
type builder struct {
	instance any
	resolved map[string]any
	done     bool
}

func newBuilder(class reflect.Type) (*builder, error) {
	if class == nil {
		return nil, ErrNilClass
	}
	return &builder{
		instance: reflect.New(class).Interface(),
		resolved: make(map[string]any),
	}, nil
}

func (s *builder) Set(name string, value any) error {
	if s.done {
		return ErrResulted
	}
	if err := uref.AssignField(s.instance, name, value); err != nil {
		return err
	}
	s.resolved[name] = value
	return nil
}

func (s *builder) Get(name string) (any, error) {
	if v, ok := s.resolved[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvedAttribute, name)
}

func (s *builder) Result() (any, error) {
	s.done = true
	return s.instance, nil
}

// creator is builder plus the persistence step. The instance's own
// common.Creator hook wins over the registry-level persister; with neither,
// Create degrades to Build semantics.
type creator struct {
	*builder
	factoryName string
	persister   apis.Persister
	persisted   bool
}

func (s *creator) Result() (any, error) {
	obj, err := s.builder.Result()
	if err != nil {
		return nil, err
	}
	if s.persisted {
		return obj, nil
	}
	s.persisted = true

	if c, ok := obj.(common.Creator); ok {
		if err := c.Create(); err != nil {
			return nil, fmt.Errorf("ffx(strategy): create hook for %q: %w", s.factoryName, err)
		}
		return obj, nil
	}
	if s.persister != nil {
		if err := s.persister.Persist(s.factoryName, obj); err != nil {
			return nil, fmt.Errorf("ffx(strategy): persist %q: %w", s.factoryName, err)
		}
	}
	return obj, nil
}
