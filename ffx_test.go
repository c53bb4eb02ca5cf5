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

package ffx_test

import (
	"fmt"
	"testing"

	"dirpx.dev/ffx"
	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/builder"
	"dirpx.dev/ffx/config"
	"dirpx.dev/ffx/registry"
)

type User struct {
	FirstName string
	Email     string
}

type Post struct {
	Title string
	User  *User
}

// spyPersister records registry-level persistence calls.
type spyPersister struct {
	names []string
}

func (p *spyPersister) Persist(factoryName string, _ any) error {
	p.names = append(p.names, factoryName)
	return nil
}

// countingBuilder wraps the default builder and counts BuildRegistry calls.
type countingBuilder struct {
	inner apis.Builder
	calls int
}

func (b *countingBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.calls++
	return b.inner.BuildRegistry(cfg, prev, ext)
}

// resetGlobal swaps in a fresh, unpinned default state so cases do not leak
// into each other.
func resetGlobal(t *testing.T) {
	t.Helper()
	cfg := config.DefaultConfig()
	ffx.SetAll(&cfg, nil, registry.New(cfg), builder.New())
	ffx.UnpinRegistry()
}

func defineUser(t *testing.T) {
	t.Helper()
	if err := ffx.RegisterClass(User{}); err != nil {
		t.Fatal(err)
	}
	err := ffx.Define("user", func(f apis.FactoryDef) error {
		if err := f.Attribute("first_name", "Jane"); err != nil {
			return err
		}
		return f.Computed("email", func(ev apis.Evaluator) (any, error) {
			first, err := ev.Get("first_name")
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("%v@example.com", first), nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGlobalBuildOperations(t *testing.T) {
	resetGlobal(t)
	defineUser(t)

	attrs, err := ffx.AttributesFor("user", nil)
	if err != nil {
		t.Fatal(err)
	}
	if attrs["email"] != "Jane@example.com" {
		t.Errorf("attrs = %v", attrs)
	}

	out, err := ffx.Build("user", ffx.Overrides{"first_name": "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if u := out.(*User); u.FirstName != "Ada" || u.Email != "Ada@example.com" {
		t.Errorf("built %+v", u)
	}
}

func TestGlobalCreateAndNew(t *testing.T) {
	resetGlobal(t)
	defineUser(t)

	p := &spyPersister{}
	ffx.SetPersister(p)

	if _, err := ffx.Create("user", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ffx.New("user", nil); err != nil {
		t.Fatal(err)
	}
	if len(p.names) != 2 || p.names[0] != "user" || p.names[1] != "user" {
		t.Errorf("persisted %v", p.names)
	}
}

func TestGlobalAlias(t *testing.T) {
	resetGlobal(t)
	defineUser(t)
	if err := ffx.RegisterClass(Post{}); err != nil {
		t.Fatal(err)
	}
	err := ffx.Define("post", func(f apis.FactoryDef) error {
		if err := f.Attribute("title", "hello"); err != nil {
			return err
		}
		return f.Association("user")
	})
	if err != nil {
		t.Fatal(err)
	}

	attrs, err := ffx.AttributesFor("post", ffx.Overrides{"user_id": 42})
	if err != nil {
		t.Fatal(err)
	}
	if attrs["user"] != 42 {
		t.Errorf("attrs = %v", attrs)
	}
}

func TestSetConfig_MigratesDefinitions(t *testing.T) {
	resetGlobal(t)
	defineUser(t)
	before := ffx.Registry()

	cfg := ffx.Config()
	cfg.StrictOverrides = true
	ffx.SetConfig(cfg)

	if ffx.Registry() == before {
		t.Fatal("registry was not rebuilt")
	}
	if got := ffx.Config(); !got.StrictOverrides {
		t.Fatal("config not applied")
	}

	// Definitions survive the rebuild and the new config takes effect.
	if _, err := ffx.Build("user", nil); err != nil {
		t.Fatalf("definition lost in migration: %v", err)
	}
	if _, err := ffx.Build("user", ffx.Overrides{"nickname": "ada"}); err == nil {
		t.Fatal("strict overrides not enforced after migration")
	}
}

func TestSetRegistry_Pins(t *testing.T) {
	resetGlobal(t)

	own := registry.New(config.DefaultConfig())
	ffx.SetRegistry(own)
	if !ffx.IsRegistryPinned() {
		t.Fatal("SetRegistry must pin")
	}
	if ffx.Registry() != apis.Registry(own) {
		t.Fatal("registry not installed")
	}

	// While pinned, config changes do not touch the registry.
	ffx.SetConfig(config.NewConfig(config.WithStrictOverrides(true)))
	if ffx.Registry() != apis.Registry(own) {
		t.Fatal("pinned registry was replaced")
	}

	ffx.UnpinRegistry()
	if ffx.IsRegistryPinned() {
		t.Fatal("UnpinRegistry did not clear the pin")
	}
	ffx.SetConfig(config.DefaultConfig())
	if ffx.Registry() == apis.Registry(own) {
		t.Fatal("unpinned registry should be rebuilt on config change")
	}
}

func TestSetBuilder_RebuildsThroughIt(t *testing.T) {
	resetGlobal(t)
	defineUser(t)

	b := &countingBuilder{inner: builder.New()}
	ffx.SetBuilder(b)
	if b.calls != 1 {
		t.Fatalf("BuildRegistry calls = %d, want 1", b.calls)
	}
	if ffx.Builder() != apis.Builder(b) {
		t.Fatal("builder not installed")
	}

	if _, err := ffx.Build("user", nil); err != nil {
		t.Fatalf("definition lost across builder swap: %v", err)
	}
}

func TestExtRoundTrip(t *testing.T) {
	resetGlobal(t)

	type env struct{ Name string }
	ffx.SetExt(env{Name: "ci"})

	got, ok := ffx.ExtAs[env]()
	if !ok || got.Name != "ci" {
		t.Fatalf("ExtAs = %+v, %v", got, ok)
	}
	if _, ok := ffx.ExtAs[string](); ok {
		t.Fatal("ExtAs must fail on a type mismatch")
	}
}

func TestSetAll_NilComponentsKeepOld(t *testing.T) {
	resetGlobal(t)
	defineUser(t)

	oldCfg := ffx.Config()
	oldBld := ffx.Builder()

	ffx.SetAll(nil, "ext-payload", nil, nil)

	if ffx.Config() != oldCfg {
		t.Fatal("config changed")
	}
	if ffx.Builder() != oldBld {
		t.Fatal("builder changed")
	}
	if got, ok := ffx.ExtAs[string](); !ok || got != "ext-payload" {
		t.Fatalf("ext = %v, %v", got, ok)
	}
	// The registry is rebuilt (reg argument was nil) but definitions
	// migrate.
	if _, err := ffx.Build("user", nil); err != nil {
		t.Fatalf("definition lost: %v", err)
	}
}
