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

package factory_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ffx/apis"
	"dirpx.dev/ffx/config"
	"dirpx.dev/ffx/factory"
	"dirpx.dev/ffx/strategy"
)

type User struct {
	FirstName string
	LastName  string
}

// stubHost is a minimal factory.Host for isolated Run tests. Nested runs
// record the dispatched factory name and return a canned value.
type stubHost struct {
	cfg     apis.Config
	rules   []apis.AliasRule
	created []string
	nested  any
}

func (h *stubHost) AttributesFor(string, apis.Overrides) (map[string]any, error) {
	return nil, nil
}

func (h *stubHost) Build(string, apis.Overrides) (any, error) { return nil, nil }

func (h *stubHost) Create(name string, _ apis.Overrides) (any, error) {
	h.created = append(h.created, name)
	return h.nested, nil
}

func (h *stubHost) Config() apis.Config          { return h.cfg }
func (h *stubHost) AliasRules() []apis.AliasRule { return h.rules }
func (h *stubHost) Persister() apis.Persister    { return nil }

func newFactory(t *testing.T, h factory.Host) *factory.Factory {
	t.Helper()
	f, err := factory.New(h, ":user", reflect.TypeOf(User{}))
	require.NoError(t, err)
	return f
}

func TestNew_Validation(t *testing.T) {
	_, err := factory.New(nil, "user", reflect.TypeOf(User{}))
	assert.ErrorIs(t, err, factory.ErrNilHost)

	_, err = factory.New(&stubHost{}, "  ", reflect.TypeOf(User{}))
	assert.ErrorIs(t, err, factory.ErrEmptyName)

	_, err = factory.New(&stubHost{}, "user", nil)
	assert.ErrorIs(t, err, strategy.ErrNilClass)
}

func TestNew_NormalizesName(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})
	assert.Equal(t, "user", f.Name())
	assert.Equal(t, reflect.TypeOf(User{}), f.Class())
}

func TestAttributeNames_DeclarationOrder(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})
	require.NoError(t, f.Attribute("first_name", "Jane"))
	require.NoError(t, f.Attribute(":LastName", "Doe"))
	assert.Equal(t, []string{"first_name", "last_name"}, f.AttributeNames())
}

func TestRun_DeclarationOrderDrivesEvaluation(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})

	// last_name depends on first_name, so it must be declared after it.
	require.NoError(t, f.Attribute("first_name", "Jane"))
	require.NoError(t, f.Computed("last_name", func(ev apis.Evaluator) (any, error) {
		return ev.Get("first_name")
	}))

	out, err := f.Run(strategy.AttributesFor, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first_name": "Jane", "last_name": "Jane"}, out)
}

func TestRun_OrderingErrorSurfaces(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})

	require.NoError(t, f.Computed("last_name", func(ev apis.Evaluator) (any, error) {
		return ev.Get("first_name")
	}))
	require.NoError(t, f.Attribute("first_name", "Jane"))

	_, err := f.Run(strategy.AttributesFor, nil)
	assert.ErrorIs(t, err, strategy.ErrUnresolvedAttribute)
}

func TestRun_AliasFirstMatchingRuleWins(t *testing.T) {
	h := &stubHost{
		cfg: config.DefaultConfig(),
		rules: []apis.AliasRule{
			{Pattern: regexp.MustCompile(`^(?:(.+)_ref)$`), Rewrite: `$1`},
			{Pattern: regexp.MustCompile(`^(?:user_ref)$`), Rewrite: `last_name`},
		},
	}
	f := newFactory(t, h)
	require.NoError(t, f.Attribute("user", "default"))
	require.NoError(t, f.Attribute("last_name", "Doe"))

	out, err := f.Run(strategy.AttributesFor, apis.Overrides{"user_ref": "x"})
	require.NoError(t, err)
	attrs := out.(map[string]any)
	assert.Equal(t, "x", attrs["user"], "the earlier rule claims the key")
	assert.Equal(t, "Doe", attrs["last_name"])
}

func TestRun_AliasSkipsRulesWithUndeclaredTargets(t *testing.T) {
	h := &stubHost{
		cfg: config.DefaultConfig(),
		rules: []apis.AliasRule{
			{Pattern: regexp.MustCompile(`^(?:(.+)_ref)$`), Rewrite: `$1`},
			{Pattern: regexp.MustCompile(`^(?:user_ref)$`), Rewrite: `last_name`},
		},
	}
	f := newFactory(t, h)
	// No "user" attribute, so the first rule's rewrite lands nowhere and
	// the second rule gets its turn.
	require.NoError(t, f.Attribute("last_name", "Doe"))

	out, err := f.Run(strategy.AttributesFor, apis.Overrides{"user_ref": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", out.(map[string]any)["last_name"])
}

func TestRun_AliasCollisionWithDirectKey(t *testing.T) {
	h := &stubHost{
		cfg: config.DefaultConfig(),
		rules: []apis.AliasRule{
			{Pattern: regexp.MustCompile(`^(?:(.+)_id)$`), Rewrite: `$1`},
		},
	}
	f := newFactory(t, h)
	require.NoError(t, f.Attribute("user", "default"))

	_, err := f.Run(strategy.AttributesFor, apis.Overrides{
		"user":    "direct",
		"user_id": "aliased",
	})
	assert.ErrorIs(t, err, factory.ErrAmbiguousOverride)
}

func TestAssociation_DispatchesThroughCurrentHost(t *testing.T) {
	h1 := &stubHost{cfg: config.DefaultConfig(), nested: "from-h1"}
	f := newFactory(t, h1)
	require.NoError(t, f.Association("author", apis.WithFactory("user")))

	out, err := f.Run(strategy.AttributesFor, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-h1", out.(map[string]any)["author"])
	assert.Equal(t, []string{"user"}, h1.created)

	// Rebinding the factory redirects nested runs to the new host.
	h2 := &stubHost{cfg: config.DefaultConfig(), nested: "from-h2"}
	require.NoError(t, f.SetHost(h2))

	out, err = f.Run(strategy.AttributesFor, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-h2", out.(map[string]any)["author"])
	assert.Equal(t, []string{"user"}, h2.created)
	assert.Equal(t, []string{"user"}, h1.created, "the old host sees no further traffic")
}

func TestSetHost_NilRejected(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})
	assert.ErrorIs(t, f.SetHost(nil), factory.ErrNilHost)
}

func TestComputed_NilComputation(t *testing.T) {
	f := newFactory(t, &stubHost{cfg: config.DefaultConfig()})
	err := f.Computed("email", nil)
	assert.ErrorIs(t, err, factory.ErrAttributeDefinition)
}
