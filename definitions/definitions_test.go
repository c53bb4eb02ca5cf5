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

package definitions_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/ffx/config"
	"dirpx.dev/ffx/definitions"
	"dirpx.dev/ffx/registry"
)

type User struct {
	FirstName string
	Active    bool
}

type Post struct {
	Title  string
	Author *User
}

const sampleYAML = `
factories:
  user:
    attributes:
      first_name: Jane
      active: true
  post:
    attributes:
      title: hello
    associations:
      author:
        factory: user
`

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(config.DefaultConfig())
	require.NoError(t, r.RegisterClass(User{}))
	require.NoError(t, r.RegisterClass(Post{}))
	return r
}

func TestParse(t *testing.T) {
	f, err := definitions.Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.Len(t, f.Factories, 2, "parsed: %s", spew.Sdump(f))

	assert.Equal(t, "Jane", f.Factories["user"].Attributes["first_name"])
	assert.Equal(t, true, f.Factories["user"].Attributes["active"])
	assert.Equal(t, "user", f.Factories["post"].Associations["author"].Factory)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := definitions.Parse(strings.NewReader(`
factories:
  user:
    attrs:
      name: x
`))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	r := newRegistry(t)
	f, err := definitions.Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, definitions.Apply(r, f))

	out, err := r.Build("user", nil)
	require.NoError(t, err)
	u := out.(*User)
	assert.Equal(t, "Jane", u.FirstName)
	assert.True(t, u.Active)

	out, err = r.Build("post", nil)
	require.NoError(t, err)
	p := out.(*Post)
	assert.Equal(t, "hello", p.Title)
	require.NotNil(t, p.Author)
	assert.Equal(t, "Jane", p.Author.FirstName)
}

func TestApply_ExplicitClass(t *testing.T) {
	r := newRegistry(t)
	f, err := definitions.Parse(strings.NewReader(`
factories:
  admin:
    class: User
    attributes:
      first_name: Root
`))
	require.NoError(t, err)
	require.NoError(t, definitions.Apply(r, f))

	out, err := r.Build("admin", nil)
	require.NoError(t, err)
	assert.Equal(t, "Root", out.(*User).FirstName)
}

func TestApply_NilArguments(t *testing.T) {
	assert.ErrorIs(t, definitions.Apply(nil, &definitions.File{}), definitions.ErrNilRegistry)
	assert.NoError(t, definitions.Apply(newRegistry(t), nil))
}

func TestLoadDir_LexicalOrder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("10_users.yaml", `
factories:
  user:
    attributes:
      first_name: Jane
`)
	write("20_posts.yml", `
factories:
  post:
    attributes:
      title: hello
`)
	write("ignored.txt", "not yaml")

	r := newRegistry(t)
	require.NoError(t, definitions.LoadDir(r, dir))
	assert.Equal(t, 2, r.Count())
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "factories.yaml"), []byte(`
factories:
  user:
    attributes:
      first_name: Jane
`), 0o644))

	specDir := filepath.Join(root, "spec", "factories")
	require.NoError(t, os.MkdirAll(specDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(specDir, "posts.yaml"), []byte(`
factories:
  post:
    attributes:
      title: hello
`), 0o644))

	r := newRegistry(t)
	require.NoError(t, definitions.Discover(r, root))
	assert.Equal(t, 2, r.Count())

	_, err := r.Build("post", nil)
	assert.NoError(t, err)
}

func TestDiscover_NothingFound(t *testing.T) {
	r := newRegistry(t)
	err := definitions.Discover(r, t.TempDir())
	assert.ErrorIs(t, err, definitions.ErrNoDefinitions)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := definitions.ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
