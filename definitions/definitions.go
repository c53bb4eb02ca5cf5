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

// Package definitions loads factory definitions from YAML files and applies
// them to a registry. It implements the conventional discovery layout: a
// factories.yaml file or a factories/ directory, searched under a project
// root and its spec/ and test/ subtrees.
//
// The file format covers the declarative subset of the definition DSL —
// static attributes, associations, and explicit class names:
//
//	factories:
//	  user:
//	    class: User
//	    attributes:
//	      first_name: Jane
//	      active: true
//	  post:
//	    attributes:
//	      title: hello
//	    associations:
//	      author:
//	        factory: user
//
// Computed attributes and sequences need Go code and stay in Define blocks.
// Build classes referenced by name must already be in the registry's class
// index (RegisterClass) before Apply runs.
package definitions

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"dirpx.dev/ffx/apis"
)

var (
	// ErrNilRegistry is returned when a load target registry is nil.
	ErrNilRegistry = errors.New("ffx(definitions): nil registry")
	// ErrNoDefinitions is returned by Discover when no definition file
	// exists under any conventional location.
	ErrNoDefinitions = errors.New("ffx(definitions): no definition files found")
)

// File is the top-level YAML document.
type File struct {
	Factories map[string]Definition `yaml:"factories"`
}

// Definition describes one factory.
type Definition struct {
	// Class optionally names the build class (resolved via the class
	// index). Empty means inference from the factory name.
	Class string `yaml:"class"`
	// Attributes are static attribute values.
	Attributes map[string]any `yaml:"attributes"`
	// Associations are nested-factory attributes.
	Associations map[string]Association `yaml:"associations"`
}

// Association describes one association attribute.
type Association struct {
	// Factory optionally targets a differently named factory.
	Factory string `yaml:"factory"`
}

// Parse decodes one YAML document.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("ffx(definitions): decode: %w", err)
	}
	return &f, nil
}

// ParseFile decodes the YAML document at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ffx(definitions): open %s: %w", path, err)
	}
	defer fh.Close()
	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

// Apply defines every factory in f on reg. Factory names, attribute names,
// and association attributes are applied in sorted order so failures are
// deterministic; static YAML attributes carry no inter-attribute
// dependencies, so ordering does not change results.
func Apply(reg apis.Registry, f *File) error {
	if reg == nil {
		return ErrNilRegistry
	}
	if f == nil || len(f.Factories) == 0 {
		return nil
	}

	names := make([]string, 0, len(f.Factories))
	for name := range f.Factories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := f.Factories[name]

		var opts []apis.FactoryOption
		if def.Class != "" {
			opts = append(opts, apis.WithClassName(def.Class))
		}

		err := reg.Define(name, func(fd apis.FactoryDef) error {
			attrs := make([]string, 0, len(def.Attributes))
			for a := range def.Attributes {
				attrs = append(attrs, a)
			}
			sort.Strings(attrs)
			for _, a := range attrs {
				if err := fd.Attribute(a, def.Attributes[a]); err != nil {
					return err
				}
			}

			assocs := make([]string, 0, len(def.Associations))
			for a := range def.Associations {
				assocs = append(assocs, a)
			}
			sort.Strings(assocs)
			for _, a := range assocs {
				var aopts []apis.AssocOption
				if t := def.Associations[a].Factory; t != "" {
					aopts = append(aopts, apis.WithFactory(t))
				}
				if err := fd.Association(a, aopts...); err != nil {
					return err
				}
			}
			return nil
		}, opts...)
		if err != nil {
			return fmt.Errorf("ffx(definitions): factory %q: %w", name, err)
		}
	}
	return nil
}

// LoadFile parses the file at path and applies it to reg.
func LoadFile(reg apis.Registry, path string) error {
	f, err := ParseFile(path)
	if err != nil {
		return err
	}
	return Apply(reg, f)
}

// LoadDir applies every *.yaml and *.yml file directly under dir, in
// lexical order.
func LoadDir(reg apis.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("ffx(definitions): read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			if err := LoadFile(reg, filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Discover searches the conventional locations under root — factories.yaml
// and factories/ in root itself and in its spec/ and test/ subtrees — and
// loads everything it finds. It returns ErrNoDefinitions when no location
// exists.
func Discover(reg apis.Registry, root string) error {
	if reg == nil {
		return ErrNilRegistry
	}

	found := false
	for _, base := range []string{root, filepath.Join(root, "spec"), filepath.Join(root, "test")} {
		file := filepath.Join(base, "factories.yaml")
		if ok, err := loadIfFile(reg, file); err != nil {
			return err
		} else if ok {
			found = true
		}

		dir := filepath.Join(base, "factories")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			if err := LoadDir(reg, dir); err != nil {
				return err
			}
			found = true
		}
	}

	if !found {
		return fmt.Errorf("%w: under %s", ErrNoDefinitions, root)
	}
	return nil
}

// loadIfFile loads path when it exists as a regular file.
func loadIfFile(reg apis.Registry, path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ffx(definitions): stat %s: %w", path, err)
	}
	if st.IsDir() {
		return false, nil
	}
	return true, LoadFile(reg, path)
}
