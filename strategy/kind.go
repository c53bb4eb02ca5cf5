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

package strategy

import (
	"fmt"
	"strings"
)

// Kind selects the build strategy a factory run applies.
//
// # Values
//
//   - AttributesFor — collect a plain attribute mapping; the build class is
//     never instantiated and the persistence hook is never invoked.
//   - Build — instantiate the build class and assign attributes onto it;
//     no persistence side effects.
//   - Create — Build plus one invocation of the persistence hook.
//
// Kind values are plain integers and safe for concurrent use. The textual
// tokens produced by String/MarshalText are a stable, public API.
type Kind int

const (
	// AttributesFor collects a key→value mapping without instantiation.
	AttributesFor Kind = iota

	// Build constructs an in-memory, unpersisted instance.
	Build

	// Create constructs an instance and invokes the persistence hook.
	Create
)

// String returns the stable token for a Kind, or "Unknown(<n>)" for
// out-of-range values. It never panics, so corrupted values can still be
// surfaced in diagnostics.
func (k Kind) String() string {
	switch k {
	case AttributesFor:
		return "AttributesFor"
	case Build:
		return "Build"
	case Create:
		return "Create"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Parse converts a textual token into a Kind. Matching is case-insensitive
// and tolerates surrounding whitespace and an underscored spelling of
// AttributesFor. On failure it returns AttributesFor and a non-nil error;
// callers must not rely on the returned Kind in the error case.
func Parse(s string) (Kind, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return AttributesFor, fmt.Errorf("ffx(strategy): empty kind")
	}

	switch strings.ToLower(trimmed) {
	case "attributesfor", "attributes_for":
		return AttributesFor, nil
	case "build":
		return Build, nil
	case "create":
		return Create, nil
	default:
		return AttributesFor, fmt.Errorf("ffx(strategy): unknown kind %q", s)
	}
}

// MustParse is like Parse but panics on invalid input. Intended for
// hard-coded tokens in tests and initialization code; never use it on
// untrusted input.
func MustParse(s string) Kind {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// MarshalText encodes Kind as its canonical token. Unknown values return an
// error rather than serializing a diagnostic form.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case AttributesFor, Build, Create:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("ffx(strategy): cannot marshal unknown kind %d", k)
	}
}

// UnmarshalText decodes a Kind from the tokens accepted by Parse. On
// failure the receiver is left unchanged.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
