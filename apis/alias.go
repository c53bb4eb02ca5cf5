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

package apis

import "regexp"

// AliasRule is a pattern plus capture-group rewrite used to translate an
// override key that matches no declared attribute into the underlying
// attribute it overrides (e.g. "user_id" standing in for "user"). Rules are
// process-wide and append-only; the first matching rule in registration
// order wins.
type AliasRule struct {
	// Pattern must match the whole override key. Registries anchor the
	// caller-supplied expression on both ends when compiling it.
	Pattern *regexp.Regexp

	// Rewrite is a template in regexp.Expand syntax ("$1", "${name}")
	// producing the underlying attribute name.
	Rewrite string
}

// Apply rewrites key according to the rule. It returns the rewritten key and
// true when the pattern matches the whole key, or ("", false) otherwise.
func (r AliasRule) Apply(key string) (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	m := r.Pattern.FindStringSubmatchIndex(key)
	if m == nil || m[0] != 0 || m[1] != len(key) {
		return "", false
	}
	return string(r.Pattern.ExpandString(nil, r.Rewrite, key, m)), true
}
