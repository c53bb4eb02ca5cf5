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

// Package inflect holds the small set of name transformations the factory
// engine needs: key normalization (string/symbol unification), underscoring,
// camelizing, and a minimal singularizer for class inference.
package inflect

import (
	"strings"
	"unicode"
)

// NormalizeKey canonicalizes an attribute or factory identifier. A leading
// ':' (the "symbol" spelling) is stripped, camelCase is underscored, and the
// result is lower-cased. "FirstName", ":first_name", and "first_name" all
// normalize to "first_name".
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, ":")
	return Underscore(key)
}

// Underscore converts CamelCase or mixedCase to lower snake_case.
// Consecutive capitals are kept together: "HTTPServer" -> "http_server".
func Underscore(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Camelize converts snake_case to CamelCase: "argument_error" ->
// "ArgumentError". Already-camelized input passes through with its first
// letter upper-cased.
func Camelize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	up := true
	for _, r := range s {
		if r == '_' {
			up = true
			continue
		}
		if up {
			b.WriteRune(unicode.ToUpper(r))
			up = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Singularize strips a plural suffix from a factory name so "users" infers
// the class "User". The rules are deliberately minimal: "ies" -> "y",
// "ses"/"xes"/"zes"/"ches"/"shes" -> drop "es", a trailing "s" is dropped
// unless preceded by another "s" ("business" stays "business").
func Singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "ses") || strings.HasSuffix(s, "xes") ||
		strings.HasSuffix(s, "zes") || strings.HasSuffix(s, "ches") ||
		strings.HasSuffix(s, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") && len(s) > 1:
		return s[:len(s)-1]
	}
	return s
}
