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

package inflect_test

import (
	"testing"

	"dirpx.dev/ffx/utils/inflect"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"first_name", "first_name"},
		{":first_name", "first_name"},
		{"FirstName", "first_name"},
		{" :FirstName ", "first_name"},
		{"user", "user"},
		{":user", "user"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := inflect.NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnderscore(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ArgumentError", "argument_error"},
		{"Business", "business"},
		{"HTTPServer", "http_server"},
		{"userID", "user_id"},
		{"already_snake", "already_snake"},
	}
	for _, tt := range tests {
		if got := inflect.Underscore(tt.in); got != tt.want {
			t.Errorf("Underscore(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCamelize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"argument_error", "ArgumentError"},
		{"business", "Business"},
		{"user", "User"},
		{"first_name", "FirstName"},
	}
	for _, tt := range tests {
		if got := inflect.Camelize(tt.in); got != tt.want {
			t.Errorf("Camelize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "user"},
		{"posts", "post"},
		{"companies", "company"},
		{"buses", "bus"},
		{"addresses", "address"},
		{"business", "business"},
		{"user", "user"},
		{"s", "s"},
	}
	for _, tt := range tests {
		if got := inflect.Singularize(tt.in); got != tt.want {
			t.Errorf("Singularize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
