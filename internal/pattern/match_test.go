// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pattern_test

import (
	"testing"

	"github.com/ripplekv/ripple/internal/pattern"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, s string
		nocase     bool
		want       bool
	}{
		{"*", "anything", false, true},
		{"*", "", false, true},
		{"foo:*", "foo:1", false, true},
		{"foo:*", "bar:1", false, false},
		{"foo:?", "foo:1", false, true},
		{"foo:?", "foo:12", false, false},
		{"foo:[0-9]*", "foo:1abc", false, true},
		{"foo:[0-9]*", "foo:aabc", false, false},
		{"foo:[^0-9]*", "foo:a", false, true},
		{"foo:[^0-9]*", "foo:1", false, false},
		{"foo:[abc]", "foo:b", false, true},
		{"foo:[abc]", "foo:d", false, false},
		{"h\\*llo", "h*llo", false, true},
		{"h\\*llo", "hello", false, false},
		{"FOO:*", "foo:1", true, true},
		{"FOO:*", "foo:1", false, false},
		// Unterminated bracket falls back to a literal '['.
		{"foo[bar", "foo[bar", false, true},
		{"foo[bar", "foobar", false, false},
		// Empty pattern only matches empty string.
		{"", "", false, true},
		{"", "x", false, false},
		// '*' is eager but must still allow a suffix after it.
		{"*.log", "access.log", false, true},
		{"*.log", "access.txt", false, false},
		{"a*a*a*a", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaab", false, false},
	}
	for _, c := range cases {
		got := pattern.Match(c.pattern, c.s, c.nocase)
		if got != c.want {
			t.Errorf("Match(%q, %q, nocase=%v) = %v, want %v", c.pattern, c.s, c.nocase, got, c.want)
		}
	}
}

func TestMatchBracketRange(t *testing.T) {
	if !pattern.Match("[a-z]", "m", false) {
		t.Fatalf("expected 'm' to be in range [a-z]")
	}
	if pattern.Match("[a-z]", "M", false) {
		t.Fatalf("did not expect 'M' to be in range [a-z] without nocase")
	}
	if !pattern.Match("[a-z]", "M", true) {
		t.Fatalf("expected 'M' to be in range [a-z] with nocase")
	}
}

func TestMatchLiteralClosingBracketAsFirstClassMember(t *testing.T) {
	// "[]]" is a class containing only "]".
	if !pattern.Match("[]]", "]", false) {
		t.Fatalf("expected ']' to match class '[]]'")
	}
	if pattern.Match("[]]", "x", false) {
		t.Fatalf("did not expect 'x' to match class '[]]'")
	}
}
