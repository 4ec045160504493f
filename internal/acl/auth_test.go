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

package acl

import (
	"errors"
	"testing"
)

func TestAuthenticateUnknownUser(t *testing.T) {
	r := NewRegistry()
	if _, err := Authenticate(r, "ghost", []byte("pw")); !errors.Is(err, ErrNoSuchUser) {
		t.Fatalf("expected ErrNoSuchUser, got %v", err)
	}
}

func TestAuthenticateDisabledUserRejectedLikeBadPassword(t *testing.T) {
	cat := newTestCatalog()
	r := NewRegistry()
	u := r.GetOrCreate("alice")
	mustApply(t, u, cat, ">hunter2")
	// alice is never turned 'on'.

	if _, err := Authenticate(r, "alice", []byte("hunter2")); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected a disabled user's correct password to still fail as ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticateNoPassAcceptsAnyPassword(t *testing.T) {
	cat := newTestCatalog()
	r := NewRegistry()
	u := r.GetOrCreate("alice")
	mustApply(t, u, cat, "on")
	mustApply(t, u, cat, "nopass")

	for _, pw := range [][]byte{[]byte(""), []byte("anything"), []byte("literally-anything-at-all")} {
		got, err := Authenticate(r, "alice", pw)
		if err != nil {
			t.Fatalf("expected nopass user to authenticate with %q, got %v", pw, err)
		}
		if got != u {
			t.Fatalf("expected Authenticate to return the registry's *User")
		}
	}
}

func TestAuthenticateMatchesAnyStoredPassword(t *testing.T) {
	cat := newTestCatalog()
	r := NewRegistry()
	u := r.GetOrCreate("alice")
	mustApply(t, u, cat, "on")
	mustApply(t, u, cat, ">first")
	mustApply(t, u, cat, ">second")

	if _, err := Authenticate(r, "alice", []byte("first")); err != nil {
		t.Fatalf("expected first password to authenticate, got %v", err)
	}
	if _, err := Authenticate(r, "alice", []byte("second")); err != nil {
		t.Fatalf("expected second password to authenticate, got %v", err)
	}
	if _, err := Authenticate(r, "alice", []byte("third")); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected an unrecognised password to fail, got %v", err)
	}
}

func TestAuthenticateRemovedPasswordNoLongerWorks(t *testing.T) {
	cat := newTestCatalog()
	r := NewRegistry()
	u := r.GetOrCreate("alice")
	mustApply(t, u, cat, "on")
	mustApply(t, u, cat, ">first")
	mustApply(t, u, cat, "<first")

	if _, err := Authenticate(r, "alice", []byte("first")); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected a removed password to no longer authenticate, got %v", err)
	}
}

func TestAuthenticateDefaultUserIsNopassAndEnabled(t *testing.T) {
	r := NewRegistry()
	u, err := Authenticate(r, DefaultUsername, []byte(""))
	if err != nil {
		t.Fatalf("expected the default user to authenticate with any password out of the box, got %v", err)
	}
	if u.Name != DefaultUsername {
		t.Fatalf("expected the default user back, got %q", u.Name)
	}
}
