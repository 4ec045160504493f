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
	"context"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
)

func TestDumpThenApplyReproducesUser(t *testing.T) {
	cat := newTestCatalog()
	u := NewUser("alice")
	mustApply(t, u, cat, "on")
	mustApply(t, u, cat, "+get")
	mustApply(t, u, cat, "+debug|sleep")
	mustApply(t, u, cat, "~foo:*")
	mustApply(t, u, cat, ">hunter2")

	rules := Dump(u, cat)

	replayed := NewUser("alice")
	for _, r := range rules {
		if err := applyPersistedRule(replayed, cat, r); err != nil {
			t.Fatalf("replaying dumped rule %q failed: %v", r, err)
		}
	}

	if diff := deep.Equal(u, replayed); diff != nil {
		t.Errorf("dump/replay round-trip mismatch: %v", diff)
	}
}

func TestSaveThenLoadYAMLRoundTrip(t *testing.T) {
	cat := newTestCatalog()
	aclCtx := NewContext(cat)
	if _, err := aclCtx.SetUser("alice", []string{"on", ">hunter2", "+get", "~foo:*"}); err != nil {
		t.Fatalf("unexpected SetUser error: %v", err)
	}

	filePath := filepath.Join(t.TempDir(), "users.yaml")
	if err := Save(context.Background(), aclCtx, filePath); err != nil {
		t.Fatalf("unexpected Save error: %v", err)
	}

	fresh := NewContext(cat)
	if err := Load(context.Background(), fresh, filePath, LoadMerge); err != nil {
		t.Fatalf("unexpected Load error: %v", err)
	}

	original, _ := aclCtx.GetUser("alice")
	loaded, ok := fresh.GetUser("alice")
	if !ok {
		t.Fatalf("expected alice to exist after Load")
	}
	if diff := deep.Equal(original, loaded); diff != nil {
		t.Errorf("save/load round-trip mismatch: %v", diff)
	}
}

func TestSaveThenLoadJSONRoundTrip(t *testing.T) {
	cat := newTestCatalog()
	aclCtx := NewContext(cat)
	aclCtx.SetUser("bob", []string{"on", "nopass", "allcommands", "allkeys"})

	filePath := filepath.Join(t.TempDir(), "users.json")
	if err := Save(context.Background(), aclCtx, filePath); err != nil {
		t.Fatalf("unexpected Save error: %v", err)
	}

	fresh := NewContext(cat)
	if err := Load(context.Background(), fresh, filePath, LoadMerge); err != nil {
		t.Fatalf("unexpected Load error: %v", err)
	}

	loaded, ok := fresh.GetUser("bob")
	if !ok || !loaded.HasFlag(AllCommands) || !loaded.HasFlag(AllKeys) || !loaded.HasFlag(NoPass) {
		t.Fatalf("expected bob to be loaded with allcommands/allkeys/nopass, got %+v", loaded)
	}
}

func TestLoadReplaceResetsExistingUser(t *testing.T) {
	cat := newTestCatalog()
	aclCtx := NewContext(cat)
	aclCtx.SetUser("alice", []string{"on", "+get", "+debug"})

	filePath := filepath.Join(t.TempDir(), "users.yaml")
	fileCtx := NewContext(cat)
	fileCtx.SetUser("alice", []string{"on", "+get"})
	if err := Save(context.Background(), fileCtx, filePath); err != nil {
		t.Fatalf("unexpected Save error: %v", err)
	}

	if err := Load(context.Background(), aclCtx, filePath, LoadReplace); err != nil {
		t.Fatalf("unexpected Load error: %v", err)
	}

	u, _ := aclCtx.GetUser("alice")
	debugID := cat.Registry.IDOf("debug")
	if u.CommandAllowed(debugID) {
		t.Fatalf("expected LoadReplace to drop the pre-existing 'debug' grant not present in the file")
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	cat := newTestCatalog()
	aclCtx := NewContext(cat)
	err := Load(context.Background(), aclCtx, filepath.Join(t.TempDir(), "missing.yaml"), LoadMerge)
	if err == nil {
		t.Fatalf("expected an error loading a nonexistent file")
	}
}
