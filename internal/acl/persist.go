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
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"gopkg.in/yaml.v3"

	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/retryutil"
)

// record is the on-disk shape of one user: it's the input to
// Dump/Load round-tripping, not the live User itself, so the file
// format doesn't change shape every time the in-memory representation
// does.
type record struct {
	Username string   `json:"Username" yaml:"Username"`
	Rules    []string `json:"Rules" yaml:"Rules"`
}

// Dump renders user as the ordered list of rule-DSL tokens that, when
// replayed through applyPersistedRule (as Load does) against a freshly
// created user of the same name, reproduces its state; key patterns
// come back in sorted order rather than insertion order. Passwords are
// hex-encoded behind a leading '#', a token only applyPersistedRule
// accepts (ApplyRule rejects it), so a file round-trip never holds an
// unescaped raw secret next to YAML/JSON structural characters.
// Command grants are persisted by name, resolved through catalog, so
// the file stays portable across registries that allocate IDs in a
// different order.
func Dump(user *User, catalog *command.Catalog) []string {
	var rules []string

	if user.HasFlag(Enabled) {
		rules = append(rules, "on")
	} else {
		rules = append(rules, "off")
	}

	if user.HasFlag(NoPass) {
		rules = append(rules, "nopass")
	} else {
		for _, pw := range user.passwords {
			rules = append(rules, "#"+hex.EncodeToString(pw))
		}
	}

	if user.HasFlag(AllKeys) {
		rules = append(rules, "allkeys")
	} else {
		patterns := append([]string(nil), user.patterns...)
		sort.Strings(patterns)
		for _, p := range patterns {
			rules = append(rules, "~"+p)
		}
	}

	if user.HasFlag(AllCommands) {
		rules = append(rules, "allcommands")
	} else {
		for _, d := range sortedDescriptors(catalog) {
			if user.allowedCommands.isSet(d.ID) {
				rules = append(rules, "+"+d.Name)
			}
		}
		for _, d := range sortedDescriptors(catalog) {
			subs := append([]string(nil), user.allowedSubcommands[d.ID]...)
			sort.Strings(subs)
			for _, s := range subs {
				rules = append(rules, fmt.Sprintf("+%s|%s", d.Name, s))
			}
		}
	}

	return rules
}

func sortedDescriptors(catalog *command.Catalog) []command.Descriptor {
	all := catalog.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// LoadMode controls how Load merges a file's users into an existing
// Registry: LoadMerge keeps any user already present and layers the
// file's rules on top, left to right, with no rollback on a bad rule
// (the same semantics ApplyRule always has); LoadReplace first resets
// the matching non-default user to a blank slate.
type LoadMode int

const (
	LoadMerge LoadMode = iota
	LoadReplace
)

// Save writes every user in aclCtx.Registry to filePath as YAML or
// JSON (selected by the file extension), retrying the write with
// backoff since the destination may be on a filesystem that hiccups
// transiently under load.
func Save(ctx context.Context, aclCtx *Context, filePath string) error {
	var records []record
	aclCtx.Registry.Each(func(u *User) {
		records = append(records, record{Username: u.Name, Rules: Dump(u, aclCtx.Catalog)})
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Username < records[j].Username })

	data, err := marshalRecords(filePath, records)
	if err != nil {
		return err
	}

	backoff := retryutil.Backoff(retry.NewExponential(10*time.Millisecond), 5, 10*time.Millisecond, time.Second, 5*time.Second)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := os.MkdirAll(path.Dir(filePath), os.ModePerm); err != nil {
			return retry.RetryableError(err)
		}
		if err := os.WriteFile(filePath, data, 0o600); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Load reads filePath and applies every user record onto aclCtx's
// registry under mode.
func Load(ctx context.Context, aclCtx *Context, filePath string, mode LoadMode) error {
	var data []byte
	backoff := retryutil.Backoff(retry.NewExponential(10*time.Millisecond), 5, 10*time.Millisecond, time.Second, 5*time.Second)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, readErr := os.ReadFile(filePath)
		if readErr != nil {
			if errors.Is(readErr, os.ErrNotExist) {
				return readErr
			}
			return retry.RetryableError(readErr)
		}
		data = b
		return nil
	})
	if err != nil {
		return err
	}

	records, err := unmarshalRecords(filePath, data)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if mode == LoadReplace && rec.Username != DefaultUsername {
			if _, ok := aclCtx.Registry.Lookup(rec.Username); ok {
				aclCtx.Registry.Delete(rec.Username)
			}
		}
		u := aclCtx.Registry.GetOrCreate(rec.Username)
		for _, raw := range rec.Rules {
			if err := applyPersistedRule(u, aclCtx.Catalog, raw); err != nil {
				return fmt.Errorf("user %s: %w", rec.Username, err)
			}
		}
	}
	return nil
}

func applyPersistedRule(user *User, catalog *command.Catalog, raw string) error {
	if strings.HasPrefix(raw, "#") {
		pw, err := hex.DecodeString(raw[1:])
		if err != nil {
			return fmt.Errorf("%w: malformed password hex", ErrSyntax)
		}
		user.clearFlag(NoPass)
		user.passwords = appendUniqueBytes(user.passwords, pw)
		return nil
	}
	return ApplyRule(user, catalog, raw)
}

func marshalRecords(filePath string, records []record) ([]byte, error) {
	if strings.ToLower(path.Ext(filePath)) == ".json" {
		return json.MarshalIndent(records, "", "  ")
	}
	return yaml.Marshal(records)
}

func unmarshalRecords(filePath string, data []byte) ([]record, error) {
	var records []record
	if strings.ToLower(path.Ext(filePath)) == ".json" {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
