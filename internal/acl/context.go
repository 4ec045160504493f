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
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/ripplekv/ripple/internal/command"
)

// Context bundles the command catalog and the user registry behind a
// single collaborator: nothing in this package reaches for a
// package-level singleton, everything is threaded through a Context
// value the caller owns and can construct more than one of (e.g. one
// per test).
type Context struct {
	Catalog  *command.Catalog
	Registry *Registry
}

// NewContext wires a fresh user Registry (containing only `default`)
// to an already-populated command Catalog.
func NewContext(catalog *command.Catalog) *Context {
	return &Context{Catalog: catalog, Registry: NewRegistry()}
}

// Authenticate looks up username in the registry and checks password
// against it; see Authenticate for the exact algorithm.
func (c *Context) Authenticate(username string, password []byte) (*User, error) {
	return Authenticate(c.Registry, username, password)
}

// Authorize resolves cmdName against the catalog and checks whether
// user may run it with argv. An unregistered command name is always
// denied: it can't have been granted by any rule.
func (c *Context) Authorize(user *User, cmdName string, argv []string) error {
	desc, ok := c.Catalog.Lookup(cmdName)
	if !ok {
		return ErrDeniedCommand
	}
	return Authorize(user, desc, argv)
}

// SetUser implements `ACL SETUSER`: get-or-create the named user, then
// apply rules left to right, stopping at the first syntax error
// without rolling back whatever already succeeded. The
// partially-mutated user is always returned alongside the error so the
// caller can report it.
func (c *Context) SetUser(username string, rules []string) (*User, error) {
	u := c.Registry.GetOrCreate(username)
	for _, r := range rules {
		if err := ApplyRule(u, c.Catalog, r); err != nil {
			return u, err
		}
	}
	return u, nil
}

// GetUser returns the named user, if any.
func (c *Context) GetUser(username string) (*User, bool) {
	return c.Registry.Lookup(username)
}

// DeleteUsers removes every named user, collecting failures (protected
// user, unknown name) across the whole batch instead of aborting on
// the first one, so `ACL DELUSER a b c` reports every bad name at
// once. It returns the count of names actually removed alongside the
// aggregated error, since `ACL DELUSER` replies with that count
// regardless of partial failures.
func (c *Context) DeleteUsers(usernames ...string) (int, error) {
	var result *multierror.Error
	removed := 0
	for _, name := range usernames {
		if err := c.Registry.Delete(name); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			continue
		}
		removed++
	}
	return removed, result.ErrorOrNil()
}
