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

import "sync"

// DefaultUsername is the one user the Registry is guaranteed to always
// contain.
const DefaultUsername = "default"

// Registry is the name -> *User mapping. Authentication and
// authorization take the read lock; creation, mutation and deletion
// take the write lock. A *User handed back to a caller is never
// mutated in place by the Registry afterwards: SetUser always mutates
// the record still owned by the Registry while holding the write
// lock, so concurrent readers either see the old or the new state,
// never a partial one.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewRegistry returns a Registry containing only the `default` user,
// enabled with no password required.
func NewRegistry() *Registry {
	r := &Registry{users: make(map[string]*User)}
	def := NewUser(DefaultUsername)
	def.setFlag(Enabled)
	def.setFlag(AllKeys)
	def.setFlag(AllCommands)
	def.allowedCommands.setAll()
	def.setFlag(NoPass)
	r.users[DefaultUsername] = def
	return r
}

// Create adds a new, freshly-initialised user. Returns ErrNameExists
// if the name is already taken.
func (r *Registry) Create(name string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[name]; ok {
		return nil, ErrNameExists
	}
	u := NewUser(name)
	r.users[name] = u
	return u, nil
}

// Lookup returns the user registered under name, or (nil, false).
func (r *Registry) Lookup(name string) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[name]
	return u, ok
}

// GetOrCreate returns the existing user under name, creating an empty
// one if none exists yet. Used by SETUSER, which both creates new
// users and edits existing ones through the same code path.
func (r *Registry) GetOrCreate(name string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[name]; ok {
		return u
	}
	u := NewUser(name)
	r.users[name] = u
	return u
}

// Delete removes a user. The `default` user may never be removed
// (ErrProtectedUser); a missing name returns ErrNameNotFound.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == DefaultUsername {
		return ErrProtectedUser
	}
	if _, ok := r.users[name]; !ok {
		return ErrNameNotFound
	}
	delete(r.users, name)
	return nil
}

// Names returns every registered username. Order is unspecified and
// may differ from one call to the next.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.users))
	for name := range r.users {
		names = append(names, name)
	}
	return names
}

// Each calls fn for every registered user while holding the read lock.
// fn must not call back into the Registry.
func (r *Registry) Each(fn func(*User)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		fn(u)
	}
}
