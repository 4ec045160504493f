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

import "github.com/ripplekv/ripple/internal/security"

// Authenticate checks username/password against the registry and
// returns the matching *User on success, or one of ErrNoSuchUser /
// ErrBadCredentials. The two failure cases are never distinguished
// further up the stack (the wire layer collapses both to WRONGPASS),
// but they're kept distinct here so tests can assert on the precise
// reason.
func Authenticate(registry *Registry, username string, password []byte) (*User, error) {
	u, ok := registry.Lookup(username)
	if !ok {
		return nil, ErrNoSuchUser
	}

	if !u.HasFlag(Enabled) {
		// Never let a disabled user be distinguished from a
		// wrong-password one to the caller.
		return nil, ErrBadCredentials
	}

	if u.HasFlag(NoPass) {
		return u, nil
	}

	// Compare against every stored password, accumulating the result
	// with OR rather than returning on first match, so a caller timing
	// the whole call can't learn which password index matched.
	var matched bool
	for _, stored := range u.passwords {
		if security.TimingSafeEqual(password, stored) {
			matched = true
		}
	}
	if matched {
		return u, nil
	}

	return nil, ErrBadCredentials
}
