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

// Flag is one bit of a User's flag set: ENABLED, ALLKEYS, ALLCOMMANDS
// or NOPASS.
type Flag uint8

const (
	Enabled Flag = 1 << iota
	AllKeys
	AllCommands
	NoPass
)

// User is the per-user ACL state: flags, credentials, key patterns,
// and the command bitmap plus sparse subcommand allow-lists. A User is
// owned exclusively by the Registry that created it; callers hold a
// non-owning reference that is only ever mutated through this
// package's own methods, never reached into directly from outside it.
type User struct {
	Name  string
	flags Flag

	// passwords and patterns are ordered sets: insertion order is
	// preserved for deterministic listing, duplicates are rejected on
	// insert.
	passwords [][]byte
	patterns  []string

	allowedCommands    commandBitmap
	allowedSubcommands map[uint32][]string
}

// NewUser returns a freshly created user with every flag clear, no
// passwords, no patterns and no allowed commands.
func NewUser(name string) *User {
	return &User{
		Name:               name,
		allowedSubcommands: make(map[uint32][]string),
	}
}

func (u *User) HasFlag(f Flag) bool { return u.flags&f != 0 }

func (u *User) setFlag(f Flag)   { u.flags |= f }
func (u *User) clearFlag(f Flag) { u.flags &^= f }

// Passwords returns the user's password set in insertion order. The
// returned slice must not be mutated by the caller.
func (u *User) Passwords() [][]byte { return u.passwords }

// Patterns returns the user's key-pattern set in insertion order. The
// returned slice must not be mutated by the caller.
func (u *User) Patterns() []string { return u.patterns }

// AllowedSubcommandsFor returns the subcommand allow-list for a
// command ID, or nil if there isn't one.
func (u *User) AllowedSubcommandsFor(id uint32) []string {
	return u.allowedSubcommands[id]
}

// CommandAllowed reports whether id's bit is set in the command
// bitmap.
func (u *User) CommandAllowed(id uint32) bool {
	return u.allowedCommands.isSet(id)
}

func appendUniqueBytes(set [][]byte, v []byte) [][]byte {
	for _, existing := range set {
		if string(existing) == string(v) {
			return set
		}
	}
	return append(set, v)
}

func removeBytes(set [][]byte, v []byte) [][]byte {
	for i, existing := range set {
		if string(existing) == string(v) {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return set
}

func appendUniqueString(set []string, v string) []string {
	for _, existing := range set {
		if existing == v {
			return set
		}
	}
	return append(set, v)
}

// checkInvariants reports whether the user's state is internally
// consistent (NOPASS implies no stored passwords, ALLKEYS implies no
// patterns, ALLCOMMANDS implies every bit set and no subcommand
// entries, and a command with a subcommand allow-list is never also
// fully allowed). It exists purely as an internal self-check exercised
// by tests after every mutator; production mutators are written so it
// can never actually fail.
func (u *User) checkInvariants() bool {
	if u.HasFlag(NoPass) && len(u.passwords) != 0 {
		return false
	}
	if u.HasFlag(AllKeys) && len(u.patterns) != 0 {
		return false
	}
	if u.HasFlag(AllCommands) {
		for id := uint32(0); id < 1024; id++ {
			if !u.allowedCommands.isSet(id) {
				return false
			}
		}
		if len(u.allowedSubcommands) != 0 {
			return false
		}
	}
	for id := range u.allowedSubcommands {
		if u.allowedCommands.isSet(id) {
			return false
		}
	}
	return true
}
