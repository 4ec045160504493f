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
	"strings"

	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/pattern"
)

// Authorize reports whether user may run the command described by
// desc with the given argv: command grant first, then, unless the
// user holds ALLKEYS or the command has no keys, a per-key pattern
// check. user may be nil, meaning "unauthenticated-but-permitted"
// internal mode, which always allows.
func Authorize(user *User, desc command.Descriptor, argv []string) error {
	if user == nil {
		return nil
	}

	if desc.ID >= command.MaxID {
		return ErrDeniedCommand
	}

	if !desc.IsAuth && !user.HasFlag(AllCommands) {
		if user.CommandAllowed(desc.ID) {
			// Command bit set: fall through to the key check.
		} else {
			subs := user.AllowedSubcommandsFor(desc.ID)
			if len(subs) == 0 || len(argv) < 2 {
				return ErrDeniedCommand
			}
			allowed := false
			for _, s := range subs {
				if strings.EqualFold(argv[1], s) {
					allowed = true
					break
				}
			}
			if !allowed {
				return ErrDeniedCommand
			}
		}
	}

	if user.HasFlag(AllKeys) || !desc.HasKeys {
		return nil
	}

	indices, err := desc.KeyExtractionFunc(argv)
	if err != nil {
		return err
	}

	for _, idx := range indices {
		if idx < 0 || idx >= len(argv) {
			continue
		}
		key := argv[idx]
		if !anyPatternMatches(user.patterns, key) {
			return ErrDeniedKey
		}
	}

	return nil
}

func anyPatternMatches(patterns []string, key string) bool {
	for _, p := range patterns {
		if pattern.Match(p, key, false) {
			return true
		}
	}
	return false
}
