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
	"strings"

	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/constants"
	"github.com/ripplekv/ripple/internal/pattern"
	"github.com/ripplekv/ripple/internal/security"
)

// RuleKind is the tag of a parsed rule. The string-keyed rule DSL is
// parsed once into this tagged variant so that persistence, validation
// and application are three distinct phases over the same value,
// instead of a single pass of ad hoc string dispatch.
type RuleKind int

const (
	RuleOn RuleKind = iota
	RuleOff
	RuleAllKeys
	RuleResetKeys
	RuleAddPattern
	RuleAllCommands
	RuleAddCommand
	RuleAddSubcommand
	RuleRemoveCommand
	RuleAddCategory
	RuleRemoveCategory
	RuleNoPass
	RuleAddPassword
	RuleRemovePassword
	RuleResetPass
	RuleReset
)

// Rule is a single parsed entry from the rule DSL.
type Rule struct {
	Kind       RuleKind
	Command    string
	Subcommand string
	Category   string
	Pattern    string
	Password   []byte
	Raw        string
}

// ParseRule parses one whitespace-delimited token of the rule DSL.
// Keywords are matched case-insensitively; everything after a sigil
// (+, -, ~, >, <, @) is taken verbatim, since that payload may be
// arbitrary (including binary) bytes.
func ParseRule(raw string) (Rule, error) {
	switch {
	case strings.EqualFold(raw, "on"):
		return Rule{Kind: RuleOn, Raw: raw}, nil
	case strings.EqualFold(raw, "off"):
		return Rule{Kind: RuleOff, Raw: raw}, nil
	case strings.EqualFold(raw, "allkeys"):
		return Rule{Kind: RuleAllKeys, Raw: raw}, nil
	case strings.EqualFold(raw, "resetkeys"):
		return Rule{Kind: RuleResetKeys, Raw: raw}, nil
	case strings.EqualFold(raw, "allcommands"), strings.EqualFold(raw, "+@all"):
		return Rule{Kind: RuleAllCommands, Raw: raw}, nil
	case strings.EqualFold(raw, "nopass"):
		return Rule{Kind: RuleNoPass, Raw: raw}, nil
	case strings.EqualFold(raw, "resetpass"):
		return Rule{Kind: RuleResetPass, Raw: raw}, nil
	case strings.EqualFold(raw, "reset"):
		return Rule{Kind: RuleReset, Raw: raw}, nil
	}

	if len(raw) == 0 {
		return Rule{}, fmt.Errorf("%w: empty rule", ErrSyntax)
	}

	switch raw[0] {
	case '~':
		pat := raw[1:]
		if pat == "*" {
			return Rule{Kind: RuleAllKeys, Raw: raw}, nil
		}
		return Rule{Kind: RuleAddPattern, Pattern: pat, Raw: raw}, nil

	case '>':
		return Rule{Kind: RuleAddPassword, Password: []byte(raw[1:]), Raw: raw}, nil

	case '<':
		return Rule{Kind: RuleRemovePassword, Password: []byte(raw[1:]), Raw: raw}, nil

	case '+', '-':
		sign := raw[0]
		body := raw[1:]
		if len(body) == 0 {
			return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, raw)
		}
		if body[0] == '@' {
			cat := body[1:]
			if cat == "" {
				return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, raw)
			}
			if sign == '+' {
				return Rule{Kind: RuleAddCategory, Category: cat, Raw: raw}, nil
			}
			return Rule{Kind: RuleRemoveCategory, Category: cat, Raw: raw}, nil
		}
		if idx := strings.IndexByte(body, '|'); idx >= 0 {
			if sign == '-' {
				return Rule{}, fmt.Errorf("%w: subcommand rules are only valid with '+': %q", ErrSyntax, raw)
			}
			return Rule{Kind: RuleAddSubcommand, Command: body[:idx], Subcommand: body[idx+1:], Raw: raw}, nil
		}
		if sign == '+' {
			return Rule{Kind: RuleAddCommand, Command: body, Raw: raw}, nil
		}
		return Rule{Kind: RuleRemoveCommand, Command: body, Raw: raw}, nil
	}

	return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, raw)
}

// Apply mutates user according to r, allocating command IDs through
// catalog as needed. It never rolls back a partially applied rule:
// each branch either fully succeeds or returns before touching state.
func Apply(user *User, catalog *command.Catalog, r Rule) error {
	switch r.Kind {
	case RuleOn:
		user.setFlag(Enabled)
	case RuleOff:
		user.clearFlag(Enabled)
	case RuleAllKeys:
		user.setFlag(AllKeys)
		user.patterns = nil
	case RuleResetKeys:
		user.clearFlag(AllKeys)
		user.patterns = nil
	case RuleAddPattern:
		if len(r.Pattern) > pattern.MaxLen {
			return fmt.Errorf("%w: pattern exceeds %d bytes", ErrSyntax, pattern.MaxLen)
		}
		user.clearFlag(AllKeys)
		user.patterns = appendUniqueString(user.patterns, r.Pattern)
	case RuleAllCommands:
		setAllCommands(user)
	case RuleAddCommand:
		id := catalog.Registry.IDOf(r.Command)
		user.allowedCommands.set(id)
		delete(user.allowedSubcommands, id)
	case RuleAddSubcommand:
		id := catalog.Registry.IDOf(r.Command)
		if user.allowedCommands.isSet(id) {
			// Already fully allowed; invariant 4 keeps no subcommand
			// entry for it, so this is a documented no-op.
			return nil
		}
		user.allowedSubcommands[id] = appendUniqueString(user.allowedSubcommands[id], strings.ToLower(r.Subcommand))
	case RuleRemoveCommand:
		id := catalog.Registry.IDOf(r.Command)
		user.allowedCommands.clear(id)
		user.clearFlag(AllCommands)
		delete(user.allowedSubcommands, id)
	case RuleAddCategory:
		return applyCategory(user, catalog, r.Category, true)
	case RuleRemoveCategory:
		return applyCategory(user, catalog, r.Category, false)
	case RuleNoPass:
		user.setFlag(NoPass)
		user.passwords = nil
	case RuleAddPassword:
		if len(r.Password) > security.MaxPassLen {
			return fmt.Errorf("%w: password exceeds %d bytes", ErrSyntax, security.MaxPassLen)
		}
		user.clearFlag(NoPass)
		user.passwords = appendUniqueBytes(user.passwords, r.Password)
	case RuleRemovePassword:
		user.passwords = removeBytes(user.passwords, r.Password)
	case RuleResetPass:
		user.clearFlag(NoPass)
		user.passwords = nil
	case RuleReset:
		user.clearFlag(NoPass)
		user.passwords = nil
		user.clearFlag(AllKeys)
		user.patterns = nil
		user.clearFlag(Enabled)
		return applyCategory(user, catalog, constants.AllCategory, false)
	default:
		return fmt.Errorf("%w: unrecognised rule", ErrSyntax)
	}
	return nil
}

// RuleError wraps a failure from ApplyRule with the raw rule-DSL token
// that caused it, so a caller several layers up (the wire encoder) can
// report which modifier was rejected without re-parsing the command.
type RuleError struct {
	Raw string
	Err error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %s", e.Raw, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ApplyRule parses and applies raw in one step; a convenience wrapper
// used by callers that don't need the parsed Rule separately (e.g. for
// persistence round-tripping).
func ApplyRule(user *User, catalog *command.Catalog, raw string) error {
	r, err := ParseRule(raw)
	if err != nil {
		return &RuleError{Raw: raw, Err: err}
	}
	if err := Apply(user, catalog, r); err != nil {
		return &RuleError{Raw: raw, Err: err}
	}
	return nil
}

func setAllCommands(user *User) {
	user.setFlag(AllCommands)
	user.allowedCommands.setAll()
	user.allowedSubcommands = make(map[uint32][]string)
}

func applyCategory(user *User, catalog *command.Catalog, category string, add bool) error {
	cat := strings.ToLower(category)

	if cat == constants.AllCategory {
		if add {
			setAllCommands(user)
		} else {
			user.clearFlag(AllCommands)
			user.allowedCommands.clearAll()
			user.allowedSubcommands = make(map[uint32][]string)
		}
		return nil
	}

	if !isKnownCategory(cat) {
		return fmt.Errorf("%w: unknown category '%s'", ErrSyntax, category)
	}

	for _, id := range catalog.IDsInCategory(cat) {
		if add {
			user.allowedCommands.set(id)
			delete(user.allowedSubcommands, id)
		} else {
			user.allowedCommands.clear(id)
			user.clearFlag(AllCommands)
		}
	}
	return nil
}

func isKnownCategory(cat string) bool {
	for _, c := range constants.AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}
