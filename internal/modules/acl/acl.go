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

// Package acl is the wire-facing command module: it registers AUTH and
// ACL with the dispatch server's command table and translates between
// RESP argv and the internal/acl package's Context API. The ACL
// semantics themselves live in internal/acl; this package only knows
// how to decode a command line and encode a reply.
package acl

import (
	"errors"
	"fmt"

	"github.com/ripplekv/ripple/internal"
	aclcore "github.com/ripplekv/ripple/internal/acl"
	"github.com/ripplekv/ripple/internal/constants"
)

// Commands returns the AUTH and ACL command descriptors for
// registration with the server's command table and ACL catalog.
func Commands() []internal.Command {
	return []internal.Command{
		{
			Command:     "auth",
			Module:      constants.ACLModule,
			Categories:  []string{constants.FastCategory},
			Description: "(AUTH [username] password) Authenticates the connection against a user profile.",
			HandlerFunc: handleAuth,
		},
		{
			Command:     "acl",
			Module:      constants.ACLModule,
			Categories:  []string{constants.AdminCategory, constants.SlowCategory},
			Description: "(ACL WHOAMI|LIST|GETUSER|SETUSER|DELUSER|CAT|HELP) Administers ACL users.",
			HandlerFunc: handleACL,
		},
	}
}

// IsAuthCommand reports whether name is the one command every user may
// always run regardless of its command bitmap. The dispatch server
// consults this when deciding whether to gate a command behind
// Authorize at all.
func IsAuthCommand(name string) bool {
	return name == "auth"
}

// WireError maps an internal/acl sentinel error onto a stable,
// grep-able wire token. Anything else is reported verbatim: only the
// ACL-specific failure modes get a dedicated token.
func WireError(err error) error {
	return wireError(err)
}

func wireError(err error) error {
	switch {
	case errors.Is(err, aclcore.ErrNoSuchUser), errors.Is(err, aclcore.ErrBadCredentials):
		return errors.New(constants.WrongPassMessage)
	case errors.Is(err, aclcore.ErrDeniedKey):
		return errors.New(constants.NoPermKeyMessage)
	default:
		return err
	}
}

// WireDeniedCommand renders the NOPERM token for a specific command
// name; ErrDeniedCommand alone doesn't carry the name, so callers that
// know which command was attempted format it here instead of going
// through WireError.
func WireDeniedCommand(name string) error {
	return fmt.Errorf(constants.NoPermCommandFmt, name)
}

// wireSetUserError maps a failure from Context.SetUser onto the wire
// text ACL SETUSER callers expect. A syntax error names the offending
// modifier verbatim rather than surfacing the internal sentinel.
func wireSetUserError(err error) error {
	var ruleErr *aclcore.RuleError
	if errors.As(err, &ruleErr) && errors.Is(ruleErr, aclcore.ErrSyntax) {
		return fmt.Errorf("Syntax error in ACL SETUSER modifier '%s'", ruleErr.Raw)
	}
	return wireError(err)
}
