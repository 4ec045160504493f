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
	"fmt"
	"sort"
	"strings"

	"github.com/ripplekv/ripple/internal"
	aclcore "github.com/ripplekv/ripple/internal/acl"
	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/constants"
)

func handleAuth(params internal.HandlerFuncParams) ([]byte, error) {
	if len(params.Command) < 2 || len(params.Command) > 3 {
		return nil, errors.New(constants.WrongArgsResponse)
	}

	username := aclcore.DefaultUsername
	password := params.Command[1]
	if len(params.Command) == 3 {
		username = params.Command[1]
		password = params.Command[2]
	}

	aclCtx := params.GetAclCtx()
	user, err := aclCtx.Authenticate(username, []byte(password))
	if err != nil {
		return nil, wireError(err)
	}

	params.ConnState.User = user
	return []byte(constants.OkResponse), nil
}

func handleACL(params internal.HandlerFuncParams) ([]byte, error) {
	if len(params.Command) < 2 {
		return nil, errors.New(constants.WrongArgsResponse)
	}

	aclCtx := params.GetAclCtx()

	switch strings.ToUpper(params.Command[1]) {
	case "WHOAMI":
		return handleWhoAmI(params)
	case "LIST":
		return handleList(params, aclCtx)
	case "GETUSER":
		return handleGetUser(params, aclCtx)
	case "SETUSER":
		return handleSetUser(params, aclCtx)
	case "DELUSER":
		return handleDelUser(params, aclCtx)
	case "CAT":
		return handleCat(params)
	case "HELP":
		return handleHelp()
	default:
		return nil, fmt.Errorf("unknown ACL subcommand '%s'", params.Command[1])
	}
}

func handleWhoAmI(params internal.HandlerFuncParams) ([]byte, error) {
	if len(params.Command) != 2 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	name := aclcore.DefaultUsername
	if params.ConnState != nil && params.ConnState.User != nil {
		name = params.ConnState.User.Name
	}
	return bulkString(name), nil
}

func handleList(params internal.HandlerFuncParams, aclCtx *aclcore.Context) ([]byte, error) {
	if len(params.Command) != 2 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	names := aclCtx.Registry.Names()
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		u, _ := aclCtx.GetUser(name)
		lines[i] = bulkString(strings.Join(append([]string{"user", name}, aclcore.Dump(u, aclCtx.Catalog)...), " "))
	}
	return respArray(lines...), nil
}

// handleGetUser answers `ACL GETUSER <name>` with a four-field map
// (flags, passwords, patterns, commands) built straight off the User,
// rather than the rule-DSL token list Dump produces for persistence.
func handleGetUser(params internal.HandlerFuncParams, aclCtx *aclcore.Context) ([]byte, error) {
	if len(params.Command) != 3 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	u, ok := aclCtx.GetUser(params.Command[2])
	if !ok {
		return nil, errors.New("ERR user not found")
	}

	var flags []string
	if u.HasFlag(aclcore.Enabled) {
		flags = append(flags, "on")
	} else {
		flags = append(flags, "off")
	}
	if u.HasFlag(aclcore.AllKeys) {
		flags = append(flags, "allkeys")
	}
	if u.HasFlag(aclcore.AllCommands) {
		flags = append(flags, "allcommands")
	}
	if u.HasFlag(aclcore.NoPass) {
		flags = append(flags, "nopass")
	}

	passwords := make([]string, 0, len(u.Passwords()))
	for _, pw := range u.Passwords() {
		passwords = append(passwords, bulkString(string(pw)))
	}

	patterns := make([]string, 0, len(u.Patterns()))
	for _, p := range u.Patterns() {
		patterns = append(patterns, bulkString(p))
	}

	commands := commandTokens(u, params.GetCatalog())

	fields := []string{
		bulkString("flags"), respArrayString(flagBulkStrings(flags)...),
		bulkString("passwords"), respArrayString(passwords...),
		bulkString("patterns"), respArrayString(patterns...),
		bulkString("commands"), respArrayString(commandBulkStrings(commands)...),
	}
	return respArray(fields...), nil
}

func flagBulkStrings(flags []string) []string {
	items := make([]string, len(flags))
	for i, f := range flags {
		items[i] = bulkString(f)
	}
	return items
}

func commandBulkStrings(commands []string) []string {
	items := make([]string, len(commands))
	for i, c := range commands {
		items[i] = bulkString(c)
	}
	return items
}

// commandTokens renders the commands a user may run as +cmd/+cmd|sub
// tokens, or a single +@all when the user has blanket command access.
func commandTokens(u *aclcore.User, catalog *command.Catalog) []string {
	if u.HasFlag(aclcore.AllCommands) {
		return []string{"+@all"}
	}

	descs := catalog.All()
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })

	var tokens []string
	for _, d := range descs {
		if u.CommandAllowed(d.ID) {
			tokens = append(tokens, "+"+d.Name)
		}
	}
	for _, d := range descs {
		subs := append([]string(nil), u.AllowedSubcommandsFor(d.ID)...)
		sort.Strings(subs)
		for _, s := range subs {
			tokens = append(tokens, fmt.Sprintf("+%s|%s", d.Name, s))
		}
	}
	return tokens
}

func handleSetUser(params internal.HandlerFuncParams, aclCtx *aclcore.Context) ([]byte, error) {
	if len(params.Command) < 3 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	username := params.Command[2]
	rules := params.Command[3:]

	if _, err := aclCtx.SetUser(username, rules); err != nil {
		return nil, wireSetUserError(err)
	}
	return []byte(constants.OkResponse), nil
}

// handleDelUser answers `ACL DELUSER` with the integer count of users
// actually removed; unknown or protected names are simply not counted,
// matching how ACL DELUSER never errors over a bad name.
func handleDelUser(params internal.HandlerFuncParams, aclCtx *aclcore.Context) ([]byte, error) {
	if len(params.Command) < 3 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	removed, _ := aclCtx.DeleteUsers(params.Command[2:]...)
	return respInteger(removed), nil
}

func handleCat(params internal.HandlerFuncParams) ([]byte, error) {
	if len(params.Command) < 2 || len(params.Command) > 3 {
		return nil, errors.New(constants.WrongArgsResponse)
	}

	if len(params.Command) == 2 {
		cats := append([]string(nil), constants.AllCategories...)
		sort.Strings(cats)
		items := make([]string, len(cats))
		for i, c := range cats {
			items[i] = bulkString(c)
		}
		return respArray(items...), nil
	}

	catalog := params.GetCatalog()
	ids := catalog.IDsInCategory(params.Command[2])
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if d, ok := catalog.DescriptorByID(id); ok {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	items := make([]string, len(names))
	for i, n := range names {
		items[i] = bulkString(n)
	}
	return respArray(items...), nil
}

func handleHelp() ([]byte, error) {
	lines := []string{
		"ACL WHOAMI -- Return the username of the current connection.",
		"ACL LIST -- List every user and their persisted rule form.",
		"ACL GETUSER <username> -- Describe a single user's rules.",
		"ACL SETUSER <username> [rule ...] -- Create or edit a user.",
		"ACL DELUSER <username> [username ...] -- Remove one or more users.",
		"ACL CAT -- List every known command category.",
	}
	items := make([]string, len(lines))
	for i, l := range lines {
		items[i] = bulkString(l)
	}
	return respArray(items...), nil
}

func bulkString(s string) string {
	return fmt.Sprintf("$%d\r\n%s\r\n", len(s), s)
}

func respArray(items ...string) []byte {
	return []byte(respArrayString(items...))
}

// respArrayString is respArray without the final []byte cast, so an
// array can be embedded as one element of an outer array.
func respArrayString(items ...string) string {
	res := fmt.Sprintf("*%d\r\n", len(items))
	for _, item := range items {
		res += item
	}
	return res
}

func respInteger(n int) []byte {
	return []byte(fmt.Sprintf(":%d\r\n", n))
}
