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

package internal

import (
	"context"
	"net"

	"github.com/ripplekv/ripple/internal/acl"
	"github.com/ripplekv/ripple/internal/command"
)

type ContextConnID string

// ConnState is the per-connection state the dispatch loop threads
// through every command: which user the connection authenticated as,
// and the raw net.Conn for handlers that need to inspect the peer.
type ConnState struct {
	Conn *net.Conn
	User *acl.User
}

// HandlerFuncParams is everything a command handler needs, stripped
// down to what the ACL subsystem and its demo dispatch server actually
// use: no storage-engine plumbing, no replication hooks.
type HandlerFuncParams struct {
	Context    context.Context
	Command    []string
	Connection *net.Conn
	ConnState  *ConnState
	GetCatalog func() *command.Catalog
	GetAclCtx  func() *acl.Context
}

type HandlerFunc func(params HandlerFuncParams) ([]byte, error)

type SubCommand struct {
	Command     string
	Categories  []string
	Description string
	HandlerFunc
	command.KeyExtractionFunc
}

type Command struct {
	Command     string
	Module      string
	Categories  []string
	Description string
	SubCommands []SubCommand
	HandlerFunc
	command.KeyExtractionFunc
}
