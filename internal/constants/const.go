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

// Package constants holds the small closed vocabularies shared across
// the ACL core: module names, command categories and the stable wire
// error tokens clients grep for.
package constants

const (
	ACLModule        = "acl"
	ConnectionModule = "connection"
	GenericModule    = "generic"
)

// Categories is the closed set a rule's "+@cat"/"-@cat" operand may
// name. "all" is handled as a pseudo-category meaning every command.
const (
	SetCategory         = "set"
	SortedSetCategory   = "sortedset"
	ListCategory        = "list"
	HashCategory        = "hash"
	StringCategory      = "string"
	BitmapCategory      = "bitmap"
	HyperLogLogCategory = "hyperloglog"
	StreamCategory      = "stream"
	AdminCategory       = "admin"
	ReadOnlyCategory    = "readonly"
	ReadWriteCategory   = "readwrite"
	FastCategory        = "fast"
	SlowCategory        = "slow"
	PubSubCategory      = "pubsub"
	AllCategory         = "all"
)

// AllCategories lists every member of the closed category vocabulary,
// excluding the "all" pseudo-category.
var AllCategories = []string{
	SetCategory, SortedSetCategory, ListCategory, HashCategory, StringCategory,
	BitmapCategory, HyperLogLogCategory, StreamCategory, AdminCategory,
	ReadOnlyCategory, ReadWriteCategory, FastCategory, SlowCategory, PubSubCategory,
}

const (
	OkResponse        = "+OK\r\n"
	WrongArgsResponse = "wrong number of arguments"
)

// Wire error token prefixes. Stable and grep-able.
const (
	WrongPassPrefix  = "WRONGPASS"
	NoPermPrefix     = "NOPERM"
	WrongPassMessage = "WRONGPASS invalid username-password pair"
	NoPermCommandFmt = "NOPERM this user has no permissions to run the '%s' command"
	NoPermKeyMessage = "NOPERM this user has no permissions to access one of the keys used as arguments"
)
