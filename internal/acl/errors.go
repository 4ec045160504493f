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

import "errors"

// Sentinel errors for every ACL failure kind. Checked with errors.Is;
// never swallowed, never retried internally.
var (
	ErrNameExists     = errors.New("name_exists")
	ErrNameNotFound   = errors.New("name_not_found")
	ErrProtectedUser  = errors.New("protected_user")
	ErrSyntax         = errors.New("syntax_error")
	ErrNoSuchUser     = errors.New("no_such_user")
	ErrBadCredentials = errors.New("bad_credentials")
	ErrDeniedCommand  = errors.New("denied_command")
	ErrDeniedKey      = errors.New("denied_key")
	ErrIDOverflow     = errors.New("id_overflow")
)
