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

package config

import (
	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/pattern"
	"github.com/ripplekv/ripple/internal/security"
)

func DefaultConfig() Config {
	return Config{
		BindAddr:      "localhost",
		Port:          7480,
		RequirePass:   false,
		Password:      "",
		AclConfigPath: "",
		MaxCommandID:  command.MaxID,
		MaxPassLen:    security.MaxPassLen,
		PatternLenCap: pattern.MaxLen,
	}
}
