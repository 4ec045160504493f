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

// Package config holds the process-level configuration for the
// dispatch server and the ACL subsystem it wires together: where to
// listen, whether the default user requires a password, and where the
// persisted ACL user table lives on disk.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/pattern"
	"github.com/ripplekv/ripple/internal/security"
)

type Config struct {
	BindAddr      string `json:"BindAddr" yaml:"BindAddr"`
	Port          uint16 `json:"Port" yaml:"Port"`
	RequirePass   bool   `json:"RequirePass" yaml:"RequirePass"`
	Password      string `json:"Password" yaml:"Password"`
	AclConfigPath string `json:"AclConfigPath" yaml:"AclConfigPath"`

	// MaxCommandID, MaxPassLen and PatternLenCap mirror the ACL core's
	// compile-time constants (command.MaxID, security.MaxPassLen,
	// pattern.MaxLen) so an operator can see them reflected in the
	// running config, even though changing them here has no effect:
	// the core sizes its fixed buffers from the constants directly.
	MaxCommandID  uint32 `json:"MaxCommandID" yaml:"MaxCommandID"`
	MaxPassLen    int    `json:"MaxPassLen" yaml:"MaxPassLen"`
	PatternLenCap int    `json:"PatternLenCap" yaml:"PatternLenCap"`
}

// GetConfig parses command-line flags, then overlays a JSON or YAML
// config file on top if one was given with -config. Flag values act as
// defaults; anything the file sets wins.
func GetConfig() (Config, error) {
	bindAddr := flag.String("bind-addr", "127.0.0.1", "Address to bind the server to.")
	port := flag.Int("port", 7480, "Port to listen on.")
	requirePass := flag.Bool("require-pass", false, "Whether the default user requires a password to AUTH.")
	password := flag.String("password", "", "Password for the default user. Ignored unless -require-pass is set.")
	aclConfigPath := flag.String("acl-config", "", "Path to the persisted ACL user table (YAML or JSON).")
	configFile := flag.String("config", "", "Path to a JSON or YAML file overriding the flag values above.")

	flag.Parse()

	conf := Config{
		BindAddr:      *bindAddr,
		Port:          uint16(*port),
		RequirePass:   *requirePass,
		Password:      *password,
		AclConfigPath: *aclConfigPath,
		MaxCommandID:  command.MaxID,
		MaxPassLen:    security.MaxPassLen,
		PatternLenCap: pattern.MaxLen,
	}

	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			return Config{}, err
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Println(err)
			}
		}()

		switch ext := strings.ToLower(path.Ext(f.Name())); {
		case ext == ".json":
			if err := json.NewDecoder(f).Decode(&conf); err != nil {
				return Config{}, err
			}
		case slices.Contains([]string{".yaml", ".yml"}, ext):
			if err := yaml.NewDecoder(f).Decode(&conf); err != nil {
				return Config{}, err
			}
		}
	}

	if conf.RequirePass && conf.Password == "" {
		return Config{}, errors.New("password cannot be empty when require-pass is set")
	}

	return conf, nil
}
