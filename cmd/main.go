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

// Command ripple-server is a minimal RESP/TCP server that exists to
// give the ACL subsystem a real caller: every command it dispatches
// other than AUTH passes through Authorize first, so AUTH, ACL SETUSER and the
// command/key checks all run against live connections instead of only
// unit tests.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ripplekv/ripple/internal"
	aclcore "github.com/ripplekv/ripple/internal/acl"
	aclmodule "github.com/ripplekv/ripple/internal/modules/acl"

	"github.com/ripplekv/ripple/internal/command"
	"github.com/ripplekv/ripple/internal/config"
	"github.com/ripplekv/ripple/internal/constants"
)

// store is the demo server's entire "database": just enough of a
// key/value map to make GET/SET meaningful targets for the ACL key
// check. It is not the subject of this exercise.
type store struct {
	mu   sync.RWMutex
	data map[string]string
}

func newStore() *store { return &store{data: make(map[string]string)} }

func (s *store) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *store) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func singleKeyAt(pos int) command.KeyExtractionFunc {
	return func(argv []string) ([]int, error) {
		if len(argv) <= pos {
			return nil, errors.New(constants.WrongArgsResponse)
		}
		return []int{pos}, nil
	}
}

func buildCatalog(s *store) (*command.Catalog, map[string]internal.Command) {
	reg := command.NewRegistry()
	catalog := command.NewCatalog(reg)
	table := make(map[string]internal.Command)

	register := func(c internal.Command) {
		catalog.Register(command.Descriptor{
			Name:              c.Command,
			Categories:        c.Categories,
			HasKeys:           c.KeyExtractionFunc != nil,
			IsAuth:            aclmodule.IsAuthCommand(c.Command),
			KeyExtractionFunc: c.KeyExtractionFunc,
		})
		table[strings.ToLower(c.Command)] = c
	}

	register(internal.Command{
		Command:     "ping",
		Categories:  []string{constants.FastCategory},
		Description: "(PING) Liveness check.",
		HandlerFunc: handlePing,
	})
	register(internal.Command{
		Command:           "get",
		Categories:        []string{constants.StringCategory, constants.ReadOnlyCategory, constants.FastCategory},
		Description:       "(GET key) Return the value stored at key.",
		HandlerFunc:       makeGetHandler(s),
		KeyExtractionFunc: singleKeyAt(1),
	})
	register(internal.Command{
		Command:           "set",
		Categories:        []string{constants.StringCategory, constants.ReadWriteCategory, constants.SlowCategory},
		Description:       "(SET key value) Store value at key.",
		HandlerFunc:       makeSetHandler(s),
		KeyExtractionFunc: singleKeyAt(1),
	})
	register(internal.Command{
		Command:     "debug",
		Categories:  []string{constants.AdminCategory, constants.SlowCategory},
		Description: "(DEBUG SLEEP ms | DEBUG OBJECT key) Diagnostics.",
		HandlerFunc: handleDebug,
	})
	for _, c := range aclmodule.Commands() {
		register(c)
	}

	if reg.Overflowed() {
		log.Fatalf("command table: %v", aclcore.ErrIDOverflow)
	}

	return catalog, table
}

func handlePing(internal.HandlerFuncParams) ([]byte, error) {
	return []byte("+PONG\r\n"), nil
}

func makeGetHandler(s *store) internal.HandlerFunc {
	return func(params internal.HandlerFuncParams) ([]byte, error) {
		if len(params.Command) != 2 {
			return nil, errors.New(constants.WrongArgsResponse)
		}
		v, ok := s.get(params.Command[1])
		if !ok {
			return []byte("$-1\r\n"), nil
		}
		return []byte(fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)), nil
	}
}

func makeSetHandler(s *store) internal.HandlerFunc {
	return func(params internal.HandlerFuncParams) ([]byte, error) {
		if len(params.Command) != 3 {
			return nil, errors.New(constants.WrongArgsResponse)
		}
		s.set(params.Command[1], params.Command[2])
		return []byte(constants.OkResponse), nil
	}
}

func handleDebug(params internal.HandlerFuncParams) ([]byte, error) {
	if len(params.Command) < 2 {
		return nil, errors.New(constants.WrongArgsResponse)
	}
	switch strings.ToUpper(params.Command[1]) {
	case "SLEEP":
		if len(params.Command) != 3 {
			return nil, errors.New(constants.WrongArgsResponse)
		}
		ms, err := strconv.Atoi(params.Command[2])
		if err != nil {
			return nil, err
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return []byte(constants.OkResponse), nil
	case "OBJECT":
		if len(params.Command) != 3 {
			return nil, errors.New(constants.WrongArgsResponse)
		}
		return []byte(fmt.Sprintf("+key=%s type=string\r\n", params.Command[2])), nil
	default:
		return nil, fmt.Errorf("unknown DEBUG subcommand '%s'", params.Command[1])
	}
}

func writeError(conn net.Conn, err error) {
	msg := strings.ReplaceAll(err.Error(), "\r\n", " ")
	_, _ = conn.Write([]byte("-" + msg + "\r\n"))
}

func handleConnection(conn net.Conn, catalog *command.Catalog, table map[string]internal.Command, aclCtx *aclcore.Context) {
	defer conn.Close()

	state := &internal.ConnState{Conn: &conn}
	defaultUser, _ := aclCtx.GetUser(aclcore.DefaultUsername)
	state.User = defaultUser

	for {
		message, err := internal.ReadMessage(conn)
		if err != nil {
			return
		}
		argv, err := internal.Decode(message)
		if err != nil {
			writeError(conn, fmt.Errorf("parse error: %w", err))
			continue
		}
		if len(argv) == 0 {
			continue
		}

		name := strings.ToLower(argv[0])
		cmd, ok := table[name]
		if !ok {
			writeError(conn, fmt.Errorf("unknown command '%s'", argv[0]))
			continue
		}

		if !aclmodule.IsAuthCommand(name) {
			desc, ok := catalog.Lookup(name)
			if !ok {
				writeError(conn, fmt.Errorf("unknown command '%s'", argv[0]))
				continue
			}
			if err := aclcore.Authorize(state.User, desc, argv); err != nil {
				if errors.Is(err, aclcore.ErrDeniedCommand) {
					writeError(conn, aclmodule.WireDeniedCommand(argv[0]))
				} else {
					writeError(conn, aclmodule.WireError(err))
				}
				continue
			}
		}

		reply, err := cmd.HandlerFunc(internal.HandlerFuncParams{
			Context:    context.Background(),
			Command:    argv,
			Connection: &conn,
			ConnState:  state,
			GetCatalog: func() *command.Catalog { return catalog },
			GetAclCtx:  func() *aclcore.Context { return aclCtx },
		})
		if err != nil {
			writeError(conn, aclmodule.WireError(err))
			continue
		}
		if _, err := conn.Write(reply); err != nil {
			return
		}
	}
}

func main() {
	conf, err := config.GetConfig()
	if err != nil {
		log.Fatal(err)
	}

	store := newStore()
	catalog, table := buildCatalog(store)
	aclCtx := aclcore.NewContext(catalog)

	if conf.AclConfigPath != "" {
		if err := aclcore.Load(context.Background(), aclCtx, conf.AclConfigPath, aclcore.LoadMerge); err != nil && !os.IsNotExist(err) {
			log.Printf("load ACL config: %v", err)
		}
	}

	if conf.RequirePass {
		if _, err := aclCtx.SetUser(aclcore.DefaultUsername, []string{"resetpass", ">" + conf.Password}); err != nil {
			log.Fatalf("configuring default user password: %v", err)
		}
	}

	addr := net.JoinHostPort(conf.BindAddr, strconv.Itoa(int(conf.Port)))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("listening on %s", addr)

	cancelCh := make(chan os.Signal, 1)
	signal.Notify(cancelCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go handleConnection(conn, catalog, table, aclCtx)
		}
	}()

	<-cancelCh
	_ = listener.Close()

	if conf.AclConfigPath != "" {
		if err := aclcore.Save(context.Background(), aclCtx, conf.AclConfigPath); err != nil {
			log.Printf("save ACL config: %v", err)
		}
	}
}
