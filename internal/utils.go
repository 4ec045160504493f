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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/resp"
)

// Decode reads one RESP array of bulk strings off raw and returns its
// tokens, the same shape a command line arrives in from the wire.
func Decode(raw []byte) ([]string, error) {
	reader := resp.NewReader(bytes.NewReader(raw))

	value, _, err := reader.ReadValue()
	if err != nil {
		return nil, err
	}

	var res []string
	for i := 0; i < len(value.Array()); i++ {
		res = append(res, value.Array()[i].String())
	}

	return res, nil
}

// ReadMessage drains r until EOF or a short read, trimming the zero
// padding a fixed-size buffer read can leave behind.
func ReadMessage(r io.Reader) ([]byte, error) {
	reader := bufio.NewReader(r)

	var res []byte

	chunk := make([]byte, 8192)

	for {
		n, err := reader.Read(chunk)
		if err != nil && errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		res = append(res, chunk...)
		if n < len(chunk) {
			break
		}
		clear(chunk)
	}

	return bytes.Trim(res, "\x00"), nil
}

// EncodeCommand renders cmd as a RESP array of bulk strings.
func EncodeCommand(cmd []string) []byte {
	res := fmt.Sprintf("*%d\r\n", len(cmd))
	for _, token := range cmd {
		res += fmt.Sprintf("$%d\r\n%s\r\n", len(token), token)
	}
	return []byte(res)
}
