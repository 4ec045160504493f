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

import "github.com/ripplekv/ripple/internal/command"

// commandBitmap is the fixed-size bit vector indexed by command.ID,
// sized to command.MaxID bits. No ecosystem bitset library appears
// directly imported anywhere in the example corpus (hashicorp-nomad
// only vendors one transitively through an unrelated dependency chain,
// never importing it itself), so this tiny fixed-size structure is
// hand-rolled; see DESIGN.md.
type commandBitmap [command.MaxID / 64]uint64

func (b *commandBitmap) set(id uint32) {
	if id >= command.MaxID {
		return
	}
	b[id/64] |= 1 << (id % 64)
}

func (b *commandBitmap) clear(id uint32) {
	if id >= command.MaxID {
		return
	}
	b[id/64] &^= 1 << (id % 64)
}

func (b *commandBitmap) isSet(id uint32) bool {
	if id >= command.MaxID {
		return false
	}
	return b[id/64]&(1<<(id%64)) != 0
}

func (b *commandBitmap) setAll() {
	for i := range b {
		b[i] = ^uint64(0)
	}
}

func (b *commandBitmap) clearAll() {
	for i := range b {
		b[i] = 0
	}
}

func (b commandBitmap) equal(o commandBitmap) bool {
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}
