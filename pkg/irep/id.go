// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package irep

import (
	"strings"
	"sync"
)

// SEPARATOR splits the components of a qualified identifier, as in "c::main".
const SEPARATOR = "::"

// Id is an interned qualified identifier.  Ids are comparable and cheap to
// copy, hence they can be used directly as map keys.  The zero Id is the empty
// identifier.
type Id struct {
	index uint32
}

// table holds every identifier interned so far.  Index 0 is reserved for
// the empty string.
var table = struct {
	sync.RWMutex
	strings []string
	index   map[string]uint32
}{
	strings: []string{""},
	index:   map[string]uint32{"": 0},
}

// NewId interns a given string, returning its identifier.  Two calls with the
// same string always return equal identifiers.
func NewId(name string) Id {
	table.RLock()
	index, ok := table.index[name]
	table.RUnlock()
	//
	if ok {
		return Id{index}
	}
	//
	table.Lock()
	defer table.Unlock()
	// Check again, since another goroutine may have beaten us to it.
	if index, ok = table.index[name]; !ok {
		index = uint32(len(table.strings))
		table.strings = append(table.strings, name)
		table.index[name] = index
	}
	//
	return Id{index}
}

// Join constructs a qualified identifier from one or more components.
func Join(parts ...string) Id {
	return NewId(strings.Join(parts, SEPARATOR))
}

// String returns the qualified name of this identifier.
func (p Id) String() string {
	table.RLock()
	defer table.RUnlock()
	//
	return table.strings[p.index]
}

// IsEmpty checks whether this is the empty identifier.
func (p Id) IsEmpty() bool {
	return p.index == 0
}

// Mode returns the language prefix of this identifier (e.g. "c" for
// "c::main"), or the empty string if it is unqualified.
func (p Id) Mode() string {
	var name = p.String()
	//
	if i := strings.Index(name, SEPARATOR); i >= 0 {
		return name[:i]
	}
	//
	return ""
}

// BaseName returns the last component of this identifier (e.g. "x" for
// "c::main::1::x").
func (p Id) BaseName() string {
	var name = p.String()
	//
	if i := strings.LastIndex(name, SEPARATOR); i >= 0 {
		return name[i+len(SEPARATOR):]
	}
	//
	return name
}

// Components splits this identifier into its components.
func (p Id) Components() []string {
	if p.IsEmpty() {
		return nil
	}
	//
	return strings.Split(p.String(), SEPARATOR)
}

// Extend constructs a new identifier by appending components to this one.
func (p Id) Extend(parts ...string) Id {
	if p.IsEmpty() {
		return Join(parts...)
	}
	//
	return Join(append([]string{p.String()}, parts...)...)
}

// Cmp provides a lexicographic ordering over identifiers.
func (p Id) Cmp(other Id) int {
	return strings.Compare(p.String(), other.String())
}
