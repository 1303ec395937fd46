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
package cfront

import (
	"strconv"

	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
)

// Scope records the local variables declared in a block.  Scopes are nested,
// and lookup proceeds outwards until the enclosing function's parameters are
// reached.
type scope struct {
	parent *scope
	// Qualified prefix for variables in this scope (e.g. c::main::1).
	prefix irep.Id
	// Variables declared in this scope, in order of declaration.
	locals []*symbol.Symbol
	// Number of child scopes opened so far.
	children uint
}

func newScope(parent *scope, prefix irep.Id) *scope {
	return &scope{parent: parent, prefix: prefix}
}

// Open a nested scope.
func (p *scope) nest() *scope {
	p.children++
	//
	return newScope(p, p.prefix.Extend(strconv.FormatUint(uint64(p.children), 10)))
}

// Lookup a variable by its name, searching enclosing scopes as necessary.
func (p *scope) lookup(name string) *symbol.Symbol {
	for s := p; s != nil; s = s.parent {
		for _, sym := range s.locals {
			if sym.BaseName == name {
				return sym
			}
		}
	}
	//
	return nil
}

// Check whether a given name is declared directly in this scope.
func (p *scope) declares(name string) bool {
	for _, sym := range p.locals {
		if sym.BaseName == name {
			return true
		}
	}
	//
	return false
}

// Emit DEAD instructions for all (non-static) locals of this scope, in
// reverse order of declaration.
func (p *scope) kill(builder *gotoprog.Builder, loc symbol.Location) {
	for i := len(p.locals) - 1; i >= 0; i-- {
		if sym := p.locals[i]; !sym.StaticLifetime && !sym.IsParameter {
			builder.Emit(gotoprog.Instruction{Type: gotoprog.DEAD, Code: &gotoprog.Dead{Symbol: sym.Expr()},
				Location: loc})
		}
	}
}
