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
package symbol

import (
	"fmt"
	"slices"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/pkg/errors"
)

// ErrNotFound indicates a lookup for an identifier which has no symbol.
var ErrNotFound = errors.New("symbol not found")

// ErrDuplicate indicates an attempt to add a symbol whose identifier is
// already taken.
var ErrDuplicate = errors.New("symbol already exists")

// Location identifies a position within a source file.
type Location struct {
	File     string
	Line     int
	Column   int
	Function string
}

func (p Location) String() string {
	if p.File == "" {
		return ""
	}
	//
	s := fmt.Sprintf("file %s line %d", p.File, p.Line)
	//
	if p.Function != "" {
		s = fmt.Sprintf("%s function %s", s, p.Function)
	}
	//
	return s
}

// Symbol describes a named entity (variable or function) of a program.
type Symbol struct {
	// Qualified identifier (e.g. "c::main::1::x")
	Id irep.Id
	// Name as written in the source (e.g. "x")
	BaseName string
	// Module (i.e. source file without extension) declaring this symbol.
	Module string
	// Type of this symbol.  Functions have type code.
	Type expr.Type
	// Return type, for functions.
	ReturnType expr.Type
	// Parameters, for functions.
	Parameters []irep.Id
	// Language mode (always "C").
	Mode string
	// Initial value, for variables with static lifetime.  Nil when absent.
	Value expr.Expr
	// StaticLifetime holds for global (and static) variables.
	StaticLifetime bool
	// IsFunction holds for functions.
	IsFunction bool
	// IsParameter holds for function parameters.
	IsParameter bool
	// Location of declaration.
	Location Location
}

// Expr returns a symbol expression referring to this symbol.
func (p *Symbol) Expr() *expr.Symbol {
	return expr.NewSymbol(p.Id, p.Type)
}

// Context is a mutable symbol table, populated by the front end.
type Context struct {
	symbols map[irep.Id]*Symbol
}

// NewContext constructs an empty symbol table.
func NewContext() *Context {
	return &Context{make(map[irep.Id]*Symbol)}
}

// Add a new symbol, failing if its identifier is already taken.
func (p *Context) Add(sym Symbol) (*Symbol, error) {
	if _, ok := p.symbols[sym.Id]; ok {
		return nil, errors.Wrapf(ErrDuplicate, "%s", sym.Id.String())
	}
	//
	ptr := &sym
	p.symbols[sym.Id] = ptr
	//
	return ptr, nil
}

// Move adds a symbol unless its identifier is already taken, in which case
// the existing symbol is returned along with true.
func (p *Context) Move(sym Symbol) (*Symbol, bool) {
	if existing, ok := p.symbols[sym.Id]; ok {
		return existing, true
	}
	//
	ptr := &sym
	p.symbols[sym.Id] = ptr
	//
	return ptr, false
}

// Find returns the symbol for a given identifier, or nil.
func (p *Context) Find(id irep.Id) *Symbol {
	return p.symbols[id]
}

// Len returns the number of symbols in this table.
func (p *Context) Len() int {
	return len(p.symbols)
}

// Namespace provides a read-only view over a symbol table.
type Namespace struct {
	context *Context
}

// NewNamespace constructs a namespace over a given symbol table.
func NewNamespace(context *Context) Namespace {
	return Namespace{context}
}

// Lookup returns the symbol for a given identifier, or ErrNotFound.
func (p Namespace) Lookup(id irep.Id) (*Symbol, error) {
	if p.context != nil {
		if sym := p.context.Find(id); sym != nil {
			return sym, nil
		}
	}
	//
	return nil, errors.Wrapf(ErrNotFound, "%s", id.String())
}

// Has checks whether a given identifier has a symbol.
func (p Namespace) Has(id irep.Id) bool {
	return p.context != nil && p.context.Find(id) != nil
}

// Symbols returns all symbols ordered by identifier.
func (p Namespace) Symbols() []*Symbol {
	if p.context == nil {
		return nil
	}
	//
	symbols := make([]*Symbol, 0, len(p.context.symbols))
	//
	for _, sym := range p.context.symbols {
		symbols = append(symbols, sym)
	}
	//
	slices.SortFunc(symbols, func(l, r *Symbol) int { return l.Id.Cmp(r.Id) })
	//
	return symbols
}
