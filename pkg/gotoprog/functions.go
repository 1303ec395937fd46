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
package gotoprog

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/pkg/errors"
)

// ENTRY_POINT is the name of the function which initialises global state and
// then calls the user's entry function.
const ENTRY_POINT = "__ESBMC_main"

// Signature describes the interface of a function.
type Signature struct {
	Return     expr.Type
	Parameters []irep.Id
}

// Function associates a function identifier with its (optional) body.
type Function struct {
	id        irep.Id
	signature Signature
	body      *Program
}

// NewFunction constructs a new function.  The body is nil for functions which
// are declared but not defined.
func NewFunction(id irep.Id, signature Signature, body *Program) *Function {
	return &Function{id, signature, body}
}

// Id returns the identifier of this function.
func (p *Function) Id() irep.Id {
	return p.id
}

// Signature returns the signature of this function.
func (p *Function) Signature() Signature {
	return p.signature
}

// Body returns the body of this function, or nil if none is available.
func (p *Function) Body() *Program {
	return p.body
}

// BodyAvailable checks whether this function has a body.
func (p *Function) BodyAvailable() bool {
	return p.body != nil
}

// Functions is the function table of a program, mapping function identifiers
// to functions.  A table is populated once (via Add) and then treated as
// read-only.  Releasing the table invalidates every program it owns.
type Functions struct {
	mux       sync.RWMutex
	lifetime  *lifetime
	functions map[irep.Id]*Function
}

// NewFunctions constructs an empty function table.
func NewFunctions() *Functions {
	return &Functions{lifetime: &lifetime{}, functions: make(map[irep.Id]*Function)}
}

// Add a function to this table.  The table takes a private copy of the
// function's body, so the given function remains unaffected.
func (p *Functions) Add(fn *Function) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	if p.lifetime.released.Load() {
		return ErrSessionClosed
	} else if _, ok := p.functions[fn.id]; ok {
		return errors.Errorf("duplicate function %s", fn.id.String())
	}
	//
	var body *Program
	//
	if fn.body != nil {
		body = &Program{fn.id, cloneCode(fn.body.code), p.lifetime}
	}
	//
	p.functions[fn.id] = &Function{fn.id, fn.signature, body}
	//
	return nil
}

// Lookup the function with a given identifier.
func (p *Functions) Lookup(id irep.Id) (*Function, error) {
	p.mux.RLock()
	defer p.mux.RUnlock()
	//
	if p.lifetime.released.Load() {
		return nil, errors.Wrapf(ErrSessionClosed, "looking up %s", id.String())
	} else if fn, ok := p.functions[id]; ok {
		return fn, nil
	}
	//
	return nil, errors.Wrapf(ErrNotFound, "%s", id.String())
}

// Names returns the identifiers of all functions in this table, in sorted
// order.
func (p *Functions) Names() []irep.Id {
	p.mux.RLock()
	defer p.mux.RUnlock()
	//
	return p.sortedNames()
}

// MainId returns the identifier of the entry point function.
func (p *Functions) MainId() irep.Id {
	return irep.NewId(ENTRY_POINT)
}

// Len returns the number of functions in this table.
func (p *Functions) Len() int {
	p.mux.RLock()
	defer p.mux.RUnlock()
	//
	return len(p.functions)
}

// Validate every function body in this table.
func (p *Functions) Validate() error {
	for _, id := range p.Names() {
		fn, err := p.Lookup(id)
		if err != nil {
			return err
		} else if fn.body == nil {
			continue
		} else if err := fn.body.Validate(); err != nil {
			return err
		}
	}
	//
	return nil
}

// Update renumbers the locations of all instructions in this table, such
// that location numbers are unique across the table.  Functions are numbered
// in sorted order.
func (p *Functions) Update() {
	var n uint
	//
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	for _, id := range p.sortedNames() {
		if body := p.functions[id].body; body != nil {
			for i := range body.code {
				body.code[i].LocationNumber = n
				n++
			}
			//
			numberTargets(body.code)
		}
	}
}

// Map constructs a new function table by applying a given transformation to
// every function body in this table.  Functions without bodies are carried
// over unchanged.
func (p *Functions) Map(fn func(*Program) (*Program, error)) (*Functions, error) {
	var ntable = NewFunctions()
	//
	for _, id := range p.Names() {
		f, err := p.Lookup(id)
		if err != nil {
			return nil, err
		}
		//
		body := f.body
		//
		if body != nil {
			if body, err = fn(body); err != nil {
				return nil, err
			}
		}
		//
		if err := ntable.Add(NewFunction(id, f.signature, body)); err != nil {
			return nil, err
		}
	}
	//
	ntable.Update()
	//
	return ntable, nil
}

// Release this table, after which every query on it (or on any program it
// owns) fails with ErrSessionClosed.  Releasing more than once has no effect.
func (p *Functions) Release() {
	p.lifetime.released.Store(true)
}

// Released checks whether this table has been released.
func (p *Functions) Released() bool {
	return p.lifetime.released.Load()
}

// Output writes every function with a body, in sorted order, in
// goto-instrument style.
func (p *Functions) Output(w io.Writer) error {
	for _, id := range p.Names() {
		fn, err := p.Lookup(id)
		if err != nil {
			return err
		} else if fn.body == nil {
			continue
		}
		//
		if err := OutputFunction(w, fn); err != nil {
			return err
		}
	}
	//
	return nil
}

// OutputFunction writes a single function in goto-instrument style.
func OutputFunction(w io.Writer, fn *Function) error {
	if _, err := fmt.Fprintf(w, "%s (%s):\n", fn.id.BaseName(), fn.id.String()); err != nil {
		return err
	} else if err := fn.body.Output(w); err != nil {
		return err
	}
	//
	_, err := fmt.Fprintln(w)
	//
	return err
}

func (p *Functions) sortedNames() []irep.Id {
	names := make([]irep.Id, 0, len(p.functions))
	//
	for id := range p.functions {
		names = append(names, id)
	}
	//
	slices.SortFunc(names, func(l, r irep.Id) int { return l.Cmp(r) })
	//
	return names
}
