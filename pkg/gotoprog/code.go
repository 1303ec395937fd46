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
	"strconv"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
)

// Code represents the statement payload of an instruction.
type Code interface {
	// Reads identifies the variables read by this code.
	Reads() []irep.Id
	// Writes identifies the variables written by this code.
	Writes() []irep.Id
	// String returns a C-like rendering of this code.
	String() string
}

// Assign updates a variable with the value of an expression.
type Assign struct {
	Lhs *expr.Symbol
	Rhs expr.Expr
}

// Reads implementation for Code interface.
func (p *Assign) Reads() []irep.Id {
	return expr.Symbols(p.Rhs)
}

// Writes implementation for Code interface.
func (p *Assign) Writes() []irep.Id {
	return []irep.Id{p.Lhs.Id}
}

func (p *Assign) String() string {
	return fmt.Sprintf("%s = %s;", p.Lhs.String(), p.Rhs.String())
}

// Decl introduces a local variable.
type Decl struct {
	Symbol *expr.Symbol
}

// Reads implementation for Code interface.
func (p *Decl) Reads() []irep.Id {
	return nil
}

// Writes implementation for Code interface.
func (p *Decl) Writes() []irep.Id {
	return nil
}

func (p *Decl) String() string {
	return fmt.Sprintf("%s %s;", p.Symbol.DataType.CName(), p.Symbol.String())
}

// Dead ends the lifetime of a local variable.
type Dead struct {
	Symbol *expr.Symbol
}

// Reads implementation for Code interface.
func (p *Dead) Reads() []irep.Id {
	return nil
}

// Writes implementation for Code interface.
func (p *Dead) Writes() []irep.Id {
	return nil
}

func (p *Dead) String() string {
	return p.Symbol.String()
}

// FunctionCall invokes a function, optionally assigning its return value.
type FunctionCall struct {
	// Variable receiving the return value, or nil.
	Lhs       *expr.Symbol
	Function  irep.Id
	Arguments []expr.Expr
}

// Reads implementation for Code interface.
func (p *FunctionCall) Reads() []irep.Id {
	var ids []irep.Id
	//
	for _, arg := range p.Arguments {
		ids = append(ids, expr.Symbols(arg)...)
	}
	//
	return ids
}

// Writes implementation for Code interface.
func (p *FunctionCall) Writes() []irep.Id {
	if p.Lhs == nil {
		return nil
	}
	//
	return []irep.Id{p.Lhs.Id}
}

func (p *FunctionCall) String() string {
	var call = fmt.Sprintf("%s(%s);", p.Function.BaseName(), joinExprs(p.Arguments))
	//
	if p.Lhs != nil {
		return fmt.Sprintf("%s = %s", p.Lhs.String(), call)
	}
	//
	return call
}

// Return sets the return value of the enclosing function.
type Return struct {
	// Returned value, or nil for void functions.
	Value expr.Expr
}

// Reads implementation for Code interface.
func (p *Return) Reads() []irep.Id {
	if p.Value == nil {
		return nil
	}
	//
	return expr.Symbols(p.Value)
}

// Writes implementation for Code interface.
func (p *Return) Writes() []irep.Id {
	return nil
}

func (p *Return) String() string {
	if p.Value == nil {
		return "return;"
	}
	//
	return fmt.Sprintf("return %s;", p.Value.String())
}

// Output prints a formatted message, as printf does.
type Output struct {
	Format    string
	Arguments []expr.Expr
}

// Reads implementation for Code interface.
func (p *Output) Reads() []irep.Id {
	var ids []irep.Id
	//
	for _, arg := range p.Arguments {
		ids = append(ids, expr.Symbols(arg)...)
	}
	//
	return ids
}

// Writes implementation for Code interface.
func (p *Output) Writes() []irep.Id {
	return nil
}

func (p *Output) String() string {
	args := []string{strconv.Quote(p.Format)}
	//
	if len(p.Arguments) > 0 {
		args = append(args, joinExprs(p.Arguments))
	}
	//
	return fmt.Sprintf("printf(%s);", strings.Join(args, ", "))
}

func joinExprs(exprs []expr.Expr) string {
	var builder strings.Builder
	//
	for i, e := range exprs {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.String())
	}
	//
	return builder.String()
}
