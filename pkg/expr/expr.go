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
package expr

import (
	"math/big"

	"github.com/consensys/go-gotoprog/pkg/irep"
)

// Expr represents a side-effect free expression as found in the guards and
// statements of goto programs.  Expressions are immutable once constructed.
type Expr interface {
	// Type returns the type of this expression.
	Type() Type
	// String returns this expression in C syntax.
	String() string
}

// Symbol represents a reference to a variable (or function) by its qualified
// identifier.
type Symbol struct {
	Id       irep.Id
	DataType Type
}

// NewSymbol constructs a new symbol expression.
func NewSymbol(id irep.Id, datatype Type) *Symbol {
	return &Symbol{id, datatype}
}

// Constant represents a literal value.  Boolean constants are represented by
// the values 0 and 1.
type Constant struct {
	Value    big.Int
	DataType Type
}

// NewConstant constructs a constant of a given type.
func NewConstant(value int64, datatype Type) *Constant {
	var c = &Constant{DataType: datatype}
	//
	c.Value.SetInt64(value)
	//
	return c
}

// NewBigConstant constructs a constant of a given type from an arbitrary
// precision value.
func NewBigConstant(value *big.Int, datatype Type) *Constant {
	var c = &Constant{DataType: datatype}
	//
	c.Value.Set(value)
	//
	return c
}

// UnaryOp identifies an arithmetic unary operator.
type UnaryOp uint8

const (
	// NEG is arithmetic negation "-x"
	NEG UnaryOp = iota
	// BITNOT is bitwise complement "~x"
	BITNOT
)

// Unary represents an arithmetic unary operation.
type Unary struct {
	Operator UnaryOp
	Arg      Expr
	DataType Type
}

// Not represents logical negation.
type Not struct {
	Arg Expr
}

// BinOp identifies an arithmetic, bitwise or shift operator.
type BinOp uint8

const (
	// ADD is "+"
	ADD BinOp = iota
	// SUB is "-"
	SUB
	// MUL is "*"
	MUL
	// DIV is "/"
	DIV
	// MOD is "%"
	MOD
	// SHL is "<<"
	SHL
	// SHR is ">>"
	SHR
	// BITAND is "&"
	BITAND
	// BITOR is "|"
	BITOR
	// BITXOR is "^"
	BITXOR
)

// Binary represents an arithmetic, bitwise or shift operation.
type Binary struct {
	Operator BinOp
	Left     Expr
	Right    Expr
	DataType Type
}

// CmpOp identifies a comparison operator.
type CmpOp uint8

const (
	// EQ is "=="
	EQ CmpOp = iota
	// NEQ is "!="
	NEQ
	// LT is "<"
	LT
	// LTEQ is "<="
	LTEQ
	// GT is ">"
	GT
	// GTEQ is ">="
	GTEQ
)

// Cmp represents a comparison between two expressions.
type Cmp struct {
	Operator CmpOp
	Left     Expr
	Right    Expr
}

// LogicalOp identifies a boolean connective.
type LogicalOp uint8

const (
	// AND is "&&"
	AND LogicalOp = iota
	// OR is "||"
	OR
)

// Logical represents a conjunction or disjunction of one or more conditions.
type Logical struct {
	Operator LogicalOp
	Args     []Expr
}

// If represents a conditional expression "c ? t : f".
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Typecast converts an expression into a given type.
type Typecast struct {
	Arg      Expr
	DataType Type
}

// Nondet represents an arbitrary value of a given type.
type Nondet struct {
	DataType Type
}

// Type implementation for Expr interface.
func (p *Symbol) Type() Type { return p.DataType }

// Type implementation for Expr interface.
func (p *Constant) Type() Type { return p.DataType }

// Type implementation for Expr interface.
func (p *Unary) Type() Type { return p.DataType }

// Type implementation for Expr interface.
func (p *Not) Type() Type { return Bool() }

// Type implementation for Expr interface.
func (p *Binary) Type() Type { return p.DataType }

// Type implementation for Expr interface.
func (p *Cmp) Type() Type { return Bool() }

// Type implementation for Expr interface.
func (p *Logical) Type() Type { return Bool() }

// Type implementation for Expr interface.
func (p *If) Type() Type { return p.Then.Type() }

// Type implementation for Expr interface.
func (p *Typecast) Type() Type { return p.DataType }

// Type implementation for Expr interface.
func (p *Nondet) Type() Type { return p.DataType }

// Negate returns the logical complement of this comparison.
func (p *Cmp) Negate() *Cmp {
	var op CmpOp
	//
	switch p.Operator {
	case EQ:
		op = NEQ
	case NEQ:
		op = EQ
	case LT:
		op = GTEQ
	case LTEQ:
		op = GT
	case GT:
		op = LTEQ
	case GTEQ:
		op = LT
	}
	//
	return &Cmp{op, p.Left, p.Right}
}
