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
package ast

import "math/big"

// Node is any element of the syntax tree, and is used as the key for source
// mapping.
type Node any

// TypeKind identifies a C base type.
type TypeKind uint8

const (
	// VOID is the empty type.
	VOID TypeKind = iota
	// BOOL is the _Bool type.
	BOOL
	// CHAR is a char type.
	CHAR
	// SHORT is a short int type.
	SHORT
	// INT is an int type.
	INT
	// LONG is a long int type.
	LONG
	// LONGLONG is a long long int type.
	LONGLONG
)

// Type is a C type, as written in the source.
type Type struct {
	Kind     TypeKind
	Unsigned bool
}

// SourceFile is the syntax tree of a single translation unit.
type SourceFile struct {
	Filename     string
	Declarations []Declaration
}

// Declaration is a top-level declaration (i.e. global variable or function).
type Declaration interface {
	isDeclaration()
}

// Variable declares a global or local variable.
type Variable struct {
	Name   string
	Type   Type
	Static bool
	// Initialiser, or nil.
	Init Expr
}

// Parameter of a function.
type Parameter struct {
	Name string
	Type Type
}

// Function declares (and optionally defines) a function.
type Function struct {
	Name       string
	Return     Type
	Parameters []*Parameter
	// Body, or nil for a prototype.
	Body *Block
}

func (p *Variable) isDeclaration() {}
func (p *Function) isDeclaration() {}

// Stmt is a C statement.
type Stmt interface {
	isStmt()
}

// Block is a compound statement, which opens a new scope.
type Block struct {
	Stmts []Stmt
}

// Decl declares one or more local variables.
type Decl struct {
	Variables []*Variable
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	Expr Expr
}

// If is a conditional statement, where Else may be nil.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// While loop.
type While struct {
	Cond Expr
	Body Stmt
}

// DoWhile loop.
type DoWhile struct {
	Body Stmt
	Cond Expr
}

// For loop, where any of Init, Cond and Post may be nil.
type For struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// JumpKind distinguishes "break" from "continue".
type JumpKind uint8

const (
	// BREAK exits the enclosing loop.
	BREAK JumpKind = iota
	// CONTINUE starts the next iteration of the enclosing loop.
	CONTINUE
)

// Jump is a break or continue statement.
type Jump struct {
	Kind JumpKind
}

// Return from the enclosing function, where Value is nil for void functions.
type Return struct {
	Value Expr
}

// Goto a label in the enclosing function.
type Goto struct {
	Label string
}

// Labelled attaches a label to a statement.
type Labelled struct {
	Label string
	Stmt  Stmt
}

// Empty statement (i.e. ";").
type Empty struct{}

func (p *Block) isStmt()    {}
func (p *Decl) isStmt()     {}
func (p *ExprStmt) isStmt() {}
func (p *If) isStmt()       {}
func (p *While) isStmt()    {}
func (p *DoWhile) isStmt()  {}
func (p *For) isStmt()      {}
func (p *Jump) isStmt()     {}
func (p *Return) isStmt()   {}
func (p *Goto) isStmt()     {}
func (p *Labelled) isStmt() {}
func (p *Empty) isStmt()    {}

// Expr is a C expression.
type Expr interface {
	isExpr()
}

// UnaryOp identifies a prefix operator.
type UnaryOp uint8

const (
	// NEG is "-"
	NEG UnaryOp = iota
	// PLUS is "+"
	PLUS
	// BITNOT is "~"
	BITNOT
	// NOT is "!"
	NOT
)

// BinaryOp identifies an infix operator.
type BinaryOp uint8

const (
	// ADD is "+"
	ADD BinaryOp = iota
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
	// EQ is "=="
	EQ
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
	// LAND is "&&"
	LAND
	// LOR is "||"
	LOR
)

// IsComparison checks whether this is a relational or equality operator.
func (op BinaryOp) IsComparison() bool {
	return op >= EQ && op <= GTEQ
}

// IsLogical checks whether this is a short-circuiting operator.
func (op BinaryOp) IsLogical() bool {
	return op == LAND || op == LOR
}

// Identifier refers to a variable (or predefined constant).
type Identifier struct {
	Name string
}

// IntLiteral is an integer (or character) constant.
type IntLiteral struct {
	Value big.Int
	// Type determined by the suffix (or the value).
	Type Type
}

// StringLiteral is a string constant, which is only permitted as an argument
// to certain built-in functions.
type StringLiteral struct {
	Value string
}

// Unary applies a prefix operator.
type Unary struct {
	Operator UnaryOp
	Arg      Expr
}

// Binary applies an infix operator.
type Binary struct {
	Operator BinaryOp
	Left     Expr
	Right    Expr
}

// Assign updates a variable, where Compound indicates an operator such as
// "+=".
type Assign struct {
	Compound bool
	Operator BinaryOp
	Lhs      Expr
	Rhs      Expr
}

// IncDec is "++" or "--", either prefix or postfix.
type IncDec struct {
	Increment bool
	Prefix    bool
	Arg       Expr
}

// Conditional is "c ? t : f".
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Cast converts an expression to a given type.
type Cast struct {
	Type Type
	Arg  Expr
}

// Call invokes a function by name.
type Call struct {
	Name      string
	Arguments []Expr
}

func (p *Identifier) isExpr()    {}
func (p *IntLiteral) isExpr()    {}
func (p *StringLiteral) isExpr() {}
func (p *Unary) isExpr()         {}
func (p *Binary) isExpr()        {}
func (p *Assign) isExpr()        {}
func (p *IncDec) isExpr()        {}
func (p *Conditional) isExpr()   {}
func (p *Cast) isExpr()          {}
func (p *Call) isExpr()          {}
