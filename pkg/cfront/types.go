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
	"math/big"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/expr"
)

// Determine the width (in bits) of a given integer type kind for a given word
// size.
func widthOf(kind ast.TypeKind, wordsize uint) uint {
	switch kind {
	case ast.CHAR:
		return 8
	case ast.SHORT:
		return 16
	case ast.INT:
		return min(wordsize, 32)
	case ast.LONG:
		return max(wordsize, 32)
	default:
		return 64
	}
}

// Resolve a C type to an expression type for a given word size.  Plain char
// is signed.
func (p *Compiler) resolveType(t ast.Type) expr.Type {
	switch {
	case t.Kind == ast.VOID:
		return expr.Empty()
	case t.Kind == ast.BOOL:
		return expr.Bool()
	case t.Unsigned:
		return expr.UnsignedBV(widthOf(t.Kind, p.opts.WordSize))
	default:
		return expr.SignedBV(widthOf(t.Kind, p.opts.WordSize))
	}
}

// Type of int for the configured word size.
func (p *Compiler) intType() expr.Type {
	return p.resolveType(ast.Type{Kind: ast.INT})
}

// Apply the integer promotions to a given type.  That is, anything narrower
// than int (including _Bool) is promoted to int.
func (p *Compiler) promote(t expr.Type) expr.Type {
	var word = p.intType()
	//
	if t.IsBool() || (t.IsBitVector() && t.Width < word.Width) {
		return word
	}
	//
	return t
}

// Determine the common type of two operands, according to the usual
// arithmetic conversions.
func (p *Compiler) commonType(lhs, rhs expr.Type) expr.Type {
	lhs, rhs = p.promote(lhs), p.promote(rhs)
	//
	switch {
	case lhs == rhs:
		return lhs
	case lhs.Width > rhs.Width:
		return lhs
	case rhs.Width > lhs.Width:
		return rhs
	case lhs.IsSigned():
		return rhs
	default:
		return lhs
	}
}

// Determine the type of an integer literal, which is the first type (starting
// from that given by its suffix) in which its value fits.
func (p *Compiler) literalType(lit *ast.IntLiteral) expr.Type {
	var candidates = []ast.TypeKind{ast.INT, ast.LONG, ast.LONGLONG}
	//
	for _, kind := range candidates {
		if kind < lit.Type.Kind {
			continue
		}
		//
		t := p.resolveType(ast.Type{Kind: kind, Unsigned: lit.Type.Unsigned})
		//
		if fits(&lit.Value, t) {
			return t
		}
		// Unsuffixed literals can also be unsigned long long.
		if !lit.Type.Unsigned && kind == ast.LONGLONG {
			return expr.UnsignedBV(64)
		}
	}
	//
	return expr.UnsignedBV(64)
}

func fits(v *big.Int, t expr.Type) bool {
	lo, hi := t.Bounds()
	//
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// Convert an expression to a given type.
func cast(e expr.Expr, t expr.Type) expr.Expr {
	switch {
	case e.Type() == t:
		return e
	case t.IsBool():
		return toBool(e)
	}
	// Constants are folded
	if c, ok := e.(*expr.Constant); ok {
		return expr.NewBigConstant(expr.Normalise(&c.Value, t), t)
	}
	//
	return &expr.Typecast{Arg: e, DataType: t}
}

// Convert an expression to a boolean condition.
func toBool(e expr.Expr) expr.Expr {
	if e.Type().IsBool() {
		return e
	} else if c, ok := e.(*expr.Constant); ok {
		if c.Value.Sign() == 0 {
			return expr.False()
		}
		//
		return expr.True()
	}
	//
	return &expr.Cmp{Operator: expr.NEQ, Left: e, Right: expr.NewConstant(0, e.Type())}
}
