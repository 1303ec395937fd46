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
	"fmt"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Convert an expression, emitting instructions for any side effects it has.
// The resulting expression is free of side effects.
func (p *converter) convertExpr(e ast.Expr) (expr.Expr, []source.SyntaxError) {
	switch e := e.(type) {
	case *ast.Identifier:
		return p.convertIdentifier(e)
	case *ast.IntLiteral:
		return expr.NewBigConstant(&e.Value, p.literalType(e)), nil
	case *ast.StringLiteral:
		return nil, p.srcmaps.SyntaxErrors(e, "unexpected string literal")
	case *ast.Unary:
		return p.convertUnary(e)
	case *ast.Binary:
		if e.Operator.IsLogical() {
			return p.convertLogical(e)
		}
		//
		return p.convertBinary(e)
	case *ast.Assign:
		return p.convertAssign(e)
	case *ast.IncDec:
		return p.convertIncDec(e, false)
	case *ast.Conditional:
		return p.convertConditional(e)
	case *ast.Cast:
		datatype := p.resolveType(e.Type)
		//
		if datatype.IsEmpty() {
			return nil, p.srcmaps.SyntaxErrors(e, "void value not ignored")
		}
		//
		arg, errs := p.convertExpr(e.Arg)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return cast(arg, datatype), nil
	case *ast.Call:
		return p.convertCall(e, false)
	default:
		return nil, p.srcmaps.SyntaxErrors(e, "unknown expression")
	}
}

// Convert an expression used as a condition.
func (p *converter) convertCondition(e ast.Expr) (expr.Expr, []source.SyntaxError) {
	cond, errs := p.convertExpr(e)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return toBool(cond), nil
}

// Convert an expression evaluated only for its side effects.
func (p *converter) convertSideEffect(e ast.Expr) []source.SyntaxError {
	var errs []source.SyntaxError
	//
	switch e := e.(type) {
	case *ast.Assign:
		_, errs = p.convertAssign(e)
	case *ast.IncDec:
		_, errs = p.convertIncDec(e, true)
	case *ast.Call:
		_, errs = p.convertCall(e, true)
	case *ast.Cast:
		if e.Type.Kind == ast.VOID {
			return p.convertSideEffect(e.Arg)
		}
		//
		_, errs = p.convertExpr(e)
	default:
		_, errs = p.convertExpr(e)
	}
	//
	return errs
}

func (p *converter) convertIdentifier(e *ast.Identifier) (expr.Expr, []source.SyntaxError) {
	if sym := p.resolve(e.Name); sym != nil && sym.IsFunction {
		return nil, p.srcmaps.SyntaxErrors(e, "invalid use of function "+e.Name)
	} else if sym != nil {
		return sym.Expr(), nil
	} else if c, ok := p.predefined(e.Name); ok {
		return c, nil
	}
	//
	return nil, p.srcmaps.SyntaxErrors(e, "unknown identifier "+e.Name)
}

// Resolve a name to a symbol, searching local scopes first, followed by the
// globals.
func (p *converter) resolve(name string) *symbol.Symbol {
	if p.scope != nil {
		if sym := p.scope.lookup(name); sym != nil {
			return sym
		}
	}
	//
	return p.context.Find(irep.Join("c", name))
}

// Determine the value of a predefined macro.
func (p *converter) predefined(name string) (expr.Expr, bool) {
	const (
		littleEndian = 1234
		bigEndian    = 4321
	)
	//
	switch name {
	case "__ORDER_LITTLE_ENDIAN__":
		return expr.NewConstant(littleEndian, p.intType()), true
	case "__ORDER_BIG_ENDIAN__":
		return expr.NewConstant(bigEndian, p.intType()), true
	case "__BYTE_ORDER__":
		if p.opts.IsBigEndian() {
			return expr.NewConstant(bigEndian, p.intType()), true
		}
		//
		return expr.NewConstant(littleEndian, p.intType()), true
	}
	//
	return nil, false
}

// Resolve an expression which must designate a variable.
func (p *converter) lvalue(e ast.Expr) (*expr.Symbol, []source.SyntaxError) {
	if id, ok := e.(*ast.Identifier); ok {
		if sym := p.resolve(id.Name); sym != nil && !sym.IsFunction {
			return sym.Expr(), nil
		} else if _, ok := p.predefined(id.Name); !ok && sym == nil {
			return nil, p.srcmaps.SyntaxErrors(e, "unknown identifier "+id.Name)
		}
	}
	//
	return nil, p.srcmaps.SyntaxErrors(e, "lvalue required as left operand of assignment")
}

// Check instructions can be emitted for a given node.
func (p *converter) requireCode(e ast.Expr) []source.SyntaxError {
	if p.builder == nil {
		return p.srcmaps.SyntaxErrors(e, "initialiser is not constant")
	}
	//
	return nil
}

func (p *converter) convertUnary(e *ast.Unary) (expr.Expr, []source.SyntaxError) {
	arg, errs := p.convertExpr(e.Arg)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	switch e.Operator {
	case ast.NOT:
		return expr.Negate(toBool(arg)), nil
	case ast.PLUS:
		return cast(arg, p.promote(arg.Type())), nil
	}
	//
	var (
		datatype = p.promote(arg.Type())
		op       = expr.NEG
	)
	//
	if e.Operator == ast.BITNOT {
		op = expr.BITNOT
	}
	//
	arg = cast(arg, datatype)
	// Fold constants, so that negative literals remain constants.
	if c, ok := arg.(*expr.Constant); ok {
		var ev = expr.Evaluator{Integer: false}
		//
		v, _ := ev.Eval(&expr.Unary{Operator: op, Arg: c, DataType: datatype})
		//
		return expr.NewBigConstant(v, datatype), nil
	}
	//
	return &expr.Unary{Operator: op, Arg: arg, DataType: datatype}, nil
}

func (p *converter) convertBinary(e *ast.Binary) (expr.Expr, []source.SyntaxError) {
	lhs, errs := p.convertExpr(e.Left)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	rhs, errs := p.convertExpr(e.Right)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if e.Operator.IsComparison() {
		datatype := p.commonType(lhs.Type(), rhs.Type())
		// Comparison operators are declared in the same order.
		op := expr.CmpOp(e.Operator - ast.EQ)
		//
		return &expr.Cmp{Operator: op, Left: cast(lhs, datatype), Right: cast(rhs, datatype)}, nil
	}
	//
	return p.arithmetic(e.Operator, lhs, rhs), nil
}

// Construct an arithmetic (or bitwise) operation, applying the usual
// conversions to its operands.  Shifts have the (promoted) type of their left
// operand.
func (p *converter) arithmetic(op ast.BinaryOp, lhs, rhs expr.Expr) expr.Expr {
	// Arithmetic operators are declared in the same order.
	var operator = expr.BinOp(op)
	//
	if op == ast.SHL || op == ast.SHR {
		datatype := p.promote(lhs.Type())
		//
		return &expr.Binary{Operator: operator, Left: cast(lhs, datatype), Right: cast(rhs, p.promote(rhs.Type())),
			DataType: datatype}
	}
	//
	datatype := p.commonType(lhs.Type(), rhs.Type())
	//
	return &expr.Binary{Operator: operator, Left: cast(lhs, datatype), Right: cast(rhs, datatype), DataType: datatype}
}

// Convert a short-circuiting operator.  When the right operand has side
// effects, these must only occur when it is evaluated.  Hence, "l && r" is
// translated into:
//
//	IF !l THEN GOTO short
//	tmp = r
//	GOTO end
//	short: tmp = FALSE
//	end:
func (p *converter) convertLogical(e *ast.Binary) (expr.Expr, []source.SyntaxError) {
	lhs, errs := p.convertCondition(e.Left)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if p.builder == nil || !p.hasSideEffects(e.Right) {
		rhs, errs := p.convertCondition(e.Right)
		if len(errs) > 0 {
			return nil, errs
		} else if e.Operator == ast.LAND {
			return expr.And(lhs, rhs), nil
		}
		//
		return expr.Or(lhs, rhs), nil
	}
	//
	var (
		loc   = p.loc
		tmp   = p.newTemp("tmp", expr.Bool())
		short = p.builder.NewLabel("short")
		end   = p.builder.NewLabel("end")
	)
	//
	if e.Operator == ast.LAND {
		p.builder.Goto(expr.Negate(lhs), short, loc)
	} else {
		p.builder.Goto(lhs, short, loc)
	}
	//
	rhs, errs := p.convertCondition(e.Right)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.assign(tmp, rhs)
	p.builder.Goto(expr.True(), end, loc)
	p.builder.Bind(short)
	//
	if e.Operator == ast.LAND {
		p.assign(tmp, expr.False())
	} else {
		p.assign(tmp, expr.True())
	}
	//
	p.builder.Bind(end)
	//
	return tmp, nil
}

func (p *converter) convertConditional(e *ast.Conditional) (expr.Expr, []source.SyntaxError) {
	var datatype = p.typeOf(e)
	//
	cond, errs := p.convertCondition(e.Cond)
	if len(errs) > 0 {
		return nil, errs
	} else if datatype.IsEmpty() {
		return nil, p.srcmaps.SyntaxErrors(e, "void value not ignored")
	}
	//
	if p.builder == nil || (!p.hasSideEffects(e.Then) && !p.hasSideEffects(e.Else)) {
		lhs, errs := p.convertExpr(e.Then)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		rhs, errs := p.convertExpr(e.Else)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		switch {
		case expr.IsTrue(cond):
			return cast(lhs, datatype), nil
		case expr.IsFalse(cond):
			return cast(rhs, datatype), nil
		}
		//
		return &expr.If{Cond: cond, Then: cast(lhs, datatype), Else: cast(rhs, datatype)}, nil
	}
	//
	var (
		loc       = p.loc
		tmp       = p.newTemp("tmp", datatype)
		elseLabel = p.builder.NewLabel("else")
		end       = p.builder.NewLabel("end")
	)
	//
	p.builder.Goto(expr.Negate(cond), elseLabel, loc)
	//
	lhs, errs := p.convertExpr(e.Then)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.assign(tmp, cast(lhs, datatype))
	p.builder.Goto(expr.True(), end, loc)
	p.builder.Bind(elseLabel)
	//
	rhs, errs := p.convertExpr(e.Else)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.assign(tmp, cast(rhs, datatype))
	p.builder.Bind(end)
	//
	return tmp, nil
}

func (p *converter) convertAssign(e *ast.Assign) (expr.Expr, []source.SyntaxError) {
	lhs, errs := p.lvalue(e.Lhs)
	if len(errs) > 0 {
		return nil, errs
	} else if errs = p.requireCode(e); len(errs) > 0 {
		return nil, errs
	}
	//
	rhs, errs := p.convertExpr(e.Rhs)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if e.Compound {
		rhs = p.arithmetic(e.Operator, lhs, rhs)
	}
	//
	p.assign(lhs, cast(rhs, lhs.Type()))
	//
	return lhs, nil
}

// Convert an increment or decrement.  The value of a postfix operation is
// that before the update, which is held in a temporary unless discarded.
func (p *converter) convertIncDec(e *ast.IncDec, discard bool) (expr.Expr, []source.SyntaxError) {
	arg, errs := p.lvalue(e.Arg)
	if len(errs) > 0 {
		return nil, errs
	} else if errs = p.requireCode(e); len(errs) > 0 {
		return nil, errs
	}
	//
	var (
		datatype = p.promote(arg.Type())
		op       = expr.ADD
	)
	//
	if !e.Increment {
		op = expr.SUB
	}
	//
	update := cast(&expr.Binary{Operator: op, Left: cast(arg, datatype), Right: expr.NewConstant(1, datatype),
		DataType: datatype}, arg.Type())
	//
	if e.Prefix || discard {
		p.assign(arg, update)
		return arg, nil
	}
	//
	tmp := p.newTemp("tmp", arg.Type())
	p.assign(tmp, arg)
	p.assign(arg, update)
	//
	return tmp, nil
}

// Allocate a fresh temporary of a given type.
func (p *converter) newTemp(name string, datatype expr.Type) *expr.Symbol {
	p.temps++
	//
	var (
		base = fmt.Sprintf("%s$%d", name, p.temps)
		id   = p.function.Id.Extend("$tmp", base)
	)
	//
	sym, _ := p.context.Add(symbol.Symbol{
		Id:       id,
		BaseName: base,
		Module:   p.function.Module,
		Type:     datatype,
		Mode:     MODE,
		Location: p.loc,
	})
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.DECL, Code: &gotoprog.Decl{Symbol: sym.Expr()}, Location: p.loc})
	//
	return sym.Expr()
}

// Check whether evaluating an expression requires instructions to be emitted.
func (p *converter) hasSideEffects(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Assign, *ast.IncDec:
		return true
	case *ast.Unary:
		return p.hasSideEffects(e.Arg)
	case *ast.Binary:
		return p.hasSideEffects(e.Left) || p.hasSideEffects(e.Right)
	case *ast.Conditional:
		return p.hasSideEffects(e.Cond) || p.hasSideEffects(e.Then) || p.hasSideEffects(e.Else)
	case *ast.Cast:
		return p.hasSideEffects(e.Arg)
	case *ast.Call:
		if _, ok := nondetType(e.Name); ok {
			return false
		}
		//
		return true
	default:
		return false
	}
}

// Determine the type of an expression without converting it.  Erroneous
// expressions are given type int, since converting them reports the error.
func (p *converter) typeOf(e ast.Expr) expr.Type {
	switch e := e.(type) {
	case *ast.Identifier:
		if sym := p.resolve(e.Name); sym != nil && !sym.IsFunction {
			return sym.Type
		}
	case *ast.IntLiteral:
		return p.literalType(e)
	case *ast.Unary:
		if e.Operator == ast.NOT {
			return expr.Bool()
		}
		//
		return p.promote(p.typeOf(e.Arg))
	case *ast.Binary:
		switch {
		case e.Operator.IsComparison() || e.Operator.IsLogical():
			return expr.Bool()
		case e.Operator == ast.SHL || e.Operator == ast.SHR:
			return p.promote(p.typeOf(e.Left))
		}
		//
		return p.commonType(p.typeOf(e.Left), p.typeOf(e.Right))
	case *ast.Assign:
		return p.typeOf(e.Lhs)
	case *ast.IncDec:
		return p.typeOf(e.Arg)
	case *ast.Conditional:
		lhs, rhs := p.typeOf(e.Then), p.typeOf(e.Else)
		//
		if lhs == rhs {
			return lhs
		}
		//
		return p.commonType(lhs, rhs)
	case *ast.Cast:
		return p.resolveType(e.Type)
	case *ast.Call:
		return p.returnTypeOf(e.Name)
	}
	//
	return p.intType()
}
