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
	"strings"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Builtin is a function provided by the verifier, rather than defined in the
// program.  All builtins return void, except printf.
type builtin func(p *converter, call *ast.Call) []source.SyntaxError

var builtins map[string]builtin

// Builtins refer (indirectly) back to convertCall, hence are registered on
// initialisation.
func init() {
	builtins = map[string]builtin{
		"assert":                  convertAssert,
		"__ESBMC_assert":          convertAssert,
		"__ESBMC_assume":          convertAssume,
		"__VERIFIER_assume":       convertAssume,
		"__VERIFIER_error":        convertError,
		"reach_error":             convertError,
		"__ESBMC_atomic_begin":    convertAtomic(gotoprog.ATOMIC_BEGIN),
		"__ESBMC_atomic_end":      convertAtomic(gotoprog.ATOMIC_END),
		"__VERIFIER_atomic_begin": convertAtomic(gotoprog.ATOMIC_BEGIN),
		"__VERIFIER_atomic_end":   convertAtomic(gotoprog.ATOMIC_END),
		"printf":                  convertPrintf,
	}
}

var nondetTypes = map[string]ast.Type{
	"bool":      {Kind: ast.BOOL},
	"_Bool":     {Kind: ast.BOOL},
	"char":      {Kind: ast.CHAR},
	"uchar":     {Kind: ast.CHAR, Unsigned: true},
	"short":     {Kind: ast.SHORT},
	"ushort":    {Kind: ast.SHORT, Unsigned: true},
	"int":       {Kind: ast.INT},
	"uint":      {Kind: ast.INT, Unsigned: true},
	"unsigned":  {Kind: ast.INT, Unsigned: true},
	"long":      {Kind: ast.LONG},
	"ulong":     {Kind: ast.LONG, Unsigned: true},
	"longlong":  {Kind: ast.LONGLONG},
	"ulonglong": {Kind: ast.LONGLONG, Unsigned: true},
}

// Determine the type of value produced by a nondet function, such as
// "__VERIFIER_nondet_int" or "nondet_uint".
func nondetType(name string) (ast.Type, bool) {
	for _, prefix := range []string{"__VERIFIER_nondet_", "nondet_"} {
		if suffix, ok := strings.CutPrefix(name, prefix); ok {
			t, ok := nondetTypes[suffix]
			return t, ok
		}
	}
	//
	return ast.Type{}, false
}

// Determine the return type of a function, or int if it is unknown.
func (p *converter) returnTypeOf(name string) expr.Type {
	if t, ok := nondetType(name); ok {
		return p.resolveType(t)
	} else if name == "printf" {
		return p.intType()
	} else if _, ok := builtins[name]; ok {
		return expr.Empty()
	} else if sym := p.context.Find(irep.Join("c", name)); sym != nil && sym.IsFunction {
		return sym.ReturnType
	}
	//
	return p.intType()
}

// Convert a function call.  When its value is not discarded, the value is
// returned in a temporary.
func (p *converter) convertCall(e *ast.Call, discard bool) (expr.Expr, []source.SyntaxError) {
	if t, ok := nondetType(e.Name); ok {
		if len(e.Arguments) != 0 {
			return nil, p.srcmaps.SyntaxErrors(e, "argument count mismatch")
		}
		//
		return &expr.Nondet{DataType: p.resolveType(t)}, nil
	} else if errs := p.requireCode(e); len(errs) > 0 {
		return nil, errs
	} else if fn, ok := builtins[e.Name]; ok {
		if errs := fn(p, e); len(errs) > 0 {
			return nil, errs
		} else if e.Name == "printf" {
			// The number of characters printed is not modelled.
			return &expr.Nondet{DataType: p.intType()}, nil
		} else if !discard {
			return nil, p.srcmaps.SyntaxErrors(e, "void value not ignored")
		}
		//
		return nil, nil
	}
	//
	var (
		id  = irep.Join("c", e.Name)
		sym = p.context.Find(id)
	)
	//
	if sym == nil || !sym.IsFunction {
		return nil, p.srcmaps.SyntaxErrors(e, "call to undefined function "+e.Name)
	}
	//
	args, errs := p.convertArguments(e, p.signatures[id])
	if len(errs) > 0 {
		return nil, errs
	}
	//
	code := &gotoprog.FunctionCall{Function: id, Arguments: args}
	//
	if sym.ReturnType.IsEmpty() && !discard {
		return nil, p.srcmaps.SyntaxErrors(e, "void value not ignored")
	} else if sym.ReturnType.IsEmpty() || discard {
		p.builder.Emit(gotoprog.Instruction{Type: gotoprog.FUNCTION_CALL, Code: code, Location: p.loc})
		return nil, nil
	}
	//
	code.Lhs = p.newTemp("return_value_"+e.Name, sym.ReturnType)
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.FUNCTION_CALL, Code: code, Location: p.loc})
	//
	return code.Lhs, nil
}

func (p *converter) convertArguments(e *ast.Call, types []expr.Type) ([]expr.Expr, []source.SyntaxError) {
	var args []expr.Expr
	//
	if len(e.Arguments) != len(types) {
		return nil, p.srcmaps.SyntaxErrors(e, "argument count mismatch")
	}
	//
	for i, arg := range e.Arguments {
		value, errs := p.convertExpr(arg)
		if len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, cast(value, types[i]))
	}
	//
	return args, nil
}

// Translate "assert(c)" or "__ESBMC_assert(c, msg)" into an assertion.
// Assertions are dropped entirely when disabled.
func convertAssert(p *converter, call *ast.Call) []source.SyntaxError {
	var comment string
	//
	switch {
	case call.Name == "assert" && len(call.Arguments) == 1:
		comment = "assertion " + p.sourceText(call.Arguments[0])
	case call.Name != "assert" && len(call.Arguments) == 2:
		msg, ok := call.Arguments[1].(*ast.StringLiteral)
		if !ok {
			return p.srcmaps.SyntaxErrors(call.Arguments[1], "expected string literal")
		}
		//
		comment = msg.Value
	default:
		return p.srcmaps.SyntaxErrors(call, "argument count mismatch")
	}
	//
	if !p.opts.Assertions {
		return nil
	}
	//
	cond, errs := p.convertCondition(call.Arguments[0])
	if len(errs) > 0 {
		return errs
	}
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.ASSERT, Guard: cond, Comment: comment, Location: p.loc})
	//
	return nil
}

func convertAssume(p *converter, call *ast.Call) []source.SyntaxError {
	if len(call.Arguments) != 1 {
		return p.srcmaps.SyntaxErrors(call, "argument count mismatch")
	}
	//
	cond, errs := p.convertCondition(call.Arguments[0])
	if len(errs) > 0 {
		return errs
	}
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.ASSUME, Guard: cond, Location: p.loc})
	//
	return nil
}

// Reaching an error function is a property violation.
func convertError(p *converter, call *ast.Call) []source.SyntaxError {
	if len(call.Arguments) != 0 {
		return p.srcmaps.SyntaxErrors(call, "argument count mismatch")
	} else if p.opts.Assertions {
		p.builder.Emit(gotoprog.Instruction{Type: gotoprog.ASSERT, Guard: expr.False(),
			Comment: "call to " + call.Name, Location: p.loc})
	}
	//
	return nil
}

func convertAtomic(kind gotoprog.Type) builtin {
	return func(p *converter, call *ast.Call) []source.SyntaxError {
		if len(call.Arguments) != 0 {
			return p.srcmaps.SyntaxErrors(call, "argument count mismatch")
		}
		//
		p.builder.Emit(gotoprog.Instruction{Type: kind, Location: p.loc})
		//
		return nil
	}
}

func convertPrintf(p *converter, call *ast.Call) []source.SyntaxError {
	var args []expr.Expr
	//
	if len(call.Arguments) == 0 {
		return p.srcmaps.SyntaxErrors(call, "argument count mismatch")
	}
	//
	format, ok := call.Arguments[0].(*ast.StringLiteral)
	if !ok {
		return p.srcmaps.SyntaxErrors(call.Arguments[0], "expected string literal")
	}
	//
	for _, arg := range call.Arguments[1:] {
		value, errs := p.convertExpr(arg)
		if len(errs) > 0 {
			return errs
		}
		//
		args = append(args, value)
	}
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.OTHER, Code: &gotoprog.Output{Format: format.Value,
		Arguments: args}, Location: p.loc})
	//
	return nil
}

// Extract the source text of a given node.
func (p *converter) sourceText(node ast.Node) string {
	if srcfile, span, ok := p.srcmaps.Lookup(node); ok {
		return srcfile.Text(span)
	}
	//
	return "?"
}
