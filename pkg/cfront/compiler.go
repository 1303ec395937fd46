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
	"path/filepath"
	"slices"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/cfront/parser"
	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// MODE is the language mode of all symbols created by this front end.
const MODE = "C"

// Compiler translates C source files into a symbol table and a goto function
// table.
type Compiler struct {
	opts    *options.Options
	context *symbol.Context
	srcmaps *source.Maps[ast.Node]
	// Variables with static lifetime, in order of declaration.
	globals []*symbol.Symbol
	// Functions, in order of declaration.
	functions []*symbol.Symbol
	// Parameter types of each function
	signatures map[irep.Id][]expr.Type
	// Function definitions
	definitions map[irep.Id]*ast.Function
	// Converted function bodies
	bodies map[irep.Id]*gotoprog.Program
}

// NewCompiler constructs a compiler for a given set of options.
func NewCompiler(opts *options.Options) *Compiler {
	return &Compiler{
		opts:        opts,
		context:     symbol.NewContext(),
		srcmaps:     source.NewSourceMaps[ast.Node](),
		signatures:  make(map[irep.Id][]expr.Type),
		definitions: make(map[irep.Id]*ast.Function),
		bodies:      make(map[irep.Id]*gotoprog.Program),
	}
}

// Compile a given set of source files into a symbol table and goto function
// table, or report syntax errors.  The function table includes the entry
// point __ESBMC_main, which initialises all variables with static lifetime
// and then calls the configured entry function.
func Compile(opts *options.Options, srcfiles ...*source.File) (*symbol.Context, *gotoprog.Functions,
	[]source.SyntaxError) {
	var (
		compiler = NewCompiler(opts)
		units    []*ast.SourceFile
	)
	// Parse all source files
	for _, srcfile := range srcfiles {
		log.Debugf("parsing %s", srcfile.Filename())
		//
		unit, srcmap, errs := parser.Parse(srcfile)
		if len(errs) > 0 {
			return nil, nil, errs
		}
		//
		compiler.srcmaps.Join(srcmap)
		units = append(units, unit)
	}
	// Declare all symbols
	for _, unit := range units {
		if errs := compiler.declare(unit); len(errs) > 0 {
			return nil, nil, errs
		}
	}
	// Convert all function bodies
	var errors []source.SyntaxError
	//
	for _, fn := range compiler.functions {
		if def, ok := compiler.definitions[fn.Id]; ok {
			body, errs := compiler.convertFunction(fn, def)
			errors = append(errors, errs...)
			compiler.bodies[fn.Id] = body
		}
	}
	//
	if len(errors) > 0 {
		return nil, nil, errors
	}
	// Construct entry point
	if errs := compiler.entryPoint(srcfiles); len(errs) > 0 {
		return nil, nil, errs
	}
	//
	funcs, err := compiler.functionTable()
	if err != nil {
		// Should be unreachable, as bodies were validated on construction.
		panic(err)
	}
	//
	log.Debugf("translated %d functions, %d symbols", funcs.Len(), compiler.context.Len())
	//
	return compiler.context, funcs, nil
}

// Declare all global variables and functions of a given translation unit.
func (p *Compiler) declare(unit *ast.SourceFile) []source.SyntaxError {
	var module = strings.TrimSuffix(filepath.Base(unit.Filename), filepath.Ext(unit.Filename))
	//
	for _, decl := range unit.Declarations {
		var errs []source.SyntaxError
		//
		switch d := decl.(type) {
		case *ast.Variable:
			errs = p.declareGlobal(module, d)
		case *ast.Function:
			errs = p.declareFunction(module, d)
		}
		//
		if len(errs) > 0 {
			return errs
		}
	}
	//
	return nil
}

func (p *Compiler) declareGlobal(module string, v *ast.Variable) []source.SyntaxError {
	var (
		id       = irep.Join("c", v.Name)
		datatype = p.resolveType(v.Type)
		value    expr.Expr
		errs     []source.SyntaxError
	)
	//
	if datatype.IsEmpty() {
		return p.srcmaps.SyntaxErrors(v, "variable has incomplete type void")
	} else if p.context.Find(id) != nil {
		return p.srcmaps.SyntaxErrors(v, "redeclared identifier")
	} else if value, errs = p.constantInitialiser(v, datatype); len(errs) > 0 {
		return errs
	}
	//
	sym, _ := p.context.Add(symbol.Symbol{
		Id:             id,
		BaseName:       v.Name,
		Module:         module,
		Type:           datatype,
		Mode:           MODE,
		Value:          value,
		StaticLifetime: true,
		Location:       p.locationOf(v, ""),
	})
	//
	p.globals = append(p.globals, sym)
	//
	return nil
}

// Determine the initial value of a variable with static lifetime, which must
// be a constant.  Variables without an initialiser are zero.
func (p *Compiler) constantInitialiser(v *ast.Variable, datatype expr.Type) (expr.Expr, []source.SyntaxError) {
	if v.Init == nil {
		return cast(expr.NewConstant(0, datatype), datatype), nil
	}
	// Initialisers are converted without a function context, hence any side
	// effects are rejected.
	conv := &converter{Compiler: p, scope: nil}
	//
	value, errs := conv.convertExpr(v.Init)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	value = cast(value, datatype)
	//
	if len(expr.Symbols(value)) > 0 || expr.HasNondet(value) {
		return nil, p.srcmaps.SyntaxErrors(v.Init, "initialiser is not constant")
	}
	// Fold the initialiser
	ev := expr.Evaluator{Integer: p.opts.IsInteger()}
	//
	result, err := ev.Eval(value)
	if err != nil {
		return nil, p.srcmaps.SyntaxErrors(v.Init, err.Error())
	}
	//
	return expr.NewBigConstant(result, datatype), nil
}

func (p *Compiler) declareFunction(module string, fn *ast.Function) []source.SyntaxError {
	var (
		id     = irep.Join("c", fn.Name)
		ret    = p.resolveType(fn.Return)
		params []irep.Id
		types  []expr.Type
	)
	//
	for _, param := range fn.Parameters {
		datatype := p.resolveType(param.Type)
		//
		if datatype.IsEmpty() {
			return p.srcmaps.SyntaxErrors(param, "parameter has incomplete type void")
		} else if slices.Contains(params, id.Extend(param.Name)) {
			return p.srcmaps.SyntaxErrors(param, "redeclared identifier")
		}
		//
		params = append(params, id.Extend(param.Name))
		types = append(types, datatype)
	}
	//
	if existing := p.context.Find(id); existing != nil {
		switch {
		case !existing.IsFunction:
			return p.srcmaps.SyntaxErrors(fn, "redeclared identifier")
		case existing.ReturnType != ret || !slices.Equal(p.signatures[id], types):
			return p.srcmaps.SyntaxErrors(fn, "conflicting types for function")
		case fn.Body != nil && p.definitions[id] != nil:
			return p.srcmaps.SyntaxErrors(fn, "redefinition of function")
		case fn.Body != nil:
			// Definition follows prototype
			existing.Parameters = params
			existing.Location = p.locationOf(fn, fn.Name)
			//
			return p.define(module, id, fn, types)
		}
		//
		return nil
	}
	//
	sym, _ := p.context.Add(symbol.Symbol{
		Id:         id,
		BaseName:   fn.Name,
		Module:     module,
		Type:       expr.Code(),
		ReturnType: ret,
		Parameters: params,
		Mode:       MODE,
		IsFunction: true,
		Location:   p.locationOf(fn, fn.Name),
	})
	//
	p.functions = append(p.functions, sym)
	p.signatures[id] = types
	//
	if fn.Body != nil {
		return p.define(module, id, fn, types)
	}
	//
	return nil
}

// Record the definition of a function, creating symbols for its parameters.
func (p *Compiler) define(module string, id irep.Id, fn *ast.Function, types []expr.Type) []source.SyntaxError {
	for i, param := range fn.Parameters {
		_, err := p.context.Add(symbol.Symbol{
			Id:          id.Extend(param.Name),
			BaseName:    param.Name,
			Module:      module,
			Type:        types[i],
			Mode:        MODE,
			IsParameter: true,
			Location:    p.locationOf(param, fn.Name),
		})
		//
		if err != nil {
			return p.srcmaps.SyntaxErrors(param, "redeclared identifier")
		}
	}
	//
	p.definitions[id] = fn
	//
	return nil
}

// Construct the entry point, which initialises all variables of static
// lifetime and then calls the entry function (with nondeterministic
// arguments).
func (p *Compiler) entryPoint(srcfiles []*source.File) []source.SyntaxError {
	var (
		mainId  = irep.NewId(gotoprog.ENTRY_POINT)
		entryId = irep.Join("c", p.opts.Function)
		builder = gotoprog.NewBuilder(mainId)
		args    []expr.Expr
	)
	//
	entry := p.context.Find(entryId)
	//
	if entry == nil || !entry.IsFunction || p.definitions[entryId] == nil {
		var srcfile = srcfiles[len(srcfiles)-1]
		//
		return []source.SyntaxError{*srcfile.SyntaxError(source.NewSpan(0, 0),
			"entry function "+p.opts.Function+" not found")}
	}
	//
	for _, g := range p.globals {
		builder.Emit(gotoprog.Instruction{
			Type:     gotoprog.ASSIGN,
			Code:     &gotoprog.Assign{Lhs: g.Expr(), Rhs: g.Value},
			Location: g.Location,
		})
	}
	//
	for _, param := range entry.Parameters {
		sym := p.context.Find(param)
		args = append(args, &expr.Nondet{DataType: sym.Type})
	}
	//
	builder.Emit(gotoprog.Instruction{
		Type:     gotoprog.FUNCTION_CALL,
		Code:     &gotoprog.FunctionCall{Function: entryId, Arguments: args},
		Location: entry.Location,
	})
	builder.Emit(gotoprog.Instruction{Type: gotoprog.END_FUNCTION})
	//
	body, err := builder.Build()
	if err != nil {
		panic(err)
	}
	//
	p.context.Add(symbol.Symbol{
		Id:         mainId,
		BaseName:   gotoprog.ENTRY_POINT,
		Type:       expr.Code(),
		ReturnType: expr.Empty(),
		Mode:       MODE,
		IsFunction: true,
	})
	//
	p.bodies[mainId] = body
	//
	return nil
}

// Construct the function table from all converted bodies.
func (p *Compiler) functionTable() (*gotoprog.Functions, error) {
	var funcs = gotoprog.NewFunctions()
	//
	for _, fn := range p.functions {
		signature := gotoprog.Signature{Return: fn.ReturnType, Parameters: fn.Parameters}
		//
		if err := funcs.Add(gotoprog.NewFunction(fn.Id, signature, p.bodies[fn.Id])); err != nil {
			return nil, err
		}
	}
	//
	mainId := funcs.MainId()
	//
	if err := funcs.Add(gotoprog.NewFunction(mainId, gotoprog.Signature{Return: expr.Empty()},
		p.bodies[mainId])); err != nil {
		return nil, err
	}
	//
	funcs.Update()
	//
	return funcs, funcs.Validate()
}

// Determine the source location of a given node.
func (p *Compiler) locationOf(node ast.Node, function string) symbol.Location {
	srcfile, span, ok := p.srcmaps.Lookup(node)
	//
	if !ok {
		return symbol.Location{Function: function}
	}
	//
	line, column := srcfile.Position(span.Start())
	//
	return symbol.Location{File: srcfile.Filename(), Line: line, Column: column, Function: function}
}
