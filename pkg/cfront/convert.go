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
	"maps"
	"slices"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Converter translates the body of a single function into a goto program.
// When no builder is present, the converter is translating an initialiser
// and any expression requiring instructions is rejected.
type converter struct {
	*Compiler
	// Function being converted (nil for initialisers)
	function *symbol.Symbol
	builder  *gotoprog.Builder
	// Innermost scope
	scope *scope
	// Enclosing loops, innermost last
	loops []loop
	// Source labels of the function
	labels map[string]*label
	// Label bound to the END_FUNCTION instruction
	exit gotoprog.Label
	// Number of temporaries allocated
	temps uint
	// Location of the statement being converted
	loc symbol.Location
}

// Loop records the branch destinations for break and continue.
type loop struct {
	brk  gotoprog.Label
	cont gotoprog.Label
	// Scope enclosing the loop
	scope *scope
}

type label struct {
	target  gotoprog.Label
	defined bool
	// Goto statements referring to this label
	uses []ast.Node
}

// Convert the definition of a given function into its body.
func (p *Compiler) convertFunction(fn *symbol.Symbol, def *ast.Function) (*gotoprog.Program, []source.SyntaxError) {
	var (
		builder = gotoprog.NewBuilder(fn.Id)
		params  = newScope(nil, fn.Id)
		errors  []source.SyntaxError
	)
	//
	for _, param := range fn.Parameters {
		params.locals = append(params.locals, p.context.Find(param))
	}
	//
	conv := &converter{
		Compiler: p,
		function: fn,
		builder:  builder,
		scope:    params.nest(),
		labels:   make(map[string]*label),
		exit:     builder.NewLabel("exit"),
		loc:      p.locationOf(def, fn.BaseName),
	}
	//
	for _, stmt := range def.Body.Stmts {
		errors = append(errors, conv.convertStmt(stmt)...)
	}
	//
	conv.scope.kill(builder, conv.loc)
	builder.Bind(conv.exit)
	builder.Emit(gotoprog.Instruction{Type: gotoprog.END_FUNCTION, Location: conv.loc})
	// Check all labels are defined
	for _, name := range slices.Sorted(maps.Keys(conv.labels)) {
		if l := conv.labels[name]; !l.defined {
			for _, use := range l.uses {
				errors = append(errors, p.srcmaps.SyntaxErrors(use, "undefined label "+name)...)
			}
		}
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	body, err := builder.Build()
	if err != nil {
		// Should be unreachable, since all labels are bound.
		panic(err)
	}
	//
	return body, nil
}

func (p *converter) convertStmt(stmt ast.Stmt) []source.SyntaxError {
	p.loc = p.locationOf(stmt, p.function.BaseName)
	//
	switch s := stmt.(type) {
	case *ast.Block:
		return p.convertBlock(s)
	case *ast.Decl:
		for _, v := range s.Variables {
			if errs := p.convertLocal(v); len(errs) > 0 {
				return errs
			}
		}
		//
		return nil
	case *ast.ExprStmt:
		return p.convertSideEffect(s.Expr)
	case *ast.If:
		return p.convertIf(s)
	case *ast.While:
		return p.convertWhile(s)
	case *ast.DoWhile:
		return p.convertDoWhile(s)
	case *ast.For:
		return p.convertFor(s)
	case *ast.Jump:
		return p.convertJump(s)
	case *ast.Return:
		return p.convertReturn(s)
	case *ast.Goto:
		l := p.labelOf(s.Label)
		l.uses = append(l.uses, s)
		p.builder.Goto(expr.True(), l.target, p.loc)
		//
		return nil
	case *ast.Labelled:
		l := p.labelOf(s.Label)
		//
		if l.defined {
			return p.srcmaps.SyntaxErrors(s, "duplicate label "+s.Label)
		}
		//
		l.defined = true
		p.builder.Bind(l.target)
		p.builder.AttachLabel(s.Label)
		//
		return p.convertStmt(s.Stmt)
	case *ast.Empty:
		p.builder.Emit(gotoprog.Instruction{Type: gotoprog.SKIP, Location: p.loc})
		return nil
	default:
		return p.srcmaps.SyntaxErrors(stmt, "unknown statement")
	}
}

func (p *converter) convertBlock(block *ast.Block) []source.SyntaxError {
	var (
		enclosing = p.scope
		errors    []source.SyntaxError
	)
	//
	p.scope = enclosing.nest()
	//
	for _, stmt := range block.Stmts {
		errors = append(errors, p.convertStmt(stmt)...)
	}
	//
	p.scope.kill(p.builder, p.loc)
	p.scope = enclosing
	//
	return errors
}

// Convert the declaration of a local variable.  Static locals are hoisted
// into the globals (hence are initialised by the entry point), though they
// remain visible only within their scope.
func (p *converter) convertLocal(v *ast.Variable) []source.SyntaxError {
	var (
		id       = p.scope.prefix.Extend(v.Name)
		datatype = p.resolveType(v.Type)
	)
	//
	if datatype.IsEmpty() {
		return p.srcmaps.SyntaxErrors(v, "variable has incomplete type void")
	} else if p.scope.declares(v.Name) {
		return p.srcmaps.SyntaxErrors(v, "redeclared identifier")
	}
	//
	if v.Static {
		value, errs := p.constantInitialiser(v, datatype)
		if len(errs) > 0 {
			return errs
		}
		//
		sym, err := p.context.Add(symbol.Symbol{
			Id:             id,
			BaseName:       v.Name,
			Module:         p.function.Module,
			Type:           datatype,
			Mode:           MODE,
			Value:          value,
			StaticLifetime: true,
			Location:       p.locationOf(v, p.function.BaseName),
		})
		//
		if err != nil {
			return p.srcmaps.SyntaxErrors(v, "redeclared identifier")
		}
		//
		p.globals = append(p.globals, sym)
		p.scope.locals = append(p.scope.locals, sym)
		//
		return nil
	}
	//
	sym, err := p.context.Add(symbol.Symbol{
		Id:       id,
		BaseName: v.Name,
		Module:   p.function.Module,
		Type:     datatype,
		Mode:     MODE,
		Location: p.locationOf(v, p.function.BaseName),
	})
	//
	if err != nil {
		return p.srcmaps.SyntaxErrors(v, "redeclared identifier")
	}
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.DECL, Code: &gotoprog.Decl{Symbol: sym.Expr()}, Location: p.loc})
	p.scope.locals = append(p.scope.locals, sym)
	//
	if v.Init != nil {
		value, errs := p.convertExpr(v.Init)
		if len(errs) > 0 {
			return errs
		}
		//
		p.assign(sym.Expr(), cast(value, datatype))
	}
	//
	return nil
}

// Translate "if (c) t else f" into:
//
//	IF !c THEN GOTO else
//	t
//	GOTO end
//	else: f
//	end:
func (p *converter) convertIf(s *ast.If) []source.SyntaxError {
	var (
		loc       = p.loc
		elseLabel = p.builder.NewLabel("else")
	)
	//
	cond, errs := p.convertCondition(s.Cond)
	if len(errs) > 0 {
		return errs
	}
	//
	p.builder.Goto(expr.Negate(cond), elseLabel, loc)
	//
	errs = p.convertStmt(s.Then)
	//
	if s.Else == nil {
		p.builder.Bind(elseLabel)
		return errs
	}
	//
	endLabel := p.builder.NewLabel("end")
	p.builder.Goto(expr.True(), endLabel, loc)
	p.builder.Bind(elseLabel)
	errs = append(errs, p.convertStmt(s.Else)...)
	p.builder.Bind(endLabel)
	//
	return errs
}

// Translate "while (c) b" into:
//
//	head: IF !c THEN GOTO exit
//	b
//	GOTO head
//	exit:
func (p *converter) convertWhile(s *ast.While) []source.SyntaxError {
	var (
		loc  = p.loc
		head = p.builder.NewLabel("head")
		exit = p.builder.NewLabel("exit")
	)
	//
	p.builder.Bind(head)
	//
	cond, errs := p.convertCondition(s.Cond)
	if len(errs) > 0 {
		return errs
	}
	//
	if !expr.IsTrue(cond) {
		p.builder.Goto(expr.Negate(cond), exit, loc)
	}
	//
	errs = p.convertLoopBody(s.Body, exit, head)
	p.builder.Goto(expr.True(), head, loc)
	p.builder.Bind(exit)
	//
	return errs
}

// Translate "do b while (c)" into:
//
//	head: b
//	cont: IF c THEN GOTO head
//	exit:
func (p *converter) convertDoWhile(s *ast.DoWhile) []source.SyntaxError {
	var (
		loc  = p.loc
		head = p.builder.NewLabel("head")
		cont = p.builder.NewLabel("continue")
		exit = p.builder.NewLabel("exit")
	)
	//
	p.builder.Bind(head)
	errs := p.convertLoopBody(s.Body, exit, cont)
	p.builder.Bind(cont)
	//
	p.loc = loc
	//
	cond, condErrs := p.convertCondition(s.Cond)
	if len(condErrs) > 0 {
		return append(errs, condErrs...)
	}
	//
	p.builder.Goto(cond, head, loc)
	p.builder.Bind(exit)
	//
	return errs
}

// Translate "for (i; c; s) b" into:
//
//	i
//	head: IF !c THEN GOTO exit
//	b
//	cont: s
//	GOTO head
//	exit:
func (p *converter) convertFor(s *ast.For) []source.SyntaxError {
	var (
		loc       = p.loc
		enclosing = p.scope
		head      = p.builder.NewLabel("head")
		cont      = p.builder.NewLabel("continue")
		exit      = p.builder.NewLabel("exit")
	)
	// Variables declared in the initialiser are local to the loop.
	p.scope = enclosing.nest()
	//
	defer func() { p.scope = enclosing }()
	//
	if s.Init != nil {
		if errs := p.convertStmt(s.Init); len(errs) > 0 {
			return errs
		}
	}
	//
	p.builder.Bind(head)
	//
	if s.Cond != nil {
		p.loc = loc
		//
		cond, errs := p.convertCondition(s.Cond)
		if len(errs) > 0 {
			return errs
		}
		//
		if !expr.IsTrue(cond) {
			p.builder.Goto(expr.Negate(cond), exit, loc)
		}
	}
	//
	errs := p.convertLoopBody(s.Body, exit, cont)
	p.builder.Bind(cont)
	p.loc = loc
	//
	if s.Post != nil {
		errs = append(errs, p.convertSideEffect(s.Post)...)
	}
	//
	p.builder.Goto(expr.True(), head, loc)
	p.builder.Bind(exit)
	p.scope.kill(p.builder, loc)
	//
	return errs
}

func (p *converter) convertLoopBody(body ast.Stmt, brk, cont gotoprog.Label) []source.SyntaxError {
	p.loops = append(p.loops, loop{brk, cont, p.scope})
	//
	errs := p.convertStmt(body)
	//
	p.loops = p.loops[:len(p.loops)-1]
	//
	return errs
}

func (p *converter) convertJump(s *ast.Jump) []source.SyntaxError {
	if len(p.loops) == 0 && s.Kind == ast.BREAK {
		return p.srcmaps.SyntaxErrors(s, "break outside loop")
	} else if len(p.loops) == 0 {
		return p.srcmaps.SyntaxErrors(s, "continue outside loop")
	}
	//
	enclosing := p.loops[len(p.loops)-1]
	// Locals declared inside the loop die on leaving the iteration.
	for sc := p.scope; sc != enclosing.scope; sc = sc.parent {
		sc.kill(p.builder, p.loc)
	}
	//
	if s.Kind == ast.BREAK {
		p.builder.Goto(expr.True(), enclosing.brk, p.loc)
	} else {
		p.builder.Goto(expr.True(), enclosing.cont, p.loc)
	}
	//
	return nil
}

func (p *converter) convertReturn(s *ast.Return) []source.SyntaxError {
	var (
		loc      = p.loc
		datatype = p.function.ReturnType
		code     = &gotoprog.Return{}
	)
	//
	if s.Value != nil {
		if datatype.IsEmpty() {
			return p.srcmaps.SyntaxErrors(s, "void function should not return a value")
		}
		//
		value, errs := p.convertExpr(s.Value)
		if len(errs) > 0 {
			return errs
		}
		//
		code.Value = cast(value, datatype)
	}
	//
	p.builder.Emit(gotoprog.Instruction{Type: gotoprog.RETURN, Code: code, Location: loc})
	// Kill all locals, up to (but excluding) the parameters.
	for sc := p.scope; sc.parent != nil; sc = sc.parent {
		sc.kill(p.builder, loc)
	}
	//
	p.builder.Goto(expr.True(), p.exit, loc)
	//
	return nil
}

// Determine the label for a given name, creating it on first use.
func (p *converter) labelOf(name string) *label {
	if l, ok := p.labels[name]; ok {
		return l
	}
	//
	l := &label{target: p.builder.NewLabel(name)}
	p.labels[name] = l
	//
	return l
}

func (p *converter) assign(lhs *expr.Symbol, rhs expr.Expr) {
	p.builder.Emit(gotoprog.Instruction{
		Type:     gotoprog.ASSIGN,
		Code:     &gotoprog.Assign{Lhs: lhs, Rhs: rhs},
		Location: p.loc,
	})
}
