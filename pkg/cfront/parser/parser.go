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
package parser

import (
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-gotoprog/pkg/cfront/ast"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	"github.com/consensys/go-gotoprog/pkg/util/source/lex"
)

// Tokens which can start a type.
var typeTokens = []uint{
	KEYWORD_VOID, KEYWORD_BOOL, KEYWORD_CHAR, KEYWORD_SHORT, KEYWORD_INT, KEYWORD_LONG, KEYWORD_SIGNED,
	KEYWORD_UNSIGNED, KEYWORD_STATIC, KEYWORD_CONST, KEYWORD_VOLATILE, KEYWORD_EXTERN,
}

// Tokens for assignment operators, along with their corresponding binary
// operator (where applicable).
var assignTokens = map[uint]ast.BinaryOp{
	ADD_EQUALS: ast.ADD,
	SUB_EQUALS: ast.SUB,
	MUL_EQUALS: ast.MUL,
	DIV_EQUALS: ast.DIV,
	REM_EQUALS: ast.MOD,
	SHL_EQUALS: ast.SHL,
	SHR_EQUALS: ast.SHR,
	AND_EQUALS: ast.BITAND,
	OR_EQUALS:  ast.BITOR,
	XOR_EQUALS: ast.BITXOR,
}

// Binary operators grouped by precedence, from lowest to highest.
var binaryLevels = []map[uint]ast.BinaryOp{
	{OR_OR: ast.LOR},
	{AND_AND: ast.LAND},
	{OR: ast.BITOR},
	{XOR: ast.BITXOR},
	{AND: ast.BITAND},
	{EQUALS_EQUALS: ast.EQ, NOT_EQUALS: ast.NEQ},
	{LESS_THAN: ast.LT, LESS_THAN_EQUALS: ast.LTEQ, GREATER_THAN: ast.GT, GREATER_THAN_EQUALS: ast.GTEQ},
	{SHL: ast.SHL, SHR: ast.SHR},
	{ADD: ast.ADD, SUB: ast.SUB},
	{MUL: ast.MUL, DIV: ast.DIV, REM: ast.MOD},
}

// Parser is a recursive-descent parser for a subset of C.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.Node]
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[ast.Node](*srcfile)
	//
	return &Parser{srcfile, nil, srcmap, 0}
}

// Parse a given source file into a syntax tree, along with a source map for
// its nodes.
func Parse(srcfile *source.File) (*ast.SourceFile, *source.Map[ast.Node], []source.SyntaxError) {
	parser := NewParser(srcfile)
	unit, errs := parser.Parse()
	//
	return unit, parser.srcmap, errs
}

// Parse the given source file into a sequence of zero or more declarations
// and/or some number of syntax errors.
func (p *Parser) Parse() (*ast.SourceFile, []source.SyntaxError) {
	var (
		unit   = &ast.SourceFile{Filename: p.srcfile.Filename()}
		errors []source.SyntaxError
		decls  []ast.Declaration
	)
	// Convert source file into tokens
	if p.tokens, errors = Lex(*p.srcfile); len(errors) > 0 {
		return nil, errors
	}
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		lookahead := p.lookahead()
		//
		switch {
		case p.follows(typeTokens...):
			decls, errors = p.parseDeclaration()
		case p.follows(KEYWORD_STRUCT, KEYWORD_TYPEDEF):
			errors = p.syntaxErrors(lookahead, "unsupported construct")
		default:
			errors = p.syntaxErrors(lookahead, "unknown declaration")
		}
		//
		if len(errors) > 0 {
			return nil, errors
		}
		//
		unit.Declarations = append(unit.Declarations, decls...)
	}
	//
	return unit, nil
}

// Parse a function or (one or more) global variables.
func (p *Parser) parseDeclaration() ([]ast.Declaration, []source.SyntaxError) {
	var (
		start                  = p.index
		datatype, static, errs = p.parseType()
		name                   string
		fn                     *ast.Function
	)
	//
	if len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if !p.follows(LBRACE) {
		vars, errs := p.parseVariables(start, datatype, static, name)
		//
		decls := make([]ast.Declaration, len(vars))
		for i, v := range vars {
			decls[i] = v
		}
		//
		return decls, errs
	}
	// Function
	if fn, errs = p.parseFunction(start, datatype, name); len(errs) > 0 {
		return nil, errs
	}
	//
	return []ast.Declaration{fn}, nil
}

func (p *Parser) parseFunction(start int, ret ast.Type, name string) (*ast.Function, []source.SyntaxError) {
	var (
		fn   = &ast.Function{Name: name, Return: ret}
		errs []source.SyntaxError
	)
	//
	if fn.Parameters, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	}
	// Record span of function signature
	p.srcmap.Put(fn, p.spanOf(start, p.index-1))
	// Prototype or definition
	if p.match(SEMICOLON) {
		return fn, nil
	} else if fn.Body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	return fn, nil
}

func (p *Parser) parseParameters() ([]*ast.Parameter, []source.SyntaxError) {
	var params []*ast.Parameter
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if p.match(RBRACE) {
		return nil, nil
	}
	// Check for "(void)"
	if p.lookahead().Kind == KEYWORD_VOID && p.tokens[p.index+1].Kind == RBRACE {
		p.index += 2
		return nil, nil
	}
	//
	for len(params) == 0 || p.match(COMMA) {
		var (
			start                  = p.index
			datatype, static, errs = p.parseType()
			name                   string
		)
		//
		if len(errs) > 0 {
			return nil, errs
		} else if static {
			return nil, p.syntaxErrors(p.tokens[start], "invalid storage class for parameter")
		} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
			return nil, errs
		}
		//
		param := &ast.Parameter{Name: name, Type: datatype}
		p.srcmap.Put(param, p.spanOf(start, p.index-1))
		params = append(params, param)
	}
	//
	if _, errs := p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return params, nil
}

// Parse the remainder of a variable declaration, following the name of the
// first variable.
func (p *Parser) parseVariables(start int, datatype ast.Type, static bool, name string) ([]*ast.Variable,
	[]source.SyntaxError) {
	var (
		vars []*ast.Variable
		errs []source.SyntaxError
	)
	//
	for {
		v := &ast.Variable{Name: name, Type: datatype, Static: static}
		// Check for optional initialiser
		if p.match(EQUALS) {
			if v.Init, errs = p.parseAssignmentExpr(); len(errs) > 0 {
				return nil, errs
			}
		} else if p.follows(LSQUARE) {
			return nil, p.syntaxErrors(p.lookahead(), "unsupported construct")
		}
		//
		p.srcmap.Put(v, p.spanOf(start, p.index-1))
		vars = append(vars, v)
		//
		if !p.match(COMMA) {
			break
		}
		//
		start = p.index
		//
		if name, errs = p.parseIdentifier(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return vars, nil
}

// Parse a type (including any qualifiers and storage class), returning
// whether the static storage class was given.
func (p *Parser) parseType() (ast.Type, bool, []source.SyntaxError) {
	var (
		start                                 = p.lookahead()
		datatype                              ast.Type
		static, signed, unsigned, base, short bool
		longs                                 int
	)
	//
	for p.follows(typeTokens...) {
		token := p.lookahead()
		p.index++
		//
		switch token.Kind {
		case KEYWORD_STATIC:
			static = true
		case KEYWORD_CONST, KEYWORD_VOLATILE, KEYWORD_EXTERN:
			// ignored
		case KEYWORD_SIGNED:
			signed = true
		case KEYWORD_UNSIGNED:
			unsigned = true
		case KEYWORD_SHORT:
			short = true
		case KEYWORD_LONG:
			longs++
		default:
			if base {
				return datatype, false, p.syntaxErrors(token, "invalid type")
			}
			//
			base = true
			datatype.Kind = baseType(token.Kind)
		}
	}
	//
	switch {
	case signed && unsigned:
		return datatype, false, p.syntaxErrors(start, "invalid type")
	case !base && !signed && !unsigned && !short && longs == 0:
		return datatype, false, p.syntaxErrors(p.lookahead(), "unknown type")
	case short && longs > 0, longs > 2:
		return datatype, false, p.syntaxErrors(start, "invalid type")
	case short:
		datatype.Kind = modify(base, datatype.Kind, ast.SHORT)
	case longs == 1:
		datatype.Kind = modify(base, datatype.Kind, ast.LONG)
	case longs == 2:
		datatype.Kind = modify(base, datatype.Kind, ast.LONGLONG)
	case !base:
		datatype.Kind = ast.INT
	}
	//
	if datatype.Kind == 0xff || ((signed || unsigned) && (datatype.Kind == ast.VOID || datatype.Kind == ast.BOOL)) {
		return datatype, false, p.syntaxErrors(start, "invalid type")
	}
	//
	datatype.Unsigned = unsigned
	//
	return datatype, static, nil
}

func baseType(kind uint) ast.TypeKind {
	switch kind {
	case KEYWORD_VOID:
		return ast.VOID
	case KEYWORD_BOOL:
		return ast.BOOL
	case KEYWORD_CHAR:
		return ast.CHAR
	default:
		return ast.INT
	}
}

// Apply a size modifier (short, long) to a base type, which must be int
// (either explicit or implicit).  An invalid combination is signalled by 0xff.
func modify(explicit bool, kind ast.TypeKind, modifier ast.TypeKind) ast.TypeKind {
	if !explicit || kind == ast.INT {
		return modifier
	}
	//
	return 0xff
}

// Parse a compound statement.
func (p *Parser) parseBlock() (*ast.Block, []source.SyntaxError) {
	var (
		start = p.index
		block = &ast.Block{}
	)
	//
	if _, errs := p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.match(RCURLY) {
		if p.follows(END_OF) {
			return nil, p.syntaxErrors(p.lookahead(), "unexpected end of file")
		}
		//
		stmt, errs := p.parseStatement()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		block.Stmts = append(block.Stmts, stmt)
	}
	//
	p.srcmap.Put(block, p.spanOf(start, p.index-1))
	//
	return block, nil
}

func (p *Parser) parseStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		stmt      ast.Stmt
		errs      []source.SyntaxError
	)
	//
	switch {
	case lookahead.Kind == LCURLY:
		// Don't add to source map, since it will already have been added.
		return p.parseBlock()
	case lookahead.Kind == SEMICOLON:
		p.index++
		return &ast.Empty{}, nil
	case p.follows(typeTokens...):
		stmt, errs = p.parseLocalDeclaration()
	case lookahead.Kind == KEYWORD_IF:
		stmt, errs = p.parseIf()
	case lookahead.Kind == KEYWORD_WHILE:
		stmt, errs = p.parseWhile()
	case lookahead.Kind == KEYWORD_DO:
		stmt, errs = p.parseDoWhile()
	case lookahead.Kind == KEYWORD_FOR:
		stmt, errs = p.parseFor()
	case lookahead.Kind == KEYWORD_BREAK:
		p.index++
		stmt = &ast.Jump{Kind: ast.BREAK}
		_, errs = p.expect(SEMICOLON)
	case lookahead.Kind == KEYWORD_CONTINUE:
		p.index++
		stmt = &ast.Jump{Kind: ast.CONTINUE}
		_, errs = p.expect(SEMICOLON)
	case lookahead.Kind == KEYWORD_RETURN:
		stmt, errs = p.parseReturn()
	case lookahead.Kind == KEYWORD_GOTO:
		stmt, errs = p.parseGoto()
	case lookahead.Kind == IDENTIFIER && p.tokens[p.index+1].Kind == COLON:
		stmt, errs = p.parseLabelled()
	case p.follows(KEYWORD_SWITCH, KEYWORD_CASE, KEYWORD_DEFAULT, KEYWORD_STRUCT, KEYWORD_TYPEDEF):
		return nil, p.syntaxErrors(lookahead, "unsupported construct")
	default:
		var e ast.Expr
		//
		if e, errs = p.parseExpr(); len(errs) == 0 {
			stmt = &ast.ExprStmt{Expr: e}
			_, errs = p.expect(SEMICOLON)
		}
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(stmt, p.spanOf(start, p.index-1))
	//
	return stmt, nil
}

func (p *Parser) parseLocalDeclaration() (ast.Stmt, []source.SyntaxError) {
	var (
		start                  = p.index
		datatype, static, errs = p.parseType()
		name                   string
		vars                   []*ast.Variable
	)
	//
	if len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if p.follows(LBRACE) {
		return nil, p.syntaxErrors(p.lookahead(), "unsupported construct")
	} else if vars, errs = p.parseVariables(start, datatype, static, name); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Decl{Variables: vars}, nil
}

func (p *Parser) parseIf() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt = &ast.If{}
		errs []source.SyntaxError
	)
	// Match if
	p.index++
	// Parse condition
	if stmt.Cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if stmt.Then, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	} else if p.match(KEYWORD_ELSE) {
		if stmt.Else, errs = p.parseStatement(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt = &ast.While{}
		errs []source.SyntaxError
	)
	// Match while
	p.index++
	//
	if stmt.Cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if stmt.Body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt = &ast.DoWhile{}
		errs []source.SyntaxError
	)
	// Match do
	p.index++
	//
	if stmt.Body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_WHILE); len(errs) > 0 {
		return nil, errs
	} else if stmt.Cond, errs = p.parseCondition(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, nil
}

func (p *Parser) parseFor() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt = &ast.For{}
		errs []source.SyntaxError
	)
	// Match 'for'
	p.index++
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Parse (optional) initialiser, which consumes the ';'
	switch {
	case p.match(SEMICOLON):
	case p.follows(typeTokens...):
		start := p.index
		//
		if stmt.Init, errs = p.parseLocalDeclaration(); len(errs) > 0 {
			return nil, errs
		}
		//
		p.srcmap.Put(stmt.Init, p.spanOf(start, p.index-1))
	default:
		var (
			start = p.index
			init  ast.Expr
		)
		//
		if init, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
			return nil, errs
		}
		//
		stmt.Init = &ast.ExprStmt{Expr: init}
		p.srcmap.Put(stmt.Init, p.spanOf(start, p.index-1))
	}
	// Parse (optional) condition
	if !p.follows(SEMICOLON) {
		if stmt.Cond, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	// Parse (optional) post expression
	if !p.follows(RBRACE) {
		if stmt.Post, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if stmt.Body, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, nil
}

func (p *Parser) parseReturn() (ast.Stmt, []source.SyntaxError) {
	var (
		stmt = &ast.Return{}
		errs []source.SyntaxError
	)
	// Match return
	p.index++
	//
	if !p.follows(SEMICOLON) {
		if stmt.Value, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmt, nil
}

func (p *Parser) parseGoto() (ast.Stmt, []source.SyntaxError) {
	// Match goto
	p.index++
	//
	label, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Goto{Label: label}, nil
}

func (p *Parser) parseLabelled() (ast.Stmt, []source.SyntaxError) {
	var (
		label, _ = p.parseIdentifier()
		stmt     ast.Stmt
		errs     []source.SyntaxError
	)
	// Match ':'
	p.index++
	// C requires a statement to follow a label
	if p.follows(RCURLY) {
		return nil, p.syntaxErrors(p.lookahead(), "label at end of compound statement")
	} else if stmt, errs = p.parseStatement(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Labelled{Label: label, Stmt: stmt}, nil
}

// Parse a parenthesised condition, as found in if, while and do statements.
func (p *Parser) parseCondition() (ast.Expr, []source.SyntaxError) {
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	cond, errs := p.parseExpr()
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return cond, nil
}

// Parse an expression.  The comma operator is not supported, hence this is
// the same as an assignment expression.
func (p *Parser) parseExpr() (ast.Expr, []source.SyntaxError) {
	return p.parseAssignmentExpr()
}

func (p *Parser) parseAssignmentExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseConditionalExpr()
		rhs       ast.Expr
		assign    *ast.Assign
	)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	lookahead := p.lookahead()
	//
	if lookahead.Kind == EQUALS {
		assign = &ast.Assign{Lhs: lhs}
	} else if op, ok := assignTokens[lookahead.Kind]; ok {
		assign = &ast.Assign{Compound: true, Operator: op, Lhs: lhs}
	} else {
		return lhs, nil
	}
	// Consume operator
	p.index++
	// Assignment is right associative
	if rhs, errs = p.parseAssignmentExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	assign.Rhs = rhs
	p.srcmap.Put(assign, p.spanOf(start, p.index-1))
	//
	return assign, nil
}

func (p *Parser) parseConditionalExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		cond, errs = p.parseBinaryExpr(0)
		expr       = &ast.Conditional{Cond: cond}
	)
	//
	if len(errs) > 0 || !p.match(QUESTION) {
		return cond, errs
	} else if expr.Then, errs = p.parseExpr(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	} else if expr.Else, errs = p.parseConditionalExpr(); len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse a (left associative) binary expression at a given level of
// precedence.
func (p *Parser) parseBinaryExpr(level int) (ast.Expr, []source.SyntaxError) {
	if level == len(binaryLevels) {
		return p.parseUnaryExpr()
	}
	//
	var (
		start     = p.index
		lhs, errs = p.parseBinaryExpr(level + 1)
		rhs       ast.Expr
	)
	//
	for len(errs) == 0 {
		op, ok := binaryLevels[level][p.lookahead().Kind]
		//
		if !ok {
			break
		}
		// Consume operator
		p.index++
		//
		if rhs, errs = p.parseBinaryExpr(level + 1); len(errs) == 0 {
			lhs = &ast.Binary{Operator: op, Left: lhs, Right: rhs}
			p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
		}
	}
	//
	return lhs, errs
}

func (p *Parser) parseUnaryExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		expr      ast.Expr
		arg       ast.Expr
		errs      []source.SyntaxError
	)
	//
	switch lookahead.Kind {
	case SUB, ADD, TILDE, NOT:
		p.index++
		//
		if arg, errs = p.parseUnaryExpr(); len(errs) == 0 {
			expr = &ast.Unary{Operator: unaryOperator(lookahead.Kind), Arg: arg}
		}
	case ADD_ADD, SUB_SUB:
		p.index++
		//
		if arg, errs = p.parseUnaryExpr(); len(errs) == 0 {
			expr = &ast.IncDec{Increment: lookahead.Kind == ADD_ADD, Prefix: true, Arg: arg}
		}
	case LBRACE:
		// Distinguish cast from bracketed expression
		if !slices.Contains(typeTokens, p.tokens[p.index+1].Kind) {
			return p.parsePostfixExpr()
		}
		//
		p.index++
		//
		var (
			datatype ast.Type
			static   bool
		)
		//
		if datatype, static, errs = p.parseType(); len(errs) > 0 {
			return nil, errs
		} else if static {
			return nil, p.syntaxErrors(lookahead, "invalid cast")
		} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		} else if arg, errs = p.parseUnaryExpr(); len(errs) == 0 {
			expr = &ast.Cast{Type: datatype, Arg: arg}
		}
	case AND, MUL, KEYWORD_SIZEOF:
		return nil, p.syntaxErrors(lookahead, "unsupported construct")
	default:
		return p.parsePostfixExpr()
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func unaryOperator(kind uint) ast.UnaryOp {
	switch kind {
	case SUB:
		return ast.NEG
	case ADD:
		return ast.PLUS
	case TILDE:
		return ast.BITNOT
	default:
		return ast.NOT
	}
}

func (p *Parser) parsePostfixExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		expr, errs = p.parsePrimaryExpr()
	)
	//
	for len(errs) == 0 && p.follows(ADD_ADD, SUB_SUB, LSQUARE, DOT) {
		lookahead := p.lookahead()
		//
		if lookahead.Kind == LSQUARE || lookahead.Kind == DOT {
			return nil, p.syntaxErrors(lookahead, "unsupported construct")
		}
		//
		p.index++
		expr = &ast.IncDec{Increment: lookahead.Kind == ADD_ADD, Arg: expr}
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	}
	//
	return expr, errs
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		expr      ast.Expr
		errs      []source.SyntaxError
	)
	//
	switch lookahead.Kind {
	case IDENTIFIER:
		name, _ := p.parseIdentifier()
		//
		if p.follows(LBRACE) {
			var args []ast.Expr
			//
			if args, errs = p.parseArguments(); len(errs) == 0 {
				expr = &ast.Call{Name: name, Arguments: args}
			}
		} else {
			expr = &ast.Identifier{Name: name}
		}
	case NUMBER:
		p.index++
		expr, errs = p.number(lookahead)
	case CHARACTER:
		p.index++
		expr, errs = p.character(lookahead)
	case STRING:
		p.index++
		expr, errs = p.string(lookahead)
	case LBRACE:
		p.index++
		//
		if expr, errs = p.parseExpr(); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		// Don't add to source map, since it will already have been added.
		return expr, nil
	default:
		return nil, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

func (p *Parser) parseArguments() ([]ast.Expr, []source.SyntaxError) {
	var args []ast.Expr
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if p.match(RBRACE) {
		return nil, nil
	}
	//
	for len(args) == 0 || p.match(COMMA) {
		arg, errs := p.parseAssignmentExpr()
		if len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	if _, errs := p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	return args, nil
}

func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	tok, errs := p.expect(IDENTIFIER)
	//
	if len(errs) > 0 {
		return "", errs
	}
	//
	return p.text(tok), nil
}

// Parse an integer literal, including any suffix.
func (p *Parser) number(token lex.Token) (ast.Expr, []source.SyntaxError) {
	var (
		text   = strings.ToLower(p.text(token))
		digits = strings.TrimRight(text, "ul")
		suffix = text[len(digits):]
		lit    = &ast.IntLiteral{Type: ast.Type{Kind: ast.INT}}
		base   = 10
	)
	//
	switch {
	case strings.HasPrefix(digits, "0x"):
		digits, base = digits[2:], 16
	case len(digits) > 1 && digits[0] == '0':
		digits, base = digits[1:], 8
	}
	//
	if _, ok := lit.Value.SetString(digits, base); !ok {
		return nil, p.syntaxErrors(token, "invalid integer literal")
	}
	//
	switch strings.ReplaceAll(suffix, "u", "") {
	case "":
	case "l":
		lit.Type.Kind = ast.LONG
	case "ll":
		lit.Type.Kind = ast.LONGLONG
	default:
		return nil, p.syntaxErrors(token, "invalid integer suffix")
	}
	//
	switch strings.Count(suffix, "u") {
	case 0:
	case 1:
		lit.Type.Unsigned = true
	default:
		return nil, p.syntaxErrors(token, "invalid integer suffix")
	}
	//
	return lit, nil
}

// Parse a character literal, which has type int.
func (p *Parser) character(token lex.Token) (ast.Expr, []source.SyntaxError) {
	var text = p.text(token)
	//
	value, _, _, err := strconv.UnquoteChar(text[1:len(text)-1], '\'')
	if err != nil {
		return nil, p.syntaxErrors(token, "invalid character literal")
	}
	//
	lit := &ast.IntLiteral{Type: ast.Type{Kind: ast.INT}}
	lit.Value.SetInt64(int64(value))
	//
	return lit, nil
}

func (p *Parser) string(token lex.Token) (ast.Expr, []source.SyntaxError) {
	value, err := strconv.Unquote(p.text(token))
	if err != nil {
		return nil, p.syntaxErrors(token, "invalid string literal")
	}
	//
	return &ast.StringLiteral{Value: value}, nil
}

// Get the text representing the given token as a string.
func (p *Parser) text(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect reurns an arror if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		errs := p.syntaxErrors(lookahead, "unexpected token")
		return lookahead, errs
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	//
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}
