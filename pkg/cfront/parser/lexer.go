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
	"github.com/consensys/go-gotoprog/pkg/util/source"
	"github.com/consensys/go-gotoprog/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "// ... \n" or "/* ... */"
const COMMENT uint = 2

// DIRECTIVE signals a preprocessor line "# ... \n"
const DIRECTIVE uint = 3

// LBRACE signals "("
const LBRACE uint = 4

// RBRACE signals ")"
const RBRACE uint = 5

// LCURLY signals "{"
const LCURLY uint = 6

// RCURLY signals "}"
const RCURLY uint = 7

// LSQUARE signals "["
const LSQUARE uint = 8

// RSQUARE signals "]"
const RSQUARE uint = 9

// COMMA signals ","
const COMMA uint = 10

// COLON signals ":"
const COLON uint = 11

// SEMICOLON signals ";"
const SEMICOLON uint = 12

// QUESTION signals "?"
const QUESTION uint = 13

// DOT signals "." or "->"
const DOT uint = 14

// NUMBER signals an integer literal
const NUMBER uint = 15

// CHARACTER signals a character literal
const CHARACTER uint = 16

// STRING signals a string literal
const STRING uint = 17

// IDENTIFIER signals a variable, function or label name
const IDENTIFIER uint = 20

// KEYWORD_VOID signals "void"
const KEYWORD_VOID uint = 21

// KEYWORD_BOOL signals "_Bool"
const KEYWORD_BOOL uint = 22

// KEYWORD_CHAR signals "char"
const KEYWORD_CHAR uint = 23

// KEYWORD_SHORT signals "short"
const KEYWORD_SHORT uint = 24

// KEYWORD_INT signals "int"
const KEYWORD_INT uint = 25

// KEYWORD_LONG signals "long"
const KEYWORD_LONG uint = 26

// KEYWORD_SIGNED signals "signed"
const KEYWORD_SIGNED uint = 27

// KEYWORD_UNSIGNED signals "unsigned"
const KEYWORD_UNSIGNED uint = 28

// KEYWORD_STATIC signals "static"
const KEYWORD_STATIC uint = 29

// KEYWORD_CONST signals "const"
const KEYWORD_CONST uint = 30

// KEYWORD_VOLATILE signals "volatile"
const KEYWORD_VOLATILE uint = 31

// KEYWORD_EXTERN signals "extern"
const KEYWORD_EXTERN uint = 32

// KEYWORD_IF signals "if"
const KEYWORD_IF uint = 33

// KEYWORD_ELSE signals "else"
const KEYWORD_ELSE uint = 34

// KEYWORD_WHILE signals "while"
const KEYWORD_WHILE uint = 35

// KEYWORD_DO signals "do"
const KEYWORD_DO uint = 36

// KEYWORD_FOR signals "for"
const KEYWORD_FOR uint = 37

// KEYWORD_BREAK signals "break"
const KEYWORD_BREAK uint = 38

// KEYWORD_CONTINUE signals "continue"
const KEYWORD_CONTINUE uint = 39

// KEYWORD_RETURN signals "return"
const KEYWORD_RETURN uint = 40

// KEYWORD_GOTO signals "goto"
const KEYWORD_GOTO uint = 41

// KEYWORD_SWITCH signals "switch"
const KEYWORD_SWITCH uint = 42

// KEYWORD_CASE signals "case"
const KEYWORD_CASE uint = 43

// KEYWORD_DEFAULT signals "default"
const KEYWORD_DEFAULT uint = 44

// KEYWORD_STRUCT signals "struct", "union" or "enum"
const KEYWORD_STRUCT uint = 45

// KEYWORD_TYPEDEF signals "typedef"
const KEYWORD_TYPEDEF uint = 46

// KEYWORD_SIZEOF signals "sizeof"
const KEYWORD_SIZEOF uint = 47

// EQUALS signals "="
const EQUALS uint = 50

// EQUALS_EQUALS signals "=="
const EQUALS_EQUALS uint = 51

// NOT_EQUALS signals "!="
const NOT_EQUALS uint = 52

// LESS_THAN signals "<"
const LESS_THAN uint = 53

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 54

// GREATER_THAN signals ">"
const GREATER_THAN uint = 55

// GREATER_THAN_EQUALS signals ">="
const GREATER_THAN_EQUALS uint = 56

// ADD signals "+"
const ADD uint = 57

// SUB signals "-"
const SUB uint = 58

// MUL signals "*"
const MUL uint = 59

// DIV signals "/"
const DIV uint = 60

// REM signals "%"
const REM uint = 61

// SHL signals "<<"
const SHL uint = 62

// SHR signals ">>"
const SHR uint = 63

// AND signals "&"
const AND uint = 64

// OR signals "|"
const OR uint = 65

// XOR signals "^"
const XOR uint = 66

// TILDE signals "~"
const TILDE uint = 67

// NOT signals "!"
const NOT uint = 68

// AND_AND signals "&&"
const AND_AND uint = 69

// OR_OR signals "||"
const OR_OR uint = 70

// ADD_ADD signals "++"
const ADD_ADD uint = 71

// SUB_SUB signals "--"
const SUB_SUB uint = 72

// ADD_EQUALS signals "+="
const ADD_EQUALS uint = 73

// SUB_EQUALS signals "-="
const SUB_EQUALS uint = 74

// MUL_EQUALS signals "*="
const MUL_EQUALS uint = 75

// DIV_EQUALS signals "/="
const DIV_EQUALS uint = 76

// REM_EQUALS signals "%="
const REM_EQUALS uint = 77

// SHL_EQUALS signals "<<="
const SHL_EQUALS uint = 78

// SHR_EQUALS signals ">>="
const SHR_EQUALS uint = 79

// AND_EQUALS signals "&="
const AND_EQUALS uint = 80

// OR_EQUALS signals "|="
const OR_EQUALS uint = 81

// XOR_EQUALS signals "^="
const XOR_EQUALS uint = 82

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Rule for describing numbers.  A number is either hexadecimal, octal or
// decimal, optionally followed by an integer suffix.
var (
	hexDigit = lex.Or(
		lex.Within('0', '9'),
		lex.Within('A', 'F'),
		lex.Within('a', 'f'),
	)
	hexNumber     = lex.Sequence(lex.Or(lex.String("0x"), lex.String("0X")), lex.Many(hexDigit))
	decimalNumber = lex.Many(lex.Within('0', '9'))
	suffix        = lex.Many(lex.Or(lex.Unit('u'), lex.Unit('U'), lex.Unit('l'), lex.Unit('L')))

	number = lex.Or(
		lex.SequenceNullableLast(hexNumber, suffix),
		lex.SequenceNullableLast(decimalNumber, suffix),
	)
)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Escape sequences within character and string literals
var escape lex.Scanner[rune] = lex.Sequence(lex.Unit('\\'), lex.Not[rune]('\n'))

// Rule for describing strings in quotes
var strung lex.Scanner[rune] = lex.Sequence(lex.Unit('"'), lex.Many(lex.Or(escape, lex.Not('"', '\\', '\n'))),
	lex.Unit('"'))

// Rule for describing character literals
var character lex.Scanner[rune] = lex.Sequence(lex.Unit('\''), lex.Or(escape, lex.Not('\'', '\\', '\n')),
	lex.Unit('\''))

// Line comments continue until a newline or EOF.
var lineComment lex.Scanner[rune] = lex.And(lex.Unit('/', '/'), lex.Until('\n'))

// Block comments continue until the first "*/".
var blockComment lex.Scanner[rune] = lex.Delimited([]rune("/*"), []rune("*/"))

// Preprocessor directives are ignored.
var directive lex.Scanner[rune] = lex.And(lex.Unit('#'), lex.Until('\n'))

func keyword(s string) lex.Scanner[rune] {
	return lex.Keyword(s, identifierRest)
}

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(lineComment, COMMENT),
	lex.Rule(blockComment, COMMENT),
	lex.Rule(directive, DIRECTIVE),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit('?'), QUESTION),
	lex.Rule(lex.Unit('-', '>'), DOT),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('<', '<', '='), SHL_EQUALS),
	lex.Rule(lex.Unit('>', '>', '='), SHR_EQUALS),
	lex.Rule(lex.Unit('<', '<'), SHL),
	lex.Rule(lex.Unit('>', '>'), SHR),
	lex.Rule(lex.Unit('=', '='), EQUALS_EQUALS),
	lex.Rule(lex.Unit('!', '='), NOT_EQUALS),
	lex.Rule(lex.Unit('<', '='), LESS_THAN_EQUALS),
	lex.Rule(lex.Unit('>', '='), GREATER_THAN_EQUALS),
	lex.Rule(lex.Unit('&', '&'), AND_AND),
	lex.Rule(lex.Unit('|', '|'), OR_OR),
	lex.Rule(lex.Unit('+', '+'), ADD_ADD),
	lex.Rule(lex.Unit('-', '-'), SUB_SUB),
	lex.Rule(lex.Unit('+', '='), ADD_EQUALS),
	lex.Rule(lex.Unit('-', '='), SUB_EQUALS),
	lex.Rule(lex.Unit('*', '='), MUL_EQUALS),
	lex.Rule(lex.Unit('/', '='), DIV_EQUALS),
	lex.Rule(lex.Unit('%', '='), REM_EQUALS),
	lex.Rule(lex.Unit('&', '='), AND_EQUALS),
	lex.Rule(lex.Unit('|', '='), OR_EQUALS),
	lex.Rule(lex.Unit('^', '='), XOR_EQUALS),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.Unit('%'), REM),
	lex.Rule(lex.Unit('&'), AND),
	lex.Rule(lex.Unit('|'), OR),
	lex.Rule(lex.Unit('^'), XOR),
	lex.Rule(lex.Unit('~'), TILDE),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(number, NUMBER),
	lex.Rule(character, CHARACTER),
	lex.Rule(strung, STRING),
	lex.Rule(keyword("void"), KEYWORD_VOID),
	lex.Rule(keyword("_Bool"), KEYWORD_BOOL),
	lex.Rule(keyword("char"), KEYWORD_CHAR),
	lex.Rule(keyword("short"), KEYWORD_SHORT),
	lex.Rule(keyword("int"), KEYWORD_INT),
	lex.Rule(keyword("long"), KEYWORD_LONG),
	lex.Rule(keyword("signed"), KEYWORD_SIGNED),
	lex.Rule(keyword("unsigned"), KEYWORD_UNSIGNED),
	lex.Rule(keyword("static"), KEYWORD_STATIC),
	lex.Rule(keyword("const"), KEYWORD_CONST),
	lex.Rule(keyword("volatile"), KEYWORD_VOLATILE),
	lex.Rule(keyword("extern"), KEYWORD_EXTERN),
	lex.Rule(keyword("if"), KEYWORD_IF),
	lex.Rule(keyword("else"), KEYWORD_ELSE),
	lex.Rule(keyword("while"), KEYWORD_WHILE),
	lex.Rule(keyword("do"), KEYWORD_DO),
	lex.Rule(keyword("for"), KEYWORD_FOR),
	lex.Rule(keyword("break"), KEYWORD_BREAK),
	lex.Rule(keyword("continue"), KEYWORD_CONTINUE),
	lex.Rule(keyword("return"), KEYWORD_RETURN),
	lex.Rule(keyword("goto"), KEYWORD_GOTO),
	lex.Rule(keyword("switch"), KEYWORD_SWITCH),
	lex.Rule(keyword("case"), KEYWORD_CASE),
	lex.Rule(keyword("default"), KEYWORD_DEFAULT),
	lex.Rule(keyword("struct"), KEYWORD_STRUCT),
	lex.Rule(keyword("union"), KEYWORD_STRUCT),
	lex.Rule(keyword("enum"), KEYWORD_STRUCT),
	lex.Rule(keyword("typedef"), KEYWORD_TYPEDEF),
	lex.Rule(keyword("sizeof"), KEYWORD_SIZEOF),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of zero or more tokens, along with
// any syntax errors arising.  Whitespace, comments and directives are dropped.
func Lex(srcfile source.File) ([]lex.Token, []source.SyntaxError) {
	var lexer = lex.NewLexer(srcfile.Contents(), rules...).Skip(WHITESPACE, COMMENT, DIRECTIVE)
	//
	tokens, unmatched := lexer.Tokenise()
	if unmatched != nil {
		return nil, []source.SyntaxError{*srcfile.SyntaxError(*unmatched, "unknown text encountered")}
	}
	//
	return tokens, nil
}
