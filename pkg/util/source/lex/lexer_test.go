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
package lex

import (
	"slices"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/util/assert"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

func TestLexer_00(t *testing.T) {
	var tokens = []Token{
		{END_OF, source.NewSpan(0, 0)},
	}

	checkLexer(t, "", 0, tokens...)
}

func TestLexer_01(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1)},
		{END_OF, source.NewSpan(1, 1)},
	}

	checkLexer(t, "(", 0, tokens...)
}

func TestLexer_02(t *testing.T) {
	var tokens = []Token{
		{LBRACE, source.NewSpan(0, 1)},
		{WSPACE, source.NewSpan(1, 3)},
		{RBRACE, source.NewSpan(3, 4)},
		{END_OF, source.NewSpan(4, 4)},
	}

	checkLexer(t, "(  )", 0, tokens...)
}

func TestLexer_03(t *testing.T) {
	var tokens = []Token{}

	checkLexer(t, "$", 1, tokens...)
}

func TestLexer_04(t *testing.T) {
	var tokens = []Token{
		{NUMBER, source.NewSpan(0, 3)},
		{END_OF, source.NewSpan(3, 3)},
	}

	checkLexer(t, "123", 0, tokens...)
}

func TestLexer_05(t *testing.T) {
	var tokens = []Token{
		{KEYWORD_INT, source.NewSpan(0, 3)},
		{WSPACE, source.NewSpan(3, 4)},
		{IDENT, source.NewSpan(4, 11)},
		{END_OF, source.NewSpan(11, 11)},
	}

	checkLexer(t, "int integer", 0, tokens...)
}

func TestLexer_06(t *testing.T) {
	var tokens = []Token{
		{COMMENT, source.NewSpan(0, 7)},
		{NUMBER, source.NewSpan(7, 8)},
		{END_OF, source.NewSpan(8, 8)},
	}

	checkLexer(t, "/* x */1", 0, tokens...)
}

func TestLexer_07(t *testing.T) {
	// Unterminated comments are not matched at all.
	checkLexer(t, "/* x ", 5)
}

func TestLexer_08(t *testing.T) {
	var (
		lexer  = NewLexer([]rune("( /* x */ 12 )"), rules...).Skip(WSPACE, COMMENT)
		tokens = lexer.Collect()
	)
	//
	assert.Equal(t, 4, len(tokens))
	assert.Equal(t, LBRACE, tokens[0].Kind)
	assert.Equal(t, NUMBER, tokens[1].Kind)
	assert.Equal(t, source.NewSpan(10, 12), tokens[1].Span)
	assert.Equal(t, RBRACE, tokens[2].Kind)
	assert.Equal(t, END_OF, tokens[3].Kind)
}

func TestLexer_09(t *testing.T) {
	tokens, unmatched := NewLexer([]rune("(1 $"), rules...).Skip(WSPACE).Tokenise()
	//
	assert.Equal(t, 2, len(tokens))
	assert.True(t, unmatched != nil)
	assert.Equal(t, source.NewSpan(3, 4), *unmatched)
}

func TestLexerSequence(t *testing.T) {
	rule := Sequence(
		Unit('a'),
		Unit('b'),
		Unit('c'),
	)
	assert.Equal(t, 0, rule([]int32{'a', 'c', 'c'}))
	assert.Equal(t, 3, rule([]int32{'a', 'b', 'c'}))
}

func TestLexerNot(t *testing.T) {
	rule := Many(Not('"', '\n'))
	assert.Equal(t, 3, rule([]int32{'a', 'b', 'c', '"'}))
	assert.Equal(t, 0, rule([]int32{'\n'}))
}

func TestLexerKeyword(t *testing.T) {
	rule := Keyword("for", identRest)
	assert.Equal(t, 3, rule([]int32("for")))
	assert.Equal(t, 3, rule([]int32("for(")))
	assert.Equal(t, 0, rule([]int32("format")))
}

// ==================================================================
// Framework
// ==================================================================

const END_OF uint = 0
const WSPACE uint = 1
const LBRACE uint = 2
const RBRACE uint = 3
const NUMBER uint = 4
const COMMENT uint = 5
const KEYWORD_INT uint = 6
const IDENT uint = 7

var whitespace Scanner[rune] = Many(Or(Unit(' '), Unit('\t')))

var number Scanner[rune] = Many(Within('0', '9'))

var identRest Scanner[rune] = Or(Unit('_'), Within('a', 'z'), Within('0', '9'))

var ident Scanner[rune] = And(Within('a', 'z'), Many(identRest))

// lexing rules
var rules []LexRule[rune] = []LexRule[rune]{
	Rule(Delimited([]rune("/*"), []rune("*/")), COMMENT),
	Rule(Unit('('), LBRACE),
	Rule(Unit(')'), RBRACE),
	Rule(whitespace, WSPACE),
	Rule(number, NUMBER),
	Rule(Keyword("int", identRest), KEYWORD_INT),
	Rule(ident, IDENT),
	Rule(Eof[rune](), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	items := []rune(input)
	// Construct text lexer
	lexer := NewLexer[rune](items, rules...)
	// Apply lexer
	tokens := lexer.Collect()
	// Keep scanning
	if !slices.Equal(tokens, expected) && (len(tokens) != 0 || len(expected) != 0) {
		t.Errorf("got %v, expected %v", tokens, expected)
	} else if lexer.Remaining() != remainder {
		n := len(items) - int(lexer.Remaining())
		t.Errorf("unmatched items: %v", items[n:])
	}
}
