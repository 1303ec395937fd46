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

	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// Token associates a piece of information with a given range of characters in
// the string being scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule is simply a rule for associating groups of characters with a given
// tag.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching characters to a given
// tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Lexer tokenises an input sequence using a fixed set of rules, which are
// tried in order at each position.  Tokens whose tag is marked as skipped
// (e.g. whitespace or comments) are matched but never returned.
type Lexer[T any] struct {
	items  []T
	index  int
	rules  []LexRule[T]
	skip   []uint
	buffer []Token
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{items: input, rules: rules}
}

// Skip marks tags whose tokens are dropped, rather than returned.
func (p *Lexer[T]) Skip(tags ...uint) *Lexer[T] {
	p.skip = append(p.skip, tags...)
	return p
}

// Index returns the current index within the items array.
func (p *Lexer[T]) Index() uint {
	return uint(p.index)
}

// Remaining determines how many items from the original sequence are left.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there are any tokens remaining to visit.
func (p *Lexer[T]) HasNext() bool {
	for p.scan() {
		if !slices.Contains(p.skip, p.buffer[0].Kind) {
			return true
		}
		//
		p.advance()
	}
	//
	return false
}

// Next returns the next token and advances the lexer.
func (p *Lexer[T]) Next() Token {
	return p.advance()
}

// Collect is a convenience function which parses all remaining tokens in one
// go, producing an array of tokens.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

// Tokenise collects all tokens of the input.  If some input could not be
// matched by any rule, the span of its first item is returned as well.
func (p *Lexer[T]) Tokenise() ([]Token, *source.Span) {
	tokens := p.Collect()
	//
	if p.Remaining() != 0 {
		span := source.NewSpan(p.index, p.index+1)
		return tokens, &span
	}
	//
	return tokens, nil
}

func (p *Lexer[T]) advance() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	if p.index == len(p.items) {
		// EOF condition
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Ensure the buffer holds the token at the current position, returning false
// if no rule matches.
func (p *Lexer[T]) scan() bool {
	if len(p.buffer) > 0 {
		return true
	} else if p.index > len(p.items) {
		return false
	}
	//
	for _, r := range p.rules {
		if n := r.scanner(p.items[p.index:]); n > 0 {
			end := min(len(p.items), p.index+int(n))
			p.buffer = append(p.buffer, Token{r.tag, source.NewSpan(p.index, end)})
			//
			return true
		}
	}
	//
	return false
}
