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
package source

import (
	"fmt"
)

// Span identifies a contiguous range of characters within a source file, by
// index rather than by content.  Retaining the indices allows the enclosing
// line (and hence line number) to be recovered when reporting errors.
type Span struct {
	// Index of the first character covered.
	start int
	// Index one past the last character covered.
	end int
}

// NewSpan constructs a span covering characters start up to (but not
// including) end.
func NewSpan(start int, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span %d-%d", start, end))
	}
	//
	return Span{start, end}
}

// Start returns the index of the first character covered by this span.
func (p *Span) Start() int {
	return p.start
}

// End returns the index one past the last character covered by this span.
func (p *Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span.
func (p *Span) Length() int {
	return p.end - p.start
}

// Map records, for the nodes of a syntax tree parsed from a single file, the
// span of text each node was parsed from.
type Map[T comparable] struct {
	spans   map[T]Span
	srcfile File
}

// NewSourceMap constructs an empty source map for a given file.
func NewSourceMap[T comparable](srcfile File) *Map[T] {
	return &Map[T]{make(map[T]Span), srcfile}
}

// Source returns the file this map refers to.
func (p *Map[T]) Source() File {
	return p.srcfile
}

// Put records the span of a node.  A node can be recorded only once.
func (p *Map[T]) Put(node T, span Span) {
	if _, ok := p.spans[node]; ok {
		panic(fmt.Sprintf("node already mapped: %v", any(node)))
	}
	//
	p.spans[node] = span
}

// Has checks whether a node has been recorded.
func (p *Map[T]) Has(node T) bool {
	_, ok := p.spans[node]
	//
	return ok
}

// Get returns the span recorded for a node, and panics if there is none.
func (p *Map[T]) Get(node T) Span {
	span, ok := p.spans[node]
	if !ok {
		panic(fmt.Sprintf("node not mapped: %v", any(node)))
	}
	//
	return span
}

// Maps combines the source maps of several files, such that a node can be
// traced back to its file without knowing which file it came from.
type Maps[T comparable] struct {
	files []File
	// Index of each node's file in files, along with its span.
	index map[T]location
}

type location struct {
	file int
	span Span
}

// NewSourceMaps constructs an empty set of source maps, which is then extended
// via Join as each file is parsed.
func NewSourceMaps[T comparable]() *Maps[T] {
	return &Maps[T]{nil, make(map[T]location)}
}

// Join incorporates the nodes of a single file's source map.
func (p *Maps[T]) Join(srcmap *Map[T]) {
	file := len(p.files)
	p.files = append(p.files, srcmap.srcfile)
	//
	for node, span := range srcmap.spans {
		if _, ok := p.index[node]; ok {
			panic(fmt.Sprintf("node mapped in multiple files: %v", any(node)))
		}
		//
		p.index[node] = location{file, span}
	}
}

// Has checks whether a node is known to any of the joined source maps.
func (p *Maps[T]) Has(node T) bool {
	_, ok := p.index[node]
	//
	return ok
}

// Lookup returns the file and span of a node, if it is known.
func (p *Maps[T]) Lookup(node T) (*File, Span, bool) {
	loc, ok := p.index[node]
	if !ok {
		return nil, Span{}, false
	}
	//
	return &p.files[loc.file], loc.span, true
}

// SyntaxError constructs an error highlighting the text of a given node.  The
// node must be known to one of the joined source maps.
//
//nolint:revive
func (p *Maps[T]) SyntaxError(node T, msg string) *SyntaxError {
	srcfile, span, ok := p.Lookup(node)
	if !ok {
		panic(fmt.Sprintf("node not mapped: %v", any(node)))
	}
	//
	return srcfile.SyntaxError(span, msg)
}

// SyntaxErrors is SyntaxError for callers collecting errors in bulk.
func (p *Maps[T]) SyntaxErrors(node T, msg string) []SyntaxError {
	return []SyntaxError{*p.SyntaxError(node, msg)}
}
