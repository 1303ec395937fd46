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
	"testing"

	"github.com/consensys/go-gotoprog/pkg/util/assert"
)

func Test_SourceMaps_01(t *testing.T) {
	var (
		first  = NewSourceFile("a.c", []byte("int x;\n"))
		second = NewSourceFile("b.c", []byte("int y = 1;\n"))
		m1     = NewSourceMap[string](*first)
		m2     = NewSourceMap[string](*second)
		maps   = NewSourceMaps[string]()
	)
	//
	m1.Put("x", NewSpan(0, 5))
	m2.Put("y", NewSpan(0, 9))
	maps.Join(m1)
	maps.Join(m2)
	//
	assert.True(t, maps.Has("x"))
	assert.False(t, maps.Has("z"))
	//
	srcfile, span, ok := maps.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, "b.c", srcfile.Filename())
	assert.Equal(t, "int y = 1", srcfile.Text(span))
	//
	_, _, ok = maps.Lookup("z")
	assert.False(t, ok)
}

func Test_SourceMaps_02(t *testing.T) {
	var (
		srcfile = NewSourceFile("main.c", []byte("int main() {\n  return x;\n}\n"))
		srcmap  = NewSourceMap[int](*srcfile)
		maps    = NewSourceMaps[int]()
	)
	//
	srcmap.Put(1, NewSpan(22, 23))
	maps.Join(srcmap)
	//
	err := maps.SyntaxError(1, "unknown identifier x")
	assert.Equal(t, "x", err.SourceFile().Text(err.Span()))
	assert.Equal(t, "main.c:2:10: unknown identifier x", err.Error())
	assert.Equal(t, 2, err.FirstEnclosingLine().Number())
}
