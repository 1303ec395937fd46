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
	"testing"

	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string, configure ...func(*options.Options)) (*symbol.Context, *gotoprog.Functions) {
	var opts = options.Default()
	//
	for _, fn := range configure {
		fn(&opts)
	}
	//
	ctx, funcs, errs := Compile(&opts, source.NewSourceFile("main.c", []byte(src)))
	require.Empty(t, errs)
	//
	return ctx, funcs
}

func compileErrors(src string) []source.SyntaxError {
	var opts = options.Default()
	//
	_, _, errs := Compile(&opts, source.NewSourceFile("main.c", []byte(src)))
	//
	return errs
}

// Render the body of a given function, one instruction per line.
func body(t *testing.T, funcs *gotoprog.Functions, name string) []string {
	var lines []string
	//
	fn, err := funcs.Lookup(irep.NewId(name))
	require.NoError(t, err)
	require.True(t, fn.BodyAvailable())
	//
	insns, err := fn.Body().Instructions()
	require.NoError(t, err)
	//
	for _, insn := range insns {
		lines = append(lines, insn.String())
	}
	//
	return lines
}

func Test_Compile_While(t *testing.T) {
	_, funcs := compile(t, `
int main() {
  int x = 0;
  while (x < 3) x++;
  assert(x == 3);
  return 0;
}`)
	//
	assert.Equal(t, []string{
		"DECL signed int32 x;",
		"x = 0;",
		"IF x >= 3 THEN GOTO 5",
		"x = x + 1;",
		"GOTO 2",
		"ASSERT x == 3 // assertion x == 3",
		"RETURN: return 0;",
		"DEAD x",
		"GOTO 10",
		"DEAD x",
		"END_FUNCTION",
	}, body(t, funcs, "c::main"))
}

func Test_Compile_EntryPoint(t *testing.T) {
	ctx, funcs := compile(t, `
int g = -1;
unsigned char c = 300;
int main(int argc) { return g; }`)
	//
	assert.Equal(t, []string{
		"g = -1;",
		"c = 44;",
		"main(NONDET(signed int32));",
		"END_FUNCTION",
	}, body(t, funcs, gotoprog.ENTRY_POINT))
	//
	g := ctx.Find(irep.NewId("c::g"))
	require.NotNil(t, g)
	assert.True(t, g.StaticLifetime)
	assert.Equal(t, "-1", g.Value.String())
	//
	argc := ctx.Find(irep.NewId("c::main::argc"))
	require.NotNil(t, argc)
	assert.True(t, argc.IsParameter)
}

func Test_Compile_Call(t *testing.T) {
	_, funcs := compile(t, `
int inc(int a) { return a + 1; }
int main() { int y = inc(2); return y; }`)
	//
	lines := body(t, funcs, "c::main")
	//
	assert.Equal(t, "DECL signed int32 y;", lines[0])
	assert.Equal(t, "DECL signed int32 return_value_inc$1;", lines[1])
	assert.Equal(t, "return_value_inc$1 = inc(2);", lines[2])
	assert.Equal(t, "y = return_value_inc$1;", lines[3])
	assert.Equal(t, "RETURN: return a + 1;", body(t, funcs, "c::inc")[0])
}

func Test_Compile_ShortCircuit(t *testing.T) {
	_, funcs := compile(t, `
int f();
int main() {
  int x = 0;
  if (x && f()) x = 1;
  return 0;
}`)
	//
	lines := body(t, funcs, "c::main")
	//
	assert.Equal(t, "DECL _Bool tmp$1;", lines[2])
	assert.Equal(t, "IF x == 0 THEN GOTO 8", lines[3])
	assert.Equal(t, "return_value_f$2 = f();", lines[5])
	assert.Equal(t, "tmp$1 = FALSE;", lines[8])
	assert.Equal(t, "IF !tmp$1 THEN GOTO 11", lines[9])
	assert.Equal(t, "x = 1;", lines[10])
	// f has no body
	fn, err := funcs.Lookup(irep.NewId("c::f"))
	require.NoError(t, err)
	assert.False(t, fn.BodyAvailable())
}

func Test_Compile_Loops(t *testing.T) {
	_, funcs := compile(t, `
int main() {
  int s = 0;
  for (int i = 0; i < 10; i++) {
    if (i == 2) continue;
    if (i == 5) break;
    s += i;
  }
  do { s--; } while (s > 0);
  return s;
}`)
	//
	fn, err := funcs.Lookup(irep.NewId("c::main"))
	require.NoError(t, err)
	//
	loops, err := gotoprog.Loops(fn.Body())
	require.NoError(t, err)
	assert.Equal(t, 2, len(loops))
}

func Test_Compile_Endianness(t *testing.T) {
	var src = `int main() { assert(__BYTE_ORDER__ == __ORDER_BIG_ENDIAN__); return 0; }`
	//
	_, funcs := compile(t, src)
	assert.Equal(t, "ASSERT 1234 == 4321 // assertion __BYTE_ORDER__ == __ORDER_BIG_ENDIAN__",
		body(t, funcs, "c::main")[0])
	//
	_, funcs = compile(t, src, func(opts *options.Options) { opts.Endianness = options.BIG_ENDIAN })
	assert.Equal(t, "ASSERT 4321 == 4321 // assertion __BYTE_ORDER__ == __ORDER_BIG_ENDIAN__",
		body(t, funcs, "c::main")[0])
}

func Test_Compile_NoAssertions(t *testing.T) {
	_, funcs := compile(t, `int main() { int x = 1; assert(x); __ESBMC_assume(x > 0); return 0; }`,
		func(opts *options.Options) { opts.Assertions = false })
	//
	lines := body(t, funcs, "c::main")
	//
	assert.NotContains(t, lines, "ASSERT x != 0 // assertion x")
	assert.Contains(t, lines, "ASSUME x > 0")
}

func Test_Compile_StaticLocal(t *testing.T) {
	ctx, funcs := compile(t, `
int count() { static int n = 5; n++; return n; }
int main() { return count(); }`)
	//
	n := ctx.Find(irep.NewId("c::count::1::n"))
	require.NotNil(t, n)
	assert.True(t, n.StaticLifetime)
	assert.Equal(t, "n = 5;", body(t, funcs, gotoprog.ENTRY_POINT)[0])
	assert.Equal(t, "n = n + 1;", body(t, funcs, "c::count")[0])
}

func Test_Compile_Builtins(t *testing.T) {
	_, funcs := compile(t, `
int main() {
  int x = __VERIFIER_nondet_int();
  __ESBMC_atomic_begin();
  printf("x=%d\n", x);
  __ESBMC_atomic_end();
  __ESBMC_assert(x != 7, "x is not seven");
  return 0;
}`)
	//
	lines := body(t, funcs, "c::main")
	//
	assert.Equal(t, "x = NONDET(signed int32);", lines[1])
	assert.Equal(t, "ATOMIC_BEGIN", lines[2])
	assert.Equal(t, `printf("x=%d\n", x);`, lines[3])
	assert.Equal(t, "ATOMIC_END", lines[4])
	assert.Equal(t, "ASSERT x != 7 // x is not seven", lines[5])
}

func Test_Compile_Invalid(t *testing.T) {
	var tests = []struct {
		src string
		msg string
	}{
		{"int main() { return x; }", "unknown identifier x"},
		{"int main() { break; }", "break outside loop"},
		{"int main() { goto L; }", "undefined label L"},
		{"int main() { L: ; L: ; return 0; }", "duplicate label L"},
		{"void f() { return 1; } int main() { return 0; }", "void function should not return a value"},
		{"int x; int g = x; int main() { return 0; }", "initialiser is not constant"},
		{"int main() { int a; int a; return 0; }", "redeclared identifier"},
		{"int f(int a); int main() { return f(1, 2); }", "argument count mismatch"},
		{"int main() { return g(); }", "call to undefined function g"},
		{"void f(); int main() { int x = f(); return 0; }", "void value not ignored"},
		{"int main() { 1 = 2; return 0; }", "lvalue required as left operand of assignment"},
		{"int f() { return 0; }", "entry function main not found"},
	}
	//
	for _, test := range tests {
		errs := compileErrors(test.src)
		//
		if assert.NotEmpty(t, errs, test.src) {
			assert.Equal(t, test.msg, errs[0].Message(), test.src)
		}
	}
}

func Test_Compile_BuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"assert", "__ESBMC_assume", "__VERIFIER_error", "__ESBMC_atomic_end", "printf"} {
		assert.Contains(t, builtins, name)
	}
	// a builtin whose condition calls back into the program
	_, funcs := compile(t, "int f() { return 1; }\nint main() { assert(f() == 1); return 0; }")
	lines := strings.Join(body(t, funcs, "c::main"), "\n")
	assert.Contains(t, lines, "return_value_f$1 = f();")
	assert.Contains(t, lines, "ASSERT return_value_f$1 == 1")
}
