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
package expr

import (
	"math/big"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[irep.Id]int64

func (p mapEnv) Read(id irep.Id) (*big.Int, error) {
	return big.NewInt(p[id]), nil
}

func (p mapEnv) Nondet(_ Type) *big.Int {
	return big.NewInt(-1)
}

var (
	int32T  = SignedBV(32)
	uint8T  = UnsignedBV(8)
	xId     = irep.NewId("c::main::1::x")
	yId     = irep.NewId("c::main::1::y")
	xSymbol = NewSymbol(xId, int32T)
	ySymbol = NewSymbol(yId, int32T)
)

func eval(t *testing.T, e Expr, integer bool, env mapEnv) int64 {
	ev := Evaluator{env, integer}
	v, err := ev.Eval(e)
	require.NoError(t, err)
	//
	return v.Int64()
}

func Test_Eval_Arithmetic(t *testing.T) {
	env := mapEnv{xId: 7, yId: -2}
	//
	assert.Equal(t, int64(5), eval(t, &Binary{ADD, xSymbol, ySymbol, int32T}, false, env))
	assert.Equal(t, int64(-14), eval(t, &Binary{MUL, xSymbol, ySymbol, int32T}, false, env))
	assert.Equal(t, int64(-3), eval(t, &Binary{DIV, xSymbol, ySymbol, int32T}, false, env))
	assert.Equal(t, int64(1), eval(t, &Binary{MOD, xSymbol, ySymbol, int32T}, false, env))
	assert.Equal(t, int64(-8), eval(t, &Unary{BITNOT, xSymbol, int32T}, false, env))
}

func Test_Eval_Wrapping(t *testing.T) {
	var (
		env = mapEnv{}
		sum = &Binary{ADD, NewConstant(250, uint8T), NewConstant(10, uint8T), uint8T}
		neg = &Typecast{NewConstant(-1, int32T), UnsignedBV(32)}
	)
	// bitvector semantics wrap around
	assert.Equal(t, int64(4), eval(t, sum, false, env))
	assert.Equal(t, int64(4294967295), eval(t, neg, false, env))
	// integer semantics do not
	assert.Equal(t, int64(260), eval(t, sum, true, env))
}

func Test_Eval_Signed_Overflow(t *testing.T) {
	max := NewConstant(2147483647, int32T)
	e := &Binary{ADD, max, NewConstant(1, int32T), int32T}
	//
	assert.Equal(t, int64(-2147483648), eval(t, e, false, mapEnv{}))
}

func Test_Eval_Shifts(t *testing.T) {
	var (
		word = NewConstant(0x01020304, UnsignedBV(32))
		hi   = &Binary{SHR, word, NewConstant(24, UnsignedBV(32)), UnsignedBV(32)}
		lo   = &Binary{BITAND, word, NewConstant(0xff, UnsignedBV(32)), UnsignedBV(32)}
		shl  = &Binary{SHL, word, NewConstant(8, UnsignedBV(32)), UnsignedBV(32)}
	)
	//
	assert.Equal(t, int64(1), eval(t, hi, false, mapEnv{}))
	assert.Equal(t, int64(4), eval(t, lo, false, mapEnv{}))
	assert.Equal(t, int64(0x02030400), eval(t, shl, false, mapEnv{}))
}

func Test_Eval_DivisionByZero(t *testing.T) {
	ev := Evaluator{mapEnv{}, false}
	_, err := ev.Eval(&Binary{DIV, xSymbol, NewConstant(0, int32T), int32T})
	//
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func Test_Eval_Logical(t *testing.T) {
	var (
		env  = mapEnv{xId: 3, yId: 0}
		cond = And(&Cmp{GT, xSymbol, ySymbol}, Negate(&Cmp{EQ, xSymbol, ySymbol}))
		ev   = Evaluator{env, false}
	)
	//
	holds, err := ev.Holds(cond)
	require.NoError(t, err)
	assert.True(t, holds)
	//
	holds, err = ev.Holds(Or(&Cmp{LT, xSymbol, ySymbol}, &If{&Cmp{EQ, ySymbol, NewConstant(0, int32T)},
		True(), False()}))
	require.NoError(t, err)
	assert.True(t, holds)
}

func Test_Negate(t *testing.T) {
	c := &Cmp{LT, xSymbol, ySymbol}
	//
	assert.Equal(t, "x >= y", Negate(c).String())
	assert.Equal(t, "x < y", Negate(Negate(c)).String())
	assert.True(t, IsFalse(Negate(True())))
	assert.Equal(t, xSymbol, Negate(&Not{xSymbol}))
}

func Test_Simplify(t *testing.T) {
	assert.True(t, IsTrue(And()))
	assert.True(t, IsFalse(Or()))
	assert.True(t, IsFalse(And(xSymbol, False())))
	assert.Equal(t, xSymbol, And(True(), xSymbol))
	assert.Equal(t, "(x != 0) || (y != 0)",
		Or(&Cmp{NEQ, xSymbol, NewConstant(0, int32T)}, &Cmp{NEQ, ySymbol, NewConstant(0, int32T)}).String())
}

func Test_Symbols(t *testing.T) {
	e := &Binary{ADD, xSymbol, &Binary{MUL, ySymbol, xSymbol, int32T}, int32T}
	//
	assert.Equal(t, []irep.Id{xId, yId}, Symbols(e))
	assert.False(t, HasNondet(e))
	assert.True(t, HasNondet(&Binary{ADD, xSymbol, &Nondet{int32T}, int32T}))
}
