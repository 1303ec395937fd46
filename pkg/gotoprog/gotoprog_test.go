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
package gotoprog

import (
	"strings"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	int32T = expr.SignedBV(32)
	mainId = irep.NewId("c::main")
	iVar   = expr.NewSymbol(irep.NewId("c::main::1::i"), int32T)
	jVar   = expr.NewSymbol(irep.NewId("c::main::1::j"), int32T)
)

func increment(v *expr.Symbol) Instruction {
	return Instruction{Type: ASSIGN, Code: &Assign{v, &expr.Binary{Operator: expr.ADD, Left: v,
		Right: expr.NewConstant(1, int32T), DataType: int32T}}}
}

func initialise(v *expr.Symbol) Instruction {
	return Instruction{Type: ASSIGN, Code: &Assign{v, expr.NewConstant(0, int32T)}}
}

// Emit "while(v < n) { body; v++; }" in the style of the C front end.
func emitWhile(b *Builder, v *expr.Symbol, n int64, body func()) {
	var (
		head = b.NewLabel("head")
		exit = b.NewLabel("exit")
		cond = &expr.Cmp{Operator: expr.LT, Left: v, Right: expr.NewConstant(n, int32T)}
	)
	//
	b.Bind(head)
	b.Goto(expr.Negate(cond), exit, symbol.Location{})
	body()
	b.Emit(increment(v))
	b.Goto(expr.True(), head, symbol.Location{})
	b.Bind(exit)
}

// Construct the program:
//
//	0: DECL i
//	1: i = 0
//	2: IF i >= 3 THEN GOTO 5
//	3: i = i + 1
//	4: GOTO 2
//	5: END_FUNCTION
func whileProgram(t *testing.T) *Program {
	b := NewBuilder(mainId)
	b.Emit(Instruction{Type: DECL, Code: &Decl{iVar}})
	b.Emit(initialise(iVar))
	emitWhile(b, iVar, 3, func() {})
	b.Emit(Instruction{Type: END_FUNCTION})
	//
	p, err := b.Build()
	require.NoError(t, err)
	//
	return p
}

func Test_Builder_01(t *testing.T) {
	p := whileProgram(t)
	//
	require.Equal(t, uint(6), p.Len())
	require.NoError(t, p.Validate())
	//
	targets, err := p.Targets()
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 4}, targets)
	//
	target, ok, err := p.TargetOf(4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(2), target)
	//
	_, ok, err = p.TargetOf(3)
	require.NoError(t, err)
	assert.False(t, ok)
	//
	incoming, err := p.Incoming(2)
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, incoming)
	//
	insn, err := p.At(4)
	require.NoError(t, err)
	assert.True(t, insn.IsBackwardsGoto(4))
	assert.Equal(t, GOTO, insn.Kind())
	assert.Equal(t, "GOTO 2", insn.String())
}

func Test_Builder_02(t *testing.T) {
	var (
		b     = NewBuilder(mainId)
		label = b.NewLabel("missing")
	)
	//
	b.Goto(expr.True(), label, symbol.Location{})
	b.Emit(Instruction{Type: END_FUNCTION})
	//
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_Builder_03(t *testing.T) {
	b := NewBuilder(mainId)
	b.Emit(Instruction{Type: SKIP})
	//
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_Builder_Labels(t *testing.T) {
	b := NewBuilder(mainId)
	b.AttachLabel("L1")
	b.Emit(Instruction{Type: SKIP})
	b.Emit(Instruction{Type: END_FUNCTION})
	//
	p, err := b.Build()
	require.NoError(t, err)
	//
	insn, err := p.At(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, insn.Labels)
	// copies are independent of the program
	insn.Labels[0] = "L2"
	insn, err = p.At(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"L1"}, insn.Labels)
}

func Test_Program_OutOfRange(t *testing.T) {
	p := whileProgram(t)
	//
	_, err := p.At(p.Len())
	assert.ErrorIs(t, err, ErrOutOfRange)
	//
	_, err = p.Incoming(p.Len())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func Test_Program_Deterministic(t *testing.T) {
	p := whileProgram(t)
	//
	first, err := p.Instructions()
	require.NoError(t, err)
	second, err := p.Instructions()
	require.NoError(t, err)
	//
	assert.Equal(t, first, second)
}

func Test_Program_Output(t *testing.T) {
	var (
		p       = whileProgram(t)
		builder strings.Builder
	)
	//
	require.NoError(t, p.Output(&builder))
	//
	lines := strings.Split(builder.String(), "\n")
	assert.Equal(t, "        DECL signed int32 i;", lines[1])
	assert.Equal(t, "     1: IF i >= 3 THEN GOTO 2", lines[5])
	assert.Equal(t, "        GOTO 1", lines[9])
	assert.Equal(t, "     2: END_FUNCTION", lines[11])
}

func Test_Functions_01(t *testing.T) {
	funcs := NewFunctions()
	require.NoError(t, funcs.Add(NewFunction(mainId, Signature{Return: int32T}, whileProgram(t))))
	require.NoError(t, funcs.Add(NewFunction(irep.NewId("c::f"), Signature{}, nil)))
	//
	fn, err := funcs.Lookup(mainId)
	require.NoError(t, err)
	assert.True(t, fn.BodyAvailable())
	assert.Equal(t, mainId, fn.Id())
	//
	fn, err = funcs.Lookup(irep.NewId("c::f"))
	require.NoError(t, err)
	assert.False(t, fn.BodyAvailable())
	//
	_, err = funcs.Lookup(irep.NewId("c::g"))
	assert.ErrorIs(t, err, ErrNotFound)
	//
	assert.Equal(t, []irep.Id{irep.NewId("c::f"), mainId}, funcs.Names())
	assert.Equal(t, 2, funcs.Len())
	assert.Equal(t, "__ESBMC_main", funcs.MainId().String())
	assert.NoError(t, funcs.Validate())
	//
	assert.Error(t, funcs.Add(NewFunction(mainId, Signature{}, nil)))
}

func Test_Functions_Release(t *testing.T) {
	funcs := NewFunctions()
	require.NoError(t, funcs.Add(NewFunction(mainId, Signature{}, whileProgram(t))))
	//
	fn, err := funcs.Lookup(mainId)
	require.NoError(t, err)
	//
	body := fn.Body()
	_, err = body.At(0)
	require.NoError(t, err)
	//
	funcs.Release()
	funcs.Release()
	assert.True(t, funcs.Released())
	//
	_, err = funcs.Lookup(mainId)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = body.At(0)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = body.Instructions()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, body.Validate(), ErrSessionClosed)
}

func Test_Functions_Update(t *testing.T) {
	funcs := NewFunctions()
	require.NoError(t, funcs.Add(NewFunction(mainId, Signature{}, whileProgram(t))))
	require.NoError(t, funcs.Add(NewFunction(irep.NewId("c::a"), Signature{}, whileProgram(t))))
	funcs.Update()
	//
	fn, err := funcs.Lookup(mainId)
	require.NoError(t, err)
	// c::a is numbered first
	insn, err := fn.Body().At(0)
	require.NoError(t, err)
	assert.Equal(t, uint(6), insn.LocationNumber)
}

func Test_Loops_01(t *testing.T) {
	loops, err := Loops(whileProgram(t))
	require.NoError(t, err)
	assert.Equal(t, []Loop{{2, 4}}, loops)
}

func Test_Unwind_01(t *testing.T) {
	p, err := Unwind(whileProgram(t), 2, true)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	//
	insns, err := p.Instructions()
	require.NoError(t, err)
	//
	types := make([]Type, len(insns))
	for i := range insns {
		types[i] = insns[i].Type
	}
	//
	assert.Equal(t, []Type{DECL, ASSIGN, GOTO, ASSIGN, SKIP, GOTO, ASSIGN, SKIP, ASSERT, END_FUNCTION}, types)
	assert.Equal(t, Target(9), insns[2].Target)
	assert.Equal(t, Target(9), insns[5].Target)
	assert.Equal(t, "unwinding assertion loop 0", insns[8].Comment)
	//
	loops, err := Loops(p)
	require.NoError(t, err)
	assert.Empty(t, loops)
}

func Test_Unwind_02(t *testing.T) {
	var original = whileProgram(t)
	//
	p, err := Unwind(original, 0, true)
	require.NoError(t, err)
	assert.Same(t, original, p)
	//
	p, err = Unwind(original, 1, false)
	require.NoError(t, err)
	//
	insn, err := p.At(5)
	require.NoError(t, err)
	assert.Equal(t, ASSUME, insn.Type)
	assert.True(t, expr.IsFalse(insn.Guard))
}

func Test_Unwind_Nested(t *testing.T) {
	b := NewBuilder(mainId)
	b.Emit(initialise(iVar))
	emitWhile(b, iVar, 2, func() {
		b.Emit(initialise(jVar))
		emitWhile(b, jVar, 2, func() {})
	})
	b.Emit(Instruction{Type: END_FUNCTION})
	//
	p, err := b.Build()
	require.NoError(t, err)
	//
	loops, err := Loops(p)
	require.NoError(t, err)
	require.Len(t, loops, 2)
	assert.True(t, loops[0].Contains(loops[1].Head))
	//
	u, err := Unwind(p, 3, true)
	require.NoError(t, err)
	require.NoError(t, u.Validate())
	//
	loops, err = Loops(u)
	require.NoError(t, err)
	assert.Empty(t, loops)
	// Every branch is forwards
	insns, err := u.Instructions()
	require.NoError(t, err)
	//
	for pc := range insns {
		assert.False(t, insns[pc].IsBackwardsGoto(uint(pc)))
	}
}

func Test_RemoveSkip_01(t *testing.T) {
	p, err := Unwind(whileProgram(t), 2, true)
	require.NoError(t, err)
	//
	p, err = RemoveSkip(p)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	//
	assert.Equal(t, uint(8), p.Len())
	//
	target, ok, err := p.TargetOf(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(7), target)
}

func Test_RemoveSkip_02(t *testing.T) {
	b := NewBuilder(mainId)
	skip := b.NewLabel("skip")
	b.Goto(&expr.Cmp{Operator: expr.EQ, Left: iVar, Right: expr.NewConstant(0, int32T)}, skip,
		symbol.Location{})
	b.Emit(initialise(iVar))
	b.Bind(skip)
	b.AttachLabel("L")
	b.Emit(Instruction{Type: SKIP})
	b.Emit(Instruction{Type: END_FUNCTION})
	//
	p, err := b.Build()
	require.NoError(t, err)
	//
	p, err = RemoveSkip(p)
	require.NoError(t, err)
	require.Equal(t, uint(3), p.Len())
	//
	insn, err := p.At(2)
	require.NoError(t, err)
	assert.Equal(t, END_FUNCTION, insn.Type)
	assert.Equal(t, []string{"L"}, insn.Labels)
	//
	target, _, err := p.TargetOf(0)
	require.NoError(t, err)
	assert.Equal(t, uint(2), target)
}

func Test_RaceAssertions(t *testing.T) {
	var (
		ctx   = symbol.NewContext()
		g     = expr.NewSymbol(irep.NewId("c::g"), int32T)
		f     = irep.NewId("c::f")
		funcs = NewFunctions()
	)
	//
	_, err := ctx.Add(symbol.Symbol{Id: g.Id, BaseName: "g", Type: int32T, StaticLifetime: true})
	require.NoError(t, err)
	// f: g = g + 1
	b := NewBuilder(f)
	b.Emit(increment(g))
	b.Emit(Instruction{Type: END_FUNCTION})
	body, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, funcs.Add(NewFunction(f, Signature{}, body)))
	// entry point: f()
	b = NewBuilder(funcs.MainId())
	b.Emit(Instruction{Type: FUNCTION_CALL, Code: &FunctionCall{Function: f}})
	b.Emit(Instruction{Type: END_FUNCTION})
	body, err = b.Build()
	require.NoError(t, err)
	require.NoError(t, funcs.Add(NewFunction(funcs.MainId(), Signature{}, body)))
	//
	funcs, err = AddRaceAssertions(ctx, funcs)
	require.NoError(t, err)
	require.NoError(t, funcs.Validate())
	//
	fn, err := funcs.Lookup(f)
	require.NoError(t, err)
	insns, err := fn.Body().Instructions()
	require.NoError(t, err)
	require.Len(t, insns, 5)
	assert.Equal(t, "tmp_g = TRUE;", insns[0].Code.String())
	assert.Equal(t, "g = g + 1;", insns[1].Code.String())
	assert.Equal(t, "tmp_g = FALSE;", insns[2].Code.String())
	assert.Equal(t, ASSERT, insns[3].Type)
	assert.Equal(t, "W/W data race on g", insns[3].Comment)
	//
	fn, err = funcs.Lookup(funcs.MainId())
	require.NoError(t, err)
	insn, err := fn.Body().At(0)
	require.NoError(t, err)
	assert.Equal(t, "tmp_g = FALSE;", insn.Code.String())
	//
	assert.True(t, symbol.NewNamespace(ctx).Has(irep.NewId("c::tmp_g")))
}

func Test_Program_Dangling(t *testing.T) {
	p := newProgram(mainId, []Instruction{
		{Type: GOTO, Guard: expr.True(), Target: 5},
		{Type: END_FUNCTION, Guard: expr.True(), Target: NoTarget},
	})
	//
	require.ErrorIs(t, p.Validate(), ErrDanglingTarget)
	//
	_, _, err := p.TargetOf(0)
	require.ErrorIs(t, err, ErrDanglingTarget)
	//
	_, ok, err := p.TargetOf(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Expand_Dangling(t *testing.T) {
	var p = whileProgram(t)
	// one past the end is not a valid target
	for _, target := range []Target{Target(p.Len()), Target(p.Len() + 5)} {
		_, err := Expand(p, func(pc uint, insn Instruction) []Instruction {
			if insn.HasTarget() {
				insn.Target = target
			}
			//
			return []Instruction{insn}
		})
		assert.ErrorIs(t, err, ErrDanglingTarget)
	}
	// branch (5) to an instruction dropped from the end
	_, err := Expand(p, func(pc uint, insn Instruction) []Instruction {
		if insn.Type == END_FUNCTION {
			return nil
		}
		//
		return []Instruction{insn}
	})
	assert.ErrorIs(t, err, ErrDanglingTarget)
}

// Construct a table where c::f increments each of the given variables, and the
// entry point calls c::f.
func incrementing(t *testing.T, vars ...*expr.Symbol) *Functions {
	var (
		f     = irep.NewId("c::f")
		funcs = NewFunctions()
		b     = NewBuilder(f)
	)
	//
	for _, v := range vars {
		b.Emit(increment(v))
	}
	//
	b.Emit(Instruction{Type: END_FUNCTION})
	body, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, funcs.Add(NewFunction(f, Signature{}, body)))
	//
	b = NewBuilder(funcs.MainId())
	b.Emit(Instruction{Type: FUNCTION_CALL, Code: &FunctionCall{Function: f}})
	b.Emit(Instruction{Type: END_FUNCTION})
	body, err = b.Build()
	require.NoError(t, err)
	require.NoError(t, funcs.Add(NewFunction(funcs.MainId(), Signature{}, body)))
	//
	return funcs
}

func Test_RaceAssertions_Guards(t *testing.T) {
	var (
		ctx    = symbol.NewContext()
		global = expr.NewSymbol(irep.NewId("c::x"), int32T)
		local  = expr.NewSymbol(irep.NewId("c::f::1::x"), int32T)
	)
	//
	for _, v := range []*expr.Symbol{global, local} {
		_, err := ctx.Add(symbol.Symbol{Id: v.Id, BaseName: "x", Type: int32T, StaticLifetime: true})
		require.NoError(t, err)
	}
	//
	funcs, err := AddRaceAssertions(ctx, incrementing(t, global, local))
	require.NoError(t, err)
	//
	ns := symbol.NewNamespace(ctx)
	assert.True(t, ns.Has(irep.NewId("c::tmp_x")))
	assert.True(t, ns.Has(irep.NewId("c::tmp_f$1$x")))
	//
	fn, err := funcs.Lookup(funcs.MainId())
	require.NoError(t, err)
	insns, err := fn.Body().Instructions()
	require.NoError(t, err)
	// both guards initialised, then the call
	assert.Len(t, insns, 4)
}

func Test_RaceAssertions_Clash(t *testing.T) {
	var (
		ctx = symbol.NewContext()
		g   = expr.NewSymbol(irep.NewId("c::g"), int32T)
	)
	//
	_, err := ctx.Add(symbol.Symbol{Id: g.Id, BaseName: "g", Type: int32T, StaticLifetime: true})
	require.NoError(t, err)
	// a user global which happens to be named like a guard
	_, err = ctx.Add(symbol.Symbol{Id: irep.NewId("c::tmp_g"), BaseName: "tmp_g", Type: int32T,
		StaticLifetime: true})
	require.NoError(t, err)
	//
	_, err = AddRaceAssertions(ctx, incrementing(t, g))
	assert.ErrorContains(t, err, "race guard c::tmp_g for c::g clashes")
}
