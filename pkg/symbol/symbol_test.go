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
package symbol

import (
	"testing"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/util/assert"
)

func Test_Namespace_01(t *testing.T) {
	var (
		ctx = NewContext()
		ns  = NewNamespace(ctx)
		x   = irep.NewId("c::x")
	)
	//
	_, err := ns.Lookup(x)
	assert.ErrorIs(t, err, ErrNotFound)
	//
	_, err = ctx.Add(Symbol{Id: x, BaseName: "x", Type: expr.SignedBV(32), StaticLifetime: true})
	assert.NoError(t, err)
	//
	sym, err := ns.Lookup(x)
	assert.NoError(t, err)
	assert.Equal(t, "x", sym.BaseName)
	assert.True(t, ns.Has(x))
}

func Test_Namespace_02(t *testing.T) {
	var ctx = NewContext()
	//
	_, err := ctx.Add(Symbol{Id: irep.NewId("c::y")})
	assert.NoError(t, err)
	_, err = ctx.Add(Symbol{Id: irep.NewId("c::y")})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func Test_Namespace_03(t *testing.T) {
	var ctx = NewContext()
	//
	for _, n := range []string{"c::main", "c::b", "c::a"} {
		_, err := ctx.Add(Symbol{Id: irep.NewId(n)})
		assert.NoError(t, err)
	}
	//
	symbols := NewNamespace(ctx).Symbols()
	assert.Equal(t, 3, len(symbols))
	assert.Equal(t, "c::a", symbols[0].Id.String())
	assert.Equal(t, "c::main", symbols[2].Id.String())
}

func Test_Namespace_04(t *testing.T) {
	var (
		ctx = NewContext()
		id  = irep.NewId("c::tmp_x")
	)
	//
	first, existed := ctx.Move(Symbol{Id: id, BaseName: "tmp_x"})
	assert.False(t, existed)
	//
	second, existed := ctx.Move(Symbol{Id: id, BaseName: "other"})
	assert.True(t, existed)
	assert.True(t, first == second)
	assert.Equal(t, "tmp_x", second.BaseName)
}

func Test_Location(t *testing.T) {
	loc := Location{File: "main.c", Line: 3, Function: "main"}
	//
	assert.Equal(t, "file main.c line 3 function main", loc.String())
	assert.Equal(t, "", Location{}.String())
}
