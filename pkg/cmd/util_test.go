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
package cmd

import (
	"testing"

	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/stretchr/testify/assert"
)

func Test_ParseInputs(t *testing.T) {
	inputs := ParseInputs([]string{"1", " -2", "0x10", "010"})
	//
	assert.Len(t, inputs, 4)
	assert.Equal(t, "1", inputs[0].String())
	assert.Equal(t, "-2", inputs[1].String())
	assert.Equal(t, "16", inputs[2].String())
	assert.Equal(t, "8", inputs[3].String())
}

func Test_FunctionId(t *testing.T) {
	assert.Equal(t, "c::main", functionId("main").String())
	assert.Equal(t, "c::f", functionId("c::f").String())
	assert.Equal(t, "__ESBMC_main", functionId("__ESBMC_main").String())
}

func Test_KindOf(t *testing.T) {
	assert.Equal(t, "function", kindOf(&symbol.Symbol{IsFunction: true}))
	assert.Equal(t, "parameter", kindOf(&symbol.Symbol{IsParameter: true}))
	assert.Equal(t, "static", kindOf(&symbol.Symbol{StaticLifetime: true}))
	assert.Equal(t, "local", kindOf(&symbol.Symbol{}))
}
