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
package termio

import (
	"strings"
	"testing"

	"github.com/consensys/go-gotoprog/pkg/util/assert"
)

func Test_Table_01(t *testing.T) {
	var (
		table = NewTablePrinter("name", "type")
		out   strings.Builder
	)
	//
	table.AddRow("c::main::1::x", "signed int32")
	table.AddRow("c::g", "_Bool")
	//
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, uint(3), table.Height())
	assert.Equal(t, "name          | type\nc::main::1::x | signed int32\nc::g          | _Bool\n", out.String())
}

func Test_Table_02(t *testing.T) {
	var (
		table = NewTablePrinter("id", "value").SetMaxWidth(0, 6)
		out   strings.Builder
	)
	//
	table.AddRow("c::counter", "0")
	//
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, "id     | value\nc::c.. | 0\n", out.String())
}

func Test_Table_03(t *testing.T) {
	var (
		table = NewTablePrinter("id")
		out   strings.Builder
	)
	//
	table.SetEscape(0, 0, BoldAnsiEscape())
	table.AnsiEscapes(true)
	//
	assert.NoError(t, table.Print(&out))
	assert.Equal(t, "\033[1mid\033[0m\n", out.String())
}

func Test_Escape_01(t *testing.T) {
	var (
		bold = BoldAnsiEscape()
		red  = bold.FgColour(TERM_RED)
		blue = bold.FgColour(TERM_BLUE).BgColour(TERM_WHITE)
	)
	//
	assert.Equal(t, "\033[1m", bold.Build())
	assert.Equal(t, "\033[1;31m", red.Build())
	assert.Equal(t, "\033[1;34;47m", blue.Build())
	assert.Equal(t, "\033[1;31mx\033[0m", red.Wrap("x"))
}
