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
package test

import (
	"testing"

	"github.com/consensys/go-gotoprog/pkg/cfront"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/test/util"
	"github.com/consensys/go-gotoprog/pkg/util/source"
)

// ===================================================================
// Declarations
// ===================================================================

func Test_Invalid_Redeclared_01(t *testing.T) {
	checkInvalid(t, "c/invalid/redeclared_01")
}

func Test_Invalid_Redeclared_02(t *testing.T) {
	checkInvalid(t, "c/invalid/redeclared_02")
}

func Test_Invalid_Redefinition_01(t *testing.T) {
	checkInvalid(t, "c/invalid/redefinition_01")
}

func Test_Invalid_Conflicting_01(t *testing.T) {
	checkInvalid(t, "c/invalid/conflicting_01")
}

func Test_Invalid_Void_01(t *testing.T) {
	checkInvalid(t, "c/invalid/void_01")
}

func Test_Invalid_Initialiser_01(t *testing.T) {
	checkInvalid(t, "c/invalid/initialiser_01")
}

// ===================================================================
// Statements
// ===================================================================

func Test_Invalid_Break_01(t *testing.T) {
	checkInvalid(t, "c/invalid/break_01")
}

func Test_Invalid_Continue_01(t *testing.T) {
	checkInvalid(t, "c/invalid/continue_01")
}

func Test_Invalid_Label_01(t *testing.T) {
	checkInvalid(t, "c/invalid/label_01")
}

func Test_Invalid_Switch_01(t *testing.T) {
	checkInvalid(t, "c/invalid/switch_01")
}

func Test_Invalid_Return_01(t *testing.T) {
	checkInvalid(t, "c/invalid/return_01")
}

// ===================================================================
// Expressions
// ===================================================================

func Test_Invalid_Identifier_01(t *testing.T) {
	checkInvalid(t, "c/invalid/identifier_01")
}

func Test_Invalid_Call_01(t *testing.T) {
	checkInvalid(t, "c/invalid/call_01")
}

func Test_Invalid_Call_02(t *testing.T) {
	checkInvalid(t, "c/invalid/call_02")
}

func Test_Invalid_Lvalue_01(t *testing.T) {
	checkInvalid(t, "c/invalid/lvalue_01")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkInvalid(t *testing.T, test string) {
	util.CheckInvalid(t, test, compileC)
}

func compileC(opts *options.Options, srcfile *source.File) []source.SyntaxError {
	_, _, errors := cfront.Compile(opts, srcfile)
	//
	return errors
}
