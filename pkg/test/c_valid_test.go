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

	"github.com/consensys/go-gotoprog/pkg/test/util"
)

// ===================================================================
// Basic Tests
// ===================================================================

func Test_Valid_Abs_01(t *testing.T) {
	util.CheckValid(t, "c/valid/abs_01")
}

func Test_Valid_Sum_01(t *testing.T) {
	util.CheckValid(t, "c/valid/sum_01")
}

func Test_Valid_Control_01(t *testing.T) {
	util.CheckValid(t, "c/valid/control_01")
}

// ===================================================================
// Options
// ===================================================================

func Test_Valid_Overflow_01(t *testing.T) {
	util.CheckValid(t, "c/valid/overflow_01")
}

func Test_Valid_Overflow_02(t *testing.T) {
	util.CheckValid(t, "c/valid/overflow_02")
}

func Test_Valid_Overflow_03(t *testing.T) {
	util.CheckValid(t, "c/valid/overflow_03")
}

func Test_Valid_ByteOrder_01(t *testing.T) {
	util.CheckValid(t, "c/valid/byte_order_01")
}

func Test_Valid_Unwind_01(t *testing.T) {
	util.CheckValid(t, "c/valid/unwind_01")
}
