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

// RemoveSkip returns a program with all SKIP instructions removed, along with
// any GOTO whose target is the instruction immediately following it.
// Branches to a removed instruction are redirected to the next remaining
// instruction.
func RemoveSkip(p *Program) (*Program, error) {
	return Expand(p, func(pc uint, insn Instruction) []Instruction {
		switch {
		case insn.Type == SKIP:
			return nil
		case insn.Type == GOTO && uint(insn.Target) == pc+1:
			return nil
		default:
			return []Instruction{insn}
		}
	})
}
