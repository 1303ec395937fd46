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

import "github.com/pkg/errors"

// Expand rewrites a program by replacing each instruction with a (possibly
// empty) sequence of instructions.  Targets within replacement instructions
// are given in terms of the original program.  Branches to an instruction
// land on the first instruction of its replacement or, when the replacement
// is empty, on whatever follows it.  Likewise, source labels of a dropped
// instruction move to whatever follows it.
func Expand(p *Program, fn func(pc uint, insn Instruction) []Instruction) (*Program, error) {
	var (
		ncode   []Instruction
		starts  = make([]uint, len(p.code)+1)
		pending []string
	)
	//
	if err := p.check(); err != nil {
		return nil, err
	}
	//
	for pc := range p.code {
		starts[pc] = uint(len(ncode))
		//
		for _, insn := range fn(uint(pc), p.code[pc].Clone()) {
			if len(pending) > 0 {
				insn.Labels = append(pending, insn.Labels...)
				pending = nil
			}
			//
			ncode = append(ncode, insn)
		}
		//
		if starts[pc] == uint(len(ncode)) {
			pending = append(pending, p.code[pc].Labels...)
		}
	}
	//
	starts[len(p.code)] = uint(len(ncode))
	// Retarget branches
	for i := range ncode {
		if t := ncode[i].Target; t != NoTarget {
			if uint(t) >= uint(len(p.code)) {
				return nil, errDangling(p, uint(i), t)
			} else if starts[t] >= uint(len(ncode)) {
				// branch to an instruction dropped from the end
				return nil, errDangling(p, uint(i), t)
			}
			//
			ncode[i].Target = Target(starts[t])
		}
	}
	//
	return newProgram(p.function, ncode), nil
}

func errDangling(p *Program, pc uint, target Target) error {
	return errors.Wrapf(ErrDanglingTarget, "%s[%d] branches to %d", p.function.String(), pc, target)
}
