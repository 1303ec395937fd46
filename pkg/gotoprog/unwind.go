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
	"fmt"
	"slices"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/pkg/errors"
)

// Loop identifies a natural loop of a program, whose head is the target of
// one or more backwards GOTOs, the last of which is located at End.
type Loop struct {
	Head uint
	End  uint
}

// Contains checks whether a given instruction index is within this loop.
func (p Loop) Contains(pc uint) bool {
	return p.Head <= pc && pc <= p.End
}

// Loops identifies all loops in a given program, ordered by their head.  Thus,
// enclosing loops precede the loops they contain.
func Loops(p *Program) ([]Loop, error) {
	var (
		loops []Loop
		index = make(map[uint]int)
	)
	//
	if err := p.check(); err != nil {
		return nil, err
	}
	//
	for pc := range p.code {
		insn := &p.code[pc]
		//
		if !insn.IsBackwardsGoto(uint(pc)) {
			continue
		}
		//
		head := uint(insn.Target)
		//
		if i, ok := index[head]; ok {
			loops[i].End = uint(pc)
		} else {
			index[head] = len(loops)
			loops = append(loops, Loop{head, uint(pc)})
		}
	}
	//
	slices.SortFunc(loops, func(l, r Loop) int { return int(l.Head) - int(r.Head) })
	//
	return loops, nil
}

// Unwind returns a loop-free program obtained by unrolling every loop of a
// given program k times.  Each unrolled loop is followed by an unwinding
// assertion which fails if more iterations were possible or, when assertions
// is false, an assumption which blocks them.  Unwinding zero times leaves the
// program unchanged.
func Unwind(p *Program, k uint, assertions bool) (*Program, error) {
	if k == 0 {
		return p, p.check()
	}
	//
	loops, err := Loops(p)
	if err != nil {
		return nil, err
	}
	// The loop with the greatest head contains no other loop, and unwinding
	// it leaves the heads of the remaining loops unchanged.
	for len(loops) > 0 {
		n := len(loops) - 1
		//
		if p, err = unwindLoop(p, loops[n], uint(n), k, assertions); err != nil {
			return nil, err
		} else if loops, err = Loops(p); err != nil {
			return nil, err
		} else if len(loops) > n {
			return nil, errors.Wrapf(ErrMalformed, "%s has an irreducible loop at %d", p.function.String(),
				loops[n].Head)
		}
	}
	//
	return p, nil
}

func unwindLoop(p *Program, loop Loop, id uint, k uint, assertions bool) (*Program, error) {
	var (
		n      = uint(len(p.code))
		length = loop.End - loop.Head + 1
		// Index of unwinding check
		check = loop.Head + k*length
		// Displacement of instructions after the loop
		shift = check + 1 - (loop.End + 1)
		ncode = make([]Instruction, 0, n+shift)
	)
	// Maps targets of instructions outside the loop
	remap := func(t Target) Target {
		if t == NoTarget || uint(t) <= loop.End {
			return t
		}
		//
		return Target(uint(t) + shift)
	}
	// Prefix
	for pc := uint(0); pc < loop.Head; pc++ {
		insn := p.code[pc].Clone()
		insn.Target = remap(insn.Target)
		ncode = append(ncode, insn)
	}
	// Copies of the body
	for i := uint(0); i < k; i++ {
		base := loop.Head + i*length
		//
		for pc := loop.Head; pc <= loop.End; pc++ {
			insn := p.code[pc].Clone()
			//
			switch {
			case !insn.HasTarget():
			case uint(insn.Target) == loop.Head && pc == loop.End:
				// Final back edge, which continues into the next copy or exits.
				guard := expr.Negate(insn.Guard)
				//
				if expr.IsFalse(guard) {
					insn = Instruction{Type: SKIP, Guard: expr.True(), Target: NoTarget, Location: insn.Location,
						Labels: insn.Labels}
				} else {
					insn.Guard = guard
					insn.Target = Target(loop.End + 1 + shift)
				}
			case uint(insn.Target) == loop.Head && insn.IsBackwardsGoto(pc):
				// Other back edges continue with the next copy.
				insn.Target = Target(base + length)
			case loop.Contains(uint(insn.Target)):
				insn.Target = Target(base + uint(insn.Target) - loop.Head)
			default:
				insn.Target = remap(insn.Target)
			}
			//
			ncode = append(ncode, insn)
		}
	}
	// Unwinding check
	ncode = append(ncode, unwindingCheck(p.code[loop.End].Location, id, assertions))
	// Suffix
	for pc := loop.End + 1; pc < n; pc++ {
		insn := p.code[pc].Clone()
		//
		insn.Target = remap(insn.Target)
		ncode = append(ncode, insn)
	}
	//
	return newProgram(p.function, ncode), nil
}

func unwindingCheck(loc symbol.Location, id uint, assertions bool) Instruction {
	var insn = Instruction{Guard: expr.False(), Target: NoTarget, Location: loc}
	//
	if assertions {
		insn.Type = ASSERT
		insn.Comment = fmt.Sprintf("unwinding assertion loop %d", id)
	} else {
		insn.Type = ASSUME
	}
	//
	return insn
}
