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
	"math"
	"slices"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/symbol"
)

// Target is a handle to an instruction within the program which contains it.
// Specifically, it is the index of that instruction.
type Target uint

// NoTarget indicates an instruction which does not branch.
const NoTarget = Target(math.MaxUint)

// Instruction is a single step of a goto program.  Instructions are plain
// values: modifying one obtained from a program does not affect that program.
type Instruction struct {
	Type Type
	// Condition under which a GOTO branches, or which an ASSUME / ASSERT
	// requires.  True for all other instructions.
	Guard expr.Expr
	// Statement payload (assignment, declaration, call, etc), or nil.
	Code Code
	// Branch destination, or NoTarget.
	Target Target
	// Source location of this instruction.
	Location symbol.Location
	// Property description, used for assertions.
	Comment string
	// Number unique across all instructions of a function table.
	LocationNumber uint
	// Number of this instruction as a branch destination, or 0 if nothing
	// branches here.
	TargetNumber uint
	// Source labels attached to this instruction.
	Labels []string
}

// Kind returns the type of this instruction.
func (p *Instruction) Kind() Type {
	return p.Type
}

// HasTarget checks whether this instruction branches.
func (p *Instruction) HasTarget() bool {
	return p.Target != NoTarget
}

// IsBackwardsGoto checks whether this instruction, located at a given index,
// is a branch to itself or to an earlier instruction.
func (p *Instruction) IsBackwardsGoto(pc uint) bool {
	return p.Type == GOTO && p.HasTarget() && uint(p.Target) <= pc
}

// IsTarget checks whether some branch lands on this instruction, as determined
// when target numbers were last assigned.
func (p *Instruction) IsTarget() bool {
	return p.TargetNumber != 0
}

// Clone returns a copy of this instruction which shares nothing mutable with
// it.
func (p *Instruction) Clone() Instruction {
	insn := *p
	insn.Labels = slices.Clone(p.Labels)
	//
	return insn
}

// String returns a goto-instrument style rendering of this instruction, where
// branch targets are shown as instruction indices.
func (p *Instruction) String() string {
	return p.format(func(t Target) uint { return uint(t) })
}

func (p *Instruction) format(target func(Target) uint) string {
	switch p.Type {
	case GOTO:
		if p.Guard == nil || expr.IsTrue(p.Guard) {
			return fmt.Sprintf("GOTO %d", target(p.Target))
		}
		//
		return fmt.Sprintf("IF %s THEN GOTO %d", p.Guard.String(), target(p.Target))
	case ASSUME, ASSERT:
		s := fmt.Sprintf("%s %s", p.Type.String(), p.Guard.String())
		//
		if p.Comment != "" {
			s = fmt.Sprintf("%s // %s", s, p.Comment)
		}
		//
		return s
	}
	//
	if p.Code == nil {
		return p.Type.String()
	}
	//
	switch p.Type {
	case ASSIGN, OTHER, FUNCTION_CALL:
		return p.Code.String()
	case DECL:
		return fmt.Sprintf("DECL %s", p.Code.String())
	case DEAD:
		return fmt.Sprintf("DEAD %s", p.Code.String())
	case RETURN:
		return fmt.Sprintf("RETURN: %s", p.Code.String())
	default:
		return p.Type.String()
	}
}
