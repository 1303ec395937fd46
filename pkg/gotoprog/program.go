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
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/pkg/errors"
)

// Tracks whether the function table owning a set of programs is still live.
type lifetime struct {
	released atomic.Bool
}

// Program is an immutable sequence of instructions making up the body of a
// single function.  Branch targets are indices into this sequence.  Once the
// function table owning a program is released, every query on it fails with
// ErrSessionClosed.
type Program struct {
	function irep.Id
	code     []Instruction
	owner    *lifetime
}

// Construct a program from a given instruction sequence, taking ownership of
// it and assigning target numbers.
func newProgram(function irep.Id, code []Instruction) *Program {
	numberTargets(code)
	//
	return &Program{function, code, nil}
}

// Function returns the identifier of the function whose body this is.
func (p *Program) Function() irep.Id {
	return p.function
}

// Len returns the number of instructions in this program.
func (p *Program) Len() uint {
	return uint(len(p.code))
}

// At returns (a copy of) the instruction at a given index.
func (p *Program) At(pc uint) (*Instruction, error) {
	if err := p.check(); err != nil {
		return nil, err
	} else if pc >= p.Len() {
		return nil, errors.Wrapf(ErrOutOfRange, "%s[%d] (length %d)", p.function.String(), pc, p.Len())
	}
	//
	insn := p.code[pc].Clone()
	//
	return &insn, nil
}

// Instructions returns (a copy of) the instruction sequence.
func (p *Program) Instructions() ([]Instruction, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	//
	return cloneCode(p.code), nil
}

// TargetOf resolves the branch destination of the instruction at a given
// index.  The flag returned is false when that instruction does not branch.
func (p *Program) TargetOf(pc uint) (uint, bool, error) {
	insn, err := p.At(pc)
	//
	switch {
	case err != nil:
		return 0, false, err
	case !insn.HasTarget():
		return 0, false, nil
	case uint(insn.Target) >= p.Len():
		return 0, false, errors.Wrapf(ErrDanglingTarget, "%s[%d] branches to %d", p.function.String(), pc,
			insn.Target)
	}
	//
	return uint(insn.Target), true, nil
}

// Targets returns the indices of all instructions which branch.
func (p *Program) Targets() ([]uint, error) {
	var pcs []uint
	//
	if err := p.check(); err != nil {
		return nil, err
	}
	//
	for pc := range p.code {
		if p.code[pc].HasTarget() {
			pcs = append(pcs, uint(pc))
		}
	}
	//
	return pcs, nil
}

// Incoming returns the indices of all instructions which branch to the
// instruction at a given index.
func (p *Program) Incoming(pc uint) ([]uint, error) {
	var pcs []uint
	//
	if err := p.check(); err != nil {
		return nil, err
	} else if pc >= p.Len() {
		return nil, errors.Wrapf(ErrOutOfRange, "%s[%d] (length %d)", p.function.String(), pc, p.Len())
	}
	//
	for i := range p.code {
		if p.code[i].Target == Target(pc) {
			pcs = append(pcs, uint(i))
		}
	}
	//
	return pcs, nil
}

// Validate checks this program is well-formed.  Specifically, only GOTO
// instructions branch, every branch lands inside the program, and the
// program ends with END_FUNCTION.
func (p *Program) Validate() error {
	var n = p.Len()
	//
	if err := p.check(); err != nil {
		return err
	} else if n == 0 || p.code[n-1].Type != END_FUNCTION {
		return errors.Wrapf(ErrMalformed, "%s does not end with END_FUNCTION", p.function.String())
	}
	//
	for pc, insn := range p.code {
		switch {
		case insn.Type == GOTO && !insn.HasTarget():
			return errors.Wrapf(ErrMalformed, "%s[%d] is a GOTO without target", p.function.String(), pc)
		case insn.Type != GOTO && insn.HasTarget():
			return errors.Wrapf(ErrMalformed, "%s[%d] is a %s with a target", p.function.String(), pc,
				insn.Type.String())
		case insn.HasTarget() && uint(insn.Target) >= n:
			return errors.Wrapf(ErrDanglingTarget, "%s[%d] branches to %d", p.function.String(), pc, insn.Target)
		case insn.Type == END_FUNCTION && uint(pc) != n-1:
			return errors.Wrapf(ErrMalformed, "%s[%d] is END_FUNCTION before end", p.function.String(), pc)
		}
	}
	//
	return nil
}

// Output writes this program in goto-instrument style.  Each instruction is
// preceded by a comment giving its location number and source location, and
// branch destinations are labelled with their target numbers.
func (p *Program) Output(w io.Writer) error {
	if err := p.check(); err != nil {
		return err
	}
	//
	for _, insn := range p.code {
		var line strings.Builder
		// location comment
		fmt.Fprintf(&line, "        // %d", insn.LocationNumber)
		//
		if loc := insn.Location.String(); loc != "" {
			fmt.Fprintf(&line, " %s", loc)
		}
		//
		line.WriteString("\n")
		// labels
		for _, label := range insn.Labels {
			fmt.Fprintf(&line, "        %s:\n", label)
		}
		//
		if insn.IsTarget() {
			fmt.Fprintf(&line, "%6d: ", insn.TargetNumber)
		} else {
			line.WriteString("        ")
		}
		//
		line.WriteString(insn.format(p.targetNumber))
		line.WriteString("\n")
		//
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *Program) targetNumber(t Target) uint {
	if uint(t) < p.Len() {
		return p.code[t].TargetNumber
	}
	//
	return uint(t)
}

func (p *Program) check() error {
	if p.owner != nil && p.owner.released.Load() {
		return errors.Wrapf(ErrSessionClosed, "%s", p.function.String())
	}
	//
	return nil
}

// Assign target numbers to all branch destinations, in order of appearance.
func numberTargets(code []Instruction) {
	var targets = make([]bool, len(code))
	//
	for _, insn := range code {
		if insn.HasTarget() && uint(insn.Target) < uint(len(code)) {
			targets[insn.Target] = true
		}
	}
	//
	n := uint(1)
	//
	for i := range code {
		if targets[i] {
			code[i].TargetNumber = n
			n++
		} else {
			code[i].TargetNumber = 0
		}
	}
}

func cloneCode(code []Instruction) []Instruction {
	var ncode = slices.Clone(code)
	//
	for i := range ncode {
		ncode[i].Labels = slices.Clone(code[i].Labels)
	}
	//
	return ncode
}
