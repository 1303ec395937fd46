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
	"math"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/pkg/errors"
)

// Label represents a potentially unresolved branch destination within a
// program under construction.
type Label struct {
	index uint
}

// Builder is responsible for constructing a program one instruction at a
// time.  Branches refer to labels, which can be bound before or after the
// branches referring to them.  Labels are resolved into targets when the
// program is built.
type Builder struct {
	function irep.Id
	code     []Instruction
	// Label bindings, where math.MaxUint indicates unbound.
	labels []uint
	// Label names (for error reporting)
	names []string
	// Instructions whose target field holds a label index.
	fixups []uint
	// Source labels to attach to the next instruction emitted.
	pending []string
}

// NewBuilder constructs an empty builder for the body of a given function.
func NewBuilder(function irep.Id) *Builder {
	return &Builder{function: function}
}

// PC returns the index of the next instruction to be emitted.
func (p *Builder) PC() uint {
	return uint(len(p.code))
}

// NewLabel creates a fresh unbound label.  The name is used only for
// reporting unbound labels.
func (p *Builder) NewLabel(name string) Label {
	p.labels = append(p.labels, math.MaxUint)
	p.names = append(p.names, name)
	//
	return Label{uint(len(p.labels) - 1)}
}

// Bind a given label to the next instruction to be emitted.  Binding a label
// twice is an error.
func (p *Builder) Bind(label Label) {
	if p.labels[label.index] != math.MaxUint {
		panic("label " + p.names[label.index] + " already bound")
	}
	//
	p.labels[label.index] = p.PC()
}

// IsBound checks whether a given label has been bound.
func (p *Builder) IsBound(label Label) bool {
	return p.labels[label.index] != math.MaxUint
}

// AttachLabel attaches a source label to the next instruction emitted.
func (p *Builder) AttachLabel(name string) {
	p.pending = append(p.pending, name)
}

// Emit a non-branching instruction, returning its index.  The target of the
// given instruction is ignored and a missing guard defaults to true.
func (p *Builder) Emit(insn Instruction) uint {
	insn.Target = NoTarget
	//
	return p.emit(insn)
}

// Goto emits a branch to a given label which is taken when the guard holds,
// returning its index.
func (p *Builder) Goto(guard expr.Expr, label Label, loc symbol.Location) uint {
	pc := p.emit(Instruction{Type: GOTO, Guard: guard, Target: Target(label.index), Location: loc})
	p.fixups = append(p.fixups, pc)
	//
	return pc
}

func (p *Builder) emit(insn Instruction) uint {
	var pc = p.PC()
	//
	if insn.Guard == nil {
		insn.Guard = expr.True()
	}
	//
	if len(p.pending) > 0 {
		insn.Labels = append(insn.Labels, p.pending...)
		p.pending = nil
	}
	//
	p.code = append(p.code, insn)
	//
	return pc
}

// Build resolves all labels and returns the completed program.  This fails
// if any branch refers to an unbound label, or the resulting program is
// malformed.
func (p *Builder) Build() (*Program, error) {
	var code = cloneCode(p.code)
	//
	for _, pc := range p.fixups {
		label := uint(code[pc].Target)
		//
		if p.labels[label] == math.MaxUint {
			return nil, errors.Wrapf(ErrMalformed, "%s[%d] branches to unbound label %s", p.function.String(), pc,
				p.names[label])
		}
		//
		code[pc].Target = Target(p.labels[label])
	}
	//
	program := newProgram(p.function, code)
	//
	if err := program.Validate(); err != nil {
		return nil, err
	}
	//
	return program, nil
}
