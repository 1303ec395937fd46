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
package trace

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
)

// StepType identifies the kind of a trace step.
type StepType uint8

const (
	// ASSIGNMENT records an update to a variable.
	ASSIGNMENT StepType = iota
	// ASSUME records an assumption being checked.
	ASSUME
	// ASSERT records an assertion being checked.
	ASSERT
	// OUTPUT records a call to printf.
	OUTPUT
)

var stepTypeStrings = []string{"ASSIGNMENT", "ASSUME", "ASSERT", "OUTPUT"}

func (p StepType) String() string {
	if int(p) < len(stepTypeStrings) {
		return stepTypeStrings[p]
	}
	//
	return fmt.Sprintf("UNKNOWN(%d)", p)
}

// PC identifies an instruction within a function table.
type PC struct {
	Function irep.Id
	Index    uint
}

func (p PC) String() string {
	return fmt.Sprintf("%s[%d]", p.Function.BaseName(), p.Index)
}

// Step is a single event of a trace.
type Step struct {
	// Position of this step within its trace (starting from 1)
	StepNr uint
	Type   StepType
	// Instruction which gave rise to this step
	PC PC
	// Thread executing this step (always 0)
	ThreadNr uint
	// Whether the guard held, for assumptions and assertions.
	Guard bool
	// Property description, for assertions.
	Comment string
	// Variable assigned, for assignments.
	Lhs *expr.Symbol
	// Expression assigned, or condition checked by an assumption or
	// assertion.
	Rhs expr.Expr
	// Value assigned, for assignments.
	Value *big.Int
	// Assigned variable as written in the source, which can differ from Lhs
	// for parameters bound by a call.
	OriginalLhs *expr.Symbol
	// Format and argument values, for outputs.
	FormatString string
	OutputArgs   []*big.Int
	// Call stack at this step, outermost first.
	StackTrace []PC
	// Source location of this step.
	Location symbol.Location
}

// Trace is the sequence of steps taken by an execution.
type Trace struct {
	Steps []Step
	// Language mode of the program
	Mode string
}

// Clear removes all steps from this trace.
func (p *Trace) Clear() {
	p.Steps = nil
}

// Append a step to this trace, assigning its step number.
func (p *Trace) Append(step Step) {
	step.StepNr = uint(len(p.Steps) + 1)
	p.Steps = append(p.Steps, step)
}

// Violation returns the violated assertion which ends this trace (if any).
func (p *Trace) Violation() (*Step, bool) {
	if n := len(p.Steps); n > 0 && p.Steps[n-1].Type == ASSERT && !p.Steps[n-1].Guard {
		return &p.Steps[n-1], true
	}
	//
	return nil, false
}

// Output writes every step of this trace, one or two lines per step.
func (p *Trace) Output(ns symbol.Namespace, w io.Writer) error {
	for _, step := range p.Steps {
		var detail string
		//
		switch step.Type {
		case ASSIGNMENT:
			detail = fmt.Sprintf("%s = %s", nameOf(ns, step.Lhs), formatValue(step.Value, step.Lhs.DataType))
		case ASSUME, ASSERT:
			detail = fmt.Sprintf("%t", step.Guard)
			//
			if step.Comment != "" {
				detail = fmt.Sprintf("%s // %s", detail, step.Comment)
			}
		case OUTPUT:
			detail = formatOutput(step.FormatString, step.OutputArgs)
		}
		//
		if _, err := fmt.Fprintf(w, "Step %d (%s) %s %s\n  %s\n", step.StepNr, step.Type, step.PC,
			step.Location, detail); err != nil {
			return err
		}
	}
	//
	return nil
}

// Determine the name of a variable as written in the source.
func nameOf(ns symbol.Namespace, sym *expr.Symbol) string {
	if s, err := ns.Lookup(sym.Id); err == nil && s.BaseName != "" {
		return s.BaseName
	}
	//
	return sym.Id.BaseName()
}
