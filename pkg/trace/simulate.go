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
	"context"
	"fmt"
	"math/big"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DEFAULT_MAX_STEPS bounds the number of instructions executed by a
// simulation, unless otherwise configured.
const DEFAULT_MAX_STEPS = 100_000

// Outcome describes how a simulation ended.
type Outcome uint8

const (
	// COMPLETED indicates the entry function returned.
	COMPLETED Outcome = iota
	// VIOLATED indicates an assertion failed.
	VIOLATED
	// INFEASIBLE indicates an assumption failed.
	INFEASIBLE
	// BOUNDED indicates the step bound was reached.
	BOUNDED
)

var outcomeStrings = []string{"completed", "violated", "infeasible", "bounded"}

func (p Outcome) String() string {
	if int(p) < len(outcomeStrings) {
		return outcomeStrings[p]
	}
	//
	return fmt.Sprintf("unknown(%d)", p)
}

// Config determines how a simulation proceeds.
type Config struct {
	// Values returned by successive nondets.  Once exhausted, nondets return
	// zero.
	Inputs []*big.Int
	// Maximum number of instructions to execute (0 means the default).
	MaxSteps uint
	// Use unbounded integer arithmetic.
	Integer bool
}

// Frame is an activation of a function.
type frame struct {
	function irep.Id
	code     []gotoprog.Instruction
	pc       uint
	locals   map[irep.Id]*big.Int
	// Variable receiving the return value in the caller (or nil).
	lhs   *expr.Symbol
	value *big.Int
}

// Machine is the state of a simulation.
type machine struct {
	ns      symbol.Namespace
	funcs   *gotoprog.Functions
	config  Config
	globals map[irep.Id]*big.Int
	stack   []*frame
	inputs  []*big.Int
	trace   *Trace
}

// Simulate executes a program concretely from its entry point, recording a
// trace of the steps taken.  Simulation stops on a violated assertion, a
// failed assumption, on return from the entry point, or when the step bound
// is reached.  This is not a verifier: it explores exactly one path.
func Simulate(ctx context.Context, ns symbol.Namespace, funcs *gotoprog.Functions, config Config) (*Trace,
	Outcome, error) {
	var (
		m = &machine{ns: ns, funcs: funcs, config: config, globals: make(map[irep.Id]*big.Int),
			inputs: config.Inputs, trace: &Trace{Mode: "C"}}
		bound = config.MaxSteps
	)
	//
	if bound == 0 {
		bound = DEFAULT_MAX_STEPS
	}
	//
	if err := m.call(funcs.MainId(), nil, nil); err != nil {
		return nil, COMPLETED, err
	}
	//
	for n := uint(0); len(m.stack) > 0; n++ {
		if n == bound {
			log.Debugf("simulation reached bound of %d steps", bound)
			return m.trace, BOUNDED, nil
		} else if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, COMPLETED, err
			}
		}
		//
		outcome, done, err := m.step()
		if err != nil {
			return nil, COMPLETED, err
		} else if done {
			log.Debugf("simulation %s after %d steps", outcome, n+1)
			return m.trace, outcome, nil
		}
	}
	//
	return m.trace, COMPLETED, nil
}

// Execute the current instruction, returning true when simulation must stop.
func (p *machine) step() (Outcome, bool, error) {
	var (
		top  = p.stack[len(p.stack)-1]
		insn = &top.code[top.pc]
		pc   = PC{top.function, top.pc}
	)
	//
	top.pc++
	//
	switch insn.Type {
	case gotoprog.GOTO:
		holds, err := p.holds(insn.Guard)
		if err != nil {
			return COMPLETED, false, err
		} else if holds {
			top.pc = uint(insn.Target)
		}
	case gotoprog.ASSUME, gotoprog.ASSERT:
		holds, err := p.holds(insn.Guard)
		if err != nil {
			return COMPLETED, false, err
		}
		//
		kind := ASSUME
		if insn.Type == gotoprog.ASSERT {
			kind = ASSERT
		}
		//
		p.record(Step{Type: kind, PC: pc, Guard: holds, Comment: insn.Comment, Rhs: insn.Guard,
			Location: insn.Location})
		//
		if !holds && kind == ASSERT {
			return VIOLATED, true, nil
		} else if !holds {
			return INFEASIBLE, true, nil
		}
	case gotoprog.ASSIGN:
		code := insn.Code.(*gotoprog.Assign)
		//
		value, err := p.eval(code.Rhs)
		if err != nil {
			return COMPLETED, false, err
		}
		//
		p.assign(pc, insn, code.Lhs, code.Rhs, value)
	case gotoprog.DECL:
		code := insn.Code.(*gotoprog.Decl)
		// Locals start at zero
		top.locals[code.Symbol.Id] = big.NewInt(0)
	case gotoprog.DEAD:
		delete(top.locals, insn.Code.(*gotoprog.Dead).Symbol.Id)
	case gotoprog.OTHER:
		if code, ok := insn.Code.(*gotoprog.Output); ok {
			var args []*big.Int
			//
			for _, arg := range code.Arguments {
				v, err := p.eval(arg)
				if err != nil {
					return COMPLETED, false, err
				}
				//
				args = append(args, v)
			}
			//
			p.record(Step{Type: OUTPUT, PC: pc, FormatString: code.Format, OutputArgs: args,
				Location: insn.Location})
		}
	case gotoprog.FUNCTION_CALL:
		code := insn.Code.(*gotoprog.FunctionCall)
		//
		args := make([]*big.Int, len(code.Arguments))
		//
		for i, arg := range code.Arguments {
			v, err := p.eval(arg)
			if err != nil {
				return COMPLETED, false, err
			}
			//
			args[i] = v
		}
		//
		if err := p.call(code.Function, code.Lhs, args); err != nil {
			return COMPLETED, false, err
		}
	case gotoprog.RETURN:
		if code, ok := insn.Code.(*gotoprog.Return); ok && code.Value != nil {
			v, err := p.eval(code.Value)
			if err != nil {
				return COMPLETED, false, err
			}
			//
			top.value = v
		}
	case gotoprog.END_FUNCTION:
		p.stack = p.stack[:len(p.stack)-1]
		//
		if len(p.stack) == 0 {
			return COMPLETED, true, nil
		} else if top.lhs != nil {
			caller := p.stack[len(p.stack)-1]
			value := top.value
			//
			if value == nil {
				value = big.NewInt(0)
			}
			//
			p.assign(PC{caller.function, caller.pc - 1}, &caller.code[caller.pc-1], top.lhs, nil, value)
		}
	case gotoprog.THROW, gotoprog.CATCH, gotoprog.THROW_DECL:
		return COMPLETED, false, errors.Errorf("cannot simulate %s at %s", insn.Type, pc)
	}
	//
	return COMPLETED, false, nil
}

// Invoke a given function.  A function without a body returns a
// nondeterministic value.
func (p *machine) call(id irep.Id, lhs *expr.Symbol, args []*big.Int) error {
	fn, err := p.funcs.Lookup(id)
	if err != nil {
		return err
	}
	//
	if !fn.BodyAvailable() {
		if lhs != nil {
			top := p.stack[len(p.stack)-1]
			p.assign(PC{top.function, top.pc - 1}, &top.code[top.pc-1], lhs, nil, p.Nondet(lhs.DataType))
		}
		//
		return nil
	}
	//
	code, err := fn.Body().Instructions()
	if err != nil {
		return err
	}
	//
	callee := &frame{function: id, code: code, locals: make(map[irep.Id]*big.Int), lhs: lhs}
	p.stack = append(p.stack, callee)
	// Bind parameters
	for i, param := range fn.Signature().Parameters {
		sym, err := p.ns.Lookup(param)
		if err != nil {
			return err
		} else if i < len(args) {
			p.assign(PC{id, 0}, &code[0], sym.Expr(), nil, args[i])
		}
	}
	//
	return nil
}

// Assign a value to a variable and record the corresponding step.
func (p *machine) assign(pc PC, insn *gotoprog.Instruction, lhs *expr.Symbol, rhs expr.Expr, value *big.Int) {
	if !p.config.Integer || lhs.DataType.IsBool() {
		value = expr.Normalise(value, lhs.DataType)
	}
	//
	if sym, err := p.ns.Lookup(lhs.Id); err == nil && sym.StaticLifetime {
		p.globals[lhs.Id] = value
	} else {
		p.stack[len(p.stack)-1].locals[lhs.Id] = value
	}
	//
	p.record(Step{Type: ASSIGNMENT, PC: pc, Lhs: lhs, OriginalLhs: lhs, Rhs: rhs, Value: new(big.Int).Set(value),
		Location: insn.Location})
}

func (p *machine) record(step Step) {
	for _, f := range p.stack {
		step.StackTrace = append(step.StackTrace, PC{f.function, f.pc})
	}
	//
	p.trace.Append(step)
}

func (p *machine) eval(e expr.Expr) (*big.Int, error) {
	ev := expr.Evaluator{Env: p, Integer: p.config.Integer}
	//
	return ev.Eval(e)
}

func (p *machine) holds(e expr.Expr) (bool, error) {
	ev := expr.Evaluator{Env: p, Integer: p.config.Integer}
	//
	return ev.Holds(e)
}

// Read implementation for expr.Environment interface.
func (p *machine) Read(id irep.Id) (*big.Int, error) {
	if len(p.stack) > 0 {
		if v, ok := p.stack[len(p.stack)-1].locals[id]; ok {
			return v, nil
		}
	}
	//
	if v, ok := p.globals[id]; ok {
		return v, nil
	} else if sym, err := p.ns.Lookup(id); err != nil {
		return nil, err
	} else if sym.StaticLifetime && sym.Value != nil {
		return p.eval(sym.Value)
	}
	//
	return nil, errors.Errorf("read of undeclared variable %s", id.String())
}

// Nondet implementation for expr.Environment interface.
func (p *machine) Nondet(datatype expr.Type) *big.Int {
	if len(p.inputs) == 0 {
		return big.NewInt(0)
	}
	//
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	//
	return new(big.Int).Set(v)
}
