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
	"strings"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AddRaceAssertions instruments every assignment involving shared variables
// (i.e. those with static lifetime) with data race checks.  Each shared
// variable written by an assignment is protected by a write guard, which is
// set before the assignment and reset after it.  Following the assignment,
// every shared variable it reads or writes is asserted to have no write guard
// set.  Write guards are added to the symbol table, and initialised to false
// at the start of the entry point.
func AddRaceAssertions(ctx *symbol.Context, funcs *Functions) (*Functions, error) {
	var (
		ns     = symbol.NewNamespace(ctx)
		guards = make(map[irep.Id]*symbol.Symbol)
		mainId = funcs.MainId()
		// First guard which clashes with an existing symbol
		clash error
	)
	// Determine (and create) the guard for a given variable.
	guardOf := func(id irep.Id) *expr.Symbol {
		if g, ok := guards[id]; ok {
			return g.Expr()
		}
		//
		name := guardName(id)
		g, existed := ctx.Move(symbol.Symbol{
			Id:             irep.Join("c", name),
			BaseName:       name,
			Type:           expr.Bool(),
			Mode:           "C",
			Value:          expr.False(),
			StaticLifetime: true,
		})
		//
		if existed && clash == nil {
			clash = errors.Errorf("race guard %s for %s clashes with an existing symbol", g.Id.String(), id.String())
		}
		//
		guards[id] = g
		//
		return g.Expr()
	}
	//
	instrumented, err := funcs.Map(func(p *Program) (*Program, error) {
		if p.function == mainId {
			return p, nil
		}
		//
		return Expand(p, func(_ uint, insn Instruction) []Instruction {
			if insn.Type != ASSIGN {
				return []Instruction{insn}
			}
			//
			var (
				reads  = sharedVariables(ns, insn.Code.Reads())
				writes = sharedVariables(ns, insn.Code.Writes())
				insns  []Instruction
			)
			//
			if len(reads) == 0 && len(writes) == 0 {
				return []Instruction{insn}
			}
			// set guards
			for _, w := range writes {
				insns = append(insns, guardAssignment(guardOf(w), true, insn))
			}
			// original, whose labels move to the start of the sequence
			if len(insns) > 0 {
				insns[0].Labels, insn.Labels = insn.Labels, nil
			}
			//
			insns = append(insns, insn)
			// reset guards
			for _, w := range writes {
				insns = append(insns, guardAssignment(guardOf(w), false, insn))
			}
			// assertions
			for _, w := range writes {
				insns = append(insns, raceAssertion(guardOf(w), "W/W", w, insn))
			}
			//
			for _, r := range reads {
				if !slices.Contains(writes, r) {
					insns = append(insns, raceAssertion(guardOf(r), "R/W", r, insn))
				}
			}
			//
			return insns
		})
	})
	//
	if err != nil {
		return nil, err
	} else if clash != nil {
		instrumented.Release()
		return nil, clash
	}
	//
	log.Debugf("added data race checks for %d shared variables", len(guards))
	//
	result, err := initialiseGuards(instrumented, guards)
	instrumented.Release()
	//
	return result, err
}

// Determine the name of the write guard for a given variable.  This is derived
// from the variable's full identifier (less its mode), so that a global "c::x"
// and a static local "c::f::1::x" have distinct guards.
func guardName(id irep.Id) string {
	var parts = id.Components()
	//
	if len(parts) > 1 && parts[0] == id.Mode() {
		parts = parts[1:]
	}
	//
	return "tmp_" + strings.Join(parts, "$")
}

// Insert initialisation of all guards at the start of the entry point.
func initialiseGuards(funcs *Functions, guards map[irep.Id]*symbol.Symbol) (*Functions, error) {
	var ids []irep.Id
	//
	for id := range guards {
		ids = append(ids, id)
	}
	//
	slices.SortFunc(ids, func(l, r irep.Id) int { return l.Cmp(r) })
	//
	return funcs.Map(func(p *Program) (*Program, error) {
		if p.function != funcs.MainId() || len(ids) == 0 {
			return p, nil
		}
		//
		return Expand(p, func(pc uint, insn Instruction) []Instruction {
			var insns []Instruction
			//
			if pc == 0 {
				for _, id := range ids {
					insns = append(insns, guardAssignment(guards[id].Expr(), false, insn))
				}
				// Move any labels onto the first instruction
				insns[0].Labels, insn.Labels = insn.Labels, nil
			}
			//
			return append(insns, insn)
		})
	})
}

// Identify those variables in a given set with static lifetime, ignoring
// duplicates.
func sharedVariables(ns symbol.Namespace, ids []irep.Id) []irep.Id {
	var shared []irep.Id
	//
	for _, id := range ids {
		if sym, err := ns.Lookup(id); err == nil && sym.StaticLifetime && !slices.Contains(shared, id) {
			shared = append(shared, id)
		}
	}
	//
	return shared
}

func guardAssignment(guard *expr.Symbol, value bool, at Instruction) Instruction {
	var rhs = expr.False()
	//
	if value {
		rhs = expr.True()
	}
	//
	return Instruction{Type: ASSIGN, Guard: expr.True(), Code: &Assign{guard, rhs}, Target: NoTarget,
		Location: at.Location}
}

func raceAssertion(guard *expr.Symbol, kind string, variable irep.Id, at Instruction) Instruction {
	return Instruction{
		Type:     ASSERT,
		Guard:    &expr.Not{Arg: guard},
		Target:   NoTarget,
		Location: at.Location,
		Comment:  fmt.Sprintf("%s data race on %s", kind, variable.BaseName()),
	}
}
