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
package expr

import (
	"github.com/consensys/go-gotoprog/pkg/irep"
)

// True returns the boolean constant true.
func True() *Constant {
	return NewConstant(1, Bool())
}

// False returns the boolean constant false.
func False() *Constant {
	return NewConstant(0, Bool())
}

// IsTrue checks whether a given expression is the constant true.
func IsTrue(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.DataType.IsBool() && c.Value.Sign() != 0
}

// IsFalse checks whether a given expression is the constant false.
func IsFalse(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.DataType.IsBool() && c.Value.Sign() == 0
}

// Negate returns the logical negation of a condition, simplifying where this
// is immediate (constants, double negation and comparisons).
func Negate(e Expr) Expr {
	switch e := e.(type) {
	case *Not:
		return e.Arg
	case *Cmp:
		return e.Negate()
	case *Constant:
		if IsTrue(e) {
			return False()
		} else if IsFalse(e) {
			return True()
		}
	}
	//
	return &Not{e}
}

// And constructs the conjunction of zero or more conditions.
func And(args ...Expr) Expr {
	return logical(AND, args)
}

// Or constructs the disjunction of zero or more conditions.
func Or(args ...Expr) Expr {
	return logical(OR, args)
}

func logical(op LogicalOp, args []Expr) Expr {
	var nargs []Expr
	//
	for _, arg := range args {
		switch {
		case op == AND && IsTrue(arg), op == OR && IsFalse(arg):
			continue
		case op == AND && IsFalse(arg):
			return False()
		case op == OR && IsTrue(arg):
			return True()
		}
		//
		nargs = append(nargs, arg)
	}
	//
	switch {
	case len(nargs) == 0 && op == AND:
		return True()
	case len(nargs) == 0:
		return False()
	case len(nargs) == 1:
		return nargs[0]
	}
	//
	return &Logical{op, nargs}
}

// Symbols returns the set of symbols read by a given expression, in order of
// first occurrence.
func Symbols(e Expr) []irep.Id {
	var (
		ids  []irep.Id
		seen = make(map[irep.Id]bool)
	)
	//
	Walk(e, func(e Expr) {
		if s, ok := e.(*Symbol); ok && !seen[s.Id] {
			seen[s.Id] = true
			ids = append(ids, s.Id)
		}
	})
	//
	return ids
}

// Walk visits every subexpression of a given expression in pre-order.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	//
	fn(e)
	//
	switch e := e.(type) {
	case *Unary:
		Walk(e.Arg, fn)
	case *Not:
		Walk(e.Arg, fn)
	case *Binary:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *Cmp:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *Logical:
		for _, arg := range e.Args {
			Walk(arg, fn)
		}
	case *If:
		Walk(e.Cond, fn)
		Walk(e.Then, fn)
		Walk(e.Else, fn)
	case *Typecast:
		Walk(e.Arg, fn)
	}
}

// HasNondet checks whether a given expression contains a nondet.
func HasNondet(e Expr) bool {
	var found bool
	//
	Walk(e, func(e Expr) {
		if _, ok := e.(*Nondet); ok {
			found = true
		}
	})
	//
	return found
}
